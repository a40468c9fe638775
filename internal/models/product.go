package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表，UPC 为自然唯一键
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                        // 主键
	UPC           string         `gorm:"column:upc;uniqueIndex;not null" json:"upc"`                  // UPC 条码
	Name          string         `gorm:"not null" json:"name"`                                        // 商品名称/描述
	SKU           string         `gorm:"column:sku" json:"sku"`                                       // 厂商货号
	Color         string         `json:"color"`                                                       // 颜色
	Size          string         `json:"size"`                                                        // 尺码
	WholesaleCost Money          `gorm:"type:decimal(20,2);not null;default:0" json:"wholesale_cost"` // 批发成本
	MSRP          Money          `gorm:"column:msrp;type:decimal(20,2);not null;default:0" json:"msrp"` // 建议零售价
	BrandID       uint           `gorm:"index;not null" json:"brand_id"`                              // 品牌ID
	SeasonID      uint           `gorm:"index;not null" json:"season_id"`                             // 引入季节ID
	Active        bool           `gorm:"default:true;index" json:"active"`                            // 是否在售
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	Brand  Brand  `gorm:"foreignKey:BrandID" json:"brand,omitempty"`   // 品牌信息
	Season Season `gorm:"foreignKey:SeasonID" json:"season,omitempty"` // 季节信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
