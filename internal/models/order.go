package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订货单表
type Order struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNumber  string         `gorm:"uniqueIndex;not null" json:"order_number"`                    // 订单编号，如 AUG25-PRA-SLC
	SeasonID     uint           `gorm:"index;not null" json:"season_id"`                             // 季节ID
	BrandID      uint           `gorm:"index;not null" json:"brand_id"`                              // 品牌ID
	LocationID   uint           `gorm:"index;not null" json:"location_id"`                           // 门店ID
	ShipDate     time.Time      `gorm:"index" json:"ship_date"`                                      // 预计发货日期
	OrderType    string         `gorm:"type:varchar(20);not null" json:"order_type"`                 // 订单类型（preseason）
	Status       string         `gorm:"index;not null" json:"status"`                                // 订单状态
	CreatedBy    uint           `gorm:"not null" json:"created_by"`                                  // 创建人ID
	CurrentTotal Money          `gorm:"type:decimal(20,2);not null;default:0" json:"current_total"`  // 当前订单总额
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	Season   Season      `gorm:"foreignKey:SeasonID" json:"season,omitempty"`     // 季节信息
	Brand    Brand       `gorm:"foreignKey:BrandID" json:"brand,omitempty"`       // 品牌信息
	Location Location    `gorm:"foreignKey:LocationID" json:"location,omitempty"` // 门店信息
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`       // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
