package models

import "time"

// Location 门店表（导入只读，不由导入创建）
type Location struct {
	ID        uint      `gorm:"primarykey" json:"id"`                             // 主键
	Name      string    `gorm:"not null" json:"name"`                             // 门店名称
	Code      string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"` // 门店短代码，如 SLC
	CreatedAt time.Time `json:"created_at"`                                       // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (Location) TableName() string {
	return "locations"
}
