package models

import "time"

// Brand 品牌表（导入只读，不由导入创建）
type Brand struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	Name      string    `gorm:"uniqueIndex;not null" json:"name"` // 品牌名称
	CreatedAt time.Time `json:"created_at"`                       // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (Brand) TableName() string {
	return "brands"
}
