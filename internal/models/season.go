package models

import "time"

// Season 订货季节表
type Season struct {
	ID        uint      `gorm:"primarykey" json:"id"`               // 主键
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`   // 季节名称，如 "Fall 2025"
	Status    string    `gorm:"not null;default:''" json:"status"`  // 季节状态
	CreatedAt time.Time `gorm:"index" json:"created_at"`            // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                         // 更新时间
}

// TableName 指定表名
func (Season) TableName() string {
	return "seasons"
}
