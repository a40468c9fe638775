package repository

import (
	"github.com/preseason-import/internal/models"

	"gorm.io/gorm"
)

// LocationRepository 门店数据访问接口（导入只读）
type LocationRepository interface {
	CodeIDMap() (map[string]uint, error)
	WithTx(tx *gorm.DB) LocationRepository
}

// GormLocationRepository GORM 实现
type GormLocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository 创建门店仓库
func NewLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLocationRepository) WithTx(tx *gorm.DB) LocationRepository {
	if tx == nil {
		return r
	}
	return &GormLocationRepository{db: tx}
}

// CodeIDMap 返回门店代码到 ID 的映射
func (r *GormLocationRepository) CodeIDMap() (map[string]uint, error) {
	var locations []models.Location
	if err := r.db.Find(&locations).Error; err != nil {
		return nil, err
	}
	result := make(map[string]uint, len(locations))
	for _, location := range locations {
		result[location.Code] = location.ID
	}
	return result, nil
}
