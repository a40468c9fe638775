package repository

import (
	"github.com/preseason-import/internal/models"

	"gorm.io/gorm"
)

// BrandRepository 品牌数据访问接口（导入只读）
type BrandRepository interface {
	NameIDMap() (map[string]uint, error)
	WithTx(tx *gorm.DB) BrandRepository
}

// GormBrandRepository GORM 实现
type GormBrandRepository struct {
	db *gorm.DB
}

// NewBrandRepository 创建品牌仓库
func NewBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBrandRepository) WithTx(tx *gorm.DB) BrandRepository {
	if tx == nil {
		return r
	}
	return &GormBrandRepository{db: tx}
}

// NameIDMap 返回品牌名到 ID 的映射
func (r *GormBrandRepository) NameIDMap() (map[string]uint, error) {
	var brands []models.Brand
	if err := r.db.Find(&brands).Error; err != nil {
		return nil, err
	}
	result := make(map[string]uint, len(brands))
	for _, brand := range brands {
		result[brand.Name] = brand.ID
	}
	return result, nil
}
