package repository

import (
	"errors"
	"fmt"

	"github.com/preseason-import/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	UPCIDMap() (map[string]uint, error)
	CreateOrGetByUPC(product *models.Product) (bool, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// UPCIDMap 返回已有 UPC 到商品 ID 的映射
func (r *GormProductRepository) UPCIDMap() (map[string]uint, error) {
	var products []models.Product
	if err := r.db.Select("id", "upc").Where("upc <> ''").Find(&products).Error; err != nil {
		return nil, err
	}
	result := make(map[string]uint, len(products))
	for _, product := range products {
		result[product.UPC] = product.ID
	}
	return result, nil
}

// CreateOrGetByUPC 按 UPC 创建商品；已存在时回退为读取现有记录。
// 返回值表示本次是否真正新建。
func (r *GormProductRepository) CreateOrGetByUPC(product *models.Product) (bool, error) {
	if product == nil || product.UPC == "" {
		return false, errors.New("product upc is empty")
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "upc"}},
		DoNothing: true,
	}).Create(product)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}
	// 冲突视为良性竞争，沿用已存在的商品
	var existing models.Product
	if err := r.db.Where("upc = ?", product.UPC).First(&existing).Error; err != nil {
		return false, fmt.Errorf("resolve existing product upc=%s: %w", product.UPC, err)
	}
	*product = existing
	return false, nil
}
