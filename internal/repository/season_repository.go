package repository

import (
	"errors"
	"strings"

	"github.com/preseason-import/internal/models"

	"gorm.io/gorm"
)

// SeasonRepository 季节数据访问接口
type SeasonRepository interface {
	GetOrCreateByName(name, status string) (*models.Season, error)
	WithTx(tx *gorm.DB) SeasonRepository
}

// GormSeasonRepository GORM 实现
type GormSeasonRepository struct {
	db *gorm.DB
}

// NewSeasonRepository 创建季节仓库
func NewSeasonRepository(db *gorm.DB) *GormSeasonRepository {
	return &GormSeasonRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSeasonRepository) WithTx(tx *gorm.DB) SeasonRepository {
	if tx == nil {
		return r
	}
	return &GormSeasonRepository{db: tx}
}

// GetOrCreateByName 按名称复用或创建季节
func (r *GormSeasonRepository) GetOrCreateByName(name, status string) (*models.Season, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("season name is empty")
	}
	var season models.Season
	err := r.db.Where("name = ?", name).First(&season).Error
	if err == nil {
		return &season, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	season = models.Season{Name: name, Status: status}
	if err := r.db.Create(&season).Error; err != nil {
		return nil, err
	}
	return &season, nil
}
