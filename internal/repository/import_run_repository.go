package repository

import (
	"time"

	"github.com/preseason-import/internal/models"

	"gorm.io/gorm"
)

// ImportRunRepository 导入运行记录数据访问接口
type ImportRunRepository interface {
	Create(run *models.ImportRun) error
	Finish(run *models.ImportRun, status string) error
}

// GormImportRunRepository GORM 实现
type GormImportRunRepository struct {
	db *gorm.DB
}

// NewImportRunRepository 创建导入运行记录仓库
func NewImportRunRepository(db *gorm.DB) *GormImportRunRepository {
	return &GormImportRunRepository{db: db}
}

// Create 新建运行记录
func (r *GormImportRunRepository) Create(run *models.ImportRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.Status = models.ImportRunStatusRunning
	return r.db.Create(run).Error
}

// Finish 落盘运行结果
func (r *GormImportRunRepository) Finish(run *models.ImportRun, status string) error {
	now := time.Now()
	run.Status = status
	run.FinishedAt = &now
	return r.db.Save(run).Error
}
