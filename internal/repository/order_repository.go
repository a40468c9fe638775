package repository

import (
	"github.com/preseason-import/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	CreateItems(items []models.OrderItem) error
	CountByNumberPrefix(prefix string) (int64, error)
	RecalculateTotals(seasonID uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// CreateItems 批量创建订单项
func (r *GormOrderRepository) CreateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// CountByNumberPrefix 统计编号前缀相同的订单数
func (r *GormOrderRepository) CountByNumberPrefix(prefix string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

// RecalculateTotals 重算指定季节全部订单的总额（无订单项时为 0）
func (r *GormOrderRepository) RecalculateTotals(seasonID uint) error {
	return r.db.Exec(`
		UPDATE orders
		SET current_total = COALESCE((
			SELECT SUM(line_total)
			FROM order_items
			WHERE order_items.order_id = orders.id
			  AND order_items.deleted_at IS NULL
		), 0)
		WHERE season_id = ? AND orders.deleted_at IS NULL
	`, seasonID).Error
}
