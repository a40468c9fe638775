package models

import "time"

// 导入运行状态常量
const (
	ImportRunStatusRunning   = "running"
	ImportRunStatusSucceeded = "succeeded"
	ImportRunStatusFailed    = "failed"
)

// ImportRun 导入运行记录表（事务外写入，失败的运行也可追溯）
type ImportRun struct {
	ID              uint       `gorm:"primarykey" json:"id"`                          // 主键
	RunID           string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"run_id"` // 运行唯一标识（UUID）
	SourceFile      string     `gorm:"not null" json:"source_file"`                   // 导入的 Excel 文件
	Sheet           string     `json:"sheet"`                                         // 工作表名
	SeasonName      string     `gorm:"index;not null" json:"season_name"`             // 季节名称
	Status          string     `gorm:"index;not null" json:"status"`                  // 运行状态
	RowsLoaded      int        `gorm:"not null;default:0" json:"rows_loaded"`         // 读取行数
	RowsKept        int        `gorm:"not null;default:0" json:"rows_kept"`           // 清洗后行数
	ProductsCreated int        `gorm:"not null;default:0" json:"products_created"`    // 新建商品数
	OrdersCreated   int        `gorm:"not null;default:0" json:"orders_created"`      // 新建订单数
	ItemsAdded      int        `gorm:"not null;default:0" json:"items_added"`         // 新增订单项数
	ItemsSkipped    int        `gorm:"not null;default:0" json:"items_skipped"`       // 跳过行数
	Error           string     `json:"error,omitempty"`                               // 失败原因
	StartedAt       time.Time  `gorm:"index" json:"started_at"`                       // 开始时间
	FinishedAt      *time.Time `json:"finished_at"`                                   // 结束时间
	CreatedAt       time.Time  `json:"created_at"`                                    // 创建时间
	UpdatedAt       time.Time  `json:"updated_at"`                                    // 更新时间
}

// TableName 指定表名
func (ImportRun) TableName() string {
	return "import_runs"
}
