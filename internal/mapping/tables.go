package mapping

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// 映射文件错误
var (
	ErrNoBrands      = errors.New("mapping file has no brand entries")
	ErrNoLocations   = errors.New("mapping file has no location entries")
	ErrNoShipPeriods = errors.New("mapping file has no ship period entries")
)

const shipDateLayout = "2006-01-02"

// ShipPeriodEntry 船期条目：发货日期 + 订单编号 token
type ShipPeriodEntry struct {
	Date  string `yaml:"date"`  // 发货日期（YYYY-MM-DD）
	Token string `yaml:"token"` // 订单编号中的月份 token，如 AUG
}

// tablesFile 映射数据文件的原始结构
type tablesFile struct {
	Version           int                        `yaml:"version"`
	YearSuffix        string                     `yaml:"year_suffix"`
	Brands            map[string]string          `yaml:"brands"`
	Locations         map[string]string          `yaml:"locations"`
	ShipPeriods       map[string]ShipPeriodEntry `yaml:"ship_periods"`
	DefaultShipPeriod ShipPeriodEntry            `yaml:"default_ship_period"`
}

// ShipPeriod 解析后的船期
type ShipPeriod struct {
	Date  time.Time
	Token string
}

// Tables 标签映射表：表格侧写法到数据库侧规范值的固定枚举。
// 操作者根据 WARNING 输出扩充数据文件后重跑，而不是依赖模糊匹配。
type Tables struct {
	Version           int
	YearSuffix        string
	Brands            map[string]string // 表格品牌写法 -> 规范品牌名
	Locations         map[string]string // 表格门店写法 -> 门店代码
	ShipPeriods       map[string]ShipPeriod
	DefaultShipPeriod ShipPeriod
}

// LoadTables 从 YAML 数据文件加载映射表
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	var raw tablesFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse mapping file %s: %w", path, err)
	}
	if len(raw.Brands) == 0 {
		return nil, ErrNoBrands
	}
	if len(raw.Locations) == 0 {
		return nil, ErrNoLocations
	}
	if len(raw.ShipPeriods) == 0 {
		return nil, ErrNoShipPeriods
	}

	tables := &Tables{
		Version:     raw.Version,
		YearSuffix:  strings.TrimSpace(raw.YearSuffix),
		Brands:      make(map[string]string, len(raw.Brands)),
		Locations:   make(map[string]string, len(raw.Locations)),
		ShipPeriods: make(map[string]ShipPeriod, len(raw.ShipPeriods)),
	}
	for variant, canonical := range raw.Brands {
		tables.Brands[strings.TrimSpace(variant)] = strings.TrimSpace(canonical)
	}
	for variant, code := range raw.Locations {
		tables.Locations[strings.TrimSpace(variant)] = strings.TrimSpace(code)
	}
	for label, entry := range raw.ShipPeriods {
		period, err := parseShipPeriod(entry)
		if err != nil {
			return nil, fmt.Errorf("ship period %q: %w", label, err)
		}
		tables.ShipPeriods[strings.TrimSpace(label)] = period
	}
	defaultPeriod, err := parseShipPeriod(raw.DefaultShipPeriod)
	if err != nil {
		return nil, fmt.Errorf("default ship period: %w", err)
	}
	tables.DefaultShipPeriod = defaultPeriod
	return tables, nil
}

func parseShipPeriod(entry ShipPeriodEntry) (ShipPeriod, error) {
	token := strings.ToUpper(strings.TrimSpace(entry.Token))
	if token == "" {
		return ShipPeriod{}, errors.New("token is empty")
	}
	date, err := time.Parse(shipDateLayout, strings.TrimSpace(entry.Date))
	if err != nil {
		return ShipPeriod{}, fmt.Errorf("bad date %q: %w", entry.Date, err)
	}
	return ShipPeriod{Date: date, Token: token}, nil
}
