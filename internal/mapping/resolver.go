package mapping

import (
	"strings"
	"time"

	"github.com/preseason-import/internal/logger"
)

// Resolver 将表格侧标签解析为数据库规范 ID。
// 每次导入按当前映射表与数据库中的品牌/门店集合构建。
type Resolver struct {
	tables        *Tables
	brandIDs      map[string]uint   // 表格品牌写法 -> 品牌ID
	locationIDs   map[string]uint   // 表格门店写法 -> 门店ID
	locationCodes map[string]string // 表格门店写法 -> 门店代码
	warned        map[string]bool
}

// NewResolver 构建解析器；映射到数据库中不存在的规范值立即告警
func NewResolver(tables *Tables, dbBrands map[string]uint, dbLocations map[string]uint) *Resolver {
	r := &Resolver{
		tables:        tables,
		brandIDs:      make(map[string]uint, len(tables.Brands)),
		locationIDs:   make(map[string]uint, len(tables.Locations)),
		locationCodes: make(map[string]string, len(tables.Locations)),
		warned:        make(map[string]bool),
	}
	for variant, canonical := range tables.Brands {
		if id, ok := dbBrands[canonical]; ok {
			r.brandIDs[variant] = id
		} else {
			logger.Warnw("brand_not_in_database", "label", variant, "canonical", canonical)
		}
	}
	for variant, code := range tables.Locations {
		if id, ok := dbLocations[code]; ok {
			r.locationIDs[variant] = id
			r.locationCodes[variant] = code
		} else {
			logger.Warnw("location_not_in_database", "label", variant, "code", code)
		}
	}
	return r
}

// ResolveBrand 解析品牌标签；未映射时返回 false 并告警（每个标签只告警一次）
func (r *Resolver) ResolveBrand(label string) (uint, bool) {
	label = strings.TrimSpace(label)
	id, ok := r.brandIDs[label]
	if !ok {
		r.warnOnce("brand", label)
	}
	return id, ok
}

// ResolveLocation 解析门店标签，返回门店 ID 与代码
func (r *Resolver) ResolveLocation(label string) (uint, string, bool) {
	label = strings.TrimSpace(label)
	id, ok := r.locationIDs[label]
	if !ok {
		r.warnOnce("location", label)
		return 0, "", false
	}
	return id, r.locationCodes[label], true
}

// ResolveShipPeriod 解析船期标签；未映射时回退到默认船期，从不失败
func (r *Resolver) ResolveShipPeriod(label string) (time.Time, string) {
	label = strings.TrimSpace(label)
	if period, ok := r.tables.ShipPeriods[label]; ok {
		return period.Date, period.Token
	}
	r.warnOnce("ship_period", label)
	return r.tables.DefaultShipPeriod.Date, r.tables.DefaultShipPeriod.Token
}

// YearSuffix 返回订单编号年份后缀，如 "25"
func (r *Resolver) YearSuffix() string {
	return r.tables.YearSuffix
}

func (r *Resolver) warnOnce(kind, label string) {
	key := kind + "\x00" + label
	if r.warned[key] {
		return
	}
	r.warned[key] = true
	logger.Warnw("label_unmapped", "kind", kind, "label", label)
}
