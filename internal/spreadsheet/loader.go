package spreadsheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// 读取阶段错误（全部致命，发生在任何数据库写入之前）
var (
	ErrSheetNotFound = errors.New("sheet not found in workbook")
	ErrMissingColumn = errors.New("required column missing")
	ErrBadQuantity   = errors.New("quantity is not numeric")
	ErrEmptySheet    = errors.New("sheet has no data rows")
)

// 期望的表头列名
const (
	ColUPC           = "UPC"
	ColBrand         = "Brand"
	ColGym           = "Gym"
	ColQuantity      = "Quantity"
	ColShipMonth     = "Ship Month"
	ColDescription   = "Description"
	ColProductNumber = "Product Number"
	ColColor         = "Color"
	ColSize          = "Size"
	ColWholesale     = "Wholesale"
	ColRetail        = "Retail"
)

var requiredColumns = []string{ColUPC, ColBrand, ColGym, ColQuantity, ColShipMonth}

// Row 清洗后的一行表格数据
type Row struct {
	UPC           string
	Brand         string
	Gym           string
	ShipPeriod    string
	Quantity      int
	Description   string
	ProductNumber string
	Color         string
	Size          string
	Wholesale     decimal.Decimal
	Retail        decimal.Decimal
}

// LoadResult 读取结果与清洗统计
type LoadResult struct {
	Rows       []Row
	RowsLoaded int // 数据行总数
	RowsKept   int // 清洗后保留行数
}

// Load 读取 Excel 文件并清洗行数据。
// sheet 为空时取第一个工作表。缺少必填字段的行被丢弃；
// 必填字段齐全但数量无法解析的行视为致命错误。
func Load(path, sheet string) (*LoadResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	if strings.TrimSpace(sheet) == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, sheet)
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	for i, raw := range rows[1:] {
		result.RowsLoaded++
		rowNum := i + 2 // 1 为表头

		upc := cell(raw, columns[ColUPC])
		brand := cell(raw, columns[ColBrand])
		gym := cell(raw, columns[ColGym])
		quantityText := cell(raw, columns[ColQuantity])
		if upc == "" || brand == "" || gym == "" || quantityText == "" {
			continue
		}

		quantity, err := parseQuantity(quantityText)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: %q", rowNum, ErrBadQuantity, quantityText)
		}

		result.Rows = append(result.Rows, Row{
			UPC:           upc,
			Brand:         brand,
			Gym:           gym,
			ShipPeriod:    cell(raw, columns[ColShipMonth]),
			Quantity:      quantity,
			Description:   cell(raw, columns[ColDescription]),
			ProductNumber: cell(raw, columns[ColProductNumber]),
			Color:         cell(raw, columns[ColColor]),
			Size:          cell(raw, columns[ColSize]),
			Wholesale:     parseMoney(cell(raw, columns[ColWholesale])),
			Retail:        parseMoney(cell(raw, columns[ColRetail])),
		})
	}
	result.RowsKept = len(result.Rows)
	return result, nil
}

// mapColumns 按表头名定位列；缺少必填列为致命错误，可选列缺失记为 -1
func mapColumns(header []string) (map[string]int, error) {
	columns := map[string]int{
		ColUPC:           -1,
		ColBrand:         -1,
		ColGym:           -1,
		ColQuantity:      -1,
		ColShipMonth:     -1,
		ColDescription:   -1,
		ColProductNumber: -1,
		ColColor:         -1,
		ColSize:          -1,
		ColWholesale:     -1,
		ColRetail:        -1,
	}
	for idx, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := columns[name]; ok && columns[name] == -1 {
			columns[name] = idx
		}
	}
	for _, name := range requiredColumns {
		if columns[name] == -1 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return columns, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseQuantity 解析数量；excel 中的整数可能带小数尾巴（如 "5.0"）
func parseQuantity(text string) (int, error) {
	if n, err := strconv.Atoi(text); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// parseMoney 解析金额，空值或非数字按 0 处理
func parseMoney(text string) decimal.Decimal {
	if text == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return d
}
