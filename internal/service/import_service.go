package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/preseason-import/internal/constants"
	"github.com/preseason-import/internal/logger"
	"github.com/preseason-import/internal/mapping"
	"github.com/preseason-import/internal/models"
	"github.com/preseason-import/internal/repository"
	"github.com/preseason-import/internal/spreadsheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 导入输入校验错误
var (
	ErrNoFile   = errors.New("import file is not set")
	ErrNoSeason = errors.New("season name is not set")
)

// ImportService 订货表导入服务：读取 → 解析 → 建单 → 汇总，
// 全部数据库写入在单个事务内完成，任何失败整体回滚。
type ImportService struct {
	seasonRepo   repository.SeasonRepository
	brandRepo    repository.BrandRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	runRepo      repository.ImportRunRepository
	report       *log.Logger
}

// NewImportService 创建导入服务；report 用于控制台进度输出，可为 nil
func NewImportService(
	seasonRepo repository.SeasonRepository,
	brandRepo repository.BrandRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	runRepo repository.ImportRunRepository,
	report *log.Logger,
) *ImportService {
	if report == nil {
		report = log.New(io.Discard, "", 0)
	}
	return &ImportService{
		seasonRepo:   seasonRepo,
		brandRepo:    brandRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		runRepo:      runRepo,
		report:       report,
	}
}

// RunInput 单次导入的输入
type RunInput struct {
	File         string
	Sheet        string
	SeasonName   string
	MappingsPath string
	CreatedBy    uint
}

// Summary 导入汇总
type Summary struct {
	RunID           string
	SeasonID        uint
	SeasonName      string
	RowsLoaded      int
	RowsKept        int
	ProductsCreated int
	OrdersCreated   int
	ItemsAdded      int
	ItemsSkipped    int
}

// orderKey 订单分组键：表格侧 (品牌, 门店, 船期) 原始标签三元组
type orderKey struct {
	brand string
	gym   string
	ship  string
}

// Run 执行一次完整导入。
// 读取与清洗发生在任何数据库写入之前，读取失败不会留下半成品数据；
// 运行记录在事务外落盘，失败的运行同样可追溯。
func (s *ImportService) Run(input RunInput) (*Summary, error) {
	if strings.TrimSpace(input.File) == "" {
		return nil, ErrNoFile
	}
	if strings.TrimSpace(input.SeasonName) == "" {
		return nil, ErrNoSeason
	}

	tables, err := mapping.LoadTables(input.MappingsPath)
	if err != nil {
		return nil, err
	}

	s.report.Printf("Reading %s ...", input.File)
	loaded, err := spreadsheet.Load(input.File, input.Sheet)
	if err != nil {
		return nil, err
	}
	s.report.Printf("Loaded %d rows, %d after cleaning", loaded.RowsLoaded, loaded.RowsKept)

	run := &models.ImportRun{
		RunID:      uuid.NewString(),
		SourceFile: input.File,
		Sheet:      input.Sheet,
		SeasonName: input.SeasonName,
		RowsLoaded: loaded.RowsLoaded,
		RowsKept:   loaded.RowsKept,
	}
	if err := s.runRepo.Create(run); err != nil {
		return nil, fmt.Errorf("create import run: %w", err)
	}

	summary := &Summary{
		RunID:      run.RunID,
		SeasonName: input.SeasonName,
		RowsLoaded: loaded.RowsLoaded,
		RowsKept:   loaded.RowsKept,
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		return s.runStages(tx, input, tables, loaded.Rows, summary)
	})

	run.ProductsCreated = summary.ProductsCreated
	run.OrdersCreated = summary.OrdersCreated
	run.ItemsAdded = summary.ItemsAdded
	run.ItemsSkipped = summary.ItemsSkipped
	status := models.ImportRunStatusSucceeded
	if err != nil {
		status = models.ImportRunStatusFailed
		run.Error = err.Error()
	}
	if finishErr := s.runRepo.Finish(run, status); finishErr != nil {
		logger.Errorw("import_run_finish_failed", "run_id", run.RunID, "error", finishErr)
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// runStages 在事务内执行四个阶段
func (s *ImportService) runStages(tx *gorm.DB, input RunInput, tables *mapping.Tables, rows []spreadsheet.Row, summary *Summary) error {
	seasonRepo := s.seasonRepo.WithTx(tx)
	brandRepo := s.brandRepo.WithTx(tx)
	locationRepo := s.locationRepo.WithTx(tx)
	productRepo := s.productRepo.WithTx(tx)
	orderRepo := s.orderRepo.WithTx(tx)

	s.report.Printf("1. Season %q ...", input.SeasonName)
	season, err := seasonRepo.GetOrCreateByName(input.SeasonName, constants.SeasonStatusOrdering)
	if err != nil {
		return fmt.Errorf("get or create season: %w", err)
	}
	summary.SeasonID = season.ID

	s.report.Printf("2. Mapping brands and locations ...")
	dbBrands, err := brandRepo.NameIDMap()
	if err != nil {
		return fmt.Errorf("load brands: %w", err)
	}
	dbLocations, err := locationRepo.CodeIDMap()
	if err != nil {
		return fmt.Errorf("load locations: %w", err)
	}
	resolver := mapping.NewResolver(tables, dbBrands, dbLocations)

	s.report.Printf("3. Processing products ...")
	productIDs, err := s.upsertProducts(productRepo, resolver, season.ID, rows, summary)
	if err != nil {
		return err
	}
	s.report.Printf("   Created %d new products, %d mapped in total", summary.ProductsCreated, len(productIDs))

	s.report.Printf("4. Creating orders ...")
	orderIDs, err := s.createOrders(orderRepo, resolver, season.ID, input.CreatedBy, rows, summary)
	if err != nil {
		return err
	}
	s.report.Printf("   Created %d orders", summary.OrdersCreated)

	s.report.Printf("5. Adding order items ...")
	if err := s.createItems(orderRepo, productIDs, orderIDs, rows, summary); err != nil {
		return err
	}
	s.report.Printf("   Added %d items, skipped %d", summary.ItemsAdded, summary.ItemsSkipped)

	s.report.Printf("6. Updating order totals ...")
	if err := orderRepo.RecalculateTotals(season.ID); err != nil {
		return fmt.Errorf("recalculate order totals: %w", err)
	}
	return nil
}

// upsertProducts 按 UPC 去重建品，首个出现的行决定商品属性。
// 已存在的 UPC 原样复用，不回写属性（首次导入为准）。
func (s *ImportService) upsertProducts(productRepo repository.ProductRepository, resolver *mapping.Resolver, seasonID uint, rows []spreadsheet.Row, summary *Summary) (map[string]uint, error) {
	existing, err := productRepo.UPCIDMap()
	if err != nil {
		return nil, fmt.Errorf("load existing products: %w", err)
	}

	productIDs := make(map[string]uint)
	seen := make(map[string]bool)
	for _, row := range rows {
		if seen[row.UPC] {
			continue
		}
		seen[row.UPC] = true

		if id, ok := existing[row.UPC]; ok {
			productIDs[row.UPC] = id
			continue
		}
		brandID, ok := resolver.ResolveBrand(row.Brand)
		if !ok {
			// 品牌未映射，本次不建品，后续依赖该 UPC 的行会被跳过
			continue
		}
		product := &models.Product{
			UPC:           row.UPC,
			Name:          row.Description,
			SKU:           row.ProductNumber,
			Color:         row.Color,
			Size:          row.Size,
			WholesaleCost: models.NewMoneyFromDecimal(row.Wholesale),
			MSRP:          models.NewMoneyFromDecimal(row.Retail),
			BrandID:       brandID,
			SeasonID:      seasonID,
			Active:        true,
		}
		created, err := productRepo.CreateOrGetByUPC(product)
		if err != nil {
			return nil, fmt.Errorf("create product upc=%s: %w", row.UPC, err)
		}
		productIDs[row.UPC] = product.ID
		if created {
			summary.ProductsCreated++
		}
	}
	return productIDs, nil
}

// createOrders 按 (品牌, 门店, 船期) 标签分组建单，保持首次出现顺序。
// 任一标签未解析则整组跳过。
func (s *ImportService) createOrders(orderRepo repository.OrderRepository, resolver *mapping.Resolver, seasonID, createdBy uint, rows []spreadsheet.Row, summary *Summary) (map[orderKey]uint, error) {
	var keys []orderKey
	grouped := make(map[orderKey]bool)
	for _, row := range rows {
		key := orderKey{brand: row.Brand, gym: row.Gym, ship: row.ShipPeriod}
		if !grouped[key] {
			grouped[key] = true
			keys = append(keys, key)
		}
	}

	orderIDs := make(map[orderKey]uint, len(keys))
	for _, key := range keys {
		brandID, brandOK := resolver.ResolveBrand(key.brand)
		locationID, locationCode, locationOK := resolver.ResolveLocation(key.gym)
		if !brandOK || !locationOK {
			s.report.Printf("   Skipping: Brand=%s, Gym=%s (not mapped)", key.brand, key.gym)
			continue
		}
		shipDate, token := resolver.ResolveShipPeriod(key.ship)

		number := fmt.Sprintf("%s%s-%s-%s", token, resolver.YearSuffix(), brandCode(key.brand), locationCode)
		// 检查后插入并非并发安全，工具按单人单次运行约定使用；
		// order_number 上的唯一索引兜底真正的冲突。
		count, err := orderRepo.CountByNumberPrefix(number)
		if err != nil {
			return nil, fmt.Errorf("count order number prefix %s: %w", number, err)
		}
		if count > 0 {
			number = fmt.Sprintf("%s-%d", number, count+1)
		}

		order := &models.Order{
			OrderNumber: number,
			SeasonID:    seasonID,
			BrandID:     brandID,
			LocationID:  locationID,
			ShipDate:    shipDate,
			OrderType:   constants.OrderTypePreseason,
			Status:      constants.OrderStatusDraft,
			CreatedBy:   createdBy,
		}
		if err := orderRepo.Create(order); err != nil {
			return nil, fmt.Errorf("create order %s: %w", number, err)
		}
		orderIDs[key] = order.ID
		summary.OrdersCreated++
	}
	return orderIDs, nil
}

// createItems 每条存活行生成一个订单项，重复行不合并。
// 商品或订单缺失的行计入跳过数。
func (s *ImportService) createItems(orderRepo repository.OrderRepository, productIDs map[string]uint, orderIDs map[orderKey]uint, rows []spreadsheet.Row, summary *Summary) error {
	var items []models.OrderItem
	for _, row := range rows {
		productID, productOK := productIDs[row.UPC]
		orderID, orderOK := orderIDs[orderKey{brand: row.Brand, gym: row.Gym, ship: row.ShipPeriod}]
		if !productOK || !orderOK {
			summary.ItemsSkipped++
			continue
		}
		lineTotal := row.Wholesale.Mul(decimal.NewFromInt(int64(row.Quantity)))
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  row.Quantity,
			UnitCost:  models.NewMoneyFromDecimal(row.Wholesale),
			LineTotal: models.NewMoneyFromDecimal(lineTotal),
		})
		summary.ItemsAdded++
	}
	if err := orderRepo.CreateItems(items); err != nil {
		return fmt.Errorf("create order items: %w", err)
	}
	return nil
}

// brandCode 取品牌标签前三个字符，大写
func brandCode(label string) string {
	runes := []rune(strings.ToUpper(strings.TrimSpace(label)))
	if len(runes) > constants.OrderBrandCodeLen {
		runes = runes[:constants.OrderBrandCodeLen]
	}
	return string(runes)
}
