package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/preseason-import/internal/models"
	"github.com/preseason-import/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const testMappings = `
version: 1
year_suffix: "25"
brands:
  Prana: Prana
  Petzl: Petzl
locations:
  SLC: SLC
  South Main: SOMA
  Ogden: OGD
ship_periods:
  Jul: { date: 2025-07-01, token: JUL }
  Aug: { date: 2025-08-01, token: AUG }
default_ship_period: { date: 2025-08-01, token: AUG }
`

var testHeader = []interface{}{"UPC", "Brand", "Gym", "Quantity", "Ship Month", "Description", "Product Number", "Color", "Size", "Wholesale", "Retail"}

type importTestEnv struct {
	db           *gorm.DB
	svc          *ImportService
	mappingsPath string
	dir          string
}

func setupImportTest(t *testing.T) *importTestEnv {
	t.Helper()
	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Season{},
		&models.Brand{},
		&models.Location{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ImportRun{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// 导入只读取品牌与门店，测试先灌入规范记录
	brands := []models.Brand{{Name: "Prana"}, {Name: "Petzl"}}
	if err := db.Create(&brands).Error; err != nil {
		t.Fatalf("seed brands failed: %v", err)
	}
	locations := []models.Location{
		{Name: "Salt Lake City", Code: "SLC"},
		{Name: "South Main", Code: "SOMA"},
		{Name: "Ogden", Code: "OGD"},
	}
	if err := db.Create(&locations).Error; err != nil {
		t.Fatalf("seed locations failed: %v", err)
	}

	mappingsPath := filepath.Join(dir, "mappings.yml")
	if err := os.WriteFile(mappingsPath, []byte(testMappings), 0o644); err != nil {
		t.Fatalf("write mappings failed: %v", err)
	}

	svc := NewImportService(
		repository.NewSeasonRepository(db),
		repository.NewBrandRepository(db),
		repository.NewLocationRepository(db),
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
		repository.NewImportRunRepository(db),
		nil,
	)
	return &importTestEnv{db: db, svc: svc, mappingsPath: mappingsPath, dir: dir}
}

func (env *importTestEnv) writeWorkbook(t *testing.T, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	all := append([][]interface{}{testHeader}, rows...)
	for i, row := range all {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name failed: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cellRef, &row); err != nil {
			t.Fatalf("set row failed: %v", err)
		}
	}
	path := filepath.Join(env.dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook failed: %v", err)
	}
	return path
}

func (env *importTestEnv) input(file string) RunInput {
	return RunInput{
		File:         file,
		SeasonName:   "Fall 2025",
		MappingsPath: env.mappingsPath,
		CreatedBy:    1,
	}
}

func TestImportSingleRowScenario(t *testing.T) {
	env := setupImportTest(t)
	file := env.writeWorkbook(t, "orders.xlsx", [][]interface{}{
		{"012345", "Prana", "SLC", 5, "Aug", "Stretch Zion Pant", "PR-1", "Black", "32", 10.0, 20.0},
	})

	summary, err := env.svc.Run(env.input(file))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if summary.ProductsCreated != 1 || summary.OrdersCreated != 1 || summary.ItemsAdded != 1 || summary.ItemsSkipped != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var season models.Season
	if err := env.db.Where("name = ?", "Fall 2025").First(&season).Error; err != nil {
		t.Fatalf("season not created: %v", err)
	}

	var product models.Product
	if err := env.db.Where("upc = ?", "012345").First(&product).Error; err != nil {
		t.Fatalf("product not created: %v", err)
	}
	if product.Name != "Stretch Zion Pant" || product.SeasonID != season.ID {
		t.Fatalf("unexpected product: %+v", product)
	}

	var order models.Order
	if err := env.db.Where("order_number = ?", "AUG25-PRA-SLC").First(&order).Error; err != nil {
		t.Fatalf("order not created: %v", err)
	}
	wantShip := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	if !order.ShipDate.Equal(wantShip) {
		t.Fatalf("ship date want %v got %v", wantShip, order.ShipDate)
	}
	if order.OrderType != "preseason" || order.Status != "draft" || order.CreatedBy != 1 {
		t.Fatalf("unexpected order attributes: %+v", order)
	}
	if !order.CurrentTotal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("order total want 50 got %s", order.CurrentTotal)
	}

	var item models.OrderItem
	if err := env.db.Where("order_id = ?", order.ID).First(&item).Error; err != nil {
		t.Fatalf("item not created: %v", err)
	}
	if item.ProductID != product.ID || item.Quantity != 5 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if !item.UnitCost.Equal(decimal.NewFromInt(10)) || !item.LineTotal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("item amounts want (10, 50) got (%s, %s)", item.UnitCost, item.LineTotal)
	}

	var run models.ImportRun
	if err := env.db.Where("run_id = ?", summary.RunID).First(&run).Error; err != nil {
		t.Fatalf("import run not recorded: %v", err)
	}
	if run.Status != models.ImportRunStatusSucceeded || run.ItemsAdded != 1 {
		t.Fatalf("unexpected import run: %+v", run)
	}
}

func TestImportGroupsRowsIntoOneOrder(t *testing.T) {
	env := setupImportTest(t)
	file := env.writeWorkbook(t, "orders.xlsx", [][]interface{}{
		{"111", "Prana", "SLC", 5, "Aug", "Pant", "", "", "", 10.0, 20.0},
		{"222", "Prana", "SLC", 2, "Aug", "Shirt", "", "", "", 7.5, 15.0},
		{"333", "Petzl", "Ogden", 1, "Jul", "Grigri", "", "", "", 60.0, 110.0},
	})

	summary, err := env.svc.Run(env.input(file))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if summary.OrdersCreated != 2 {
		t.Fatalf("orders created want 2 got %d", summary.OrdersCreated)
	}
	if summary.ItemsAdded != 3 {
		t.Fatalf("items added want 3 got %d", summary.ItemsAdded)
	}

	var order models.Order
	if err := env.db.Where("order_number = ?", "AUG25-PRA-SLC").First(&order).Error; err != nil {
		t.Fatalf("grouped order not found: %v", err)
	}
	var itemCount int64
	if err := env.db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if itemCount != 2 {
		t.Fatalf("grouped order items want 2 got %d", itemCount)
	}
	if !order.CurrentTotal.Equal(decimal.NewFromInt(65)) {
		t.Fatalf("grouped order total want 65 got %s", order.CurrentTotal)
	}

	// 已填充的模型会把主键并入查询条件，第二次查询用新结构体
	var second models.Order
	if err := env.db.Where("order_number = ?", "JUL25-PET-OGD").First(&second).Error; err != nil {
		t.Fatalf("second group order not found: %v", err)
	}
	if second.ID == order.ID {
		t.Fatalf("groups should produce distinct orders, both id %d", order.ID)
	}
}

func TestImportSkipsUnmappedGym(t *testing.T) {
	env := setupImportTest(t)
	file := env.writeWorkbook(t, "orders.xlsx", [][]interface{}{
		{"111", "Prana", "Denver", 5, "Aug", "Pant", "", "", "", 10.0, 20.0},
		{"222", "Prana", "SLC", 2, "Aug", "Shirt", "", "", "", 7.5, 15.0},
	})

	summary, err := env.svc.Run(env.input(file))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	// 未映射门店的组整组跳过，行计入 skipped
	if summary.OrdersCreated != 1 {
		t.Fatalf("orders created want 1 got %d", summary.OrdersCreated)
	}
	if summary.ItemsAdded != 1 || summary.ItemsSkipped != 1 {
		t.Fatalf("items want (1 added, 1 skipped) got (%d, %d)", summary.ItemsAdded, summary.ItemsSkipped)
	}

	var count int64
	if err := env.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("order count want 1 got %d", count)
	}
}

func TestImportSkipsUnmappedBrand(t *testing.T) {
	env := setupImportTest(t)
	file := env.writeWorkbook(t, "orders.xlsx", [][]interface{}{
		{"111", "NoSuchBrand", "SLC", 5, "Aug", "Mystery Pant", "", "", "", 10.0, 20.0},
		{"222", "Prana", "SLC", 2, "Aug", "Shirt", "", "", "", 7.5, 15.0},
	})

	summary, err := env.svc.Run(env.input(file))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	// 品牌未映射时不建品，UPC 对应的行后续计入 skipped
	if summary.ProductsCreated != 1 {
		t.Fatalf("products created want 1 got %d", summary.ProductsCreated)
	}
	if summary.OrdersCreated != 1 {
		t.Fatalf("orders created want 1 got %d", summary.OrdersCreated)
	}
	if summary.ItemsAdded != 1 || summary.ItemsSkipped != 1 {
		t.Fatalf("items want (1 added, 1 skipped) got (%d, %d)", summary.ItemsAdded, summary.ItemsSkipped)
	}

	var count int64
	if err := env.db.Model(&models.Product{}).Where("upc = ?", "111").Count(&count).Error; err != nil {
		t.Fatalf("count products failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("unmapped brand should not create a product, got %d", count)
	}
}

func TestImportAllRowsUnresolvedSucceedsEmpty(t *testing.T) {
	env := setupImportTest(t)
	file := env.writeWorkbook(t, "orders.xlsx", [][]interface{}{
		{"111", "NoSuchBrand", "SLC", 5, "Aug", "Pant", "", "", "", 10.0, 20.0},
	})

	summary, err := env.svc.Run(env.input(file))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if summary.ProductsCreated != 0 || summary.OrdersCreated != 0 || summary.ItemsAdded != 0 {
		t.Fatalf("nothing should be created, got %+v", summary)
	}
	if summary.ItemsSkipped != 1 {
		t.Fatalf("items skipped want 1 got %d", summary.ItemsSkipped)
	}
}

func TestImportSuffixesDuplicateOrderNumber(t *testing.T) {
	env := setupImportTest(t)
	existing := models.Order{
		OrderNumber: "AUG25-PRA-SLC",
		SeasonID:    99,
		BrandID:     1,
		LocationID:  1,
		ShipDate:    time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		OrderType:   "preseason",
		Status:      "draft",
		CreatedBy:   1,
	}
	if err := env.db.Create(&existing).Error; err != nil {
		t.Fatalf("seed existing order failed: %v", err)
	}

	file := env.writeWorkbook(t, "orders.xlsx", [][]interface{}{
		{"111", "Prana", "SLC", 5, "Aug", "Pant", "", "", "", 10.0, 20.0},
	})
	if _, err := env.svc.Run(env.input(file)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	var order models.Order
	if err := env.db.Where("order_number = ?", "AUG25-PRA-SLC-2").First(&order).Error; err != nil {
		t.Fatalf("suffixed order not found: %v", err)
	}
}

func TestImportRerunKeepsProductsCreatesNewOrders(t *testing.T) {
	env := setupImportTest(t)
	file := env.writeWorkbook(t, "orders.xlsx", [][]interface{}{
		{"111", "Prana", "SLC", 5, "Aug", "Pant", "", "", "", 10.0, 20.0},
	})

	if _, err := env.svc.Run(env.input(file)); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	summary, err := env.svc.Run(env.input(file))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	// UPC 是稳定去重键，重跑不重复建品
	if summary.ProductsCreated != 0 {
		t.Fatalf("rerun products created want 0 got %d", summary.ProductsCreated)
	}
	var productCount int64
	if err := env.db.Model(&models.Product{}).Count(&productCount).Error; err != nil {
		t.Fatalf("count products failed: %v", err)
	}
	if productCount != 1 {
		t.Fatalf("product count want 1 got %d", productCount)
	}

	// 重跑生成带后缀的新订单（文档化的副作用）
	var orderNumbers []string
	if err := env.db.Model(&models.Order{}).Order("id").Pluck("order_number", &orderNumbers).Error; err != nil {
		t.Fatalf("load order numbers failed: %v", err)
	}
	if len(orderNumbers) != 2 || orderNumbers[0] != "AUG25-PRA-SLC" || orderNumbers[1] != "AUG25-PRA-SLC-2" {
		t.Fatalf("unexpected order numbers: %v", orderNumbers)
	}
}

func TestImportValidatesInput(t *testing.T) {
	env := setupImportTest(t)

	input := env.input("")
	if _, err := env.svc.Run(input); !errors.Is(err, ErrNoFile) {
		t.Fatalf("want ErrNoFile got %v", err)
	}

	input = env.input("orders.xlsx")
	input.SeasonName = ""
	if _, err := env.svc.Run(input); !errors.Is(err, ErrNoSeason) {
		t.Fatalf("want ErrNoSeason got %v", err)
	}
}

func TestImportUnreadableFileFailsBeforeWrites(t *testing.T) {
	env := setupImportTest(t)

	input := env.input(filepath.Join(env.dir, "missing.xlsx"))
	if _, err := env.svc.Run(input); err == nil {
		t.Fatalf("expected error for missing workbook")
	}

	// 读取失败发生在任何数据库写入之前
	var runs int64
	if err := env.db.Model(&models.ImportRun{}).Count(&runs).Error; err != nil {
		t.Fatalf("count runs failed: %v", err)
	}
	if runs != 0 {
		t.Fatalf("no import run should be recorded, got %d", runs)
	}
	var seasons int64
	if err := env.db.Model(&models.Season{}).Count(&seasons).Error; err != nil {
		t.Fatalf("count seasons failed: %v", err)
	}
	if seasons != 0 {
		t.Fatalf("no season should be created, got %d", seasons)
	}
}

func TestBrandCode(t *testing.T) {
	cases := map[string]string{
		"Prana":               "PRA",
		"Petzl":               "PET",
		"DMM":                 "DMM",
		"La Sportiva Apparel": "LA ",
		"ab":                  "AB",
	}
	for label, want := range cases {
		if got := brandCode(label); got != want {
			t.Fatalf("brandCode(%q) want %q got %q", label, want, got)
		}
	}
}
