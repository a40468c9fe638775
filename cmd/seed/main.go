package main

import (
	"github.com/preseason-import/internal/config"
	"github.com/preseason-import/internal/logger"
	"github.com/preseason-import/internal/models"
)

// 规范参照数据：导入只读取品牌与门店，从不创建，
// 新环境先用本命令灌入再跑导入。
var brands = []models.Brand{
	{Name: "Prana"},
	{Name: "Free Fly"},
	{Name: "La Sportiva"},
	{Name: "La Sportiva Footwear"},
	{Name: "La Sportiva Apparel"},
	{Name: "La Sportiva Equipment"},
	{Name: "Arcteryx"},
	{Name: "ArcteryxFW"},
	{Name: "Petzl"},
	{Name: "Montane"},
	{Name: "Ripton"},
	{Name: "Metolius"},
	{Name: "Scarpa"},
	{Name: "Sterling"},
	{Name: "DUER"},
	{Name: "Patagonia"},
	{Name: "CAMP"},
	{Name: "DMM"},
	{Name: "Toad&Co"},
	{Name: "TenTree"},
}

var locations = []models.Location{
	{Name: "Salt Lake City", Code: "SLC"},
	{Name: "South Main", Code: "SOMA"},
	{Name: "Ogden", Code: "OGD"},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	for _, brand := range brands {
		var existing models.Brand
		if err := models.DB.Where("name = ?", brand.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&brand).Error; err != nil {
				stdLog.Printf("Failed to create brand %s: %v", brand.Name, err)
			} else {
				stdLog.Printf("Created brand: %s", brand.Name)
			}
		} else {
			stdLog.Printf("Brand already exists: %s", brand.Name)
		}
	}

	for _, location := range locations {
		var existing models.Location
		if err := models.DB.Where("code = ?", location.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&location).Error; err != nil {
				stdLog.Printf("Failed to create location %s: %v", location.Code, err)
			} else {
				stdLog.Printf("Created location: %s (%s)", location.Name, location.Code)
			}
		} else {
			stdLog.Printf("Location already exists: %s", location.Code)
		}
	}

	stdLog.Println("Seed completed")
}
