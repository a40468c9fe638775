package repository

import (
	"path/filepath"
	"testing"

	"github.com/preseason-import/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
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
	return db
}
