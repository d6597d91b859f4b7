// Package testutil provides the shared database fixture for package tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shopcore/storefront-api/models"
)

// OpenDB returns an isolated in-memory database with the schema applied.
// The pool is capped at one connection so the shared in-memory handle is
// never duplicated into separate empty databases.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.Product{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
		&models.GuestSession{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// SeedProduct inserts a product and returns its id.
func SeedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int, active bool) uint {
	t.Helper()
	p := models.Product{Name: name, Price: price, Stock: stock, IsActive: active}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	// GORM omits zero-value fields that carry a default tag from the INSERT,
	// so IsActive=false would otherwise be replaced by the column default.
	if !active {
		if err := db.Model(&p).UpdateColumn("is_active", false).Error; err != nil {
			t.Fatalf("seed product %s inactive: %v", name, err)
		}
	}
	return p.ID
}

// Stock reads a product's current stock.
func Stock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var p models.Product
	if err := db.First(&p, "id = ?", productID).Error; err != nil {
		t.Fatalf("read product %d: %v", productID, err)
	}
	return p.Stock
}
