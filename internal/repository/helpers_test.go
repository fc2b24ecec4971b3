package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/saya-shop/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupRepositoryTestDB 每个测试独立的内存库
func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, product models.Product) *models.Product {
	t.Helper()
	if product.SKU == "" {
		product.SKU = fmt.Sprintf("SKU-%s-%d", strings.ReplaceAll(product.Name, " ", "-"), len(product.Name))
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}
