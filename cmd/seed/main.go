package main

import (
	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/models"

	"github.com/shopspring/decimal"
)

type seedProduct struct {
	Category       string
	Name           string
	Description    string
	SKU            string
	Price          string
	Weight         string
	InventoryCount int
	Images         []string
	Tags           []string
	Featured       bool
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Lawn", Description: "Printed and embroidered lawn for summer"},
		{Name: "Formal Wear", Description: "Chiffon, silk and festive pieces"},
		{Name: "Accessories", Description: "Dupattas, jewellery and footwear"},
	}
	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("name = ?", cat.Name).Limit(1).Find(&existing).Error; err != nil {
			stdLog.Printf("Failed to query category %s: %v", cat.Name, err)
			continue
		}
		if existing.ID != 0 {
			stdLog.Printf("Category already exists: %s", cat.Name)
			categoryIDs[cat.Name] = existing.ID
			continue
		}
		if err := models.DB.Create(&cat).Error; err != nil {
			stdLog.Printf("Failed to create category %s: %v", cat.Name, err)
			continue
		}
		stdLog.Printf("Created category: %s", cat.Name)
		categoryIDs[cat.Name] = cat.ID
	}

	// 添加商品
	products := []seedProduct{
		{
			Category:       "Lawn",
			Name:           "Embroidered Lawn Suit",
			Description:    "Three piece printed lawn with embroidered neckline and chiffon dupatta.",
			SKU:            "SAYA-L-001",
			Price:          "8990.00",
			Weight:         "0.85",
			InventoryCount: 25,
			Images:         []string{"https://images.saya.pk/products/lawn-suit-1.jpg"},
			Tags:           []string{"lawn", "summer", "unstitched"},
			Featured:       true,
		},
		{
			Category:       "Formal Wear",
			Name:           "Chiffon Formal Kurti",
			Description:    "Hand finished chiffon kurti with sequin work for evening wear.",
			SKU:            "SAYA-F-002",
			Price:          "12500.00",
			Weight:         "0.60",
			InventoryCount: 10,
			Images:         []string{"https://images.saya.pk/products/chiffon-kurti-1.jpg"},
			Tags:           []string{"formal", "chiffon"},
			Featured:       true,
		},
		{
			Category:       "Lawn",
			Name:           "Cotton Kurta",
			Description:    "Breathable cotton kurta with a mandarin collar.",
			SKU:            "SAYA-L-003",
			Price:          "4500.00",
			Weight:         "0.50",
			InventoryCount: 40,
			Images:         []string{"https://images.saya.pk/products/cotton-kurta-1.jpg"},
			Tags:           []string{"kurta", "cotton", "casual"},
			Featured:       true,
		},
		{
			Category:       "Formal Wear",
			Name:           "Velvet Shawl",
			Description:    "Embroidered velvet shawl for winter weddings and Eid.",
			SKU:            "SAYA-F-004",
			Price:          "6800.00",
			InventoryCount: 0,
			Images:         []string{"https://images.saya.pk/products/velvet-shawl-1.jpg"},
			Tags:           []string{"wedding", "eid"},
		},
		{
			Category:       "Accessories",
			Name:           "Khussa Flats",
			Description:    "Handcrafted leather khussa with tilla embroidery.",
			SKU:            "SAYA-A-001",
			Price:          "3200.00",
			Weight:         "0.40",
			InventoryCount: 15,
			Images:         []string{"https://images.saya.pk/products/khussa-1.jpg"},
			Tags:           []string{"footwear", "handmade"},
			Featured:       true,
		},
	}
	for _, item := range products {
		var count int64
		if err := models.DB.Unscoped().Model(&models.Product{}).Where("sku = ?", item.SKU).Count(&count).Error; err != nil {
			stdLog.Printf("Failed to query product %s: %v", item.SKU, err)
			continue
		}
		if count > 0 {
			stdLog.Printf("Product already exists: %s", item.SKU)
			continue
		}
		product := models.Product{
			Name:           item.Name,
			Description:    item.Description,
			SKU:            item.SKU,
			Price:          models.MustMoney(item.Price),
			InventoryCount: item.InventoryCount,
			Images:         models.StringArray(item.Images),
			Tags:           models.StringArray(item.Tags),
			Featured:       item.Featured,
		}
		if id, ok := categoryIDs[item.Category]; ok {
			product.CategoryID = &id
		}
		if item.Weight != "" {
			product.Weight = decimal.NewNullDecimal(decimal.RequireFromString(item.Weight))
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.SKU, err)
			continue
		}
		stdLog.Printf("Created product: %s", item.SKU)
	}

	// 添加首页广告
	ads := []models.Advertisement{
		{
			Title:       "Eid Collection",
			ImageURL:    "https://images.saya.pk/ads/eid.jpg",
			LinkURL:     "/products?category=Formal%20Wear",
			OverlayText: "New festive arrivals",
			Active:      true,
			SortOrder:   1,
		},
		{
			Title:       "Summer Lawn",
			ImageURL:    "https://images.saya.pk/ads/lawn.jpg",
			LinkURL:     "/products?category=Lawn",
			OverlayText: "Light fabrics for every day",
			Active:      true,
			SortOrder:   2,
		},
	}
	for _, ad := range ads {
		var count int64
		if err := models.DB.Model(&models.Advertisement{}).Where("title = ?", ad.Title).Count(&count).Error; err != nil {
			stdLog.Printf("Failed to query advertisement %s: %v", ad.Title, err)
			continue
		}
		if count > 0 {
			continue
		}
		if err := models.DB.Create(&ad).Error; err != nil {
			stdLog.Printf("Failed to create advertisement %s: %v", ad.Title, err)
			continue
		}
		stdLog.Printf("Created advertisement: %s", ad.Title)
	}

	stdLog.Printf("Seed completed")
}
