package service

import (
	"context"
	"errors"
	"testing"

	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/repository"

	"github.com/shopspring/decimal"
)

func TestProductServiceCreateValidates(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewProductService(repository.NewProductRepository(db), repository.NewCategoryRepository(db))
	ctx := context.Background()

	missingCategory := uint(99)
	cases := []struct {
		name  string
		input ProductInput
		want  error
	}{
		{"missing name", ProductInput{SKU: "A1", Price: models.MustMoney("1")}, ErrInvalidInput},
		{"negative price", ProductInput{Name: "Dress", SKU: "A1", Price: models.MustMoney("-1")}, ErrProductPriceInvalid},
		{"negative inventory", ProductInput{Name: "Dress", SKU: "A1", InventoryCount: -1}, ErrInventoryInvalid},
		{"unknown category", ProductInput{Name: "Dress", SKU: "A1", CategoryID: &missingCategory}, ErrCategoryNotFound},
		{"negative weight", ProductInput{Name: "Dress", SKU: "A1", Weight: decimal.NewNullDecimal(decimal.NewFromInt(-2))}, ErrInvalidInput},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestProductServiceCreateAndUpdate(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewProductService(repository.NewProductRepository(db), repository.NewCategoryRepository(db))
	ctx := context.Background()
	category := seedCategory(t, db, "Dresses")

	product, err := svc.Create(ctx, ProductInput{
		CategoryID:     &category.ID,
		Name:           "  Maxi Dress ",
		SKU:            "MAXI-1",
		Price:          models.MustMoney("89.99"),
		InventoryCount: 3,
		Images:         []string{" https://img/1.jpg ", ""},
		Tags:           []string{"Summer", "summer", " floral "},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Name != "Maxi Dress" || product.Category == nil || product.Category.Name != "Dresses" {
		t.Fatalf("unexpected product: %+v", product)
	}
	if len(product.Images) != 1 || len(product.Tags) != 2 {
		t.Fatalf("expected cleaned images/tags, got %v %v", product.Images, product.Tags)
	}

	if _, err := svc.Create(ctx, ProductInput{Name: "Other", SKU: "MAXI-1"}); !errors.Is(err, ErrSKUExists) {
		t.Fatalf("expected sku exists, got %v", err)
	}

	zero := uint(0)
	updated, err := svc.Update(ctx, product.ID, ProductInput{
		CategoryID: &zero,
		Name:       "Maxi Dress",
		SKU:        "MAXI-1",
		Price:      models.MustMoney("79.99"),
	})
	if err != nil {
		t.Fatalf("update keeping own sku failed: %v", err)
	}
	if updated.CategoryID != nil || !updated.Price.Equal(decimal.RequireFromString("79.99")) {
		t.Fatalf("unexpected updated product: %+v", updated)
	}

	if err := svc.Delete(ctx, product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(product.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCategoryServiceRejectsDuplicatesAndInUseDelete(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	category, err := svc.Create(ctx, CategoryInput{Name: "Tops"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, CategoryInput{Name: "tops"}); !errors.Is(err, ErrCategoryNameExists) {
		t.Fatalf("expected name exists, got %v", err)
	}
	seedProduct(t, db, models.Product{Name: "Cotton Top", CategoryID: &category.ID})
	if err := svc.Delete(ctx, category.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("expected category in use, got %v", err)
	}

	empty, err := svc.Create(ctx, CategoryInput{Name: "Shoes"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(ctx, empty.ID); err != nil {
		t.Fatalf("delete empty category failed: %v", err)
	}
	if err := svc.Delete(ctx, empty.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdvertisementServiceToggleAndActiveList(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewAdvertisementService(repository.NewAdvertisementRepository(db))

	if _, err := svc.Create(AdvertisementInput{Title: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	ad, err := svc.Create(AdvertisementInput{Title: "Eid Sale", ImageURL: "https://img/eid.jpg", Active: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(AdvertisementInput{Title: "Draft", ImageURL: "https://img/draft.jpg"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	active, err := svc.ListActive()
	if err != nil || len(active) != 1 {
		t.Fatalf("expected one active ad, got %d (%v)", len(active), err)
	}
	toggled, err := svc.Toggle(ad.ID)
	if err != nil || toggled.Active {
		t.Fatalf("expected ad deactivated, got %+v (%v)", toggled, err)
	}
	all, err := svc.ListAll()
	if err != nil || len(all) != 2 {
		t.Fatalf("expected two ads, got %d (%v)", len(all), err)
	}
	if _, err := svc.Toggle(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
