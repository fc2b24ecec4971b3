package repository

import (
	"fmt"
	"testing"

	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/models"
)

func seedCatalog(t *testing.T, repo *GormProductRepository, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		product := &models.Product{
			Name:           fmt.Sprintf("Product %02d", i),
			SKU:            fmt.Sprintf("SKU-%02d", i),
			Price:          models.MustMoney(fmt.Sprintf("%d.50", (i*7)%20+1)),
			InventoryCount: 5,
			Featured:       i%4 == 0,
		}
		if err := repo.Create(product); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
}

func TestProductListSortByPrice(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	seedCatalog(t, repo, 10)

	asc, _, err := repo.List(ProductListFilter{Sort: constants.CatalogSortPriceAsc})
	if err != nil {
		t.Fatalf("list asc failed: %v", err)
	}
	for i := 1; i < len(asc); i++ {
		if asc[i].Price.LessThan(asc[i-1].Price.Decimal) {
			t.Fatalf("price_asc not non-decreasing at %d: %s < %s", i, asc[i].Price, asc[i-1].Price)
		}
	}

	desc, _, err := repo.List(ProductListFilter{Sort: constants.CatalogSortPriceDesc})
	if err != nil {
		t.Fatalf("list desc failed: %v", err)
	}
	for i := 1; i < len(desc); i++ {
		if desc[i].Price.GreaterThan(desc[i-1].Price.Decimal) {
			t.Fatalf("price_desc not non-increasing at %d: %s > %s", i, desc[i].Price, desc[i-1].Price)
		}
	}
}

func TestProductListFeaturedOnly(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	seedCatalog(t, repo, 9)

	products, total, err := repo.List(ProductListFilter{FeaturedOnly: true})
	if err != nil {
		t.Fatalf("list featured failed: %v", err)
	}
	if total != 3 || len(products) != 3 {
		t.Fatalf("expected 3 featured products, got total=%d len=%d", total, len(products))
	}
	for _, product := range products {
		if !product.Featured {
			t.Fatalf("non featured product returned: %s", product.Name)
		}
	}
}

func TestProductListPaginationPagesAreDisjoint(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	seedCatalog(t, repo, 15)

	page1, total, err := repo.List(ProductListFilter{Page: 1, PageSize: constants.CatalogPageSize})
	if err != nil {
		t.Fatalf("list page1 failed: %v", err)
	}
	page2, total2, err := repo.List(ProductListFilter{Page: 2, PageSize: constants.CatalogPageSize})
	if err != nil {
		t.Fatalf("list page2 failed: %v", err)
	}
	if total != 15 || total2 != 15 {
		t.Fatalf("total should ignore pagination, got %d/%d", total, total2)
	}
	if len(page1) != 12 || len(page2) != 3 {
		t.Fatalf("unexpected page sizes: %d/%d", len(page1), len(page2))
	}
	seen := map[uint]bool{}
	for _, product := range page1 {
		seen[product.ID] = true
	}
	for _, product := range page2 {
		if seen[product.ID] {
			t.Fatalf("product %d appears on both pages", product.ID)
		}
	}
}

func TestProductListDefaultSortFeaturedThenNewest(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	for _, item := range []struct {
		name     string
		featured bool
	}{{"Old Plain", false}, {"Featured Dress", true}, {"New Plain", false}} {
		createTestProduct(t, db, models.Product{Name: item.name, Price: models.MustMoney("10"), Featured: item.featured})
	}

	products, _, err := repo.List(ProductListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := []string{products[0].Name, products[1].Name, products[2].Name}
	want := []string{"Featured Dress", "New Plain", "Old Plain"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("default order mismatch: got %v want %v", got, want)
		}
	}
}

func TestProductListSearchMatchesNameDescriptionAndTags(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	createTestProduct(t, db, models.Product{Name: "Silk Scarf", Price: models.MustMoney("12")})
	createTestProduct(t, db, models.Product{Name: "Maxi Dress", Description: "Flowing SILK blend", Price: models.MustMoney("80")})
	createTestProduct(t, db, models.Product{Name: "Cotton Top", Tags: models.StringArray{"Silk", "summer"}, Price: models.MustMoney("30")})
	createTestProduct(t, db, models.Product{Name: "Denim Jacket", Tags: models.StringArray{"silky-look"}, Price: models.MustMoney("60")})

	products, total, err := repo.List(ProductListFilter{Search: "silk", Sort: constants.CatalogSortNameAsc})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 matches, got %d", total)
	}
	names := map[string]bool{}
	for _, product := range products {
		names[product.Name] = true
	}
	for _, name := range []string{"Silk Scarf", "Maxi Dress", "Cotton Top"} {
		if !names[name] {
			t.Fatalf("expected %s in results: %v", name, names)
		}
	}
}

func TestProductListCategoryFilter(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	category := &models.Category{Name: "Dresses"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	createTestProduct(t, db, models.Product{Name: "Maxi Dress", CategoryID: &category.ID, Price: models.MustMoney("80")})
	createTestProduct(t, db, models.Product{Name: "Cotton Top", Price: models.MustMoney("30")})

	products, total, err := repo.List(ProductListFilter{CategoryID: &category.ID, WithCategory: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || products[0].Category == nil || products[0].Category.Name != "Dresses" {
		t.Fatalf("unexpected category filter result: total=%d products=%+v", total, products)
	}
}

func TestCountBySKUIncludesSoftDeleted(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, models.Product{Name: "Scarf", SKU: "SCF-1", Price: models.MustMoney("5")})
	if err := repo.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	count, err := repo.CountBySKU("SCF-1", 0)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected soft deleted sku to be counted, got %d", count)
	}
}
