package repository

import (
	"testing"

	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/models"
)

func TestDashboardOverviewExcludesCancelledRevenue(t *testing.T) {
	db := setupRepositoryTestDB(t)
	orderRepo := NewOrderRepository(db)
	createTestProduct(t, db, models.Product{Name: "Scarf", Price: models.MustMoney("5"), InventoryCount: 0})
	createTestProduct(t, db, models.Product{Name: "Dress", Price: models.MustMoney("50"), InventoryCount: 2})
	createTestOrder(t, orderRepo, "ORD-1", "key-1", constants.OrderStatusPending)
	createTestOrder(t, orderRepo, "ORD-2", "key-2", constants.OrderStatusCancelled)

	repo := NewDashboardRepository(db)
	overview, err := repo.GetOverview(3)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.ProductsTotal != 2 || overview.OrdersTotal != 2 {
		t.Fatalf("unexpected totals: %+v", overview)
	}
	if overview.Revenue.String() != "25.00" {
		t.Fatalf("expected revenue 25.00, got %s", overview.Revenue)
	}
	if overview.OutOfStockProducts != 1 || overview.LowStockProducts != 1 {
		t.Fatalf("unexpected stock stats: %+v", overview)
	}

	rows, err := repo.GetStatusCounts()
	if err != nil {
		t.Fatalf("status counts failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 status rows, got %d", len(rows))
	}
}
