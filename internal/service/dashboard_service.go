package service

import (
	"context"
	"time"

	"github.com/saya-shop/internal/cache"
	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/repository"
)

const (
	dashboardCacheTTL      = 45 * time.Second
	dashboardCacheKey      = "dashboard:overview"
	dashboardLowStockLimit = 5
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心经营数据。
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	ProductsTotal      int64            `json:"products_total"`
	OrdersTotal        int64            `json:"orders_total"`
	UsersTotal         int64            `json:"users_total"`
	Revenue            models.Money     `json:"revenue"`
	OutOfStockProducts int64            `json:"out_of_stock_products"`
	LowStockProducts   int64            `json:"low_stock_products"`
	StatusCounts       map[string]int64 `json:"status_counts"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// Overview 获取总览，forceRefresh 时跳过缓存
func (s *DashboardService) Overview(ctx context.Context, forceRefresh bool) (*DashboardOverview, error) {
	if !forceRefresh {
		var cached DashboardOverview
		hit, cacheErr := cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if cacheErr != nil {
			logger.Warnw("dashboard_cache_read_failed", "error", cacheErr)
		}
		if hit {
			return &cached, nil
		}
	}

	row, err := s.repo.GetOverview(dashboardLowStockLimit)
	if err != nil {
		return nil, err
	}
	statusRows, err := s.repo.GetStatusCounts()
	if err != nil {
		return nil, err
	}
	overview := &DashboardOverview{
		ProductsTotal:      row.ProductsTotal,
		OrdersTotal:        row.OrdersTotal,
		UsersTotal:         row.UsersTotal,
		Revenue:            row.Revenue,
		OutOfStockProducts: row.OutOfStockProducts,
		LowStockProducts:   row.LowStockProducts,
		StatusCounts:       make(map[string]int64, len(statusRows)),
		GeneratedAt:        time.Now(),
	}
	for _, status := range statusRows {
		overview.StatusCounts[status.Status] = status.Count
	}

	_ = cache.SetJSON(ctx, dashboardCacheKey, overview, dashboardCacheTTL)
	return overview, nil
}
