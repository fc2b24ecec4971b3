package repository

import (
	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(lowStockThreshold int) (DashboardOverviewRow, error)
	GetStatusCounts() ([]DashboardStatusRow, error)
}

// DashboardOverviewRow 总览统计
type DashboardOverviewRow struct {
	ProductsTotal      int64
	OrdersTotal        int64
	UsersTotal         int64
	Revenue            models.Money
	OutOfStockProducts int64
	LowStockProducts   int64
}

// DashboardStatusRow 按订单状态聚合
type DashboardStatusRow struct {
	Status string
	Count  int64
	Amount models.Money
}

// GormDashboardRepository GORM 实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 商品、订单、用户总数与营收（不含已取消订单）
func (r *GormDashboardRepository) GetOverview(lowStockThreshold int) (DashboardOverviewRow, error) {
	var row DashboardOverviewRow
	if err := r.db.Model(&models.Product{}).Count(&row.ProductsTotal).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Order{}).Count(&row.OrdersTotal).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.User{}).Count(&row.UsersTotal).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Product{}).Where("inventory_count <= 0").Count(&row.OutOfStockProducts).Error; err != nil {
		return row, err
	}
	if lowStockThreshold > 0 {
		if err := r.db.Model(&models.Product{}).
			Where("inventory_count > 0 AND inventory_count <= ?", lowStockThreshold).
			Count(&row.LowStockProducts).Error; err != nil {
			return row, err
		}
	}

	var revenue struct {
		Total models.Money
	}
	if err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("status <> ?", constants.OrderStatusCancelled).
		Scan(&revenue).Error; err != nil {
		return row, err
	}
	row.Revenue = revenue.Total
	return row, nil
}

// GetStatusCounts 各状态订单数与金额
func (r *GormDashboardRepository) GetStatusCounts() ([]DashboardStatusRow, error) {
	var rows []DashboardStatusRow
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS amount").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
