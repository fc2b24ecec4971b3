package service

import (
	"context"
	"strings"

	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/repository"
	"github.com/saya-shop/internal/storage"
)

// OrderService 订单查询与后台状态管理
type OrderService struct {
	orderRepo     repository.OrderRepository
	dashboardRepo repository.DashboardRepository
	storage       storage.Storage
	notifier      OrderNotifier
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, dashboardRepo repository.DashboardRepository, store storage.Storage, notifier OrderNotifier) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		dashboardRepo: dashboardRepo,
		storage:       store,
		notifier:      notifier,
	}
}

// OrderListQuery 订单列表查询
type OrderListQuery struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

// OrderStatusSummary 按状态汇总
type OrderStatusSummary struct {
	Counts  map[string]int64 `json:"counts"`
	Revenue models.Money     `json:"revenue"`
}

// ListAdmin 后台订单列表
func (s *OrderService) ListAdmin(query OrderListQuery) ([]models.Order, int64, error) {
	status := normalizeOrderStatus(query.Status)
	if status == "all" {
		status = ""
	}
	if status != "" && !IsKnownOrderStatus(status) {
		return nil, 0, ErrOrderStatusInvalid
	}
	orders, total, err := s.orderRepo.ListAdmin(repository.OrderListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Status:   status,
		Search:   strings.TrimSpace(query.Search),
	})
	if err != nil {
		return nil, 0, err
	}
	s.fillProofURLs(orders)
	return orders, total, nil
}

// StatusSummary 各状态订单数与收入（收入不含已取消订单）
func (s *OrderService) StatusSummary() (*OrderStatusSummary, error) {
	rows, err := s.dashboardRepo.GetStatusCounts()
	if err != nil {
		return nil, err
	}
	summary := &OrderStatusSummary{
		Counts:  map[string]int64{},
		Revenue: models.Money{},
	}
	for _, status := range []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
	} {
		summary.Counts[status] = 0
	}
	for _, row := range rows {
		summary.Counts[row.Status] = row.Count
		if row.Status != constants.OrderStatusCancelled {
			summary.Revenue = summary.Revenue.Plus(row.Amount)
		}
	}
	return summary, nil
}

// ListByUser 用户自己的订单
func (s *OrderService) ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
	if err != nil {
		return nil, 0, err
	}
	s.fillProofURLs(orders)
	return orders, total, nil
}

// Get 后台订单详情
func (s *OrderService) Get(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.fillProofURL(order)
	return order, nil
}

// GetByOrderNo 下单确认页查询
func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.fillProofURL(order)
	return order, nil
}

// UpdateStatus 后台更新订单状态
// 只允许沿状态机流转；并发修改时以条件更新结果为准
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, target string) (*models.Order, error) {
	target = normalizeOrderStatus(target)
	if !IsKnownOrderStatus(target) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == target {
		s.fillProofURL(order)
		return order, nil
	}
	if !canTransitionOrderStatus(order.Status, target) {
		return nil, ErrOrderStatusUnsupported
	}

	updated, err := s.orderRepo.UpdateStatus(order.ID, order.Status, target)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrOrderStatusConflict
	}
	order.Status = target
	s.fillProofURL(order)

	if s.notifier != nil && strings.TrimSpace(order.ContactEmail()) != "" {
		if err := s.notifier.NotifyOrderStatus(ctx, order.ID, target); err != nil {
			logger.Warnw("order_status_notify_failed", "order_id", order.ID, "status", target, "error", err)
		}
	}
	return order, nil
}

func (s *OrderService) fillProofURLs(orders []models.Order) {
	for i := range orders {
		s.fillProofURL(&orders[i])
	}
}

func (s *OrderService) fillProofURL(order *models.Order) {
	if order == nil || order.PaymentProof == "" || s.storage == nil {
		return
	}
	order.PaymentProofURL = s.storage.PublicURL(constants.BucketPaymentProofs, order.PaymentProof)
}
