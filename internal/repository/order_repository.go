package repository

import (
	"errors"
	"strings"

	"github.com/saya-shop/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	CreateItems(items []models.OrderItem) error
	HardDelete(id uint) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByIdempotencyKey(key string) (*models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, fromStatus, toStatus string) (bool, error)
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withItems(query *gorm.DB) *gorm.DB {
	return query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	})
}

// Create 创建订单头
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Omit("Items").Create(order).Error
}

// CreateItems 批量创建订单项
func (r *GormOrderRepository) CreateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Omit("Product").Create(&items).Error
}

// HardDelete 物理删除订单及订单项（结算补偿使用，释放幂等键）
func (r *GormOrderRepository) HardDelete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Order{}, id).Error
	})
}

// GetByID 根据 ID 获取订单（含订单项）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据对外订单号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(r.db).Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIdempotencyKey 根据幂等键获取订单
func (r *GormOrderRepository) GetByIdempotencyKey(key string) (*models.Order, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var order models.Order
	if err := r.withItems(r.db).Where("idempotency_key = ?", key).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByUser 用户订单列表（最新在前）
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return []models.Order{}, 0, nil
	}
	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID)
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	return r.listPaged(query, filter)
}

// ListAdmin 后台订单列表：状态过滤 + 订单号/联系人搜索
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := buildSearchCondition(
			dbDialectName(r.db),
			[]string{"order_no", "guest_name", "guest_email", "guest_phone"},
			"",
			search,
		)
		query = query.Where(condition, args...)
	}
	return r.listPaged(query, filter)
}

func (r *GormOrderRepository) listPaged(query *gorm.DB, filter OrderListFilter) ([]models.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(r.withItems(query), filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 条件更新订单状态，返回是否命中
func (r *GormOrderRepository) UpdateStatus(id uint, fromStatus, toStatus string) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
