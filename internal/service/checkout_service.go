package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/saya-shop/internal/cart"
	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/saga"
	"github.com/saya-shop/internal/storage"

	"github.com/google/uuid"
)

const maxIdempotencyKeyLength = 64

// CheckoutOrderStore 结算所需的订单写入能力
type CheckoutOrderStore interface {
	GetByIdempotencyKey(key string) (*models.Order, error)
	Create(order *models.Order) error
	CreateItems(items []models.OrderItem) error
	HardDelete(id uint) error
}

// CheckoutUserLookup 读取下单用户资料
type CheckoutUserLookup interface {
	GetByID(id uint) (*models.User, error)
}

// ProofFile 转账凭证文件
type ProofFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	UserID          *uint
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	Proof           *ProofFile
	IdempotencyKey  string
	Items           []cart.Item
}

// CheckoutResult 结算结果
type CheckoutResult struct {
	Order    *models.Order `json:"order"`
	Replayed bool          `json:"replayed"`
	Redirect string        `json:"redirect"`
}

// CheckoutService 下单编排：校验、上传凭证、创建订单与订单项、通知
type CheckoutService struct {
	orders            CheckoutOrderStore
	users             CheckoutUserLookup
	storage           storage.Storage
	notifier          OrderNotifier
	proofMaxSize      int64
	proofAllowedTypes []string
	now               func() time.Time
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(orders CheckoutOrderStore, users CheckoutUserLookup, store storage.Storage, notifier OrderNotifier, cfg config.CheckoutConfig) *CheckoutService {
	return &CheckoutService{
		orders:            orders,
		users:             users,
		storage:           store,
		notifier:          notifier,
		proofMaxSize:      cfg.ProofMaxSize,
		proofAllowedTypes: cfg.ProofAllowedTypes,
		now:               time.Now,
	}
}

// OrderConfirmationPath 下单成功后的跳转地址
func OrderConfirmationPath(orderNo string) string {
	return "/order-confirmation/" + orderNo
}

// PlaceOrder 执行下单流程，失败时回滚已完成的步骤
func (s *CheckoutService) PlaceOrder(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	var (
		order     *models.Order
		replayed  bool
		proofPath string
	)

	steps := []saga.Step{
		{
			Name: "validate",
			Run: func(ctx context.Context) error {
				return s.prepare(&input)
			},
		},
		{
			Name: "replay",
			Run: func(ctx context.Context) error {
				existing, err := s.orders.GetByIdempotencyKey(input.IdempotencyKey)
				if err != nil {
					return err
				}
				if existing != nil {
					order = existing
					replayed = true
					return saga.ErrHalt
				}
				return nil
			},
		},
		{
			Name: "upload_proof",
			Run: func(ctx context.Context) error {
				if input.PaymentMethod != constants.PaymentMethodBankTransfer {
					return nil
				}
				path, err := s.storage.Upload(ctx, constants.BucketPaymentProofs, s.proofObjectName(input.Proof.Filename), input.Proof.Reader, input.Proof.ContentType)
				if err != nil {
					return err
				}
				proofPath = path
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if proofPath == "" {
					return nil
				}
				err := s.storage.Delete(ctx, constants.BucketPaymentProofs, proofPath)
				if errors.Is(err, storage.ErrObjectNotFound) {
					return nil
				}
				return err
			},
		},
		{
			Name: "create_order",
			Run: func(ctx context.Context) error {
				order = s.buildOrder(input, proofPath)
				return s.orders.Create(order)
			},
			Compensate: func(ctx context.Context) error {
				if order == nil || order.ID == 0 {
					return nil
				}
				return s.orders.HardDelete(order.ID)
			},
		},
		{
			Name: "create_items",
			Run: func(ctx context.Context) error {
				items := buildOrderItems(order.ID, input.Items)
				if err := s.orders.CreateItems(items); err != nil {
					return err
				}
				order.Items = items
				return nil
			},
		},
		{
			Name: "notify",
			Run: func(ctx context.Context) error {
				s.notify(ctx, order)
				return nil
			},
		},
	}

	hooks := saga.Hooks{
		OnStepFailed: func(step string, err error) {
			if step == "validate" {
				return
			}
			logger.Warnw("checkout_step_failed", "step", step, "idempotency_key", input.IdempotencyKey, "error", err)
		},
		OnCompensationFailed: func(step string, err error) {
			logger.Errorw("checkout_compensation_failed", "step", step, "idempotency_key", input.IdempotencyKey, "error", err)
		},
	}
	if err := saga.RunWithHooks(ctx, hooks, steps...); err != nil {
		return nil, mapCheckoutError(err)
	}
	if order.PaymentProof != "" {
		order.PaymentProofURL = s.storage.PublicURL(constants.BucketPaymentProofs, order.PaymentProof)
	}
	return &CheckoutResult{
		Order:    order,
		Replayed: replayed,
		Redirect: OrderConfirmationPath(order.OrderNo),
	}, nil
}

// prepare 校验输入并补全联系人信息，不产生任何写操作
func (s *CheckoutService) prepare(input *CheckoutInput) error {
	if len(input.Items) == 0 {
		return ErrCartEmpty
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 || item.Product.ID == 0 {
			return fmt.Errorf("%w: invalid cart item", ErrCheckoutValidation)
		}
	}

	input.PaymentMethod = strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	switch input.PaymentMethod {
	case constants.PaymentMethodCOD:
		input.Proof = nil
	case constants.PaymentMethodBankTransfer:
		if input.Proof == nil || input.Proof.Reader == nil {
			return ErrPaymentProofRequired
		}
		if err := s.validateProof(input.Proof); err != nil {
			return err
		}
	default:
		return ErrPaymentMethodInvalid
	}

	if err := s.applyIdentity(input); err != nil {
		return err
	}

	input.ShippingAddress = input.ShippingAddress.Normalize()
	if err := input.ShippingAddress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCheckoutValidation, err)
	}

	input.IdempotencyKey = strings.TrimSpace(input.IdempotencyKey)
	if input.IdempotencyKey == "" {
		input.IdempotencyKey = uuid.NewString()
	}
	if len(input.IdempotencyKey) > maxIdempotencyKeyLength {
		return fmt.Errorf("%w: idempotency key too long", ErrCheckoutValidation)
	}
	return nil
}

// applyIdentity 登录用户以资料为准，游客必须填写姓名与电话
func (s *CheckoutService) applyIdentity(input *CheckoutInput) error {
	input.GuestName = strings.TrimSpace(input.GuestName)
	input.GuestEmail = strings.TrimSpace(input.GuestEmail)
	input.GuestPhone = strings.TrimSpace(input.GuestPhone)

	if input.UserID != nil && *input.UserID != 0 && s.users != nil {
		user, err := s.users.GetByID(*input.UserID)
		if err != nil {
			return err
		}
		if user != nil {
			input.GuestName = firstNonEmpty(user.FullName, input.GuestName)
			input.GuestEmail = firstNonEmpty(user.Email, input.GuestEmail)
			input.GuestPhone = firstNonEmpty(user.PhoneNumber, input.GuestPhone)
			if input.ShippingAddress.IsEmpty() {
				input.ShippingAddress = user.ShippingAddress
			}
			return nil
		}
	}
	input.UserID = nil

	if input.GuestName == "" {
		return fmt.Errorf("%w: guest name is required", ErrCheckoutValidation)
	}
	if input.GuestPhone == "" {
		return fmt.Errorf("%w: guest phone is required", ErrCheckoutValidation)
	}
	return nil
}

func (s *CheckoutService) validateProof(proof *ProofFile) error {
	if s.proofMaxSize > 0 && proof.Size > s.proofMaxSize {
		return fmt.Errorf("%w: file exceeds %d MB", ErrPaymentProofInvalid, s.proofMaxSize/1024/1024)
	}
	contentType := strings.TrimSpace(proof.ContentType)
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(proof.Filename)))
	}
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	proof.ContentType = contentType
	if len(s.proofAllowedTypes) == 0 {
		return nil
	}
	for _, allowed := range s.proofAllowedTypes {
		if strings.EqualFold(allowed, contentType) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrPaymentProofInvalid, contentType)
}

// proofObjectName payment-proof-<毫秒时间戳>.<原扩展名>
func (s *CheckoutService) proofObjectName(filename string) string {
	name := fmt.Sprintf("payment-proof-%d", s.now().UnixMilli())
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(filename)), "."))
	if ext == "" {
		return name
	}
	return name + "." + ext
}

func (s *CheckoutService) buildOrder(input CheckoutInput, proofPath string) *models.Order {
	return &models.Order{
		OrderNo:         uuid.NewString(),
		IdempotencyKey:  input.IdempotencyKey,
		UserID:          input.UserID,
		GuestName:       input.GuestName,
		GuestEmail:      input.GuestEmail,
		GuestPhone:      input.GuestPhone,
		ShippingAddress: input.ShippingAddress,
		TotalAmount:     cart.TotalPrice(cart.State{Items: input.Items}),
		Status:          constants.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
		PaymentProof:    proofPath,
	}
}

// buildOrderItems 订单项价格取加入购物车时的快照价
func buildOrderItems(orderID uint, items []cart.Item) []models.OrderItem {
	result := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		result = append(result, models.OrderItem{
			OrderID:     orderID,
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Product.Price,
		})
	}
	return result
}

func (s *CheckoutService) notify(ctx context.Context, order *models.Order) {
	if s.notifier == nil || order == nil || strings.TrimSpace(order.ContactEmail()) == "" {
		return
	}
	if err := s.notifier.NotifyOrderPlaced(ctx, order.ID); err != nil {
		logger.Warnw("checkout_notify_failed", "order_id", order.ID, "order_no", order.OrderNo, "error", err)
	}
}

func mapCheckoutError(err error) error {
	var sagaErr *saga.Error
	if !errors.As(err, &sagaErr) {
		return fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}
	switch sagaErr.Step {
	case "validate":
		if isCheckoutValidationError(sagaErr.Err) {
			return sagaErr.Err
		}
		return fmt.Errorf("%w: %v", ErrOrderCreateFailed, sagaErr.Err)
	case "upload_proof":
		return fmt.Errorf("%w: %v", ErrPaymentProofUpload, sagaErr.Err)
	default:
		return fmt.Errorf("%w: %v", ErrOrderCreateFailed, sagaErr.Err)
	}
}

func isCheckoutValidationError(err error) bool {
	for _, target := range []error{
		ErrCartEmpty,
		ErrCheckoutValidation,
		ErrPaymentMethodInvalid,
		ErrPaymentProofRequired,
		ErrPaymentProofInvalid,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
