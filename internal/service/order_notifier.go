package service

import (
	"context"
	"errors"
	"time"

	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/queue"

	"github.com/hibiken/asynq"
)

// OrderNotifier 订单通知（下单确认与状态变更），调用方不等待邮件发送结果
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, orderID uint) error
	NotifyOrderStatus(ctx context.Context, orderID uint, status string) error
}

// AsyncOrderNotifier 队列可用时投递 asynq 任务，否则在后台 goroutine 中直接发送
type AsyncOrderNotifier struct {
	queueClient *queue.Client
	emails      *OrderEmailService
	timeout     time.Duration
}

// NewAsyncOrderNotifier 创建订单通知器
func NewAsyncOrderNotifier(queueClient *queue.Client, emails *OrderEmailService, timeout time.Duration) *AsyncOrderNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AsyncOrderNotifier{queueClient: queueClient, emails: emails, timeout: timeout}
}

// NotifyOrderPlaced 下单确认邮件
func (n *AsyncOrderNotifier) NotifyOrderPlaced(ctx context.Context, orderID uint) error {
	if n.queueClient.Enabled() {
		return n.queueClient.EnqueueOrderConfirmationEmail(ctx, queue.OrderConfirmationEmailPayload{OrderID: orderID}, asynq.Timeout(n.timeout))
	}
	n.sendDetached("order_confirmation_email_failed", orderID, func() error {
		return n.emails.SendOrderConfirmationByID(orderID)
	})
	return nil
}

// NotifyOrderStatus 订单状态邮件
func (n *AsyncOrderNotifier) NotifyOrderStatus(ctx context.Context, orderID uint, status string) error {
	if n.queueClient.Enabled() {
		return n.queueClient.EnqueueOrderStatusEmail(ctx, queue.OrderStatusEmailPayload{OrderID: orderID, Status: status}, asynq.Timeout(n.timeout))
	}
	n.sendDetached("order_status_email_failed", orderID, func() error {
		return n.emails.SendOrderStatusByID(orderID, status)
	})
	return nil
}

func (n *AsyncOrderNotifier) sendDetached(event string, orderID uint, send func() error) {
	if n.emails == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw(event, "order_id", orderID, "panic", r)
			}
		}()
		if err := send(); err != nil && !errors.Is(err, ErrEmailServiceDisabled) {
			logger.Warnw(event, "order_id", orderID, "error", err)
		}
	}()
}
