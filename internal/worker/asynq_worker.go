package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/saya-shop/internal/logger"
	"github.com/saya-shop/internal/provider"
	"github.com/saya-shop/internal/queue"
	"github.com/saya-shop/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
}

func (c *Consumer) handleOrderConfirmationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirmation_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmation_email_unmarshal_failed", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirmation_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderEmailService == nil {
		logger.Warnw("worker_order_confirmation_email_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	return c.finishEmailTask("worker_order_confirmation_email_send_failed", payload.OrderID, "",
		c.OrderEmailService.SendOrderConfirmationByID(payload.OrderID))
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderEmailService == nil {
		logger.Warnw("worker_order_status_email_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	return c.finishEmailTask("worker_order_status_email_send_failed", payload.OrderID, payload.Status,
		c.OrderEmailService.SendOrderStatusByID(payload.OrderID, payload.Status))
}

// finishEmailTask 统一处理发送结果：未启用邮件、订单不存在或收件人被拒时不重试
func (c *Consumer) finishEmailTask(event string, orderID uint, status string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, service.ErrEmailServiceDisabled):
		logger.Debugw("worker_email_skip_disabled", "order_id", orderID)
		return nil
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrEmailRecipientRejected),
		errors.Is(err, service.ErrEmailServiceNotConfigured):
		logger.Warnw(event, "order_id", orderID, "status", status, "retry", false, "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	logger.Warnw(event, "order_id", orderID, "status", status, "error", err)
	return err
}
