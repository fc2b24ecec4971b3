package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/provider"
	"github.com/saya-shop/internal/queue"
	"github.com/saya-shop/internal/repository"
	"github.com/saya-shop/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type recordingSender struct {
	subjects []string
	err      error
}

func (s *recordingSender) SendHTML(toEmail, subject, htmlBody string) error {
	if s.err != nil {
		return s.err
	}
	s.subjects = append(s.subjects, subject)
	return nil
}

func setupWorkerTest(t *testing.T) (*Consumer, *recordingSender, *models.Order) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	order := &models.Order{
		OrderNo:         "a1b2c3d4-0000-0000-0000-000000000000",
		IdempotencyKey:  "worker-key",
		GuestName:       "Ayesha",
		GuestEmail:      "ayesha@example.com",
		ShippingAddress: models.ShippingAddress{Line1: "House 1", City: "Karachi", State: "Sindh", PostalCode: "75500", Country: "Pakistan"},
		TotalAmount:     models.MustMoney("25.00"),
		Status:          constants.OrderStatusPending,
		PaymentMethod:   constants.PaymentMethodCOD,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	sender := &recordingSender{}
	container := &provider.Container{
		OrderEmailService: service.NewOrderEmailService(sender, repository.NewOrderRepository(db)),
	}
	return NewConsumer(container), sender, order
}

func TestHandleOrderConfirmationEmailSends(t *testing.T) {
	consumer, sender, order := setupWorkerTest(t)
	task, err := queue.NewOrderConfirmationEmailTask(queue.OrderConfirmationEmailPayload{OrderID: order.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderConfirmationEmail(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(sender.subjects) != 1 || sender.subjects[0] != "Order Confirmation - SAYA #a1b2c3d4" {
		t.Fatalf("unexpected subjects: %v", sender.subjects)
	}
}

func TestHandleOrderStatusEmailSends(t *testing.T) {
	consumer, sender, order := setupWorkerTest(t)
	task, err := queue.NewOrderStatusEmailTask(queue.OrderStatusEmailPayload{OrderID: order.ID, Status: constants.OrderStatusShipped})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(sender.subjects) != 1 || !strings.HasPrefix(sender.subjects[0], "Order Shipped - SAYA #") {
		t.Fatalf("unexpected subjects: %v", sender.subjects)
	}
}

func TestHandleEmailTaskRetryPolicy(t *testing.T) {
	consumer, sender, order := setupWorkerTest(t)

	missing, _ := queue.NewOrderConfirmationEmailTask(queue.OrderConfirmationEmailPayload{OrderID: order.ID + 100})
	if err := consumer.handleOrderConfirmationEmail(context.Background(), missing); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("missing order must skip retry, got %v", err)
	}

	sender.err = service.ErrEmailServiceDisabled
	task, _ := queue.NewOrderConfirmationEmailTask(queue.OrderConfirmationEmailPayload{OrderID: order.ID})
	if err := consumer.handleOrderConfirmationEmail(context.Background(), task); err != nil {
		t.Fatalf("disabled email must be dropped silently, got %v", err)
	}

	sender.err = errors.New("smtp timeout")
	if err := consumer.handleOrderConfirmationEmail(context.Background(), task); err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("transient failure must be retried, got %v", err)
	}

	bad := asynq.NewTask(queue.TaskOrderStatusEmail, []byte("{"))
	if err := consumer.handleOrderStatusEmail(context.Background(), bad); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload must skip retry, got %v", err)
	}
}
