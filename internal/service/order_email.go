package service

import (
	"bytes"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/repository"
)

// HTMLSender 发送 HTML 邮件
type HTMLSender interface {
	SendHTML(toEmail, subject, htmlBody string) error
}

// OrderConfirmationItem 确认邮件中的订单项
type OrderConfirmationItem struct {
	Name     string       `json:"name"`
	Quantity int          `json:"quantity"`
	Price    models.Money `json:"price"`
}

// OrderConfirmationEmail 订单确认邮件输入
type OrderConfirmationEmail struct {
	OrderID         string                  `json:"orderId"`
	CustomerEmail   string                  `json:"customerEmail"`
	CustomerName    string                  `json:"customerName"`
	OrderItems      []OrderConfirmationItem `json:"orderItems"`
	TotalAmount     models.Money            `json:"totalAmount"`
	ShippingAddress models.ShippingAddress  `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
}

// OrderEmailService 订单邮件（确认与状态通知）
type OrderEmailService struct {
	sender    HTMLSender
	orderRepo repository.OrderRepository
	now       func() time.Time
}

// NewOrderEmailService 创建订单邮件服务
func NewOrderEmailService(sender HTMLSender, orderRepo repository.OrderRepository) *OrderEmailService {
	return &OrderEmailService{sender: sender, orderRepo: orderRepo, now: time.Now}
}

// SendOrderConfirmation 渲染并发送订单确认邮件
func (s *OrderEmailService) SendOrderConfirmation(input OrderConfirmationEmail) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(input.CustomerEmail)); err != nil {
		return ErrInvalidEmail
	}
	subject, body, err := renderOrderConfirmation(input)
	if err != nil {
		return err
	}
	return s.sender.SendHTML(strings.TrimSpace(input.CustomerEmail), subject, body)
}

// SendTestEmail 向指定地址发送一封模拟订单的确认邮件，返回实际收件人
func (s *OrderEmailService) SendTestEmail(toEmail string) (string, error) {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		toEmail = "test@example.com"
	}
	input := SampleOrderConfirmation(toEmail, s.now())
	return toEmail, s.SendOrderConfirmation(input)
}

// SampleOrderConfirmation 测试邮件使用的模拟订单
func SampleOrderConfirmation(toEmail string, now time.Time) OrderConfirmationEmail {
	return OrderConfirmationEmail{
		OrderID:       fmt.Sprintf("test-order-%d", now.UnixMilli()),
		CustomerEmail: toEmail,
		CustomerName:  "Test Customer",
		OrderItems: []OrderConfirmationItem{
			{Name: "Elegant Maxi Dress", Quantity: 1, Price: models.MustMoney("89.99")},
			{Name: "Casual Cotton Top", Quantity: 2, Price: models.MustMoney("34.99")},
		},
		TotalAmount: models.MustMoney("159.97"),
		ShippingAddress: models.ShippingAddress{
			Line1:      "123 Fashion Street",
			City:       "Karachi",
			State:      "Sindh",
			PostalCode: "75500",
			Country:    "Pakistan",
		},
		PaymentMethod: constants.PaymentMethodCOD,
	}
}

// SendOrderConfirmationByID 读取订单并发送确认邮件，无联系邮箱时跳过
func (s *OrderEmailService) SendOrderConfirmationByID(orderID uint) error {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(order.ContactEmail()) == "" {
		return nil
	}
	return s.SendOrderConfirmation(BuildOrderConfirmation(order))
}

// SendOrderStatusByID 发送订单状态变更邮件
func (s *OrderEmailService) SendOrderStatusByID(orderID uint, status string) error {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return err
	}
	toEmail := strings.TrimSpace(order.ContactEmail())
	if toEmail == "" {
		return nil
	}
	subject, body, err := renderOrderStatus(order, status)
	if err != nil {
		return err
	}
	return s.sender.SendHTML(toEmail, subject, body)
}

func (s *OrderEmailService) loadOrder(orderID uint) (*models.Order, error) {
	if s.orderRepo == nil || orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// BuildOrderConfirmation 由订单构建确认邮件输入
func BuildOrderConfirmation(order *models.Order) OrderConfirmationEmail {
	items := make([]OrderConfirmationItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderConfirmationItem{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return OrderConfirmationEmail{
		OrderID:         order.OrderNo,
		CustomerEmail:   order.ContactEmail(),
		CustomerName:    order.GuestName,
		OrderItems:      items,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
	}
}

// OrderShortID 邮件展示用的短订单号（前 8 位）
func OrderShortID(orderID string) string {
	runes := []rune(orderID)
	if len(runes) > 8 {
		runes = runes[:8]
	}
	return string(runes)
}

// PaymentMethodLabel 支付方式展示名
func PaymentMethodLabel(method string) string {
	if method == constants.PaymentMethodCOD {
		return "Cash on Delivery"
	}
	return "Bank Transfer"
}

var orderStatusLabels = map[string]string{
	constants.OrderStatusPending:   "Pending",
	constants.OrderStatusConfirmed: "Confirmed",
	constants.OrderStatusShipped:   "Shipped",
	constants.OrderStatusDelivered: "Delivered",
	constants.OrderStatusCancelled: "Cancelled",
}

// OrderStatusLabel 订单状态展示名
func OrderStatusLabel(status string) string {
	if label, ok := orderStatusLabels[status]; ok {
		return label
	}
	return status
}

type confirmationRow struct {
	Name     string
	Quantity int
	Total    string
}

type confirmationView struct {
	CustomerName string
	ShortID      string
	PaymentLabel string
	Rows         []confirmationRow
	Total        string
	Address      models.ShippingAddress
	Street       string
	StoreName    string
	StoreTagline string
	WhatsApp     string
	WhatsAppLink string
}

func renderOrderConfirmation(input OrderConfirmationEmail) (string, string, error) {
	shortID := OrderShortID(input.OrderID)
	view := confirmationView{
		CustomerName: input.CustomerName,
		ShortID:      shortID,
		PaymentLabel: PaymentMethodLabel(input.PaymentMethod),
		Total:        input.TotalAmount.String(),
		Address:      input.ShippingAddress,
		Street:       input.ShippingAddress.Street(),
		StoreName:    constants.StoreName,
		StoreTagline: constants.StoreTagline,
		WhatsApp:     constants.StoreWhatsApp,
		WhatsAppLink: whatsAppLink(constants.StoreWhatsApp),
	}
	for _, item := range input.OrderItems {
		view.Rows = append(view.Rows, confirmationRow{
			Name:     item.Name,
			Quantity: item.Quantity,
			Total:    item.Price.Times(item.Quantity).String(),
		})
	}
	var buf bytes.Buffer
	if err := orderConfirmationTemplate.Execute(&buf, view); err != nil {
		return "", "", err
	}
	subject := fmt.Sprintf("Order Confirmation - %s #%s", constants.StoreName, shortID)
	return subject, buf.String(), nil
}

type statusView struct {
	CustomerName string
	ShortID      string
	StatusLabel  string
	Status       string
	Total        string
	StoreName    string
	WhatsApp     string
}

func renderOrderStatus(order *models.Order, status string) (string, string, error) {
	shortID := OrderShortID(order.OrderNo)
	view := statusView{
		CustomerName: order.GuestName,
		ShortID:      shortID,
		StatusLabel:  OrderStatusLabel(status),
		Status:       status,
		Total:        order.TotalAmount.String(),
		StoreName:    constants.StoreName,
		WhatsApp:     constants.StoreWhatsApp,
	}
	var buf bytes.Buffer
	if err := orderStatusTemplate.Execute(&buf, view); err != nil {
		return "", "", err
	}
	subject := fmt.Sprintf("Order %s - %s #%s", view.StatusLabel, constants.StoreName, shortID)
	return subject, buf.String(), nil
}

func whatsAppLink(number string) string {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "https://wa.me/" + digits.String()
}

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Order Confirmation - {{.StoreName}}</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #2c3e50; margin-bottom: 10px;">{{.StoreName}}</h1>
    <h2 style="color: #27ae60; margin-top: 0;">Order Confirmation</h2>
  </div>
  <p>Dear {{.CustomerName}},</p>
  <p>Thank you for your order! We're excited to confirm that we've received your order and it's being processed.</p>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #2c3e50;">Order Details</h3>
    <p><strong>Order ID:</strong> #{{.ShortID}}</p>
    <p><strong>Payment Method:</strong> {{.PaymentLabel}}</p>
  </div>
  <h3 style="color: #2c3e50;">Items Ordered</h3>
  <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
    <thead>
      <tr style="background-color: #f8f9fa;">
        <th style="padding: 12px; text-align: left; border-bottom: 2px solid #dee2e6;">Product</th>
        <th style="padding: 12px; text-align: center; border-bottom: 2px solid #dee2e6;">Quantity</th>
        <th style="padding: 12px; text-align: right; border-bottom: 2px solid #dee2e6;">Total</th>
      </tr>
    </thead>
    <tbody>
      {{- range .Rows}}
      <tr>
        <td style="padding: 8px; border-bottom: 1px solid #eee;">{{.Name}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">${{.Total}}</td>
      </tr>
      {{- end}}
    </tbody>
    <tfoot>
      <tr>
        <td colspan="2" style="padding: 12px; text-align: right; font-weight: bold; border-top: 2px solid #dee2e6;">Total Amount:</td>
        <td style="padding: 12px; text-align: right; font-weight: bold; border-top: 2px solid #dee2e6;">${{.Total}}</td>
      </tr>
    </tfoot>
  </table>
  <h3 style="color: #2c3e50;">Shipping Address</h3>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 8px; margin-bottom: 20px;">
    <p style="margin: 0;">
      {{.Street}}<br>
      {{.Address.City}}, {{.Address.State}} {{.Address.PostalCode}}<br>
      {{.Address.Country}}
    </p>
  </div>
  <div style="background-color: #e8f5e8; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #27ae60;">What's Next?</h3>
    <p style="margin-bottom: 0;">We'll contact you via WhatsApp for order updates and delivery coordination. Our team will reach out to you soon with tracking information and delivery details.</p>
  </div>
  <p>If you have any questions about your order, please don't hesitate to contact us via WhatsApp at {{.WhatsApp}}.</p>
  <p>Thank you for choosing {{.StoreName}}!</p>
  <div style="text-align: center; margin-top: 40px; padding-top: 20px; border-top: 1px solid #eee;">
    <p style="color: #666; font-size: 14px;">
      {{.StoreName}} - {{.StoreTagline}}<br>
      <a href="{{.WhatsAppLink}}" style="color: #27ae60;">WhatsApp: {{.WhatsApp}}</a>
    </p>
  </div>
</body>
</html>
`))

var orderStatusTemplate = template.Must(template.New("order_status").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Order {{.StatusLabel}} - {{.StoreName}}</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #2c3e50; text-align: center;">{{.StoreName}}</h1>
  <p>Dear {{.CustomerName}},</p>
  <p>Your order <strong>#{{.ShortID}}</strong> is now <strong>{{.StatusLabel}}</strong>.</p>
  {{- if eq .Status "shipped"}}
  <p>Your parcel is on its way. We'll contact you via WhatsApp to coordinate delivery.</p>
  {{- else if eq .Status "cancelled"}}
  <p>If you did not request this cancellation, please contact us.</p>
  {{- end}}
  <p><strong>Order Total:</strong> ${{.Total}}</p>
  <p>Questions? Reach us on WhatsApp at {{.WhatsApp}}.</p>
</body>
</html>
`))
