package public

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/service"
	"github.com/saya-shop/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type checkoutEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

// recordingOrderStore 记录结算流程对订单存储的调用
type recordingOrderStore struct {
	lookups   []string
	created   []*models.Order
	items     []models.OrderItem
	createErr error
	nextID    uint
}

func (s *recordingOrderStore) GetByIdempotencyKey(key string) (*models.Order, error) {
	s.lookups = append(s.lookups, key)
	return nil, nil
}

func (s *recordingOrderStore) Create(order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	order.ID = s.nextID
	s.created = append(s.created, order)
	return nil
}

func (s *recordingOrderStore) CreateItems(items []models.OrderItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *recordingOrderStore) HardDelete(id uint) error {
	return nil
}

type uploadedObject struct {
	bucket      string
	name        string
	contentType string
	body        []byte
}

type recordingStorage struct {
	uploads []uploadedObject
}

func (s *recordingStorage) Upload(_ context.Context, bucket, name string, body io.Reader, contentType string) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.uploads = append(s.uploads, uploadedObject{bucket: bucket, name: name, contentType: contentType, body: raw})
	return name, nil
}

func (s *recordingStorage) PublicURL(bucket, path string) string {
	return "https://cdn.example.com/" + bucket + "/" + path
}

func (s *recordingStorage) List(context.Context, string, string, int) ([]storage.Object, error) {
	return nil, nil
}

func (s *recordingStorage) Delete(context.Context, string, string) error {
	return nil
}

type countingNotifier struct {
	placed []uint
}

func (n *countingNotifier) NotifyOrderPlaced(_ context.Context, orderID uint) error {
	n.placed = append(n.placed, orderID)
	return nil
}

func (n *countingNotifier) NotifyOrderStatus(context.Context, uint, string) error {
	return nil
}

type checkoutFixture struct {
	engine   *gin.Engine
	db       *gorm.DB
	orders   *recordingOrderStore
	storage  *recordingStorage
	notifier *countingNotifier
}

func setupCheckoutHandlerTest(t *testing.T, captcha config.CaptchaConfig) *checkoutFixture {
	t.Helper()
	container, db := newPublicTestContainer(t)

	fx := &checkoutFixture{
		db:       db,
		orders:   &recordingOrderStore{},
		storage:  &recordingStorage{},
		notifier: &countingNotifier{},
	}
	container.CaptchaService = service.NewCaptchaService(captcha)
	container.CheckoutService = service.NewCheckoutService(fx.orders, nil, fx.storage, fx.notifier, config.CheckoutConfig{
		ProofMaxSize:      5 << 20,
		ProofAllowedTypes: []string{"image/png", "image/jpeg"},
	})

	h := New(container)
	fx.engine = gin.New()
	fx.engine.Use(testSessionMiddleware(container.SessionManager))
	registerCartRoutes(fx.engine, h)
	fx.engine.POST("/checkout", h.Checkout)
	return fx
}

func guestCheckoutBody(paymentMethod string) map[string]interface{} {
	return map[string]interface{}{
		"guest_name":  "Ayesha Khan",
		"guest_email": "ayesha@example.com",
		"guest_phone": "+92 300 1234567",
		"shipping_address": map[string]string{
			"line1":       "House 12, Street 4",
			"city":        "Lahore",
			"state":       "Punjab",
			"postal_code": "54000",
			"country":     "Pakistan",
		},
		"payment_method": paymentMethod,
	}
}

func postCheckoutJSON(t *testing.T, client *cartClient, body interface{}) checkoutEnvelope {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return decodeCheckout(t, client.send(req))
}

func decodeCheckout(t *testing.T, w *httptest.ResponseRecorder) checkoutEnvelope {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	var env checkoutEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func requireRedirectToProducts(t *testing.T, env checkoutEnvelope) {
	t.Helper()
	require.Equal(t, 400, env.StatusCode)
	require.Equal(t, service.ErrCartEmpty.Error(), env.Msg)
	var data struct {
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "/products", data.Redirect)
}

func TestCheckoutEmptyCartRedirectsWithoutPlacingOrder(t *testing.T) {
	fx := setupCheckoutHandlerTest(t, config.CaptchaConfig{})
	client := &cartClient{t: t, engine: fx.engine}

	env := postCheckoutJSON(t, client, guestCheckoutBody(constants.PaymentMethodCOD))
	requireRedirectToProducts(t, env)
	require.Empty(t, fx.orders.lookups)
	require.Empty(t, fx.orders.created)
	require.Empty(t, fx.notifier.placed)
}

func TestCheckoutEmptyCartRedirectsBeforeGuestCaptcha(t *testing.T) {
	fx := setupCheckoutHandlerTest(t, config.CaptchaConfig{GuestCheckout: true})
	client := &cartClient{t: t, engine: fx.engine}

	env := postCheckoutJSON(t, client, guestCheckoutBody(constants.PaymentMethodCOD))
	requireRedirectToProducts(t, env)
	require.Empty(t, fx.orders.lookups)
}

func TestCheckoutCashOnDeliveryClearsCart(t *testing.T) {
	fx := setupCheckoutHandlerTest(t, config.CaptchaConfig{})
	product := seedCartProduct(t, fx.db, "SAYA-C-201", 5)
	client := &cartClient{t: t, engine: fx.engine}
	client.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: product.ID})
	client.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: product.ID})

	env := postCheckoutJSON(t, client, guestCheckoutBody(constants.PaymentMethodCOD))
	require.Equal(t, 0, env.StatusCode, env.Msg)

	var result service.CheckoutResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotNil(t, result.Order)
	require.Equal(t, constants.PaymentMethodCOD, result.Order.PaymentMethod)
	require.Equal(t, service.OrderConfirmationPath(result.Order.OrderNo), result.Redirect)

	require.Len(t, fx.orders.created, 1)
	require.Len(t, fx.orders.items, 1)
	require.Equal(t, 2, fx.orders.items[0].Quantity)
	require.Equal(t, []uint{fx.orders.created[0].ID}, fx.notifier.placed)
	require.Empty(t, fx.storage.uploads)

	cartEnv := client.do(http.MethodGet, "/cart", nil)
	require.Equal(t, 0, cartEnv.Data.TotalItems)
	require.Empty(t, cartEnv.Data.Items)
}

func TestCheckoutFailureKeepsCartAndCheckoutKey(t *testing.T) {
	fx := setupCheckoutHandlerTest(t, config.CaptchaConfig{})
	fx.orders.createErr = errors.New("database is locked")
	product := seedCartProduct(t, fx.db, "SAYA-C-202", 5)
	client := &cartClient{t: t, engine: fx.engine}
	client.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: product.ID})

	env := postCheckoutJSON(t, client, guestCheckoutBody(constants.PaymentMethodCOD))
	require.Equal(t, 500, env.StatusCode)
	require.Equal(t, service.ErrOrderCreateFailed.Error(), env.Msg)

	cartEnv := client.do(http.MethodGet, "/cart", nil)
	require.Equal(t, 1, cartEnv.Data.TotalItems)

	// 重试沿用同一个幂等键
	postCheckoutJSON(t, client, guestCheckoutBody(constants.PaymentMethodCOD))
	require.Len(t, fx.orders.lookups, 2)
	require.NotEmpty(t, fx.orders.lookups[0])
	require.Equal(t, fx.orders.lookups[0], fx.orders.lookups[1])
}

func TestCheckoutIdempotencyHeaderWins(t *testing.T) {
	fx := setupCheckoutHandlerTest(t, config.CaptchaConfig{})
	product := seedCartProduct(t, fx.db, "SAYA-C-203", 5)
	client := &cartClient{t: t, engine: fx.engine}
	client.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: product.ID})

	raw, err := json.Marshal(guestCheckoutBody(constants.PaymentMethodCOD))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, "client-key-1")
	env := decodeCheckout(t, client.send(req))
	require.Equal(t, 0, env.StatusCode, env.Msg)
	require.Equal(t, []string{"client-key-1"}, fx.orders.lookups)
	require.Equal(t, "client-key-1", fx.orders.created[0].IdempotencyKey)
}

func TestCheckoutBankTransferMultipartUploadsProof(t *testing.T) {
	fx := setupCheckoutHandlerTest(t, config.CaptchaConfig{})
	product := seedCartProduct(t, fx.db, "SAYA-C-204", 5)
	client := &cartClient{t: t, engine: fx.engine}
	client.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: product.ID})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"guest_name":     "Ayesha Khan",
		"guest_phone":    "+92 300 1234567",
		"line1":          "House 12, Street 4",
		"city":           "Lahore",
		"state":          "Punjab",
		"postal_code":    "54000",
		"country":        "Pakistan",
		"payment_method": constants.PaymentMethodBankTransfer,
	}
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="payment_proof"; filename="receipt.PNG"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake receipt"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/checkout", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	env := decodeCheckout(t, client.send(req))
	require.Equal(t, 0, env.StatusCode, env.Msg)

	require.Len(t, fx.storage.uploads, 1)
	upload := fx.storage.uploads[0]
	require.Equal(t, constants.BucketPaymentProofs, upload.bucket)
	require.True(t, strings.HasPrefix(upload.name, "payment-proof-"))
	require.True(t, strings.HasSuffix(upload.name, ".png"))
	require.Equal(t, "image/png", upload.contentType)
	require.Equal(t, []byte("\x89PNG fake receipt"), upload.body)

	require.Len(t, fx.orders.created, 1)
	order := fx.orders.created[0]
	require.Equal(t, upload.name, order.PaymentProof)
	require.Equal(t, "Lahore", order.ShippingAddress.City)

	var result service.CheckoutResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, fx.storage.PublicURL(constants.BucketPaymentProofs, upload.name), result.Order.PaymentProofURL)
}
