package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/saya-shop/internal/cart"
	"github.com/saya-shop/internal/config"
	"github.com/saya-shop/internal/constants"
	"github.com/saya-shop/internal/models"
	"github.com/saya-shop/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCheckoutOrders struct {
	nextID      uint
	byKey       map[string]*models.Order
	creates     int
	itemBatches [][]models.OrderItem
	hardDeletes []uint
	createErr   error
	itemsErr    error
	lookupErr   error
}

func newFakeCheckoutOrders() *fakeCheckoutOrders {
	return &fakeCheckoutOrders{byKey: map[string]*models.Order{}}
}

func (f *fakeCheckoutOrders) GetByIdempotencyKey(key string) (*models.Order, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.byKey[key], nil
}

func (f *fakeCheckoutOrders) Create(order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	f.creates++
	order.ID = f.nextID
	f.byKey[order.IdempotencyKey] = order
	return nil
}

func (f *fakeCheckoutOrders) CreateItems(items []models.OrderItem) error {
	if f.itemsErr != nil {
		return f.itemsErr
	}
	f.itemBatches = append(f.itemBatches, items)
	return nil
}

func (f *fakeCheckoutOrders) HardDelete(id uint) error {
	f.hardDeletes = append(f.hardDeletes, id)
	for key, order := range f.byKey {
		if order.ID == id {
			delete(f.byKey, key)
		}
	}
	return nil
}

type fakeUsers struct {
	users map[uint]*models.User
}

func (f *fakeUsers) GetByID(id uint) (*models.User, error) {
	return f.users[id], nil
}

type uploadCall struct {
	bucket string
	name   string
	body   string
}

type fakeStorage struct {
	uploads   []uploadCall
	deletes   []string
	uploadErr error
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, name string, body io.Reader, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	raw, _ := io.ReadAll(body)
	f.uploads = append(f.uploads, uploadCall{bucket: bucket, name: name, body: string(raw)})
	return name, nil
}

func (f *fakeStorage) PublicURL(bucket, path string) string {
	return "https://cdn.test/" + bucket + "/" + path
}

func (f *fakeStorage) List(ctx context.Context, bucket, prefix string, limit int) ([]storage.Object, error) {
	return nil, nil
}

func (f *fakeStorage) Delete(ctx context.Context, bucket, path string) error {
	f.deletes = append(f.deletes, bucket+"/"+path)
	return nil
}

type fakeNotifier struct {
	placed []uint
	err    error
}

func (f *fakeNotifier) NotifyOrderPlaced(ctx context.Context, orderID uint) error {
	f.placed = append(f.placed, orderID)
	return f.err
}

func (f *fakeNotifier) NotifyOrderStatus(ctx context.Context, orderID uint, status string) error {
	return nil
}

type checkoutFixture struct {
	orders   *fakeCheckoutOrders
	storage  *fakeStorage
	notifier *fakeNotifier
	users    *fakeUsers
	svc      *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		orders:   newFakeCheckoutOrders(),
		storage:  &fakeStorage{},
		notifier: &fakeNotifier{},
		users:    &fakeUsers{users: map[uint]*models.User{}},
	}
	f.svc = NewCheckoutService(f.orders, f.users, f.storage, f.notifier, config.CheckoutConfig{
		ProofMaxSize:      5 * 1024 * 1024,
		ProofAllowedTypes: []string{"image/jpeg", "image/png", "application/pdf"},
	})
	f.svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return f
}

func sampleCartItems() []cart.Item {
	return []cart.Item{
		{Product: cart.ProductSnapshot{ID: 1, Name: "Linen Kurta", Price: models.MustMoney("10.00"), InventoryCount: 5}, Quantity: 2},
		{Product: cart.ProductSnapshot{ID: 2, Name: "Silk Scarf", Price: models.MustMoney("5.00"), InventoryCount: 3}, Quantity: 1},
	}
}

func sampleAddress() models.ShippingAddress {
	return models.ShippingAddress{Line1: "123 Main St", Line2: "Apt 4", City: "Karachi", State: "Sindh", PostalCode: "75500", Country: "Pakistan"}
}

func guestCODInput() CheckoutInput {
	return CheckoutInput{
		GuestName:       "Sara",
		GuestEmail:      "sara@example.com",
		GuestPhone:      "+92 300 0000000",
		ShippingAddress: sampleAddress(),
		PaymentMethod:   constants.PaymentMethodCOD,
		IdempotencyKey:  "key-1",
		Items:           sampleCartItems(),
	}
}

func TestCheckoutBankTransferWithoutProofHasNoSideEffects(t *testing.T) {
	f := newCheckoutFixture()
	input := guestCODInput()
	input.PaymentMethod = constants.PaymentMethodBankTransfer

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrPaymentProofRequired)
	assert.Empty(t, f.storage.uploads)
	assert.Zero(t, f.orders.creates)
	assert.Empty(t, f.notifier.placed)
}

func TestCheckoutGuestCODCreatesOrderAndItems(t *testing.T) {
	f := newCheckoutFixture()

	result, err := f.svc.PlaceOrder(context.Background(), guestCODInput())
	require.NoError(t, err)
	require.NotNil(t, result.Order)

	assert.Equal(t, 1, f.orders.creates)
	require.Len(t, f.orders.itemBatches, 1)
	assert.Len(t, f.orders.itemBatches[0], 2)
	assert.Equal(t, "25.00", result.Order.TotalAmount.String())
	assert.Equal(t, constants.OrderStatusPending, result.Order.Status)
	assert.Nil(t, result.Order.UserID)
	assert.Empty(t, result.Order.PaymentProof)
	assert.Equal(t, "/order-confirmation/"+result.Order.OrderNo, result.Redirect)
	assert.False(t, result.Replayed)
	assert.Equal(t, []uint{result.Order.ID}, f.notifier.placed)

	var sum models.Money
	for _, item := range f.orders.itemBatches[0] {
		assert.Equal(t, result.Order.ID, item.OrderID)
		sum = sum.Plus(item.Subtotal())
	}
	assert.Equal(t, result.Order.TotalAmount.String(), sum.String())
	assert.Equal(t, "Linen Kurta", f.orders.itemBatches[0][0].ProductName)
}

func TestCheckoutGuestWithoutEmailSkipsNotification(t *testing.T) {
	f := newCheckoutFixture()
	input := guestCODInput()
	input.GuestEmail = ""

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.placed)
}

func TestCheckoutNotifyFailureDoesNotFailOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.notifier.err = errors.New("queue down")

	result, err := f.svc.PlaceOrder(context.Background(), guestCODInput())
	require.NoError(t, err)
	assert.NotNil(t, result.Order)
	assert.Empty(t, f.orders.hardDeletes)
}

func TestCheckoutValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CheckoutInput)
		want   error
	}{
		{"empty cart", func(in *CheckoutInput) { in.Items = nil }, ErrCartEmpty},
		{"guest name", func(in *CheckoutInput) { in.GuestName = " " }, ErrCheckoutValidation},
		{"guest phone", func(in *CheckoutInput) { in.GuestPhone = "" }, ErrCheckoutValidation},
		{"city", func(in *CheckoutInput) { in.ShippingAddress.City = "" }, ErrCheckoutValidation},
		{"postal code", func(in *CheckoutInput) { in.ShippingAddress.PostalCode = "" }, ErrCheckoutValidation},
		{"payment method", func(in *CheckoutInput) { in.PaymentMethod = "paypal" }, ErrPaymentMethodInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture()
			input := guestCODInput()
			tc.mutate(&input)
			_, err := f.svc.PlaceOrder(context.Background(), input)
			require.ErrorIs(t, err, tc.want)
			assert.Zero(t, f.orders.creates)
			assert.Empty(t, f.storage.uploads)
		})
	}
}

func TestCheckoutLine2IsOptional(t *testing.T) {
	f := newCheckoutFixture()
	input := guestCODInput()
	input.ShippingAddress.Line2 = ""

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
}

func TestCheckoutBankTransferUploadsProof(t *testing.T) {
	f := newCheckoutFixture()
	input := guestCODInput()
	input.PaymentMethod = constants.PaymentMethodBankTransfer
	input.Proof = &ProofFile{Filename: "receipt.PNG", ContentType: "image/png", Size: 4, Reader: strings.NewReader("data")}

	result, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, f.storage.uploads, 1)
	assert.Equal(t, constants.BucketPaymentProofs, f.storage.uploads[0].bucket)
	assert.Equal(t, "payment-proof-1700000000000.png", f.storage.uploads[0].name)
	assert.Equal(t, "data", f.storage.uploads[0].body)
	assert.Equal(t, "payment-proof-1700000000000.png", result.Order.PaymentProof)
	assert.Equal(t, "https://cdn.test/payment-proofs/payment-proof-1700000000000.png", result.Order.PaymentProofURL)
}

func TestCheckoutRejectsDisallowedProofType(t *testing.T) {
	f := newCheckoutFixture()
	input := guestCODInput()
	input.PaymentMethod = constants.PaymentMethodBankTransfer
	input.Proof = &ProofFile{Filename: "notes.txt", Size: 4, Reader: strings.NewReader("data")}

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrPaymentProofInvalid)
	assert.Empty(t, f.storage.uploads)
}

func TestCheckoutUploadFailureAbortsBeforeOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.storage.uploadErr = errors.New("bucket unavailable")
	input := guestCODInput()
	input.PaymentMethod = constants.PaymentMethodBankTransfer
	input.Proof = &ProofFile{Filename: "receipt.jpg", ContentType: "image/jpeg", Size: 4, Reader: strings.NewReader("data")}

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrPaymentProofUpload)
	assert.Zero(t, f.orders.creates)
}

func TestCheckoutItemFailureCompensates(t *testing.T) {
	f := newCheckoutFixture()
	f.orders.itemsErr = errors.New("insert order_items failed")
	input := guestCODInput()
	input.PaymentMethod = constants.PaymentMethodBankTransfer
	input.Proof = &ProofFile{Filename: "receipt.pdf", ContentType: "application/pdf", Size: 4, Reader: strings.NewReader("data")}

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrOrderCreateFailed)
	assert.Equal(t, []uint{1}, f.orders.hardDeletes)
	assert.Equal(t, []string{"payment-proofs/payment-proof-1700000000000.pdf"}, f.storage.deletes)
	assert.Empty(t, f.orders.byKey)
	assert.Empty(t, f.notifier.placed)
}

func TestCheckoutOrderCreateFailureDeletesProof(t *testing.T) {
	f := newCheckoutFixture()
	f.orders.createErr = errors.New("db down")
	input := guestCODInput()
	input.PaymentMethod = constants.PaymentMethodBankTransfer
	input.Proof = &ProofFile{Filename: "receipt.jpg", ContentType: "image/jpeg", Size: 4, Reader: strings.NewReader("data")}

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrOrderCreateFailed)
	assert.Empty(t, f.orders.hardDeletes)
	assert.Len(t, f.storage.deletes, 1)
}

func TestCheckoutReplaysSameIdempotencyKey(t *testing.T) {
	f := newCheckoutFixture()

	first, err := f.svc.PlaceOrder(context.Background(), guestCODInput())
	require.NoError(t, err)
	second, err := f.svc.PlaceOrder(context.Background(), guestCODInput())
	require.NoError(t, err)

	assert.Equal(t, 1, f.orders.creates)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Order.OrderNo, second.Order.OrderNo)
	assert.Len(t, f.notifier.placed, 1)
}

func TestCheckoutGeneratesKeyWhenMissing(t *testing.T) {
	f := newCheckoutFixture()
	input := guestCODInput()
	input.IdempotencyKey = ""

	result, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Order.IdempotencyKey)
}

func TestCheckoutAuthenticatedUsesProfile(t *testing.T) {
	f := newCheckoutFixture()
	userID := uint(42)
	f.users.users[userID] = &models.User{
		ID:              userID,
		Email:           "member@example.com",
		FullName:        "Member Name",
		PhoneNumber:     "+92 311 1111111",
		ShippingAddress: sampleAddress(),
	}
	input := guestCODInput()
	input.UserID = &userID
	input.GuestName = ""
	input.GuestPhone = ""
	input.GuestEmail = ""
	input.ShippingAddress = models.ShippingAddress{}

	result, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, result.Order.UserID)
	assert.Equal(t, userID, *result.Order.UserID)
	assert.Equal(t, "Member Name", result.Order.GuestName)
	assert.Equal(t, "member@example.com", result.Order.GuestEmail)
	assert.Equal(t, "+92 311 1111111", result.Order.GuestPhone)
	assert.Equal(t, "Karachi", result.Order.ShippingAddress.City)
}

func TestCheckoutUsesSnapshotPrice(t *testing.T) {
	f := newCheckoutFixture()
	input := guestCODInput()
	input.Items = []cart.Item{{Product: cart.ProductSnapshot{ID: 9, Name: "Dress", Price: models.MustMoney("89.99")}, Quantity: 1}}

	result, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "89.99", result.Order.TotalAmount.String())
	assert.Equal(t, "89.99", f.orders.itemBatches[0][0].Price.String())
}
