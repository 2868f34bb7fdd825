package services

import (
	"testing"
	"time"

	"apparel_store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveredOrder(deliveredAgo time.Duration) *models.Order {
	deliveredAt := time.Now().Add(-deliveredAgo)
	return &models.Order{
		UserID:        7,
		OrderStatus:   models.OrderDelivered,
		PaymentStatus: models.PaymentPaid,
		DeliveredAt:   &deliveredAt,
		Items: []models.OrderItem{
			{ID: 1, ProductID: 1, Size: "M", Color: "Black", Quantity: 1},
		},
	}
}

func TestCheckExchangeEligibility(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		mutate    func(*models.Order)
		hasActive bool
		want      error
	}{
		{name: "eligible", mutate: func(o *models.Order) {}, want: nil},
		{
			name:   "not delivered",
			mutate: func(o *models.Order) { o.OrderStatus = models.OrderShipped },
			want:   ErrOrderNotDelivered,
		},
		{
			name:   "not paid",
			mutate: func(o *models.Order) { o.PaymentStatus = models.PaymentPending },
			want:   ErrOrderNotPaid,
		},
		{
			name: "window closed",
			mutate: func(o *models.Order) {
				old := now.Add(-31 * 24 * time.Hour)
				o.DeliveredAt = &old
			},
			want: ErrExchangeWindowClosed,
		},
		{
			name:   "no delivery timestamp",
			mutate: func(o *models.Order) { o.DeliveredAt = nil },
			want:   ErrExchangeWindowClosed,
		},
		{
			name:      "active request open",
			mutate:    func(o *models.Order) {},
			hasActive: true,
			want:      ErrActiveExchangeExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := deliveredOrder(5 * 24 * time.Hour)
			tt.mutate(order)
			err := checkExchangeEligibility(order, tt.hasActive, now)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestCheckExchangeEligibilityWindowBoundary(t *testing.T) {
	now := time.Now()

	// Exactly 30 days is still inside the window.
	order := deliveredOrder(30 * 24 * time.Hour)
	order.DeliveredAt = func() *time.Time { d := now.Add(-30 * 24 * time.Hour); return &d }()
	assert.NoError(t, checkExchangeEligibility(order, false, now))
}

func TestValidateExchangeItems(t *testing.T) {
	item := &models.OrderItem{ID: 1, ProductID: 1, Size: "M", Color: "Black", Quantity: 2}

	tests := []struct {
		name      string
		productID uint
		quantity  int
		size      string
		color     string
		want      error
	}{
		{name: "size change", productID: 1, quantity: 2, size: "L", color: "Black", want: nil},
		{name: "color change", productID: 1, quantity: 2, size: "M", color: "White", want: nil},
		{name: "both change", productID: 1, quantity: 2, size: "L", color: "White", want: nil},
		{name: "different product", productID: 2, quantity: 2, size: "L", color: "Black", want: ErrDifferentProduct},
		{name: "quantity change", productID: 1, quantity: 1, size: "L", color: "Black", want: ErrQuantityChanged},
		{name: "nothing changes", productID: 1, quantity: 2, size: "M", color: "Black", want: ErrNothingToExchange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateExchangeItems(item, tt.productID, tt.quantity, tt.size, tt.color)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func newExchangeFixture() (*stubOrderRepo, *stubExchangeRepo, *stubProductRepo, ExchangeService) {
	orderRepo := &stubOrderRepo{}
	orderRepo.Create(deliveredOrder(5 * 24 * time.Hour))

	productRepo := newStubProductRepo()
	productRepo.addProduct(
		&models.Product{ID: 1, Name: "Crew Tee", IsActive: true},
		&models.ProductVariant{ID: 11, ProductID: 1, Size: "M", Color: "Black", Stock: 5},
		&models.ProductVariant{ID: 12, ProductID: 1, Size: "L", Color: "Black", Stock: 2},
		&models.ProductVariant{ID: 13, ProductID: 1, Size: "XL", Color: "Black", Stock: 0},
	)

	exchangeRepo := &stubExchangeRepo{}
	svc := NewExchangeService(exchangeRepo, orderRepo, productRepo)
	return orderRepo, exchangeRepo, productRepo, svc
}

func exchangeInput() *ExchangeInput {
	return &ExchangeInput{
		OrderID:     1,
		OrderItemID: 1,
		ProductID:   1,
		Quantity:    1,
		Size:        "L",
		Color:       "Black",
		Reason:      "too small",
	}
}

func TestCreateExchange(t *testing.T) {
	_, exchangeRepo, _, svc := newExchangeFixture()

	request, err := svc.Create(7, exchangeInput())
	require.NoError(t, err)
	assert.Equal(t, models.ExchangePending, request.Status)
	assert.Equal(t, "M", request.OriginalSize)
	assert.Equal(t, "L", request.RequestedSize)
	assert.Len(t, exchangeRepo.requests, 1)
}

func TestCreateExchangeRequestedVariantOutOfStock(t *testing.T) {
	_, _, _, svc := newExchangeFixture()

	input := exchangeInput()
	input.Size = "XL"
	_, err := svc.Create(7, input)
	assert.ErrorIs(t, err, ErrVariantUnavailable)
}

func TestCreateExchangeBlockedByOpenRequest(t *testing.T) {
	_, exchangeRepo, _, svc := newExchangeFixture()
	exchangeRepo.Create(&models.ExchangeRequest{OrderID: 1, UserID: 7, Status: models.ExchangePending})

	_, err := svc.Create(7, exchangeInput())
	assert.ErrorIs(t, err, ErrActiveExchangeExists)
}

func TestCreateExchangeAllowedAfterRejection(t *testing.T) {
	_, exchangeRepo, _, svc := newExchangeFixture()
	exchangeRepo.Create(&models.ExchangeRequest{OrderID: 1, UserID: 7, Status: models.ExchangeRejected})

	_, err := svc.Create(7, exchangeInput())
	assert.NoError(t, err)
}

func TestCreateExchangeWrongOwner(t *testing.T) {
	_, _, _, svc := newExchangeFixture()

	_, err := svc.Create(99, exchangeInput())
	assert.ErrorIs(t, err, ErrNotOrderOwner)
}

func TestExchangeLifecycle(t *testing.T) {
	_, _, _, svc := newExchangeFixture()

	request, err := svc.Create(7, exchangeInput())
	require.NoError(t, err)

	approved, err := svc.Approve(request.ID, "restock confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.ExchangeApproved, approved.Status)
	assert.Equal(t, "restock confirmed", approved.AdminNote)
	require.NotNil(t, approved.ApprovedAt)

	// Completing before shipping is out of order.
	_, err = svc.Complete(request.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	shipped, err := svc.MarkShipped(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExchangeShipped, shipped.Status)

	completed, err := svc.Complete(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExchangeCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
}

func TestExchangeRejectThenNoFurtherTransitions(t *testing.T) {
	_, _, _, svc := newExchangeFixture()

	request, err := svc.Create(7, exchangeInput())
	require.NoError(t, err)

	rejected, err := svc.Reject(request.ID, "wear visible")
	require.NoError(t, err)
	assert.Equal(t, models.ExchangeRejected, rejected.Status)

	_, err = svc.MarkShipped(request.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExchangeCancelOnlyWhilePending(t *testing.T) {
	_, _, _, svc := newExchangeFixture()

	request, err := svc.Create(7, exchangeInput())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(7, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExchangeCancelled, cancelled.Status)

	// Once cancelled, nothing else applies.
	_, err = svc.Approve(request.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
