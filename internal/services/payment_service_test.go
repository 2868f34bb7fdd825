package services

import (
	"testing"

	"apparel_store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentFixture(webhookValid, checkoutValid bool) (*stubOrderRepo, *stubCartRepo, *stubProductRepo, *stubShipments, PaymentService) {
	orderRepo := &stubOrderRepo{}
	productRepo := newStubProductRepo()
	productRepo.addProduct(
		&models.Product{ID: 1, Name: "Crew Tee", IsActive: true},
		&models.ProductVariant{ID: 11, ProductID: 1, Size: "M", Color: "Black", Stock: 10},
	)
	cartRepo := &stubCartRepo{items: []models.CartItem{
		{ID: 1, UserID: 7, ProductID: 1, Size: "M", Color: "Black", Quantity: 1},
	}}
	shipments := &stubShipments{}
	gateway := &stubGateway{webhookValid: webhookValid, checkoutValid: checkoutValid}

	orderRepo.Create(&models.Order{
		OrderNumber:     "ORD-20250314-AAAA1111",
		UserID:          7,
		PaymentMethod:   models.PaymentMethodRazorpay,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderPending,
		RazorpayOrderID: "order_stub123",
		Items: []models.OrderItem{
			{ProductID: 1, Size: "M", Color: "Black", Quantity: 1},
		},
	})

	svc := NewPaymentService(gateway, orderRepo, cartRepo, productRepo, shipments)
	return orderRepo, cartRepo, productRepo, shipments, svc
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	orderRepo, _, _, shipments, svc := newPaymentFixture(false, false)

	// Even a well-formed captured event must be rejected on a bad signature.
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_stub123","status":"captured"}}}}`)
	err := svc.HandleWebhook(body, "bogus")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	order, _ := orderRepo.GetByRazorpayOrderID("order_stub123")
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Empty(t, shipments.dispatched)
}

func TestWebhookPaymentCaptured(t *testing.T) {
	orderRepo, cartRepo, productRepo, shipments, svc := newPaymentFixture(true, false)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_stub123","status":"captured"}}}}`)
	require.NoError(t, svc.HandleWebhook(body, "sig"))

	order, _ := orderRepo.GetByRazorpayOrderID("order_stub123")
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderConfirmed, order.OrderStatus)
	assert.Equal(t, "pay_1", order.RazorpayPaymentID)
	assert.Equal(t, -1, productRepo.adjustments[11])
	assert.True(t, cartRepo.cleared)
	assert.Len(t, shipments.dispatched, 1)

	// A replayed event must not double-consume stock or re-dispatch.
	require.NoError(t, svc.HandleWebhook(body, "sig"))
	assert.Equal(t, -1, productRepo.adjustments[11])
	assert.Len(t, shipments.dispatched, 1)
}

func TestWebhookPaymentFailed(t *testing.T) {
	orderRepo, _, _, _, svc := newPaymentFixture(true, false)

	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_stub123","status":"failed"}}}}`)
	require.NoError(t, svc.HandleWebhook(body, "sig"))

	order, _ := orderRepo.GetByRazorpayOrderID("order_stub123")
	assert.Equal(t, models.PaymentFailed, order.PaymentStatus)
	assert.Equal(t, models.OrderPaymentFailed, order.OrderStatus)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	orderRepo, _, _, _, svc := newPaymentFixture(true, false)

	body := []byte(`{"event":"refund.created","payload":{"payment":{"entity":{}}}}`)
	require.NoError(t, svc.HandleWebhook(body, "sig"))

	order, _ := orderRepo.GetByRazorpayOrderID("order_stub123")
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
}

func TestVerifyCheckoutSuccess(t *testing.T) {
	_, _, _, shipments, svc := newPaymentFixture(false, true)

	order, err := svc.VerifyCheckout(7, "order_stub123", "pay_9", "sig")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, "pay_9", order.RazorpayPaymentID)
	assert.Len(t, shipments.dispatched, 1)
}

func TestVerifyCheckoutBadSignature(t *testing.T) {
	orderRepo, _, _, shipments, svc := newPaymentFixture(false, false)

	_, err := svc.VerifyCheckout(7, "order_stub123", "pay_9", "tampered")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	order, _ := orderRepo.GetByRazorpayOrderID("order_stub123")
	assert.Equal(t, models.PaymentFailed, order.PaymentStatus)
	assert.Equal(t, models.OrderPaymentFailed, order.OrderStatus)
	assert.Empty(t, shipments.dispatched)
}

func TestVerifyCheckoutWrongOwner(t *testing.T) {
	_, _, _, _, svc := newPaymentFixture(false, true)

	_, err := svc.VerifyCheckout(99, "order_stub123", "pay_9", "sig")
	assert.ErrorIs(t, err, ErrNotOrderOwner)
}
