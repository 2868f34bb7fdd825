package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"apparel_store/internal/models"
	"apparel_store/internal/repository"
)

var (
	ErrInvalidSignature = errors.New("payment signature verification failed")
	ErrNotRazorpayOrder = errors.New("order was not placed with razorpay")
)

// webhookEvent is the subset of the gateway's webhook payload we act on.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type PaymentService interface {
	// HandleWebhook processes the raw gateway webhook body. Signature
	// mismatch is rejected before the event type is even looked at.
	HandleWebhook(body []byte, signature string) error

	// VerifyCheckout is the client-driven confirmation after the hosted
	// checkout closes. A bad signature is fatal to the checkout flow.
	VerifyCheckout(userID uint, razorpayOrderID, razorpayPaymentID, signature string) (*models.Order, error)
}

type paymentService struct {
	gateway     PaymentGateway
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	shipments   ShipmentService
}

func NewPaymentService(
	gateway PaymentGateway,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	shipments ShipmentService,
) PaymentService {
	return &paymentService{
		gateway:     gateway,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		shipments:   shipments,
	}
}

func (s *paymentService) HandleWebhook(body []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(body, signature) {
		return ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to parse webhook body: %w", err)
	}

	switch event.Event {
	case "payment.captured":
		return s.markPaid(event.Payload.Payment.Entity.OrderID, event.Payload.Payment.Entity.ID)
	case "payment.failed":
		return s.markFailed(event.Payload.Payment.Entity.OrderID)
	default:
		// Other event types are acknowledged but not acted on.
		return nil
	}
}

func (s *paymentService) VerifyCheckout(userID uint, razorpayOrderID, razorpayPaymentID, signature string) (*models.Order, error) {
	order, err := s.orderRepo.GetByRazorpayOrderID(razorpayOrderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}

	if !s.gateway.VerifyCheckoutSignature(razorpayOrderID, razorpayPaymentID, signature) {
		order.PaymentStatus = models.PaymentFailed
		order.OrderStatus = models.OrderPaymentFailed
		if err := s.orderRepo.Update(order); err != nil {
			log.Printf("failed to mark order %s payment_failed: %v", order.OrderNumber, err)
		}
		return nil, ErrInvalidSignature
	}

	if err := s.markPaid(razorpayOrderID, razorpayPaymentID); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByRazorpayOrderID(razorpayOrderID)
}

func (s *paymentService) markPaid(razorpayOrderID, razorpayPaymentID string) error {
	order, err := s.orderRepo.GetByRazorpayOrderID(razorpayOrderID)
	if err != nil {
		return fmt.Errorf("no order for gateway order %s: %w", razorpayOrderID, err)
	}

	// Webhook and client verification can race; the second one is a no-op.
	if order.PaymentStatus == models.PaymentPaid {
		return nil
	}

	order.PaymentStatus = models.PaymentPaid
	order.RazorpayPaymentID = razorpayPaymentID
	order.OrderStatus = models.OrderConfirmed
	if err := s.orderRepo.Update(order); err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	s.consumeStockAndCart(order)

	// Best effort; a carrier outage must not fail payment confirmation.
	s.shipments.Dispatch(order)
	return nil
}

func (s *paymentService) markFailed(razorpayOrderID string) error {
	order, err := s.orderRepo.GetByRazorpayOrderID(razorpayOrderID)
	if err != nil {
		return fmt.Errorf("no order for gateway order %s: %w", razorpayOrderID, err)
	}
	if order.PaymentStatus == models.PaymentPaid {
		// A late failure event for an already captured payment is noise.
		return nil
	}

	order.PaymentStatus = models.PaymentFailed
	order.OrderStatus = models.OrderPaymentFailed
	return s.orderRepo.Update(order)
}

func (s *paymentService) consumeStockAndCart(order *models.Order) {
	for _, item := range order.Items {
		variant, err := s.productRepo.GetVariant(item.ProductID, item.Size, item.Color)
		if err != nil {
			continue
		}
		if err := s.productRepo.AdjustVariantStock(variant.ID, -item.Quantity); err != nil {
			log.Printf("failed to adjust stock for variant %d: %v", variant.ID, err)
		}
	}
	if err := s.cartRepo.ClearUser(order.UserID); err != nil {
		log.Printf("failed to clear cart for user %d: %v", order.UserID, err)
	}
}
