package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"apparel_store/internal/models"
	"apparel_store/internal/repository"
	"apparel_store/pkg/razorpay"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultCODCharge             = 100
	defaultShippingCharge        = 50
	defaultFreeShippingThreshold = 999
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrOutOfStock     = errors.New("item is out of stock")
	ErrOrderNotFound  = errors.New("order not found")
	ErrNotOrderOwner  = errors.New("order does not belong to this user")
	ErrAlreadyShipped = errors.New("order already handed to the carrier")
	ErrUnknownStatus  = errors.New("unknown order status")
)

// PaymentGateway is what checkout needs from the payment provider.
type PaymentGateway interface {
	CreateOrder(amountPaise int64, currency, receipt string) (*razorpay.Order, error)
	VerifyCheckoutSignature(razorpayOrderID, razorpayPaymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
}

type ShippingAddress struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required,pincode"`
	Country      string `json:"country"`
}

type CheckoutInput struct {
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=razorpay cod"`
	Address       ShippingAddress `json:"address" binding:"required"`
}

type CheckoutResult struct {
	Order           *models.Order `json:"order"`
	RazorpayOrderID string        `json:"razorpay_order_id,omitempty"`
	AmountPaise     int64         `json:"amount_paise,omitempty"`
}

type OrderService interface {
	Checkout(userID uint, input *CheckoutInput) (*CheckoutResult, error)
	GetUserOrder(userID, orderID uint) (*models.Order, error)
	ListUserOrders(userID uint, page, pageSize int) ([]models.Order, int64, error)
	List(filter repository.OrderFilter) ([]models.Order, int64, error)
	GetByID(orderID uint) (*models.Order, error)
	OverrideStatus(orderID uint, status string) (*models.Order, error)
	CancelOrder(userID, orderID uint) (*models.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	settingRepo repository.SettingRepository
	gateway     PaymentGateway
	shipments   ShipmentService
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	settingRepo repository.SettingRepository,
	gateway PaymentGateway,
	shipments ShipmentService,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		settingRepo: settingRepo,
		gateway:     gateway,
		shipments:   shipments,
	}
}

// Checkout turns the user's cart into an order. COD orders are confirmed
// immediately and handed to fulfillment; razorpay orders wait for the
// gateway webhook or the client verification call.
func (s *orderService) Checkout(userID uint, input *CheckoutInput) (*CheckoutResult, error) {
	cartItems, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	var orderItems []models.OrderItem
	var subtotal float64
	for _, ci := range cartItems {
		product, err := s.productRepo.GetByID(ci.ProductID)
		if err != nil || !product.IsActive {
			return nil, fmt.Errorf("product %d is unavailable", ci.ProductID)
		}
		variant, err := s.productRepo.GetVariant(ci.ProductID, ci.Size, ci.Color)
		if err != nil || variant.Stock < ci.Quantity {
			return nil, fmt.Errorf("%s (%s/%s): %w", product.Name, ci.Size, ci.Color, ErrOutOfStock)
		}

		lineTotal := product.Price * float64(ci.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Size:        ci.Size,
			Color:       ci.Color,
			Quantity:    ci.Quantity,
			UnitPrice:   product.Price,
			TotalPrice:  lineTotal,
		})
		subtotal += lineTotal
	}

	shippingCharge, codCharge := s.charges(subtotal, input.PaymentMethod)
	total := subtotal + shippingCharge + codCharge

	country := input.Address.Country
	if country == "" {
		country = "India"
	}

	order := &models.Order{
		OrderNumber:    GenerateOrderNumber(time.Now()),
		UserID:         userID,
		Items:          orderItems,
		ShippingName:   input.Address.Name,
		ShippingPhone:  input.Address.Phone,
		AddressLine1:   input.Address.AddressLine1,
		AddressLine2:   input.Address.AddressLine2,
		City:           input.Address.City,
		State:          input.Address.State,
		Pincode:        input.Address.Pincode,
		Country:        country,
		Subtotal:       subtotal,
		ShippingCharge: shippingCharge,
		CODCharge:      codCharge,
		Total:          total,
		PaymentMethod:  input.PaymentMethod,
		PaymentStatus:  models.PaymentPending,
	}

	result := &CheckoutResult{Order: order}

	switch input.PaymentMethod {
	case models.PaymentMethodCOD:
		// COD skips the pending state: there is nothing to wait for.
		order.OrderStatus = models.OrderConfirmed
	case models.PaymentMethodRazorpay:
		order.OrderStatus = models.OrderPending
		amountPaise := int64(total * 100)
		gatewayOrder, err := s.gateway.CreateOrder(amountPaise, "INR", order.OrderNumber)
		if err != nil {
			return nil, fmt.Errorf("payment gateway order failed: %w", err)
		}
		order.RazorpayOrderID = gatewayOrder.ID
		result.RazorpayOrderID = gatewayOrder.ID
		result.AmountPaise = amountPaise
	default:
		return nil, fmt.Errorf("unsupported payment method %q", input.PaymentMethod)
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if input.PaymentMethod == models.PaymentMethodCOD {
		s.consumeStockAndCart(order, userID)
		// Best effort; a carrier outage must not fail checkout.
		s.shipments.Dispatch(order)
	}

	return result, nil
}

// consumeStockAndCart decrements variant stock for each line and empties the
// cart. Called once an order is committed (COD) or paid (razorpay).
func (s *orderService) consumeStockAndCart(order *models.Order, userID uint) {
	for _, item := range order.Items {
		variant, err := s.productRepo.GetVariant(item.ProductID, item.Size, item.Color)
		if err != nil {
			continue
		}
		if err := s.productRepo.AdjustVariantStock(variant.ID, -item.Quantity); err != nil {
			log.Printf("failed to adjust stock for variant %d: %v\n", variant.ID, err)
		}
	}
	if err := s.cartRepo.ClearUser(userID); err != nil {
		log.Printf("failed to clear cart for user %d: %v\n", userID, err)
	}
}

func (s *orderService) charges(subtotal float64, paymentMethod string) (shipping, cod float64) {
	shipping = s.settingAmount(models.SettingShippingCharge, defaultShippingCharge)
	threshold := s.settingAmount(models.SettingFreeShippingThreshold, defaultFreeShippingThreshold)
	if subtotal >= threshold {
		shipping = 0
	}
	if paymentMethod == models.PaymentMethodCOD {
		cod = s.settingAmount(models.SettingCODCharge, defaultCODCharge)
	}
	return shipping, cod
}

func (s *orderService) settingAmount(name string, fallback float64) float64 {
	setting, err := s.settingRepo.Get(name)
	if err != nil {
		return fallback
	}
	return setting.Amount
}

func (s *orderService) GetUserOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

func (s *orderService) ListUserOrders(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *orderService) List(filter repository.OrderFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

func (s *orderService) GetByID(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// OverrideStatus lets an admin force an order status, e.g. after resolving a
// carrier problem offline.
func (s *orderService) OverrideStatus(orderID uint, status string) (*models.Order, error) {
	if !validOrderStatus(status) {
		return nil, ErrUnknownStatus
	}
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order.OrderStatus = status
	switch status {
	case models.OrderShipped:
		if order.ShippedAt == nil {
			order.ShippedAt = &now
		}
	case models.OrderDelivered:
		if order.DeliveredAt == nil {
			order.DeliveredAt = &now
		}
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder lets a customer cancel before the parcel is handed over.
func (s *orderService) CancelOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.GetUserOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	switch order.OrderStatus {
	case models.OrderPending, models.OrderConfirmed, models.OrderProcessing, models.OrderReadyToShip:
	default:
		return nil, ErrAlreadyShipped
	}

	if order.ShiprocketOrderID != "" {
		// Best effort; the audit log keeps the trail if the carrier call fails.
		if err := s.shipments.CancelShipment(order); err != nil {
			log.Printf("carrier cancel for %s failed: %v\n", order.OrderNumber, err)
		}
	}

	// Put reserved stock back when it was already taken.
	if order.PaymentMethod == models.PaymentMethodCOD || order.PaymentStatus == models.PaymentPaid {
		for _, item := range order.Items {
			variant, err := s.productRepo.GetVariant(item.ProductID, item.Size, item.Color)
			if err != nil {
				continue
			}
			s.productRepo.AdjustVariantStock(variant.ID, item.Quantity)
		}
	}

	order.OrderStatus = models.OrderCancelled
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// GenerateOrderNumber builds the human-readable order number shown to
// customers: ORD-YYYYMMDD-XXXXXXXX.
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

func validOrderStatus(status string) bool {
	switch status {
	case models.OrderPending, models.OrderConfirmed, models.OrderProcessing,
		models.OrderReadyToShip, models.OrderShipped, models.OrderOutForDelivery,
		models.OrderDelivered, models.OrderCancelled, models.OrderPaymentFailed,
		models.OrderReturned, models.OrderLost, models.OrderDamaged:
		return true
	}
	return false
}
