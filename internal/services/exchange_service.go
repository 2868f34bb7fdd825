package services

import (
	"errors"
	"fmt"
	"time"

	"apparel_store/internal/models"
	"apparel_store/internal/repository"

	"gorm.io/gorm"
)

// Customers get 30 days from delivery to ask for a size or color swap.
const exchangeWindow = 30 * 24 * time.Hour

var (
	ErrOrderNotDelivered    = errors.New("order is not delivered yet")
	ErrOrderNotPaid         = errors.New("order is not paid")
	ErrExchangeWindowClosed = errors.New("exchange window of 30 days has passed")
	ErrActiveExchangeExists = errors.New("an exchange request is already open for this order")
	ErrDifferentProduct     = errors.New("exchanges must keep the same product")
	ErrQuantityChanged      = errors.New("exchanges must keep the same quantity")
	ErrNothingToExchange    = errors.New("requested size and color are both unchanged")
	ErrVariantUnavailable   = errors.New("requested variant is not in stock")
	ErrExchangeNotFound     = errors.New("exchange request not found")
	ErrInvalidTransition    = errors.New("invalid exchange status transition")
	ErrItemNotInOrder       = errors.New("order item not found in this order")
)

type ExchangeInput struct {
	OrderID     uint   `json:"order_id" binding:"required"`
	OrderItemID uint   `json:"order_item_id" binding:"required"`
	ProductID   uint   `json:"product_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Size        string `json:"size" binding:"required"`
	Color       string `json:"color" binding:"required"`
	Reason      string `json:"reason"`
}

type ExchangeService interface {
	Create(userID uint, input *ExchangeInput) (*models.ExchangeRequest, error)
	CheckEligibility(userID, orderID uint) error
	Cancel(userID, requestID uint) (*models.ExchangeRequest, error)
	ListByUser(userID uint) ([]models.ExchangeRequest, error)

	// Admin review
	List(status string, page, pageSize int) ([]models.ExchangeRequest, int64, error)
	Approve(requestID uint, note string) (*models.ExchangeRequest, error)
	Reject(requestID uint, note string) (*models.ExchangeRequest, error)
	MarkShipped(requestID uint) (*models.ExchangeRequest, error)
	Complete(requestID uint) (*models.ExchangeRequest, error)
}

type exchangeService struct {
	exchangeRepo repository.ExchangeRepository
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
}

func NewExchangeService(
	exchangeRepo repository.ExchangeRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) ExchangeService {
	return &exchangeService{
		exchangeRepo: exchangeRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
	}
}

func (s *exchangeService) Create(userID uint, input *ExchangeInput) (*models.ExchangeRequest, error) {
	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}

	if err := s.eligibility(order); err != nil {
		return nil, err
	}

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == input.OrderItemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, ErrItemNotInOrder
	}

	if err := validateExchangeItems(item, input.ProductID, input.Quantity, input.Size, input.Color); err != nil {
		return nil, err
	}

	variant, err := s.productRepo.GetVariant(item.ProductID, input.Size, input.Color)
	if err != nil || variant.Stock < item.Quantity {
		return nil, ErrVariantUnavailable
	}

	request := &models.ExchangeRequest{
		OrderID:        order.ID,
		UserID:         userID,
		OrderItemID:    item.ID,
		OriginalSize:   item.Size,
		OriginalColor:  item.Color,
		RequestedSize:  input.Size,
		RequestedColor: input.Color,
		Reason:         input.Reason,
		Status:         models.ExchangePending,
	}
	if err := s.exchangeRepo.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create exchange request: %w", err)
	}
	return request, nil
}

func (s *exchangeService) CheckEligibility(userID, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return ErrOrderNotFound
	}
	if order.UserID != userID {
		return ErrNotOrderOwner
	}
	return s.eligibility(order)
}

func (s *exchangeService) eligibility(order *models.Order) error {
	active, err := s.exchangeRepo.GetActiveByOrder(order.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check open exchange requests: %w", err)
	}
	return checkExchangeEligibility(order, active != nil, time.Now())
}

// checkExchangeEligibility applies the business gate: delivered, paid,
// inside the window, no open request.
func checkExchangeEligibility(order *models.Order, hasActiveRequest bool, now time.Time) error {
	if order.OrderStatus != models.OrderDelivered {
		return ErrOrderNotDelivered
	}
	if order.PaymentStatus != models.PaymentPaid {
		return ErrOrderNotPaid
	}
	if order.DeliveredAt == nil || now.Sub(*order.DeliveredAt) > exchangeWindow {
		return ErrExchangeWindowClosed
	}
	if hasActiveRequest {
		return ErrActiveExchangeExists
	}
	return nil
}

// validateExchangeItems enforces the same-product rule: the product and
// quantity are fixed, and at least one of size/color must actually change.
func validateExchangeItems(item *models.OrderItem, productID uint, quantity int, reqSize, reqColor string) error {
	if productID != item.ProductID {
		return ErrDifferentProduct
	}
	if quantity != item.Quantity {
		return ErrQuantityChanged
	}
	if reqSize == item.Size && reqColor == item.Color {
		return ErrNothingToExchange
	}
	return nil
}

func (s *exchangeService) Cancel(userID, requestID uint) (*models.ExchangeRequest, error) {
	request, err := s.exchangeRepo.GetByID(requestID)
	if err != nil {
		return nil, ErrExchangeNotFound
	}
	if request.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	if request.Status != models.ExchangePending {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	request.Status = models.ExchangeCancelled
	request.CancelledAt = &now
	if err := s.exchangeRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *exchangeService) ListByUser(userID uint) ([]models.ExchangeRequest, error) {
	return s.exchangeRepo.ListByUser(userID)
}

func (s *exchangeService) List(status string, page, pageSize int) ([]models.ExchangeRequest, int64, error) {
	return s.exchangeRepo.List(status, page, pageSize)
}

func (s *exchangeService) Approve(requestID uint, note string) (*models.ExchangeRequest, error) {
	return s.transition(requestID, models.ExchangePending, models.ExchangeApproved, note)
}

func (s *exchangeService) Reject(requestID uint, note string) (*models.ExchangeRequest, error) {
	return s.transition(requestID, models.ExchangePending, models.ExchangeRejected, note)
}

func (s *exchangeService) MarkShipped(requestID uint) (*models.ExchangeRequest, error) {
	return s.transition(requestID, models.ExchangeApproved, models.ExchangeShipped, "")
}

func (s *exchangeService) Complete(requestID uint) (*models.ExchangeRequest, error) {
	return s.transition(requestID, models.ExchangeShipped, models.ExchangeCompleted, "")
}

func (s *exchangeService) transition(requestID uint, from, to, note string) (*models.ExchangeRequest, error) {
	request, err := s.exchangeRepo.GetByID(requestID)
	if err != nil {
		return nil, ErrExchangeNotFound
	}
	if request.Status != from {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	request.Status = to
	if note != "" {
		request.AdminNote = note
	}
	switch to {
	case models.ExchangeApproved:
		request.ApprovedAt = &now
	case models.ExchangeRejected:
		request.RejectedAt = &now
	case models.ExchangeShipped:
		request.ShippedAt = &now
	case models.ExchangeCompleted:
		request.CompletedAt = &now
	}

	if err := s.exchangeRepo.Update(request); err != nil {
		return nil, err
	}
	return request, nil
}
