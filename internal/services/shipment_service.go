package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"apparel_store/internal/models"
	"apparel_store/internal/repository"
	"apparel_store/pkg/shiprocket"
)

// Shiprocket tokens last ten days; re-login nine days ahead of expiry.
const carrierTokenTTL = shiprocket.TokenValidity - 9*24*time.Hour

var ErrNoCourierAvailable = errors.New("no courier available for this route")

// CarrierAPI is what the fulfillment flow needs from the carrier client.
type CarrierAPI interface {
	Login(ctx context.Context) (*shiprocket.LoginResponse, error)
	CreateOrder(ctx context.Context, token string, req *shiprocket.CreateOrderRequest) (*shiprocket.CreateOrderResponse, error)
	Serviceability(ctx context.Context, token, pickupPincode, deliveryPincode string, weightKg float64, cod bool) (*shiprocket.ServiceabilityResponse, error)
	AssignAWB(ctx context.Context, token string, req *shiprocket.AssignAWBRequest) (*shiprocket.AssignAWBResponse, error)
	SchedulePickup(ctx context.Context, token string, req *shiprocket.SchedulePickupRequest) (*shiprocket.SchedulePickupResponse, error)
	TrackByAWB(ctx context.Context, token, awbCode string) (*shiprocket.TrackResponse, error)
	CancelOrder(ctx context.Context, token string, carrierOrderID string) error
}

// CarrierCache holds the carrier bearer token between requests and the
// per-month API call counters behind the quota dashboard.
type CarrierCache interface {
	GetCarrierToken() (string, error)
	SetCarrierToken(token string, ttl time.Duration) error
	IncrUsage(service string) error
}

type CarrierWebhookPayload struct {
	AWB              string `json:"awb"`
	CurrentStatus    string `json:"current_status"`
	OrderID          string `json:"order_id"`
	CourierName      string `json:"courier_name"`
	CurrentTimestamp string `json:"current_timestamp"`
	ETD              string `json:"etd"`
}

type ShipmentService interface {
	// Dispatch runs the whole fulfillment chain best-effort: a carrier
	// failure is audited and swallowed so checkout is never blocked on
	// the shipping partner.
	Dispatch(order *models.Order)

	// Strict variants for the admin's manual retry buttons.
	CreateCarrierOrder(order *models.Order) error
	AssignAWB(order *models.Order) error
	SchedulePickup(order *models.Order) error

	Track(order *models.Order) (*shiprocket.TrackResponse, error)
	CancelShipment(order *models.Order) error
	HandleCarrierWebhook(payload *CarrierWebhookPayload) error
}

type shipmentService struct {
	carrier        CarrierAPI
	tokens         CarrierCache
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	logRepo        repository.ShiprocketLogRepository
	pickupLocation string
	pickupPincode  string
}

func NewShipmentService(
	carrier CarrierAPI,
	tokens CarrierCache,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logRepo repository.ShiprocketLogRepository,
	pickupLocation, pickupPincode string,
) ShipmentService {
	return &shipmentService{
		carrier:        carrier,
		tokens:         tokens,
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		logRepo:        logRepo,
		pickupLocation: pickupLocation,
		pickupPincode:  pickupPincode,
	}
}

func (s *shipmentService) Dispatch(order *models.Order) {
	if err := s.CreateCarrierOrder(order); err != nil {
		log.Printf("fulfillment: create carrier order for %s failed: %v", order.OrderNumber, err)
		return
	}
	if err := s.AssignAWB(order); err != nil {
		log.Printf("fulfillment: assign AWB for %s failed: %v", order.OrderNumber, err)
		return
	}
	if err := s.SchedulePickup(order); err != nil {
		log.Printf("fulfillment: schedule pickup for %s failed: %v", order.OrderNumber, err)
	}
}

func (s *shipmentService) CreateCarrierOrder(order *models.Order) error {
	ctx := context.Background()
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	items := make([]shiprocket.OrderItem, 0, len(order.Items))
	var weight, length, breadth, height float64
	for _, item := range order.Items {
		items = append(items, shiprocket.OrderItem{
			Name:         item.ProductName,
			SKU:          fmt.Sprintf("%d-%s-%s", item.ProductID, item.Size, item.Color),
			Units:        item.Quantity,
			SellingPrice: item.UnitPrice,
		})
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			continue
		}
		weight += product.WeightKg * float64(item.Quantity)
		if product.LengthCm > length {
			length = product.LengthCm
		}
		if product.BreadthCm > breadth {
			breadth = product.BreadthCm
		}
		height += product.HeightCm * float64(item.Quantity)
	}
	if weight == 0 {
		weight = 0.5
	}

	paymentMethod := "Prepaid"
	if order.PaymentMethod == models.PaymentMethodCOD {
		paymentMethod = "COD"
	}

	req := &shiprocket.CreateOrderRequest{
		OrderID:           order.OrderNumber,
		OrderDate:         order.CreatedAt.Format("2006-01-02 15:04"),
		PickupLocation:    s.pickupLocation,
		BillingName:       order.ShippingName,
		BillingAddress:    order.AddressLine1,
		BillingAddress2:   order.AddressLine2,
		BillingCity:       order.City,
		BillingPincode:    order.Pincode,
		BillingState:      order.State,
		BillingCountry:    order.Country,
		BillingPhone:      order.ShippingPhone,
		ShippingIsBilling: true,
		OrderItems:        items,
		PaymentMethod:     paymentMethod,
		SubTotal:          order.Subtotal,
		Length:            length,
		Breadth:           breadth,
		Height:            height,
		Weight:            weight,
	}

	resp, err := s.carrier.CreateOrder(ctx, token, req)
	s.audit(&order.ID, "create_order", req, resp, err)
	if err != nil {
		return fmt.Errorf("carrier order create failed: %w", err)
	}

	order.ShiprocketOrderID = resp.OrderID.String()
	order.ShipmentID = resp.ShipmentID.String()
	order.OrderStatus = models.OrderProcessing
	if err := s.orderRepo.Update(order); err != nil {
		return fmt.Errorf("failed to save carrier ids: %w", err)
	}
	return nil
}

func (s *shipmentService) AssignAWB(order *models.Order) error {
	if order.ShipmentID == "" {
		return errors.New("order has no shipment yet")
	}

	ctx := context.Background()
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	// No courier configured for this route: ask serviceability and take
	// the cheapest available one.
	var courierID int
	svc, err := s.carrier.Serviceability(ctx, token, s.pickupPincode, order.Pincode, orderWeight(order), order.PaymentMethod == models.PaymentMethodCOD)
	s.audit(&order.ID, "serviceability", map[string]string{"delivery_pincode": order.Pincode}, svc, err)
	if err == nil {
		if cheapest := pickCheapestCourier(svc.Data.AvailableCourierCompanies); cheapest != nil {
			courierID = cheapest.CourierCompanyID
		}
	}

	req := &shiprocket.AssignAWBRequest{
		ShipmentID: order.ShipmentID,
		CourierID:  courierID,
	}
	resp, err := s.carrier.AssignAWB(ctx, token, req)
	s.audit(&order.ID, "assign_awb", req, resp, err)
	if err != nil {
		return fmt.Errorf("AWB assignment failed: %w", err)
	}

	order.AWBCode = resp.Response.Data.AWBCode
	order.CourierName = resp.Response.Data.CourierName
	order.OrderStatus = models.OrderReadyToShip
	if err := s.orderRepo.Update(order); err != nil {
		return fmt.Errorf("failed to save AWB: %w", err)
	}
	return nil
}

func (s *shipmentService) SchedulePickup(order *models.Order) error {
	if order.ShipmentID == "" {
		return errors.New("order has no shipment yet")
	}

	ctx := context.Background()
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	req := &shiprocket.SchedulePickupRequest{ShipmentID: []string{order.ShipmentID}}
	resp, err := s.carrier.SchedulePickup(ctx, token, req)
	s.audit(&order.ID, "schedule_pickup", req, resp, err)
	if err != nil {
		return fmt.Errorf("pickup scheduling failed: %w", err)
	}

	now := time.Now()
	order.PickupScheduledAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		return fmt.Errorf("failed to save pickup time: %w", err)
	}
	return nil
}

func (s *shipmentService) Track(order *models.Order) (*shiprocket.TrackResponse, error) {
	if order.AWBCode == "" {
		return nil, errors.New("order has no AWB yet")
	}

	ctx := context.Background()
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.carrier.TrackByAWB(ctx, token, order.AWBCode)
	s.audit(&order.ID, "track", map[string]string{"awb": order.AWBCode}, resp, err)
	if err != nil {
		return nil, fmt.Errorf("tracking failed: %w", err)
	}
	return resp, nil
}

func (s *shipmentService) CancelShipment(order *models.Order) error {
	if order.ShiprocketOrderID == "" {
		return errors.New("order has no carrier order yet")
	}

	ctx := context.Background()
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	err = s.carrier.CancelOrder(ctx, token, order.ShiprocketOrderID)
	s.audit(&order.ID, "cancel_order", map[string]string{"carrier_order_id": order.ShiprocketOrderID}, nil, err)
	if err != nil {
		return fmt.Errorf("carrier cancel failed: %w", err)
	}
	return nil
}

func (s *shipmentService) HandleCarrierWebhook(payload *CarrierWebhookPayload) error {
	if payload.CurrentStatus == "" {
		return nil
	}

	var order *models.Order
	var err error
	if payload.AWB != "" {
		order, err = s.orderRepo.GetByAWB(payload.AWB)
	}
	if order == nil && payload.OrderID != "" {
		order, err = s.orderRepo.GetByOrderNumber(payload.OrderID)
	}
	if err != nil || order == nil {
		return fmt.Errorf("no order for carrier update (awb=%q order_id=%q)", payload.AWB, payload.OrderID)
	}

	status := MapCarrierStatus(payload.CurrentStatus)
	now := time.Now()

	order.OrderStatus = status
	if payload.CourierName != "" {
		order.CourierName = payload.CourierName
	}
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

	return s.orderRepo.Update(order)
}

// carrierStatusMap fixes how the carrier's status strings land on our enum.
var carrierStatusMap = map[string]string{
	"PICKUP SCHEDULED":  models.OrderReadyToShip,
	"PICKUP GENERATED":  models.OrderReadyToShip,
	"PICKED UP":         models.OrderShipped,
	"SHIPPED":           models.OrderShipped,
	"IN TRANSIT":        models.OrderShipped,
	"OUT FOR DELIVERY":  models.OrderOutForDelivery,
	"DELIVERED":         models.OrderDelivered,
	"CANCELED":          models.OrderCancelled,
	"CANCELLED":         models.OrderCancelled,
	"RTO INITIATED":     models.OrderReturned,
	"RTO DELIVERED":     models.OrderReturned,
	"LOST":              models.OrderLost,
	"DAMAGED":           models.OrderDamaged,
}

// MapCarrierStatus translates a carrier status string to the internal order
// status. Unknown statuses land on processing so the order stays visible in
// the admin work queue.
func MapCarrierStatus(carrierStatus string) string {
	if status, ok := carrierStatusMap[strings.ToUpper(strings.TrimSpace(carrierStatus))]; ok {
		return status
	}
	return models.OrderProcessing
}

// pickCheapestCourier returns the non-blocked courier with the lowest rate.
func pickCheapestCourier(couriers []shiprocket.CourierRate) *shiprocket.CourierRate {
	var cheapest *shiprocket.CourierRate
	for i := range couriers {
		c := &couriers[i]
		if c.Blocked == 1 {
			continue
		}
		if cheapest == nil || c.Rate < cheapest.Rate {
			cheapest = c
		}
	}
	return cheapest
}

func orderWeight(order *models.Order) float64 {
	// Apparel parcels are light; half a kilo per item is the carrier's
	// minimum billing weight anyway.
	weight := 0.5 * float64(len(order.Items))
	if weight < 0.5 {
		weight = 0.5
	}
	return weight
}

func (s *shipmentService) token(ctx context.Context) (string, error) {
	token, err := s.tokens.GetCarrierToken()
	if err != nil {
		log.Printf("carrier token cache read failed: %v", err)
	}
	if token != "" {
		return token, nil
	}

	resp, err := s.carrier.Login(ctx)
	s.audit(nil, "login", map[string]string{"email": "<redacted>"}, nil, err)
	if err != nil {
		return "", fmt.Errorf("carrier login failed: %w", err)
	}

	if err := s.tokens.SetCarrierToken(resp.Token, carrierTokenTTL); err != nil {
		log.Printf("carrier token cache write failed: %v", err)
	}
	return resp.Token, nil
}

// audit appends one row per carrier interaction. Failures to write the audit
// row itself are only logged; they must never break the calling flow.
func (s *shipmentService) audit(orderID *uint, action string, req, resp interface{}, callErr error) {
	entry := &models.ShiprocketLog{
		OrderID: orderID,
		Action:  action,
		Status:  models.LogStatusSuccess,
	}
	if req != nil {
		if b, err := json.Marshal(req); err == nil {
			entry.RequestBody = string(b)
		}
	}
	if resp != nil {
		if b, err := json.Marshal(resp); err == nil {
			entry.ResponseBody = string(b)
		}
	}
	if callErr != nil {
		entry.Status = models.LogStatusFailed
		entry.ErrorMessage = callErr.Error()
	}
	if err := s.logRepo.Create(entry); err != nil {
		log.Printf("failed to write shiprocket audit log (%s): %v", action, err)
	}
	if err := s.tokens.IncrUsage("shiprocket"); err != nil {
		log.Printf("failed to count shiprocket usage: %v", err)
	}
}
