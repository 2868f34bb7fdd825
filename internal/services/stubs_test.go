package services

import (
	"context"
	"time"

	"apparel_store/internal/models"
	"apparel_store/internal/repository"
	"apparel_store/pkg/razorpay"
	"apparel_store/pkg/shiprocket"

	"gorm.io/gorm"
)

// In-memory stand-ins for the repositories and partner clients, so the
// service logic can run without postgres, redis or the real APIs.

type stubOrderRepo struct {
	orders []*models.Order
	nextID uint
}

func (r *stubOrderRepo) Create(order *models.Order) error {
	r.nextID++
	order.ID = r.nextID
	for i := range order.Items {
		order.Items[i].ID = uint(i + 1)
		order.Items[i].OrderID = order.ID
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	r.orders = append(r.orders, order)
	return nil
}

func (r *stubOrderRepo) GetByID(id uint) (*models.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) GetByRazorpayOrderID(razorpayOrderID string) (*models.Order, error) {
	for _, o := range r.orders {
		if o.RazorpayOrderID == razorpayOrderID {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) GetByAWB(awbCode string) (*models.Order, error) {
	for _, o := range r.orders {
		if o.AWBCode == awbCode {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) List(filter repository.OrderFilter) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range r.orders {
		if filter.UserID > 0 && o.UserID != filter.UserID {
			continue
		}
		if filter.OrderStatus != "" && o.OrderStatus != filter.OrderStatus {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) Update(order *models.Order) error {
	for i, o := range r.orders {
		if o.ID == order.ID {
			r.orders[i] = order
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) Revenue(from, to time.Time) (float64, error) {
	var sum float64
	for _, o := range r.orders {
		if o.PaymentStatus == models.PaymentPaid {
			sum += o.Total
		}
	}
	return sum, nil
}

func (r *stubOrderRepo) CountByStatus() (map[string]int64, error) {
	counts := map[string]int64{}
	for _, o := range r.orders {
		counts[o.OrderStatus]++
	}
	return counts, nil
}

func (r *stubOrderRepo) TopProducts(from, to time.Time, limit int) ([]repository.ProductSales, error) {
	return nil, nil
}

type stubCartRepo struct {
	items   []models.CartItem
	cleared bool
}

func (r *stubCartRepo) GetByUser(userID uint) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubCartRepo) GetItem(userID, productID uint, size, color string) (*models.CartItem, error) {
	for i := range r.items {
		it := &r.items[i]
		if it.UserID == userID && it.ProductID == productID && it.Size == size && it.Color == color {
			return it, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCartRepo) Create(item *models.CartItem) error {
	item.ID = uint(len(r.items) + 1)
	r.items = append(r.items, *item)
	return nil
}

func (r *stubCartRepo) Update(item *models.CartItem) error {
	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCartRepo) Delete(itemID, userID uint) error {
	for i := range r.items {
		if r.items[i].ID == itemID && r.items[i].UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubCartRepo) ClearUser(userID uint) error {
	r.cleared = true
	var kept []models.CartItem
	for _, item := range r.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

type stubProductRepo struct {
	products    map[uint]*models.Product
	variants    map[uint]*models.ProductVariant // by variant ID
	adjustments map[uint]int                    // variant ID -> summed deltas
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products:    map[uint]*models.Product{},
		variants:    map[uint]*models.ProductVariant{},
		adjustments: map[uint]int{},
	}
}

func (r *stubProductRepo) addProduct(p *models.Product, variants ...*models.ProductVariant) {
	r.products[p.ID] = p
	for _, v := range variants {
		r.variants[v.ID] = v
	}
}

func (r *stubProductRepo) Create(product *models.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepo) GetByID(id uint) (*models.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) GetBySlug(slug string) (*models.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(filter repository.ProductFilter) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (r *stubProductRepo) Update(product *models.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepo) Delete(id uint) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) GetVariant(productID uint, size, color string) (*models.ProductVariant, error) {
	for _, v := range r.variants {
		if v.ProductID == productID && v.Size == size && v.Color == color {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) UpdateVariant(variant *models.ProductVariant) error {
	r.variants[variant.ID] = variant
	return nil
}

func (r *stubProductRepo) AdjustVariantStock(variantID uint, delta int) error {
	r.adjustments[variantID] += delta
	if v, ok := r.variants[variantID]; ok {
		v.Stock += delta
	}
	return nil
}

func (r *stubProductRepo) AddImage(image *models.ProductImage) error { return nil }
func (r *stubProductRepo) GetImage(imageID uint) (*models.ProductImage, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubProductRepo) DeleteImage(imageID uint) error                { return nil }
func (r *stubProductRepo) SetPrimaryImage(productID, imageID uint) error { return nil }
func (r *stubProductRepo) UpsertSizeChart(chart *models.SizeChart) error { return nil }

type stubSettingRepo struct {
	settings map[string]float64
}

func (r *stubSettingRepo) Get(settingName string) (*models.StoreSetting, error) {
	if r.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	amount, ok := r.settings[settingName]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.StoreSetting{SettingName: settingName, Amount: amount, IsActive: true}, nil
}

func (r *stubSettingRepo) Upsert(setting *models.StoreSetting) error {
	if r.settings == nil {
		r.settings = map[string]float64{}
	}
	r.settings[setting.SettingName] = setting.Amount
	return nil
}

type stubExchangeRepo struct {
	requests []*models.ExchangeRequest
}

func (r *stubExchangeRepo) Create(request *models.ExchangeRequest) error {
	request.ID = uint(len(r.requests) + 1)
	r.requests = append(r.requests, request)
	return nil
}

func (r *stubExchangeRepo) GetByID(id uint) (*models.ExchangeRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubExchangeRepo) GetActiveByOrder(orderID uint) (*models.ExchangeRequest, error) {
	for _, req := range r.requests {
		if req.OrderID == orderID && models.IsActiveExchangeStatus(req.Status) {
			return req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubExchangeRepo) ListByUser(userID uint) ([]models.ExchangeRequest, error) {
	var out []models.ExchangeRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *stubExchangeRepo) List(status string, page, pageSize int) ([]models.ExchangeRequest, int64, error) {
	var out []models.ExchangeRequest
	for _, req := range r.requests {
		if status == "" || req.Status == status {
			out = append(out, *req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubExchangeRepo) Update(request *models.ExchangeRequest) error {
	for i, req := range r.requests {
		if req.ID == request.ID {
			r.requests[i] = request
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubLogRepo struct {
	entries []*models.ShiprocketLog
}

func (r *stubLogRepo) Create(entry *models.ShiprocketLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubLogRepo) ListByOrder(orderID uint) ([]models.ShiprocketLog, error) {
	return nil, nil
}

func (r *stubLogRepo) List(page, pageSize int) ([]models.ShiprocketLog, int64, error) {
	return nil, 0, nil
}

// stubGateway implements PaymentGateway.
type stubGateway struct {
	createdAmount  int64
	createdReceipt string
	createErr      error
	webhookValid   bool
	checkoutValid  bool
}

func (g *stubGateway) CreateOrder(amountPaise int64, currency, receipt string) (*razorpay.Order, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.createdAmount = amountPaise
	g.createdReceipt = receipt
	return &razorpay.Order{ID: "order_stub123", Amount: amountPaise, Currency: currency, Status: "created"}, nil
}

func (g *stubGateway) VerifyCheckoutSignature(razorpayOrderID, razorpayPaymentID, signature string) bool {
	return g.checkoutValid
}

func (g *stubGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return g.webhookValid
}

// stubShipments implements ShipmentService and just records calls.
type stubShipments struct {
	dispatched []string // order numbers
	cancelled  []string
}

func (s *stubShipments) Dispatch(order *models.Order) {
	s.dispatched = append(s.dispatched, order.OrderNumber)
}

func (s *stubShipments) CreateCarrierOrder(order *models.Order) error { return nil }
func (s *stubShipments) AssignAWB(order *models.Order) error          { return nil }
func (s *stubShipments) SchedulePickup(order *models.Order) error     { return nil }

func (s *stubShipments) Track(order *models.Order) (*shiprocket.TrackResponse, error) {
	return &shiprocket.TrackResponse{}, nil
}

func (s *stubShipments) CancelShipment(order *models.Order) error {
	s.cancelled = append(s.cancelled, order.OrderNumber)
	return nil
}

func (s *stubShipments) HandleCarrierWebhook(payload *CarrierWebhookPayload) error { return nil }

// stubCarrier implements CarrierAPI.
type stubCarrier struct {
	logins     int
	createResp *shiprocket.CreateOrderResponse
	svcResp    *shiprocket.ServiceabilityResponse
	awbResp    *shiprocket.AssignAWBResponse
	createErr  error
}

func (c *stubCarrier) Login(ctx context.Context) (*shiprocket.LoginResponse, error) {
	c.logins++
	return &shiprocket.LoginResponse{Token: "carrier-token"}, nil
}

func (c *stubCarrier) CreateOrder(ctx context.Context, token string, req *shiprocket.CreateOrderRequest) (*shiprocket.CreateOrderResponse, error) {
	if c.createErr != nil {
		return nil, c.createErr
	}
	if c.createResp != nil {
		return c.createResp, nil
	}
	return &shiprocket.CreateOrderResponse{OrderID: "701", ShipmentID: "901"}, nil
}

func (c *stubCarrier) Serviceability(ctx context.Context, token, pickupPincode, deliveryPincode string, weightKg float64, cod bool) (*shiprocket.ServiceabilityResponse, error) {
	if c.svcResp != nil {
		return c.svcResp, nil
	}
	return &shiprocket.ServiceabilityResponse{}, nil
}

func (c *stubCarrier) AssignAWB(ctx context.Context, token string, req *shiprocket.AssignAWBRequest) (*shiprocket.AssignAWBResponse, error) {
	if c.awbResp != nil {
		return c.awbResp, nil
	}
	resp := &shiprocket.AssignAWBResponse{}
	resp.Response.Data.AWBCode = "AWB123"
	resp.Response.Data.CourierName = "Stub Express"
	return resp, nil
}

func (c *stubCarrier) SchedulePickup(ctx context.Context, token string, req *shiprocket.SchedulePickupRequest) (*shiprocket.SchedulePickupResponse, error) {
	return &shiprocket.SchedulePickupResponse{}, nil
}

func (c *stubCarrier) TrackByAWB(ctx context.Context, token, awbCode string) (*shiprocket.TrackResponse, error) {
	return &shiprocket.TrackResponse{}, nil
}

func (c *stubCarrier) CancelOrder(ctx context.Context, token string, carrierOrderID string) error {
	return nil
}

// stubCache implements CarrierCache.
type stubCache struct {
	token string
	usage map[string]int
}

func (c *stubCache) GetCarrierToken() (string, error) { return c.token, nil }

func (c *stubCache) SetCarrierToken(token string, ttl time.Duration) error {
	c.token = token
	return nil
}

func (c *stubCache) IncrUsage(service string) error {
	if c.usage == nil {
		c.usage = map[string]int{}
	}
	c.usage[service]++
	return nil
}
