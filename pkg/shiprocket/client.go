package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// TokenValidity is how long a login token stays usable on the carrier side.
const TokenValidity = 10 * 24 * time.Hour

type Client struct {
	BaseURL    string
	Email      string
	Password   string
	HTTPClient *http.Client

	// Shiprocket throttles external API callers; keep ourselves under it.
	limiter *rate.Limiter
}

func NewClient(baseURL, email, password string) *Client {
	return &Client{
		BaseURL:  baseURL,
		Email:    email,
		Password: password,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

type LoginResponse struct {
	Token string `json:"token"`
}

type OrderItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
}

type CreateOrderRequest struct {
	OrderID           string      `json:"order_id"`
	OrderDate         string      `json:"order_date"`
	PickupLocation    string      `json:"pickup_location"`
	BillingName       string      `json:"billing_customer_name"`
	BillingLastName   string      `json:"billing_last_name"`
	BillingAddress    string      `json:"billing_address"`
	BillingAddress2   string      `json:"billing_address_2"`
	BillingCity       string      `json:"billing_city"`
	BillingPincode    string      `json:"billing_pincode"`
	BillingState      string      `json:"billing_state"`
	BillingCountry    string      `json:"billing_country"`
	BillingPhone      string      `json:"billing_phone"`
	ShippingIsBilling bool        `json:"shipping_is_billing"`
	OrderItems        []OrderItem `json:"order_items"`
	PaymentMethod     string      `json:"payment_method"` // Prepaid or COD
	SubTotal          float64     `json:"sub_total"`
	Length            float64     `json:"length"`
	Breadth           float64     `json:"breadth"`
	Height            float64     `json:"height"`
	Weight            float64     `json:"weight"`
}

type CreateOrderResponse struct {
	OrderID    json.Number `json:"order_id"`
	ShipmentID json.Number `json:"shipment_id"`
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
}

type CourierRate struct {
	CourierCompanyID int     `json:"courier_company_id"`
	CourierName      string  `json:"courier_name"`
	Rate             float64 `json:"rate"`
	EstimatedDays    string  `json:"estimated_delivery_days"`
	Blocked          int     `json:"blocked"`
}

type ServiceabilityResponse struct {
	Data struct {
		AvailableCourierCompanies []CourierRate `json:"available_courier_companies"`
	} `json:"data"`
}

type AssignAWBRequest struct {
	ShipmentID string `json:"shipment_id"`
	CourierID  int    `json:"courier_id,omitempty"`
}

type AssignAWBResponse struct {
	AWBAssignStatus int `json:"awb_assign_status"`
	Response        struct {
		Data struct {
			AWBCode     string `json:"awb_code"`
			CourierName string `json:"courier_name"`
		} `json:"data"`
	} `json:"response"`
}

type SchedulePickupRequest struct {
	ShipmentID []string `json:"shipment_id"`
}

type SchedulePickupResponse struct {
	PickupStatus   int `json:"pickup_status"`
	ResponseDetail struct {
		PickupScheduledDate string `json:"pickup_scheduled_date"`
		PickupTokenNumber   string `json:"pickup_token_number"`
	} `json:"response"`
}

type TrackingActivity struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Activity string `json:"activity"`
	Location string `json:"location"`
}

type TrackResponse struct {
	TrackingData struct {
		ShipmentStatus     int                `json:"shipment_status"`
		ShipmentTrack      []json.RawMessage  `json:"shipment_track"`
		ShipmentActivities []TrackingActivity `json:"shipment_track_activities"`
	} `json:"tracking_data"`
}

type CancelOrderRequest struct {
	IDs []string `json:"ids"`
}

// Login exchanges the account credentials for a bearer token. The caller is
// responsible for caching it; see TokenValidity.
func (c *Client) Login(ctx context.Context) (*LoginResponse, error) {
	reqBody := map[string]string{
		"email":    c.Email,
		"password": c.Password,
	}

	var loginResp LoginResponse
	if err := c.do(ctx, "POST", "/auth/login", "", reqBody, &loginResp); err != nil {
		return nil, err
	}
	if loginResp.Token == "" {
		return nil, fmt.Errorf("shiprocket login returned empty token")
	}
	return &loginResp, nil
}

// CreateOrder registers an adhoc channel order and returns the carrier's
// order and shipment identifiers.
func (c *Client) CreateOrder(ctx context.Context, token string, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	if err := c.do(ctx, "POST", "/orders/create/adhoc", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Serviceability lists couriers able to carry a parcel between two pincodes,
// with their rates.
func (c *Client) Serviceability(ctx context.Context, token, pickupPincode, deliveryPincode string, weightKg float64, cod bool) (*ServiceabilityResponse, error) {
	codFlag := "0"
	if cod {
		codFlag = "1"
	}
	params := url.Values{}
	params.Set("pickup_postcode", pickupPincode)
	params.Set("delivery_postcode", deliveryPincode)
	params.Set("weight", fmt.Sprintf("%.2f", weightKg))
	params.Set("cod", codFlag)

	var resp ServiceabilityResponse
	if err := c.do(ctx, "GET", "/courier/serviceability/?"+params.Encode(), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AssignAWB generates the airway bill for a shipment. CourierID zero lets
// the carrier pick.
func (c *Client) AssignAWB(ctx context.Context, token string, req *AssignAWBRequest) (*AssignAWBResponse, error) {
	var resp AssignAWBResponse
	if err := c.do(ctx, "POST", "/courier/assign/awb", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SchedulePickup(ctx context.Context, token string, req *SchedulePickupRequest) (*SchedulePickupResponse, error) {
	var resp SchedulePickupResponse
	if err := c.do(ctx, "POST", "/courier/generate/pickup", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) TrackByAWB(ctx context.Context, token, awbCode string) (*TrackResponse, error) {
	var resp TrackResponse
	if err := c.do(ctx, "GET", "/courier/track/awb/"+awbCode, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CancelOrder(ctx context.Context, token string, carrierOrderID string) error {
	req := CancelOrderRequest{IDs: []string{carrierOrderID}}
	return c.do(ctx, "POST", "/orders/cancel", token, req, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, reqBody, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("shiprocket %s %s failed with status %d: %s", method, path, resp.StatusCode, truncate(body, 512))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
