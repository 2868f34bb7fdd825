package razorpay

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

type Client struct {
	BaseURL       string
	KeyID         string
	KeySecret     string
	WebhookSecret string
	HTTPClient    *http.Client
}

type CreateOrderRequest struct {
	Amount   int64  `json:"amount"` // in paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func NewClient(keyID, keySecret, webhookSecret string) *Client {
	return &Client{
		BaseURL:       defaultBaseURL,
		KeyID:         keyID,
		KeySecret:     keySecret,
		WebhookSecret: webhookSecret,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateOrder registers an order with the gateway so the hosted checkout
// can collect payment against it.
func (c *Client) CreateOrder(amountPaise int64, currency, receipt string) (*Order, error) {
	reqData := CreateOrderRequest{
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
	}

	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := fmt.Sprintf("%s/orders", c.BaseURL)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay order create failed: %s", apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay order create failed with status %d", resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &order, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature the gateway puts
// in X-Razorpay-Signature over the raw webhook body.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	return verifyHMAC(c.WebhookSecret, body, signature)
}

// VerifyCheckoutSignature checks the signature returned to the browser after
// a hosted checkout completes. The signed payload is "<order_id>|<payment_id>".
func (c *Client) VerifyCheckoutSignature(razorpayOrderID, razorpayPaymentID, signature string) bool {
	payload := razorpayOrderID + "|" + razorpayPaymentID
	return verifyHMAC(c.KeySecret, []byte(payload), signature)
}

func verifyHMAC(secret string, payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
