package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := NewClient("key_id", "key_secret", "whsec")
	body := []byte(`{"event":"payment.captured","payload":{}}`)

	assert.True(t, client.VerifyWebhookSignature(body, sign("whsec", body)))

	// Wrong secret, tampered body, empty signature: all rejected.
	assert.False(t, client.VerifyWebhookSignature(body, sign("other", body)))
	assert.False(t, client.VerifyWebhookSignature([]byte(`{"event":"payment.captured"}`), sign("whsec", body)))
	assert.False(t, client.VerifyWebhookSignature(body, ""))
}

func TestVerifyCheckoutSignature(t *testing.T) {
	client := NewClient("key_id", "key_secret", "whsec")

	// The hosted checkout signs "<order_id>|<payment_id>" with the key secret.
	valid := sign("key_secret", []byte("order_abc|pay_xyz"))
	assert.True(t, client.VerifyCheckoutSignature("order_abc", "pay_xyz", valid))

	assert.False(t, client.VerifyCheckoutSignature("order_abc", "pay_other", valid))
	assert.False(t, client.VerifyCheckoutSignature("order_other", "pay_xyz", valid))

	// The webhook secret must not validate checkout signatures.
	assert.False(t, client.VerifyCheckoutSignature("order_abc", "pay_xyz", sign("whsec", []byte("order_abc|pay_xyz"))))
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(64900), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "ORD-20250314-AAAA1111", req.Receipt)

		json.NewEncoder(w).Encode(Order{
			ID:       "order_abc",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := NewClient("key_id", "key_secret", "whsec")
	client.BaseURL = server.URL

	order, err := client.CreateOrder(64900, "INR", "ORD-20250314-AAAA1111")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, "created", order.Status)
}

func TestCreateOrderAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Order amount less than minimum"}}`))
	}))
	defer server.Close()

	client := NewClient("key_id", "key_secret", "whsec")
	client.BaseURL = server.URL

	_, err := client.CreateOrder(50, "INR", "ORD-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Order amount less than minimum")
}
