package shiprocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "shop@example.com", creds["email"])
		assert.Equal(t, "s3cret", creds["password"])

		json.NewEncoder(w).Encode(LoginResponse{Token: "tok-123"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "shop@example.com", "s3cret")
	resp, err := client.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.Token)
}

func TestLoginEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(LoginResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "shop@example.com", "wrong")
	_, err := client.Login(context.Background())
	assert.Error(t, err)
}

func TestCreateOrderSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/create/adhoc", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ORD-20250314-AAAA1111", req.OrderID)
		assert.Equal(t, "COD", req.PaymentMethod)

		// The live API returns numeric ids.
		w.Write([]byte(`{"order_id":701,"shipment_id":901,"status":"NEW"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "shop@example.com", "s3cret")
	resp, err := client.CreateOrder(context.Background(), "tok-123", &CreateOrderRequest{
		OrderID:       "ORD-20250314-AAAA1111",
		PaymentMethod: "COD",
	})
	require.NoError(t, err)
	assert.Equal(t, "701", resp.OrderID.String())
	assert.Equal(t, "901", resp.ShipmentID.String())
}

func TestServiceability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/courier/serviceability/", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "560001", q.Get("pickup_postcode"))
		assert.Equal(t, "400001", q.Get("delivery_postcode"))
		assert.Equal(t, "0.50", q.Get("weight"))
		assert.Equal(t, "1", q.Get("cod"))

		w.Write([]byte(`{"data":{"available_courier_companies":[
			{"courier_company_id":10,"courier_name":"Fast","rate":80.5,"blocked":0},
			{"courier_company_id":11,"courier_name":"Slow","rate":60,"blocked":1}
		]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "shop@example.com", "s3cret")
	resp, err := client.Serviceability(context.Background(), "tok-123", "560001", "400001", 0.5, true)
	require.NoError(t, err)
	require.Len(t, resp.Data.AvailableCourierCompanies, 2)
	assert.Equal(t, 10, resp.Data.AvailableCourierCompanies[0].CourierCompanyID)
	assert.Equal(t, 80.5, resp.Data.AvailableCourierCompanies[0].Rate)
	assert.Equal(t, 1, resp.Data.AvailableCourierCompanies[1].Blocked)
}

func TestAssignAWB(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courier/assign/awb", r.URL.Path)

		var req AssignAWBRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "901", req.ShipmentID)
		assert.Equal(t, 10, req.CourierID)

		w.Write([]byte(`{"awb_assign_status":1,"response":{"data":{"awb_code":"AWB777","courier_name":"Fast"}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "shop@example.com", "s3cret")
	resp, err := client.AssignAWB(context.Background(), "tok-123", &AssignAWBRequest{ShipmentID: "901", CourierID: 10})
	require.NoError(t, err)
	assert.Equal(t, "AWB777", resp.Response.Data.AWBCode)
	assert.Equal(t, "Fast", resp.Response.Data.CourierName)
}

func TestErrorStatusIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid pickup location"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "shop@example.com", "s3cret")
	_, err := client.CreateOrder(context.Background(), "tok-123", &CreateOrderRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "Invalid pickup location")
}

func TestCancelOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/cancel", r.URL.Path)

		var req CancelOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"701"}, req.IDs)

		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "shop@example.com", "s3cret")
	assert.NoError(t, client.CancelOrder(context.Background(), "tok-123", "701"))
}
