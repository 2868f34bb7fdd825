package handlers

import (
	"errors"
	"net/http"

	"apparel_store/internal/middleware"
	"apparel_store/internal/services"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Webhook receives razorpay's server-to-server events. The signature is
// computed over the raw body, so the body must not go through the JSON
// binder first.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read body")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := h.paymentService.HandleWebhook(body, signature); err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, http.StatusOK, gin.H{"received": true})
}

type verifyCheckoutRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

func (h *PaymentHandler) VerifyCheckout(c *gin.Context) {
	var req verifyCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	order, err := h.paymentService.VerifyCheckout(
		middleware.UserID(c),
		req.RazorpayOrderID,
		req.RazorpayPaymentID,
		req.RazorpaySignature,
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			respondError(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, services.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotOrderOwner):
			respondError(c, http.StatusForbidden, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondOK(c, http.StatusOK, order)
}
