package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"apparel_store/internal/middleware"
	"apparel_store/internal/models"
	"apparel_store/internal/services"

	"github.com/gin-gonic/gin"
)

type ExchangeHandler struct {
	exchangeService services.ExchangeService
}

func NewExchangeHandler(exchangeService services.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

func (h *ExchangeHandler) Create(c *gin.Context) {
	var input services.ExchangeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	request, err := h.exchangeService.Create(middleware.UserID(c), &input)
	if err != nil {
		respondError(c, exchangeErrorStatus(err), err.Error())
		return
	}
	respondOK(c, http.StatusCreated, request)
}

// CheckEligibility lets the storefront show or hide the exchange button
// without submitting a request.
func (h *ExchangeHandler) CheckEligibility(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.exchangeService.CheckEligibility(middleware.UserID(c), orderID); err != nil {
		respondOK(c, http.StatusOK, gin.H{"eligible": false, "reason": err.Error()})
		return
	}
	respondOK(c, http.StatusOK, gin.H{"eligible": true})
}

func (h *ExchangeHandler) ListMine(c *gin.Context) {
	requests, err := h.exchangeService.ListByUser(middleware.UserID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list exchange requests")
		return
	}
	respondOK(c, http.StatusOK, requests)
}

func (h *ExchangeHandler) Cancel(c *gin.Context) {
	requestID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid request id")
		return
	}

	request, err := h.exchangeService.Cancel(middleware.UserID(c), requestID)
	if err != nil {
		respondError(c, exchangeErrorStatus(err), err.Error())
		return
	}
	respondOK(c, http.StatusOK, request)
}

// Admin review endpoints

func (h *ExchangeHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	requests, total, err := h.exchangeService.List(c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list exchange requests")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"requests": requests, "total": total, "page": page})
}

type reviewRequest struct {
	Note string `json:"note"`
}

func (h *ExchangeHandler) Approve(c *gin.Context) {
	h.review(c, h.exchangeService.Approve)
}

func (h *ExchangeHandler) Reject(c *gin.Context) {
	h.review(c, h.exchangeService.Reject)
}

func (h *ExchangeHandler) review(c *gin.Context, fn func(uint, string) (*models.ExchangeRequest, error)) {
	requestID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid request id")
		return
	}

	var req reviewRequest
	_ = c.ShouldBindJSON(&req)

	request, err := fn(requestID, req.Note)
	if err != nil {
		respondError(c, exchangeErrorStatus(err), err.Error())
		return
	}
	respondOK(c, http.StatusOK, request)
}

func (h *ExchangeHandler) MarkShipped(c *gin.Context) {
	h.transition(c, h.exchangeService.MarkShipped)
}

func (h *ExchangeHandler) Complete(c *gin.Context) {
	h.transition(c, h.exchangeService.Complete)
}

func (h *ExchangeHandler) transition(c *gin.Context, fn func(uint) (*models.ExchangeRequest, error)) {
	requestID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid request id")
		return
	}

	request, err := fn(requestID)
	if err != nil {
		respondError(c, exchangeErrorStatus(err), err.Error())
		return
	}
	respondOK(c, http.StatusOK, request)
}

func exchangeErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrExchangeNotFound),
		errors.Is(err, services.ErrItemNotInOrder):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotOrderOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrActiveExchangeExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrOrderNotDelivered), errors.Is(err, services.ErrOrderNotPaid),
		errors.Is(err, services.ErrExchangeWindowClosed), errors.Is(err, services.ErrDifferentProduct),
		errors.Is(err, services.ErrQuantityChanged), errors.Is(err, services.ErrNothingToExchange),
		errors.Is(err, services.ErrVariantUnavailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
