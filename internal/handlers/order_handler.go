package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"apparel_store/internal/middleware"
	"apparel_store/internal/repository"
	"apparel_store/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var input services.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.orderService.Checkout(middleware.UserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrOutOfStock):
			respondError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			respondError(c, http.StatusBadGateway, err.Error())
		}
		return
	}
	respondOK(c, http.StatusCreated, result)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	orders, total, err := h.orderService.ListUserOrders(middleware.UserID(c), page, pageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list orders")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"orders": orders, "total": total, "page": page})
}

func (h *OrderHandler) GetMine(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.GetUserOrder(middleware.UserID(c), orderID)
	if err != nil {
		respondError(c, orderErrorStatus(err), err.Error())
		return
	}
	respondOK(c, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.CancelOrder(middleware.UserID(c), orderID)
	if err != nil {
		respondError(c, orderErrorStatus(err), err.Error())
		return
	}
	respondOK(c, http.StatusOK, order)
}

// Admin endpoints

func (h *OrderHandler) List(c *gin.Context) {
	filter := orderFilterFromQuery(c)

	orders, total, err := h.orderService.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list orders")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"orders":    orders,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.GetByID(orderID)
	if err != nil {
		respondError(c, orderErrorStatus(err), err.Error())
		return
	}
	respondOK(c, http.StatusOK, order)
}

type statusOverrideRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) OverrideStatus(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req statusOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	order, err := h.orderService.OverrideStatus(orderID, req.Status)
	if err != nil {
		respondError(c, orderErrorStatus(err), err.Error())
		return
	}
	respondOK(c, http.StatusOK, order)
}

func orderFilterFromQuery(c *gin.Context) repository.OrderFilter {
	filter := repository.OrderFilter{
		OrderStatus:   c.Query("order_status"),
		PaymentStatus: c.Query("payment_status"),
	}
	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
		filter.UserID = uint(userID)
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.To = &to
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return filter
}

func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotOrderOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAlreadyShipped), errors.Is(err, services.ErrUnknownStatus):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
