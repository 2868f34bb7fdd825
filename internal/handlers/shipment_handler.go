package handlers

import (
	"net/http"
	"strconv"

	"apparel_store/internal/models"
	"apparel_store/internal/repository"
	"apparel_store/internal/services"

	"github.com/gin-gonic/gin"
)

type ShipmentHandler struct {
	shipmentService services.ShipmentService
	orderService    services.OrderService
	logRepo         repository.ShiprocketLogRepository
}

func NewShipmentHandler(
	shipmentService services.ShipmentService,
	orderService services.OrderService,
	logRepo repository.ShiprocketLogRepository,
) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
		orderService:    orderService,
		logRepo:         logRepo,
	}
}

// CarrierWebhook receives shipment status pushes from the carrier.
func (h *ShipmentHandler) CarrierWebhook(c *gin.Context) {
	var payload services.CarrierWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	if err := h.shipmentService.HandleCarrierWebhook(&payload); err != nil {
		// The carrier retries on non-2xx; an update for an unknown order
		// will never succeed, so acknowledge it and log.
		respondOK(c, http.StatusOK, gin.H{"received": true, "note": err.Error()})
		return
	}
	respondOK(c, http.StatusOK, gin.H{"received": true})
}

// Admin retry buttons: each step of the fulfillment chain can be re-run
// individually after a carrier failure.

func (h *ShipmentHandler) RetryCreateOrder(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	if err := h.shipmentService.CreateCarrierOrder(order); err != nil {
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}
	respondOK(c, http.StatusOK, order)
}

func (h *ShipmentHandler) RetryAssignAWB(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	if err := h.shipmentService.AssignAWB(order); err != nil {
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}
	respondOK(c, http.StatusOK, order)
}

func (h *ShipmentHandler) RetrySchedulePickup(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	if err := h.shipmentService.SchedulePickup(order); err != nil {
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}
	respondOK(c, http.StatusOK, order)
}

func (h *ShipmentHandler) Track(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	tracking, err := h.shipmentService.Track(order)
	if err != nil {
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}
	respondOK(c, http.StatusOK, tracking)
}

// Logs lists the carrier audit trail, optionally scoped to one order.
func (h *ShipmentHandler) Logs(c *gin.Context) {
	if orderID, err := strconv.ParseUint(c.Query("order_id"), 10, 32); err == nil {
		entries, err := h.logRepo.ListByOrder(uint(orderID))
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to list logs")
			return
		}
		respondOK(c, http.StatusOK, gin.H{"logs": entries})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	entries, total, err := h.logRepo.List(page, pageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list logs")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"logs": entries, "total": total, "page": page})
}

func (h *ShipmentHandler) loadOrder(c *gin.Context) (order *models.Order, ok bool) {
	orderID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return nil, false
	}
	order, err = h.orderService.GetByID(orderID)
	if err != nil {
		respondError(c, http.StatusNotFound, "order not found")
		return nil, false
	}
	return order, true
}
