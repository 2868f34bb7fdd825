package handlers

import (
	"errors"
	"net/http"

	"apparel_store/internal/middleware"
	"apparel_store/internal/services"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Get(c *gin.Context) {
	summary, err := h.cartService.Get(middleware.UserID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load cart")
		return
	}
	respondOK(c, http.StatusOK, summary)
}

type addItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	item, err := h.cartService.AddItem(middleware.UserID(c), req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		respondError(c, cartErrorStatus(err), err.Error())
		return
	}
	respondOK(c, http.StatusCreated, item)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	itemID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid cart item id")
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	item, err := h.cartService.UpdateQuantity(middleware.UserID(c), itemID, req.Quantity)
	if err != nil {
		respondError(c, cartErrorStatus(err), err.Error())
		return
	}
	respondOK(c, http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid cart item id")
		return
	}
	if err := h.cartService.RemoveItem(middleware.UserID(c), itemID); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to remove item")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"removed": itemID})
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(middleware.UserID(c)); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"cleared": true})
}

func cartErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrOutOfStock), errors.Is(err, services.ErrVariantUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrCartItemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
