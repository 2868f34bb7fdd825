package handlers

import (
	"net/http"
	"strconv"

	"apparel_store/internal/models"
	"apparel_store/internal/repository"
	"apparel_store/internal/services"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Storefront endpoints

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Gender:     c.Query("gender"),
		Search:     c.Query("q"),
		ActiveOnly: true,
	}
	if categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 32); err == nil {
		filter.CategoryID = uint(categoryID)
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	products, total, err := h.catalogService.ListProducts(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list products")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"products":  products,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	respondOK(c, http.StatusOK, product)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	respondOK(c, http.StatusOK, categories)
}

// Admin endpoints

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	product, err := h.catalogService.CreateProduct(&input)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondOK(c, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	productID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	product, err := h.catalogService.UpdateProduct(productID, &input)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondOK(c, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	productID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.catalogService.DeleteProduct(productID); err != nil {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": productID})
}

type stockRequest struct {
	Size  string `json:"size" binding:"required"`
	Color string `json:"color" binding:"required"`
	Stock int    `json:"stock" binding:"min=0"`
}

func (h *CatalogHandler) UpdateStock(c *gin.Context) {
	productID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	variant, err := h.catalogService.UpdateVariantStock(productID, req.Size, req.Color, req.Stock)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, http.StatusOK, variant)
}

type imageUploadRequest struct {
	FileBase64 string `json:"file_base64" binding:"required"`
	FileName   string `json:"file_name" binding:"required"`
	IsPrimary  bool   `json:"is_primary"`
}

func (h *CatalogHandler) UploadImage(c *gin.Context) {
	productID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req imageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	image, err := h.catalogService.AddProductImage(productID, req.FileBase64, req.FileName, req.IsPrimary)
	if err != nil {
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}
	respondOK(c, http.StatusCreated, image)
}

func (h *CatalogHandler) DeleteImage(c *gin.Context) {
	productID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}
	imageID, err := pathID(c, "image_id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image id")
		return
	}

	if err := h.catalogService.DeleteProductImage(productID, imageID); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": imageID})
}

func (h *CatalogHandler) SetPrimaryImage(c *gin.Context) {
	productID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}
	imageID, err := pathID(c, "image_id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image id")
		return
	}

	if err := h.catalogService.SetPrimaryImage(productID, imageID); err != nil {
		respondError(c, http.StatusNotFound, "image not found")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"primary_image": imageID})
}

type sizeChartRequest struct {
	Rows string `json:"rows" binding:"required"`
}

func (h *CatalogHandler) UpsertSizeChart(c *gin.Context) {
	productID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req sizeChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := h.catalogService.UpsertSizeChart(productID, req.Rows); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondOK(c, http.StatusOK, gin.H{"product_id": productID})
}

type categoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Gender       string `json:"gender" binding:"required,oneof=men women unisex kids"`
	DisplayOrder int    `json:"display_order"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	category, err := h.catalogService.CreateCategory(req.Name, req.Gender, req.DisplayOrder)
	if err != nil {
		respondError(c, http.StatusConflict, err.Error())
		return
	}
	respondOK(c, http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	category := &models.Category{
		ID:           categoryID,
		Name:         req.Name,
		Slug:         services.Slugify(req.Name),
		Gender:       req.Gender,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.catalogService.UpdateCategory(category); err != nil {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}
	respondOK(c, http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := pathID(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := h.catalogService.DeleteCategory(categoryID); err != nil {
		respondError(c, http.StatusNotFound, "category not found")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": categoryID})
}

func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}
