package services

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"apparel_store/internal/models"
	"apparel_store/internal/redis"
	"apparel_store/internal/repository"
	"apparel_store/pkg/imagekit"
)

const productCacheTTL = 10 * time.Minute

// MediaCDN is what catalog management needs from the image CDN.
type MediaCDN interface {
	Upload(fileBase64, fileName, folder string) (*imagekit.UploadResponse, error)
	Delete(fileID string) error
}

type ProductInput struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	CategoryID     uint    `json:"category_id" binding:"required"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	CompareAtPrice float64 `json:"compare_at_price"`
	WeightKg       float64 `json:"weight_kg"`
	LengthCm       float64 `json:"length_cm"`
	BreadthCm      float64 `json:"breadth_cm"`
	HeightCm       float64 `json:"height_cm"`
	IsActive       *bool   `json:"is_active"`

	Variants []struct {
		Size  string `json:"size" binding:"required"`
		Color string `json:"color" binding:"required"`
		Stock int    `json:"stock"`
	} `json:"variants"`
}

type CatalogService interface {
	ListProducts(filter repository.ProductFilter) ([]models.Product, int64, error)
	GetProductBySlug(slug string) (*models.Product, error)
	CreateProduct(input *ProductInput) (*models.Product, error)
	UpdateProduct(productID uint, input *ProductInput) (*models.Product, error)
	DeleteProduct(productID uint) error
	UpdateVariantStock(productID uint, size, color string, stock int) (*models.ProductVariant, error)

	AddProductImage(productID uint, fileBase64, fileName string, isPrimary bool) (*models.ProductImage, error)
	DeleteProductImage(productID, imageID uint) error
	SetPrimaryImage(productID, imageID uint) error
	UpsertSizeChart(productID uint, rowsJSON string) error

	ListCategories() ([]models.Category, error)
	CreateCategory(name, gender string, displayOrder int) (*models.Category, error)
	UpdateCategory(category *models.Category) error
	DeleteCategory(id uint) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cdn          MediaCDN
	cache        *redis.Client
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cdn MediaCDN,
	cache *redis.Client,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cdn:          cdn,
		cache:        cache,
	}
}

func (s *catalogService) ListProducts(filter repository.ProductFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

func (s *catalogService) GetProductBySlug(slug string) (*models.Product, error) {
	if cached, err := s.cache.GetCachedProduct(slug); err == nil && cached != nil {
		var product models.Product
		if err := json.Unmarshal(cached, &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := s.cache.SetCachedProduct(slug, data, productCacheTTL); err != nil {
			log.Printf("failed to cache product %s: %v", slug, err)
		}
	}
	return product, nil
}

func (s *catalogService) CreateProduct(input *ProductInput) (*models.Product, error) {
	if _, err := s.categoryRepo.GetByID(input.CategoryID); err != nil {
		return nil, fmt.Errorf("category %d not found", input.CategoryID)
	}

	product := &models.Product{
		Name:           input.Name,
		Slug:           Slugify(input.Name),
		Description:    input.Description,
		CategoryID:     input.CategoryID,
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
		IsActive:       true,
	}
	applyDimensions(product, input)

	for _, v := range input.Variants {
		product.Variants = append(product.Variants, models.ProductVariant{
			SKU:   fmt.Sprintf("%s-%s-%s", product.Slug, strings.ToLower(v.Size), Slugify(v.Color)),
			Size:  v.Size,
			Color: v.Color,
			Stock: v.Stock,
		})
		product.Stock += v.Stock
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(productID uint, input *ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.CategoryID = input.CategoryID
	product.Price = input.Price
	product.CompareAtPrice = input.CompareAtPrice
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	applyDimensions(product, input)

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.invalidate(product.Slug)
	return product, nil
}

func (s *catalogService) DeleteProduct(productID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(productID); err != nil {
		return err
	}
	s.invalidate(product.Slug)
	return nil
}

func (s *catalogService) UpdateVariantStock(productID uint, size, color string, stock int) (*models.ProductVariant, error) {
	variant, err := s.productRepo.GetVariant(productID, size, color)
	if err != nil {
		return nil, ErrVariantUnavailable
	}
	variant.Stock = stock
	if err := s.productRepo.UpdateVariant(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *catalogService) AddProductImage(productID uint, fileBase64, fileName string, isPrimary bool) (*models.ProductImage, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.cdn.Upload(fileBase64, fileName, "products/"+product.Slug)
	if err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}
	if err := s.cache.IncrUsage("imagekit"); err != nil {
		log.Printf("failed to count imagekit usage: %v", err)
	}

	image := &models.ProductImage{
		ProductID: productID,
		URL:       uploaded.URL,
		FileID:    uploaded.FileID,
		Position:  len(product.Images),
		IsPrimary: isPrimary || len(product.Images) == 0,
	}
	if err := s.productRepo.AddImage(image); err != nil {
		return nil, err
	}
	if image.IsPrimary {
		if err := s.productRepo.SetPrimaryImage(productID, image.ID); err != nil {
			log.Printf("failed to set primary image for product %d: %v", productID, err)
		}
	}
	s.invalidate(product.Slug)
	return image, nil
}

func (s *catalogService) DeleteProductImage(productID, imageID uint) error {
	image, err := s.productRepo.GetImage(imageID)
	if err != nil || image.ProductID != productID {
		return fmt.Errorf("image %d not found on product %d", imageID, productID)
	}

	if image.FileID != "" {
		if err := s.cdn.Delete(image.FileID); err != nil {
			// The DB row still goes; an orphaned CDN object is cheaper
			// than a broken admin flow.
			log.Printf("failed to delete CDN file %s: %v", image.FileID, err)
		}
	}
	return s.productRepo.DeleteImage(imageID)
}

func (s *catalogService) SetPrimaryImage(productID, imageID uint) error {
	return s.productRepo.SetPrimaryImage(productID, imageID)
}

func (s *catalogService) UpsertSizeChart(productID uint, rowsJSON string) error {
	if !json.Valid([]byte(rowsJSON)) {
		return fmt.Errorf("size chart rows must be valid JSON")
	}
	return s.productRepo.UpsertSizeChart(&models.SizeChart{
		ProductID: productID,
		Rows:      rowsJSON,
	})
}

func (s *catalogService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

func (s *catalogService) CreateCategory(name, gender string, displayOrder int) (*models.Category, error) {
	category := &models.Category{
		Name:         name,
		Slug:         Slugify(name),
		Gender:       gender,
		DisplayOrder: displayOrder,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(category *models.Category) error {
	return s.categoryRepo.Update(category)
}

func (s *catalogService) DeleteCategory(id uint) error {
	return s.categoryRepo.Delete(id)
}

func (s *catalogService) invalidate(slug string) {
	if err := s.cache.InvalidateProduct(slug); err != nil {
		log.Printf("failed to invalidate product cache %s: %v", slug, err)
	}
}

func applyDimensions(product *models.Product, input *ProductInput) {
	if input.WeightKg > 0 {
		product.WeightKg = input.WeightKg
	}
	if input.LengthCm > 0 {
		product.LengthCm = input.LengthCm
	}
	if input.BreadthCm > 0 {
		product.BreadthCm = input.BreadthCm
	}
	if input.HeightCm > 0 {
		product.HeightCm = input.HeightCm
	}
}

var slugCleanup = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify builds the URL slug used for products and categories.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugCleanup.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
