package repository

import (
	"apparel_store/internal/models"

	"gorm.io/gorm"
)

type ProductFilter struct {
	CategoryID uint
	Gender     string
	Search     string
	ActiveOnly bool
	Page       int
	PageSize   int
}

type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	List(filter ProductFilter) ([]models.Product, int64, error)
	Update(product *models.Product) error
	Delete(id uint) error

	GetVariant(productID uint, size, color string) (*models.ProductVariant, error)
	UpdateVariant(variant *models.ProductVariant) error
	AdjustVariantStock(variantID uint, delta int) error

	AddImage(image *models.ProductImage) error
	GetImage(imageID uint) (*models.ProductImage, error)
	DeleteImage(imageID uint) error
	SetPrimaryImage(productID, imageID uint) error

	UpsertSizeChart(chart *models.SizeChart) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Variants").Preload("Images").Preload("SizeChart").Preload("Category").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Variants").Preload("Images").Preload("SizeChart").Preload("Category").
		Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.CategoryID > 0 {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.Gender != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.gender = ?", filter.Gender)
	}
	if filter.Search != "" {
		query = query.Where("products.name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 50 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	var products []models.Product
	err := query.Preload("Images").Preload("Category").
		Order("products.created_at DESC").
		Offset(offset).Limit(filter.PageSize).
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

func (r *productRepository) GetVariant(productID uint, size, color string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.Where("product_id = ? AND size = ? AND color = ?", productID, size, color).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepository) UpdateVariant(variant *models.ProductVariant) error {
	return r.db.Save(variant).Error
}

func (r *productRepository) AdjustVariantStock(variantID uint, delta int) error {
	return r.db.Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *productRepository) AddImage(image *models.ProductImage) error {
	return r.db.Create(image).Error
}

func (r *productRepository) GetImage(imageID uint) (*models.ProductImage, error) {
	var image models.ProductImage
	err := r.db.First(&image, imageID).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *productRepository) DeleteImage(imageID uint) error {
	return r.db.Delete(&models.ProductImage{}, imageID).Error
}

func (r *productRepository) SetPrimaryImage(productID, imageID uint) error {
	if err := r.db.Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		UpdateColumn("is_primary", false).Error; err != nil {
		return err
	}
	return r.db.Model(&models.ProductImage{}).
		Where("id = ? AND product_id = ?", imageID, productID).
		UpdateColumn("is_primary", true).Error
}

func (r *productRepository) UpsertSizeChart(chart *models.SizeChart) error {
	var existing models.SizeChart
	err := r.db.Where("product_id = ?", chart.ProductID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(chart).Error
	}
	if err != nil {
		return err
	}
	existing.Rows = chart.Rows
	return r.db.Save(&existing).Error
}
