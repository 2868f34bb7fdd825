package repository

import (
	"apparel_store/internal/models"

	"gorm.io/gorm"
)

type CartRepository interface {
	GetByUser(userID uint) ([]models.CartItem, error)
	GetItem(userID, productID uint, size, color string) (*models.CartItem, error)
	Create(item *models.CartItem) error
	Update(item *models.CartItem) error
	Delete(itemID, userID uint) error
	ClearUser(userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.Preload("Product").Preload("Product.Images").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *cartRepository) GetItem(userID, productID uint, size, color string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
		userID, productID, size, color).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) Create(item *models.CartItem) error {
	return r.db.Create(item).Error
}

func (r *cartRepository) Update(item *models.CartItem) error {
	return r.db.Save(item).Error
}

func (r *cartRepository) Delete(itemID, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{}).Error
}

func (r *cartRepository) ClearUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
