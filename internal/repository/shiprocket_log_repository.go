package repository

import (
	"apparel_store/internal/models"

	"gorm.io/gorm"
)

type ShiprocketLogRepository interface {
	Create(entry *models.ShiprocketLog) error
	ListByOrder(orderID uint) ([]models.ShiprocketLog, error)
	List(page, pageSize int) ([]models.ShiprocketLog, int64, error)
}

type shiprocketLogRepository struct {
	db *gorm.DB
}

func NewShiprocketLogRepository(db *gorm.DB) ShiprocketLogRepository {
	return &shiprocketLogRepository{db: db}
}

func (r *shiprocketLogRepository) Create(entry *models.ShiprocketLog) error {
	return r.db.Create(entry).Error
}

func (r *shiprocketLogRepository) ListByOrder(orderID uint) ([]models.ShiprocketLog, error) {
	var entries []models.ShiprocketLog
	err := r.db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *shiprocketLogRepository) List(page, pageSize int) ([]models.ShiprocketLog, int64, error) {
	var total int64
	if err := r.db.Model(&models.ShiprocketLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	var entries []models.ShiprocketLog
	err := r.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&entries).Error
	return entries, total, err
}
