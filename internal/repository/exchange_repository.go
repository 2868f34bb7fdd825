package repository

import (
	"apparel_store/internal/models"

	"gorm.io/gorm"
)

type ExchangeRepository interface {
	Create(request *models.ExchangeRequest) error
	GetByID(id uint) (*models.ExchangeRequest, error)
	GetActiveByOrder(orderID uint) (*models.ExchangeRequest, error)
	ListByUser(userID uint) ([]models.ExchangeRequest, error)
	List(status string, page, pageSize int) ([]models.ExchangeRequest, int64, error)
	Update(request *models.ExchangeRequest) error
}

type exchangeRepository struct {
	db *gorm.DB
}

func NewExchangeRepository(db *gorm.DB) ExchangeRepository {
	return &exchangeRepository{db: db}
}

func (r *exchangeRepository) Create(request *models.ExchangeRequest) error {
	return r.db.Create(request).Error
}

func (r *exchangeRepository) GetByID(id uint) (*models.ExchangeRequest, error) {
	var request models.ExchangeRequest
	err := r.db.First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetActiveByOrder returns the order's non-terminal request, if any.
// gorm.ErrRecordNotFound means the order's exchange slot is free.
func (r *exchangeRepository) GetActiveByOrder(orderID uint) (*models.ExchangeRequest, error) {
	var request models.ExchangeRequest
	err := r.db.Where("order_id = ? AND status IN ?", orderID,
		[]string{models.ExchangePending, models.ExchangeApproved, models.ExchangeShipped}).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *exchangeRepository) ListByUser(userID uint) ([]models.ExchangeRequest, error) {
	var requests []models.ExchangeRequest
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *exchangeRepository) List(status string, page, pageSize int) ([]models.ExchangeRequest, int64, error) {
	query := r.db.Model(&models.ExchangeRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	var requests []models.ExchangeRequest
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&requests).Error
	return requests, total, err
}

func (r *exchangeRepository) Update(request *models.ExchangeRequest) error {
	return r.db.Save(request).Error
}
