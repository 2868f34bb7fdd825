package repository

import (
	"time"

	"apparel_store/internal/models"

	"gorm.io/gorm"
)

type OrderFilter struct {
	UserID        uint
	OrderStatus   string
	PaymentStatus string
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

type ProductSales struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Units       int64   `json:"units"`
	Revenue     float64 `json:"revenue"`
}

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	GetByRazorpayOrderID(razorpayOrderID string) (*models.Order, error)
	GetByAWB(awbCode string) (*models.Order, error)
	List(filter OrderFilter) ([]models.Order, int64, error)
	Update(order *models.Order) error

	Revenue(from, to time.Time) (float64, error)
	CountByStatus() (map[string]int64, error)
	TopProducts(from, to time.Time, limit int) ([]ProductSales, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByRazorpayOrderID(razorpayOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Where("razorpay_order_id = ?", razorpayOrderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByAWB(awbCode string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Where("awb_code = ?", awbCode).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(filter OrderFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
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

	var orders []models.Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.PageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) Revenue(from, to time.Time) (float64, error) {
	var revenue float64
	err := r.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?", models.PaymentPaid, from, to).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *orderRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		OrderStatus string
		Count       int64
	}
	var rows []row
	err := r.db.Model(&models.Order{}).
		Select("order_status, COUNT(*) as count").
		Group("order_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.OrderStatus] = r.Count
	}
	return counts, nil
}

func (r *orderRepository) TopProducts(from, to time.Time, limit int) ([]ProductSales, error) {
	var sales []ProductSales
	err := r.db.Model(&models.OrderItem{}).
		Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) as units, SUM(order_items.total_price) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ? AND orders.created_at >= ? AND orders.created_at < ?", models.PaymentPaid, from, to).
		Group("order_items.product_id, order_items.product_name").
		Order("units DESC").
		Limit(limit).
		Scan(&sales).Error
	return sales, err
}
