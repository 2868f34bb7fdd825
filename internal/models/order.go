package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	OrderNumber string      `json:"order_number" gorm:"unique;not null"`
	UserID      uint        `json:"user_id" gorm:"not null;index"`
	Items       []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`

	// Shipping address snapshot
	ShippingName  string `json:"shipping_name" gorm:"not null"`
	ShippingPhone string `json:"shipping_phone" gorm:"not null"`
	AddressLine1  string `json:"address_line1" gorm:"not null"`
	AddressLine2  string `json:"address_line2"`
	City          string `json:"city" gorm:"not null"`
	State         string `json:"state" gorm:"not null"`
	Pincode       string `json:"pincode" gorm:"not null"`
	Country       string `json:"country" gorm:"default:'India'"`

	Subtotal       float64 `json:"subtotal" gorm:"not null"`
	ShippingCharge float64 `json:"shipping_charge"`
	CODCharge      float64 `json:"cod_charge"`
	Total          float64 `json:"total" gorm:"not null"`

	PaymentMethod     string `json:"payment_method" gorm:"not null"` // razorpay, cod
	PaymentStatus     string `json:"payment_status" gorm:"default:'pending'"`
	RazorpayOrderID   string `json:"razorpay_order_id" gorm:"index"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`

	OrderStatus string `json:"order_status" gorm:"default:'pending'"`

	// Carrier identifiers, filled in as fulfillment progresses
	ShiprocketOrderID string `json:"shiprocket_order_id"`
	ShipmentID        string `json:"shipment_id" gorm:"index"`
	AWBCode           string `json:"awb_code" gorm:"index"`
	CourierName       string `json:"courier_name"`

	PickupScheduledAt *time.Time `json:"pickup_scheduled_at"`
	ShippedAt         *time.Time `json:"shipped_at"`
	DeliveredAt       *time.Time `json:"delivered_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type OrderItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     uint      `json:"order_id" gorm:"not null;index"`
	ProductID   uint      `json:"product_id" gorm:"not null"`
	ProductName string    `json:"product_name" gorm:"not null"` // snapshot at purchase time
	Size        string    `json:"size" gorm:"not null"`
	Color       string    `json:"color" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"not null"`
	TotalPrice  float64   `json:"total_price" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodCOD      = "cod"

	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

const (
	OrderPending        = "pending"
	OrderConfirmed      = "confirmed"
	OrderProcessing     = "processing"
	OrderReadyToShip    = "ready_to_ship"
	OrderShipped        = "shipped"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
	OrderPaymentFailed  = "payment_failed"
	OrderReturned       = "returned"
	OrderLost           = "lost"
	OrderDamaged        = "damaged"
)
