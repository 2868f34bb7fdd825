package models

import (
	"time"

	"gorm.io/gorm"
)

type ExchangeRequest struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	OrderID     uint `json:"order_id" gorm:"not null;index"`
	UserID      uint `json:"user_id" gorm:"not null;index"`
	OrderItemID uint `json:"order_item_id" gorm:"not null"`

	// Same product, same quantity; only size/color may change.
	OriginalSize   string `json:"original_size" gorm:"not null"`
	OriginalColor  string `json:"original_color" gorm:"not null"`
	RequestedSize  string `json:"requested_size" gorm:"not null"`
	RequestedColor string `json:"requested_color" gorm:"not null"`

	Reason    string `json:"reason"`
	Status    string `json:"status" gorm:"default:'pending'"`
	AdminNote string `json:"admin_note"`

	ApprovedAt  *time.Time `json:"approved_at"`
	RejectedAt  *time.Time `json:"rejected_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

const (
	ExchangePending   = "pending"
	ExchangeApproved  = "approved"
	ExchangeRejected  = "rejected"
	ExchangeShipped   = "shipped"
	ExchangeCompleted = "completed"
	ExchangeCancelled = "cancelled"
)

// IsActiveExchangeStatus reports whether a request still occupies the
// one-active-exchange-per-order slot.
func IsActiveExchangeStatus(status string) bool {
	switch status {
	case ExchangePending, ExchangeApproved, ExchangeShipped:
		return true
	}
	return false
}
