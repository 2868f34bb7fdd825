package models

import (
	"time"

	"gorm.io/gorm"
)

type CartItem struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	ProductID uint           `json:"product_id" gorm:"not null"`
	Product   *Product       `json:"product,omitempty"`
	Size      string         `json:"size" gorm:"not null"`
	Color     string         `json:"color" gorm:"not null"`
	Quantity  int            `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
