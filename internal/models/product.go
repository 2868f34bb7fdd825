package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID             uint     `json:"id" gorm:"primaryKey"`
	Name           string   `json:"name" gorm:"not null"`
	Slug           string   `json:"slug" gorm:"unique;not null"`
	Description    string   `json:"description"`
	CategoryID     uint     `json:"category_id" gorm:"not null;index"`
	Category       *Category `json:"category,omitempty"`
	Price          float64  `json:"price" gorm:"not null"`
	CompareAtPrice float64  `json:"compare_at_price"`
	Stock          int      `json:"stock" gorm:"default:0"`

	// Parcel dimensions feed the carrier's rate calculator.
	WeightKg  float64 `json:"weight_kg" gorm:"default:0.5"`
	LengthCm  float64 `json:"length_cm" gorm:"default:30"`
	BreadthCm float64 `json:"breadth_cm" gorm:"default:25"`
	HeightCm  float64 `json:"height_cm" gorm:"default:3"`

	IsActive  bool             `json:"is_active" gorm:"default:true"`
	Variants  []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	Images    []ProductImage   `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	SizeChart *SizeChart       `json:"size_chart,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `json:"deleted_at" gorm:"index"`
}

type ProductVariant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	SKU       string    `json:"sku" gorm:"unique"`
	Size      string    `json:"size" gorm:"not null"`
	Color     string    `json:"color" gorm:"not null"`
	Stock     int       `json:"stock" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	URL       string    `json:"url" gorm:"not null"`
	FileID    string    `json:"file_id"` // CDN file handle, needed for deletes
	Position  int       `json:"position" gorm:"default:0"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

type SizeChart struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"uniqueIndex;not null"`
	Rows      string    `json:"rows" gorm:"type:json"` // [{"label":"S","chest":38,...},...]
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
