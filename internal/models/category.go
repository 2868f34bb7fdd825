package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"not null"`
	Slug         string         `json:"slug" gorm:"unique;not null"`
	Gender       string         `json:"gender" gorm:"default:'unisex'"` // men, women, unisex, kids
	DisplayOrder int            `json:"display_order" gorm:"default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
