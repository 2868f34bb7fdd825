package models

import "time"

// StoreSetting holds tunable checkout amounts (COD fee, flat shipping,
// free-shipping threshold) so they can be changed without a deploy.
type StoreSetting struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SettingName string    `json:"setting_name" gorm:"unique;not null"`
	Amount      float64   `json:"amount"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	SettingCODCharge             = "cod_charge"
	SettingShippingCharge        = "shipping_charge"
	SettingFreeShippingThreshold = "free_shipping_threshold"
)
