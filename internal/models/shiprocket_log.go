package models

import "time"

// ShiprocketLog is an append-only audit row, one per carrier API call.
// The application only ever inserts; the admin console reads.
type ShiprocketLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OrderID      *uint     `json:"order_id" gorm:"index"`
	Action       string    `json:"action" gorm:"not null"` // login, create_order, assign_awb, ...
	RequestBody  string    `json:"request_body" gorm:"type:text"`
	ResponseBody string    `json:"response_body" gorm:"type:text"`
	Status       string    `json:"status" gorm:"not null"` // success, failed
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	LogStatusSuccess = "success"
	LogStatusFailed  = "failed"
)
