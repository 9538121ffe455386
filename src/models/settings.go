package models

import "time"

const (
	SETTING_BOOKING_WINDOW = "booking_window"
	SETTING_DATA_RETENTION = "data_retention_days"
)

type Setting struct {
	Key         string    `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value       string    `gorm:"not null" json:"value"`
	Description *string   `json:"description,omitempty"`
	Category    string    `gorm:"default:'general'" json:"category,omitempty"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
