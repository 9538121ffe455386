package models

import (
	"salonbook/src/types"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	WorkerID    uint            `gorm:"index" json:"workerId"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Duration    int             `gorm:"not null" json:"duration"`
	IsActive    bool            `gorm:"not null" json:"isActive"`
	SortOrder   int             `gorm:"default:0" json:"sortOrder"`

	types.Timestamps
}
