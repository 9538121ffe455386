package models

import (
	"salonbook/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Worker struct {
	ID                uint    `gorm:"primarykey" json:"id"`
	Name              string  `gorm:"not null" json:"name"`
	Slug              string  `gorm:"uniqueIndex" json:"slug"`
	Email             string  `json:"email,omitempty"`
	NotificationEmail *string `json:"-"`
	Role              string  `json:"role,omitempty"`
	IsActive          bool    `gorm:"not null" json:"isActive"`

	Services []Service `json:"services,omitempty"`

	types.Timestamps
}

func (w *Worker) BeforeCreate(tx *gorm.DB) error {
	if w.Slug == "" {
		w.Slug = slug.Make(w.Name)
	}
	return nil
}

// Inbox is where approval requests for this worker go.
func (w *Worker) Inbox() string {
	if w.NotificationEmail != nil && *w.NotificationEmail != "" {
		return *w.NotificationEmail
	}
	return w.Email
}
