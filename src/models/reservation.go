package models

import (
	"salonbook/src/scheduling"
	"salonbook/src/types"
	"time"

	"github.com/shopspring/decimal"
)

// Reservation covers customer bookings, temporary locks and admin blocks.
// Locks carry placeholder customer fields.
type Reservation struct {
	ID                 uint                    `gorm:"primarykey" json:"id"`
	WorkerID           uint                    `gorm:"index:idx_reservations_worker_date;not null" json:"workerId"`
	Date               string                  `gorm:"index:idx_reservations_worker_date;type:varchar(10);not null" json:"date"`
	StartTime          string                  `gorm:"type:varchar(5);not null" json:"startTime"`
	EndTime            string                  `gorm:"type:varchar(5);not null" json:"endTime"`
	CustomerName       string                  `json:"customerName"`
	CustomerEmail      string                  `json:"customerEmail"`
	CustomerPhone      string                  `json:"customerPhone"`
	Status             types.ReservationStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	LockToken          *string                 `gorm:"index" json:"-"`
	LockExpiresAt      *time.Time              `json:"lockExpiresAt,omitempty"`
	TotalDuration      int                     `json:"totalDuration"`
	TotalPrice         decimal.Decimal         `gorm:"type:numeric(10,2);default:0" json:"totalPrice"`
	ManagementToken    *string                 `gorm:"uniqueIndex" json:"-"`
	Note               *string                 `json:"note,omitempty"`
	TermsAccepted      bool                    `json:"termsAccepted"`
	CancellationReason *string                 `json:"cancellationReason,omitempty"`

	Items  []ReservationItem `json:"items,omitempty"`
	Worker *Worker           `json:"worker,omitempty"`

	types.Timestamps
}

// Span returns the occupied interval. Rows are written by this service so a
// malformed time is reported rather than silently skipped.
func (r *Reservation) Span() (scheduling.Interval, error) {
	return scheduling.ParseInterval(r.StartTime, r.EndTime)
}

func (r *Reservation) Occupant() (scheduling.Occupant, error) {
	span, err := r.Span()
	if err != nil {
		return scheduling.Occupant{}, err
	}
	o := scheduling.Occupant{Span: span, Lock: r.Status.IsLock()}
	if r.LockToken != nil {
		o.LockToken = *r.LockToken
	}
	return o, nil
}

type ReservationItem struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	ReservationID  uint            `gorm:"index;not null" json:"reservationId"`
	ServiceID      uint            `gorm:"not null" json:"serviceId"`
	Quantity       int             `gorm:"not null;default:1" json:"quantity"`
	PriceAtTime    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"priceAtTime"`
	DurationAtTime int             `gorm:"not null" json:"durationAtTime"`

	Service *Service `json:"service,omitempty"`
}
