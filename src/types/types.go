package types

import (
	"time"
)

// Timestamps carries no DeletedAt: reservation rows are hard-deleted so the
// active-slot unique index only ever sees live rows.
type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
}

type ReservationStatus string

const (
	RESERVATION_LOCKED    ReservationStatus = "locked"
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_COMPLETED ReservationStatus = "completed"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
	RESERVATION_BLOCKED   ReservationStatus = "blocked"
)

func ParseReservationStatus(s string) (ReservationStatus, error) {
	st := ReservationStatus(s)
	switch st {
	case RESERVATION_LOCKED, RESERVATION_PENDING, RESERVATION_CONFIRMED,
		RESERVATION_COMPLETED, RESERVATION_CANCELLED, RESERVATION_BLOCKED:
		return st, nil
	}
	return "", NewValidationError("unknown reservation status %q", s)
}

// Occupies reports whether a reservation in this status takes its interval
// away from other customers.
func (s ReservationStatus) Occupies() bool {
	switch s {
	case RESERVATION_LOCKED, RESERVATION_PENDING, RESERVATION_CONFIRMED,
		RESERVATION_COMPLETED, RESERVATION_BLOCKED:
		return true
	case RESERVATION_CANCELLED:
		return false
	}
	return false
}

func (s ReservationStatus) IsLock() bool {
	switch s {
	case RESERVATION_LOCKED:
		return true
	case RESERVATION_PENDING, RESERVATION_CONFIRMED, RESERVATION_COMPLETED,
		RESERVATION_CANCELLED, RESERVATION_BLOCKED:
		return false
	}
	return false
}

// CanTransitionTo lists the manual status changes. Locks never transition,
// they are deleted.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case RESERVATION_PENDING:
		return next == RESERVATION_CONFIRMED || next == RESERVATION_CANCELLED
	case RESERVATION_CONFIRMED:
		return next == RESERVATION_COMPLETED || next == RESERVATION_CANCELLED
	case RESERVATION_BLOCKED:
		return next == RESERVATION_CANCELLED
	case RESERVATION_LOCKED, RESERVATION_COMPLETED, RESERVATION_CANCELLED:
		return false
	}
	return false
}

// ActiveReservationStatuses returns every status that occupies time.
func ActiveReservationStatuses() []ReservationStatus {
	return []ReservationStatus{
		RESERVATION_LOCKED,
		RESERVATION_PENDING,
		RESERVATION_CONFIRMED,
		RESERVATION_COMPLETED,
		RESERVATION_BLOCKED,
	}
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type TokenRequestParams struct {
	Token string `uri:"token" binding:"required,uuid"`
}

type AvailabilityQuery struct {
	Start         string `form:"start" binding:"required,calendardate"`
	End           string `form:"end" binding:"required,calendardate"`
	WorkerID      uint   `form:"workerId" binding:"required"`
	TotalDuration int    `form:"totalDuration" binding:"required,gt=0,max=1440"`
}

type SlotsQuery struct {
	Date          string `form:"date" binding:"required,calendardate"`
	WorkerID      uint   `form:"workerId" binding:"required"`
	TotalDuration int    `form:"totalDuration" binding:"required,gt=0,max=1440"`
	Detailed      bool   `form:"detailed"`
	ClientToken   string `form:"clientToken"`
}

type ReservationsRangeQuery struct {
	Start    string `form:"start" binding:"omitempty,calendardate"`
	End      string `form:"end" binding:"omitempty,calendardate"`
	WorkerID uint   `form:"workerId"`
}

type LockRequestBody struct {
	WorkerID    uint   `json:"workerId" binding:"required"`
	Date        string `json:"date" binding:"required,calendardate"`
	Time        string `json:"time" binding:"required,clocktime"`
	Duration    int    `json:"duration" binding:"required,gt=0,max=1440"`
	ClientToken string `json:"clientToken" binding:"required"`
}

type UnlockRequestBody struct {
	ReservationID uint   `json:"reservationId" binding:"required_without=ClientToken"`
	ClientToken   string `json:"clientToken" binding:"required_without=ReservationID"`
}

type ReservationItemInput struct {
	ServiceID uint `json:"serviceId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=20"`
}

type CreateReservationRequestBody struct {
	WorkerID      uint                   `json:"workerId" binding:"required"`
	Date          string                 `json:"date" binding:"required,calendardate"`
	Time          string                 `json:"time" binding:"required,clocktime"`
	CustomerName  string                 `json:"customerName" binding:"required"`
	CustomerEmail string                 `json:"customerEmail" binding:"required,email"`
	CustomerPhone string                 `json:"customerPhone" binding:"required"`
	Note          string                 `json:"note,omitempty"`
	TermsAccepted bool                   `json:"termsAccepted" binding:"required"`
	Items         []ReservationItemInput `json:"items" binding:"required,min=1,dive"`
	ClientToken   string                 `json:"clientToken,omitempty"`
	Honeypot      string                 `json:"honeypot,omitempty"`
}

type AdminBlockRequestBody struct {
	WorkerID  uint   `json:"workerId" binding:"required"`
	Date      string `json:"date" binding:"required,calendardate"`
	StartTime string `json:"startTime" binding:"required,clocktime"`
	EndTime   string `json:"endTime" binding:"required,clocktime,clockafter=StartTime"`
	Reason    string `json:"reason,omitempty"`
}

type UpdateReservationRequestBody struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed cancelled"`
	Reason string `json:"reason,omitempty"`
}

type ManageReservationRequestBody struct {
	Action string `json:"action" binding:"required,oneof=approve reject cancel"`
	Reason string `json:"reason,omitempty"`
}

type WorkingDayInput struct {
	DayOfWeek  *int    `json:"dayOfWeek" binding:"required,min=0,max=6"`
	StartTime  *string `json:"startTime,omitempty" binding:"omitempty,clocktime"`
	EndTime    *string `json:"endTime,omitempty" binding:"omitempty,clocktime"`
	BreakStart *string `json:"breakStart,omitempty" binding:"omitempty,clocktime"`
	BreakEnd   *string `json:"breakEnd,omitempty" binding:"omitempty,clocktime"`
	IsDayOff   bool    `json:"isDayOff"`
}

type UpsertWorkingHoursRequestBody struct {
	WorkerID uint              `json:"workerId" binding:"required"`
	Days     []WorkingDayInput `json:"days" binding:"required,min=1,max=7,dive"`
}

type CreateOverrideRequestBody struct {
	WorkerID   uint    `json:"workerId" binding:"required"`
	Date       string  `json:"date" binding:"required,calendardate"`
	StartTime  *string `json:"startTime,omitempty" binding:"omitempty,clocktime"`
	EndTime    *string `json:"endTime,omitempty" binding:"omitempty,clocktime"`
	BreakStart *string `json:"breakStart,omitempty" binding:"omitempty,clocktime"`
	BreakEnd   *string `json:"breakEnd,omitempty" binding:"omitempty,clocktime"`
	IsDayOff   bool    `json:"isDayOff"`
	Note       string  `json:"note,omitempty"`
}

type OverridesQuery struct {
	WorkerID uint `form:"workerId" binding:"required"`
}

type UpdateSettingRequestBody struct {
	Value int `json:"value" binding:"required,min=1"`
}
