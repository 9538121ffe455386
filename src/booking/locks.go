package booking

import (
	"context"
	"errors"
	"salonbook/src/lib"
	"salonbook/src/models"
	"salonbook/src/models/scopes"
	"salonbook/src/scheduling"
	"salonbook/src/types"
	"slices"
	"time"

	"gorm.io/gorm"
)

const (
	lockPlaceholderName  = "Locked"
	lockPlaceholderEmail = "locked@temp"
	lockPlaceholderPhone = "000"
)

type LockRequest struct {
	WorkerID    uint
	Date        string
	Time        string
	Duration    int
	ClientToken string
}

type LockResult struct {
	ReservationID uint      `json:"reservationId"`
	LockToken     string    `json:"lockToken"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Reused        bool      `json:"reused"`
}

func sweep(tx *gorm.DB, now time.Time) error {
	return tx.Scopes(scopes.ExpiredLocks(now)).Delete(&models.Reservation{}).Error
}

// Sweep deletes every expired lock. There is no timer; it runs ahead of
// each lock attempt and slot query.
func (e *Engine) Sweep(ctx context.Context) error {
	if err := sweep(e.db.WithContext(ctx), e.now().UTC()); err != nil {
		return types.NewInternalError(err)
	}
	return nil
}

// CreateLock holds a slot for one client for the lock TTL. Repeating the same
// request extends the existing lock; picking a different slot or duration
// abandons the client's previous lock.
func (e *Engine) CreateLock(ctx context.Context, req LockRequest) (*LockResult, error) {
	if req.ClientToken == "" {
		return nil, types.NewValidationError("clientToken is required")
	}
	if req.Duration <= 0 {
		return nil, types.NewValidationError("duration must be positive")
	}
	if req.Duration > scheduling.MaxDuration {
		return nil, types.NewValidationError("duration must not exceed %d minutes", scheduling.MaxDuration)
	}
	if _, err := parseDate(req.Date); err != nil {
		return nil, err
	}
	start, err := scheduling.ParseClock(req.Time)
	if err != nil {
		return nil, types.NewValidationError("invalid time %q", req.Time)
	}
	if !e.inBookingWindow(ctx, req.Date) {
		return nil, types.NewValidationError("date %s is outside the booking window", req.Date)
	}

	var result *LockResult
	err = e.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := lockWorker(tx, req.WorkerID); err != nil {
			return err
		}
		now := e.now().UTC()
		if err := sweep(tx, now); err != nil {
			return err
		}
		expires := now.Add(e.lockTTL)

		var own []models.Reservation
		err := tx.Scopes(scopes.LocksOwnedBy(req.ClientToken), scopes.ForWorkerDate(req.WorkerID, req.Date)).
			Where("start_time = ?", req.Time).
			Limit(1).
			Find(&own).
			Error
		if err != nil {
			return err
		}
		// a lock with another length is replaced, not extended
		if len(own) > 0 && own[0].EndTime == start.Add(req.Duration).String() {
			if err := tx.Model(&own[0]).Update("lock_expires_at", expires).Error; err != nil {
				return err
			}
			result = &LockResult{ReservationID: own[0].ID, LockToken: req.ClientToken, ExpiresAt: expires, Reused: true}
			return nil
		}

		if err := tx.Scopes(scopes.LocksOwnedBy(req.ClientToken)).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}

		day, err := loadDay(tx, req.WorkerID, req.Date)
		if err != nil {
			return err
		}
		if !slices.Contains(day.free(req.Duration, e.granularity, ""), start) {
			return types.ErrSlotUnavailable
		}

		token := req.ClientToken
		lock := models.Reservation{
			WorkerID:      req.WorkerID,
			Date:          req.Date,
			StartTime:     start.String(),
			EndTime:       start.Add(req.Duration).String(),
			CustomerName:  lockPlaceholderName,
			CustomerEmail: lockPlaceholderEmail,
			CustomerPhone: lockPlaceholderPhone,
			Status:        types.RESERVATION_LOCKED,
			LockToken:     &token,
			LockExpiresAt: &expires,
			TotalDuration: req.Duration,
		}
		if err := tx.Create(&lock).Error; err != nil {
			return err
		}
		result = &LockResult{ReservationID: lock.ID, LockToken: token, ExpiresAt: expires}
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrSlotUnavailable) {
			lib.IncLockOutcome("conflict")
		}
		return nil, asAppError(err)
	}
	if result.Reused {
		lib.IncLockOutcome("reused")
	} else {
		lib.IncLockOutcome("created")
	}
	return result, nil
}

// Release deletes the client's locks, or the lock with the given id when no
// token is supplied. Missing locks are not an error.
func (e *Engine) Release(ctx context.Context, reservationID uint, clientToken string) error {
	q := e.db.WithContext(ctx)
	switch {
	case clientToken != "":
		q = q.Scopes(scopes.LocksOwnedBy(clientToken))
	case reservationID != 0:
		q = q.Scopes(scopes.WithID(reservationID), scopes.Locks)
	default:
		return types.NewValidationError("reservationId or clientToken is required")
	}
	if err := q.Delete(&models.Reservation{}).Error; err != nil {
		return types.NewInternalError(err)
	}
	lib.IncLockOutcome("released")
	return nil
}

// asAppError leaves typed errors alone and wraps storage failures.
func asAppError(err error) error {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return types.NewInternalError(err)
}
