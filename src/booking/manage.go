package booking

import (
	"context"
	"errors"
	"salonbook/src/models"
	"salonbook/src/models/scopes"
	"salonbook/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ACTION_APPROVE = "approve"
	ACTION_REJECT  = "reject"
	ACTION_CANCEL  = "cancel"
)

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Items.Service").Preload("Worker")
}

func (e *Engine) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := e.db.WithContext(ctx).Scopes(withDetails, scopes.WithID(id)).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewNotFoundError("reservation %d not found", id)
	}
	if err != nil {
		return nil, types.NewInternalError(err)
	}
	return &r, nil
}

func (e *Engine) GetByToken(ctx context.Context, token string) (*models.Reservation, error) {
	var r models.Reservation
	err := e.db.WithContext(ctx).Scopes(withDetails).Where("management_token = ?", token).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewNotFoundError("reservation not found")
	}
	if err != nil {
		return nil, types.NewInternalError(err)
	}
	return &r, nil
}

// List returns reservations and blocks in the date range. Locks are left out.
func (e *Engine) List(ctx context.Context, start, end string, workerID uint) ([]models.Reservation, error) {
	q := e.db.WithContext(ctx).
		Scopes(withDetails, scopes.DateBetween(start, end)).
		Where("status <> ?", types.RESERVATION_LOCKED)
	if workerID != 0 {
		q = q.Scopes(scopes.ForWorker(workerID))
	}
	rows := []models.Reservation{}
	if err := q.Order("date asc").Order("start_time asc").Find(&rows).Error; err != nil {
		return nil, types.NewInternalError(err)
	}
	return rows, nil
}

// UpdateStatus applies an administrative status change.
func (e *Engine) UpdateStatus(ctx context.Context, id uint, next types.ReservationStatus, reason string) (*models.Reservation, error) {
	return e.transition(ctx, scopes.WithID(id), func(current types.ReservationStatus) error {
		if !current.CanTransitionTo(next) {
			return types.NewConflictError("cannot change status from %s to %s", current, next)
		}
		return nil
	}, next, reason)
}

// Manage applies an action coming from an emailed link. Approve and reject
// are for pending reservations only.
func (e *Engine) Manage(ctx context.Context, token, action, reason string) (*models.Reservation, error) {
	var next types.ReservationStatus
	switch action {
	case ACTION_APPROVE:
		next = types.RESERVATION_CONFIRMED
	case ACTION_REJECT, ACTION_CANCEL:
		next = types.RESERVATION_CANCELLED
	default:
		return nil, types.NewValidationError("unknown action %q", action)
	}
	byToken := func(db *gorm.DB) *gorm.DB {
		return db.Where("management_token = ?", token)
	}
	return e.transition(ctx, byToken, func(current types.ReservationStatus) error {
		if action != ACTION_CANCEL && current != types.RESERVATION_PENDING {
			return types.NewConflictError("reservation is already %s", current)
		}
		if !current.CanTransitionTo(next) {
			return types.NewConflictError("reservation is already %s", current)
		}
		return nil
	}, next, reason)
}

func (e *Engine) transition(ctx context.Context, find func(*gorm.DB) *gorm.DB, allowed func(types.ReservationStatus) error, next types.ReservationStatus, reason string) (*models.Reservation, error) {
	var id uint
	var previous types.ReservationStatus
	err := e.transaction(ctx, func(tx *gorm.DB) error {
		var r models.Reservation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Scopes(find).Take(&r).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NewNotFoundError("reservation not found")
		}
		if err != nil {
			return err
		}
		if err := allowed(r.Status); err != nil {
			return err
		}
		updates := map[string]any{"status": next}
		if next == types.RESERVATION_CANCELLED && reason != "" {
			updates["cancellation_reason"] = reason
		}
		id, previous = r.ID, r.Status
		return tx.Model(&r).Updates(updates).Error
	})
	if err != nil {
		return nil, asAppError(err)
	}

	r, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if previous != types.RESERVATION_BLOCKED && next != types.RESERVATION_COMPLETED {
		e.notifyAsync(ctx, r, e.notifier.ReservationDecided)
	}
	return r, nil
}
