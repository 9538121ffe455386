package booking

import (
	"context"
	"errors"
	"salonbook/src/config"
	"salonbook/src/models"
	"salonbook/src/models/scopes"
	"salonbook/src/settings"
	"salonbook/src/types"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Engine owns every read and write of reservation rows. It keeps no state
// between calls; exclusivity comes from the database.
type Engine struct {
	db          *gorm.DB
	settings    settings.Provider
	notifier    Notifier
	now         func() time.Time
	lockTTL     time.Duration
	granularity int
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func NewEngine(db *gorm.DB, sp settings.Provider, opts ...Option) *Engine {
	e := &Engine{
		db:          db,
		settings:    sp,
		notifier:    NopNotifier{},
		now:         time.Now,
		lockTTL:     config.LOCK_TTL,
		granularity: config.SLOT_GRANULARITY,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := e.db.WithContext(ctx).Transaction(fn)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return types.ErrSlotUnavailable
	}
	return err
}

// lockWorker serializes writers per worker for the rest of the transaction.
func lockWorker(tx *gorm.DB, workerID uint) (*models.Worker, error) {
	var worker models.Worker
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(scopes.WithID(workerID), scopes.WithActiveFlag).
		Take(&worker).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewNotFoundError("worker %d not found", workerID)
	}
	if err != nil {
		return nil, types.NewInternalError(err)
	}
	return &worker, nil
}

func (e *Engine) today() string {
	return e.now().Format(config.DATE_LAYOUT)
}

// inBookingWindow reports whether today <= date <= today + window days.
func (e *Engine) inBookingWindow(ctx context.Context, date string) bool {
	today := e.now()
	last := today.AddDate(0, 0, e.settings.BookingWindowDays(ctx)).Format(config.DATE_LAYOUT)
	return date >= today.Format(config.DATE_LAYOUT) && date <= last
}

func (e *Engine) purgeQuietly(ctx context.Context) {
	if _, err := e.Purge(ctx); err != nil {
		zap.S().Errorf("Error purging old reservations: %s", err.Error())
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(config.DATE_LAYOUT, s, time.Local)
	if err != nil || d.Format(config.DATE_LAYOUT) != s {
		return time.Time{}, types.NewValidationError("invalid date %q", s)
	}
	return d, nil
}
