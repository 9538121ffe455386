package booking

import (
	"context"
	"salonbook/src/config"
	"salonbook/src/lib"
	"salonbook/src/models"
	"salonbook/src/models/scopes"
	"salonbook/src/scheduling"
	"salonbook/src/types"

	"gorm.io/gorm"
)

type SlotQuery struct {
	WorkerID      uint
	Date          string
	TotalDuration int
	ClientToken   string
}

func (q *SlotQuery) validate() error {
	if q.WorkerID == 0 {
		return types.NewValidationError("workerId is required")
	}
	if q.TotalDuration <= 0 {
		return types.NewValidationError("totalDuration must be positive")
	}
	if q.TotalDuration > scheduling.MaxDuration {
		return types.NewValidationError("totalDuration must not exceed %d minutes", scheduling.MaxDuration)
	}
	_, err := parseDate(q.Date)
	return err
}

func resolveWindow(tx *gorm.DB, workerID uint, date string) (scheduling.Window, bool, error) {
	d, err := parseDate(date)
	if err != nil {
		return scheduling.Window{}, false, err
	}

	var overrides []models.WorkingHoursOverride
	if err := tx.Scopes(scopes.ForWorkerDate(workerID, date)).Limit(1).Find(&overrides).Error; err != nil {
		return scheduling.Window{}, false, types.NewInternalError(err)
	}
	var templates []models.WorkingHoursTemplate
	err = tx.Scopes(scopes.ForWorker(workerID)).
		Where("day_of_week = ?", int(d.Weekday())).
		Limit(1).
		Find(&templates).
		Error
	if err != nil {
		return scheduling.Window{}, false, types.NewInternalError(err)
	}

	var override *scheduling.Hours
	if len(overrides) > 0 {
		override = overrides[0].Hours()
	}
	var template *scheduling.Hours
	if len(templates) > 0 {
		template = templates[0].Hours()
	}
	w, open, err := scheduling.Resolve(override, template)
	if err != nil {
		return scheduling.Window{}, false, types.NewInternalError(err)
	}
	return w, open, nil
}

func occupants(tx *gorm.DB, workerID uint, date string) ([]scheduling.Occupant, error) {
	var rows []models.Reservation
	err := tx.Select("id", "start_time", "end_time", "status", "lock_token").
		Scopes(scopes.ForWorkerDate(workerID, date), scopes.Occupying).
		Find(&rows).
		Error
	if err != nil {
		return nil, types.NewInternalError(err)
	}
	out := make([]scheduling.Occupant, 0, len(rows))
	for i := range rows {
		o, err := rows[i].Occupant()
		if err != nil {
			return nil, types.NewInternalError(err)
		}
		out = append(out, o)
	}
	return out, nil
}

// dayState is everything the slot views need for one worker day.
type dayState struct {
	open      bool
	window    scheduling.Window
	occupants []scheduling.Occupant
}

func loadDay(tx *gorm.DB, workerID uint, date string) (*dayState, error) {
	w, open, err := resolveWindow(tx, workerID, date)
	if err != nil {
		return nil, err
	}
	if !open {
		return &dayState{}, nil
	}
	occ, err := occupants(tx, workerID, date)
	if err != nil {
		return nil, err
	}
	return &dayState{open: true, window: w, occupants: occ}, nil
}

func (d *dayState) free(duration, granularity int, ignoreToken string) []scheduling.Clock {
	if !d.open {
		return []scheduling.Clock{}
	}
	return scheduling.AvailableSlots(d.window, duration, granularity, scheduling.WithoutOwnLocks(d.occupants, ignoreToken))
}

// Slots lists the bookable start times of a worker day.
func (e *Engine) Slots(ctx context.Context, q SlotQuery) ([]string, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	lib.IncSlotQuery("simple")
	e.purgeQuietly(ctx)
	if !e.inBookingWindow(ctx, q.Date) {
		return []string{}, nil
	}
	if err := e.Sweep(ctx); err != nil {
		return nil, err
	}

	day, err := loadDay(e.db.WithContext(ctx), q.WorkerID, q.Date)
	if err != nil {
		return nil, err
	}
	return scheduling.FormatClocks(day.free(q.TotalDuration, e.granularity, "")), nil
}

// DetailedSlots is Slots with lock annotations. The caller's own lock does
// not hide its slot.
func (e *Engine) DetailedSlots(ctx context.Context, q SlotQuery) ([]scheduling.SlotView, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	lib.IncSlotQuery("detailed")
	e.purgeQuietly(ctx)
	if !e.inBookingWindow(ctx, q.Date) {
		return []scheduling.SlotView{}, nil
	}
	if err := e.Sweep(ctx); err != nil {
		return nil, err
	}

	day, err := loadDay(e.db.WithContext(ctx), q.WorkerID, q.Date)
	if err != nil {
		return nil, err
	}
	if !day.open {
		return []scheduling.SlotView{}, nil
	}
	free := day.free(q.TotalDuration, e.granularity, q.ClientToken)
	return scheduling.Annotate(free, day.occupants, q.ClientToken), nil
}

// AvailableDates lists the dates in [start, end], clipped to the booking
// window, that have at least one free slot for the duration.
func (e *Engine) AvailableDates(ctx context.Context, workerID uint, start, end string, duration int) ([]string, error) {
	from, err := parseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(end)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, types.NewValidationError("totalDuration must be positive")
	}
	if duration > scheduling.MaxDuration {
		return nil, types.NewValidationError("totalDuration must not exceed %d minutes", scheduling.MaxDuration)
	}
	if to.Before(from) {
		return nil, types.NewValidationError("end must not be before start")
	}
	lib.IncSlotQuery("dates")

	today, err := parseDate(e.today())
	if err != nil {
		return nil, types.NewInternalError(err)
	}
	last := today.AddDate(0, 0, e.settings.BookingWindowDays(ctx))
	if from.Before(today) {
		from = today
	}
	if to.After(last) {
		to = last
	}

	dates := []string{}
	if to.Before(from) {
		return dates, nil
	}
	if err := e.Sweep(ctx); err != nil {
		return nil, err
	}
	db := e.db.WithContext(ctx)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(config.DATE_LAYOUT)
		day, err := loadDay(db, workerID, date)
		if err != nil {
			return nil, err
		}
		if len(day.free(duration, e.granularity, "")) > 0 {
			dates = append(dates, date)
		}
	}
	return dates, nil
}
