package booking

import (
	"context"
	"salonbook/src/config"
	"salonbook/src/lib"
	"salonbook/src/models"
	"salonbook/src/models/scopes"
	"salonbook/src/scheduling"
	"salonbook/src/types"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Customer struct {
	Name  string
	Email string
	Phone string
}

type ItemRequest struct {
	ServiceID uint
	Quantity  int
}

type CommitRequest struct {
	WorkerID      uint
	Date          string
	Time          string
	Customer      Customer
	Note          string
	TermsAccepted bool
	Items         []ItemRequest
	ClientToken   string
}

func (r *CommitRequest) validate() (scheduling.Clock, error) {
	if strings.TrimSpace(r.Customer.Name) == "" || strings.TrimSpace(r.Customer.Email) == "" || strings.TrimSpace(r.Customer.Phone) == "" {
		return 0, types.NewValidationError("customer name, email and phone are required")
	}
	if !r.TermsAccepted {
		return 0, types.NewValidationError("terms must be accepted")
	}
	if len(r.Items) == 0 {
		return 0, types.NewValidationError("at least one service is required")
	}
	for _, it := range r.Items {
		if it.Quantity < 1 {
			return 0, types.NewValidationError("quantity must be at least 1")
		}
		if it.Quantity > config.MAX_ITEM_QUANTITY {
			return 0, types.NewValidationError("quantity must not exceed %d", config.MAX_ITEM_QUANTITY)
		}
	}
	if _, err := parseDate(r.Date); err != nil {
		return 0, err
	}
	start, err := scheduling.ParseClock(r.Time)
	if err != nil {
		return 0, types.NewValidationError("invalid time %q", r.Time)
	}
	return start, nil
}

// priceItems snapshots price and duration of each requested service. Every
// service must be active and offered by the worker.
func priceItems(tx *gorm.DB, workerID uint, reqs []ItemRequest) ([]models.ReservationItem, int, decimal.Decimal, error) {
	ids := make([]uint, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ServiceID
	}
	var services []models.Service
	err := tx.Scopes(scopes.WithIDs(ids...), scopes.ForWorker(workerID), scopes.WithActiveFlag).
		Find(&services).
		Error
	if err != nil {
		return nil, 0, decimal.Zero, types.NewInternalError(err)
	}
	byID := make(map[uint]models.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	items := make([]models.ReservationItem, 0, len(reqs))
	duration := 0
	price := decimal.Zero
	for _, r := range reqs {
		svc, ok := byID[r.ServiceID]
		if !ok {
			return nil, 0, decimal.Zero, types.NewNotFoundError("service %d not found", r.ServiceID)
		}
		items = append(items, models.ReservationItem{
			ServiceID:      svc.ID,
			Quantity:       r.Quantity,
			PriceAtTime:    svc.Price,
			DurationAtTime: svc.Duration,
		})
		if svc.Duration > scheduling.MaxDuration {
			return nil, 0, decimal.Zero, types.NewValidationError("reservation must fit in one day")
		}
		duration += svc.Duration * r.Quantity
		if duration > scheduling.MaxDuration {
			return nil, 0, decimal.Zero, types.NewValidationError("reservation must fit in one day")
		}
		price = price.Add(svc.Price.Mul(decimal.NewFromInt(int64(r.Quantity))))
	}
	if duration <= 0 {
		return nil, 0, decimal.Zero, types.NewValidationError("total duration must be positive")
	}
	return items, duration, price, nil
}

// Commit writes a pending reservation. The caller's own locks are dropped in
// the same transaction so they never block the commit; on failure the
// rollback keeps them.
func (e *Engine) Commit(ctx context.Context, req CommitRequest) (*models.Reservation, error) {
	start, err := req.validate()
	if err != nil {
		return nil, err
	}
	if !e.inBookingWindow(ctx, req.Date) {
		return nil, types.NewValidationError("date %s is outside the booking window", req.Date)
	}
	e.purgeQuietly(ctx)

	var reservation models.Reservation
	err = e.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := lockWorker(tx, req.WorkerID); err != nil {
			return err
		}
		items, duration, price, err := priceItems(tx, req.WorkerID, req.Items)
		if err != nil {
			return err
		}
		if err := sweep(tx, e.now().UTC()); err != nil {
			return err
		}
		if req.ClientToken != "" {
			if err := tx.Scopes(scopes.LocksOwnedBy(req.ClientToken)).Delete(&models.Reservation{}).Error; err != nil {
				return err
			}
		}

		day, err := loadDay(tx, req.WorkerID, req.Date)
		if err != nil {
			return err
		}
		if !slices.Contains(day.free(duration, e.granularity, ""), start) {
			return types.ErrSlotUnavailable
		}

		token := uuid.NewString()
		reservation = models.Reservation{
			WorkerID:        req.WorkerID,
			Date:            req.Date,
			StartTime:       start.String(),
			EndTime:         start.Add(duration).String(),
			CustomerName:    strings.TrimSpace(req.Customer.Name),
			CustomerEmail:   strings.TrimSpace(req.Customer.Email),
			CustomerPhone:   strings.TrimSpace(req.Customer.Phone),
			Status:          types.RESERVATION_PENDING,
			TotalDuration:   duration,
			TotalPrice:      price,
			ManagementToken: &token,
			TermsAccepted:   true,
			Items:           items,
		}
		if req.Note != "" {
			note := req.Note
			reservation.Note = &note
		}
		return tx.Create(&reservation).Error
	})
	if err != nil {
		return nil, asAppError(err)
	}

	lib.IncReservationCreated(string(types.RESERVATION_PENDING))
	zap.S().Infof("Reservation %d created for worker %d on %s %s", reservation.ID, reservation.WorkerID, reservation.Date, reservation.StartTime)
	full, err := e.Get(ctx, reservation.ID)
	if err != nil {
		zap.S().Errorf("Error loading reservation %d after commit: %s", reservation.ID, err.Error())
		return &reservation, nil
	}
	e.notifyAsync(ctx, full, e.notifier.ReservationCreated)
	return full, nil
}
