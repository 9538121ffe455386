package booking

import (
	"context"
	"salonbook/src/lib"
	"salonbook/src/models"
	"salonbook/src/scheduling"
	"salonbook/src/types"

	"gorm.io/gorm"
)

type BlockRequest struct {
	WorkerID  uint
	Date      string
	StartTime string
	EndTime   string
	Reason    string
}

// Block takes [StartTime, EndTime) away from customers. Working hours and
// the booking window do not apply; existing reservations do.
func (e *Engine) Block(ctx context.Context, req BlockRequest) (*models.Reservation, error) {
	if _, err := parseDate(req.Date); err != nil {
		return nil, err
	}
	span, err := scheduling.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, types.NewValidationError("invalid block range: %s", err.Error())
	}

	var block models.Reservation
	err = e.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := lockWorker(tx, req.WorkerID); err != nil {
			return err
		}
		if err := sweep(tx, e.now().UTC()); err != nil {
			return err
		}
		occ, err := occupants(tx, req.WorkerID, req.Date)
		if err != nil {
			return err
		}
		if scheduling.Conflicts(span.Start, span.Minutes(), occ) {
			return types.NewConflictError("%s %s overlaps an existing reservation", req.Date, span.String())
		}

		block = models.Reservation{
			WorkerID:      req.WorkerID,
			Date:          req.Date,
			StartTime:     span.Start.String(),
			EndTime:       span.End.String(),
			Status:        types.RESERVATION_BLOCKED,
			TotalDuration: span.Minutes(),
		}
		if req.Reason != "" {
			reason := req.Reason
			block.Note = &reason
		}
		return tx.Create(&block).Error
	})
	if err != nil {
		return nil, asAppError(err)
	}
	lib.IncReservationCreated(string(types.RESERVATION_BLOCKED))
	return &block, nil
}
