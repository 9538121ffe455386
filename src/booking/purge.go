package booking

import (
	"context"
	"salonbook/src/config"
	"salonbook/src/lib"
	"salonbook/src/models"
	"salonbook/src/models/scopes"
	"salonbook/src/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Purge deletes reservations, with their items, dated before
// today - max(1, retention days). Returns the number of reservations removed.
func (e *Engine) Purge(ctx context.Context) (int64, error) {
	days := e.settings.RetentionDays(ctx)
	if days < 1 {
		days = 1
	}
	cutoff := e.now().AddDate(0, 0, -days).Format(config.DATE_LAYOUT)

	var purged int64
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old := tx.Model(&models.Reservation{}).Select("id").Scopes(scopes.DateBefore(cutoff))
		if err := tx.Where("reservation_id IN (?)", old).Delete(&models.ReservationItem{}).Error; err != nil {
			return err
		}
		res := tx.Scopes(scopes.DateBefore(cutoff)).Delete(&models.Reservation{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, types.NewInternalError(err)
	}
	if purged > 0 {
		lib.AddPurged(purged)
		zap.S().Infof("Purged %d reservations dated before %s", purged, cutoff)
	}
	return purged, nil
}
