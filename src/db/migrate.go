package db

import (
	"salonbook/src/models"

	"gorm.io/gorm"
)

func Models() []any {
	return []any{
		&models.Worker{},
		&models.Service{},
		&models.WorkingHoursTemplate{},
		&models.WorkingHoursOverride{},
		&models.Reservation{},
		&models.ReservationItem{},
		&models.Setting{},
	}
}

// ActiveSlotIndex makes a second live row at the same worker/date/start fail
// at the storage layer even if two writers race past the availability check.
const ActiveSlotIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_active_slot
	ON reservations (worker_id, date, start_time) WHERE status <> 'cancelled'`

func Migrate(tx *gorm.DB) error {
	if err := tx.AutoMigrate(Models()...); err != nil {
		return err
	}
	return tx.Exec(ActiveSlotIndex).Error
}
