package scopes

import (
	"salonbook/src/types"
	"time"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithIDs(ids ...uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", ids)
	}
}

func WithPendingStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", types.RESERVATION_PENDING)
}

func WithActiveFlag(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

func ForWorker(workerID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("worker_id = ?", workerID)
	}
}

func ForWorkerDate(workerID uint, date string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("worker_id = ? AND date = ?", workerID, date)
	}
}

// Occupying keeps rows whose interval is taken: everything except cancelled.
func Occupying(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", types.RESERVATION_CANCELLED)
}

func Locks(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", types.RESERVATION_LOCKED)
}

func ExpiredLocks(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND lock_expires_at < ?", types.RESERVATION_LOCKED, now)
	}
}

func LocksOwnedBy(token string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND lock_token = ?", types.RESERVATION_LOCKED, token)
	}
}

func DateBetween(start, end string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != "" {
			db = db.Where("date >= ?", start)
		}
		if end != "" {
			db = db.Where("date <= ?", end)
		}
		return db
	}
}

func DateBefore(cutoff string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("date < ?", cutoff)
	}
}
