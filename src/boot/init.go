package boot

import (
	"context"
	"salonbook/src/booking"
	"salonbook/src/db"
	"salonbook/src/lib"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	d := db.GetDb()
	if err := db.Migrate(d); err != nil {
		zap.S().Fatalf("error migration: %s", err.Error())
	}
	return d
}

// InitScheduler registers the nightly retention purge. Purging also runs
// ahead of slot queries and commits, so a missed run only delays cleanup.
func InitScheduler(engine *booking.Engine) {
	sched, err := lib.GetScheduler()
	if err != nil {
		zap.S().Error("An error has occurred. Check logs for info")
		return
	}
	_, err = lib.CreateDailyJob("retention-purge", 3, 15, RunRetentionPurge, engine)
	if err != nil {
		zap.S().Errorf("Error scheduling retention purge: %s", err.Error())
		return
	}
	zap.S().Infof("Jobs in queue: %d", len(sched.Jobs()))
	sched.Start()
}

func RunRetentionPurge(engine *booking.Engine) {
	n, err := engine.Purge(context.Background())
	if err != nil {
		zap.S().Errorf("Retention purge failed: %s", err.Error())
		return
	}
	zap.S().Infof("Retention purge removed %d reservations", n)
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		zap.S().Error("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		zap.S().Errorf("An error has occurred while stopping Scheduler: %s", err.Error())
	}
}
