package lib

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		zap.S().Errorf("Error initializing Scheduler: %s", err.Error())
		return nil, err
	}
	scheduler = sched
	return sched, nil
}

func CreateCronJob(name string, handler any, duration time.Duration, args ...any) (*string, error) {
	return createJob(name, gocron.DurationJob(duration), handler, args...)
}

// CreateDailyJob runs handler every day at hour:minute local time.
func CreateDailyJob(name string, hour, minute uint, handler any, args ...any) (*string, error) {
	def := gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0)))
	return createJob(name, def, handler, args...)
}

func createJob(name string, def gocron.JobDefinition, handler any, args ...any) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	j, err := sched.NewJob(
		def,
		gocron.NewTask(handler, args...),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	id := j.ID().String()
	zap.S().Infof("Job scheduled: %s %s", name, id)
	return &id, nil
}
