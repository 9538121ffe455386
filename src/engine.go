package main

import (
	"context"
	"net/http"
	"salonbook/src/booking"
	"salonbook/src/config"
	"salonbook/src/db"
	"salonbook/src/lib"
	"salonbook/src/lib/mailer"
	"salonbook/src/settings"
	"salonbook/src/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	engine        *booking.Engine
	settingsStore *settings.Store
)

func getSettings() *settings.Store {
	if settingsStore == nil {
		settingsStore = settings.NewStore(db.GetDb(), lib.GetRedisClient())
	}
	return settingsStore
}

func getEngine() *booking.Engine {
	if engine != nil {
		return engine
	}
	opts := []booking.Option{}
	m, err := mailer.New(context.Background(), config.MAIL_DRIVER)
	if err != nil {
		zap.S().Errorf("Mailer unavailable, notifications disabled: %s", err.Error())
	} else {
		opts = append(opts, booking.WithNotifier(booking.NewMailNotifier(m, config.APP_URL)))
	}
	engine = booking.NewEngine(db.GetDb(), getSettings(), opts...)
	return engine
}

// abortWithError renders err as {"error": msg}. Internal errors are logged
// and replaced with a generic message.
func abortWithError(ctx *gin.Context, err error) {
	status, msg := types.StatusOf(err)
	if status >= http.StatusInternalServerError {
		zap.S().Errorf("%s %s: %s", ctx.Request.Method, ctx.FullPath(), err.Error())
	}
	ctx.AbortWithStatusJSON(status, gin.H{"error": msg})
}
