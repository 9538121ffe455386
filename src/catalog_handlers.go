package main

import (
	"net/http"
	"salonbook/src/db"
	"salonbook/src/models"
	"salonbook/src/models/scopes"
	"salonbook/src/types"
	"strconv"

	"github.com/gin-gonic/gin"
)

func catalogHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/workers", func(ctx *gin.Context) {
			var data []models.Worker
			err := db.GetDb().
				Scopes(scopes.WithActiveFlag).
				Order("name asc").
				Find(&data).
				Error
			if err != nil {
				abortWithError(ctx, types.NewInternalError(err))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/services", func(ctx *gin.Context) {
			q := db.GetDb().Scopes(scopes.WithActiveFlag)
			if raw := ctx.Query("workerId"); raw != "" {
				workerID, err := strconv.ParseUint(raw, 10, 64)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid workerId"})
					return
				}
				q = q.Scopes(scopes.ForWorker(uint(workerID)))
			}
			var data []models.Service
			if err := q.Order("sort_order asc").Order("id asc").Find(&data).Error; err != nil {
				abortWithError(ctx, types.NewInternalError(err))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		})
	return g
}

var settingKeys = map[string]bool{
	models.SETTING_BOOKING_WINDOW: true,
	models.SETTING_DATA_RETENTION: true,
}

func settingsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/settings", func(ctx *gin.Context) {
			store := getSettings()
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				models.SETTING_BOOKING_WINDOW: store.BookingWindowDays(ctx.Request.Context()),
				models.SETTING_DATA_RETENTION: store.RetentionDays(ctx.Request.Context()),
			}})
		}).
		PUT("/settings/:key", func(ctx *gin.Context) {
			key := ctx.Param("key")
			if !settingKeys[key] {
				abortWithError(ctx, types.NewNotFoundError("unknown setting %q", key))
				return
			}
			var body types.UpdateSettingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			value := strconv.Itoa(body.Value)
			if err := getSettings().Set(ctx.Request.Context(), key, value); err != nil {
				abortWithError(ctx, types.NewInternalError(err))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"key": key, "value": body.Value})
		})
	return g
}
