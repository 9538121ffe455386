package main

import (
	"net/http"
	"salonbook/src/types"

	"github.com/gin-gonic/gin"
)

func availabilityHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/availability", func(ctx *gin.Context) {
			var query types.AvailabilityQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			dates, err := getEngine().AvailableDates(ctx.Request.Context(), query.WorkerID, query.Start, query.End, query.TotalDuration)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"availableDates": dates})
		})
	return g
}
