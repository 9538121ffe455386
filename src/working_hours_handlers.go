package main

import (
	"net/http"
	"salonbook/src/db"
	"salonbook/src/models"
	"salonbook/src/models/scopes"
	"salonbook/src/scheduling"
	"salonbook/src/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// checkHours rejects stored shapes that would resolve to an inverted window
// or break.
func checkHours(h scheduling.Hours) error {
	if h.IsDayOff || h.StartTime == nil || h.EndTime == nil {
		return nil
	}
	if _, err := scheduling.ParseInterval(*h.StartTime, *h.EndTime); err != nil {
		return types.NewValidationError("working hours: %s", err.Error())
	}
	if h.BreakStart != nil && h.BreakEnd != nil {
		if _, err := scheduling.ParseInterval(*h.BreakStart, *h.BreakEnd); err != nil {
			return types.NewValidationError("break: %s", err.Error())
		}
	}
	return nil
}

func workerExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Worker{}).Scopes(scopes.WithID(id)).Count(&count).Error; err != nil {
		return types.NewInternalError(err)
	}
	if count == 0 {
		return types.NewNotFoundError("worker %d not found", id)
	}
	return nil
}

func workingHoursHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/working-hours", func(ctx *gin.Context) {
			var query types.OverridesQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var data []models.WorkingHoursTemplate
			err := db.GetDb().
				Scopes(scopes.ForWorker(query.WorkerID)).
				Order("day_of_week asc").
				Find(&data).
				Error
			if err != nil {
				abortWithError(ctx, types.NewInternalError(err))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		POST("/working-hours", func(ctx *gin.Context) {
			var body types.UpsertWorkingHoursRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rows := make([]models.WorkingHoursTemplate, 0, len(body.Days))
			for _, day := range body.Days {
				row := models.WorkingHoursTemplate{
					WorkerID:   body.WorkerID,
					DayOfWeek:  *day.DayOfWeek,
					StartTime:  day.StartTime,
					EndTime:    day.EndTime,
					BreakStart: day.BreakStart,
					BreakEnd:   day.BreakEnd,
					IsDayOff:   day.IsDayOff,
				}
				if err := checkHours(*row.Hours()); err != nil {
					abortWithError(ctx, err)
					return
				}
				rows = append(rows, row)
			}

			err := db.GetDb().Transaction(func(tx *gorm.DB) error {
				if err := workerExists(tx, body.WorkerID); err != nil {
					return err
				}
				return tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "worker_id"}, {Name: "day_of_week"}},
					DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "break_start", "break_end", "is_day_off", "updated_at"}),
				}).Create(&rows).Error
			})
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			zap.S().Infof("Working hours updated for worker %d (%d days)", body.WorkerID, len(rows))
			ctx.JSON(http.StatusOK, gin.H{"success": true, "count": len(rows)})
		}).
		GET("/working-hours/overrides", func(ctx *gin.Context) {
			var query types.OverridesQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var data []models.WorkingHoursOverride
			err := db.GetDb().
				Scopes(scopes.ForWorker(query.WorkerID)).
				Order("date asc").
				Find(&data).
				Error
			if err != nil {
				abortWithError(ctx, types.NewInternalError(err))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		POST("/working-hours/overrides", func(ctx *gin.Context) {
			var body types.CreateOverrideRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			override := models.WorkingHoursOverride{
				WorkerID:   body.WorkerID,
				Date:       body.Date,
				StartTime:  body.StartTime,
				EndTime:    body.EndTime,
				BreakStart: body.BreakStart,
				BreakEnd:   body.BreakEnd,
				IsDayOff:   body.IsDayOff,
			}
			if body.Note != "" {
				override.Note = &body.Note
			}
			if err := checkHours(*override.Hours()); err != nil {
				abortWithError(ctx, err)
				return
			}

			err := db.GetDb().Transaction(func(tx *gorm.DB) error {
				if err := workerExists(tx, body.WorkerID); err != nil {
					return err
				}
				return tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "worker_id"}, {Name: "date"}},
					DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "break_start", "break_end", "is_day_off", "note", "updated_at"}),
				}).Create(&override).Error
			})
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": override})
		}).
		DELETE("/working-hours/overrides/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			res := db.GetDb().Scopes(scopes.WithID(params.ID)).Delete(&models.WorkingHoursOverride{})
			if res.Error != nil {
				abortWithError(ctx, types.NewInternalError(res.Error))
				return
			}
			if res.RowsAffected == 0 {
				abortWithError(ctx, types.NewNotFoundError("override %d not found", params.ID))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true})
		})
	return g
}
