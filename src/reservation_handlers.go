package main

import (
	"net/http"
	"os"
	"salonbook/src/booking"
	"salonbook/src/config"
	"salonbook/src/middlewares"
	"salonbook/src/types"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yeqown/go-qrcode"
	"go.uber.org/zap"
)

// manageLinkQRCode writes a QR code of the management link to a temp file.
// The caller removes it.
func manageLinkQRCode(token string) (string, error) {
	qrc, err := qrcode.New(booking.ManageURL(config.APP_URL, token))
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "reservation-*.jpeg")
	if err != nil {
		return "", err
	}
	filepath := f.Name()
	f.Close()
	if err := qrc.Save(filepath); err != nil {
		os.Remove(filepath)
		return "", err
	}
	return filepath, nil
}

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reservations", func(ctx *gin.Context) {
			if _, ok := ctx.GetQuery("date"); !ok {
				// without a date this is the admin listing
				middlewares.AuthMiddleware(ctx)
				if ctx.IsAborted() {
					return
				}
				middlewares.AdminOnly(ctx)
				if ctx.IsAborted() {
					return
				}
				listReservations(ctx)
				return
			}

			var query types.SlotsQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			q := booking.SlotQuery{
				WorkerID:      query.WorkerID,
				Date:          query.Date,
				TotalDuration: query.TotalDuration,
				ClientToken:   query.ClientToken,
			}
			if query.Detailed {
				slots, err := getEngine().DetailedSlots(ctx.Request.Context(), q)
				if err != nil {
					abortWithError(ctx, err)
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"slots": slots})
				return
			}
			slots, err := getEngine().Slots(ctx.Request.Context(), q)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"slots": slots})
		}).
		POST("/reservations/lock", func(ctx *gin.Context) {
			var body types.LockRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			res, err := getEngine().CreateLock(ctx.Request.Context(), booking.LockRequest{
				WorkerID:    body.WorkerID,
				Date:        body.Date,
				Time:        body.Time,
				Duration:    body.Duration,
				ClientToken: body.ClientToken,
			})
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"success":       true,
				"reservationId": res.ReservationID,
				"lockToken":     res.LockToken,
				"expiresAt":     res.ExpiresAt,
				"reused":        res.Reused,
			})
		}).
		POST("/reservations/unlock", func(ctx *gin.Context) {
			var body types.UnlockRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := getEngine().Release(ctx.Request.Context(), body.ReservationID, body.ClientToken); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true})
		}).
		POST("/reservations", func(ctx *gin.Context) {
			var trap struct {
				Honeypot string `json:"honeypot"`
			}
			if err := ctx.ShouldBindBodyWith(&trap, binding.JSON); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if trap.Honeypot != "" {
				ctx.JSON(http.StatusCreated, gin.H{"message": "Reservation created"})
				return
			}

			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindBodyWith(&body, binding.JSON); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			items := make([]booking.ItemRequest, len(body.Items))
			for i, it := range body.Items {
				items[i] = booking.ItemRequest{ServiceID: it.ServiceID, Quantity: it.Quantity}
			}
			reservation, err := getEngine().Commit(ctx.Request.Context(), booking.CommitRequest{
				WorkerID: body.WorkerID,
				Date:     body.Date,
				Time:     body.Time,
				Customer: booking.Customer{
					Name:  body.CustomerName,
					Email: body.CustomerEmail,
					Phone: body.CustomerPhone,
				},
				Note:          body.Note,
				TermsAccepted: body.TermsAccepted,
				Items:         items,
				ClientToken:   body.ClientToken,
			})
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"reservation":     reservation,
				"managementToken": reservation.ManagementToken,
				"message":         "Reservation created and waiting for confirmation",
			})
		}).
		GET("/reservations/manage/:token", func(ctx *gin.Context) {
			var params types.TokenRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservation, err := getEngine().GetByToken(ctx.Request.Context(), params.Token)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		GET("/reservations/manage/:token/qrcode", func(ctx *gin.Context) {
			var params types.TokenRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if _, err := getEngine().GetByToken(ctx.Request.Context(), params.Token); err != nil {
				abortWithError(ctx, err)
				return
			}
			filepath, err := manageLinkQRCode(params.Token)
			if err != nil {
				zap.S().Errorf("Could not render qrcode: %s", err.Error())
				abortWithError(ctx, types.NewInternalError(err))
				return
			}
			defer os.Remove(filepath)
			ctx.FileAttachment(filepath, "reservation.jpeg")
		}).
		POST("/reservations/manage/:token", func(ctx *gin.Context) {
			var params types.TokenRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ManageReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservation, err := getEngine().Manage(ctx.Request.Context(), params.Token, body.Action, body.Reason)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		})
	return g
}

func listReservations(ctx *gin.Context) {
	var query types.ReservationsRangeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := getEngine().List(ctx.Request.Context(), query.Start, query.End, query.WorkerID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
}

// adminReservationHandlers expects a group already guarded by AdminOnly.
func adminReservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservation, err := getEngine().Get(ctx.Request.Context(), params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		PATCH("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			next, err := types.ParseReservationStatus(body.Status)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			reservation, err := getEngine().UpdateStatus(ctx.Request.Context(), params.ID, next, body.Reason)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		POST("/reservations/admin-block", func(ctx *gin.Context) {
			var body types.AdminBlockRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			block, err := getEngine().Block(ctx.Request.Context(), booking.BlockRequest{
				WorkerID:  body.WorkerID,
				Date:      body.Date,
				StartTime: body.StartTime,
				EndTime:   body.EndTime,
				Reason:    body.Reason,
			})
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "id": block.ID})
		})
	return g
}
