package main

import (
	"net/http"
	"os"
	"path"
	"salonbook/src/boot"
	"salonbook/src/config"
	"salonbook/src/lib"
	"salonbook/src/middlewares"
	"salonbook/src/scheduling"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	apiPrefix string = "/api/v1"
)

var calendarDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := time.Parse(config.DATE_LAYOUT, date)
	return err == nil && d.Format(config.DATE_LAYOUT) == date
}

var clockTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case string:
		_, err := scheduling.ParseClock(v)
		return err == nil
	case *string:
		if v == nil {
			return true
		}
		_, err := scheduling.ParseClock(*v)
		return err == nil
	}
	return false
}

// clockafter=Field holds when the value is a later HH:mm than Field.
var clockAfter validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	end, err := scheduling.ParseClock(value)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	if !field.IsValid() {
		return false
	}
	other, ok := field.Interface().(string)
	if !ok {
		return false
	}
	start, err := scheduling.ParseClock(other)
	if err != nil {
		return false
	}
	return end > start
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("calendardate", calendarDateValidatorFunc)
		v.RegisterValidation("clocktime", clockTimeValidatorFunc)
		v.RegisterValidation("clockafter", clockAfter)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		if config.MAINTENANCE_MODE {
			zap.S().Warn("server is under maintenance")
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "server is under maintenance"})
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func metricsRoute(g *gin.Engine) {
	lib.RegisterMetrics()
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	availabilityHandlers(apiv1)
	reservationHandlers(apiv1)
	catalogHandlers(apiv1)
	return apiv1
}

func adminRoutes(g *gin.Engine) *gin.RouterGroup {
	admin := apiv1Group(g)
	admin.Use(middlewares.AuthMiddleware, middlewares.AdminOnly)
	adminReservationHandlers(admin)
	workingHoursHandlers(admin)
	settingsHandlers(admin)
	return admin
}

func corsConfig() gin.HandlerFunc {
	if config.API_ENV == "local" {
		return cors.Default()
	}
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.AllowOrigins = []string{config.APP_URL}
	cc.AllowCredentials = true
	return cors.New(cc)
}

func initLogger() func() {
	flush := lib.InitLogger(config.API_ENV, config.LOG_DIR)
	gin.DefaultWriter = zap.NewStdLog(zap.L()).Writer()
	return flush
}

func main() {
	if os.Getenv("API_ENV") == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	config.Load()
	flush := initLogger()
	defer flush()

	if config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	boot.InitDb()
	boot.InitScheduler(getEngine())
	defer boot.StopScheduler()

	router := setupRouter()
	router.Use(corsConfig())
	router = maintenanceModeMiddleware(router)
	metricsRoute(router)
	publicRoutes(router)
	adminRoutes(router)

	zap.S().Infof("Listening on :%s", config.API_PORT)
	if err := router.Run(":" + config.API_PORT); err != nil {
		zap.S().Fatalf("Server stopped: %s", err.Error())
	}
}
