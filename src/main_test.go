package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"salonbook/src/booking"
	"salonbook/src/config"
	"salonbook/src/db"
	"salonbook/src/models"
	"salonbook/src/settings"
	"salonbook/src/types"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	secret = "secret"
	monday = "2030-01-07"
)

type TestSuite struct {
	suite.Suite
	DB         *gorm.DB
	Router     *gin.Engine
	AdminToken string
	UserToken  string
	Worker     models.Worker
	Cut        models.Service
	Wash       models.Service
}

var dbSeq atomic.Int64

func generateJWT(email, role string) (string, error) {
	claims := &types.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWT_SECRET))
}

func newRouter() *gin.Engine {
	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	metricsRoute(router)
	publicRoutes(router)
	adminRoutes(router)
	return router
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	config.JWT_SECRET = secret
	registerValidators()

	var err error
	s.AdminToken, err = generateJWT("owner@example.com", types.ROLE_ADMIN)
	require.NoError(s.T(), err)
	s.UserToken, err = generateJWT("someone@example.com", types.ROLE_USER)
	require.NoError(s.T(), err)
}

func (s *TestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:api_%d?mode=memory&cache=shared", dbSeq.Add(1))
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)
	sqlDB, err := d.DB()
	require.NoError(s.T(), err)
	sqlDB.SetMaxOpenConns(1)
	s.T().Cleanup(func() { sqlDB.Close() })
	require.NoError(s.T(), db.Migrate(d))
	db.NewDB(d)
	s.DB = d

	mr := miniredis.RunT(s.T())
	settingsStore = settings.NewStore(d, redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	now := time.Date(2030, 1, 6, 10, 0, 0, 0, time.Local)
	engine = booking.NewEngine(d, settingsStore, booking.WithClock(func() time.Time { return now }))

	s.Worker = models.Worker{Name: "Jana Nováková", Email: "jana@example.com", IsActive: true}
	require.NoError(s.T(), d.Create(&s.Worker).Error)
	s.Cut = models.Service{WorkerID: s.Worker.ID, Name: "Cut", Price: decimal.RequireFromString("450.00"), Duration: 60, IsActive: true, SortOrder: 1}
	s.Wash = models.Service{WorkerID: s.Worker.ID, Name: "Wash", Price: decimal.RequireFromString("120.50"), Duration: 30, IsActive: true, SortOrder: 2}
	require.NoError(s.T(), d.Create(&s.Cut).Error)
	require.NoError(s.T(), d.Create(&s.Wash).Error)
	start, end, bs, be := "09:00", "17:00", "12:00", "13:00"
	require.NoError(s.T(), d.Create(&models.WorkingHoursTemplate{
		WorkerID: s.Worker.ID, DayOfWeek: 1, StartTime: &start, EndTime: &end, BreakStart: &bs, BreakEnd: &be,
	}).Error)

	config.MAINTENANCE_MODE = false
	s.Router = newRouter()
}

func (s *TestSuite) do(method, url string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) slotsURL(extra string) string {
	return fmt.Sprintf("/api/v1/reservations?date=%s&workerId=%d&totalDuration=60%s", monday, s.Worker.ID, extra)
}

func (s *TestSuite) reservationBody(at string) map[string]any {
	return map[string]any{
		"workerId":      s.Worker.ID,
		"date":          monday,
		"time":          at,
		"customerName":  "Eva",
		"customerEmail": "eva@example.com",
		"customerPhone": "+420777000111",
		"termsAccepted": true,
		"items": []map[string]any{
			{"serviceId": s.Cut.ID, "quantity": 1},
			{"serviceId": s.Wash.ID, "quantity": 2},
		},
	}
}

func (s *TestSuite) TestPingRoute() {
	w := s.do("GET", "/", nil, "")
	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func (s *TestSuite) TestMaintenanceMode() {
	config.MAINTENANCE_MODE = true
	defer func() { config.MAINTENANCE_MODE = false }()

	w := s.do("GET", s.slotsURL(""), nil, "")
	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestSlots() {
	w := s.do("GET", s.slotsURL(""), nil, "")
	require.Equal(s.T(), 200, w.Code, w.Body.String())
	slots := gjson.Get(w.Body.String(), "slots").Array()
	require.Len(s.T(), slots, 12)
	assert.Equal(s.T(), "09:00", slots[0].String())
	assert.Equal(s.T(), "16:00", slots[11].String())

	w = s.do("GET", fmt.Sprintf("/api/v1/reservations?date=2030-01-32&workerId=%d&totalDuration=60", s.Worker.ID), nil, "")
	assert.Equal(s.T(), 400, w.Code)
	assert.NotEmpty(s.T(), gjson.Get(w.Body.String(), "error").String())

	w = s.do("GET", fmt.Sprintf("/api/v1/reservations?date=%s&workerId=%d&totalDuration=0", monday, s.Worker.ID), nil, "")
	assert.Equal(s.T(), 400, w.Code)

	w = s.do("GET", fmt.Sprintf("/api/v1/reservations?date=%s&workerId=%d&totalDuration=%d", monday, s.Worker.ID, math.MaxInt), nil, "")
	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestLockFlow() {
	lock := map[string]any{"workerId": s.Worker.ID, "date": monday, "time": "10:00", "duration": 60, "clientToken": "client-a"}

	w := s.do("POST", "/api/v1/reservations/lock", lock, "")
	require.Equal(s.T(), 201, w.Code, w.Body.String())
	res := w.Body.String()
	assert.True(s.T(), gjson.Get(res, "success").Bool())
	assert.False(s.T(), gjson.Get(res, "reused").Bool())
	assert.Equal(s.T(), "client-a", gjson.Get(res, "lockToken").String())
	id := gjson.Get(res, "reservationId").Uint()

	w = s.do("POST", "/api/v1/reservations/lock", lock, "")
	require.Equal(s.T(), 201, w.Code)
	assert.True(s.T(), gjson.Get(w.Body.String(), "reused").Bool())
	assert.Equal(s.T(), id, gjson.Get(w.Body.String(), "reservationId").Uint())

	other := map[string]any{"workerId": s.Worker.ID, "date": monday, "time": "10:30", "duration": 60, "clientToken": "client-b"}
	w = s.do("POST", "/api/v1/reservations/lock", other, "")
	assert.Equal(s.T(), 409, w.Code)
	assert.Equal(s.T(), "slot unavailable", gjson.Get(w.Body.String(), "error").String())

	w = s.do("GET", s.slotsURL("&detailed=true&clientToken=client-a"), nil, "")
	require.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "own-lock", gjson.Get(w.Body.String(), `slots.#(time=="10:00").status`).String())

	w = s.do("GET", s.slotsURL("&detailed=true&clientToken=client-b"), nil, "")
	assert.Equal(s.T(), "locked", gjson.Get(w.Body.String(), `slots.#(time=="10:00").status`).String())

	w = s.do("POST", "/api/v1/reservations/unlock", map[string]any{"clientToken": "client-a"}, "")
	assert.Equal(s.T(), 200, w.Code)
	assert.True(s.T(), gjson.Get(w.Body.String(), "success").Bool())

	w = s.do("POST", "/api/v1/reservations/unlock", map[string]any{}, "")
	assert.Equal(s.T(), 400, w.Code)

	w = s.do("GET", s.slotsURL(""), nil, "")
	assert.Contains(s.T(), w.Body.String(), `"10:00"`)
}

func (s *TestSuite) TestLockOutsideBookingWindow() {
	lock := map[string]any{"workerId": s.Worker.ID, "date": "2030-06-03", "time": "10:00", "duration": 60, "clientToken": "client-a"}
	w := s.do("POST", "/api/v1/reservations/lock", lock, "")
	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestLockLongerThanADay() {
	for _, d := range []int{1441, math.MaxInt} {
		lock := map[string]any{"workerId": s.Worker.ID, "date": monday, "time": "10:00", "duration": d, "clientToken": "client-a"}
		w := s.do("POST", "/api/v1/reservations/lock", lock, "")
		assert.Equal(s.T(), 400, w.Code, w.Body.String())
	}

	var n int64
	s.DB.Model(&models.Reservation{}).Count(&n)
	assert.Equal(s.T(), int64(0), n)

	w := s.do("GET", s.slotsURL(""), nil, "")
	assert.Equal(s.T(), 200, w.Code)
	assert.Len(s.T(), gjson.Get(w.Body.String(), "slots").Array(), 12)
}

func (s *TestSuite) TestCreateReservation() {
	w := s.do("POST", "/api/v1/reservations", s.reservationBody("09:00"), "")
	require.Equal(s.T(), 201, w.Code, w.Body.String())
	res := w.Body.String()
	assert.Equal(s.T(), "pending", gjson.Get(res, "reservation.status").String())
	assert.Equal(s.T(), "11:00", gjson.Get(res, "reservation.endTime").String())
	assert.Equal(s.T(), int64(120), gjson.Get(res, "reservation.totalDuration").Int())
	assert.Equal(s.T(), 691.0, gjson.Get(res, "reservation.totalPrice").Float())
	assert.Len(s.T(), gjson.Get(res, "reservation.items").Array(), 2)
	assert.False(s.T(), gjson.Get(res, "reservation.managementToken").Exists())
	token := gjson.Get(res, "managementToken").String()
	require.NotEmpty(s.T(), token)

	w = s.do("POST", "/api/v1/reservations", s.reservationBody("10:00"), "")
	assert.Equal(s.T(), 409, w.Code)

	w = s.do("GET", "/api/v1/reservations/manage/"+token, nil, "")
	require.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "Eva", gjson.Get(w.Body.String(), "data.customerName").String())

	w = s.do("GET", "/api/v1/reservations/manage/"+token+"/qrcode", nil, "")
	require.Equal(s.T(), 200, w.Code, w.Body.String())
	assert.Contains(s.T(), w.Header().Get("Content-Disposition"), "reservation.jpeg")
	assert.NotZero(s.T(), w.Body.Len())

	w = s.do("GET", "/api/v1/reservations/manage/7f1c2d3e-0000-4000-8000-000000000000/qrcode", nil, "")
	assert.Equal(s.T(), 404, w.Code)

	w = s.do("POST", "/api/v1/reservations/manage/"+token, map[string]any{"action": "approve"}, "")
	require.Equal(s.T(), 200, w.Code, w.Body.String())
	assert.Equal(s.T(), "confirmed", gjson.Get(w.Body.String(), "data.status").String())

	w = s.do("POST", "/api/v1/reservations/manage/"+token, map[string]any{"action": "reject"}, "")
	assert.Equal(s.T(), 409, w.Code)

	w = s.do("POST", "/api/v1/reservations/manage/"+token, map[string]any{"action": "explode"}, "")
	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestCreateReservationValidation() {
	cases := map[string]func(map[string]any){
		"terms not accepted": func(b map[string]any) { b["termsAccepted"] = false },
		"bad email":          func(b map[string]any) { b["customerEmail"] = "eva" },
		"bad time":           func(b map[string]any) { b["time"] = "9:00" },
		"no items":           func(b map[string]any) { b["items"] = []map[string]any{} },
		"zero quantity":      func(b map[string]any) { b["items"] = []map[string]any{{"serviceId": s.Cut.ID, "quantity": 0}} },
		"quantity over cap":  func(b map[string]any) { b["items"] = []map[string]any{{"serviceId": s.Cut.ID, "quantity": 21}} },
		"outside window":     func(b map[string]any) { b["date"] = "2030-06-03" },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			body := s.reservationBody("09:00")
			mutate(body)
			w := s.do("POST", "/api/v1/reservations", body, "")
			assert.Equal(s.T(), 400, w.Code, w.Body.String())
			assert.NotEmpty(s.T(), gjson.Get(w.Body.String(), "error").String())
		})
	}

	body := s.reservationBody("09:00")
	body["items"] = []map[string]any{{"serviceId": 9999, "quantity": 1}}
	w := s.do("POST", "/api/v1/reservations", body, "")
	assert.Equal(s.T(), 404, w.Code)
}

func (s *TestSuite) TestHoneypot() {
	w := s.do("POST", "/api/v1/reservations", map[string]any{"honeypot": "http://spam.example.com"}, "")
	assert.Equal(s.T(), 201, w.Code)
	assert.NotEmpty(s.T(), gjson.Get(w.Body.String(), "message").String())

	var n int64
	s.DB.Model(&models.Reservation{}).Count(&n)
	assert.Equal(s.T(), int64(0), n)
}

func (s *TestSuite) TestAdminBlock() {
	block := map[string]any{"workerId": s.Worker.ID, "date": monday, "startTime": "13:00", "endTime": "15:00", "reason": "training"}

	w := s.do("POST", "/api/v1/reservations/admin-block", block, "")
	assert.Equal(s.T(), 401, w.Code)

	w = s.do("POST", "/api/v1/reservations/admin-block", block, s.UserToken)
	assert.Equal(s.T(), 403, w.Code)

	w = s.do("POST", "/api/v1/reservations/admin-block", block, s.AdminToken)
	require.Equal(s.T(), 201, w.Code, w.Body.String())
	assert.True(s.T(), gjson.Get(w.Body.String(), "success").Bool())
	assert.NotZero(s.T(), gjson.Get(w.Body.String(), "id").Uint())

	w = s.do("POST", "/api/v1/reservations/admin-block", block, s.AdminToken)
	assert.Equal(s.T(), 409, w.Code)

	inverted := map[string]any{"workerId": s.Worker.ID, "date": monday, "startTime": "15:00", "endTime": "14:00"}
	w = s.do("POST", "/api/v1/reservations/admin-block", inverted, s.AdminToken)
	assert.Equal(s.T(), 400, w.Code)

	w = s.do("GET", s.slotsURL(""), nil, "")
	assert.NotContains(s.T(), w.Body.String(), `"14:00"`)
}

func (s *TestSuite) TestAdminReservations() {
	w := s.do("POST", "/api/v1/reservations", s.reservationBody("09:00"), "")
	require.Equal(s.T(), 201, w.Code)
	id := gjson.Get(w.Body.String(), "reservation.id").Uint()

	w = s.do("GET", "/api/v1/reservations?start="+monday+"&end="+monday, nil, "")
	assert.Equal(s.T(), 401, w.Code)

	w = s.do("GET", "/api/v1/reservations?start="+monday+"&end="+monday, nil, s.AdminToken)
	require.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), int64(1), gjson.Get(w.Body.String(), "count").Int())

	w = s.do("GET", fmt.Sprintf("/api/v1/reservations/%d", id), nil, s.AdminToken)
	require.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "Cut", gjson.Get(w.Body.String(), "data.items.0.service.name").String())

	w = s.do("GET", "/api/v1/reservations/9999", nil, s.AdminToken)
	assert.Equal(s.T(), 404, w.Code)

	url := fmt.Sprintf("/api/v1/reservations/%d", id)
	w = s.do("PATCH", url, map[string]any{"status": "completed"}, s.AdminToken)
	assert.Equal(s.T(), 409, w.Code)

	w = s.do("PATCH", url, map[string]any{"status": "cancelled", "reason": "no show"}, s.AdminToken)
	require.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "no show", gjson.Get(w.Body.String(), "data.cancellationReason").String())

	w = s.do("PATCH", url, map[string]any{"status": "blocked"}, s.AdminToken)
	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestWorkingHours() {
	tuesday := "2030-01-08"
	tuesdaySlots := fmt.Sprintf("/api/v1/reservations?date=%s&workerId=%d&totalDuration=60", tuesday, s.Worker.ID)

	w := s.do("GET", tuesdaySlots, nil, "")
	assert.Len(s.T(), gjson.Get(w.Body.String(), "slots").Array(), 0)

	days := map[string]any{
		"workerId": s.Worker.ID,
		"days": []map[string]any{
			{"dayOfWeek": 2, "startTime": "10:00", "endTime": "12:00"},
			{"dayOfWeek": 1, "startTime": "09:00", "endTime": "11:00"},
		},
	}
	w = s.do("POST", "/api/v1/working-hours", days, s.AdminToken)
	require.Equal(s.T(), 200, w.Code, w.Body.String())

	w = s.do("GET", tuesdaySlots, nil, "")
	assert.Equal(s.T(), `["10:00","10:30","11:00"]`, gjson.Get(w.Body.String(), "slots").Raw)
	w = s.do("GET", s.slotsURL(""), nil, "")
	assert.Equal(s.T(), `["09:00","09:30","10:00"]`, gjson.Get(w.Body.String(), "slots").Raw)

	w = s.do("GET", fmt.Sprintf("/api/v1/working-hours?workerId=%d", s.Worker.ID), nil, s.AdminToken)
	assert.Equal(s.T(), int64(2), gjson.Get(w.Body.String(), "count").Int())

	inverted := map[string]any{
		"workerId": s.Worker.ID,
		"days":     []map[string]any{{"dayOfWeek": 3, "startTime": "12:00", "endTime": "10:00"}},
	}
	w = s.do("POST", "/api/v1/working-hours", inverted, s.AdminToken)
	assert.Equal(s.T(), 400, w.Code)

	unknown := map[string]any{"workerId": 9999, "days": []map[string]any{{"dayOfWeek": 3, "isDayOff": true}}}
	w = s.do("POST", "/api/v1/working-hours", unknown, s.AdminToken)
	assert.Equal(s.T(), 404, w.Code)
}

func (s *TestSuite) TestOverrides() {
	override := map[string]any{"workerId": s.Worker.ID, "date": monday, "isDayOff": true, "note": "holiday"}
	w := s.do("POST", "/api/v1/working-hours/overrides", override, s.AdminToken)
	require.Equal(s.T(), 201, w.Code, w.Body.String())
	id := gjson.Get(w.Body.String(), "data.id").Uint()

	w = s.do("GET", s.slotsURL(""), nil, "")
	assert.Equal(s.T(), `[]`, gjson.Get(w.Body.String(), "slots").Raw)

	w = s.do("GET", fmt.Sprintf("/api/v1/working-hours/overrides?workerId=%d", s.Worker.ID), nil, s.AdminToken)
	assert.Equal(s.T(), int64(1), gjson.Get(w.Body.String(), "count").Int())

	w = s.do("DELETE", fmt.Sprintf("/api/v1/working-hours/overrides/%d", id), nil, s.AdminToken)
	assert.Equal(s.T(), 200, w.Code)
	w = s.do("DELETE", fmt.Sprintf("/api/v1/working-hours/overrides/%d", id), nil, s.AdminToken)
	assert.Equal(s.T(), 404, w.Code)

	w = s.do("GET", s.slotsURL(""), nil, "")
	assert.Len(s.T(), gjson.Get(w.Body.String(), "slots").Array(), 12)
}

func (s *TestSuite) TestCatalog() {
	w := s.do("GET", "/api/v1/workers", nil, "")
	require.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "jana-novakova", gjson.Get(w.Body.String(), "data.0.slug").String())
	assert.False(s.T(), gjson.Get(w.Body.String(), "data.0.NotificationEmail").Exists())

	w = s.do("GET", fmt.Sprintf("/api/v1/services?workerId=%d", s.Worker.ID), nil, "")
	require.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), int64(2), gjson.Get(w.Body.String(), "count").Int())
	assert.Equal(s.T(), "Cut", gjson.Get(w.Body.String(), "data.0.name").String())

	w = s.do("GET", "/api/v1/services?workerId=abc", nil, "")
	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestAvailabilityAndSettings() {
	url := fmt.Sprintf("/api/v1/availability?start=2030-01-01&end=2030-01-31&workerId=%d&totalDuration=60", s.Worker.ID)
	w := s.do("GET", url, nil, "")
	require.Equal(s.T(), 200, w.Code, w.Body.String())
	assert.Equal(s.T(), `["2030-01-07","2030-01-14","2030-01-21","2030-01-28"]`, gjson.Get(w.Body.String(), "availableDates").Raw)

	w = s.do("PUT", "/api/v1/settings/booking_window", map[string]any{"value": 7}, s.AdminToken)
	require.Equal(s.T(), 200, w.Code, w.Body.String())

	w = s.do("GET", url, nil, "")
	assert.Equal(s.T(), `["2030-01-07"]`, gjson.Get(w.Body.String(), "availableDates").Raw)

	w = s.do("GET", "/api/v1/settings", nil, s.AdminToken)
	assert.Equal(s.T(), int64(7), gjson.Get(w.Body.String(), "data.booking_window").Int())

	w = s.do("PUT", "/api/v1/settings/theme", map[string]any{"value": 1}, s.AdminToken)
	assert.Equal(s.T(), 404, w.Code)
	w = s.do("PUT", "/api/v1/settings/booking_window", map[string]any{"value": 0}, s.AdminToken)
	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestMetrics() {
	s.do("POST", "/api/v1/reservations/lock", map[string]any{"workerId": s.Worker.ID, "date": monday, "time": "10:00", "duration": 60, "clientToken": "m"}, "")

	w := s.do("GET", "/metrics", nil, "")
	require.Equal(s.T(), 200, w.Code)
	assert.Contains(s.T(), w.Body.String(), "salonbook_lock_requests_total")
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
