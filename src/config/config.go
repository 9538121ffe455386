package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// const dsn = "host=localhost user=postgres password=password dbname=salonbook port=5432 sslmode=disable TimeZone=Europe/Prague"

var (
	API_ENV          string
	API_PORT         string
	APP_URL          string
	JWT_SECRET       string
	REDIS_HOST       string
	MAIL_DRIVER      string
	MAIL_FROM        string
	MAIL_FROM_NAME   string
	SMTP_HOST        string
	SMTP_PORT        int
	SMTP_USERNAME    string
	SMTP_PASSWORD    string
	LOG_DIR          string
	MAINTENANCE_MODE bool
)

const (
	DATE_LAYOUT  = "2006-01-02"
	CLOCK_LAYOUT = "15:04"

	// SLOT_GRANULARITY is the step between candidate start times, in minutes.
	SLOT_GRANULARITY = 30
	LOCK_TTL         = 5 * time.Minute
	// MAX_ITEM_QUANTITY caps the quantity of one service in a reservation.
	MAX_ITEM_QUANTITY = 20

	DEFAULT_BOOKING_WINDOW_DAYS = 30
	DEFAULT_RETENTION_DAYS      = 1095
	SETTINGS_CACHE_TTL          = 5 * time.Minute
)

// Load reads the process environment. Call it after .env files have been applied.
func Load() {
	API_ENV = getEnv("API_ENV", "local")
	API_PORT = getEnv("API_PORT", "9090")
	APP_URL = getEnv("APP_URL", "http://localhost:3000")
	JWT_SECRET = os.Getenv("JWT_SECRET")
	REDIS_HOST = os.Getenv("REDIS_HOST")
	MAIL_DRIVER = getEnv("MAIL_DRIVER", "log")
	MAIL_FROM = getEnv("MAIL_FROM", "rezervace@localhost")
	MAIL_FROM_NAME = getEnv("MAIL_FROM_NAME", "Salon")
	SMTP_HOST = os.Getenv("SMTP_HOST")
	SMTP_USERNAME = os.Getenv("SMTP_USERNAME")
	SMTP_PASSWORD = os.Getenv("SMTP_PASSWORD")
	LOG_DIR = getEnv("LOG_DIR", "logs")

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	SMTP_PORT = port

	mm, err := strconv.ParseBool(os.Getenv("MAINTENANCE_MODE"))
	MAINTENANCE_MODE = err == nil && mm
}

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

func IsProd() bool {
	return API_ENV == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
