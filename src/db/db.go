package db

import (
	"salonbook/src/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// GetDb returns the shared connection. Driver unique violations surface as
// gorm.ErrDuplicatedKey.
func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	_db, err := gorm.Open(postgres.Open(config.GetDSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		zap.S().Errorf("Error connecting to database: %s", err.Error())
		panic(err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		zap.S().Fatalf("Error establishing connection to database: %s", err.Error())
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	db = _db
	return _db
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}
