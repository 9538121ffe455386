package settings

import (
	"context"
	"errors"
	"salonbook/src/config"
	"salonbook/src/models"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	BookingWindowDays(ctx context.Context) int
	RetentionDays(ctx context.Context) int
}

// Store reads settings from the database with an optional redis read-through
// cache. A nil redis client disables caching.
type Store struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(db *gorm.DB, rdb *redis.Client) *Store {
	return &Store{db: db, rdb: rdb, ttl: config.SETTINGS_CACHE_TTL}
}

func cacheKey(key string) string {
	return "settings:" + key
}

// Get returns the raw value and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, cacheKey(key)).Result()
		if err == nil {
			return val, true, nil
		}
		if !errors.Is(err, redis.Nil) {
			zap.S().Warnf("[settings] cache read %s: %s", key, err.Error())
		}
	}

	var setting models.Setting
	err := s.db.WithContext(ctx).Where(&models.Setting{Key: key}).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, cacheKey(key), setting.Value, s.ttl).Err(); err != nil {
			zap.S().Warnf("[settings] cache write %s: %s", key, err.Error())
		}
	}
	return setting.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
	if err != nil {
		return err
	}
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, cacheKey(key)).Err(); err != nil {
			zap.S().Warnf("[settings] cache evict %s: %s", key, err.Error())
		}
	}
	return nil
}

// Int returns a positive integer setting, or fallback when it is absent,
// unparsable or not positive.
func (s *Store) Int(ctx context.Context, key string, fallback int) int {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		zap.S().Errorf("[settings] read %s: %s", key, err.Error())
		return fallback
	}
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func (s *Store) BookingWindowDays(ctx context.Context) int {
	return s.Int(ctx, models.SETTING_BOOKING_WINDOW, config.DEFAULT_BOOKING_WINDOW_DAYS)
}

func (s *Store) RetentionDays(ctx context.Context) int {
	return s.Int(ctx, models.SETTING_DATA_RETENTION, config.DEFAULT_RETENTION_DAYS)
}

// Static is a fixed Provider.
type Static struct {
	Window    int
	Retention int
}

func (s Static) BookingWindowDays(ctx context.Context) int { return s.Window }
func (s Static) RetentionDays(ctx context.Context) int     { return s.Retention }
