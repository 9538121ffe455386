package lib

import (
	"os"
	"path"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger. Outside production the console output
// is colored; in every environment records are also rotated into logDir.
func NewLogger(env, logDir string) *zap.Logger {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config.EncoderConfig),
		zapcore.Lock(os.Stdout),
		config.Level,
	)
	if logDir == "" {
		return zap.New(console, zap.AddCaller())
	}

	fileEncoder := zap.NewProductionEncoderConfig()
	fileEncoder.EncodeTime = zapcore.ISO8601TimeEncoder
	file := zapcore.NewCore(
		zapcore.NewJSONEncoder(fileEncoder),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   path.Join(logDir, "server.log"),
			MaxSize:    500,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		}),
		config.Level,
	)
	return zap.New(zapcore.NewTee(console, file), zap.AddCaller())
}

// InitLogger installs the logger as the zap global and returns a flush func.
func InitLogger(env, logDir string) func() {
	logger := NewLogger(env, logDir)
	undo := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		undo()
	}
}
