package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process-wide JSON logger, writing to a size-rotated
// file under logDir. Set LOG_DEBUG=1 to lower the level.
func NewLogger(logDir string) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, "watchdog.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})
	level := zap.InfoLevel
	if os.Getenv("LOG_DEBUG") == "1" {
		level = zap.DebugLevel
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, level)
	return zap.New(core), nil
}
