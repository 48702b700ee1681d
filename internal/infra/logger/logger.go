// internal/infra/logger/logger.go
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"bulkminter/internal/infra/config"
)

var (
	Log   *zap.Logger
	Sugar *zap.SugaredLogger
)

// Init はアプリケーションロガーを初期化します。
// LOG_DIR が設定されていればローテーション付きでファイルにも書き、
// 標準 log パッケージの出力もここへリダイレクトします
// （usecase 層は log.Printf を使うため）。
func Init(cfg *config.Config, filename string) func() {
	encoderConf := zap.NewProductionEncoderConfig()
	encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConf)

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if cfg != nil && cfg.LogDir != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, filename),
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			LocalTime:  true,
		}))
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.NewMultiWriteSyncer(syncers...),
		zap.NewAtomicLevelAt(parseLevel(cfg)),
	)
	Log = zap.New(core, zap.AddCaller())
	Sugar = Log.Sugar()

	restore := zap.RedirectStdLog(Log)
	return func() {
		restore()
		_ = Log.Sync()
	}
}

func parseLevel(cfg *config.Config) zapcore.Level {
	if cfg == nil {
		return zap.InfoLevel
	}
	switch cfg.LogLevel {
	case "debug", "DEBUG":
		return zap.DebugLevel
	case "warn", "WARN":
		return zap.WarnLevel
	case "error", "ERROR":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
