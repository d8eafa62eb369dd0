package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/weavelink/weavelink/config"
)

// New builds the process logger. JSON output is used in production or when
// LOG_FORMAT=json; LOG_FILE additionally tees JSON lines into a rotated file.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() || cfg.LogFormat == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zapConfig.Level = level
	}

	if cfg.LogFile == "" {
		return zapConfig.Build(zap.AddCaller())
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotated),
			zapConfig.Level,
		),
		zapcore.NewCore(
			consoleEncoder(zapConfig),
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		),
	)
	return zap.New(core, zap.AddCaller()), nil
}

func consoleEncoder(c zap.Config) zapcore.Encoder {
	if c.Encoding == "json" {
		return zapcore.NewJSONEncoder(c.EncoderConfig)
	}
	return zapcore.NewConsoleEncoder(c.EncoderConfig)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
