package logging

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects how the process logs.
type Options struct {
	// Level is a zap level name; unknown or empty means info.
	Level string
	// Format is "json" (default) or "console".
	Format string
	// Service is attached to every entry when set.
	Service string
}

// OptionsFromEnv reads LOG_LEVEL and LOG_FORMAT.
func OptionsFromEnv(service string) Options {
	return Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: service,
	}
}

// NewLogger builds the process logger for service from the environment.
func NewLogger(service string) (*zap.Logger, error) {
	return New(OptionsFromEnv(service))
}

// New builds a sampled logger writing to stdout.
func New(opts Options) (*zap.Logger, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format != "console" {
		format = "json"
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(opts.Level)),
		Sampling:         &zap.SamplingConfig{Initial: 100, Thereafter: 100},
		Encoding:         format,
		EncoderConfig:    encoderConfig(format),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if opts.Service != "" {
		cfg.InitialFields = map[string]any{"service": opts.Service}
	}
	return cfg.Build()
}

func parseLevel(name string) zapcore.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	var level zapcore.Level
	if name == "" || level.Set(name) != nil {
		return zapcore.InfoLevel
	}
	return level
}

func encoderConfig(format string) zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.StacktraceKey = "stack"
	enc.EncodeDuration = zapcore.StringDurationEncoder
	enc.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(t.UTC().Format(time.RFC3339Nano))
	}
	if format == "console" {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return enc
}
