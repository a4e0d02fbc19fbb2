// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"tradelytics/internal/config"
)

// NewLogger creates a logger from the application logging configuration:
// an optional console writer plus an optional rotating file writer.
func NewLogger(cfg config.LoggingConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File && cfg.FilePath != "" {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0o755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stderr
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	return zerolog.New(writer).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithComponent tags a logger with the component emitting the events.
func WithComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// LogImport logs the outcome of a CSV import batch.
func LogImport(logger zerolog.Logger, imported, skipped int) {
	logger.Info().
		Str("event", "import").
		Int("imported", imported).
		Int("skipped", skipped).
		Msg("CSV import complete")
}

// LogReconciliation logs a reconciliation outcome per dimension.
func LogReconciliation(logger zerolog.Logger, dimension string, ok bool, tradeTotal, aggregateTotal float64) {
	event := logger.Info()
	if !ok {
		event = logger.Warn()
	}
	event.
		Str("event", "reconciliation").
		Str("dimension", dimension).
		Bool("ok", ok).
		Float64("trade_total", tradeTotal).
		Float64("aggregate_total", aggregateTotal).
		Msg("Aggregation reconciliation")
}
