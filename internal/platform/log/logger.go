package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stderr)
	Console bool      // human readable output instead of JSON
}

var (
	mu   sync.Mutex
	base = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Configure replaces the global logger. The last call wins.
func Configure(cfg Config) {
	level := zerolog.InfoLevel
	raw := cfg.Level
	if raw == "" {
		raw = os.Getenv("LOG_LEVEL")
	}
	if raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if cfg.Console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen}
	}

	mu.Lock()
	defer mu.Unlock()
	base = zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}

// Nop discards everything; handy for tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
