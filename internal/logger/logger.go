// Package logger wraps zerolog.Logger for the settingsgen CLI and stores.
// Library packages that only transform data do not log.
package logger

import (
	"context"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger so the full zerolog API is available.
type Logger struct {
	zerolog.Logger
}

var configureOnce sync.Once

func configure() {
	configureOnce.Do(func() {
		zerolog.CallerMarshalFunc = func(pc uintptr, _ string, _ int) string {
			return runtime.FuncForPC(pc).Name()
		}
		zerolog.CallerFieldName = "func"
	})
}

// NewLogger returns a JSON logger writing to w (os.Stderr when nil) with a
// role field, a timestamp, and the calling function name. level accepts
// zerolog level names; unknown or empty names mean info.
func NewLogger(role, level string, w io.Writer) *Logger {
	configure()
	if w == nil {
		w = os.Stderr
	}

	logger := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// ParseLevel maps a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a Logger inheriting the receiver's fields.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// Component returns a child Logger tagged with a component field.
func (l *Logger) Component(name string) *Logger {
	return &Logger{l.With().Str("component", name).Logger()}
}

// WithContext attaches l to ctx for FromContext.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext returns the Logger attached to ctx. Without one it returns a
// disabled logger, never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

// OrNop returns l, or a Nop logger when l is nil.
func OrNop(l *Logger) *Logger {
	if l == nil {
		return Nop()
	}
	return l
}
