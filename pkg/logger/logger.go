package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mariagaitan/condoflow-backend/pkg/env"
)

type ctxKey struct{}

// Logger wraps a zerolog.Logger so callers never import zerolog directly.
type Logger struct {
	zl zerolog.Logger
}

// New builds the root logger. LOG_FORMAT=console switches to the
// human-readable writer for local development; anything else emits JSON.
func New(service string) *Logger {
	var zl zerolog.Logger
	if strings.EqualFold(env.Get("LOG_FORMAT", ""), "console") {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		zl = zerolog.New(writer)
	} else {
		zl = zerolog.New(os.Stderr)
	}

	zl = zl.With().
		Timestamp().
		Str("service", service).
		Logger()

	return &Logger{zl: zl}
}

// Attach stores the logger in the context so downstream code can
// recover it with FromContext.
func (l *Logger) Attach(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx, or a bare root
// logger when none was attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
		return l
	}
	return New("unknown")
}

// WithField returns a child logger carrying one extra field.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// WithFields returns a child logger carrying the given fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zl: ctx.Logger()}
}

func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{zl: l.zl.With().Str("request_id", id).Logger()}
}

func (l *Logger) WithUserID(id string) *Logger {
	return &Logger{zl: l.zl.With().Str("user_id", id).Logger()}
}

func (l *Logger) WithTenantID(id string) *Logger {
	return &Logger{zl: l.zl.With().Str("tenant_id", id).Logger()}
}

func (l *Logger) WithBuildingID(id string) *Logger {
	return &Logger{zl: l.zl.With().Str("building_id", id).Logger()}
}

func (l *Logger) WithUnitID(id string) *Logger {
	return &Logger{zl: l.zl.With().Str("unit_id", id).Logger()}
}

func (l *Logger) Debug(msg string) {
	l.zl.Debug().Msg(msg)
}

func (l *Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

func (l *Logger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
}

func (l *Logger) Error(err error, msg string) {
	l.zl.Error().Err(err).Msg(msg)
}

func (l *Logger) Fatal(err error, msg string) {
	l.zl.Fatal().Err(err).Msg(msg)
}
