// Package logger builds the process-wide zerolog logger and the pgx query
// tracer that writes through it.
package logger

import (
	"io"
	"os"
	"time"

	zerologadapter "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// New returns a logger at the given level. The local environment gets a
// human-readable console writer, everything else gets JSON lines.
func New(level, env string) zerolog.Logger {
	return NewWithWriter(level, env, os.Stdout)
}

func NewWithWriter(level, env string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if env == "local" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "animelist").Logger()
}

// NewPgxTracer adapts l to pgx's tracelog so every query is logged at the
// logger's level.
func NewPgxTracer(l zerolog.Logger) *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger:   zerologadapter.NewLogger(l.With().Str("component", "pgx").Logger()),
		LogLevel: pgxLevel(l.GetLevel()),
	}
}

func pgxLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}
