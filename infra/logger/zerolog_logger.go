package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// zerologLogger adapts rs/zerolog to the core logging interface. Output is
// human-readable console format when APP_ENV=dev and JSON otherwise; the
// minimum severity comes from LOG_LEVEL, defaulting to info so per-window
// debug detail stays opt-in on long runs.
type zerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger builds the logger for one component. Every line carries
// the component field so interleaved pipeline, solver and sink output can be
// separated in a single stream.
func NewZerologLogger(component string) Logger {
	return newZerolog(os.Stdout, component, os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
}

func newZerolog(w io.Writer, component, env, level string) Logger {
	if strings.EqualFold(env, "dev") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(w).Level(parseLevel(level)).With().
		Timestamp().Str("component", component).Logger()
	return &zerologLogger{log: z}
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *zerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *zerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *zerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
