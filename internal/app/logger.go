package app

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// FileLogger writes structured JSON lines, one per message, tagged with the component.
type FileLogger struct{ zl zerolog.Logger }

func NewFileLogger(w io.Writer) FileLogger {
	return FileLogger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

// NewConsoleLogger writes human readable lines, for running in a terminal.
func NewConsoleLogger(w io.Writer) FileLogger {
	return FileLogger{zl: zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()}
}

func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	l.zl.Info().Str("component", component).Msgf(format, args...)
}

func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	l.zl.Error().Str("component", component).Msgf(format, args...)
}
