// Package logger configures zerolog for the service and the CLI.
package logger

import (
	"io"
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

func init() {
	// .Stack() on an error event always renders a stack, attaching one at the
	// log site when the error was not built with pkg/errors.
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
}

// New returns a JSON logger on stdout tagged with service, and installs it as
// the global logger used by packages that log through zerolog/log.
func New(serviceName, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName, level)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(w io.Writer, serviceName, level string) zerolog.Logger {
	l := zerolog.New(w).With().
		Str("service", serviceName).
		Timestamp().
		Logger().
		Level(ParseLevel(level))
	log.Logger = l
	return l
}

// NewConsole returns a human-readable logger for interactive use and installs
// it globally.
func NewConsole(w io.Writer, debug bool) zerolog.Logger {
	lvl := zerolog.WarnLevel
	if debug {
		lvl = zerolog.DebugLevel
	}
	l := zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.DateTime,
	}).With().Timestamp().Logger().Level(lvl)
	log.Logger = l
	return l
}

// ParseLevel falls back to info for empty or unknown names.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
