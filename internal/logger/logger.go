package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New() zerolog.Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter builds the service logger on top of w. The effective level
// is governed by zerolog's global level, which config.Load sets.
func NewWithWriter(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Str("service", "league-tracker").
		Logger()
}

var Module = fx.Provide(New)
