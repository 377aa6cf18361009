package output

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger writing to w. The level is Info, or
// Debug when verbose is set; Debug lines include every external command
// niksi runs.
func NewLogger(w io.Writer, verbose, color bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
