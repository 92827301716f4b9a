// Package logging provides the diagnostic logger used across comsetup.
// Diagnostics go to stderr and are separate from the operator-facing
// session log written by package sessionlog.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var global = zerolog.New(io.Discard).Level(zerolog.Disabled)

// Config controls diagnostic output.
type Config struct {
	Level  string    `json:"level,omitempty"`
	Debug  bool      `json:"debug,omitempty"`
	Output io.Writer `json:"-"`
}

// Init configures the global diagnostic logger.
func Init(cfg Config) error {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	} else if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
	}

	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}

	console := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: time.TimeOnly,
	}

	global = zerolog.New(console).Level(level).With().Timestamp().Logger()
	return nil
}

// Get returns the global diagnostic logger.
func Get() zerolog.Logger {
	return global
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(component string) zerolog.Logger {
	return global.With().Str("component", component).Logger()
}

// Nop returns a logger that discards everything. Intended for tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
