package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// zerolog's default global logger has no level and would emit debug output before Setup runs.
func init() {
	log.Logger = log.Logger.Level(zerolog.InfoLevel)
}

// New builds a logger writing to w. format is "console" or "json".
func New(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if w == nil {
		w = os.Stderr
	}
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Setup installs the process-wide logger used by the log package and the debug helpers.
func Setup(level, format string, w io.Writer) error {
	logger, err := New(level, format, w)
	if err != nil {
		return err
	}
	log.Logger = logger
	return nil
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
