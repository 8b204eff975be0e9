package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DebugEnabled returns true if debug mode is enabled via TIMESTRAP_DEBUG or the global
// logger is at debug level or below
func DebugEnabled() bool {
	return os.Getenv("TIMESTRAP_DEBUG") != "" || log.Logger.GetLevel() <= zerolog.DebugLevel
}

// Debugf logs a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		debugEvent().Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
	}
}

// Debugln logs a debug message only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		debugEvent().Msg(strings.TrimRight(fmt.Sprintln(args...), "\n"))
	}
}

// debugEvent bypasses the logger's level so TIMESTRAP_DEBUG works without lowering it.
func debugEvent() *zerolog.Event {
	return log.Logger.Log().Str(zerolog.LevelFieldName, zerolog.DebugLevel.String())
}
