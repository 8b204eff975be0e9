package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func withLogger(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()
	previous := log.Logger
	buf := &bytes.Buffer{}
	log.Logger = zerolog.New(buf).Level(level)
	t.Cleanup(func() { log.Logger = previous })
	return buf
}

func TestDebugEnabled_OffBeforeSetup(t *testing.T) {
	t.Setenv("TIMESTRAP_DEBUG", "")

	assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())
	assert.False(t, DebugEnabled())
}

func TestDebugEnabled(t *testing.T) {
	withLogger(t, zerolog.InfoLevel)

	t.Setenv("TIMESTRAP_DEBUG", "")
	assert.False(t, DebugEnabled())

	t.Setenv("TIMESTRAP_DEBUG", "1")
	assert.True(t, DebugEnabled())
}

func TestDebugEnabled_FollowsLoggerLevel(t *testing.T) {
	t.Setenv("TIMESTRAP_DEBUG", "")
	withLogger(t, zerolog.DebugLevel)

	assert.True(t, DebugEnabled())
}

func TestDebugf(t *testing.T) {
	t.Setenv("TIMESTRAP_DEBUG", "")
	buf := withLogger(t, zerolog.InfoLevel)

	Debugf("hidden %s\n", "message")
	assert.Empty(t, buf.String())

	t.Setenv("TIMESTRAP_DEBUG", "1")
	Debugf("visible %s\n", "message")
	assert.Contains(t, buf.String(), `"message":"visible message"`)
	assert.Contains(t, buf.String(), `"level":"debug"`)
}

func TestDebugln(t *testing.T) {
	t.Setenv("TIMESTRAP_DEBUG", "1")
	buf := withLogger(t, zerolog.InfoLevel)

	Debugln("migration", 3, "applied")
	assert.Contains(t, buf.String(), "migration 3 applied")
}
