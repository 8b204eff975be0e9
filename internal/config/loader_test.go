package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, NewConfig().Server, cfg.Server)
	assert.Equal(t, NewConfig().Outbox, cfg.Outbox)
}

func TestLoader_Environment(t *testing.T) {
	t.Setenv("TIMESTRAP_SERVER_ADDR", ":8080")
	t.Setenv("TIMESTRAP_DATABASE_QUERY_TIMEOUT", "3s")
	t.Setenv("TIMESTRAP_MAIL_TIMESHEET_RECIPIENTS", "a@example.com,b@example.com")
	t.Setenv("TIMESTRAP_SERVER_REQUIRE_AUTH", "true")
	t.Setenv("TIMESTRAP_AUTH_JWT_SECRET", "s3cret")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Mail.TimesheetRecipients)
	assert.True(t, cfg.Server.RequireAuth)
}

func TestLoader_ConfigFileThenEnvThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timestrap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7000"
  cors_origins: "https://app.example.com"
logging:
  level: debug
outbox:
  max_retries: 9
`), 0o600))
	t.Setenv("TIMESTRAP_LOGGING_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", ":5000", "")
	require.NoError(t, flags.Parse([]string{"--addr", ":9000"}))

	loader := NewLoader()
	loader.SetConfigFile(path)
	require.NoError(t, loader.BindFlag("server.addr", flags.Lookup("addr")))

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "https://app.example.com", cfg.Server.CORSOrigins)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 9, cfg.Outbox.MaxRetries)
}

func TestLoader_UnsetFlagKeepsLowerLayers(t *testing.T) {
	t.Setenv("TIMESTRAP_SERVER_ADDR", ":8081")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", ":5000", "")
	require.NoError(t, flags.Parse(nil))

	loader := NewLoader()
	require.NoError(t, loader.BindFlag("server.addr", flags.Lookup("addr")))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Server.Addr)
}

func TestLoader_MissingConfigFile(t *testing.T) {
	loader := NewLoader()
	loader.SetConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := loader.Load()
	assert.Error(t, err)
}

func TestLoader_InvalidValueFailsValidation(t *testing.T) {
	t.Setenv("TIMESTRAP_MAIL_PROVIDER", "pigeon")

	_, err := NewLoader().Load()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "mail.provider", cfgErr.Field)
}

func TestLoader_BindFlagNil(t *testing.T) {
	assert.Error(t, NewLoader().BindFlag("server.addr", nil))
}
