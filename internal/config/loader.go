package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the loader, e.g.
// TIMESTRAP_DATABASE_DRIVER.
const EnvPrefix = "TIMESTRAP"

// Loader handles loading configuration from multiple sources
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader with every default registered
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, NewConfig())
	return &Loader{v: v}
}

// SetConfigFile sets an explicit YAML configuration file. An empty path disables it.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// BindFlag binds a command line flag to a configuration key such as "server.addr".
// A flag that was not set on the command line leaves lower layers in place.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for config key %q", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the config file, if any
// 3. Override with environment variables
// 4. Override with command line flags bound through BindFlag
func (l *Loader) Load() (*Config, error) {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file %s not found", l.configFile)
			}
			return nil, fmt.Errorf("read config file %s: %w", l.configFile, err)
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every field of cfg as a viper default so that environment
// variables are honoured for all keys.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.driver", cfg.Database.Driver)
	v.SetDefault("database.dsn", cfg.Database.DSN)
	v.SetDefault("database.dir", cfg.Database.Dir)
	v.SetDefault("database.filename", cfg.Database.Filename)
	v.SetDefault("database.query_timeout", cfg.Database.QueryTimeout)
	v.SetDefault("database.write_timeout", cfg.Database.WriteTimeout)
	v.SetDefault("database.dir_permissions", cfg.Database.DirPermissions)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.cors_origins", cfg.Server.CORSOrigins)
	v.SetDefault("server.require_auth", cfg.Server.RequireAuth)

	v.SetDefault("auth.jwt_secret", cfg.Auth.JWTSecret)
	v.SetDefault("auth.token_ttl", cfg.Auth.TokenTTL)
	v.SetDefault("auth.issuer", cfg.Auth.Issuer)

	v.SetDefault("mail.provider", cfg.Mail.Provider)
	v.SetDefault("mail.resend_api_key", cfg.Mail.ResendAPIKey)
	v.SetDefault("mail.from", cfg.Mail.From)
	v.SetDefault("mail.timesheet_recipients", cfg.Mail.TimesheetRecipients)
	v.SetDefault("mail.timesheet_link_base", cfg.Mail.TimesheetLinkBase)

	v.SetDefault("outbox.max_retries", cfg.Outbox.MaxRetries)
	v.SetDefault("outbox.base_retry_delay", cfg.Outbox.BaseRetryDelay)
	v.SetDefault("outbox.max_retry_delay", cfg.Outbox.MaxRetryDelay)
	v.SetDefault("outbox.poll_interval", cfg.Outbox.PollInterval)

	v.SetDefault("validation.title_max_length", cfg.Validation.TitleMaxLength)
	v.SetDefault("validation.project_max_length", cfg.Validation.ProjectMaxLength)
	v.SetDefault("validation.max_entry_duration", cfg.Validation.MaxEntryDuration)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("client.server_url", cfg.Client.ServerURL)
	v.SetDefault("client.request_timeout", cfg.Client.RequestTimeout)
}
