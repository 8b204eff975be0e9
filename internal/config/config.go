package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"timestrap/internal/repository/sqlstore"
)

// Config holds all configuration options for the timesheet service and its CLI clients
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Mail       MailConfig       `mapstructure:"mail"`
	Outbox     OutboxConfig     `mapstructure:"outbox"`
	Validation ValidationConfig `mapstructure:"validation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Client     ClientConfig     `mapstructure:"client"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"`
	DSN            string        `mapstructure:"dsn"`
	Dir            string        `mapstructure:"dir"`
	Filename       string        `mapstructure:"filename"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	DirPermissions uint32        `mapstructure:"dir_permissions"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     string        `mapstructure:"cors_origins"`
	RequireAuth     bool          `mapstructure:"require_auth"`
}

// AuthConfig holds login token configuration
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

// MailConfig holds email delivery configuration
type MailConfig struct {
	Provider            string   `mapstructure:"provider"`
	ResendAPIKey        string   `mapstructure:"resend_api_key"`
	From                string   `mapstructure:"from"`
	TimesheetRecipients []string `mapstructure:"timesheet_recipients"`
	TimesheetLinkBase   string   `mapstructure:"timesheet_link_base"`
}

// OutboxConfig holds retry policy for client-side persist intents
type OutboxConfig struct {
	MaxRetries     int           `mapstructure:"max_retries"`
	BaseRetryDelay time.Duration `mapstructure:"base_retry_delay"`
	MaxRetryDelay  time.Duration `mapstructure:"max_retry_delay"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength   int           `mapstructure:"title_max_length"`
	ProjectMaxLength int           `mapstructure:"project_max_length"`
	MaxEntryDuration time.Duration `mapstructure:"max_entry_duration"`
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClientConfig holds settings for CLI commands that talk to a running server
type ClientConfig struct {
	ServerURL      string        `mapstructure:"server_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Mail providers.
const (
	MailProviderLog    = "log"
	MailProviderResend = "resend"
)

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".timestrap")

	return &Config{
		Database: DatabaseConfig{
			Driver:         string(sqlstore.DialectSQLite),
			Dir:            defaultDBDir,
			Filename:       "timestrap.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Server: ServerConfig{
			Addr:            ":5000",
			ShutdownTimeout: 30 * time.Second,
			CORSOrigins:     "*",
			RequireAuth:     false,
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
			Issuer:   "timestrap",
		},
		Mail: MailConfig{
			Provider:            MailProviderLog,
			From:                "Timesheet <onboarding@resend.dev>",
			TimesheetRecipients: []string{},
			TimesheetLinkBase:   "http://localhost:3000",
		},
		Outbox: OutboxConfig{
			MaxRetries:     5,
			BaseRetryDelay: 2 * time.Second,
			MaxRetryDelay:  2 * time.Minute,
			PollInterval:   5 * time.Second,
		},
		Validation: ValidationConfig{
			TitleMaxLength:   255,
			ProjectMaxLength: 255,
			MaxEntryDuration: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Client: ClientConfig{
			ServerURL:      "http://localhost:5000",
			RequestTimeout: 15 * time.Second,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetDSN returns the data source name for the configured driver
func (c *Config) GetDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return c.GetDatabasePath()
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	dialect, err := sqlstore.ParseDialect(c.Database.Driver)
	if err != nil {
		return &ConfigError{Field: "database.driver", Message: err.Error()}
	}
	if dialect == sqlstore.DialectPostgres && c.Database.DSN == "" {
		return &ConfigError{Field: "database.dsn", Message: "dsn is required for postgres"}
	}
	if dialect == sqlstore.DialectSQLite && c.Database.DSN == "" {
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}
	if c.Server.RequireAuth && c.Auth.JWTSecret == "" {
		return &ConfigError{Field: "auth.jwt_secret", Message: "a signing secret is required when server.require_auth is set"}
	}
	if c.Auth.TokenTTL <= 0 {
		return &ConfigError{Field: "auth.token_ttl", Message: "token ttl must be positive"}
	}

	// Validate mail configuration
	switch c.Mail.Provider {
	case MailProviderLog:
	case MailProviderResend:
		if c.Mail.ResendAPIKey == "" {
			return &ConfigError{Field: "mail.resend_api_key", Message: "api key is required for the resend provider"}
		}
		if c.Mail.From == "" {
			return &ConfigError{Field: "mail.from", Message: "sender address cannot be empty"}
		}
		if len(c.Mail.TimesheetRecipients) == 0 {
			return &ConfigError{Field: "mail.timesheet_recipients", Message: "at least one recipient is required for the resend provider"}
		}
	default:
		return &ConfigError{Field: "mail.provider", Message: "provider must be one of log, resend"}
	}

	// Validate outbox configuration
	if c.Outbox.MaxRetries < 0 {
		return &ConfigError{Field: "outbox.max_retries", Message: "max retries cannot be negative"}
	}
	if c.Outbox.BaseRetryDelay <= 0 {
		return &ConfigError{Field: "outbox.base_retry_delay", Message: "base retry delay must be positive"}
	}
	if c.Outbox.MaxRetryDelay < c.Outbox.BaseRetryDelay {
		return &ConfigError{Field: "outbox.max_retry_delay", Message: "max retry delay must not be less than the base delay"}
	}
	if c.Outbox.PollInterval <= 0 {
		return &ConfigError{Field: "outbox.poll_interval", Message: "poll interval must be positive"}
	}

	// Validate validation configuration
	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}
	if c.Validation.ProjectMaxLength < 1 {
		return &ConfigError{Field: "validation.project_max_length", Message: "project maximum length must be at least 1"}
	}
	if c.Validation.MaxEntryDuration <= 0 {
		return &ConfigError{Field: "validation.max_entry_duration", Message: "max entry duration must be positive"}
	}

	// Validate logging configuration
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "format must be console or json"}
	}

	// Validate client configuration
	if c.Client.RequestTimeout <= 0 {
		return &ConfigError{Field: "client.request_timeout", Message: "request timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
