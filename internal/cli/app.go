// Package cli implements the timestrap command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"timestrap/internal/api"
	"timestrap/internal/auth"
	"timestrap/internal/config"
	"timestrap/internal/mail"
	"timestrap/internal/repository/sqlstore"
	"timestrap/internal/tracker"
	"timestrap/internal/validation"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// Command is a CLI command handler
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// App holds what the commands share: configuration, output and the lazily opened backend
type App struct {
	config *config.Config
	out    io.Writer
	logger zerolog.Logger

	store  *sqlstore.Store
	mailer mail.Mailer
	tokens *auth.TokenManager
	api    api.BusinessAPI
}

// NewApp creates an application that opens the configured database on first use
func NewApp(cfg *config.Config, out io.Writer, logger zerolog.Logger) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{config: cfg, out: out, logger: logger}
}

// NewAppWithStore creates an application over an already open store and mailer
func NewAppWithStore(cfg *config.Config, store *sqlstore.Store, mailer mail.Mailer, out io.Writer, logger zerolog.Logger) *App {
	app := NewApp(cfg, out, logger)
	app.store = store
	app.mailer = mailer
	return app
}

// Config returns the effective configuration
func (a *App) Config() *config.Config {
	return a.config
}

// Store opens the database if needed and returns it
func (a *App) Store(ctx context.Context) (*sqlstore.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := config.CreateRepository(ctx, a.config)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// BusinessAPI builds the business API over the store on first use
func (a *App) BusinessAPI(ctx context.Context) (api.BusinessAPI, error) {
	if a.api != nil {
		return a.api, nil
	}
	store, err := a.Store(ctx)
	if err != nil {
		return nil, err
	}
	if a.mailer == nil {
		mailer, err := mail.New(a.config.Mail, a.logger.With().Str("component", "mail").Logger())
		if err != nil {
			return nil, err
		}
		a.mailer = mailer
	}

	a.api = api.New(api.Dependencies{
		Repo:   store,
		Config: a.config,
		Mailer: a.mailer,
		Tokens: a.Tokens(),
		Logger: a.logger,
	})
	return a.api, nil
}

// Tokens returns the login token manager of the configuration
func (a *App) Tokens() *auth.TokenManager {
	if a.tokens == nil {
		a.tokens = auth.NewTokenManager(auth.Config{
			Secret: a.config.Auth.JWTSecret,
			TTL:    a.config.Auth.TokenTTL,
			Issuer: a.config.Auth.Issuer,
		})
	}
	return a.tokens
}

// Close releases the database if one was opened
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	a.api = nil
	return err
}

func (a *App) clock() tracker.Clock {
	return tracker.ClockFunc(func() time.Time { return timeNow() })
}

func (a *App) validator() *validation.Validator {
	return validation.NewValidatorWithConfig(a.config)
}

// formatDuration renders seconds as "Xh Ym"
func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
