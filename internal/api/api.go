// Package api assembles the services into the business API shared by the HTTP server and
// the command line.
package api

import (
	"github.com/rs/zerolog"

	"timestrap/internal/auth"
	"timestrap/internal/config"
	"timestrap/internal/mail"
	"timestrap/internal/repository/sqlstore"
	"timestrap/internal/services"
	"timestrap/internal/validation"
)

// Dependencies are the collaborators the business API is built from.
type Dependencies struct {
	Repo   sqlstore.Repository
	Config *config.Config
	Mailer mail.Mailer
	Tokens *auth.TokenManager
	Logger zerolog.Logger
}

// NewServiceContainer wires every service from deps
func NewServiceContainer(deps Dependencies) *services.ServiceContainer {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = mail.NewLogMailer(deps.Logger)
	}
	v := validation.NewValidatorWithConfig(cfg)

	return &services.ServiceContainer{
		AuthService:    services.NewAuthService(deps.Repo, deps.Tokens),
		WorklogService: services.NewWorklogService(deps.Repo, v),
		SubmissionService: services.NewSubmissionService(deps.Repo, mailer, services.SubmissionConfig{
			Recipients: cfg.Mail.TimesheetRecipients,
			LinkBase:   cfg.Mail.TimesheetLinkBase,
		}, v, deps.Logger.With().Str("component", "submission").Logger()),
		ExportService: services.NewExportService(deps.Repo, mailer, v, deps.Logger.With().Str("component", "export").Logger()),
	}
}

// New builds a BusinessAPI from deps
func New(deps Dependencies) BusinessAPI {
	return NewBusinessAPI(NewServiceContainer(deps))
}
