package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
	"timestrap/internal/export"
	"timestrap/internal/mail"
	"timestrap/internal/repository/sqlstore"
	"timestrap/internal/validation"
)

// SubmissionConfig controls where submitted timesheets are sent
type SubmissionConfig struct {
	Recipients []string
	LinkBase   string
}

// submissionServiceImpl implements the SubmissionService interface
type submissionServiceImpl struct {
	repo      sqlstore.Repository
	mailer    mail.Mailer
	config    SubmissionConfig
	validator *validation.WorkLogValidator
	logger    zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService instance
func NewSubmissionService(repo sqlstore.Repository, mailer mail.Mailer, cfg SubmissionConfig, v *validation.Validator, logger zerolog.Logger) SubmissionService {
	return &submissionServiceImpl{
		repo:      repo,
		mailer:    mailer,
		config:    cfg,
		validator: validation.NewWorkLogValidator(v),
		logger:    logger,
	}
}

// Submit re-checks the bundle and mails the rendered timesheet with a PDF copy attached
func (s *submissionServiceImpl) Submit(ctx context.Context, bundle domain.TimesheetBundle) error {
	if err := s.validator.ValidateBundle(bundle); err != nil {
		return validation.ToAppError(err)
	}

	dbEmployee, err := s.repo.GetEmployeeByCode(ctx, bundle.Employee.EmployeeID)
	if err != nil {
		return err
	}
	employee := domain.NewEmployeeMapper().FromDatabase(*dbEmployee)
	if !employee.MatchesName(bundle.Employee.EmployeeName) {
		return errors.NewPermissionError("submit timesheet", "employee "+employee.Code)
	}

	total := bundle.TotalSeconds()
	if !bundle.Submittable() {
		return errors.NewValidationError(
			fmt.Sprintf("total %s is below the %s shift target of %s",
				domain.FormatClock(total), bundle.Shift, domain.FormatClock(bundle.Shift.TargetSeconds())),
			nil,
		).WithContext("totalSeconds", total)
	}

	log := s.logger.With().
		Str("employee", employee.Code).
		Str("date", bundle.Date).
		Str("shift", string(bundle.Shift)).
		Int64("total_seconds", total).
		Logger()

	if len(s.config.Recipients) == 0 {
		log.Warn().Msg("timesheet accepted but no recipients are configured")
		return nil
	}

	subject, html, text, err := mail.RenderTimesheet(bundle, s.config.LinkBase)
	if err != nil {
		return fmt.Errorf("render timesheet: %w", err)
	}
	pdf, err := export.TimesheetPDF(bundle)
	if err != nil {
		return err
	}

	msg := mail.Message{
		To:      s.config.Recipients,
		Subject: subject,
		HTML:    html,
		Text:    text,
		Attachments: []mail.Attachment{{
			Filename:    fmt.Sprintf("timesheet_%s_%s.pdf", employee.Code, bundle.Date),
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		if errors.IsAppError(err) {
			return err
		}
		return errors.NewDeliveryError("mail", err)
	}

	log.Info().Int("tasks", len(bundle.Tasks)).Msg("timesheet submitted")
	return nil
}
