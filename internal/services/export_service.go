package services

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
	"timestrap/internal/export"
	"timestrap/internal/mail"
	"timestrap/internal/repository/sqlstore"
	"timestrap/internal/validation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportServiceImpl implements the ExportService interface
type exportServiceImpl struct {
	repo      sqlstore.Repository
	mailer    mail.Mailer
	validator *validation.WorkLogValidator
	worklogs  *domain.WorkLogMapper
	employees *domain.EmployeeMapper
	logger    zerolog.Logger
}

// NewExportService creates a new ExportService instance
func NewExportService(repo sqlstore.Repository, mailer mail.Mailer, v *validation.Validator, logger zerolog.Logger) ExportService {
	return &exportServiceImpl{
		repo:      repo,
		mailer:    mailer,
		validator: validation.NewWorkLogValidator(v),
		worklogs:  domain.NewWorkLogMapper(),
		employees: domain.NewEmployeeMapper(),
		logger:    logger,
	}
}

// Workbook loads the tables selected by table concurrently and renders them as xlsx
func (s *exportServiceImpl) Workbook(ctx context.Context, table export.Table) ([]byte, error) {
	var ds export.Dataset
	g, gctx := errgroup.WithContext(ctx)

	needLogs := false
	for _, t := range table.Expand() {
		switch t {
		case export.TableEmployees:
			g.Go(func() error {
				employees, err := s.repo.ListEmployees(gctx)
				if err != nil {
					return err
				}
				ds.Employees = s.employees.FromDatabaseSlice(employees)
				return nil
			})
		case export.TableProjects:
			g.Go(func() error {
				projects, err := s.repo.ListProjects(gctx)
				if err != nil {
					return err
				}
				ds.Projects = make([]domain.Project, len(projects))
				for i, p := range projects {
					ds.Projects[i] = domain.Project{ID: p.ID, Name: p.Name, Description: p.Description}
				}
				return nil
			})
		case export.TableWorkLogs, export.TableTimeEntries:
			needLogs = true
		}
	}

	// Time entries are exported through their work logs.
	if needLogs {
		g.Go(func() error {
			logs, err := s.repo.ListWorkLogs(gctx)
			if err != nil {
				return err
			}
			entries, err := s.repo.ListTimeEntries(gctx)
			if err != nil {
				return err
			}
			ds.WorkLogs = s.worklogs.FromDatabaseSlice(logs, entries)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return export.Workbook(ds, table)
}

// EmailWorkbook sends the work log workbook to a single address
func (s *exportServiceImpl) EmailWorkbook(ctx context.Context, to string) error {
	if err := s.validator.ValidateEmail(to); err != nil {
		return validation.ToAppError(err)
	}

	data, err := s.Workbook(ctx, export.TableWorkLogs)
	if err != nil {
		return err
	}

	msg := mail.Message{
		To:      []string{to},
		Subject: "Work Logs Export",
		HTML:    "<p>Please find the attached work logs export.</p>",
		Text:    "Please find the attached work logs export.",
		Attachments: []mail.Attachment{{
			Filename:    export.TableWorkLogs.Filename(),
			ContentType: xlsxContentType,
			Content:     data,
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		if errors.IsAppError(err) {
			return err
		}
		return errors.NewDeliveryError("mail", err)
	}

	s.logger.Info().Str("to", to).Int("bytes", len(data)).Msg("work log export sent")
	return nil
}
