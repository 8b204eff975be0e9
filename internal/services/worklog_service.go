package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
	"timestrap/internal/repository/sqlstore"
	"timestrap/internal/validation"
)

// timeNow is replaced in tests to pin creation timestamps
var timeNow = time.Now

// worklogServiceImpl implements the WorklogService interface
type worklogServiceImpl struct {
	repo       sqlstore.Repository
	worklogs   *domain.WorkLogMapper
	entries    *domain.TimeEntryMapper
	employees  *domain.EmployeeMapper
	validator  *validation.WorkLogValidator
	entryCheck *validation.TimeEntryValidator
}

// NewWorklogService creates a new WorklogService instance
func NewWorklogService(repo sqlstore.Repository, v *validation.Validator) WorklogService {
	return &worklogServiceImpl{
		repo:       repo,
		worklogs:   domain.NewWorkLogMapper(),
		entries:    domain.NewTimeEntryMapper(),
		employees:  domain.NewEmployeeMapper(),
		validator:  validation.NewWorkLogValidator(v),
		entryCheck: validation.NewTimeEntryValidator(v),
	}
}

// fromRequest builds an unsaved domain work log from a request
func fromRequest(req WorklogRequest) domain.WorkLog {
	tools := make([]string, 0, len(req.Tools))
	for _, t := range req.Tools {
		if t = strings.TrimSpace(t); t != "" {
			tools = append(tools, t)
		}
	}
	entries := make([]domain.TimeEntry, len(req.TimeEntries))
	for i, e := range req.TimeEntries {
		entries[i] = domain.TimeEntry{StartTime: e.StartTime.UTC(), EndTime: e.EndTime.UTC()}
	}
	w := domain.WorkLog{
		ProjectName:       strings.TrimSpace(req.Project),
		Title:             strings.TrimSpace(req.Title),
		Description:       strings.TrimSpace(req.Description),
		Tools:             tools,
		Shift:             domain.Shift(strings.TrimSpace(req.Shift)),
		CompletionPercent: req.CompletionPercent,
		IsComplete:        req.IsComplete,
		Date:              strings.TrimSpace(req.Date),
		TimeEntries:       entries,
	}
	w.RecomputeTotal()
	return w
}

// Create validates the request and stores the work log with all its entries in one transaction
func (s *worklogServiceImpl) Create(ctx context.Context, req WorklogRequest) (*domain.WorkLog, error) {
	code := strings.TrimSpace(req.EmployeeCode)
	w := fromRequest(req)
	if err := s.validator.ValidateWorkLog(code, w); err != nil {
		return nil, validation.ToAppError(err)
	}

	err := s.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		employee, err := tx.GetEmployeeByCode(ctx, code)
		if err != nil {
			return err
		}
		project, err := tx.GetOrCreateProject(ctx, w.ProjectName)
		if err != nil {
			return err
		}

		w.EmployeeID = employee.ID
		w.EmployeeCode = employee.Code
		w.EmployeeName = employee.Name
		w.ProjectID = &project.ID
		w.CreatedAt = timeNow().UTC()

		dbLog := s.worklogs.ToDatabase(w)
		if err := tx.CreateWorkLog(ctx, &dbLog); err != nil {
			return err
		}
		w.ID = dbLog.ID

		return s.insertEntries(ctx, tx, &w)
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *worklogServiceImpl) insertEntries(ctx context.Context, tx sqlstore.Repository, w *domain.WorkLog) error {
	for i, e := range w.TimeEntries {
		dbEntry := s.entries.ToDatabase(w.ID, e)
		dbEntry.ID = 0
		if err := tx.CreateTimeEntry(ctx, &dbEntry); err != nil {
			return err
		}
		w.TimeEntries[i].ID = strconv.FormatInt(dbEntry.ID, 10)
	}
	return nil
}

// load fetches work logs and attaches their time entries
func (s *worklogServiceImpl) load(ctx context.Context, repo sqlstore.Repository, logs []*sqlstore.WorkLog) ([]domain.WorkLog, error) {
	ids := make([]int64, len(logs))
	for i, w := range logs {
		ids[i] = w.ID
	}
	entries, err := repo.ListTimeEntriesForWorkLogs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.worklogs.FromDatabaseSlice(logs, entries), nil
}

func (s *worklogServiceImpl) get(ctx context.Context, repo sqlstore.Repository, id int64) (*domain.WorkLog, error) {
	dbLog, err := repo.GetWorkLog(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.load(ctx, repo, []*sqlstore.WorkLog{dbLog})
	if err != nil {
		return nil, err
	}
	return &logs[0], nil
}

// Get retrieves a work log with its time entries
func (s *worklogServiceImpl) Get(ctx context.Context, id int64) (*domain.WorkLog, error) {
	if id <= 0 {
		return nil, errors.NewValidationError("invalid work log ID", nil)
	}
	return s.get(ctx, s.repo, id)
}

// List retrieves every work log, newest day first
func (s *worklogServiceImpl) List(ctx context.Context) ([]domain.WorkLog, error) {
	logs, err := s.repo.ListWorkLogs(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, s.repo, logs)
}

// ListForEmployee retrieves the work logs of one employee, optionally for a single date
func (s *worklogServiceImpl) ListForEmployee(ctx context.Context, employeeCode, date string) ([]domain.WorkLog, error) {
	code := strings.TrimSpace(employeeCode)
	date = strings.TrimSpace(date)

	ve := validation.NewValidationError()
	ve.Merge(s.validator.ValidateEmployeeCode(code))
	if date != "" {
		ve.Merge(s.validator.ValidateDate(date))
	}
	if err := ve.Result(); err != nil {
		return nil, validation.ToAppError(err)
	}

	employee, err := s.repo.GetEmployeeByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	opts := sqlstore.SearchOptions{EmployeeID: &employee.ID}
	if date != "" {
		opts.Date = &date
	}
	logs, err := s.repo.SearchWorkLogs(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, s.repo, logs)
}

// Update replaces the editable fields of a work log. When the request carries time entries
// they replace the stored ones; otherwise the stored entries are kept.
func (s *worklogServiceImpl) Update(ctx context.Context, id int64, req WorklogRequest) (*domain.WorkLog, error) {
	if id <= 0 {
		return nil, errors.NewValidationError("invalid work log ID", nil)
	}

	var updated domain.WorkLog
	err := s.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		existing, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}

		w := fromRequest(req)
		replaceEntries := len(req.TimeEntries) > 0
		if !replaceEntries {
			w.TimeEntries = existing.TimeEntries
			w.RecomputeTotal()
		}
		if err := s.validator.ValidateWorkLog(existing.EmployeeCode, w); err != nil {
			return validation.ToAppError(err)
		}

		project, err := tx.GetOrCreateProject(ctx, w.ProjectName)
		if err != nil {
			return err
		}
		w.ID = existing.ID
		w.EmployeeID = existing.EmployeeID
		w.EmployeeCode = existing.EmployeeCode
		w.EmployeeName = existing.EmployeeName
		w.CreatedAt = existing.CreatedAt
		w.ProjectID = &project.ID

		dbLog := s.worklogs.ToDatabase(w)
		if err := tx.UpdateWorkLog(ctx, &dbLog); err != nil {
			return err
		}
		if replaceEntries {
			if err := tx.DeleteTimeEntriesForWorkLog(ctx, id); err != nil {
				return err
			}
			if err := s.insertEntries(ctx, tx, &w); err != nil {
				return err
			}
		}
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a work log and its time entries
func (s *worklogServiceImpl) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.NewValidationError("invalid work log ID", nil)
	}
	return s.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		if _, err := tx.GetWorkLog(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteTimeEntriesForWorkLog(ctx, id); err != nil {
			return err
		}
		return tx.DeleteWorkLog(ctx, id)
	})
}

// recomputeTotal stores the sum of per-entry minutes of a work log
func (s *worklogServiceImpl) recomputeTotal(ctx context.Context, tx sqlstore.Repository, worklogID int64) error {
	entries, err := tx.ListTimeEntriesForWorkLogs(ctx, []int64{worklogID})
	if err != nil {
		return err
	}
	w := domain.WorkLog{TimeEntries: s.entries.FromDatabaseSlice(entries)}
	w.RecomputeTotal()
	return tx.UpdateWorkLogTotal(ctx, worklogID, w.TotalMinutes)
}

func (s *worklogServiceImpl) checkEntry(entry TimeEntryInput) error {
	if err := s.entryCheck.ValidateTimeRange("timeEntry", entry.StartTime, entry.EndTime); err != nil {
		return validation.ToAppError(err)
	}
	return nil
}

// AddTimeEntry appends a time entry to a work log
func (s *worklogServiceImpl) AddTimeEntry(ctx context.Context, worklogID int64, entry TimeEntryInput) (*domain.TimeEntry, error) {
	if worklogID <= 0 {
		return nil, errors.NewValidationError("invalid work log ID", nil)
	}
	if err := s.checkEntry(entry); err != nil {
		return nil, err
	}

	dbEntry := sqlstore.TimeEntry{
		WorklogID: worklogID,
		StartTime: entry.StartTime.UTC(),
		EndTime:   entry.EndTime.UTC(),
	}
	err := s.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		if _, err := tx.GetWorkLog(ctx, worklogID); err != nil {
			return err
		}
		if err := tx.CreateTimeEntry(ctx, &dbEntry); err != nil {
			return err
		}
		return s.recomputeTotal(ctx, tx, worklogID)
	})
	if err != nil {
		return nil, err
	}

	result := s.entries.FromDatabase(dbEntry)
	return &result, nil
}

// TimeEntryWorkLog returns the id of the work log a time entry belongs to
func (s *worklogServiceImpl) TimeEntryWorkLog(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, errors.NewValidationError("invalid time entry ID", nil)
	}
	dbEntry, err := s.repo.GetTimeEntry(ctx, id)
	if err != nil {
		return 0, err
	}
	return dbEntry.WorklogID, nil
}

// UpdateTimeEntry replaces the start and end of a time entry
func (s *worklogServiceImpl) UpdateTimeEntry(ctx context.Context, id int64, entry TimeEntryInput) (*domain.TimeEntry, error) {
	if id <= 0 {
		return nil, errors.NewValidationError("invalid time entry ID", nil)
	}
	if err := s.checkEntry(entry); err != nil {
		return nil, err
	}

	var dbEntry *sqlstore.TimeEntry
	err := s.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		var err error
		dbEntry, err = tx.GetTimeEntry(ctx, id)
		if err != nil {
			return err
		}
		dbEntry.StartTime = entry.StartTime.UTC()
		dbEntry.EndTime = entry.EndTime.UTC()
		if err := tx.UpdateTimeEntry(ctx, dbEntry); err != nil {
			return err
		}
		return s.recomputeTotal(ctx, tx, dbEntry.WorklogID)
	})
	if err != nil {
		return nil, err
	}

	result := s.entries.FromDatabase(*dbEntry)
	return &result, nil
}

// DeleteTimeEntry removes a time entry. The last entry of a work log cannot be removed.
func (s *worklogServiceImpl) DeleteTimeEntry(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.NewValidationError("invalid time entry ID", nil)
	}
	return s.repo.WithTx(ctx, func(tx sqlstore.Repository) error {
		dbEntry, err := tx.GetTimeEntry(ctx, id)
		if err != nil {
			return err
		}
		count, err := tx.CountTimeEntries(ctx, dbEntry.WorklogID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return errors.NewConflictError("delete time entry", "a work log must keep at least one time entry")
		}
		if err := tx.DeleteTimeEntry(ctx, id); err != nil {
			return err
		}
		return s.recomputeTotal(ctx, tx, dbEntry.WorklogID)
	})
}

// DaySummary accumulates an employee's stored work for one date against a shift target
func (s *worklogServiceImpl) DaySummary(ctx context.Context, employeeCode, date, shift string) (*domain.DaySummary, error) {
	ve := validation.NewValidationError()
	ve.Merge(s.validator.ValidateEmployeeCode(strings.TrimSpace(employeeCode)))
	ve.Merge(s.validator.ValidateDate(strings.TrimSpace(date)))
	ve.Merge(s.validator.ValidateShift(shift))
	if err := ve.Result(); err != nil {
		return nil, validation.ToAppError(err)
	}

	parsedShift, _ := domain.ParseShift(shift)
	logs, err := s.ListForEmployee(ctx, employeeCode, date)
	if err != nil {
		return nil, err
	}
	dbEmployee, err := s.repo.GetEmployeeByCode(ctx, strings.TrimSpace(employeeCode))
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, len(logs))
	for i, w := range logs {
		tasks[i] = w.Task()
	}
	total := domain.Accumulate(tasks, domain.RecordingSession{}, time.Time{})

	return &domain.DaySummary{
		Employee:     s.employees.FromDatabase(*dbEmployee).Identity(),
		Date:         strings.TrimSpace(date),
		Shift:        parsedShift,
		TotalSeconds: total,
		Submittable:  domain.IsSubmittable(total, parsedShift),
		WorkLogs:     logs,
		Analytics:    domain.Analyze(tasks),
	}, nil
}
