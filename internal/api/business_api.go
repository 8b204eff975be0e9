package api

import (
	"context"

	"timestrap/internal/domain"
	"timestrap/internal/export"
	"timestrap/internal/services"
)

// ShiftInfo describes one entry of the shift table
type ShiftInfo struct {
	ID            domain.Shift `json:"id"`
	TargetSeconds int64        `json:"targetSeconds"`
	Target        string       `json:"target"`
}

// BusinessAPI defines the business-logic-only interface used by the HTTP server and the CLI
type BusinessAPI interface {
	// ========== Identity ==========

	// Login checks an employee code and name and returns a token when signing is configured
	Login(ctx context.Context, employeeCode, employeeName string) (*services.LoginResult, error)

	// ========== Work Logs ==========

	// CreateWorkLog stores a work log and all of its time entries atomically
	CreateWorkLog(ctx context.Context, req services.WorklogRequest) (*domain.WorkLog, error)

	// GetWorkLog returns a single work log with its time entries
	GetWorkLog(ctx context.Context, id int64) (*domain.WorkLog, error)

	// ListWorkLogs returns every work log, newest day first
	ListWorkLogs(ctx context.Context) ([]domain.WorkLog, error)

	// ListEmployeeWorkLogs returns the work logs of one employee, optionally for one date
	ListEmployeeWorkLogs(ctx context.Context, employeeCode, date string) ([]domain.WorkLog, error)

	// UpdateWorkLog replaces the editable fields of a work log
	UpdateWorkLog(ctx context.Context, id int64, req services.WorklogRequest) (*domain.WorkLog, error)

	// DeleteWorkLog removes a work log and its time entries
	DeleteWorkLog(ctx context.Context, id int64) error

	// ========== Time Entries ==========

	AddTimeEntry(ctx context.Context, worklogID int64, entry services.TimeEntryInput) (*domain.TimeEntry, error)
	TimeEntryWorkLog(ctx context.Context, id int64) (int64, error)
	UpdateTimeEntry(ctx context.Context, id int64, entry services.TimeEntryInput) (*domain.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id int64) error

	// ========== Timesheets ==========

	// Shifts returns the fixed shift table, shortest first
	Shifts() []ShiftInfo

	// DaySummary accumulates an employee's stored day against a shift
	DaySummary(ctx context.Context, employeeCode, date, shift string) (*domain.DaySummary, error)

	// SubmitTimesheet re-checks and delivers a timesheet bundle
	SubmitTimesheet(ctx context.Context, bundle domain.TimesheetBundle) error

	// ========== Export ==========

	ExportWorkbook(ctx context.Context, table export.Table) ([]byte, error)
	EmailWorkbook(ctx context.Context, to string) error
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services *services.ServiceContainer
}

// NewBusinessAPI creates a new BusinessAPI over an assembled service container
func NewBusinessAPI(container *services.ServiceContainer) BusinessAPI {
	return &businessAPIImpl{services: container}
}

// ========== Identity ==========

func (b *businessAPIImpl) Login(ctx context.Context, employeeCode, employeeName string) (*services.LoginResult, error) {
	return b.services.AuthService.Login(ctx, employeeCode, employeeName)
}

// ========== Work Logs ==========

func (b *businessAPIImpl) CreateWorkLog(ctx context.Context, req services.WorklogRequest) (*domain.WorkLog, error) {
	return b.services.WorklogService.Create(ctx, req)
}

func (b *businessAPIImpl) GetWorkLog(ctx context.Context, id int64) (*domain.WorkLog, error) {
	return b.services.WorklogService.Get(ctx, id)
}

func (b *businessAPIImpl) ListWorkLogs(ctx context.Context) ([]domain.WorkLog, error) {
	return b.services.WorklogService.List(ctx)
}

func (b *businessAPIImpl) ListEmployeeWorkLogs(ctx context.Context, employeeCode, date string) ([]domain.WorkLog, error) {
	return b.services.WorklogService.ListForEmployee(ctx, employeeCode, date)
}

func (b *businessAPIImpl) UpdateWorkLog(ctx context.Context, id int64, req services.WorklogRequest) (*domain.WorkLog, error) {
	return b.services.WorklogService.Update(ctx, id, req)
}

func (b *businessAPIImpl) DeleteWorkLog(ctx context.Context, id int64) error {
	return b.services.WorklogService.Delete(ctx, id)
}

// ========== Time Entries ==========

func (b *businessAPIImpl) AddTimeEntry(ctx context.Context, worklogID int64, entry services.TimeEntryInput) (*domain.TimeEntry, error) {
	return b.services.WorklogService.AddTimeEntry(ctx, worklogID, entry)
}

func (b *businessAPIImpl) TimeEntryWorkLog(ctx context.Context, id int64) (int64, error) {
	return b.services.WorklogService.TimeEntryWorkLog(ctx, id)
}

func (b *businessAPIImpl) UpdateTimeEntry(ctx context.Context, id int64, entry services.TimeEntryInput) (*domain.TimeEntry, error) {
	return b.services.WorklogService.UpdateTimeEntry(ctx, id, entry)
}

func (b *businessAPIImpl) DeleteTimeEntry(ctx context.Context, id int64) error {
	return b.services.WorklogService.DeleteTimeEntry(ctx, id)
}

// ========== Timesheets ==========

func (b *businessAPIImpl) Shifts() []ShiftInfo {
	shifts := domain.Shifts()
	out := make([]ShiftInfo, len(shifts))
	for i, s := range shifts {
		out[i] = ShiftInfo{ID: s, TargetSeconds: s.TargetSeconds(), Target: domain.FormatClock(s.TargetSeconds())}
	}
	return out
}

func (b *businessAPIImpl) DaySummary(ctx context.Context, employeeCode, date, shift string) (*domain.DaySummary, error) {
	return b.services.WorklogService.DaySummary(ctx, employeeCode, date, shift)
}

func (b *businessAPIImpl) SubmitTimesheet(ctx context.Context, bundle domain.TimesheetBundle) error {
	return b.services.SubmissionService.Submit(ctx, bundle)
}

// ========== Export ==========

func (b *businessAPIImpl) ExportWorkbook(ctx context.Context, table export.Table) ([]byte, error) {
	return b.services.ExportService.Workbook(ctx, table)
}

func (b *businessAPIImpl) EmailWorkbook(ctx context.Context, to string) error {
	return b.services.ExportService.EmailWorkbook(ctx, to)
}
