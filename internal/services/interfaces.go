package services

import (
	"context"
	"time"

	"timestrap/internal/domain"
	"timestrap/internal/export"
)

// TimeEntryInput is a start/end pair received from a client.
type TimeEntryInput struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// WorklogRequest carries the fields of a work log to create or update.
type WorklogRequest struct {
	EmployeeCode      string           `json:"employeeCode"`
	Project           string           `json:"project"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Tools             []string         `json:"tools"`
	TimeEntries       []TimeEntryInput `json:"timeEntries"`
	Shift             string           `json:"shiftType"`
	Date              string           `json:"date"`
	CompletionPercent int              `json:"completionPercent"`
	IsComplete        bool             `json:"isComplete"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Employee  domain.Employee `json:"employee"`
	Token     string          `json:"token,omitempty"`
	ExpiresAt time.Time       `json:"expiresAt,omitempty"`
}

// AuthService checks employee credentials
type AuthService interface {
	Login(ctx context.Context, employeeCode, employeeName string) (*LoginResult, error)
}

// WorklogService manages persisted work logs and their time entries
type WorklogService interface {
	// Work logs
	Create(ctx context.Context, req WorklogRequest) (*domain.WorkLog, error)
	Get(ctx context.Context, id int64) (*domain.WorkLog, error)
	List(ctx context.Context) ([]domain.WorkLog, error)
	ListForEmployee(ctx context.Context, employeeCode, date string) ([]domain.WorkLog, error)
	Update(ctx context.Context, id int64, req WorklogRequest) (*domain.WorkLog, error)
	Delete(ctx context.Context, id int64) error

	// Time entries
	AddTimeEntry(ctx context.Context, worklogID int64, entry TimeEntryInput) (*domain.TimeEntry, error)
	TimeEntryWorkLog(ctx context.Context, id int64) (int64, error)
	UpdateTimeEntry(ctx context.Context, id int64, entry TimeEntryInput) (*domain.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id int64) error

	// Aggregates
	DaySummary(ctx context.Context, employeeCode, date, shift string) (*domain.DaySummary, error)
}

// SubmissionService is the server side of the submission gateway
type SubmissionService interface {
	Submit(ctx context.Context, bundle domain.TimesheetBundle) error
}

// ExportService renders stored data as spreadsheets
type ExportService interface {
	Workbook(ctx context.Context, table export.Table) ([]byte, error)
	EmailWorkbook(ctx context.Context, to string) error
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	AuthService       AuthService
	WorklogService    WorklogService
	SubmissionService SubmissionService
	ExportService     ExportService
}
