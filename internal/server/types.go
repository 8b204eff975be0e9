package server

import (
	"timestrap/internal/domain"
	"timestrap/internal/services"
)

// ErrorResponse is the envelope of every failed request
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SuccessResponse acknowledges a request without a payload
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Employee domain.Identity `json:"employee"`
	Token    string          `json:"token,omitempty"`
}

// WorklogBody is the body of a work log create or update. employeeEmpcode is accepted as an
// alias of employeeCode.
type WorklogBody struct {
	services.WorklogRequest
	EmployeeEmpcode string `json:"employeeEmpcode"`
}

func (b WorklogBody) request() services.WorklogRequest {
	req := b.WorklogRequest
	if req.EmployeeCode == "" {
		req.EmployeeCode = b.EmployeeEmpcode
	}
	return req
}

// CreateWorklogResponse carries the id of a stored work log
type CreateWorklogResponse struct {
	Success   bool  `json:"success"`
	WorklogID int64 `json:"worklogId"`
}

// EmployeeWorklogsResponse lists the work logs of one employee
type EmployeeWorklogsResponse struct {
	Success bool             `json:"success"`
	Logs    []domain.WorkLog `json:"logs"`
}

// CreateTimeEntryResponse carries the id of a stored time entry
type CreateTimeEntryResponse struct {
	Success     bool   `json:"success"`
	TimeEntryID string `json:"timeEntryId"`
}

// SubmitTimesheetRequest is the bundle sent by a tracker
type SubmitTimesheetRequest struct {
	EmployeeName string        `json:"employeeName"`
	EmployeeID   string        `json:"employeeId"`
	Date         string        `json:"date"`
	Shift        string        `json:"shift"`
	Tasks        []domain.Task `json:"tasks"`
}

func (r SubmitTimesheetRequest) bundle() domain.TimesheetBundle {
	return domain.TimesheetBundle{
		Employee: domain.Identity{EmployeeID: r.EmployeeID, EmployeeName: r.EmployeeName},
		Date:     r.Date,
		Shift:    domain.Shift(r.Shift),
		Tasks:    r.Tasks,
	}
}

// SendEmailRequest names the recipient of an export
type SendEmailRequest struct {
	Email string `json:"email"`
}
