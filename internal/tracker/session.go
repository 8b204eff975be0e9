// Package tracker holds the client-side timesheet: tasks being edited, the live recording,
// the persistence outbox and submission to the server.
package tracker

import (
	"strings"
	"time"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Session is the identity a tracker acts for. Token is empty when the server does not
// issue tokens.
type Session struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Token        string `json:"token,omitempty"`
}

// Identity returns the employee identity of the session.
func (s Session) Identity() domain.Identity {
	return domain.Identity{EmployeeID: s.EmployeeID, EmployeeName: s.EmployeeName}
}

// Validate requires both halves of the identity.
func (s Session) Validate() error {
	if strings.TrimSpace(s.EmployeeID) == "" || strings.TrimSpace(s.EmployeeName) == "" {
		return errors.NewValidationError("session requires an employee ID and name", nil)
	}
	return nil
}
