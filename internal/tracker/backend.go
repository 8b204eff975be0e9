package tracker

import (
	"context"

	"timestrap/internal/domain"
	"timestrap/internal/services"
)

// PersistRequest is one task to store as a work log of the sheet's day.
type PersistRequest struct {
	Date  string
	Shift domain.Shift
	Task  domain.Task
}

// Persister stores tasks and returns the server-issued work log id. A task that already
// carries a WorklogID is updated in place.
type Persister interface {
	Persist(ctx context.Context, session Session, req PersistRequest) (int64, error)
}

// Gateway delivers a finished timesheet.
type Gateway interface {
	Submit(ctx context.Context, session Session, bundle domain.TimesheetBundle) error
}

// worklogRequest is the wire form of a persist request.
func worklogRequest(session Session, req PersistRequest) services.WorklogRequest {
	entries := make([]services.TimeEntryInput, len(req.Task.TimeEntries))
	for i, e := range req.Task.TimeEntries {
		entries[i] = services.TimeEntryInput{StartTime: e.StartTime, EndTime: e.EndTime}
	}
	return services.WorklogRequest{
		EmployeeCode:      session.EmployeeID,
		Project:           req.Task.Project,
		Title:             req.Task.Title,
		Description:       req.Task.Description,
		Tools:             req.Task.Tools,
		TimeEntries:       entries,
		Shift:             string(req.Shift),
		Date:              req.Date,
		CompletionPercent: req.Task.CompletionPercent,
		IsComplete:        req.Task.IsComplete,
	}
}
