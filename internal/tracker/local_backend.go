package tracker

import (
	"context"

	"timestrap/internal/api"
	"timestrap/internal/domain"
)

// LocalBackend delivers to a business API in the same process.
type LocalBackend struct {
	api api.BusinessAPI
}

// NewLocalBackend wraps a business API.
func NewLocalBackend(b api.BusinessAPI) *LocalBackend {
	return &LocalBackend{api: b}
}

// Persist implements Persister.
func (b *LocalBackend) Persist(ctx context.Context, session Session, req PersistRequest) (int64, error) {
	body := worklogRequest(session, req)
	if req.Task.WorklogID != 0 {
		w, err := b.api.UpdateWorkLog(ctx, req.Task.WorklogID, body)
		if err != nil {
			return 0, err
		}
		return w.ID, nil
	}
	w, err := b.api.CreateWorkLog(ctx, body)
	if err != nil {
		return 0, err
	}
	return w.ID, nil
}

// Submit implements Gateway.
func (b *LocalBackend) Submit(ctx context.Context, session Session, bundle domain.TimesheetBundle) error {
	bundle.Employee = session.Identity()
	return b.api.SubmitTimesheet(ctx, bundle)
}
