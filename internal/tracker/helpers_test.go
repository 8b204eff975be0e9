package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"timestrap/internal/domain"
)

var day = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

var ada = Session{EmployeeID: "E001", EmployeeName: "Ada Lovelace"}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock {
	return &fakeClock{now: at}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakePersister hands out increasing work log ids and fails with the queued errors first.
type fakePersister struct {
	mu       sync.Mutex
	failures []error
	requests []PersistRequest
	nextID   int64
}

func (p *fakePersister) Persist(_ context.Context, _ Session, req PersistRequest) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if len(p.failures) > 0 {
		err := p.failures[0]
		p.failures = p.failures[1:]
		return 0, err
	}
	if req.Task.WorklogID != 0 {
		return req.Task.WorklogID, nil
	}
	p.nextID++
	return p.nextID, nil
}

func (p *fakePersister) calls() []PersistRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PersistRequest(nil), p.requests...)
}

// fakeGateway counts submissions. When release is set each call waits on it.
type fakeGateway struct {
	mu      sync.Mutex
	err     error
	bundles []domain.TimesheetBundle
	entered chan struct{}
	release chan struct{}
}

func (g *fakeGateway) Submit(_ context.Context, _ Session, bundle domain.TimesheetBundle) error {
	g.mu.Lock()
	g.bundles = append(g.bundles, bundle)
	err := g.err
	g.mu.Unlock()

	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	return err
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.bundles)
}

func newTestSheet(t *testing.T, clock *fakeClock, shift domain.Shift, persister Persister, gateway Gateway) *Sheet {
	t.Helper()
	opts := Options{
		Clock:     clock,
		Date:      day,
		Shift:     shift,
		Persister: persister,
		Retry:     RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 4 * time.Second},
		Logger:    zerolog.Nop(),
	}
	if gateway != nil {
		opts.Gateway = gateway
	}
	sheet, err := NewSheet(ada, opts)
	require.NoError(t, err)
	return sheet
}

// worked returns a task with one entry of length d starting at day.
func worked(project string, d time.Duration) domain.Task {
	return domain.Task{
		Project:     project,
		Title:       "Work",
		TimeEntries: []domain.TimeEntry{domain.NewClosedTimeEntry(day, day.Add(d))},
	}
}
