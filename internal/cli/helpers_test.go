package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"timestrap/internal/config"
	"timestrap/internal/mail"
	"timestrap/internal/repository/sqlstore"
	"timestrap/internal/services"
)

var day = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

type testApp struct {
	*App
	store  *sqlstore.Store
	mailer *mail.LogMailer
	buf    *bytes.Buffer
}

// setupTestApp creates an app over a fresh sqlite file with the clock pinned to day
func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	store, err := sqlstore.Open(context.Background(), sqlstore.DialectSQLite, filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)

	cfg := config.NewConfig()
	cfg.Mail.TimesheetRecipients = []string{"lead@example.com"}
	cfg.Outbox.PollInterval = 10 * time.Millisecond
	cfg.Client.ServerURL = ""

	mailer := mail.NewLogMailer(zerolog.Nop())
	buf := &bytes.Buffer{}
	app := NewAppWithStore(cfg, store, mailer, buf, zerolog.Nop())
	t.Cleanup(func() { app.Close() })

	pinClock(t, day.Add(10*time.Hour))
	return &testApp{App: app, store: store, mailer: mailer, buf: buf}
}

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	previous := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = previous })
}

func (a *testApp) seedEmployee(t *testing.T, code, name string) {
	t.Helper()
	require.NoError(t, a.store.CreateEmployee(context.Background(), &sqlstore.Employee{Code: code, Name: name}))
}

// createWorkLog stores a work log for code on day with one entry of length d starting at offset
func (a *testApp) createWorkLog(t *testing.T, code, project, title string, offset, d time.Duration) int64 {
	t.Helper()
	businessAPI, err := a.BusinessAPI(context.Background())
	require.NoError(t, err)

	w, err := businessAPI.CreateWorkLog(context.Background(), services.WorklogRequest{
		EmployeeCode: code,
		Project:      project,
		Title:        title,
		Shift:        "8hr",
		Date:         "2024-01-15",
		TimeEntries: []services.TimeEntryInput{
			{StartTime: day.Add(offset), EndTime: day.Add(offset + d)},
		},
	})
	require.NoError(t, err)
	return w.ID
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const fullDaySheet = `employee:
  id: E001
  name: Ada Lovelace
date: 2024-01-15
shift: 8hr
tasks:
  - project: Billing
    title: Invoice export
    tools: [Go, SQL]
    entries:
      - start: 2024-01-15T09:00:00Z
        end: 2024-01-15T13:00:00Z
  - project: Support
    title: Ticket triage
    percent: 50
    entries:
      - start: 2024-01-15T14:00:00Z
        end: 2024-01-15T18:00:00Z
`

const shortDaySheet = `employee:
  id: E001
  name: Ada Lovelace
date: 2024-01-15
tasks:
  - project: Billing
    title: Invoice export
    entries:
      - start: 2024-01-15T09:00:00Z
        end: 2024-01-15T11:30:00Z
`
