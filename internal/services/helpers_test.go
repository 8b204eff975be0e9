package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timestrap/internal/repository/sqlstore"
)

var day = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func setupRepo(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.Open(context.Background(), sqlstore.DialectSQLite, filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedEmployee(t *testing.T, repo sqlstore.Repository, code, name string) *sqlstore.Employee {
	t.Helper()
	e := &sqlstore.Employee{Code: code, Name: name}
	require.NoError(t, repo.CreateEmployee(context.Background(), e))
	return e
}

func pinServiceClock(t *testing.T, at time.Time) {
	t.Helper()
	previous := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = previous })
}

// entry returns a time entry starting offset after day and lasting d
func entry(offset, d time.Duration) TimeEntryInput {
	return TimeEntryInput{StartTime: day.Add(offset), EndTime: day.Add(offset + d)}
}

func validRequest(code string) WorklogRequest {
	return WorklogRequest{
		EmployeeCode: code,
		Project:      "Apollo",
		Title:        "Build API",
		Description:  "Handlers",
		Tools:        []string{"Go", " ", "SQLite"},
		TimeEntries:  []TimeEntryInput{entry(0, 90*time.Minute+59*time.Second), entry(2*time.Hour, 30*time.Minute)},
		Shift:        "8hr",
		Date:         "2024-01-15",
	}
}
