package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunner_UpIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := NewRunner(db, "sqlite", nil)

	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, applied)

	applied, err = runner.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestRunner_DownRevertsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := NewRunner(db, "sqlite", nil)
	_, err := runner.Up(ctx)
	require.NoError(t, err)

	for _, want := range []int{3, 2, 1} {
		got, err := runner.Down(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := runner.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = db.Exec("SELECT id FROM employees")
	assert.Error(t, err)
}

func TestLoad_PostgresDirectory(t *testing.T) {
	runner := NewRunner(nil, "postgres", nil)

	migrations, err := runner.load()
	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Contains(t, migrations[0].Up, "BIGSERIAL")
	assert.NotNil(t, migrations[2].UpFunc)
}

func TestBackfillTotalMinutes(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := NewRunner(db, "sqlite", nil)

	// Stop before the Go migration so totals can be seeded wrong.
	_, err := runner.Up(ctx)
	require.NoError(t, err)
	_, err = runner.Down(ctx)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO employees (empcode, name) VALUES ('E001', 'Ada')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO work_logs (employee_id, project_name, task_name, shift_type, total_minutes, date)
		VALUES (1, 'Apollo', 'Plan', '8hr', 999, '2024-01-15')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO time_entries (worklog_id, start_time, end_time) VALUES
		(1, '2024-01-15T09:00:00Z', '2024-01-15T09:30:59Z'),
		(1, '2024-01-15T10:00:00Z', '2024-01-15T10:00:59Z'),
		(1, '2024-01-15T12:00:00Z', '2024-01-15T11:00:00Z')`)
	require.NoError(t, err)

	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, applied)

	var total int
	require.NoError(t, db.QueryRow(`SELECT total_minutes FROM work_logs WHERE id = 1`).Scan(&total))
	assert.Equal(t, 30, total)
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, 2, extractVersion("000002_task_progress.up.sql"))
	assert.Equal(t, 0, extractVersion("README.md"))
}
