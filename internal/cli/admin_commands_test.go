package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "timestrap/internal/errors"
)

func TestMigrateCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app := setupTestApp(t)
	cmd := NewMigrateCommand(app.App)

	require.NoError(t, cmd.Execute(ctx, nil))
	assert.Equal(t, "Database is up to date.\n", app.buf.String())

	app.buf.Reset()
	require.NoError(t, cmd.Execute(ctx, []string{"down"}))
	assert.Equal(t, "Reverted migration 000003\n", app.buf.String())

	app.buf.Reset()
	require.NoError(t, cmd.Execute(ctx, []string{"status"}))
	lines := strings.Split(strings.TrimSpace(app.buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "000001_init")
	assert.True(t, strings.HasSuffix(lines[1], "yes"))
	assert.True(t, strings.HasSuffix(lines[3], "no"))

	app.buf.Reset()
	require.NoError(t, cmd.Execute(ctx, []string{"up"}))
	assert.Equal(t, "Applied migration 000003\n", app.buf.String())

	err := cmd.Execute(ctx, []string{"sideways"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}

func TestSeedCommand_Execute(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		expected       string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name: "seeds employees and projects",
			content: `employees:
  - id: E001
    name: Ada Lovelace
  - id: E002
    name: Grace Hopper
projects: [Apollo, Gemini]
`,
			expected: "Seeded 2 employee(s) and 2 project(s).\n",
		},
		{
			name:    "rejects unknown keys",
			content: "staff: []\n",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
			},
		},
		{
			name: "rejects an employee without a name",
			content: `employees:
  - id: E001
`,
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(t)
			path := writeTestFile(t, "seed.yaml", tt.content)

			err := NewSeedCommand(app.App).Execute(context.Background(), []string{path})
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, app.buf.String())

			employees, err := app.store.ListEmployees(context.Background())
			require.NoError(t, err)
			assert.Len(t, employees, 2)
			projects, err := app.store.ListProjects(context.Background())
			require.NoError(t, err)
			assert.Len(t, projects, 2)
		})
	}
}

func TestSeedCommand_UpdatesExistingEmployees(t *testing.T) {
	ctx := context.Background()
	app := setupTestApp(t)
	app.seedEmployee(t, "E001", "Ada")
	path := writeTestFile(t, "seed.yaml", "employees:\n  - id: E001\n    name: Ada Lovelace\n")

	require.NoError(t, NewSeedCommand(app.App).Execute(ctx, []string{path}))

	employee, err := app.store.GetEmployeeByCode(ctx, "E001")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", employee.Name)
}

func TestSeedCommand_MissingFile(t *testing.T) {
	app := setupTestApp(t)

	err := NewSeedCommand(app.App).Execute(context.Background(), []string{""})
	assert.EqualError(t, err, "validation: usage: timestrap seed --file seed.yaml")

	err = NewSeedCommand(app.App).Execute(context.Background(), []string{"/does/not/exist.yaml"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}

func TestShiftsCommand_Execute(t *testing.T) {
	app := setupTestApp(t)

	require.NoError(t, NewShiftsCommand(app.App).Execute(context.Background(), nil))

	lines := strings.Split(strings.TrimSpace(app.buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "4hr    4h 0m      14400", lines[1])
	assert.Equal(t, "8hr    8h 0m      28800 (default)", lines[2])
	assert.Equal(t, "12hr   12h 0m     43200", lines[3])
}

func TestDeleteCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app := setupTestApp(t)
	app.seedEmployee(t, "E001", "Ada Lovelace")
	id := app.createWorkLog(t, "E001", "Billing", "Invoices", 0, time.Hour)

	tests := []struct {
		name           string
		args           []string
		expected       string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:     "deletes the work log",
			args:     []string{"1"},
			expected: "Deleted work log #1: Billing / Invoices (1 entries)\n",
		},
		{
			name: "fails once it is gone",
			args: []string{"1"},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
			},
		},
		{
			name: "rejects a non numeric id",
			args: []string{"first"},
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
			},
		},
		{
			name: "requires an id",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
			},
		},
	}

	require.Equal(t, int64(1), id)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.buf.Reset()
			err := NewDeleteCommand(app.App).Execute(ctx, tt.args)
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, app.buf.String())
		})
	}
}
