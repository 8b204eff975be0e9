package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timestrap/internal/domain"
	apperrors "timestrap/internal/errors"
	"timestrap/internal/tracker"
)

func TestSheetCommand_Total(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		expected       []string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:    "full day",
			content: fullDaySheet,
			expected: []string{
				"Ada Lovelace (E001) on 2024-01-15, 8hr shift",
				"  04:00:00   Billing / Invoice export (0%)",
				"  04:00:00   Support / Ticket triage (50%)",
				"Total: 08:00:00 of 08:00:00",
				"Submittable: yes",
			},
		},
		{
			name:    "short day",
			content: shortDaySheet,
			expected: []string{
				"Total: 02:30:00 of 08:00:00",
				"Submittable: no (05:30:00 remaining)",
			},
		},
		{
			name:    "unknown key",
			content: "employee: {id: E001, name: Ada}\nmood: great\n",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
			},
		},
		{
			name: "reversed entry",
			content: `employee: {id: E001, name: Ada}
date: 2024-01-15
tasks:
  - project: Billing
    title: Invoices
    entries:
      - start: 2024-01-15T12:00:00Z
        end: 2024-01-15T09:00:00Z
`,
			errorAssertion: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "task 1:")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(t)
			path := writeTestFile(t, "day.yaml", tt.content)

			err := NewSheetCommand(app.App).Execute(context.Background(), []string{"total", path})
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.expected {
				assert.Contains(t, app.buf.String(), s)
			}
		})
	}
}

func TestSheetCommand_SubmitLocal(t *testing.T) {
	ctx := context.Background()
	app := setupTestApp(t)
	app.seedEmployee(t, "E001", "Ada Lovelace")
	path := writeTestFile(t, "day.yaml", fullDaySheet)

	require.NoError(t, NewSheetCommand(app.App).Execute(ctx, []string{"submit", path}))

	assert.Contains(t, app.buf.String(), "Saved 2 task(s)")
	assert.Contains(t, app.buf.String(), "Submitted timesheet for E001 on 2024-01-15 (08:00:00)")

	logs, err := app.store.ListWorkLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	sent := app.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"lead@example.com"}, sent[0].To)
}

func TestSheetCommand_ResubmitUpdatesStoredLogs(t *testing.T) {
	ctx := context.Background()
	app := setupTestApp(t)
	app.seedEmployee(t, "E001", "Ada Lovelace")
	path := writeTestFile(t, "day.yaml", shortDaySheet)

	err := NewSheetCommand(app.App).Execute(ctx, []string{"submit", path})
	require.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	file, err := tracker.LoadSheetFile(path)
	require.NoError(t, err)
	require.Len(t, file.Tasks, 1)
	firstID := file.Tasks[0].WorklogID
	assert.NotZero(t, firstID)

	// log the rest of the day and try again
	more := domain.NewTask("Support", "Ticket triage", day)
	more.TimeEntries = []domain.TimeEntry{domain.NewClosedTimeEntry(day.Add(3*time.Hour), day.Add(8*time.Hour+30*time.Minute))}
	file.Tasks = append(file.Tasks, more)
	require.NoError(t, file.Save(path))

	require.NoError(t, NewSheetCommand(app.App).Execute(ctx, []string{"submit", path}))
	require.NoError(t, NewSheetCommand(app.App).Execute(ctx, []string{"submit", path}))

	logs, err := app.store.ListWorkLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	file, err = tracker.LoadSheetFile(path)
	require.NoError(t, err)
	require.Len(t, file.Tasks, 2)
	assert.Equal(t, firstID, file.Tasks[0].WorklogID)
	assert.NotZero(t, file.Tasks[1].WorklogID)
	assert.NotEqual(t, firstID, file.Tasks[1].WorklogID)

	businessAPI, err := app.BusinessAPI(ctx)
	require.NoError(t, err)
	stored, err := businessAPI.DaySummary(ctx, "E001", "2024-01-15", "8hr")
	require.NoError(t, err)
	assert.Equal(t, int64(8*3600), stored.TotalSeconds)
	assert.Len(t, app.mailer.Sent(), 2)
}

func TestSheetCommand_SubmitErrors(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		server         string
		savedLogs      int
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:      "below the shift target",
			content:   shortDaySheet,
			savedLogs: 1,
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
				assert.ErrorContains(t, err, "total 02:30:00 is below the 8hr shift target of 08:00:00")
			},
		},
		{
			name:    "unknown employee",
			content: "employee: {id: E404, name: Nobody}\ndate: 2024-01-15\n",
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
		{
			name:    "missing identity",
			content: "date: 2024-01-15\n",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
			},
		},
		{
			name:    "unreachable server",
			content: fullDaySheet,
			server:  "http://127.0.0.1:1",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDelivery))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			app := setupTestApp(t)
			app.seedEmployee(t, "E001", "Ada Lovelace")
			path := writeTestFile(t, "day.yaml", tt.content)

			cmd := NewSheetCommand(app.App)
			cmd.Server = tt.server
			err := cmd.Execute(ctx, []string{"submit", path})
			tt.errorAssertion(t, err)

			logs, err := app.store.ListWorkLogs(ctx)
			require.NoError(t, err)
			assert.Len(t, logs, tt.savedLogs)
			assert.Empty(t, app.mailer.Sent())
		})
	}
}

func TestSheetCommand_Record(t *testing.T) {
	app := setupTestApp(t)
	path := writeTestFile(t, "day.yaml", shortDaySheet)

	cmd := NewSheetCommand(app.App)
	cmd.Interval = 5 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, cmd.Execute(ctx, []string{"record", path}))

	assert.Contains(t, app.buf.String(), "Recording for E001 on 2024-01-15")
	assert.Contains(t, app.buf.String(), "Recorded 00:00:00 into "+path)

	file, err := tracker.LoadSheetFile(path)
	require.NoError(t, err)
	require.Len(t, file.Tasks, 2)
	assert.Equal(t, domain.RecordedProject, file.Tasks[1].Project)
	assert.Equal(t, domain.RecordedTitle, file.Tasks[1].Title)
	require.Len(t, file.Tasks[1].TimeEntries, 1)
}

func TestSheetCommand_UnknownAction(t *testing.T) {
	app := setupTestApp(t)

	err := NewSheetCommand(app.App).Execute(context.Background(), []string{"print", "day.yaml"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))

	err = NewSheetCommand(app.App).Execute(context.Background(), []string{"total"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
}
