package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timestrap/internal/repository/sqlstore"
)

func TestEmployeeMapper(t *testing.T) {
	mapper := NewEmployeeMapper()
	db := sqlstore.Employee{ID: 1, Code: "E001", Name: "Ada"}

	domainEmployee := mapper.FromDatabase(db)
	assert.Equal(t, Employee{ID: 1, Code: "E001", Name: "Ada"}, domainEmployee)
	assert.Equal(t, db, mapper.ToDatabase(domainEmployee))
	assert.Len(t, mapper.FromDatabaseSlice([]*sqlstore.Employee{&db}), 1)
}

func TestTimeEntryMapper_ToDatabase(t *testing.T) {
	mapper := NewTimeEntryMapper()

	stored := mapper.ToDatabase(5, TimeEntry{ID: "17", StartTime: base, EndTime: base.Add(time.Hour)})
	assert.Equal(t, int64(17), stored.ID)
	assert.Equal(t, int64(5), stored.WorklogID)

	fresh := mapper.ToDatabase(5, NewTimeEntry(base))
	assert.Equal(t, int64(0), fresh.ID)
}

func TestTimeEntryMapper_FromDatabase(t *testing.T) {
	mapper := NewTimeEntryMapper()

	entry := mapper.FromDatabase(sqlstore.TimeEntry{ID: 17, WorklogID: 5, StartTime: base, EndTime: base})
	assert.Equal(t, TimeEntry{ID: "17", StartTime: base, EndTime: base}, entry)
}

func TestWorkLogMapper_RoundTrip(t *testing.T) {
	mapper := NewWorkLogMapper()
	projectID := int64(3)
	w := WorkLog{
		ID:                9,
		EmployeeID:        1,
		ProjectID:         &projectID,
		ProjectName:       "Apollo",
		Title:             "Plan",
		Description:       "kickoff",
		Tools:             []string{"Go", "SQL"},
		Shift:             ShiftLong,
		TotalMinutes:      60,
		CompletionPercent: 25,
		Date:              "2024-01-15",
		CreatedAt:         base,
	}

	db := mapper.ToDatabase(w)
	assert.Equal(t, "Go, SQL", db.ToolsUsed)
	assert.Equal(t, "12hr", db.ShiftType)
	assert.Equal(t, "Plan", db.TaskName)

	back := mapper.FromDatabase(db, nil)
	back.TimeEntries = nil
	assert.Equal(t, w, back)
}

func TestWorkLogMapper_FromDatabaseSlice_GroupsEntries(t *testing.T) {
	mapper := NewWorkLogMapper()
	logs := []*sqlstore.WorkLog{{ID: 1, ShiftType: "8hr"}, {ID: 2, ShiftType: "4hr"}}
	entries := []*sqlstore.TimeEntry{
		{ID: 10, WorklogID: 2, StartTime: base, EndTime: base.Add(time.Hour)},
		{ID: 11, WorklogID: 1, StartTime: base, EndTime: base.Add(time.Minute)},
		{ID: 12, WorklogID: 2, StartTime: base, EndTime: base.Add(time.Minute)},
	}

	out := mapper.FromDatabaseSlice(logs, entries)
	require.Len(t, out, 2)
	assert.Len(t, out[0].TimeEntries, 1)
	assert.Len(t, out[1].TimeEntries, 2)
	assert.Equal(t, "10", out[1].TimeEntries[0].ID)
}

func TestWorkLogMapper_EmptySlice(t *testing.T) {
	mapper := NewWorkLogMapper()

	assert.Empty(t, mapper.FromDatabaseSlice([]*sqlstore.WorkLog{}, nil))
}
