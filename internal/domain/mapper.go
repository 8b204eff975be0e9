package domain

import (
	"strconv"

	"timestrap/internal/repository/sqlstore"
)

// EmployeeMapper handles conversion between domain and database Employee models.
type EmployeeMapper struct{}

// NewEmployeeMapper creates a new EmployeeMapper instance.
func NewEmployeeMapper() *EmployeeMapper {
	return &EmployeeMapper{}
}

// ToDatabase converts a domain Employee to a database Employee.
func (m *EmployeeMapper) ToDatabase(e Employee) sqlstore.Employee {
	return sqlstore.Employee{ID: e.ID, Code: e.Code, Name: e.Name}
}

// FromDatabase converts a database Employee to a domain Employee.
func (m *EmployeeMapper) FromDatabase(e sqlstore.Employee) Employee {
	return Employee{ID: e.ID, Code: e.Code, Name: e.Name}
}

// FromDatabaseSlice converts a slice of database Employees to domain Employees.
func (m *EmployeeMapper) FromDatabaseSlice(employees []*sqlstore.Employee) []Employee {
	out := make([]Employee, len(employees))
	for i, e := range employees {
		out[i] = m.FromDatabase(*e)
	}
	return out
}

// TimeEntryMapper handles conversion between domain and database TimeEntry models.
type TimeEntryMapper struct{}

// NewTimeEntryMapper creates a new TimeEntryMapper instance.
func NewTimeEntryMapper() *TimeEntryMapper {
	return &TimeEntryMapper{}
}

// ToDatabase converts a domain TimeEntry to a database TimeEntry. Entry ids that are not
// database ids (client-side UUIDs) map to zero.
func (m *TimeEntryMapper) ToDatabase(worklogID int64, e TimeEntry) sqlstore.TimeEntry {
	id, err := strconv.ParseInt(e.ID, 10, 64)
	if err != nil {
		id = 0
	}
	return sqlstore.TimeEntry{
		ID:        id,
		WorklogID: worklogID,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
	}
}

// FromDatabase converts a database TimeEntry to a domain TimeEntry.
func (m *TimeEntryMapper) FromDatabase(e sqlstore.TimeEntry) TimeEntry {
	return TimeEntry{
		ID:        strconv.FormatInt(e.ID, 10),
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
	}
}

// FromDatabaseSlice converts a slice of database TimeEntries to domain TimeEntries.
func (m *TimeEntryMapper) FromDatabaseSlice(entries []*sqlstore.TimeEntry) []TimeEntry {
	out := make([]TimeEntry, len(entries))
	for i, e := range entries {
		out[i] = m.FromDatabase(*e)
	}
	return out
}

// WorkLogMapper handles conversion between domain and database WorkLog models.
type WorkLogMapper struct {
	entries *TimeEntryMapper
}

// NewWorkLogMapper creates a new WorkLogMapper instance.
func NewWorkLogMapper() *WorkLogMapper {
	return &WorkLogMapper{entries: NewTimeEntryMapper()}
}

// ToDatabase converts a domain WorkLog to a database WorkLog. Time entries are mapped
// separately with TimeEntryMapper.
func (m *WorkLogMapper) ToDatabase(w WorkLog) sqlstore.WorkLog {
	return sqlstore.WorkLog{
		ID:                w.ID,
		EmployeeID:        w.EmployeeID,
		EmployeeCode:      w.EmployeeCode,
		EmployeeName:      w.EmployeeName,
		ProjectID:         w.ProjectID,
		ProjectName:       w.ProjectName,
		TaskName:          w.Title,
		Description:       w.Description,
		ToolsUsed:         JoinTools(w.Tools),
		ShiftType:         string(w.Shift),
		TotalMinutes:      w.TotalMinutes,
		CompletionPercent: w.CompletionPercent,
		IsComplete:        w.IsComplete,
		Date:              w.Date,
		CreatedAt:         w.CreatedAt,
	}
}

// FromDatabase converts a database WorkLog and its entries to a domain WorkLog.
func (m *WorkLogMapper) FromDatabase(w sqlstore.WorkLog, entries []*sqlstore.TimeEntry) WorkLog {
	return WorkLog{
		ID:                w.ID,
		EmployeeID:        w.EmployeeID,
		EmployeeCode:      w.EmployeeCode,
		EmployeeName:      w.EmployeeName,
		ProjectID:         w.ProjectID,
		ProjectName:       w.ProjectName,
		Title:             w.TaskName,
		Description:       w.Description,
		Tools:             SplitTools(w.ToolsUsed),
		Shift:             Shift(w.ShiftType),
		TotalMinutes:      w.TotalMinutes,
		CompletionPercent: w.CompletionPercent,
		IsComplete:        w.IsComplete,
		Date:              w.Date,
		CreatedAt:         w.CreatedAt,
		TimeEntries:       m.entries.FromDatabaseSlice(entries),
	}
}

// FromDatabaseSlice converts database WorkLogs to domain WorkLogs, attaching each log's
// entries from the flat entry list.
func (m *WorkLogMapper) FromDatabaseSlice(logs []*sqlstore.WorkLog, entries []*sqlstore.TimeEntry) []WorkLog {
	byLog := make(map[int64][]*sqlstore.TimeEntry, len(logs))
	for _, e := range entries {
		byLog[e.WorklogID] = append(byLog[e.WorklogID], e)
	}
	out := make([]WorkLog, len(logs))
	for i, w := range logs {
		out[i] = m.FromDatabase(*w, byLog[w.ID])
	}
	return out
}
