package sqlstore

import (
	"database/sql"
	"fmt"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanAll drains rows with scan.
func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	results := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ScanEmployee scans a single employee from a database row
func ScanEmployee(scanner Scanner) (*Employee, error) {
	e := &Employee{}
	if err := scanner.Scan(&e.ID, &e.Code, &e.Name); err != nil {
		return nil, err
	}
	return e, nil
}

// ScanEmployees scans multiple employees from database rows
func ScanEmployees(rows Rows) ([]*Employee, error) {
	return scanAll(rows, ScanEmployee)
}

// ScanProject scans a single project from a database row
func ScanProject(scanner Scanner) (*Project, error) {
	p := &Project{}
	var description sql.NullString
	if err := scanner.Scan(&p.ID, &p.Name, &description); err != nil {
		return nil, err
	}
	p.Description = description.String
	return p, nil
}

// ScanProjects scans multiple projects from database rows
func ScanProjects(rows Rows) ([]*Project, error) {
	return scanAll(rows, ScanProject)
}

// ScanWorkLog scans a work log joined with its employee. Column order follows workLogColumns.
func ScanWorkLog(scanner Scanner) (*WorkLog, error) {
	w := &WorkLog{}
	var (
		projectID   sql.NullInt64
		description sql.NullString
		tools       sql.NullString
		isComplete  int
		createdAt   sql.NullString
	)
	err := scanner.Scan(
		&w.ID,
		&w.EmployeeID,
		&w.EmployeeCode,
		&w.EmployeeName,
		&projectID,
		&w.ProjectName,
		&w.TaskName,
		&description,
		&tools,
		&w.ShiftType,
		&w.TotalMinutes,
		&w.CompletionPercent,
		&isComplete,
		&w.Date,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	if projectID.Valid {
		id := projectID.Int64
		w.ProjectID = &id
	}
	w.Description = description.String
	w.ToolsUsed = tools.String
	w.IsComplete = isComplete != 0
	if createdAt.Valid && createdAt.String != "" {
		t, err := ParseTimeFromDB(createdAt.String)
		if err != nil {
			return nil, fmt.Errorf("work log %d created_at: %w", w.ID, err)
		}
		w.CreatedAt = t
	}
	return w, nil
}

// ScanWorkLogs scans multiple work logs from database rows
func ScanWorkLogs(rows Rows) ([]*WorkLog, error) {
	return scanAll(rows, ScanWorkLog)
}

// ScanTimeEntry scans a single time entry from a database row
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var start, end string
	if err := scanner.Scan(&entry.ID, &entry.WorklogID, &start, &end); err != nil {
		return nil, err
	}
	var err error
	if entry.StartTime, err = ParseTimeFromDB(start); err != nil {
		return nil, fmt.Errorf("time entry %d start_time: %w", entry.ID, err)
	}
	if entry.EndTime, err = ParseTimeFromDB(end); err != nil {
		return nil, fmt.Errorf("time entry %d end_time: %w", entry.ID, err)
	}
	return entry, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	return scanAll(rows, ScanTimeEntry)
}
