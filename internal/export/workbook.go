// Package export renders stored timesheet data as spreadsheets and PDF reports.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
)

// Table names a sheet of the export workbook.
type Table string

const (
	TableAll         Table = "all"
	TableEmployees   Table = "employees"
	TableProjects    Table = "projects"
	TableWorkLogs    Table = "work_logs"
	TableTimeEntries Table = "time_entries"
)

// Tables returns every exportable table in sheet order.
func Tables() []Table {
	return []Table{TableEmployees, TableProjects, TableWorkLogs, TableTimeEntries}
}

// ParseTable resolves a table name. An empty name means every table.
func ParseTable(s string) (Table, error) {
	t := Table(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return TableAll, nil
	}
	if t == TableAll {
		return t, nil
	}
	for _, known := range Tables() {
		if t == known {
			return t, nil
		}
	}
	return "", errors.NewInvalidInputError("table", s, "must be one of all, employees, projects, work_logs, time_entries")
}

// Expand returns the concrete tables selected by t.
func (t Table) Expand() []Table {
	if t == TableAll {
		return Tables()
	}
	return []Table{t}
}

// Filename is the attachment name used for a workbook of t.
func (t Table) Filename() string {
	if t == TableAll {
		return "timesheet_data.xlsx"
	}
	return string(t) + ".xlsx"
}

// Dataset is the data a workbook is built from.
type Dataset struct {
	Employees []domain.Employee
	Projects  []domain.Project
	WorkLogs  []domain.WorkLog
}

var headers = map[Table][]interface{}{
	TableEmployees:   {"ID", "Employee ID", "Name"},
	TableProjects:    {"ID", "Name", "Description"},
	TableWorkLogs:    {"ID", "Employee ID", "Employee Name", "Project", "Task", "Description", "Tools Used", "Shift", "Total Minutes", "Completion %", "Complete", "Date", "Created At"},
	TableTimeEntries: {"ID", "Work Log ID", "Start Time", "End Time", "Minutes"},
}

func (d Dataset) rows(t Table) [][]interface{} {
	var rows [][]interface{}
	switch t {
	case TableEmployees:
		for _, e := range d.Employees {
			rows = append(rows, []interface{}{e.ID, e.Code, e.Name})
		}
	case TableProjects:
		for _, p := range d.Projects {
			rows = append(rows, []interface{}{p.ID, p.Name, p.Description})
		}
	case TableWorkLogs:
		for _, w := range d.WorkLogs {
			rows = append(rows, []interface{}{
				w.ID, w.EmployeeCode, w.EmployeeName, w.ProjectName, w.Title, w.Description,
				domain.JoinTools(w.Tools), string(w.Shift), w.TotalMinutes, w.CompletionPercent,
				yesNo(w.IsComplete), w.Date, w.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
	case TableTimeEntries:
		for _, w := range d.WorkLogs {
			for _, e := range w.TimeEntries {
				rows = append(rows, []interface{}{
					e.ID, w.ID, e.StartTime.Format("2006-01-02 15:04:05"),
					e.EndTime.Format("2006-01-02 15:04:05"), e.Minutes(),
				})
			}
		}
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Workbook builds an xlsx file with one sheet per selected table.
func Workbook(d Dataset, table Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	for i, t := range table.Expand() {
		name := string(t)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}

		header := headers[t]
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return nil, fmt.Errorf("write %s header: %w", name, err)
		}
		for r, row := range d.rows(t) {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, fmt.Errorf("write %s row %d: %w", name, r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
