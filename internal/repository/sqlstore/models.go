package sqlstore

import "time"

// Employee is a row of the employees table.
type Employee struct {
	ID   int64
	Code string
	Name string
}

// Project is a row of the projects table.
type Project struct {
	ID          int64
	Name        string
	Description string
}

// WorkLog is a row of the work_logs table joined with its employee.
//
// ProjectID is nil when the project name is not registered in the projects table.
type WorkLog struct {
	ID                int64
	EmployeeID        int64
	EmployeeCode      string
	EmployeeName      string
	ProjectID         *int64
	ProjectName       string
	TaskName          string
	Description       string
	ToolsUsed         string
	ShiftType         string
	TotalMinutes      int
	CompletionPercent int
	IsComplete        bool
	Date              string
	CreatedAt         time.Time
}

// TimeEntry is a row of the time_entries table.
type TimeEntry struct {
	ID        int64
	WorklogID int64
	StartTime time.Time
	EndTime   time.Time
}
