package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// WorkLog is a persisted task together with its time entries.
type WorkLog struct {
	ID                int64       `json:"id"`
	EmployeeID        int64       `json:"employeeId"`
	EmployeeCode      string      `json:"employeeCode,omitempty"`
	EmployeeName      string      `json:"employeeName,omitempty"`
	ProjectID         *int64      `json:"projectId,omitempty"`
	ProjectName       string      `json:"projectName"`
	Title             string      `json:"taskName"`
	Description       string      `json:"description"`
	Tools             []string    `json:"toolsUsed"`
	Shift             Shift       `json:"shiftType"`
	TotalMinutes      int         `json:"totalMinutes"`
	CompletionPercent int         `json:"completionPercent"`
	IsComplete        bool        `json:"isComplete"`
	Date              string      `json:"date"`
	CreatedAt         time.Time   `json:"createdAt"`
	TimeEntries       []TimeEntry `json:"timeEntries"`
}

// RecomputeTotal sets TotalMinutes to the sum of per-entry whole minutes.
func (w *WorkLog) RecomputeTotal() {
	total := 0
	for _, e := range w.TimeEntries {
		total += e.Minutes()
	}
	w.TotalMinutes = total
}

// Task converts the work log to the task shape used by the tracker.
func (w WorkLog) Task() Task {
	entries := make([]TimeEntry, len(w.TimeEntries))
	copy(entries, w.TimeEntries)
	tools := w.Tools
	if tools == nil {
		tools = []string{}
	}
	return Task{
		Project:           w.ProjectName,
		Title:             w.Title,
		Description:       w.Description,
		Tools:             tools,
		TimeEntries:       entries,
		IsComplete:        w.IsComplete,
		CompletionPercent: w.CompletionPercent,
		Persisted:         true,
		WorklogID:         w.ID,
	}
}

// JoinTools renders a tool set in its stored form.
func JoinTools(tools []string) string {
	return strings.Join(tools, ", ")
}

// SplitTools parses the stored form of a tool set, dropping blanks.
func SplitTools(s string) []string {
	tools := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tools = append(tools, t)
		}
	}
	return tools
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// FormatDate renders t as a calendar date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaySummary is the accumulated view of one employee's day.
type DaySummary struct {
	Employee     Identity     `json:"employee"`
	Date         string       `json:"date"`
	Shift        Shift        `json:"shift"`
	TotalSeconds int64        `json:"totalSeconds"`
	Submittable  bool         `json:"submittable"`
	WorkLogs     []WorkLog    `json:"workLogs"`
	Analytics    DayAnalytics `json:"analytics"`
}
