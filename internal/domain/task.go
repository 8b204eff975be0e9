package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work carrying one or more time entries.
// IsComplete and CompletionPercent are deliberately independent of each other.
type Task struct {
	ID                string      `json:"id" yaml:"id,omitempty"`
	Project           string      `json:"project" yaml:"project"`
	Title             string      `json:"title" yaml:"title"`
	Description       string      `json:"description" yaml:"description,omitempty"`
	Tools             []string    `json:"tools" yaml:"tools,omitempty"`
	TimeEntries       []TimeEntry `json:"timeEntries" yaml:"entries"`
	IsComplete        bool        `json:"isComplete" yaml:"complete,omitempty"`
	CompletionPercent int         `json:"completionPercent" yaml:"percent,omitempty"`

	// Persisted is set once the backend has accepted the task. WorklogID is the
	// server-issued identifier and survives in sheet files so that a resubmission updates
	// the stored work log instead of creating another.
	Persisted bool  `json:"saved" yaml:"-"`
	WorklogID int64 `json:"worklogId,omitempty" yaml:"worklogId,omitempty"`
}

// Recorded task metadata used when a live recording is stopped.
const (
	RecordedProject     = "Recorded Session"
	RecordedTitle       = "Time Recording"
	RecordedDescription = "Automatically tracked time"
)

// NewTask creates a task with the given project and title, an empty tool set and a single
// now/now entry.
func NewTask(project, title string, now time.Time) Task {
	return Task{
		ID:          uuid.NewString(),
		Project:     project,
		Title:       title,
		Tools:       []string{},
		TimeEntries: []TimeEntry{NewTimeEntry(now)},
	}
}

// NewRecordedTask turns a finished recording interval into a one-entry task.
func NewRecordedTask(start, end time.Time) Task {
	return Task{
		ID:          uuid.NewString(),
		Project:     RecordedProject,
		Title:       RecordedTitle,
		Description: RecordedDescription,
		Tools:       []string{},
		TimeEntries: []TimeEntry{NewClosedTimeEntry(start, end)},
	}
}

// IsValid checks that the fields required to save a task are present.
func (t Task) IsValid() bool {
	return strings.TrimSpace(t.Project) != "" && strings.TrimSpace(t.Title) != ""
}

// Seconds returns the accumulated seconds of all entries of the task.
func (t Task) Seconds() int64 {
	var total int64
	for _, e := range t.TimeEntries {
		total += e.Seconds()
	}
	return total
}

// Minutes returns the sum of per-entry whole minutes.
func (t Task) Minutes() int {
	total := 0
	for _, e := range t.TimeEntries {
		total += e.Minutes()
	}
	return total
}

// EntryIndex returns the position of the entry with the given id, or -1.
func (t Task) EntryIndex(id string) int {
	for i, e := range t.TimeEntries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so that edits on the copy never reach the original.
func (t Task) Clone() Task {
	c := t
	if t.Tools != nil {
		c.Tools = append([]string(nil), t.Tools...)
	}
	if t.TimeEntries != nil {
		c.TimeEntries = append([]TimeEntry(nil), t.TimeEntries...)
	}
	return c
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Project + " / " + t.Title
}
