package tracker

import (
	"time"

	"timestrap/internal/domain"
	"timestrap/internal/errors"
	"timestrap/internal/validation"
)

// Edit is a detached copy of a task. Changes reach the sheet only through CommitEdit.
type Edit struct {
	task    domain.Task
	entries *validation.TimeEntryValidator
	clock   Clock
}

// Task returns a copy of the edited task.
func (e *Edit) Task() domain.Task { return e.task.Clone() }

// SetProject sets the project name.
func (e *Edit) SetProject(project string) { e.task.Project = project }

// SetTitle sets the title.
func (e *Edit) SetTitle(title string) { e.task.Title = title }

// SetDescription sets the description.
func (e *Edit) SetDescription(description string) { e.task.Description = description }

// SetTools replaces the tool tags.
func (e *Edit) SetTools(tools []string) { e.task.Tools = cleanTools(tools) }

// AddEntry appends a now/now entry and returns it.
func (e *Edit) AddEntry() domain.TimeEntry {
	entry := domain.NewTimeEntry(e.clock.Now())
	e.task.TimeEntries = append(e.task.TimeEntries, entry)
	return entry
}

// UpdateEntry changes the bounds of an entry.
func (e *Edit) UpdateEntry(id string, start, end time.Time) error {
	i := e.task.EntryIndex(id)
	if i < 0 {
		return errors.NewNotFoundError("time entry", id)
	}
	if err := e.entries.ValidateTimeRange("timeEntries", start, end); err != nil {
		return validation.ToAppError(err)
	}
	e.task.TimeEntries[i].StartTime = start
	e.task.TimeEntries[i].EndTime = end
	return nil
}

// RemoveEntry deletes an entry. The last entry of a task cannot be removed.
func (e *Edit) RemoveEntry(id string) error {
	i := e.task.EntryIndex(id)
	if i < 0 {
		return errors.NewNotFoundError("time entry", id)
	}
	if len(e.task.TimeEntries) == 1 {
		return errors.NewConflictError("remove time entry", "a task keeps at least one time entry")
	}
	e.task.TimeEntries = append(e.task.TimeEntries[:i], e.task.TimeEntries[i+1:]...)
	return nil
}
