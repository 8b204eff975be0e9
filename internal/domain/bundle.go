package domain

import "time"

// TimesheetBundle is what a tracker hands to the submission gateway.
type TimesheetBundle struct {
	Employee Identity `json:"employee"`
	Date     string   `json:"date"`
	Shift    Shift    `json:"shift"`
	Tasks    []Task   `json:"tasks"`
}

// NewTimesheetBundle snapshots the tasks of a sheet. Tasks are deep-copied so later
// edits do not leak into an in-flight submission.
func NewTimesheetBundle(identity Identity, date time.Time, shift Shift, tasks []Task) TimesheetBundle {
	snapshot := make([]Task, len(tasks))
	for i, t := range tasks {
		snapshot[i] = t.Clone()
	}
	return TimesheetBundle{
		Employee: identity,
		Date:     FormatDate(date),
		Shift:    shift,
		Tasks:    snapshot,
	}
}

// TotalSeconds returns the accumulated seconds of all tasks in the bundle.
func (b TimesheetBundle) TotalSeconds() int64 {
	return Accumulate(b.Tasks, RecordingSession{}, time.Time{})
}

// Submittable reports whether the bundle total reaches its shift target.
func (b TimesheetBundle) Submittable() bool {
	return IsSubmittable(b.TotalSeconds(), b.Shift)
}
