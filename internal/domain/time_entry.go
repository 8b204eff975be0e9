package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is a closed start/end pair of wall-clock instants.
// The ID is an opaque token that only has to be unique within its Task.
type TimeEntry struct {
	ID        string    `json:"id" yaml:"id,omitempty"`
	StartTime time.Time `json:"startTime" yaml:"start"`
	EndTime   time.Time `json:"endTime" yaml:"end"`
}

// NewTimeEntry creates an entry whose start and end are both now.
func NewTimeEntry(now time.Time) TimeEntry {
	return TimeEntry{
		ID:        uuid.NewString(),
		StartTime: now,
		EndTime:   now,
	}
}

// NewClosedTimeEntry creates an entry spanning start to end.
func NewClosedTimeEntry(start, end time.Time) TimeEntry {
	return TimeEntry{
		ID:        uuid.NewString(),
		StartTime: start,
		EndTime:   end,
	}
}

// Duration returns end - start, which may be negative for a malformed entry.
func (te TimeEntry) Duration() time.Duration {
	return te.EndTime.Sub(te.StartTime)
}

// Seconds returns the whole seconds covered by the entry, clamped at zero.
func (te TimeEntry) Seconds() int64 {
	return EntrySeconds(te.StartTime, te.EndTime)
}

// IsReversed reports whether the entry ends before it starts.
func (te TimeEntry) IsReversed() bool {
	return te.EndTime.Before(te.StartTime)
}

// Minutes returns the whole minutes covered by the entry, clamped at zero.
// Work logs store their total as the sum of these.
func (te TimeEntry) Minutes() int {
	return int(te.Seconds() / 60)
}
