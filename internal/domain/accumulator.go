package domain

import (
	"fmt"
	"time"
)

// EntrySeconds returns the whole seconds between start and end, truncated, and zero when
// end is before start.
func EntrySeconds(start, end time.Time) int64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// Accumulate returns the total seconds of every entry of every task plus the elapsed time of
// the session when it is active. Each entry is floored on its own; overlapping entries are
// counted twice.
func Accumulate(tasks []Task, session RecordingSession, now time.Time) int64 {
	var total int64
	for _, task := range tasks {
		for _, entry := range task.TimeEntries {
			total += entry.Seconds()
		}
	}
	return total + session.ElapsedSeconds(now)
}

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
