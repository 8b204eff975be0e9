package domain

import "time"

// RecordingSession is the live stopwatch of a tracker. At most one session is active.
type RecordingSession struct {
	Start  time.Time `json:"start" yaml:"start,omitempty"`
	Active bool      `json:"active" yaml:"active,omitempty"`
}

// StartRecording returns an active session started at now.
func StartRecording(now time.Time) RecordingSession {
	return RecordingSession{Start: now, Active: true}
}

// ElapsedSeconds returns the whole seconds from Start to now, or zero when idle.
func (r RecordingSession) ElapsedSeconds(now time.Time) int64 {
	if !r.Active {
		return 0
	}
	return EntrySeconds(r.Start, now)
}

// Stop ends the session at now and returns the task representing the recorded interval.
// An idle session yields ok=false.
func (r RecordingSession) Stop(now time.Time) (task Task, ok bool) {
	if !r.Active {
		return Task{}, false
	}
	return NewRecordedTask(r.Start, now), true
}
