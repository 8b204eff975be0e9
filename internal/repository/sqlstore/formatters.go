package sqlstore

import (
	"time"
)

// FormatTimeForDB formats a time.Time value as RFC3339 string for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// BoolForDB stores booleans as 0/1 so both dialects share one column type.
func BoolForDB(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NullableID returns nil for a missing foreign key.
func NullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
