package validation

import (
	"fmt"
	"time"

	"timestrap/internal/domain"
)

// TimeEntryValidator provides validation for TimeEntry-related operations
type TimeEntryValidator struct {
	validator *Validator
}

// NewTimeEntryValidator creates a new time entry validator
func NewTimeEntryValidator(v *Validator) *TimeEntryValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TimeEntryValidator{validator: v}
}

// ValidateTimeRange validates a start/end pair. field prefixes the reported field names.
func (tev *TimeEntryValidator) ValidateTimeRange(field string, start, end time.Time) error {
	validationError := NewValidationError()

	if start.IsZero() {
		validationError.AddRequiredError(field + ".startTime")
	}
	if end.IsZero() {
		validationError.AddRequiredError(field + ".endTime")
	}
	if validationError.HasErrors() {
		return validationError
	}

	if !tev.validator.IsValidTimeRange(start, end) {
		validationError.AddInvalidRangeError(field, map[string]time.Time{
			"start": start,
			"end":   end,
		}, "end time must not be before start time")
	} else if !tev.validator.IsValidDuration(end.Sub(start)) {
		validationError.AddInvalidValueError(field, end.Sub(start).String(),
			fmt.Sprintf("must not exceed %s", tev.validator.MaxEntryDuration()))
	}

	return validationError.Result()
}

// ValidateTimeEntry validates a domain.TimeEntry object
func (tev *TimeEntryValidator) ValidateTimeEntry(field string, entry domain.TimeEntry) error {
	return tev.ValidateTimeRange(field, entry.StartTime, entry.EndTime)
}

// ValidateTimeEntries validates every entry and requires at least one
func (tev *TimeEntryValidator) ValidateTimeEntries(entries []domain.TimeEntry) error {
	validationError := NewValidationError()

	if len(entries) == 0 {
		validationError.AddRequiredError("timeEntries")
		return validationError
	}
	for i, entry := range entries {
		validationError.Merge(tev.ValidateTimeEntry(fmt.Sprintf("timeEntries[%d]", i), entry))
	}

	return validationError.Result()
}

// ValidateTimeEntryID validates a time entry ID
func (tev *TimeEntryValidator) ValidateTimeEntryID(id int64) error {
	if !tev.validator.IsValidID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("time_entry_id", id, "must be a positive integer")
		return validationError
	}
	return nil
}
