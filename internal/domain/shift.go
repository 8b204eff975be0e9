package domain

import (
	"strings"
	"time"

	"timestrap/internal/errors"
)

// Shift selects the target working duration for a day.
type Shift string

const (
	ShiftShort    Shift = "4hr"
	ShiftStandard Shift = "8hr"
	ShiftLong     Shift = "12hr"
)

// DefaultShift is the shift preselected for a new day.
const DefaultShift = ShiftStandard

var shiftTargets = map[Shift]int64{
	ShiftShort:    4 * 60 * 60,
	ShiftStandard: 8 * 60 * 60,
	ShiftLong:     12 * 60 * 60,
}

// Shifts returns the supported shifts, shortest first.
func Shifts() []Shift {
	return []Shift{ShiftShort, ShiftStandard, ShiftLong}
}

// ParseShift accepts exactly the identifiers of the shift table.
func ParseShift(s string) (Shift, error) {
	shift := Shift(strings.TrimSpace(s))
	if _, ok := shiftTargets[shift]; !ok {
		if shift == "" {
			return "", errors.NewValidationError("shift is required", nil)
		}
		return "", errors.NewInvalidInputError("shift", s, "must be one of 4hr, 8hr, 12hr")
	}
	return shift, nil
}

// IsValid reports whether the shift is in the table.
func (s Shift) IsValid() bool {
	_, ok := shiftTargets[s]
	return ok
}

// TargetSeconds returns the target duration of the shift in seconds, or 0 for a shift
// outside the table.
func (s Shift) TargetSeconds() int64 {
	return shiftTargets[s]
}

// Target returns the target duration of the shift.
func (s Shift) Target() time.Duration {
	return time.Duration(s.TargetSeconds()) * time.Second
}

// IsSubmittable reports whether total seconds reach the shift target. The boundary is
// inclusive. Shifts outside the table are never submittable.
func IsSubmittable(total int64, shift Shift) bool {
	target, ok := shiftTargets[shift]
	if !ok {
		return false
	}
	return total >= target
}

// Progress returns total as a percentage of the shift target, capped at 100.
func Progress(total int64, shift Shift) float64 {
	target := shift.TargetSeconds()
	if target == 0 {
		return 0
	}
	p := float64(total) / float64(target) * 100
	if p > 100 {
		return 100
	}
	return p
}
