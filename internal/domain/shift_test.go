package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timestrap/internal/errors"
)

func TestShift_TargetSeconds(t *testing.T) {
	assert.Equal(t, int64(14400), ShiftShort.TargetSeconds())
	assert.Equal(t, int64(28800), ShiftStandard.TargetSeconds())
	assert.Equal(t, int64(43200), ShiftLong.TargetSeconds())
	assert.Equal(t, int64(0), Shift("6hr").TargetSeconds())
	assert.Equal(t, 8*time.Hour, ShiftStandard.Target())
}

func TestParseShift(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expected       Shift
		errorAssertion func(t *testing.T, err error)
	}{
		{name: "short", input: "4hr", expected: ShiftShort},
		{name: "standard with spaces", input: " 8hr ", expected: ShiftStandard},
		{name: "long", input: "12hr", expected: ShiftLong},
		{
			name:  "empty",
			input: "",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
		{
			name:  "unknown",
			input: "6hr",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
				assert.Contains(t, err.Error(), "4hr, 8hr, 12hr")
			},
		},
		{
			name:  "case sensitive",
			input: "8HR",
			errorAssertion: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shift, err := ParseShift(tt.input)
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, shift)
		})
	}
}

func TestIsSubmittable_InclusiveBoundary(t *testing.T) {
	for _, shift := range Shifts() {
		target := shift.TargetSeconds()
		t.Run(string(shift), func(t *testing.T) {
			assert.False(t, IsSubmittable(target-1, shift))
			assert.True(t, IsSubmittable(target, shift))
			assert.True(t, IsSubmittable(target+1, shift))
		})
	}
}

func TestIsSubmittable_UnknownShift(t *testing.T) {
	assert.False(t, IsSubmittable(1_000_000, Shift("")))
	assert.False(t, IsSubmittable(1_000_000, Shift("24hr")))
}

func TestProgress(t *testing.T) {
	assert.InDelta(t, 50.0, Progress(14400, ShiftStandard), 0.001)
	assert.InDelta(t, 100.0, Progress(99999, ShiftShort), 0.001)
	assert.Equal(t, 0.0, Progress(100, Shift("x")))
}

func TestDefaultShift(t *testing.T) {
	assert.Equal(t, ShiftStandard, DefaultShift)
	assert.True(t, DefaultShift.IsValid())
}
