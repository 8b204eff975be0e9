package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timestrap/internal/config"
	"timestrap/internal/domain"
)

func TestTimeEntryValidator_ValidateTimeRange(t *testing.T) {
	validator := NewTimeEntryValidator(nil)
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantField string
		wantType  ValidationErrorType
	}{
		{name: "valid hour", start: start, end: start.Add(time.Hour)},
		{name: "zero length", start: start, end: start},
		{name: "missing start", end: start, wantField: "entry.startTime", wantType: ErrorTypeRequired},
		{name: "reversed", start: start, end: start.Add(-time.Minute), wantField: "entry", wantType: ErrorTypeInvalidRange},
		{name: "too long", start: start, end: start.Add(25 * time.Hour), wantField: "entry", wantType: ErrorTypeInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTimeRange("entry", tt.start, tt.end)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Errors[0].Field)
			assert.Equal(t, tt.wantType, ve.Errors[0].Type)
		})
	}
}

func TestTimeEntryValidator_ConfiguredMaximum(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.MaxEntryDuration = 30 * time.Minute
	validator := NewTimeEntryValidator(NewValidatorWithConfig(cfg))
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	assert.NoError(t, validator.ValidateTimeRange("entry", start, start.Add(30*time.Minute)))
	assert.Error(t, validator.ValidateTimeRange("entry", start, start.Add(31*time.Minute)))
}

func TestTimeEntryValidator_ValidateTimeEntries(t *testing.T) {
	validator := NewTimeEntryValidator(nil)
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	assert.Error(t, validator.ValidateTimeEntries(nil))
	assert.NoError(t, validator.ValidateTimeEntries([]domain.TimeEntry{domain.NewTimeEntry(start)}))

	err := validator.ValidateTimeEntries([]domain.TimeEntry{
		domain.NewClosedTimeEntry(start, start.Add(time.Hour)),
		domain.NewClosedTimeEntry(start, start.Add(-time.Hour)),
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "timeEntries[1]", ve.Errors[0].Field)
}

func TestTimeEntryValidator_ValidateTimeEntryID(t *testing.T) {
	validator := NewTimeEntryValidator(nil)

	assert.NoError(t, validator.ValidateTimeEntryID(1))
	assert.Error(t, validator.ValidateTimeEntryID(0))
	assert.Error(t, validator.ValidateTimeEntryID(-3))
}
