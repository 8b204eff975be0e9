package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"timestrap/internal/config"
	"timestrap/internal/domain"
)

var (
	employeeCodeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_\-]*$`)
	emailRegex        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string length in characters is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTitleLength checks a task title against the configured limit
func (v *Validator) IsValidTitleLength(title string) bool {
	return v.IsValidStringLength(title, 1, v.TitleMaxLength())
}

// IsValidProjectLength checks a project name against the configured limit
func (v *Validator) IsValidProjectLength(project string) bool {
	return v.IsValidStringLength(project, 1, v.ProjectMaxLength())
}

// IsValidTimeRange checks that end is not before start. Zero-length entries are valid.
func (v *Validator) IsValidTimeRange(start, end time.Time) bool {
	return !end.Before(start)
}

// IsValidDuration checks if a duration is within reasonable bounds
func (v *Validator) IsValidDuration(duration time.Duration) bool {
	return duration >= 0 && duration <= v.MaxEntryDuration()
}

// IsValidID checks if a database ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// IsValidEmployeeCode checks the shape of an employee code
func (v *Validator) IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

// IsValidEmail performs a shallow address check
func (v *Validator) IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// IsValidDate checks for a YYYY-MM-DD calendar date
func (v *Validator) IsValidDate(date string) bool {
	_, err := domain.ParseDate(date)
	return err == nil
}

// IsValidPercent checks a completion percentage
func (v *Validator) IsValidPercent(p int) bool {
	return p >= 0 && p <= 100
}

// HasControlCharacters reports whether s, once trimmed, still contains control characters
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.IndexFunc(strings.TrimSpace(s), unicode.IsControl) >= 0
}

// TitleMaxLength returns configured maximum title length or default
func (v *Validator) TitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 255 // Default maximum
}

// ProjectMaxLength returns configured maximum project length or default
func (v *Validator) ProjectMaxLength() int {
	if v.config != nil {
		return v.config.Validation.ProjectMaxLength
	}
	return 255 // Default maximum
}

// MaxEntryDuration returns configured maximum entry duration or default
func (v *Validator) MaxEntryDuration() time.Duration {
	if v.config != nil {
		return v.config.Validation.MaxEntryDuration
	}
	return 24 * time.Hour // Default maximum
}
