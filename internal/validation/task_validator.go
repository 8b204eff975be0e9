package validation

import (
	"timestrap/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
	entries   *TimeEntryValidator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator(v *Validator) *TaskValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TaskValidator{
		validator: v,
		entries:   NewTimeEntryValidator(v),
	}
}

// ValidateHeader validates the project and title of a task
func (tv *TaskValidator) ValidateHeader(project, title string) error {
	validationError := NewValidationError()

	if !tv.validator.IsNonEmptyString(project) {
		validationError.AddRequiredError("project")
	} else if !tv.validator.IsValidProjectLength(project) {
		validationError.AddInvalidLengthError("project", project, 1, tv.validator.ProjectMaxLength())
	} else if tv.validator.HasControlCharacters(project) {
		validationError.AddInvalidCharacterError("project", project)
	}

	if !tv.validator.IsNonEmptyString(title) {
		validationError.AddRequiredError("title")
	} else if !tv.validator.IsValidTitleLength(title) {
		validationError.AddInvalidLengthError("title", title, 1, tv.validator.TitleMaxLength())
	} else if tv.validator.HasControlCharacters(title) {
		validationError.AddInvalidCharacterError("title", title)
	}

	return validationError.Result()
}

// ValidateCompletionPercent validates a completion percentage
func (tv *TaskValidator) ValidateCompletionPercent(percent int) error {
	if !tv.validator.IsValidPercent(percent) {
		validationError := NewValidationError()
		validationError.AddInvalidRangeError("completionPercent", percent, "must be between 0 and 100")
		return validationError
	}
	return nil
}

// ValidateTask validates a domain.Task object including its time entries
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	validationError := NewValidationError()

	validationError.Merge(tv.ValidateHeader(task.Project, task.Title))
	validationError.Merge(tv.ValidateCompletionPercent(task.CompletionPercent))
	validationError.Merge(tv.entries.ValidateTimeEntries(task.TimeEntries))

	return validationError.Result()
}
