package validation

import (
	"fmt"

	"timestrap/internal/domain"
)

// WorkLogValidator validates work logs and timesheet submissions
type WorkLogValidator struct {
	validator *Validator
	tasks     *TaskValidator
}

// NewWorkLogValidator creates a new work log validator
func NewWorkLogValidator(v *Validator) *WorkLogValidator {
	if v == nil {
		v = NewValidator()
	}
	return &WorkLogValidator{
		validator: v,
		tasks:     NewTaskValidator(v),
	}
}

// ValidateEmployeeCode validates the shape of an employee code
func (wv *WorkLogValidator) ValidateEmployeeCode(code string) error {
	validationError := NewValidationError()
	if !wv.validator.IsNonEmptyString(code) {
		validationError.AddRequiredError("employeeCode")
	} else if !wv.validator.IsValidEmployeeCode(code) {
		validationError.AddInvalidFormatError("employeeCode", code, "letters, digits, '-' or '_'")
	}
	return validationError.Result()
}

// ValidateDate validates a YYYY-MM-DD date
func (wv *WorkLogValidator) ValidateDate(date string) error {
	validationError := NewValidationError()
	if !wv.validator.IsNonEmptyString(date) {
		validationError.AddRequiredError("date")
	} else if !wv.validator.IsValidDate(date) {
		validationError.AddInvalidFormatError("date", date, domain.DateLayout)
	}
	return validationError.Result()
}

// ValidateShift validates a shift identifier
func (wv *WorkLogValidator) ValidateShift(shift string) error {
	if _, err := domain.ParseShift(shift); err != nil {
		validationError := NewValidationError()
		if !wv.validator.IsNonEmptyString(shift) {
			validationError.AddRequiredError("shiftType")
		} else {
			validationError.AddInvalidValueError("shiftType", shift, "must be one of 4hr, 8hr, 12hr")
		}
		return validationError
	}
	return nil
}

// ValidateWorkLog validates a work log submitted for storage
func (wv *WorkLogValidator) ValidateWorkLog(employeeCode string, w domain.WorkLog) error {
	validationError := NewValidationError()

	validationError.Merge(wv.ValidateEmployeeCode(employeeCode))
	validationError.Merge(wv.ValidateShift(string(w.Shift)))
	validationError.Merge(wv.ValidateDate(w.Date))
	validationError.Merge(wv.tasks.ValidateTask(w.Task()))

	return validationError.Result()
}

// ValidateBundle validates a timesheet bundle handed to the submission gateway
func (wv *WorkLogValidator) ValidateBundle(b domain.TimesheetBundle) error {
	validationError := NewValidationError()

	if !wv.validator.IsNonEmptyString(b.Employee.EmployeeID) {
		validationError.AddRequiredError("employeeId")
	}
	if !wv.validator.IsNonEmptyString(b.Employee.EmployeeName) {
		validationError.AddRequiredError("employeeName")
	}
	validationError.Merge(wv.ValidateDate(b.Date))
	validationError.Merge(wv.ValidateShift(string(b.Shift)))

	if len(b.Tasks) == 0 {
		validationError.AddRequiredError("tasks")
	}
	for i, task := range b.Tasks {
		if err := wv.tasks.ValidateHeader(task.Project, task.Title); err != nil {
			ve := NewValidationError()
			ve.Merge(err)
			for _, fe := range ve.Errors {
				validationError.AddError(fmt.Sprintf("tasks[%d].%s", i, fe.Field), fe.Type, fe.Message, fe.Value)
			}
		}
	}

	return validationError.Result()
}

// ValidateEmail validates a recipient address
func (wv *WorkLogValidator) ValidateEmail(email string) error {
	validationError := NewValidationError()
	if !wv.validator.IsNonEmptyString(email) {
		validationError.AddRequiredError("email")
	} else if !wv.validator.IsValidEmail(email) {
		validationError.AddInvalidFormatError("email", email, "name@example.com")
	}
	return validationError.Result()
}
