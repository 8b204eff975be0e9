package cli

import (
	"fmt"
	"sort"
	"strings"

	"timestrap/internal/errors"
	"timestrap/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %s", operation, eh.message(err))
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if !validation.IsValidationError(err) && !errors.IsAppError(err) {
		return err
	}
	return fmt.Errorf("%s", eh.message(err))
}

func (eh *ErrorHandler) message(err error) string {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		if ve, isValidation := err.(*validation.ValidationError); isValidation {
			return ve.GetUserFriendlyMessage()
		}
		return err.Error()
	}

	message := errors.GetUserMessage(err)
	if raw, found := appErr.GetContext("fields"); found {
		if fields, isMap := raw.(map[string]string); isMap && len(fields) > 1 {
			names := make([]string, 0, len(fields))
			for name := range fields {
				names = append(names, name)
			}
			sort.Strings(names)
			lines := make([]string, 0, len(names))
			for _, name := range names {
				lines = append(lines, fmt.Sprintf("  %s: %s", name, fields[name]))
			}
			message = "invalid input:\n" + strings.Join(lines, "\n")
		}
	}
	return message
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsDatabaseError checks if an error is a database error
func (eh *ErrorHandler) IsDatabaseError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeDatabase)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
