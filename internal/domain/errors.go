package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateSubmission is returned when a participant already answered a question.
	ErrDuplicateSubmission = errors.New("already answered this question")
	// ErrParticipantNotFound is returned when a referenced participant does not exist.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrQuestionNotFound indicates a referenced question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrBadgeNotFound indicates a referenced badge does not exist.
	ErrBadgeNotFound = errors.New("badge not found")
	// ErrLabelNotFound indicates a manager group or category does not exist.
	ErrLabelNotFound = errors.New("label not found")
	// ErrValidation wraps malformed input rejected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned by admin-only operations for non-admin callers.
	ErrUnauthorized = errors.New("admin access required")
	// ErrConflict indicates a uniqueness violation other than duplicate answers.
	ErrConflict = errors.New("resource already exists")
	// ErrQuestionActive prevents deleting the question currently broadcast.
	ErrQuestionActive = errors.New("cannot delete active question, end it first")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field errors and unwraps to ErrValidation.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	switch len(ve) {
	case 0:
		return ErrValidation.Error()
	case 1:
		return fmt.Sprintf("%s: %s %s", ErrValidation, ve[0].Field, ve[0].Message)
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (ve ValidationErrors) Unwrap() error {
	return ErrValidation
}

// Invalid is a shorthand for a single-field validation error.
func Invalid(field, message string) error {
	return ValidationErrors{{Field: field, Message: message}}
}
