package core

import "errors"

// ErrValidation matches every validation failure via errors.Is.
var ErrValidation = errors.New("validation failed")

var (
	ErrMissingFields     error = &ValidationError{Field: "form", Message: "please fill in all fields"}
	ErrEmptyCategoryName error = &ValidationError{Field: "name", Message: "please enter a category name"}
	ErrInvalidAmount     error = &ValidationError{Field: "amount", Message: "amount must be a positive number"}
	ErrInvalidDate       error = &ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"}
	ErrInvalidType       error = &ValidationError{Field: "type", Message: "type must be income or expense"}
	ErrUnknownCategory   error = &ValidationError{Field: "categoryId", Message: "selected category does not exist"}
)

var (
	ErrNotFound             = errors.New("not found")
	ErrConfirmationDeclined = errors.New("confirmation declined")
)

// ValidationError is a user-facing input error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
