package wizard

import "errors"

var ErrValidation = errors.New("validation failed")

// ValidationError is shown next to the control named by Field. It is not
// fatal; the user fixes the field and submits again.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
