package models

import "fmt"

// ValidationError reports a malformed or out-of-range input value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Reasons carried by InvalidFieldError.
const (
	ReasonImmutable = "field is immutable"
	ReasonUnknown   = "unknown field"
)

// InvalidFieldError reports an update that targets a field which is unknown or
// may not be written.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// Message is the client-facing sentence for the error.
func (e *InvalidFieldError) Message() string {
	if e.Reason == ReasonImmutable {
		return fmt.Sprintf("Field %q cannot be updated.", e.Field)
	}
	return fmt.Sprintf("Field %q is not recognized.", e.Field)
}
