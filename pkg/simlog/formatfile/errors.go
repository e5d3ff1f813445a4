package formatfile

import "fmt"

// ValidationError represents a file-level validation error, such as a
// missing required section or an unsupported version number.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// FieldError represents an error specific to an individual field
// definition (unknown kind, duplicate name, missing parameter).
type FieldError struct {
	Index   int    // 0-based index of the field in the file
	Name    string // field name (may be empty if the name is missing)
	Field   string
	Message string
	Cause   error
}

func (e *FieldError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("field %q: %s: %s", e.Name, e.Field, e.Message)
	}
	return fmt.Sprintf("field[%d]: %s: %s", e.Index, e.Field, e.Message)
}

// Unwrap returns the underlying cause of the error.
// This enables errors.Is() and errors.As() to work with FieldError.
func (e *FieldError) Unwrap() error {
	return e.Cause
}
