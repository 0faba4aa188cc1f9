package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrDuplicate     = errors.New("duplicate resource")
	ErrUnauthorized  = errors.New("unauthorized")

	// ErrAuthNotReady is returned by writes issued before the session is loaded and signed in.
	ErrAuthNotReady = errors.New("authentication is not ready")

	// ErrMissingConfig is wrapped with the name of the missing variable.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrBusinessUnresolved means the upsert and the refetch both came back empty.
	// That only happens with broken table permissions or schema, never on the normal path.
	ErrBusinessUnresolved = errors.New("no business row could be resolved; check table permissions and query filters")
)

// ValidationError describes a rejected input field. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports ErrInvalidInput so callers can branch without knowing the field.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid builds a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
