package usecase

import "errors"

// ValidationError reports malformed input. The message is safe to return to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrNameRequired       = &ValidationError{Field: "name", Message: "name required"}
	ErrInvalidEmail       = &ValidationError{Field: "email", Message: "invalid email"}
	ErrPasswordTooShort   = &ValidationError{Field: "password", Message: "password too short"}
	ErrInvalidPhoneNumber = &ValidationError{Field: "phoneNumber", Message: "invalid phone number"}
)

var (
	ErrAccountAlreadyExists = errors.New("email or phone already registered")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthenticated      = errors.New("unauthenticated")

	// ErrStoreFailure hides the cause of a record store failure from callers.
	// The cause is logged where it happens.
	ErrStoreFailure = errors.New("account store failure")
)
