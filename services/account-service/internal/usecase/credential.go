package usecase

import (
	"strings"

	"github.com/vasapolrittideah/account-api/shared/validator"
)

// CredentialValidator checks the shape of account input before it reaches the store.
type CredentialValidator struct {
	validate *validator.Validator
}

// NewCredentialValidator creates a CredentialValidator on top of the shared validator.
func NewCredentialValidator(validate *validator.Validator) *CredentialValidator {
	return &CredentialValidator{validate: validate}
}

// Validate runs the checks in order and returns the first violation.
func (v *CredentialValidator) Validate(name, email, password, phoneNumber string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if err := v.validate.Var(email, "required,email,email_domain"); err != nil {
		return ErrInvalidEmail
	}
	if err := v.validate.Var(password, "required,min=6"); err != nil {
		return ErrPasswordTooShort
	}
	if err := v.validate.Var(phoneNumber, "phone"); err != nil {
		return ErrInvalidPhoneNumber
	}

	return nil
}
