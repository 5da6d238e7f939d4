package validation

import (
	"strings"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// RegistrationPayload is the raw registration body.
type RegistrationPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload is the raw login body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registrationFields struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=100"`
}

type loginFields struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// NormalizeEmail trims and lowercases an address. Email uniqueness is
// case-insensitive because every stored address passes through here.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration validates a registration body. The password is kept
// verbatim; name is trimmed and email normalized.
func ValidateRegistration(p RegistrationPayload) (domain.RegistrationInput, error) {
	f := registrationFields{
		Name:     strings.TrimSpace(p.Name),
		Email:    NormalizeEmail(p.Email),
		Password: p.Password,
	}
	if err := check(f); err != nil {
		return domain.RegistrationInput{}, err
	}
	return domain.RegistrationInput{Name: f.Name, Email: f.Email, Password: f.Password}, nil
}

func ValidateLogin(p LoginPayload) (domain.Credentials, error) {
	f := loginFields{Email: NormalizeEmail(p.Email), Password: p.Password}
	if err := check(f); err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{Email: f.Email, Password: f.Password}, nil
}
