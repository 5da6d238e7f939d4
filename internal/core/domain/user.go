package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string onto the enum. Unknown values are
// rejected instead of silently degrading.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case "":
		return RoleUser, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Image        string    `json:"image"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegistrationInput is a validated, normalized registration request.
type RegistrationInput struct {
	Name     string
	Email    string
	Password string
}

// Credentials is a validated login request.
type Credentials struct {
	Email    string
	Password string
}

// Identity is the request-scoped view of an authenticated user. It is rebuilt
// from storage on every request and never persisted.
type Identity struct {
	ID    string
	Email string
	Role  Role
}
