package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, in domain.RegistrationInput) (*domain.User, error)
	Login(ctx context.Context, in domain.Credentials) (string, *domain.User, error)
}

// Authenticator resolves an Authorization header value into an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (*domain.Identity, error)
}
