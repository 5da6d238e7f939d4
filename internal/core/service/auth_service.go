package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
	"github.com/storefront/catalog-api/internal/core/validation"
)

const avatarBaseURL = "https://ui-avatars.com/api/?name="

// AuthService implements registration, login and bearer-token authentication.
type AuthService struct {
	users  ports.UserRepository
	gate   ports.StorageGate
	tokens TokenConfig
	cost   int
	now    func() time.Time
	logger zerolog.Logger
}

type AuthOption func(*AuthService)

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.cost = cost }
}

// WithClock overrides the time source used for token timestamps.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(users ports.UserRepository, gate ports.StorageGate, tokens TokenConfig, logger zerolog.Logger, opts ...AuthOption) *AuthService {
	if tokens.TTL <= 0 {
		tokens.TTL = 24 * time.Hour
	}
	s := &AuthService{
		users:  users,
		gate:   gate,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user account with role "user".
func (s *AuthService) Register(ctx context.Context, in domain.RegistrationInput) (*domain.User, error) {
	if err := s.gate.EnsureReady(ctx); err != nil {
		return nil, err
	}

	email := validation.NormalizeEmail(in.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrUserExists
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := hashPassword(in.Password, s.cost)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		Image:        avatarURL(in.Name),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login verifies credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, in domain.Credentials) (string, *domain.User, error) {
	if err := s.gate.EnsureReady(ctx); err != nil {
		return "", nil, err
	}

	user, err := s.users.FindByEmail(ctx, validation.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !checkPassword(user.PasswordHash, in.Password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate resolves an Authorization header into the identity of a user
// that still exists. The identity is built from the stored record, not from
// the token claims.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) (*domain.Identity, error) {
	raw, err := bearerToken(authorization)
	if err != nil {
		return nil, err
	}

	claims, err := s.parseToken(raw)
	if err != nil {
		return nil, err
	}

	if err := s.gate.EnsureReady(ctx); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenUserGone
		}
		return nil, err
	}

	role, err := domain.ParseRole(string(user.Role))
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("stored user has unknown role")
		return nil, domain.ErrInvalidToken
	}

	return &domain.Identity{ID: user.ID, Email: user.Email, Role: role}, nil
}

// RequireAdmin allows only identities with the admin role.
func RequireAdmin(identity *domain.Identity) error {
	if identity == nil {
		return domain.ErrMissingToken
	}
	if !identity.Role.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.ErrMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", domain.ErrMalformedHeader
	}
	return parts[1], nil
}

func avatarURL(name string) string {
	return avatarBaseURL + url.QueryEscape(name)
}
