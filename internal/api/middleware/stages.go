package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/api/pipeline"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
	"github.com/storefront/catalog-api/internal/core/service"
	"github.com/storefront/catalog-api/internal/core/validation"
	"github.com/storefront/catalog-api/internal/ratelimit"
)

// RateLimit counts the request against l and rejects it once the client's
// window is exhausted. X-RateLimit-* headers are emitted either way.
func RateLimit(l *ratelimit.Limiter) pipeline.Stage {
	name := l.Rule().Name
	return pipeline.Stage{
		Name: "rate_limit:" + name,
		Run: func(ctx context.Context, req *pipeline.Request) error {
			d := l.Check(ctx, req.ClientKey)

			if d.Limit > 0 {
				req.ResponseHeader.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
				req.ResponseHeader.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
				if !d.ResetAt.IsZero() {
					req.ResponseHeader.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
				}
			}

			if !d.Allowed {
				metrics.RateLimitDecisionsTotal.WithLabelValues(name, "rejected").Inc()
				return &domain.RateLimitError{Limiter: name, RetryAfter: d.RetryAfter}
			}
			metrics.RateLimitDecisionsTotal.WithLabelValues(name, "allowed").Inc()
			return nil
		},
	}
}

// Authenticate resolves the bearer token into req.Identity.
func Authenticate(a ports.Authenticator) pipeline.Stage {
	return pipeline.Stage{
		Name: "authenticate",
		Run: func(ctx context.Context, req *pipeline.Request) error {
			identity, err := a.Authenticate(ctx, req.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					metrics.AuthFailuresTotal.WithLabelValues(authFailureReason(err)).Inc()
				}
				return err
			}
			req.Identity = identity
			return nil
		},
	}
}

// RequireAdmin must follow Authenticate.
func RequireAdmin() pipeline.Stage {
	return pipeline.Stage{
		Name: "require_admin",
		Run: func(_ context.Context, req *pipeline.Request) error {
			return service.RequireAdmin(req.Identity)
		},
	}
}

// ValidateProduct sets req.Payload to a domain.ProductInput.
func ValidateProduct() pipeline.Stage {
	return validateStage("validate_product", validation.ValidateProduct)
}

// ValidateRegistration sets req.Payload to a domain.RegistrationInput.
func ValidateRegistration() pipeline.Stage {
	return validateStage("validate_registration", validation.ValidateRegistration)
}

// ValidateLogin sets req.Payload to a domain.Credentials.
func ValidateLogin() pipeline.Stage {
	return validateStage("validate_login", validation.ValidateLogin)
}

func validateStage[P, T any](name string, validate func(P) (T, error)) pipeline.Stage {
	return pipeline.Stage{
		Name: name,
		Run: func(_ context.Context, req *pipeline.Request) error {
			var payload P
			if len(req.Body) > 0 {
				if err := json.Unmarshal(req.Body, &payload); err != nil {
					return domain.NewValidationError("Request body must be a valid JSON object")
				}
			}
			in, err := validate(payload)
			if err != nil {
				return err
			}
			req.Payload = in
			return nil
		},
	}
}

func authFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, domain.ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, domain.ErrTokenUserGone):
		return "user_not_found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	}
	return "invalid_token"
}
