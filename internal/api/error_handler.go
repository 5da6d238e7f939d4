package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/core/domain"
)

// unavailableRetryAfter is the Retry-After hint sent with every 503.
const unavailableRetryAfter = "5"

// statusClientClosedRequest is the nginx convention for requests abandoned by
// the client. Nobody reads the body; the code only shows up in access logs.
const statusClientClosedRequest = 499

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (unknown route, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("echo error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if errors.Is(err, context.Canceled) {
		log.Debug().Str("path", c.Path()).Msg("request cancelled by client")
		return statusClientClosedRequest, "Client closed request"
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		secs := int(math.Ceil(rl.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
		return http.StatusTooManyRequests, "Too many requests, please try again later."
	}

	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "Invalid product ID format"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest, "Resource already exists"

	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusUnauthorized, "Access denied. No token provided."
	case errors.Is(err, domain.ErrMalformedHeader):
		return http.StatusUnauthorized, "Invalid authorization header format"
	case errors.Is(err, domain.ErrTokenUserGone):
		return http.StatusUnauthorized, "User not found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid or expired token"

	case errors.Is(err, domain.ErrOriginDenied):
		return http.StatusForbidden, "Origin not allowed by CORS policy"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access denied. Admin privileges required."

	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Resource not found"

	case errors.Is(err, domain.ErrUnavailable):
		metrics.StorageUnavailableTotal.WithLabelValues(c.Path()).Inc()
		log.Warn().Err(err).Str("path", c.Path()).Msg("storage unavailable")
		c.Response().Header().Set("Retry-After", unavailableRetryAfter)
		return http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again later."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error"
}
