package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/cors"
)

// CORS rejects requests whose Origin the policy denies and delegates the
// header handling for allowed origins (preflight included) to echo.
func CORS(policy *cors.Policy, logger zerolog.Logger) echo.MiddlewareFunc {
	headers := echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			return policy.Allowed(origin), nil
		},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{
			echo.HeaderXRequestID,
			"Retry-After",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: true,
		MaxAge:           600,
	})
	denials := &rate.Sometimes{First: 1, Interval: 10 * time.Second}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withHeaders := headers(next)
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if d := policy.Decide(origin); !d.Allowed {
				metrics.CORSDeniedTotal.Inc()
				denials.Do(func() {
					logger.Warn().Str("origin", origin).Str("reason", string(d.Reason)).Msg("origin denied by CORS policy")
				})
				return domain.ErrOriginDenied
			}
			return withHeaders(c)
		}
	}
}
