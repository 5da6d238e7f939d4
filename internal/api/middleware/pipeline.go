package middleware

import (
	"bytes"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-api/internal/api/pipeline"
	"github.com/storefront/catalog-api/internal/core/domain"
)

const (
	ctxIdentity = "identity"
	ctxPayload  = "payload"
)

// Pipeline runs p before the handler. Headers collected by the stages are
// written even when a stage rejects the request.
func Pipeline(p pipeline.Pipeline) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()

			var body []byte
			if r.Body != nil {
				b, err := io.ReadAll(r.Body)
				if err != nil {
					return err
				}
				body = b
				r.Body = io.NopCloser(bytes.NewReader(b))
			}

			req := pipeline.NewRequest(r.Method, c.Path(), c.RealIP(), r.Header, body)
			err := p.Run(r.Context(), req)

			h := c.Response().Header()
			for k, vs := range req.ResponseHeader {
				for _, v := range vs {
					h.Add(k, v)
				}
			}
			if err != nil {
				return err
			}

			if req.Identity != nil {
				c.Set(ctxIdentity, req.Identity)
			}
			if req.Payload != nil {
				c.Set(ctxPayload, req.Payload)
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity resolved by the authentication stage.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	id, ok := c.Get(ctxIdentity).(*domain.Identity)
	return id, ok
}

// PayloadFrom returns the payload produced by a validation stage.
func PayloadFrom[T any](c echo.Context) (T, bool) {
	v, ok := c.Get(ctxPayload).(T)
	return v, ok
}
