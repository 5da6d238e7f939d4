package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/api/middleware"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
	"github.com/storefront/catalog-api/internal/core/validation"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	in, ok := middleware.PayloadFrom[domain.RegistrationInput](c)
	if !ok {
		var body validation.RegistrationPayload
		if err := c.Bind(&body); err != nil {
			return domain.NewValidationError("Request body must be a valid JSON object")
		}
		var err error
		if in, err = validation.ValidateRegistration(body); err != nil {
			return err
		}
	}

	if _, err := h.authService.Register(c.Request().Context(), in); err != nil {
		return err
	}
	metrics.UsersRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	in, ok := middleware.PayloadFrom[domain.Credentials](c)
	if !ok {
		var body validation.LoginPayload
		if err := c.Bind(&body); err != nil {
			return domain.NewValidationError("Request body must be a valid JSON object")
		}
		var err error
		if in, err = validation.ValidateLogin(body); err != nil {
			return err
		}
	}

	token, user, err := h.authService.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}
