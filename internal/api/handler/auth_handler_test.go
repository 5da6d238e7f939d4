package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/storefront/catalog-api/internal/core/domain"
)

type stubAuthService struct {
	registered *domain.RegistrationInput
	err        error
}

func (s *stubAuthService) Register(_ context.Context, in domain.RegistrationInput) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.registered = &in
	return &domain.User{ID: "u1", Name: in.Name, Email: in.Email, Role: domain.RoleUser}, nil
}

func (s *stubAuthService) Login(_ context.Context, in domain.Credentials) (string, *domain.User, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return "signed.jwt.token", &domain.User{ID: "u1", Email: in.Email}, nil
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)
	c, rec := newContext(http.MethodPost, "/register", `{"name":"Jo","email":"A@B.com","password":"secret"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.registered == nil || svc.registered.Email != "a@b.com" {
		t.Fatalf("email not normalized: %+v", svc.registered)
	}
}

func TestAuthHandler_RegisterConflict(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrUserExists})
	c, _ := newContext(http.MethodPost, "/register", `{"name":"Jo","email":"a@b.com","password":"secret"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, rec := newContext(http.MethodPost, "/login", `{"email":"a@b.com","password":"secret"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	var body loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token != "signed.jwt.token" || body.User == nil {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAuthHandler_LoginInvalidBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := newContext(http.MethodPost, "/login", `{"email":"not-an-email"}`)

	var ve *domain.ValidationError
	if err := h.Login(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
