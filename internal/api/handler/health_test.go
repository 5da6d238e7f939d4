package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestReadiness(t *testing.T) {
	ok := Probe{Name: "mongodb", Ping: func(context.Context) error { return nil }}
	down := Probe{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	c, rec := newContext(http.MethodGet, "/health/ready", "")
	if err := NewReadinessHandler(ok).Readiness(c); err != nil {
		t.Fatalf("Readiness returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newContext(http.MethodGet, "/health/ready", "")
	if err := NewReadinessHandler(ok, down).Readiness(c); err != nil {
		t.Fatalf("Readiness returned error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "degraded" || body.Dependencies["redis"].Status != "unhealthy" || body.Dependencies["mongodb"].Status != "ok" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestLiveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "")
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("Liveness returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
