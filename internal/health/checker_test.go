package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func TestHandleHealth(t *testing.T) {
	c := NewChecker("nba-edge", "1.2.3", "abc123")

	rec := httptest.NewRecorder()
	c.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Status != "ok" || resp.Service != "nba-edge" || resp.Version != "1.2.3" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleReadyNotReady(t *testing.T) {
	c := NewChecker("nba-edge", "", "")

	rec := httptest.NewRecorder()
	c.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before SetReady, got %d", rec.Code)
	}
}

func TestHandleReadyChecks(t *testing.T) {
	c := NewChecker("nba-edge", "", "")
	c.SetReady(true)
	c.AddCheck("provider", stubPinger{})
	c.AddCheck("cache", stubPinger{})

	rec := httptest.NewRecorder()
	c.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ReadyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Checks["provider"] != "ok" || resp.Checks["cache"] != "ok" {
		t.Errorf("unexpected checks: %+v", resp.Checks)
	}
}

func TestHandleReadyFailingDependency(t *testing.T) {
	c := NewChecker("nba-edge", "", "")
	c.SetReady(true)
	c.AddCheck("history", stubPinger{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	c.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with failing dependency, got %d", rec.Code)
	}

	var resp ReadyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Status != "not_ready" {
		t.Errorf("expected not_ready status, got %s", resp.Status)
	}
}
