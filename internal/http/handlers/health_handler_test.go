package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func serveHealth(t *testing.T, h *Handlers) HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	return resp
}

func TestHealth_DatabaseStates(t *testing.T) {
	cases := []struct {
		name string
		db   Pinger
		want string
	}{
		{"connected", pingerFunc(func(context.Context) error { return nil }), "connected"},
		{"disconnected", pingerFunc(func(context.Context) error { return errors.New("down") }), "disconnected"},
		{"unknown", nil, "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serveHealth(t, New(&stubSvc{available: true}, tc.db))
			if resp.Status != "healthy" {
				t.Fatalf("status=%q", resp.Status)
			}
			if resp.DatabaseStatus != tc.want {
				t.Fatalf("database_status=%q; want %q", resp.DatabaseStatus, tc.want)
			}
		})
	}
}

func TestHealth_ReportsBackendConfiguration(t *testing.T) {
	if resp := serveHealth(t, New(&stubSvc{available: false}, nil)); resp.OpenAIConfigured {
		t.Fatalf("openai_configured should be false")
	}
	if resp := serveHealth(t, New(&stubSvc{available: true}, nil)); !resp.OpenAIConfigured {
		t.Fatalf("openai_configured should be true")
	}
}

// The ping carries a deadline so a hung database cannot stall /health.
func TestHealth_PingHasDeadline(t *testing.T) {
	var sawDeadline bool
	db := pingerFunc(func(ctx context.Context) error {
		_, sawDeadline = ctx.Deadline()
		return nil
	})
	serveHealth(t, New(&stubSvc{}, db))
	if !sawDeadline {
		t.Fatalf("ping context had no deadline")
	}
}

func TestRoot_Message(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", New(&stubSvc{}, nil).Root)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var resp RootResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Message != "Survey Generator API is running" {
		t.Fatalf("message=%q", resp.Message)
	}
}
