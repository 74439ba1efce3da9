package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_InfoAndRedactions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/api/surveys/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "email=a.b+tag@example.com&phone=+1-555-123-4567&id=123e4567-e89b-12d3-a456-426614174000"
	req := httptest.NewRequest(http.MethodGet, "/api/surveys/12?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("X-Api-Key", "shhh")
	req.Header.Set("X-Custom", "email a@b.com id=123e4567-e89b-12d3-a456-426614174000 phone 555-123-4567")
	req.Header.Set("X-Request-ID", "rid-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	for _, want := range []string{
		`"level":"info"`,
		`"path":"/api/surveys/:id"`,
		`"request_id":"rid-1"`,
		`[REDACTED:email]`, `[REDACTED:phone]`, `[REDACTED:id]`,
		`"Authorization":"[REDACTED]"`,
		`"Cookie":"[REDACTED]"`,
		`"X-Api-Key":"[REDACTED]"`,
		`"X-Custom":"email [REDACTED:email] id=[REDACTED:id] phone [REDACTED:phone]"`,
	} {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %s in log, got: %s", want, logs)
		}
	}
	if strings.Contains(logs, "secret") || strings.Contains(logs, "shhh") {
		t.Fatalf("credential leaked: %s", logs)
	}
}

func TestRedactingLogger_LevelsAndCacheField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/gin-error", func(c *gin.Context) {
		_ = c.Error(errSentinel{})
		c.Status(http.StatusBadRequest)
	})
	r.POST("/hit", func(c *gin.Context) {
		c.Header("X-Cache", "HIT")
		c.Status(http.StatusOK)
	})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/warn"},
		{http.MethodGet, "/error"},
		{http.MethodGet, "/gin-error"},
		{http.MethodPost, "/hit"},
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, nil))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 access lines, got %d: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"warn"`) {
		t.Fatalf("404 should log warn: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"error"`) {
		t.Fatalf("500 should log error: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"level":"error"`) || !strings.Contains(lines[2], `"errors"`) {
		t.Fatalf("gin errors should log error: %s", lines[2])
	}
	if !strings.Contains(lines[3], `"cache":"HIT"`) {
		t.Fatalf("expected cache field: %s", lines[3])
	}
}

func TestRedact_UUIDBeforePhone(t *testing.T) {
	got := redact("id 123e4567-e89b-12d3-a456-426614174000")
	if got != "id [REDACTED:id]" {
		t.Fatalf("redact = %q", got)
	}
	if redact("") != "" {
		t.Fatalf("empty input should stay empty")
	}
}

type errSentinel struct{}

func (errSentinel) Error() string { return "boom" }
