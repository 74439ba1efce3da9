// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders, which attaches a conservative set of
// HTTP security headers to every JSON response. HSTS is opt-in and only sent
// over HTTPS. No CSP is set: the API serves no HTML outside Swagger UI.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures the headers emitted by SecurityHeaders.
type SecurityOptions struct {
	EnableHSTS   bool          // only when traffic is HTTPS end-to-end
	HSTSMaxAge   time.Duration // defaults to 180 days
	NoStore      bool          // Cache-Control: no-store (+ Pragma/Expires)
	EnablePolicy bool          // Permissions-Policy and cross-domain policy

	// ExposeHeaders are appended to Access-Control-Expose-Headers when they
	// are present on the response, so browser clients can read them.
	// Defaults to X-Request-ID.
	ExposeHeaders []string
}

// SecurityHeaders returns a Gin middleware that adds security headers.
//
// Always: X-Content-Type-Options: nosniff, X-Frame-Options: DENY and
// Referrer-Policy: no-referrer. The optional groups follow SecurityOptions.
// Headers set by handlers (X-Cache) are exposed through the CORS config.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	expose := opt.ExposeHeaders
	if len(expose) == 0 {
		expose = []string{requestIDHeader}
	}
	hsts := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}
		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		exposePresent(h, expose)
		c.Next()
	}
}

// exposePresent adds each name that is set on h to
// Access-Control-Expose-Headers without clobbering existing entries.
func exposePresent(h http.Header, names []string) {
	const hdr = "Access-Control-Expose-Headers"
	for _, name := range names {
		if h.Get(name) == "" {
			continue
		}
		cur := h.Get(hdr)
		switch {
		case cur == "":
			h.Set(hdr, name)
		case !strings.Contains(cur, name):
			h.Set(hdr, cur+", "+name)
		}
	}
}

// isHTTPS reports whether the request used HTTPS directly or via a proxy
// that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
