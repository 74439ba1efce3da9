// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements CacheHitBypass. Generation requests whose brief is
// already stored are answered from the database without an LLM call, so they
// should not spend rate-limit tokens. The middleware peeks at the JSON body,
// asks a lookup function whether the brief is stored, and flags the request
// for the rate limiter.
//
// The body is read through gin's ShouldBindBodyWith, which caches the bytes
// in the context; handlers must bind with ShouldBindBodyWith as well.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Context keys used to stash bypass state.
const (
	ctxKeyCacheHit   = "cache.hit"   // bool: brief already stored
	ctxKeyRateBypass = "rate.bypass" // bool: true to skip rate limiting
)

// BriefLookup reports whether a survey for the brief is already stored.
// Lookup failures should return false so the request is limited normally.
type BriefLookup func(ctx context.Context, title, description string) bool

// briefPeek is the subset of the generation body the bypass needs.
type briefPeek struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CacheHitBypass flags POST requests whose brief is already stored.
//
// Behavior:
//   - Non-POST requests and requests with a nil lookup pass through.
//   - Bodies that do not decode, or carry an empty title, pass through; the
//     handler reports the error.
//   - On a stored brief, sets the cache-hit and rate-bypass flags.
//
// It never aborts.
func CacheHitBypass(lookup BriefLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if lookup == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		var b briefPeek
		if err := c.ShouldBindBodyWith(&b, binding.JSON); err != nil || b.Title == "" {
			c.Next()
			return
		}

		if lookup(c.Request.Context(), b.Title, b.Description) {
			c.Set(ctxKeyCacheHit, true)
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	}
}

// IsCacheHit reports whether CacheHitBypass found the brief already stored.
func IsCacheHit(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyCacheHit)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
