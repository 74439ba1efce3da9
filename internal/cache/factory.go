package cache

import (
	"context"
	"io"

	"github.com/tbourn/go-survey-backend/internal/config"
)

// New builds the SurveyCache selected by cfg.Backend. It returns (nil, nil,
// nil) for "none". The closer releases background resources on shutdown.
func New(cfg config.CacheConfig) (SurveyCache, io.Closer, error) {
	switch cfg.Backend {
	case "memory":
		c := NewMemoryCache(cfg.Prefix, cfg.SweepInterval)
		return c, c, nil
	case "redis":
		client, err := NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		c := NewRedisCache(client, cfg.Prefix)
		return c, c, nil
	default:
		return nil, nil, nil
	}
}

// Check reports whether a remote cache is reachable. In-process caches and
// a nil cache always pass.
func Check(ctx context.Context, c SurveyCache) error {
	if p, ok := c.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
