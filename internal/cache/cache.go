// Package cache provides an optional hot read-through layer in front of the
// durable survey store. The store stays the source of truth: a cache miss,
// an expired entry or a cache error always falls back to it.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

// SurveyCache holds encoded survey records keyed by fingerprint.
// Implemented by MemoryCache (dev, single instance) and RedisCache (shared).
type SurveyCache interface {
	Get(ctx context.Context, fp string) ([]byte, bool, error)
	Set(ctx context.Context, fp string, value []byte, ttl time.Duration) error
}

// Key builds the namespaced cache key: survey:<prefix>:<fingerprint>.
func Key(prefix, fp string) string {
	if prefix == "" {
		return "survey:" + fp
	}
	return "survey:" + prefix + ":" + fp
}

// entry is the cached form of a SurveyRecord. Payload is kept as []byte so
// the stored JSON survives the round-trip byte for byte.
type entry struct {
	ID           uint      `json:"id"`
	Fingerprint  string    `json:"fingerprint"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Payload      []byte    `json:"payload"`
	BackendModel *string   `json:"backend_model,omitempty"`
	TokensUsed   *int      `json:"tokens_used,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func encodeRecord(rec *domain.SurveyRecord) ([]byte, error) {
	return json.Marshal(entry{
		ID:           rec.ID,
		Fingerprint:  rec.Fingerprint,
		Title:        rec.Title,
		Description:  rec.Description,
		Payload:      []byte(rec.Payload),
		BackendModel: rec.BackendModel,
		TokensUsed:   rec.TokensUsed,
		CreatedAt:    rec.CreatedAt,
	})
}

func decodeRecord(b []byte) (*domain.SurveyRecord, error) {
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, err
	}
	return &domain.SurveyRecord{
		ID:           e.ID,
		Fingerprint:  e.Fingerprint,
		Title:        e.Title,
		Description:  e.Description,
		Payload:      e.Payload,
		BackendModel: e.BackendModel,
		TokensUsed:   e.TokensUsed,
		CreatedAt:    e.CreatedAt,
	}, nil
}
