package cache

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

var hotCacheRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "survey_hot_cache_requests_total",
		Help: "Hot cache lookups in front of the survey store, by result.",
	},
	[]string{"result"}, // hit|miss|error
)

func init() {
	prometheus.MustRegister(hotCacheRequests)
}

// Store is the durable survey store the cache sits in front of.
type Store interface {
	FindByFingerprint(ctx context.Context, fp string) (*domain.SurveyRecord, bool, error)
	Insert(ctx context.Context, rec *domain.SurveyRecord) (*domain.SurveyRecord, error)
}

// CachedStore decorates a Store with a SurveyCache. Lookups try the cache
// first and back-fill it from the store; inserts write through only after
// the durable insert succeeded. Cache failures are logged and never fail
// the call.
type CachedStore struct {
	Next  Store
	Cache SurveyCache
	TTL   time.Duration
	Log   zerolog.Logger
}

// NewCachedStore returns next unchanged when c is nil.
func NewCachedStore(next Store, c SurveyCache, ttl time.Duration, log zerolog.Logger) Store {
	if c == nil {
		return next
	}
	return &CachedStore{Next: next, Cache: c, TTL: ttl, Log: log}
}

func (s *CachedStore) FindByFingerprint(ctx context.Context, fp string) (*domain.SurveyRecord, bool, error) {
	b, hit, err := s.Cache.Get(ctx, fp)
	switch {
	case err != nil:
		hotCacheRequests.WithLabelValues("error").Inc()
		s.Log.Warn().Err(err).Str("fingerprint", fp).Msg("hot cache get failed")
	case hit:
		rec, derr := decodeRecord(b)
		if derr == nil && rec.Fingerprint == fp {
			hotCacheRequests.WithLabelValues("hit").Inc()
			return rec, true, nil
		}
		hotCacheRequests.WithLabelValues("error").Inc()
		s.Log.Warn().Err(derr).Str("fingerprint", fp).Msg("hot cache entry unreadable")
	default:
		hotCacheRequests.WithLabelValues("miss").Inc()
	}

	rec, found, err := s.Next.FindByFingerprint(ctx, fp)
	if err != nil || !found {
		return rec, found, err
	}
	s.fill(ctx, rec)
	return rec, true, nil
}

func (s *CachedStore) Insert(ctx context.Context, rec *domain.SurveyRecord) (*domain.SurveyRecord, error) {
	out, err := s.Next.Insert(ctx, rec)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, out)
	return out, nil
}

func (s *CachedStore) fill(ctx context.Context, rec *domain.SurveyRecord) {
	b, err := encodeRecord(rec)
	if err == nil {
		err = s.Cache.Set(ctx, rec.Fingerprint, b, s.TTL)
	}
	if err != nil {
		s.Log.Warn().Err(err).Str("fingerprint", rec.Fingerprint).Msg("hot cache set failed")
	}
}
