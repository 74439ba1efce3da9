// Package services – SurveyService
//
// This file implements SurveyService, the generation orchestrator. For each
// brief it computes the fingerprint, serves a stored survey when one exists,
// and otherwise calls the generation backend once, validates its output and
// persists the result.
//
// Concurrency: there is no in-process lock. Two concurrent misses for the same
// brief may both call the backend; the unique fingerprint index lets exactly
// one insert win and the loser returns the winner's stored payload.
//
// Observability: all public methods are OpenTelemetry-instrumented and the
// generation path feeds the survey_* Prometheus collectors.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-survey-backend/internal/domain"
	"github.com/tbourn/go-survey-backend/internal/llm"
	"github.com/tbourn/go-survey-backend/internal/repo"
)

// Store is the durable survey store used on the generation path.
type Store interface {
	FindByFingerprint(ctx context.Context, fp string) (*domain.SurveyRecord, bool, error)
	Insert(ctx context.Context, rec *domain.SurveyRecord) (*domain.SurveyRecord, error)
}

// Catalog is the read-only view used for listing stored surveys.
type Catalog interface {
	Get(ctx context.Context, id uint) (*domain.SurveyRecord, error)
	ListPage(ctx context.Context, offset, limit int) ([]domain.SurveyRecord, error)
	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (int64, *time.Time, error)
}

// Backend produces raw survey text for a brief.
type Backend interface {
	Generate(ctx context.Context, title, description string) (llm.Generation, error)
	Model() string
	Available() bool
}

// Result is the outcome of one Generate call.
//
// Body is the JSON sent to the caller. On a hit it is the stored payload
// byte for byte, so repeated requests observe identical surveys. Payload is
// only populated for freshly generated results; hits are served from Body
// without decoding.
type Result struct {
	Payload     domain.Payload
	Body        json.RawMessage
	Cached      bool
	Degraded    bool
	Fingerprint string
	RecordID    uint // 0 when nothing was persisted
}

// SurveyService orchestrates cache lookup, generation and persistence.
type SurveyService struct {
	Store   Store
	Catalog Catalog
	Backend Backend
	Log     zerolog.Logger

	// StrictPersistence surfaces store failures as ErrStoreUnavailable
	// instead of returning an uncached result.
	StrictPersistence bool

	// Optional guards
	MaxTitleRunes       int
	MaxDescriptionRunes int
}

// NewSurveyService wires a SurveyService with the default logger.
func NewSurveyService(store Store, catalog Catalog, backend Backend, log zerolog.Logger) *SurveyService {
	return &SurveyService{Store: store, Catalog: catalog, Backend: backend, Log: log}
}

// Generate returns the survey for (title, description), generating and
// storing it on a miss.
//
// Outcomes:
//   - hit: stored payload, Cached=true, backend not called.
//   - backend failure: ErrBackendUnavailable, nothing stored.
//   - caller canceled or timed out during generation: ctx.Err(), nothing
//     stored.
//   - malformed output: degraded payload, Degraded=true, nothing stored.
//   - insert ok: generated payload, Cached=false.
//   - insert lost a race: winner's payload, Cached=true.
//   - insert failed otherwise: generated payload, Cached=false (or
//     ErrStoreUnavailable under StrictPersistence).
func (s *SurveyService) Generate(ctx context.Context, title, description string) (*Result, error) {
	tr := otel.Tracer("services/SurveyService")
	ctx, span := tr.Start(ctx, "Generate")
	defer span.End()

	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if s.MaxTitleRunes > 0 && utf8.RuneCountInString(title) > s.MaxTitleRunes {
		return nil, ErrTooLong
	}
	if s.MaxDescriptionRunes > 0 && utf8.RuneCountInString(description) > s.MaxDescriptionRunes {
		return nil, ErrTooLong
	}

	fp := domain.Fingerprint(title, description)
	span.SetAttributes(attribute.String("survey.fingerprint", fp))
	lg := s.logger(ctx).With().Str("fingerprint", fp).Logger()

	// 1. Lookup
	rec, found, err := s.lookup(ctx, fp)
	switch {
	case err != nil:
		cacheLookups.WithLabelValues("error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lg.Error().Err(err).Msg("survey lookup failed")
		if s.StrictPersistence {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	case found:
		cacheLookups.WithLabelValues("hit").Inc()
		span.SetAttributes(attribute.Bool("survey.cached", true))
		lg.Debug().Msg("survey cache hit")
		return fromRecord(rec), nil
	default:
		cacheLookups.WithLabelValues("miss").Inc()
	}
	span.SetAttributes(attribute.Bool("survey.cached", false))

	// 2. Generate
	gen, err := s.generate(ctx, title, description)
	if err != nil {
		// a caller that gave up is not a backend failure
		if ctxErr := ctx.Err(); ctxErr != nil {
			generations.WithLabelValues("canceled").Inc()
			lg.Debug().Err(err).Msg("survey generation abandoned by caller")
			return nil, ctxErr
		}
		generations.WithLabelValues("backend_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend")
		lg.Warn().Err(err).Msg("survey generation failed")
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	// 3. Validate
	survey, perr := domain.DecodeSurvey(gen.Raw)
	if perr != nil {
		generations.WithLabelValues("degraded").Inc()
		lg.Warn().Err(perr).Str("model", gen.Model).Msg("generation output malformed; returning degraded payload")
		payload := domain.NewUnparsed(title, description, gen.Raw, perr)
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Bool("survey.degraded", true))
		return &Result{Payload: payload, Body: body, Degraded: true, Fingerprint: fp}, nil
	}
	generations.WithLabelValues("ok").Inc()

	body, err := json.Marshal(survey)
	if err != nil {
		return nil, err
	}
	fresh := &Result{Payload: domain.Payload{Survey: survey}, Body: body, Fingerprint: fp}

	// A caller that went away gets no row written on its behalf.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 4. Persist
	newRec := &domain.SurveyRecord{
		Fingerprint: fp,
		Title:       title,
		Description: description,
		Payload:     body,
		TokensUsed:  gen.TokensUsed,
	}
	if gen.Model != "" {
		m := gen.Model
		newRec.BackendModel = &m
	}

	saved, err := s.insert(ctx, newRec)
	switch {
	case err == nil:
		storeInserts.WithLabelValues("ok").Inc()
		fresh.RecordID = saved.ID
		lg.Info().Uint("survey_id", saved.ID).Str("model", gen.Model).Msg("survey generated and stored")
		return fresh, nil

	case errors.Is(err, repo.ErrDuplicate):
		storeInserts.WithLabelValues("duplicate").Inc()
		winner, ok, ferr := s.lookup(ctx, fp)
		if ferr == nil && ok {
			lg.Info().Uint("survey_id", winner.ID).Msg("lost insert race; returning stored survey")
			return fromRecord(winner), nil
		}
		lg.Error().Err(ferr).Msg("duplicate fingerprint but stored survey could not be re-read")
		if s.StrictPersistence {
			return nil, fmt.Errorf("%w: re-read after duplicate: %v", ErrStoreUnavailable, ferr)
		}
		return fresh, nil

	default:
		storeInserts.WithLabelValues("error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		span.RecordError(err)
		lg.Error().Err(err).Msg("failed to store generated survey")
		if s.StrictPersistence {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return fresh, nil
	}
}

// Get returns one stored survey by id.
func (s *SurveyService) Get(ctx context.Context, id uint) (*domain.SurveyRecord, error) {
	tr := otel.Tracer("services/SurveyService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("survey.id", int64(id))),
	)
	defer span.End()

	rec, err := s.Catalog.Get(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrSurveyNotFound
	}
	return rec, err
}

// ListPage returns stored surveys, newest first, with the total count.
func (s *SurveyService) ListPage(ctx context.Context, page, pageSize int) ([]domain.SurveyRecord, int64, error) {
	tr := otel.Tracer("services/SurveyService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Catalog.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.SurveyRecord{}, 0, nil
	}
	items, err := s.Catalog.ListPage(ctx, offset, pageSize)
	return items, total, err
}

// Stats returns the stored survey count and latest creation time, for ETags.
func (s *SurveyService) Stats(ctx context.Context) (int64, *time.Time, error) {
	return s.Catalog.Stats(ctx)
}

// BackendAvailable reports whether the generation backend is configured.
func (s *SurveyService) BackendAvailable() bool {
	return s.Backend != nil && s.Backend.Available()
}

// IsCached reports whether a survey for (title, description) is already
// stored. Errors count as not cached.
func (s *SurveyService) IsCached(ctx context.Context, title, description string) bool {
	_, found, err := s.Store.FindByFingerprint(ctx, domain.Fingerprint(title, description))
	return err == nil && found
}

func (s *SurveyService) lookup(ctx context.Context, fp string) (*domain.SurveyRecord, bool, error) {
	ctx, span := otel.Tracer("services/SurveyService").Start(ctx, "store.FindByFingerprint")
	defer span.End()
	return s.Store.FindByFingerprint(ctx, fp)
}

func (s *SurveyService) insert(ctx context.Context, rec *domain.SurveyRecord) (*domain.SurveyRecord, error) {
	ctx, span := otel.Tracer("services/SurveyService").Start(ctx, "store.Insert")
	defer span.End()
	return s.Store.Insert(ctx, rec)
}

func (s *SurveyService) generate(ctx context.Context, title, description string) (llm.Generation, error) {
	ctx, span := otel.Tracer("services/SurveyService").Start(ctx, "backend.Generate",
		trace.WithAttributes(attribute.String("llm.model", s.Backend.Model())),
	)
	defer span.End()

	start := time.Now()
	gen, err := s.Backend.Generate(ctx, title, description)
	backendDuration.Observe(time.Since(start).Seconds())
	if gen.TokensUsed != nil {
		span.SetAttributes(attribute.Int("llm.tokens_used", *gen.TokensUsed))
	}
	return gen, err
}

// fromRecord turns a stored row into a cached Result. The body is the stored
// payload unchanged.
func fromRecord(rec *domain.SurveyRecord) *Result {
	return &Result{
		Body:        json.RawMessage(rec.Payload),
		Cached:      true,
		Fingerprint: rec.Fingerprint,
		RecordID:    rec.ID,
	}
}

// logger prefers the request-scoped logger carried by ctx.
func (s *SurveyService) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.Log
}
