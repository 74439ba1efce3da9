// Survey HTTP handlers.
//
// This file exposes REST endpoints for generated surveys:
//   - POST /surveys/generate   (cache-or-generate a survey for a brief)
//   - GET  /surveys            (list stored surveys, paginated, ETag support)
//   - GET  /surveys/{id}       (one stored survey)
//
// Handlers are transport-thin: they normalize input, call SurveyService and
// map its outcomes and errors onto HTTP responses.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-survey-backend/internal/domain"
	"github.com/tbourn/go-survey-backend/internal/services"
	"github.com/tbourn/go-survey-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// SurveyService defines the survey operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use and honor ctx.
type SurveyService interface {
	// Generate returns the survey for a brief, generating it on a miss.
	Generate(ctx context.Context, title, description string) (*services.Result, error)
	// Get returns one stored survey.
	Get(ctx context.Context, id uint) (*domain.SurveyRecord, error)
	// ListPage returns a page of stored surveys and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.SurveyRecord, int64, error)
	// Stats returns the stored count and newest creation time.
	Stats(ctx context.Context) (int64, *time.Time, error)
	// BackendAvailable reports whether generation is configured at all.
	BackendAvailable() bool
}

// Pinger reports database reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the survey API.
type Handlers struct {
	svc SurveyService
	db  Pinger
}

// New constructs Handlers bound to the survey service and a database pinger.
// db may be nil, in which case /health reports the database as unknown.
func New(svc SurveyService, db Pinger) *Handlers {
	return &Handlers{svc: svc, db: db}
}

//
// DTOs
//

// GenerateSurveyRequest is the JSON payload for survey generation.
type GenerateSurveyRequest struct {
	// Title of the survey to generate. Required.
	Title string `json:"title" example:"Customer Satisfaction"`
	// Description gives the generator context. May be empty.
	Description string `json:"description" example:"Quarterly survey"`
}

// GenerateSurveyResponse wraps a survey with its cache outcome.
//
// Survey is either a survey document or, when Degraded is true, a
// best-effort object carrying the raw model output and parse_failed=true.
type GenerateSurveyResponse struct {
	Survey      json.RawMessage `json:"survey" swaggertype:"object"`
	Cached      bool            `json:"cached" example:"false"`
	Degraded    bool            `json:"degraded" example:"false"`
	Fingerprint string          `json:"fingerprint" example:"3f5a0c1e9b0f4d3b8c6e2a7f1d9e8c4b5a6f7e8d9c0b1a2f3e4d5c6b7a8f9e0d"`
	SurveyID    *uint           `json:"survey_id,omitempty" example:"1"`
}

// SurveySummary is a stored survey without its payload.
type SurveySummary struct {
	ID           uint      `json:"id" example:"1"`
	Fingerprint  string    `json:"fingerprint"`
	Title        string    `json:"title" example:"Customer Satisfaction"`
	Description  string    `json:"description" example:"Quarterly survey"`
	BackendModel *string   `json:"backend_model,omitempty" example:"gpt-3.5-turbo"`
	TokensUsed   *int      `json:"tokens_used,omitempty" example:"812"`
	CreatedAt    time.Time `json:"created_at"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListSurveysResponse wraps a page of surveys and pagination information.
type ListSurveysResponse struct {
	Surveys    []SurveySummary `json:"surveys"`
	Pagination Pagination      `json:"pagination"`
}

//
// Helpers
//

// CleanInput normalizes user text before fingerprinting: invalid UTF-8 is
// replaced and the string is put in Unicode NFC, so visually identical
// briefs typed on different platforms share a fingerprint.
func CleanInput(s string) string {
	return norm.NFC.String(strings.ToValidUTF8(s, "�"))
}

func summarize(rec domain.SurveyRecord) SurveySummary {
	return SurveySummary{
		ID:           rec.ID,
		Fingerprint:  rec.Fingerprint,
		Title:        rec.Title,
		Description:  rec.Description,
		BackendModel: rec.BackendModel,
		TokensUsed:   rec.TokensUsed,
		CreatedAt:    rec.CreatedAt,
	}
}

//
// Handlers
//

// GenerateSurvey godoc
// @ID          generateSurvey
// @Summary     Generate a survey
// @Description Returns the stored survey for the brief, or generates, stores and returns a new one.
// @Description Briefs are matched case- and whitespace-insensitively. Sets X-Cache: HIT|MISS.
// @Tags        Surveys
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.GenerateSurveyRequest  true  "Survey brief"
//
// @Success     200  {object}  handlers.GenerateSurveyResponse
// @Header      200  {string}  X-Cache  "HIT when served from the store, MISS otherwise"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid body, empty title or brief too long"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     502  {object}  handlers.ErrorResponse  "Generation backend failed"
// @Failure     503  {object}  handlers.ErrorResponse  "Generation not configured or store unavailable"
// @Failure     504  {object}  handlers.ErrorResponse  "Request timed out"
// @Router      /surveys/generate [post]
func (h *Handlers) GenerateSurvey(c *gin.Context) {
	var req GenerateSurveyRequest
	// ShouldBindBodyWith shares the body already read by the cache bypass.
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.svc.Generate(c.Request.Context(), CleanInput(req.Title), CleanInput(req.Description))
	if err != nil {
		h.generateError(c, err)
		return
	}

	if res.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}

	resp := GenerateSurveyResponse{
		Survey:      res.Body,
		Cached:      res.Cached,
		Degraded:    res.Degraded,
		Fingerprint: res.Fingerprint,
	}
	if res.RecordID != 0 {
		id := res.RecordID
		resp.SurveyID = &id
	}
	ok(c, http.StatusOK, resp)
}

func (h *Handlers) generateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyTitle):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title is required")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeTooLong, "title or description too long")
	case errors.Is(err, services.ErrBackendUnavailable):
		if !h.svc.BackendAvailable() {
			fail(c, http.StatusServiceUnavailable, ErrCodeGenerationUnavailable, "OpenAI API key not configured")
			return
		}
		fail(c, http.StatusBadGateway, ErrCodeGenerationFailed, "survey generation failed")
	case errors.Is(err, services.ErrStoreUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "survey store unavailable")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		fail(c, http.StatusGatewayTimeout, ErrCodeTimeout, "request timed out")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

// ListSurveys godoc
// @ID          listSurveys
// @Summary     List stored surveys (paginated)
// @Description Returns stored surveys, newest first, without payloads. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Surveys
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"surveys:3:1700000000:1:20\")
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListSurveysResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /surveys [get]
func (h *Handlers) ListSurveys(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := utils.ClampPage(c.Query("page"), c.Query("page_size"))

	// ETag pre-check (best effort). Rows are append-only, so count plus
	// newest timestamp identifies the list state.
	if count, maxTS, err := h.svc.Stats(ctx); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"surveys:%d:%d:%d:%d"`, count, ts, page, pageSize)
		if notModified(c, etag) {
			return
		}
	}

	items, total, err := h.svc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list surveys")
		return
	}

	out := make([]SurveySummary, 0, len(items))
	for _, rec := range items {
		out = append(out, summarize(rec))
	}
	totalPages := utils.TotalPages(total, pageSize)
	ok(c, http.StatusOK, ListSurveysResponse{
		Surveys: out,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetSurvey godoc
// @ID          getSurvey
// @Summary     Get a stored survey
// @Description Returns one stored survey including its payload.
// @Tags        Surveys
// @Produce     json
//
// @Param       id  path  int  true  "Survey ID"  minimum(1)
//
// @Success     200  {object} domain.SurveyRecord
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Survey not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /surveys/{id} [get]
func (h *Handlers) GetSurvey(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "survey id must be a positive integer")
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), uint(id))
	switch {
	case errors.Is(err, services.ErrSurveyNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "survey not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load survey")
	default:
		ok(c, http.StatusOK, rec)
	}
}
