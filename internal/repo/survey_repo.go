// Package repo implements the data persistence layer for generated surveys,
// backed by GORM. This file provides the survey store: a point lookup by
// fingerprint, an insert that reports unique violations as ErrDuplicate, and
// read-only listing helpers.
//
// Rows are append-only. Nothing in this package updates or deletes a
// generated survey.
//
// Error semantics:
//   - FindSurveyByFingerprint reports absence as (nil, false, nil).
//   - GetSurvey returns ErrNotFound for a missing id.
//   - CreateSurvey returns ErrDuplicate when the fingerprint already exists.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a survey with the same fingerprint is already
// stored. Concurrent misses for one brief converge on this error.
var ErrDuplicate = errors.New("duplicate")

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// FindSurveyByFingerprint returns the stored survey for fp. A missing row is
// reported as found=false with a nil error.
func FindSurveyByFingerprint(ctx context.Context, db *gorm.DB, fp string) (*domain.SurveyRecord, bool, error) {
	var rec domain.SurveyRecord
	err := db.WithContext(ctx).
		Where("fingerprint = ?", fp).
		Limit(1).
		Find(&rec).Error
	if err != nil {
		return nil, false, err
	}
	if rec.ID == 0 {
		return nil, false, nil
	}
	return &rec, true, nil
}

// CreateSurvey inserts rec and returns the persisted row. The insert commits
// before this function returns. A unique violation on fingerprint yields
// ErrDuplicate and leaves the existing row untouched.
func CreateSurvey(ctx context.Context, db *gorm.DB, rec *domain.SurveyRecord) (*domain.SurveyRecord, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.UpdatedAt = nil
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// GetSurvey fetches a single stored survey by id. If the record does not
// exist, it returns ErrNotFound.
func GetSurvey(ctx context.Context, db *gorm.DB, id uint) (*domain.SurveyRecord, error) {
	var rec domain.SurveyRecord
	if err := db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountSurveys returns the total number of stored surveys.
func CountSurveys(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.SurveyRecord{}).
		Count(&total).Error
	return total, err
}

// ListSurveysPage returns a page of stored surveys, newest first.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListSurveysPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.SurveyRecord, error) {
	var out []domain.SurveyRecord
	err := db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// isUniqueViolation recognizes unique-index failures across drivers.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}
