// Package services defines the business logic for survey generation.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Survey generation errors.
var (
	// ErrEmptyTitle is returned when a brief has no title after trimming.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrTooLong is returned when the title or description exceeds the
	// configured rune limit.
	ErrTooLong = errors.New("title or description too long")

	// ErrBackendUnavailable wraps any failure of the generation backend on a
	// cache miss. Nothing is persisted when it is returned.
	ErrBackendUnavailable = errors.New("generation backend unavailable")

	// ErrStoreUnavailable is returned only under strict persistence, when the
	// survey store cannot be read or written for a reason other than a
	// duplicate fingerprint.
	ErrStoreUnavailable = errors.New("survey store unavailable")

	// ErrSurveyNotFound indicates that no stored survey has the requested id.
	ErrSurveyNotFound = errors.New("survey not found")
)
