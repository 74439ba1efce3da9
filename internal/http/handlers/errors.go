// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them rather
// than on messages. Every error response carries an HTTP status and one of
// these codes inside the ErrorResponse envelope:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "generation_failed",
//	  "message": "survey generation failed"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeTimeout          = "timeout"

	// Domain-specific:
	ErrCodeTooLong               = "too_long"
	ErrCodeGenerationUnavailable = "generation_unavailable"
	ErrCodeGenerationFailed      = "generation_failed"
	ErrCodeStoreUnavailable      = "store_unavailable"
	ErrCodeListFailed            = "list_failed"
)
