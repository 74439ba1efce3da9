// Package domain defines the persistence model for generated surveys, the
// survey document itself and the request fingerprint that keys the cache.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SurveyRecord is one generated survey persisted under the fingerprint of the
// brief that produced it. Rows are append-only: the generation path inserts
// them and never updates or deletes them.
//
// Fields:
//   - ID: autoincrement primary key.
//   - Fingerprint: 64-char hex digest of the normalized brief (unique).
//   - Title / Description: the brief as first submitted (original casing).
//   - Payload: the survey document, stored as the exact JSON bytes returned
//     on the first response. The column type is json (not jsonb) so the
//     bytes round-trip unchanged on Postgres.
//   - BackendModel: model that generated the payload, when known.
//   - TokensUsed: token usage reported by the backend, when known.
//   - CreatedAt: insert time.
//   - UpdatedAt: reserved for future admin tooling; never set by generation.
type SurveyRecord struct {
	ID           uint           `json:"id"                      gorm:"primaryKey;autoIncrement"`
	Fingerprint  string         `json:"fingerprint"             gorm:"type:char(64);not null;uniqueIndex:ux_generated_surveys_fingerprint"`
	Title        string         `json:"title"                   gorm:"type:varchar(500);not null"`
	Description  string         `json:"description"             gorm:"type:text;not null"`
	Payload      datatypes.JSON `json:"payload"                 gorm:"type:json;not null" swaggertype:"object"`
	BackendModel *string        `json:"backend_model,omitempty" gorm:"type:varchar(100)"`
	TokensUsed   *int           `json:"tokens_used,omitempty"`
	CreatedAt    time.Time      `json:"created_at"              gorm:"not null;autoCreateTime"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"    gorm:"autoUpdateTime:false"`
}

// TableName returns the database table name for SurveyRecord.
func (SurveyRecord) TableName() string { return "generated_surveys" }
