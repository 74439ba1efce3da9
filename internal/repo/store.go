package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

// Store binds the survey repository functions to one *gorm.DB so they can be
// injected into services behind interfaces.
type Store struct {
	DB *gorm.DB
}

// NewStore returns a Store over db.
func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) FindByFingerprint(ctx context.Context, fp string) (*domain.SurveyRecord, bool, error) {
	return FindSurveyByFingerprint(ctx, s.DB, fp)
}

func (s *Store) Insert(ctx context.Context, rec *domain.SurveyRecord) (*domain.SurveyRecord, error) {
	return CreateSurvey(ctx, s.DB, rec)
}

func (s *Store) Get(ctx context.Context, id uint) (*domain.SurveyRecord, error) {
	return GetSurvey(ctx, s.DB, id)
}

func (s *Store) ListPage(ctx context.Context, offset, limit int) ([]domain.SurveyRecord, error) {
	return ListSurveysPage(ctx, s.DB, offset, limit)
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return CountSurveys(ctx, s.DB)
}

func (s *Store) Stats(ctx context.Context) (int64, *time.Time, error) {
	return SurveyStats(ctx, s.DB)
}

func (s *Store) Ping(ctx context.Context) error {
	return Ping(ctx, s.DB)
}
