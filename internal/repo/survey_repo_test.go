package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func newRecord(title, desc string) *domain.SurveyRecord {
	model := "gpt-3.5-turbo"
	return &domain.SurveyRecord{
		Fingerprint:  domain.Fingerprint(title, desc),
		Title:        title,
		Description:  desc,
		Payload:      datatypes.JSON(fmt.Sprintf(`{"title":%q,"description":%q,"questions":[]}`, title, desc)),
		BackendModel: &model,
	}
}

func TestFindSurveyByFingerprint_Absent(t *testing.T) {
	db := newTestDB(t, &domain.SurveyRecord{})

	rec, found, err := FindSurveyByFingerprint(context.Background(), db, domain.Fingerprint("a", "b"))
	if err != nil || found || rec != nil {
		t.Fatalf("expected (nil,false,nil), got (%v,%v,%v)", rec, found, err)
	}
}

func TestFindSurveyByFingerprint_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	if _, _, err := FindSurveyByFingerprint(context.Background(), db, "x"); err == nil {
		t.Fatalf("expected error due to missing table")
	}
}

func TestCreateAndFind_RoundTrip(t *testing.T) {
	db := newTestDB(t, &domain.SurveyRecord{})
	ctx := context.Background()

	in := newRecord("Customer Satisfaction", "Quarterly survey")
	created, err := CreateSurvey(ctx, db, in)
	if err != nil {
		t.Fatalf("CreateSurvey: %v", err)
	}
	if created.ID == 0 || created.CreatedAt.IsZero() || created.UpdatedAt != nil {
		t.Fatalf("unexpected created record: %+v", created)
	}

	// case/whitespace variant maps to the same row
	got, found, err := FindSurveyByFingerprint(ctx, db, domain.Fingerprint("  customer satisfaction ", "QUARTERLY SURVEY"))
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if got.ID != created.ID || string(got.Payload) != string(in.Payload) {
		t.Fatalf("readback mismatch: %+v", got)
	}
	if got.BackendModel == nil || *got.BackendModel != "gpt-3.5-turbo" {
		t.Fatalf("backend model not persisted: %v", got.BackendModel)
	}
}

func TestCreateSurvey_Duplicate(t *testing.T) {
	db := newTestDB(t, &domain.SurveyRecord{})
	ctx := context.Background()

	if _, err := CreateSurvey(ctx, db, newRecord("T", "D")); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	second := newRecord("t", "d")
	second.Payload = datatypes.JSON(`{"other":true}`)
	if _, err := CreateSurvey(ctx, db, second); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// the first row is untouched
	got, _, _ := FindSurveyByFingerprint(ctx, db, domain.Fingerprint("T", "D"))
	if string(got.Payload) == `{"other":true}` {
		t.Fatalf("duplicate insert overwrote existing payload")
	}
	if n, _ := CountSurveys(ctx, db); n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
}

func TestCreateSurvey_ConcurrentSameFingerprint_OneWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "race.db")
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins, dup int
		other     []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := CreateSurvey(context.Background(), db, newRecord("Race", "Same brief"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrDuplicate):
				dup++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	if wins != 1 || dup != n-1 {
		t.Fatalf("expected exactly one winner, got wins=%d dup=%d", wins, dup)
	}
}

func TestGetSurvey_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.SurveyRecord{})
	if _, err := GetSurvey(context.Background(), db, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSurveysPage_NewestFirst(t *testing.T) {
	db := newTestDB(t, &domain.SurveyRecord{})
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		rec := newRecord(fmt.Sprintf("T%d", i), "D")
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := CreateSurvey(ctx, db, rec); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	page, err := ListSurveysPage(ctx, db, 0, 2)
	if err != nil {
		t.Fatalf("ListSurveysPage: %v", err)
	}
	if len(page) != 2 || page[0].Title != "T4" || page[1].Title != "T3" {
		t.Fatalf("unexpected first page: %+v", page)
	}

	page, _ = ListSurveysPage(ctx, db, 4, 2)
	if len(page) != 1 || page[0].Title != "T0" {
		t.Fatalf("unexpected last page: %+v", page)
	}

	got, err := GetSurvey(ctx, db, page[0].ID)
	if err != nil || got.Title != "T0" {
		t.Fatalf("GetSurvey: %v %+v", err, got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("wrap: %w", gorm.ErrDuplicatedKey), true},
		{&pgconn.PgError{Code: "23505"}, true},
		{&pgconn.PgError{Code: "23503"}, false},
		{errors.New("UNIQUE constraint failed: generated_surveys.fingerprint"), true},
		{errors.New("constraint failed: UNIQUE constraint failed (2067)"), true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "ux_generated_surveys_fingerprint"`), true},
		{errors.New("disk I/O error"), false},
	}
	for _, c := range cases {
		if got := isUniqueViolation(c.err); got != c.want {
			t.Fatalf("isUniqueViolation(%v) = %v; want %v", c.err, got, c.want)
		}
	}
}
