package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(&SurveyRecord{})
	})
	return db
}

func TestTableName(t *testing.T) {
	if (SurveyRecord{}).TableName() != "generated_surveys" {
		t.Fatalf("SurveyRecord.TableName() = %q; want %q", (SurveyRecord{}).TableName(), "generated_surveys")
	}
}

func TestMigration_UniqueFingerprint(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&SurveyRecord{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	if !m.HasTable(&SurveyRecord{}) {
		t.Fatalf("expected table generated_surveys to exist")
	}
	if !m.HasIndex(&SurveyRecord{}, "ux_generated_surveys_fingerprint") {
		t.Fatalf("expected unique index ux_generated_surveys_fingerprint")
	}

	fp := Fingerprint("T", "D")
	payload := datatypes.JSON(`{"title":"T","description":"D","questions":[]}`)

	first := &SurveyRecord{Fingerprint: fp, Title: "T", Description: "D", Payload: payload}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("insert first: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected autoincrement id")
	}
	if first.CreatedAt.IsZero() || time.Since(first.CreatedAt) > time.Minute {
		t.Fatalf("expected created_at to be set, got %v", first.CreatedAt)
	}
	if first.UpdatedAt != nil {
		t.Fatalf("updated_at must stay NULL on insert, got %v", first.UpdatedAt)
	}

	dup := &SurveyRecord{Fingerprint: fp, Title: "t", Description: "d", Payload: payload}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected unique violation on duplicate fingerprint")
	}

	var got SurveyRecord
	if err := db.First(&got, first.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if string(got.Payload) != string(payload) {
		t.Fatalf("payload changed on round-trip:\n got %s\nwant %s", got.Payload, payload)
	}
	if got.BackendModel != nil || got.TokensUsed != nil {
		t.Fatalf("optional columns should be NULL, got model=%v tokens=%v", got.BackendModel, got.TokensUsed)
	}
}
