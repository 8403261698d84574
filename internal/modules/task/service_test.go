package task

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gistify/core/internal/models"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.TaskModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(db, zap.NewNop())
}

func TestBeginRecordsPendingTaskWithStyle(t *testing.T) {
	svc := testService(t)

	created, err := svc.Begin("u1", "report.pdf", models.StyleConcise)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	loaded, err := svc.Get(created.ID, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Status != models.TaskPending {
		t.Fatalf("status = %q", loaded.Status)
	}
	if loaded.Style != models.StyleConcise {
		t.Fatalf("style = %q", loaded.Style)
	}
	if loaded.FileName != "report.pdf" {
		t.Fatalf("file name = %q", loaded.FileName)
	}
}

func TestCompleteStoresResult(t *testing.T) {
	svc := testService(t)

	created, err := svc.Begin("u1", "report.pdf", models.StyleAnalytical)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := svc.Complete(created.ID, map[string]string{"title": "Report"}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	loaded, err := svc.Get(created.ID, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Status != models.TaskCompleted {
		t.Fatalf("status = %q", loaded.Status)
	}
	var result map[string]string
	if err := json.Unmarshal(loaded.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result["title"] != "Report" {
		t.Fatalf("result = %v", result)
	}
}

func TestFailRecordsReason(t *testing.T) {
	svc := testService(t)

	created, err := svc.Begin("u1", "report.pdf", models.StyleConcise)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := svc.Fail(created.ID, "upstream unavailable"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	loaded, err := svc.Get(created.ID, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Status != models.TaskFailed {
		t.Fatalf("status = %q", loaded.Status)
	}
	if loaded.Error != "upstream unavailable" {
		t.Fatalf("error = %q", loaded.Error)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	svc := testService(t)

	created, err := svc.Begin("u1", "report.pdf", models.StyleConcise)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.Get(created.ID, "u2"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestCleanupReapsOnlyExpiredTasks(t *testing.T) {
	svc := testService(t)

	old, err := svc.Begin("u1", "stale.pdf", models.StyleConcise)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	fresh, err := svc.Begin("u1", "fresh.pdf", models.StyleConcise)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	backdated := time.Now().Add(-RetentionPeriod - time.Hour)
	err = svc.db.Model(&models.TaskModel{}).Where("id = ?", old.ID).
		Update("created_at", backdated).Error
	if err != nil {
		t.Fatalf("backdate: %v", err)
	}

	if err := svc.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, err := svc.Get(old.ID, "u1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected stale task gone, got %v", err)
	}
	if _, err := svc.Get(fresh.ID, "u1"); err != nil {
		t.Fatalf("fresh task should survive: %v", err)
	}
}
