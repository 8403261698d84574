package storage

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gistify/core/internal/middleware"
	"github.com/gistify/core/internal/models"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testRouter(t *testing.T, fake *fakeS3, userID string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.FileModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	stubAuth := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Next()
	}

	r := gin.New()
	h := NewHandler(db, newTestClient(t, fake), zap.NewNop())
	h.RegisterRoutes(r.Group(""), stubAuth)
	return r, db
}

func TestDeleteFileWithKeyCallsProviderOnce(t *testing.T) {
	fake := &fakeS3{}
	r, db := testRouter(t, fake, "user-1")

	file := models.FileModel{
		UserID:     "user-1",
		Name:       "doc.pdf",
		URL:        "https://store/docs/uploads/doc.pdf",
		StorageKey: "uploads/doc.pdf",
	}
	if err := db.Create(&file).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/files/"+file.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	fake.mu.Lock()
	deletes := len(fake.deletes)
	fake.mu.Unlock()
	if deletes != 1 {
		t.Fatalf("expected exactly 1 provider delete, got %d", deletes)
	}

	var count int64
	db.Model(&models.FileModel{}).Where("id = ?", file.ID).Count(&count)
	if count != 0 {
		t.Fatal("row still present after delete")
	}
}

func TestDeleteFileWithoutKeySkipsProvider(t *testing.T) {
	fake := &fakeS3{}
	r, db := testRouter(t, fake, "user-1")

	file := models.FileModel{
		UserID: "user-1",
		Name:   "legacy.pdf",
		URL:    "https://elsewhere/legacy.pdf",
	}
	if err := db.Create(&file).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/files/"+file.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	fake.mu.Lock()
	deletes := len(fake.deletes)
	fake.mu.Unlock()
	if deletes != 0 {
		t.Fatalf("expected no provider delete, got %d", deletes)
	}
}

func TestDeleteFileOwnedByOther(t *testing.T) {
	fake := &fakeS3{}
	r, db := testRouter(t, fake, "user-1")

	file := models.FileModel{UserID: "user-2", Name: "other.pdf", URL: "u", StorageKey: "uploads/other.pdf"}
	if err := db.Create(&file).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/files/"+file.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}

	fake.mu.Lock()
	deletes := len(fake.deletes)
	fake.mu.Unlock()
	if deletes != 0 {
		t.Fatalf("expected no provider delete, got %d", deletes)
	}
}
