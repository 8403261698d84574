package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gistify/core/internal/middleware"
	"github.com/gistify/core/internal/models"
	"github.com/gistify/core/internal/pkg/pagination"
	"github.com/gistify/core/internal/pkg/pdftext"
	"github.com/gistify/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const samplePreviewLen = 250

// Handler manages upload, retrieval, and deletion of stored files.
type Handler struct {
	db     *gorm.DB
	store  *Client
	logger *zap.Logger
}

func NewHandler(db *gorm.DB, store *Client, logger *zap.Logger) *Handler {
	return &Handler{db: db, store: store, logger: logger.Named("FileService")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/files", authMW)

	g.POST("/upload", h.upload)
	g.GET("", h.list)
	g.GET("/fetch-text/:fileId", h.fetchText)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	fileHeader, err := c.FormFile("file")
	if err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			h.logger.Error("open multipart file", zap.Error(err))
			response.InternalError(c, "server error during upload")
			return
		}
		defer src.Close()
		payload, err := io.ReadAll(src)
		if err != nil {
			h.logger.Error("read multipart file", zap.Error(err))
			response.InternalError(c, "server error during upload")
			return
		}

		contentType := DetectContentType(fileHeader.Filename, payload, fileHeader.Header.Get("Content-Type"))
		key := BuildObjectKey("uploads", fileHeader.Filename)
		url, key, err := h.store.Upload(c.Request.Context(), key, bytes.NewReader(payload), contentType)
		if err != nil {
			h.logger.Error("upload to object store", zap.Error(err))
			response.InternalError(c, "server error during upload")
			return
		}

		file := models.FileModel{
			UserID:     userID,
			Name:       fileHeader.Filename,
			URL:        url,
			StorageKey: key,
			Size:       int64(len(payload)),
			MIME:       contentType,
		}
		if err := h.db.Create(&file).Error; err != nil {
			response.InternalError(c, "server error during upload")
			return
		}

		response.OK(c, gin.H{
			"message": "Successfully uploaded content",
			"file":    fileSummary(&file),
			"sample":  samplePreview(fileHeader.Filename, payload),
		})
		return
	}

	text := c.PostForm("text")
	if strings.TrimSpace(text) == "" {
		response.BadRequest(c, "No file or text provided")
		return
	}

	name := strings.TrimSpace(c.PostForm("title"))
	if name == "" {
		name = fmt.Sprintf("text-%d.txt", time.Now().UnixMilli())
	}
	url, key, err := h.store.UploadText(c.Request.Context(), name, text)
	if err != nil {
		h.logger.Error("upload text to object store", zap.Error(err))
		response.InternalError(c, "server error during upload")
		return
	}

	file := models.FileModel{
		UserID:     userID,
		Name:       name,
		URL:        url,
		StorageKey: key,
		Size:       int64(len(text)),
		MIME:       "text/plain",
	}
	if err := h.db.Create(&file).Error; err != nil {
		response.InternalError(c, "server error during upload")
		return
	}

	response.OK(c, gin.H{
		"message": "Successfully uploaded content",
		"file":    fileSummary(&file),
		"sample":  truncateRunes(text, samplePreviewLen),
	})
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	tx := h.db.Model(&models.FileModel{}).
		Where("user_id = ?", middleware.CurrentUserID(c)).
		Order("created_at DESC")

	var files []models.FileModel
	pag, err := pagination.Paginate(tx, q, &files)
	if err != nil {
		response.InternalError(c, "failed to list files")
		return
	}
	response.Paged(c, files, pag)
}

func (h *Handler) get(c *gin.Context) {
	file, ok := h.loadOwned(c, c.Param("id"))
	if !ok {
		return
	}
	response.OK(c, file)
}

func (h *Handler) fetchText(c *gin.Context) {
	file, ok := h.loadOwned(c, c.Param("fileId"))
	if !ok {
		return
	}

	var (
		body io.ReadCloser
		err  error
	)
	if file.StorageKey != "" {
		body, err = h.store.Fetch(c.Request.Context(), file.StorageKey)
	} else {
		// Legacy rows predate stored object keys; fall back to the URL.
		body, err = fetchByURL(c, file.URL)
	}
	if err != nil {
		h.logger.Warn("fetch stored text", zap.String("file_id", file.ID), zap.Error(err))
		response.InternalError(c, "Failed to fetch text content")
		return
	}
	defer body.Close()

	text, err := io.ReadAll(body)
	if err != nil {
		response.InternalError(c, "Failed to fetch text content")
		return
	}
	response.OK(c, gin.H{"text": string(text)})
}

func (h *Handler) delete(c *gin.Context) {
	file, ok := h.loadOwned(c, c.Param("id"))
	if !ok {
		return
	}

	if file.StorageKey != "" {
		if err := h.store.Delete(c.Request.Context(), file.StorageKey); err != nil {
			// Best effort: the row still goes away, the orphan is logged.
			h.logger.Warn("delete stored object", zap.String("key", file.StorageKey), zap.Error(err))
		}
	}

	if err := h.db.Delete(&models.FileModel{}, "id = ?", file.ID).Error; err != nil {
		response.InternalError(c, "failed to delete file")
		return
	}
	response.OK(c, gin.H{"message": "File deleted successfully"})
}

// loadOwned fetches a file scoped to the authenticated user, emitting 404 on
// absence or ownership mismatch.
func (h *Handler) loadOwned(c *gin.Context, id string) (*models.FileModel, bool) {
	var file models.FileModel
	err := h.db.First(&file, "id = ? AND user_id = ?", id, middleware.CurrentUserID(c)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "File not found")
		} else {
			response.InternalError(c, "failed to load file")
		}
		return nil, false
	}
	return &file, true
}

func fileSummary(f *models.FileModel) gin.H {
	return gin.H{
		"id":       f.ID,
		"pdfName":  f.Name,
		"filePath": f.URL,
	}
}

// samplePreview extracts a short text preview from an uploaded payload.
// PDFs are parsed; anything that looks like text is used as-is.
func samplePreview(filename string, payload []byte) string {
	if pdftext.IsPDF(filename) {
		text, err := pdftext.Extract(payload)
		if err != nil {
			return ""
		}
		return truncateRunes(strings.TrimSpace(text), samplePreviewLen)
	}
	if strings.HasPrefix(http.DetectContentType(payload), "text/") {
		return truncateRunes(string(payload), samplePreviewLen)
	}
	return ""
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func fetchByURL(c *gin.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}
