package gist

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gistify/core/internal/middleware"
	"github.com/gistify/core/internal/models"
	"github.com/gistify/core/internal/modules/storage"
	"github.com/gistify/core/internal/modules/summarize"
	"github.com/gistify/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Handler exposes the gist workflow: upload-and-summarize plus the browsing
// and chat endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("GistController")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/gists", authMW)

	g.POST("/upload", h.upload)
	g.GET("/recent", h.recent)
	g.GET("/history", h.history)
	g.GET("/document/:id", h.document)
	g.POST("/:id/chat", h.chat)
}

func (h *Handler) upload(c *gin.Context) {
	in := IngestInput{
		Title:  firstForm(c, "file_name", "title"),
		Text:   c.PostForm("text"),
		FileID: firstForm(c, "fileId", "doc_id"),
		Style:  firstForm(c, "summaryType", "summary_type"),
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			response.InternalError(c, "server error during upload")
			return
		}
		payload, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			response.InternalError(c, "server error during upload")
			return
		}
		in.FileName = fileHeader.Filename
		in.Payload = payload
		in.ContentType = storage.DetectContentType(fileHeader.Filename, payload, fileHeader.Header.Get("Content-Type"))
	}

	payload, err := h.service.Ingest(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		h.fail(c, err, "Failed to summarize content")
		return
	}
	response.OK(c, payload)
}

func (h *Handler) recent(c *gin.Context) {
	items, err := h.service.Recent(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.logger.Error("list recent gists", zap.Error(err))
		response.InternalError(c, "failed to load recent gists")
		return
	}
	response.OK(c, items)
}

func (h *Handler) history(c *gin.Context) {
	items, err := h.service.History(middleware.CurrentUserID(c))
	if err != nil {
		h.logger.Error("list gist history", zap.Error(err))
		response.InternalError(c, "failed to load history")
		return
	}
	response.OK(c, items)
}

func (h *Handler) document(c *gin.Context) {
	payload, messages, err := h.service.Document(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to load gist")
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	response.OK(c, gin.H{
		"gist":     payload,
		"messages": messages,
	})
}

func (h *Handler) chat(c *gin.Context) {
	var dto ChatDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "question is required")
		return
	}

	resp, err := h.service.Chat(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), dto.Question)
	if err != nil {
		h.fail(c, err, "failed to answer question")
		return
	}
	response.OK(c, resp)
}

// firstForm returns the first non-empty value among aliased form fields.
// Older clients and the summarizer-facing names are both accepted.
func firstForm(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := c.PostForm(name); v != "" {
			return v
		}
	}
	return ""
}

// fail maps workflow errors onto wire responses. Summarizer failures carry
// their upstream status through.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var upstream *summarize.UpstreamError
	switch {
	case errors.Is(err, models.ErrUnknownStyle):
		response.BadRequest(c, "Invalid summary type")
	case errors.Is(err, ErrNoContent):
		response.BadRequest(c, "No file or text provided")
	case errors.Is(err, ErrGistNotFound):
		response.NotFound(c, "Gist not found")
	case errors.Is(err, ErrFileNotFound):
		response.NotFound(c, "File not found")
	case errors.As(err, &upstream):
		h.logger.Warn("summarizer error", zap.Int("status", upstream.Status), zap.String("detail", upstream.Detail))
		response.Upstream(c, upstream.Status, fallback)
	default:
		h.logger.Error("gist request failed", zap.Error(err))
		response.InternalError(c, fallback)
	}
}
