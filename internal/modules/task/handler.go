package task

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gistify/core/internal/middleware"
	"github.com/gistify/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/tasks", authMW)

	g.GET("/:taskId", h.get)
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.service.Get(c.Param("taskId"), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "Task not found")
		} else {
			response.InternalError(c, "failed to load task")
		}
		return
	}
	response.OK(c, t)
}
