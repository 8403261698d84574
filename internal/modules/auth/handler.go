package auth

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	jwtpkg "github.com/gistify/core/internal/pkg/jwt"
	"github.com/gistify/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler exposes account creation and login.
type Handler struct {
	service  *Service
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewHandler(db *gorm.DB, tokenTTL time.Duration, logger *zap.Logger) *Handler {
	return &Handler{service: NewService(db), tokenTTL: tokenTTL, logger: logger.Named("AuthService")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/auth")

	g.POST("/signup", h.signup)
	g.POST("/login", h.login)
}

func (h *Handler) signup(c *gin.Context) {
	var dto SignupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "username, email and password are required")
		return
	}

	user, err := h.service.Signup(dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrUsernameTaken):
			response.Conflict(c, err.Error())
		default:
			h.logger.Error("signup failed", zap.Error(err))
			response.InternalError(c, "failed to create account")
		}
		return
	}

	token, err := jwtpkg.Sign(user.ID, h.tokenTTL)
	if err != nil {
		response.InternalError(c, "failed to create account")
		return
	}

	response.Created(c, sessionResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil || (dto.Username == "" && dto.Email == "") {
		response.BadRequest(c, "username or email, and password are required")
		return
	}

	user, err := h.service.Login(dto)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.UnauthorizedMsg(c, "invalid credentials")
		} else {
			h.logger.Error("login failed", zap.Error(err))
			response.InternalError(c, "failed to log in")
		}
		return
	}

	token, err := jwtpkg.Sign(user.ID, h.tokenTTL)
	if err != nil {
		response.InternalError(c, "failed to log in")
		return
	}

	response.OK(c, sessionResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}
