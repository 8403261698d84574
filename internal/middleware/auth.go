package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gistify/core/internal/models"
	"github.com/gistify/core/internal/pkg/jwt"
	"github.com/gistify/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyEmail    = "email"
)

// Identity is the authenticated user attached to a request.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// Auth returns a middleware that enforces bearer-token authentication and
// exposes the owning user's identity to downstream handlers.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := ValidateToken(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, ident.UserID)
		c.Set(ContextKeyUsername, ident.Username)
		c.Set(ContextKeyEmail, ident.Email)
		c.Next()
	}
}

// OptionalAuth sets the identity if a valid token is present, but does not
// block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ident, err := ValidateToken(db, extractToken(c)); err == nil {
			c.Set(ContextKeyUserID, ident.UserID)
			c.Set(ContextKeyUsername, ident.Username)
			c.Set(ContextKeyEmail, ident.Email)
		}
		c.Next()
	}
}

// ValidateToken parses a JWT and resolves the user it belongs to.
func ValidateToken(db *gorm.DB, rawToken string) (*Identity, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}

	var u models.UserModel
	if err := db.Select("id, username, email").First(&u, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user no longer exists")
		}
		return nil, err
	}
	return &Identity{UserID: u.ID, Username: u.Username, Email: u.Email}, nil
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
