package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/session"
)

// Middleware enforces the password gate on every route except the public
// ones. With mode "none" it is a no-op.
type Middleware struct {
	config      config.Auth
	sessions    *session.Manager
	publicPaths map[string]bool
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(cfg config.Auth, sessions *session.Manager) *Middleware {
	return &Middleware{
		config:   cfg,
		sessions: sessions,
		publicPaths: map[string]bool{
			"/health": true,
			"/login":  true,
		},
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode != config.AuthModePassword {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if m.isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		if m.sessions == nil || !m.sessions.IsAuthenticated(c.Request) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func (m *Middleware) isPublicPath(path string) bool {
	if m.publicPaths[path] {
		return true
	}
	return strings.HasPrefix(path, "/static/")
}

// Login verifies the shared password and marks the session authenticated.
// POST /login
func (m *Middleware) Login(c *gin.Context) {
	var body struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	if err := CheckPassword(body.Password, m.config.PasswordHash); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	if err := m.sessions.MarkAuthenticated(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged in"})
}

// Logout destroys the session.
// POST /logout
func (m *Middleware) Logout(c *gin.Context) {
	if err := m.sessions.ClearAuthentication(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not destroy session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
