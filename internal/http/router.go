package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/activity"
	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/search"
	"github.com/mrlokans/librarian/internal/session"
)

// RouterConfig holds all dependencies needed to construct the HTTP router.
type RouterConfig struct {
	Database       *database.Database
	BookStore      BookStore
	ActivityStore  ActivityStore
	Auditor        *activity.Service
	Normalizer     *search.Normalizer
	Collator       *search.Collator
	SessionManager *session.Manager
	AuthMiddleware *auth.Middleware
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// ReindexEnqueuer is nil when the task queue is disabled; the reindex
	// endpoint then falls back to Reindexer.
	ReindexEnqueuer ReindexEnqueuer
	Reindexer       Reindexer

	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.BookStore, cfg.Auditor, cfg.Normalizer, cfg.Collator, cfg.SessionManager)
	activityController := NewActivityController(cfg.ActivityStore)
	searchController := NewSearchController(cfg.ReindexEnqueuer, cfg.Reindexer, cfg.Auditor)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Auth endpoints
	if cfg.AuthMiddleware != nil && cfg.AuthConfig.Mode == config.AuthModePassword {
		router.POST("/login", cfg.AuthMiddleware.Login)
		router.POST("/logout", cfg.AuthMiddleware.Logout)
	}

	// Books API endpoints
	router.GET("/api/books", booksController.ListBooks)
	router.GET("/api/books/count", booksController.GetBookCount)
	router.GET("/api/books/:id", booksController.GetBook)
	router.POST("/api/books", booksController.CreateBook)
	router.PUT("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.POST("/api/books/sort", booksController.SortBooks)

	// Search maintenance
	router.POST("/api/search/reindex", searchController.Reindex)

	// Activity log
	router.GET("/api/activity", activityController.ListEvents)

	return router
}
