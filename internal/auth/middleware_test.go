package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/session"
)

func setupAuthRouter(t *testing.T, mode config.AuthMode, passwordHash string) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	cfg := config.Auth{
		Mode:            mode,
		PasswordHash:    passwordHash,
		SessionLifetime: time.Hour,
	}
	sessions, err := session.NewManager(sqlDB, cfg)
	require.NoError(t, err)

	mw := NewMiddleware(cfg, sessions)

	router := gin.New()
	router.Use(sessions.LoadSave())
	router.Use(mw.Handler())
	router.POST("/login", mw.Login)
	router.POST("/logout", mw.Logout)
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/books", func(c *gin.Context) { c.Status(http.StatusOK) })

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, cleanup
}

func get(router *gin.Engine, path string, prev *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	if prev != nil {
		for _, c := range prev.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router *gin.Engine, path, body string, prev *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if prev != nil {
		for _, c := range prev.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthModeNoneAllowsEverything(t *testing.T) {
	router, cleanup := setupAuthRouter(t, config.AuthModeNone, "")
	defer cleanup()

	assert.Equal(t, http.StatusOK, get(router, "/api/books", nil).Code)
}

func TestAuthModePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("a long password"), bcrypt.MinCost)
	require.NoError(t, err)

	router, cleanup := setupAuthRouter(t, config.AuthModePassword, string(hash))
	defer cleanup()

	t.Run("private routes require a session", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(router, "/api/books", nil).Code)
	})

	t.Run("health stays public", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(router, "/health", nil).Code)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w := postJSON(router, "/login", `{"password":"not the password"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login then access then logout", func(t *testing.T) {
		login := postJSON(router, "/login", `{"password":"a long password"}`, nil)
		require.Equal(t, http.StatusOK, login.Code)

		assert.Equal(t, http.StatusOK, get(router, "/api/books", login).Code)

		logout := postJSON(router, "/logout", "", login)
		require.Equal(t, http.StatusOK, logout.Code)

		assert.Equal(t, http.StatusUnauthorized, get(router, "/api/books", logout).Code)
	})
}
