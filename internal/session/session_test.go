package session

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/search"
)

func setupManager(t *testing.T) (*Manager, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_" + t.Name() + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	m, err := NewManager(sqlDB, config.Auth{SessionLifetime: time.Hour})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return m, cleanup
}

// roundTrip serves one request through the session middleware and returns
// the recorder, carrying cookies from a previous response when given.
func roundTrip(m *Manager, handler gin.HandlerFunc, prev *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(m.LoadSave())
	router.GET("/", handler)

	req, _ := http.NewRequest("GET", "/", nil)
	if prev != nil {
		for _, c := range prev.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSortStateDefaults(t *testing.T) {
	m, cleanup := setupManager(t)
	defer cleanup()

	roundTrip(m, func(c *gin.Context) {
		state := m.SortState(c.Request)
		assert.Equal(t, DefaultSortColumn, state.Column)
		assert.False(t, state.Descending)
		c.Status(http.StatusOK)
	}, nil)
}

func TestSortStatePersistsAcrossRequests(t *testing.T) {
	m, cleanup := setupManager(t)
	defer cleanup()

	first := roundTrip(m, func(c *gin.Context) {
		m.SetSortState(c.Request, search.SortState{Column: "title", Descending: true})
		c.Status(http.StatusOK)
	}, nil)
	require.NotEmpty(t, first.Result().Cookies())

	roundTrip(m, func(c *gin.Context) {
		state := m.SortState(c.Request)
		assert.Equal(t, "title", state.Column)
		assert.True(t, state.Descending)
		c.Status(http.StatusOK)
	}, first)
}

func TestLastSearchDistinguishesEmptyFromUnset(t *testing.T) {
	m, cleanup := setupManager(t)
	defer cleanup()

	first := roundTrip(m, func(c *gin.Context) {
		_, ok := m.LastSearch(c.Request)
		assert.False(t, ok, "nothing recorded yet")

		// An empty search box is a valid remembered state
		m.SetLastSearch(c.Request, "")
		c.Status(http.StatusOK)
	}, nil)

	roundTrip(m, func(c *gin.Context) {
		raw, ok := m.LastSearch(c.Request)
		assert.True(t, ok)
		assert.Equal(t, "", raw)
		c.Status(http.StatusOK)
	}, first)
}

func TestAuthenticationFlags(t *testing.T) {
	m, cleanup := setupManager(t)
	defer cleanup()

	first := roundTrip(m, func(c *gin.Context) {
		assert.False(t, m.IsAuthenticated(c.Request))
		require.NoError(t, m.MarkAuthenticated(c.Request))
		assert.True(t, m.IsAuthenticated(c.Request))
		c.Status(http.StatusOK)
	}, nil)

	second := roundTrip(m, func(c *gin.Context) {
		assert.True(t, m.IsAuthenticated(c.Request))
		require.NoError(t, m.ClearAuthentication(c.Request))
		c.Status(http.StatusOK)
	}, first)

	roundTrip(m, func(c *gin.Context) {
		assert.False(t, m.IsAuthenticated(c.Request))
		c.Status(http.StatusOK)
	}, second)
}
