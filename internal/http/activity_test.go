package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/entities"
)

type fakeActivityStore struct {
	limit  int
	offset int
	events []entities.ActivityEvent
	total  int64
}

func (f *fakeActivityStore) GetEvents(limit, offset int) ([]entities.ActivityEvent, int64, error) {
	f.limit = limit
	f.offset = offset
	return f.events, f.total, nil
}

func listEvents(store ActivityStore, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewActivityController(store)
	router.GET("/api/activity", controller.ListEvents)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestListEventsDefaults(t *testing.T) {
	store := &fakeActivityStore{
		events: []entities.ActivityEvent{{EventType: entities.ActivityEventCreate}},
		total:  1,
	}

	w := listEvents(store, "/api/activity")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, store.limit)
	assert.Equal(t, 0, store.offset)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["total"])
}

func TestListEventsClampsLimit(t *testing.T) {
	store := &fakeActivityStore{}

	listEvents(store, "/api/activity?limit=9999&offset=10")
	assert.Equal(t, 50, store.limit, "out-of-range limit falls back to default")
	assert.Equal(t, 10, store.offset)

	listEvents(store, "/api/activity?limit=100")
	assert.Equal(t, 100, store.limit)
}
