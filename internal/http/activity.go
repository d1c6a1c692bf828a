package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mrlokans/librarian/internal/entities"
)

// ActivityStore defines database operations for the activity log.
type ActivityStore interface {
	GetEvents(limit, offset int) ([]entities.ActivityEvent, int64, error)
}

type ActivityController struct {
	store ActivityStore
}

func NewActivityController(store ActivityStore) *ActivityController {
	return &ActivityController{store: store}
}

// ListEvents returns recent catalog activity with pagination.
// GET /api/activity
func (ac *ActivityController) ListEvents(c *gin.Context) {
	limit := 50
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	events, total, err := ac.store.GetEvents(limit, offset)
	if err != nil {
		respondInternalError(c, err, "list activity")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
