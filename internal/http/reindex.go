package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReindexEnqueuer schedules a background index rebuild.
type ReindexEnqueuer interface {
	EnqueueReindex() error
}

// Reindexer rebuilds the full-text index synchronously.
type Reindexer interface {
	Reindex() (int, error)
}

// ReindexAuditor records reindex runs. May be nil.
type ReindexAuditor interface {
	LogReindex(indexed int, description string, opErr error)
}

// SearchController exposes index maintenance: a rebuild is needed after
// folding rules change between releases or when a database file is
// restored without its index.
type SearchController struct {
	enqueuer  ReindexEnqueuer
	reindexer Reindexer
	auditor   ReindexAuditor
}

func NewSearchController(enqueuer ReindexEnqueuer, reindexer Reindexer, auditor ReindexAuditor) *SearchController {
	return &SearchController{
		enqueuer:  enqueuer,
		reindexer: reindexer,
		auditor:   auditor,
	}
}

// Reindex rebuilds the full-text index. With the task queue enabled the
// rebuild runs in the background and the request returns immediately;
// otherwise it runs inline.
// POST /api/search/reindex
func (sc *SearchController) Reindex(c *gin.Context) {
	if sc.enqueuer != nil {
		if err := sc.enqueuer.EnqueueReindex(); err != nil {
			respondInternalError(c, err, "enqueue reindex")
			return
		}
		c.JSON(http.StatusAccepted, SuccessResponse{Message: "reindex scheduled"})
		return
	}

	indexed, err := sc.reindexer.Reindex()
	if sc.auditor != nil {
		sc.auditor.LogReindex(indexed, "manual reindex", err)
	}
	if err != nil {
		respondInternalError(c, err, "reindex")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reindex complete", "indexed": indexed})
}
