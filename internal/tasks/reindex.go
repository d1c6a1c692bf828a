package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// IndexRebuilder rebuilds the full-text index from the catalog rows.
type IndexRebuilder interface {
	Reindex() (int, error)
}

// ReindexAuditor records the outcome of a rebuild. May be nil.
type ReindexAuditor interface {
	LogReindex(indexed int, description string, opErr error)
}

// ReindexTask rebuilds the search index in the background. Needed after
// restoring a database file without its index, or when a release changes
// the folding rules and existing index rows no longer match new queries.
type ReindexTask struct {
	Reason string `json:"reason"`
}

// Config returns the queue configuration for reindex tasks.
func (t ReindexTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reindex",
		MaxAttempts: 3,
		Backoff:     1 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReindexProcessor creates a processor function for ReindexTask.
func ReindexProcessor(rebuilder IndexRebuilder, auditor ReindexAuditor) backlite.QueueProcessor[ReindexTask] {
	return func(ctx context.Context, task ReindexTask) error {
		if rebuilder == nil {
			return fmt.Errorf("index rebuilder not configured")
		}

		indexed, err := rebuilder.Reindex()
		if auditor != nil {
			auditor.LogReindex(indexed, "background reindex ("+task.Reason+")", err)
		}
		if err != nil {
			return fmt.Errorf("rebuild search index: %w", err)
		}

		log.Printf("[TASK] Rebuilt search index: %d records (%s)", indexed, task.Reason)
		return nil
	}
}

// NewReindexQueue creates a backlite queue for reindex tasks.
func NewReindexQueue(rebuilder IndexRebuilder, auditor ReindexAuditor) backlite.Queue {
	return backlite.NewQueue(ReindexProcessor(rebuilder, auditor))
}
