// Package activity records catalog changes (inserts, edits, deletions,
// imports, index rebuilds) without blocking the operation that caused them.
package activity

import (
	"log"

	"github.com/mrlokans/librarian/internal/database/activity"
	"github.com/mrlokans/librarian/internal/entities"
)

// Service provides high-level activity logging.
type Service struct {
	repo *activity.Repository
}

// NewService creates a new activity service.
func NewService(repo *activity.Repository) *Service {
	return &Service{repo: repo}
}

// Log records an activity event.
func (s *Service) Log(event *entities.ActivityEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an activity event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.ActivityEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log activity event: %v", err)
		}
	}()
}

// LogBookChange records a create/update/delete on a single book.
func (s *Service) LogBookChange(eventType string, bookID uint, description string, opErr error) {
	event := &entities.ActivityEvent{
		EventType:   eventType,
		Action:      "book_" + eventType,
		BookID:      &bookID,
		Description: description,
		Status:      entities.ActivityStatusSuccess,
	}
	if opErr != nil {
		event.Status = entities.ActivityStatusFailed
		event.ErrorMsg = truncate(opErr.Error(), 500)
	}
	s.LogAsync(event)
}

// LogImport records a bulk import run.
func (s *Service) LogImport(description string, imported int, opErr error) {
	event := &entities.ActivityEvent{
		EventType:   entities.ActivityEventImport,
		Action:      "csv_import",
		Description: description,
		Status:      entities.ActivityStatusSuccess,
	}
	if opErr != nil {
		event.Status = entities.ActivityStatusFailed
		event.ErrorMsg = truncate(opErr.Error(), 500)
	}
	s.LogAsync(event)
}

// LogReindex records a full-text index rebuild.
func (s *Service) LogReindex(indexed int, description string, opErr error) {
	event := &entities.ActivityEvent{
		EventType:   entities.ActivityEventReindex,
		Action:      "fts_reindex",
		Description: description,
		Status:      entities.ActivityStatusSuccess,
	}
	if opErr != nil {
		event.Status = entities.ActivityStatusFailed
		event.ErrorMsg = truncate(opErr.Error(), 500)
	}
	s.LogAsync(event)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
