package entities

import "time"

// Activity event types
const (
	ActivityEventCreate  = "create"
	ActivityEventUpdate  = "update"
	ActivityEventDelete  = "delete"
	ActivityEventImport  = "import"
	ActivityEventReindex = "reindex"
)

// Activity event statuses
const (
	ActivityStatusSuccess = "success"
	ActivityStatusFailed  = "failed"
)

// ActivityEvent records one change to the catalog (a book created, edited
// or removed, a bulk import, an index rebuild).
type ActivityEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventType   string    `gorm:"index;size:32" json:"event_type"`
	Action      string    `gorm:"size:64" json:"action"`
	BookID      *uint     `gorm:"index" json:"book_id,omitempty"`
	Description string    `gorm:"size:512" json:"description"`
	Status      string    `gorm:"size:16" json:"status"`
	ErrorMsg    string    `gorm:"size:512" json:"error,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
