package activity

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an activity event to the database.
func (r *Repository) LogEvent(event *entities.ActivityEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated activity events, most recent first.
func (r *Repository) GetEvents(limit, offset int) ([]entities.ActivityEvent, int64, error) {
	var events []entities.ActivityEvent
	var total int64

	query := r.db.Model(&entities.ActivityEvent{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes activity events older than the retention window.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.ActivityEvent{})
	return result.RowsAffected, result.Error
}
