// Package domain contains persistence models and contracts for the
// user's watch queue.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// QueueStatus is the watch state of a saved item.
type QueueStatus string

const (
	StatusQueued   QueueStatus = "queued"
	StatusWatching QueueStatus = "watching"
	StatusWatched  QueueStatus = "watched"
)

// Valid reports whether the status is one of the known states.
func (s QueueStatus) Valid() bool {
	switch s {
	case StatusQueued, StatusWatching, StatusWatched:
		return true
	default:
		return false
	}
}

// QueueItem is a saved piece of content. At most one row exists per
// (user_id, content_id, content_type); status is the only mutable field
// after creation.
type QueueItem struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	UserID        int64        `gorm:"not null;uniqueIndex:idx_watch_queue_user_content"`
	ContentID     string       `gorm:"type:text;not null;uniqueIndex:idx_watch_queue_user_content"`
	ContentType   string       `gorm:"type:text;not null;uniqueIndex:idx_watch_queue_user_content"`
	Title         string       `gorm:"type:text"`
	PosterPath    string       `gorm:"type:text"`
	MoodWhenSaved string       `gorm:"type:text"`
	Status        QueueStatus  `gorm:"type:text;not null"`
	AddedAt       time.Time    `gorm:"not null"`
	WatchedAt     *time.Time   `gorm:""`
}

// TableName sets the database table name.
func (QueueItem) TableName() string { return "watch_queue" }
