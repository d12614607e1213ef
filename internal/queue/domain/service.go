package domain

import (
	"context"
	"errors"
)

type AddRequest struct {
	ContentID     string `json:"content_id"`
	ContentType   string `json:"content_type"`
	Title         string `json:"title,omitempty"`
	PosterPath    string `json:"poster_path,omitempty"`
	MoodWhenSaved string `json:"mood_when_saved,omitempty"`
}

// Stats summarizes a user's queue.
type Stats struct {
	Total    int            `json:"total"`
	Queued   int            `json:"queued"`
	Watching int            `json:"watching"`
	Watched  int            `json:"watched"`
	ByType   map[string]int `json:"by_type"`
}

type Service interface {
	// Add saves content to the queue. It is idempotent: adding the same
	// (content_id, content_type) again returns false without creating a
	// duplicate row.
	Add(ctx context.Context, userID int64, req AddRequest) (bool, error)
	UpdateStatus(ctx context.Context, userID int64, itemID string, status QueueStatus) error
	List(ctx context.Context, userID int64, status QueueStatus) ([]QueueItem, error)
	Stats(ctx context.Context, userID int64) Stats
}

var (
	ErrInvalidUser    = errors.New("invalid_user")
	ErrInvalidContent = errors.New("invalid_content")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrItemNotFound   = errors.New("queue_item_not_found")
)
