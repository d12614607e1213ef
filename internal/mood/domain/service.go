package domain

import (
	"context"
	"errors"
)

// TopMoodLimit caps the frequency-ranked mood lists.
const TopMoodLimit = 5

type TrackRequest struct {
	CurrentFeeling string `json:"current_feeling"`
	DesiredFeeling string `json:"desired_feeling"`
	Source         string `json:"source,omitempty"`
}

// MoodCount is one entry of a frequency-ranked mood list.
type MoodCount struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

// TransitionCount ranks a literal "current → desired" pair.
type TransitionCount struct {
	Transition string `json:"transition"`
	Count      int    `json:"count"`
}

// Patterns summarizes a user's mood history over a lookback window.
type Patterns struct {
	TopCurrent        []MoodCount       `json:"top_current"`
	TopDesired        []MoodCount       `json:"top_desired"`
	CommonTransitions []TransitionCount `json:"common_transitions"`
	MoodByHour        map[int]string    `json:"mood_by_hour"`
	TotalEntries      int               `json:"total_entries"`
}

// Service aggregates the mood log. Reads fail soft: store failures are
// logged and degrade to empty/zero results.
type Service interface {
	Track(ctx context.Context, userID int64, req TrackRequest) error
	Patterns(ctx context.Context, userID int64, days int) Patterns
	// Streak counts consecutive calendar days with at least one entry,
	// walking backward from today. No entry today means zero.
	Streak(ctx context.Context, userID int64) int
}

var (
	ErrInvalidUser = errors.New("invalid_user")
	ErrInvalidMood = errors.New("invalid_mood")
)
