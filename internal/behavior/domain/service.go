package domain

import (
	"context"
	"errors"
)

// Engagement tiers derived from average daily action count. The
// thresholds are product constants, not configurable.
const (
	EngagementHigh   = "high"
	EngagementMedium = "medium"
	EngagementLow    = "low"
)

// Time-of-day brackets for behavioral summaries.
const (
	TimeMorning   = "morning"   // 5-11
	TimeAfternoon = "afternoon" // 12-16
	TimeEvening   = "evening"   // 17-21
	TimeNight     = "night"     // 22-4
)

type TrackRequest struct {
	ActionType  string         `json:"action_type"`
	ContentID   *string        `json:"content_id,omitempty"`
	ContentType *string        `json:"content_type,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Score summarizes a user's activity over a lookback window.
type Score struct {
	TotalActions     int     `json:"total_actions"`
	UniqueDays       int     `json:"unique_days"`
	AvgDailyActions  float64 `json:"avg_daily_actions"`
	MostCommonAction *string `json:"most_common_action"`
	EngagementLevel  string  `json:"engagement_level"`
}

// ContentTypeCount is one entry of a frequency-ranked content-type list.
type ContentTypeCount struct {
	ContentType string `json:"content_type"`
	Count       int    `json:"count"`
}

// Insights carries recommendations derived from behavioral patterns.
type Insights struct {
	TimePreference string `json:"time_preference"`
}

// Service aggregates the behavior log. All read operations fail soft:
// a store failure is logged and degrades to an empty/zero result, so
// callers cannot distinguish "no data" from "store unavailable."
type Service interface {
	Track(ctx context.Context, userID int64, req TrackRequest) error
	EngagementScore(ctx context.Context, userID int64, days int) Score
	FavoriteContentTypes(ctx context.Context, userID int64, days int) []ContentTypeCount
	PeakUsageHours(ctx context.Context, userID int64, days int) map[int]int
	Insights(ctx context.Context, userID int64) Insights
}

var (
	ErrInvalidUser   = errors.New("invalid_user")
	ErrInvalidAction = errors.New("invalid_action")
)
