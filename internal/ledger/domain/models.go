// Package domain contains persistence models and contracts for the
// per-user per-day usage ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DailyUsage is one row per user per calendar day, created lazily on the
// first quota check and mutated by increments. Rows are never deleted.
type DailyUsage struct {
	ID                   snowflake.ID `gorm:"primaryKey"`
	UserID               int64        `gorm:"not null;uniqueIndex:idx_daily_usage_user_date"`
	Date                 string       `gorm:"type:text;not null;uniqueIndex:idx_daily_usage_user_date"`
	RecommendationsCount int          `gorm:"not null;default:0"`
	MrDpChatsCount       int          `gorm:"not null;default:0"`
	QuickDopeHitsCount   int          `gorm:"not null;default:0"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (DailyUsage) TableName() string { return "daily_usage" }

// DateLayout is the calendar-day key format, in the service's local clock.
const DateLayout = "2006-01-02"

// Count returns the counter for the given feature.
func (u DailyUsage) Count(feature Feature) int {
	switch feature {
	case FeatureRecommendation:
		return u.RecommendationsCount
	case FeatureMrDpChat:
		return u.MrDpChatsCount
	case FeatureQuickDope:
		return u.QuickDopeHitsCount
	default:
		return 0
	}
}

// CounterColumn returns the database column backing the feature's counter.
func (u DailyUsage) CounterColumn(feature Feature) string {
	switch feature {
	case FeatureRecommendation:
		return "recommendations_count"
	case FeatureMrDpChat:
		return "mr_dp_chats_count"
	case FeatureQuickDope:
		return "quick_dope_hits_count"
	default:
		return ""
	}
}
