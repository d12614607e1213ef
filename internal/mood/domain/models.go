// Package domain contains the append-only mood selection log model and
// the aggregation contracts derived from it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MoodEvent is one mood selection. Immutable once written; streaks and
// pattern summaries are always recomputed from these rows.
type MoodEvent struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	UserID         int64        `gorm:"not null;index"`
	CurrentFeeling string       `gorm:"type:text;not null"`
	DesiredFeeling string       `gorm:"type:text"`
	Source         string       `gorm:"type:text"`
	CreatedAt      time.Time    `gorm:"not null;index"`
}

// TableName sets the database table name.
func (MoodEvent) TableName() string { return "mood_history" }
