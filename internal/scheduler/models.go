package scheduler

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// WeeklyDigest is an advisory snapshot written by a digest job. The
// event logs stay the source of truth; digests are never read back to
// answer live aggregation calls.
type WeeklyDigest struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	UserID      int64             `gorm:"not null;index"`
	Kind        string            `gorm:"type:text;not null"`
	Payload     datatypes.JSONMap `gorm:"type:jsonb"`
	GeneratedAt time.Time         `gorm:"not null"`
}

// TableName sets the database table name.
func (WeeklyDigest) TableName() string { return "weekly_digests" }

const (
	digestKindEngagement = "engagement"
	digestKindMood       = "mood"
)
