// Package domain contains the append-only behavior event log model and
// the aggregation contracts derived from it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// BehaviorEvent is one logged user action. Immutable once written; every
// derived summary is recomputed from these rows, never stored.
type BehaviorEvent struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	UserID      int64             `gorm:"not null;index"`
	ActionType  string            `gorm:"type:text;not null"`
	ContentID   *string           `gorm:"type:text"`
	ContentType *string           `gorm:"type:text"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time         `gorm:"not null;index"`
}

// TableName sets the database table name.
func (BehaviorEvent) TableName() string { return "user_behavior" }
