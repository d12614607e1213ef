// Package domain contains persistence models for subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PlanType is the commercial tier a user is on.
type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanPremium PlanType = "premium"
)

// SubscriptionStatus represents lifecycle states for a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
)

// Subscription captures a user's plan. Owned by the billing system;
// this service only reads it to decide metered vs unlimited behavior.
type Subscription struct {
	ID        snowflake.ID       `gorm:"primaryKey"`
	UserID    int64              `gorm:"not null;index"`
	PlanType  PlanType           `gorm:"type:text;not null"`
	Status    SubscriptionStatus `gorm:"type:text;not null"`
	CreatedAt time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// IsActivePremium reports whether the subscription unlocks unlimited usage.
func (s Subscription) IsActivePremium() bool {
	return s.PlanType == PlanPremium && s.Status == SubscriptionStatusActive
}
