package domain

import (
	"context"
	"errors"
)

type Service interface {
	GetByUserID(ctx context.Context, userID int64) (Subscription, error)
	// IsPremium fails soft: a store error reads as not premium.
	IsPremium(ctx context.Context, userID int64) bool
}

var (
	ErrInvalidUser          = errors.New("invalid_user")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
)
