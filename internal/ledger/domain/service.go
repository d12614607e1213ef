package domain

import "context"

// Feature identifies a metered product feature.
type Feature string

const (
	FeatureRecommendation Feature = "recommendation"
	FeatureMrDpChat       Feature = "mr_dp_chat"
	FeatureQuickDope      Feature = "quick_dope"
)

// UnlimitedSentinel is reported as both limit and remaining for premium
// users and for unrecognized features. It is a sentinel, not a quota.
const UnlimitedSentinel = 999

// Known reports whether the feature is metered at all.
func (f Feature) Known() bool {
	switch f {
	case FeatureRecommendation, FeatureMrDpChat, FeatureQuickDope:
		return true
	default:
		return false
	}
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}

// Service gates metered features. Both operations fail soft: a store
// failure degrades to zero recorded usage rather than surfacing an error,
// so the UI is never blocked by the ledger.
type Service interface {
	CanUse(ctx context.Context, userID int64, feature Feature) Decision
	Increment(ctx context.Context, userID int64, feature Feature)
}
