package cache

import (
	"strconv"
	"time"

	subscriptiondomain "github.com/ZamoritaCR/neurostream/internal/subscription/domain"
)

const defaultSubscriptionTTL = 45 * time.Second

// SubscriptionResolverCache stores hot-path subscription lookups so every
// quota check does not hit the store.
type SubscriptionResolverCache interface {
	Get(userID int64) (subscriptiondomain.Subscription, bool)
	Set(userID int64, sub subscriptiondomain.Subscription)
	Invalidate(userID int64)
}

type subscriptionResolverCache struct {
	subscriptions Cache[string, subscriptiondomain.Subscription]
	ttl           time.Duration
}

// NewSubscriptionResolverCache returns an in-memory cache tuned for gating checks.
func NewSubscriptionResolverCache() SubscriptionResolverCache {
	return &subscriptionResolverCache{
		subscriptions: NewTTLCache[string, subscriptiondomain.Subscription](),
		ttl:           defaultSubscriptionTTL,
	}
}

func (c *subscriptionResolverCache) Get(userID int64) (subscriptiondomain.Subscription, bool) {
	return c.subscriptions.Get(cacheKey(userID))
}

func (c *subscriptionResolverCache) Set(userID int64, sub subscriptiondomain.Subscription) {
	if sub.ID == 0 {
		return
	}
	c.subscriptions.Set(cacheKey(userID), sub, c.ttl)
}

func (c *subscriptionResolverCache) Invalidate(userID int64) {
	c.subscriptions.Delete(cacheKey(userID))
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
