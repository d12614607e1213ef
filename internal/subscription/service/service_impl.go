package service

import (
	"context"
	"errors"

	"github.com/ZamoritaCR/neurostream/internal/cache"
	subscriptiondomain "github.com/ZamoritaCR/neurostream/internal/subscription/domain"
	"github.com/ZamoritaCR/neurostream/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	ResolverCache cache.SubscriptionResolverCache
}

type Service struct {
	log           *zap.Logger
	repo          repository.Repository[subscriptiondomain.Subscription]
	resolverCache cache.SubscriptionResolverCache
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		log:           p.Log.Named("subscription.service"),
		repo:          repository.ProvideStore[subscriptiondomain.Subscription](p.DB),
		resolverCache: p.ResolverCache,
	}
}

func (s *Service) GetByUserID(ctx context.Context, userID int64) (subscriptiondomain.Subscription, error) {
	if userID == 0 {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidUser
	}

	if s.resolverCache != nil {
		if cached, ok := s.resolverCache.Get(userID); ok {
			return cached, nil
		}
	}

	record, err := s.repo.FindOne(ctx, &subscriptiondomain.Subscription{UserID: userID})
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	if record == nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
	}

	if s.resolverCache != nil {
		s.resolverCache.Set(userID, *record)
	}
	return *record, nil
}

// IsPremium treats "no subscription row" and "store unavailable" alike:
// the user is metered as free tier.
func (s *Service) IsPremium(ctx context.Context, userID int64) bool {
	sub, err := s.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound) && !errors.Is(err, subscriptiondomain.ErrInvalidUser) {
			s.log.Warn("subscription lookup failed, treating as free tier",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
		return false
	}
	return sub.IsActivePremium()
}
