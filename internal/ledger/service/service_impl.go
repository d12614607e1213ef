package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ZamoritaCR/neurostream/internal/clock"
	"github.com/ZamoritaCR/neurostream/internal/config"
	ledgerdomain "github.com/ZamoritaCR/neurostream/internal/ledger/domain"
	obsmetrics "github.com/ZamoritaCR/neurostream/internal/observability/metrics"
	subscriptiondomain "github.com/ZamoritaCR/neurostream/internal/subscription/domain"
	"github.com/ZamoritaCR/neurostream/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Cfg        config.Config
	Limits     *config.LimitsConfigHolder
	Clock      clock.Clock
	SubSvc     subscriptiondomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	limits     *config.LimitsConfigHolder
	clock      clock.Clock
	subSvc     subscriptiondomain.Service
	repo       repository.Repository[ledgerdomain.DailyUsage]
	obsMetrics *obsmetrics.Metrics

	storeTimeout time.Duration
}

func NewService(p ServiceParam) ledgerdomain.Service {
	return &Service{
		log:        p.Log.Named("ledger.service"),
		genID:      p.GenID,
		limits:     p.Limits,
		clock:      p.Clock,
		subSvc:     p.SubSvc,
		repo:       repository.ProvideStore[ledgerdomain.DailyUsage](p.DB),
		obsMetrics: p.ObsMetrics,

		storeTimeout: time.Duration(p.Cfg.StoreTimeoutSeconds) * time.Second,
	}
}

// CanUse decides whether the user may consume the feature today. Premium
// subscribers and unrecognized features are always allowed with the
// unlimited sentinel. A store failure reads as zero usage so the check
// never blocks the UI.
func (s *Service) CanUse(ctx context.Context, userID int64, feature ledgerdomain.Feature) ledgerdomain.Decision {
	if !feature.Known() || s.isPremium(ctx, userID) {
		return ledgerdomain.Decision{
			Allowed:   true,
			Remaining: ledgerdomain.UnlimitedSentinel,
			Limit:     ledgerdomain.UnlimitedSentinel,
		}
	}

	limit := s.dailyLimit(feature)
	count := 0
	record, err := s.todayRecord(ctx, userID)
	if err != nil {
		s.log.Warn("daily usage lookup failed, assuming zero usage",
			zap.Int64("user_id", userID),
			zap.String("feature", string(feature)),
			zap.Error(err),
		)
	} else if record != nil {
		count = record.Count(feature)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	decision := ledgerdomain.Decision{
		Allowed:   remaining > 0,
		Remaining: remaining,
		Limit:     limit,
	}
	if s.obsMetrics != nil {
		s.obsMetrics.RecordUsageCheck(ctx, string(feature), decision.Allowed)
	}
	return decision
}

// Increment bumps today's counter for the feature, creating the row on
// first use. The read-then-write is deliberately not atomic: the only
// writer in practice is the user's own sequential UI session, and rapid
// duplicate requests may under-count. Hardening this into a conditional
// update would change observable behavior and is tracked as a known
// limitation instead.
func (s *Service) Increment(ctx context.Context, userID int64, feature ledgerdomain.Feature) {
	if !feature.Known() {
		return
	}

	record, err := s.todayRecord(ctx, userID)
	if err != nil {
		s.log.Warn("daily usage lookup failed, skipping increment",
			zap.Int64("user_id", userID),
			zap.String("feature", string(feature)),
			zap.Error(err),
		)
		return
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	now := s.clock.Now()
	if record == nil {
		fresh := ledgerdomain.DailyUsage{
			ID:     s.genID.Generate(),
			UserID: userID,
			Date:   now.Format(ledgerdomain.DateLayout),
		}
		switch feature {
		case ledgerdomain.FeatureRecommendation:
			fresh.RecommendationsCount = 1
		case ledgerdomain.FeatureMrDpChat:
			fresh.MrDpChatsCount = 1
		case ledgerdomain.FeatureQuickDope:
			fresh.QuickDopeHitsCount = 1
		}
		if err := s.repo.Create(storeCtx, &fresh); err != nil {
			s.log.Warn("daily usage create failed",
				zap.Int64("user_id", userID),
				zap.String("feature", string(feature)),
				zap.Error(err),
			)
		}
		return
	}

	column := record.CounterColumn(feature)
	updates := map[string]any{
		column:       record.Count(feature) + 1,
		"updated_at": now,
	}
	if err := s.repo.Update(storeCtx, record.ID.String(), updates); err != nil {
		s.log.Warn("daily usage increment failed",
			zap.Int64("user_id", userID),
			zap.String("feature", string(feature)),
			zap.Error(err),
		)
	}
}

func (s *Service) todayRecord(ctx context.Context, userID int64) (*ledgerdomain.DailyUsage, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	return s.repo.FindOne(storeCtx, &ledgerdomain.DailyUsage{
		UserID: userID,
		Date:   s.clock.Now().Format(ledgerdomain.DateLayout),
	})
}

func (s *Service) isPremium(ctx context.Context, userID int64) bool {
	if s.subSvc == nil {
		return false
	}
	return s.subSvc.IsPremium(ctx, userID)
}

func (s *Service) dailyLimit(feature ledgerdomain.Feature) int {
	limits := config.DefaultLimitsConfig()
	if s.limits != nil {
		limits = s.limits.Current()
	}
	switch feature {
	case ledgerdomain.FeatureRecommendation:
		return limits.Recommendation
	case ledgerdomain.FeatureMrDpChat:
		return limits.MrDpChat
	case ledgerdomain.FeatureQuickDope:
		return limits.QuickDope
	default:
		return ledgerdomain.UnlimitedSentinel
	}
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}
