package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	behaviordomain "github.com/ZamoritaCR/neurostream/internal/behavior/domain"
	"github.com/ZamoritaCR/neurostream/internal/clock"
	"github.com/ZamoritaCR/neurostream/internal/config"
	obsmetrics "github.com/ZamoritaCR/neurostream/internal/observability/metrics"
	"github.com/ZamoritaCR/neurostream/pkg/db/option"
	"github.com/ZamoritaCR/neurostream/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// insightsWindowDays is the lookback used when deriving the time-of-day
// preference for recommendations.
const insightsWindowDays = 30

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Cfg        config.Config
	Clock      clock.Clock
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       repository.Repository[behaviordomain.BehaviorEvent]
	obsMetrics *obsmetrics.Metrics

	storeTimeout time.Duration
}

func NewService(p ServiceParam) behaviordomain.Service {
	return &Service{
		log:        p.Log.Named("behavior.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       repository.ProvideStore[behaviordomain.BehaviorEvent](p.DB),
		obsMetrics: p.ObsMetrics,

		storeTimeout: time.Duration(p.Cfg.StoreTimeoutSeconds) * time.Second,
	}
}

func (s *Service) Track(ctx context.Context, userID int64, req behaviordomain.TrackRequest) error {
	if userID == 0 {
		return behaviordomain.ErrInvalidUser
	}
	actionType := strings.TrimSpace(req.ActionType)
	if actionType == "" {
		return behaviordomain.ErrInvalidAction
	}

	event := behaviordomain.BehaviorEvent{
		ID:          s.genID.Generate(),
		UserID:      userID,
		ActionType:  actionType,
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		CreatedAt:   s.clock.Now(),
	}
	if req.Metadata != nil {
		event.Metadata = datatypes.JSONMap(req.Metadata)
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.repo.Create(storeCtx, &event); err != nil {
		return err
	}
	if s.obsMetrics != nil {
		s.obsMetrics.RecordEventTracked(ctx, "behavior")
	}
	return nil
}

// EngagementScore derives the coarse engagement tier from the event log.
// Events with a zero timestamp are skipped when bucketing days. Ties on
// the most common action go to the action seen first in the fetched
// (newest-first) order.
func (s *Service) EngagementScore(ctx context.Context, userID int64, days int) behaviordomain.Score {
	score := behaviordomain.Score{EngagementLevel: behaviordomain.EngagementLow}

	events, err := s.fetchWindow(ctx, userID, days)
	if err != nil {
		s.log.Warn("behavior fetch failed, returning empty score",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return score
	}
	if len(events) == 0 {
		return score
	}

	score.TotalActions = len(events)

	uniqueDays := map[string]struct{}{}
	actionCounts := map[string]int{}
	actionFirstSeen := map[string]int{}
	for i, event := range events {
		if !event.CreatedAt.IsZero() {
			uniqueDays[event.CreatedAt.Format("2006-01-02")] = struct{}{}
		}
		if _, seen := actionCounts[event.ActionType]; !seen {
			actionFirstSeen[event.ActionType] = i
		}
		actionCounts[event.ActionType]++
	}

	score.UniqueDays = len(uniqueDays)
	if score.UniqueDays > 0 {
		score.AvgDailyActions = roundOne(float64(score.TotalActions) / float64(score.UniqueDays))
	}

	switch {
	case score.AvgDailyActions >= 10:
		score.EngagementLevel = behaviordomain.EngagementHigh
	case score.AvgDailyActions >= 3:
		score.EngagementLevel = behaviordomain.EngagementMedium
	}

	if action, ok := topByCount(actionCounts, actionFirstSeen); ok {
		score.MostCommonAction = &action
	}
	return score
}

// FavoriteContentTypes ranks content types by frequency, descending.
// Ties keep the type seen first in the fetched order.
func (s *Service) FavoriteContentTypes(ctx context.Context, userID int64, days int) []behaviordomain.ContentTypeCount {
	events, err := s.fetchWindow(ctx, userID, days)
	if err != nil {
		s.log.Warn("behavior fetch failed, returning empty content types",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil
	}

	counts := map[string]int{}
	firstSeen := map[string]int{}
	for i, event := range events {
		if event.ContentType == nil {
			continue
		}
		contentType := strings.TrimSpace(*event.ContentType)
		if contentType == "" {
			continue
		}
		if _, seen := counts[contentType]; !seen {
			firstSeen[contentType] = i
		}
		counts[contentType]++
	}

	ranked := make([]behaviordomain.ContentTypeCount, 0, len(counts))
	for contentType, count := range counts {
		ranked = append(ranked, behaviordomain.ContentTypeCount{ContentType: contentType, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].ContentType] < firstSeen[ranked[j].ContentType]
	})
	return ranked
}

// PeakUsageHours counts events per hour of day (0-23).
func (s *Service) PeakUsageHours(ctx context.Context, userID int64, days int) map[int]int {
	hours := map[int]int{}

	events, err := s.fetchWindow(ctx, userID, days)
	if err != nil {
		s.log.Warn("behavior fetch failed, returning empty peak hours",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return hours
	}

	for _, event := range events {
		if event.CreatedAt.IsZero() {
			continue
		}
		hours[event.CreatedAt.Hour()]++
	}
	return hours
}

// Insights derives the user's time-of-day preference by summing
// peak-hour counts inside each bracket. Ties resolve to evening; this
// default is part of the observable contract.
func (s *Service) Insights(ctx context.Context, userID int64) behaviordomain.Insights {
	hours := s.PeakUsageHours(ctx, userID, insightsWindowDays)

	sums := map[string]int{
		behaviordomain.TimeMorning:   bracketSum(hours, 5, 11),
		behaviordomain.TimeAfternoon: bracketSum(hours, 12, 16),
		behaviordomain.TimeEvening:   bracketSum(hours, 17, 21),
		behaviordomain.TimeNight:     bracketSum(hours, 22, 23) + bracketSum(hours, 0, 4),
	}

	preference := behaviordomain.TimeEvening
	best := sums[behaviordomain.TimeEvening]
	for _, bracket := range []string{behaviordomain.TimeMorning, behaviordomain.TimeAfternoon, behaviordomain.TimeNight} {
		if sums[bracket] > best {
			preference = bracket
			best = sums[bracket]
		}
	}
	return behaviordomain.Insights{TimePreference: preference}
}

func (s *Service) fetchWindow(ctx context.Context, userID int64, days int) ([]*behaviordomain.BehaviorEvent, error) {
	if userID == 0 || days <= 0 {
		return nil, nil
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	since := s.clock.Now().AddDate(0, 0, -days)
	return s.repo.Find(storeCtx, &behaviordomain.BehaviorEvent{UserID: userID},
		option.WithCreatedAfter(since),
		option.WithOrderBy("created_at DESC"),
	)
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func topByCount(counts map[string]int, firstSeen map[string]int) (string, bool) {
	best := ""
	bestCount := 0
	found := false
	for key, count := range counts {
		switch {
		case !found, count > bestCount:
			best, bestCount, found = key, count, true
		case count == bestCount && firstSeen[key] < firstSeen[best]:
			best = key
		}
	}
	return best, found
}

func bracketSum(hours map[int]int, from, to int) int {
	total := 0
	for hour := from; hour <= to; hour++ {
		total += hours[hour]
	}
	return total
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
