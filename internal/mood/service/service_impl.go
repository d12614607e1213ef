package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ZamoritaCR/neurostream/internal/clock"
	"github.com/ZamoritaCR/neurostream/internal/config"
	mooddomain "github.com/ZamoritaCR/neurostream/internal/mood/domain"
	obsmetrics "github.com/ZamoritaCR/neurostream/internal/observability/metrics"
	"github.com/ZamoritaCR/neurostream/pkg/db/option"
	"github.com/ZamoritaCR/neurostream/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

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
	repo       repository.Repository[mooddomain.MoodEvent]
	obsMetrics *obsmetrics.Metrics

	storeTimeout time.Duration
}

func NewService(p ServiceParam) mooddomain.Service {
	return &Service{
		log:        p.Log.Named("mood.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       repository.ProvideStore[mooddomain.MoodEvent](p.DB),
		obsMetrics: p.ObsMetrics,

		storeTimeout: time.Duration(p.Cfg.StoreTimeoutSeconds) * time.Second,
	}
}

func (s *Service) Track(ctx context.Context, userID int64, req mooddomain.TrackRequest) error {
	if userID == 0 {
		return mooddomain.ErrInvalidUser
	}
	current := strings.TrimSpace(req.CurrentFeeling)
	if current == "" {
		return mooddomain.ErrInvalidMood
	}

	event := mooddomain.MoodEvent{
		ID:             s.genID.Generate(),
		UserID:         userID,
		CurrentFeeling: current,
		DesiredFeeling: strings.TrimSpace(req.DesiredFeeling),
		Source:         strings.TrimSpace(req.Source),
		CreatedAt:      s.clock.Now(),
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.repo.Create(storeCtx, &event); err != nil {
		return err
	}
	if s.obsMetrics != nil {
		s.obsMetrics.RecordEventTracked(ctx, "mood")
	}
	return nil
}

// Patterns ranks moods and transitions over the lookback window. Ties
// keep the value seen first in the fetched (newest-first) order, the
// same convention the behavior aggregations use.
func (s *Service) Patterns(ctx context.Context, userID int64, days int) mooddomain.Patterns {
	patterns := mooddomain.Patterns{MoodByHour: map[int]string{}}

	events, err := s.fetchWindow(ctx, userID, days)
	if err != nil {
		s.log.Warn("mood fetch failed, returning empty patterns",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return patterns
	}
	if len(events) == 0 {
		return patterns
	}

	patterns.TotalEntries = len(events)

	currentCounts := map[string]int{}
	currentFirstSeen := map[string]int{}
	desiredCounts := map[string]int{}
	desiredFirstSeen := map[string]int{}
	transitionCounts := map[string]int{}
	transitionFirstSeen := map[string]int{}
	hourMoodCounts := map[int]map[string]int{}
	hourMoodFirstSeen := map[int]map[string]int{}

	for i, event := range events {
		countValue(currentCounts, currentFirstSeen, event.CurrentFeeling, i)
		countValue(desiredCounts, desiredFirstSeen, event.DesiredFeeling, i)

		if event.CurrentFeeling != "" && event.DesiredFeeling != "" {
			transition := event.CurrentFeeling + " → " + event.DesiredFeeling
			countValue(transitionCounts, transitionFirstSeen, transition, i)
		}

		if !event.CreatedAt.IsZero() && event.CurrentFeeling != "" {
			hour := event.CreatedAt.Hour()
			if hourMoodCounts[hour] == nil {
				hourMoodCounts[hour] = map[string]int{}
				hourMoodFirstSeen[hour] = map[string]int{}
			}
			countValue(hourMoodCounts[hour], hourMoodFirstSeen[hour], event.CurrentFeeling, i)
		}
	}

	patterns.TopCurrent = rankMoods(currentCounts, currentFirstSeen)
	patterns.TopDesired = rankMoods(desiredCounts, desiredFirstSeen)
	patterns.CommonTransitions = rankTransitions(transitionCounts, transitionFirstSeen)

	for hour, counts := range hourMoodCounts {
		if mood, ok := topByCount(counts, hourMoodFirstSeen[hour]); ok {
			patterns.MoodByHour[hour] = mood
		}
	}
	return patterns
}

// Streak walks backward from today until the first day without an entry.
func (s *Service) Streak(ctx context.Context, userID int64) int {
	if userID == 0 {
		return 0
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	events, err := s.repo.Find(storeCtx, &mooddomain.MoodEvent{UserID: userID},
		option.WithOrderBy("created_at DESC"),
	)
	if err != nil {
		s.log.Warn("mood fetch failed, returning zero streak",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return 0
	}

	activeDays := map[string]struct{}{}
	for _, event := range events {
		if event.CreatedAt.IsZero() {
			continue
		}
		activeDays[event.CreatedAt.Format(dateLayout)] = struct{}{}
	}

	streak := 0
	day := s.clock.Now()
	for {
		if _, ok := activeDays[day.Format(dateLayout)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func (s *Service) fetchWindow(ctx context.Context, userID int64, days int) ([]*mooddomain.MoodEvent, error) {
	if userID == 0 || days <= 0 {
		return nil, nil
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	since := s.clock.Now().AddDate(0, 0, -days)
	return s.repo.Find(storeCtx, &mooddomain.MoodEvent{UserID: userID},
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

func countValue(counts map[string]int, firstSeen map[string]int, value string, index int) {
	if value == "" {
		return
	}
	if _, seen := counts[value]; !seen {
		firstSeen[value] = index
	}
	counts[value]++
}

func rankMoods(counts map[string]int, firstSeen map[string]int) []mooddomain.MoodCount {
	ranked := make([]mooddomain.MoodCount, 0, len(counts))
	for mood, count := range counts {
		ranked = append(ranked, mooddomain.MoodCount{Mood: mood, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Mood] < firstSeen[ranked[j].Mood]
	})
	if len(ranked) > mooddomain.TopMoodLimit {
		ranked = ranked[:mooddomain.TopMoodLimit]
	}
	return ranked
}

func rankTransitions(counts map[string]int, firstSeen map[string]int) []mooddomain.TransitionCount {
	ranked := make([]mooddomain.TransitionCount, 0, len(counts))
	for transition, count := range counts {
		ranked = append(ranked, mooddomain.TransitionCount{Transition: transition, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Transition] < firstSeen[ranked[j].Transition]
	})
	if len(ranked) > mooddomain.TopMoodLimit {
		ranked = ranked[:mooddomain.TopMoodLimit]
	}
	return ranked
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
