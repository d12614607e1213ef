package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	behaviordomain "github.com/ZamoritaCR/neurostream/internal/behavior/domain"
	"github.com/ZamoritaCR/neurostream/internal/clock"
	"github.com/ZamoritaCR/neurostream/internal/config"
	mooddomain "github.com/ZamoritaCR/neurostream/internal/mood/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type behaviorStub struct {
	scores map[int64]behaviordomain.Score
}

func (s *behaviorStub) Track(ctx context.Context, userID int64, req behaviordomain.TrackRequest) error {
	return nil
}

func (s *behaviorStub) EngagementScore(ctx context.Context, userID int64, days int) behaviordomain.Score {
	return s.scores[userID]
}

func (s *behaviorStub) FavoriteContentTypes(ctx context.Context, userID int64, days int) []behaviordomain.ContentTypeCount {
	return nil
}

func (s *behaviorStub) PeakUsageHours(ctx context.Context, userID int64, days int) map[int]int {
	return map[int]int{}
}

func (s *behaviorStub) Insights(ctx context.Context, userID int64) behaviordomain.Insights {
	return behaviordomain.Insights{TimePreference: behaviordomain.TimeEvening}
}

type moodStub struct {
	patterns map[int64]mooddomain.Patterns
	streaks  map[int64]int
}

func (s *moodStub) Track(ctx context.Context, userID int64, req mooddomain.TrackRequest) error {
	return nil
}

func (s *moodStub) Patterns(ctx context.Context, userID int64, days int) mooddomain.Patterns {
	return s.patterns[userID]
}

func (s *moodStub) Streak(ctx context.Context, userID int64) int {
	return s.streaks[userID]
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func setupScheduler(t *testing.T, clk clock.Clock, behaviorSvc behaviordomain.Service, moodSvc mooddomain.Service) (*Scheduler, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	require.NoError(t, db.AutoMigrate(
		&behaviordomain.BehaviorEvent{},
		&mooddomain.MoodEvent{},
		&WeeklyDigest{},
	))

	sched := New(Param{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: mustNode(t),
		Cfg: config.Config{
			Scheduler: config.SchedulerConfig{
				EngagementDigestSpec: "0 9 * * 1",
				MoodDigestSpec:       "0 10 * * 1",
				DigestWindowDays:     7,
			},
		},
		Clock:       clk,
		BehaviorSvc: behaviorSvc,
		MoodSvc:     moodSvc,
	})
	return sched, db
}

func TestEngagementDigestCoversActiveUsers(t *testing.T) {
	now := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)
	node := mustNode(t)

	action := "view"
	behaviorSvc := &behaviorStub{scores: map[int64]behaviordomain.Score{
		1: {TotalActions: 20, UniqueDays: 2, AvgDailyActions: 10, MostCommonAction: &action, EngagementLevel: behaviordomain.EngagementHigh},
		2: {TotalActions: 1, UniqueDays: 1, AvgDailyActions: 1, EngagementLevel: behaviordomain.EngagementLow},
	}}

	sched, db := setupScheduler(t, clk, behaviorSvc, &moodStub{})

	// User 1 and 2 acted inside the window; user 3 is stale.
	for _, seed := range []struct {
		userID int64
		at     time.Time
	}{
		{1, now.AddDate(0, 0, -1)},
		{2, now.AddDate(0, 0, -3)},
		{3, now.AddDate(0, 0, -20)},
	} {
		event := behaviordomain.BehaviorEvent{
			ID:         node.Generate(),
			UserID:     seed.userID,
			ActionType: "view",
			CreatedAt:  seed.at,
		}
		require.NoError(t, db.Create(&event).Error)
	}

	sched.RunEngagementDigest(context.Background())

	var digests []WeeklyDigest
	require.NoError(t, db.Where("kind = ?", digestKindEngagement).Order("user_id").Find(&digests).Error)
	require.Len(t, digests, 2)
	require.EqualValues(t, 1, digests[0].UserID)
	require.EqualValues(t, 2, digests[1].UserID)
	require.EqualValues(t, "high", digests[0].Payload["engagement_level"])
	require.Equal(t, "view", digests[0].Payload["most_common_action"])
}

func TestMoodDigestWritesStreakAndTopMoods(t *testing.T) {
	now := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)
	node := mustNode(t)

	moodSvc := &moodStub{
		patterns: map[int64]mooddomain.Patterns{
			1: {
				TotalEntries: 3,
				TopCurrent:   []mooddomain.MoodCount{{Mood: "bored", Count: 2}},
				TopDesired:   []mooddomain.MoodCount{{Mood: "excited", Count: 2}},
			},
		},
		streaks: map[int64]int{1: 4},
	}

	sched, db := setupScheduler(t, clk, &behaviorStub{}, moodSvc)

	event := mooddomain.MoodEvent{
		ID:             node.Generate(),
		UserID:         1,
		CurrentFeeling: "bored",
		CreatedAt:      now.AddDate(0, 0, -2),
	}
	require.NoError(t, db.Create(&event).Error)

	sched.RunMoodDigest(context.Background())

	var digest WeeklyDigest
	require.NoError(t, db.Where("kind = ?", digestKindMood).First(&digest).Error)
	require.EqualValues(t, 1, digest.UserID)
	require.EqualValues(t, 4, digest.Payload["streak_days"])
	require.Equal(t, "bored", digest.Payload["top_current"])
	require.Equal(t, "excited", digest.Payload["top_desired"])
}

func TestDigestSkipsWhenLookupFails(t *testing.T) {
	now := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)

	sched, db := setupScheduler(t, clk, &behaviorStub{}, &moodStub{})
	require.NoError(t, db.Migrator().DropTable(&behaviordomain.BehaviorEvent{}))

	sched.RunEngagementDigest(context.Background())

	var count int64
	require.NoError(t, db.Model(&WeeklyDigest{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}
