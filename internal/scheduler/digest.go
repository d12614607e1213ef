package scheduler

import (
	"context"

	behaviordomain "github.com/ZamoritaCR/neurostream/internal/behavior/domain"
	mooddomain "github.com/ZamoritaCR/neurostream/internal/mood/domain"
	"go.uber.org/zap"
)

// RunEngagementDigest snapshots the engagement score of every user with
// behavior events inside the digest window.
func (s *Scheduler) RunEngagementDigest(ctx context.Context) {
	userIDs, err := s.activeUserIDs(ctx, behaviordomain.BehaviorEvent{}.TableName())
	if err != nil {
		s.log.Warn("engagement digest skipped, active user lookup failed", zap.Error(err))
		return
	}

	days := s.windowDays()
	for _, userID := range userIDs {
		score := s.behaviorSvc.EngagementScore(ctx, userID, days)
		payload := map[string]any{
			"total_actions":     score.TotalActions,
			"unique_days":       score.UniqueDays,
			"avg_daily_actions": score.AvgDailyActions,
			"engagement_level":  score.EngagementLevel,
			"window_days":       days,
		}
		if score.MostCommonAction != nil {
			payload["most_common_action"] = *score.MostCommonAction
		}
		s.writeDigest(ctx, userID, digestKindEngagement, payload)
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordDigestRun(ctx, digestKindEngagement)
	}
	s.log.Info("engagement digest complete", zap.Int("users", len(userIDs)))
}

// RunMoodDigest snapshots mood patterns and the current streak of every
// user with mood events inside the digest window.
func (s *Scheduler) RunMoodDigest(ctx context.Context) {
	userIDs, err := s.activeUserIDs(ctx, mooddomain.MoodEvent{}.TableName())
	if err != nil {
		s.log.Warn("mood digest skipped, active user lookup failed", zap.Error(err))
		return
	}

	days := s.windowDays()
	for _, userID := range userIDs {
		patterns := s.moodSvc.Patterns(ctx, userID, days)
		payload := map[string]any{
			"total_entries": patterns.TotalEntries,
			"streak_days":   s.moodSvc.Streak(ctx, userID),
			"window_days":   days,
		}
		if len(patterns.TopCurrent) > 0 {
			payload["top_current"] = patterns.TopCurrent[0].Mood
		}
		if len(patterns.TopDesired) > 0 {
			payload["top_desired"] = patterns.TopDesired[0].Mood
		}
		s.writeDigest(ctx, userID, digestKindMood, payload)
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordDigestRun(ctx, digestKindMood)
	}
	s.log.Info("mood digest complete", zap.Int("users", len(userIDs)))
}
