// Package scheduler runs the weekly digest jobs. The original product
// shipped these as a cron-like script firing two callbacks a week; here
// they run in-process on the service clock.
package scheduler

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	behaviordomain "github.com/ZamoritaCR/neurostream/internal/behavior/domain"
	"github.com/ZamoritaCR/neurostream/internal/clock"
	"github.com/ZamoritaCR/neurostream/internal/config"
	mooddomain "github.com/ZamoritaCR/neurostream/internal/mood/domain"
	obsmetrics "github.com/ZamoritaCR/neurostream/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Param struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Cfg         config.Config
	Clock       clock.Clock
	BehaviorSvc behaviordomain.Service
	MoodSvc     mooddomain.Service
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

type Scheduler struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	cfg         config.SchedulerConfig
	clock       clock.Clock
	behaviorSvc behaviordomain.Service
	moodSvc     mooddomain.Service
	obsMetrics  *obsmetrics.Metrics

	cron *cron.Cron
}

func New(p Param) *Scheduler {
	return &Scheduler{
		db:          p.DB,
		log:         p.Log.Named("scheduler"),
		genID:       p.GenID,
		cfg:         p.Cfg.Scheduler,
		clock:       p.Clock,
		behaviorSvc: p.BehaviorSvc,
		moodSvc:     p.MoodSvc,
		obsMetrics:  p.ObsMetrics,

		cron: cron.New(),
	}
}

// Start registers the two weekly entries and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.EngagementDigestSpec, func() {
		s.RunEngagementDigest(context.Background())
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.MoodDigestSpec, func() {
		s.RunMoodDigest(context.Background())
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("scheduler started",
		zap.String("engagement_spec", s.cfg.EngagementDigestSpec),
		zap.String("mood_spec", s.cfg.MoodDigestSpec),
	)
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) windowDays() int {
	if s.cfg.DigestWindowDays > 0 {
		return s.cfg.DigestWindowDays
	}
	return 7
}

func (s *Scheduler) activeUserIDs(ctx context.Context, table string) ([]int64, error) {
	since := s.clock.Now().AddDate(0, 0, -s.windowDays())
	var userIDs []int64
	err := s.db.WithContext(ctx).
		Table(table).
		Distinct("user_id").
		Where("created_at >= ?", since).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (s *Scheduler) writeDigest(ctx context.Context, userID int64, kind string, payload map[string]any) {
	digest := WeeklyDigest{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Kind:        kind,
		Payload:     payload,
		GeneratedAt: s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&digest).Error; err != nil {
		s.log.Warn("digest write failed",
			zap.Int64("user_id", userID),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, cfg config.Config, sched *Scheduler) {
	if !cfg.Scheduler.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return sched.Start()
		},
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			return sched.Stop(stopCtx)
		},
	})
}
