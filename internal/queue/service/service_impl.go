package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ZamoritaCR/neurostream/internal/clock"
	"github.com/ZamoritaCR/neurostream/internal/config"
	obsmetrics "github.com/ZamoritaCR/neurostream/internal/observability/metrics"
	queuedomain "github.com/ZamoritaCR/neurostream/internal/queue/domain"
	"github.com/ZamoritaCR/neurostream/pkg/db/option"
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
	Clock      clock.Clock
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       repository.Repository[queuedomain.QueueItem]
	obsMetrics *obsmetrics.Metrics

	storeTimeout time.Duration
}

func NewService(p ServiceParam) queuedomain.Service {
	return &Service{
		log:        p.Log.Named("queue.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       repository.ProvideStore[queuedomain.QueueItem](p.DB),
		obsMetrics: p.ObsMetrics,

		storeTimeout: time.Duration(p.Cfg.StoreTimeoutSeconds) * time.Second,
	}
}

func (s *Service) Add(ctx context.Context, userID int64, req queuedomain.AddRequest) (bool, error) {
	if userID == 0 {
		return false, queuedomain.ErrInvalidUser
	}
	contentID := strings.TrimSpace(req.ContentID)
	contentType := strings.TrimSpace(req.ContentType)
	if contentID == "" || contentType == "" {
		return false, queuedomain.ErrInvalidContent
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	existing, err := s.repo.FindOne(storeCtx, &queuedomain.QueueItem{
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
	})
	if err != nil {
		return false, err
	}
	if existing != nil {
		if s.obsMetrics != nil {
			s.obsMetrics.RecordQueueAdd(ctx, false)
		}
		return false, nil
	}

	item := queuedomain.QueueItem{
		ID:            s.genID.Generate(),
		UserID:        userID,
		ContentID:     contentID,
		ContentType:   contentType,
		Title:         strings.TrimSpace(req.Title),
		PosterPath:    strings.TrimSpace(req.PosterPath),
		MoodWhenSaved: strings.TrimSpace(req.MoodWhenSaved),
		Status:        queuedomain.StatusQueued,
		AddedAt:       s.clock.Now(),
	}
	if err := s.repo.Create(storeCtx, &item); err != nil {
		// The unique index on (user_id, content_id, content_type) can
		// still reject a concurrent duplicate; report it as "already
		// queued" rather than an error.
		s.log.Debug("queue insert rejected, treating as duplicate",
			zap.Int64("user_id", userID),
			zap.String("content_id", contentID),
			zap.Error(err),
		)
		return false, nil
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordQueueAdd(ctx, true)
	}
	return true, nil
}

func (s *Service) UpdateStatus(ctx context.Context, userID int64, itemID string, status queuedomain.QueueStatus) error {
	if userID == 0 {
		return queuedomain.ErrInvalidUser
	}
	if !status.Valid() {
		return queuedomain.ErrInvalidStatus
	}

	id, err := snowflake.ParseString(strings.TrimSpace(itemID))
	if err != nil || id == 0 {
		return queuedomain.ErrItemNotFound
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	item, err := s.repo.FindOne(storeCtx, &queuedomain.QueueItem{ID: id, UserID: userID})
	if err != nil {
		return err
	}
	if item == nil {
		return queuedomain.ErrItemNotFound
	}

	updates := map[string]any{"status": status}
	if status == queuedomain.StatusWatched {
		updates["watched_at"] = s.clock.Now()
	}
	return s.repo.Update(storeCtx, id.String(), updates)
}

func (s *Service) List(ctx context.Context, userID int64, status queuedomain.QueueStatus) ([]queuedomain.QueueItem, error) {
	if userID == 0 {
		return nil, queuedomain.ErrInvalidUser
	}
	if status != "" && !status.Valid() {
		return nil, queuedomain.ErrInvalidStatus
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	filter := &queuedomain.QueueItem{UserID: userID, Status: status}
	rows, err := s.repo.Find(storeCtx, filter, option.WithOrderBy("added_at DESC"))
	if err != nil {
		return nil, err
	}

	items := make([]queuedomain.QueueItem, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		items = append(items, *row)
	}
	return items, nil
}

// Stats fails soft: a store failure reads as an empty queue.
func (s *Service) Stats(ctx context.Context, userID int64) queuedomain.Stats {
	stats := queuedomain.Stats{ByType: map[string]int{}}

	items, err := s.List(ctx, userID, "")
	if err != nil {
		s.log.Warn("queue fetch failed, returning empty stats",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return stats
	}

	stats.Total = len(items)
	for _, item := range items {
		switch item.Status {
		case queuedomain.StatusQueued:
			stats.Queued++
		case queuedomain.StatusWatching:
			stats.Watching++
		case queuedomain.StatusWatched:
			stats.Watched++
		}
		stats.ByType[item.ContentType]++
	}
	return stats
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}
