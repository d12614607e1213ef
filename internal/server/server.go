package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ZamoritaCR/neurostream/internal/behavior"
	behaviordomain "github.com/ZamoritaCR/neurostream/internal/behavior/domain"
	"github.com/ZamoritaCR/neurostream/internal/cache"
	"github.com/ZamoritaCR/neurostream/internal/config"
	"github.com/ZamoritaCR/neurostream/internal/ledger"
	ledgerdomain "github.com/ZamoritaCR/neurostream/internal/ledger/domain"
	"github.com/ZamoritaCR/neurostream/internal/mood"
	mooddomain "github.com/ZamoritaCR/neurostream/internal/mood/domain"
	obslogger "github.com/ZamoritaCR/neurostream/internal/observability/logger"
	obstracing "github.com/ZamoritaCR/neurostream/internal/observability/tracing"
	"github.com/ZamoritaCR/neurostream/internal/queue"
	queuedomain "github.com/ZamoritaCR/neurostream/internal/queue/domain"
	"github.com/ZamoritaCR/neurostream/internal/ratelimit"
	"github.com/ZamoritaCR/neurostream/internal/subscription"
	subscriptiondomain "github.com/ZamoritaCR/neurostream/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(func() cache.SubscriptionResolverCache { return cache.NewSubscriptionResolverCache() }),
	subscription.Module,
	ledger.Module,
	behavior.Module,
	mood.Module,
	queue.Module,
	ratelimit.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with recovery, request logging, and
// tracing middleware plus the unauthenticated endpoints.
func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log.Named("http")))
	r.Use(obstracing.GinMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type ServerParam struct {
	fx.In

	Engine       *gin.Engine
	Log          *zap.Logger
	Cfg          config.Config
	LedgerSvc    ledgerdomain.Service
	BehaviorSvc  behaviordomain.Service
	MoodSvc      mooddomain.Service
	QueueSvc     queuedomain.Service
	SubSvc       subscriptiondomain.Service
	TrackLimiter *ratelimit.TrackLimiter `optional:"true"`
}

type Server struct {
	engine       *gin.Engine
	log          *zap.Logger
	cfg          config.Config
	ledgersvc    ledgerdomain.Service
	behaviorsvc  behaviordomain.Service
	moodsvc      mooddomain.Service
	queuesvc     queuedomain.Service
	subsvc       subscriptiondomain.Service
	tracklimiter *ratelimit.TrackLimiter
}

func NewServer(p ServerParam) *Server {
	return &Server{
		engine:       p.Engine,
		log:          p.Log.Named("http.server"),
		cfg:          p.Cfg,
		ledgersvc:    p.LedgerSvc,
		behaviorsvc:  p.BehaviorSvc,
		moodsvc:      p.MoodSvc,
		queuesvc:     p.QueueSvc,
		subsvc:       p.SubSvc,
		tracklimiter: p.TrackLimiter,
	}
}

// RegisterRoutes mounts the session-scoped API.
func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1")
	v1.Use(SessionRequired())

	v1.GET("/subscription", s.GetSubscription)

	v1.GET("/usage/:feature", s.CheckUsage)
	v1.POST("/usage/:feature/increment", s.IncrementUsage)

	v1.POST("/behavior/events", s.TrackBehavior)
	v1.GET("/behavior/engagement", s.EngagementScore)
	v1.GET("/behavior/content-types", s.FavoriteContentTypes)
	v1.GET("/behavior/peak-hours", s.PeakUsageHours)
	v1.GET("/behavior/insights", s.BehaviorInsights)

	v1.POST("/moods", s.TrackMood)
	v1.GET("/moods/patterns", s.MoodPatterns)
	v1.GET("/moods/streak", s.MoodStreak)

	v1.POST("/queue", s.AddToQueue)
	v1.GET("/queue", s.ListQueue)
	v1.PATCH("/queue/:id/status", s.UpdateQueueStatus)
	v1.GET("/queue/stats", s.QueueStats)
}

func run(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
