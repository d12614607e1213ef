// Package migration creates the schema on startup so the service is
// usable out of the box for local and self-hosted environments.
package migration

import (
	behaviordomain "github.com/ZamoritaCR/neurostream/internal/behavior/domain"
	ledgerdomain "github.com/ZamoritaCR/neurostream/internal/ledger/domain"
	mooddomain "github.com/ZamoritaCR/neurostream/internal/mood/domain"
	queuedomain "github.com/ZamoritaCR/neurostream/internal/queue/domain"
	"github.com/ZamoritaCR/neurostream/internal/scheduler"
	subscriptiondomain "github.com/ZamoritaCR/neurostream/internal/subscription/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		return conn.AutoMigrate(
			&subscriptiondomain.Subscription{},
			&ledgerdomain.DailyUsage{},
			&behaviordomain.BehaviorEvent{},
			&mooddomain.MoodEvent{},
			&queuedomain.QueueItem{},
			&scheduler.WeeklyDigest{},
		)
	}),
)
