package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/ZamoritaCR/neurostream/internal/cache"
	subscriptiondomain "github.com/ZamoritaCR/neurostream/internal/subscription/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func setupSubscriptionService(t *testing.T) (subscriptiondomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if err := db.AutoMigrate(&subscriptiondomain.Subscription{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	service := NewService(ServiceParam{
		DB:            db,
		Log:           zap.NewNop(),
		ResolverCache: cache.NewSubscriptionResolverCache(),
	})
	return service, db
}

func seedSubscription(t *testing.T, db *gorm.DB, node *snowflake.Node, userID int64, plan subscriptiondomain.PlanType, status subscriptiondomain.SubscriptionStatus) {
	t.Helper()
	sub := subscriptiondomain.Subscription{
		ID:       node.Generate(),
		UserID:   userID,
		PlanType: plan,
		Status:   status,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
}

func TestGetByUserID(t *testing.T) {
	service, db := setupSubscriptionService(t)
	node := mustNode(t)
	seedSubscription(t, db, node, 42, subscriptiondomain.PlanPremium, subscriptiondomain.SubscriptionStatusActive)

	sub, err := service.GetByUserID(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sub.PlanType != subscriptiondomain.PlanPremium {
		t.Fatalf("expected premium plan, got %s", sub.PlanType)
	}

	if _, err := service.GetByUserID(context.Background(), 99); err != subscriptiondomain.ErrSubscriptionNotFound {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
	if _, err := service.GetByUserID(context.Background(), 0); err != subscriptiondomain.ErrInvalidUser {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
}

func TestIsPremiumRequiresActivePlan(t *testing.T) {
	service, db := setupSubscriptionService(t)
	node := mustNode(t)

	seedSubscription(t, db, node, 1, subscriptiondomain.PlanPremium, subscriptiondomain.SubscriptionStatusActive)
	seedSubscription(t, db, node, 2, subscriptiondomain.PlanPremium, subscriptiondomain.SubscriptionStatusCanceled)
	seedSubscription(t, db, node, 3, subscriptiondomain.PlanFree, subscriptiondomain.SubscriptionStatusActive)

	ctx := context.Background()
	if !service.IsPremium(ctx, 1) {
		t.Fatal("active premium should be premium")
	}
	if service.IsPremium(ctx, 2) {
		t.Fatal("canceled premium must be metered as free")
	}
	if service.IsPremium(ctx, 3) {
		t.Fatal("free plan is never premium")
	}
	if service.IsPremium(ctx, 99) {
		t.Fatal("missing subscription must be metered as free")
	}
}

func TestIsPremiumFailsSoftOnStoreError(t *testing.T) {
	service, db := setupSubscriptionService(t)

	if err := db.Migrator().DropTable(&subscriptiondomain.Subscription{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	if service.IsPremium(context.Background(), 42) {
		t.Fatal("store failure must degrade to free tier")
	}
}

func TestGetByUserIDServesFromCache(t *testing.T) {
	service, db := setupSubscriptionService(t)
	node := mustNode(t)
	seedSubscription(t, db, node, 42, subscriptiondomain.PlanPremium, subscriptiondomain.SubscriptionStatusActive)

	if _, err := service.GetByUserID(context.Background(), 42); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	// The row is gone but the resolver cache still answers.
	if err := db.Where("user_id = ?", 42).Delete(&subscriptiondomain.Subscription{}).Error; err != nil {
		t.Fatalf("delete: %v", err)
	}

	sub, err := service.GetByUserID(context.Background(), 42)
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if !sub.IsActivePremium() {
		t.Fatal("expected cached premium subscription")
	}
}
