package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ZamoritaCR/neurostream/pkg/db/option"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID        int64 `gorm:"primaryKey"`
	Name      string
	Kind      string
	CreatedAt time.Time
}

func setupStore(t *testing.T) (Repository[widget], *gorm.DB) {
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
	if err := db.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return ProvideStore[widget](db), db
}

func TestFindOneReturnsNilWhenMissing(t *testing.T) {
	store, _ := setupStore(t)

	found, err := store.FindOne(context.Background(), &widget{Name: "missing"})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil, got %+v", found)
	}
}

func TestCreateFindUpdateDelete(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, &widget{ID: 1, Name: "a", Kind: "x", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := store.FindOne(ctx, &widget{Name: "a"})
	if err != nil || found == nil {
		t.Fatalf("find one: %+v, %v", found, err)
	}

	if err := store.Update(ctx, "1", map[string]any{"kind": "y"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	found, err = store.FindOne(ctx, &widget{ID: 1})
	if err != nil || found == nil || found.Kind != "y" {
		t.Fatalf("expected updated kind, got %+v, %v", found, err)
	}

	if err := store.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	count, err := store.Count(ctx, &widget{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d", count)
	}
}

func TestFindAppliesOptions(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.Create(ctx, &widget{
			ID:        int64(i + 1),
			Name:      fmt.Sprintf("w%d", i),
			Kind:      "x",
			CreatedAt: base.AddDate(0, 0, i),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	rows, err := store.Find(ctx, &widget{Kind: "x"},
		option.WithCreatedAfter(base.AddDate(0, 0, 2)),
		option.WithOrderBy("created_at DESC"),
		option.WithLimit(2),
	)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "w4" || rows[1].Name != "w3" {
		t.Fatalf("unexpected order: %s, %s", rows[0].Name, rows[1].Name)
	}
}
