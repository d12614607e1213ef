// Package repository exposes a minimal generic store over gorm: equality
// filters, timestamp range, order-by, limit, insert, update, delete.
package repository

import (
	"context"

	"github.com/ZamoritaCR/neurostream/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is the query surface domain services depend on.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID string, resource any) error
	Delete(ctx context.Context, resourceID string) error
	Count(ctx context.Context, query *T) (int64, error)
}
