// Package option provides composable query options for the generic repository.
package option

import (
	"time"

	"gorm.io/gorm"
)

// QueryOption mutates a gorm query before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type optionFunc func(*gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// WithOrderBy applies an ORDER BY expression.
func WithOrderBy(expr string) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if expr == "" {
			return db
		}
		return db.Order(expr)
	})
}

// WithLimit caps the number of returned rows.
func WithLimit(limit int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

// WithCreatedAfter keeps rows whose created_at is at or after t.
func WithCreatedAfter(t time.Time) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if t.IsZero() {
			return db
		}
		return db.Where("created_at >= ?", t)
	})
}
