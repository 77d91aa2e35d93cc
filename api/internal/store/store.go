package store

import (
	"context"
	"errors"

	"nutrition-tracker/api/internal/nutrition"
)

var ErrNotFound = errors.New("food log not found")

const MaxLimit = 100

// Repository persists nutrition records. Create is atomic; List returns the
// newest records first (ties by insertion order) with plain offset paging.
type Repository interface {
	Create(ctx context.Context, rec nutrition.Record) (nutrition.Record, error)
	List(ctx context.Context, skip, limit int) ([]nutrition.Record, error)
	Get(ctx context.Context, id uint) (nutrition.Record, error)
	Ping(ctx context.Context) error
}

func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}
	return skip, limit
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
