package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"nutrition-tracker/api/internal/nutrition"
)

// MemoryRepo keeps records in process. Each instance is independent, so tests
// get a fresh store per run.
type MemoryRepo struct {
	mu     sync.RWMutex
	rows   []nutrition.Record
	nextID uint
	now    func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, now: time.Now}
}

func (r *MemoryRepo) Create(_ context.Context, rec nutrition.Record) (nutrition.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = r.nextID
	r.nextID++
	rec.CreatedAt = r.now().UTC()
	rec = clone(rec)
	r.rows = append(r.rows, rec)
	return clone(rec), nil
}

func (r *MemoryRepo) List(_ context.Context, skip, limit int) ([]nutrition.Record, error) {
	skip, limit = clampPage(skip, limit)
	r.mu.RLock()
	sorted := make([]nutrition.Record, len(r.rows))
	copy(sorted, r.rows)
	r.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if skip >= len(sorted) {
		return []nutrition.Record{}, nil
	}
	end := skip + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	out := make([]nutrition.Record, 0, end-skip)
	for _, rec := range sorted[skip:end] {
		out = append(out, clone(rec))
	}
	return out, nil
}

func (r *MemoryRepo) Get(_ context.Context, id uint) (nutrition.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.rows {
		if rec.ID == id {
			return clone(rec), nil
		}
	}
	return nutrition.Record{}, ErrNotFound
}

func (r *MemoryRepo) Ping(context.Context) error { return nil }

func clone(rec nutrition.Record) nutrition.Record {
	rec.Micronutrients = nutrition.Micronutrients{
		Vitamins: cloneMap(rec.Micronutrients.Vitamins),
		Minerals: cloneMap(rec.Micronutrients.Minerals),
	}
	return rec
}
