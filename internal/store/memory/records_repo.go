package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/MrKriegler/go-renewals/internal/core"
)

// RecordRepo holds records in process memory. It backs DB_TYPE=memory and the CLI.
type RecordRepo struct {
	mu    sync.RWMutex
	items map[string]core.Record
}

func NewRecordRepo(recs ...core.Record) *RecordRepo {
	r := &RecordRepo{items: make(map[string]core.Record, len(recs))}
	for _, rec := range recs {
		r.items[rec.ID] = rec
	}
	return r
}

func (r *RecordRepo) List(_ context.Context) ([]core.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Record, 0, len(r.items))
	for _, rec := range r.items {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RecordRepo) Get(_ context.Context, id string) (core.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.items[id]
	if !ok {
		return core.Record{}, core.ErrRecordNotFound
	}
	return rec, nil
}

func (r *RecordRepo) Upsert(_ context.Context, rec core.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rec.ID] = rec
	return nil
}
