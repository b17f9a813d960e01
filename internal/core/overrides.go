package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ManualOverride is a broker correction to a computed score. Reason is mandatory for audit.
type ManualOverride struct {
	RecordID  string    `json:"recordId"`
	Score     int       `json:"score"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

type OverrideInput struct {
	Score     int    `json:"score"`
	Reason    string `json:"reason"`
	CreatedBy string `json:"createdBy,omitempty"`
}

func (in OverrideInput) Validate() error {
	if in.Score < 0 || in.Score > 100 {
		return ErrOverrideScoreRange
	}
	if strings.TrimSpace(in.Reason) == "" {
		return ErrOverrideReasonRequired
	}
	return nil
}

// Usable reports whether the engine may apply the override.
func (o ManualOverride) Usable() bool {
	return strings.TrimSpace(o.Reason) != ""
}

// OverrideStore is the keyed store of overrides, owned outside the engine.
// Snapshot must return a copy the caller can read without further locking.
type OverrideStore interface {
	Get(ctx context.Context, recordID string) (ManualOverride, error)
	Set(ctx context.Context, o ManualOverride) error
	Delete(ctx context.Context, recordID string) error
	Snapshot(ctx context.Context) (map[string]ManualOverride, error)
}

// MemoryOverrideStore keeps overrides for the lifetime of the process.
type MemoryOverrideStore struct {
	mu    sync.RWMutex
	items map[string]ManualOverride
}

func NewMemoryOverrideStore() *MemoryOverrideStore {
	return &MemoryOverrideStore{items: make(map[string]ManualOverride)}
}

func (s *MemoryOverrideStore) Get(_ context.Context, recordID string) (ManualOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.items[recordID]
	if !ok {
		return ManualOverride{}, ErrOverrideNotFound
	}
	return o, nil
}

func (s *MemoryOverrideStore) Set(_ context.Context, o ManualOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[o.RecordID] = o
	return nil
}

func (s *MemoryOverrideStore) Delete(_ context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[recordID]; !ok {
		return ErrOverrideNotFound
	}
	delete(s.items, recordID)
	return nil
}

func (s *MemoryOverrideStore) Snapshot(_ context.Context) (map[string]ManualOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]ManualOverride, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out, nil
}

var (
	ErrOverrideNotFound       = fmt.Errorf("%w: override not found", ErrNotFound)
	ErrOverrideReasonRequired = fmt.Errorf("%w: override reason is required", ErrValidation)
	ErrOverrideScoreRange     = fmt.Errorf("%w: override score must be between 0 and 100", ErrValidation)
)
