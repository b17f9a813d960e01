package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrKriegler/go-renewals/internal/core"
)

// DefaultOverridesKey is the hash holding one JSON override per record ID.
const DefaultOverridesKey = "renewals:overrides"

// OverrideStore keeps overrides in a single Redis hash so a snapshot is one HGETALL.
type OverrideStore struct {
	rdb redis.Cmdable
	key string
}

func NewOverrideStore(rdb redis.Cmdable, key string) *OverrideStore {
	if key == "" {
		key = DefaultOverridesKey
	}
	return &OverrideStore{rdb: rdb, key: key}
}

func (s *OverrideStore) Get(ctx context.Context, recordID string) (core.ManualOverride, error) {
	raw, err := s.rdb.HGet(ctx, s.key, recordID).Result()
	if err == redis.Nil {
		return core.ManualOverride{}, core.ErrOverrideNotFound
	}
	if err != nil {
		return core.ManualOverride{}, fmt.Errorf("overrides.hget: %w", err)
	}
	return decodeOverride(raw)
}

func (s *OverrideStore) Set(ctx context.Context, o core.ManualOverride) error {
	raw, err := encodeOverride(o)
	if err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, s.key, o.RecordID, raw).Err(); err != nil {
		return fmt.Errorf("overrides.hset: %w", err)
	}
	return nil
}

func (s *OverrideStore) Delete(ctx context.Context, recordID string) error {
	n, err := s.rdb.HDel(ctx, s.key, recordID).Result()
	if err != nil {
		return fmt.Errorf("overrides.hdel: %w", err)
	}
	if n == 0 {
		return core.ErrOverrideNotFound
	}
	return nil
}

func (s *OverrideStore) Snapshot(ctx context.Context) (map[string]core.ManualOverride, error) {
	all, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("overrides.hgetall: %w", err)
	}
	out := make(map[string]core.ManualOverride, len(all))
	for id, raw := range all {
		o, err := decodeOverride(raw)
		if err != nil {
			return nil, err
		}
		o.RecordID = id
		out[id] = o
	}
	return out, nil
}

func encodeOverride(o core.ManualOverride) (string, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("overrides.marshal: %w", err)
	}
	return string(b), nil
}

func decodeOverride(raw string) (core.ManualOverride, error) {
	var o core.ManualOverride
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return core.ManualOverride{}, fmt.Errorf("overrides.unmarshal: %w", err)
	}
	return o, nil
}
