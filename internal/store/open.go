// Package store selects and connects the record and override backends from config.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrKriegler/go-renewals/internal/core"
	"github.com/MrKriegler/go-renewals/internal/http/health"
	"github.com/MrKriegler/go-renewals/internal/platform/config"
	"github.com/MrKriegler/go-renewals/internal/seed"
	"github.com/MrKriegler/go-renewals/internal/store/dynamo"
	"github.com/MrKriegler/go-renewals/internal/store/memory"
	"github.com/MrKriegler/go-renewals/internal/store/mongo"
	"github.com/MrKriegler/go-renewals/internal/store/redis"
)

// Stores is the set of opened backends.
type Stores struct {
	Records   core.RecordRepo
	Overrides core.OverrideStore
	// Redis is set when overrides or rate limiting use it.
	Redis *redis.Client
	// Checks feeds /readyz, keyed by dependency name.
	Checks map[string]health.Pinger

	closers []func(context.Context) error
}

// Close releases every connection opened by Open.
func (s *Stores) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i](ctx)
	}
}

// Open connects the record store named by DB_TYPE and the override store named by
// OVERRIDE_STORE. The memory record store starts with the demo book loaded.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Stores, error) {
	s := &Stores{Checks: map[string]health.Pinger{}}

	switch cfg.DBType {
	case "memory":
		log.Info("using in-memory record store with demo data")
		s.Records = memory.NewRecordRepo(seed.DemoRecords(time.Now())...)
		s.Overrides = core.NewMemoryOverrideStore()

	case "mongo":
		log.Info("connecting to MongoDB", "db", cfg.MongoDB)
		client, err := mongo.NewClient(ctx, mongo.Config{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDB,
			ConnectTimeout: time.Duration(cfg.MongoConnectTimeoutSec) * time.Second,
		}, log)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		if err := mongo.EnsureIndexes(ctx, client.DB); err != nil {
			s.Close(ctx)
			return nil, err
		}
		opTimeout := time.Duration(cfg.MongoOpTimeoutMs) * time.Millisecond
		s.Records = mongo.NewRecordRepo(client.DB, opTimeout)
		s.Overrides = mongo.NewOverrideStore(client.DB, opTimeout)
		s.Checks["mongo"] = client

	case "dynamodb":
		log.Info("connecting to DynamoDB", "region", cfg.AWSRegion, "endpoint", cfg.DynamoDBEndpoint)
		client, err := dynamo.NewClient(ctx, dynamo.Config{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoDBEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}, log)
		if err != nil {
			return nil, err
		}
		if err := dynamo.EnsureTables(ctx, client.DB, log); err != nil {
			return nil, err
		}
		s.Records = dynamo.NewRecordRepo(client.DB)
		s.Overrides = dynamo.NewOverrideStore(client.DB)
		s.Checks["dynamodb"] = client

	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}

	if cfg.OverrideStore == "redis" || cfg.RateLimitStore == "redis" {
		log.Info("connecting to Redis", "addr", cfg.RedisAddr)
		client, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return client.Close() })
		s.Redis = client
		s.Checks["redis"] = client
	}

	switch cfg.OverrideStore {
	case "same":
	case "memory":
		s.Overrides = core.NewMemoryOverrideStore()
	case "redis":
		s.Overrides = redis.NewOverrideStore(s.Redis.RDB, redis.DefaultOverridesKey)
	default:
		s.Close(ctx)
		return nil, fmt.Errorf("unsupported OVERRIDE_STORE %q", cfg.OverrideStore)
	}

	return s, nil
}
