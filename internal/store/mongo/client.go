package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultAttempts = 5
	initialBackoff  = 1 * time.Second
	maxBackoff      = 30 * time.Second
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	// Attempts bounds connect+ping tries; zero means defaultAttempts.
	Attempts int
}

type MongoClient struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewClient connects and pings the primary, backing off between failed attempts.
// It gives up early when ctx is cancelled.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger) (*MongoClient, error) {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("go-renewals").
		SetConnectTimeout(cfg.ConnectTimeout)

	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := connectOnce(ctx, clientOpts, cfg.ConnectTimeout)
		if err == nil {
			return &MongoClient{Client: client, DB: client.Database(cfg.Database)}, nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		log.Warn("mongo connect failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"err", err)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to mongo: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
	return nil, fmt.Errorf("connect to mongo after %d attempts: %w", attempts, lastErr)
}

func connectOnce(ctx context.Context, opts *options.ClientOptions, timeout time.Duration) (*mongo.Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}

// Ping reports whether the primary is reachable.
func (c *MongoClient) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

func (c *MongoClient) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
