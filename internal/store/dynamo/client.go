package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const (
	defaultAttempts = 5
	initialBackoff  = 1 * time.Second
	maxBackoff      = 30 * time.Second
	pingTimeout     = 5 * time.Second
)

type Client struct {
	DB *dynamodb.Client
}

type Config struct {
	Region string
	// Endpoint points at DynamoDB Local; empty means AWS.
	Endpoint string
	// Static keys are only used with Endpoint. Deployed services use the default chain.
	AccessKeyID     string
	SecretAccessKey string
	Attempts        int
}

// NewClient loads AWS config, builds the client and waits until a ListTables call
// succeeds.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger) (*Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.Endpoint != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(orLocal(cfg.AccessKeyID), orLocal(cfg.SecretAccessKey), ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	c := &Client{DB: dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})}

	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	err = withBackoff(ctx, log, attempts, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return c.Ping(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb ping: %w", err)
	}
	return c, nil
}

func orLocal(s string) string {
	if s == "" {
		return "local"
	}
	return s
}

// withBackoff retries fn with exponential backoff until it succeeds, attempts run
// out or ctx ends.
func withBackoff(ctx context.Context, log *slog.Logger, attempts int, fn func(context.Context) error) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.Warn("dynamodb not reachable, retrying", "attempt", attempt, "backoff", backoff, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}

// Ping lists at most one table.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.DB.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
	return err
}
