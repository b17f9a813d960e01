package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string // debug, info, warn or error; empty picks by Env

	// Record storage: "memory", "mongo" or "dynamodb"
	DBType string

	// Override storage: "same" follows DBType, or "memory" / "redis"
	OverrideStore string

	// MongoDB settings (when DBType = "mongo")
	MongoURI string
	MongoDB  string

	// DynamoDB settings (when DBType = "dynamodb")
	AWSRegion          string
	DynamoDBEndpoint   string // Optional: for local development
	AWSAccessKeyID     string // Optional: for local development
	AWSSecretAccessKey string // Optional: for local development

	// Redis settings (when OverrideStore = "redis")
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Timeouts
	HTTPReadTimeoutSec     int
	HTTPWriteTimeoutSec    int
	HTTPIdleTimeoutSec     int
	HTTPRequestTimeoutSec  int
	MongoConnectTimeoutSec int
	MongoOpTimeoutMs       int

	// Pipeline settings
	WorkerIntervalSec  int
	PipelineWindowDays int
	PipelineMode       string
	ScoringWorkers     int

	// Security settings
	APIKeys        []string // API_KEY, comma separated to allow rotation
	AllowedOrigins []string
	RateLimitRPM   int
	// RateLimitStore is "memory" (per replica) or "redis" (shared)
	RateLimitStore string
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	cfg := &Config{}

	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "dev")
	cfg.LogLevel = getEnv("LOG_LEVEL", "")
	cfg.DBType = getEnv("DB_TYPE", "memory")
	cfg.OverrideStore = getEnv("OVERRIDE_STORE", "same")

	// MongoDB settings (check both MONGODB_URI and MONGO_URI for compatibility)
	cfg.MongoURI = getEnv("MONGODB_URI", getEnv("MONGO_URI", ""))
	cfg.MongoDB = getEnv("MONGO_DB", "go_renewals")

	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", "") // Empty means use AWS
	cfg.AWSAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AWSSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = getEnvAsInt("REDIS_DB", 0)

	cfg.HTTPReadTimeoutSec = getEnvAsInt("HTTP_READ_TIMEOUT_SEC", 10)
	cfg.HTTPWriteTimeoutSec = getEnvAsInt("HTTP_WRITE_TIMEOUT_SEC", 10)
	cfg.HTTPIdleTimeoutSec = getEnvAsInt("HTTP_IDLE_TIMEOUT_SEC", 120)
	cfg.HTTPRequestTimeoutSec = getEnvAsInt("HTTP_REQUEST_TIMEOUT_SEC", 30)
	cfg.MongoConnectTimeoutSec = getEnvAsInt("MONGO_CONNECT_TIMEOUT_SEC", 5)
	cfg.MongoOpTimeoutMs = getEnvAsInt("MONGO_OP_TIMEOUT_MS", 500)

	cfg.WorkerIntervalSec = getEnvAsInt("WORKER_INTERVAL_SEC", 60)
	cfg.PipelineWindowDays = getEnvAsInt("PIPELINE_WINDOW_DAYS", 90)
	cfg.PipelineMode = getEnv("PIPELINE_MODE", "csv")
	cfg.ScoringWorkers = getEnvAsInt("SCORING_WORKERS", 1)

	cfg.APIKeys = getEnvAsSlice("API_KEY", nil)
	cfg.AllowedOrigins = getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"})
	cfg.RateLimitRPM = getEnvAsInt("RATE_LIMIT_RPM", 100)
	cfg.RateLimitStore = getEnv("RATE_LIMIT_STORE", "memory")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Default API key for development only
	if len(cfg.APIKeys) == 0 {
		cfg.APIKeys = []string{"demo-api-key-12345"}
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBType {
	case "memory", "dynamodb":
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when DB_TYPE=mongo")
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}

	switch c.OverrideStore {
	case "same", "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when OVERRIDE_STORE=redis")
		}
	default:
		return fmt.Errorf("unsupported OVERRIDE_STORE %q", c.OverrideStore)
	}

	switch c.RateLimitStore {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when RATE_LIMIT_STORE=redis")
		}
	default:
		return fmt.Errorf("unsupported RATE_LIMIT_STORE %q", c.RateLimitStore)
	}

	if c.PipelineWindowDays <= 0 {
		return fmt.Errorf("PIPELINE_WINDOW_DAYS must be positive")
	}
	if c.WorkerIntervalSec <= 0 {
		return fmt.Errorf("WORKER_INTERVAL_SEC must be positive")
	}
	if c.RateLimitRPM <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPM must be positive")
	}
	if c.PipelineMode != "csv" && c.PipelineMode != "ledger" {
		return fmt.Errorf("PIPELINE_MODE must be csv or ledger")
	}
	if c.ScoringWorkers < 1 {
		return fmt.Errorf("SCORING_WORKERS must be at least 1")
	}

	// In production, API_KEY must be explicitly set
	if c.Env == "prod" && len(c.APIKeys) == 0 {
		return fmt.Errorf("API_KEY is required in production environment")
	}
	return nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	var result []string
	for _, s := range strings.Split(valStr, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
