package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/validation"
)

const envPrefix = "EVENTMATCH"

// History backends
const (
	HistoryBackendPostgres = "postgres"
	HistoryBackendRedis    = "redis"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true" validate:"required"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"10" validate:"gte=1"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"0" validate:"gte=0"`

	DBMaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`

	HistoryBackend string `envconfig:"HISTORY_BACKEND" default:"postgres" validate:"oneof=postgres redis"`
	HistoryLimit   int    `envconfig:"HISTORY_LIMIT" default:"200" validate:"gte=1"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0" validate:"gte=0"`

	HistoryCacheTTL time.Duration `envconfig:"HISTORY_CACHE_TTL" default:"5m" validate:"gt=0"`
	AllowAnonymous  bool          `envconfig:"ALLOW_ANONYMOUS" default:"false"`

	RecommendTimeout time.Duration `envconfig:"RECOMMEND_TIMEOUT" default:"5s" validate:"gt=0"`
	ScoringWorkers   int           `envconfig:"SCORING_WORKERS" default:"8" validate:"gte=1"`

	WeightBudget          float64 `envconfig:"WEIGHT_BUDGET" default:"0.35" validate:"gte=0"`
	WeightLocation        float64 `envconfig:"WEIGHT_LOCATION" default:"0.25" validate:"gte=0"`
	WeightCapacity        float64 `envconfig:"WEIGHT_CAPACITY" default:"0.25" validate:"gte=0"`
	WeightPersonalization float64 `envconfig:"WEIGHT_PERSONALIZATION" default:"0.15" validate:"gte=0"`
	BestMatchFloor        float64 `envconfig:"BEST_MATCH_FLOOR" default:"0.8" validate:"gt=0,lte=1"`

	S3Endpoint   string        `envconfig:"S3_ENDPOINT"`
	S3AccessKey  string        `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey  string        `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket     string        `envconfig:"S3_BUCKET" default:"eventmatch-images"`
	S3Region     string        `envconfig:"S3_REGION" default:"us-east-1"`
	S3PresignTTL time.Duration `envconfig:"S3_PRESIGN_TTL" default:"15m"`

	RateLimitRequests  int           `envconfig:"RATE_LIMIT_REQUESTS" default:"60" validate:"gte=0"`
	RateLimitWindow    time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`
	SentryDSN string `envconfig:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	return cfg
}

// Validate checks value ranges envconfig cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.WeightBudget+c.WeightLocation+c.WeightCapacity+c.WeightPersonalization <= 0 {
		return fmt.Errorf("invalid config: scoring weights must not all be zero")
	}
	return nil
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) UsesRedisHistory() bool {
	return c.HistoryBackend == HistoryBackendRedis
}

func (c *Config) HasRateLimit() bool {
	return c.RateLimitRequests > 0 && c.RateLimitWindow > 0
}
