package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read once at startup. Empty infrastructure URLs select the
// in-process fallbacks (memory stores, keyed mutex, channel bus).
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   string `env:"PORT" envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopicPrefix   string   `env:"KAFKA_TOPIC_PREFIX" envDefault:"cargo"`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"cargo-tracking"`

	RoutingServiceURL string        `env:"ROUTING_SERVICE_URL"`
	RouteCacheTTL     time.Duration `env:"ROUTE_CACHE_TTL" envDefault:"10m"`

	SeedPath string `env:"SEED_PATH" envDefault:"data/seeds/reference.json"`

	LockTTL             time.Duration `env:"LOCK_TTL" envDefault:"10s"`
	ConsumerMaxReceives int           `env:"CONSUMER_MAX_RECEIVES" envDefault:"5"`
	ConsumerConcurrency int           `env:"CONSUMER_CONCURRENCY" envDefault:"4"`
	OutboxPollInterval  time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"1s"`

	OtelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("config: PORT must not be empty")
	}
	if c.ConsumerMaxReceives < 1 {
		return fmt.Errorf("config: CONSUMER_MAX_RECEIVES must be at least 1, got %d", c.ConsumerMaxReceives)
	}
	if c.ConsumerConcurrency < 1 {
		return fmt.Errorf("config: CONSUMER_CONCURRENCY must be at least 1, got %d", c.ConsumerConcurrency)
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("config: LOCK_TTL must be positive")
	}
	return nil
}

func (c *Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production") || strings.EqualFold(c.AppEnv, "prod")
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
