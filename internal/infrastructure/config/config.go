package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,        default=8081"`
	Env        string        `env:"ENV,         default=development"`
	JWTSecret  string        `env:"JWT_SECRET"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`
	DemoMode   bool          `env:"DEMO_MODE,   default=false"`

	Upstream UpstreamConfig
	Redis    RedisConfig
	Audit    AuditConfig
}

// UpstreamConfig points the gateway at the Healthics backend.
type UpstreamConfig struct {
	BaseURL string        `env:"UPSTREAM_BASE_URL, default=http://localhost:8080/api"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT,  default=15s"`
	// DocFallback opts into the secondary document-list strategy: when the
	// per-patient endpoint 404s, fetch the full admin list and filter by
	// owner. Off unless explicitly enabled.
	DocFallback bool `env:"UPSTREAM_DOC_FALLBACK, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Development reports whether the gateway runs in development mode.
func (c *Config) Development() bool {
	return c.Env == "development"
}
