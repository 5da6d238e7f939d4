package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=5000"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	TrustProxy      bool          `env:"TRUST_PROXY,      default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	JWT       JWTConfig `env:", prefix=JWT_"`
	CORS      CORSConfig
	Mongo     MongoConfig     `env:", prefix=MONGO_"`
	Ready     ReadyConfig     `env:", prefix=READY_"`
	Redis     RedisConfig     `env:", prefix=REDIS_"`
	RateLimit RateLimitConfig `env:", prefix=RATE_LIMIT_"`
}

type JWTConfig struct {
	Secret string        `env:"SECRET, required"`
	TTL    time.Duration `env:"TTL,    default=24h"`
	Issuer string        `env:"ISSUER, default=catalog-api"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`
	TrustedDomain  string   `env:"CORS_TRUSTED_DOMAIN"`
}

// MongoConfig leaves URI empty by default; the service then starts but every
// storage-backed request answers 503.
type MongoConfig struct {
	URI            string        `env:"URI"`
	Database       string        `env:"DB,              default=catalog"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT, default=10s"`
	QueryTimeout   time.Duration `env:"QUERY_TIMEOUT,   default=5s"`
}

type ReadyConfig struct {
	PollInterval time.Duration `env:"POLL_INTERVAL, default=500ms"`
	MaxAttempts  int           `env:"MAX_ATTEMPTS,  default=10"`
}

// RedisConfig selects the shared rate-limit store. An empty Addr keeps
// counters in process memory.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB, default=0"`
}

type RateLimitConfig struct {
	General      RuleConfig `env:", prefix=GENERAL_"`
	Auth         RuleConfig `env:", prefix=AUTH_"`
	ProductWrite RuleConfig `env:", prefix=PRODUCT_WRITE_"`
}

// RuleConfig values are pre-seeded per rule by defaults and only replaced
// when the variable is present.
type RuleConfig struct {
	Limit  int           `env:"LIMIT, overwrite"`
	Window time.Duration `env:"WINDOW, overwrite"`
}

func defaults() Config {
	return Config{
		RateLimit: RateLimitConfig{
			General:      RuleConfig{Limit: 100, Window: 15 * time.Minute},
			Auth:         RuleConfig{Limit: 10, Window: 15 * time.Minute},
			ProductWrite: RuleConfig{Limit: 30, Window: 15 * time.Minute},
		},
	}
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	cfg := defaults()
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

func (c *Config) validate() error {
	var errs []error
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Ready.PollInterval <= 0 || c.Ready.MaxAttempts <= 0 {
		errs = append(errs, errors.New("READY_POLL_INTERVAL and READY_MAX_ATTEMPTS must be positive"))
	}
	if c.Mongo.QueryTimeout <= 0 {
		errs = append(errs, errors.New("MONGO_QUERY_TIMEOUT must be positive"))
	}
	for name, r := range map[string]RuleConfig{
		"GENERAL":       c.RateLimit.General,
		"AUTH":          c.RateLimit.Auth,
		"PRODUCT_WRITE": c.RateLimit.ProductWrite,
	} {
		if r.Limit < 0 || r.Window < 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_%s_* must not be negative", name))
		}
	}
	return errors.Join(errs...)
}
