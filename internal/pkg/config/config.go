package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSeedPassword = "Admin123!"
	defaultSeedKey      = "BLOG_ADMIN_KEY_2024"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	JWTSecret       string        `env:"JWT_SECRET"`
	SessionDuration time.Duration `env:"SESSION_DURATION, default=2h"`
	BcryptCost      int           `env:"BCRYPT_COST,      default=10"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	AuditWorkers    int           `env:"AUDIT_WORKERS,    default=4"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Seed      SeedConfig
	Analytics AnalyticsConfig
}

// MongoConfig: an empty URI keeps the user registry and audit log in memory.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=blog_admin"`
}

// RedisConfig: an empty address keeps the session slot and cache in memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// PostgresConfig: an empty URL disables the user_roles mirror.
type PostgresConfig struct {
	URL      string `env:"POSTGRES_URL"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS, default=4"`
}

// SeedConfig describes the admin created on first run and its credentials.
// File optionally points at a JSON list of further accounts.
type SeedConfig struct {
	Email    string `env:"ADMIN_SEED_EMAIL,    default=admin@blog.com"`
	Name     string `env:"ADMIN_SEED_NAME,     default=Blog Admin"`
	Role     string `env:"ADMIN_SEED_ROLE,     default=admin"`
	Password string `env:"ADMIN_SEED_PASSWORD, default=Admin123!"`
	AdminKey string `env:"ADMIN_SEED_KEY,      default=BLOG_ADMIN_KEY_2024"`
	File     string `env:"ADMIN_SEED_FILE"`
}

type AnalyticsConfig struct {
	// Providers lists provider names in probe order. Empty means every configured provider.
	Providers    []string      `env:"ANALYTICS_PROVIDERS"`
	ProbeTimeout time.Duration `env:"ANALYTICS_PROBE_TIMEOUT, default=3s"`
	CacheTTL     time.Duration `env:"ANALYTICS_CACHE_TTL,     default=5m"`

	Plausible ProviderConfig `env:", prefix=PLAUSIBLE_"`
	Umami     ProviderConfig `env:", prefix=UMAMI_"`
}

type ProviderConfig struct {
	URL    string `env:"URL"`
	APIKey string `env:"API_KEY"`
	SiteID string `env:"SITE_ID"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Analytics.Plausible.URL == "" {
		cfg.Analytics.Plausible.URL = "https://plausible.io"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.IsProduction() && c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.SessionDuration <= 0 {
		errs = append(errs, errors.New("SESSION_DURATION must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	for _, name := range c.Analytics.Providers {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "plausible", "umami":
		default:
			errs = append(errs, fmt.Errorf("ANALYTICS_PROVIDERS: unknown provider %q", name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// UsesDefaultSeedSecrets reports whether the seed admin still has the
// published default password or admin key.
func (c *Config) UsesDefaultSeedSecrets() bool {
	return c.Seed.Password == defaultSeedPassword || c.Seed.AdminKey == defaultSeedKey
}
