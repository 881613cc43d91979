package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portfolio/blog-admin/internal/api"
	"github.com/portfolio/blog-admin/internal/api/handler"
	"github.com/portfolio/blog-admin/internal/core/credentials"
	"github.com/portfolio/blog-admin/internal/core/ports"
	"github.com/portfolio/blog-admin/internal/core/service"
	"github.com/portfolio/blog-admin/internal/infrastructure/analytics"
	mongodb "github.com/portfolio/blog-admin/internal/infrastructure/db/mongo"
	"github.com/portfolio/blog-admin/internal/infrastructure/db/postgres"
	redisdb "github.com/portfolio/blog-admin/internal/infrastructure/db/redis"
	"github.com/portfolio/blog-admin/internal/infrastructure/memory"
	"github.com/portfolio/blog-admin/internal/infrastructure/queue"
	"github.com/portfolio/blog-admin/internal/pkg/config"
)

// app is the fully wired server. Close releases every backing connection.
type app struct {
	router     *echo.Echo
	dispatcher *queue.Dispatcher
	closers    []func(context.Context) error
}

func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// buildApp connects the configured backends, falling back to in-memory
// stores for any that are not configured, and seeds the registry on first run.
func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	seeds, records, err := loadSeeds(cfg.Seed)
	if err != nil {
		return nil, err
	}
	creds, err := credentials.New(records, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}
	if cfg.IsProduction() && cfg.UsesDefaultSeedSecrets() {
		log.Warn().Str("email", cfg.Seed.Email).Msg("seed admin uses the default password or admin key")
	}

	checks := map[string]handler.Check{}

	// --- User registry and audit log ---
	var (
		users     ports.UserRepository  = memory.NewUserRepository()
		auditRepo ports.AuditRepository = memory.NewAuditLog(0)
	)
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "blog-admin"})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

		repo := mongodb.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		users, auditRepo = mongodb.NewUserRepository(db), repo
		log.Info().Str("database", cfg.Mongo.Database).Msg("user registry on mongodb")
	}

	// --- Session slot and analytics cache ---
	var (
		sessions ports.SessionStore   = memory.NewSessionStore()
		cache    ports.AnalyticsCache = memory.NewCache()
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

		sessions, cache = redisdb.NewSessionStore(rdb), redisdb.NewAnalyticsCache(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session slot on redis")
	}

	// --- user_roles mirror ---
	var mirror ports.RoleMirror
	if cfg.Postgres.URL != "" {
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })
		checks["postgres"] = pool.Ping

		m := postgres.NewRoleMirror(pool)
		if err := m.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		mirror = m
	}

	// --- Services ---
	auditService := service.NewAuditService(auditRepo, log)
	a.dispatcher = queue.NewDispatcher(cfg.AuditWorkers, auditService, log)

	userService := service.NewUserService(users, mirror, a.dispatcher, log, service.WithCredentialIndex(creds))
	seeded, err := userService.Seed(ctx, seeds)
	if err != nil {
		return nil, fmt.Errorf("seed registry: %w", err)
	}
	if seeded == 0 {
		log.Debug().Msg("every seed account already registered")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		if secret, err = randomSecret(); err != nil {
			return nil, err
		}
		log.Warn().Msg("JWT_SECRET not set, tokens will not survive a restart")
	}
	authService := service.NewAuthService(users, creds, sessions, secret, log,
		service.WithSessionTTL(cfg.SessionDuration),
		service.WithAuditSink(a.dispatcher),
	)

	providers := buildProviders(cfg.Analytics)
	analyticsService := service.NewAnalyticsService(providers, cache, nil, cfg.Analytics.CacheTTL, log)

	a.router = api.NewRouter(api.Dependencies{
		Auth:      authService,
		Users:     userService,
		Analytics: analyticsService,
		Audit:     auditService,
		Checks:    checks,
		Log:       log,
	})
	return a, nil
}

// buildProviders returns the providers in probe order. Providers without
// credentials are still included; they report themselves unavailable.
func buildProviders(cfg config.AnalyticsConfig) []ports.AnalyticsProvider {
	order := cfg.Providers
	if len(order) == 0 {
		order = []string{"plausible", "umami"}
	}

	providers := make([]ports.AnalyticsProvider, 0, len(order))
	for _, name := range order {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "plausible":
			providers = append(providers, analytics.NewPlausible(providerConfig(cfg.Plausible, cfg)))
		case "umami":
			providers = append(providers, analytics.NewUmami(providerConfig(cfg.Umami, cfg)))
		}
	}
	return providers
}

func providerConfig(p config.ProviderConfig, cfg config.AnalyticsConfig) analytics.Config {
	return analytics.Config{
		BaseURL:      p.URL,
		APIKey:       p.APIKey,
		SiteID:       p.SiteID,
		ProbeTimeout: cfg.ProbeTimeout,
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
