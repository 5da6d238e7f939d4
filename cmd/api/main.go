// @title                       Catalog API
// @version                     1.0
// @description                 Product catalog with JWT authentication, rate limiting and CORS policy.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/api"
	"github.com/storefront/catalog-api/internal/api/handler"
	"github.com/storefront/catalog-api/internal/core/service"
	"github.com/storefront/catalog-api/internal/cors"
	"github.com/storefront/catalog-api/internal/infrastructure/config"
	mongodb "github.com/storefront/catalog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/storefront/catalog-api/internal/infrastructure/db/redis"
	"github.com/storefront/catalog-api/internal/ratelimit"
	"github.com/storefront/catalog-api/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic("load .env: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catalog-api",
	})
	log.Info().Str("env", cfg.Env).Msg("starting catalog api")

	// --- Storage ---
	handle := mongodb.NewHandle(mongodb.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
		QueryTimeout:   cfg.Mongo.QueryTimeout,
		PollInterval:   cfg.Ready.PollInterval,
		MaxAttempts:    cfg.Ready.MaxAttempts,
	}, log)
	productRepo := mongodb.NewProductRepository(handle)
	userRepo := mongodb.NewUserRepository(handle)

	if err := handle.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("storage not available at startup; requests will retry")
	}

	// --- Rate limiting ---
	probes := []handler.Probe{{Name: "mongodb", Ping: handle.Ping}}
	store, rdb := rateLimitStore(ctx, cfg, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		probes = append(probes, handler.Probe{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	limiterLog := logger.Component("ratelimit")
	limiters := api.Limiters{
		General:      ratelimit.New(rule("general", cfg.RateLimit.General), store, limiterLog),
		Auth:         ratelimit.New(rule("auth", cfg.RateLimit.Auth), store, limiterLog),
		ProductWrite: ratelimit.New(rule("product_write", cfg.RateLimit.ProductWrite), store, limiterLog),
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, handle, service.TokenConfig{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.TTL,
		Issuer: cfg.JWT.Issuer,
	}, logger.Component("auth"))
	productService := service.NewProductService(productRepo, handle, logger.Component("products"))

	e := api.NewRouter(api.RouterDeps{
		Logger:        logger.Component("http"),
		Products:      productService,
		Auth:          authService,
		Authenticator: authService,
		CORS:          cors.NewPolicy(cfg.CORS.AllowedOrigins, cfg.CORS.TrustedDomain),
		Limiters:      limiters,
		Probes:        probes,
		TrustProxy:    cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
		if err := handle.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("storage disconnect")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("http server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

// rateLimitStore returns the Redis store when REDIS_ADDR is set and
// reachable, otherwise a process-local store with its janitor running.
func rateLimitStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ratelimit.Store, *goredis.Client) {
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err == nil {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("rate limiting backed by redis")
			return redisdb.NewWindowStore(rdb), rdb
		}
		log.Warn().Err(err).Msg("redis unavailable; falling back to in-memory rate limiting")
	}

	mem := ratelimit.NewMemoryStore()
	mem.StartJanitor(ctx, time.Minute)
	return mem, nil
}

func rule(name string, rc config.RuleConfig) ratelimit.Rule {
	return ratelimit.Rule{Name: name, Limit: rc.Limit, Window: rc.Window}
}
