// Command server runs the TOTP enrollment service over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/totpauth/db/migrations"
	"github.com/dmitrymomot/totpauth/modules/totpauth"
	"github.com/dmitrymomot/totpauth/pkg/clientip"
	"github.com/dmitrymomot/totpauth/pkg/config"
	"github.com/dmitrymomot/totpauth/pkg/email"
	"github.com/dmitrymomot/totpauth/pkg/environment"
	"github.com/dmitrymomot/totpauth/pkg/httpserver"
	"github.com/dmitrymomot/totpauth/pkg/jwt"
	"github.com/dmitrymomot/totpauth/pkg/logger"
	"github.com/dmitrymomot/totpauth/pkg/pg"
	"github.com/dmitrymomot/totpauth/pkg/ratelimiter"
	"github.com/dmitrymomot/totpauth/pkg/redis"
	"github.com/dmitrymomot/totpauth/pkg/requestid"
	"github.com/dmitrymomot/totpauth/pkg/totp"
	"github.com/dmitrymomot/totpauth/svc/enrollment"
	"github.com/dmitrymomot/totpauth/svc/enrollment/gormstore"
	"github.com/dmitrymomot/totpauth/svc/enrollment/pgstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg    appConfig
		totpCfg   totp.Config
		httpCfg   httpserver.Config
		limitCfg  ratelimiter.Config
		emailCfg  email.Config
		tokenCfg  jwt.Config
		moduleCfg totpauth.Config
	)
	if err := errors.Join(
		config.Load(&appCfg),
		config.Load(&totpCfg),
		config.Load(&httpCfg),
		config.Load(&limitCfg),
		config.Load(&emailCfg),
		config.Load(&tokenCfg),
		config.Load(&moduleCfg),
	); err != nil {
		return err
	}

	env := environment.Parse(appCfg.Env)
	log := logger.New(
		logger.WithEnvironment(env.String(), appCfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	var sealer *totp.Sealer
	if totpCfg.SealingEnabled() {
		s, err := totp.NewSealerFromConfig(totpCfg)
		if err != nil {
			return err
		}
		sealer = s
	} else if env.IsProduction() {
		log.Warn("TOTP_ENCRYPTION_KEY is not set, secrets are stored unsealed")
	}

	store, storeCheck, closeStore, err := openStore(ctx, appCfg, sealer, log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc, err := enrollment.NewService(totpCfg, store, enrollment.WithQRSize(appCfg.QRSize))
	if err != nil {
		return err
	}

	limiter, limiterChecks, closeLimiter, err := openLimiter(ctx, limitCfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	var tokens *jwt.Service
	if tokenCfg.Secret != "" {
		if tokens, err = jwt.New(tokenCfg); err != nil {
			return err
		}
	}
	if tokens == nil && moduleCfg.StaticAPIKey == "" {
		log.Warn("no caller authentication configured, every request will be rejected")
	}

	sender, err := email.NewSender(emailCfg)
	if err != nil {
		return err
	}
	if !emailCfg.Enabled() {
		log.Info("postmark is not configured, emails are written to disk", slog.String("dir", emailCfg.DevDir))
	}

	module := totpauth.New(svc, totpauth.NewAuthenticator(tokens, moduleCfg.StaticAPIKey),
		totpauth.WithLogger(log),
		totpauth.WithRateLimiter(limiter),
		totpauth.WithEmail(sender, emailCfg.TemplatesDir),
	)

	checks := append([]httpserver.Check{{Name: "store", Fn: storeCheck}}, limiterChecks...)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)

	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, checks...))
	r.Handle("/metrics", promhttp.Handler())
	r.Mount(appCfg.MountPath, module.Handle())

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("totp module mounted",
				slog.String("path", appCfg.MountPath),
				slog.String("store", appCfg.StoreDriver),
				slog.String("rate_limit_store", limitCfg.Store),
				slog.Bool("sealing", sealer != nil),
			)
		}),
	)
	return srv.Run(ctx, r)
}

// openStore builds the enrollment store selected by STORE_DRIVER together
// with its readiness probe and a release func.
func openStore(ctx context.Context, cfg appConfig, sealer *totp.Sealer, log *slog.Logger) (enrollment.Store, func(context.Context) error, func(), error) {
	switch cfg.StoreDriver {
	case driverPostgres:
		var pgCfg pg.Config
		if err := config.Parse(&pgCfg); err != nil {
			return nil, nil, nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := pg.Migrate(ctx, pool, pgCfg, migrations.FS, log); err != nil {
				pool.Close()
				return nil, nil, nil, err
			}
		}
		return pgstore.New(pool, pgstore.WithSealer(sealer)), pg.Healthcheck(pool), pool.Close, nil

	case driverSQLite:
		db, err := gormstore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		// Open migrates the clients table itself.
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		store := gormstore.New(db, gormstore.WithSealer(sealer))
		return store, store.Ping, closeDB, nil

	case driverMemory, "":
		if len(cfg.SeedClients) == 0 {
			log.Warn("memory store has no known clients, set SEED_CLIENTS")
		}
		ping := func(context.Context) error { return nil }
		return enrollment.NewMemoryStore(cfg.SeedClients...), ping, func() {}, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

// openLimiter builds the token bucket selected by RATE_LIMIT_STORE.
func openLimiter(ctx context.Context, cfg ratelimiter.Config) (ratelimiter.RateLimiter, []httpserver.Check, func(), error) {
	switch cfg.Store {
	case limiterRedis:
		var redisCfg redis.Config
		if err := config.Parse(&redisCfg); err != nil {
			return nil, nil, nil, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		bucket, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix(cfg.KeyPrefix)), cfg)
		if err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		checks := []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}}
		return bucket, checks, func() { _ = client.Close() }, nil

	case limiterMemory, "":
		store := ratelimiter.NewMemoryStore()
		bucket, err := ratelimiter.NewBucket(store, cfg)
		if err != nil {
			store.Close()
			return nil, nil, nil, err
		}
		return bucket, nil, store.Close, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown RATE_LIMIT_STORE %q", cfg.Store)
}
