// Package pg bootstraps PostgreSQL access with the pgx/v5 driver: a retrying
// connection pool, goose migrations, a health check and error classifiers.
//
//   • Config – populated from PG_* environment variables via
//     github.com/caarlos0/env.
//   • Connect – opens a *pgxpool.Pool and pings it, retrying with a growing
//     delay while the context allows.
//   • Migrate – applies goose migrations from an embedded fs.FS, or from
//     PG_MIGRATIONS_PATH when set.
//   • Healthcheck – func(context.Context) error suitable for /healthz.
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, migrations.FS, logger); err != nil {
//		return err
//	}
//
// # Error Handling
//
// Failures are wrapped with sentinels such as ErrFailedToOpenDBConnection and
// ErrFailedToApplyMigrations. IsNotFoundError and IsCheckViolationError
// classify driver errors.
package pg
