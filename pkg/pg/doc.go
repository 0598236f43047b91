// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver. It offers a thin abstraction around connection pooling,
// migrations, health checks, and common error helpers so the worker daemon
// can bootstrap a resilient database layer with a few lines of code.
//
// The API surface is intentionally small and relies on battle-tested upstream
// libraries (pgx/v5 for connectivity, goose/v3 for schema migrations), so
// callers are never locked in and can extend the behaviour where needed.
//
// # Architecture
//
// Three cooperating building blocks:
//
//   - Config – a declarative struct populated from environment variables via
//     github.com/caarlos0/env. It controls connection pool limits,
//     health-check cadence and migration paths.
//
//   - Connect – opens a *pgxpool.Pool based on Config, retrying with a growing
//     back-off until the database becomes available.
//
//   - Migrate – runs goose migrations against the same connection pool,
//     guaranteeing the schema is up to date before the poll loop starts
//     claiming jobs.
//
// # Usage
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    panic(err)
//	}
//
//	ctx := context.Background()
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    panic(err)
//	}
//
//	// expose readiness endpoint
//	ready := pg.Healthcheck(pool)
//
// # Error Handling
//
// Helpers such as [pg.IsNotFoundError] and [pg.IsDuplicateKeyError] unwrap
// errors returned by pgx / *pgconn.PgError and make error classification
// trivial inside business logic.
package pg
