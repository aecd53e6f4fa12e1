package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"

	"schemagraph/internal/config"
)

const pingTimeout = 5 * time.Second

// Connect creates a pgx pool for the configured Postgres database. The pool is returned
// even when the initial ping fails so the server can start without a database and
// report the failure per request.
func Connect(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	slog.Info("connecting to database", "target", cfg.Redacted())

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string (check your .env file): %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	prepare(ctx, cfg, pool.Ping, PoolExec(pool))

	return pool, nil
}

// OpenSQL opens a database/sql handle for the mysql or sqlite driver.
func OpenSQL(ctx context.Context, driverName string, cfg config.Database) (*sql.DB, error) {
	slog.Info("connecting to database", "target", cfg.Redacted())

	db, err := sql.Open(driverName, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driverName == "sqlite" {
		// a single connection keeps in-memory databases visible across queries
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(int(cfg.MaxConns))
		db.SetMaxIdleConns(int(cfg.MinConns))
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(1 * time.Minute)
	}

	prepare(ctx, cfg, db.PingContext, SQLExec(db))

	return db, nil
}

// prepare checks the connection and seeds the sample schema when asked to. Neither
// step fails startup: an unreachable database skips seeding and a failed seed is logged.
func prepare(ctx context.Context, cfg config.Database, ping func(context.Context) error, exec ExecFunc) {
	if !verifyConnection(ctx, ping) {
		if cfg.SeedSample {
			slog.Warn("skipping sample schema, database is unreachable")
		}
		return
	}

	if cfg.SeedSample {
		if err := SeedSampleSchema(ctx, exec); err != nil {
			slog.Warn("sample schema not applied", "error", err)
		}
	}
}

// verifyConnection logs the outcome of an initial ping and reports whether it succeeded.
func verifyConnection(ctx context.Context, ping func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		slog.Warn("starting without database, check DB_* settings", "error", err)
		return false
	}
	slog.Info("database connection established")
	return true
}
