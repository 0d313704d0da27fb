// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civiclens/civiclens-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API and sync
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Store: jurisdiction enumeration (data-driven, not hard-coded)
		"list_legislatures": fmt.Sprintf(
			"SELECT code FROM %s ORDER BY code", config.LegislaturesTable),

		// Store: legislators
		"list_legislators": fmt.Sprintf(
			"SELECT id, doc FROM %s WHERE legislature = $1 ORDER BY id", config.LegislatorsTable),

		// Store: legislation
		"list_bill_ids": fmt.Sprintf(
			"SELECT id FROM %s WHERE legislature = $1 ORDER BY id", config.LegislationTable),
		"list_bills": fmt.Sprintf(
			"SELECT doc FROM %s WHERE legislature = $1 ORDER BY id", config.LegislationTable),
		"get_bill": fmt.Sprintf(
			"SELECT doc FROM %s WHERE legislature = $1 AND id = $2", config.LegislationTable),
		"delete_bill": fmt.Sprintf(
			"DELETE FROM %s WHERE legislature = $1 AND id = $2", config.LegislationTable),

		// Store: users / admin claims
		"user_is_admin": fmt.Sprintf(
			"SELECT COALESCE((SELECT is_admin FROM %s WHERE email = $1), false)", config.UsersTable),
		"set_admin_role": fmt.Sprintf(`INSERT INTO %s (email, is_admin) VALUES ($1, $2)
			ON CONFLICT (email) DO UPDATE SET is_admin = EXCLUDED.is_admin, updated_at = NOW()`,
			config.UsersTable),
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
