package sqlmigrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres returns a Runner backed by a pgx connection pool.
func Postgres(pool *pgxpool.Pool) Runner {
	return postgresRunner{pool: pool}
}

type postgresRunner struct {
	pool *pgxpool.Pool
}

func (r postgresRunner) EnsureTable(ctx context.Context) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is required")
	}
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`)
	return err
}

func (r postgresRunner) Applied(ctx context.Context, name string) (bool, error) {
	var found int
	err := r.pool.QueryRow(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = $1", name).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r postgresRunner) Apply(ctx context.Context, name string, upSQL string, appliedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Without arguments pgx uses the simple protocol, which accepts
	// multi-statement migration files.
	if _, err := tx.Exec(ctx, upSQL); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO "+migrationTable+" (name, applied_at) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING",
		name, appliedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit(ctx)
}
