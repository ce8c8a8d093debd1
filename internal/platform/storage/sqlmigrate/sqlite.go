package sqlmigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLite returns a Runner backed by a database/sql SQLite handle.
func SQLite(db *sql.DB) Runner {
	return sqliteRunner{db: db}
}

type sqliteRunner struct {
	db *sql.DB
}

func (r sqliteRunner) EnsureTable(ctx context.Context) error {
	if r.db == nil {
		return fmt.Errorf("sql db is required")
	}
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`)
	return err
}

func (r sqliteRunner) Applied(ctx context.Context, name string) (bool, error) {
	var found int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r sqliteRunner) Apply(ctx context.Context, name string, upSQL string, appliedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upSQL); err != nil && !IsAlreadyExistsError(err) {
		return fmt.Errorf("exec: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
		name, appliedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}
