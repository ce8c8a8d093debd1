// Package sqlite provides a SQLite-backed reputation storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/faction-reputation/internal/platform/keylock"
	"github.com/louisbranch/faction-reputation/internal/platform/storage/sqlmigrate"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists reputation state in SQLite.
//
// Writers open IMMEDIATE transactions so concurrent read-modify-write cycles
// queue on the database lock instead of failing at commit. Standing mutations
// additionally take an in-process lock per (trainer, faction).
type Store struct {
	sqlDB *sql.DB
	locks keylock.Map
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite reputation store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath +
		"?_txlock=immediate" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlmigrate.Apply(context.Background(), sqlmigrate.SQLite(sqlDB), migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTx runs fn inside a transaction and commits when it returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func claimSubmission(ctx context.Context, q queryer, usage storage.SubmissionUsage) error {
	_, err := q.ExecContext(
		ctx,
		`INSERT INTO submission_usages (
		   submission_id, trainer_id, faction_id, activity, reference_id, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?)`,
		usage.SubmissionID,
		usage.TrainerID,
		usage.FactionID,
		string(usage.Activity),
		usage.ReferenceID,
		toMillis(usage.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrSubmissionAlreadyUsed
		}
		return fmt.Errorf("claim submission: %w", err)
	}
	return nil
}

func releaseSubmission(ctx context.Context, q queryer, submissionID string, activity storage.Activity, referenceID string) error {
	if submissionID == "" {
		return nil
	}
	_, err := q.ExecContext(
		ctx,
		`DELETE FROM submission_usages
		  WHERE submission_id = ? AND activity = ? AND reference_id = ?`,
		submissionID, string(activity), referenceID,
	)
	if err != nil {
		return fmt.Errorf("release submission: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
