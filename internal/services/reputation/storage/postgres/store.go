// Package postgres provides a Postgres-backed reputation storage implementation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/louisbranch/faction-reputation/internal/platform/storage/sqlmigrate"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage/postgres/migrations"
)

const uniqueViolation = "23505"

// Store persists reputation state in Postgres. Standing mutations lock the
// pair's row with SELECT ... FOR UPDATE, so writers on separate processes
// serialize per (trainer, faction).
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open connects to Postgres and applies embedded migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := sqlmigrate.Apply(ctx, sqlmigrate.Postgres(pool), migrations.FS, "."); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{pool: pool, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.pool == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

type queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func claimSubmission(ctx context.Context, q queryer, usage storage.SubmissionUsage) error {
	_, err := q.Exec(
		ctx,
		`INSERT INTO submission_usages (
		   submission_id, trainer_id, faction_id, activity, reference_id, created_at
		 ) VALUES ($1, $2, $3, $4, $5, $6)`,
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
	if _, err := q.Exec(
		ctx,
		`DELETE FROM submission_usages
		  WHERE submission_id = $1 AND activity = $2 AND reference_id = $3`,
		submissionID, string(activity), referenceID,
	); err != nil {
		return fmt.Errorf("release submission: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ storage.Store = (*Store)(nil)
