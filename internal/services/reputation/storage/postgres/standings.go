package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

// GetStanding returns the stored record or a zero default.
func (s *Store) GetStanding(ctx context.Context, trainerID, factionID string) (storage.Standing, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Standing{}, err
	}
	trainerID = strings.TrimSpace(trainerID)
	factionID = strings.TrimSpace(factionID)
	if trainerID == "" || factionID == "" {
		return storage.Standing{}, fmt.Errorf("trainer id and faction id are required")
	}
	standing, err := selectStanding(ctx, s.pool, trainerID, factionID, "")
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Standing{TrainerID: trainerID, FactionID: factionID}, nil
	}
	return standing, err
}

func selectStanding(ctx context.Context, q queryer, trainerID, factionID, lockClause string) (storage.Standing, error) {
	standing := storage.Standing{TrainerID: trainerID, FactionID: factionID, Persisted: true}
	var createdAt, updatedAt int64
	err := q.QueryRow(
		ctx,
		`SELECT value, current_title_id, created_at, updated_at
		   FROM faction_standings
		  WHERE trainer_id = $1 AND faction_id = $2`+lockClause,
		trainerID, factionID,
	).Scan(&standing.Value, &standing.CurrentTitleID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Standing{}, storage.ErrNotFound
		}
		return storage.Standing{}, fmt.Errorf("get standing: %w", err)
	}
	standing.CreatedAt = fromMillis(createdAt)
	standing.UpdatedAt = fromMillis(updatedAt)
	return standing, nil
}

// MutateStanding applies fn to the row locked with FOR UPDATE.
func (s *Store) MutateStanding(ctx context.Context, trainerID, factionID string, fn storage.MutateFunc) (storage.Standing, storage.Standing, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Standing{}, storage.Standing{}, err
	}
	trainerID = strings.TrimSpace(trainerID)
	factionID = strings.TrimSpace(factionID)
	if trainerID == "" || factionID == "" {
		return storage.Standing{}, storage.Standing{}, fmt.Errorf("trainer id and faction id are required")
	}
	if fn == nil {
		return storage.Standing{}, storage.Standing{}, fmt.Errorf("mutate func is required")
	}

	var before, after storage.Standing
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		now := s.now()
		// A placeholder row gives FOR UPDATE something to lock on first use.
		tag, err := tx.Exec(
			ctx,
			`INSERT INTO faction_standings (trainer_id, faction_id, value, current_title_id, created_at, updated_at)
			 VALUES ($1, $2, 0, '', $3, $3)
			 ON CONFLICT (trainer_id, faction_id) DO NOTHING`,
			trainerID, factionID, toMillis(now),
		)
		if err != nil {
			return fmt.Errorf("seed standing: %w", err)
		}
		created := tag.RowsAffected() == 1

		current, err := selectStanding(ctx, tx, trainerID, factionID, " FOR UPDATE")
		if err != nil {
			return err
		}
		if created {
			current.Persisted = false
		}
		before = current

		approved, err := approvedTitleIDs(ctx, tx, trainerID, factionID)
		if err != nil {
			return err
		}
		next, err := fn(current, approved)
		if err != nil {
			return err
		}
		next.TrainerID = trainerID
		next.FactionID = factionID
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = now
		next.Persisted = true

		if _, err := tx.Exec(
			ctx,
			`UPDATE faction_standings
			    SET value = $3, current_title_id = $4, updated_at = $5
			  WHERE trainer_id = $1 AND faction_id = $2`,
			trainerID, factionID, next.Value, next.CurrentTitleID, toMillis(next.UpdatedAt),
		); err != nil {
			return fmt.Errorf("put standing: %w", err)
		}
		after = next
		return nil
	})
	if err != nil {
		return before, before, err
	}
	return before, after, nil
}

// ListStandings returns every persisted standing for a trainer.
func (s *Store) ListStandings(ctx context.Context, trainerID string) ([]storage.Standing, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	trainerID = strings.TrimSpace(trainerID)
	if trainerID == "" {
		return nil, fmt.Errorf("trainer id is required")
	}
	rows, err := s.pool.Query(
		ctx,
		`SELECT faction_id, value, current_title_id, created_at, updated_at
		   FROM faction_standings
		  WHERE trainer_id = $1
		  ORDER BY faction_id ASC`,
		trainerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	defer rows.Close()

	var standings []storage.Standing
	for rows.Next() {
		standing := storage.Standing{TrainerID: trainerID, Persisted: true}
		var createdAt, updatedAt int64
		if err := rows.Scan(&standing.FactionID, &standing.Value, &standing.CurrentTitleID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("list standings: %w", err)
		}
		standing.CreatedAt = fromMillis(createdAt)
		standing.UpdatedAt = fromMillis(updatedAt)
		standings = append(standings, standing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	return standings, nil
}
