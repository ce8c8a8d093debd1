package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

func standingKey(trainerID, factionID string) string {
	return trainerID + "\x00" + factionID
}

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
	return getStanding(ctx, s.sqlDB, trainerID, factionID)
}

func getStanding(ctx context.Context, q queryer, trainerID, factionID string) (storage.Standing, error) {
	row := q.QueryRowContext(
		ctx,
		`SELECT value, current_title_id, created_at, updated_at
		   FROM faction_standings
		  WHERE trainer_id = ? AND faction_id = ?`,
		trainerID, factionID,
	)
	standing := storage.Standing{TrainerID: trainerID, FactionID: factionID}
	var createdAt, updatedAt int64
	err := row.Scan(&standing.Value, &standing.CurrentTitleID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return standing, nil
		}
		return storage.Standing{}, fmt.Errorf("get standing: %w", err)
	}
	standing.Persisted = true
	standing.CreatedAt = fromMillis(createdAt)
	standing.UpdatedAt = fromMillis(updatedAt)
	return standing, nil
}

// MutateStanding applies fn to the current record under the pair lock.
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

	unlock := s.locks.Lock(standingKey(trainerID, factionID))
	defer unlock()

	var before, after storage.Standing
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getStanding(ctx, tx, trainerID, factionID)
		if err != nil {
			return err
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
		now := s.now()
		next.TrainerID = trainerID
		next.FactionID = factionID
		next.CreatedAt = current.CreatedAt
		if !current.Persisted {
			next.CreatedAt = now
		}
		next.UpdatedAt = now
		next.Persisted = true

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO faction_standings (
			   trainer_id, faction_id, value, current_title_id, created_at, updated_at
			 ) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (trainer_id, faction_id) DO UPDATE SET
			   value = excluded.value,
			   current_title_id = excluded.current_title_id,
			   updated_at = excluded.updated_at`,
			trainerID,
			factionID,
			next.Value,
			next.CurrentTitleID,
			toMillis(next.CreatedAt),
			toMillis(next.UpdatedAt),
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
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT faction_id, value, current_title_id, created_at, updated_at
		   FROM faction_standings
		  WHERE trainer_id = ?
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
