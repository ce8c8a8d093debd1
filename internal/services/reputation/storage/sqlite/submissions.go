package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

// RecordFactionSubmission claims the submission and stores the ledger entry.
func (s *Store) RecordFactionSubmission(ctx context.Context, sub storage.FactionSubmission) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(sub.ID) == "" {
		return fmt.Errorf("faction submission id is required")
	}
	if strings.TrimSpace(sub.SubmissionID) == "" {
		return fmt.Errorf("submission id is required")
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := claimSubmission(ctx, tx, storage.SubmissionUsage{
			SubmissionID: sub.SubmissionID,
			TrainerID:    sub.TrainerID,
			FactionID:    sub.FactionID,
			Activity:     storage.ActivityFactionSubmission,
			ReferenceID:  sub.ID,
			CreatedAt:    sub.CreatedAt,
		}); err != nil {
			return err
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO faction_submissions (
			   id, trainer_id, faction_id, submission_id, prompt_id,
			   trainer_status, task_size, special_bonus, base_score, final_score, created_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sub.ID,
			sub.TrainerID,
			sub.FactionID,
			sub.SubmissionID,
			sub.PromptID,
			sub.TrainerStatus,
			sub.TaskSize,
			sub.SpecialBonus,
			sub.BaseScore,
			sub.FinalScore,
			toMillis(sub.CreatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrSubmissionAlreadyUsed
			}
			return fmt.Errorf("record faction submission: %w", err)
		}
		return nil
	})
}

// RevertFactionSubmission deletes a ledger entry and releases its claim.
func (s *Store) RevertFactionSubmission(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("faction submission id is required")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var submissionID string
		err := tx.QueryRowContext(ctx, `SELECT submission_id FROM faction_submissions WHERE id = ?`, id).Scan(&submissionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("revert faction submission: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM faction_submissions WHERE id = ?`, id); err != nil {
			return fmt.Errorf("revert faction submission: %w", err)
		}
		return releaseSubmission(ctx, tx, submissionID, storage.ActivityFactionSubmission, id)
	})
}

// ListFactionSubmissions returns a trainer's scored submissions, newest first.
func (s *Store) ListFactionSubmissions(ctx context.Context, trainerID, factionID string) ([]storage.FactionSubmission, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	trainerID = strings.TrimSpace(trainerID)
	if trainerID == "" {
		return nil, fmt.Errorf("trainer id is required")
	}
	query := `SELECT id, trainer_id, faction_id, submission_id, prompt_id,
	                 trainer_status, task_size, special_bonus, base_score, final_score, created_at
	            FROM faction_submissions
	           WHERE trainer_id = ?`
	args := []any{trainerID}
	if factionID = strings.TrimSpace(factionID); factionID != "" {
		query += ` AND faction_id = ?`
		args = append(args, factionID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list faction submissions: %w", err)
	}
	defer rows.Close()

	var subs []storage.FactionSubmission
	for rows.Next() {
		var sub storage.FactionSubmission
		var createdAt int64
		if err := rows.Scan(
			&sub.ID,
			&sub.TrainerID,
			&sub.FactionID,
			&sub.SubmissionID,
			&sub.PromptID,
			&sub.TrainerStatus,
			&sub.TaskSize,
			&sub.SpecialBonus,
			&sub.BaseScore,
			&sub.FinalScore,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list faction submissions: %w", err)
		}
		sub.CreatedAt = fromMillis(createdAt)
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list faction submissions: %w", err)
	}
	return subs, nil
}

// GetSubmissionUsage returns the claim recorded for a submission.
func (s *Store) GetSubmissionUsage(ctx context.Context, submissionID string) (storage.SubmissionUsage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.SubmissionUsage{}, err
	}
	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" {
		return storage.SubmissionUsage{}, fmt.Errorf("submission id is required")
	}
	var usage storage.SubmissionUsage
	var activity string
	var createdAt int64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT submission_id, trainer_id, faction_id, activity, reference_id, created_at
		   FROM submission_usages
		  WHERE submission_id = ?`,
		submissionID,
	).Scan(&usage.SubmissionID, &usage.TrainerID, &usage.FactionID, &activity, &usage.ReferenceID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.SubmissionUsage{}, storage.ErrNotFound
		}
		return storage.SubmissionUsage{}, fmt.Errorf("get submission usage: %w", err)
	}
	usage.Activity = storage.Activity(activity)
	usage.CreatedAt = fromMillis(createdAt)
	return usage, nil
}
