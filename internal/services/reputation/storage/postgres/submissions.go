package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

// RecordFactionSubmission claims the submission and stores the ledger entry.
func (s *Store) RecordFactionSubmission(ctx context.Context, sub storage.FactionSubmission) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(sub.ID) == "" || strings.TrimSpace(sub.SubmissionID) == "" {
		return fmt.Errorf("faction submission id and submission id are required")
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now()
	}
	return s.withTx(ctx, func(tx pgx.Tx) error {
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
		_, err := tx.Exec(
			ctx,
			`INSERT INTO faction_submissions (
			   id, trainer_id, faction_id, submission_id, prompt_id,
			   trainer_status, task_size, special_bonus, base_score, final_score, created_at
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			sub.ID, sub.TrainerID, sub.FactionID, sub.SubmissionID, sub.PromptID,
			sub.TrainerStatus, sub.TaskSize, sub.SpecialBonus, sub.BaseScore, sub.FinalScore,
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
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var submissionID string
		err := tx.QueryRow(ctx,
			`DELETE FROM faction_submissions WHERE id = $1 RETURNING submission_id`,
			strings.TrimSpace(id),
		).Scan(&submissionID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("revert faction submission: %w", err)
		}
		return releaseSubmission(ctx, tx, submissionID, storage.ActivityFactionSubmission, strings.TrimSpace(id))
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
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, trainer_id, faction_id, submission_id, prompt_id,
		        trainer_status, task_size, special_bonus, base_score, final_score, created_at
		   FROM faction_submissions
		  WHERE trainer_id = $1 AND ($2 = '' OR faction_id = $2)
		  ORDER BY created_at DESC, id DESC`,
		trainerID, strings.TrimSpace(factionID),
	)
	if err != nil {
		return nil, fmt.Errorf("list faction submissions: %w", err)
	}
	defer rows.Close()

	var subs []storage.FactionSubmission
	for rows.Next() {
		var sub storage.FactionSubmission
		var createdAt int64
		if err := rows.Scan(
			&sub.ID, &sub.TrainerID, &sub.FactionID, &sub.SubmissionID, &sub.PromptID,
			&sub.TrainerStatus, &sub.TaskSize, &sub.SpecialBonus, &sub.BaseScore, &sub.FinalScore,
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
	var usage storage.SubmissionUsage
	var activity string
	var createdAt int64
	err := s.pool.QueryRow(
		ctx,
		`SELECT submission_id, trainer_id, faction_id, activity, reference_id, created_at
		   FROM submission_usages
		  WHERE submission_id = $1`,
		strings.TrimSpace(submissionID),
	).Scan(&usage.SubmissionID, &usage.TrainerID, &usage.FactionID, &activity, &usage.ReferenceID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.SubmissionUsage{}, storage.ErrNotFound
		}
		return storage.SubmissionUsage{}, fmt.Errorf("get submission usage: %w", err)
	}
	usage.Activity = storage.Activity(activity)
	usage.CreatedAt = fromMillis(createdAt)
	return usage, nil
}
