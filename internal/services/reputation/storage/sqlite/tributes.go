package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/filter"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

const tributeColumns = `id, title_id, faction_id, trainer_id, submission_id, requirements_json,
	        submission_type, submission_url, note, status, reviewer_id, reject_reason,
	        submitted_at, reviewed_at`

// CreateTribute stores a pending tribute and claims its submission.
func (s *Store) CreateTribute(ctx context.Context, tribute storage.Tribute) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(tribute.ID) == "" {
		return fmt.Errorf("tribute id is required")
	}
	if strings.TrimSpace(tribute.TrainerID) == "" || strings.TrimSpace(tribute.TitleID) == "" {
		return fmt.Errorf("trainer id and title id are required")
	}
	requirements, err := faction.EncodeRequirements(tribute.Requirements)
	if err != nil {
		return err
	}
	if tribute.SubmittedAt.IsZero() {
		tribute.SubmittedAt = s.now()
	}
	if tribute.SubmissionType == "" {
		tribute.SubmissionType = storage.DefaultSubmissionType
	}
	tribute.Status = storage.TributePending

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO tributes (
			   id, title_id, faction_id, trainer_id, submission_id, requirements_json,
			   submission_type, submission_url, note, status, submitted_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tribute.ID,
			tribute.TitleID,
			tribute.FactionID,
			tribute.TrainerID,
			tribute.SubmissionID,
			requirements,
			tribute.SubmissionType,
			tribute.SubmissionURL,
			tribute.Note,
			string(tribute.Status),
			toMillis(tribute.SubmittedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrDuplicatePendingTribute
			}
			return fmt.Errorf("create tribute: %w", err)
		}
		if tribute.SubmissionID == "" {
			return nil
		}
		return claimSubmission(ctx, tx, storage.SubmissionUsage{
			SubmissionID: tribute.SubmissionID,
			TrainerID:    tribute.TrainerID,
			FactionID:    tribute.FactionID,
			Activity:     storage.ActivityTribute,
			ReferenceID:  tribute.ID,
			CreatedAt:    tribute.SubmittedAt,
		})
	})
}

// GetTribute returns one tribute by id.
func (s *Store) GetTribute(ctx context.Context, id string) (storage.Tribute, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Tribute{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Tribute{}, fmt.Errorf("tribute id is required")
	}
	return getTribute(ctx, s.sqlDB, id)
}

func getTribute(ctx context.Context, q queryer, id string) (storage.Tribute, error) {
	row := q.QueryRowContext(ctx, `SELECT `+tributeColumns+` FROM tributes WHERE id = ?`, id)
	tribute, err := scanTribute(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Tribute{}, storage.ErrNotFound
		}
		return storage.Tribute{}, fmt.Errorf("get tribute: %w", err)
	}
	return tribute, nil
}

// ReviewTribute moves a pending tribute to approved or rejected.
func (s *Store) ReviewTribute(ctx context.Context, review storage.TributeReview) (storage.Tribute, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Tribute{}, err
	}
	review.TributeID = strings.TrimSpace(review.TributeID)
	if review.TributeID == "" {
		return storage.Tribute{}, fmt.Errorf("tribute id is required")
	}
	if review.Status != storage.TributeApproved && review.Status != storage.TributeRejected {
		return storage.Tribute{}, fmt.Errorf("review status %q is not terminal", review.Status)
	}
	if review.ReviewedAt.IsZero() {
		review.ReviewedAt = s.now()
	}

	var reviewed storage.Tribute
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(
			ctx,
			`UPDATE tributes
			    SET status = ?, reviewer_id = ?, reject_reason = ?, reviewed_at = ?
			  WHERE id = ? AND status = 'pending'`,
			string(review.Status),
			review.ReviewerID,
			review.Reason,
			toMillis(review.ReviewedAt),
			review.TributeID,
		)
		if err != nil {
			return fmt.Errorf("review tribute: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("review tribute: %w", err)
		}
		if affected == 0 {
			if _, err := getTribute(ctx, tx, review.TributeID); err != nil {
				return err
			}
			return storage.ErrTributeNotPending
		}

		reviewed, err = getTribute(ctx, tx, review.TributeID)
		if err != nil {
			return err
		}
		if review.Status == storage.TributeRejected {
			return releaseSubmission(ctx, tx, reviewed.SubmissionID, storage.ActivityTribute, reviewed.ID)
		}
		return nil
	})
	if err != nil {
		return storage.Tribute{}, err
	}
	return reviewed, nil
}

// ReopenTribute returns an approved tribute to pending.
func (s *Store) ReopenTribute(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE tributes
		    SET status = 'pending', reviewer_id = '', reviewed_at = 0
		  WHERE id = ? AND status = 'approved'`,
		strings.TrimSpace(id),
	)
	if err != nil {
		return fmt.Errorf("reopen tribute: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reopen tribute: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ApprovedTitleIDs lists the titles a trainer unlocked through tribute.
func (s *Store) ApprovedTitleIDs(ctx context.Context, trainerID, factionID string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return approvedTitleIDs(ctx, s.sqlDB, strings.TrimSpace(trainerID), strings.TrimSpace(factionID))
}

func approvedTitleIDs(ctx context.Context, q queryer, trainerID, factionID string) ([]string, error) {
	rows, err := q.QueryContext(
		ctx,
		`SELECT DISTINCT title_id
		   FROM tributes
		  WHERE trainer_id = ? AND faction_id = ? AND status = 'approved'
		  ORDER BY title_id ASC`,
		trainerID, factionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list approved titles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list approved titles: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list approved titles: %w", err)
	}
	return ids, nil
}

// LatestTributes returns the newest tribute per title for a trainer.
func (s *Store) LatestTributes(ctx context.Context, trainerID, factionID string) (map[string]storage.Tribute, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+tributeColumns+`
		   FROM tributes
		  WHERE trainer_id = ? AND faction_id = ?
		  ORDER BY submitted_at ASC, id ASC`,
		strings.TrimSpace(trainerID), strings.TrimSpace(factionID),
	)
	if err != nil {
		return nil, fmt.Errorf("list latest tributes: %w", err)
	}
	defer rows.Close()

	latest := make(map[string]storage.Tribute)
	for rows.Next() {
		tribute, err := scanTribute(rows)
		if err != nil {
			return nil, fmt.Errorf("list latest tributes: %w", err)
		}
		latest[tribute.TitleID] = tribute
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list latest tributes: %w", err)
	}
	return latest, nil
}

// ListTributes returns one page of tributes ordered by submission time.
func (s *Store) ListTributes(ctx context.Context, cond filter.Condition, pageSize int, pageToken string) (storage.TributePage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.TributePage{}, err
	}
	if pageSize <= 0 {
		return storage.TributePage{}, fmt.Errorf("page size must be greater than zero")
	}
	cursor, err := storage.DecodeTributeCursor(pageToken)
	if err != nil {
		return storage.TributePage{}, err
	}
	if cursor.ID != "" {
		cond = cond.And(filter.Condition{
			Clause: "(submitted_at > ? OR (submitted_at = ? AND id > ?))",
			Params: []any{cursor.SubmittedAt, cursor.SubmittedAt, cursor.ID},
		})
	}

	query := `SELECT ` + tributeColumns + ` FROM tributes`
	args := append([]any(nil), cond.Params...)
	if !cond.Empty() {
		query += ` WHERE ` + cond.Clause
	}
	query += ` ORDER BY submitted_at ASC, id ASC LIMIT ?`
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.TributePage{}, fmt.Errorf("list tributes: %w", err)
	}
	defer rows.Close()

	page := storage.TributePage{Tributes: make([]storage.Tribute, 0, pageSize)}
	for rows.Next() {
		tribute, err := scanTribute(rows)
		if err != nil {
			return storage.TributePage{}, fmt.Errorf("list tributes: %w", err)
		}
		page.Tributes = append(page.Tributes, tribute)
	}
	if err := rows.Err(); err != nil {
		return storage.TributePage{}, fmt.Errorf("list tributes: %w", err)
	}
	if len(page.Tributes) > pageSize {
		page.Tributes = page.Tributes[:pageSize]
		page.NextPageToken = storage.EncodeTributeCursor(page.Tributes[pageSize-1])
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTribute(row rowScanner) (storage.Tribute, error) {
	var tribute storage.Tribute
	var requirements, status string
	var submittedAt, reviewedAt int64
	if err := row.Scan(
		&tribute.ID,
		&tribute.TitleID,
		&tribute.FactionID,
		&tribute.TrainerID,
		&tribute.SubmissionID,
		&requirements,
		&tribute.SubmissionType,
		&tribute.SubmissionURL,
		&tribute.Note,
		&status,
		&tribute.ReviewerID,
		&tribute.RejectReason,
		&submittedAt,
		&reviewedAt,
	); err != nil {
		return storage.Tribute{}, err
	}
	reqs, err := faction.DecodeRequirements(requirements)
	if err != nil {
		return storage.Tribute{}, err
	}
	tribute.Requirements = reqs
	tribute.Status = storage.TributeStatus(status)
	tribute.SubmittedAt = fromMillis(submittedAt)
	if reviewedAt != 0 {
		tribute.ReviewedAt = fromMillis(reviewedAt)
	}
	return tribute, nil
}
