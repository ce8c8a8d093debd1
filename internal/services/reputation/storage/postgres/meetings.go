package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

func meetingReference(trainerID, personID string) string {
	return trainerID + "/" + personID
}

// RecordMeeting stores a meeting and claims its submission.
func (s *Store) RecordMeeting(ctx context.Context, meeting storage.Meeting) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(meeting.TrainerID) == "" || strings.TrimSpace(meeting.PersonID) == "" {
		return fmt.Errorf("trainer id and person id are required")
	}
	if strings.TrimSpace(meeting.SubmissionID) == "" {
		return fmt.Errorf("submission id is required")
	}
	if meeting.MetAt.IsZero() {
		meeting.MetAt = s.now()
	}
	return s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO person_meetings (trainer_id, person_id, faction_id, submission_id, met_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			meeting.TrainerID, meeting.PersonID, meeting.FactionID, meeting.SubmissionID, toMillis(meeting.MetAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyMet
			}
			return fmt.Errorf("record meeting: %w", err)
		}
		return claimSubmission(ctx, tx, storage.SubmissionUsage{
			SubmissionID: meeting.SubmissionID,
			TrainerID:    meeting.TrainerID,
			FactionID:    meeting.FactionID,
			Activity:     storage.ActivityMeeting,
			ReferenceID:  meetingReference(meeting.TrainerID, meeting.PersonID),
			CreatedAt:    meeting.MetAt,
		})
	})
}

// RevertMeeting deletes a meeting and releases its claim.
func (s *Store) RevertMeeting(ctx context.Context, trainerID, personID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var submissionID string
		err := tx.QueryRow(ctx,
			`DELETE FROM person_meetings WHERE trainer_id = $1 AND person_id = $2 RETURNING submission_id`,
			trainerID, personID,
		).Scan(&submissionID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("revert meeting: %w", err)
		}
		return releaseSubmission(ctx, tx, submissionID, storage.ActivityMeeting, meetingReference(trainerID, personID))
	})
}

// GetMeeting returns one meeting or ErrNotFound.
func (s *Store) GetMeeting(ctx context.Context, trainerID, personID string) (storage.Meeting, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Meeting{}, err
	}
	meeting := storage.Meeting{TrainerID: trainerID, PersonID: personID}
	var metAt int64
	err := s.pool.QueryRow(
		ctx,
		`SELECT faction_id, submission_id, met_at
		   FROM person_meetings
		  WHERE trainer_id = $1 AND person_id = $2`,
		trainerID, personID,
	).Scan(&meeting.FactionID, &meeting.SubmissionID, &metAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Meeting{}, storage.ErrNotFound
		}
		return storage.Meeting{}, fmt.Errorf("get meeting: %w", err)
	}
	meeting.MetAt = fromMillis(metAt)
	return meeting, nil
}

// ListMeetings returns a trainer's meetings in a faction, oldest first.
func (s *Store) ListMeetings(ctx context.Context, trainerID, factionID string) ([]storage.Meeting, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(
		ctx,
		`SELECT person_id, submission_id, met_at
		   FROM person_meetings
		  WHERE trainer_id = $1 AND faction_id = $2
		  ORDER BY met_at ASC, person_id ASC`,
		trainerID, factionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []storage.Meeting
	for rows.Next() {
		meeting := storage.Meeting{TrainerID: trainerID, FactionID: factionID}
		var metAt int64
		if err := rows.Scan(&meeting.PersonID, &meeting.SubmissionID, &metAt); err != nil {
			return nil, fmt.Errorf("list meetings: %w", err)
		}
		meeting.MetAt = fromMillis(metAt)
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}
