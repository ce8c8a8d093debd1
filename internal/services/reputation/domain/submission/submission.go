// Package submission scores creative submissions and applies them as
// standing events.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	apperrors "github.com/louisbranch/faction-reputation/internal/platform/errors"
	"github.com/louisbranch/faction-reputation/internal/platform/id"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/score"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit/events"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

// Reason tags standing events granted by scored submissions.
const Reason = "submission"

// Config wires a Service.
type Config struct {
	Engine      *standing.Engine
	Submissions storage.SubmissionStore
	Audit       *audit.Emitter
	// NewID generates ledger ids. Nil uses id.NewID.
	NewID func() (string, error)
}

// Service scores submissions against the faction catalog.
type Service struct {
	engine      *standing.Engine
	catalog     *faction.Catalog
	submissions storage.SubmissionStore
	audit       *audit.Emitter
	newID       func() (string, error)
}

// New builds a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("standing engine is required")
	}
	if cfg.Submissions == nil {
		return nil, fmt.Errorf("submission store is required")
	}
	newID := cfg.NewID
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		engine:      cfg.Engine,
		catalog:     cfg.Engine.Catalog(),
		submissions: cfg.Submissions,
		audit:       cfg.Audit,
		newID:       newID,
	}, nil
}

// ScoreInput is the reviewer-confirmed description of one submission.
type ScoreInput struct {
	TrainerID     string
	FactionID     string
	SubmissionID  string
	PromptID      string
	TrainerStatus string
	TaskSize      string
	SpecialBonus  bool
	// CustomScore overrides the computed score when set.
	CustomScore *int
}

// Outcome is a scored submission and the standing it produced.
type Outcome struct {
	Submission storage.FactionSubmission
	Result     standing.Result
}

// ScoreAndApply consumes submissionID, scores it and applies the final score
// to the faction. Nothing stays claimed when the origin update fails.
func (s *Service) ScoreAndApply(ctx context.Context, in ScoreInput) (Outcome, error) {
	in.TrainerID = strings.TrimSpace(in.TrainerID)
	in.FactionID = strings.TrimSpace(in.FactionID)
	in.SubmissionID = strings.TrimSpace(in.SubmissionID)
	switch {
	case in.TrainerID == "":
		return Outcome{}, apperrors.New(apperrors.CodeTrainerIDRequired, "trainer id is required")
	case in.FactionID == "":
		return Outcome{}, apperrors.New(apperrors.CodeFactionIDRequired, "faction id is required")
	case in.SubmissionID == "":
		return Outcome{}, apperrors.New(apperrors.CodeSubmissionIDRequired, "submission id is required")
	}

	projection, err := s.engine.Project(ctx, in.TrainerID, in.FactionID)
	if err != nil {
		return Outcome{}, err
	}
	scoreInput, err := s.scoreInput(in.FactionID, in)
	if err != nil {
		return Outcome{}, err
	}
	if in.PromptID != "" {
		if err := s.checkPromptUnlocked(projection, in.PromptID); err != nil {
			return Outcome{}, err
		}
	}
	result, err := score.Compute(scoreInput)
	if err != nil {
		return Outcome{}, err
	}
	if err := standing.ValidateDelta(result.Final); err != nil {
		return Outcome{}, err
	}

	ledgerID, err := s.newID()
	if err != nil {
		return Outcome{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "generate submission id", err)
	}
	sub := storage.FactionSubmission{
		ID:            ledgerID,
		TrainerID:     in.TrainerID,
		FactionID:     in.FactionID,
		SubmissionID:  in.SubmissionID,
		PromptID:      strings.TrimSpace(in.PromptID),
		TrainerStatus: string(scoreInput.TrainerStatus),
		TaskSize:      string(scoreInput.TaskSize),
		SpecialBonus:  in.SpecialBonus,
		BaseScore:     result.Base,
		FinalScore:    result.Final,
	}
	if err := s.submissions.RecordFactionSubmission(ctx, sub); err != nil {
		if errors.Is(err, storage.ErrSubmissionAlreadyUsed) {
			return Outcome{}, apperrors.WithMetadata(
				apperrors.CodeSubmissionAlreadyUsed,
				fmt.Sprintf("submission %q already used", in.SubmissionID),
				map[string]string{"SubmissionID": in.SubmissionID},
			)
		}
		return Outcome{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "record faction submission", err)
	}

	applied, err := s.engine.ApplyEvent(ctx, in.TrainerID, in.FactionID, result.Final, Reason)
	if err != nil {
		if revertErr := s.submissions.RevertFactionSubmission(context.WithoutCancel(ctx), sub.ID); revertErr != nil {
			s.compensationFailed(ctx, sub, revertErr)
		}
		return Outcome{}, err
	}
	return Outcome{Submission: sub, Result: applied}, nil
}

// PreviewInput is the score input without side effects.
type PreviewInput struct {
	FactionID     string
	PromptID      string
	TrainerStatus string
	TaskSize      string
	SpecialBonus  bool
	CustomScore   *int
}

// Preview computes the score ScoreAndApply would apply. It is read-only.
func (s *Service) Preview(in PreviewInput) (score.Result, error) {
	scoreInput, err := s.scoreInput(strings.TrimSpace(in.FactionID), ScoreInput{
		PromptID:      in.PromptID,
		TrainerStatus: in.TrainerStatus,
		TaskSize:      in.TaskSize,
		SpecialBonus:  in.SpecialBonus,
		CustomScore:   in.CustomScore,
	})
	if err != nil {
		return score.Result{}, err
	}
	return score.Compute(scoreInput)
}

// History lists a trainer's scored submissions, newest first. An empty
// factionID covers every faction.
func (s *Service) History(ctx context.Context, trainerID, factionID string) ([]storage.FactionSubmission, error) {
	trainerID = strings.TrimSpace(trainerID)
	if trainerID == "" {
		return nil, apperrors.New(apperrors.CodeTrainerIDRequired, "trainer id is required")
	}
	subs, err := s.submissions.ListFactionSubmissions(ctx, trainerID, strings.TrimSpace(factionID))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "list faction submissions", err)
	}
	return subs, nil
}

// Prompts lists a faction's active prompts. With a trainer id, prompts that
// need a title the trainer has not unlocked are left out.
func (s *Service) Prompts(ctx context.Context, factionID, trainerID string) ([]faction.Prompt, error) {
	factionID = strings.TrimSpace(factionID)
	if factionID == "" {
		return nil, apperrors.New(apperrors.CodeFactionIDRequired, "faction id is required")
	}
	if _, ok := s.catalog.Faction(factionID); !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeFactionUnknown,
			fmt.Sprintf("faction %q is not in the catalog", factionID), map[string]string{"FactionID": factionID})
	}
	var projection *standing.Projection
	if strings.TrimSpace(trainerID) != "" {
		p, err := s.engine.Project(ctx, trainerID, factionID)
		if err != nil {
			return nil, err
		}
		projection = &p
	}

	var prompts []faction.Prompt
	for _, p := range s.catalog.Prompts(factionID) {
		if !p.Active {
			continue
		}
		if projection != nil && p.RequiredTitleID != "" {
			title, ok := s.catalog.Titles().Title(p.RequiredTitleID)
			if !ok || !projection.Unlocked(title) {
				continue
			}
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

func (s *Service) scoreInput(factionID string, in ScoreInput) (score.Input, error) {
	status, err := score.ParseTrainerStatus(in.TrainerStatus)
	if err != nil {
		return score.Input{}, err
	}
	size, err := score.ParseTaskSize(in.TaskSize)
	if err != nil {
		return score.Input{}, err
	}
	out := score.Input{
		TrainerStatus: status,
		TaskSize:      size,
		SpecialBonus:  in.SpecialBonus,
		CustomScore:   in.CustomScore,
	}
	if promptID := strings.TrimSpace(in.PromptID); promptID != "" {
		prompt, err := s.prompt(factionID, promptID)
		if err != nil {
			return score.Input{}, err
		}
		out.PromptModifier = prompt.Modifier
	}
	return out, nil
}

func (s *Service) prompt(factionID, promptID string) (faction.Prompt, error) {
	prompt, ok := s.catalog.Prompt(promptID)
	if !ok || !prompt.Active || (factionID != "" && prompt.FactionID != factionID) {
		return faction.Prompt{}, apperrors.New(apperrors.CodeScorePromptUnavailable,
			fmt.Sprintf("prompt %q is not available for faction %q", promptID, factionID))
	}
	return prompt, nil
}

func (s *Service) checkPromptUnlocked(projection standing.Projection, promptID string) error {
	prompt, err := s.prompt(projection.FactionID, strings.TrimSpace(promptID))
	if err != nil {
		return err
	}
	if prompt.RequiredTitleID == "" {
		return nil
	}
	title, ok := s.catalog.Titles().Title(prompt.RequiredTitleID)
	if !ok || !projection.Unlocked(title) {
		return apperrors.New(apperrors.CodeScorePromptUnavailable,
			fmt.Sprintf("prompt %q requires title %q", prompt.ID, prompt.RequiredTitleID))
	}
	return nil
}

func (s *Service) compensationFailed(ctx context.Context, sub storage.FactionSubmission, cause error) {
	log.Printf("revert faction submission %s: %v", sub.ID, cause)
	err := s.audit.Emit(context.WithoutCancel(ctx), storage.AuditEvent{
		EventName: events.CompensationFailed,
		Severity:  string(audit.SeverityError),
		TrainerID: sub.TrainerID,
		FactionID: sub.FactionID,
		Delta:     sub.FinalScore,
		Attributes: map[string]string{
			"faction_submission_id": sub.ID,
			"submission_id":         sub.SubmissionID,
			"error":                 cause.Error(),
		},
	})
	if err != nil {
		log.Printf("audit %s: %v", events.CompensationFailed, err)
	}
}
