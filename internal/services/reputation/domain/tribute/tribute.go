// Package tribute runs the review workflow that unlocks tribute-gated titles.
//
// A tribute moves from pending to approved or rejected exactly once. Approval
// re-resolves the trainer's title through the standing engine so the unlocked
// title is granted immediately; no standing is added.
package tribute

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	apperrors "github.com/louisbranch/faction-reputation/internal/platform/errors"
	"github.com/louisbranch/faction-reputation/internal/platform/id"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/filter"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit/events"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

// Config wires a Service.
type Config struct {
	Engine   *standing.Engine
	Tributes storage.TributeStore
	Audit    *audit.Emitter
	// NewID generates tribute ids. Nil uses id.NewID.
	NewID func() (string, error)
}

// Service owns tribute submission and review.
type Service struct {
	engine   *standing.Engine
	catalog  *faction.Catalog
	tributes storage.TributeStore
	audit    *audit.Emitter
	newID    func() (string, error)
}

// New builds a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("standing engine is required")
	}
	if cfg.Tributes == nil {
		return nil, fmt.Errorf("tribute store is required")
	}
	newID := cfg.NewID
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		engine:   cfg.Engine,
		catalog:  cfg.Engine.Catalog(),
		tributes: cfg.Tributes,
		audit:    cfg.Audit,
		newID:    newID,
	}, nil
}

// SubmissionType names the kind of work offered as tribute.
type SubmissionType string

const (
	SubmissionArt     SubmissionType = "art"
	SubmissionWriting SubmissionType = "writing"
	SubmissionCraft   SubmissionType = "craft"
	SubmissionOther   SubmissionType = storage.DefaultSubmissionType
)

// ParseSubmissionType accepts a known type; empty means other.
func ParseSubmissionType(raw string) (SubmissionType, error) {
	switch value := SubmissionType(strings.ToLower(strings.TrimSpace(raw))); value {
	case "":
		return SubmissionOther, nil
	case SubmissionArt, SubmissionWriting, SubmissionCraft, SubmissionOther:
		return value, nil
	default:
		return "", apperrors.WithMetadata(
			apperrors.CodeSubmissionTypeInvalid,
			fmt.Sprintf("submission type %q is not supported", raw),
			map[string]string{"SubmissionType": raw},
		)
	}
}

// SubmitInput is a trainer's offering for one title.
type SubmitInput struct {
	TrainerID      string
	TitleID        string
	SubmissionID   string
	SubmissionType string
	SubmissionURL  string
	Note           string
}

// Submit records a pending tribute for a tribute-gated title.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (storage.Tribute, error) {
	in.TrainerID = strings.TrimSpace(in.TrainerID)
	in.TitleID = strings.TrimSpace(in.TitleID)
	in.SubmissionID = strings.TrimSpace(in.SubmissionID)
	if in.TrainerID == "" {
		return storage.Tribute{}, apperrors.New(apperrors.CodeTrainerIDRequired, "trainer id is required")
	}
	if in.TitleID == "" {
		return storage.Tribute{}, apperrors.New(apperrors.CodeTitleIDRequired, "title id is required")
	}
	title, ok := s.catalog.Titles().Title(in.TitleID)
	if !ok {
		return storage.Tribute{}, apperrors.New(apperrors.CodeTitleUnknown, fmt.Sprintf("title %q is not in the catalog", in.TitleID))
	}
	if !title.RequiresTribute {
		return storage.Tribute{}, apperrors.WithMetadata(
			apperrors.CodeTitleNotTributeGated,
			fmt.Sprintf("title %q does not require tribute", in.TitleID),
			map[string]string{"TitleName": title.Name},
		)
	}
	submissionType, err := ParseSubmissionType(in.SubmissionType)
	if err != nil {
		return storage.Tribute{}, err
	}
	approved, err := s.tributes.ApprovedTitleIDs(ctx, in.TrainerID, title.FactionID)
	if err != nil {
		return storage.Tribute{}, storageError("list approved titles", err)
	}
	if faction.NewApprovedTitles(approved...).Has(title.ID) {
		return storage.Tribute{}, apperrors.WithMetadata(
			apperrors.CodeTributeAlreadyApproved,
			fmt.Sprintf("title %q already has an approved tribute", title.ID),
			map[string]string{"TitleName": title.Name},
		)
	}

	tributeID, err := s.newID()
	if err != nil {
		return storage.Tribute{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "generate tribute id", err)
	}
	tribute := storage.Tribute{
		ID:             tributeID,
		TitleID:        title.ID,
		FactionID:      title.FactionID,
		TrainerID:      in.TrainerID,
		SubmissionID:   in.SubmissionID,
		Requirements:   append([]faction.Requirement(nil), title.TributeRequirements...),
		SubmissionType: string(submissionType),
		SubmissionURL:  strings.TrimSpace(in.SubmissionURL),
		Note:           strings.TrimSpace(in.Note),
		Status:         storage.TributePending,
	}
	if err := s.tributes.CreateTribute(ctx, tribute); err != nil {
		return storage.Tribute{}, storageError("create tribute", err)
	}
	created, err := s.tributes.GetTribute(ctx, tributeID)
	if err != nil {
		return storage.Tribute{}, storageError("get tribute", err)
	}
	return created, nil
}

// Get returns one tribute.
func (s *Service) Get(ctx context.Context, tributeID string) (storage.Tribute, error) {
	tributeID = strings.TrimSpace(tributeID)
	if tributeID == "" {
		return storage.Tribute{}, apperrors.New(apperrors.CodeTributeIDRequired, "tribute id is required")
	}
	tribute, err := s.tributes.GetTribute(ctx, tributeID)
	if err != nil {
		return storage.Tribute{}, storageError("get tribute", err)
	}
	return tribute, nil
}

// Approval is the outcome of approving a tribute.
type Approval struct {
	Tribute storage.Tribute
	Title   standing.Change
}

// Approve marks a pending tribute approved and grants the unlocked title.
// When the title cannot be refreshed the tribute returns to pending so the
// review can be retried.
func (s *Service) Approve(ctx context.Context, tributeID, reviewerID string) (Approval, error) {
	tributeID, reviewerID, err := reviewArgs(tributeID, reviewerID)
	if err != nil {
		return Approval{}, err
	}
	tribute, err := s.tributes.ReviewTribute(ctx, storage.TributeReview{
		TributeID:  tributeID,
		Status:     storage.TributeApproved,
		ReviewerID: reviewerID,
	})
	if err != nil {
		return Approval{}, storageError("approve tribute", err)
	}

	change, err := s.engine.RefreshTitle(ctx, tribute.TrainerID, tribute.FactionID)
	if err != nil {
		if reopenErr := s.tributes.ReopenTribute(context.WithoutCancel(ctx), tribute.ID); reopenErr != nil {
			s.compensationFailed(ctx, tribute, reopenErr)
		}
		return Approval{}, err
	}
	s.reviewed(ctx, tribute)
	return Approval{Tribute: tribute, Title: change}, nil
}

// Reject marks a pending tribute rejected and frees its submission.
func (s *Service) Reject(ctx context.Context, tributeID, reviewerID, reason string) (storage.Tribute, error) {
	tributeID, reviewerID, err := reviewArgs(tributeID, reviewerID)
	if err != nil {
		return storage.Tribute{}, err
	}
	tribute, err := s.tributes.ReviewTribute(ctx, storage.TributeReview{
		TributeID:  tributeID,
		Status:     storage.TributeRejected,
		ReviewerID: reviewerID,
		Reason:     strings.TrimSpace(reason),
	})
	if err != nil {
		return storage.Tribute{}, storageError("reject tribute", err)
	}
	s.reviewed(ctx, tribute)
	return tribute, nil
}

// List returns one page of tributes matching an AIP-160 filter.
func (s *Service) List(ctx context.Context, filterExpr string, pageSize int, pageToken string) (storage.TributePage, error) {
	cond, err := filter.ParseTributeFilter(filterExpr)
	if err != nil {
		return storage.TributePage{}, apperrors.Wrap(apperrors.CodeFilterInvalid, "parse tribute filter", err)
	}
	page, err := s.tributes.ListTributes(ctx, cond, pageSize, pageToken)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidPageToken) {
			return storage.TributePage{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "decode page token", err)
		}
		return storage.TributePage{}, storageError("list tributes", err)
	}
	return page, nil
}

func reviewArgs(tributeID, reviewerID string) (string, string, error) {
	tributeID = strings.TrimSpace(tributeID)
	reviewerID = strings.TrimSpace(reviewerID)
	if tributeID == "" {
		return "", "", apperrors.New(apperrors.CodeTributeIDRequired, "tribute id is required")
	}
	if reviewerID == "" {
		return "", "", apperrors.New(apperrors.CodeReviewerIDRequired, "reviewer id is required")
	}
	return tributeID, reviewerID, nil
}

func (s *Service) reviewed(ctx context.Context, tribute storage.Tribute) {
	err := s.audit.Emit(ctx, storage.AuditEvent{
		EventName: events.TributeReviewed,
		Severity:  string(audit.SeverityInfo),
		TrainerID: tribute.TrainerID,
		FactionID: tribute.FactionID,
		Attributes: map[string]string{
			"tribute_id":  tribute.ID,
			"title_id":    tribute.TitleID,
			"status":      string(tribute.Status),
			"reviewer_id": tribute.ReviewerID,
		},
	})
	if err != nil {
		log.Printf("audit %s: %v", events.TributeReviewed, err)
	}
}

func (s *Service) compensationFailed(ctx context.Context, tribute storage.Tribute, cause error) {
	log.Printf("reopen tribute %s after failed title refresh: %v", tribute.ID, cause)
	err := s.audit.Emit(context.WithoutCancel(ctx), storage.AuditEvent{
		EventName: events.CompensationFailed,
		Severity:  string(audit.SeverityError),
		TrainerID: tribute.TrainerID,
		FactionID: tribute.FactionID,
		Attributes: map[string]string{
			"tribute_id": tribute.ID,
			"error":      cause.Error(),
		},
	})
	if err != nil {
		log.Printf("audit %s: %v", events.CompensationFailed, err)
	}
}

func storageError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeTributeUnknown, op, err)
	case errors.Is(err, storage.ErrTributeNotPending):
		return apperrors.Wrap(apperrors.CodeTributeNotPending, op, err)
	case errors.Is(err, storage.ErrDuplicatePendingTribute):
		return apperrors.Wrap(apperrors.CodeTributeDuplicatePending, op, err)
	case errors.Is(err, storage.ErrSubmissionAlreadyUsed):
		return apperrors.Wrap(apperrors.CodeSubmissionAlreadyUsed, op, err)
	default:
		return apperrors.Wrap(apperrors.CodeStorageUnavailable, op, err)
	}
}
