package tribute

import (
	"context"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

// TitleStatus is one rung of a faction ladder from a trainer's point of view.
type TitleStatus struct {
	Title faction.Title
	// Available reports whether the standing meets the threshold in the
	// title's polarity.
	Available bool
	Current   bool
	// TributeStatus is the latest tribute's status, empty when none exists.
	TributeStatus storage.TributeStatus
	// CanAdvance reports whether a tribute may be submitted for the title now.
	CanAdvance bool
}

// Requirement is the next tribute a trainer can pay in a faction.
type Requirement struct {
	Title           faction.Title
	Requirements    []faction.Requirement
	TributePrompt   string
	CurrentStanding int
}

// TitleStatuses lists a faction's ladder annotated for a trainer.
func (s *Service) TitleStatuses(ctx context.Context, trainerID, factionID string) ([]TitleStatus, error) {
	_, statuses, err := s.ladder(ctx, trainerID, factionID)
	return statuses, err
}

func (s *Service) ladder(ctx context.Context, trainerID, factionID string) (standing.Projection, []TitleStatus, error) {
	projection, err := s.engine.Project(ctx, trainerID, factionID)
	if err != nil {
		return standing.Projection{}, nil, err
	}
	latest, err := s.tributes.LatestTributes(ctx, projection.TrainerID, projection.FactionID)
	if err != nil {
		return standing.Projection{}, nil, storageError("list latest tributes", err)
	}

	currentID := ""
	if projection.CurrentTitle != nil {
		currentID = projection.CurrentTitle.ID
	}
	titles := s.catalog.Titles().Titles(projection.FactionID)
	statuses := make([]TitleStatus, 0, len(titles))
	for _, t := range titles {
		st := TitleStatus{
			Title:     t,
			Available: faction.Available(t, projection.Standing),
			Current:   t.ID == currentID,
		}
		if tribute, ok := latest[t.ID]; ok {
			st.TributeStatus = tribute.Status
		}
		st.CanAdvance = t.RequiresTribute && st.Available && !st.Current &&
			st.TributeStatus != storage.TributePending && st.TributeStatus != storage.TributeApproved
		statuses = append(statuses, st)
	}
	return projection, statuses, nil
}

// NextRequirement returns the lowest tribute-gated title the trainer has
// reached but not unlocked, or nil when none is outstanding.
func (s *Service) NextRequirement(ctx context.Context, trainerID, factionID string) (*Requirement, error) {
	projection, statuses, err := s.ladder(ctx, trainerID, factionID)
	if err != nil {
		return nil, err
	}
	for _, st := range statuses {
		if !st.Title.RequiresTribute || !st.Available || st.Current || st.TributeStatus == storage.TributeApproved {
			continue
		}
		return &Requirement{
			Title:           st.Title,
			Requirements:    append([]faction.Requirement(nil), st.Title.TributeRequirements...),
			TributePrompt:   st.Title.TributePrompt,
			CurrentStanding: projection.Standing,
		}, nil
	}
	return nil, nil
}
