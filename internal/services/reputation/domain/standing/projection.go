package standing

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/louisbranch/faction-reputation/internal/platform/errors"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

// Projection is the read-only display view of one standing.
type Projection struct {
	TrainerID           string
	FactionID           string
	Standing            int
	CurrentTitle        *faction.Title
	NextPositiveTitle   *faction.Title
	PendingTributeTitle *faction.Title
	ProgressPercent     float64
	UpdatedAt           time.Time
}

// Unlocked reports whether the trainer holds t or has climbed past it in the
// same polarity. Ungated titles also unlock as soon as their threshold is met.
func (p Projection) Unlocked(t faction.Title) bool {
	if cur := p.CurrentTitle; cur != nil {
		if cur.ID == t.ID {
			return true
		}
		if cur.FactionID == t.FactionID && cur.IsPositive == t.IsPositive && abs(cur.StandingRequirement) >= abs(t.StandingRequirement) {
			return true
		}
	}
	return !t.RequiresTribute && faction.Available(t, p.Standing)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ProgressPercent maps a standing value onto [0, 100].
func ProgressPercent(value int) float64 {
	span := float64(faction.MaxStanding - faction.MinStanding)
	return float64(Clamp(value)-faction.MinStanding) / span * 100
}

// Project returns the display view of one standing. Pairs never mutated
// project as zero without being persisted.
func (e *Engine) Project(ctx context.Context, trainerID, factionID string) (Projection, error) {
	trainerID, factionID, err := e.validatePair(trainerID, factionID)
	if err != nil {
		return Projection{}, err
	}
	current, err := e.standings.GetStanding(ctx, trainerID, factionID)
	if err != nil {
		return Projection{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "get standing", err)
	}
	return e.project(ctx, current)
}

// ProjectAll returns one projection per catalog faction in catalog order.
func (e *Engine) ProjectAll(ctx context.Context, trainerID string) ([]Projection, error) {
	trainerID = strings.TrimSpace(trainerID)
	if trainerID == "" {
		return nil, apperrors.New(apperrors.CodeTrainerIDRequired, "trainer id is required")
	}
	factions := e.catalog.Factions()
	stored, err := e.standings.ListStandings(ctx, trainerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "list standings", err)
	}
	byFaction := make(map[string]storage.Standing, len(stored))
	for _, s := range stored {
		byFaction[s.FactionID] = s
	}

	projections := make([]Projection, 0, len(factions))
	for _, f := range factions {
		current, ok := byFaction[f.ID]
		if !ok {
			current = storage.Standing{TrainerID: trainerID, FactionID: f.ID}
		}
		p, err := e.project(ctx, current)
		if err != nil {
			return nil, err
		}
		projections = append(projections, p)
	}
	return projections, nil
}

func (e *Engine) project(ctx context.Context, current storage.Standing) (Projection, error) {
	approved, err := e.approved(ctx, current.TrainerID, current.FactionID)
	if err != nil {
		return Projection{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "list approved titles", err)
	}
	titles := e.catalog.Titles()
	resolution := titles.Resolve(current.FactionID, current.Value, approved)

	p := Projection{
		TrainerID:           current.TrainerID,
		FactionID:           current.FactionID,
		Standing:            current.Value,
		PendingTributeTitle: resolution.Pending,
		NextPositiveTitle:   titles.NextPositiveTitle(current.FactionID, current.Value, resolution.Pending),
		ProgressPercent:     ProgressPercent(current.Value),
		UpdatedAt:           current.UpdatedAt,
	}
	switch {
	case current.Persisted && current.CurrentTitleID != "":
		if t, ok := titles.Title(current.CurrentTitleID); ok {
			p.CurrentTitle = &t
		}
	case !current.Persisted:
		p.CurrentTitle = resolution.Title
	}
	return p, nil
}
