// Package person gates one-time meetings with faction NPCs.
package person

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "github.com/louisbranch/faction-reputation/internal/platform/errors"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/observability/audit/events"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

// Reason tags standing events granted by meetings.
const Reason = "meeting"

// Gate decides and records meetings.
type Gate struct {
	engine   *standing.Engine
	catalog  *faction.Catalog
	meetings storage.MeetingStore
	audit    *audit.Emitter
}

// New builds a Gate. A nil emitter disables the audit ledger.
func New(engine *standing.Engine, meetings storage.MeetingStore, emitter *audit.Emitter) (*Gate, error) {
	if engine == nil {
		return nil, fmt.Errorf("standing engine is required")
	}
	if meetings == nil {
		return nil, fmt.Errorf("meeting store is required")
	}
	return &Gate{engine: engine, catalog: engine.Catalog(), meetings: meetings, audit: emitter}, nil
}

// Status is a person as seen by one trainer. Name stays empty until met.
type Status struct {
	ID                  string
	FactionID           string
	Alias               string
	Name                string
	Description         string
	StandingRequirement int
	StandingReward      int
	HasMet              bool
	CanMeet             bool
	MetAt               time.Time
}

// CanMeet reports whether the trainer may meet the person now.
func CanMeet(p faction.Person, value int, met bool) bool {
	return !met && p.MeetableAt(value)
}

// Meet records the first meeting between a trainer and a person, consuming
// submissionID, and grants the person's standing reward. A repeat attempt
// fails with PERSON_ALREADY_MET and leaves standing unchanged.
func (g *Gate) Meet(ctx context.Context, trainerID, personID, submissionID string) (standing.Result, error) {
	trainerID = strings.TrimSpace(trainerID)
	personID = strings.TrimSpace(personID)
	submissionID = strings.TrimSpace(submissionID)
	switch {
	case trainerID == "":
		return standing.Result{}, apperrors.New(apperrors.CodeTrainerIDRequired, "trainer id is required")
	case personID == "":
		return standing.Result{}, apperrors.New(apperrors.CodePersonIDRequired, "person id is required")
	case submissionID == "":
		return standing.Result{}, apperrors.New(apperrors.CodeSubmissionIDRequired, "submission id is required")
	}
	p, ok := g.catalog.Person(personID)
	if !ok {
		return standing.Result{}, apperrors.New(apperrors.CodePersonUnknown, fmt.Sprintf("person %q is not in the catalog", personID))
	}

	if _, err := g.meetings.GetMeeting(ctx, trainerID, personID); err == nil {
		return standing.Result{}, alreadyMet(p)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return standing.Result{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "get meeting", err)
	}
	projection, err := g.engine.Project(ctx, trainerID, p.FactionID)
	if err != nil {
		return standing.Result{}, err
	}
	if !p.MeetableAt(projection.Standing) {
		return standing.Result{}, apperrors.WithMetadata(
			apperrors.CodePersonStandingTooLow,
			fmt.Sprintf("standing %d does not meet %d", projection.Standing, p.StandingRequirement),
			map[string]string{"Required": fmt.Sprint(p.StandingRequirement)},
		)
	}

	err = g.meetings.RecordMeeting(ctx, storage.Meeting{
		TrainerID:    trainerID,
		PersonID:     personID,
		FactionID:    p.FactionID,
		SubmissionID: submissionID,
	})
	switch {
	case errors.Is(err, storage.ErrAlreadyMet):
		return standing.Result{}, alreadyMet(p)
	case errors.Is(err, storage.ErrSubmissionAlreadyUsed):
		return standing.Result{}, apperrors.Wrap(apperrors.CodeSubmissionAlreadyUsed, "record meeting", err)
	case err != nil:
		return standing.Result{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "record meeting", err)
	}

	result, err := g.engine.ApplyEvent(ctx, trainerID, p.FactionID, p.StandingReward, Reason)
	if err != nil {
		if revertErr := g.meetings.RevertMeeting(context.WithoutCancel(ctx), trainerID, personID); revertErr != nil {
			g.compensationFailed(ctx, trainerID, p, revertErr)
		}
		return standing.Result{}, err
	}
	return result, nil
}

// List returns a faction's people annotated for a trainer.
func (g *Gate) List(ctx context.Context, trainerID, factionID string) ([]Status, error) {
	projection, err := g.engine.Project(ctx, trainerID, factionID)
	if err != nil {
		return nil, err
	}
	meetings, err := g.meetings.ListMeetings(ctx, projection.TrainerID, projection.FactionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "list meetings", err)
	}
	metAt := make(map[string]time.Time, len(meetings))
	for _, m := range meetings {
		metAt[m.PersonID] = m.MetAt
	}

	people := g.catalog.People(projection.FactionID)
	statuses := make([]Status, 0, len(people))
	for _, p := range people {
		at, met := metAt[p.ID]
		st := Status{
			ID:                  p.ID,
			FactionID:           p.FactionID,
			Alias:               p.Alias,
			Description:         p.Description,
			StandingRequirement: p.StandingRequirement,
			StandingReward:      p.StandingReward,
			HasMet:              met,
			CanMeet:             CanMeet(p, projection.Standing, met),
			MetAt:               at,
		}
		if met {
			st.Name = p.Name
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func alreadyMet(p faction.Person) error {
	return apperrors.WithMetadata(
		apperrors.CodePersonAlreadyMet,
		fmt.Sprintf("person %q already met", p.ID),
		map[string]string{"PersonName": p.Alias},
	)
}

func (g *Gate) compensationFailed(ctx context.Context, trainerID string, p faction.Person, cause error) {
	log.Printf("revert meeting trainer=%s person=%s: %v", trainerID, p.ID, cause)
	err := g.audit.Emit(context.WithoutCancel(ctx), storage.AuditEvent{
		EventName:  events.CompensationFailed,
		Severity:   string(audit.SeverityError),
		TrainerID:  trainerID,
		FactionID:  p.FactionID,
		Delta:      p.StandingReward,
		Attributes: map[string]string{"person_id": p.ID, "error": cause.Error()},
	})
	if err != nil {
		log.Printf("audit %s: %v", events.CompensationFailed, err)
	}
}
