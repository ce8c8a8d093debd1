package person

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/louisbranch/faction-reputation/internal/platform/errors"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage/sqlite"
	"github.com/louisbranch/faction-reputation/internal/testkit/reputationtest"
)

func newGate(t *testing.T) (*Gate, *standing.Engine, *sqlite.Store) {
	t.Helper()
	store := reputationtest.OpenStore(t)
	engine := reputationtest.NewEngine(t, reputationtest.Catalog(t), store)
	gate, err := New(engine, store, nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	return gate, engine, store
}

func valueOf(t *testing.T, store *sqlite.Store, factionID string) int {
	t.Helper()
	rec, err := store.GetStanding(context.Background(), "trainer-1", factionID)
	if err != nil {
		t.Fatalf("get standing: %v", err)
	}
	return rec.Value
}

func TestMeetIsOneShot(t *testing.T) {
	gate, engine, store := newGate(t)
	ctx := context.Background()
	if _, err := engine.ApplyEvent(ctx, "trainer-1", "alpha", 100, "test"); err != nil {
		t.Fatalf("apply event: %v", err)
	}

	result, err := gate.Meet(ctx, "trainer-1", "alpha-guide", "sub-1")
	if err != nil {
		t.Fatalf("meet: %v", err)
	}
	if result.Origin.OldValue != 100 || result.Origin.NewValue != 130 {
		t.Fatalf("origin = %d -> %d, want 100 -> 130", result.Origin.OldValue, result.Origin.NewValue)
	}
	if got := valueOf(t, store, "bravo"); got != -65 {
		t.Fatalf("bravo = %d, want -65", got)
	}

	_, err = gate.Meet(ctx, "trainer-1", "alpha-guide", "sub-2")
	if !apperrors.IsCode(err, apperrors.CodePersonAlreadyMet) {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodePersonAlreadyMet)
	}
	if got := valueOf(t, store, "alpha"); got != 130 {
		t.Fatalf("alpha = %d, want 130 after repeat", got)
	}
	if _, err := store.GetSubmissionUsage(ctx, "sub-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("sub-2 usage err = %v, want not found", err)
	}
}

func TestMeetRequiresStanding(t *testing.T) {
	gate, _, store := newGate(t)
	ctx := context.Background()

	_, err := gate.Meet(ctx, "trainer-1", "alpha-guide", "sub-1")
	if !apperrors.IsCode(err, apperrors.CodePersonStandingTooLow) {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodePersonStandingTooLow)
	}
	if _, err := store.GetSubmissionUsage(ctx, "sub-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("sub-1 usage err = %v, want not found", err)
	}
}

func TestMeetNegativeRequirement(t *testing.T) {
	gate, engine, store := newGate(t)
	ctx := context.Background()

	_, err := gate.Meet(ctx, "trainer-1", "alpha-fence", "sub-1")
	if !apperrors.IsCode(err, apperrors.CodePersonStandingTooLow) {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodePersonStandingTooLow)
	}
	if _, err := engine.ApplyEvent(ctx, "trainer-1", "alpha", -250, "test"); err != nil {
		t.Fatalf("apply event: %v", err)
	}
	if _, err := gate.Meet(ctx, "trainer-1", "alpha-fence", "sub-1"); err != nil {
		t.Fatalf("meet: %v", err)
	}
	if got := valueOf(t, store, "alpha"); got != -270 {
		t.Fatalf("alpha = %d, want -270", got)
	}
}

func TestMeetSubmissionSingleUse(t *testing.T) {
	gate, engine, _ := newGate(t)
	ctx := context.Background()
	if _, err := engine.ApplyEvent(ctx, "trainer-1", "alpha", 100, "test"); err != nil {
		t.Fatalf("apply event: %v", err)
	}

	if _, err := gate.Meet(ctx, "trainer-1", "alpha-scout", "sub-1"); err != nil {
		t.Fatalf("meet scout: %v", err)
	}
	_, err := gate.Meet(ctx, "trainer-1", "alpha-guide", "sub-1")
	if !apperrors.IsCode(err, apperrors.CodeSubmissionAlreadyUsed) {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodeSubmissionAlreadyUsed)
	}
}

func TestMeetValidation(t *testing.T) {
	gate, _, _ := newGate(t)
	ctx := context.Background()

	tests := []struct {
		name                              string
		trainerID, personID, submissionID string
		code                              apperrors.Code
	}{
		{name: "missing trainer", personID: "alpha-scout", submissionID: "s", code: apperrors.CodeTrainerIDRequired},
		{name: "missing person", trainerID: "trainer-1", submissionID: "s", code: apperrors.CodePersonIDRequired},
		{name: "missing submission", trainerID: "trainer-1", personID: "alpha-scout", code: apperrors.CodeSubmissionIDRequired},
		{name: "unknown person", trainerID: "trainer-1", personID: "nobody", submissionID: "s", code: apperrors.CodePersonUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gate.Meet(ctx, tt.trainerID, tt.personID, tt.submissionID)
			if got := apperrors.GetCode(err); got != tt.code {
				t.Fatalf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

type failingStandings struct {
	storage.StandingStore
}

func (failingStandings) MutateStanding(ctx context.Context, trainerID, factionID string, fn storage.MutateFunc) (storage.Standing, storage.Standing, error) {
	return storage.Standing{}, storage.Standing{}, errors.New("database is locked")
}

func TestMeetRevertsWhenGrantFails(t *testing.T) {
	store := reputationtest.OpenStore(t)
	engine, err := standing.New(standing.Config{
		Catalog:   reputationtest.Catalog(t),
		Standings: failingStandings{StandingStore: store},
		Approvals: store,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	gate, err := New(engine, store, nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	ctx := context.Background()

	_, err = gate.Meet(ctx, "trainer-1", "alpha-scout", "sub-1")
	if !apperrors.IsCode(err, apperrors.CodeStorageUnavailable) {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodeStorageUnavailable)
	}
	if _, err := store.GetMeeting(ctx, "trainer-1", "alpha-scout"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("meeting err = %v, want not found", err)
	}
	if _, err := store.GetSubmissionUsage(ctx, "sub-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("usage err = %v, want not found", err)
	}
}

func TestList(t *testing.T) {
	gate, _, _ := newGate(t)
	ctx := context.Background()

	if _, err := gate.Meet(ctx, "trainer-1", "alpha-scout", "sub-1"); err != nil {
		t.Fatalf("meet: %v", err)
	}
	statuses, err := gate.List(ctx, "trainer-1", "alpha")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(statuses) != 3 {
		t.Fatalf("statuses = %d, want 3", len(statuses))
	}
	byID := make(map[string]Status)
	for _, st := range statuses {
		byID[st.ID] = st
	}
	if st := byID["alpha-scout"]; !st.HasMet || st.CanMeet || st.Name != "Oren" || st.MetAt.IsZero() {
		t.Fatalf("scout = %+v", st)
	}
	if st := byID["alpha-guide"]; st.HasMet || st.CanMeet || st.Name != "" || st.Alias != "The Guide" {
		t.Fatalf("guide at 30 = %+v", st)
	}
}

func TestCanMeet(t *testing.T) {
	p := faction.Person{StandingRequirement: 100}
	if CanMeet(p, 99, false) {
		t.Fatalf("met below threshold")
	}
	if !CanMeet(p, 100, false) {
		t.Fatalf("not meetable at threshold")
	}
	if CanMeet(p, 500, true) {
		t.Fatalf("meetable twice")
	}
}
