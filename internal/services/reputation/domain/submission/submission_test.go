package submission

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/louisbranch/faction-reputation/internal/platform/errors"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage/sqlite"
	"github.com/louisbranch/faction-reputation/internal/testkit/reputationtest"
)

func newService(t *testing.T) (*Service, *sqlite.Store) {
	t.Helper()
	store := reputationtest.OpenStore(t)
	engine := reputationtest.NewEngine(t, reputationtest.Catalog(t), store)
	service, err := New(Config{Engine: engine, Submissions: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service, store
}

func intPtr(v int) *int { return &v }

func valueOf(t *testing.T, store *sqlite.Store, factionID string) int {
	t.Helper()
	rec, err := store.GetStanding(context.Background(), "trainer-1", factionID)
	if err != nil {
		t.Fatalf("get standing: %v", err)
	}
	return rec.Value
}

func TestScoreAndApplyScenario(t *testing.T) {
	service, store := newService(t)

	outcome, err := service.ScoreAndApply(context.Background(), ScoreInput{
		TrainerID:     "trainer-1",
		FactionID:     "alpha",
		SubmissionID:  "sub-1",
		PromptID:      "alpha-heist",
		TrainerStatus: "with_others",
		TaskSize:      "large",
		SpecialBonus:  true,
	})
	if err != nil {
		t.Fatalf("score and apply: %v", err)
	}
	if outcome.Submission.BaseScore != 85 || outcome.Submission.FinalScore != 85 {
		t.Fatalf("scores = %d/%d, want 85/85", outcome.Submission.BaseScore, outcome.Submission.FinalScore)
	}
	if outcome.Result.Origin.NewValue != 85 {
		t.Fatalf("origin = %d, want 85", outcome.Result.Origin.NewValue)
	}
	if got := valueOf(t, store, "bravo"); got != -42 {
		t.Fatalf("bravo = %d, want -42", got)
	}
	if got := valueOf(t, store, "delta"); got != 42 {
		t.Fatalf("delta = %d, want 42", got)
	}

	usage, err := store.GetSubmissionUsage(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if usage.Activity != storage.ActivityFactionSubmission || usage.ReferenceID != outcome.Submission.ID {
		t.Fatalf("usage = %+v", usage)
	}
}

func TestScoreAndApplyCustomScore(t *testing.T) {
	service, store := newService(t)

	outcome, err := service.ScoreAndApply(context.Background(), ScoreInput{
		TrainerID:     "trainer-1",
		FactionID:     "alpha",
		SubmissionID:  "sub-1",
		TrainerStatus: "alone",
		TaskSize:      "small",
		CustomScore:   intPtr(40),
	})
	if err != nil {
		t.Fatalf("score and apply: %v", err)
	}
	if outcome.Submission.BaseScore != 20 || outcome.Submission.FinalScore != 40 {
		t.Fatalf("scores = %d/%d, want 20/40", outcome.Submission.BaseScore, outcome.Submission.FinalScore)
	}
	if got := valueOf(t, store, "alpha"); got != 40 {
		t.Fatalf("alpha = %d, want 40", got)
	}
}

func TestScoreAndApplySubmissionSingleUse(t *testing.T) {
	service, store := newService(t)
	ctx := context.Background()
	in := ScoreInput{TrainerID: "trainer-1", FactionID: "alpha", SubmissionID: "sub-1", TrainerStatus: "alone", TaskSize: "small"}

	if _, err := service.ScoreAndApply(ctx, in); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	in.FactionID = "bravo"
	_, err := service.ScoreAndApply(ctx, in)
	if !apperrors.IsCode(err, apperrors.CodeSubmissionAlreadyUsed) {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodeSubmissionAlreadyUsed)
	}
	if got := valueOf(t, store, "bravo"); got != -10 {
		t.Fatalf("bravo = %d, want -10 from propagation only", got)
	}
}

func TestScoreAndApplyValidation(t *testing.T) {
	service, store := newService(t)
	ctx := context.Background()
	base := ScoreInput{TrainerID: "trainer-1", FactionID: "alpha", SubmissionID: "sub-1", TrainerStatus: "alone", TaskSize: "small"}

	tests := []struct {
		name   string
		mutate func(*ScoreInput)
		code   apperrors.Code
	}{
		{name: "missing trainer", mutate: func(in *ScoreInput) { in.TrainerID = "" }, code: apperrors.CodeTrainerIDRequired},
		{name: "missing faction", mutate: func(in *ScoreInput) { in.FactionID = "" }, code: apperrors.CodeFactionIDRequired},
		{name: "missing submission", mutate: func(in *ScoreInput) { in.SubmissionID = " " }, code: apperrors.CodeSubmissionIDRequired},
		{name: "unknown faction", mutate: func(in *ScoreInput) { in.FactionID = "zulu" }, code: apperrors.CodeFactionUnknown},
		{name: "bad status", mutate: func(in *ScoreInput) { in.TrainerStatus = "crowd" }, code: apperrors.CodeScoreTrainerStatus},
		{name: "bad size", mutate: func(in *ScoreInput) { in.TaskSize = "huge" }, code: apperrors.CodeScoreTaskSize},
		{name: "unknown prompt", mutate: func(in *ScoreInput) { in.PromptID = "nope" }, code: apperrors.CodeScorePromptUnavailable},
		{name: "inactive prompt", mutate: func(in *ScoreInput) { in.PromptID = "alpha-retired" }, code: apperrors.CodeScorePromptUnavailable},
		{name: "other faction prompt", mutate: func(in *ScoreInput) { in.PromptID = "bravo-raid" }, code: apperrors.CodeScorePromptUnavailable},
		{name: "locked prompt", mutate: func(in *ScoreInput) { in.PromptID = "alpha-elite" }, code: apperrors.CodeScorePromptUnavailable},
		{name: "custom score too large", mutate: func(in *ScoreInput) { in.CustomScore = intPtr(standing.MaxDelta + 1) }, code: apperrors.CodeDeltaInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := service.ScoreAndApply(ctx, in)
			if got := apperrors.GetCode(err); got != tt.code {
				t.Fatalf("code = %s, want %s", got, tt.code)
			}
		})
	}
	if _, err := store.GetSubmissionUsage(ctx, "sub-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("usage err = %v, want not found after rejected inputs", err)
	}
}

type failingStandings struct {
	storage.StandingStore
}

func (failingStandings) MutateStanding(ctx context.Context, trainerID, factionID string, fn storage.MutateFunc) (storage.Standing, storage.Standing, error) {
	return storage.Standing{}, storage.Standing{}, errors.New("database is locked")
}

func TestScoreAndApplyRevertsWhenOriginFails(t *testing.T) {
	store := reputationtest.OpenStore(t)
	engine, err := standing.New(standing.Config{
		Catalog:   reputationtest.Catalog(t),
		Standings: failingStandings{StandingStore: store},
		Approvals: store,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	service, err := New(Config{Engine: engine, Submissions: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	_, err = service.ScoreAndApply(ctx, ScoreInput{
		TrainerID: "trainer-1", FactionID: "alpha", SubmissionID: "sub-1", TrainerStatus: "alone", TaskSize: "small",
	})
	if !apperrors.IsCode(err, apperrors.CodeStorageUnavailable) {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodeStorageUnavailable)
	}
	if _, err := store.GetSubmissionUsage(ctx, "sub-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("usage err = %v, want not found", err)
	}
	history, err := service.History(ctx, "trainer-1", "")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history = %d entries, want 0", len(history))
	}
}

func TestPreview(t *testing.T) {
	service, store := newService(t)

	res, err := service.Preview(PreviewInput{
		FactionID:     "alpha",
		PromptID:      "alpha-heist",
		TrainerStatus: "with_others",
		TaskSize:      "large",
		SpecialBonus:  true,
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if res.Base != 85 || res.Final != 85 {
		t.Fatalf("preview = %+v, want 85/85", res)
	}
	if got := valueOf(t, store, "alpha"); got != 0 {
		t.Fatalf("preview changed standing to %d", got)
	}

	res, err = service.Preview(PreviewInput{FactionID: "bravo", PromptID: "bravo-raid", TrainerStatus: "alone", TaskSize: "small"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if res.Final != 15 {
		t.Fatalf("preview = %d, want 15", res.Final)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	for _, sub := range []string{"sub-1", "sub-2"} {
		if _, err := service.ScoreAndApply(ctx, ScoreInput{
			TrainerID: "trainer-1", FactionID: "alpha", SubmissionID: sub, TrainerStatus: "alone", TaskSize: "small",
		}); err != nil {
			t.Fatalf("apply %s: %v", sub, err)
		}
	}
	history, err := service.History(ctx, "trainer-1", "alpha")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	if history[0].CreatedAt.Before(history[1].CreatedAt) {
		t.Fatalf("history not newest first")
	}
	if _, err := service.History(ctx, "", ""); !apperrors.IsCode(err, apperrors.CodeTrainerIDRequired) {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodeTrainerIDRequired)
	}
}

func TestPrompts(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	all, err := service.Prompts(ctx, "alpha", "")
	if err != nil {
		t.Fatalf("prompts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("prompts = %d, want 2 active", len(all))
	}
	unlocked, err := service.Prompts(ctx, "alpha", "trainer-1")
	if err != nil {
		t.Fatalf("prompts: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].ID != "alpha-heist" {
		t.Fatalf("prompts for trainer = %+v, want alpha-heist only", unlocked)
	}
	if _, err := service.Prompts(ctx, "zulu", ""); !apperrors.IsCode(err, apperrors.CodeFactionUnknown) {
		t.Fatalf("code = %s, want %s", apperrors.GetCode(err), apperrors.CodeFactionUnknown)
	}
}
