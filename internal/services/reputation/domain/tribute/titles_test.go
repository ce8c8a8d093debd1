package tribute

import (
	"context"
	"testing"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

func statusByID(statuses []TitleStatus) map[string]TitleStatus {
	out := make(map[string]TitleStatus, len(statuses))
	for _, st := range statuses {
		out[st.Title.ID] = st
	}
	return out
}

func TestTitleStatuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.raise(t, 600)

	statuses, err := f.service.TitleStatuses(ctx, "trainer-1", "alpha")
	if err != nil {
		t.Fatalf("title statuses: %v", err)
	}
	if len(statuses) != 5 {
		t.Fatalf("statuses = %d, want 5", len(statuses))
	}
	byID := statusByID(statuses)
	if st := byID["alpha-neutral"]; !st.Available || !st.Current || st.CanAdvance {
		t.Fatalf("neutral = %+v", st)
	}
	if st := byID["alpha-adept"]; !st.Available || st.Current || !st.CanAdvance {
		t.Fatalf("adept = %+v", st)
	}
	if st := byID["alpha-expert"]; st.Available || st.CanAdvance {
		t.Fatalf("expert = %+v", st)
	}
	if st := byID["alpha-distrusted"]; st.Available {
		t.Fatalf("distrusted available at positive standing")
	}

	if _, err := f.service.Submit(ctx, SubmitInput{TrainerID: "trainer-1", TitleID: "alpha-adept"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	byID = statusByID(mustStatuses(t, f))
	if st := byID["alpha-adept"]; st.TributeStatus != storage.TributePending || st.CanAdvance {
		t.Fatalf("adept after submit = %+v", st)
	}
}

func mustStatuses(t *testing.T, f fixture) []TitleStatus {
	t.Helper()
	statuses, err := f.service.TitleStatuses(context.Background(), "trainer-1", "alpha")
	if err != nil {
		t.Fatalf("title statuses: %v", err)
	}
	return statuses
}

func TestNextRequirement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.service.NextRequirement(ctx, "trainer-1", "alpha")
	if err != nil {
		t.Fatalf("next requirement: %v", err)
	}
	if req != nil {
		t.Fatalf("requirement at 0 = %+v, want none", req)
	}

	f.raise(t, 600)
	req, err = f.service.NextRequirement(ctx, "trainer-1", "alpha")
	if err != nil {
		t.Fatalf("next requirement: %v", err)
	}
	if req == nil || req.Title.ID != "alpha-adept" {
		t.Fatalf("requirement = %+v, want alpha-adept", req)
	}
	if req.CurrentStanding != 600 || req.TributePrompt != "Bring proof of your craft." || len(req.Requirements) != 2 {
		t.Fatalf("requirement = %+v", req)
	}

	tribute, err := f.service.Submit(ctx, SubmitInput{TrainerID: "trainer-1", TitleID: "alpha-adept"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.service.Approve(ctx, tribute.ID, "reviewer-1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	req, err = f.service.NextRequirement(ctx, "trainer-1", "alpha")
	if err != nil {
		t.Fatalf("next requirement: %v", err)
	}
	if req != nil {
		t.Fatalf("requirement after approval = %+v, want none", req)
	}
}
