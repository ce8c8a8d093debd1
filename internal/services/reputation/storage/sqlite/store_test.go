package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/filter"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "reputation.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func addDelta(delta int) storage.MutateFunc {
	return func(current storage.Standing, _ []string) (storage.Standing, error) {
		current.Value += delta
		return current, nil
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenReappliesMigrationsIdempotently(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reputation.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	_ = second.Close()
}

func TestGetStandingDefaultsWithoutPersisting(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	got, err := store.GetStanding(ctx, "trainer-1", "league")
	if err != nil {
		t.Fatalf("get standing: %v", err)
	}
	if got.Value != 0 || got.CurrentTitleID != "" || got.Persisted {
		t.Fatalf("standing = %+v, want zero default", got)
	}
	list, err := store.ListStandings(ctx, "trainer-1")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("standings = %d, want 0", len(list))
	}
}

func TestMutateStandingPersists(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	before, after, err := store.MutateStanding(ctx, "trainer-1", "league", func(current storage.Standing, _ []string) (storage.Standing, error) {
		current.Value += 250
		current.CurrentTitleID = "league-initiate"
		return current, nil
	})
	if err != nil {
		t.Fatalf("mutate standing: %v", err)
	}
	if before.Persisted || before.Value != 0 {
		t.Fatalf("before = %+v, want zero default", before)
	}
	if after.Value != 250 || after.CurrentTitleID != "league-initiate" || !after.Persisted {
		t.Fatalf("after = %+v", after)
	}

	got, err := store.GetStanding(ctx, "trainer-1", "league")
	if err != nil {
		t.Fatalf("get standing: %v", err)
	}
	if got.Value != 250 || got.CurrentTitleID != "league-initiate" {
		t.Fatalf("stored = %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", got)
	}
}

func TestMutateStandingAbortsOnFuncError(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	if _, _, err := store.MutateStanding(ctx, "trainer-1", "league", addDelta(40)); err != nil {
		t.Fatalf("mutate standing: %v", err)
	}

	boom := errors.New("boom")
	_, _, err := store.MutateStanding(ctx, "trainer-1", "league", func(storage.Standing, []string) (storage.Standing, error) {
		return storage.Standing{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	got, _ := store.GetStanding(ctx, "trainer-1", "league")
	if got.Value != 40 {
		t.Fatalf("value = %d, want 40", got.Value)
	}
}

func TestMutateStandingRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, _, err := store.MutateStanding(context.Background(), "trainer-1", "league", addDelta(1500))
	if err == nil {
		t.Fatal("expected check constraint error")
	}
}

func TestMutateStandingSerializesConcurrentWriters(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := store.MutateStanding(ctx, "trainer-1", "league", addDelta(5)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("mutate standing: %v", err)
	}

	got, _ := store.GetStanding(ctx, "trainer-1", "league")
	if got.Value != writers*5 {
		t.Fatalf("value = %d, want %d", got.Value, writers*5)
	}
}

func TestListStandingsOrdersByFaction(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	for _, factionID := range []string{"rangers", "league", "tamers"} {
		if _, _, err := store.MutateStanding(ctx, "trainer-1", factionID, addDelta(10)); err != nil {
			t.Fatalf("mutate %s: %v", factionID, err)
		}
	}
	if _, _, err := store.MutateStanding(ctx, "trainer-2", "league", addDelta(10)); err != nil {
		t.Fatalf("mutate other trainer: %v", err)
	}

	list, err := store.ListStandings(ctx, "trainer-1")
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(list) != 3 || list[0].FactionID != "league" || list[2].FactionID != "tamers" {
		t.Fatalf("standings = %+v", list)
	}
}

func TestFactionSubmissionClaimsSubmission(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	sub := storage.FactionSubmission{
		ID:            "fs-1",
		TrainerID:     "trainer-1",
		FactionID:     "league",
		SubmissionID:  "art-1",
		TrainerStatus: "alone",
		TaskSize:      "large",
		SpecialBonus:  true,
		BaseScore:     60,
		FinalScore:    60,
	}
	if err := store.RecordFactionSubmission(ctx, sub); err != nil {
		t.Fatalf("record faction submission: %v", err)
	}

	usage, err := store.GetSubmissionUsage(ctx, "art-1")
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if usage.Activity != storage.ActivityFactionSubmission || usage.ReferenceID != "fs-1" {
		t.Fatalf("usage = %+v", usage)
	}

	sub.ID = "fs-2"
	sub.FactionID = "rangers"
	if err := store.RecordFactionSubmission(ctx, sub); !errors.Is(err, storage.ErrSubmissionAlreadyUsed) {
		t.Fatalf("error = %v, want ErrSubmissionAlreadyUsed", err)
	}

	subs, err := store.ListFactionSubmissions(ctx, "trainer-1", "")
	if err != nil {
		t.Fatalf("list faction submissions: %v", err)
	}
	if len(subs) != 1 || !subs[0].SpecialBonus || subs[0].FinalScore != 60 {
		t.Fatalf("submissions = %+v", subs)
	}
}

func TestRevertFactionSubmissionReleasesClaim(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	sub := storage.FactionSubmission{ID: "fs-1", TrainerID: "trainer-1", FactionID: "league", SubmissionID: "art-1", TrainerStatus: "alone", TaskSize: "small"}
	if err := store.RecordFactionSubmission(ctx, sub); err != nil {
		t.Fatalf("record faction submission: %v", err)
	}
	if err := store.RevertFactionSubmission(ctx, "fs-1"); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if _, err := store.GetSubmissionUsage(ctx, "art-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("usage error = %v, want ErrNotFound", err)
	}
	if err := store.RecordFactionSubmission(ctx, sub); err != nil {
		t.Fatalf("record again: %v", err)
	}
	if err := store.RevertFactionSubmission(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestSubmissionSingleUseAcrossActivities(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	if err := store.RecordMeeting(ctx, storage.Meeting{TrainerID: "trainer-1", PersonID: "p-1", FactionID: "league", SubmissionID: "art-1"}); err != nil {
		t.Fatalf("record meeting: %v", err)
	}

	err := store.CreateTribute(ctx, storage.Tribute{ID: "tr-1", TitleID: "league-adept", FactionID: "league", TrainerID: "trainer-1", SubmissionID: "art-1"})
	if !errors.Is(err, storage.ErrSubmissionAlreadyUsed) {
		t.Fatalf("tribute error = %v, want ErrSubmissionAlreadyUsed", err)
	}
	if _, err := store.GetTribute(ctx, "tr-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("tribute must not persist, got %v", err)
	}

	err = store.RecordFactionSubmission(ctx, storage.FactionSubmission{ID: "fs-1", TrainerID: "trainer-1", FactionID: "rangers", SubmissionID: "art-1", TrainerStatus: "alone", TaskSize: "small"})
	if !errors.Is(err, storage.ErrSubmissionAlreadyUsed) {
		t.Fatalf("submission error = %v, want ErrSubmissionAlreadyUsed", err)
	}
}

func TestConcurrentClaimsHaveOneWinner(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- store.RecordFactionSubmission(ctx, storage.FactionSubmission{
				ID:            fmt.Sprintf("fs-%d", i),
				TrainerID:     "trainer-1",
				FactionID:     "league",
				SubmissionID:  "art-1",
				TrainerStatus: "alone",
				TaskSize:      "small",
			})
		}(i)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, storage.ErrSubmissionAlreadyUsed):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want 1", wins)
	}
}

func TestMeetingOnce(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	meeting := storage.Meeting{TrainerID: "trainer-1", PersonID: "p-1", FactionID: "league", SubmissionID: "art-1"}
	if err := store.RecordMeeting(ctx, meeting); err != nil {
		t.Fatalf("record meeting: %v", err)
	}
	meeting.SubmissionID = "art-2"
	if err := store.RecordMeeting(ctx, meeting); !errors.Is(err, storage.ErrAlreadyMet) {
		t.Fatalf("error = %v, want ErrAlreadyMet", err)
	}
	if _, err := store.GetSubmissionUsage(ctx, "art-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second submission must stay unclaimed, got %v", err)
	}

	got, err := store.GetMeeting(ctx, "trainer-1", "p-1")
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if got.SubmissionID != "art-1" || got.MetAt.IsZero() {
		t.Fatalf("meeting = %+v", got)
	}
	list, err := store.ListMeetings(ctx, "trainer-1", "league")
	if err != nil || len(list) != 1 {
		t.Fatalf("list meetings = %v, %v", list, err)
	}

	if err := store.RevertMeeting(ctx, "trainer-1", "p-1"); err != nil {
		t.Fatalf("revert meeting: %v", err)
	}
	if _, err := store.GetMeeting(ctx, "trainer-1", "p-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetSubmissionUsage(ctx, "art-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("claim must be released, got %v", err)
	}
}

func newTribute(id, titleID, submissionID string, submittedAt time.Time) storage.Tribute {
	return storage.Tribute{
		ID:           id,
		TitleID:      titleID,
		FactionID:    "league",
		TrainerID:    "trainer-1",
		SubmissionID: submissionID,
		Requirements: []faction.Requirement{{Kind: faction.RequirementCurrency, Amount: 500}},
		SubmittedAt:  submittedAt,
	}
}

func TestMutateStandingPassesApprovedTitles(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	if err := store.CreateTribute(ctx, newTribute("tr-1", "league-adept", "", now)); err != nil {
		t.Fatalf("create tribute: %v", err)
	}
	var seen []string
	record := func(current storage.Standing, approved []string) (storage.Standing, error) {
		seen = approved
		return current, nil
	}
	if _, _, err := store.MutateStanding(ctx, "trainer-1", "league", record); err != nil {
		t.Fatalf("mutate standing: %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("approved = %v, want none while pending", seen)
	}

	if _, err := store.ReviewTribute(ctx, storage.TributeReview{TributeID: "tr-1", Status: storage.TributeApproved, ReviewerID: "mod-1"}); err != nil {
		t.Fatalf("approve tribute: %v", err)
	}
	if _, _, err := store.MutateStanding(ctx, "trainer-1", "league", record); err != nil {
		t.Fatalf("mutate standing: %v", err)
	}
	if len(seen) != 1 || seen[0] != "league-adept" {
		t.Fatalf("approved = %v, want [league-adept]", seen)
	}
	if _, _, err := store.MutateStanding(ctx, "trainer-1", "rangers", record); err != nil {
		t.Fatalf("mutate standing: %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("approved = %v, want none for another faction", seen)
	}
}

func TestTributeLifecycle(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	if err := store.CreateTribute(ctx, newTribute("tr-1", "league-adept", "art-1", now)); err != nil {
		t.Fatalf("create tribute: %v", err)
	}
	err := store.CreateTribute(ctx, newTribute("tr-2", "league-adept", "", now))
	if !errors.Is(err, storage.ErrDuplicatePendingTribute) {
		t.Fatalf("error = %v, want ErrDuplicatePendingTribute", err)
	}

	got, err := store.GetTribute(ctx, "tr-1")
	if err != nil {
		t.Fatalf("get tribute: %v", err)
	}
	if got.Status != storage.TributePending || len(got.Requirements) != 1 || got.Requirements[0].Amount != 500 {
		t.Fatalf("tribute = %+v", got)
	}
	if got.SubmissionType != storage.DefaultSubmissionType || got.SubmissionURL != "" {
		t.Fatalf("offering = %q %q, want default type and no url", got.SubmissionType, got.SubmissionURL)
	}

	rejected, err := store.ReviewTribute(ctx, storage.TributeReview{TributeID: "tr-1", Status: storage.TributeRejected, ReviewerID: "mod-1", Reason: "blurry"})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != storage.TributeRejected || rejected.RejectReason != "blurry" || rejected.ReviewedAt.IsZero() {
		t.Fatalf("rejected = %+v", rejected)
	}
	if _, err := store.GetSubmissionUsage(ctx, "art-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("rejection must release the claim, got %v", err)
	}
	_, err = store.ReviewTribute(ctx, storage.TributeReview{TributeID: "tr-1", Status: storage.TributeApproved, ReviewerID: "mod-1"})
	if !errors.Is(err, storage.ErrTributeNotPending) {
		t.Fatalf("error = %v, want ErrTributeNotPending", err)
	}

	resubmitted := newTribute("tr-3", "league-adept", "art-1", now.Add(time.Hour))
	resubmitted.SubmissionType = "art"
	resubmitted.SubmissionURL = "https://example.com/art-1"
	if err := store.CreateTribute(ctx, resubmitted); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if _, err := store.ReviewTribute(ctx, storage.TributeReview{TributeID: "tr-3", Status: storage.TributeApproved, ReviewerID: "mod-1"}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	approved, err := store.ApprovedTitleIDs(ctx, "trainer-1", "league")
	if err != nil {
		t.Fatalf("approved titles: %v", err)
	}
	if len(approved) != 1 || approved[0] != "league-adept" {
		t.Fatalf("approved = %v", approved)
	}

	latest, err := store.LatestTributes(ctx, "trainer-1", "league")
	if err != nil {
		t.Fatalf("latest tributes: %v", err)
	}
	if latest["league-adept"].ID != "tr-3" {
		t.Fatalf("latest = %+v, want tr-3", latest["league-adept"])
	}

	if err := store.ReopenTribute(ctx, "tr-3"); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened, _ := store.GetTribute(ctx, "tr-3")
	if reopened.Status != storage.TributePending {
		t.Fatalf("status = %q, want pending", reopened.Status)
	}
	if reopened.SubmissionType != "art" || reopened.SubmissionURL != "https://example.com/art-1" {
		t.Fatalf("offering = %q %q", reopened.SubmissionType, reopened.SubmissionURL)
	}

	if _, err := store.ReviewTribute(ctx, storage.TributeReview{TributeID: "missing", Status: storage.TributeApproved}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestListTributesFiltersAndPages(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		tribute := newTribute(fmt.Sprintf("tr-%d", i), fmt.Sprintf("league-title-%d", i), "", base.Add(time.Duration(i)*time.Minute))
		if err := store.CreateTribute(ctx, tribute); err != nil {
			t.Fatalf("create tribute %d: %v", i, err)
		}
	}
	if _, err := store.ReviewTribute(ctx, storage.TributeReview{TributeID: "tr-0", Status: storage.TributeApproved, ReviewerID: "mod"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	cond, err := filter.ParseTributeFilter(`status = "pending"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	first, err := store.ListTributes(ctx, cond, 3, "")
	if err != nil {
		t.Fatalf("list tributes: %v", err)
	}
	if len(first.Tributes) != 3 || first.Tributes[0].ID != "tr-1" || first.NextPageToken == "" {
		t.Fatalf("first page = %+v", first)
	}
	second, err := store.ListTributes(ctx, cond, 3, first.NextPageToken)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Tributes) != 1 || second.Tributes[0].ID != "tr-4" || second.NextPageToken != "" {
		t.Fatalf("second page = %+v", second)
	}

	if _, err := store.ListTributes(ctx, filter.Condition{}, 3, "%%%"); !errors.Is(err, storage.ErrInvalidPageToken) {
		t.Fatalf("error = %v, want ErrInvalidPageToken", err)
	}
}

func TestAuditEvents(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	for i, trainer := range []string{"trainer-1", "trainer-2", "trainer-1"} {
		err := store.AppendAuditEvent(ctx, storage.AuditEvent{
			EventName:        "standing.propagation_failed",
			Severity:         "warn",
			TrainerID:        trainer,
			FactionID:        "league",
			RelatedFactionID: "rangers",
			Delta:            i + 1,
			Attributes:       map[string]string{"error": "boom"},
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := store.ListAuditEvents(ctx, "standing.propagation_failed", "trainer-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 || events[0].Delta != 3 || events[0].Attributes["error"] != "boom" {
		t.Fatalf("events = %+v", events)
	}
	all, err := store.ListAuditEvents(ctx, "standing.propagation_failed", "", 10)
	if err != nil || len(all) != 3 {
		t.Fatalf("all events = %d, %v", len(all), err)
	}
}
