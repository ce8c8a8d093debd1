package standing

import (
	"context"
	"testing"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		value int
		want  float64
	}{
		{-1000, 0},
		{-500, 25},
		{0, 50},
		{600, 80},
		{1000, 100},
	}
	for _, tt := range tests {
		if got := ProgressPercent(tt.value); got != tt.want {
			t.Fatalf("ProgressPercent(%d) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestProjectDefault(t *testing.T) {
	store := newFakeStandingStore()
	engine := newTestEngine(t, store, nil)

	p, err := engine.Project(context.Background(), "trainer-1", "alpha")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if p.Standing != 0 || p.ProgressPercent != 50 {
		t.Fatalf("projection = %d/%v, want 0/50", p.Standing, p.ProgressPercent)
	}
	if p.CurrentTitle == nil || p.CurrentTitle.ID != "alpha-neutral" {
		t.Fatalf("current title = %+v, want alpha-neutral", p.CurrentTitle)
	}
	if p.NextPositiveTitle == nil || p.NextPositiveTitle.ID != "alpha-adept" {
		t.Fatalf("next title = %+v, want alpha-adept", p.NextPositiveTitle)
	}
	if store.persisted("trainer-1", "alpha") {
		t.Fatalf("projection persisted a record")
	}
}

func TestProjectPendingTribute(t *testing.T) {
	store := newFakeStandingStore()
	engine := newTestEngine(t, store, nil)
	ctx := context.Background()

	if _, err := engine.ApplyEvent(ctx, "trainer-1", "alpha", 600, "test"); err != nil {
		t.Fatalf("apply event: %v", err)
	}
	p, err := engine.Project(ctx, "trainer-1", "alpha")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if p.PendingTributeTitle == nil || p.PendingTributeTitle.ID != "alpha-adept" {
		t.Fatalf("pending = %+v, want alpha-adept", p.PendingTributeTitle)
	}
	if p.NextPositiveTitle == nil || p.NextPositiveTitle.ID != "alpha-adept" {
		t.Fatalf("next = %+v, want alpha-adept", p.NextPositiveTitle)
	}
	if p.CurrentTitle == nil || p.CurrentTitle.ID != "alpha-neutral" {
		t.Fatalf("current = %+v, want alpha-neutral", p.CurrentTitle)
	}

	store.approved["trainer-1/alpha"] = []string{"alpha-adept"}
	p, err = engine.Project(ctx, "trainer-1", "alpha")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if p.NextPositiveTitle == nil || p.NextPositiveTitle.ID != "alpha-champion" {
		t.Fatalf("next = %+v, want alpha-champion", p.NextPositiveTitle)
	}
}

func TestProjectAll(t *testing.T) {
	store := newFakeStandingStore()
	engine := newTestEngine(t, store, nil)
	ctx := context.Background()

	if _, err := engine.ApplyEvent(ctx, "trainer-1", "alpha", 100, "test"); err != nil {
		t.Fatalf("apply event: %v", err)
	}
	projections, err := engine.ProjectAll(ctx, "trainer-1")
	if err != nil {
		t.Fatalf("project all: %v", err)
	}
	if len(projections) != 5 {
		t.Fatalf("projections = %d, want 5", len(projections))
	}
	want := map[string]int{"alpha": 100, "bravo": -50, "charlie": 0, "delta": 50, "echo": 0}
	for _, p := range projections {
		if p.Standing != want[p.FactionID] {
			t.Fatalf("%s = %d, want %d", p.FactionID, p.Standing, want[p.FactionID])
		}
	}
}

func TestUnlocked(t *testing.T) {
	catalog := testCatalog(t)
	title := func(id string) faction.Title {
		t.Helper()
		tt, ok := catalog.Titles().Title(id)
		if !ok {
			t.Fatalf("title %s missing", id)
		}
		return tt
	}
	neutral, adept, champion, distrusted := title("alpha-neutral"), title("alpha-adept"), title("alpha-champion"), title("alpha-distrusted")

	tests := []struct {
		name  string
		p     Projection
		title faction.Title
		want  bool
	}{
		{name: "current", p: Projection{Standing: 600, CurrentTitle: &adept}, title: adept, want: true},
		{name: "gated above current", p: Projection{Standing: 600, CurrentTitle: &neutral}, title: adept, want: false},
		{name: "gated passed by higher title", p: Projection{Standing: 1000, CurrentTitle: &champion}, title: adept, want: true},
		{name: "ungated threshold met", p: Projection{Standing: 0}, title: neutral, want: true},
		{name: "ungated threshold missed", p: Projection{Standing: 999, CurrentTitle: &neutral}, title: champion, want: false},
		{name: "negative polarity", p: Projection{Standing: -300}, title: distrusted, want: true},
		{name: "negative from positive side", p: Projection{Standing: 100, CurrentTitle: &neutral}, title: distrusted, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Unlocked(tt.title); got != tt.want {
				t.Fatalf("Unlocked = %v, want %v", got, tt.want)
			}
		})
	}
}
