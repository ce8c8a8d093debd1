// Package reputationtest provides shared fixtures for reputation domain tests.
package reputationtest

import (
	"path/filepath"
	"testing"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/storage/sqlite"
)

// Catalog returns a small catalog centred on faction "alpha".
//
// alpha is rivals with bravo and allied with delta. Its ladder is Neutral 0,
// Adept 500 (tribute), Expert 800 (tribute), Champion 1000 and
// Distrusted -200.
func Catalog(t *testing.T) *faction.Catalog {
	t.Helper()
	catalog, err := faction.NewCatalog(faction.Parts{
		Factions: []faction.Faction{
			{ID: "alpha", Name: "Alpha"},
			{ID: "bravo", Name: "Bravo"},
			{ID: "delta", Name: "Delta"},
		},
		Titles: []faction.Title{
			{ID: "alpha-neutral", FactionID: "alpha", Name: "Neutral", StandingRequirement: 0, IsPositive: true},
			{ID: "alpha-adept", FactionID: "alpha", Name: "Adept", StandingRequirement: 500, IsPositive: true, RequiresTribute: true,
				TributePrompt: "Bring proof of your craft.",
				TributeRequirements: []faction.Requirement{
					{Kind: faction.RequirementItem, Name: "Rare Candy", Quantity: 2},
					{Kind: faction.RequirementCurrency, Amount: 500},
				}},
			{ID: "alpha-expert", FactionID: "alpha", Name: "Expert", StandingRequirement: 800, IsPositive: true, RequiresTribute: true,
				TributeRequirements: []faction.Requirement{{Kind: faction.RequirementCurrency, Amount: 1000}}},
			{ID: "alpha-champion", FactionID: "alpha", Name: "Champion", StandingRequirement: 1000, IsPositive: true},
			{ID: "alpha-distrusted", FactionID: "alpha", Name: "Distrusted", StandingRequirement: -200, IsPositive: false},
		},
		Relationships: []faction.Relationship{
			{FactionID: "alpha", RelatedFactionID: "bravo", Type: faction.RelationshipRival},
			{FactionID: "alpha", RelatedFactionID: "delta", Type: faction.RelationshipAlly},
		},
		People: []faction.Person{
			{ID: "alpha-guide", FactionID: "alpha", Alias: "The Guide", Name: "Mira", StandingRequirement: 100, StandingReward: 30},
			{ID: "alpha-scout", FactionID: "alpha", Alias: "The Scout", Name: "Oren", StandingRequirement: 0, StandingReward: 30},
			{ID: "alpha-fence", FactionID: "alpha", Alias: "The Fence", Name: "Vex", StandingRequirement: -200, StandingReward: -20},
		},
		Prompts: []faction.Prompt{
			{ID: "alpha-heist", FactionID: "alpha", Title: "Heist", Modifier: 15, Active: true},
			{ID: "alpha-retired", FactionID: "alpha", Title: "Retired", Modifier: 5},
			{ID: "alpha-elite", FactionID: "alpha", Title: "Elite", Modifier: 25, Active: true, RequiredTitleID: "alpha-adept"},
			{ID: "bravo-raid", FactionID: "bravo", Title: "Raid", Modifier: -5, Active: true},
		},
		StoreItems: []faction.StoreItem{
			{ID: "alpha-potion", FactionID: "alpha", Name: "Potion", ItemType: "item", Price: 100, StandingRequirement: 0, Active: true},
			{ID: "alpha-cloak", FactionID: "alpha", Name: "Cloak", ItemType: "item", Price: 400, StandingRequirement: 300, Active: true},
			{ID: "alpha-crown", FactionID: "alpha", Name: "Crown", ItemType: "item", Price: 900, StandingRequirement: 500, RequiredTitleID: "alpha-adept", Active: true},
			{ID: "alpha-relic", FactionID: "alpha", Name: "Relic", ItemType: "item", Price: 50, StandingRequirement: 0},
		},
	})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	return catalog
}

// OpenStore opens a SQLite store in a temp dir and closes it on cleanup.
func OpenStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "reputation.db"))
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

// NewEngine builds a standing engine backed by store.
func NewEngine(t *testing.T, catalog *faction.Catalog, store *sqlite.Store) *standing.Engine {
	t.Helper()
	engine, err := standing.New(standing.Config{Catalog: catalog, Standings: store, Approvals: store})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
