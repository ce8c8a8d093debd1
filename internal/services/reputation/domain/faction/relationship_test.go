package faction

import "testing"

func TestParseRelationshipType(t *testing.T) {
	tests := []struct {
		raw  string
		want RelationshipType
	}{
		{raw: "ally", want: RelationshipAlly},
		{raw: "Allied", want: RelationshipAlly},
		{raw: "rival", want: RelationshipRival},
		{raw: "enemy", want: RelationshipRival},
		{raw: "neutral", want: RelationshipNeutral},
		{raw: "", want: RelationshipNeutral},
	}
	for _, tt := range tests {
		got, err := ParseRelationshipType(tt.raw)
		if err != nil {
			t.Fatalf("ParseRelationshipType(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseRelationshipType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
	if _, err := ParseRelationshipType("frenemy"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestSecondaryDelta(t *testing.T) {
	tests := []struct {
		delta  int
		weight float64
		want   int
	}{
		{delta: 100, weight: -0.5, want: -50},
		{delta: 100, weight: 0.5, want: 50},
		{delta: 15, weight: 0.5, want: 7},
		{delta: -15, weight: 0.5, want: -7},
		{delta: 15, weight: -0.5, want: -7},
		{delta: 1, weight: 0.5, want: 0},
		{delta: 85, weight: 0.25, want: 21},
	}
	for _, tt := range tests {
		if got := SecondaryDelta(tt.delta, tt.weight); got != tt.want {
			t.Fatalf("SecondaryDelta(%d, %v) = %d, want %d", tt.delta, tt.weight, got, tt.want)
		}
	}
}

func TestRelationshipGraphEitherDirection(t *testing.T) {
	graph, err := NewRelationshipGraph([]string{"a", "b", "c"}, []Relationship{
		{FactionID: "a", RelatedFactionID: "b", Type: RelationshipRival},
		{FactionID: "c", RelatedFactionID: "b", Type: RelationshipAlly},
	})
	if err != nil {
		t.Fatalf("new graph: %v", err)
	}

	neighbors := graph.NeighborsOf("b")
	if len(neighbors) != 2 {
		t.Fatalf("neighbors of b = %d, want 2", len(neighbors))
	}
	if neighbors[0].FactionID != "a" || neighbors[0].Weight != -0.5 {
		t.Fatalf("neighbor[0] = %+v, want a/-0.5", neighbors[0])
	}
	if neighbors[1].FactionID != "c" || neighbors[1].Weight != 0.5 {
		t.Fatalf("neighbor[1] = %+v, want c/0.5", neighbors[1])
	}

	// a and c only meet through b.
	for _, n := range graph.NeighborsOf("a") {
		if n.FactionID == "c" {
			t.Fatal("a must not neighbor c")
		}
	}
}

func TestRelationshipGraphCollapsesDirections(t *testing.T) {
	graph, err := NewRelationshipGraph([]string{"a", "b"}, []Relationship{
		{FactionID: "a", RelatedFactionID: "b", Type: RelationshipAlly},
		{FactionID: "b", RelatedFactionID: "a", Type: RelationshipAlly},
	})
	if err != nil {
		t.Fatalf("new graph: %v", err)
	}
	if got := len(graph.Relationships()); got != 1 {
		t.Fatalf("edges = %d, want 1", got)
	}
	if got := len(graph.NeighborsOf("a")); got != 1 {
		t.Fatalf("neighbors of a = %d, want 1", got)
	}
}

func TestRelationshipGraphModifier(t *testing.T) {
	weight := 0.25
	graph, err := NewRelationshipGraph([]string{"a", "b"}, []Relationship{
		{FactionID: "a", RelatedFactionID: "b", Type: RelationshipAlly, Modifier: &weight},
	})
	if err != nil {
		t.Fatalf("new graph: %v", err)
	}
	if got := graph.NeighborsOf("b")[0].Weight; got != 0.25 {
		t.Fatalf("weight = %v, want 0.25", got)
	}
}

func TestNeighborPropagates(t *testing.T) {
	if (Neighbor{Type: RelationshipNeutral}).Propagates() {
		t.Fatal("neutral must not propagate")
	}
	if !(Neighbor{Type: RelationshipRival, Weight: -0.5}).Propagates() {
		t.Fatal("rival must propagate")
	}
}

func TestNewRelationshipGraphRejectsInvalid(t *testing.T) {
	bad := -0.5
	tests := []struct {
		name string
		rels []Relationship
	}{
		{name: "self", rels: []Relationship{{FactionID: "a", RelatedFactionID: "a", Type: RelationshipAlly}}},
		{name: "unknown", rels: []Relationship{{FactionID: "a", RelatedFactionID: "z", Type: RelationshipAlly}}},
		{name: "disagreeing directions", rels: []Relationship{
			{FactionID: "a", RelatedFactionID: "b", Type: RelationshipAlly},
			{FactionID: "b", RelatedFactionID: "a", Type: RelationshipRival},
		}},
		{name: "ally with negative modifier", rels: []Relationship{
			{FactionID: "a", RelatedFactionID: "b", Type: RelationshipAlly, Modifier: &bad},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRelationshipGraph([]string{"a", "b"}, tt.rels); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
