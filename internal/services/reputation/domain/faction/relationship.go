package faction

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// RelationshipType classifies how two factions regard each other.
type RelationshipType string

const (
	RelationshipAlly    RelationshipType = "ally"
	RelationshipRival   RelationshipType = "rival"
	RelationshipNeutral RelationshipType = "neutral"
)

// ParseRelationshipType normalizes catalog spellings, accepting "allied" and
// "enemy" as aliases.
func ParseRelationshipType(raw string) (RelationshipType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ally", "allied":
		return RelationshipAlly, nil
	case "rival", "enemy":
		return RelationshipRival, nil
	case "neutral", "":
		return RelationshipNeutral, nil
	default:
		return "", fmt.Errorf("unknown relationship type %q", raw)
	}
}

// DefaultWeight is the propagation multiplier for a relationship type.
func (t RelationshipType) DefaultWeight() float64 {
	switch t {
	case RelationshipAlly:
		return 0.5
	case RelationshipRival:
		return -0.5
	default:
		return 0
	}
}

// Relationship is one catalog edge. Modifier, when set, replaces the default weight.
type Relationship struct {
	FactionID        string
	RelatedFactionID string
	Type             RelationshipType
	Modifier         *float64
}

// Weight returns the effective propagation multiplier.
func (r Relationship) Weight() float64 {
	if r.Modifier != nil {
		return *r.Modifier
	}
	return r.Type.DefaultWeight()
}

// Neighbor is a faction adjacent to another in the relationship graph.
type Neighbor struct {
	FactionID string
	Type      RelationshipType
	Weight    float64
}

// Propagates reports whether a delta should flow to this neighbor.
func (n Neighbor) Propagates() bool {
	return n.Type != RelationshipNeutral && n.Weight != 0
}

// SecondaryDelta scales delta by weight, rounding toward zero.
func SecondaryDelta(delta int, weight float64) int {
	return int(math.Trunc(float64(delta) * weight))
}

// RelationshipGraph is the undirected faction adjacency used for propagation.
type RelationshipGraph struct {
	edges []Relationship
	adj   map[string][]Neighbor
}

// NewRelationshipGraph collapses per-direction catalog entries into one edge
// per pair. Both directions of a pair must agree.
func NewRelationshipGraph(factionIDs []string, relationships []Relationship) (*RelationshipGraph, error) {
	known := make(map[string]struct{}, len(factionIDs))
	for _, id := range factionIDs {
		known[id] = struct{}{}
	}

	byPair := make(map[[2]string]Relationship)
	var order [][2]string
	for _, rel := range relationships {
		if _, ok := known[rel.FactionID]; !ok {
			return nil, fmt.Errorf("relationship references unknown faction %q", rel.FactionID)
		}
		if _, ok := known[rel.RelatedFactionID]; !ok {
			return nil, fmt.Errorf("relationship references unknown faction %q", rel.RelatedFactionID)
		}
		if rel.FactionID == rel.RelatedFactionID {
			return nil, fmt.Errorf("faction %q cannot relate to itself", rel.FactionID)
		}
		if err := validateWeight(rel); err != nil {
			return nil, err
		}

		key := pairKey(rel.FactionID, rel.RelatedFactionID)
		if existing, ok := byPair[key]; ok {
			if existing.Type != rel.Type || existing.Weight() != rel.Weight() {
				return nil, fmt.Errorf("relationship %s/%s disagrees between directions", key[0], key[1])
			}
			continue
		}
		byPair[key] = rel
		order = append(order, key)
	}

	g := &RelationshipGraph{adj: make(map[string][]Neighbor)}
	for _, key := range order {
		rel := byPair[key]
		g.edges = append(g.edges, rel)
		weight := rel.Weight()
		g.adj[rel.FactionID] = append(g.adj[rel.FactionID], Neighbor{FactionID: rel.RelatedFactionID, Type: rel.Type, Weight: weight})
		g.adj[rel.RelatedFactionID] = append(g.adj[rel.RelatedFactionID], Neighbor{FactionID: rel.FactionID, Type: rel.Type, Weight: weight})
	}
	for id := range g.adj {
		neighbors := g.adj[id]
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].FactionID < neighbors[j].FactionID })
	}
	return g, nil
}

// NeighborsOf returns every faction related to factionID, whichever direction
// the catalog stored the relationship in.
func (g *RelationshipGraph) NeighborsOf(factionID string) []Neighbor {
	neighbors := g.adj[factionID]
	out := make([]Neighbor, len(neighbors))
	copy(out, neighbors)
	return out
}

// Relationships returns the collapsed edges in catalog order.
func (g *RelationshipGraph) Relationships() []Relationship {
	out := make([]Relationship, len(g.edges))
	copy(out, g.edges)
	return out
}

func validateWeight(rel Relationship) error {
	if rel.Modifier == nil {
		return nil
	}
	w := *rel.Modifier
	if math.IsNaN(w) || w < -1 || w > 1 {
		return fmt.Errorf("relationship %s/%s: modifier %v outside [-1, 1]", rel.FactionID, rel.RelatedFactionID, w)
	}
	switch rel.Type {
	case RelationshipAlly:
		if w <= 0 {
			return fmt.Errorf("relationship %s/%s: ally modifier must be positive", rel.FactionID, rel.RelatedFactionID)
		}
	case RelationshipRival:
		if w >= 0 {
			return fmt.Errorf("relationship %s/%s: rival modifier must be negative", rel.FactionID, rel.RelatedFactionID)
		}
	case RelationshipNeutral:
		if w != 0 {
			return fmt.Errorf("relationship %s/%s: neutral modifier must be zero", rel.FactionID, rel.RelatedFactionID)
		}
	}
	return nil
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
