package faction

import (
	"fmt"
	"sort"
)

// Standing bounds shared by every faction.
const (
	MinStanding = -1000
	MaxStanding = 1000
)

// Catalog is the immutable, validated set of factions and everything hanging
// off them. It is safe for concurrent reads.
type Catalog struct {
	factions    []Faction
	factionByID map[string]Faction

	titles *TitleCatalog
	graph  *RelationshipGraph

	people        map[string]Person
	peopleBy      map[string][]Person
	prompts       map[string]Prompt
	promptsBy     map[string][]Prompt
	storeItemsBy  map[string][]StoreItem
	storeItemByID map[string]StoreItem
}

// Parts are the raw records a Catalog is assembled from.
type Parts struct {
	Factions      []Faction
	Titles        []Title
	Relationships []Relationship
	People        []Person
	Prompts       []Prompt
	StoreItems    []StoreItem
}

// NewCatalog validates parts and builds the lookup indexes.
func NewCatalog(parts Parts) (*Catalog, error) {
	c := &Catalog{
		factionByID:   make(map[string]Faction, len(parts.Factions)),
		people:        make(map[string]Person),
		peopleBy:      make(map[string][]Person),
		prompts:       make(map[string]Prompt),
		promptsBy:     make(map[string][]Prompt),
		storeItemsBy:  make(map[string][]StoreItem),
		storeItemByID: make(map[string]StoreItem),
	}
	ids := make([]string, 0, len(parts.Factions))
	for _, f := range parts.Factions {
		if f.ID == "" {
			return nil, fmt.Errorf("faction id is required")
		}
		if f.Name == "" {
			return nil, fmt.Errorf("faction %s: name is required", f.ID)
		}
		if _, dup := c.factionByID[f.ID]; dup {
			return nil, fmt.Errorf("faction %s: duplicate id", f.ID)
		}
		c.factionByID[f.ID] = f
		c.factions = append(c.factions, f)
		ids = append(ids, f.ID)
	}

	for _, t := range parts.Titles {
		if _, ok := c.factionByID[t.FactionID]; !ok {
			return nil, fmt.Errorf("title %s: unknown faction %q", t.ID, t.FactionID)
		}
	}
	titles, err := NewTitleCatalog(parts.Titles)
	if err != nil {
		return nil, err
	}
	c.titles = titles

	graph, err := NewRelationshipGraph(ids, parts.Relationships)
	if err != nil {
		return nil, err
	}
	c.graph = graph

	for _, p := range parts.People {
		if p.ID == "" {
			return nil, fmt.Errorf("person id is required")
		}
		if _, ok := c.factionByID[p.FactionID]; !ok {
			return nil, fmt.Errorf("person %s: unknown faction %q", p.ID, p.FactionID)
		}
		if _, dup := c.people[p.ID]; dup {
			return nil, fmt.Errorf("person %s: duplicate id", p.ID)
		}
		if p.Alias == "" {
			return nil, fmt.Errorf("person %s: alias is required", p.ID)
		}
		if p.StandingRequirement < MinStanding || p.StandingRequirement > MaxStanding {
			return nil, fmt.Errorf("person %s: requirement %d out of range", p.ID, p.StandingRequirement)
		}
		c.people[p.ID] = p
		c.peopleBy[p.FactionID] = append(c.peopleBy[p.FactionID], p)
	}

	for _, p := range parts.Prompts {
		if p.ID == "" {
			return nil, fmt.Errorf("prompt id is required")
		}
		if _, ok := c.factionByID[p.FactionID]; !ok {
			return nil, fmt.Errorf("prompt %s: unknown faction %q", p.ID, p.FactionID)
		}
		if _, dup := c.prompts[p.ID]; dup {
			return nil, fmt.Errorf("prompt %s: duplicate id", p.ID)
		}
		if err := c.checkRequiredTitle(p.FactionID, p.RequiredTitleID); err != nil {
			return nil, fmt.Errorf("prompt %s: %w", p.ID, err)
		}
		c.prompts[p.ID] = p
		c.promptsBy[p.FactionID] = append(c.promptsBy[p.FactionID], p)
	}

	for _, item := range parts.StoreItems {
		if item.ID == "" {
			return nil, fmt.Errorf("store item id is required")
		}
		if _, ok := c.factionByID[item.FactionID]; !ok {
			return nil, fmt.Errorf("store item %s: unknown faction %q", item.ID, item.FactionID)
		}
		if _, dup := c.storeItemByID[item.ID]; dup {
			return nil, fmt.Errorf("store item %s: duplicate id", item.ID)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("store item %s: negative price", item.ID)
		}
		if err := c.checkRequiredTitle(item.FactionID, item.RequiredTitleID); err != nil {
			return nil, fmt.Errorf("store item %s: %w", item.ID, err)
		}
		c.storeItemByID[item.ID] = item
		c.storeItemsBy[item.FactionID] = append(c.storeItemsBy[item.FactionID], item)
	}
	for factionID := range c.storeItemsBy {
		items := c.storeItemsBy[factionID]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].StandingRequirement < items[j].StandingRequirement
		})
	}
	return c, nil
}

func (c *Catalog) checkRequiredTitle(factionID, titleID string) error {
	if titleID == "" {
		return nil
	}
	t, ok := c.titles.Title(titleID)
	if !ok {
		return fmt.Errorf("unknown required title %q", titleID)
	}
	if t.FactionID != factionID {
		return fmt.Errorf("required title %q belongs to faction %q", titleID, t.FactionID)
	}
	return nil
}

// Titles exposes the title ladders.
func (c *Catalog) Titles() *TitleCatalog { return c.titles }

// Graph exposes the relationship graph.
func (c *Catalog) Graph() *RelationshipGraph { return c.graph }

// Factions returns every faction in catalog order.
func (c *Catalog) Factions() []Faction {
	out := make([]Faction, len(c.factions))
	copy(out, c.factions)
	return out
}

// Faction returns one faction by id.
func (c *Catalog) Faction(id string) (Faction, bool) {
	f, ok := c.factionByID[id]
	return f, ok
}

// Person returns one person by id.
func (c *Catalog) Person(id string) (Person, bool) {
	p, ok := c.people[id]
	return p, ok
}

// People returns a faction's people in catalog order.
func (c *Catalog) People(factionID string) []Person {
	return append([]Person(nil), c.peopleBy[factionID]...)
}

// Prompt returns one prompt by id.
func (c *Catalog) Prompt(id string) (Prompt, bool) {
	p, ok := c.prompts[id]
	return p, ok
}

// Prompts returns a faction's prompts in catalog order.
func (c *Catalog) Prompts(factionID string) []Prompt {
	return append([]Prompt(nil), c.promptsBy[factionID]...)
}

// StoreItems returns a faction's store items ordered by requirement.
func (c *Catalog) StoreItems(factionID string) []StoreItem {
	return append([]StoreItem(nil), c.storeItemsBy[factionID]...)
}
