package faction

import (
	"fmt"
	"sort"
)

// Title is a named rank unlocked at a standing threshold.
type Title struct {
	ID          string
	FactionID   string
	Name        string
	Description string
	// StandingRequirement is signed. Negative thresholds belong to
	// negative-polarity titles.
	StandingRequirement int
	IsPositive          bool
	RequiresTribute     bool
	TributeRequirements []Requirement
	TributePrompt       string
}

// ApprovedTitles is the set of tribute-gated title ids a trainer has unlocked.
type ApprovedTitles map[string]struct{}

// NewApprovedTitles builds a set from title ids.
func NewApprovedTitles(ids ...string) ApprovedTitles {
	set := make(ApprovedTitles, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is approved. A nil set approves nothing.
func (a ApprovedTitles) Has(id string) bool {
	_, ok := a[id]
	return ok
}

// Resolution is the outcome of resolving a standing value to a title.
type Resolution struct {
	// Title is the granted title, nil when nothing qualifies.
	Title *Title
	// Pending is the best qualifying title held back by an unapproved tribute.
	Pending *Title
}

// TitleID returns the granted title id or "".
func (r Resolution) TitleID() string {
	if r.Title == nil {
		return ""
	}
	return r.Title.ID
}

// TitleCatalog holds each faction's titles ordered by requirement ascending.
type TitleCatalog struct {
	byFaction map[string][]Title
	byID      map[string]Title
}

// NewTitleCatalog validates and indexes titles.
func NewTitleCatalog(titles []Title) (*TitleCatalog, error) {
	c := &TitleCatalog{
		byFaction: make(map[string][]Title),
		byID:      make(map[string]Title, len(titles)),
	}
	thresholds := make(map[string]map[int]string)
	for _, title := range titles {
		if title.ID == "" {
			return nil, fmt.Errorf("title id is required")
		}
		if title.FactionID == "" {
			return nil, fmt.Errorf("title %s: faction id is required", title.ID)
		}
		if _, dup := c.byID[title.ID]; dup {
			return nil, fmt.Errorf("title %s: duplicate id", title.ID)
		}
		if title.StandingRequirement < MinStanding || title.StandingRequirement > MaxStanding {
			return nil, fmt.Errorf("title %s: requirement %d outside [%d, %d]", title.ID, title.StandingRequirement, MinStanding, MaxStanding)
		}
		if title.IsPositive != (title.StandingRequirement >= 0) {
			return nil, fmt.Errorf("title %s: polarity does not match requirement %d", title.ID, title.StandingRequirement)
		}
		if title.RequiresTribute && !title.IsPositive {
			return nil, fmt.Errorf("title %s: negative titles cannot require tribute", title.ID)
		}
		if !title.RequiresTribute && len(title.TributeRequirements) > 0 {
			return nil, fmt.Errorf("title %s: tribute requirements on an ungated title", title.ID)
		}
		if err := ValidateRequirements(title.TributeRequirements); err != nil {
			return nil, fmt.Errorf("title %s: %w", title.ID, err)
		}
		seen := thresholds[title.FactionID]
		if seen == nil {
			seen = make(map[int]string)
			thresholds[title.FactionID] = seen
		}
		if other, dup := seen[title.StandingRequirement]; dup {
			return nil, fmt.Errorf("title %s: requirement %d already used by %s", title.ID, title.StandingRequirement, other)
		}
		seen[title.StandingRequirement] = title.ID

		c.byID[title.ID] = title
		c.byFaction[title.FactionID] = append(c.byFaction[title.FactionID], title)
	}
	for factionID := range c.byFaction {
		ladder := c.byFaction[factionID]
		sort.Slice(ladder, func(i, j int) bool {
			return ladder[i].StandingRequirement < ladder[j].StandingRequirement
		})
	}
	return c, nil
}

// Title returns a title by id.
func (c *TitleCatalog) Title(id string) (Title, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Titles returns a faction's titles ordered by requirement ascending.
func (c *TitleCatalog) Titles(factionID string) []Title {
	ladder := c.byFaction[factionID]
	out := make([]Title, len(ladder))
	copy(out, ladder)
	return out
}

// Resolve picks the title a standing value earns.
//
// Non-negative standing earns the highest positive title whose requirement is
// at or below it. Negative standing earns the most severe negative title whose
// requirement is at or above it. An unapproved tribute-gated winner is
// reported as Pending and resolution falls back to the next candidate that is
// ungated or approved.
func (c *TitleCatalog) Resolve(factionID string, value int, approved ApprovedTitles) Resolution {
	ladder := c.byFaction[factionID]
	var res Resolution
	consider := func(t Title) bool {
		if !t.RequiresTribute || approved.Has(t.ID) {
			granted := t
			res.Title = &granted
			return true
		}
		if res.Pending == nil {
			pending := t
			res.Pending = &pending
		}
		return false
	}

	if value >= 0 {
		for i := len(ladder) - 1; i >= 0; i-- {
			t := ladder[i]
			if !t.IsPositive || t.StandingRequirement > value {
				continue
			}
			if consider(t) {
				break
			}
		}
		return res
	}
	for _, t := range ladder {
		if t.IsPositive || t.StandingRequirement < value {
			continue
		}
		if consider(t) {
			break
		}
	}
	return res
}

// NextPositiveTitle returns the title a trainer is working toward: the pending
// tribute title when one exists, otherwise the lowest positive title above value.
func (c *TitleCatalog) NextPositiveTitle(factionID string, value int, pending *Title) *Title {
	if pending != nil {
		next := *pending
		return &next
	}
	for _, t := range c.byFaction[factionID] {
		if t.IsPositive && t.StandingRequirement > value {
			next := t
			return &next
		}
	}
	return nil
}

// Available reports whether value meets t's threshold in t's polarity.
func Available(t Title, value int) bool {
	if t.IsPositive {
		return value >= 0 && t.StandingRequirement <= value
	}
	return value < 0 && t.StandingRequirement >= value
}
