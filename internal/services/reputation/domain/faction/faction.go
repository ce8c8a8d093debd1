// Package faction models the read-only faction catalog: factions, their title
// ladders, relationships, people, prompts and store items.
package faction

// Faction is one in-world organization trainers build standing with.
type Faction struct {
	ID          string
	Name        string
	Description string
	Color       string
	BannerImage string
	IconImage   string
}

// Person is a faction NPC a trainer can meet once.
type Person struct {
	ID          string
	FactionID   string
	Alias       string
	Name        string
	Description string
	// StandingRequirement is the threshold that makes the person meetable.
	// Negative requirements are met by standing at or below the threshold.
	StandingRequirement int
	// StandingReward is granted once per trainer on the first meeting.
	StandingReward int
}

// MeetableAt reports whether a standing value satisfies the person's threshold.
func (p Person) MeetableAt(value int) bool {
	if p.StandingRequirement < 0 {
		return value <= p.StandingRequirement
	}
	return value >= p.StandingRequirement
}

// Prompt is a faction-specific submission theme that adjusts the score.
type Prompt struct {
	ID              string
	FactionID       string
	Title           string
	Description     string
	Modifier        int
	Active          bool
	RequiredTitleID string
}

// StoreItem is an item a faction sells to trainers in good standing.
type StoreItem struct {
	ID                  string
	FactionID           string
	Name                string
	Description         string
	ItemType            string
	Price               int
	StandingRequirement int
	RequiredTitleID     string
	Active              bool
}
