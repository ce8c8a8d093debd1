package faction

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.schema.json
var schemaJSON string

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

const schemaURL = "catalog.schema.json"

type document struct {
	Ladders       map[string][]ladderStep `yaml:"ladders"`
	Factions      []factionDoc            `yaml:"factions"`
	Relationships []relationshipDoc       `yaml:"relationships"`
}

type ladderStep struct {
	Slug                string `yaml:"slug"`
	Name                string `yaml:"name"`
	Description         string `yaml:"description"`
	StandingRequirement int    `yaml:"standing_requirement"`
}

type tributeGateDoc struct {
	StandingRequirement int              `yaml:"standing_requirement"`
	Requirements        []requirementDoc `yaml:"requirements"`
	Prompt              string           `yaml:"prompt"`
}

type requirementDoc struct {
	Kind     string `yaml:"kind"`
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
	Amount   int    `yaml:"amount"`
}

type titleDoc struct {
	ID                  string           `yaml:"id"`
	Name                string           `yaml:"name"`
	Description         string           `yaml:"description"`
	StandingRequirement int              `yaml:"standing_requirement"`
	IsPositive          *bool            `yaml:"is_positive"`
	RequiresTribute     bool             `yaml:"requires_tribute"`
	TributeRequirements []requirementDoc `yaml:"tribute_requirements"`
	TributePrompt       string           `yaml:"tribute_prompt"`
}

type personDoc struct {
	ID                  string `yaml:"id"`
	Alias               string `yaml:"alias"`
	Name                string `yaml:"name"`
	Description         string `yaml:"description"`
	StandingRequirement int    `yaml:"standing_requirement"`
	StandingReward      int    `yaml:"standing_reward"`
}

type promptDoc struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	Modifier        int    `yaml:"modifier"`
	Active          *bool  `yaml:"active"`
	RequiredTitleID string `yaml:"required_title_id"`
}

type storeItemDoc struct {
	ID                  string `yaml:"id"`
	Name                string `yaml:"name"`
	Description         string `yaml:"description"`
	ItemType            string `yaml:"item_type"`
	Price               int    `yaml:"price"`
	StandingRequirement int    `yaml:"standing_requirement"`
	RequiredTitleID     string `yaml:"required_title_id"`
	Active              *bool  `yaml:"active"`
}

type factionDoc struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Description  string           `yaml:"description"`
	Color        string           `yaml:"color"`
	BannerImage  string           `yaml:"banner_image"`
	IconImage    string           `yaml:"icon_image"`
	Ladder       string           `yaml:"ladder"`
	TributeGates []tributeGateDoc `yaml:"tribute_gates"`
	Titles       []titleDoc       `yaml:"titles"`
	People       []personDoc      `yaml:"people"`
	Prompts      []promptDoc      `yaml:"prompts"`
	StoreItems   []storeItemDoc   `yaml:"store_items"`
}

type relationshipDoc struct {
	FactionID        string   `yaml:"faction_id"`
	RelatedFactionID string   `yaml:"related_faction_id"`
	Type             string   `yaml:"type"`
	Modifier         *float64 `yaml:"modifier"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalogYAML))
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML catalog, validates it against the catalog schema and
// then against the semantic rules enforced by NewCatalog.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	parts, err := doc.parts()
	if err != nil {
		return nil, err
	}
	catalog, err := NewCatalog(parts)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return catalog, nil
}

func validateSchema(raw []byte) error {
	schema, err := jsonschema.CompileString(schemaURL, schemaJSON)
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	// Round-trip through JSON so the validator sees JSON-native types.
	asJSON, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("catalog is not JSON compatible: %w", err)
	}
	var instance any
	if err := json.Unmarshal(asJSON, &instance); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("catalog schema: %w", err)
	}
	return nil
}

func (d document) parts() (Parts, error) {
	var parts Parts
	for _, f := range d.Factions {
		parts.Factions = append(parts.Factions, Faction{
			ID:          f.ID,
			Name:        f.Name,
			Description: f.Description,
			Color:       f.Color,
			BannerImage: f.BannerImage,
			IconImage:   f.IconImage,
		})

		titles, err := d.factionTitles(f)
		if err != nil {
			return Parts{}, err
		}
		parts.Titles = append(parts.Titles, titles...)

		for _, p := range f.People {
			parts.People = append(parts.People, Person{
				ID:                  p.ID,
				FactionID:           f.ID,
				Alias:               p.Alias,
				Name:                p.Name,
				Description:         p.Description,
				StandingRequirement: p.StandingRequirement,
				StandingReward:      p.StandingReward,
			})
		}
		for _, p := range f.Prompts {
			parts.Prompts = append(parts.Prompts, Prompt{
				ID:              p.ID,
				FactionID:       f.ID,
				Title:           p.Title,
				Description:     p.Description,
				Modifier:        p.Modifier,
				Active:          p.Active == nil || *p.Active,
				RequiredTitleID: p.RequiredTitleID,
			})
		}
		for _, item := range f.StoreItems {
			parts.StoreItems = append(parts.StoreItems, StoreItem{
				ID:                  item.ID,
				FactionID:           f.ID,
				Name:                item.Name,
				Description:         item.Description,
				ItemType:            item.ItemType,
				Price:               item.Price,
				StandingRequirement: item.StandingRequirement,
				RequiredTitleID:     item.RequiredTitleID,
				Active:              item.Active == nil || *item.Active,
			})
		}
	}

	for _, r := range d.Relationships {
		relType, err := ParseRelationshipType(r.Type)
		if err != nil {
			return Parts{}, fmt.Errorf("relationship %s/%s: %w", r.FactionID, r.RelatedFactionID, err)
		}
		parts.Relationships = append(parts.Relationships, Relationship{
			FactionID:        r.FactionID,
			RelatedFactionID: r.RelatedFactionID,
			Type:             relType,
			Modifier:         r.Modifier,
		})
	}
	return parts, nil
}

// factionTitles expands the shared ladder, applies tribute gates, and appends
// the faction's own titles.
func (d document) factionTitles(f factionDoc) ([]Title, error) {
	var titles []Title
	if f.Ladder != "" {
		steps, ok := d.Ladders[f.Ladder]
		if !ok {
			return nil, fmt.Errorf("faction %s: unknown ladder %q", f.ID, f.Ladder)
		}
		for _, step := range steps {
			titles = append(titles, Title{
				ID:                  f.ID + "-" + step.Slug,
				FactionID:           f.ID,
				Name:                step.Name,
				Description:         step.Description,
				StandingRequirement: step.StandingRequirement,
				IsPositive:          step.StandingRequirement >= 0,
			})
		}
	}
	for _, t := range f.Titles {
		positive := t.StandingRequirement >= 0
		if t.IsPositive != nil {
			positive = *t.IsPositive
		}
		reqs, err := toRequirements(t.TributeRequirements)
		if err != nil {
			return nil, fmt.Errorf("title %s: %w", t.ID, err)
		}
		titles = append(titles, Title{
			ID:                  t.ID,
			FactionID:           f.ID,
			Name:                t.Name,
			Description:         t.Description,
			StandingRequirement: t.StandingRequirement,
			IsPositive:          positive,
			RequiresTribute:     t.RequiresTribute,
			TributeRequirements: reqs,
			TributePrompt:       t.TributePrompt,
		})
	}

	for _, gate := range f.TributeGates {
		reqs, err := toRequirements(gate.Requirements)
		if err != nil {
			return nil, fmt.Errorf("faction %s gate %d: %w", f.ID, gate.StandingRequirement, err)
		}
		matched := false
		for i := range titles {
			if titles[i].StandingRequirement != gate.StandingRequirement {
				continue
			}
			titles[i].RequiresTribute = true
			titles[i].TributeRequirements = reqs
			titles[i].TributePrompt = gate.Prompt
			matched = true
		}
		if !matched {
			return nil, fmt.Errorf("faction %s: tribute gate %d matches no title", f.ID, gate.StandingRequirement)
		}
	}
	return titles, nil
}

func toRequirements(docs []requirementDoc) ([]Requirement, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	reqs := make([]Requirement, 0, len(docs))
	for _, doc := range docs {
		req := Requirement{
			Kind:     RequirementKind(doc.Kind),
			Name:     doc.Name,
			Quantity: doc.Quantity,
			Amount:   doc.Amount,
		}
		if req.Kind == RequirementItem && req.Quantity == 0 {
			req.Quantity = 1
		}
		reqs = append(reqs, req)
	}
	if err := ValidateRequirements(reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}
