package faction

import (
	"encoding/json"
	"fmt"
)

// RequirementKind tags the variant held by a Requirement.
type RequirementKind string

const (
	RequirementItem     RequirementKind = "item"
	RequirementCurrency RequirementKind = "currency"
	RequirementNone     RequirementKind = "none"
)

// Requirement is one tribute cost: an item, an amount of currency, or nothing.
type Requirement struct {
	Kind     RequirementKind `json:"kind"`
	Name     string          `json:"name,omitempty"`
	Quantity int             `json:"quantity,omitempty"`
	Amount   int             `json:"amount,omitempty"`
}

// Validate checks that only the fields of the tagged variant are set.
func (r Requirement) Validate() error {
	switch r.Kind {
	case RequirementItem:
		if r.Name == "" {
			return fmt.Errorf("item requirement needs a name")
		}
		if r.Quantity <= 0 {
			return fmt.Errorf("item requirement %q needs a positive quantity", r.Name)
		}
		if r.Amount != 0 {
			return fmt.Errorf("item requirement %q cannot carry an amount", r.Name)
		}
	case RequirementCurrency:
		if r.Amount <= 0 {
			return fmt.Errorf("currency requirement needs a positive amount")
		}
		if r.Name != "" || r.Quantity != 0 {
			return fmt.Errorf("currency requirement cannot carry item fields")
		}
	case RequirementNone:
		if r.Name != "" || r.Quantity != 0 || r.Amount != 0 {
			return fmt.Errorf("none requirement cannot carry fields")
		}
	default:
		return fmt.Errorf("unknown requirement kind %q", r.Kind)
	}
	return nil
}

// ValidateRequirements checks a requirement list as a whole.
func ValidateRequirements(reqs []Requirement) error {
	for _, req := range reqs {
		if err := req.Validate(); err != nil {
			return err
		}
		if req.Kind == RequirementNone && len(reqs) > 1 {
			return fmt.Errorf("none requirement cannot be combined with others")
		}
	}
	return nil
}

// EncodeRequirements serializes a requirement snapshot for storage.
func EncodeRequirements(reqs []Requirement) (string, error) {
	if len(reqs) == 0 {
		reqs = []Requirement{{Kind: RequirementNone}}
	}
	data, err := json.Marshal(reqs)
	if err != nil {
		return "", fmt.Errorf("encode requirements: %w", err)
	}
	return string(data), nil
}

// DecodeRequirements parses and validates a stored requirement snapshot.
func DecodeRequirements(raw string) ([]Requirement, error) {
	if raw == "" {
		return nil, nil
	}
	var reqs []Requirement
	if err := json.Unmarshal([]byte(raw), &reqs); err != nil {
		return nil, fmt.Errorf("decode requirements: %w", err)
	}
	if err := ValidateRequirements(reqs); err != nil {
		return nil, fmt.Errorf("decode requirements: %w", err)
	}
	return reqs, nil
}
