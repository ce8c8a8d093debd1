// Package shop filters faction store items by trainer standing. Purchases are
// owned by the commerce service.
package shop

import (
	"context"
	"fmt"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/standing"
)

// Shop answers store eligibility questions.
type Shop struct {
	engine  *standing.Engine
	catalog *faction.Catalog
}

// New builds a Shop.
func New(engine *standing.Engine) (*Shop, error) {
	if engine == nil {
		return nil, fmt.Errorf("standing engine is required")
	}
	return &Shop{engine: engine, catalog: engine.Catalog()}, nil
}

// Eligible reports whether an item can be offered at projection p.
func Eligible(item faction.StoreItem, p standing.Projection, titles *faction.TitleCatalog) bool {
	if !item.Active || item.StandingRequirement > p.Standing {
		return false
	}
	if item.RequiredTitleID == "" {
		return true
	}
	title, ok := titles.Title(item.RequiredTitleID)
	return ok && p.Unlocked(title)
}

// EligibleItems lists the faction items a trainer may buy, cheapest
// requirement first.
func (s *Shop) EligibleItems(ctx context.Context, trainerID, factionID string) ([]faction.StoreItem, error) {
	p, err := s.engine.Project(ctx, trainerID, factionID)
	if err != nil {
		return nil, err
	}
	titles := s.catalog.Titles()
	items := []faction.StoreItem{}
	for _, item := range s.catalog.StoreItems(p.FactionID) {
		if Eligible(item, p, titles) {
			items = append(items, item)
		}
	}
	return items, nil
}
