// Package effect implements the Effect Engine (C6): targeting, cost
// payment, per-effect resolvers, and the in-flight resolution stack.
package effect

import (
	"sort"

	"github.com/tcgx/optcg-engine/internal/modifier"
	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
)

// LegalTargets returns the exact set of card ids satisfying filter in g,
// as seen from controller's perspective — no more, no less, deterministic
// order (Property 24).
func LegalTargets(g *types.GameState, filter *types.TargetFilter, controller types.PlayerID, excludeSelf types.CardID) []types.CardID {
	if filter == nil {
		return nil
	}
	var out []types.CardID
	for id, c := range g.Cards {
		if filter.ExcludeSelf && id == excludeSelf {
			continue
		}
		if !matchesController(filter.Controller, controller, c.Controller) {
			continue
		}
		if len(filter.Zones) > 0 && !zoneIn(c.Zone, filter.Zones) {
			continue
		}
		def, ok := g.Catalog(c.DefID)
		if !ok {
			continue
		}
		if len(filter.Categories) > 0 && !categoryIn(def.Category, filter.Categories) {
			continue
		}
		if len(filter.Colors) > 0 && !anyColor(def, filter.Colors) {
			continue
		}
		if len(filter.States) > 0 && !stateIn(c.State, filter.States) {
			continue
		}
		if len(filter.TypeTags) > 0 && !anyTag(def.TypeTags, filter.TypeTags) {
			continue
		}
		if len(filter.Attributes) > 0 && !anyTag(def.Attributes, filter.Attributes) {
			continue
		}
		cost := modifier.CurrentCost(def, c)
		if filter.CostMin != nil && cost < *filter.CostMin {
			continue
		}
		if filter.CostMax != nil && cost > *filter.CostMax {
			continue
		}
		power := modifier.CurrentPower(def, c)
		if filter.PowerMin != nil && power < *filter.PowerMin {
			continue
		}
		if filter.PowerMax != nil && power > *filter.PowerMax {
			continue
		}
		kws := modifier.CurrentKeywords(def, c)
		if !hasAll(kws, filter.HasKeywords) {
			continue
		}
		if hasAny(kws, filter.LacksKeywords) {
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func matchesController(want types.TargetController, effectController, cardController types.PlayerID) bool {
	switch want {
	case types.ControllerSelf:
		return cardController == effectController
	case types.ControllerOpponent:
		return cardController != effectController
	default:
		return true
	}
}

func zoneIn(z types.Zone, zones []types.Zone) bool {
	for _, zz := range zones {
		if zz == z {
			return true
		}
	}
	return false
}

func categoryIn(c types.Category, cats []types.Category) bool {
	for _, cc := range cats {
		if cc == c {
			return true
		}
	}
	return false
}

func stateIn(s types.CardState, states []types.CardState) bool {
	for _, ss := range states {
		if ss == s {
			return true
		}
	}
	return false
}

func anyColor(def *types.CardDefinition, colors []string) bool {
	for _, c := range colors {
		if def.Colors[c] {
			return true
		}
	}
	return false
}

func anyTag(have []string, want []string) bool {
	set := map[string]bool{}
	for _, h := range have {
		set[h] = true
	}
	for _, w := range want {
		if set[w] {
			return true
		}
	}
	return false
}

func hasAll(set map[types.Keyword]bool, want []types.Keyword) bool {
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

func hasAny(set map[types.Keyword]bool, want []types.Keyword) bool {
	for _, w := range want {
		if set[w] {
			return true
		}
	}
	return false
}

// GetDefinition is a small re-export so callers elsewhere in this package
// don't need to also import state for this one lookup.
func GetDefinition(g *types.GameState, id types.CardID) (*types.CardDefinition, bool) {
	return state.GetDefinition(g, id)
}
