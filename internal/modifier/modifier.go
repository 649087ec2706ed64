// Package modifier implements the Modifier Manager (C5): folding base
// values with active modifiers and expiring them at the right boundaries.
package modifier

import (
	"sort"

	"github.com/tcgx/optcg-engine/internal/types"
)

// ExpireTrigger identifies the boundary at which UntilX modifiers clear.
type ExpireTrigger int

const (
	ExpireEndOfTurn ExpireTrigger = iota
	ExpireEndOfBattle
	ExpireStartOfNextTurn
)

func ordered(mods []types.Modifier) []types.Modifier {
	out := append([]types.Modifier(nil), mods...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CurrentPower folds base power with every active Power modifier, earliest
// timestamp first, then source id, then modifier id (§4.5).
func CurrentPower(def *types.CardDefinition, card *types.CardInstance) int {
	base := 0
	if def.Power != nil {
		base = *def.Power
	}
	for _, mod := range ordered(card.Modifiers) {
		if mod.Kind == types.ModPower {
			base += mod.Amount
		}
	}
	if base < 0 {
		base = 0
	}
	return base
}

// CurrentCost folds base cost with every active Cost modifier.
func CurrentCost(def *types.CardDefinition, card *types.CardInstance) int {
	base := 0
	if def.Cost != nil {
		base = *def.Cost
	}
	for _, mod := range ordered(card.Modifiers) {
		if mod.Kind == types.ModCost {
			base += mod.Amount
		}
	}
	if base < 0 {
		base = 0
	}
	return base
}

// CurrentKeywords unions the definition's static keywords with every
// active keyword-grant modifier. Granting a keyword the card already has
// statically is tracked but does not duplicate the result set, and
// cannot cause expiration to remove the static keyword (§4.5 rule).
func CurrentKeywords(def *types.CardDefinition, card *types.CardInstance) map[types.Keyword]bool {
	set := map[types.Keyword]bool{}
	for _, k := range def.Keywords {
		set[k] = true
	}
	for _, mod := range ordered(card.Modifiers) {
		if mod.Kind == types.ModKeyword {
			set[mod.Tag] = true
		}
	}
	return set
}

// HasKeyword reports whether kw is currently active on card.
func HasKeyword(def *types.CardDefinition, card *types.CardInstance, kw types.Keyword) bool {
	return CurrentKeywords(def, card)[kw]
}

func durationExpiresAt(d types.Duration, trigger ExpireTrigger) bool {
	switch trigger {
	case ExpireEndOfTurn:
		return d == types.DurationUntilEndOfTurn || d == types.DurationDuringThisTurn
	case ExpireEndOfBattle:
		return d == types.DurationUntilEndOfBattle
	case ExpireStartOfNextTurn:
		return d == types.DurationUntilStartOfNextTurn
	}
	return false
}

func filterExpired(mods []types.Modifier, trigger ExpireTrigger) ([]types.Modifier, bool) {
	var kept []types.Modifier
	changed := false
	for _, m := range mods {
		if durationExpiresAt(m.Duration, trigger) {
			changed = true
			continue
		}
		kept = append(kept, m)
	}
	return kept, changed
}

// Expire strips modifiers whose duration matches trigger from every card in
// play, returning a new GameState (unchanged if nothing expired).
func Expire(g *types.GameState, trigger ExpireTrigger) *types.GameState {
	touched := map[types.CardID][]types.Modifier{}
	for id, c := range g.Cards {
		kept, changed := filterExpired(c.Modifiers, trigger)
		if changed {
			touched[id] = kept
		}
	}
	if len(touched) == 0 {
		return g
	}
	ng := g.Clone()
	for id, kept := range touched {
		ng.Cards[id].Modifiers = kept
	}
	return ng
}
