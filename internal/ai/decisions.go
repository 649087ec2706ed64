package ai

import (
	"context"

	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/types"
)

// ChooseMulligan redraws whenever the opening hand's average cost is too
// high or too low to curve out, a simple proxy for "unplayable hand".
func (c *Controller) ChooseMulligan(ctx context.Context, g *types.GameState, hand []types.CardID) (bool, error) {
	if len(hand) == 0 {
		return false, nil
	}
	total, counted := 0, 0
	for _, id := range hand {
		card, ok := g.Cards[id]
		if !ok || g.Catalog == nil {
			continue
		}
		def, ok := g.Catalog(card.DefID)
		if !ok || def.Cost == nil {
			continue
		}
		total += *def.Cost
		counted++
	}
	if counted == 0 {
		return false, nil
	}
	avg := float64(total) / float64(counted)
	return avg < 1.5 || avg > 4.5, nil
}

// ChooseBlocker picks the blocker with the best power trade against the
// attacker and declines when even that blocker falls more than 500 power
// short; a cornered position (own life at 2 cards or fewer) blocks
// regardless of trade.
func (c *Controller) ChooseBlocker(ctx context.Context, g *types.GameState, legal []player.BlockerOption, attacker types.CardID) (player.BlockerOption, error) {
	none := player.BlockerOption{}
	if len(legal) <= 1 {
		return none, nil
	}
	me, ok := g.Players[c.cfg.Player]
	if !ok {
		return none, nil
	}
	desperate := len(me.Life) <= 2
	best := none
	bestScore := -1.0
	attackerPower := cardPower(g, attacker)
	for _, opt := range legal {
		if opt.CardID == "" {
			continue
		}
		power := cardPower(g, opt.CardID)
		trade := float64(power - attackerPower)
		if desperate {
			trade += 1000
		}
		if trade > bestScore {
			bestScore = trade
			best = opt
		}
	}
	if bestScore < -500 && !desperate {
		return none, nil
	}
	return best, nil
}

// ChooseCounterAction spends counter resources only while not ahead on life
// (own life count at most the opponent's),
// to avoid trading hand cards for marginal swings it doesn't need.
func (c *Controller) ChooseCounterAction(ctx context.Context, g *types.GameState, legal []player.CounterOption) (player.CounterOption, error) {
	pass := player.CounterOption{Kind: player.CounterPass}
	me, ok := g.Players[c.cfg.Player]
	opp, ok2 := g.Players[g.Opponent(c.cfg.Player)]
	if !ok || !ok2 || len(me.Life) > len(opp.Life) {
		return pass, nil
	}
	for _, opt := range legal {
		if opt.Kind == player.CounterUseCard {
			return opt, nil
		}
	}
	return pass, nil
}

// ChooseTarget favors the highest-power candidate when the effect's target
// filter names opponent-controlled cards (typical of a removal effect), otherwise the
// lowest-power candidate (typical of a cost payment sacrificing a card).
func (c *Controller) ChooseTarget(ctx context.Context, g *types.GameState, candidates []types.CardID, eff *types.EffectDefinition) (types.CardID, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	best := candidates[0]
	bestPower := cardPower(g, best)
	preferHigh := eff != nil && eff.TargetFilter != nil && eff.TargetFilter.Controller == types.ControllerOpponent
	for _, id := range candidates[1:] {
		p := cardPower(g, id)
		if (preferHigh && p > bestPower) || (!preferHigh && p < bestPower) {
			best, bestPower = id, p
		}
	}
	return best, nil
}

// ChooseValue picks the largest legal value, appropriate for every current
// effect parameterization (draw/trash counts, power boosts).
func (c *Controller) ChooseValue(ctx context.Context, g *types.GameState, legal []player.ValueOption, eff *types.EffectDefinition) (int, error) {
	if len(legal) == 0 {
		return 0, nil
	}
	best := legal[0]
	for _, opt := range legal[1:] {
		if opt.Value > best.Value {
			best = opt
		}
	}
	return best.Value, nil
}

// Notify is a no-op: the AI reacts only through its decision calls.
func (c *Controller) Notify(ctx context.Context, event types.Event) error {
	return nil
}
