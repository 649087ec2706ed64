package effect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
)

func newActivationState(turn int) (*types.GameState, types.CardID) {
	p1 := types.PlayerID("P1")
	card := types.CardID("leader-1")
	g := &types.GameState{
		Players:     map[types.PlayerID]*types.PlayerState{p1: types.NewPlayerState(p1)},
		PlayerOrder: []types.PlayerID{p1},
		TurnNumber:  turn,
		Cards: map[types.CardID]*types.CardInstance{
			card: {ID: card, Owner: p1, Controller: p1, Zone: types.ZoneLeaderArea, Flags: map[string]string{}},
		},
	}
	return g, card
}

// S5 — a once-per-turn effect is usable on turn T, blocked on further
// attempts within T, and usable again once the flag no longer matches the
// current turn number.
func TestCanActivateOncePerTurnLock(t *testing.T) {
	g, card := newActivationState(3)
	eff := &types.EffectDefinition{ID: types.EffectID("e1"), OncePerTurn: true}

	require.True(t, CanActivate(g, eff, "P1", card))

	g = state.UpdateCard(g, card, func(ci *types.CardInstance) {
		ci.Flags["usedEffect:e1"] = "3"
	})
	require.False(t, CanActivate(g, eff, "P1", card))

	later := state.UpdateCard(g, card, func(ci *types.CardInstance) {})
	later.TurnNumber = 5
	require.True(t, CanActivate(later, eff, "P1", card))
}

func TestCanActivateIgnoresOncePerTurnForUnstampedCard(t *testing.T) {
	g, card := newActivationState(1)
	eff := &types.EffectDefinition{ID: types.EffectID("e2"), OncePerTurn: true}
	require.True(t, CanActivate(g, eff, "P1", card))
}

func TestCanActivateConditionGating(t *testing.T) {
	g, card := newActivationState(1)
	min := 2
	eff := &types.EffectDefinition{
		ID:        types.EffectID("e3"),
		Condition: &types.ConditionExpr{MinCharactersYou: &min},
	}
	require.False(t, CanActivate(g, eff, "P1", card))

	p := g.Players["P1"]
	p.CharacterArea = []types.CardID{"c1", "c2"}
	require.True(t, CanActivate(g, eff, "P1", card))
}

func TestCanActivateUnknownControllerFailsClosed(t *testing.T) {
	g, card := newActivationState(1)
	min := 0
	eff := &types.EffectDefinition{ID: types.EffectID("e4"), Condition: &types.ConditionExpr{MinLifeYou: &min}}
	require.False(t, CanActivate(g, eff, "unknown", card))
}
