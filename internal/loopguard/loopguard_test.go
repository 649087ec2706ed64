package loopguard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/types"
)

func newState() *types.GameState {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	return &types.GameState{
		Players:     map[types.PlayerID]*types.PlayerState{p1: types.NewPlayerState(p1), p2: types.NewPlayerState(p2)},
		PlayerOrder: []types.PlayerID{p1, p2},
		Phase:       types.PhaseMain,
		TurnNumber:  1,
	}
}

func TestHashIgnoresCharacterAreaOrder(t *testing.T) {
	g1 := newState()
	g1.Players["P1"].CharacterArea = []types.CardID{"a", "b"}
	g1.Cards = map[types.CardID]*types.CardInstance{
		"a": {ID: "a", State: types.StateActive},
		"b": {ID: "b", State: types.StateActive},
	}

	g2 := newState()
	g2.Players["P1"].CharacterArea = []types.CardID{"b", "a"}
	g2.Cards = map[types.CardID]*types.CardInstance{
		"a": {ID: "a", State: types.StateActive},
		"b": {ID: "b", State: types.StateActive},
	}

	require.Equal(t, Hash(g1), Hash(g2))
}

func TestHashDiffersOnCardState(t *testing.T) {
	g1 := newState()
	g1.Players["P1"].CharacterArea = []types.CardID{"a"}
	g1.Cards = map[types.CardID]*types.CardInstance{"a": {ID: "a", State: types.StateActive}}

	g2 := newState()
	g2.Players["P1"].CharacterArea = []types.CardID{"a"}
	g2.Cards = map[types.CardID]*types.CardInstance{"a": {ID: "a", State: types.StateRested}}

	require.NotEqual(t, Hash(g1), Hash(g2))
}

func TestObserveReportsThresholdHit(t *testing.T) {
	g := newState()
	g.LoopGuard.Counts = map[string]int{}

	var hit bool
	for i := 0; i < 3; i++ {
		g, hit = Observe(g, 3)
	}
	require.True(t, hit)
}

func TestObserveBelowThresholdDoesNotHit(t *testing.T) {
	g := newState()
	g.LoopGuard.Counts = map[string]int{}

	g, hit := Observe(g, 3)
	require.False(t, hit)
	g, hit = Observe(g, 3)
	require.False(t, hit)
	_ = g
}

func TestResolveCreditsOpponentOfStuckPlayer(t *testing.T) {
	g := newState()
	out := Resolve(g, "P1")
	require.True(t, out.GameOver)
	require.Equal(t, types.PlayerID("P2"), *out.Winner)
}
