package effect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/types"
)

func intPtr(i int) *int { return &i }

func targetingState() *types.GameState {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	defs := map[types.DefID]*types.CardDefinition{
		"weak":   {ID: "weak", Category: types.CategoryCharacter, Power: intPtr(2000)},
		"strong": {ID: "strong", Category: types.CategoryCharacter, Power: intPtr(8000), Keywords: []types.Keyword{types.KeywordBlocker}},
	}
	return &types.GameState{
		Cards: map[types.CardID]*types.CardInstance{
			"mine":    {ID: "mine", DefID: "weak", Controller: p1, Zone: types.ZoneCharacterArea, State: types.StateActive},
			"oppWeak": {ID: "oppWeak", DefID: "weak", Controller: p2, Zone: types.ZoneCharacterArea, State: types.StateActive},
			"oppBlk":  {ID: "oppBlk", DefID: "strong", Controller: p2, Zone: types.ZoneCharacterArea, State: types.StateRested},
		},
		Catalog: func(id types.DefID) (*types.CardDefinition, bool) { d, ok := defs[id]; return d, ok },
	}
}

func TestLegalTargetsNilFilterReturnsNil(t *testing.T) {
	require.Nil(t, LegalTargets(targetingState(), nil, "P1", ""))
}

func TestLegalTargetsFiltersByOpponentController(t *testing.T) {
	g := targetingState()
	filter := &types.TargetFilter{Controller: types.ControllerOpponent}
	out := LegalTargets(g, filter, "P1", "")
	require.ElementsMatch(t, []types.CardID{"oppWeak", "oppBlk"}, out)
}

func TestLegalTargetsFiltersBySelfController(t *testing.T) {
	g := targetingState()
	filter := &types.TargetFilter{Controller: types.ControllerSelf}
	out := LegalTargets(g, filter, "P1", "")
	require.Equal(t, []types.CardID{"mine"}, out)
}

func TestLegalTargetsExcludesSelfWhenRequested(t *testing.T) {
	g := targetingState()
	filter := &types.TargetFilter{Controller: types.ControllerSelf, ExcludeSelf: true}
	out := LegalTargets(g, filter, "P1", "mine")
	require.Empty(t, out)
}

func TestLegalTargetsFiltersByPowerMax(t *testing.T) {
	g := targetingState()
	max := 3000
	filter := &types.TargetFilter{Controller: types.ControllerOpponent, PowerMax: &max}
	out := LegalTargets(g, filter, "P1", "")
	require.Equal(t, []types.CardID{"oppWeak"}, out)
}

func TestLegalTargetsFiltersByRequiredKeyword(t *testing.T) {
	g := targetingState()
	filter := &types.TargetFilter{Controller: types.ControllerOpponent, HasKeywords: []types.Keyword{types.KeywordBlocker}}
	out := LegalTargets(g, filter, "P1", "")
	require.Equal(t, []types.CardID{"oppBlk"}, out)
}

func TestLegalTargetsFiltersByState(t *testing.T) {
	g := targetingState()
	filter := &types.TargetFilter{Controller: types.ControllerOpponent, States: []types.CardState{types.StateRested}}
	out := LegalTargets(g, filter, "P1", "")
	require.Equal(t, []types.CardID{"oppBlk"}, out)
}

func TestLegalTargetsSortsDeterministically(t *testing.T) {
	g := targetingState()
	filter := &types.TargetFilter{}
	out1 := LegalTargets(g, filter, "P1", "")
	out2 := LegalTargets(g, filter, "P1", "")
	require.Equal(t, out1, out2)
	for i := 1; i < len(out1); i++ {
		require.Less(t, out1[i-1], out1[i])
	}
}
