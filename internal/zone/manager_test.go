package zone

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/rules"
	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
)

func newZoneState() *types.GameState {
	p1 := types.PlayerID("P1")
	return &types.GameState{
		Players: map[types.PlayerID]*types.PlayerState{p1: types.NewPlayerState(p1)},
		Cards:   map[types.CardID]*types.CardInstance{},
	}
}

func TestDrawMovesTopDeckCardToHand(t *testing.T) {
	g := newZoneState()
	p1 := types.PlayerID("P1")
	g.Players[p1].Deck = []types.CardID{"top", "next"}
	g.Cards["top"] = &types.CardInstance{ID: "top", Owner: p1, Controller: p1, Zone: types.ZoneDeck}
	g.Cards["next"] = &types.CardInstance{ID: "next", Owner: p1, Controller: p1, Zone: types.ZoneDeck}

	m := New(rules.Default(), nil)
	out, drawn, err := m.Draw(g, p1)
	require.NoError(t, err)
	require.Equal(t, types.CardID("top"), drawn)
	require.Contains(t, out.Players[p1].Hand, types.CardID("top"))
	require.Equal(t, []types.CardID{"next"}, out.Players[p1].Deck)
}

func TestDrawFromEmptyDeckIsANoOp(t *testing.T) {
	g := newZoneState()
	p1 := types.PlayerID("P1")
	m := New(rules.Default(), nil)
	out, drawn, err := m.Draw(g, p1)
	require.NoError(t, err)
	require.Equal(t, types.CardID(""), drawn)
	require.Same(t, g, out)
}

func TestPlayToCharacterAreaEnforcesCap(t *testing.T) {
	g := newZoneState()
	p1 := types.PlayerID("P1")
	r := rules.Default()
	r.CharacterAreaCap = 1
	g.Players[p1].CharacterArea = []types.CardID{"existing"}
	g.Cards["existing"] = &types.CardInstance{ID: "existing", Owner: p1, Controller: p1, Zone: types.ZoneCharacterArea}
	g.Cards["new"] = &types.CardInstance{ID: "new", Owner: p1, Controller: p1, Zone: types.ZoneHand}

	m := New(r, nil)
	_, err := m.PlayToCharacterArea(g, "new", p1)
	require.Error(t, err)
}

func TestPlayToCharacterAreaActivatesCard(t *testing.T) {
	g := newZoneState()
	p1 := types.PlayerID("P1")
	g.Cards["new"] = &types.CardInstance{ID: "new", Owner: p1, Controller: p1, Zone: types.ZoneHand, State: types.StateRested}

	m := New(rules.Default(), nil)
	out, err := m.PlayToCharacterArea(g, "new", p1)
	require.NoError(t, err)
	require.Equal(t, types.StateActive, out.Cards["new"].State)
	require.Contains(t, out.Players[p1].CharacterArea, types.CardID("new"))
}

func TestPlayToStageAreaTrashesPreviousStageCard(t *testing.T) {
	g := newZoneState()
	p1 := types.PlayerID("P1")
	g.Players[p1].StageArea = "old"
	g.Cards["old"] = &types.CardInstance{ID: "old", Owner: p1, Controller: p1, Zone: types.ZoneStageArea}
	g.Cards["new"] = &types.CardInstance{ID: "new", Owner: p1, Controller: p1, Zone: types.ZoneHand}

	m := New(rules.Default(), nil)
	out, err := m.PlayToStageArea(g, "new", p1)
	require.NoError(t, err)
	require.Equal(t, types.CardID("new"), out.Players[p1].StageArea)
	require.Equal(t, types.ZoneTrash, out.Cards["old"].Zone)
}

func TestAttachDonAndDetachOnTrash(t *testing.T) {
	g := newZoneState()
	p1 := types.PlayerID("P1")
	g.Dons = map[types.DonID]*types.DonInstance{"d1": {ID: "d1", Owner: p1, Zone: types.ZoneCostArea}}
	g.Cards["char"] = &types.CardInstance{ID: "char", Owner: p1, Controller: p1, Zone: types.ZoneCharacterArea}

	m := New(rules.Default(), nil)
	out, err := m.AttachDon(g, "d1", "char")
	require.NoError(t, err)
	require.Contains(t, out.Cards["char"].GivenDon, types.DonID("d1"))

	out, err = m.Trash(out, "char")
	require.NoError(t, err)
	_, ok := state.GetCard(out, "char")
	require.True(t, ok)
	require.Empty(t, out.Cards["char"].GivenDon)
}
