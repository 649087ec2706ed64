package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/types"
)

func TestGetDefinitionResolvesThroughCatalog(t *testing.T) {
	def := &types.CardDefinition{ID: "def1", Name: "Luffy"}
	g := &types.GameState{
		Cards:   map[types.CardID]*types.CardInstance{"c1": {ID: "c1", DefID: "def1"}},
		Catalog: func(id types.DefID) (*types.CardDefinition, bool) { return def, id == "def1" },
	}
	got, ok := GetDefinition(g, "c1")
	require.True(t, ok)
	require.Same(t, def, got)
}

func TestGetDefinitionMissingCardOrCatalog(t *testing.T) {
	g := &types.GameState{Cards: map[types.CardID]*types.CardInstance{}}
	_, ok := GetDefinition(g, "missing")
	require.False(t, ok)

	g2 := &types.GameState{Cards: map[types.CardID]*types.CardInstance{"c1": {ID: "c1"}}}
	_, ok = GetDefinition(g2, "c1")
	require.False(t, ok, "nil Catalog must fail closed, not panic")
}

func TestGetZoneReturnsOrderedCopy(t *testing.T) {
	p1 := types.PlayerID("P1")
	g := &types.GameState{Players: map[types.PlayerID]*types.PlayerState{
		p1: {ID: p1, Hand: []types.CardID{"a", "b"}},
	}}
	zone := GetZone(g, p1, types.ZoneHand)
	zone[0] = "mutated"
	require.Equal(t, types.CardID("a"), g.Players[p1].Hand[0], "GetZone must return a copy")
}

func TestGetZoneUnknownPlayer(t *testing.T) {
	g := &types.GameState{Players: map[types.PlayerID]*types.PlayerState{}}
	require.Nil(t, GetZone(g, "nobody", types.ZoneHand))
}
