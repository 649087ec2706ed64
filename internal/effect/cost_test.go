package effect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/rules"
	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
	"github.com/tcgx/optcg-engine/internal/zone"
)

type trashFirstController struct{}

func (trashFirstController) ChooseAction(ctx context.Context, g *types.GameState, legal []types.Action) (types.Action, error) {
	return legal[0], nil
}
func (trashFirstController) ChooseMulligan(ctx context.Context, g *types.GameState, hand []types.CardID) (bool, error) {
	return false, nil
}
func (trashFirstController) ChooseBlocker(ctx context.Context, g *types.GameState, legal []player.BlockerOption, attacker types.CardID) (player.BlockerOption, error) {
	return player.BlockerOption{}, nil
}
func (trashFirstController) ChooseCounterAction(ctx context.Context, g *types.GameState, legal []player.CounterOption) (player.CounterOption, error) {
	return player.CounterOption{Kind: player.CounterPass}, nil
}
func (trashFirstController) ChooseTarget(ctx context.Context, g *types.GameState, candidates []types.CardID, eff *types.EffectDefinition) (types.CardID, error) {
	return candidates[0], nil
}
func (trashFirstController) ChooseValue(ctx context.Context, g *types.GameState, legal []player.ValueOption, eff *types.EffectDefinition) (int, error) {
	return 0, nil
}
func (trashFirstController) Notify(ctx context.Context, ev types.Event) error { return nil }

func costState() (*types.GameState, *zone.Manager) {
	p1 := types.PlayerID("P1")
	g := &types.GameState{
		Players: map[types.PlayerID]*types.PlayerState{p1: types.NewPlayerState(p1)},
		Cards:   map[types.CardID]*types.CardInstance{},
		Dons:    map[types.DonID]*types.DonInstance{},
	}
	g.Players[p1].CostArea = []types.DonID{"d1", "d2"}
	g.Dons["d1"] = &types.DonInstance{ID: "d1", Owner: p1, Zone: types.ZoneCostArea, State: types.StateActive}
	g.Dons["d2"] = &types.DonInstance{ID: "d2", Owner: p1, Zone: types.ZoneCostArea, State: types.StateActive}
	g.Cards["src"] = &types.CardInstance{ID: "src", Owner: p1, Controller: p1, Zone: types.ZoneCharacterArea, State: types.StateActive}
	return g, zone.New(rules.Default(), nil)
}

func TestPayCostNilCostAlwaysSucceeds(t *testing.T) {
	g, zm := costState()
	out, ok, err := PayCost(context.Background(), zm, trashFirstController{}, g, nil, "P1", "src")
	require.NoError(t, err)
	require.True(t, ok)
	require.Same(t, g, out)
}

func TestPayCostRestsRequiredDonCount(t *testing.T) {
	g, zm := costState()
	cost := &types.CostExpr{RestDonCount: 1}
	out, ok, err := PayCost(context.Background(), zm, trashFirstController{}, g, cost, "P1", "src")
	require.NoError(t, err)
	require.True(t, ok)

	rested := 0
	for _, id := range out.Players["P1"].CostArea {
		if d, _ := state.GetDon(out, id); d.State == types.StateRested {
			rested++
		}
	}
	require.Equal(t, 1, rested)
}

func TestPayCostFailsClosedWhenInsufficientDon(t *testing.T) {
	g, zm := costState()
	cost := &types.CostExpr{RestDonCount: 5}
	out, ok, err := PayCost(context.Background(), zm, trashFirstController{}, g, cost, "P1", "src")
	require.NoError(t, err)
	require.False(t, ok)
	require.Same(t, g, out)
}

func TestPayCostRestSelfRequiresSourceActive(t *testing.T) {
	g, zm := costState()
	g.Cards["src"].State = types.StateRested
	cost := &types.CostExpr{RestSelf: true}
	out, ok, err := PayCost(context.Background(), zm, trashFirstController{}, g, cost, "P1", "src")
	require.NoError(t, err)
	require.False(t, ok)
	require.Same(t, g, out)
}

func TestPayCostRestSelfRestsTheSourceCard(t *testing.T) {
	g, zm := costState()
	cost := &types.CostExpr{RestSelf: true}
	out, ok, err := PayCost(context.Background(), zm, trashFirstController{}, g, cost, "P1", "src")
	require.NoError(t, err)
	require.True(t, ok)
	card, _ := state.GetCard(out, "src")
	require.Equal(t, types.StateRested, card.State)
}

func TestPayCostTrashesFromHandViaControllerChoice(t *testing.T) {
	g, zm := costState()
	p1 := types.PlayerID("P1")
	g.Players[p1].Hand = []types.CardID{"h1", "h2"}
	g.Cards["h1"] = &types.CardInstance{ID: "h1", Owner: p1, Controller: p1, Zone: types.ZoneHand}
	g.Cards["h2"] = &types.CardInstance{ID: "h2", Owner: p1, Controller: p1, Zone: types.ZoneHand}

	cost := &types.CostExpr{TrashCount: 1}
	out, ok, err := PayCost(context.Background(), zm, trashFirstController{}, g, cost, p1, "src")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out.Players[p1].Hand, 1)
	card, _ := state.GetCard(out, "h1")
	require.Equal(t, types.ZoneTrash, card.Zone)
}

func TestPayCostFailsClosedWhenNotEnoughCardsToTrash(t *testing.T) {
	g, zm := costState()
	cost := &types.CostExpr{TrashCount: 1}
	out, ok, err := PayCost(context.Background(), zm, trashFirstController{}, g, cost, "P1", "src")
	require.NoError(t, err)
	require.False(t, ok)
	require.Same(t, g, out)
}

func TestPayCostCompositeRequiresEverySubcost(t *testing.T) {
	g, zm := costState()
	cost := &types.CostExpr{Composite: []types.CostExpr{{RestDonCount: 1}, {RestSelf: true}}}
	out, ok, err := PayCost(context.Background(), zm, trashFirstController{}, g, cost, "P1", "src")
	require.NoError(t, err)
	require.True(t, ok)

	card, _ := state.GetCard(out, "src")
	require.Equal(t, types.StateRested, card.State)
	rested := 0
	for _, id := range out.Players["P1"].CostArea {
		if d, _ := state.GetDon(out, id); d.State == types.StateRested {
			rested++
		}
	}
	require.Equal(t, 1, rested)
}
