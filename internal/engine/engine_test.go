package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/types"
)

type passController struct{}

func (passController) ChooseAction(ctx context.Context, g *types.GameState, legal []types.Action) (types.Action, error) {
	for _, a := range legal {
		if a.ActionKind == types.ActionEndPhase {
			return a, nil
		}
	}
	return legal[0], nil
}
func (passController) ChooseMulligan(ctx context.Context, g *types.GameState, hand []types.CardID) (bool, error) {
	return false, nil
}
func (passController) ChooseBlocker(ctx context.Context, g *types.GameState, legal []player.BlockerOption, attacker types.CardID) (player.BlockerOption, error) {
	return player.BlockerOption{}, nil
}
func (passController) ChooseCounterAction(ctx context.Context, g *types.GameState, legal []player.CounterOption) (player.CounterOption, error) {
	return player.CounterOption{Kind: player.CounterPass}, nil
}
func (passController) ChooseTarget(ctx context.Context, g *types.GameState, candidates []types.CardID, eff *types.EffectDefinition) (types.CardID, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0], nil
}
func (passController) ChooseValue(ctx context.Context, g *types.GameState, legal []player.ValueOption, eff *types.EffectDefinition) (int, error) {
	return 0, nil
}
func (passController) Notify(ctx context.Context, ev types.Event) error { return nil }

func intPtr(i int) *int { return &i }

func testCatalog() types.CatalogLookup {
	defs := map[types.DefID]*types.CardDefinition{
		"leader": {ID: "leader", Category: types.CategoryLeader, Power: intPtr(5000)},
		"char":   {ID: "char", Category: types.CategoryCharacter, Power: intPtr(2000), Cost: intPtr(1)},
	}
	return func(id types.DefID) (*types.CardDefinition, bool) { d, ok := defs[id]; return d, ok }
}

func testConfig() Config {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	return Config{
		Catalog:     testCatalog(),
		Controllers: map[types.PlayerID]player.Controller{p1: passController{}, p2: passController{}},
		Seed:        "seed-1",
		NoShuffle:   true,
	}
}

func testSpecs() map[PlayerNumber]DeckSpec {
	deck := make([]types.DefID, 12)
	for i := range deck {
		deck[i] = "char"
	}
	return map[PlayerNumber]DeckSpec{
		PlayerOne: {Player: PlayerOne, Leader: "leader", Deck: deck},
		PlayerTwo: {Player: PlayerTwo, Leader: "leader", Deck: deck},
	}
}

func TestNewDealsLeaderLifeHandAndDeckForBothPlayers(t *testing.T) {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	e, err := New(testConfig(), p1, p2, testSpecs())
	require.NoError(t, err)

	g := e.GetState()
	require.NotEmpty(t, g.Players[p1].LeaderArea)
	require.Len(t, g.Players[p1].Life, initialLife)
	require.Len(t, g.Players[p1].Hand, initialHandSize)
	require.Len(t, g.Players[p1].DonDeck, 10)
	require.Len(t, g.Players[p2].Life, initialLife)
	require.Equal(t, p1, g.ActivePlayer)
}

func TestNewMissingDeckSpecErrors(t *testing.T) {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	specs := testSpecs()
	delete(specs, PlayerTwo)
	_, err := New(testConfig(), p1, p2, specs)
	require.Error(t, err)
}

func TestGetLegalActionsAlwaysIncludesEndPhase(t *testing.T) {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	e, err := New(testConfig(), p1, p2, testSpecs())
	require.NoError(t, err)

	found := false
	for _, a := range e.GetLegalActions() {
		if a.ActionKind == types.ActionEndPhase {
			found = true
		}
	}
	require.True(t, found)
}

func TestCanPerformActionAcceptsLegalActionOnly(t *testing.T) {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	e, err := New(testConfig(), p1, p2, testSpecs())
	require.NoError(t, err)

	require.True(t, e.CanPerformAction(types.Action{Player: p1, ActionKind: types.ActionEndPhase}))
	require.False(t, e.CanPerformAction(types.Action{Player: p1, ActionKind: types.ActionDeclareAttack, AttackerID: "nonexistent"}))
}

func TestPlayCardMovesCardFromHandWhenAffordable(t *testing.T) {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	e, err := New(testConfig(), p1, p2, testSpecs())
	require.NoError(t, err)

	e.state = giveActiveDon(e.state, p1, 3)
	cardID := e.state.Players[p1].Hand[0]

	err = e.PlayCard(p1, cardID)
	require.NoError(t, err)
	require.Contains(t, e.GetState().Players[p1].CharacterArea, cardID)
	require.NotContains(t, e.GetState().Players[p1].Hand, cardID)
}

func TestPlayCardRejectionLeavesStateUnchanged(t *testing.T) {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	e, err := New(testConfig(), p1, p2, testSpecs())
	require.NoError(t, err)
	before := e.GetState()

	err = e.PlayCard(p1, "does-not-exist")
	require.Error(t, err)
	require.Same(t, before, e.GetState())
	require.Len(t, e.Errors(0), 1)
}

func TestGiveDonAttachesDonToCharacter(t *testing.T) {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	e, err := New(testConfig(), p1, p2, testSpecs())
	require.NoError(t, err)

	e.state = giveActiveDon(e.state, p1, 1)
	cardID := e.state.Players[p1].Hand[0]
	require.NoError(t, e.PlayCard(p1, cardID))

	e.state = giveActiveDon(e.state, p1, 1)
	donID := e.state.Players[p1].CostArea[len(e.state.Players[p1].CostArea)-1]

	require.NoError(t, e.GiveDon(p1, donID, cardID))
	card := e.GetState().Cards[cardID]
	require.Contains(t, card.GivenDon, donID)
}

func TestMulliganWithNoShuffleIsANoOpUnlessRedrawRequested(t *testing.T) {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	e, err := New(testConfig(), p1, p2, testSpecs())
	require.NoError(t, err)
	before := len(e.GetState().Players[p1].Hand)

	require.NoError(t, e.Mulligan(context.Background()))
	require.Equal(t, before, len(e.GetState().Players[p1].Hand))
}

func TestRunGameEventuallyEndsWithBothControllersPassingTowardDeckOut(t *testing.T) {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	cfg := testConfig()
	e, err := New(cfg, p1, p2, testSpecs())
	require.NoError(t, err)

	out, err := e.RunGame(context.Background())
	require.NoError(t, err)
	require.True(t, out.GameOver)
}

// giveActiveDon is a test helper that tops up a player's cost area with n
// freshly active DON moved straight from their DON deck, bypassing the
// Don phase's per-turn draw limit so PlayCard/GiveDon tests do not need to
// run a full turn first.
func giveActiveDon(g *types.GameState, p types.PlayerID, n int) *types.GameState {
	ps := g.Players[p]
	for i := 0; i < n && i < len(ps.DonDeck); i++ {
		donID := ps.DonDeck[0]
		ps.DonDeck = ps.DonDeck[1:]
		ps.CostArea = append(ps.CostArea, donID)
		g.Dons[donID].Zone = types.ZoneCostArea
		g.Dons[donID].State = types.StateActive
	}
	return g
}
