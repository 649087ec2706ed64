package battle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/effect"
	"github.com/tcgx/optcg-engine/internal/eventbus"
	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/rules"
	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
	"github.com/tcgx/optcg-engine/internal/zone"
)

// stubController answers every decision with a fixed, queued script; it
// never blocks and never chooses to deviate unless told to.
type stubController struct {
	blocker     player.BlockerOption
	counters    []player.CounterOption // consumed in order, then CounterPass forever
	counterIdx  int
	chooseValue int
}

func (s *stubController) ChooseAction(ctx context.Context, g *types.GameState, legal []types.Action) (types.Action, error) {
	return legal[0], nil
}
func (s *stubController) ChooseMulligan(ctx context.Context, g *types.GameState, hand []types.CardID) (bool, error) {
	return false, nil
}
func (s *stubController) ChooseBlocker(ctx context.Context, g *types.GameState, legal []player.BlockerOption, attacker types.CardID) (player.BlockerOption, error) {
	return s.blocker, nil
}
func (s *stubController) ChooseCounterAction(ctx context.Context, g *types.GameState, legal []player.CounterOption) (player.CounterOption, error) {
	if s.counterIdx < len(s.counters) {
		c := s.counters[s.counterIdx]
		s.counterIdx++
		return c, nil
	}
	return player.CounterOption{Kind: player.CounterPass}, nil
}
func (s *stubController) ChooseTarget(ctx context.Context, g *types.GameState, candidates []types.CardID, eff *types.EffectDefinition) (types.CardID, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0], nil
}
func (s *stubController) ChooseValue(ctx context.Context, g *types.GameState, legal []player.ValueOption, eff *types.EffectDefinition) (int, error) {
	return s.chooseValue, nil
}
func (s *stubController) Notify(ctx context.Context, ev types.Event) error { return nil }

var _ player.Controller = (*stubController)(nil)

func intPtr(i int) *int { return &i }

// harness wires a minimal two-player state plus the collaborators
// DeclareAttack needs, with both players' controllers defaulting to
// always-pass so a test only needs to override what it cares about.
type harness struct {
	g    *types.GameState
	bc   *Context
	defs map[types.DefID]*types.CardDefinition
	p1c  *stubController
	p2c  *stubController
}

func newHarness() *harness {
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	defs := map[types.DefID]*types.CardDefinition{}
	h := &harness{defs: defs, p1c: &stubController{}, p2c: &stubController{}}

	g := &types.GameState{
		Players:     map[types.PlayerID]*types.PlayerState{p1: types.NewPlayerState(p1), p2: types.NewPlayerState(p2)},
		PlayerOrder: []types.PlayerID{p1, p2},
		Cards:       map[types.CardID]*types.CardInstance{},
		Catalog:     func(id types.DefID) (*types.CardDefinition, bool) { d, ok := defs[id]; return d, ok },
		Phase:       types.PhaseMain,
		TurnNumber:  2,
	}
	h.g = g

	rulesCtx := rules.Default()
	var bus *eventbus.Bus
	h.bc = &Context{
		Ctx:         context.Background(),
		Zone:        zone.New(rulesCtx, bus),
		Rules:       rulesCtx,
		Controllers: map[types.PlayerID]player.Controller{p1: h.p1c, p2: h.p2c},
		ResolveCtx: &effect.ResolveContext{
			Ctx:         context.Background(),
			Zone:        zone.New(rulesCtx, bus),
			Rules:       rulesCtx,
			Controllers: map[types.PlayerID]player.Controller{p1: h.p1c, p2: h.p2c},
		},
	}
	return h
}

func (h *harness) addCard(id types.CardID, owner types.PlayerID, def *types.CardDefinition, zone types.Zone, state0 types.CardState) {
	h.defs[def.ID] = def
	h.g.Cards[id] = &types.CardInstance{ID: id, DefID: def.ID, Owner: owner, Controller: owner, Zone: zone, State: state0, Flags: map[string]string{}}
	p := h.g.Players[owner]
	switch zone {
	case types.ZoneCharacterArea:
		p.CharacterArea = append(p.CharacterArea, id)
	case types.ZoneLeaderArea:
		p.LeaderArea = id
	case types.ZoneHand:
		p.Hand = append(p.Hand, id)
	}
}

func (h *harness) addLifeCard(id types.CardID, owner types.PlayerID, def *types.CardDefinition) {
	h.defs[def.ID] = def
	h.g.Cards[id] = &types.CardInstance{ID: id, DefID: def.ID, Owner: owner, Controller: owner, Zone: types.ZoneLife, Flags: map[string]string{}}
	p := h.g.Players[owner]
	p.Life = append(p.Life, id)
}

// S1 — a Rush character attacks an empty-board leader directly; no blocker
// is offered and the defender takes one life-card hit.
func TestDeclareAttackRushIntoEmptyBoardHitsLeader(t *testing.T) {
	h := newHarness()
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")

	attackerDef := &types.CardDefinition{ID: "atk", Category: types.CategoryCharacter, Power: intPtr(4000), Keywords: []types.Keyword{types.KeywordRush}}
	h.addCard("attacker", p1, attackerDef, types.ZoneCharacterArea, types.StateActive)

	lifeDef := &types.CardDefinition{ID: "life", Category: types.CategoryCharacter, Power: intPtr(1000)}
	h.addLifeCard("life1", p2, lifeDef)

	out, err := DeclareAttack(h.bc, h.g, "attacker", "")
	require.NoError(t, err)
	require.False(t, out.GameOver)
	require.Len(t, out.Players[p2].Life, 0)
	require.Contains(t, out.Players[p2].Hand, types.CardID("life1"))
	require.True(t, out.AttackedThisTurn["attacker"])
}

// S4 — the defender's blocker would lose the power race, but a counter card
// raises its effective power enough to KO the attacker instead.
func TestDeclareAttackCounterPreventsBlockerKO(t *testing.T) {
	h := newHarness()
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")

	attackerDef := &types.CardDefinition{ID: "atk", Category: types.CategoryCharacter, Power: intPtr(5000)}
	h.addCard("attacker", p1, attackerDef, types.ZoneCharacterArea, types.StateActive)

	blockerDef := &types.CardDefinition{ID: "blk", Category: types.CategoryCharacter, Power: intPtr(3000), Keywords: []types.Keyword{types.KeywordBlocker}}
	h.addCard("blocker", p2, blockerDef, types.ZoneCharacterArea, types.StateActive)

	counterDef := &types.CardDefinition{ID: "counter", Category: types.CategoryCharacter, Power: intPtr(1000), CounterVal: 3000}
	h.addCard("counterCard", p2, counterDef, types.ZoneHand, types.StateActive)

	h.p2c.blocker = player.BlockerOption{CardID: "blocker"}
	h.p2c.counters = []player.CounterOption{{Kind: player.CounterUseCard, CardID: "counterCard"}}

	out, err := DeclareAttack(h.bc, h.g, "attacker", "")
	require.NoError(t, err)
	require.False(t, out.GameOver)

	attackerCard, ok := state.GetCard(out, "attacker")
	require.True(t, ok)
	require.Equal(t, types.ZoneTrash, attackerCard.Zone)

	blockerCard, ok := state.GetCard(out, "blocker")
	require.True(t, ok)
	require.Equal(t, types.ZoneCharacterArea, blockerCard.Zone)

	counterCard, ok := state.GetCard(out, "counterCard")
	require.True(t, ok)
	require.Equal(t, types.ZoneTrash, counterCard.Zone)
}

// S3 — leader damage reveals a Trigger life card; the owner chooses to
// activate it instead of keeping it in hand.
func TestOfferTriggerActivationAppliesEffectWhenOwnerActivates(t *testing.T) {
	h := newHarness()
	p2 := types.PlayerID("P2")
	h.p2c.chooseValue = 1

	triggerDef := &types.CardDefinition{ID: "trig", Category: types.CategoryCharacter, Keywords: []types.Keyword{types.KeywordTrigger},
		Effects: []*types.EffectDefinition{{ID: "e1", Timing: types.TimingActivate, TriggerTiming: types.TriggerNone,
			Resolver: types.ResolverDrawCards, Params: map[string]any{"count": 1}}}}
	h.defs["trig"] = triggerDef
	h.g.Cards["card1"] = &types.CardInstance{ID: "card1", DefID: "trig", Owner: p2, Controller: p2, Zone: types.ZoneHand, Flags: map[string]string{}}
	h.g.Players[p2].Deck = []types.CardID{"deckCard"}
	h.g.Cards["deckCard"] = &types.CardInstance{ID: "deckCard", Owner: p2, Controller: p2, Zone: types.ZoneDeck, Flags: map[string]string{}}

	out := h.bc.offerTriggerActivation(h.g, p2, "card1", triggerDef)
	require.Contains(t, out.Players[p2].Hand, types.CardID("deckCard"))
	require.Empty(t, out.Players[p2].Deck)

	triggerCard, ok := state.GetCard(out, "card1")
	require.True(t, ok)
	require.Equal(t, types.ZoneTrash, triggerCard.Zone)
	require.NotContains(t, out.Players[p2].Hand, types.CardID("card1"))
}

// S3 variant — the owner declines activation, leaving state untouched.
func TestOfferTriggerActivationDeclinedLeavesStateUnchanged(t *testing.T) {
	h := newHarness()
	p2 := types.PlayerID("P2")
	h.p2c.chooseValue = 0

	triggerDef := &types.CardDefinition{ID: "trig", Category: types.CategoryCharacter, Keywords: []types.Keyword{types.KeywordTrigger},
		Effects: []*types.EffectDefinition{{ID: "e1", Timing: types.TimingActivate, TriggerTiming: types.TriggerNone,
			Resolver: types.ResolverDrawCards, Params: map[string]any{"count": 1}}}}
	h.defs["trig"] = triggerDef
	h.g.Cards["card1"] = &types.CardInstance{ID: "card1", DefID: "trig", Owner: p2, Controller: p2, Zone: types.ZoneHand, Flags: map[string]string{}}

	out := h.bc.offerTriggerActivation(h.g, p2, "card1", triggerDef)
	require.Same(t, h.g, out)
}

// A card with no Activate/TriggerNone effect offers nothing to activate.
func TestOfferTriggerActivationNoTriggerEffectIsANoOp(t *testing.T) {
	h := newHarness()
	p2 := types.PlayerID("P2")
	def := &types.CardDefinition{ID: "plain", Category: types.CategoryCharacter}

	out := h.bc.offerTriggerActivation(h.g, p2, "card1", def)
	require.Same(t, h.g, out)
}

// A blocked attack where powers tie destroys neither side (§4.8 mutual
// non-destruction rule).
func TestDeclareAttackTiedPowerDestroysNeither(t *testing.T) {
	h := newHarness()
	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")

	attackerDef := &types.CardDefinition{ID: "atk", Category: types.CategoryCharacter, Power: intPtr(4000)}
	h.addCard("attacker", p1, attackerDef, types.ZoneCharacterArea, types.StateActive)

	blockerDef := &types.CardDefinition{ID: "blk", Category: types.CategoryCharacter, Power: intPtr(4000), Keywords: []types.Keyword{types.KeywordBlocker}}
	h.addCard("blocker", p2, blockerDef, types.ZoneCharacterArea, types.StateActive)

	h.p2c.blocker = player.BlockerOption{CardID: "blocker"}

	out, err := DeclareAttack(h.bc, h.g, "attacker", "")
	require.NoError(t, err)

	attackerCard, _ := state.GetCard(out, "attacker")
	blockerCard, _ := state.GetCard(out, "blocker")
	require.Equal(t, types.ZoneCharacterArea, attackerCard.Zone)
	require.Equal(t, types.ZoneCharacterArea, blockerCard.Zone)
}
