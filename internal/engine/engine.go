// Package engine implements the Engine façade (C15): the single entry
// point that wires the State Store, Zone Manager, Rules Context, Modifier
// Manager, Effect Engine, Trigger Queue, Battle Pipeline, Phase driver,
// Defeat Checker, Loop Guard, Event Bus and Player Protocol into one
// runnable match.
package engine

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/tcgx/optcg-engine/internal/battle"
	"github.com/tcgx/optcg-engine/internal/defeat"
	"github.com/tcgx/optcg-engine/internal/effect"
	"github.com/tcgx/optcg-engine/internal/enginerr"
	"github.com/tcgx/optcg-engine/internal/eventbus"
	tcgxlog "github.com/tcgx/optcg-engine/internal/log"
	"github.com/tcgx/optcg-engine/internal/phase"
	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/rules"
	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
	"github.com/tcgx/optcg-engine/internal/zone"
)

// DeckSpec is one player's starting configuration.
type DeckSpec struct {
	Player PlayerNumber
	Leader types.DefID
	Deck   []types.DefID // exactly 50, duplicates allowed per format rules (unchecked here)
}

// PlayerNumber distinguishes the two seats before PlayerID values exist.
type PlayerNumber int

const (
	PlayerOne PlayerNumber = iota
	PlayerTwo
)

// Config is everything Setup needs to build the initial GameState.
type Config struct {
	Catalog     types.CatalogLookup
	Rules       *rules.Context // nil uses rules.Default()
	Controllers map[types.PlayerID]player.Controller
	Seed        string              // deterministic match seed for IDs and shuffling; "" derives a random one
	NoShuffle   bool                // skip deck shuffling (deterministic tests, §8 seed scenarios)
	Logger      tcgxlog.EventLogger // optional; receives every emitted event via the bus
	ErrorHistorySize int            // 0 uses a default of 100
}

// Engine is one running (or finished) match.
type Engine struct {
	rules       *rules.Context
	bus         *eventbus.Bus
	zone        *zone.Manager
	controllers map[types.PlayerID]player.Controller
	resolveCtx  *effect.ResolveContext
	battleCtx   *battle.Context
	phaseCtx    *phase.Context
	state       *types.GameState
	rng         *rand.Rand
	errors      *enginerr.History
}

// Errors returns the n most recently recorded action failures (newest
// last); n <= 0 returns the full retained window.
func (e *Engine) Errors(n int) []*enginerr.EngineError {
	return e.errors.Recent(n)
}

const (
	initialHandSize = 5
	initialLife     = 5
)

// New constructs an Engine and deals the opening game state for the two
// decks described by specs (must contain exactly PlayerOne and PlayerTwo).
func New(cfg Config, p1ID, p2ID types.PlayerID, specs map[PlayerNumber]DeckSpec) (*Engine, error) {
	r := cfg.Rules
	if r == nil {
		r = rules.Default()
	}
	bus := eventbus.New(nil)
	zm := zone.New(r, bus)
	ctx := context.Background()

	alloc := types.NewIDAllocator(cfg.Seed)
	seed := int64(0)
	for _, c := range alloc.Seed() {
		seed = seed*31 + int64(c)
	}
	rng := rand.New(rand.NewSource(seed))

	g := &types.GameState{
		Catalog:          cfg.Catalog,
		Players:          map[types.PlayerID]*types.PlayerState{},
		PlayerOrder:      []types.PlayerID{p1ID, p2ID},
		ActivePlayer:     p1ID,
		Phase:            types.PhaseRefresh,
		Cards:            map[types.CardID]*types.CardInstance{},
		Dons:             map[types.DonID]*types.DonInstance{},
		AttackedThisTurn: map[types.CardID]bool{},
		LoopGuard:        types.LoopGuardState{Counts: map[string]int{}, MaxRepeats: r.Loop.MaxRepeats},
		IDs:              alloc,
	}
	g.Players[p1ID] = types.NewPlayerState(p1ID)
	g.Players[p2ID] = types.NewPlayerState(p2ID)

	for num, id := range map[PlayerNumber]types.PlayerID{PlayerOne: p1ID, PlayerTwo: p2ID} {
		spec, ok := specs[num]
		if !ok {
			return nil, fmt.Errorf("engine: missing deck spec for player %d", num)
		}
		if err := dealPlayer(g, alloc, id, spec, cfg.NoShuffle, rng); err != nil {
			return nil, err
		}
	}

	if cfg.Logger != nil {
		bus.SubscribeAll(nil, func(ev types.Event) { cfg.Logger.Log(ev) })
	}

	historySize := cfg.ErrorHistorySize
	if historySize == 0 {
		historySize = 100
	}
	e := &Engine{rules: r, bus: bus, zone: zm, controllers: cfg.Controllers, state: g, rng: rng, errors: enginerr.NewHistory(historySize)}
	e.resolveCtx = &effect.ResolveContext{Ctx: ctx, Zone: zm, Bus: bus, Rules: r, Controllers: cfg.Controllers}
	e.battleCtx = &battle.Context{Ctx: ctx, Zone: zm, Bus: bus, Rules: r, Controllers: cfg.Controllers, ResolveCtx: e.resolveCtx}
	e.phaseCtx = &phase.Context{Zone: zm, Bus: bus, Rules: r, Controllers: cfg.Controllers, ResolveCtx: e.resolveCtx, BattleCtx: e.battleCtx}
	return e, nil
}

func dealPlayer(g *types.GameState, alloc *types.IDAllocator, id types.PlayerID, spec DeckSpec, noShuffle bool, rng *rand.Rand) error {
	p := g.Players[id]

	leaderID := alloc.NextCardID()
	g.Cards[leaderID] = &types.CardInstance{ID: leaderID, DefID: spec.Leader, Owner: id, Controller: id, Zone: types.ZoneLeaderArea, State: types.StateActive}
	p.LeaderArea = leaderID

	deckIDs := make([]types.CardID, 0, len(spec.Deck))
	for _, defID := range spec.Deck {
		cardID := alloc.NextCardID()
		g.Cards[cardID] = &types.CardInstance{ID: cardID, DefID: defID, Owner: id, Controller: id, Zone: types.ZoneDeck}
		deckIDs = append(deckIDs, cardID)
	}
	if !noShuffle {
		rng.Shuffle(len(deckIDs), func(i, j int) { deckIDs[i], deckIDs[j] = deckIDs[j], deckIDs[i] })
	}

	for i := 0; i < initialLife && i < len(deckIDs); i++ {
		id := deckIDs[i]
		g.Cards[id].Zone = types.ZoneLife
		p.Life = append(p.Life, id)
	}
	deckIDs = deckIDs[min(initialLife, len(deckIDs)):]

	for i := 0; i < initialHandSize && i < len(deckIDs); i++ {
		id := deckIDs[i]
		g.Cards[id].Zone = types.ZoneHand
		p.Hand = append(p.Hand, id)
	}
	deckIDs = deckIDs[min(initialHandSize, len(deckIDs)):]

	p.Deck = deckIDs

	for i := 0; i < 10; i++ {
		donID := alloc.NextDonID()
		g.Dons[donID] = &types.DonInstance{ID: donID, Owner: id, Zone: types.ZoneDonDeck, State: types.StateActive}
		p.DonDeck = append(p.DonDeck, donID)
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Mulligan offers each player's controller a one-time opening-hand redraw.
func (e *Engine) Mulligan(ctx context.Context) error {
	for _, id := range e.state.PlayerOrder {
		ctrl := e.controllers[id]
		if ctrl == nil {
			continue
		}
		p := e.state.Players[id]
		redraw, err := ctrl.ChooseMulligan(ctx, e.state, append([]types.CardID(nil), p.Hand...))
		if err != nil {
			return err
		}
		if !redraw {
			continue
		}
		hand := append([]types.CardID(nil), p.Hand...)
		for _, id := range hand {
			e.state = state.MoveCard(e.state, id, types.ZoneDeck, -1)
		}
		e.rng.Shuffle(len(p.Deck), func(i, j int) { p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i] })
		for i := 0; i < initialHandSize && i < len(p.Deck); i++ {
			var err error
			e.state, _, err = e.zone.Draw(e.state, id)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// RunGame advances turns until the match ends or ctx is cancelled.
func (e *Engine) RunGame(ctx context.Context) (*types.GameState, error) {
	for !e.state.GameOver {
		if err := ctx.Err(); err != nil {
			return e.state, err
		}
		ng, err := phase.RunTurn(e.phaseCtx, e.state)
		if err != nil {
			return e.state, err
		}
		e.state = ng
		e.state = defeat.Check(e.state)
	}
	return e.state, nil
}

// GetState returns the current, immutable snapshot.
func (e *Engine) GetState() *types.GameState { return e.state }

// PhaseContext exposes the façade's internal phase.Context so a caller can
// drive phase.ApplyAction directly, e.g. to build an ai.Simulator closure
// without the ai package importing phase itself.
func (e *Engine) PhaseContext() *phase.Context { return e.phaseCtx }

// GetLegalActions enumerates the active player's legal Main-phase actions.
func (e *Engine) GetLegalActions() []types.Action {
	return phase.LegalActions(e.phaseCtx, e.state, e.state.TurnNumber <= 1)
}

// CanPerformAction reports whether a matches one of GetLegalActions' entries.
func (e *Engine) CanPerformAction(a types.Action) bool {
	for _, legal := range e.GetLegalActions() {
		if actionsEqual(legal, a) {
			return true
		}
	}
	return false
}

// actionsEqual compares the identifying fields of two actions. types.Action
// carries slice fields (Targets, Values) that are never populated by
// LegalActions, so a field-wise comparison stands in for == (which Go
// disallows on structs containing slices).
func actionsEqual(a, b types.Action) bool {
	return a.Player == b.Player &&
		a.ActionKind == b.ActionKind &&
		a.CardID == b.CardID &&
		a.SourceCard == b.SourceCard &&
		a.EffectID == b.EffectID &&
		a.DonID == b.DonID &&
		a.AttackerID == b.AttackerID &&
		a.TargetID == b.TargetID
}

// On subscribes handler to every event of kind, passing predicate through
// to the underlying Event Bus unchanged.
func (e *Engine) On(kind types.EventKind, pred eventbus.Predicate, handler eventbus.Handler) *eventbus.Subscription {
	return e.bus.Subscribe(kind, pred, handler)
}

// transact applies op to a clone-safe pre-image of the state; on error the
// pre-image (pristine e.state) is left untouched, matching the rollback
// contract every action entry point gives callers (§6, §7).
func (e *Engine) transact(op func(*types.GameState) (*types.GameState, error)) error {
	pre := e.state
	ng, err := op(pre)
	if err != nil {
		e.errors.Record(enginerr.Wrap(types.ErrIllegalAction, "action rejected", err))
		return err
	}
	e.state = defeat.Check(ng)
	return nil
}

// PlayCard plays cardID from hand for controller, paying its cost.
func (e *Engine) PlayCard(controller types.PlayerID, cardID types.CardID) error {
	return e.transact(func(g *types.GameState) (*types.GameState, error) {
		return phase.ApplyAction(e.phaseCtx, g, types.Action{Player: controller, ActionKind: types.ActionPlayCard, CardID: cardID})
	})
}

// GiveDon attaches donID from controller's cost area to cardID.
func (e *Engine) GiveDon(controller types.PlayerID, donID types.DonID, cardID types.CardID) error {
	return e.transact(func(g *types.GameState) (*types.GameState, error) {
		return phase.ApplyAction(e.phaseCtx, g, types.Action{Player: controller, ActionKind: types.ActionGiveDon, DonID: donID, CardID: cardID})
	})
}

// DeclareAttack runs the full battle pipeline for attackerID against
// targetID (empty means the defending leader).
func (e *Engine) DeclareAttack(controller types.PlayerID, attackerID, targetID types.CardID) error {
	return e.transact(func(g *types.GameState) (*types.GameState, error) {
		return phase.ApplyAction(e.phaseCtx, g, types.Action{Player: controller, ActionKind: types.ActionDeclareAttack, AttackerID: attackerID, TargetID: targetID})
	})
}

// ActivateEffect resolves the named effect hosted on sourceCard.
func (e *Engine) ActivateEffect(controller types.PlayerID, sourceCard types.CardID, effectID types.EffectID) error {
	return e.transact(func(g *types.GameState) (*types.GameState, error) {
		return phase.ApplyAction(e.phaseCtx, g, types.Action{Player: controller, ActionKind: types.ActionActivateEffect, SourceCard: sourceCard, EffectID: effectID})
	})
}
