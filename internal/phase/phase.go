// Package phase implements the Turn/Phase State Machine (C9): the
// Refresh -> Draw -> Don -> Main -> End sequence and the Main phase's
// interactive action loop.
package phase

import (
	"fmt"

	"github.com/tcgx/optcg-engine/internal/battle"
	"github.com/tcgx/optcg-engine/internal/defeat"
	"github.com/tcgx/optcg-engine/internal/effect"
	"github.com/tcgx/optcg-engine/internal/eventbus"
	"github.com/tcgx/optcg-engine/internal/loopguard"
	"github.com/tcgx/optcg-engine/internal/modifier"
	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/rules"
	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
	"github.com/tcgx/optcg-engine/internal/zone"
)

// Context bundles the collaborators the phase driver needs to advance a turn.
type Context struct {
	Zone        *zone.Manager
	Bus         *eventbus.Bus
	Rules       *rules.Context
	Controllers map[types.PlayerID]player.Controller
	ResolveCtx  *effect.ResolveContext
	BattleCtx   *battle.Context
}

// RunTurn advances g through one complete turn for the active player.
func RunTurn(pc *Context, g *types.GameState) (*types.GameState, error) {
	ng := g
	firstTurn := ng.TurnNumber == 0
	ng = state.IncrementTurn(ng)

	ng = refreshPhase(pc, ng)
	ng = checkpoint(ng)
	if ng.GameOver {
		return ng, nil
	}

	ng = state.SetPhase(ng, types.PhaseDraw)
	if !(firstTurn && pc.Rules.FirstTurnSkipsDraw) {
		var err error
		ng, _, err = pc.Zone.Draw(ng, ng.ActivePlayer)
		if err != nil {
			return g, err
		}
	}
	ng = checkpoint(ng)
	if ng.GameOver {
		return ng, nil
	}

	ng, err := donPhase(pc, ng, firstTurn)
	if err != nil {
		return g, err
	}
	ng = checkpoint(ng)
	if ng.GameOver {
		return ng, nil
	}

	ng, err = mainPhase(pc, ng, firstTurn)
	if err != nil {
		return g, err
	}
	if ng.GameOver {
		return ng, nil
	}

	ng = endPhase(pc, ng)
	return ng, nil
}

func checkpoint(g *types.GameState) *types.GameState {
	return defeat.Check(g)
}

func refreshPhase(pc *Context, g *types.GameState) *types.GameState {
	ng := state.SetPhase(g, types.PhaseRefresh)
	ng = state.ClearAttackedThisTurn(ng)
	p, ok := state.GetPlayer(ng, ng.ActivePlayer)
	if ok {
		for _, id := range p.CharacterArea {
			ng = pc.Zone.SetCardState(ng, id, types.StateActive)
		}
		if p.LeaderArea != "" {
			ng = pc.Zone.SetCardState(ng, p.LeaderArea, types.StateActive)
		}
		for _, id := range p.CostArea {
			ng = pc.Zone.SetDonState(ng, id, types.StateActive)
		}
	}
	ng = modifier.Expire(ng, modifier.ExpireStartOfNextTurn)
	ev := types.Event{Kind: types.EventTurnStart, Turn: ng.TurnNumber, Phase: ng.Phase, Player: ng.ActivePlayer}
	if pc.Bus != nil {
		pc.Bus.Emit(ev)
	}
	ng = effect.GatherTriggers(ng, ev)
	ng, err := drainTriggers(pc, ng)
	if err != nil {
		return ng
	}
	return ng
}

func donPhase(pc *Context, g *types.GameState, firstTurn bool) (*types.GameState, error) {
	ng := state.SetPhase(g, types.PhaseDon)
	n := pc.Rules.DonCountForTurn(ng.TurnNumber, firstTurn)
	p, ok := state.GetPlayer(ng, ng.ActivePlayer)
	if !ok {
		return ng, fmt.Errorf("phase: unknown active player %q", ng.ActivePlayer)
	}
	moved := 0
	for _, id := range p.DonDeck {
		if moved >= n {
			break
		}
		ng = state.MoveDon(ng, id, types.ZoneCostArea, "")
		ng = pc.Zone.SetDonState(ng, id, types.StateActive)
		moved++
	}
	return ng, nil
}

func mainPhase(pc *Context, g *types.GameState, firstTurn bool) (*types.GameState, error) {
	ng := state.SetPhase(g, types.PhaseMain)
	ctrl := pc.Controllers[ng.ActivePlayer]
	for {
		legal := LegalActions(pc, ng, firstTurn)
		action, err := ctrl.ChooseAction(pc.BattleCtx.Ctx, ng, legal)
		if err != nil {
			return g, err
		}
		if action.ActionKind == types.ActionEndPhase || action.ActionKind == types.ActionPassPriority {
			break
		}
		ng, err = ApplyAction(pc, ng, action)
		if err != nil {
			return g, err
		}
		ng = state.AddToHistory(ng, action)
		ng = checkpoint(ng)
		if ng.GameOver {
			break
		}
		var stuck bool
		ng, stuck = loopguard.Observe(ng, pc.Rules.Loop.MaxRepeats)
		if stuck {
			ng = loopguard.Resolve(ng, ng.ActivePlayer)
			break
		}
	}
	return ng, nil
}

// ApplyAction executes a single action against g, returning the resulting
// state. It is exported so the engine façade can drive individual actions
// (PlayCard, GiveDon, DeclareAttack, ActivateEffect) outside the Main phase's
// own interactive loop, e.g. from a network or MCP request handler.
func ApplyAction(pc *Context, g *types.GameState, action types.Action) (*types.GameState, error) {
	switch action.ActionKind {
	case types.ActionPlayCard:
		return playCard(pc, g, action)
	case types.ActionGiveDon:
		ng, err := pc.Zone.AttachDon(g, action.DonID, action.CardID)
		if err != nil {
			return g, err
		}
		return pc.Zone.SetDonState(ng, action.DonID, types.StateRested), nil
	case types.ActionDeclareAttack:
		return battle.DeclareAttack(pc.BattleCtx, g, action.AttackerID, action.TargetID)
	case types.ActionActivateEffect:
		def, ok := state.GetDefinition(g, action.SourceCard)
		if !ok {
			return g, fmt.Errorf("phase: unknown source card %q", action.SourceCard)
		}
		for _, eff := range def.Effects {
			if eff.ID == action.EffectID {
				return effect.ResolveEffect(pc.ResolveCtx, g, eff, action.Player, action.SourceCard)
			}
		}
		return g, fmt.Errorf("phase: effect %q not found on %q", action.EffectID, action.SourceCard)
	default:
		return g, fmt.Errorf("phase: unsupported action kind %s", action.ActionKind)
	}
}

func playCard(pc *Context, g *types.GameState, action types.Action) (*types.GameState, error) {
	def, ok := state.GetDefinition(g, action.CardID)
	if !ok {
		return g, fmt.Errorf("phase: unknown card %q", action.CardID)
	}
	cost := modifier.CurrentCost(def, mustCard(g, action.CardID))
	ng, err := payGenericCost(pc, g, action.Player, cost)
	if err != nil {
		return g, err
	}
	switch def.Category {
	case types.CategoryCharacter:
		ng, err = pc.Zone.PlayToCharacterArea(ng, action.CardID, action.Player)
	case types.CategoryStage:
		ng, err = pc.Zone.PlayToStageArea(ng, action.CardID, action.Player)
	case types.CategoryEvent:
		ng, err = pc.Zone.Trash(ng, action.CardID)
	default:
		return g, fmt.Errorf("phase: %q is not playable from hand", action.CardID)
	}
	if err != nil {
		return g, err
	}
	ev := types.Event{Kind: types.EventCardPlayed, Turn: ng.TurnNumber, Phase: ng.Phase, Player: action.Player, Card: action.CardID}
	if pc.Bus != nil {
		pc.Bus.Emit(ev)
	}
	ng = effect.GatherTriggers(ng, ev)
	return drainTriggers(pc, ng)
}

func mustCard(g *types.GameState, id types.CardID) *types.CardInstance {
	c, _ := state.GetCard(g, id)
	return c
}

func payGenericCost(pc *Context, g *types.GameState, controller types.PlayerID, cost int) (*types.GameState, error) {
	p, ok := state.GetPlayer(g, controller)
	if !ok {
		return g, fmt.Errorf("phase: unknown player %q", controller)
	}
	ng := g
	rested := 0
	for _, id := range p.CostArea {
		if rested >= cost {
			break
		}
		d, ok := state.GetDon(ng, id)
		if ok && d.State == types.StateActive {
			ng = pc.Zone.SetDonState(ng, id, types.StateRested)
			rested++
		}
	}
	if rested < cost {
		return g, fmt.Errorf("phase: insufficient active DON to pay cost %d", cost)
	}
	return ng, nil
}

func drainTriggers(pc *Context, g *types.GameState) (*types.GameState, error) {
	ng := g
	for len(ng.PendingTriggers) > 0 {
		t := ng.PendingTriggers[0]
		rest := append([]types.TriggerInstance(nil), ng.PendingTriggers[1:]...)
		ng = state.ClearPendingTriggers(ng)
		ng.PendingTriggers = rest
		var err error
		ng, err = effect.ResolveTriggered(pc.ResolveCtx, ng, t)
		if err != nil {
			return g, err
		}
	}
	return ng, nil
}

func endPhase(pc *Context, g *types.GameState) *types.GameState {
	ng := state.SetPhase(g, types.PhaseEnd)
	ev := types.Event{Kind: types.EventTurnEnd, Turn: ng.TurnNumber, Phase: ng.Phase, Player: ng.ActivePlayer}
	if pc.Bus != nil {
		pc.Bus.Emit(ev)
	}
	ng = effect.GatherTriggers(ng, ev)
	ng, err := drainTriggers(pc, ng)
	if err != nil {
		return ng
	}
	ng = modifier.Expire(ng, modifier.ExpireEndOfTurn)
	return state.SetActivePlayer(ng, ng.Opponent(ng.ActivePlayer))
}

// LegalActions enumerates the exact set of actions the active player may
// take from the current Main phase state (§4.1, Property 24's action
// analogue). firstTurn additionally disables attacks when the ruleset
// forbids battling on the very first turn.
func LegalActions(pc *Context, g *types.GameState, firstTurn bool) []types.Action {
	var actions []types.Action
	p, ok := state.GetPlayer(g, g.ActivePlayer)
	if !ok {
		return actions
	}
	activeDon := 0
	for _, id := range p.CostArea {
		if d, ok := state.GetDon(g, id); ok && d.State == types.StateActive {
			activeDon++
		}
	}
	for _, id := range p.Hand {
		def, ok := state.GetDefinition(g, id)
		if !ok {
			continue
		}
		if def.Cost == nil || *def.Cost > activeDon {
			continue
		}
		if def.Category == types.CategoryCharacter || def.Category == types.CategoryStage || def.Category == types.CategoryEvent {
			actions = append(actions, types.Action{Player: g.ActivePlayer, ActionKind: types.ActionPlayCard, CardID: id})
		}
	}
	for _, donID := range p.CostArea {
		d, ok := state.GetDon(g, donID)
		if !ok || d.State != types.StateActive {
			continue
		}
		for _, charID := range p.CharacterArea {
			actions = append(actions, types.Action{Player: g.ActivePlayer, ActionKind: types.ActionGiveDon, DonID: donID, CardID: charID})
		}
	}
	canBattle := !(firstTurn && pc.Rules.FirstTurnMayNotBattle)
	if canBattle {
		opp := g.Opponent(g.ActivePlayer)
		oppState, _ := state.GetPlayer(g, opp)
		for _, id := range p.CharacterArea {
			c, ok := state.GetCard(g, id)
			if !ok || c.State != types.StateActive || g.AttackedThisTurn[id] {
				continue
			}
			actions = append(actions, types.Action{Player: g.ActivePlayer, ActionKind: types.ActionDeclareAttack, AttackerID: id})
			if oppState != nil {
				for _, tid := range oppState.CharacterArea {
					if tc, ok := state.GetCard(g, tid); ok && tc.State == types.StateRested {
						actions = append(actions, types.Action{Player: g.ActivePlayer, ActionKind: types.ActionDeclareAttack, AttackerID: id, TargetID: tid})
					}
				}
			}
		}
		if p.LeaderArea != "" {
			if lc, ok := state.GetCard(g, p.LeaderArea); ok && lc.State == types.StateActive && !g.AttackedThisTurn[p.LeaderArea] {
				actions = append(actions, types.Action{Player: g.ActivePlayer, ActionKind: types.ActionDeclareAttack, AttackerID: p.LeaderArea})
			}
		}
	}
	for _, id := range inPlayIDs(p) {
		def, ok := state.GetDefinition(g, id)
		if !ok {
			continue
		}
		for _, eff := range def.Effects {
			if eff.Timing != types.TimingActivate {
				continue
			}
			if !effect.CanActivate(g, eff, g.ActivePlayer, id) {
				continue
			}
			actions = append(actions, types.Action{Player: g.ActivePlayer, ActionKind: types.ActionActivateEffect, SourceCard: id, EffectID: eff.ID})
		}
	}
	actions = append(actions, types.Action{Player: g.ActivePlayer, ActionKind: types.ActionEndPhase})
	return actions
}

func inPlayIDs(p *types.PlayerState) []types.CardID {
	out := append([]types.CardID(nil), p.CharacterArea...)
	if p.LeaderArea != "" {
		out = append(out, p.LeaderArea)
	}
	if p.StageArea != "" {
		out = append(out, p.StageArea)
	}
	return out
}
