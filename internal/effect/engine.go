package effect

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
)

// CanActivate reports whether eff may currently be activated by controller
// from source: its condition holds and, for OncePerTurn effects, the
// per-turn usage flag has not already been stamped this turn (§4.6.1).
func CanActivate(g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID) bool {
	if eff.OncePerTurn {
		if c, ok := state.GetCard(g, source); ok {
			if used, ok := c.Flags["usedEffect:"+string(eff.ID)]; ok && used == strconv.Itoa(g.TurnNumber) {
				return false
			}
		}
	}
	cond := eff.Condition
	if cond == nil {
		return true
	}
	p, ok := state.GetPlayer(g, controller)
	if !ok {
		return false
	}
	if cond.MinDonActive != nil {
		active := 0
		for _, id := range p.CostArea {
			if d, ok := state.GetDon(g, id); ok && d.State == types.StateActive {
				active++
			}
		}
		if active < *cond.MinDonActive {
			return false
		}
	}
	if cond.MinCharactersYou != nil && len(p.CharacterArea) < *cond.MinCharactersYou {
		return false
	}
	if cond.MinLifeYou != nil && len(p.Life) < *cond.MinLifeYou {
		return false
	}
	if cond.MaxLifeYou != nil && len(p.Life) > *cond.MaxLifeYou {
		return false
	}
	return true
}

// ResolveEffect runs the full §4.6 contract for a single effect activation:
// legality, targeting, cost payment, resolver dispatch, once-per-turn
// stamping and trigger gathering. Any failure after cost payment rolls the
// state back to the pre-image g and returns an error; an unmet cost or an
// empty legal-target pool with a positive minimum silently fizzles the
// effect instead (§4.6.2) and returns g unchanged with a nil error.
func ResolveEffect(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID) (*types.GameState, error) {
	if !CanActivate(g, eff, controller, source) {
		return g, fmt.Errorf("effect: %s is not activatable by %s", eff.ID, controller)
	}

	targets, ok := gatherTargets(rc, g, eff, controller, source)
	if !ok {
		return g, nil
	}

	ng, paid, err := PayCost(rc.Ctx, rc.Zone, rc.Controllers[controller], g, eff.Cost, controller, source)
	if err != nil {
		return g, err
	}
	if !paid {
		return g, nil
	}

	fn, ok := Registry[eff.Resolver]
	if !ok {
		return g, fmt.Errorf("effect: no resolver registered for kind %s", eff.Resolver)
	}
	resolved, err := fn(rc, ng, eff, controller, source, targets, nil)
	if err != nil {
		return g, err
	}

	if eff.OncePerTurn {
		resolved = state.UpdateCard(resolved, source, func(ci *types.CardInstance) {
			if ci.Flags == nil {
				ci.Flags = map[string]string{}
			}
			ci.Flags["usedEffect:"+string(eff.ID)] = strconv.Itoa(resolved.TurnNumber)
		})
	}

	ev := types.Event{Kind: types.EventEffectResolved, Turn: resolved.TurnNumber, Phase: resolved.Phase,
		Player: controller, EffectDefID: eff.ID, SourceCard: source}
	if rc.Bus != nil {
		rc.Bus.Emit(ev)
	}
	resolved = GatherTriggers(resolved, ev)
	return resolved, nil
}

// gatherTargets resolves the target slice for eff, asking controller to
// choose one at a time until MaxTargets is reached or candidates run out.
// ok is false when MinTargets cannot be met, signalling a silent fizzle.
func gatherTargets(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID) ([]types.CardID, bool) {
	if eff.TargetFilter == nil {
		return nil, true
	}
	candidates := LegalTargets(g, eff.TargetFilter, controller, source)
	if len(candidates) < eff.MinTargets {
		return nil, false
	}
	max := eff.MaxTargets
	if max <= 0 {
		max = len(candidates)
	}
	ctrl := rc.Controllers[controller]
	var targets []types.CardID
	for i := 0; i < max && len(candidates) > 0; i++ {
		if ctrl == nil {
			break
		}
		chosen, err := ctrl.ChooseTarget(rc.Ctx, g, candidates, eff)
		if err != nil {
			break
		}
		targets = append(targets, chosen)
		candidates = remove(candidates, chosen)
		if len(targets) >= eff.MinTargets && i+1 >= max {
			break
		}
	}
	if len(targets) < eff.MinTargets {
		return nil, false
	}
	return targets, true
}

// GatherTriggers scans every permanent on the field for an auto-timed
// effect matching ev, appending one TriggerInstance per match to the
// pending queue. It depends only on types and state, never on the trigger
// package, so the effect engine and the Trigger Queue (C7) can each call
// the other without an import cycle.
func GatherTriggers(g *types.GameState, ev types.Event) *types.GameState {
	var matched []types.TriggerInstance
	for id, c := range g.Cards {
		if !inPlay(c.Zone) {
			continue
		}
		def, ok := state.GetDefinition(g, id)
		if !ok {
			continue
		}
		for _, eff := range def.Effects {
			if eff.Timing != types.TimingAuto || eff.TriggerTiming == types.TriggerNone {
				continue
			}
			if !matchesTrigger(eff.TriggerTiming, ev, c.Controller, id) {
				continue
			}
			matched = append(matched, types.TriggerInstance{
				EffectDefID: eff.ID, SourceCard: id, Controller: c.Controller, Event: ev, Priority: eff.Priority,
			})
		}
	}
	if len(matched) == 0 {
		return g
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		return matched[i].SourceCard < matched[j].SourceCard
	})
	ng := g
	for _, t := range matched {
		ng = state.AddPendingTrigger(ng, t)
	}
	return ng
}

// ResolveTriggered resolves one dequeued trigger.TriggerInstance by looking
// up its effect definition on its source card and running it through the
// normal ResolveEffect path. The engine façade wires this as the
// trigger.Resolver passed to trigger.Drain, so the trigger package never
// needs to import this one.
func ResolveTriggered(rc *ResolveContext, g *types.GameState, t types.TriggerInstance) (*types.GameState, error) {
	def, ok := state.GetDefinition(g, t.SourceCard)
	if !ok {
		return g, fmt.Errorf("effect: unknown source card %q for trigger %q", t.SourceCard, t.EffectDefID)
	}
	for _, eff := range def.Effects {
		if eff.ID == t.EffectDefID {
			return ResolveEffect(rc, g, eff, t.Controller, t.SourceCard)
		}
	}
	return g, fmt.Errorf("effect: effect %q not found on source %q", t.EffectDefID, t.SourceCard)
}

func inPlay(z types.Zone) bool {
	return z == types.ZoneCharacterArea || z == types.ZoneLeaderArea || z == types.ZoneStageArea
}

func matchesTrigger(timing types.TriggerTiming, ev types.Event, cardController types.PlayerID, cardID types.CardID) bool {
	switch timing {
	case types.TriggerStartOfGame:
		return ev.Kind == types.EventTurnStart && ev.Turn == 1
	case types.TriggerStartOfTurn:
		return ev.Kind == types.EventTurnStart && ev.Player == cardController
	case types.TriggerOnPlay:
		return ev.Kind == types.EventCardPlayed && ev.Card == cardID
	case types.TriggerWhenAttacking:
		return ev.Kind == types.EventAttackDeclared && ev.Player == cardController
	case types.TriggerOnOpponentAttack:
		return ev.Kind == types.EventAttackDeclared && ev.Player != cardController
	case types.TriggerOnBlock:
		return ev.Kind == types.EventBlockDeclared && ev.Player == cardController
	case types.TriggerWhenAttacked:
		return ev.Kind == types.EventAttackDeclared && ev.Player != cardController &&
			(ev.Target == cardID || ev.Target == "")
	case types.TriggerOnKO:
		return ev.Kind == types.EventCardMoved && (ev.ToZone == types.ZoneTrash || ev.ToZone == types.ZoneBanished)
	case types.TriggerEndOfBattle:
		return ev.Kind == types.EventBattleEnd
	case types.TriggerEndOfYourTurn:
		return ev.Kind == types.EventTurnEnd && ev.Player == cardController
	case types.TriggerEndOfOpponentTurn:
		return ev.Kind == types.EventTurnEnd && ev.Player != cardController
	default:
		return false
	}
}
