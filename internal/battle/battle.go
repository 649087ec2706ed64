// Package battle implements the Battle Pipeline (C8): the fixed
// Attack -> Block -> Counter -> Damage -> End sequence a declared attack
// drives a *types.GameState through.
package battle

import (
	"context"
	"fmt"

	"github.com/tcgx/optcg-engine/internal/effect"
	"github.com/tcgx/optcg-engine/internal/eventbus"
	"github.com/tcgx/optcg-engine/internal/modifier"
	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/rules"
	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
	"github.com/tcgx/optcg-engine/internal/zone"
)

// Context bundles the collaborators a battle needs, mirroring effect.ResolveContext.
type Context struct {
	Ctx         context.Context
	Zone        *zone.Manager
	Bus         *eventbus.Bus
	Rules       *rules.Context
	Controllers map[types.PlayerID]player.Controller
	ResolveCtx  *effect.ResolveContext
}

// DeclareAttack drives attackerID's attack against targetID (empty means
// the defending leader) through the full pipeline, returning the resulting
// state. It is the sole entry point C9's Main phase calls for a battle.
func DeclareAttack(bc *Context, g *types.GameState, attackerID, targetID types.CardID) (*types.GameState, error) {
	attacker, ok := state.GetCard(g, attackerID)
	if !ok {
		return g, fmt.Errorf("battle: unknown attacker %q", attackerID)
	}
	if attacker.State != types.StateActive {
		return g, fmt.Errorf("battle: attacker %q is not active", attackerID)
	}
	if g.AttackedThisTurn[attackerID] {
		return g, fmt.Errorf("battle: attacker %q has already attacked this turn", attackerID)
	}
	targetIsLeader := targetID == ""
	if !targetIsLeader {
		target, ok := state.GetCard(g, targetID)
		if !ok || target.Zone != types.ZoneCharacterArea {
			return g, fmt.Errorf("battle: illegal attack target %q", targetID)
		}
	}

	ng := g
	ng = state.MarkAttacked(ng, attackerID)
	ng = state.SetBattle(ng, &types.BattleState{
		Step: types.BattleStepAttack, Attacker: attackerID, TargetIsLeader: targetIsLeader, TargetCharacter: targetID,
	})
	ev := types.Event{Kind: types.EventAttackDeclared, Turn: ng.TurnNumber, Phase: ng.Phase,
		Player: attacker.Controller, Attacker: attackerID, Target: targetID}
	if bc.Bus != nil {
		bc.Bus.Emit(ev)
	}
	ng = effect.GatherTriggers(ng, ev)
	var err error
	ng, err = resolveTriggers(bc, ng)
	if err != nil {
		return g, err
	}
	if ng.GameOver {
		return ng, nil
	}

	ng, err = blockStep(bc, ng)
	if err != nil {
		return g, err
	}
	if ng.GameOver {
		return ng, nil
	}

	ng, err = counterStep(bc, ng)
	if err != nil {
		return g, err
	}
	if ng.GameOver {
		return ng, nil
	}

	ng, err = damageStep(bc, ng)
	if err != nil {
		return g, err
	}

	ng = endStep(bc, ng)
	return ng, nil
}

func resolveTriggers(bc *Context, g *types.GameState) (*types.GameState, error) {
	ng := g
	for len(ng.PendingTriggers) > 0 {
		t := ng.PendingTriggers[0]
		rest := append([]types.TriggerInstance(nil), ng.PendingTriggers[1:]...)
		ng = state.ClearPendingTriggers(ng)
		ng.PendingTriggers = rest
		var err error
		ng, err = effect.ResolveTriggered(bc.ResolveCtx, ng, t)
		if err != nil {
			return g, err
		}
	}
	return ng, nil
}

// blockStep offers the defending player every untapped Blocker-keyword
// character as a substitute defender, or the option to decline (§4.8),
// when the attack targets the leader. An attack on a character is never
// offered a block; the targeted character stays the defender.
func blockStep(bc *Context, g *types.GameState) (*types.GameState, error) {
	b := g.Battle
	attacker, _ := state.GetCard(g, b.Attacker)
	defenderPlayer := g.Opponent(attacker.Controller)

	if b.TargetIsLeader {
		var options []player.BlockerOption
		options = append(options, player.BlockerOption{})
		p, _ := state.GetPlayer(g, defenderPlayer)
		for _, id := range p.CharacterArea {
			c, ok := state.GetCard(g, id)
			if !ok || c.State != types.StateActive {
				continue
			}
			def, ok := state.GetDefinition(g, id)
			if !ok || !modifier.HasKeyword(def, c, types.KeywordBlocker) {
				continue
			}
			options = append(options, player.BlockerOption{CardID: id})
		}
		if len(options) > 1 {
			ctrl := bc.Controllers[defenderPlayer]
			choice, err := ctrl.ChooseBlocker(bc.Ctx, g, options, b.Attacker)
			if err != nil {
				return g, err
			}
			if choice.CardID != "" {
				ng := state.SetBattle(g, &types.BattleState{
					Step: types.BattleStepBlock, Attacker: b.Attacker, TargetIsLeader: true, Defender: choice.CardID,
				})
				ng = bc.Zone.SetCardState(ng, choice.CardID, types.StateRested)
				ev := types.Event{Kind: types.EventBlockDeclared, Turn: ng.TurnNumber, Phase: ng.Phase,
					Player: defenderPlayer, Attacker: b.Attacker, Blocker: choice.CardID}
				if bc.Bus != nil {
					bc.Bus.Emit(ev)
				}
				ng = effect.GatherTriggers(ng, ev)
				return resolveTriggers(bc, ng)
			}
		}
	}
	ng := g.Clone()
	ng.Battle.Step = types.BattleStepBlock
	if !ng.Battle.TargetIsLeader {
		ng.Battle.Defender = ng.Battle.TargetCharacter
	}
	return ng, nil
}

// counterStep lets the defending player raise the defender's effective
// power with counter cards until they pass (§4.8). Every Event card in hand
// is offered too; playing one trashes it and emits EventCounterUsed, but
// neither resolves its effect nor adds power.
func counterStep(bc *Context, g *types.GameState) (*types.GameState, error) {
	b := g.Battle
	attacker, _ := state.GetCard(g, b.Attacker)
	defenderPlayer := g.Opponent(attacker.Controller)
	ctrl := bc.Controllers[defenderPlayer]

	ng := state.SetBattle(g, &types.BattleState{
		Step: types.BattleStepCounter, Attacker: b.Attacker, TargetIsLeader: b.TargetIsLeader,
		TargetCharacter: b.TargetCharacter, Defender: b.Defender, CounterPower: b.CounterPower,
	})
	ev := types.Event{Kind: types.EventCounterStepStart, Turn: ng.TurnNumber, Phase: ng.Phase, Player: defenderPlayer}
	if bc.Bus != nil {
		bc.Bus.Emit(ev)
	}

	for {
		p, _ := state.GetPlayer(ng, defenderPlayer)
		var options []player.CounterOption
		for _, id := range p.Hand {
			def, ok := state.GetDefinition(ng, id)
			if ok && def.Category == types.CategoryCharacter && def.CounterVal > 0 {
				options = append(options, player.CounterOption{Kind: player.CounterUseCard, CardID: id})
			}
			if ok && def.Category == types.CategoryEvent {
				options = append(options, player.CounterOption{Kind: player.CounterPlayEvent, CardID: id})
			}
		}
		options = append(options, player.CounterOption{Kind: player.CounterPass})
		choice, err := ctrl.ChooseCounterAction(bc.Ctx, ng, options)
		if err != nil {
			return g, err
		}
		if choice.Kind == player.CounterPass {
			break
		}
		def, ok := state.GetDefinition(ng, choice.CardID)
		if !ok {
			break
		}
		ng, err = bc.Zone.Trash(ng, choice.CardID)
		if err != nil {
			return g, err
		}
		if choice.Kind == player.CounterUseCard {
			ng.Battle.CounterPower += def.CounterVal
		}
		if bc.Bus != nil {
			bc.Bus.Emit(types.Event{Kind: types.EventCounterUsed, Turn: ng.TurnNumber, Phase: ng.Phase,
				Player: defenderPlayer, SourceCard: choice.CardID, PowerDelta: def.CounterVal})
		}
	}
	return ng, nil
}

// damageStep compares powers, KOs the loser of a character battle (ties
// favor neither side, §4.8 mutual-non-destruction rule, destroy only the
// side whose power is strictly exceeded) and applies leader damage for an
// unblocked attack.
func damageStep(bc *Context, g *types.GameState) (*types.GameState, error) {
	b := g.Battle
	attacker, _ := state.GetCard(g, b.Attacker)
	attackerDef, _ := state.GetDefinition(g, b.Attacker)
	attackerPower := modifier.CurrentPower(attackerDef, attacker)

	ng := state.SetBattle(g, &types.BattleState{
		Step: types.BattleStepDamage, Attacker: b.Attacker, TargetIsLeader: b.TargetIsLeader,
		TargetCharacter: b.TargetCharacter, Defender: b.Defender, CounterPower: b.CounterPower,
	})

	if ng.Battle.Defender == "" {
		// Unblocked leader attack.
		return leaderDamage(bc, ng, attacker.Controller, attackerDef, attackerPower)
	}

	defenderCard, ok := state.GetCard(ng, ng.Battle.Defender)
	if !ok {
		return leaderDamage(bc, ng, attacker.Controller, attackerDef, attackerPower)
	}
	defenderDef, _ := state.GetDefinition(ng, ng.Battle.Defender)
	defenderPower := modifier.CurrentPower(defenderDef, defenderCard) + ng.Battle.CounterPower

	var err error
	if attackerPower > defenderPower {
		ng, err = koOrBanish(bc, ng, ng.Battle.Defender, defenderDef)
		if err != nil {
			return g, err
		}
	}
	if defenderPower > attackerPower {
		ng, err = koOrBanish(bc, ng, b.Attacker, attackerDef)
		if err != nil {
			return g, err
		}
	}
	ev := types.Event{Kind: types.EventBattleEnd, Turn: ng.TurnNumber, Phase: ng.Phase,
		Player: attacker.Controller, Attacker: b.Attacker, Blocker: ng.Battle.Defender}
	if bc.Bus != nil {
		bc.Bus.Emit(ev)
	}
	ng = effect.GatherTriggers(ng, ev)
	return resolveTriggers(bc, ng)
}

func koOrBanish(bc *Context, g *types.GameState, id types.CardID, def *types.CardDefinition) (*types.GameState, error) {
	if def != nil && def.HasKeyword(types.KeywordBanish) {
		return bc.Zone.Banish(g, id)
	}
	return bc.Zone.Trash(g, id)
}

func leaderDamage(bc *Context, g *types.GameState, attackerController types.PlayerID, attackerDef *types.CardDefinition, attackerPower int) (*types.GameState, error) {
	defenderPlayer := g.Opponent(attackerController)
	hits := 1
	if attackerDef.HasKeyword(types.KeywordDoubleAttack) {
		hits = 2
	}
	ng := g
	for i := 0; i < hits; i++ {
		p, ok := state.GetPlayer(ng, defenderPlayer)
		if !ok || len(p.Life) == 0 {
			ng = state.SetGameOver(ng, &attackerController, "life deck exhausted by leader damage")
			break
		}
		top := p.Life[0]
		ng = state.MoveCard(ng, top, types.ZoneHand, 0)
		def, _ := state.GetDefinition(ng, top)
		moveEv := types.Event{Kind: types.EventCardMoved, Turn: ng.TurnNumber, Phase: ng.Phase, Player: defenderPlayer,
			Card: top, FromZone: types.ZoneLife, ToZone: types.ZoneHand}
		if bc.Bus != nil {
			bc.Bus.Emit(moveEv)
		}
		if def != nil && def.HasKeyword(types.KeywordTrigger) {
			ng = bc.offerTriggerActivation(ng, defenderPlayer, top, def)
		}
		if ng.GameOver {
			break
		}
	}
	ev := types.Event{Kind: types.EventBattleEnd, Turn: ng.TurnNumber, Phase: ng.Phase,
		Player: attackerController, Attacker: g.Battle.Attacker}
	if bc.Bus != nil {
		bc.Bus.Emit(ev)
	}
	ng = effect.GatherTriggers(ng, ev)
	return resolveTriggers(bc, ng)
}

// offerTriggerActivation lets the life card's owner activate its Trigger
// effect immediately instead of keeping the card in hand (§4.8.1).
func (bc *Context) offerTriggerActivation(g *types.GameState, owner types.PlayerID, card types.CardID, def *types.CardDefinition) *types.GameState {
	var triggerEffect *types.EffectDefinition
	for _, e := range def.Effects {
		if e.TriggerTiming == types.TriggerNone && e.Timing == types.TimingActivate {
			triggerEffect = e
			break
		}
	}
	if triggerEffect == nil {
		return g
	}
	ctrl := bc.Controllers[owner]
	if ctrl == nil {
		return g
	}
	opt, err := ctrl.ChooseValue(bc.Ctx, g, []player.ValueOption{{Value: 1, Label: "activate"}, {Value: 0, Label: "keep in hand"}}, triggerEffect)
	if err != nil || opt == 0 {
		return g
	}
	ng, err := effect.ResolveEffect(bc.ResolveCtx, g, triggerEffect, owner, card)
	if err != nil {
		return g
	}
	ng, err = bc.Zone.Trash(ng, card)
	if err != nil {
		return g
	}
	return ng
}

func endStep(bc *Context, g *types.GameState) *types.GameState {
	ng := g.Clone()
	ng.Battle = nil
	return modifier.Expire(ng, modifier.ExpireEndOfBattle)
}
