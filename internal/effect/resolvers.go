package effect

import (
	"context"
	"fmt"

	"github.com/tcgx/optcg-engine/internal/eventbus"
	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/rules"
	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
	"github.com/tcgx/optcg-engine/internal/zone"
)

// ResolveContext bundles the collaborators a resolver needs beyond the
// state it mutates. Resolvers remain pure with respect to everything
// except the explicit side channels here (player choices, event emission).
type ResolveContext struct {
	Ctx         context.Context
	Zone        *zone.Manager
	Bus         *eventbus.Bus
	Rules       *rules.Context
	Controllers map[types.PlayerID]player.Controller
}

// ResolveFunc is the pure-function shape every resolver kind registers
// (Design Notes, §9: "Inheritance -> resolvers").
type ResolveFunc func(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error)

// Registry maps a resolver kind to its pure handler.
var Registry = map[types.ResolverKind]ResolveFunc{
	types.ResolverPowerMod:     resolvePowerMod,
	types.ResolverDrawCards:    resolveDrawCards,
	types.ResolverKOCharacter:  resolveKOCharacter,
	types.ResolverGrantKeyword: resolveGrantKeyword,
	types.ResolverSearchDeck:   resolveSearchDeck,
	types.ResolverRestCard:     resolveRestCard,
	types.ResolverActiveCard:   resolveActiveCard,
	types.ResolverTrashCards:   resolveTrashCards,
	types.ResolverGiveDon:      resolveGiveDon,
	types.ResolverReturnToHand: resolveReturnToHand,
	types.ResolverBanish:       resolveBanish,
	types.ResolverAddLife:      resolveAddLife,
	types.ResolverPlayFromHand: resolvePlayFromHand,
}

func resolvePowerMod(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	amount := eff.ParamInt("amount", 0)
	duration := types.Duration(eff.ParamInt("duration", int(types.DurationUntilEndOfTurn)))
	ng := g
	for _, target := range targets {
		var ts uint64
		ng, ts = state.NextModifierTimestamp(ng)
		ng = state.UpdateCard(ng, target, func(ci *types.CardInstance) {
			ci.Modifiers = append(ci.Modifiers, types.Modifier{
				ID: fmt.Sprintf("%s:%s:pow", source, eff.ID), Kind: types.ModPower, Amount: amount,
				Duration: duration, Source: source, Timestamp: ts,
			})
		})
		if rc.Bus != nil {
			rc.Bus.Emit(types.Event{Kind: types.EventPowerChanged, Turn: ng.TurnNumber, Phase: ng.Phase,
				Player: controller, Card: target, SourceCard: source, PowerDelta: amount})
		}
	}
	return ng, nil
}

func resolveDrawCards(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	n := eff.ParamInt("count", 1)
	ng := g
	for i := 0; i < n; i++ {
		var err error
		ng, _, err = rc.Zone.Draw(ng, controller)
		if err != nil {
			return g, err
		}
	}
	return ng, nil
}

func resolveKOCharacter(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	ng := g
	for _, target := range targets {
		def, ok := state.GetDefinition(ng, target)
		var err error
		if ok && modifierHasBanish(def, ng, target) {
			ng, err = rc.Zone.Banish(ng, target)
		} else {
			ng, err = rc.Zone.Trash(ng, target)
		}
		if err != nil {
			return g, err
		}
		if rc.Bus != nil {
			c, _ := state.GetCard(ng, target)
			owner := controller
			if c != nil {
				owner = c.Owner
			}
			rc.Bus.Emit(types.Event{Kind: types.EventCardMoved, Turn: ng.TurnNumber, Phase: ng.Phase,
				Player: owner, Card: target, ToZone: types.ZoneTrash, SourceCard: source})
		}
	}
	return ng, nil
}

func modifierHasBanish(def *types.CardDefinition, g *types.GameState, id types.CardID) bool {
	c, ok := state.GetCard(g, id)
	if !ok {
		return false
	}
	for _, m := range c.Modifiers {
		if m.Kind == types.ModKeyword && m.Tag == types.KeywordBanish {
			return true
		}
	}
	return def.HasKeyword(types.KeywordBanish)
}

func resolveGrantKeyword(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	kw := eff.ParamKeyword("keyword", "")
	duration := types.Duration(eff.ParamInt("duration", int(types.DurationUntilEndOfTurn)))
	ng := g
	for _, target := range targets {
		var ts uint64
		ng, ts = state.NextModifierTimestamp(ng)
		ng = state.UpdateCard(ng, target, func(ci *types.CardInstance) {
			ci.Modifiers = append(ci.Modifiers, types.Modifier{
				ID: fmt.Sprintf("%s:%s:kw", source, eff.ID), Kind: types.ModKeyword, Tag: kw,
				Duration: duration, Source: source, Timestamp: ts,
			})
		})
	}
	return ng, nil
}

func resolveSearchDeck(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	p, ok := state.GetPlayer(g, controller)
	if !ok {
		return g, fmt.Errorf("effect: unknown player %q", controller)
	}
	candidates := eff.TargetFilter
	look := eff.ParamInt("look", len(p.Deck))
	pool := p.Deck
	if look < len(pool) {
		pool = pool[:look]
	}
	var filtered []types.CardID
	for _, id := range pool {
		if candidates == nil {
			filtered = append(filtered, id)
			continue
		}
		if matchesFilterInZone(g, id, candidates, controller) {
			filtered = append(filtered, id)
		}
	}
	ctrl := rc.Controllers[controller]
	ng := g
	if len(filtered) > 0 && ctrl != nil {
		chosen, err := ctrl.ChooseTarget(rc.Ctx, ng, filtered, eff)
		if err != nil {
			return g, err
		}
		ng = state.MoveCard(ng, chosen, types.ZoneHand, -1)
	}
	// Shuffle the remainder back in deterministically is out of scope here;
	// the deck's relative order among untouched cards is preserved.
	return ng, nil
}

func matchesFilterInZone(g *types.GameState, id types.CardID, filter *types.TargetFilter, controller types.PlayerID) bool {
	for _, cand := range LegalTargets(g, filter, controller, "") {
		if cand == id {
			return true
		}
	}
	return false
}

func resolveRestCard(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	ng := g
	for _, target := range targets {
		ng = rc.Zone.SetCardState(ng, target, types.StateRested)
	}
	return ng, nil
}

func resolveActiveCard(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	ng := g
	for _, target := range targets {
		ng = rc.Zone.SetCardState(ng, target, types.StateActive)
	}
	return ng, nil
}

func resolveTrashCards(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	ng := g
	for _, target := range targets {
		var err error
		ng, err = rc.Zone.Trash(ng, target)
		if err != nil {
			return g, err
		}
	}
	return ng, nil
}

func resolveGiveDon(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	if len(targets) == 0 {
		return g, fmt.Errorf("effect: GiveDon requires a target")
	}
	p, ok := state.GetPlayer(g, controller)
	if !ok {
		return g, fmt.Errorf("effect: unknown player %q", controller)
	}
	for _, donID := range p.CostArea {
		d, ok := state.GetDon(g, donID)
		if ok && d.State == types.StateActive {
			return rc.Zone.AttachDon(g, donID, targets[0])
		}
	}
	return g, fmt.Errorf("effect: no active DON to give")
}

func resolveReturnToHand(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	ng := g
	for _, target := range targets {
		var err error
		ng, err = rc.Zone.ReturnToHand(ng, target)
		if err != nil {
			return g, err
		}
	}
	return ng, nil
}

func resolveBanish(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	ng := g
	for _, target := range targets {
		var err error
		ng, err = rc.Zone.Banish(ng, target)
		if err != nil {
			return g, err
		}
	}
	return ng, nil
}

func resolveAddLife(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	n := eff.ParamInt("count", 1)
	p, ok := state.GetPlayer(g, controller)
	if !ok {
		return g, fmt.Errorf("effect: unknown player %q", controller)
	}
	ng := g
	for i := 0; i < n; i++ {
		pp, _ := state.GetPlayer(ng, controller)
		if len(pp.Deck) == 0 {
			break
		}
		top := pp.Deck[0]
		ng = state.MoveCard(ng, top, types.ZoneLife, 0)
	}
	_ = p
	return ng, nil
}

func resolvePlayFromHand(rc *ResolveContext, g *types.GameState, eff *types.EffectDefinition, controller types.PlayerID, source types.CardID, targets []types.CardID, values []int) (*types.GameState, error) {
	if len(targets) == 0 {
		return g, nil
	}
	target := targets[0]
	def, ok := state.GetDefinition(g, target)
	if !ok {
		return g, fmt.Errorf("effect: unknown definition for %q", target)
	}
	switch def.Category {
	case types.CategoryCharacter:
		return rc.Zone.PlayToCharacterArea(g, target, controller)
	case types.CategoryStage:
		return rc.Zone.PlayToStageArea(g, target, controller)
	default:
		return rc.Zone.Trash(g, target)
	}
}
