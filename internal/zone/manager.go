// Package zone implements the Zone Manager (C3): the high-level API for
// moving cards and DON between zones with rule enforcement. Each card
// move emits a CardMoved event and each card state change a
// CardStateChanged event once the new state is durable; AttachDon emits
// DonGiven, and SetDonState and a draw from an empty deck emit nothing.
package zone

import (
	"fmt"

	"github.com/tcgx/optcg-engine/internal/eventbus"
	"github.com/tcgx/optcg-engine/internal/modifier"
	"github.com/tcgx/optcg-engine/internal/rules"
	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
)

// Manager moves entities between zones and enforces zone invariants.
type Manager struct {
	Rules *rules.Context
	Bus   *eventbus.Bus
}

// New builds a Manager bound to a rules context and event bus.
func New(r *rules.Context, bus *eventbus.Bus) *Manager {
	return &Manager{Rules: r, Bus: bus}
}

func (m *Manager) emit(e types.Event) {
	if m.Bus != nil {
		m.Bus.Emit(e)
	}
}

// Draw moves the top card of player's deck into hand. Drawing from an
// empty deck is legal here — it is a no-op and the deck-out condition is
// reported by the Defeat Checker, not this package (§4.3).
func (m *Manager) Draw(g *types.GameState, player types.PlayerID) (*types.GameState, types.CardID, error) {
	p, ok := state.GetPlayer(g, player)
	if !ok {
		return g, "", fmt.Errorf("zone: unknown player %q", player)
	}
	if len(p.Deck) == 0 {
		return g, "", nil
	}
	top := p.Deck[0]
	ng := state.MoveCard(g, top, types.ZoneHand, -1)
	ng = m.stripZoneChangeModifiers(ng, top)
	m.emit(types.Event{Kind: types.EventCardMoved, Turn: ng.TurnNumber, Phase: ng.Phase, Player: player,
		Card: top, FromZone: types.ZoneDeck, ToZone: types.ZoneHand})
	return ng, top, nil
}

// Mill moves the top n deck cards to the trash, stopping early if the
// deck empties.
func (m *Manager) Mill(g *types.GameState, player types.PlayerID, n int) *types.GameState {
	ng := g
	for i := 0; i < n; i++ {
		p, ok := state.GetPlayer(ng, player)
		if !ok || len(p.Deck) == 0 {
			break
		}
		top := p.Deck[0]
		ng = state.MoveCard(ng, top, types.ZoneTrash, -1)
		ng = m.stripZoneChangeModifiers(ng, top)
		m.emit(types.Event{Kind: types.EventCardMoved, Turn: ng.TurnNumber, Phase: ng.Phase, Player: player,
			Card: top, FromZone: types.ZoneDeck, ToZone: types.ZoneTrash})
	}
	return ng
}

// Trash moves a single card to its owner's trash, clearing any modifiers
// whose duration does not explicitly persist through zone change.
func (m *Manager) Trash(g *types.GameState, id types.CardID) (*types.GameState, error) {
	c, ok := state.GetCard(g, id)
	if !ok {
		return g, fmt.Errorf("zone: unknown card %q", id)
	}
	fromZone := c.Zone
	ng := state.MoveCard(g, id, types.ZoneTrash, -1)
	ng = m.detachAllDon(ng, id)
	ng = m.stripZoneChangeModifiers(ng, id)
	m.emit(types.Event{Kind: types.EventCardMoved, Turn: ng.TurnNumber, Phase: ng.Phase, Player: c.Controller,
		Card: id, FromZone: fromZone, ToZone: types.ZoneTrash})
	return ng, nil
}

// Banish removes a card from the game entirely (still present, not playable).
func (m *Manager) Banish(g *types.GameState, id types.CardID) (*types.GameState, error) {
	c, ok := state.GetCard(g, id)
	if !ok {
		return g, fmt.Errorf("zone: unknown card %q", id)
	}
	fromZone := c.Zone
	ng := state.MoveCard(g, id, types.ZoneBanished, -1)
	ng = m.detachAllDon(ng, id)
	ng = m.stripZoneChangeModifiers(ng, id)
	m.emit(types.Event{Kind: types.EventCardMoved, Turn: ng.TurnNumber, Phase: ng.Phase, Player: c.Controller,
		Card: id, FromZone: fromZone, ToZone: types.ZoneBanished})
	return ng, nil
}

// ReturnToHand moves a card back to its owner's hand.
func (m *Manager) ReturnToHand(g *types.GameState, id types.CardID) (*types.GameState, error) {
	c, ok := state.GetCard(g, id)
	if !ok {
		return g, fmt.Errorf("zone: unknown card %q", id)
	}
	fromZone := c.Zone
	owner := c.Owner
	ng := state.MoveCard(g, id, types.ZoneHand, -1)
	ng = m.detachAllDon(ng, id)
	ng = m.stripZoneChangeModifiers(ng, id)
	ng = state.UpdateCard(ng, id, func(ci *types.CardInstance) { ci.Controller = owner })
	m.emit(types.Event{Kind: types.EventCardMoved, Turn: ng.TurnNumber, Phase: ng.Phase, Player: owner,
		Card: id, FromZone: fromZone, ToZone: types.ZoneHand})
	return ng, nil
}

// PlayToCharacterArea places id into controller's character area, enforcing
// the rules cap.
func (m *Manager) PlayToCharacterArea(g *types.GameState, id types.CardID, controller types.PlayerID) (*types.GameState, error) {
	p, ok := state.GetPlayer(g, controller)
	if !ok {
		return g, fmt.Errorf("zone: unknown player %q", controller)
	}
	cap := m.Rules.CharacterAreaCap
	if cap == 0 {
		cap = 5
	}
	if len(p.CharacterArea) >= cap {
		return g, fmt.Errorf("zone: character area full (cap %d)", cap)
	}
	c, ok := state.GetCard(g, id)
	if !ok {
		return g, fmt.Errorf("zone: unknown card %q", id)
	}
	fromZone := c.Zone
	ng := state.MoveCard(g, id, types.ZoneCharacterArea, -1)
	ng = state.UpdateCard(ng, id, func(ci *types.CardInstance) { ci.State = types.StateActive })
	m.emit(types.Event{Kind: types.EventCardMoved, Turn: ng.TurnNumber, Phase: ng.Phase, Player: controller,
		Card: id, FromZone: fromZone, ToZone: types.ZoneCharacterArea})
	return ng, nil
}

// PlayToStageArea replaces any existing stage card (cardinality in {0,1})
// by trashing the old one first.
func (m *Manager) PlayToStageArea(g *types.GameState, id types.CardID, controller types.PlayerID) (*types.GameState, error) {
	p, ok := state.GetPlayer(g, controller)
	if !ok {
		return g, fmt.Errorf("zone: unknown player %q", controller)
	}
	ng := g
	if p.StageArea != "" && p.StageArea != id {
		var err error
		ng, err = m.Trash(ng, p.StageArea)
		if err != nil {
			return g, err
		}
	}
	c, ok := state.GetCard(ng, id)
	if !ok {
		return g, fmt.Errorf("zone: unknown card %q", id)
	}
	fromZone := c.Zone
	ng = state.MoveCard(ng, id, types.ZoneStageArea, -1)
	m.emit(types.Event{Kind: types.EventCardMoved, Turn: ng.TurnNumber, Phase: ng.Phase, Player: controller,
		Card: id, FromZone: fromZone, ToZone: types.ZoneStageArea})
	return ng, nil
}

// SetCardState rests or activates a card/DON, emitting CardStateChanged.
func (m *Manager) SetCardState(g *types.GameState, id types.CardID, s types.CardState) *types.GameState {
	c, ok := state.GetCard(g, id)
	if !ok || c.State == s {
		return g
	}
	ng := state.UpdateCard(g, id, func(ci *types.CardInstance) { ci.State = s })
	m.emit(types.Event{Kind: types.EventCardStateChanged, Turn: ng.TurnNumber, Phase: ng.Phase, Player: c.Controller,
		Card: id, NewState: s})
	return ng
}

// SetDonState rests or activates a DON instance.
func (m *Manager) SetDonState(g *types.GameState, id types.DonID, s types.CardState) *types.GameState {
	d, ok := state.GetDon(g, id)
	if !ok || d.State == s {
		return g
	}
	return state.UpdateDon(g, id, func(di *types.DonInstance) { di.State = s })
}

// AttachDon moves an active cost-area DON onto a character, granting the
// standard +1000 power while attached (modeled as a Power modifier).
func (m *Manager) AttachDon(g *types.GameState, donID types.DonID, cardID types.CardID) (*types.GameState, error) {
	d, ok := state.GetDon(g, donID)
	if !ok {
		return g, fmt.Errorf("zone: unknown DON %q", donID)
	}
	if d.Zone != types.ZoneCostArea {
		return g, fmt.Errorf("zone: DON %q is not in the cost area", donID)
	}
	c, ok := state.GetCard(g, cardID)
	if !ok {
		return g, fmt.Errorf("zone: unknown card %q", cardID)
	}
	ng := state.MoveDon(g, donID, types.ZoneCostArea, cardID)
	ng, ts := state.NextModifierTimestamp(ng)
	ng = state.UpdateCard(ng, cardID, func(ci *types.CardInstance) {
		ci.Modifiers = append(ci.Modifiers, types.Modifier{
			ID: string(donID) + ":attach", Kind: types.ModPower, Amount: 1000,
			Duration: types.DurationPermanent, Source: cardID, Timestamp: ts,
		})
	})
	m.emit(types.Event{Kind: types.EventDonGiven, Turn: ng.TurnNumber, Phase: ng.Phase, Player: c.Controller,
		Don: donID, Card: cardID})
	return ng, nil
}

// detachAllDon strips attached DON from a card as it leaves the field,
// returning them to the cost area (they remain usable, per "generic
// resource token" semantics). Their attach-power modifiers die with the
// card via stripZoneChangeModifiers's per-card scope.
func (m *Manager) detachAllDon(g *types.GameState, cardID types.CardID) *types.GameState {
	c, ok := state.GetCard(g, cardID)
	if !ok || len(c.GivenDon) == 0 {
		return g
	}
	ng := g
	for _, donID := range append([]types.DonID(nil), c.GivenDon...) {
		ng = state.MoveDon(ng, donID, types.ZoneCostArea, "")
	}
	return ng
}

// stripZoneChangeModifiers clears modifiers on a card whose duration does
// not explicitly survive a zone change. In this ruleset no Duration value
// is defined as surviving a zone change (Permanent modifiers describe a
// card's own lifetime, not portability across zones), so a card's
// modifier list is always cleared when it leaves play; while it is still
// in a zone other than play (e.g. hand→trash) the list is already empty
// in practice, but we normalize defensively.
func (m *Manager) stripZoneChangeModifiers(g *types.GameState, cardID types.CardID) *types.GameState {
	c, ok := state.GetCard(g, cardID)
	if !ok || len(c.Modifiers) == 0 {
		return g
	}
	inPlay := c.Zone == types.ZoneCharacterArea || c.Zone == types.ZoneLeaderArea || c.Zone == types.ZoneStageArea
	if inPlay {
		return g
	}
	return state.UpdateCard(g, cardID, func(ci *types.CardInstance) { ci.Modifiers = nil })
}

// ExpireModifiers delegates to the Modifier Manager (kept here so callers
// that already import zone for everything else don't need a second import
// for this common end-of-turn step).
func (m *Manager) ExpireModifiers(g *types.GameState, trigger modifier.ExpireTrigger) *types.GameState {
	return modifier.Expire(g, trigger)
}
