// Package state implements the State Store (C2): pure query functions and
// pure update functions over types.GameState. Every update returns a new
// GameState; missing ids are no-ops rather than errors (§4.2).
package state

import "github.com/tcgx/optcg-engine/internal/types"

// GetCard returns the card instance, or (nil, false) if absent.
func GetCard(g *types.GameState, id types.CardID) (*types.CardInstance, bool) {
	c, ok := g.Cards[id]
	return c, ok
}

// GetDon returns the DON instance, or (nil, false) if absent.
func GetDon(g *types.GameState, id types.DonID) (*types.DonInstance, bool) {
	d, ok := g.Dons[id]
	return d, ok
}

// GetPlayer returns the player state, or (nil, false) if absent.
func GetPlayer(g *types.GameState, id types.PlayerID) (*types.PlayerState, bool) {
	p, ok := g.Players[id]
	return p, ok
}

// GetZone returns the ordered id sequence for player/zone.
func GetZone(g *types.GameState, player types.PlayerID, zone types.Zone) []types.CardID {
	p, ok := g.Players[player]
	if !ok {
		return nil
	}
	return p.Zone(zone)
}

// GetDefinition resolves a card instance's definition through the catalog.
func GetDefinition(g *types.GameState, id types.CardID) (*types.CardDefinition, bool) {
	c, ok := g.Cards[id]
	if !ok || g.Catalog == nil {
		return nil, false
	}
	return g.Catalog(c.DefID)
}

// Phase returns the current phase.
func Phase(g *types.GameState) types.Phase { return g.Phase }

// Turn returns the current turn number.
func Turn(g *types.GameState) int { return g.TurnNumber }

// GameOver reports whether the match has ended.
func GameOver(g *types.GameState) bool { return g.GameOver }

// Winner returns the winner, or nil if undecided or a draw.
func Winner(g *types.GameState) *types.PlayerID { return g.Winner }

// History returns the append-only action log.
func History(g *types.GameState) []types.Action {
	return append([]types.Action(nil), g.History...)
}

// FindCardZone reports which player and zone currently hold id, for the
// "appears in exactly one zone" invariant (§3).
func FindCardZone(g *types.GameState, id types.CardID) (types.PlayerID, types.Zone, bool) {
	c, ok := g.Cards[id]
	if !ok {
		return "", 0, false
	}
	return c.Controller, c.Zone, true
}

// DonAttachedTo reports the character a DON is attached to, if any.
func DonAttachedTo(g *types.GameState, id types.DonID) (types.CardID, bool) {
	for _, c := range g.Cards {
		for _, d := range c.GivenDon {
			if d == id {
				return c.ID, true
			}
		}
	}
	return "", false
}
