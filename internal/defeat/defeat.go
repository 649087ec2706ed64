// Package defeat implements the Defeat Checker (C10): a pure function over
// types.GameState deciding whether the match has ended and why.
package defeat

import (
	"fmt"

	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
)

// Check inspects g for either defeat condition — a player whose leader was
// KO'd (Flags["defeated"]) or a player whose deck is empty when Check runs,
// whether or not a draw is pending — and returns the resulting (possibly unchanged) state. When both
// conditions are true for the same transition, the defeated-leader result
// is reported as primary, with Reason noting the deck-out too, since the
// rules treat leader KO as the definitive loss condition and deck-out as a
// secondary, rarely simultaneous, trigger. Both leaders KO'd, or both decks
// empty, at once ends the match in a draw rather than crediting whichever
// player happens to appear first in PlayerOrder.
func Check(g *types.GameState) *types.GameState {
	if g.GameOver {
		return g
	}
	var defeatedPlayer, deckOutPlayer types.PlayerID
	deckOutCount, defeatedCount := 0, 0
	for _, id := range g.PlayerOrder {
		p, ok := state.GetPlayer(g, id)
		if !ok {
			continue
		}
		if p.Defeated() {
			defeatedCount++
			if defeatedPlayer == "" {
				defeatedPlayer = id
			}
		}
		if len(p.Deck) == 0 {
			deckOutCount++
			if deckOutPlayer == "" {
				deckOutPlayer = id
			}
		}
	}
	if defeatedPlayer == "" && deckOutCount == 0 {
		return g
	}
	if defeatedCount == len(g.PlayerOrder) {
		return state.SetGameOver(g, nil, "both leaders were KO'd")
	}
	if defeatedPlayer == "" && deckOutCount == len(g.PlayerOrder) {
		return state.SetGameOver(g, nil, "both players decked out")
	}
	loser := defeatedPlayer
	reason := "leader was KO'd"
	if loser == "" {
		loser = deckOutPlayer
		reason = "deck was exhausted"
	} else if deckOutPlayer != "" {
		reason = fmt.Sprintf("leader was KO'd (deck also exhausted for %s)", deckOutPlayer)
	}
	winner := g.Opponent(loser)
	return state.SetGameOver(g, &winner, reason)
}
