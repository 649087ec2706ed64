// Package loopguard implements the Loop Guard (C11): detection of a player
// forcing the same reduced state to repeat indefinitely.
package loopguard

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
)

// Hash computes the reduced-state fingerprint used to detect forced
// repeats: phase, active player, turn number, each player's hand, deck and
// life sizes, and each character-area card's id, state and modifier count,
// sorted by id so card order within the area does not matter (§4.4, §4.11).
// Leader, stage, DON and trash are not part of the hash.
func Hash(g *types.GameState) string {
	h := sha256.New()
	fmt.Fprintf(h, "phase=%d;active=%s;turn=%d;", g.Phase, g.ActivePlayer, g.TurnNumber)
	for _, pid := range g.PlayerOrder {
		p, ok := state.GetPlayer(g, pid)
		if !ok {
			continue
		}
		fmt.Fprintf(h, "p=%s;hand=%d;deck=%d;life=%d;", pid, len(p.Hand), len(p.Deck), len(p.Life))
		ids := append([]types.CardID(nil), p.CharacterArea...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			c, ok := state.GetCard(g, id)
			if !ok {
				continue
			}
			fmt.Fprintf(h, "c=%s:%d:%d;", id, c.State, len(c.Modifiers))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Observe records one occurrence of g's reduced hash and reports whether
// the repeat policy's threshold has now been hit.
func Observe(g *types.GameState, maxRepeats int) (*types.GameState, bool) {
	hash := Hash(g)
	ng, count := state.UpdateLoopGuard(g, hash)
	return ng, count >= maxRepeats
}

// Resolve applies the stated rules-file convention for a detected loop: the
// player who is unable (or unwilling) to alter the reduced-state hash
// loses (§4.4 Open Question, resolved). stuckPlayer is whichever side the
// caller determined had no legal action that would change the hash.
func Resolve(g *types.GameState, stuckPlayer types.PlayerID) *types.GameState {
	winner := g.Opponent(stuckPlayer)
	return state.SetGameOver(g, &winner, "loop guard: repeated state with no available state-changing action")
}
