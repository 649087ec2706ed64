// Package trigger implements the Trigger Queue (C7): deterministic dequeue
// ordering over types.GameState.PendingTriggers and the drain loop that
// resolves them one at a time. It depends only on types and state, never on
// the effect package — the engine façade supplies a Resolver closure over
// effect.ResolveTriggered, which avoids an import cycle between the two.
package trigger

import "github.com/tcgx/optcg-engine/internal/types"

// Resolver resolves a single dequeued trigger instance against g, returning
// the state after that one effect has fully resolved (including any further
// triggers it itself enqueues).
type Resolver func(g *types.GameState, t types.TriggerInstance) (*types.GameState, error)

// Pending reports whether any trigger is waiting (§4.7: non-empty queue
// blocks ordinary player actions until it drains).
func Pending(g *types.GameState) bool {
	return len(g.PendingTriggers) > 0
}

// Next selects the trigger instance that resolves next: highest Priority
// first, ties broken by the active player's own triggers before the
// opponent's, final tiebreak by EffectDefID for determinism.
func Next(g *types.GameState) (types.TriggerInstance, int, bool) {
	if len(g.PendingTriggers) == 0 {
		return types.TriggerInstance{}, -1, false
	}
	best := 0
	for i := 1; i < len(g.PendingTriggers); i++ {
		if before(g.PendingTriggers[i], g.PendingTriggers[best], g.ActivePlayer) {
			best = i
		}
	}
	return g.PendingTriggers[best], best, true
}

func before(a, b types.TriggerInstance, active types.PlayerID) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	aActive := a.Controller == active
	bActive := b.Controller == active
	if aActive != bActive {
		return aActive
	}
	return a.EffectDefID < b.EffectDefID
}

func removeAt(g *types.GameState, idx int) *types.GameState {
	ng := g.Clone()
	rest := append([]types.TriggerInstance(nil), ng.PendingTriggers[:idx]...)
	ng.PendingTriggers = append(rest, ng.PendingTriggers[idx+1:]...)
	return ng
}

// Drain repeatedly dequeues and resolves triggers via resolver until the
// queue empties, stopping early (and returning the error) if resolver
// fails on any instance.
func Drain(g *types.GameState, resolver Resolver) (*types.GameState, error) {
	ng := g
	for Pending(ng) {
		t, idx, ok := Next(ng)
		if !ok {
			break
		}
		ng = removeAt(ng, idx)
		var err error
		ng, err = resolver(ng, t)
		if err != nil {
			return ng, err
		}
	}
	return ng, nil
}
