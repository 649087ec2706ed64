package state

import "github.com/tcgx/optcg-engine/internal/types"

// UpdateCard applies patch to a clone of the card with id and returns a new
// GameState. If id is absent the original state is returned unchanged.
func UpdateCard(g *types.GameState, id types.CardID, patch func(*types.CardInstance)) *types.GameState {
	if _, ok := g.Cards[id]; !ok {
		return g
	}
	ng := g.Clone()
	c := ng.Cards[id]
	patch(c)
	return ng
}

// UpdateDon applies patch to a clone of the DON with id.
func UpdateDon(g *types.GameState, id types.DonID, patch func(*types.DonInstance)) *types.GameState {
	if _, ok := g.Dons[id]; !ok {
		return g
	}
	ng := g.Clone()
	d := ng.Dons[id]
	patch(d)
	return ng
}

// UpdatePlayer applies patch to a clone of the named player's state.
func UpdatePlayer(g *types.GameState, id types.PlayerID, patch func(*types.PlayerState)) *types.GameState {
	if _, ok := g.Players[id]; !ok {
		return g
	}
	ng := g.Clone()
	patch(ng.Players[id])
	return ng
}

func removeFromZone(p *types.PlayerState, id types.CardID, z types.Zone) {
	switch z {
	case types.ZoneDeck:
		p.Deck = removeCardID(p.Deck, id)
	case types.ZoneHand:
		p.Hand = removeCardID(p.Hand, id)
	case types.ZoneTrash:
		p.Trash = removeCardID(p.Trash, id)
	case types.ZoneLife:
		p.Life = removeCardID(p.Life, id)
	case types.ZoneCharacterArea:
		p.CharacterArea = removeCardID(p.CharacterArea, id)
	case types.ZoneBanished:
		p.Banished = removeCardID(p.Banished, id)
	case types.ZoneLeaderArea:
		if p.LeaderArea == id {
			p.LeaderArea = ""
		}
	case types.ZoneStageArea:
		if p.StageArea == id {
			p.StageArea = ""
		}
	}
}

func removeCardID(s []types.CardID, id types.CardID) []types.CardID {
	out := s[:0]
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func insertAt(s []types.CardID, id types.CardID, index int) []types.CardID {
	if index < 0 || index > len(s) {
		return append(s, id)
	}
	s = append(s, "")
	copy(s[index+1:], s[index:])
	s[index] = id
	return s
}

func appendToZone(p *types.PlayerState, id types.CardID, z types.Zone, index int) {
	switch z {
	case types.ZoneDeck:
		p.Deck = insertAt(p.Deck, id, index)
	case types.ZoneHand:
		p.Hand = insertAt(p.Hand, id, index)
	case types.ZoneTrash:
		p.Trash = append(p.Trash, id)
	case types.ZoneLife:
		p.Life = insertAt(p.Life, id, index)
	case types.ZoneCharacterArea:
		p.CharacterArea = insertAt(p.CharacterArea, id, index)
	case types.ZoneBanished:
		p.Banished = append(p.Banished, id)
	case types.ZoneLeaderArea:
		p.LeaderArea = id
	case types.ZoneStageArea:
		p.StageArea = id
	}
}

// MoveCard relocates a card instance to targetZone (optionally at a specific
// index) and atomically updates its Zone field — the two can never disagree
// (§4.2 guarantee). Moving across owners/controllers is not implied; callers
// that change control do so via UpdateCard separately.
func MoveCard(g *types.GameState, id types.CardID, targetZone types.Zone, index int) *types.GameState {
	c, ok := g.Cards[id]
	if !ok {
		return g
	}
	controller, ok := g.Players[c.Controller]
	if !ok {
		return g
	}
	ng := g.Clone()
	nc := ng.Cards[id]
	np := ng.Players[c.Controller]
	_ = controller

	removeFromZone(np, id, nc.Zone)
	nc.Zone = targetZone
	appendToZone(np, id, targetZone, index)
	return ng
}

// MoveDon relocates a DON instance to zone, optionally attaching it to a
// character (cardID non-empty implies zone is irrelevant bookkeeping-wise:
// the DON's Zone still reflects where it conceptually sits).
func MoveDon(g *types.GameState, id types.DonID, zone types.Zone, cardID types.CardID) *types.GameState {
	d, ok := g.Dons[id]
	if !ok {
		return g
	}
	ng := g.Clone()
	nd := ng.Dons[id]
	owner := ng.Players[d.Owner]

	// detach from any character currently holding it
	for _, c := range ng.Cards {
		c.GivenDon = removeDonID(c.GivenDon, id)
	}
	if owner != nil {
		owner.CostArea = removeDonID(owner.CostArea, id)
		owner.DonDeck = removeDonID(owner.DonDeck, id)
	}

	nd.Zone = zone
	switch zone {
	case types.ZoneDonDeck:
		if owner != nil {
			owner.DonDeck = append(owner.DonDeck, id)
		}
	case types.ZoneCostArea:
		if owner != nil {
			owner.CostArea = append(owner.CostArea, id)
		}
	}
	if cardID != "" {
		if target, ok := ng.Cards[cardID]; ok {
			target.GivenDon = append(target.GivenDon, id)
		}
	}
	return ng
}

func removeDonID(s []types.DonID, id types.DonID) []types.DonID {
	out := s[:0]
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SetActivePlayer returns a new state with the active player changed.
func SetActivePlayer(g *types.GameState, p types.PlayerID) *types.GameState {
	ng := g.Clone()
	ng.ActivePlayer = p
	return ng
}

// SetPhase returns a new state with the current phase changed.
func SetPhase(g *types.GameState, phase types.Phase) *types.GameState {
	ng := g.Clone()
	ng.Phase = phase
	return ng
}

// IncrementTurn returns a new state with the turn counter advanced by one.
func IncrementTurn(g *types.GameState) *types.GameState {
	ng := g.Clone()
	ng.TurnNumber++
	return ng
}

// AddPendingTrigger appends a trigger instance to the queue.
func AddPendingTrigger(g *types.GameState, t types.TriggerInstance) *types.GameState {
	ng := g.Clone()
	ng.PendingTriggers = append(ng.PendingTriggers, t)
	return ng
}

// ClearPendingTriggers empties the trigger queue.
func ClearPendingTriggers(g *types.GameState) *types.GameState {
	ng := g.Clone()
	ng.PendingTriggers = nil
	return ng
}

// SetGameOver marks the match over with the given winner (nil = draw) and reason.
// A no-op if the game is already over (Property 3).
func SetGameOver(g *types.GameState, winner *types.PlayerID, reason string) *types.GameState {
	if g.GameOver {
		return g
	}
	ng := g.Clone()
	ng.GameOver = true
	ng.Winner = winner
	ng.Reason = reason
	return ng
}

// AddToHistory appends an action to the append-only history log.
func AddToHistory(g *types.GameState, a types.Action) *types.GameState {
	ng := g.Clone()
	ng.History = append(ng.History, a)
	return ng
}

// UpdateLoopGuard increments the repeat count for hash and returns the new
// state alongside the updated count.
func UpdateLoopGuard(g *types.GameState, hash string) (*types.GameState, int) {
	ng := g.Clone()
	if ng.LoopGuard.Counts == nil {
		ng.LoopGuard.Counts = map[string]int{}
	}
	ng.LoopGuard.Counts[hash]++
	return ng, ng.LoopGuard.Counts[hash]
}

// ResetLoopGuardCount zeroes the repeat count for hash (used when the
// policy decides to let play continue, §4.4).
func ResetLoopGuardCount(g *types.GameState, hash string) *types.GameState {
	ng := g.Clone()
	if ng.LoopGuard.Counts == nil {
		return ng
	}
	delete(ng.LoopGuard.Counts, hash)
	return ng
}

// NextModifierTimestamp returns a new state and the next monotone
// modifier-ordering timestamp (per-match counter, never wall-clock, §5).
func NextModifierTimestamp(g *types.GameState) (*types.GameState, uint64) {
	ng := g.Clone()
	ng.ModifierClock++
	return ng, ng.ModifierClock
}

// SetBattle replaces the in-progress battle state.
func SetBattle(g *types.GameState, b *types.BattleState) *types.GameState {
	ng := g.Clone()
	ng.Battle = b
	return ng
}

// MarkAttacked adds id to the attackedThisTurn set.
func MarkAttacked(g *types.GameState, id types.CardID) *types.GameState {
	ng := g.Clone()
	if ng.AttackedThisTurn == nil {
		ng.AttackedThisTurn = map[types.CardID]bool{}
	}
	ng.AttackedThisTurn[id] = true
	return ng
}

// ClearAttackedThisTurn empties the attackedThisTurn set (Refresh phase).
func ClearAttackedThisTurn(g *types.GameState) *types.GameState {
	ng := g.Clone()
	ng.AttackedThisTurn = map[types.CardID]bool{}
	return ng
}
