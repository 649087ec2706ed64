package types

// PlayerState holds one player's zones and flags (§3).
type PlayerState struct {
	ID PlayerID

	Deck      []CardID // ordered; index 0 = top
	Hand      []CardID // insertion-ordered
	Trash     []CardID // ordered by entry, most recent last
	Life      []CardID // ordered, LIFO access; index 0 = top of life
	DonDeck   []DonID  // ordered
	CostArea  []DonID  // multiset of DON, order not meaningful

	LeaderArea    CardID   // set at setup; empty string before then
	CharacterArea []CardID // ordered, cap = rules.CharacterAreaCap (default 5)
	StageArea     CardID   // empty string if none

	Banished []CardID // unordered

	Flags map[string]string // e.g. "defeated" -> "true"
}

// NewPlayerState returns a zero-valued PlayerState for id.
func NewPlayerState(id PlayerID) *PlayerState {
	return &PlayerState{ID: id, Flags: map[string]string{}}
}

// Clone returns a deep copy of the player state (slices and map copied).
func (p *PlayerState) Clone() *PlayerState {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Deck = append([]CardID(nil), p.Deck...)
	cp.Hand = append([]CardID(nil), p.Hand...)
	cp.Trash = append([]CardID(nil), p.Trash...)
	cp.Life = append([]CardID(nil), p.Life...)
	cp.DonDeck = append([]DonID(nil), p.DonDeck...)
	cp.CostArea = append([]DonID(nil), p.CostArea...)
	cp.CharacterArea = append([]CardID(nil), p.CharacterArea...)
	cp.Banished = append([]CardID(nil), p.Banished...)
	cp.Flags = make(map[string]string, len(p.Flags))
	for k, v := range p.Flags {
		cp.Flags[k] = v
	}
	return &cp
}

// Defeated reports whether this player has been marked defeated.
func (p *PlayerState) Defeated() bool {
	return p.Flags["defeated"] == "true"
}

// Zone returns a copy of the ordered id sequence occupying z, in the shape
// query callers expect (state.getZone contract, §4.2).
func (p *PlayerState) Zone(z Zone) []CardID {
	switch z {
	case ZoneDeck:
		return append([]CardID(nil), p.Deck...)
	case ZoneHand:
		return append([]CardID(nil), p.Hand...)
	case ZoneTrash:
		return append([]CardID(nil), p.Trash...)
	case ZoneLife:
		return append([]CardID(nil), p.Life...)
	case ZoneCharacterArea:
		return append([]CardID(nil), p.CharacterArea...)
	case ZoneBanished:
		return append([]CardID(nil), p.Banished...)
	case ZoneLeaderArea:
		if p.LeaderArea == "" {
			return nil
		}
		return []CardID{p.LeaderArea}
	case ZoneStageArea:
		if p.StageArea == "" {
			return nil
		}
		return []CardID{p.StageArea}
	default:
		return nil
	}
}
