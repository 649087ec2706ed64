// Package rules holds the Rules Context (C4): an immutable bundle every
// other component reads but never mutates.
package rules

import "github.com/tcgx/optcg-engine/internal/types"

// LoopPolicy configures how the Loop Guard resolves forced repeats (§4.4, §4.11).
type LoopPolicy struct {
	MaxRepeats int
}

// Context is the read-only configuration loaded once at engine construction.
type Context struct {
	PhaseSequence []types.Phase

	// First-turn deviations.
	FirstTurnSkipsDraw     bool
	FirstTurnDonCount      int
	FirstTurnMayNotBattle  bool
	NonFirstTurnDonCount   int

	CharacterAreaCap int

	// Battle damage table.
	LeaderDamagePerHit       int
	LeaderDamagePerDoubleHit int

	Loop LoopPolicy

	KeywordCatalog map[types.Keyword]string
}

// Default returns the standard One Piece-style ruleset.
func Default() *Context {
	return &Context{
		PhaseSequence: []types.Phase{
			types.PhaseRefresh, types.PhaseDraw, types.PhaseDon, types.PhaseMain, types.PhaseEnd,
		},
		FirstTurnSkipsDraw:       true,
		FirstTurnDonCount:        1,
		FirstTurnMayNotBattle:    true,
		NonFirstTurnDonCount:     2,
		CharacterAreaCap:         5,
		LeaderDamagePerHit:       1,
		LeaderDamagePerDoubleHit: 2,
		Loop: LoopPolicy{MaxRepeats: 4},
		KeywordCatalog: map[types.Keyword]string{
			types.KeywordRush:         "may attack the turn it is played",
			types.KeywordBlocker:      "may become the new target of an attack on the opponent's leader",
			types.KeywordDoubleAttack: "deals 2 damage to a leader instead of 1",
			types.KeywordBanish:       "KO'd characters are removed from the game instead of trashed",
			types.KeywordTrigger:      "may be activated when revealed from life instead of added to hand",
		},
	}
}

// DonCountForTurn returns how many DON move from the DON deck this turn.
func (c *Context) DonCountForTurn(turnNumber int, isFirstPlayerFirstTurn bool) int {
	if isFirstPlayerFirstTurn {
		return c.FirstTurnDonCount
	}
	return c.NonFirstTurnDonCount
}

// PowerCompare reports whether the defender is KO'd: attacker power >= defender power.
func (c *Context) PowerCompare(attackerPower, defenderPower int) bool {
	return attackerPower >= defenderPower
}

// KeywordDescription looks up the catalog description for kw.
func (c *Context) KeywordDescription(kw types.Keyword) (string, bool) {
	d, ok := c.KeywordCatalog[kw]
	return d, ok
}
