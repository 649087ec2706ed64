// Package ai implements the AI Player (C14): a scoring-based decision
// system with pruning, a time-budgeted evaluation loop, a bounded score
// cache, and a stochastic selection policy whose randomness decays with
// difficulty. It is the only package in this module permitted to read the
// wall clock (time.Now here is an advisory search budget, never a rules
// input, §5).
package ai

import (
	"github.com/tcgx/optcg-engine/internal/modifier"
	"github.com/tcgx/optcg-engine/internal/types"
)

// Weights scores a candidate action or state along independent axes. The
// values should sum to 1.0 so profiles remain comparable; Evaluate does not
// enforce this, it only documents the intended convention.
type Weights struct {
	BoardPower   float64 // value of controlling more total character power than the opponent
	LifeTempo    float64 // value of preserving your own life total / pressuring the opponent's
	CardAdvantage float64 // value of a larger hand than the opponent
	DonEfficiency float64 // value of spending available DON rather than holding it
	TriggerSafety float64 // Evaluate has no term for this axis; it only changes the other axes' share after Adapt renormalizes
}

// Profile names one of the three canned heuristic personalities (§ domain
// stack: AI difficulty profiles).
type Profile string

const (
	ProfileAggressive Profile = "aggressive"
	ProfileControl     Profile = "control"
	ProfileBalanced    Profile = "balanced"
)

// WeightsFor returns the canned Weights for a named profile, falling back
// to ProfileBalanced for an unrecognized name.
func WeightsFor(p Profile) Weights {
	switch p {
	case ProfileAggressive:
		return Weights{BoardPower: 0.2, LifeTempo: 0.45, CardAdvantage: 0.1, DonEfficiency: 0.2, TriggerSafety: 0.05}
	case ProfileControl:
		return Weights{BoardPower: 0.3, LifeTempo: 0.1, CardAdvantage: 0.35, DonEfficiency: 0.1, TriggerSafety: 0.15}
	default:
		return Weights{BoardPower: 0.3, LifeTempo: 0.25, CardAdvantage: 0.2, DonEfficiency: 0.15, TriggerSafety: 0.1}
	}
}

// Difficulty reshapes a profile's weights and the selection policy's
// exploration rate. Easy plays looser (more random, weaker evaluation);
// Hard plays close to the raw heuristic optimum.
type Difficulty float64

const (
	DifficultyEasy   Difficulty = 0.25
	DifficultyMedium Difficulty = 0.6
	DifficultyHard   Difficulty = 1.0
)

// lifeSwingThreshold is how many more life cards one side must hold before
// the match is considered a "large" deficit or lead for reshape purposes.
const lifeSwingThreshold = 2

// largeBoardSize is the combined character-area count (both players) at or
// above which board control is weighted more heavily.
const largeBoardSize = 4

// Adapt nudges w toward uniform weights as difficulty drops, modeling a
// weaker player who values the "right" things less consistently, then
// reshapes the result to the live situation: life differential, DON
// availability, and board size. g and player identify whose perspective the
// reshape is evaluated from; a nil g (or an unknown player) skips the
// situational reshape and returns the difficulty blend alone. The result is
// renormalized to sum to 1 after every reshape.
func (d Difficulty) Adapt(w Weights, g *types.GameState, player types.PlayerID) Weights {
	uniform := 0.2
	blend := float64(d)
	out := Weights{
		BoardPower:    blend*w.BoardPower + (1-blend)*uniform,
		LifeTempo:     blend*w.LifeTempo + (1-blend)*uniform,
		CardAdvantage: blend*w.CardAdvantage + (1-blend)*uniform,
		DonEfficiency: blend*w.DonEfficiency + (1-blend)*uniform,
		TriggerSafety: blend*w.TriggerSafety + (1-blend)*uniform,
	}
	if g == nil {
		return out
	}
	me, ok1 := g.Players[player]
	opp, ok2 := g.Players[g.Opponent(player)]
	if !ok1 || !ok2 {
		return out
	}

	lifeDiff := len(me.Life) - len(opp.Life)
	switch {
	case lifeDiff <= -lifeSwingThreshold:
		// Trailing badly: race to stabilize life and guard against another
		// trigger hit finishing the game.
		out.LifeTempo *= 1.3
		out.TriggerSafety *= 1.3
	case lifeDiff >= lifeSwingThreshold:
		// Ahead on life: keep pressuring rather than settle into board
		// control, and accept more trigger risk to close the game out.
		out.LifeTempo *= 1.3
		out.TriggerSafety *= 0.7
	}

	idleDon, totalDon := 0, len(me.CostArea)
	for _, id := range me.CostArea {
		if dn, ok := g.Dons[id]; ok && dn.State == types.StateActive {
			idleDon++
		}
	}
	if totalDon > 0 && float64(idleDon)/float64(totalDon) >= 0.5 {
		// Sitting on untapped DON: value spending it more.
		out.DonEfficiency *= 1.2
	}

	if len(me.CharacterArea)+len(opp.CharacterArea) >= largeBoardSize {
		out.BoardPower *= 1.2
	}

	return renormalize(out)
}

// renormalize scales w so its axes sum to 1, matching the convention
// WeightsFor and Adapt's callers rely on. A zero-sum w is returned as-is.
func renormalize(w Weights) Weights {
	total := w.BoardPower + w.LifeTempo + w.CardAdvantage + w.DonEfficiency + w.TriggerSafety
	if total == 0 {
		return w
	}
	return Weights{
		BoardPower:    w.BoardPower / total,
		LifeTempo:     w.LifeTempo / total,
		CardAdvantage: w.CardAdvantage / total,
		DonEfficiency: w.DonEfficiency / total,
		TriggerSafety: w.TriggerSafety / total,
	}
}

// Evaluate scores g from player's perspective: higher is better for player.
func Evaluate(g *types.GameState, player types.PlayerID, w Weights) float64 {
	me, ok1 := g.Players[player]
	opp, ok2 := g.Players[g.Opponent(player)]
	if !ok1 || !ok2 {
		return 0
	}
	var myPower, oppPower int
	for _, id := range me.CharacterArea {
		myPower += cardPower(g, id)
	}
	for _, id := range opp.CharacterArea {
		oppPower += cardPower(g, id)
	}
	boardPower := float64(myPower-oppPower) / 10000.0
	lifeTempo := float64(len(me.Life) - len(opp.Life))
	cardAdv := float64(len(me.Hand) - len(opp.Hand))
	donIdle := 0
	for _, id := range me.CostArea {
		if d, ok := g.Dons[id]; ok && d.State == types.StateActive {
			donIdle++
		}
	}
	donEff := -float64(donIdle)

	return w.BoardPower*boardPower + w.LifeTempo*lifeTempo + w.CardAdvantage*cardAdv + w.DonEfficiency*donEff
}

func cardPower(g *types.GameState, id types.CardID) int {
	c, ok := g.Cards[id]
	if !ok || g.Catalog == nil {
		return 0
	}
	def, ok := g.Catalog(c.DefID)
	if !ok {
		return 0
	}
	return modifier.CurrentPower(def, c)
}
