// Package serialize implements the versioned JSON state envelope from
// spec.md §6: a save/restore format for a GameState snapshot, independent
// of any particular transport (netproto, mcpserver, webui all build on it).
package serialize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tcgx/optcg-engine/internal/types"
)

// FormatVersion is the current envelope version. A future incompatible
// change to envelope bumps the major component; Decode rejects an
// unrecognized major.
const FormatVersion = "1.0.0"

// Envelope is the on-disk/on-wire representation of a GameState snapshot.
// Catalog is a function value and IDAllocator carries unexported fields,
// so both are flattened into plain data here rather than marshaled
// through GameState directly.
type Envelope struct {
	Version string `json:"version"`

	PlayerOrder  []types.PlayerID                    `json:"playerOrder"`
	ActivePlayer types.PlayerID                       `json:"activePlayer"`
	Phase        types.Phase                          `json:"phase"`
	TurnNumber   int                                  `json:"turnNumber"`

	Players map[types.PlayerID]*types.PlayerState     `json:"players"`
	Cards   map[types.CardID]*types.CardInstance       `json:"cards"`
	Dons    map[types.DonID]*types.DonInstance          `json:"dons"`

	Battle          *types.BattleState                  `json:"battle,omitempty"`
	PendingTriggers []types.TriggerInstance             `json:"pendingTriggers,omitempty"`

	GameOver bool             `json:"gameOver"`
	Winner   *types.PlayerID  `json:"winner,omitempty"`
	Reason   string           `json:"reason,omitempty"`

	History []types.Action `json:"history,omitempty"`

	LoopGuard        types.LoopGuardState     `json:"loopGuard"`
	AttackedThisTurn map[types.CardID]bool    `json:"attackedThisTurn,omitempty"`

	ModifierClock uint64 `json:"modifierClock"`
	IDSeed        string `json:"idSeed"`
	IDCounter     uint64 `json:"idCounter"`
}

// Encode produces the versioned JSON representation of g. The catalog
// lookup function is not part of the envelope; Decode requires the caller
// to supply one matching the original card data.
func Encode(g *types.GameState) ([]byte, error) {
	env := Envelope{
		Version:          FormatVersion,
		PlayerOrder:      g.PlayerOrder,
		ActivePlayer:     g.ActivePlayer,
		Phase:            g.Phase,
		TurnNumber:       g.TurnNumber,
		Players:          g.Players,
		Cards:            g.Cards,
		Dons:             g.Dons,
		Battle:           g.Battle,
		PendingTriggers:  g.PendingTriggers,
		GameOver:         g.GameOver,
		Winner:           g.Winner,
		Reason:           g.Reason,
		History:          g.History,
		LoopGuard:        g.LoopGuard,
		AttackedThisTurn: g.AttackedThisTurn,
		ModifierClock:    g.ModifierClock,
	}
	if g.IDs != nil {
		env.IDSeed = g.IDs.Seed()
		env.IDCounter = g.IDs.Counter()
	}
	return json.MarshalIndent(env, "", "  ")
}

// Decode parses a versioned envelope and rebuilds a GameState, wiring
// catalog back in as the live CatalogLookup (it can never round-trip
// through JSON itself).
func Decode(data []byte, catalog types.CatalogLookup) (*types.GameState, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("serialize: decode envelope: %w", err)
	}
	if err := checkVersion(env.Version); err != nil {
		return nil, err
	}
	g := &types.GameState{
		Catalog:          catalog,
		PlayerOrder:      env.PlayerOrder,
		ActivePlayer:     env.ActivePlayer,
		Phase:            env.Phase,
		TurnNumber:       env.TurnNumber,
		Players:          env.Players,
		Cards:            env.Cards,
		Dons:             env.Dons,
		Battle:           env.Battle,
		PendingTriggers:  env.PendingTriggers,
		GameOver:         env.GameOver,
		Winner:           env.Winner,
		Reason:           env.Reason,
		History:          env.History,
		LoopGuard:        env.LoopGuard,
		AttackedThisTurn: env.AttackedThisTurn,
		ModifierClock:    env.ModifierClock,
		IDs:              types.RestoreIDAllocator(env.IDSeed, env.IDCounter),
	}
	if g.AttackedThisTurn == nil {
		g.AttackedThisTurn = map[types.CardID]bool{}
	}
	if g.LoopGuard.Counts == nil {
		g.LoopGuard.Counts = map[string]int{}
	}
	return g, nil
}

func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("serialize: missing version field")
	}
	major := v
	if i := strings.IndexByte(v, '.'); i >= 0 {
		major = v[:i]
	}
	if major != "1" {
		return fmt.Errorf("serialize: unsupported envelope version %q (engine supports major version 1)", v)
	}
	return nil
}
