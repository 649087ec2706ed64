// Package netproto implements a wire-agnostic JSON view of game state and
// decisions, plus a TCP line-protocol player.Controller for a remote human
// opponent, adapted from the teacher's internal/net.
package netproto

import "github.com/tcgx/optcg-engine/internal/types"

// ServerMessage is the envelope for every server-to-client message.
type ServerMessage struct {
	Type string `json:"type"`

	Event *EventView `json:"event,omitempty"`

	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	Prompt     string      `json:"prompt,omitempty"`
	Candidates []CandidateView `json:"candidates,omitempty"`
	Min        int         `json:"min,omitempty"`
	Max        int         `json:"max,omitempty"`

	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  string `json:"player"`
	Kind    string `json:"kind"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Desc  string `json:"desc"`
}

// CandidateView is a numbered card/blocker/counter/value choice.
type CandidateView struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// StateView is the game state rendered from one player's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	Phase      string     `json:"phase"`
	IsYourTurn bool       `json:"isYourTurn"`
}

// PlayerView shows one side of the board, hiding hand contents for the
// opponent (only a count is shown for them).
type PlayerView struct {
	Life          int      `json:"life"`
	HandCount     int      `json:"handCount"`
	Hand          []string `json:"hand,omitempty"`
	Leader        string   `json:"leader"`
	CharacterArea []string `json:"characterArea"`
	CostAreaActive int     `json:"costAreaActive"`
	DeckCount     int      `json:"deckCount"`
}

// ClientMessage is the envelope for every client-to-server message.
type ClientMessage struct {
	Type string `json:"type"`

	Index   int   `json:"index,omitempty"`
	Indices []int `json:"indices,omitempty"`
	Value   int   `json:"value,omitempty"`
	Answer  bool  `json:"answer,omitempty"`

	PlayerName string `json:"playerName,omitempty"` // "join" handshake
}

func eventKindLabel(k types.EventKind) string { return k.String() }
