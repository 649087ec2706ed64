// Package mcpserver exposes a running match as a set of Model Context
// Protocol tools (github.com/mark3labs/mcp-go), so an assistant can play
// one seat of a match by polling for pending decisions and answering them
// one tool call at a time, while the other seat connects over
// internal/netproto as an ordinary remote human.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	stdnet "net"
	"sync"

	"github.com/tcgx/optcg-engine/internal/catalog"
	"github.com/tcgx/optcg-engine/internal/engine"
	tcgxlog "github.com/tcgx/optcg-engine/internal/log"
	"github.com/tcgx/optcg-engine/internal/netproto"
	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/types"
)

// DecisionType identifies which player.Controller call the engine is
// currently blocked on.
type DecisionType string

const (
	DecisionChooseAction  DecisionType = "choose_action"
	DecisionChooseMulligan DecisionType = "choose_mulligan"
	DecisionChooseBlocker DecisionType = "choose_blocker"
	DecisionChooseCounter DecisionType = "choose_counter"
	DecisionChooseTarget  DecisionType = "choose_target"
	DecisionChooseValue   DecisionType = "choose_value"
	DecisionGameOver      DecisionType = "game_over"
)

// PendingDecision is what the assistant-facing MCPController hands off to
// the session while it blocks waiting for a reply.
type PendingDecision struct {
	Type       DecisionType
	State      *netproto.StateView
	Actions    []netproto.ActionView
	Prompt     string
	Candidates []netproto.CandidateView
}

// ToolResponse is the JSON envelope every tool handler returns.
type ToolResponse struct {
	Events   []netproto.EventView `json:"events"`
	State    *netproto.StateView  `json:"state,omitempty"`
	Pending  *PendingView         `json:"pending,omitempty"`
	GameOver bool                 `json:"game_over"`
	Winner   string               `json:"winner,omitempty"`
	Reason   string               `json:"reason,omitempty"`
	Port     string               `json:"port,omitempty"`
}

// PendingView is the pending decision as rendered in tool response JSON.
type PendingView struct {
	Type       DecisionType           `json:"type"`
	Actions    []netproto.ActionView  `json:"actions,omitempty"`
	Prompt     string                 `json:"prompt,omitempty"`
	Candidates []netproto.CandidateView `json:"candidates,omitempty"`
}

// GameSession wires one seat to an MCPController driven by tool calls, and
// the other to a real TCP client over internal/netproto, then runs the
// match to completion in the background.
type GameSession struct {
	assistantCtrl   *MCPController
	assistantPlayer types.PlayerID

	listener stdnet.Listener
	humanConn stdnet.Conn

	eng *engine.Engine

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []netproto.EventView
	gameOver bool
	winner   types.PlayerID
	reason   string
}

// NewGameSession opens a TCP listener on port, blocks until a human client
// connects, then starts a match between the assistant's deck and the
// human's deck (assistantFirst selects which seat the assistant occupies).
func NewGameSession(cat *catalog.Catalog, assistantDeck, humanDeck catalog.DeckList, assistantFirst bool, port string) (*GameSession, error) {
	ln, err := stdnet.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: listen on %s: %w", port, err)
	}

	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("mcpserver: accept human connection: %w", err)
	}

	assistantID, humanID := types.PlayerID("P1"), types.PlayerID("P2")
	if !assistantFirst {
		assistantID, humanID = types.PlayerID("P2"), types.PlayerID("P1")
	}

	sess := &GameSession{
		assistantPlayer: assistantID,
		pendingCh:       make(chan *PendingDecision, 1),
		listener:        ln,
		humanConn:       conn,
	}
	sess.assistantCtrl = NewMCPController(assistantID, sess)
	humanCtrl := netproto.New(conn, humanID)

	specs := map[engine.PlayerNumber]engine.DeckSpec{}
	controllers := map[types.PlayerID]player.Controller{assistantID: sess.assistantCtrl, humanID: humanCtrl}
	var p1, p2 types.PlayerID = "P1", "P2"
	if assistantFirst {
		specs[engine.PlayerOne] = engine.DeckSpec{Leader: assistantDeck.Leader, Deck: assistantDeck.Cards}
		specs[engine.PlayerTwo] = engine.DeckSpec{Leader: humanDeck.Leader, Deck: humanDeck.Cards}
	} else {
		specs[engine.PlayerOne] = engine.DeckSpec{Leader: humanDeck.Leader, Deck: humanDeck.Cards}
		specs[engine.PlayerTwo] = engine.DeckSpec{Leader: assistantDeck.Leader, Deck: assistantDeck.Cards}
	}

	eng, err := engine.New(engine.Config{
		Catalog:     cat.Lookup,
		Controllers: controllers,
		Seed:        fmt.Sprintf("mcp-%s", port),
		Logger:      tcgxlog.NewMemoryLogger(),
	}, p1, p2, specs)
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("mcpserver: setup match: %w", err)
	}
	sess.eng = eng

	go sess.run()

	return sess, nil
}

func (s *GameSession) run() {
	ctx := context.Background()
	if err := s.eng.Mulligan(ctx); err != nil {
		s.finish(types.PlayerID(""), fmt.Sprintf("mulligan error: %v", err))
		return
	}
	final, err := s.eng.RunGame(ctx)
	if err != nil {
		s.finish(types.PlayerID(""), fmt.Sprintf("match error: %v", err))
		return
	}
	winner := types.PlayerID("draw")
	reason := final.Reason
	if final.Winner != nil {
		winner = *final.Winner
	}
	s.finish(winner, reason)
}

func (s *GameSession) finish(winner types.PlayerID, reason string) {
	_ = humanSendGameOver(s, winner, reason)
	s.humanConn.Close()
	s.listener.Close()

	s.pendingCh <- &PendingDecision{Type: DecisionGameOver}

	s.mu.Lock()
	s.gameOver = true
	s.winner = winner
	s.reason = reason
	s.mu.Unlock()
}

func humanSendGameOver(s *GameSession, winner types.PlayerID, reason string) error {
	data, _ := json.Marshal(netproto.ServerMessage{Type: "game_over", Winner: string(winner), Reason: reason})
	_, err := s.humanConn.Write(append(data, '\n'))
	return err
}

func (s *GameSession) appendEvent(ev netproto.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *GameSession) drainEvents() []netproto.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []netproto.EventView{}
	}
	return events
}

// waitForPending blocks for the next decision and renders it as a
// ToolResponse, draining any events accumulated since the last call.
func (s *GameSession) waitForPending() *ToolResponse {
	pending := <-s.pendingCh
	s.currentPending = pending
	events := s.drainEvents()

	resp := &ToolResponse{Events: events}
	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = string(s.winner)
		resp.Reason = s.reason
		s.mu.Unlock()
		return resp
	}

	resp.State = pending.State
	resp.Pending = &PendingView{Type: pending.Type, Actions: pending.Actions, Prompt: pending.Prompt, Candidates: pending.Candidates}
	return resp
}

func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
