package mcpserver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/netproto"
	"github.com/tcgx/optcg-engine/internal/types"
)

func newTestSession() *GameSession {
	return &GameSession{
		assistantPlayer: "P1",
		pendingCh:       make(chan *PendingDecision, 1),
	}
}

func TestAppendEventThenDrainEventsReturnsAndClears(t *testing.T) {
	s := newTestSession()
	s.appendEvent(netproto.EventView{Card: "c1"})
	s.appendEvent(netproto.EventView{Card: "c2"})

	events := s.drainEvents()
	require.Len(t, events, 2)
	require.Empty(t, s.drainEvents())
}

func TestDrainEventsOnEmptyReturnsEmptySliceNotNil(t *testing.T) {
	s := newTestSession()
	events := s.drainEvents()
	require.NotNil(t, events)
	require.Empty(t, events)
}

func TestWaitForPendingRendersNonGameOverDecision(t *testing.T) {
	s := newTestSession()
	s.appendEvent(netproto.EventView{Card: "c1"})
	s.pendingCh <- &PendingDecision{
		Type:   DecisionChooseAction,
		State:  &netproto.StateView{Turn: 2},
		Prompt: "pick one",
	}

	resp := s.waitForPending()
	require.False(t, resp.GameOver)
	require.Len(t, resp.Events, 1)
	require.Equal(t, 2, resp.State.Turn)
	require.Equal(t, DecisionChooseAction, resp.Pending.Type)
	require.Equal(t, "pick one", resp.Pending.Prompt)
}

func TestWaitForPendingRendersGameOverWithoutState(t *testing.T) {
	s := newTestSession()
	s.mu.Lock()
	s.gameOver = true
	s.winner = "P1"
	s.reason = "leader was KO'd"
	s.mu.Unlock()
	s.pendingCh <- &PendingDecision{Type: DecisionGameOver}

	resp := s.waitForPending()
	require.True(t, resp.GameOver)
	require.Equal(t, "P1", resp.Winner)
	require.Equal(t, "leader was KO'd", resp.Reason)
	require.Nil(t, resp.State)
	require.Nil(t, resp.Pending)
}

func TestRespondJSONMarshalsToolResponse(t *testing.T) {
	resp := &ToolResponse{GameOver: true, Winner: "P1", Reason: "draw"}
	out := respondJSON(resp)

	var decoded ToolResponse
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.True(t, decoded.GameOver)
	require.Equal(t, "P1", decoded.Winner)
}

func TestMCPControllerChooseActionPublishesPendingAndBlocksForResponse(t *testing.T) {
	s := newTestSession()
	ctrl := NewMCPController("P1", s)
	g := &types.GameState{
		Players: map[types.PlayerID]*types.PlayerState{"P1": types.NewPlayerState("P1"), "P2": types.NewPlayerState("P2")},
		Cards:   map[types.CardID]*types.CardInstance{},
		Catalog: func(id types.DefID) (*types.CardDefinition, bool) { return nil, false },
	}
	legal := []types.Action{
		{ActionKind: types.ActionEndPhase},
		{ActionKind: types.ActionPlayCard, CardID: "c1"},
	}

	resultCh := make(chan types.Action, 1)
	go func() {
		a, _ := ctrl.ChooseAction(nil, g, legal)
		resultCh <- a
	}()

	pending := <-s.pendingCh
	require.Equal(t, DecisionChooseAction, pending.Type)
	require.Len(t, pending.Actions, 2)

	ctrl.actionResp <- 1
	require.Equal(t, types.ActionPlayCard, (<-resultCh).ActionKind)
}

func TestMCPControllerChooseActionOutOfRangeFallsBackToLast(t *testing.T) {
	s := newTestSession()
	ctrl := NewMCPController("P1", s)
	g := &types.GameState{
		Players: map[types.PlayerID]*types.PlayerState{"P1": types.NewPlayerState("P1"), "P2": types.NewPlayerState("P2")},
		Cards:   map[types.CardID]*types.CardInstance{},
		Catalog: func(id types.DefID) (*types.CardDefinition, bool) { return nil, false },
	}
	legal := []types.Action{{ActionKind: types.ActionPlayCard}, {ActionKind: types.ActionEndPhase}}

	resultCh := make(chan types.Action, 1)
	go func() {
		a, _ := ctrl.ChooseAction(nil, g, legal)
		resultCh <- a
	}()

	<-s.pendingCh
	ctrl.actionResp <- 99
	require.Equal(t, types.ActionEndPhase, (<-resultCh).ActionKind)
}

func TestMCPControllerNotifyAppendsEventToSession(t *testing.T) {
	s := newTestSession()
	ctrl := NewMCPController("P1", s)

	require.NoError(t, ctrl.Notify(nil, types.Event{Kind: types.EventCardPlayed, Card: "c1", Turn: 4}))
	events := s.drainEvents()
	require.Len(t, events, 1)
	require.Equal(t, "c1", events[0].Card)
	require.Equal(t, 4, events[0].Turn)
}

func TestCheckPendingNoActiveSessionReturnsMessage(t *testing.T) {
	activeSession = nil
	require.Contains(t, checkPending(DecisionChooseAction), "No match is running")
}

func TestCheckPendingNoPendingDecisionReturnsMessage(t *testing.T) {
	activeSession = newTestSession()
	defer func() { activeSession = nil }()
	require.Contains(t, checkPending(DecisionChooseAction), "No pending decision")
}

func TestCheckPendingWrongTypeReturnsMessage(t *testing.T) {
	activeSession = newTestSession()
	activeSession.currentPending = &PendingDecision{Type: DecisionChooseBlocker}
	defer func() { activeSession = nil }()

	require.Contains(t, checkPending(DecisionChooseAction), "Wrong tool")
}

func TestCheckPendingMatchingTypeReturnsEmptyString(t *testing.T) {
	activeSession = newTestSession()
	activeSession.currentPending = &PendingDecision{Type: DecisionChooseAction}
	defer func() { activeSession = nil }()

	require.Empty(t, checkPending(DecisionChooseAction))
}
