package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tcgx/optcg-engine/internal/catalog"
)

// activeSession is the singleton match (one per stdio MCP process).
var activeSession *GameSession

// Deps are the server-wide resources set by main before RegisterTools.
type Deps struct {
	Catalog *catalog.Catalog
	Decks   map[string]catalog.DeckList
	Port    string
}

var deps Deps

// SetDeps assigns the catalog, deck list and join port used by start_match.
func SetDeps(d Deps) { deps = d }

// RegisterTools adds every match tool to s.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startMatchTool(), handleStartMatch)
	s.AddTool(takeActionTool(), handleTakeAction)
	s.AddTool(answerMulliganTool(), handleAnswerMulligan)
	s.AddTool(pickBlockerTool(), handlePickBlocker)
	s.AddTool(pickCounterTool(), handlePickCounter)
	s.AddTool(pickTargetTool(), handlePickTarget)
	s.AddTool(pickValueTool(), handlePickValue)
	s.AddTool(getMatchStateTool(), handleGetMatchState)
}

func startMatchTool() mcp.Tool {
	return mcp.NewTool("start_match",
		mcp.WithDescription("Start a new match. Returns the initial state and first pending decision. "+
			"The human player connects to the printed port over TCP using the netproto protocol; this call "+
			"blocks until they do."),
		mcp.WithString("assistant_deck", mcp.Required(), mcp.Description("Deck name (from the loaded deck list) the assistant plays")),
		mcp.WithString("human_deck", mcp.Required(), mcp.Description("Deck name the remote human plays")),
		mcp.WithBoolean("assistant_first", mcp.Description("true if the assistant takes the first turn (default true)")),
	)
}

func handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("A match is already running. Only one match at a time is supported."), nil
	}
	assistantName := request.GetString("assistant_deck", "")
	humanName := request.GetString("human_deck", "")
	assistantFirst := request.GetBool("assistant_first", true)

	assistantDeck, err := catalog.DeckByName(deps.Decks, assistantName)
	if err != nil {
		return mcp.NewToolResultErrorf("assistant_deck: %v", err), nil
	}
	humanDeck, err := catalog.DeckByName(deps.Decks, humanName)
	if err != nil {
		return mcp.NewToolResultErrorf("human_deck: %v", err), nil
	}

	sess, err := NewGameSession(deps.Catalog, assistantDeck, humanDeck, assistantFirst, deps.Port)
	if err != nil {
		return mcp.NewToolResultErrorf("failed to start match: %v", err), nil
	}
	activeSession = sess

	resp := sess.waitForPending()
	resp.Port = deps.Port
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending actions list. Use when pending.type is 'choose_action'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the pending actions list")),
	)
}

func handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respondToPending(DecisionChooseAction, func(idx int) {
		activeSession.assistantCtrl.actionResp <- idx
	}, request.GetInt("index", -1))
}

func answerMulliganTool() mcp.Tool {
	return mcp.NewTool("answer_mulligan",
		mcp.WithDescription("Answer whether to redraw the opening hand. Use when pending.type is 'choose_mulligan'."),
		mcp.WithBoolean("redraw", mcp.Required(), mcp.Description("true to redraw the opening hand")),
	)
}

func handleAnswerMulligan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := checkPending(DecisionChooseMulligan); err != "" {
		return mcp.NewToolResultError(err), nil
	}
	activeSession.assistantCtrl.mulliganResp <- request.GetBool("redraw", false)
	return finishTurn()
}

func pickBlockerTool() mcp.Tool {
	return mcp.NewTool("pick_blocker",
		mcp.WithDescription("Pick a blocker candidate by index, or the 'do not block' option. Use when pending.type is 'choose_blocker'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the pending candidates list")),
	)
}

func handlePickBlocker(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respondToPending(DecisionChooseBlocker, func(idx int) {
		activeSession.assistantCtrl.blockerResp <- idx
	}, request.GetInt("index", -1))
}

func pickCounterTool() mcp.Tool {
	return mcp.NewTool("pick_counter",
		mcp.WithDescription("Pick a counter-step response by index, or Pass. Use when pending.type is 'choose_counter'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the pending candidates list")),
	)
}

func handlePickCounter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respondToPending(DecisionChooseCounter, func(idx int) {
		activeSession.assistantCtrl.counterResp <- idx
	}, request.GetInt("index", -1))
}

func pickTargetTool() mcp.Tool {
	return mcp.NewTool("pick_target",
		mcp.WithDescription("Pick a target by index from the pending candidates list. Use when pending.type is 'choose_target'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the pending candidates list")),
	)
}

func handlePickTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respondToPending(DecisionChooseTarget, func(idx int) {
		activeSession.assistantCtrl.targetResp <- idx
	}, request.GetInt("index", -1))
}

func pickValueTool() mcp.Tool {
	return mcp.NewTool("pick_value",
		mcp.WithDescription("Pick a numeric option by index from the pending candidates list. Use when pending.type is 'choose_value'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the pending candidates list")),
	)
}

func handlePickValue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respondToPending(DecisionChooseValue, func(idx int) {
		activeSession.assistantCtrl.valueResp <- idx
	}, request.GetInt("index", -1))
}

func getMatchStateTool() mcp.Tool {
	return mcp.NewTool("get_match_state",
		mcp.WithDescription("Get the current state, accumulated events and pending decision without answering it. Read-only."),
	)
}

func handleGetMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	sess := activeSession
	events := sess.drainEvents()
	sess.mu.Lock()
	gameOver, winner, reason := sess.gameOver, sess.winner, sess.reason
	sess.mu.Unlock()

	resp := &ToolResponse{Events: events, GameOver: gameOver, Winner: string(winner), Reason: reason}
	if sess.currentPending != nil {
		resp.State = sess.currentPending.State
		if !gameOver {
			resp.Pending = &PendingView{Type: sess.currentPending.Type, Actions: sess.currentPending.Actions, Prompt: sess.currentPending.Prompt, Candidates: sess.currentPending.Candidates}
		}
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func checkPending(want DecisionType) string {
	if activeSession == nil {
		return "No match is running. Use start_match first."
	}
	p := activeSession.currentPending
	if p == nil {
		return "No pending decision."
	}
	if p.Type != want {
		return fmt.Sprintf("Wrong tool: pending decision is '%s', not '%s'.", p.Type, want)
	}
	return ""
}

func respondToPending(want DecisionType, send func(idx int), idx int) (*mcp.CallToolResult, error) {
	if err := checkPending(want); err != "" {
		return mcp.NewToolResultError(err), nil
	}
	send(idx)
	return finishTurn()
}

func finishTurn() (*mcp.CallToolResult, error) {
	resp := activeSession.waitForPending()
	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}
