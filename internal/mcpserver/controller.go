package mcpserver

import (
	"context"

	"github.com/tcgx/optcg-engine/internal/netproto"
	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/types"
)

// MCPController implements player.Controller by publishing a
// PendingDecision to the session's channel and blocking on a
// decision-specific response channel, so a tool call elsewhere in the
// process can supply the answer.
type MCPController struct {
	self    types.PlayerID
	session *GameSession

	actionResp   chan int
	mulliganResp chan bool
	blockerResp  chan int
	counterResp  chan int
	targetResp   chan int
	valueResp    chan int
}

// NewMCPController creates a controller for self, backed by session.
func NewMCPController(self types.PlayerID, session *GameSession) *MCPController {
	return &MCPController{
		self:         self,
		session:      session,
		actionResp:   make(chan int),
		mulliganResp: make(chan bool),
		blockerResp:  make(chan int),
		counterResp:  make(chan int),
		targetResp:   make(chan int),
		valueResp:    make(chan int),
	}
}

var _ player.Controller = (*MCPController)(nil)

func (c *MCPController) ChooseAction(ctx context.Context, g *types.GameState, legal []types.Action) (types.Action, error) {
	views := make([]netproto.ActionView, len(legal))
	for i, a := range legal {
		views[i] = netproto.ActionView{Index: i, Desc: describeAction(g, a)}
	}
	c.session.pendingCh <- &PendingDecision{Type: DecisionChooseAction, State: netproto.BuildStateView(g, c.self), Actions: views}
	idx := <-c.actionResp
	if idx < 0 || idx >= len(legal) {
		return legal[len(legal)-1], nil
	}
	return legal[idx], nil
}

func (c *MCPController) ChooseMulligan(ctx context.Context, g *types.GameState, hand []types.CardID) (bool, error) {
	labels := make([]netproto.CandidateView, len(hand))
	for i, id := range hand {
		labels[i] = netproto.CandidateView{Index: i, Label: cardLabelFor(g, id)}
	}
	c.session.pendingCh <- &PendingDecision{Type: DecisionChooseMulligan, State: netproto.BuildStateView(g, c.self), Prompt: "Redraw opening hand?", Candidates: labels}
	return <-c.mulliganResp, nil
}

func (c *MCPController) ChooseBlocker(ctx context.Context, g *types.GameState, legal []player.BlockerOption, attacker types.CardID) (player.BlockerOption, error) {
	cands := make([]netproto.CandidateView, len(legal))
	for i, opt := range legal {
		label := "Do not block"
		if opt.CardID != "" {
			label = cardLabelFor(g, opt.CardID)
		}
		cands[i] = netproto.CandidateView{Index: i, Label: label}
	}
	c.session.pendingCh <- &PendingDecision{Type: DecisionChooseBlocker, State: netproto.BuildStateView(g, c.self), Prompt: cardLabelFor(g, attacker) + " is attacking", Candidates: cands}
	idx := <-c.blockerResp
	if idx < 0 || idx >= len(legal) {
		return player.BlockerOption{}, nil
	}
	return legal[idx], nil
}

func (c *MCPController) ChooseCounterAction(ctx context.Context, g *types.GameState, legal []player.CounterOption) (player.CounterOption, error) {
	cands := make([]netproto.CandidateView, len(legal))
	for i, opt := range legal {
		label := "Pass"
		if opt.Kind != player.CounterPass {
			label = cardLabelFor(g, opt.CardID)
		}
		cands[i] = netproto.CandidateView{Index: i, Label: label}
	}
	c.session.pendingCh <- &PendingDecision{Type: DecisionChooseCounter, State: netproto.BuildStateView(g, c.self), Candidates: cands}
	idx := <-c.counterResp
	if idx < 0 || idx >= len(legal) {
		return player.CounterOption{Kind: player.CounterPass}, nil
	}
	return legal[idx], nil
}

func (c *MCPController) ChooseTarget(ctx context.Context, g *types.GameState, candidates []types.CardID, eff *types.EffectDefinition) (types.CardID, error) {
	views := make([]netproto.CandidateView, len(candidates))
	for i, id := range candidates {
		views[i] = netproto.CandidateView{Index: i, Label: cardLabelFor(g, id)}
	}
	c.session.pendingCh <- &PendingDecision{Type: DecisionChooseTarget, State: netproto.BuildStateView(g, c.self), Candidates: views}
	idx := <-c.targetResp
	if idx < 0 || idx >= len(candidates) {
		return "", nil
	}
	return candidates[idx], nil
}

func (c *MCPController) ChooseValue(ctx context.Context, g *types.GameState, legal []player.ValueOption, eff *types.EffectDefinition) (int, error) {
	views := make([]netproto.CandidateView, len(legal))
	for i, opt := range legal {
		views[i] = netproto.CandidateView{Index: i, Label: opt.Label}
	}
	c.session.pendingCh <- &PendingDecision{Type: DecisionChooseValue, State: netproto.BuildStateView(g, c.self), Candidates: views}
	idx := <-c.valueResp
	if idx < 0 || idx >= len(legal) {
		return 0, nil
	}
	return legal[idx].Value, nil
}

// Notify implements player.Controller. Only the assistant's own controller
// appends to the session event log, so events are not duplicated by the
// human's netproto.Controller (which streams them over TCP instead).
func (c *MCPController) Notify(ctx context.Context, event types.Event) error {
	c.session.appendEvent(netproto.EventView{
		Turn:    event.Turn,
		Phase:   event.Phase.String(),
		Player:  string(event.Player),
		Kind:    event.Kind.String(),
		Card:    string(event.Card),
		Details: event.Reason,
	})
	return nil
}

func cardLabelFor(g *types.GameState, id types.CardID) string {
	c, ok := g.Cards[id]
	if !ok {
		return string(id)
	}
	if def, ok := g.Catalog(c.DefID); ok {
		return def.Name
	}
	return string(id)
}

func describeAction(g *types.GameState, a types.Action) string {
	switch a.ActionKind {
	case types.ActionPlayCard:
		return "Play " + cardLabelFor(g, a.CardID)
	case types.ActionGiveDon:
		return "Give DON to " + cardLabelFor(g, a.CardID)
	case types.ActionDeclareAttack:
		if a.TargetID == "" {
			return "Attack with " + cardLabelFor(g, a.AttackerID) + " -> leader"
		}
		return "Attack with " + cardLabelFor(g, a.AttackerID) + " -> " + cardLabelFor(g, a.TargetID)
	case types.ActionActivateEffect:
		return "Activate effect on " + cardLabelFor(g, a.SourceCard)
	case types.ActionEndPhase:
		return "End phase"
	default:
		return a.ActionKind.String()
	}
}
