package netproto

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/types"
)

// Controller implements player.Controller over a TCP connection using a
// newline-delimited JSON protocol.
type Controller struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	self   types.PlayerID
	mu     sync.Mutex
}

// New wraps conn as a Controller speaking for self.
func New(conn net.Conn, self types.PlayerID) *Controller {
	return &Controller{conn: conn, enc: json.NewEncoder(conn), dec: json.NewDecoder(conn), self: self}
}

var _ player.Controller = (*Controller)(nil)

func (c *Controller) send(msg ServerMessage) error {
	return c.enc.Encode(msg)
}

func (c *Controller) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := c.dec.Decode(&msg)
	return msg, err
}

// BuildStateView renders g from self's point of view.
func BuildStateView(g *types.GameState, self types.PlayerID) *StateView {
	opp := g.Opponent(self)
	me, _ := g.Players[self]
	them, _ := g.Players[opp]
	sv := &StateView{Turn: g.TurnNumber, Phase: g.Phase.String(), IsYourTurn: g.ActivePlayer == self}
	if me != nil {
		sv.You = playerView(g, me, true)
	}
	if them != nil {
		sv.Opponent = playerView(g, them, false)
	}
	return sv
}

func playerView(g *types.GameState, p *types.PlayerState, reveal bool) PlayerView {
	pv := PlayerView{
		Life:      len(p.Life),
		HandCount: len(p.Hand),
		DeckCount: len(p.Deck),
	}
	if leader, ok := g.Cards[p.LeaderArea]; ok {
		if def, ok := g.Catalog(leader.DefID); ok {
			pv.Leader = def.Name
		}
	}
	for _, id := range p.CharacterArea {
		if c, ok := g.Cards[id]; ok {
			if def, ok := g.Catalog(c.DefID); ok {
				pv.CharacterArea = append(pv.CharacterArea, def.Name)
			}
		}
	}
	for _, id := range p.CostArea {
		if d, ok := g.Dons[id]; ok && d.State == types.StateActive {
			pv.CostAreaActive++
		}
	}
	if reveal {
		for _, id := range p.Hand {
			if c, ok := g.Cards[id]; ok {
				if def, ok := g.Catalog(c.DefID); ok {
					pv.Hand = append(pv.Hand, def.Name)
				}
			}
		}
	}
	return pv
}

func cardLabel(g *types.GameState, id types.CardID) string {
	c, ok := g.Cards[id]
	if !ok {
		return string(id)
	}
	if def, ok := g.Catalog(c.DefID); ok {
		return def.Name
	}
	return string(id)
}

// ChooseAction implements player.Controller.
func (c *Controller) ChooseAction(ctx context.Context, g *types.GameState, legal []types.Action) (types.Action, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	views := make([]ActionView, len(legal))
	for i, a := range legal {
		views[i] = ActionView{Index: i, Desc: describeAction(g, a)}
	}
	if err := c.send(ServerMessage{Type: "choose_action", Actions: views, State: BuildStateView(g, c.self)}); err != nil {
		return types.Action{}, fmt.Errorf("netproto: send choose_action: %w", err)
	}
	resp, err := c.recv()
	if err != nil {
		return types.Action{}, fmt.Errorf("netproto: recv action: %w", err)
	}
	if resp.Index < 0 || resp.Index >= len(legal) {
		return legal[len(legal)-1], nil // fall back to End Phase, conventionally last
	}
	return legal[resp.Index], nil
}

func describeAction(g *types.GameState, a types.Action) string {
	switch a.ActionKind {
	case types.ActionPlayCard:
		return "Play " + cardLabel(g, a.CardID)
	case types.ActionGiveDon:
		return "Give DON to " + cardLabel(g, a.CardID)
	case types.ActionDeclareAttack:
		if a.TargetID == "" {
			return "Attack with " + cardLabel(g, a.AttackerID) + " -> leader"
		}
		return "Attack with " + cardLabel(g, a.AttackerID) + " -> " + cardLabel(g, a.TargetID)
	case types.ActionActivateEffect:
		return "Activate effect on " + cardLabel(g, a.SourceCard)
	case types.ActionEndPhase:
		return "End phase"
	default:
		return a.ActionKind.String()
	}
}

// ChooseMulligan implements player.Controller.
func (c *Controller) ChooseMulligan(ctx context.Context, g *types.GameState, hand []types.CardID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	labels := make([]string, len(hand))
	for i, id := range hand {
		labels[i] = cardLabel(g, id)
	}
	if err := c.send(ServerMessage{Type: "choose_mulligan", Prompt: fmt.Sprintf("Hand: %v. Redraw?", labels)}); err != nil {
		return false, err
	}
	resp, err := c.recv()
	if err != nil {
		return false, err
	}
	return resp.Answer, nil
}

// ChooseBlocker implements player.Controller.
func (c *Controller) ChooseBlocker(ctx context.Context, g *types.GameState, legal []player.BlockerOption, attacker types.CardID) (player.BlockerOption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cands := make([]CandidateView, len(legal))
	for i, opt := range legal {
		label := "Do not block"
		if opt.CardID != "" {
			label = cardLabel(g, opt.CardID)
		}
		cands[i] = CandidateView{Index: i, Label: label}
	}
	if err := c.send(ServerMessage{Type: "choose_blocker", Prompt: cardLabel(g, attacker) + " is attacking", Candidates: cands, State: BuildStateView(g, c.self)}); err != nil {
		return player.BlockerOption{}, err
	}
	resp, err := c.recv()
	if err != nil {
		return player.BlockerOption{}, err
	}
	if resp.Index < 0 || resp.Index >= len(legal) {
		return player.BlockerOption{}, nil
	}
	return legal[resp.Index], nil
}

// ChooseCounterAction implements player.Controller.
func (c *Controller) ChooseCounterAction(ctx context.Context, g *types.GameState, legal []player.CounterOption) (player.CounterOption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cands := make([]CandidateView, len(legal))
	for i, opt := range legal {
		label := "Pass"
		if opt.Kind != player.CounterPass {
			label = cardLabel(g, opt.CardID)
		}
		cands[i] = CandidateView{Index: i, Label: label}
	}
	if err := c.send(ServerMessage{Type: "choose_counter", Candidates: cands}); err != nil {
		return player.CounterOption{}, err
	}
	resp, err := c.recv()
	if err != nil {
		return player.CounterOption{}, err
	}
	if resp.Index < 0 || resp.Index >= len(legal) {
		return player.CounterOption{Kind: player.CounterPass}, nil
	}
	return legal[resp.Index], nil
}

// ChooseTarget implements player.Controller.
func (c *Controller) ChooseTarget(ctx context.Context, g *types.GameState, candidates []types.CardID, eff *types.EffectDefinition) (types.CardID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	views := make([]CandidateView, len(candidates))
	for i, id := range candidates {
		views[i] = CandidateView{Index: i, Label: cardLabel(g, id)}
	}
	if err := c.send(ServerMessage{Type: "choose_target", Candidates: views}); err != nil {
		return "", err
	}
	resp, err := c.recv()
	if err != nil {
		return "", err
	}
	if resp.Index < 0 || resp.Index >= len(candidates) {
		return "", fmt.Errorf("netproto: target index out of range")
	}
	return candidates[resp.Index], nil
}

// ChooseValue implements player.Controller.
func (c *Controller) ChooseValue(ctx context.Context, g *types.GameState, legal []player.ValueOption, eff *types.EffectDefinition) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	views := make([]CandidateView, len(legal))
	for i, opt := range legal {
		views[i] = CandidateView{Index: i, Label: opt.Label}
	}
	if err := c.send(ServerMessage{Type: "choose_value", Candidates: views}); err != nil {
		return 0, err
	}
	resp, err := c.recv()
	if err != nil {
		return 0, err
	}
	if resp.Index < 0 || resp.Index >= len(legal) {
		return 0, fmt.Errorf("netproto: value index out of range")
	}
	return legal[resp.Index].Value, nil
}

// Notify implements player.Controller.
func (c *Controller) Notify(ctx context.Context, event types.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(ServerMessage{Type: "notify", Event: &EventView{
		Turn:    event.Turn,
		Phase:   event.Phase.String(),
		Player:  string(event.Player),
		Kind:    eventKindLabel(event.Kind),
		Card:    string(event.Card),
		Details: event.Reason,
	}})
}

// SendGameOver notifies the client the match has ended.
func (c *Controller) SendGameOver(winner types.PlayerID, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(ServerMessage{Type: "game_over", Winner: string(winner), Reason: reason})
}
