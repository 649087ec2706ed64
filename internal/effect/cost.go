package effect

import (
	"context"
	"fmt"

	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/state"
	"github.com/tcgx/optcg-engine/internal/types"
	"github.com/tcgx/optcg-engine/internal/zone"
)

// PayCost evaluates cost against g for controller/source and, if payable,
// applies it and returns the new state. Failure cancels the effect with no
// visible side effects — ok is false and g is returned unchanged (§4.6.2).
func PayCost(ctx context.Context, zm *zone.Manager, ctrl player.Controller, g *types.GameState, cost *types.CostExpr, controller types.PlayerID, source types.CardID) (*types.GameState, bool, error) {
	if cost == nil {
		return g, true, nil
	}
	if !canPay(g, cost, controller, source) {
		return g, false, nil
	}
	ng := g
	var err error
	if cost.RestSelf {
		ng = zm.SetCardState(ng, source, types.StateRested)
	}
	if cost.RestDonCount > 0 {
		ng, err = restActiveDon(ng, zm, controller, cost.RestDonCount)
		if err != nil {
			return g, false, nil
		}
	}
	if cost.TrashCount > 0 {
		ng, err = trashFromHand(ctx, ctrl, zm, ng, controller, cost.TrashCount)
		if err != nil {
			return g, false, err
		}
	}
	for _, sub := range cost.Composite {
		var ok bool
		ng, ok, err = PayCost(ctx, zm, ctrl, ng, &sub, controller, source)
		if err != nil {
			return g, false, err
		}
		if !ok {
			return g, false, nil
		}
	}
	return ng, true, nil
}

func canPay(g *types.GameState, cost *types.CostExpr, controller types.PlayerID, source types.CardID) bool {
	p, ok := state.GetPlayer(g, controller)
	if !ok {
		return false
	}
	if cost.RestSelf {
		c, ok := state.GetCard(g, source)
		if !ok || c.State != types.StateActive {
			return false
		}
	}
	if cost.RestDonCount > 0 {
		active := 0
		for _, id := range p.CostArea {
			d, ok := state.GetDon(g, id)
			if ok && d.State == types.StateActive {
				active++
			}
		}
		if active < cost.RestDonCount {
			return false
		}
	}
	if cost.TrashCount > 0 && len(p.Hand) < cost.TrashCount {
		return false
	}
	for _, sub := range cost.Composite {
		if !canPay(g, &sub, controller, source) {
			return false
		}
	}
	return true
}

func restActiveDon(g *types.GameState, zm *zone.Manager, controller types.PlayerID, n int) (*types.GameState, error) {
	p, ok := state.GetPlayer(g, controller)
	if !ok {
		return g, fmt.Errorf("effect: unknown player %q", controller)
	}
	ng := g
	rested := 0
	for _, id := range p.CostArea {
		if rested >= n {
			break
		}
		d, ok := state.GetDon(ng, id)
		if ok && d.State == types.StateActive {
			ng = zm.SetDonState(ng, id, types.StateRested)
			rested++
		}
	}
	if rested < n {
		return g, fmt.Errorf("effect: insufficient active DON")
	}
	return ng, nil
}

func trashFromHand(ctx context.Context, ctrl player.Controller, zm *zone.Manager, g *types.GameState, controller types.PlayerID, n int) (*types.GameState, error) {
	p, ok := state.GetPlayer(g, controller)
	if !ok {
		return g, fmt.Errorf("effect: unknown player %q", controller)
	}
	candidates := append([]types.CardID(nil), p.Hand...)
	ng := g
	for i := 0; i < n && len(candidates) > 0; i++ {
		id, err := ctrl.ChooseTarget(ctx, ng, candidates, nil)
		if err != nil {
			return g, err
		}
		var err2 error
		ng, err2 = zm.Trash(ng, id)
		if err2 != nil {
			return g, err2
		}
		candidates = remove(candidates, id)
	}
	return ng, nil
}

func remove(s []types.CardID, id types.CardID) []types.CardID {
	out := s[:0]
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
