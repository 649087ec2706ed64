package netproto

import (
	"context"
	"fmt"
	"net"

	"github.com/tcgx/optcg-engine/internal/catalog"
	"github.com/tcgx/optcg-engine/internal/engine"
	tcgxlog "github.com/tcgx/optcg-engine/internal/log"
	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/types"
)

// Server hosts a match between two TCP clients, each speaking the
// newline-delimited JSON protocol this package defines.
type Server struct {
	Port     string
	Catalog  *catalog.Catalog
	DeckOne  catalog.DeckList
	DeckTwo  catalog.DeckList
	Logger   tcgxlog.EventLogger
}

// Run listens on s.Port, accepts exactly two connections (in arrival
// order), and plays one match to completion.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("netproto: listen: %w", err)
	}
	defer ln.Close()

	fmt.Printf("netproto: waiting for two players on port %s...\n", s.Port)
	connA, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("netproto: accept player one: %w", err)
	}
	defer connA.Close()
	fmt.Printf("netproto: player one connected from %s\n", connA.RemoteAddr())

	connB, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("netproto: accept player two: %w", err)
	}
	defer connB.Close()
	fmt.Printf("netproto: player two connected from %s\n", connB.RemoteAddr())

	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	ctrlA := New(connA, p1)
	ctrlB := New(connB, p2)

	e, err := engine.New(engine.Config{
		Catalog:     s.Catalog.Lookup,
		Controllers: map[types.PlayerID]player.Controller{p1: ctrlA, p2: ctrlB},
		Seed:        fmt.Sprintf("netproto-%s", s.Port),
		Logger:      s.Logger,
	}, p1, p2, map[engine.PlayerNumber]engine.DeckSpec{
		engine.PlayerOne: {Leader: s.DeckOne.Leader, Deck: s.DeckOne.Cards},
		engine.PlayerTwo: {Leader: s.DeckTwo.Leader, Deck: s.DeckTwo.Cards},
	})
	if err != nil {
		return fmt.Errorf("netproto: setup match: %w", err)
	}
	if err := e.Mulligan(ctx); err != nil {
		return fmt.Errorf("netproto: mulligan: %w", err)
	}
	final, err := e.RunGame(ctx)
	if err != nil {
		return fmt.Errorf("netproto: run match: %w", err)
	}

	winner := types.PlayerID("draw")
	if final.Winner != nil {
		winner = *final.Winner
	}
	_ = ctrlA.SendGameOver(winner, final.Reason)
	_ = ctrlB.SendGameOver(winner, final.Reason)
	return nil
}
