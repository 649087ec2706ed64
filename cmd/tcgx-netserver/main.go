// Command tcgx-netserver hosts a single match over internal/netproto and
// exits once it completes. Intended for container/service deployment,
// where `tcgx-cli host` is the interactive-terminal equivalent.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tcgx/optcg-engine/internal/catalog"
	tcgxlog "github.com/tcgx/optcg-engine/internal/log"
	"github.com/tcgx/optcg-engine/internal/netproto"
)

func main() {
	catalogPath := flag.String("catalog", "cards.yaml", "path to the card catalog YAML file")
	decksPath := flag.String("decks", "decks.yaml", "path to decks YAML file")
	deckOneName := flag.String("deck1", "", "deck name for player one")
	deckTwoName := flag.String("deck2", "", "deck name for player two")
	port := flag.String("port", "9000", "TCP port to listen on")
	flag.Parse()

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load catalog: %v\n", err)
		os.Exit(1)
	}
	data, err := os.ReadFile(*decksPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: read decks file: %v\n", err)
		os.Exit(1)
	}
	decks, err := catalog.ParseDeckBytes(data, cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: parse decks file: %v\n", err)
		os.Exit(1)
	}
	deckOne, err := catalog.DeckByName(decks, *deckOneName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	deckTwo, err := catalog.DeckByName(decks, *deckTwoName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := &netproto.Server{
		Port:    *port,
		Catalog: cat,
		DeckOne: deckOne,
		DeckTwo: deckTwo,
		Logger:  tcgxlog.NewTextLogger(os.Stdout),
	}
	if err := srv.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
