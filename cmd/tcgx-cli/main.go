// Command tcgx-cli hosts or joins a match, or runs two AI controllers
// against each other locally for a quick smoke match.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/tcgx/optcg-engine/internal/ai"
	"github.com/tcgx/optcg-engine/internal/catalog"
	"github.com/tcgx/optcg-engine/internal/config"
	"github.com/tcgx/optcg-engine/internal/engine"
	tcgxlog "github.com/tcgx/optcg-engine/internal/log"
	"github.com/tcgx/optcg-engine/internal/netproto"
	"github.com/tcgx/optcg-engine/internal/phase"
	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/types"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "host":
		runHost(os.Args[2:])
	case "join":
		runJoin(os.Args[2:])
	case "ai-match":
		runAIMatch(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  tcgx-cli host [--catalog FILE] [--decks FILE] [--deck1 NAME] [--deck2 NAME] [--port P]")
	fmt.Println("  tcgx-cli join [--addr ADDR]")
	fmt.Println("  tcgx-cli ai-match [--catalog FILE] [--decks FILE] [--deck1 NAME] [--deck2 NAME]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host      Start a match server and wait for two remote clients")
	fmt.Println("  join      Connect to a match server as a terminal player")
	fmt.Println("  ai-match  Run two AI controllers against each other locally")
}

func loadCatalogAndDecks(catalogPath, decksPath string) (*catalog.Catalog, map[string]catalog.DeckList) {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load catalog: %v\n", err)
		os.Exit(1)
	}
	data, err := os.ReadFile(decksPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: read decks file: %v\n", err)
		os.Exit(1)
	}
	decks, err := catalog.ParseDeckBytes(data, cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: parse decks file: %v\n", err)
		os.Exit(1)
	}
	return cat, decks
}

func runHost(args []string) {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	catalogPath := fs.String("catalog", "cards.yaml", "path to the card catalog YAML file")
	decksPath := fs.String("decks", "decks.yaml", "path to decks YAML file")
	deckOneName := fs.String("deck1", "", "deck name for player one")
	deckTwoName := fs.String("deck2", "", "deck name for player two")
	port := fs.String("port", "9000", "TCP port to listen on")
	fs.Parse(args)

	cat, decks := loadCatalogAndDecks(*catalogPath, *decksPath)
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

func runJoin(args []string) {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	fs.Parse(args)

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: dial %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	stdin := bufio.NewReader(os.Stdin)

	for {
		var msg netproto.ServerMessage
		if err := dec.Decode(&msg); err != nil {
			fmt.Println("connection closed:", err)
			return
		}
		switch msg.Type {
		case "notify":
			fmt.Printf("[T%d %s] %s\n", msg.Event.Turn, msg.Event.Kind, msg.Event.Details)
			continue
		case "game_over":
			fmt.Printf("Game over. Winner: %s (%s)\n", msg.Winner, msg.Reason)
			return
		case "choose_action":
			for _, a := range msg.Actions {
				fmt.Printf("  [%d] %s\n", a.Index, a.Desc)
			}
		case "choose_mulligan":
			fmt.Println(msg.Prompt)
		default:
			for _, c := range msg.Candidates {
				fmt.Printf("  [%d] %s\n", c.Index, c.Label)
			}
			if msg.Prompt != "" {
				fmt.Println(msg.Prompt)
			}
		}

		fmt.Print("> ")
		line, _ := stdin.ReadString('\n')
		reply := parseReply(msg.Type, line)
		if err := enc.Encode(reply); err != nil {
			fmt.Println("send failed:", err)
			return
		}
	}
}

func parseReply(msgType, line string) netproto.ClientMessage {
	switch msgType {
	case "choose_mulligan":
		return netproto.ClientMessage{Answer: line[0] == 'y' || line[0] == 'Y'}
	default:
		idx, _ := strconv.Atoi(trimNewline(line))
		return netproto.ClientMessage{Index: idx}
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}

func runAIMatch(args []string) {
	fs := flag.NewFlagSet("ai-match", flag.ExitOnError)
	catalogPath := fs.String("catalog", "cards.yaml", "path to the card catalog YAML file")
	decksPath := fs.String("decks", "decks.yaml", "path to decks YAML file")
	deckOneName := fs.String("deck1", "", "deck name for player one")
	deckTwoName := fs.String("deck2", "", "deck name for player two")
	seed := fs.String("seed", "ai-match", "deterministic match seed")
	fs.Parse(args)

	cat, decks := loadCatalogAndDecks(*catalogPath, *decksPath)
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

	rulesCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}

	p1, p2 := types.PlayerID("P1"), types.PlayerID("P2")
	logger := tcgxlog.NewTextLogger(os.Stdout)

	var eng *engine.Engine
	simulate := func(g *types.GameState, a types.Action) (*types.GameState, error) {
		return phase.ApplyAction(eng.PhaseContext(), g, a)
	}

	controllers := map[types.PlayerID]player.Controller{
		p1: ai.New(ai.Context{Player: p1, Difficulty: ai.DifficultyHard, Simulate: simulate, TimeBudget: time.Duration(rulesCfg.AIThinkBudgetMS) * time.Millisecond, Rand: rand.New(rand.NewSource(1))}),
		p2: ai.New(ai.Context{Player: p2, Difficulty: ai.DifficultyMedium, Simulate: simulate, TimeBudget: time.Duration(rulesCfg.AIThinkBudgetMS) * time.Millisecond, Rand: rand.New(rand.NewSource(2))}),
	}

	eng, err = engine.New(engine.Config{
		Catalog:          cat.Lookup,
		Rules:            rulesCfg.ApplyRules(nil),
		Controllers:      controllers,
		Seed:             *seed,
		Logger:           logger,
		ErrorHistorySize: rulesCfg.ErrorHistorySize,
	}, p1, p2, map[engine.PlayerNumber]engine.DeckSpec{
		engine.PlayerOne: {Leader: deckOne.Leader, Deck: deckOne.Cards},
		engine.PlayerTwo: {Leader: deckTwo.Leader, Deck: deckTwo.Cards},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: setup match: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := eng.Mulligan(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: mulligan: %v\n", err)
		os.Exit(1)
	}
	final, err := eng.RunGame(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: run match: %v\n", err)
		os.Exit(1)
	}

	if final.Winner != nil {
		fmt.Printf("Winner: %s (%s)\n", *final.Winner, final.Reason)
	} else {
		fmt.Printf("Draw (%s)\n", final.Reason)
	}
}
