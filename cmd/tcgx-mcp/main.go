// Command tcgx-mcp exposes one seat of a match as a set of MCP tools over
// stdio, so an assistant can play against a remote human connecting over
// internal/netproto.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/tcgx/optcg-engine/internal/catalog"
	"github.com/tcgx/optcg-engine/internal/mcpserver"
)

func main() {
	catalogPath := flag.String("catalog", "cards.yaml", "path to the card catalog YAML file")
	decksPath := flag.String("decks", "decks.yaml", "path to decks YAML file")
	port := flag.String("port", "9999", "TCP port the remote human connects to")
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

	mcpserver.SetDeps(mcpserver.Deps{Catalog: cat, Decks: decks, Port: *port})

	s := server.NewMCPServer("optcg-engine", "1.0.0")
	mcpserver.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
