// Command web serves the spectator web UI: a static page that proxies to
// a running match server over WebSocket, plus read-only catalog/deck
// endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tcgx/optcg-engine/internal/webui"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	catalogPath := flag.String("catalog", "cards.yaml", "path to the card catalog YAML file")
	decksPath := flag.String("decks", "decks.yaml", "path to decks YAML file")
	flag.Parse()

	srv, err := webui.NewServer(*catalogPath, *decksPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("optcg-engine web UI listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
