// Package webui serves a minimal spectator page: a static HTML/JS client
// that proxies over a WebSocket to a running internal/netproto match
// server, plus read-only JSON endpoints for the loaded card catalog and
// deck list, adapted from the teacher's internal/web.
package webui

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"log"
	"net"
	"net/http"

	"github.com/coder/websocket"

	"github.com/tcgx/optcg-engine/internal/catalog"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON shape of one catalog entry for /api/cards.
type CardInfo struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Colors   []string `json:"colors,omitempty"`
	Power    int      `json:"power,omitempty"`
	Cost     int      `json:"cost,omitempty"`
	Life     int      `json:"life,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// DeckInfo is the JSON shape of one deck list for /api/decks.
type DeckInfo struct {
	Name      string `json:"name"`
	Leader    string `json:"leader"`
	CardCount int    `json:"cardCount"`
}

// Server is the spectator web UI.
type Server struct {
	catalog *catalog.Catalog
	decks   map[string]catalog.DeckList
	mux     *http.ServeMux
}

// NewServer loads the catalog and deck files and wires the HTTP routes.
func NewServer(catalogPath, decksPath string) (*Server, error) {
	cat, err := loadCatalogFile(catalogPath)
	if err != nil {
		return nil, err
	}
	decks, err := loadDeckFile(decksPath, cat)
	if err != nil {
		return nil, err
	}
	s := &Server{catalog: cat, decks: decks, mux: http.NewServeMux()}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, def := range s.catalog.All() {
		var colors []string
		for c, on := range def.Colors {
			if on {
				colors = append(colors, c)
			}
		}
		var keywords []string
		for _, k := range def.Keywords {
			keywords = append(keywords, string(k))
		}
		ci := CardInfo{
			ID:       string(def.ID),
			Name:     def.Name,
			Category: def.Category.String(),
			Colors:   colors,
			Life:     def.Life,
			Keywords: keywords,
		}
		if def.Power != nil {
			ci.Power = *def.Power
		}
		if def.Cost != nil {
			ci.Cost = *def.Cost
		}
		cards = append(cards, ci)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	var decks []DeckInfo
	for _, d := range s.decks {
		decks = append(decks, DeckInfo{Name: d.Name, Leader: string(d.Leader), CardCount: len(d.Cards)})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decks)
}

// handleWebSocket proxies a browser WebSocket connection onto a TCP
// connection to a match server speaking internal/netproto, so a browser
// can spectate (or play) without a TCP socket of its own.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("webui: websocket accept: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		log.Printf("webui: read connect message: %v", err)
		return
	}
	var connectMsg struct {
		Type string `json:"type"`
		Addr string `json:"addr"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	tcpConn, err := net.Dial("tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{"type": "error", "reason": err.Error()})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	done := make(chan struct{})

	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					log.Printf("webui: tcp read: %v", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}()

	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "match ended")
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
