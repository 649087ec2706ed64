package webui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/catalog"
)

const testCatalogYAML = `
cards:
  - id: leader1
    name: Test Leader
    category: Leader
    power: 5000
    life: 4
  - id: char1
    name: Test Character
    category: Character
    power: 3000
    cost: 2
    colors: [Red]
    keywords: [Rush]
`

const testDeckYAML = `
decks:
  - name: Starter Red
    leader: leader1
    cards:
      - id: char1
        count: 2
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.LoadBytes([]byte(testCatalogYAML))
	require.NoError(t, err)
	decks, err := catalog.ParseDeckBytes([]byte(testDeckYAML), cat)
	require.NoError(t, err)

	s := &Server{catalog: cat, decks: decks, mux: http.NewServeMux()}
	s.setupRoutes()
	return s
}

func TestHandleCardsReturnsCatalogAsJSON(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/cards")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cards []CardInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cards))
	require.Len(t, cards, 2)

	byID := map[string]CardInfo{}
	for _, c := range cards {
		byID[c.ID] = c
	}
	require.Equal(t, 5000, byID["leader1"].Power)
	require.Equal(t, 3000, byID["char1"].Power)
	require.Equal(t, 2, byID["char1"].Cost)
	require.Contains(t, byID["char1"].Keywords, "Rush")
	require.Contains(t, byID["char1"].Colors, "Red")
}

func TestHandleDecksReturnsDeckSummaries(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/decks")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decks []DeckInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decks))
	require.Len(t, decks, 1)
	require.Equal(t, "Starter Red", decks[0].Name)
	require.Equal(t, "leader1", decks[0].Leader)
	require.Equal(t, 2, decks[0].CardCount)
}

func TestRootServesStaticIndexPage(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestUnknownPathReturnsNotFound(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nonexistent")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
