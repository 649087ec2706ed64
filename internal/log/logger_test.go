package log

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/types"
)

func TestMemoryLoggerStampsTimestampWhenUnset(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(types.Event{Kind: types.EventTurnStart})
	l.Log(types.Event{Kind: types.EventTurnEnd})

	events := l.Events()
	require.Len(t, events, 2)
	require.NotZero(t, events[0].Timestamp)
	require.Less(t, events[0].Timestamp, events[1].Timestamp)
}

func TestMemoryLoggerPreservesExplicitTimestamp(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(types.Event{Kind: types.EventTurnStart, Timestamp: 99})
	require.Equal(t, uint64(99), l.Events()[0].Timestamp)
}

func TestMemoryLoggerEventsOfKindFilters(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(types.Event{Kind: types.EventTurnStart})
	l.Log(types.Event{Kind: types.EventCardPlayed})
	l.Log(types.Event{Kind: types.EventTurnStart})

	require.Len(t, l.EventsOfKind(types.EventTurnStart), 2)
	require.Len(t, l.EventsOfKind(types.EventCardPlayed), 1)
	require.Empty(t, l.EventsOfKind(types.EventGameOver))
}

func TestMemoryLoggerLastEventOnEmptyReturnsZeroValue(t *testing.T) {
	l := NewMemoryLogger()
	require.Equal(t, types.Event{}, l.LastEvent())
}

func TestMemoryLoggerLastEventReturnsMostRecent(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(types.Event{Kind: types.EventTurnStart})
	l.Log(types.Event{Kind: types.EventCardPlayed, Card: "c1"})
	require.Equal(t, types.CardID("c1"), l.LastEvent().Card)
}

func TestTextLoggerWritesFormattedLineAndRecordsInMemory(t *testing.T) {
	var sb strings.Builder
	l := NewTextLogger(&sb)
	p1 := types.PlayerID("P1")
	l.Log(types.Event{Kind: types.EventCardPlayed, Player: p1, Card: "c1", Turn: 3, Phase: types.PhaseMain})

	require.Len(t, l.Events(), 1)
	require.Contains(t, sb.String(), "P1 plays c1")
	require.Contains(t, sb.String(), "T3")
}

func TestFormatEventKnownKinds(t *testing.T) {
	p1 := types.PlayerID("P1")
	winner := p1
	cases := []struct {
		event types.Event
		want  string
	}{
		{types.Event{Kind: types.EventTurnStart, Turn: 1, Player: p1}, "Turn 1"},
		{types.Event{Kind: types.EventAttackDeclared, Player: p1, Attacker: "atk", Target: ""}, "-> leader"},
		{types.Event{Kind: types.EventAttackDeclared, Player: p1, Attacker: "atk", Target: "def"}, "-> def"},
		{types.Event{Kind: types.EventGameOver, Winner: &winner, Reason: "leader was KO'd"}, "P1 wins"},
		{types.Event{Kind: types.EventGameOver, Reason: "draw"}, "draw wins"},
	}
	for _, c := range cases {
		require.Contains(t, FormatEvent(c.event), c.want)
	}
}

func TestFormatEventUnknownKindFallsBackToKindString(t *testing.T) {
	got := FormatEvent(types.Event{Kind: types.EventKind(999)})
	require.Contains(t, got, "Unknown")
}

func TestFormatAllJoinsEventsWithNewlines(t *testing.T) {
	events := []types.Event{
		{Kind: types.EventTurnStart, Turn: 1},
		{Kind: types.EventTurnEnd, Turn: 1},
	}
	out := FormatAll(events)
	require.Equal(t, 2, strings.Count(out, "\n"))
}
