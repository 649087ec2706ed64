// Package log implements the engine's structured event log (§4.17): an
// EventLogger interface over the typed types.Event union, with an
// in-memory logger for test assertions and a text logger for human
// output, adapted from the teacher's free-text GameEvent logger.
package log

import (
	"fmt"
	"io"
	"strings"

	"github.com/tcgx/optcg-engine/internal/types"
)

// EventLogger is the interface every event sink implements.
type EventLogger interface {
	Log(event types.Event)
	Events() []types.Event
}

// MemoryLogger stores every event in memory for test assertions and replay.
type MemoryLogger struct {
	events []types.Event
	seq    uint64
}

// NewMemoryLogger returns an empty MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

// Log appends event, stamping it with the logger's own monotonic sequence
// number if the caller left Timestamp unset.
func (l *MemoryLogger) Log(event types.Event) {
	l.seq++
	if event.Timestamp == 0 {
		event.Timestamp = l.seq
	}
	l.events = append(l.events, event)
}

// Events returns every logged event, oldest first.
func (l *MemoryLogger) Events() []types.Event {
	return l.events
}

// EventsOfKind returns every logged event matching kind.
func (l *MemoryLogger) EventsOfKind(kind types.EventKind) []types.Event {
	var out []types.Event
	for _, e := range l.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// LastEvent returns the most recently logged event, or the zero value if
// nothing has been logged yet.
func (l *MemoryLogger) LastEvent() types.Event {
	if len(l.events) == 0 {
		return types.Event{}
	}
	return l.events[len(l.events)-1]
}

// TextLogger wraps a MemoryLogger and additionally writes a human-readable
// line per event to w.
type TextLogger struct {
	MemoryLogger
	w io.Writer
}

// NewTextLogger returns a TextLogger writing to w.
func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

// Log records event in memory and writes its formatted line to w.
func (l *TextLogger) Log(event types.Event) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

func playerName(p types.PlayerID) string {
	if p == "" {
		return "-"
	}
	return string(p)
}

// FormatEvent renders a single event as one human-readable line.
func FormatEvent(e types.Event) string {
	phase := e.Phase.String()
	for len(phase) < 8 {
		phase += " "
	}
	detail := detailFor(e)
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, detail)
}

// FormatAll renders a sequence of events as a multi-line string.
func FormatAll(events []types.Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func detailFor(e types.Event) string {
	switch e.Kind {
	case types.EventTurnStart:
		return fmt.Sprintf("=== Turn %d (%s) ===", e.Turn, playerName(e.Player))
	case types.EventTurnEnd:
		return fmt.Sprintf("%s ends turn %d", playerName(e.Player), e.Turn)
	case types.EventPhaseChanged:
		return fmt.Sprintf("Phase -> %s", e.Phase)
	case types.EventCardMoved:
		return fmt.Sprintf("%s: %s moves %s -> %s", playerName(e.Player), e.Card, e.FromZone, e.ToZone)
	case types.EventCardStateChanged:
		return fmt.Sprintf("%s becomes %s", e.Card, e.NewState)
	case types.EventPowerChanged:
		return fmt.Sprintf("%s power %+d", e.Card, e.PowerDelta)
	case types.EventCardPlayed:
		return fmt.Sprintf("%s plays %s", playerName(e.Player), e.Card)
	case types.EventDonGiven:
		return fmt.Sprintf("%s attaches DON %s to %s", playerName(e.Player), e.Don, e.Card)
	case types.EventAttackDeclared:
		target := string(e.Target)
		if target == "" {
			target = "leader"
		}
		return fmt.Sprintf("%s declares attack: %s -> %s", playerName(e.Player), e.Attacker, target)
	case types.EventBlockDeclared:
		return fmt.Sprintf("%s blocks with %s", playerName(e.Player), e.Blocker)
	case types.EventCounterStepStart:
		return "counter step begins"
	case types.EventCounterUsed:
		return fmt.Sprintf("%s uses counter card %s", playerName(e.Player), e.Card)
	case types.EventBattleEnd:
		return "battle ends"
	case types.EventEffectTriggered:
		return fmt.Sprintf("%s's %s triggers", e.SourceCard, e.EffectDefID)
	case types.EventEffectResolved:
		return fmt.Sprintf("%s's %s resolves", e.SourceCard, e.EffectDefID)
	case types.EventGameOver:
		winner := "draw"
		if e.Winner != nil {
			winner = playerName(*e.Winner)
		}
		return fmt.Sprintf("game over: %s wins (%s)", winner, e.Reason)
	case types.EventStateChanged:
		return "state changed"
	case types.EventAiThinkingStart:
		return fmt.Sprintf("%s is thinking", playerName(e.Player))
	case types.EventAiThinkingEnd:
		return fmt.Sprintf("%s finished thinking", playerName(e.Player))
	case types.EventAiActionSelected:
		return fmt.Sprintf("%s selects an action", playerName(e.Player))
	case types.EventError:
		return fmt.Sprintf("error %s: %s", e.ErrorCode, e.Reason)
	default:
		return e.Kind.String()
	}
}
