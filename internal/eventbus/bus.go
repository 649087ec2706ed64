// Package eventbus implements the Event Bus (C12): a typed, in-process,
// synchronous publish/subscribe of types.Event values.
package eventbus

import (
	"fmt"
	"log"

	"github.com/tcgx/optcg-engine/internal/types"
)

// Predicate filters events beyond their Kind.
type Predicate func(types.Event) bool

// Handler reacts to a matched event.
type Handler func(types.Event)

// Subscription is returned by Subscribe/SubscribeAll and can be used to
// unsubscribe later. Unsubscribing during dispatch of its own event only
// affects later events (§4.12).
type Subscription struct {
	id       uint64
	wildcard bool
	kind     types.EventKind
	pred     Predicate
	handler  Handler
	bus      *Bus
}

// Unsubscribe removes this subscription from the bus.
func (s *Subscription) Unsubscribe() {
	s.bus.remove(s.id)
}

type entry struct {
	sub *Subscription
}

// Bus is a per-engine-instance, synchronous event dispatcher.
type Bus struct {
	nextID    uint64
	byType    map[types.EventKind][]entry
	wildcards []entry
	seq       uint64
	logger    *log.Logger // optional; nil means silent
}

// New creates an empty bus. logger, if non-nil, receives a line per
// isolated handler panic (handler exceptions never abort the engine, §4.12).
func New(logger *log.Logger) *Bus {
	return &Bus{byType: map[types.EventKind][]entry{}, logger: logger}
}

// Subscribe registers handler for a specific event kind, optionally gated
// by pred (nil pred matches every event of that kind).
func (b *Bus) Subscribe(kind types.EventKind, pred Predicate, handler Handler) *Subscription {
	b.nextID++
	sub := &Subscription{id: b.nextID, kind: kind, pred: pred, handler: handler, bus: b}
	b.byType[kind] = append(b.byType[kind], entry{sub})
	return sub
}

// SubscribeAll registers a wildcard handler that runs after type-specific
// handlers for the same event (§4.12).
func (b *Bus) SubscribeAll(pred Predicate, handler Handler) *Subscription {
	b.nextID++
	sub := &Subscription{id: b.nextID, wildcard: true, pred: pred, handler: handler, bus: b}
	b.wildcards = append(b.wildcards, entry{sub})
	return sub
}

func (b *Bus) remove(id uint64) {
	for kind, entries := range b.byType {
		filtered := entries[:0]
		for _, e := range entries {
			if e.sub.id != id {
				filtered = append(filtered, e)
			}
		}
		b.byType[kind] = filtered
	}
	filtered := b.wildcards[:0]
	for _, e := range b.wildcards {
		if e.sub.id != id {
			filtered = append(filtered, e)
		}
	}
	b.wildcards = filtered
}

// Emit dispatches event to every matching subscriber, type-specific
// handlers first (insertion order), then wildcard handlers (insertion
// order). All matching handlers run to completion before Emit returns.
// A snapshot of current subscriber lists is taken up front so that an
// unsubscribe triggered by this dispatch cannot affect it.
func (b *Bus) Emit(event types.Event) {
	b.seq++
	if event.Timestamp == 0 {
		event.Timestamp = b.seq
	}

	typed := append([]entry(nil), b.byType[event.Kind]...)
	wild := append([]entry(nil), b.wildcards...)

	for _, e := range typed {
		b.dispatch(e.sub, event)
	}
	for _, e := range wild {
		b.dispatch(e.sub, event)
	}
}

func (b *Bus) dispatch(sub *Subscription, event types.Event) {
	defer func() {
		if r := recover(); r != nil && b.logger != nil {
			b.logger.Printf("eventbus: handler panic for %s: %v", event.Kind, r)
		}
	}()
	if sub.pred != nil && !sub.pred(event) {
		return
	}
	sub.handler(event)
}

// String renders a one-line human-readable summary, grounded on the
// teacher's FormatEvent helper.
func String(e types.Event) string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("T%-2d %-14s | %s: %s", e.Turn, e.Phase, e.Kind, e.Reason)
	case e.Card != "":
		return fmt.Sprintf("T%-2d %-14s | %s: %s", e.Turn, e.Phase, e.Kind, e.Card)
	default:
		return fmt.Sprintf("T%-2d %-14s | %s", e.Turn, e.Phase, e.Kind)
	}
}
