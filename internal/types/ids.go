// Package types defines the closed set of enumerations, card/effect IR,
// and action/event variants shared by every other package in the engine.
// Nothing here mutates state; it only describes it.
package types

import "github.com/google/uuid"

// CardID is a stable identifier for a card instance, unique within a match.
type CardID string

// DonID is a stable identifier for a DON instance, unique within a match.
type DonID string

// DefID identifies a CardDefinition in the shared, immutable catalog.
type DefID string

// PlayerID identifies one of the two registered players.
type PlayerID string

// EffectID identifies an EffectDefinition within its owning CardDefinition.
type EffectID string

// IDAllocator hands out stable opaque ids for card and DON instances.
// It is per-match state, never global.
type IDAllocator struct {
	matchSeed string
	counter   uint64
}

// NewIDAllocator seeds an allocator. An empty seed derives a fresh
// random one so two allocators never collide across matches.
func NewIDAllocator(seed string) *IDAllocator {
	if seed == "" {
		seed = uuid.NewString()
	}
	return &IDAllocator{matchSeed: seed}
}

// NextCardID returns the next unique card instance id.
func (a *IDAllocator) NextCardID() CardID {
	a.counter++
	return CardID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(a.matchSeed)).String() + "-c" + itoa(a.counter))
}

// NextDonID returns the next unique DON instance id.
func (a *IDAllocator) NextDonID() DonID {
	a.counter++
	return DonID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(a.matchSeed)).String() + "-d" + itoa(a.counter))
}

// Seed returns the allocator's match seed, for persisting/restoring state.
func (a *IDAllocator) Seed() string { return a.matchSeed }

// Counter returns the number of ids handed out so far.
func (a *IDAllocator) Counter() uint64 { return a.counter }

// RestoreIDAllocator rebuilds an allocator at an exact prior point, so a
// deserialized match continues minting ids without ever repeating one.
func RestoreIDAllocator(seed string, counter uint64) *IDAllocator {
	return &IDAllocator{matchSeed: seed, counter: counter}
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
