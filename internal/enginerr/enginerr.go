// Package enginerr implements the closed error taxonomy and bounded
// error-history ring buffer from §6: every engine-level failure is wrapped
// in an EngineError carrying a types.ErrorCode, a context map, and the
// underlying cause, and each is appended to a fixed-capacity ring so a
// caller can inspect recent failures without the engine growing unbounded
// over a long-running match.
package enginerr

import (
	"fmt"

	"github.com/tcgx/optcg-engine/internal/types"
)

// EngineError wraps a failure with its closed-taxonomy code and a small
// context map (action kind, card id, player, etc. - whatever the caller
// that raised it found useful to attach).
type EngineError struct {
	Code    types.ErrorCode
	Message string
	Context map[string]string
	Cause   error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error { return e.Cause }

// New constructs an EngineError with an empty context map.
func New(code types.ErrorCode, message string) *EngineError {
	return &EngineError{Code: code, Message: message, Context: map[string]string{}}
}

// Wrap constructs an EngineError around an existing error.
func Wrap(code types.ErrorCode, message string, cause error) *EngineError {
	return &EngineError{Code: code, Message: message, Context: map[string]string{}, Cause: cause}
}

// With attaches a context key/value and returns e for chaining.
func (e *EngineError) With(key, value string) *EngineError {
	e.Context[key] = value
	return e
}

// History is a fixed-capacity ring buffer of the most recent EngineErrors,
// oldest dropped first once cap is exceeded.
type History struct {
	cap   int
	items []*EngineError
}

// NewHistory returns a History retaining at most cap entries (capacity <= 0
// disables retention: Record becomes a no-op).
func NewHistory(cap int) *History {
	return &History{cap: cap}
}

// Record appends err, evicting the oldest entry if the ring is full.
func (h *History) Record(err *EngineError) {
	if h.cap <= 0 {
		return
	}
	h.items = append(h.items, err)
	if len(h.items) > h.cap {
		h.items = h.items[len(h.items)-h.cap:]
	}
}

// Recent returns up to n of the most recently recorded errors, newest last.
// n <= 0 returns the full retained window.
func (h *History) Recent(n int) []*EngineError {
	if n <= 0 || n > len(h.items) {
		return append([]*EngineError(nil), h.items...)
	}
	return append([]*EngineError(nil), h.items[len(h.items)-n:]...)
}
