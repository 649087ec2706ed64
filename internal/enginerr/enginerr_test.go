package enginerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/types"
)

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(types.ErrIllegalAction, "bad move", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "bad move")
}

func TestWithAttachesContext(t *testing.T) {
	err := New(types.ErrIllegalAction, "bad move").With("action", "Attack")
	require.Equal(t, "Attack", err.Context["action"])
}

func TestHistoryEvictsOldestBeyondCapacity(t *testing.T) {
	h := NewHistory(2)
	h.Record(New(types.ErrIllegalAction, "1"))
	h.Record(New(types.ErrIllegalAction, "2"))
	h.Record(New(types.ErrIllegalAction, "3"))

	recent := h.Recent(0)
	require.Len(t, recent, 2)
	require.Equal(t, "2", recent[0].Message)
	require.Equal(t, "3", recent[1].Message)
}

func TestHistoryZeroCapacityIsNoOp(t *testing.T) {
	h := NewHistory(0)
	h.Record(New(types.ErrIllegalAction, "1"))
	require.Empty(t, h.Recent(0))
}

func TestRecentNLimitsToMostRecent(t *testing.T) {
	h := NewHistory(5)
	for _, m := range []string{"1", "2", "3"} {
		h.Record(New(types.ErrIllegalAction, m))
	}
	recent := h.Recent(2)
	require.Equal(t, []string{"2", "3"}, []string{recent[0].Message, recent[1].Message})
}
