package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecu23/duel-server/internal/color"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestApplyLegalMove(t *testing.T) {
	e := New()

	res, err := e.Apply("e2", "e4", "")
	require.NoError(t, err)

	assert.Equal(t, "e2e4", res.UCI)
	assert.Equal(t, "e4", res.SAN)
	assert.Equal(t, color.Black, res.Turn)
	assert.Equal(t, res.FEN, e.FEN())
}

func TestApplyIllegalMoveLeavesPositionUnchanged(t *testing.T) {
	e := New()

	_, err := e.Apply("e2", "e4", "")
	require.NoError(t, err)

	before := e.FEN()

	// A pawn cannot jump from e7 to e4
	_, err = e.Apply("e7", "e4", "")
	require.Error(t, err)

	assert.Equal(t, before, e.FEN())
	assert.Equal(t, color.Black, e.Turn())
}

func TestTurnAlternates(t *testing.T) {
	e := New()

	assert.Equal(t, color.White, e.Turn())

	_, err := e.Apply("e2", "e4", "")
	require.NoError(t, err)
	assert.Equal(t, color.Black, e.Turn())

	_, err = e.Apply("e7", "e5", "")
	require.NoError(t, err)
	assert.Equal(t, color.White, e.Turn())
}

func TestDefaultPromotionIsQueen(t *testing.T) {
	e := New()
	require.NoError(t, e.Load("8/P6k/8/8/8/8/8/K7 w - - 0 1"))

	res, err := e.Apply("a7", "a8", "")
	require.NoError(t, err)

	assert.Equal(t, "a7a8q", res.UCI)
	assert.Contains(t, res.SAN, "=Q")
}

func TestExplicitUnderpromotion(t *testing.T) {
	e := New()
	require.NoError(t, e.Load("8/P6k/8/8/8/8/8/K7 w - - 0 1"))

	res, err := e.Apply("a7", "a8", "n")
	require.NoError(t, err)

	assert.Equal(t, "a7a8n", res.UCI)
}

func TestCheckmateStatus(t *testing.T) {
	e := New()

	// Fool's mate
	for _, mv := range [][2]string{
		{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"},
	} {
		_, err := e.Apply(mv[0], mv[1], "")
		require.NoError(t, err)
	}

	st := e.Status()
	assert.True(t, st.Checkmate)
	assert.True(t, st.Over())
	assert.Equal(t, color.White, st.Turn) // the mated side is to move
}

func TestStalemateStatus(t *testing.T) {
	e := New()
	require.NoError(t, e.Load("k7/8/8/8/8/8/2Q4K/8 w - - 0 1"))

	// Qc7 leaves the black king with no legal move and no check
	_, err := e.Apply("c2", "c7", "")
	require.NoError(t, err)

	st := e.Status()
	assert.True(t, st.Stalemate)
	assert.False(t, st.Checkmate)
	assert.True(t, st.Over())
}

func TestLoadRejectsInvalidFEN(t *testing.T) {
	e := New()

	err := e.Load("this is not a position")
	require.Error(t, err)

	// The engine keeps its previous position on a failed load
	assert.Equal(t, startFEN, e.FEN())
}

func TestReset(t *testing.T) {
	e := New()

	_, err := e.Apply("e2", "e4", "")
	require.NoError(t, err)

	e.Reset()

	assert.Equal(t, startFEN, e.FEN())
	assert.Equal(t, color.White, e.Turn())
	assert.False(t, e.Status().Over())
}
