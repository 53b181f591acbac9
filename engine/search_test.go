package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solst-ice/chessbot-arena/chess"
)

func selectIn(t *testing.T, e *Engine, fen string, budget time.Duration) (chess.Move, *chess.Position) {
	t.Helper()
	pos := mustPos(t, fen)
	m, err := e.SelectMove(pos, pos.SideToMove(), budget)
	require.NoError(t, err)
	return m, pos
}

func TestSelectMoveFindsMateInOne(t *testing.T) {
	e := NewEngine(Options{TTSizeMB: 8})
	cases := []struct {
		fen  string
		mate string
	}{
		// Back-rank mate.
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8"},
		// Qxg7# protected by the c3 bishop.
		{"7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1", "g6g7"},
		// Smothered corner: Nf7#.
		{"6rk/6pp/8/6N1/8/8/8/6K1 w - - 0 1", "g5f7"},
	}
	for _, tc := range cases {
		e.NewGame()
		m, pos := selectIn(t, e, tc.fen, 300*time.Millisecond)
		require.Equal(t, tc.mate, m.String(), "in %q", tc.fen)

		next, err := pos.Apply(m)
		require.NoError(t, err)
		require.Equal(t, chess.Checkmate, next.GameStatus())
	}
}

func TestSelectMoveFindsMateInTwo(t *testing.T) {
	e := NewEngine(Options{TTSizeMB: 8})
	// Two rooks ladder the king: any reply to Rb7+ allows mate next move.
	pos := mustPos(t, "7k/8/8/8/8/8/R7/1R4K1 w - - 0 1")
	m, err := e.SelectMove(pos, chess.White, 2*time.Second)
	require.NoError(t, err)

	// Play it out: whatever Black does, White mates within two moves.
	cur, err := pos.Apply(m)
	require.NoError(t, err)
	for i := 0; i < 3 && cur.GameStatus() == chess.InProgress; i++ {
		side := cur.SideToMove()
		reply, err := e.SelectMove(cur, side, 200*time.Millisecond)
		require.NoError(t, err)
		cur, err = cur.Apply(reply)
		require.NoError(t, err)
	}
	require.Equal(t, chess.Checkmate, cur.GameStatus())
}

func TestSelectMoveTinyBudgetStillLegal(t *testing.T) {
	e := NewEngine(Options{TTSizeMB: 1})
	pos := mustPos(t, chess.StartFEN)
	m, err := e.SelectMove(pos, chess.White, time.Millisecond)
	require.NoError(t, err)
	require.NotEqual(t, chess.NullMove, m)
	_, err = pos.Apply(m)
	require.NoError(t, err, "move under a 1ms budget must still be legal")
}

func TestSelectMoveNoLegalMoves(t *testing.T) {
	e := NewEngine(Options{TTSizeMB: 1})

	// Stalemate: no move, no error.
	pos := mustPos(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	m, err := e.SelectMove(pos, chess.Black, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, chess.NullMove, m)

	// Checkmate: same contract.
	pos = mustPos(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	m, err = e.SelectMove(pos, chess.White, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, chess.NullMove, m)
}

func TestSelectMoveSingleReplyImmediate(t *testing.T) {
	e := NewEngine(Options{TTSizeMB: 1})
	// Black king in the corner has exactly one legal move.
	pos := mustPos(t, "k7/7R/2R5/8/8/8/8/4K3 b - - 0 1")
	legal := pos.LegalMoves(chess.Black)
	require.Len(t, legal, 1)

	start := time.Now()
	m, err := e.SelectMove(pos, chess.Black, 10*time.Second)
	require.NoError(t, err)
	require.Equal(t, legal[0], m)
	require.Less(t, time.Since(start), time.Second, "forced move should not consume the budget")
}

func TestSelectMoveRejectsCorruptPosition(t *testing.T) {
	e := NewEngine(Options{TTSizeMB: 1})
	pos, err := chess.ParseFEN("k7/8/8/8/8/8/8/8 w - - 0 1")
	require.NoError(t, err)
	_, err = e.SelectMove(pos, chess.White, 100*time.Millisecond)
	require.ErrorIs(t, err, chess.ErrCorruptPosition)
}

func TestSelectMoveDoesNotMutateInput(t *testing.T) {
	e := NewEngine(Options{TTSizeMB: 1})
	pos := mustPos(t, chess.StartFEN)
	before := pos.FEN()
	_, err := e.SelectMove(pos, chess.White, 50*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, before, pos.FEN())
	require.Equal(t, pos.Hash(), pos.ComputeZobrist())
}

func TestEnginesAreIndependent(t *testing.T) {
	a := NewEngine(Options{TTSizeMB: 1, MaxDepth: 3})
	b := NewEngine(Options{TTSizeMB: 1, MaxDepth: 3})

	posA := mustPos(t, chess.StartFEN)
	posB := mustPos(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	mb, err := b.SelectMove(posB, chess.White, 200*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "a1a8", mb.String())

	// Engine A searching a different position is unaffected by B's tables.
	ma, err := a.SelectMove(posA, chess.White, 200*time.Millisecond)
	require.NoError(t, err)
	_, err = posA.Apply(ma)
	require.NoError(t, err)
}

func TestSelectMoveGrabsHangingQueen(t *testing.T) {
	e := NewEngine(Options{TTSizeMB: 8})
	// A queen en prise to a pawn; any sensible search takes it.
	pos := mustPos(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	m, err := e.SelectMove(pos, chess.White, 500*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "e4d5", m.String())
}

func TestSelectMoveForSideNotOnTurn(t *testing.T) {
	e := NewEngine(Options{TTSizeMB: 1})
	// The FEN says White to move, but the caller asks for Black's move;
	// the engine must answer for Black and the answer must be legal for
	// Black.
	pos := mustPos(t, chess.StartFEN)
	m, err := e.SelectMove(pos, chess.Black, 100*time.Millisecond)
	require.NoError(t, err)

	flipped := pos.Clone()
	flipped.SetSideToMove(chess.Black)
	_, err = flipped.Apply(m)
	require.NoError(t, err)
}

func TestLMRTableMonotone(t *testing.T) {
	var lmr lmrTable
	lmr.init()
	if lmr.get(2, 2) > lmr.get(20, 2) {
		t.Fatalf("reduction should not shrink with depth")
	}
	if lmr.get(10, 4) > lmr.get(10, 40) {
		t.Fatalf("reduction should not shrink with move number")
	}
	if lmr.get(MaxPly+10, 100) < 0 {
		t.Fatalf("out-of-range lookup must clamp")
	}
}
