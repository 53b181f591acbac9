package chess_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/solst-ice/chessbot-arena/chess"
)

func TestApplyLeavesOriginalUntouched(t *testing.T) {
	is := is.New(t)
	pos, err := chess.ParseFEN(chess.StartFEN)
	is.NoErr(err)

	before := pos.FEN()
	m, err := pos.ParseMove("e2e4")
	is.NoErr(err)

	next, err := pos.Apply(m)
	is.NoErr(err)
	is.Equal(pos.FEN(), before)                  // original position unchanged
	is.Equal(next.SideToMove(), chess.Black)     // new position has moved on
	is.True(next.PieceAt(28).Type() == chess.Pawn) // e4
	is.Equal(next.HistoryLen(), pos.HistoryLen()+1)
}

func TestApplyRejectsIllegalMove(t *testing.T) {
	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	// e2e5 is not a chess move.
	bogus := chess.NewMove(12, 36, chess.MakePiece(chess.White, chess.Pawn), chess.NoPiece, chess.NoPiece, chess.FlagNone)
	if _, err := pos.Apply(bogus); !errors.Is(err, chess.ErrInvalidMove) {
		t.Fatalf("Apply(e2e5) error = %v, want ErrInvalidMove", err)
	}
	// A legal-looking move for the side not on turn.
	bogus = chess.NewMove(52, 36, chess.MakePiece(chess.Black, chess.Pawn), chess.NoPiece, chess.NoPiece, chess.FlagNone)
	if _, err := pos.Apply(bogus); !errors.Is(err, chess.ErrInvalidMove) {
		t.Fatalf("Apply(e7e5 for White) error = %v, want ErrInvalidMove", err)
	}
}

func TestApplyCoordsPromotionDefaultsToQueen(t *testing.T) {
	is := is.New(t)
	pos, err := chess.ParseFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	is.NoErr(err)

	next, err := pos.ApplyCoords(48, 56, chess.NoType) // a7a8
	is.NoErr(err)
	is.Equal(next.PieceAt(56).Type(), chess.Queen)

	next, err = pos.ApplyCoords(48, 56, chess.Rook)
	is.NoErr(err)
	is.Equal(next.PieceAt(56).Type(), chess.Rook)
}

func TestValidateCorruptPositions(t *testing.T) {
	cases := []string{
		"k7/8/8/8/8/8/8/8 w - - 0 1",        // no white king
		"kK5K/8/8/8/8/8/8/8 w - - 0 1",      // two white kings
		"k6P/8/8/8/8/8/8/K7 w - - 0 1",      // pawn on the back rank
		"k7/8/8/8/8/8/8/K6p w - - 0 1",      // pawn on the first rank
	}
	for _, fen := range cases {
		pos, err := chess.ParseFEN(fen)
		if err != nil {
			// Rejecting at parse time is fine too.
			continue
		}
		if err := pos.Validate(); !errors.Is(err, chess.ErrCorruptPosition) {
			t.Fatalf("Validate(%q) = %v, want ErrCorruptPosition", fen, err)
		}
		if _, err := pos.Apply(chess.NullMove); err == nil {
			t.Fatalf("Apply on corrupt position %q succeeded", fen)
		}
	}
}

func TestFindMoveAmbiguousPromotion(t *testing.T) {
	pos, err := chess.ParseFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	m, err := pos.FindMove(48, 56, chess.NoType)
	if err != nil {
		t.Fatalf("FindMove(a7, a8) failed: %v", err)
	}
	if m.PromotionPiece().Type() != chess.Queen {
		t.Fatalf("promotion defaulted to %v, want queen", m.PromotionPiece().Type())
	}
	if _, err := pos.FindMove(48, 55, chess.NoType); !errors.Is(err, chess.ErrNoSuchMove) {
		t.Fatalf("FindMove to an unreachable square should fail with ErrNoSuchMove")
	}
}
