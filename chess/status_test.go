package chess_test

import (
	"testing"

	"github.com/solst-ice/chessbot-arena/chess"
)

func TestCheckmateFoolsMate(t *testing.T) {
	// Black just played Qh4#; White to move and mated.
	pos, err := chess.ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if !pos.InCheck(chess.White) {
		t.Fatalf("expected White in check")
	}
	if pos.HasLegalMoves(chess.White) {
		t.Fatalf("expected no legal moves for White")
	}
	if !pos.IsCheckmate(chess.White) {
		t.Fatalf("expected checkmate")
	}
	if got := pos.GameStatus(); got != chess.Checkmate {
		t.Fatalf("GameStatus = %v, want Checkmate", got)
	}
}

func TestStalemate(t *testing.T) {
	pos, err := chess.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if pos.InCheck(chess.Black) {
		t.Fatalf("expected Black not in check")
	}
	if !pos.IsStalemate(chess.Black) {
		t.Fatalf("expected stalemate")
	}
	if got := pos.GameStatus(); got != chess.Stalemate {
		t.Fatalf("GameStatus = %v, want Stalemate", got)
	}
	if !chess.Stalemate.IsDraw() {
		t.Fatalf("stalemate should count as a draw")
	}
}

func TestFiftyMoveRule(t *testing.T) {
	pos, err := chess.ParseFEN("k7/8/8/8/8/8/8/K6R w - - 100 80")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if !pos.IsDrawByFiftyMove() {
		t.Fatalf("expected fifty-move draw at clock 100")
	}
	if got := pos.GameStatus(); got != chess.DrawFiftyMove {
		t.Fatalf("GameStatus = %v, want DrawFiftyMove", got)
	}

	pos, err = chess.ParseFEN("k7/8/8/8/8/8/8/K6R w - - 99 80")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if pos.IsDrawByFiftyMove() {
		t.Fatalf("clock 99 is not yet a fifty-move draw")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"k7/8/8/8/8/8/8/7K w - - 0 1", true},     // bare kings
		{"k7/8/8/8/8/8/8/6NK w - - 0 1", true},    // lone knight
		{"k7/8/8/8/8/8/8/6BK w - - 0 1", true},    // lone bishop
		{"kb6/8/8/8/8/8/8/6BK w - - 0 1", true},   // same-color bishops
		{"kb6/8/8/8/8/8/8/5B1K w - - 0 1", true},  // opposite-color bishops
		{"kn6/8/8/8/8/8/8/6NK w - - 0 1", true},   // knight each
		{"kb6/8/8/8/8/8/8/6NK w - - 0 1", true},   // bishop versus knight
		{"k7/8/8/8/8/8/8/5NNK w - - 0 1", false},  // two knights one side
		{"kn6/8/8/8/8/8/8/5NNK w - - 0 1", false}, // two versus one
		{"k7/8/8/8/8/8/8/6RK w - - 0 1", false},   // rook mates
		{"k7/p7/8/8/8/8/8/7K w - - 0 1", false},   // pawn promotes
	}
	for _, tc := range cases {
		pos, err := chess.ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q) failed: %v", tc.fen, err)
		}
		if got := pos.IsInsufficientMaterial(); got != tc.want {
			t.Fatalf("IsInsufficientMaterial(%q) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}

// Shuffle the knights back and forth until the starting position has
// occurred three times.
func TestThreefoldRepetition(t *testing.T) {
	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	seq := []string{
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8",
	}
	for i, ms := range seq {
		m, err := pos.ParseMove(ms)
		if err != nil {
			t.Fatalf("move %d (%s): %v", i, ms, err)
		}
		if i == len(seq)-1 {
			// One move before completion the position has only
			// occurred twice.
			if pos.IsDrawByRepetition() {
				t.Fatalf("repetition declared one move early")
			}
		}
		next, err := pos.Apply(m)
		if err != nil {
			t.Fatalf("apply %s: %v", ms, err)
		}
		pos = next
	}
	if got := pos.Repetitions(); got != 3 {
		t.Fatalf("Repetitions = %d, want 3", got)
	}
	if !pos.IsDrawByRepetition() {
		t.Fatalf("expected threefold repetition")
	}
	if got := pos.GameStatus(); got != chess.DrawRepetition {
		t.Fatalf("GameStatus = %v, want DrawRepetition", got)
	}
}
