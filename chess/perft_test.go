package chess_test

import (
	"testing"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/solst-ice/chessbot-arena/chess"
)

func TestPerftInitialPosition(t *testing.T) {
	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN failed for initial position: %v", err)
	}
	want := []uint64{20, 400, 8902, 197281}
	for d, w := range want {
		if got := chess.Perft(pos, d+1); got != w {
			t.Fatalf("perft depth %d: got %d want %d", d+1, got, w)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN failed for Kiwipete: %v", err)
	}
	if got := chess.Perft(pos, 1); got != 48 {
		div := chess.PerftDivide(pos, 1)
		for m := range div {
			t.Logf("  %s", m)
		}
		t.Fatalf("perft depth 1: got %d want 48", got)
	}
	if got := chess.Perft(pos, 2); got != 2039 {
		t.Fatalf("perft depth 2: got %d want 2039", got)
	}
	if got := chess.Perft(pos, 3); got != 97862 {
		t.Fatalf("perft depth 3: got %d want 97862", got)
	}
}

// Positions 3-5 from the standard perft suite, covering en passant pins,
// promotion storms and castling interactions.
func TestPerftTrickyPositions(t *testing.T) {
	cases := []struct {
		fen   string
		depth int
		nodes uint64
	}{
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43238},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 3, 62379},
	}
	for _, tc := range cases {
		pos, err := chess.ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q) failed: %v", tc.fen, err)
		}
		if got := chess.Perft(pos, tc.depth); got != tc.nodes {
			t.Fatalf("perft(%q, %d): got %d want %d", tc.fen, tc.depth, got, tc.nodes)
		}
	}
}

// Crosscheck against an independent move generator on a handful of
// mid-game positions.
func TestPerftCrosscheck(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}
	for _, fen := range fens {
		pos, err := chess.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q) failed: %v", fen, err)
		}
		ref := dragon.ParseFen(fen)
		for d := 1; d <= 3; d++ {
			got := chess.Perft(pos, d)
			want := uint64(dragon.Perft(&ref, d))
			if got != want {
				t.Fatalf("%q depth %d: got %d, reference %d", fen, d, got, want)
			}
		}
	}
}
