package chess_test

import (
	"testing"

	"github.com/solst-ice/chessbot-arena/chess"
)

func TestIsSquareAttackedOffBoard(t *testing.T) {
	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	for _, sq := range []chess.Square{chess.NoSquare, -5, 64, 200} {
		if pos.IsSquareAttacked(sq, chess.White) {
			t.Fatalf("off-board square %d reported attacked", sq)
		}
		if pos.IsSquareAttacked(sq, chess.Black) {
			t.Fatalf("off-board square %d reported attacked", sq)
		}
	}
}

func TestPseudoLegalSupersetOfLegal(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		pos, err := chess.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q) failed: %v", fen, err)
		}
		side := pos.SideToMove()
		pseudo := make(map[chess.Move]bool)
		for _, m := range pos.PseudoLegalMoves(side) {
			pseudo[m] = true
		}
		for _, m := range pos.LegalMoves(side) {
			if !pseudo[m] {
				t.Fatalf("%s: legal move %s missing from pseudo-legal set", fen, m)
			}
		}
	}
}

// A knight pinned by a rook has no legal moves, but movement rules alone
// still let it jump.
func TestPseudoLegalIgnoresPins(t *testing.T) {
	pos, err := chess.ParseFEN("4k3/8/8/8/4r3/8/4N3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	knightSq := chess.Square(12) // e2
	for _, m := range pos.LegalMoves(chess.White) {
		if m.From() == knightSq {
			t.Fatalf("pinned knight has legal move %s", m)
		}
	}
	found := 0
	for _, m := range pos.PseudoLegalMoves(chess.White) {
		if m.From() == knightSq {
			found++
		}
	}
	if found == 0 {
		t.Fatalf("pseudo-legal generation dropped the pinned knight's moves")
	}
}

func TestPseudoLegalInCheckmate(t *testing.T) {
	pos, err := chess.ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	if pos.HasLegalMoves(chess.White) {
		t.Fatalf("expected a mated side with no legal moves")
	}
	if len(pos.PseudoLegalMoves(chess.White)) == 0 {
		t.Fatalf("mated side should still have pseudo-legal moves")
	}
}
