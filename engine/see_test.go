package engine

import (
	"testing"

	"github.com/solst-ice/chessbot-arena/chess"
)

func seeOf(t *testing.T, fen, move string) int32 {
	t.Helper()
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q) failed: %v", fen, err)
	}
	m, err := pos.ParseMove(move)
	if err != nil {
		t.Fatalf("move %s not legal in %q: %v", move, fen, err)
	}
	return see(pos, m)
}

func TestSEEFreeCapture(t *testing.T) {
	// Rook takes an undefended pawn.
	if got := seeOf(t, "4k3/8/8/3p4/8/8/8/3RK3 w - - 0 1", "d1d5"); got != 100 {
		t.Fatalf("see = %d, want 100", got)
	}
}

func TestSEEDefendedPawn(t *testing.T) {
	// Rook takes a pawn defended by a pawn: loses rook for pawn.
	if got := seeOf(t, "4k3/4p3/3p4/8/8/8/8/3RK3 w - - 0 1", "d1d6"); got != 100-500 {
		t.Fatalf("see = %d, want %d", got, 100-500)
	}
}

func TestSEEEqualKnightTrade(t *testing.T) {
	// Knight takes knight, recaptured by pawn: material even.
	if got := seeOf(t, "4k3/3p4/4n3/8/3N4/8/8/4K3 w - - 0 1", "d4e6"); got != 0 {
		t.Fatalf("see = %d, want 0", got)
	}
}

func TestSEEQueenGrabsDefendedPawn(t *testing.T) {
	// The defender recaptures and the queen is gone for a pawn.
	if got := seeOf(t, "4k3/4p3/3p4/8/8/8/8/3QK3 w - - 0 1", "d1d6"); got != 100-900 {
		t.Fatalf("see = %d, want %d", got, 100-900)
	}
}

func TestSEEAccountsForRevealedSlider(t *testing.T) {
	// RxP looks safe against the lone d7 pawn, but capturing with the
	// front rook uncovers Black's rook behind it on d8, and the exchange
	// on d5 is rook-for-pawn after ...Rxd5.
	got := seeOf(t, "3rk3/8/8/3p4/8/8/8/3RK3 w - - 0 1", "d1d5")
	if got != 100-500 {
		t.Fatalf("see = %d, want %d", got, 100-500)
	}

	// With White's own rook doubled behind, the exchange turns: RxP,
	// RxR, RxR leaves White a pawn up.
	got = seeOf(t, "3rk3/8/8/3p4/8/8/3R4/3RK3 w - - 0 1", "d2d5")
	if got != 100 {
		t.Fatalf("see = %d, want 100", got)
	}
}

func TestSEEEnPassant(t *testing.T) {
	// En passant capture of an undefended pawn.
	if got := seeOf(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6"); got != 100 {
		t.Fatalf("see = %d, want 100", got)
	}
}
