package engine

import (
	"math/bits"

	"github.com/solst-ice/chessbot-arena/chess"
)

// see runs a static exchange evaluation of the capture m: the material
// balance after both sides swap off attackers on the target square in
// least-valuable-attacker order. Positive means the capture does not
// lose material.
func see(pos *chess.Position, m chess.Move) int32 {
	to := m.To()
	from := m.From()

	occ := pos.AllOccupancy()
	var gain [32]int32
	depth := 0

	target := m.CapturedPiece()
	gain[0] = exchangeValue[target.Type()]
	if m.Flags() == chess.FlagEnPassant {
		// The captured pawn is not on the target square.
		capSq := to - 8
		if m.MovedPiece().Color() == chess.Black {
			capSq = to + 8
		}
		occ &^= 1 << uint(capSq)
		gain[0] = exchangeValue[chess.Pawn]
	}

	attackerValue := exchangeValue[m.MovedPiece().Type()]
	occ &^= 1 << uint(from)
	side := m.MovedPiece().Color().Opposite()

	for {
		depth++
		gain[depth] = attackerValue - gain[depth-1]

		// Sliders behind the removed attacker may now reach the square,
		// so attackers are recomputed against the shrinking occupancy.
		attackers := pos.AttackersTo(to, occ) & occ
		sq, pt := leastValuableAttacker(pos, attackers, side)
		if sq == chess.NoSquare {
			break
		}
		attackerValue = exchangeValue[pt]
		occ &^= 1 << uint(sq)
		side = side.Opposite()

		if depth+1 >= len(gain) {
			break
		}
	}

	// Negamax the gain stack: each side may stand pat instead of
	// recapturing at a loss.
	for depth--; depth > 0; depth-- {
		if -gain[depth] < gain[depth-1] {
			gain[depth-1] = -gain[depth]
		}
	}
	return gain[0]
}

// leastValuableAttacker picks side's cheapest piece among attackers.
func leastValuableAttacker(pos *chess.Position, attackers uint64, side chess.Color) (chess.Square, chess.PieceType) {
	for pt := chess.Pawn; pt <= chess.King; pt++ {
		subset := attackers & pos.PieceBB(side, pt)
		if subset != 0 {
			return chess.Square(bits.TrailingZeros64(subset)), pt
		}
	}
	return chess.NoSquare, chess.NoType
}
