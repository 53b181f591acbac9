package engine

import "github.com/solst-ice/chessbot-arena/chess"

// Ordering score bands, strictly layered: hash move, then captures by
// MVV-LVA, then promotions, then killers and counter moves, then quiets
// by history with a small center nudge.
const (
	ttMoveScore   int32 = 1 << 24
	captureBase   int32 = 1 << 22
	promotionBase int32 = 1 << 21
	killerFirst   int32 = 1 << 20
	killerSecond  int32 = killerFirst - 1024
	counterScore  int32 = 1 << 19
)

// Piece values used by ordering and static exchange evaluation.
var exchangeValue = [7]int32{0, 100, 320, 330, 500, 900, 20000}

// mvvLVA prefers capturing the most valuable victim with the least
// valuable attacker.
func mvvLVA(m chess.Move) int32 {
	victim := exchangeValue[m.CapturedPiece().Type()]
	attacker := exchangeValue[m.MovedPiece().Type()]
	return 10*victim - attacker
}

const centerMask uint64 = 0x0000001818000000        // d4 e4 d5 e5
const extendedCenterMask uint64 = 0x00003C3C3C3C0000 // c3..f6 box

// movePicker yields moves best-first using lazy selection sort: only the
// moves actually searched before a cutoff pay for their ordering.
type movePicker struct {
	moves  []chess.Move
	scores []int32
	next   int
}

// scoreMoves fills the picker for one node.
func (e *Engine) scoreMoves(pk *movePicker, pos *chess.Position, moves []chess.Move, ttMove, prev chess.Move, ply int) {
	side := pos.SideToMove()
	killer0, killer1 := e.killers.probe(ply)
	counter := e.counters.get(side, prev)

	pk.moves = moves
	if cap(pk.scores) < len(moves) {
		pk.scores = make([]int32, len(moves))
	}
	pk.scores = pk.scores[:len(moves)]
	pk.next = 0

	for i, m := range moves {
		var score int32
		switch {
		case m == ttMove:
			score = ttMoveScore
		case m.IsCapture():
			score = captureBase + mvvLVA(m)
			if m.IsPromotion() {
				score += exchangeValue[m.PromotionPiece().Type()] / 8
			}
		case m.IsPromotion():
			score = promotionBase + exchangeValue[m.PromotionPiece().Type()]
		case m == killer0:
			score = killerFirst
		case m == killer1:
			score = killerSecond
		case m == counter:
			score = counterScore
		default:
			score = e.history.get(side, m)
			toBB := uint64(1) << uint(m.To())
			if toBB&centerMask != 0 {
				score += 16
			} else if toBB&extendedCenterMask != 0 {
				score += 8
			}
		}
		pk.scores[i] = score
	}
}

// scoreCaptures fills the picker for quiescence nodes: MVV-LVA only.
func (e *Engine) scoreCaptures(pk *movePicker, moves []chess.Move) {
	pk.moves = moves
	if cap(pk.scores) < len(moves) {
		pk.scores = make([]int32, len(moves))
	}
	pk.scores = pk.scores[:len(moves)]
	pk.next = 0
	for i, m := range moves {
		pk.scores[i] = mvvLVA(m)
	}
}

// pick returns the highest-scored remaining move, or NullMove when done.
func (pk *movePicker) pick() chess.Move {
	if pk.next >= len(pk.moves) {
		return chess.NullMove
	}
	best := pk.next
	for i := pk.next + 1; i < len(pk.moves); i++ {
		if pk.scores[i] > pk.scores[best] {
			best = i
		}
	}
	pk.moves[pk.next], pk.moves[best] = pk.moves[best], pk.moves[pk.next]
	pk.scores[pk.next], pk.scores[best] = pk.scores[best], pk.scores[pk.next]
	m := pk.moves[pk.next]
	pk.next++
	return m
}
