package chess

import "math/bits"

// Status classifies a position's game state from the perspective of the
// side to move.
type Status uint8

const (
	InProgress Status = iota
	Checkmate
	Stalemate
	DrawRepetition
	DrawFiftyMove
	DrawInsufficient
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawRepetition:
		return "draw by repetition"
	case DrawFiftyMove:
		return "draw by fifty-move rule"
	case DrawInsufficient:
		return "draw by insufficient material"
	default:
		return "in progress"
	}
}

// IsDraw reports whether the status is any of the draw kinds (stalemate
// included).
func (s Status) IsDraw() bool { return s != InProgress && s != Checkmate }

// IsCheckmate reports whether side is in check with no legal moves.
func (p *Position) IsCheckmate(side Color) bool {
	return p.InCheck(side) && !p.HasLegalMoves(side)
}

// IsStalemate reports whether side has no legal moves but is not in check.
func (p *Position) IsStalemate(side Color) bool {
	return !p.InCheck(side) && !p.HasLegalMoves(side)
}

// Repetitions counts how many times the current position has occurred,
// including the present occurrence. Only positions since the last
// irreversible move can match, so the scan is bounded by the halfmove
// clock.
func (p *Position) Repetitions() int {
	n := len(p.history)
	if n == 0 {
		return 1
	}
	window := p.halfmoveClock + 1
	if window > n {
		window = n
	}
	count := 0
	for i := n - 1; i >= n-window; i-- {
		if p.history[i] == p.key {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

// IsDrawByRepetition reports a threefold repetition: the current
// position key has occurred at least three times in the game history.
func (p *Position) IsDrawByRepetition() bool { return p.Repetitions() >= 3 }

// IsDrawByFiftyMove reports fifty full moves (100 half-moves) without a
// capture or pawn move.
func (p *Position) IsDrawByFiftyMove() bool { return p.halfmoveClock >= 100 }

// IsInsufficientMaterial reports dead positions: only kings on the
// board, or each side holding at most a single minor piece. Helpmates
// with two lone minors (KB vs KN and friends) are treated as drawn.
func (p *Position) IsInsufficientMaterial() bool {
	if p.pieceBB[White][Pawn]|p.pieceBB[Black][Pawn] != 0 {
		return false
	}
	if p.pieceBB[White][Rook]|p.pieceBB[Black][Rook] != 0 {
		return false
	}
	if p.pieceBB[White][Queen]|p.pieceBB[Black][Queen] != 0 {
		return false
	}

	minors := func(c Color) int {
		return bits.OnesCount64(p.pieceBB[c][Knight] | p.pieceBB[c][Bishop])
	}
	return minors(White) <= 1 && minors(Black) <= 1
}

// GameStatus classifies the position for its side to move. Mate and
// stalemate take precedence over the counting draws.
func (p *Position) GameStatus() Status {
	side := p.sideToMove
	if !p.HasLegalMoves(side) {
		if p.InCheck(side) {
			return Checkmate
		}
		return Stalemate
	}
	switch {
	case p.IsDrawByRepetition():
		return DrawRepetition
	case p.IsDrawByFiftyMove():
		return DrawFiftyMove
	case p.IsInsufficientMaterial():
		return DrawInsufficient
	}
	return InProgress
}
