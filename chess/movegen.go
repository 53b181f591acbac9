package chess

import "math/bits"

// Generation filters for the core generator.
const (
	genAll = iota
	genCaptures
	genPseudo
)

// checkInfo describes the check and pin state of one side's king.
type checkInfo struct {
	inCheck     bool
	doubleCheck bool
	// If in single check, the squares a non-king move may land on
	// (capture the checker or block the line).
	checkMask uint64
	// For each square holding an absolutely pinned piece, the squares
	// it may still move to along the pin line. Zero means unpinned.
	pinLine [64]uint64
}

// analyzeKing computes the check and pin state of side's king under occ.
func (p *Position) analyzeKing(side Color, occ uint64) (ci checkInfo) {
	them := side.Opposite()
	ksq := p.KingSquare(side)
	if ksq == NoSquare {
		return ci
	}
	ks := int(ksq)

	var checkers uint64
	checkers |= pawnAttackTable[side][ks] & p.pieceBB[them][Pawn]
	checkers |= knightAttackTable[ks] & p.pieceBB[them][Knight]
	checkers |= BishopAttacks(ksq, occ) & (p.pieceBB[them][Bishop] | p.pieceBB[them][Queen])
	checkers |= RookAttacks(ksq, occ) & (p.pieceBB[them][Rook] | p.pieceBB[them][Queen])

	ci.inCheck = checkers != 0
	ci.doubleCheck = ci.inCheck && checkers&(checkers-1) != 0

	if ci.inCheck && !ci.doubleCheck {
		c := bits.TrailingZeros64(checkers)
		cbb := uint64(1) << uint(c)
		switch p.squares[c].Type() {
		case Rook:
			ci.checkMask = lineBetween(ks, c, rookRay[:])
		case Bishop:
			ci.checkMask = lineBetween(ks, c, bishopRay[:])
		case Queen:
			if m := lineBetween(ks, c, rookRay[:]); m != 0 {
				ci.checkMask = m
			} else {
				ci.checkMask = lineBetween(ks, c, bishopRay[:])
			}
		default: // knight or pawn: capture is the only non-king answer
			ci.checkMask = cbb
		}
		if ci.checkMask == 0 {
			ci.checkMask = cbb
		}
	}

	// Pins: along each ray from the king, a friendly piece whose next
	// blocker is an enemy slider of matching direction is pinned to the
	// segment between king and pinner (pinner included).
	p.collectPins(side, ks, occ, rookRay[:], Rook, &ci)
	p.collectPins(side, ks, occ, bishopRay[:], Bishop, &ci)
	return ci
}

// lineBetween returns the squares from ks toward c, up to and including
// c, if c lies on one of the given rays from ks. Zero otherwise.
func lineBetween(ks, c int, rays [][4]uint64) uint64 {
	cbb := uint64(1) << uint(c)
	for d := 0; d < 4; d++ {
		if rays[ks][d]&cbb != 0 {
			return rays[ks][d] &^ rays[c][d]
		}
	}
	return 0
}

func (p *Position) collectPins(side Color, ks int, occ uint64, rays [][4]uint64, slider PieceType, ci *checkInfo) {
	for d := 0; d < 4; d++ {
		blockers := rays[ks][d] & occ
		if blockers == 0 {
			continue
		}
		increasing := rayIncreasing(slider == Rook, d)
		first := firstBlocker(blockers, increasing)
		if uint64(1)<<uint(first)&p.occupancy[side] == 0 {
			continue
		}
		beyond := rays[first][d] & occ
		if beyond == 0 {
			continue
		}
		next := firstBlocker(beyond, increasing)
		pc := p.squares[next]
		if pc.Color() != side && (pc.Type() == slider || pc.Type() == Queen) && pc != NoPiece {
			ci.pinLine[first] = rays[ks][d] &^ rays[next][d]
		}
	}
}

// rayIncreasing reports whether square indices grow along the ray:
// rook N/E and bishop NE/NW go up, the rest go down.
func rayIncreasing(rook bool, d int) bool {
	if rook {
		return d == 0 || d == 2
	}
	return d == 0 || d == 1
}

// PinnedPieces returns the bitboard of side's pieces that are absolutely
// pinned against their own king.
func (p *Position) PinnedPieces(side Color) uint64 {
	ci := p.analyzeKing(side, p.AllOccupancy())
	var pinned uint64
	for sq := 0; sq < 64; sq++ {
		if ci.pinLine[sq] != 0 {
			pinned |= 1 << uint(sq)
		}
	}
	return pinned
}

// LegalMoves returns every legal move for the given side. En passant and
// castling are only generated when that side is actually to move, since
// those rights belong to the mover.
func (p *Position) LegalMoves(side Color) []Move {
	return p.LegalMovesInto(side, make([]Move, 0, 64))
}

// LegalMovesInto appends side's legal moves into dst (reset to length 0)
// and returns it. Reusing dst avoids allocation in hot paths.
func (p *Position) LegalMovesInto(side Color, dst []Move) []Move {
	return p.generateInto(dst, side, genAll)
}

// CapturesInto appends side's legal captures, including en passant and
// capturing promotions.
func (p *Position) CapturesInto(side Color, dst []Move) []Move {
	return p.generateInto(dst, side, genCaptures)
}

// PseudoLegalMoves returns side's moves by piece movement rules alone:
// pins, checks, and castling safety are not enforced, so a move may
// leave the mover's king attacked. Legal moves are always a subset.
func (p *Position) PseudoLegalMoves(side Color) []Move {
	return p.PseudoLegalMovesInto(side, make([]Move, 0, 64))
}

// PseudoLegalMovesInto appends side's pseudo-legal moves into dst (reset
// to length 0) and returns it.
func (p *Position) PseudoLegalMovesInto(side Color, dst []Move) []Move {
	return p.generateInto(dst, side, genPseudo)
}

// HasLegalMoves reports whether side has at least one legal move.
func (p *Position) HasLegalMoves(side Color) bool {
	buf := make([]Move, 0, 64)
	return len(p.generateInto(buf, side, genAll)) > 0
}

func (p *Position) generateInto(dst []Move, side Color, filter int) []Move {
	moves := dst[:0]
	them := side.Opposite()

	ownOcc := p.occupancy[side]
	oppOcc := p.occupancy[them]
	allOcc := ownOcc | oppOcc

	// Pseudo-legal generation skips king analysis entirely: a zero
	// checkInfo imposes no pin or check restrictions below.
	pseudo := filter == genPseudo
	var ci checkInfo
	if !pseudo {
		ci = p.analyzeKing(side, allOcc)
	}
	ksq := p.KingSquare(side)

	// allowed reports whether a non-king move may land on the square,
	// honoring the piece's pin line and a single check.
	allowed := func(toBB, pinMask uint64) bool {
		if ci.doubleCheck {
			return false
		}
		if pinMask != 0 && toBB&pinMask == 0 {
			return false
		}
		if ci.inCheck && toBB&ci.checkMask == 0 {
			return false
		}
		return true
	}

	// Pawn geometry for the generating side.
	forward := 8
	startRank, promoRank := 1, 7
	if side == Black {
		forward = -8
		startRank, promoRank = 6, 0
	}

	pawns := p.pieceBB[side][Pawn]
	for pawns != 0 {
		from := popLSB(&pawns)
		fromSq := Square(from)
		moved := p.squares[from]
		pinMask := ci.pinLine[from]

		// Pushes.
		if filter != genCaptures {
			one := from + forward
			if one >= 0 && one < 64 && allOcc&(1<<uint(one)) == 0 {
				oneBB := uint64(1) << uint(one)
				if allowed(oneBB, pinMask) {
					if one/8 == promoRank {
						moves = appendPromotions(moves, fromSq, Square(one), moved, NoPiece, side)
					} else {
						moves = append(moves, NewMove(fromSq, Square(one), moved, NoPiece, NoPiece, FlagNone))
					}
				}
				if from/8 == startRank {
					two := from + 2*forward
					if allOcc&(1<<uint(two)) == 0 && allowed(1<<uint(two), pinMask) {
						moves = append(moves, NewMove(fromSq, Square(two), moved, NoPiece, NoPiece, FlagNone))
					}
				}
			}
		}

		// Captures.
		caps := pawnAttackTable[side][from]
		capTargets := caps & oppOcc
		for capTargets != 0 {
			to := popLSB(&capTargets)
			toBB := uint64(1) << uint(to)
			if !allowed(toBB, pinMask) {
				continue
			}
			cap := p.squares[to]
			if to/8 == promoRank {
				moves = appendPromotions(moves, fromSq, Square(to), moved, cap, side)
			} else {
				moves = append(moves, NewMove(fromSq, Square(to), moved, cap, NoPiece, FlagNone))
			}
		}

		// En passant: simulate the occupancy after both pawns leave
		// their squares and verify the king is not exposed, which the
		// pin masks cannot cover because two pieces vacate one rank.
		if side == p.sideToMove && p.epSquare != NoSquare {
			ep := int(p.epSquare)
			if caps&(1<<uint(ep)) != 0 && !ci.doubleCheck {
				epBB := uint64(1) << uint(ep)
				if pinMask == 0 || epBB&pinMask != 0 {
					capSq := ep - forward
					occAfter := allOcc&^(1<<uint(from))&^(1<<uint(capSq)) | epBB
					if pseudo || (ksq != NoSquare && !p.squareAttacked(int(ksq), them, occAfter)) {
						moves = append(moves, NewMove(fromSq, Square(ep), moved, MakePiece(them, Pawn), NoPiece, FlagEnPassant))
					}
				}
			}
		}
	}

	// Knights, bishops, rooks and queens share the target-set loop.
	if !ci.doubleCheck {
		for pt := Knight; pt <= Queen; pt++ {
			pieces := p.pieceBB[side][pt]
			for pieces != 0 {
				from := popLSB(&pieces)
				fromSq := Square(from)
				moved := p.squares[from]

				var targets uint64
				switch pt {
				case Knight:
					targets = knightAttackTable[from]
				case Bishop:
					targets = BishopAttacks(fromSq, allOcc)
				case Rook:
					targets = RookAttacks(fromSq, allOcc)
				case Queen:
					targets = QueenAttacks(fromSq, allOcc)
				}
				targets &^= ownOcc
				if pin := ci.pinLine[from]; pin != 0 {
					targets &= pin
				}
				if ci.inCheck {
					targets &= ci.checkMask
				}
				if filter == genCaptures {
					targets &= oppOcc
				}

				for targets != 0 {
					to := popLSB(&targets)
					cap := NoPiece
					if oppOcc&(1<<uint(to)) != 0 {
						cap = p.squares[to]
					}
					moves = append(moves, NewMove(fromSq, Square(to), moved, cap, NoPiece, FlagNone))
				}
			}
		}
	}

	// King moves: test each destination under the occupancy with the
	// king lifted off its square, so stepping along a checking ray is
	// still seen as attacked.
	if ksq != NoSquare {
		from := int(ksq)
		moved := p.squares[from]
		targets := kingAttackTable[from] &^ ownOcc
		for targets != 0 {
			to := popLSB(&targets)
			isCap := oppOcc&(1<<uint(to)) != 0
			if filter == genCaptures && !isCap {
				continue
			}
			occAfter := allOcc&^(1<<uint(from)) | 1<<uint(to)
			if !pseudo && p.squareAttacked(to, them, occAfter) {
				continue
			}
			cap := NoPiece
			if isCap {
				cap = p.squares[to]
			}
			moves = append(moves, NewMove(ksq, Square(to), moved, cap, NoPiece, FlagNone))
		}

		if filter != genCaptures && side == p.sideToMove && !ci.inCheck {
			moves = p.appendCastles(moves, side, allOcc, pseudo)
		}
	}

	return moves
}

func appendPromotions(moves []Move, from, to Square, moved, cap Piece, side Color) []Move {
	return append(moves,
		NewMove(from, to, moved, cap, MakePiece(side, Queen), FlagNone),
		NewMove(from, to, moved, cap, MakePiece(side, Rook), FlagNone),
		NewMove(from, to, moved, cap, MakePiece(side, Bishop), FlagNone),
		NewMove(from, to, moved, cap, MakePiece(side, Knight), FlagNone),
	)
}

// castleSpec describes one castling option: the rights bit, king path
// squares that must be safe, squares that must be empty, and the rook's
// home square.
type castleSpec struct {
	right    CastlingRights
	from, to Square
	safe     [2]Square
	empty    []Square
	rookHome Square
	rook     Piece
}

var castleSpecs = [2][2]castleSpec{
	White: {
		{CastleWhiteKing, 4, 6, [2]Square{5, 6}, []Square{5, 6}, 7, WhiteRook},
		{CastleWhiteQueen, 4, 2, [2]Square{3, 2}, []Square{1, 2, 3}, 0, WhiteRook},
	},
	Black: {
		{CastleBlackKing, 60, 62, [2]Square{61, 62}, []Square{61, 62}, 63, BlackRook},
		{CastleBlackQueen, 60, 58, [2]Square{59, 58}, []Square{57, 58, 59}, 56, BlackRook},
	},
}

func (p *Position) appendCastles(moves []Move, side Color, occ uint64, pseudo bool) []Move {
	them := side.Opposite()
	for _, cs := range castleSpecs[side] {
		if p.castling&cs.right == 0 || p.squares[cs.rookHome] != cs.rook {
			continue
		}
		clear := true
		for _, sq := range cs.empty {
			if p.squares[sq] != NoPiece {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		if !pseudo && (p.squareAttacked(int(cs.safe[0]), them, occ) || p.squareAttacked(int(cs.safe[1]), them, occ)) {
			continue
		}
		king := MakePiece(side, King)
		moves = append(moves, NewMove(cs.from, cs.to, king, NoPiece, NoPiece, FlagCastle))
	}
	return moves
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Per-depth move buffers are reused to keep the walk allocation free.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][]Move, depth+1)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 256)
	}
	return perftRec(p, depth, bufs)
}

func perftRec(p *Position, depth int, bufs [][]Move) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	moves := p.LegalMovesInto(p.sideToMove, bufs[depth])
	bufs[depth] = moves
	for _, m := range moves {
		if ok, u := p.MakeMove(m); ok {
			nodes += perftRec(p, depth-1, bufs)
			p.UnmakeMove(m, u)
		}
	}
	return nodes
}

// PerftDivide maps each legal root move to its subtree leaf count.
func PerftDivide(p *Position, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range p.LegalMoves(p.sideToMove) {
		if ok, u := p.MakeMove(m); ok {
			result[m] = Perft(p, depth-1)
			p.UnmakeMove(m, u)
		}
	}
	return result
}
