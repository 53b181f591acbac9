package chess

// Undo carries the state a move destroys, so UnmakeMove can restore it
// without recomputation.
type Undo struct {
	move         Move
	captured     Piece
	prevCastling CastlingRights
	prevEP       Square
	prevHalfmove int
	prevFullmove int
	prevKey      uint64
	rookFrom     Square
	rookTo       Square
}

// NullUndo carries the state needed to take back a null move.
type NullUndo struct {
	prevEP       Square
	prevHalfmove int
	prevFullmove int
	prevKey      uint64
}

// castleRookTravel maps a castling king destination to the rook's move.
var castleRookTravel = map[Square][2]Square{
	6:  {7, 5},
	2:  {0, 3},
	62: {63, 61},
	58: {56, 59},
}

// MakeMove applies a pseudo-legal move for the side to move. If the move
// would leave the mover's king in check it is rolled back and ok is
// false. On success the resulting position key is pushed onto the
// repetition history.
func (p *Position) MakeMove(m Move) (ok bool, u Undo) {
	u.move = m
	u.captured = NoPiece
	u.prevCastling = p.castling
	u.prevEP = p.epSquare
	u.prevHalfmove = p.halfmoveClock
	u.prevFullmove = p.fullmoveNumber
	u.prevKey = p.key
	u.rookFrom, u.rookTo = NoSquare, NoSquare

	from := m.From()
	to := m.To()
	moved := m.MovedPiece()
	promo := m.PromotionPiece()
	flag := m.Flags()

	us := p.sideToMove
	them := us.Opposite()

	// Clear the stale en passant file from the key.
	if p.epSquare != NoSquare {
		p.key ^= zobristEnPassant[p.epSquare.File()]
	}
	p.epSquare = NoSquare

	// Remove whatever is captured.
	if flag == FlagEnPassant {
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		u.captured = p.removePiece(capSq)
	} else if m.CapturedPiece() != NoPiece {
		u.captured = p.removePiece(to)
	}

	// Relocate the mover, promoting if asked.
	p.removePiece(from)
	if promo != NoPiece {
		p.addPiece(to, promo)
	} else {
		p.addPiece(to, moved)
	}

	// Castling also moves the rook.
	if flag == FlagCastle {
		if travel, found := castleRookTravel[to]; found {
			u.rookFrom, u.rookTo = travel[0], travel[1]
			rook := p.removePiece(u.rookFrom)
			p.addPiece(u.rookTo, rook)
		}
	}

	// Castling rights decay when kings or rooks move, or when a rook is
	// captured on its home square.
	newCR := p.castling
	switch moved {
	case WhiteKing:
		newCR &^= CastleWhiteKing | CastleWhiteQueen
	case BlackKing:
		newCR &^= CastleBlackKing | CastleBlackQueen
	case WhiteRook:
		if from == 0 {
			newCR &^= CastleWhiteQueen
		} else if from == 7 {
			newCR &^= CastleWhiteKing
		}
	case BlackRook:
		if from == 56 {
			newCR &^= CastleBlackQueen
		} else if from == 63 {
			newCR &^= CastleBlackKing
		}
	}
	if u.captured.Type() == Rook {
		switch to {
		case 0:
			newCR &^= CastleWhiteQueen
		case 7:
			newCR &^= CastleWhiteKing
		case 56:
			newCR &^= CastleBlackQueen
		case 63:
			newCR &^= CastleBlackKing
		}
	}
	if newCR != p.castling {
		p.key ^= zobristCastle[p.castling]
		p.key ^= zobristCastle[newCR]
		p.castling = newCR
	}

	// A double pawn push opens an en passant target behind the pawn.
	if moved.Type() == Pawn && (to-from == 16 || from-to == 16) {
		ep := from + 8
		if us == Black {
			ep = from - 8
		}
		p.epSquare = ep
		p.key ^= zobristEnPassant[ep.File()]
	}

	p.sideToMove = them
	p.key ^= zobristSide

	// Legality: the mover's king must not be attacked. The generator
	// already enforces this through pin masks, so the expensive query is
	// gated to king moves, en passant, and pieces leaving a king ray.
	ksq := p.KingSquare(us)
	if ksq == NoSquare {
		p.UnmakeMove(m, u)
		return false, u
	}
	needCheck := moved.Type() == King || flag == FlagEnPassant ||
		rayUnion[ksq]&bb(from) != 0
	if needCheck && p.squareAttacked(int(ksq), them, p.AllOccupancy()) {
		p.UnmakeMove(m, u)
		return false, u
	}

	if moved.Type() == Pawn || u.captured != NoPiece {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}
	if us == Black {
		p.fullmoveNumber++
	}

	p.history = append(p.history, p.key)
	return true, u
}

// UnmakeMove restores the position to its state before MakeMove.
func (p *Position) UnmakeMove(m Move, u Undo) {
	// Pop the history entry if this move pushed one. The rejected-move
	// path inside MakeMove unwinds before the push, in which case the
	// top of the history is the pre-move key and must stay.
	if n := len(p.history); n > 0 && p.history[n-1] == p.key {
		p.history = p.history[:n-1]
	}

	p.sideToMove = p.sideToMove.Opposite()
	us := p.sideToMove

	from := m.From()
	to := m.To()
	moved := m.MovedPiece()
	flag := m.Flags()

	if flag == FlagCastle && u.rookFrom != NoSquare {
		rook := p.removePiece(u.rookTo)
		p.addPiece(u.rookFrom, rook)
	}

	// Put the mover back; a promotion reverts to the pawn.
	p.removePiece(to)
	p.addPiece(from, moved)

	if u.captured != NoPiece {
		capSq := to
		if flag == FlagEnPassant {
			capSq = to - 8
			if us == Black {
				capSq = to + 8
			}
		}
		p.addPiece(capSq, u.captured)
	}

	p.castling = u.prevCastling
	p.epSquare = u.prevEP
	p.halfmoveClock = u.prevHalfmove
	p.fullmoveNumber = u.prevFullmove
	// Exact key restoration; cheaper than replaying the XOR trail.
	p.key = u.prevKey
}

// MakeNullMove passes the turn without moving a piece. Used by null move
// pruning in search. The null position is not recorded in the repetition
// history.
func (p *Position) MakeNullMove() (u NullUndo) {
	u.prevEP = p.epSquare
	u.prevHalfmove = p.halfmoveClock
	u.prevFullmove = p.fullmoveNumber
	u.prevKey = p.key

	if p.epSquare != NoSquare {
		p.key ^= zobristEnPassant[p.epSquare.File()]
	}
	p.epSquare = NoSquare
	p.halfmoveClock++
	if p.sideToMove == Black {
		p.fullmoveNumber++
	}
	p.sideToMove = p.sideToMove.Opposite()
	p.key ^= zobristSide
	return u
}

// UnmakeNullMove restores the state prior to MakeNullMove.
func (p *Position) UnmakeNullMove(u NullUndo) {
	p.sideToMove = p.sideToMove.Opposite()
	p.epSquare = u.prevEP
	p.halfmoveClock = u.prevHalfmove
	p.fullmoveNumber = u.prevFullmove
	p.key = u.prevKey
}
