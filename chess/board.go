package chess

import "math/bits"

// Piece encodes a colored piece in 4 bits: the low 3 bits are the
// colorless type in [1..6], bit 3 set means Black. NoPiece is 0.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless piece kind used to index lookup tables.
type PieceType uint8

const (
	NoType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Type strips the color bit.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the owning side. NoPiece reports White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// MakePiece combines a side and a colorless type into a Piece.
func MakePiece(c Color, pt PieceType) Piece {
	if pt == NoType {
		return NoPiece
	}
	p := Piece(pt)
	if c == Black {
		p |= 8
	}
	return p
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Opposite returns the other side.
func (c Color) Opposite() Color { return c ^ 1 }

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// CastlingRights is a bitmask of the four castling permissions.
type CastlingRights uint8

const (
	CastleWhiteKing CastlingRights = 1 << iota
	CastleWhiteQueen
	CastleBlackKing
	CastleBlackQueen
)

// Square indexes the board 0..63 in little-endian rank-file order (a1=0, h8=63).
type Square int

const NoSquare Square = -1

// File returns the square's file in [0..7], a-file = 0.
func (s Square) File() int { return int(s) & 7 }

// Rank returns the square's rank in [0..7], rank 1 = 0.
func (s Square) Rank() int { return int(s) >> 3 }

func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// Bitboards is a per-side snapshot of the piece bitboards, handy for
// evaluation code that wants to iterate without repeated accessor calls.
type Bitboards struct {
	Pawns   uint64
	Knights uint64
	Bishops uint64
	Rooks   uint64
	Queens  uint64
	Kings   uint64
	All     uint64
}

// Position holds a full game state: piece placement as bitboards plus a
// square-indexed mailbox, the side to move, castling rights, en passant
// target, the two move clocks, the incremental Zobrist key, and the
// history of keys since the game (or parse) start for repetition checks.
type Position struct {
	// pieceBB[color][type] for type in [Pawn..King]; index 0 unused.
	pieceBB   [2][7]uint64
	occupancy [2]uint64
	squares   [64]Piece

	sideToMove Color
	castling   CastlingRights
	epSquare   Square

	halfmoveClock  int
	fullmoveNumber int

	key     uint64
	history []uint64
}

// NewPosition returns the standard initial position.
func NewPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic("chess: bad start FEN: " + err.Error())
	}
	return p
}

// Clone returns a deep copy. The copy owns its own history slice, so
// moves made on one position never affect the other.
func (p *Position) Clone() *Position {
	q := *p
	q.history = make([]uint64, len(p.history))
	copy(q.history, p.history)
	return &q
}

// SideToMove reports which side is to play.
func (p *Position) SideToMove() Color { return p.sideToMove }

// SetSideToMove flips the mover without making a move. The Zobrist key
// is kept in sync. Normal move making toggles the side automatically.
func (p *Position) SetSideToMove(c Color) {
	if p.sideToMove == c {
		return
	}
	p.sideToMove = c
	p.key ^= zobristSide
}

// CastlingRights returns the current castling permissions.
func (p *Position) CastlingRights() CastlingRights { return p.castling }

// EnPassantSquare returns the en passant target square or NoSquare.
func (p *Position) EnPassantSquare() Square { return p.epSquare }

// HalfmoveClock returns the half-moves since the last capture or pawn move.
func (p *Position) HalfmoveClock() int { return p.halfmoveClock }

// FullmoveNumber returns the full move counter (incremented after Black moves).
func (p *Position) FullmoveNumber() int { return p.fullmoveNumber }

// Hash returns the incremental Zobrist key of the position.
func (p *Position) Hash() uint64 { return p.key }

// HistoryLen returns the number of recorded position keys, including the
// current one.
func (p *Position) HistoryLen() int { return len(p.history) }

// PieceAt returns the piece standing on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece { return p.squares[sq] }

// AllOccupancy returns the bitboard of every occupied square.
func (p *Position) AllOccupancy() uint64 { return p.occupancy[White] | p.occupancy[Black] }

// ColorOccupancy returns the occupancy bitboard for one side.
func (p *Position) ColorOccupancy(c Color) uint64 { return p.occupancy[c] }

// PieceBB returns the bitboard of one piece type for one side.
func (p *Position) PieceBB(c Color, pt PieceType) uint64 { return p.pieceBB[c][pt] }

// Bitboards returns a copy of the per-piece bitboards for one side.
func (p *Position) Bitboards(c Color) Bitboards {
	return Bitboards{
		Pawns:   p.pieceBB[c][Pawn],
		Knights: p.pieceBB[c][Knight],
		Bishops: p.pieceBB[c][Bishop],
		Rooks:   p.pieceBB[c][Rook],
		Queens:  p.pieceBB[c][Queen],
		Kings:   p.pieceBB[c][King],
		All:     p.occupancy[c],
	}
}

// KingSquare returns the square of c's king, or NoSquare if absent.
func (p *Position) KingSquare(c Color) Square {
	kbb := p.pieceBB[c][King]
	if kbb == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(kbb))
}

// bb returns a bitboard with only sq set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the index of the lowest set bit.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// addPiece places a piece on an empty square, keeping bitboards,
// occupancy, the mailbox and the Zobrist key in sync.
func (p *Position) addPiece(sq Square, pc Piece) {
	if pc == NoPiece {
		return
	}
	c := pc.Color()
	p.squares[sq] = pc
	p.occupancy[c] |= bb(sq)
	p.pieceBB[c][pc.Type()] |= bb(sq)
	p.key ^= zobristPiece[pc][sq]
}

// removePiece clears a square and returns what stood there.
func (p *Position) removePiece(sq Square) Piece {
	pc := p.squares[sq]
	if pc == NoPiece {
		return NoPiece
	}
	c := pc.Color()
	mask := ^bb(sq)
	p.squares[sq] = NoPiece
	p.occupancy[c] &= mask
	p.pieceBB[c][pc.Type()] &= mask
	p.key ^= zobristPiece[pc][sq]
	return pc
}

// checkConsistency verifies the mailbox, bitboards, occupancy and the
// incremental Zobrist key all agree. Used by tests and by Validate.
func (p *Position) checkConsistency() bool {
	var occ [2]uint64
	var pieceBB [2][7]uint64
	for sq := Square(0); sq < 64; sq++ {
		pc := p.squares[sq]
		if pc == NoPiece {
			continue
		}
		c := pc.Color()
		occ[c] |= bb(sq)
		pieceBB[c][pc.Type()] |= bb(sq)
	}
	if occ != p.occupancy || pieceBB != p.pieceBB {
		return false
	}
	return p.key == p.ComputeZobrist()
}
