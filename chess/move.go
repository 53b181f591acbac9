package chess

import (
	"errors"
	"fmt"
)

// Move packs a move into 32 bits: from (6), to (6), moved piece (4),
// captured piece (4), promotion piece (4) and a 2-bit special flag.
type Move uint32

// NullMove is the zero Move; it never matches a generated move.
const NullMove Move = 0

const (
	moveFromShift    = 0
	moveToShift      = 6
	movePieceShift   = 12
	moveCaptureShift = 16
	movePromoteShift = 20
	moveFlagShift    = 24
)

// Special move flags. Promotions are indicated by a non-zero promotion piece.
const (
	FlagNone      = 0
	FlagCastle    = 1
	FlagEnPassant = 2
)

// NewMove builds a Move from its components.
func NewMove(from, to Square, moved, captured, promotion Piece, flag uint8) Move {
	return Move(uint32(from&0x3F) |
		uint32(to&0x3F)<<moveToShift |
		uint32(moved&0xF)<<movePieceShift |
		uint32(captured&0xF)<<moveCaptureShift |
		uint32(promotion&0xF)<<movePromoteShift |
		uint32(flag&0x3)<<moveFlagShift)
}

// From returns the source square.
func (m Move) From() Square { return Square(uint32(m) >> moveFromShift & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square(uint32(m) >> moveToShift & 0x3F) }

// MovedPiece returns the piece being moved.
func (m Move) MovedPiece() Piece { return Piece(uint32(m) >> movePieceShift & 0xF) }

// CapturedPiece returns the captured piece, or NoPiece.
func (m Move) CapturedPiece() Piece { return Piece(uint32(m) >> moveCaptureShift & 0xF) }

// PromotionPiece returns the promotion piece, or NoPiece.
func (m Move) PromotionPiece() Piece { return Piece(uint32(m) >> movePromoteShift & 0xF) }

// Flags returns the special flag bits.
func (m Move) Flags() uint8 { return uint8(uint32(m) >> moveFlagShift & 0x3) }

// IsCapture reports whether the move takes a piece (including en passant).
func (m Move) IsCapture() bool { return m.CapturedPiece() != NoPiece }

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.PromotionPiece() != NoPiece }

// String renders the move in coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if promo := m.PromotionPiece(); promo != NoPiece {
		s += string(promoLetter(promo.Type()))
	}
	return s
}

func promoLetter(pt PieceType) byte {
	switch pt {
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	}
	return '?'
}

func promoTypeFromLetter(ch byte) PieceType {
	switch ch {
	case 'n', 'N':
		return Knight
	case 'b', 'B':
		return Bishop
	case 'r', 'R':
		return Rook
	case 'q', 'Q':
		return Queen
	}
	return NoType
}

// ErrNoSuchMove reports that a coordinate pair does not correspond to any
// legal move in the position it was resolved against.
var ErrNoSuchMove = errors.New("chess: no legal move matches")

// FindMove resolves a from/to square pair (plus an optional promotion
// type) against the legal moves of the side to move. This is how
// externally supplied moves acquire their captured-piece and flag bits.
// A promotion move supplied without a promotion type resolves to the
// queen promotion.
func (p *Position) FindMove(from, to Square, promotion PieceType) (Move, error) {
	buf := make([]Move, 0, 64)
	fallback := NullMove
	for _, m := range p.LegalMovesInto(p.sideToMove, buf) {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.PromotionPiece().Type() == promotion {
			return m, nil
		}
		if promotion == NoType && m.PromotionPiece().Type() == Queen {
			fallback = m
		}
	}
	if fallback != NullMove {
		return fallback, nil
	}
	return NullMove, fmt.Errorf("%w: %s%s", ErrNoSuchMove, from, to)
}

// ParseMove parses coordinate notation ("e2e4", "e7e8q") and resolves it
// against the position's legal moves.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NullMove, fmt.Errorf("chess: malformed move %q", s)
	}
	from, err := parseSquare(s[0:2])
	if err != nil {
		return NullMove, err
	}
	to, err := parseSquare(s[2:4])
	if err != nil {
		return NullMove, err
	}
	promo := NoType
	if len(s) == 5 {
		promo = promoTypeFromLetter(s[4])
		if promo == NoType {
			return NullMove, fmt.Errorf("chess: bad promotion letter in %q", s)
		}
	}
	return p.FindMove(from, to, promo)
}

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("chess: bad square %q", s)
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}
