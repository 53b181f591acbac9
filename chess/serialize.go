package chess

import (
	"errors"
	"fmt"
)

// PieceJSON is one occupied square in a serialized board grid.
type PieceJSON struct {
	Kind  string `json:"kind"`
	Color string `json:"color"`
}

// Snapshot is a JSON-friendly rendering of a position: an 8x8 grid of
// pieces (row 0 is rank 8, column 0 is the a-file; empty squares are
// null), plus the game-state fields a client needs to resume play.
type Snapshot struct {
	Board          [8][8]*PieceJSON `json:"board"`
	Turn           string           `json:"turn"`
	Castling       string           `json:"castling"`
	EnPassant      string           `json:"enPassant"`
	HalfmoveClock  int              `json:"halfmoveClock"`
	FullmoveNumber int              `json:"fullmoveNumber"`
}

// CoordJSON is a grid coordinate in the serialized layout.
type CoordJSON struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveJSON is the externally supplied move literal: source, destination
// and an optional promotion kind ("queen", "rook", "bishop", "knight").
type MoveJSON struct {
	From      CoordJSON `json:"from"`
	To        CoordJSON `json:"to"`
	Promotion string    `json:"promotion,omitempty"`
}

var kindNames = [7]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func kindFromName(s string) PieceType {
	for pt, name := range kindNames {
		if pt > 0 && name == s {
			return PieceType(pt)
		}
	}
	return NoType
}

// squareFromCoord maps a grid coordinate (row 0 = rank 8) to a Square.
func squareFromCoord(c CoordJSON) (Square, error) {
	if c.Row < 0 || c.Row > 7 || c.Col < 0 || c.Col > 7 {
		return NoSquare, fmt.Errorf("chess: coordinate out of range: %+v", c)
	}
	return Square((7-c.Row)*8 + c.Col), nil
}

func coordFromSquare(sq Square) CoordJSON {
	return CoordJSON{Row: 7 - sq.Rank(), Col: sq.File()}
}

// ToSnapshot renders the position for serialization.
func (p *Position) ToSnapshot() Snapshot {
	var s Snapshot
	for sq := Square(0); sq < 64; sq++ {
		pc := p.squares[sq]
		if pc == NoPiece {
			continue
		}
		c := coordFromSquare(sq)
		s.Board[c.Row][c.Col] = &PieceJSON{
			Kind:  kindNames[pc.Type()],
			Color: pc.Color().String(),
		}
	}
	s.Turn = p.sideToMove.String()
	s.Castling = castlingString(p.castling)
	s.EnPassant = p.epSquare.String()
	s.HalfmoveClock = p.halfmoveClock
	s.FullmoveNumber = p.fullmoveNumber
	return s
}

func castlingString(cr CastlingRights) string {
	if cr == 0 {
		return "-"
	}
	var b []byte
	if cr&CastleWhiteKing != 0 {
		b = append(b, 'K')
	}
	if cr&CastleWhiteQueen != 0 {
		b = append(b, 'Q')
	}
	if cr&CastleBlackKing != 0 {
		b = append(b, 'k')
	}
	if cr&CastleBlackQueen != 0 {
		b = append(b, 'q')
	}
	return string(b)
}

// FromSnapshot reconstructs a Position from a serialized grid. The
// resulting position starts a fresh repetition history.
func FromSnapshot(s Snapshot) (*Position, error) {
	p := &Position{epSquare: NoSquare, fullmoveNumber: 1}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			cell := s.Board[row][col]
			if cell == nil {
				continue
			}
			pt := kindFromName(cell.Kind)
			if pt == NoType {
				return nil, fmt.Errorf("chess: unknown piece kind %q", cell.Kind)
			}
			var c Color
			switch cell.Color {
			case "white":
				c = White
			case "black":
				c = Black
			default:
				return nil, fmt.Errorf("chess: unknown piece color %q", cell.Color)
			}
			sq, err := squareFromCoord(CoordJSON{Row: row, Col: col})
			if err != nil {
				return nil, err
			}
			p.addPiece(sq, MakePiece(c, pt))
		}
	}

	switch s.Turn {
	case "white", "":
		p.sideToMove = White
	case "black":
		p.sideToMove = Black
	default:
		return nil, fmt.Errorf("chess: unknown turn %q", s.Turn)
	}

	if s.Castling != "" && s.Castling != "-" {
		for i := 0; i < len(s.Castling); i++ {
			switch s.Castling[i] {
			case 'K':
				p.castling |= CastleWhiteKing
			case 'Q':
				p.castling |= CastleWhiteQueen
			case 'k':
				p.castling |= CastleBlackKing
			case 'q':
				p.castling |= CastleBlackQueen
			default:
				return nil, errors.New("chess: bad castling string in snapshot")
			}
		}
	}

	if s.EnPassant != "" && s.EnPassant != "-" {
		sq, err := parseSquare(s.EnPassant)
		if err != nil {
			return nil, err
		}
		p.epSquare = sq
	}

	if s.HalfmoveClock > 0 {
		p.halfmoveClock = s.HalfmoveClock
	}
	if s.FullmoveNumber > 0 {
		p.fullmoveNumber = s.FullmoveNumber
	}

	p.key = p.ComputeZobrist()
	p.history = append(p.history[:0], p.key)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ResolveMoveJSON turns a move literal into a packed Move by matching it
// against the legal moves of the side to move.
func (p *Position) ResolveMoveJSON(mj MoveJSON) (Move, error) {
	from, err := squareFromCoord(mj.From)
	if err != nil {
		return NullMove, err
	}
	to, err := squareFromCoord(mj.To)
	if err != nil {
		return NullMove, err
	}
	promo := NoType
	if mj.Promotion != "" {
		promo = kindFromName(mj.Promotion)
		if promo == NoType {
			return NullMove, fmt.Errorf("chess: unknown promotion kind %q", mj.Promotion)
		}
	}
	return p.FindMove(from, to, promo)
}

// MoveToJSON renders a packed move as a move literal.
func MoveToJSON(m Move) MoveJSON {
	mj := MoveJSON{
		From: coordFromSquare(m.From()),
		To:   coordFromSquare(m.To()),
	}
	if promo := m.PromotionPiece(); promo != NoPiece {
		mj.Promotion = kindNames[promo.Type()]
	}
	return mj
}
