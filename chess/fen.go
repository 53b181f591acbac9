package chess

import (
	"errors"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieceChars = map[rune]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop,
	'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop,
	'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

func fenChar(p Piece) byte {
	const white = "?PNBRQK"
	const black = "?pnbrqk"
	if p.Color() == Black {
		return black[p.Type()]
	}
	return white[p.Type()]
}

// ParseFEN parses a FEN string into a Position. The halfmove clock and
// fullmove number fields are optional and default to 0 and 1.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errors.New("chess: FEN needs at least 4 fields")
	}

	p := &Position{epSquare: NoSquare, fullmoveNumber: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, errors.New("chess: FEN placement needs 8 ranks")
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc, ok := fenPieceChars[ch]
			if !ok {
				return nil, errors.New("chess: FEN has unknown piece character")
			}
			if file >= 8 {
				return nil, errors.New("chess: FEN rank overflows 8 files")
			}
			p.addPiece(Square(rank*8+file), pc)
			file++
		}
		if file != 8 {
			return nil, errors.New("chess: FEN rank does not fill 8 files")
		}
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return nil, errors.New("chess: FEN side must be 'w' or 'b'")
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				p.castling |= CastleWhiteKing
			case 'Q':
				p.castling |= CastleWhiteQueen
			case 'k':
				p.castling |= CastleBlackKing
			case 'q':
				p.castling |= CastleBlackQueen
			default:
				return nil, errors.New("chess: FEN has bad castling field")
			}
		}
	}

	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return nil, errors.New("chess: FEN has bad en passant square")
		}
		p.epSquare = sq
	}

	if len(fields) > 4 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil || hm < 0 {
			return nil, errors.New("chess: FEN halfmove clock is not a number")
		}
		p.halfmoveClock = hm
	}
	if len(fields) > 5 {
		fm, err := strconv.Atoi(fields[5])
		if err != nil || fm < 1 {
			return nil, errors.New("chess: FEN fullmove number is not a number")
		}
		p.fullmoveNumber = fm
	}

	p.key = p.ComputeZobrist()
	p.history = append(p.history[:0], p.key)
	return p, nil
}

// FEN renders the position as a FEN string.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.squares[rank*8+file]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(fenChar(pc))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		for _, f := range [4]struct {
			right CastlingRights
			ch    byte
		}{
			{CastleWhiteKing, 'K'}, {CastleWhiteQueen, 'Q'},
			{CastleBlackKing, 'k'}, {CastleBlackQueen, 'q'},
		} {
			if p.castling&f.right != 0 {
				sb.WriteByte(f.ch)
			}
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmoveNumber))
	return sb.String()
}
