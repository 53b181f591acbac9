package chess

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrInvalidMove reports a move that is not legal in the position it
	// was applied to.
	ErrInvalidMove = errors.New("chess: illegal move")

	// ErrCorruptPosition reports a position that violates structural
	// rules: each side must have exactly one king and the internal
	// bitboard, mailbox and hash state must agree.
	ErrCorruptPosition = errors.New("chess: corrupt position")
)

// Validate checks the position's structural integrity: exactly one king
// per side, no pawns on the first or last rank, and internal consistency
// between the mailbox, the bitboards and the incremental hash.
func (p *Position) Validate() error {
	for _, c := range [2]Color{White, Black} {
		if n := bits.OnesCount64(p.pieceBB[c][King]); n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrCorruptPosition, c, n)
		}
	}
	const backRanks = 0xFF000000000000FF
	if (p.pieceBB[White][Pawn]|p.pieceBB[Black][Pawn])&backRanks != 0 {
		return fmt.Errorf("%w: pawn on back rank", ErrCorruptPosition)
	}
	if !p.checkConsistency() {
		return fmt.Errorf("%w: bitboards out of sync", ErrCorruptPosition)
	}
	return nil
}

// Apply returns the position after playing m, leaving the receiver
// untouched. The move must be legal for the side to move; otherwise
// ErrInvalidMove is returned. A structurally broken position yields
// ErrCorruptPosition.
//
// This is the boundary for callers that want value semantics. Search
// uses MakeMove/UnmakeMove directly on a private clone instead.
func (p *Position) Apply(m Move) (*Position, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	legal := false
	buf := make([]Move, 0, 64)
	for _, lm := range p.LegalMovesInto(p.sideToMove, buf) {
		if lm == m {
			legal = true
			break
		}
	}
	if !legal {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}
	next := p.Clone()
	if ok, _ := next.MakeMove(m); !ok {
		// Unreachable for moves off the legal list; kept as a guard.
		return nil, fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}
	return next, nil
}

// ApplyCoords resolves a from/to/promotion triple against the legal
// moves and applies it. This is the entry point for externally supplied
// moves that lack the packed capture and flag bits.
func (p *Position) ApplyCoords(from, to Square, promotion PieceType) (*Position, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m, err := p.FindMove(from, to, promotion)
	if err != nil {
		return nil, fmt.Errorf("%w: %s%s", ErrInvalidMove, from, to)
	}
	next := p.Clone()
	next.MakeMove(m)
	return next, nil
}
