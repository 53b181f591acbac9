package chess

import "math/rand"

// Zobrist key tables. Keys are drawn from a fixed-seed generator so that
// hashes are stable across runs, which keeps tests and logged search
// output reproducible.
var (
	zobristPiece     [15][64]uint64
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

func init() {
	rnd := rand.New(rand.NewSource(0xC0DE))
	for pc := 0; pc < 15; pc++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[pc][sq] = rnd.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// ComputeZobrist hashes the position from scratch. Move making maintains
// the key incrementally; this full recomputation backs Validate and tests.
func (p *Position) ComputeZobrist() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.squares[sq]; pc != NoPiece {
			key ^= zobristPiece[pc][sq]
		}
	}
	if p.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[p.castling]
	if p.epSquare != NoSquare {
		key ^= zobristEnPassant[p.epSquare.File()]
	}
	return key
}
