package chess

import "math/bits"

// Precomputed attack tables, filled once at package init.
var (
	knightAttackTable [64]uint64
	kingAttackTable   [64]uint64
	// pawnAttackTable[color][sq] is the set of squares a pawn of that
	// color attacks from sq.
	pawnAttackTable [2][64]uint64

	// Directional rays excluding the origin square.
	// Rook directions: 0=N, 1=S, 2=E, 3=W.
	// Bishop directions: 0=NE, 1=NW, 2=SE, 3=SW.
	rookRay   [64][4]uint64
	bishopRay [64][4]uint64

	// Union of all eight rays from each square, used to gate the
	// discovered-check test in move making.
	rayUnion [64]uint64

	// Blocker masks and dense attack tables for the software-pext
	// slider lookup.
	rookBlockerMask   [64]uint64
	bishopBlockerMask [64]uint64
	rookAttackTable   [64][]uint64
	bishopAttackTable [64][]uint64
)

func init() {
	initLeaperTables()
	initRayTables()
	initSliderTables()
}

func initLeaperTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		rank, file := sq/8, sq%8
		for _, off := range knightOffsets {
			if r, f := rank+off[0], file+off[1]; r >= 0 && r < 8 && f >= 0 && f < 8 {
				knightAttackTable[sq] |= 1 << uint(r*8+f)
			}
		}
		for _, off := range kingOffsets {
			if r, f := rank+off[0], file+off[1]; r >= 0 && r < 8 && f >= 0 && f < 8 {
				kingAttackTable[sq] |= 1 << uint(r*8+f)
			}
		}
		if rank < 7 {
			if file > 0 {
				pawnAttackTable[White][sq] |= 1 << uint((rank+1)*8+file-1)
			}
			if file < 7 {
				pawnAttackTable[White][sq] |= 1 << uint((rank+1)*8+file+1)
			}
		}
		if rank > 0 {
			if file > 0 {
				pawnAttackTable[Black][sq] |= 1 << uint((rank-1)*8+file-1)
			}
			if file < 7 {
				pawnAttackTable[Black][sq] |= 1 << uint((rank-1)*8+file+1)
			}
		}
	}
}

func initRayTables() {
	// dr, df per direction; rook then bishop ordering matches the
	// direction comments above.
	rookDirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs := [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for sq := 0; sq < 64; sq++ {
		rank, file := sq/8, sq%8
		for d, dir := range rookDirs {
			var ray uint64
			for r, f := rank+dir[0], file+dir[1]; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+dir[0], f+dir[1] {
				ray |= 1 << uint(r*8+f)
			}
			rookRay[sq][d] = ray
		}
		for d, dir := range bishopDirs {
			var ray uint64
			for r, f := rank+dir[0], file+dir[1]; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+dir[0], f+dir[1] {
				ray |= 1 << uint(r*8+f)
			}
			bishopRay[sq][d] = ray
		}
		rayUnion[sq] = rookRay[sq][0] | rookRay[sq][1] | rookRay[sq][2] | rookRay[sq][3] |
			bishopRay[sq][0] | bishopRay[sq][1] | bishopRay[sq][2] | bishopRay[sq][3]
	}
}

func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		// The blocker mask drops the outermost square of each ray: a
		// piece on the edge can never shorten the attack set.
		rm := trimEdges(rookRay[sq][0], 0) | trimEdges(rookRay[sq][1], 1) |
			trimEdges(rookRay[sq][2], 2) | trimEdges(rookRay[sq][3], 3)
		bm := bishopInner(bishopRay[sq][0]) | bishopInner(bishopRay[sq][1]) |
			bishopInner(bishopRay[sq][2]) | bishopInner(bishopRay[sq][3])
		rookBlockerMask[sq] = rm
		bishopBlockerMask[sq] = bm

		rookAttackTable[sq] = make([]uint64, 1<<uint(bits.OnesCount64(rm)))
		bishopAttackTable[sq] = make([]uint64, 1<<uint(bits.OnesCount64(bm)))
		for idx := range rookAttackTable[sq] {
			occ := pdep(uint64(idx), rm)
			rookAttackTable[sq][idx] = rookAttacksSlow(sq, occ)
		}
		for idx := range bishopAttackTable[sq] {
			occ := pdep(uint64(idx), bm)
			bishopAttackTable[sq][idx] = bishopAttacksSlow(sq, occ)
		}
	}
}

// trimEdges removes the terminal square of a rook ray in direction d.
func trimEdges(ray uint64, d int) uint64 {
	if ray == 0 {
		return 0
	}
	switch d {
	case 0, 2: // increasing index directions: drop the highest bit
		return ray &^ (1 << uint(63-bits.LeadingZeros64(ray)))
	default: // decreasing: drop the lowest bit
		return ray &^ (ray & -ray)
	}
}

// bishopInner keeps only non-edge squares of a diagonal ray.
func bishopInner(ray uint64) uint64 {
	const edges = 0xFF818181818181FF // rank 1, rank 8, a-file, h-file
	return ray &^ edges
}

// pext packs the bits of x selected by mask into the low bits of the result.
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		if x&(m&-m) != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// pdep scatters the low bits of x into the positions selected by mask.
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		if x&(1<<idx) != 0 {
			res |= m & -m
		}
		idx++
	}
	return res
}

// rookAttacksSlow walks the four rook rays, truncating each at its first
// blocker. Only used to seed the dense tables.
func rookAttacksSlow(sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := rookRay[sq][d]
		if blockers := ray & occ; blockers != 0 {
			first := firstBlocker(blockers, d == 0 || d == 2)
			ray &^= rookRay[first][d]
		}
		attacks |= ray
	}
	return attacks
}

func bishopAttacksSlow(sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := bishopRay[sq][d]
		if blockers := ray & occ; blockers != 0 {
			first := firstBlocker(blockers, d == 0 || d == 1)
			ray &^= bishopRay[first][d]
		}
		attacks |= ray
	}
	return attacks
}

// firstBlocker picks the blocker nearest the origin: lowest bit on
// increasing-index rays, highest bit otherwise.
func firstBlocker(blockers uint64, increasing bool) int {
	if increasing {
		return bits.TrailingZeros64(blockers)
	}
	return 63 - bits.LeadingZeros64(blockers)
}

// RookAttacks returns the rook attack set from sq under the given occupancy.
func RookAttacks(sq Square, occ uint64) uint64 {
	return rookAttackTable[sq][pext(occ, rookBlockerMask[sq])]
}

// BishopAttacks returns the bishop attack set from sq under the given occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return bishopAttackTable[sq][pext(occ, bishopBlockerMask[sq])]
}

// QueenAttacks returns the queen attack set from sq under the given occupancy.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) uint64 { return knightAttackTable[sq] }

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) uint64 { return kingAttackTable[sq] }

// PawnAttacks returns the squares a pawn of color c attacks from sq.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttackTable[c][sq] }

// IsSquareAttacked reports whether sq is attacked by any piece of color by.
// Off-board squares are attacked by nothing.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	if sq < 0 || sq > 63 {
		return false
	}
	return p.squareAttacked(int(sq), by, p.AllOccupancy())
}

// squareAttacked is the occupancy-parameterized core, used by move
// making and generation to test hypothetical occupancies. Every attacker
// set is masked by occ, so a piece removed from the hypothetical board
// (the pawn taken en passant, say) no longer attacks anything.
func (p *Position) squareAttacked(s int, by Color, occ uint64) bool {
	// Reverse pawn lookup: our table from s, from the defender's side.
	if pawnAttackTable[by.Opposite()][s]&p.pieceBB[by][Pawn]&occ != 0 {
		return true
	}
	if knightAttackTable[s]&p.pieceBB[by][Knight]&occ != 0 {
		return true
	}
	if kingAttackTable[s]&p.pieceBB[by][King]&occ != 0 {
		return true
	}
	rq := (p.pieceBB[by][Rook] | p.pieceBB[by][Queen]) & occ
	if rq != 0 && RookAttacks(Square(s), occ)&rq != 0 {
		return true
	}
	bq := (p.pieceBB[by][Bishop] | p.pieceBB[by][Queen]) & occ
	if bq != 0 && BishopAttacks(Square(s), occ)&bq != 0 {
		return true
	}
	return false
}

// AttackersTo returns every piece of both colors that attacks sq under
// the given occupancy. Used by static exchange evaluation.
func (p *Position) AttackersTo(sq Square, occ uint64) uint64 {
	var atk uint64
	atk |= pawnAttackTable[Black][sq] & p.pieceBB[White][Pawn]
	atk |= pawnAttackTable[White][sq] & p.pieceBB[Black][Pawn]
	atk |= knightAttackTable[sq] & (p.pieceBB[White][Knight] | p.pieceBB[Black][Knight])
	atk |= kingAttackTable[sq] & (p.pieceBB[White][King] | p.pieceBB[Black][King])
	rq := p.pieceBB[White][Rook] | p.pieceBB[White][Queen] | p.pieceBB[Black][Rook] | p.pieceBB[Black][Queen]
	atk |= RookAttacks(sq, occ) & rq
	bq := p.pieceBB[White][Bishop] | p.pieceBB[White][Queen] | p.pieceBB[Black][Bishop] | p.pieceBB[Black][Queen]
	atk |= BishopAttacks(sq, occ) & bq
	return atk
}

// InCheck reports whether c's king is attacked.
func (p *Position) InCheck(c Color) bool {
	ksq := p.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, c.Opposite())
}
