package engine

import (
	"math/bits"

	"github.com/solst-ice/chessbot-arena/chess"
)

// Material values per game phase.
var (
	pieceValueMG = [7]int32{0, 82, 337, 365, 477, 1025, 0}
	pieceValueEG = [7]int32{0, 94, 281, 297, 512, 936, 0}
)

// Game phase weights; the evaluation tapers between middlegame and
// endgame tables as material comes off.
var phaseWeight = [7]int{0, 0, 1, 1, 2, 4, 0}

const totalPhase = 24

// Term weights, middlegame and endgame.
const (
	bishopPairMG, bishopPairEG         = 30, 50
	doubledPawnMG, doubledPawnEG       = -10, -20
	isolatedPawnMG, isolatedPawnEG     = -12, -8
	backwardPawnMG, backwardPawnEG     = -9, -6
	rookOpenFileMG, rookOpenFileEG     = 25, 10
	rookSemiOpenMG, rookSemiOpenEG     = 12, 6
	rookSeventhMG, rookSeventhEG       = 20, 30
	knightForkBonus                    = 18
	pinnedPieceMG, pinnedPieceEG       = 12, 6
	skewerBonusMG, skewerBonusEG       = 14, 10
	tempoBonus                         = 10
	missingShieldPawnMG                = -12
	openFileNearKingMG                 = -18
	semiOpenFileNearKingMG             = -9
)

// Passed pawn bonus by rank of advancement (rank from the owner's view).
var (
	passedPawnMG = [8]int32{0, 8, 12, 20, 35, 60, 100, 0}
	passedPawnEG = [8]int32{0, 14, 20, 32, 56, 95, 150, 0}
)

// Mobility weight per attacked square beyond a per-piece baseline.
var (
	mobilityWeightMG = [7]int32{0, 0, 4, 3, 2, 1, 0}
	mobilityWeightEG = [7]int32{0, 0, 4, 4, 4, 2, 0}
	mobilityBaseline = [7]int32{0, 0, 4, 6, 7, 13, 0}
)

// kingAttackPenalty maps accumulated attack units on the enemy king zone
// to a middlegame penalty for the defender.
var kingAttackPenalty = [32]int32{
	0, 0, 2, 4, 8, 12, 18, 25, 33, 42, 52, 63, 75, 88, 102, 117,
	133, 150, 168, 187, 207, 228, 250, 273, 297, 322, 348, 375, 403, 432, 462, 493,
}

var attackUnits = [7]int32{0, 0, 2, 2, 3, 5, 0}

// Evaluate scores the position from the given perspective, in
// centipawns. Terminal states take precedence over the heuristic terms:
// a mated side to move scores -MateScore (from its own perspective) and
// every drawn position scores zero.
func Evaluate(pos *chess.Position, perspective chess.Color) int32 {
	stm := pos.SideToMove()
	if !pos.HasLegalMoves(stm) {
		if pos.InCheck(stm) {
			if stm == perspective {
				return -MateScore
			}
			return MateScore
		}
		return 0
	}
	if pos.IsDrawByRepetition() || pos.IsDrawByFiftyMove() || pos.IsInsufficientMaterial() {
		return 0
	}
	score := evaluatePosition(pos)
	if perspective == chess.Black {
		return -score
	}
	return score
}

// staticEval is the search-internal heuristic: no terminal detection
// (the search handles terminals through the move loop), side-to-move
// relative for negamax.
func staticEval(pos *chess.Position) int32 {
	score := evaluatePosition(pos)
	if pos.SideToMove() == chess.Black {
		return -score
	}
	return score
}

// evaluatePosition returns a White-positive tapered score.
func evaluatePosition(pos *chess.Position) int32 {
	var mg, eg int32
	phase := 0

	occ := pos.AllOccupancy()
	for _, side := range [2]chess.Color{chess.White, chess.Black} {
		sideMG, sideEG, sidePhase := evaluateSide(pos, side, occ)
		if side == chess.White {
			mg += sideMG
			eg += sideEG
		} else {
			mg -= sideMG
			eg -= sideEG
		}
		phase += sidePhase
	}

	if pos.SideToMove() == chess.White {
		mg += tempoBonus
	} else {
		mg -= tempoBonus
	}

	if phase > totalPhase {
		phase = totalPhase
	}
	return (mg*int32(phase) + eg*int32(totalPhase-phase)) / totalPhase
}

func evaluateSide(pos *chess.Position, side chess.Color, occ uint64) (mg, eg int32, phase int) {
	them := side.Opposite()
	own := pos.Bitboards(side)
	opp := pos.Bitboards(them)
	ownOcc := own.All

	// Material, square tables and mobility.
	for pt := chess.Pawn; pt <= chess.King; pt++ {
		pieces := pos.PieceBB(side, pt)
		for pieces != 0 {
			sq := chess.Square(bits.TrailingZeros64(pieces))
			pieces &= pieces - 1
			phase += phaseWeight[pt]
			mg += pieceValueMG[pt] + psqtLookup(&psqtMG[pt], side, sq)
			eg += pieceValueEG[pt] + psqtLookup(&psqtEG[pt], side, sq)

			if pt >= chess.Knight && pt <= chess.Queen {
				var attacks uint64
				switch pt {
				case chess.Knight:
					attacks = chess.KnightAttacks(sq)
				case chess.Bishop:
					attacks = chess.BishopAttacks(sq, occ)
				case chess.Rook:
					attacks = chess.RookAttacks(sq, occ)
				case chess.Queen:
					attacks = chess.QueenAttacks(sq, occ)
				}
				mob := int32(bits.OnesCount64(attacks&^ownOcc)) - mobilityBaseline[pt]
				mg += mob * mobilityWeightMG[pt]
				eg += mob * mobilityWeightEG[pt]
			}
		}
	}

	if bits.OnesCount64(own.Bishops) >= 2 {
		mg += bishopPairMG
		eg += bishopPairEG
	}

	pmg, peg := pawnStructure(own.Pawns, opp.Pawns, side)
	mg += pmg
	eg += peg

	rmg, reg := rookPlacement(pos, side, own, opp)
	mg += rmg
	eg += reg

	mg += kingSafety(pos, side, own, opp, occ)

	tmg, teg := tacticalMotifs(pos, side, occ)
	mg += tmg
	eg += teg

	return mg, eg, phase
}

// fileMask returns the bitboard of one file.
func fileMask(file int) uint64 { return 0x0101010101010101 << uint(file) }

// frontSpan returns the squares in front of sq (owner's view) on its
// file and the two adjacent files, used for passed pawn detection.
func frontSpan(side chess.Color, sq chess.Square) uint64 {
	file := sq.File()
	span := fileMask(file)
	if file > 0 {
		span |= fileMask(file - 1)
	}
	if file < 7 {
		span |= fileMask(file + 1)
	}
	if side == chess.White {
		return span << uint(8*(sq.Rank()+1))
	}
	return span >> uint(8*(8-sq.Rank()))
}

func pawnStructure(ownPawns, oppPawns uint64, side chess.Color) (mg, eg int32) {
	for bbp := ownPawns; bbp != 0; bbp &= bbp - 1 {
		sq := chess.Square(bits.TrailingZeros64(bbp))
		file := sq.File()

		// Doubled: another own pawn ahead on the same file.
		fm := fileMask(file)
		if bits.OnesCount64(ownPawns&fm) > 1 {
			// Charge once per extra pawn; counting every pawn on the
			// file halves toward that since each pair is seen twice.
			mg += doubledPawnMG / 2
			eg += doubledPawnEG / 2
		}

		// Isolated: no friendly pawn on adjacent files.
		var adjacent uint64
		if file > 0 {
			adjacent |= fileMask(file - 1)
		}
		if file < 7 {
			adjacent |= fileMask(file + 1)
		}
		if ownPawns&adjacent == 0 {
			mg += isolatedPawnMG
			eg += isolatedPawnEG
		} else if backwardPawn(ownPawns, oppPawns, side, sq, adjacent) {
			mg += backwardPawnMG
			eg += backwardPawnEG
		}

		// Passed: no enemy pawn ahead on this or adjacent files.
		if oppPawns&frontSpan(side, sq) == 0 {
			rank := sq.Rank()
			if side == chess.Black {
				rank = 7 - rank
			}
			mg += passedPawnMG[rank]
			eg += passedPawnEG[rank]
		}
	}
	return mg, eg
}

// backwardPawn reports a pawn whose adjacent-file support is all ahead
// of it and whose stop square is covered by an enemy pawn, so it cannot
// safely advance to rejoin the chain.
func backwardPawn(ownPawns, oppPawns uint64, side chess.Color, sq chess.Square, adjacent uint64) bool {
	rank := sq.Rank()
	var behind uint64
	var stop chess.Square
	if side == chess.White {
		behind = (uint64(1) << uint(8*(rank+1))) - 1
		stop = sq + 8
	} else {
		behind = ^((uint64(1) << uint(8*rank)) - 1)
		stop = sq - 8
	}
	if ownPawns&adjacent&behind != 0 {
		return false
	}
	return chess.PawnAttacks(side, stop)&oppPawns != 0
}

func rookPlacement(pos *chess.Position, side chess.Color, own, opp chess.Bitboards) (mg, eg int32) {
	seventh := 6
	if side == chess.Black {
		seventh = 1
	}
	for bbr := own.Rooks; bbr != 0; bbr &= bbr - 1 {
		sq := chess.Square(bits.TrailingZeros64(bbr))
		fm := fileMask(sq.File())
		switch {
		case (own.Pawns|opp.Pawns)&fm == 0:
			mg += rookOpenFileMG
			eg += rookOpenFileEG
		case own.Pawns&fm == 0:
			mg += rookSemiOpenMG
			eg += rookSemiOpenEG
		}
		if sq.Rank() == seventh {
			mg += rookSeventhMG
			eg += rookSeventhEG
		}
	}
	return mg, eg
}

// kingSafety charges the side for exposure of its own king: missing
// shield pawns, open files adjacent to the king, and enemy pieces
// bearing on the king zone.
func kingSafety(pos *chess.Position, side chess.Color, own, opp chess.Bitboards, occ uint64) int32 {
	ksq := pos.KingSquare(side)
	if ksq == chess.NoSquare {
		return 0
	}
	var score int32
	them := side.Opposite()

	// Shield: own pawns on the three squares directly ahead of the king.
	shieldZone := chess.KingAttacks(ksq)
	if side == chess.White {
		shieldZone &= 0xFFFFFFFFFFFFFF00 << uint(8*ksq.Rank())
	} else {
		shieldZone &= 0x00FFFFFFFFFFFFFF >> uint(8*(7-ksq.Rank()))
	}
	shield := bits.OnesCount64(shieldZone & own.Pawns)
	if shield < 3 {
		score += int32(3-shield) * missingShieldPawnMG
	}

	// Files around the king without pawn cover.
	kf := ksq.File()
	for f := kf - 1; f <= kf+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		fm := fileMask(f)
		if (own.Pawns|opp.Pawns)&fm == 0 {
			score += openFileNearKingMG
		} else if own.Pawns&fm == 0 {
			score += semiOpenFileNearKingMG
		}
	}

	// Attack units: enemy pieces whose attack sets touch the king zone.
	zone := chess.KingAttacks(ksq) | 1<<uint(ksq)
	var units int32
	for pt := chess.Knight; pt <= chess.Queen; pt++ {
		for bbp := pos.PieceBB(them, pt); bbp != 0; bbp &= bbp - 1 {
			sq := chess.Square(bits.TrailingZeros64(bbp))
			var attacks uint64
			switch pt {
			case chess.Knight:
				attacks = chess.KnightAttacks(sq)
			case chess.Bishop:
				attacks = chess.BishopAttacks(sq, occ)
			case chess.Rook:
				attacks = chess.RookAttacks(sq, occ)
			case chess.Queen:
				attacks = chess.QueenAttacks(sq, occ)
			}
			if hits := attacks & zone; hits != 0 {
				units += attackUnits[pt] * int32(bits.OnesCount64(hits))
			}
		}
	}
	if units >= int32(len(kingAttackPenalty)) {
		units = int32(len(kingAttackPenalty)) - 1
	}
	score -= kingAttackPenalty[units]

	return score
}

// tacticalMotifs rewards fork, pin and skewer pressure against the
// opponent.
func tacticalMotifs(pos *chess.Position, side chess.Color, occ uint64) (mg, eg int32) {
	them := side.Opposite()

	// Knight forks: a knight hitting two or more heavy targets.
	heavy := pos.PieceBB(them, chess.Rook) | pos.PieceBB(them, chess.Queen) | pos.PieceBB(them, chess.King)
	for bbn := pos.PieceBB(side, chess.Knight); bbn != 0; bbn &= bbn - 1 {
		sq := chess.Square(bits.TrailingZeros64(bbn))
		if bits.OnesCount64(chess.KnightAttacks(sq)&heavy) >= 2 {
			mg += knightForkBonus
			eg += knightForkBonus
		}
	}

	// Pins: opponent pieces frozen against their king.
	pinned := int32(bits.OnesCount64(pos.PinnedPieces(them)))
	mg += pinned * pinnedPieceMG
	eg += pinned * pinnedPieceEG

	// Skewers and x-rays: sliders that still hit a second valuable piece
	// if the first blocker on the line steps away.
	oppValuable := pos.PieceBB(them, chess.Rook) | pos.PieceBB(them, chess.Queen)
	for _, pt := range [2]chess.PieceType{chess.Bishop, chess.Rook} {
		for bbs := pos.PieceBB(side, pt) | pos.PieceBB(side, chess.Queen); bbs != 0; bbs &= bbs - 1 {
			sq := chess.Square(bits.TrailingZeros64(bbs))
			var direct uint64
			if pt == chess.Bishop {
				direct = chess.BishopAttacks(sq, occ)
			} else {
				direct = chess.RookAttacks(sq, occ)
			}
			blockers := direct & occ
			for bbb := blockers & pos.ColorOccupancy(them); bbb != 0; bbb &= bbb - 1 {
				blocker := chess.Square(bits.TrailingZeros64(bbb))
				var xray uint64
				if pt == chess.Bishop {
					xray = chess.BishopAttacks(sq, occ&^(1<<uint(blocker)))
				} else {
					xray = chess.RookAttacks(sq, occ&^(1<<uint(blocker)))
				}
				if xray&^direct&oppValuable != 0 {
					mg += skewerBonusMG
					eg += skewerBonusEG
				}
			}
		}
	}
	return mg, eg
}
