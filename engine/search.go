package engine

import (
	"math"
	"strings"
	"time"

	"github.com/solst-ice/chessbot-arena/chess"
)

const (
	// MaxPly bounds the search stack.
	MaxPly = 64

	// Infinity is outside every achievable score.
	Infinity int32 = 30_000

	// MateScore is the value of delivering mate at the current node;
	// mates further from the root score lower by their ply distance, so
	// the search prefers the shortest mate.
	MateScore int32 = 29_000

	// mateBound separates mate scores from heuristic ones.
	mateBound = MateScore - 2*MaxPly

	drawScore int32 = 0
)

var futilityMargin = [3]int32{0, 120, 250}

// lmrTable precomputes late move reduction amounts by depth and move number.
type lmrTable [MaxPly + 1][64]int

func (t *lmrTable) init() {
	for d := 1; d <= MaxPly; d++ {
		for m := 1; m < 64; m++ {
			t[d][m] = int(0.5 + math.Log(float64(d))*math.Log(float64(m))/2.25)
		}
	}
}

func (t *lmrTable) get(depth, moveCount int) int {
	if depth > MaxPly {
		depth = MaxPly
	}
	if moveCount > 63 {
		moveCount = 63
	}
	return t[depth][moveCount]
}

// PVLine accumulates the principal variation while the search runs.
type PVLine struct {
	moves []chess.Move
}

func (pv *PVLine) clear() { pv.moves = pv.moves[:0] }

// update sets this line to m followed by the child's line.
func (pv *PVLine) update(m chess.Move, child *PVLine) {
	pv.moves = append(pv.moves[:0], m)
	pv.moves = append(pv.moves, child.moves...)
}

func (pv *PVLine) String() string {
	parts := make([]string, len(pv.moves))
	for i, m := range pv.moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// iterate runs iterative deepening. Only fully completed depths commit a
// best move, so an aborted deeper iteration can never replace a sound
// shallower result with a partial one.
func (e *Engine) iterate(pos *chess.Position, rootMoves []chess.Move) chess.Move {
	best := rootMoves[0]
	bestScore := -Infinity
	searchStart := time.Now()

	for depth := 1; depth <= e.maxDepth; depth++ {
		depthStart := time.Now()
		var pv PVLine
		score := e.negamax(pos, depth, 0, -Infinity, Infinity, &pv, chess.NullMove, true)
		if e.clock.stopped {
			break
		}
		if len(pv.moves) > 0 {
			best = pv.moves[0]
			bestScore = score
		}
		e.clock.allowStop()

		e.log.Debug().
			Int("depth", depth).
			Int32("score", score).
			Uint64("nodes", e.nodes).
			Str("pv", pv.String()).
			Dur("elapsed", elapsedSince(searchStart)).
			Msg("depth complete")

		// A forced mate this shallow cannot be improved upon.
		if score >= mateBound || score <= -mateBound {
			break
		}
		// Starting another iteration that cannot finish wastes the
		// budget; a new depth typically costs several times the last.
		if e.clock.remaining() < 2*time.Since(depthStart) {
			break
		}
	}

	e.log.Info().
		Str("move", best.String()).
		Int32("score", bestScore).
		Uint64("nodes", e.nodes).
		Dur("elapsed", elapsedSince(searchStart)).
		Msg("search finished")
	return best
}

// negamax is the main alpha-beta search with principal variation search,
// transposition table cutoffs, null move pruning, late move reductions
// and futility pruning.
func (e *Engine) negamax(pos *chess.Position, depth, ply int, alpha, beta int32, pv *PVLine, prev chess.Move, canNull bool) int32 {
	e.nodes++
	if e.nodes&4095 == 0 {
		e.clock.check()
	}
	if e.clock.stopped {
		return 0
	}
	pv.clear()

	stm := pos.SideToMove()
	root := ply == 0

	if !root {
		if pos.Repetitions() >= 2 || pos.IsDrawByFiftyMove() || pos.IsInsufficientMaterial() {
			return drawScore
		}
		if ply >= MaxPly {
			return staticEval(pos)
		}
		// Mate distance pruning: a line cannot beat a mate already
		// proven closer to the root.
		if lower := -MateScore + int32(ply); alpha < lower {
			alpha = lower
		}
		if upper := MateScore - int32(ply) - 1; beta > upper {
			beta = upper
		}
		if alpha >= beta {
			return alpha
		}
	}

	inCheck := pos.InCheck(stm)
	if inCheck {
		depth++
	}
	if depth <= 0 {
		return e.quiescence(pos, ply, alpha, beta)
	}

	isPV := beta-alpha > 1
	ttMove, ttScore, ttUsable := e.tt.Probe(pos.Hash(), depth, ply, alpha, beta)
	if ttUsable && !isPV && !root {
		return ttScore
	}

	eval := staticEval(pos)

	// Reverse futility: a quiet position already far above beta at low
	// depth will almost certainly stay there.
	if !isPV && !inCheck && depth <= 4 && beta > -mateBound && eval-int32(90*depth) >= beta {
		return eval
	}

	// Null move pruning: hand the opponent a free move; if the position
	// still beats beta, a real move will too. Skipped without heavy
	// pieces, where zugzwang breaks the assumption.
	if canNull && !isPV && !inCheck && !root && depth >= 3 && eval >= beta && hasNonPawnMaterial(pos, stm) {
		u := pos.MakeNullMove()
		r := 2 + depth/4
		var childPV PVLine
		score := -e.negamax(pos, depth-1-r, ply+1, -beta, -beta+1, &childPV, chess.NullMove, false)
		pos.UnmakeNullMove(u)
		if e.clock.stopped {
			return 0
		}
		if score >= beta && score < mateBound {
			return beta
		}
	}

	moves := pos.LegalMovesInto(stm, e.bufs[ply][:0])
	e.bufs[ply] = moves
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + int32(ply)
		}
		return drawScore
	}

	pk := &e.pickers[ply]
	e.scoreMoves(pk, pos, moves, ttMove, prev, ply)

	futile := !isPV && !inCheck && depth <= 2 && eval+futilityMargin[depth] <= alpha

	bestScore := -Infinity
	bestMove := chess.NullMove
	flag := ttUpperBound
	moveCount := 0
	var childPV PVLine

	for m := pk.pick(); m != chess.NullMove; m = pk.pick() {
		quiet := !m.IsCapture() && !m.IsPromotion()
		if futile && quiet && moveCount > 0 {
			continue
		}

		ok, u := pos.MakeMove(m)
		if !ok {
			continue
		}
		moveCount++
		givesCheck := pos.InCheck(pos.SideToMove())

		var score int32
		if moveCount == 1 {
			score = -e.negamax(pos, depth-1, ply+1, -beta, -alpha, &childPV, m, true)
		} else {
			// Late quiets get a reduced-depth scout first; anything
			// that surprises us re-searches at full depth.
			reduce := 0
			if depth >= 3 && quiet && !givesCheck && !inCheck {
				reduce = e.lmr.get(depth, moveCount)
			}
			score = -e.negamax(pos, depth-1-reduce, ply+1, -alpha-1, -alpha, &childPV, m, true)
			if score > alpha && reduce > 0 {
				score = -e.negamax(pos, depth-1, ply+1, -alpha-1, -alpha, &childPV, m, true)
			}
			if score > alpha && score < beta {
				score = -e.negamax(pos, depth-1, ply+1, -beta, -alpha, &childPV, m, true)
			}
		}
		pos.UnmakeMove(m, u)
		if e.clock.stopped {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			flag = ttExact
			pv.update(m, &childPV)
			if alpha >= beta {
				flag = ttLowerBound
				if quiet {
					e.killers.insert(ply, m)
					e.history.bump(stm, m, depth)
					e.counters.record(stm, prev, m)
					// The quiets tried before the cutoff move failed to
					// produce one; drain their history a little.
					for i := 0; i < pk.next-1; i++ {
						tried := pk.moves[i]
						if !tried.IsCapture() && !tried.IsPromotion() {
							e.history.penalize(stm, tried, depth)
						}
					}
				}
				break
			}
		}
	}

	if moveCount == 0 {
		// Every generated move was pruned; fall back to the static view.
		return eval
	}

	e.tt.Store(pos.Hash(), bestMove, bestScore, depth, ply, flag)
	return bestScore
}

// quiescence resolves captures until the position is quiet, so the leaf
// evaluation never scores a position mid-exchange.
func (e *Engine) quiescence(pos *chess.Position, ply int, alpha, beta int32) int32 {
	e.nodes++
	if e.nodes&2047 == 0 {
		e.clock.check()
	}
	if e.clock.stopped {
		return 0
	}
	if ply >= MaxPly {
		return staticEval(pos)
	}

	standPat := staticEval(pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	stm := pos.SideToMove()
	moves := pos.CapturesInto(stm, e.bufs[ply][:0])
	e.bufs[ply] = moves

	pk := &e.pickers[ply]
	e.scoreCaptures(pk, moves)

	best := standPat
	for m := pk.pick(); m != chess.NullMove; m = pk.pick() {
		// Delta pruning: even winning this piece outright cannot lift
		// the score back to alpha.
		if !m.IsPromotion() && standPat+exchangeValue[m.CapturedPiece().Type()]+200 < alpha {
			continue
		}
		// Skip exchanges that lose material on the swap-off.
		if see(pos, m) < 0 {
			continue
		}

		ok, u := pos.MakeMove(m)
		if !ok {
			continue
		}
		score := -e.quiescence(pos, ply+1, -beta, -alpha)
		pos.UnmakeMove(m, u)
		if e.clock.stopped {
			return 0
		}

		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
			if alpha >= beta {
				break
			}
		}
	}
	return best
}

// hasNonPawnMaterial reports whether side still owns a piece other than
// pawns and the king.
func hasNonPawnMaterial(pos *chess.Position, side chess.Color) bool {
	return pos.PieceBB(side, chess.Knight)|pos.PieceBB(side, chess.Bishop)|
		pos.PieceBB(side, chess.Rook)|pos.PieceBB(side, chess.Queen) != 0
}
