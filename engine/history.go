package engine

import "github.com/solst-ice/chessbot-arena/chess"

// historyMax caps history scores so they stay below the killer band in
// move ordering.
const historyMax = 1 << 14

// historyTable accumulates quiet-move cutoff statistics indexed by side,
// from-square and to-square. Scores grow quadratically with depth so
// cutoffs near the root dominate.
type historyTable [2][64][64]int32

func (h *historyTable) bump(side chess.Color, m chess.Move, depth int) {
	v := &h[side][m.From()][m.To()]
	*v += int32(depth * depth)
	if *v >= historyMax {
		h.shrink()
	}
}

// penalize drains score from quiets that were tried before the cutoff
// move and failed to produce one.
func (h *historyTable) penalize(side chess.Color, m chess.Move, depth int) {
	v := &h[side][m.From()][m.To()]
	*v -= int32(depth)
	if *v < 0 {
		*v = 0
	}
}

func (h *historyTable) get(side chess.Color, m chess.Move) int32 {
	return h[side][m.From()][m.To()]
}

// shrink rescales the whole table when any cell saturates.
func (h *historyTable) shrink() {
	for s := range h {
		for f := range h[s] {
			for t := range h[s][f] {
				h[s][f][t] /= 8
			}
		}
	}
}

// age decays history between searches so stale preferences fade instead
// of being wiped.
func (h *historyTable) age() {
	for s := range h {
		for f := range h[s] {
			for t := range h[s][f] {
				h[s][f][t] /= 2
			}
		}
	}
}

func (h *historyTable) clear() {
	*h = historyTable{}
}

// counterTable remembers the move that last refuted each opponent move,
// indexed by the previous move's from and to squares.
type counterTable [2][64][64]chess.Move

func (c *counterTable) record(side chess.Color, prev, reply chess.Move) {
	if prev == chess.NullMove {
		return
	}
	c[side][prev.From()][prev.To()] = reply
}

func (c *counterTable) get(side chess.Color, prev chess.Move) chess.Move {
	if prev == chess.NullMove {
		return chess.NullMove
	}
	return c[side][prev.From()][prev.To()]
}

func (c *counterTable) clear() {
	*c = counterTable{}
}
