package engine

import "github.com/solst-ice/chessbot-arena/chess"

// killerTable remembers, per ply, the last two quiet moves that caused a
// beta cutoff. Sibling nodes at the same ply often fail high on the same
// quiet move, so these get ordered right after the captures.
type killerTable [MaxPly + 2][2]chess.Move

func (k *killerTable) insert(ply int, m chess.Move) {
	if ply < 0 || ply >= len(k) {
		return
	}
	if k[ply][0] != m {
		k[ply][1] = k[ply][0]
		k[ply][0] = m
	}
}

func (k *killerTable) probe(ply int) (first, second chess.Move) {
	if ply < 0 || ply >= len(k) {
		return chess.NullMove, chess.NullMove
	}
	return k[ply][0], k[ply][1]
}

func (k *killerTable) clear() {
	for i := range k {
		k[i][0] = chess.NullMove
		k[i][1] = chess.NullMove
	}
}
