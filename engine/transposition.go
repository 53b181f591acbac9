package engine

import (
	"math/bits"
	"unsafe"

	"github.com/solst-ice/chessbot-arena/chess"
)

// ttFlag classifies a stored score relative to the window it was
// searched with.
type ttFlag uint8

const (
	ttNone ttFlag = iota
	ttExact
	ttLowerBound // score >= beta when stored
	ttUpperBound // score <= alpha when stored
)

// ttEntry is one transposition table slot.
type ttEntry struct {
	hash  uint64
	move  chess.Move
	score int32
	depth int8
	flag  ttFlag
	age   uint8
}

// clusterSize entries share an index; replacement picks within the cluster.
const clusterSize = 4

// TransTable is a fixed-size transposition table. Probing and storing
// normalize mate scores by ply so a mate found deep in one subtree reads
// correctly from another.
type TransTable struct {
	entries []ttEntry
	mask    uint64
	age     uint8
}

// NewTransTable allocates a table of roughly sizeMB megabytes, rounded
// down to a power-of-two cluster count.
func NewTransTable(sizeMB int) *TransTable {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	entrySize := int(unsafe.Sizeof(ttEntry{}))
	n := sizeMB * 1024 * 1024 / entrySize / clusterSize
	if n < 1 {
		n = 1
	}
	clusters := uint64(1) << uint(63-bits.LeadingZeros64(uint64(n)))
	return &TransTable{
		entries: make([]ttEntry, clusters*clusterSize),
		mask:    clusters - 1,
	}
}

// Clear wipes every entry.
func (t *TransTable) Clear() {
	for i := range t.entries {
		t.entries[i] = ttEntry{}
	}
	t.age = 0
}

// NewSearch bumps the table age. Entries from earlier searches become
// preferred replacement victims.
func (t *TransTable) NewSearch() { t.age++ }

func (t *TransTable) cluster(hash uint64) []ttEntry {
	base := (hash & t.mask) * clusterSize
	return t.entries[base : base+clusterSize]
}

// Probe looks up a position. It returns the stored move for ordering
// regardless of depth, and (score, true) only when the entry is deep
// enough and its bound resolves against the current window.
func (t *TransTable) Probe(hash uint64, depth, ply int, alpha, beta int32) (move chess.Move, score int32, usable bool) {
	cl := t.cluster(hash)
	for i := range cl {
		entry := &cl[i]
		if entry.hash != hash || entry.flag == ttNone {
			continue
		}
		move = entry.move
		if int(entry.depth) < depth {
			return move, 0, false
		}
		score = scoreFromTT(entry.score, ply)
		switch entry.flag {
		case ttExact:
			return move, score, true
		case ttLowerBound:
			if score >= beta {
				return move, score, true
			}
		case ttUpperBound:
			if score <= alpha {
				return move, score, true
			}
		}
		return move, 0, false
	}
	return chess.NullMove, 0, false
}

// Store writes an entry, choosing a victim within the cluster: a slot
// holding the same position, then an empty slot, then the oldest entry,
// then the shallowest.
func (t *TransTable) Store(hash uint64, m chess.Move, score int32, depth, ply int, flag ttFlag) {
	cl := t.cluster(hash)

	victim := -1
	for i := range cl {
		if cl[i].hash == hash || cl[i].flag == ttNone {
			victim = i
			break
		}
	}
	if victim < 0 {
		victim = 0
		for i := 1; i < clusterSize; i++ {
			v, c := &cl[victim], &cl[i]
			if c.age != t.age && v.age == t.age {
				victim = i
			} else if (c.age == t.age) == (v.age == t.age) && c.depth < v.depth {
				victim = i
			}
		}
	}

	// Keep a deeper same-position entry from the current search.
	v := &cl[victim]
	if v.hash == hash && v.age == t.age && int(v.depth) > depth && flag != ttExact {
		return
	}

	// Preserve the known-good move when the new result has none.
	if m == chess.NullMove && v.hash == hash {
		m = v.move
	}

	*v = ttEntry{
		hash:  hash,
		move:  m,
		score: scoreToTT(score, ply),
		depth: int8(depth),
		flag:  flag,
		age:   t.age,
	}
}

// Mate scores are stored relative to the node they were found at, so a
// "mate in N from here" entry transfers between branches. ply converts
// between root-relative and node-relative.
func scoreToTT(score int32, ply int) int32 {
	if score >= mateBound {
		return score + int32(ply)
	}
	if score <= -mateBound {
		return score - int32(ply)
	}
	return score
}

func scoreFromTT(score int32, ply int) int32 {
	if score >= mateBound {
		return score - int32(ply)
	}
	if score <= -mateBound {
		return score + int32(ply)
	}
	return score
}
