package engine

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/solst-ice/chessbot-arena/chess"
)

// Options configures a new Engine instance.
type Options struct {
	// MaxDepth bounds iterative deepening. Zero means DefaultMaxDepth.
	MaxDepth int
	// TTSizeMB is the transposition table size in megabytes. Zero means
	// DefaultTTSizeMB.
	TTSizeMB int
	// Logger receives per-depth search traces. The zero value logs
	// nothing (zerolog.Nop behavior is applied for an unset logger).
	Logger *zerolog.Logger
}

const (
	DefaultMaxDepth = 64
	DefaultTTSizeMB = 64
)

// Engine is a self-contained search instance: transposition table,
// killer and history tables, and clock state all live on the struct, so
// independent engines never share or clobber each other's state.
type Engine struct {
	maxDepth int
	log      zerolog.Logger

	tt       *TransTable
	killers  killerTable
	history  historyTable
	counters counterTable
	lmr      lmrTable

	clock timeControl
	nodes uint64

	// Per-ply move buffers and pickers, reused across the whole search.
	bufs    [MaxPly + 2][]chess.Move
	pickers [MaxPly + 2]movePicker
}

// NewEngine builds an engine with its own tables.
func NewEngine(opts Options) *Engine {
	if opts.MaxDepth <= 0 || opts.MaxDepth > DefaultMaxDepth {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.TTSizeMB <= 0 {
		opts.TTSizeMB = DefaultTTSizeMB
	}
	var log zerolog.Logger
	if opts.Logger != nil {
		log = *opts.Logger
	} else {
		log = zerolog.New(os.Stderr).Level(zerolog.Disabled)
	}
	e := &Engine{
		maxDepth: opts.MaxDepth,
		log:      log,
		tt:       NewTransTable(opts.TTSizeMB),
	}
	e.lmr.init()
	for i := range e.bufs {
		e.bufs[i] = make([]chess.Move, 0, 64)
	}
	return e
}

// NewGame wipes all per-game state. Call between games when reusing an
// engine instance.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.killers.clear()
	e.history.clear()
	e.counters.clear()
}

// SelectMove searches the position for the given side under a wall-clock
// budget and returns the best move found. A position with no legal moves
// for that side returns chess.NullMove and a nil error; the caller
// distinguishes mate from stalemate. The only error condition is a
// structurally corrupt position.
//
// The input position is never mutated: the search runs on a clone.
func (e *Engine) SelectMove(pos *chess.Position, side chess.Color, budget time.Duration) (chess.Move, error) {
	if err := pos.Validate(); err != nil {
		return chess.NullMove, err
	}

	work := pos.Clone()
	work.SetSideToMove(side)

	rootMoves := work.LegalMoves(side)
	if len(rootMoves) == 0 {
		return chess.NullMove, nil
	}
	if len(rootMoves) == 1 {
		return rootMoves[0], nil
	}

	e.clock.start(budget)
	e.nodes = 0
	e.tt.NewSearch()
	e.killers.clear()
	e.history.age()

	best := e.iterate(work, rootMoves)
	return best, nil
}
