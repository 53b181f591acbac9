// Command arena plays a series of games between two engine instances and
// reports the result tally. Openings can be randomized to keep the games
// from repeating.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
	"lukechampine.com/frand"

	"github.com/solst-ice/chessbot-arena/chess"
	"github.com/solst-ice/chessbot-arena/config"
	"github.com/solst-ice/chessbot-arena/engine"
)

type gameResult struct {
	winner chess.Color // valid only when decisive
	draw   bool
	status chess.Status
	moves  int
}

func main() {
	cfgPath := flag.String("config", "", "Path to arena.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	budget := time.Duration(cfg.MoveTimeMs) * time.Millisecond
	var whiteWins, blackWins, draws int

	for g := 0; g < cfg.Games; g++ {
		res, err := playGame(cfg, budget, &log, g)
		if err != nil {
			log.Error().Err(err).Int("game", g+1).Msg("game aborted")
			os.Exit(1)
		}
		switch {
		case res.draw:
			draws++
		case res.winner == chess.White:
			whiteWins++
		default:
			blackWins++
		}
		log.Info().
			Int("game", g+1).
			Str("status", res.status.String()).
			Int("moves", res.moves).
			Msg("game finished")
	}

	fmt.Printf("games %d  white %d  black %d  draws %d\n",
		cfg.Games, whiteWins, blackWins, draws)
}

func playGame(cfg *config.Config, budget time.Duration, log *zerolog.Logger, game int) (gameResult, error) {
	opts := engine.Options{
		MaxDepth: cfg.MaxDepth,
		TTSizeMB: cfg.TTSizeMB,
		Logger:   log,
	}
	white := engine.NewEngine(opts)
	black := engine.NewEngine(opts)

	pos, err := chess.ParseFEN(chess.StartFEN)
	if err != nil {
		return gameResult{}, err
	}

	pos, opening, err := playOpening(pos, cfg.OpeningPlies)
	if err != nil {
		return gameResult{}, err
	}
	if len(opening) > 0 {
		log.Debug().Int("game", game+1).Strs("opening", opening).Msg("opening played")
	}

	plies := 0
	for {
		status := pos.GameStatus()
		if status != chess.InProgress {
			return resultFromStatus(status, pos, plies), nil
		}
		if pos.FullmoveNumber() > cfg.MaxMoves {
			return gameResult{draw: true, status: chess.InProgress, moves: plies}, nil
		}

		side := pos.SideToMove()
		eng := white
		if side == chess.Black {
			eng = black
		}
		mv, err := eng.SelectMove(pos, side, budget)
		if err != nil {
			return gameResult{}, fmt.Errorf("game %d, %s to move: %w", game+1, side, err)
		}
		next, err := pos.Apply(mv)
		if err != nil {
			return gameResult{}, fmt.Errorf("game %d, engine played %s: %w", game+1, mv, err)
		}
		log.Debug().
			Int("game", game+1).
			Str("side", side.String()).
			Str("move", mv.String()).
			Msg("move played")
		pos = next
		plies++
	}
}

// playOpening makes n random legal half-moves from pos, never walking into
// a finished game. It returns the resulting position and the moves played.
func playOpening(pos *chess.Position, n int) (*chess.Position, []string, error) {
	played := make([]string, 0, n)
	for i := 0; i < n; i++ {
		legal := pos.LegalMoves(pos.SideToMove())
		if len(legal) == 0 {
			break
		}
		frand.Shuffle(len(legal), func(a, b int) {
			legal[a], legal[b] = legal[b], legal[a]
		})
		// Prefer a move that keeps the game going.
		idx := slices.IndexFunc(legal, func(m chess.Move) bool {
			next, err := pos.Apply(m)
			return err == nil && next.GameStatus() == chess.InProgress
		})
		if idx < 0 {
			break
		}
		next, err := pos.Apply(legal[idx])
		if err != nil {
			return nil, nil, err
		}
		played = append(played, legal[idx].String())
		pos = next
	}
	return pos, played, nil
}

func resultFromStatus(status chess.Status, pos *chess.Position, plies int) gameResult {
	if status == chess.Checkmate {
		// The side to move is the one mated.
		return gameResult{winner: pos.SideToMove().Opposite(), status: status, moves: plies}
	}
	return gameResult{draw: true, status: status, moves: plies}
}
