// Command perft counts leaf nodes of the legal move tree, for verifying
// move generation. With -crosscheck it compares the count against an
// independent move generator at every depth up to the requested one.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/solst-ice/chessbot-arena/chess"
)

func main() {
	fen := flag.String("fen", chess.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	crosscheck := flag.Bool("crosscheck", false, "Compare every depth against dragontoothmg")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	pos, err := chess.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse fen: %v\n", err)
		os.Exit(2)
	}

	if *divide {
		div := chess.PerftDivide(pos, *depth)
		keys := make([]string, 0, len(div))
		total := uint64(0)
		byName := make(map[string]uint64, len(div))
		for m, n := range div {
			keys = append(keys, m.String())
			byName[m.String()] = n
			total += n
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s: %d\n", k, byName[k])
		}
		fmt.Printf("Total: %d\n", total)
		return
	}

	if *crosscheck {
		ref := dragon.ParseFen(*fen)
		for d := 1; d <= *depth; d++ {
			got := chess.Perft(pos, d)
			want := uint64(dragon.Perft(&ref, d))
			status := "ok"
			if got != want {
				status = "MISMATCH"
			}
			fmt.Printf("depth %d: got %d, reference %d (%s)\n", d, got, want, status)
			if got != want {
				os.Exit(1)
			}
		}
		return
	}

	start := time.Now()
	nodes := chess.Perft(pos, *depth)
	elapsed := time.Since(start)
	nps := float64(nodes) / elapsed.Seconds()
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, nodes, elapsed, nps)
}
