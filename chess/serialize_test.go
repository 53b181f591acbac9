package chess_test

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"

	"github.com/solst-ice/chessbot-arena/chess"
)

func TestSnapshotRoundTrip(t *testing.T) {
	is := is.New(t)
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos, err := chess.ParseFEN(fen)
	is.NoErr(err)

	snap := pos.ToSnapshot()

	// The grid is row 0 = rank 8: the black rook sits at (0, 0).
	is.True(snap.Board[0][0] != nil)
	is.Equal(snap.Board[0][0].Kind, "rook")
	is.Equal(snap.Board[0][0].Color, "black")
	is.True(snap.Board[4][4] != nil) // the e4 pawn lands at (4, 4)
	is.Equal(snap.Board[4][4].Kind, "pawn")
	is.Equal(snap.Board[4][4].Color, "white")
	is.True(snap.Board[5][0] == nil) // a3 is empty
	is.Equal(snap.Turn, "white")
	is.Equal(snap.Castling, "KQkq")

	// Through JSON and back.
	raw, err := json.Marshal(snap)
	is.NoErr(err)
	var decoded chess.Snapshot
	is.NoErr(json.Unmarshal(raw, &decoded))

	restored, err := chess.FromSnapshot(decoded)
	is.NoErr(err)
	is.Equal(restored.FEN(), fen)
	is.Equal(restored.Hash(), pos.Hash())
	is.Equal(restored.HistoryLen(), 1) // fresh repetition history
}

func TestSnapshotEnPassant(t *testing.T) {
	is := is.New(t)
	pos, err := chess.ParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	is.NoErr(err)

	snap := pos.ToSnapshot()
	is.Equal(snap.EnPassant, "d6")

	restored, err := chess.FromSnapshot(snap)
	is.NoErr(err)
	if _, err := restored.ParseMove("e5d6"); err != nil {
		t.Fatalf("en passant capture lost through snapshot: %v", err)
	}
}

func TestFromSnapshotRejectsGarbage(t *testing.T) {
	var s chess.Snapshot
	s.Board[0][0] = &chess.PieceJSON{Kind: "archbishop", Color: "white"}
	if _, err := chess.FromSnapshot(s); err == nil {
		t.Fatalf("unknown piece kind accepted")
	}

	s = chess.Snapshot{}
	s.Board[0][0] = &chess.PieceJSON{Kind: "king", Color: "white"}
	// No black king: structurally broken.
	if _, err := chess.FromSnapshot(s); err == nil {
		t.Fatalf("kingless snapshot accepted")
	}
}

func TestResolveMoveJSON(t *testing.T) {
	is := is.New(t)
	pos, err := chess.ParseFEN(chess.StartFEN)
	is.NoErr(err)

	// e2e4 in grid coordinates: e2 is row 6, col 4; e4 is row 4, col 4.
	m, err := pos.ResolveMoveJSON(chess.MoveJSON{
		From: chess.CoordJSON{Row: 6, Col: 4},
		To:   chess.CoordJSON{Row: 4, Col: 4},
	})
	is.NoErr(err)
	is.Equal(m.String(), "e2e4")

	back := chess.MoveToJSON(m)
	is.Equal(back.From, chess.CoordJSON{Row: 6, Col: 4})
	is.Equal(back.To, chess.CoordJSON{Row: 4, Col: 4})
	is.Equal(back.Promotion, "")

	// Promotion literal.
	pos, err = chess.ParseFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	is.NoErr(err)
	m, err = pos.ResolveMoveJSON(chess.MoveJSON{
		From:      chess.CoordJSON{Row: 1, Col: 0},
		To:        chess.CoordJSON{Row: 0, Col: 0},
		Promotion: "knight",
	})
	is.NoErr(err)
	is.Equal(m.String(), "a7a8n")
}
