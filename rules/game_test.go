package rules

import (
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

const (
	foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	stalemateFEN = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
)

func mustGame(t *testing.T, fen string) *Game {
	t.Helper()
	g, err := NewGame(fen)
	if err != nil {
		t.Fatalf("bad fen %q: %v", fen, err)
	}
	return g
}

func TestNewGameBadFEN(t *testing.T) {
	is := is.New(t)
	_, err := NewGame("this is not a position")
	is.True(err != nil)
}

func TestStartingPosition(t *testing.T) {
	is := is.New(t)
	g := NewGameFromStart()
	is.Equal(g.Turn(), White)
	is.Equal(len(g.LegalMoves()), 20)
	is.Equal(g.GameOver(), false)
	is.Equal(g.Checkmate(), false)
	is.Equal(g.Ply(), 0)
}

func TestPushPopRestoresFEN(t *testing.T) {
	is := is.New(t)
	g := NewGameFromStart()
	before := g.FEN()

	moves := g.LegalMoves()
	is.True(len(moves) > 0)
	is.NoErr(g.PushMove(moves[0]))
	is.True(g.FEN() != before)
	is.Equal(g.Ply(), 1)

	is.NoErr(g.PopMove())
	is.Equal(g.FEN(), before)
	is.Equal(g.Ply(), 0)
}

func TestPopWithoutPush(t *testing.T) {
	is := is.New(t)
	g := NewGameFromStart()
	is.Equal(g.PopMove(), ErrNoMoveToUndo)
}

func TestTurnAlternates(t *testing.T) {
	is := is.New(t)
	g := NewGameFromStart()
	is.Equal(g.Turn(), White)
	is.NoErr(g.PushMove(g.LegalMoves()[0]))
	is.Equal(g.Turn(), Black)
	is.NoErr(g.PushMove(g.LegalMoves()[0]))
	is.Equal(g.Turn(), White)
}

func TestPieceCountsAtStart(t *testing.T) {
	is := is.New(t)
	g := NewGameFromStart()
	for _, side := range []Side{White, Black} {
		is.Equal(g.PieceCount(side, Pawn), 8)
		is.Equal(g.PieceCount(side, Knight), 2)
		is.Equal(g.PieceCount(side, Bishop), 2)
		is.Equal(g.PieceCount(side, Rook), 2)
		is.Equal(g.PieceCount(side, Queen), 1)
		is.Equal(g.PieceCount(side, King), 1)
	}
}

func TestCheckmateDetection(t *testing.T) {
	is := is.New(t)
	g := mustGame(t, foolsMateFEN)
	is.Equal(g.Turn(), White)
	is.Equal(g.GameOver(), true)
	is.Equal(g.Checkmate(), true)
	is.Equal(len(g.LegalMoves()), 0)
}

func TestStalemateIsOverButNotMate(t *testing.T) {
	is := is.New(t)
	g := mustGame(t, stalemateFEN)
	is.Equal(g.GameOver(), true)
	is.Equal(g.Checkmate(), false)
	is.Equal(len(g.LegalMoves()), 0)
}

func TestFivefoldRepetition(t *testing.T) {
	is := is.New(t)
	g := NewGameFromStart()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	// Four full knight shuffles put the starting position on the board
	// for the fifth time.
	for cycle := 0; cycle < 4; cycle++ {
		for _, uci := range shuffle {
			is.Equal(g.GameOver(), false)
			m, err := FindMove(g, uci)
			is.NoErr(err)
			is.NoErr(g.PushMove(m))
		}
	}
	is.Equal(g.GameOver(), true)
	is.Equal(g.Checkmate(), false)
}

func TestSeventyFiveMoveRule(t *testing.T) {
	is := is.New(t)
	g := mustGame(t, "k7/8/8/8/8/8/8/KR6 w - - 150 80")
	is.Equal(g.GameOver(), true)
	is.Equal(g.Checkmate(), false)
}

func TestInsufficientMaterial(t *testing.T) {
	is := is.New(t)

	bare := mustGame(t, "8/8/8/8/8/8/8/K1k5 w - - 0 1")
	is.Equal(bare.GameOver(), true)

	singleBishop := mustGame(t, "8/8/8/8/8/8/8/KB1k4 w - - 0 1")
	is.Equal(singleBishop.GameOver(), true)

	oppositeBishops := mustGame(t, "8/8/8/8/8/8/8/KB1kb3 w - - 0 1")
	is.Equal(oppositeBishops.GameOver(), false)

	rookLeft := mustGame(t, "k7/8/8/8/8/8/8/KR6 w - - 0 1")
	is.Equal(rookLeft.GameOver(), false)
}

func TestFindMove(t *testing.T) {
	is := is.New(t)
	g := NewGameFromStart()

	m, err := FindMove(g, "e2e4")
	is.NoErr(err)
	is.Equal(m.String(), "e2e4")

	_, err = FindMove(g, "e2e5")
	is.Equal(err, ErrMoveNotLegal)
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	g := NewGameFromStart()
	snap := g.Copy()

	is.NoErr(g.PushMove(g.LegalMoves()[0]))
	is.True(g.FEN() != snap.FEN())
	is.Equal(snap.Turn(), White)

	is.NoErr(g.PopMove())
	is.Equal(g.FEN(), snap.FEN())
}

func TestSideAndKindStrings(t *testing.T) {
	is := is.New(t)
	is.Equal(White.Other(), Black)
	is.Equal(Black.Other(), White)
	is.Equal(White.String(), "white")
	is.Equal(Queen.String(), "queen")
	is.Equal(len(Kinds()), 6)
}
