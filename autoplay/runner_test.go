package autoplay

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/castlegate/patzer/rules"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

const (
	foolsMateFEN    = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	scholarsMateFEN = "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4"
	stalemateFEN    = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
)

func TestNewPlayerSpecs(t *testing.T) {
	is := is.New(t)

	p, err := NewPlayer("minimax", 3, 1)
	is.NoErr(err)
	is.Equal(p.Name(), "minimax:3")

	p, err = NewPlayer("minimax:1", 3, 1)
	is.NoErr(err)
	is.Equal(p.Name(), "minimax:1")

	p, err = NewPlayer("random", 0, 1)
	is.NoErr(err)
	is.Equal(p.Name(), "random")

	p, err = NewPlayer("first", 0, 1)
	is.NoErr(err)
	is.Equal(p.Name(), "first")

	_, err = NewPlayer("stockfish", 0, 1)
	is.True(err != nil)

	_, err = NewPlayer("minimax:deep", 0, 1)
	is.True(err != nil)
}

func TestFirstPlayerPicksFirstMove(t *testing.T) {
	is := is.New(t)
	g := rules.NewGameFromStart()
	p, err := NewPlayer("first", 0, 1)
	is.NoErr(err)

	m, _, err := p.ChooseMove(g)
	is.NoErr(err)
	is.Equal(m, g.LegalMoves()[0])
}

func TestPlayersReturnNilWhenGameOver(t *testing.T) {
	is := is.New(t)
	g, err := rules.NewGame(stalemateFEN)
	is.NoErr(err)

	for _, spec := range []string{"minimax:1", "random", "first"} {
		p, err := NewPlayer(spec, 1, 1)
		is.NoErr(err)
		m, _, err := p.ChooseMove(g)
		is.NoErr(err)
		is.Equal(m, nil)
	}
}

func TestPlayFromCheckmatedPosition(t *testing.T) {
	is := is.New(t)
	white, _ := NewPlayer("first", 0, 1)
	black, _ := NewPlayer("first", 0, 1)
	r := NewGameRunner(white, black, 0)

	res := r.Play("fools-mate", foolsMateFEN)
	is.Equal(res.Outcome, BlackWin)
	is.Equal(res.Plies, 0)
	is.Equal(res.FinalFEN, foolsMateFEN)

	res = r.Play("scholars-mate", scholarsMateFEN)
	is.Equal(res.Outcome, WhiteWin)
	is.Equal(res.Plies, 0)
}

func TestPlayStalemateIsDraw(t *testing.T) {
	is := is.New(t)
	white, _ := NewPlayer("first", 0, 1)
	black, _ := NewPlayer("first", 0, 1)
	r := NewGameRunner(white, black, 0)

	res := r.Play("stalemate", stalemateFEN)
	is.Equal(res.Outcome, Draw)
	is.Equal(res.Plies, 0)
}

func TestPlayStopsAtMaxPlies(t *testing.T) {
	is := is.New(t)
	white, _ := NewPlayer("first", 0, 1)
	black, _ := NewPlayer("first", 0, 1)
	r := NewGameRunner(white, black, 6)

	res := r.Play("short", rules.StartingFEN)
	is.Equal(res.Outcome, Unfinished)
	is.Equal(res.Plies, 6)
	is.Equal(res.WhiteMoves, 3)
	is.Equal(res.BlackMoves, 3)
	is.True(res.FinalFEN != rules.StartingFEN)
	is.True(res.ID != "")
}

func TestPlayBadFENAborts(t *testing.T) {
	is := is.New(t)
	white, _ := NewPlayer("first", 0, 1)
	black, _ := NewPlayer("first", 0, 1)
	r := NewGameRunner(white, black, 0)

	res := r.Play("garbage", "not a position")
	is.Equal(res.Outcome, Aborted)
	is.True(res.Err != "")
}

type brokenPlayer struct{}

func (brokenPlayer) Name() string { return "broken" }

func (brokenPlayer) ChooseMove(pos rules.Position) (rules.Move, float64, error) {
	return nil, 0, errors.New("engine crashed")
}

func TestPlayerFailureAbortsGame(t *testing.T) {
	is := is.New(t)
	black, _ := NewPlayer("first", 0, 1)
	r := NewGameRunner(brokenPlayer{}, black, 0)

	res := r.Play("crash", rules.StartingFEN)
	is.Equal(res.Outcome, Aborted)
	is.Equal(res.Err, "engine crashed")
	is.Equal(res.Plies, 0)
}

func TestMinimaxPlayerCountsNodes(t *testing.T) {
	is := is.New(t)
	g := rules.NewGameFromStart()
	p, err := NewPlayer("minimax:1", 0, 1)
	is.NoErr(err)

	_, _, err = p.ChooseMove(g)
	is.NoErr(err)
	nodes := playerNodes(p)
	is.True(nodes > 0)

	_, _, err = p.ChooseMove(g)
	is.NoErr(err)
	is.True(playerNodes(p) > nodes)
}
