// Package autoplay plays full games between computer players and
// aggregates the results of batches of them.
package autoplay

import (
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog/log"

	"github.com/castlegate/patzer/rules"
)

// Outcome classifies how a game ended.
type Outcome string

const (
	WhiteWin   Outcome = "white-win"
	BlackWin   Outcome = "black-win"
	Draw       Outcome = "draw"
	Unfinished Outcome = "unfinished"
	Aborted    Outcome = "aborted"
)

// GameResult records one finished (or failed) game.
type GameResult struct {
	ID         string        `json:"id" yaml:"id"`
	Name       string        `json:"name,omitempty" yaml:"name,omitempty"`
	FEN        string        `json:"fen" yaml:"fen"`
	Outcome    Outcome       `json:"outcome" yaml:"outcome"`
	FinalFEN   string        `json:"final_fen,omitempty" yaml:"final_fen,omitempty"`
	Plies      int           `json:"plies" yaml:"plies"`
	WhiteMoves int           `json:"white_moves" yaml:"white_moves"`
	BlackMoves int           `json:"black_moves" yaml:"black_moves"`
	Nodes      uint64        `json:"nodes" yaml:"nodes"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Err        string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// DefaultMaxPlies caps game length when the caller does not.
const DefaultMaxPlies = 300

// GameRunner plays single games between two players.
type GameRunner struct {
	white    Player
	black    Player
	maxPlies int
}

func NewGameRunner(white, black Player, maxPlies int) *GameRunner {
	if maxPlies <= 0 {
		maxPlies = DefaultMaxPlies
	}
	return &GameRunner{white: white, black: black, maxPlies: maxPlies}
}

// Play runs one game from the given FEN to its end. Failures abort the
// game and are recorded on the result rather than returned, so a batch
// caller can keep going.
func (r *GameRunner) Play(name, fen string) GameResult {
	res := GameResult{ID: shortuuid.New(), Name: name, FEN: fen}
	start := time.Now()
	nodesBefore := playerNodes(r.white, r.black)

	g, err := rules.NewGame(fen)
	if err != nil {
		res.Outcome = Aborted
		res.Err = err.Error()
		return res
	}

	sawNoMove := false
	for !g.GameOver() && g.Ply() < r.maxPlies {
		player := r.white
		mover := g.Turn()
		if mover == rules.Black {
			player = r.black
		}

		m, score, err := player.ChooseMove(g)
		if err != nil {
			res.Outcome = Aborted
			res.Err = err.Error()
			log.Err(err).Str("id", res.ID).Str("player", player.Name()).Msg("game-aborted")
			return r.finish(res, g, start, nodesBefore)
		}
		if m == nil {
			sawNoMove = true
			break
		}
		if err := g.PushMove(m); err != nil {
			res.Outcome = Aborted
			res.Err = err.Error()
			return r.finish(res, g, start, nodesBefore)
		}
		if mover == rules.White {
			res.WhiteMoves++
		} else {
			res.BlackMoves++
		}
		log.Debug().
			Str("id", res.ID).
			Str("side", mover.String()).
			Str("move", m.String()).
			Float64("score", score).
			Msg("move-played")
	}

	switch {
	case g.Checkmate():
		if g.Turn() == rules.White {
			res.Outcome = BlackWin
		} else {
			res.Outcome = WhiteWin
		}
	case g.GameOver() || sawNoMove:
		res.Outcome = Draw
	default:
		res.Outcome = Unfinished
	}
	return r.finish(res, g, start, nodesBefore)
}

func (r *GameRunner) finish(res GameResult, g *rules.Game, start time.Time, nodesBefore uint64) GameResult {
	res.FinalFEN = g.FEN()
	res.Plies = g.Ply()
	res.Nodes = playerNodes(r.white, r.black) - nodesBefore
	res.Duration = time.Since(start)
	log.Debug().
		Str("id", res.ID).
		Str("outcome", string(res.Outcome)).
		Int("plies", res.Plies).
		Msg("game-over")
	return res
}

func playerNodes(players ...Player) uint64 {
	var n uint64
	for _, p := range players {
		if nc, ok := p.(interface{ Nodes() uint64 }); ok {
			n += nc.Nodes()
		}
	}
	return n
}
