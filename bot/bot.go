// Package bot answers best-move requests over NATS. Requests and
// replies are small JSON messages so anything that can talk to the
// broker can ask for a move.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/castlegate/patzer/config"
	"github.com/castlegate/patzer/eval"
	"github.com/castlegate/patzer/rules"
	"github.com/castlegate/patzer/search"
)

// MateScore stands in for an infinite score on the wire, since JSON
// has no encoding for infinities.
const MateScore = 1e9

// Request asks for the best move in a position. A zero depth means the
// bot's configured default.
type Request struct {
	FEN   string `json:"fen"`
	Depth int    `json:"depth,omitempty"`
}

// Response carries the search result. Score is positive when Black is
// better. Move is empty when the side to move has no legal move; Mate
// says whether that is because it is checkmated.
type Response struct {
	Score     float64 `json:"score"`
	Move      string  `json:"move,omitempty"`
	Mate      bool    `json:"mate,omitempty"`
	Nodes     uint64  `json:"nodes"`
	ElapsedMs int64   `json:"elapsed_ms"`
	Error     string  `json:"error,omitempty"`
}

// Bot owns a solver and a NATS connection.
type Bot struct {
	cfg    *config.Config
	nc     *nats.Conn
	solver *search.Solver
}

func NewBot(cfg *config.Config) (*Bot, error) {
	s := new(search.Solver)
	if err := s.Init(eval.Material{}); err != nil {
		return nil, err
	}
	s.SetThreads(cfg.GetInt("threads"))
	return &Bot{cfg: cfg, solver: s}, nil
}

// Connect dials the NATS server, retrying with backoff so the bot can
// start before the broker does.
func (b *Bot) Connect() error {
	url := b.cfg.GetString("nats-url")
	return retry.Do(
		func() error {
			nc, err := nats.Connect(url)
			if err != nil {
				return err
			}
			b.nc = nc
			return nil
		},
		retry.Attempts(5),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("url", url).
				Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func errorResponse(message string, err error) Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return Response{Error: msg}
}

func (b *Bot) handle(data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("could not parse request", err)
	}
	g, err := rules.NewGame(req.FEN)
	if err != nil {
		return errorResponse("could not load position", err)
	}
	depth := req.Depth
	if depth <= 0 {
		depth = b.cfg.GetInt("depth")
	}

	start := time.Now()
	score, m, err := b.solver.FindBestMove(g, depth)
	if err != nil {
		return errorResponse("search failed", err)
	}
	resp := Response{
		Score:     score,
		Nodes:     b.solver.Nodes(),
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	if m != nil {
		resp.Move = m.String()
	} else if g.Checkmate() {
		resp.Mate = true
	}
	switch {
	case math.IsInf(score, 1):
		resp.Score = MateScore
	case math.IsInf(score, -1):
		resp.Score = -MateScore
	}
	return resp
}

// Listen subscribes on the configured subject and answers requests
// until ctx is cancelled.
func (b *Bot) Listen(ctx context.Context) error {
	subject := b.cfg.GetString("bot-subject")
	sub, err := b.nc.Subscribe(subject, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("recv")
		resp := b.handle(m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			m.Respond([]byte(err.Error()))
			return
		}
		m.Respond(data)
	})
	if err != nil {
		return err
	}
	if err := b.nc.Flush(); err != nil {
		return err
	}
	log.Info().Str("subject", subject).Msg("listening")

	<-ctx.Done()
	sub.Drain()
	return b.nc.Drain()
}
