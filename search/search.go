// Package search implements depth-limited minimax with alpha-beta
// pruning over the rules engine, plus the move selection contract
// built on top of it.
package search

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/castlegate/patzer/eval"
	"github.com/castlegate/patzer/rules"
)

// thanks Wikipedia:
/**function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            play(child)
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            unplayLastMove()
            α := max(α, value)
            if α ≥ β then
                break (* β cut-off *)
        return value
    else
        (mirrored for the minimizing player)
(* Initial call *)
alphabeta(origin, depth, −∞, +∞, TRUE)
**/

// Infinity is the score of a game already won by the maximizing side.
// Static evaluations are always finite; only the checkmate correction
// in FindBestMove produces the infinities.
var Infinity = math.Inf(1)

// ErrInvalidDepth is returned for searches requested at negative depth.
var ErrInvalidDepth = errors.New("search depth must not be negative")

// Solver implements the minimax + alphabeta algorithm. Black is always
// the maximizing side, matching the evaluator's sign convention. A
// Solver is not safe for concurrent use; the parallelism knob below
// splits the root internally instead.
type Solver struct {
	evaluator  eval.Evaluator
	threads    int
	totalNodes atomic.Uint64
}

// Init prepares the solver with the evaluator it scores leaves with.
func (s *Solver) Init(ev eval.Evaluator) error {
	if ev == nil {
		return errors.New("solver requires an evaluator")
	}
	s.evaluator = ev
	s.threads = 1
	return nil
}

// SetThreads sets the number of workers used to split the root moves.
// Values below 2 keep the search fully sequential.
func (s *Solver) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	s.threads = n
}

// Nodes returns the number of nodes visited by the last search.
func (s *Solver) Nodes() uint64 {
	return s.totalNodes.Load()
}

// FindBestMove searches the position to the given depth and returns the
// best move for the side to move with its score. A nil move with a nil
// error means the game is over in this position (or depth was zero);
// callers distinguish mate from draw via the rules engine, the score
// already carries the checkmate correction.
func (s *Solver) FindBestMove(pos rules.Position, depth int) (float64, rules.Move, error) {
	if depth < 0 {
		return 0, nil, ErrInvalidDepth
	}
	maximizing := pos.Turn() == rules.Black
	log.Debug().
		Int("depth", depth).
		Int("threads", s.threads).
		Bool("maximizing", maximizing).
		Msg("search-config")
	s.totalNodes.Store(0)
	start := time.Now()

	var (
		score float64
		m     rules.Move
		err   error
	)
	if s.threads > 1 && depth > 0 && !pos.GameOver() {
		score, m, err = s.rootParallel(pos, depth, maximizing)
	} else {
		score, m, err = s.search(pos, depth, math.Inf(-1), math.Inf(1), maximizing)
	}
	if err != nil {
		log.Err(err).Msg("search-error")
		return 0, nil, err
	}

	// The recursion scores a terminal leaf statically, so a position
	// that is already mate comes back as a plain material count. Patch
	// the score up to the win/loss sentinel here.
	if m == nil && pos.Checkmate() {
		if pos.Turn() == rules.White {
			score = -Infinity
		} else {
			score = Infinity
		}
	}

	log.Debug().
		Float64("score", score).
		Uint64("nodes", s.totalNodes.Load()).
		Float64("time-elapsed-sec", time.Since(start).Seconds()).
		Msg("search-returning")
	return score, m, nil
}

// search recursively explores the move tree. Preconditions: depth >= 0
// and alpha <= beta; both hold for every call FindBestMove makes.
// Values propagated upward are always finite because terminal leaves
// are evaluated statically.
func (s *Solver) search(pos rules.Position, depth int, alpha, beta float64,
	maximizing bool) (float64, rules.Move, error) {

	s.totalNodes.Add(1)
	if depth == 0 || pos.GameOver() {
		return s.evaluator.Evaluate(pos), nil, nil
	}

	bestScore := math.Inf(-1)
	if !maximizing {
		bestScore = math.Inf(1)
	}
	var bestMove rules.Move

	// Moves are tried in rules-engine order. Only a strictly better
	// score displaces the incumbent, so the first move reaching the
	// final score is the one returned.
	for _, m := range pos.LegalMoves() {
		score, err := s.searchChild(pos, m, depth-1, alpha, beta, !maximizing)
		if err != nil {
			return 0, nil, err
		}
		if maximizing {
			if score > bestScore {
				bestScore = score
				bestMove = m
				alpha = max(alpha, bestScore)
				if alpha >= beta {
					break
				}
			}
		} else {
			if score < bestScore {
				bestScore = score
				bestMove = m
				beta = min(beta, bestScore)
				if alpha >= beta {
					break
				}
			}
		}
	}
	return bestScore, bestMove, nil
}

// searchChild plays m, searches beneath it, and undoes the move. The
// deferred pop is what keeps the shared position intact on every exit
// path, including a failure inside the child search.
func (s *Solver) searchChild(pos rules.Position, m rules.Move, depth int,
	alpha, beta float64, maximizing bool) (score float64, err error) {

	if err = pos.PushMove(m); err != nil {
		return 0, fmt.Errorf("push %v: %w", m, err)
	}
	defer func() {
		if perr := pos.PopMove(); perr != nil && err == nil {
			err = fmt.Errorf("pop %v: %w", m, perr)
		}
	}()
	score, _, err = s.search(pos, depth, alpha, beta, maximizing)
	return score, err
}
