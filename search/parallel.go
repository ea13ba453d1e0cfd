package search

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/castlegate/patzer/rules"
)

// rootParallel splits the root moves across a worker pool. Each worker
// searches its move in an independent copy of the position with the
// full window, so every root move comes back with its exact minimax
// value; picking the first strict improvement over the slice then
// selects the same move, with the same score, as the sequential loop.
func (s *Solver) rootParallel(pos rules.Position, depth int, maximizing bool) (float64, rules.Move, error) {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return s.search(pos, depth, math.Inf(-1), math.Inf(1), maximizing)
	}

	scores := make([]float64, len(moves))
	g := new(errgroup.Group)
	g.SetLimit(s.threads)
	for i, m := range moves {
		g.Go(func() error {
			child := pos.Copy()
			if err := child.PushMove(m); err != nil {
				return fmt.Errorf("push %v: %w", m, err)
			}
			score, _, err := s.search(child, depth-1, math.Inf(-1), math.Inf(1), !maximizing)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}

	bestScore := math.Inf(-1)
	if !maximizing {
		bestScore = math.Inf(1)
	}
	var bestMove rules.Move
	for i, score := range scores {
		if maximizing && score > bestScore || !maximizing && score < bestScore {
			bestScore = score
			bestMove = moves[i]
		}
	}
	return bestScore, bestMove, nil
}
