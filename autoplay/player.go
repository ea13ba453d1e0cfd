package autoplay

import (
	"fmt"
	"strconv"
	"strings"

	"lukechampine.com/frand"

	"github.com/castlegate/patzer/eval"
	"github.com/castlegate/patzer/rules"
	"github.com/castlegate/patzer/search"
)

// Player picks a move for the side to move. A nil move with a nil
// error means the player sees no legal move and the game is over.
type Player interface {
	Name() string
	ChooseMove(pos rules.Position) (rules.Move, float64, error)
}

// NewPlayer builds a player from a spec string: "minimax" (searching at
// depth), "minimax:N" (overriding it), "random", or "first".
func NewPlayer(spec string, depth, threads int) (Player, error) {
	name, arg, _ := strings.Cut(spec, ":")
	switch name {
	case "minimax":
		if arg != "" {
			d, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("bad depth in player spec %q: %w", spec, err)
			}
			depth = d
		}
		s := new(search.Solver)
		if err := s.Init(eval.Material{}); err != nil {
			return nil, err
		}
		s.SetThreads(threads)
		return &minimaxPlayer{solver: s, depth: depth}, nil
	case "random":
		return randomPlayer{}, nil
	case "first":
		return firstMovePlayer{}, nil
	}
	return nil, fmt.Errorf("unknown player spec %q", spec)
}

type minimaxPlayer struct {
	solver *search.Solver
	depth  int
	nodes  uint64
}

func (p *minimaxPlayer) Name() string {
	return fmt.Sprintf("minimax:%d", p.depth)
}

func (p *minimaxPlayer) ChooseMove(pos rules.Position) (rules.Move, float64, error) {
	score, m, err := p.solver.FindBestMove(pos, p.depth)
	if err != nil {
		return nil, 0, err
	}
	p.nodes += p.solver.Nodes()
	return m, score, nil
}

// Nodes reports the total nodes searched across every move so far.
func (p *minimaxPlayer) Nodes() uint64 {
	return p.nodes
}

type randomPlayer struct{}

func (randomPlayer) Name() string { return "random" }

func (randomPlayer) ChooseMove(pos rules.Position) (rules.Move, float64, error) {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return nil, 0, nil
	}
	return moves[frand.Intn(len(moves))], 0, nil
}

type firstMovePlayer struct{}

func (firstMovePlayer) Name() string { return "first" }

func (firstMovePlayer) ChooseMove(pos rules.Position) (rules.Move, float64, error) {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return nil, 0, nil
	}
	return moves[0], 0, nil
}
