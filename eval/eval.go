// Package eval implements static position evaluation for the searcher.
package eval

import "github.com/castlegate/patzer/rules"

// Evaluator assigns a signed score to a position. Positive scores favor
// Black; Black is the maximizing side everywhere in this engine, and
// the searcher depends on every Evaluator honoring that convention.
// Evaluate must be pure: no mutation of the position, no state carried
// between calls. It may be called concurrently on independent position
// copies, never on one shared mutable position.
type Evaluator interface {
	Evaluate(p rules.Position) float64
}

// PieceCountWeight multiplies the per-kind piece count differential.
const PieceCountWeight = 10

// pieceValues indexed by rules.PieceKind. The king carries no material
// value; losing it ends the game before evaluation would notice.
var pieceValues = [6]float64{
	rules.Pawn:   1,
	rules.Knight: 3,
	rules.Bishop: 3,
	rules.Rook:   5,
	rules.Queen:  9,
	rules.King:   0,
}

// Material scores positions from piece counts alone: a piece-count
// differential term plus a canonical piece-value term. The count term
// is taken from Black's perspective and the value term from White's;
// both are kept exactly as is.
type Material struct{}

func (Material) Evaluate(p rules.Position) float64 {
	countDiff := 0
	var material float64
	for _, k := range rules.Kinds() {
		white := p.PieceCount(rules.White, k)
		black := p.PieceCount(rules.Black, k)
		countDiff += black - white
		material += pieceValues[k] * float64(white-black)
	}
	return float64(countDiff)*PieceCountWeight + material
}
