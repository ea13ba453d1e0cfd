// Package rules wraps a full chess rules engine behind the narrow
// surface the search and evaluation layers consume: whose turn it is,
// legal moves, scoped apply/undo of a move, terminal detection, and
// piece counts. The engine underneath owns board representation,
// legality, and draw rules; nothing above this package should import
// it directly.
package rules

import "errors"

var (
	// ErrNoMoveToUndo is returned by PopMove when no move has been
	// pushed since the position was created.
	ErrNoMoveToUndo = errors.New("no move to undo")
	// ErrMoveNotLegal is returned when a move token does not match any
	// legal move in the current position.
	ErrMoveNotLegal = errors.New("move is not legal in this position")
)

// Side identifies one of the two players.
type Side uint8

const (
	White Side = iota
	Black
)

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == White {
		return Black
	}
	return White
}

// PieceKind identifies a kind of chess piece, independent of side.
type PieceKind uint8

const (
	Pawn PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"pawn", "knight", "bishop", "rook", "queen", "king"}

func (k PieceKind) String() string {
	if int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every piece kind, pawns first. The order is stable and
// callers may rely on it.
func Kinds() [6]PieceKind {
	return [6]PieceKind{Pawn, Knight, Bishop, Rook, Queen, King}
}

// Move is an opaque move token produced by a Position. Callers never
// decompose one; they hold it, compare it for presence, display it via
// String (long algebraic, e.g. "e2e4" or "e7e8q"), and hand it back to
// the Position that produced it.
type Move interface {
	String() string
}

// Position is a mutable game-state handle. Implementations must keep
// PushMove and PopMove strictly paired: a pop always restores the exact
// state before the matching push, so a searcher can share one Position
// across an entire recursion.
//
// A Position is not safe for concurrent use. Copy produces an
// independent snapshot for parallel branches.
type Position interface {
	// Turn reports the side to move.
	Turn() Side
	// LegalMoves enumerates the legal moves for the side to move. The
	// order is unspecified but stable for a given state.
	LegalMoves() []Move
	// PushMove applies a move obtained from LegalMoves.
	PushMove(Move) error
	// PopMove undoes the most recently pushed move.
	PopMove() error
	// GameOver reports whether the game has ended in this position,
	// whether by mate or by any draw rule.
	GameOver() bool
	// Checkmate reports whether the side to move has been mated.
	Checkmate() bool
	// PieceCount counts the pieces of one kind belonging to one side.
	PieceCount(Side, PieceKind) int
	// FEN renders the position in Forsyth-Edwards notation.
	FEN() string
	// Copy returns an independent snapshot of the position and its
	// history.
	Copy() Position
}

// FindMove resolves a long-algebraic move string ("e2e4", "e7e8q")
// against the legal moves of p.
func FindMove(p Position, uci string) (Move, error) {
	for _, m := range p.LegalMoves() {
		if m.String() == uci {
			return m, nil
		}
	}
	return nil, ErrMoveNotLegal
}
