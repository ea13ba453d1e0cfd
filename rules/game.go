package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/notnil/chess"
)

// StartingFEN is the standard initial position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Game implements Position on top of notnil/chess. Positions in that
// library are immutable values; applying a move yields a fresh one. So
// instead of reverse-applying moves, Game keeps a stack of positions
// and undo is a truncation. The stack doubles as the game history
// needed for repetition draws.
type Game struct {
	stack []*chess.Position
	keys  []uint64
	seen  map[uint64]int
}

// NewGame constructs a Game from a FEN string.
func NewGame(fen string) (*Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	g := &Game{seen: make(map[uint64]int)}
	g.push(chess.NewGame(opt).Position())
	return g, nil
}

// NewGameFromStart constructs a Game at the standard starting position.
func NewGameFromStart() *Game {
	g := &Game{seen: make(map[uint64]int)}
	g.push(chess.NewGame().Position())
	return g
}

// Draw renders the current board for terminal display.
func (g *Game) Draw() string {
	return g.cur().Board().Draw()
}

func (g *Game) cur() *chess.Position {
	return g.stack[len(g.stack)-1]
}

func (g *Game) push(pos *chess.Position) {
	k := positionKey(pos)
	g.stack = append(g.stack, pos)
	g.keys = append(g.keys, k)
	g.seen[k]++
}

// positionKey hashes the four position-defining FEN fields. The move
// clocks are excluded so that repeats of the same position compare
// equal, which is what the repetition rules count.
func positionKey(pos *chess.Position) uint64 {
	fields := strings.Fields(pos.String())
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return xxhash.Sum64String(strings.Join(fields, " "))
}

func (g *Game) Turn() Side {
	if g.cur().Turn() == chess.White {
		return White
	}
	return Black
}

func (g *Game) LegalMoves() []Move {
	valid := g.cur().ValidMoves()
	moves := make([]Move, len(valid))
	for i, m := range valid {
		moves[i] = m
	}
	return moves
}

// PushMove applies a move to the position. The move must be a token
// this Game handed out via LegalMoves.
func (g *Game) PushMove(m Move) error {
	cm, ok := m.(*chess.Move)
	if !ok {
		return fmt.Errorf("foreign move token %T", m)
	}
	g.push(g.cur().Update(cm))
	return nil
}

// PopMove unwinds the most recent push. Undo discipline is what makes
// sharing one Game across a whole search tree safe, so this must stay
// exactly inverse to PushMove: the repetition count recorded by the
// push is released along with the position.
func (g *Game) PopMove() error {
	if len(g.stack) <= 1 {
		return ErrNoMoveToUndo
	}
	top := len(g.stack) - 1
	k := g.keys[top]
	if g.seen[k] <= 1 {
		delete(g.seen, k)
	} else {
		g.seen[k]--
	}
	g.stack = g.stack[:top]
	g.keys = g.keys[:top]
	return nil
}

// GameOver reports mate, stalemate, and the automatic draws: fivefold
// repetition, the seventy-five-move rule, and dead positions.
func (g *Game) GameOver() bool {
	if g.cur().Status() != chess.NoMethod {
		return true
	}
	if g.seen[g.keys[len(g.keys)-1]] >= 5 {
		return true
	}
	if g.halfMoveClock() >= 150 {
		return true
	}
	return g.insufficientMaterial()
}

func (g *Game) Checkmate() bool {
	return g.cur().Status() == chess.Checkmate
}

// PieceCount counts pieces of the given kind and side on the board.
func (g *Game) PieceCount(s Side, k PieceKind) int {
	want := chess.NewPiece(pieceTypeOf(k), colorOf(s))
	board := g.cur().Board()
	n := 0
	for sq := 0; sq < 64; sq++ {
		if board.Piece(chess.Square(sq)) == want {
			n++
		}
	}
	return n
}

func (g *Game) FEN() string {
	return g.cur().String()
}

// Copy snapshots the position and its full history. Positions are
// immutable, so the stacks can share them.
func (g *Game) Copy() Position {
	ng := &Game{
		stack: append([]*chess.Position(nil), g.stack...),
		keys:  append([]uint64(nil), g.keys...),
		seen:  make(map[uint64]int, len(g.seen)),
	}
	for k, v := range g.seen {
		ng.seen[k] = v
	}
	return ng
}

// Ply returns the number of moves pushed since the game was created.
func (g *Game) Ply() int {
	return len(g.stack) - 1
}

// halfMoveClock reads the fifth FEN field. A malformed field counts as
// zero rather than failing the draw check.
func (g *Game) halfMoveClock() int {
	fields := strings.Fields(g.cur().String())
	if len(fields) < 5 {
		return 0
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0
	}
	return n
}

// insufficientMaterial detects the dead positions no sequence of legal
// moves can win: bare kings, a lone minor piece, or same-colored
// bishops only.
func (g *Game) insufficientMaterial() bool {
	board := g.cur().Board()
	knights := 0
	bishops := 0
	bishopSquareParity := -1
	bishopsSameColor := true
	for sq := 0; sq < 64; sq++ {
		p := board.Piece(chess.Square(sq))
		if p == chess.NoPiece {
			continue
		}
		switch p.Type() {
		case chess.King:
		case chess.Knight:
			knights++
		case chess.Bishop:
			bishops++
			parity := (int(chess.Square(sq).File()) + int(chess.Square(sq).Rank())) % 2
			if bishopSquareParity == -1 {
				bishopSquareParity = parity
			} else if parity != bishopSquareParity {
				bishopsSameColor = false
			}
		default:
			// Any pawn, rook or queen is mating material.
			return false
		}
	}
	if knights+bishops <= 1 {
		return true
	}
	return knights == 0 && bishopsSameColor
}

func colorOf(s Side) chess.Color {
	if s == White {
		return chess.White
	}
	return chess.Black
}

func pieceTypeOf(k PieceKind) chess.PieceType {
	switch k {
	case Pawn:
		return chess.Pawn
	case Knight:
		return chess.Knight
	case Bishop:
		return chess.Bishop
	case Rook:
		return chess.Rook
	case Queen:
		return chess.Queen
	default:
		return chess.King
	}
}
