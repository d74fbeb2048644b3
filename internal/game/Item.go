package game

type ItemKind int

const (
	KindEmpty ItemKind = iota
	KindBiscuit
	KindPill
	KindGhost
	KindPacman
	KindWall
)

var itemKindNames = map[ItemKind]string{
	KindEmpty:   "empty",
	KindBiscuit: "biscuit",
	KindPill:    "pill",
	KindGhost:   "ghost",
	KindPacman:  "pacman",
	KindWall:    "wall",
}

func (k ItemKind) String() string {
	if name, ok := itemKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Kind lets a bare ItemKind sit on the board as a static occupant.
func (k ItemKind) Kind() ItemKind { return k }

// Points is the score delta for moving onto an occupant of this kind.
func (k ItemKind) Points() int {
	switch k {
	case KindBiscuit, KindPill:
		return 1
	case KindGhost:
		return -2
	default:
		return 0
	}
}

func (k ItemKind) IsConsumable() bool {
	return k == KindBiscuit || k == KindPill
}

// Item is anything that can occupy a board cell.
type Item interface {
	Kind() ItemKind
}

// Move is a resolved decision: the destination piece and the heading used
// to reach it.
type Move struct {
	Piece     *Piece
	Direction Direction
}

// agent carries the state shared by every movable occupant.
type agent struct {
	board     *Board
	piece     *Piece
	direction Direction
}

func (a *agent) Piece() *Piece { return a.piece }

func (a *agent) Cell() Cell { return a.piece.Cell }

func (a *agent) Direction() Direction { return a.direction }

// setPiece records the agent's position only; the board is untouched.
func (a *agent) setPiece(piece *Piece, direction Direction) {
	a.piece = piece
	a.direction = direction
}

// vacate restores the background item of the agent's current cell.
func (a *agent) vacate() {
	a.board.FillBackgroundItem(a.piece.Cell)
}

func (a *agent) occupy(self Item, move Move) {
	a.setPiece(move.Piece, move.Direction)
	a.board.SetOccupant(move.Piece.Cell, self)
}
