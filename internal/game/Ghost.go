package game

type GhostState int

const (
	Chasing GhostState = iota
	Frightened
	Returning
)

func (s GhostState) String() string {
	switch s {
	case Frightened:
		return "frightened"
	case Returning:
		return "returning"
	default:
		return "chasing"
	}
}

type Ghost struct {
	agent
	id       int
	home     *Piece
	state    GhostState
	strategy GhostStrategy
}

func newGhost(b *Board, id int, home *Piece, strategy GhostStrategy) *Ghost {
	return &Ghost{
		agent:    agent{board: b, piece: home, direction: None},
		id:       id,
		home:     home,
		state:    Chasing,
		strategy: strategy,
	}
}

func (g *Ghost) Kind() ItemKind { return KindGhost }

func (g *Ghost) ID() int { return g.id }

func (g *Ghost) Home() *Piece { return g.home }

func (g *Ghost) State() GhostState { return g.state }

func (g *Ghost) Board() *Board { return g.board }

func (g *Ghost) Strategy() GhostStrategy { return g.strategy }

// IsLethal reports whether touching Pacman ends the game.
func (g *Ghost) IsLethal() bool { return g.state == Chasing }

// GotoTimeout sends the ghost home. A ghost already returning is left alone.
func (g *Ghost) GotoTimeout() {
	g.state = Returning
}

// displaceTo moves an eaten ghost onto a free cell without touching the
// cell it came from, which Pacman has already claimed.
func (g *Ghost) displaceTo(piece *Piece) {
	g.setPiece(piece, None)
	g.board.SetOccupant(piece.Cell, g)
}

// updateState applies the timer-driven transitions before a move.
func (g *Ghost) updateState() {
	if g.state == Returning {
		if g.piece != g.home {
			return
		}
		g.state = Chasing
	}
	if g.board.PillTimer() > 0 {
		g.state = Frightened
	} else {
		g.state = Chasing
	}
}

// LegalOptions lists open neighbors in tie-break order. Cells held by other
// ghosts are never legal; Pacman's cell is not legal while returning.
func (g *Ghost) LegalOptions() []Direction {
	var options []Direction
	for _, d := range moveOrder {
		next := g.piece.Neighbor(d)
		if next == nil {
			continue
		}
		switch g.board.OccupantAt(next.Cell).(type) {
		case *Ghost:
			continue
		case *Pacman:
			if g.state == Returning {
				continue
			}
		}
		options = append(options, d)
	}
	return options
}

func (g *Ghost) GetNextMove() (Move, bool) {
	options := g.LegalOptions()
	if len(options) == 0 {
		return Move{}, false
	}
	d := g.strategy.ChooseDirection(g, options)
	if !containsDirection(options, d) {
		return Move{}, false
	}
	return Move{Piece: g.piece.Neighbor(d), Direction: d}, true
}

func (g *Ghost) takeTurn() {
	g.updateState()
	if move, ok := g.GetNextMove(); ok {
		g.Move(move)
	}
}

// Move applies a ghost move. Reaching Pacman either ends the game or, when
// frightened, gets the ghost eaten in place.
func (g *Ghost) Move(move Move) {
	if move.Piece == nil {
		return
	}
	dest := move.Piece.Cell
	occupant := g.board.OccupantAt(dest)

	switch occupant.(type) {
	case *Pacman:
		switch g.state {
		case Chasing:
			g.board.finish(Lost, ReasonCaught)
		case Frightened:
			g.GotoTimeout()
		}
		return
	case *Ghost:
		return
	}

	under := KindEmpty
	if occupant != nil {
		under = occupant.Kind()
	}
	g.vacate()
	g.board.SetBackgroundItem(dest, under)
	g.occupy(g, move)
}

func containsDirection(options []Direction, d Direction) bool {
	for _, o := range options {
		if o == d {
			return true
		}
	}
	return false
}
