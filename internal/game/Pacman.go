package game

import "sort"

// standStillValue ranks the synthetic "none" option below any single
// neighbor that is not actively dangerous.
const standStillValue = -4

type Pacman struct {
	agent
	desiredMove Direction
	score       int
}

func newPacman(b *Board, start *Piece) *Pacman {
	return &Pacman{agent: agent{board: b, piece: start, direction: None}}
}

func (p *Pacman) Kind() ItemKind { return KindPacman }

func (p *Pacman) Score() int { return p.score }

func (p *Pacman) ResetScore() { p.score = 0 }

func (p *Pacman) DesiredMove() Direction { return p.desiredMove }

// SetDesiredMove buffers a turn request. Only the latest unconsumed request
// survives; None clears it.
func (p *Pacman) SetDesiredMove(d Direction) {
	p.desiredMove = d
}

// GetNextMove honors a buffered turn at the first legal opportunity and
// otherwise keeps going straight. A blocked buffered turn stays buffered.
func (p *Pacman) GetNextMove() (Move, bool) {
	if p.desiredMove != None {
		if next := p.piece.Neighbor(p.desiredMove); next != nil {
			move := Move{Piece: next, Direction: p.desiredMove}
			p.desiredMove = None
			return move, true
		}
	}

	if p.direction != None {
		if next := p.piece.Neighbor(p.direction); next != nil {
			return Move{Piece: next, Direction: p.direction}, true
		}
	}

	return Move{}, false
}

type moveValue struct {
	direction Direction
	value     int
}

// GetBestMove scores up, right, left, down and standing still, then takes
// the single top-ranked option. If that option is blocked it reports no
// move rather than falling back to the next one.
func (p *Pacman) GetBestMove() (Move, bool) {
	here := p.Cell()
	candidates := make([]moveValue, 0, len(moveOrder)+1)
	for _, d := range moveOrder {
		candidates = append(candidates, moveValue{direction: d, value: p.getMoveValue(here.Step(d), d)})
	}
	candidates = append(candidates, moveValue{direction: None, value: standStillValue})

	best := pickBestMove(candidates)
	if next := p.piece.Neighbor(best); next != nil {
		return Move{Piece: next, Direction: best}, true
	}
	return Move{}, false
}

// pickBestMove sorts by value descending; the stable sort keeps the
// enumeration order for equal values.
func pickBestMove(candidates []moveValue) Direction {
	if len(candidates) == 0 {
		return None
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value > candidates[j].value
	})
	return candidates[0].direction
}

func (p *Pacman) getMoveValue(dest Cell, d Direction) int {
	return getItemValue(p.board.OccupantAt(dest)) + getAdjacentItemValue(p.board.OccupantAt(dest.Step(d)))
}

func getItemValue(item Item) int {
	if item == nil {
		return 0
	}
	switch item.Kind() {
	case KindGhost:
		return -2
	case KindBiscuit, KindPill:
		return 1
	case KindEmpty:
		return 0
	default:
		return -2
	}
}

func getAdjacentItemValue(item Item) int {
	if item == nil {
		return 0
	}
	switch item.Kind() {
	case KindGhost:
		return -1
	case KindBiscuit, KindPill:
		return 1
	default:
		return 0
	}
}

func (p *Pacman) takeTurn(autoplay bool) {
	var move Move
	var ok bool
	if autoplay {
		move, ok = p.GetBestMove()
	} else {
		move, ok = p.GetNextMove()
	}
	if ok {
		p.Move(move)
	}
}

// Move applies a resolved move. The destination occupant is credited before
// anything overwrites it, then pill and ghost effects run, then Pacman
// leaves its cell and takes the new one.
func (p *Pacman) Move(move Move) {
	if move.Piece == nil {
		return
	}
	dest := move.Piece.Cell
	occupant := p.board.OccupantAt(dest)

	// a returning ghost is already in timeout: it neither kills nor feeds
	if ghost, ok := occupant.(*Ghost); ok && ghost.State() == Returning {
		return
	}

	var eaten *Ghost
	if occupant != nil {
		p.score += occupant.Kind().Points()
		switch occupant.Kind() {
		case KindPill:
			p.board.resetPillTimer()
		case KindGhost:
			ghost := occupant.(*Ghost)
			if ghost.IsLethal() {
				p.board.finish(Lost, ReasonCaught)
				return
			}
			ghost.GotoTimeout()
			eaten = ghost
		}
	}

	vacated := p.piece
	p.board.SetBackgroundItem(vacated.Cell, KindEmpty)
	p.vacate()
	p.occupy(p, move)

	if eaten != nil {
		eaten.displaceTo(vacated)
	}
}
