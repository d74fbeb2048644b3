package game

import "fmt"

type Outcome int

const (
	InProgress Outcome = iota
	Won
	Lost
)

const (
	ReasonCaught  = "caught"
	ReasonCleared = "cleared"
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "in progress"
	}
}

// StateInconsistencyError marks a broken occupancy invariant. It is raised
// with panic from Advance because it can only come from an engine defect.
type StateInconsistencyError struct {
	Cell Cell
	Msg  string
}

func (e *StateInconsistencyError) Error() string {
	return fmt.Sprintf("state inconsistency at (%d,%d): %s", e.Cell.X, e.Cell.Y, e.Msg)
}

// Board owns the occupancy grid, the background grid and the pill timer.
// It is not safe for concurrent use; a single driver goroutine advances it.
type Board struct {
	topology   *Topology
	cells      [][]Item
	background [][]ItemKind

	pillTimer int
	pillMax   int

	pacman *Pacman
	ghosts []*Ghost

	ticks   int
	outcome Outcome
	reason  string
}

// NewBoard lays out the maze and creates the agents on their start cells.
// strategyFor picks the targeting strategy of the i-th ghost; nil means
// DefaultStrategy for every ghost.
func NewBoard(maze *Maze, strategyFor func(i int) GhostStrategy) (*Board, error) {
	if maze == nil {
		return nil, configErrorf("", "no maze supplied")
	}
	topology := NewTopology(maze)

	b := &Board{
		topology: topology,
		pillMax:  maze.PillMax,
	}
	if b.pillMax < 1 {
		b.pillMax = DefaultPillMax
	}

	b.cells = make([][]Item, maze.Height)
	b.background = make([][]ItemKind, maze.Height)
	for y := 0; y < maze.Height; y++ {
		b.cells[y] = make([]Item, maze.Width)
		b.background[y] = make([]ItemKind, maze.Width)
		for x := 0; x < maze.Width; x++ {
			b.cells[y][x] = maze.Layout[y][x]
			b.background[y][x] = KindEmpty
		}
	}

	start := topology.PieceAt(maze.PacmanStart)
	if start == nil {
		return nil, configErrorf(maze.Name, "pacman start (%d,%d) is not walkable", maze.PacmanStart.X, maze.PacmanStart.Y)
	}
	b.pacman = newPacman(b, start)
	b.SetOccupant(start.Cell, b.pacman)

	for i, c := range maze.GhostStarts {
		home := topology.PieceAt(c)
		if home == nil || b.OccupantAt(c).Kind() != KindEmpty {
			return nil, configErrorf(maze.Name, "ghost start (%d,%d) is not free", c.X, c.Y)
		}
		var strategy GhostStrategy
		if strategyFor != nil {
			strategy = strategyFor(i)
		}
		if strategy == nil {
			strategy = DefaultStrategy{}
		}
		ghost := newGhost(b, i, home, strategy)
		b.ghosts = append(b.ghosts, ghost)
		b.SetOccupant(c, ghost)
	}

	return b, nil
}

func (b *Board) Width() int { return b.topology.Width }
func (b *Board) Height() int { return b.topology.Height }
func (b *Board) Topology() *Topology { return b.topology }
func (b *Board) Pacman() *Pacman { return b.pacman }
func (b *Board) Ghosts() []*Ghost { return b.ghosts }
func (b *Board) PillTimer() int { return b.pillTimer }
func (b *Board) PillMax() int { return b.pillMax }
func (b *Board) Ticks() int { return b.ticks }
func (b *Board) Outcome() Outcome { return b.outcome }
func (b *Board) Reason() string { return b.reason }
func (b *Board) Over() bool { return b.outcome != InProgress }

func (b *Board) inBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < b.Width() && c.Y < b.Height()
}

// OccupantAt returns nil only for out-of-bounds cells.
func (b *Board) OccupantAt(c Cell) Item {
	if !b.inBounds(c) {
		return nil
	}
	return b.cells[c.Y][c.X]
}

func (b *Board) SetOccupant(c Cell, item Item) {
	if !b.inBounds(c) {
		return
	}
	b.cells[c.Y][c.X] = item
}

// SetBackgroundItem records what the cell shows once its agent leaves.
func (b *Board) SetBackgroundItem(c Cell, kind ItemKind) {
	if !b.inBounds(c) {
		return
	}
	b.background[c.Y][c.X] = kind
}

// FillBackgroundItem puts the recorded background back as the occupant.
func (b *Board) FillBackgroundItem(c Cell) {
	if !b.inBounds(c) {
		return
	}
	b.cells[c.Y][c.X] = b.background[c.Y][c.X]
}

func (b *Board) BackgroundAt(c Cell) ItemKind {
	if !b.inBounds(c) {
		return KindEmpty
	}
	return b.background[c.Y][c.X]
}

func (b *Board) resetPillTimer() {
	b.pillTimer = b.pillMax
}

func (b *Board) decayPillTimer() {
	b.pillTimer = max(0, b.pillTimer-1)
}

func (b *Board) finish(outcome Outcome, reason string) {
	if b.outcome != InProgress {
		return
	}
	b.outcome = outcome
	b.reason = reason
}

// Advance runs one tick with Pacman steered by its buffered keyboard input.
func (b *Board) Advance() {
	b.advance(false)
}

// AutoAdvance runs one tick with Pacman steered by the heuristic chooser.
func (b *Board) AutoAdvance() {
	b.advance(true)
}

func (b *Board) advance(autoplay bool) {
	if b.Over() {
		return
	}
	b.ticks++
	b.decayPillTimer()
	// pacman must see the state matching this tick's timer
	for _, ghost := range b.ghosts {
		ghost.updateState()
	}

	b.pacman.takeTurn(autoplay)
	if !b.Over() && b.RemainingConsumables() == 0 {
		b.finish(Won, ReasonCleared)
	}

	for _, ghost := range b.ghosts {
		if b.Over() {
			break
		}
		ghost.takeTurn()
	}

	if err := b.Verify(); err != nil {
		panic(err)
	}
}

// RemainingConsumables counts biscuits and pills still on the board,
// including the ones a ghost is standing on.
func (b *Board) RemainingConsumables() int {
	count := 0
	for y, row := range b.cells {
		for x, item := range row {
			switch item.Kind() {
			case KindBiscuit, KindPill:
				count++
			case KindGhost:
				if b.background[y][x].IsConsumable() {
					count++
				}
			}
		}
	}
	return count
}

// Verify checks that every agent sits on exactly the cell it records and
// that no agent appears twice.
func (b *Board) Verify() error {
	seen := make(map[Item]Cell)
	for y, row := range b.cells {
		for x, item := range row {
			c := Cell{X: x, Y: y}
			var recorded Cell
			switch a := item.(type) {
			case *Pacman:
				recorded = a.Cell()
			case *Ghost:
				recorded = a.Cell()
			default:
				continue
			}
			if prev, dup := seen[item]; dup {
				return &StateInconsistencyError{Cell: c, Msg: fmt.Sprintf("%s also occupies (%d,%d)", item.Kind(), prev.X, prev.Y)}
			}
			seen[item] = c
			if recorded != c {
				return &StateInconsistencyError{Cell: c, Msg: fmt.Sprintf("%s records (%d,%d)", item.Kind(), recorded.X, recorded.Y)}
			}
		}
	}

	if _, ok := seen[b.pacman]; !ok {
		return &StateInconsistencyError{Cell: b.pacman.Cell(), Msg: "pacman missing from grid"}
	}
	for _, g := range b.ghosts {
		if _, ok := seen[g]; !ok {
			return &StateInconsistencyError{Cell: g.Cell(), Msg: fmt.Sprintf("ghost %d missing from grid", g.ID())}
		}
	}
	return nil
}
