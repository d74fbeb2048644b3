package game

// CellView is the rendered content of one cell.
type CellView struct {
	Kind       ItemKind
	Direction  Direction
	GhostState GhostState
	GhostID    int
}

// Snapshot is the read model published after every tick. It shares no
// memory with the board, so renderers may hold it across ticks.
type Snapshot struct {
	GameID     string
	PlayerName string
	MazeName   string

	Width  int
	Height int
	Cells  [][]CellView

	Score        int
	RunningScore int
	Iteration    int
	PillTimer    int
	PillMax      int
	Remaining    int
	GhostsOut    int

	Outcome   Outcome
	Reason    string
	Over      bool
	Autopilot bool
}

func (b *Board) snapshotCells() [][]CellView {
	cells := make([][]CellView, b.Height())
	for y := range cells {
		cells[y] = make([]CellView, b.Width())
		for x := range cells[y] {
			item := b.cells[y][x]
			view := CellView{Kind: item.Kind()}
			switch a := item.(type) {
			case *Pacman:
				view.Direction = a.Direction()
			case *Ghost:
				view.Direction = a.Direction()
				view.GhostState = a.State()
				view.GhostID = a.ID()
			}
			cells[y][x] = view
		}
	}
	return cells
}

func (b *Board) ghostsAwayFromHome() int {
	count := 0
	for _, g := range b.ghosts {
		if g.Piece() != g.Home() {
			count++
		}
	}
	return count
}
