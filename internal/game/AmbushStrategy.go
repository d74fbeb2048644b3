package game

const (
	defaultAmbushLookahead = 4
	ambushCloseRange       = 2
)

// AmbushStrategy chases the cell a few steps ahead of Pacman instead of
// Pacman itself, cutting it off at corridor exits. Close in, it goes for
// Pacman directly. Frightened and returning behavior is DefaultStrategy's.
type AmbushStrategy struct {
	DefaultStrategy
	Lookahead int
}

func (s AmbushStrategy) ChooseDirection(ghost *Ghost, options []Direction) Direction {
	if ghost.State() != Chasing {
		return s.DefaultStrategy.ChooseDirection(ghost, options)
	}

	pacman := ghost.Board().Pacman()
	if GetManhattanDistance(ghost.Cell(), pacman.Cell()) <= ambushCloseRange {
		return closestTo(ghost, options, pacman.Piece())
	}
	return closestTo(ghost, options, s.ambushTarget(pacman))
}

// ambushTarget follows Pacman's heading along open pieces and stops at the
// first wall.
func (s AmbushStrategy) ambushTarget(pacman *Pacman) *Piece {
	lookahead := s.Lookahead
	if lookahead <= 0 {
		lookahead = defaultAmbushLookahead
	}
	target := pacman.Piece()
	for i := 0; i < lookahead; i++ {
		next := target.Neighbor(pacman.Direction())
		if next == nil {
			break
		}
		target = next
	}
	return target
}
