package game

// DefaultStrategy steers by BFS distance over the maze topology: toward
// Pacman while chasing, away from Pacman while frightened, toward home while
// returning.
type DefaultStrategy struct{}

func (s DefaultStrategy) ChooseDirection(ghost *Ghost, options []Direction) Direction {
	board := ghost.Board()
	switch ghost.State() {
	case Returning:
		return closestTo(ghost, options, ghost.Home())
	case Frightened:
		return s.flee(ghost, options, board.Pacman().Piece())
	default:
		return closestTo(ghost, options, board.Pacman().Piece())
	}
}

// closestTo returns the option with the smallest distance to target. The
// first option wins ties and is the fallback when target is unreachable.
func closestTo(ghost *Ghost, options []Direction, target *Piece) Direction {
	if len(options) == 0 {
		return None
	}
	distMap := distanceMapFrom(ghost.Board().Topology(), target)
	best := options[0]
	bestDist := -1
	for _, d := range options {
		dist := distMap.At(ghost.Piece().Neighbor(d).Cell)
		if dist < 0 {
			continue
		}
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			best = d
		}
	}
	return best
}

// flee maximizes distance from threat and only reverses when nothing else
// is open.
func (s DefaultStrategy) flee(ghost *Ghost, options []Direction, threat *Piece) Direction {
	if len(options) == 0 {
		return None
	}
	candidates := make([]Direction, 0, len(options))
	for _, d := range options {
		if ghost.Direction() != None && d == ghost.Direction().Opposite() {
			continue
		}
		candidates = append(candidates, d)
	}
	if len(candidates) == 0 {
		candidates = options
	}

	distMap := distanceMapFrom(ghost.Board().Topology(), threat)
	best := candidates[0]
	bestDist := -2
	for _, d := range candidates {
		dist := distMap.At(ghost.Piece().Neighbor(d).Cell)
		if dist < 0 {
			// cut off from pacman entirely, nothing is safer
			return d
		}
		if dist > bestDist {
			bestDist = dist
			best = d
		}
	}
	return best
}
