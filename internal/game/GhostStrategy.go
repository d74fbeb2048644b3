package game

// GhostStrategy picks one of the legal directions for a ghost. options is
// never empty and is ordered by the engine's tie-break priority; returning
// a direction outside options stalls the ghost for the tick.
type GhostStrategy interface {
	ChooseDirection(ghost *Ghost, options []Direction) Direction
}

// StrategyRoster alternates DefaultStrategy and AmbushStrategy across the
// ghost roster. A non-nil script replaces both.
func StrategyRoster(script GhostStrategy) func(i int) GhostStrategy {
	return func(i int) GhostStrategy {
		if script != nil {
			return script
		}
		if i%2 == 1 {
			return AmbushStrategy{}
		}
		return DefaultStrategy{}
	}
}
