package game

import "time"

const (
	GameTickDuration  = 150 * time.Millisecond
	DefaultPillMax    = 20
	AutomateMoveBurst = 100

	resultWorkerCount  = 2
	resultChannelDepth = 16
	updateChannelDepth = 64
)

// GhostStateColors maps each ghost state to the terminal color it renders with.
var GhostStateColors = map[GhostState]string{
	Chasing:    "9",
	Frightened: "33",
	Returning:  "250",
}
