package game

type Direction int

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// moveOrder is the fixed enumeration used for every tie-break in the engine.
// Reordering it changes which of two equally valued moves wins.
var moveOrder = []Direction{Up, Right, Left, Down}

var directionNames = map[Direction]string{
	None:  "none",
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "unknown"
}

func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}

// ParseDirection is the inverse of Direction.String.
func ParseDirection(name string) (Direction, bool) {
	for d, n := range directionNames {
		if n == name {
			return d, true
		}
	}
	return None, false
}

// KeyToDirection maps terminal key names to steering directions.
var KeyToDirection = map[string]Direction{
	"up":    Up,
	"w":     Up,
	"down":  Down,
	"s":     Down,
	"left":  Left,
	"a":     Left,
	"right": Right,
	"d":     Right,
}

type Cell struct {
	X, Y int
}

func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

func GetManhattanDistance(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
