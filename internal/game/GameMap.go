package game

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidMaze is wrapped by every ConfigError.
var ErrInvalidMaze = errors.New("invalid maze")

// ConfigError reports a maze definition that cannot start a game.
type ConfigError struct {
	Maze string
	Msg  string
}

func (e *ConfigError) Error() string {
	if e.Maze == "" {
		return fmt.Sprintf("maze config: %s", e.Msg)
	}
	return fmt.Sprintf("maze config %q: %s", e.Maze, e.Msg)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidMaze }

func configErrorf(maze, format string, args ...any) error {
	return &ConfigError{Maze: maze, Msg: fmt.Sprintf(format, args...)}
}

// Maze is a parsed layout. Layout holds only static kinds (Wall, Biscuit,
// Pill, Empty); agent start cells are recorded separately and are Empty.
type Maze struct {
	Name        string
	Width       int
	Height      int
	PillMax     int
	Layout      [][]ItemKind
	PacmanStart Cell
	GhostStarts []Cell
}

const defaultMazeText = `name: Classic
################
#*.....##.....*#
#.###.#..#.###.#
#.....#..#.....#
###.#......#.###
#...#.#GG#.#...#
#.#...#  #...#.#
#.#.###..###.#.#
#......P.......#
#.###.####.###.#
#...#......#...#
###.#.####.#.###
#.....#..#.....#
#.###.#..#.###.#
#*............*#
################`

// DefaultMaze returns the built-in 16x16 layout.
func DefaultMaze() *Maze {
	m, err := ParseMaze(strings.Split(defaultMazeText, "\n"))
	if err != nil {
		panic(err)
	}
	return m
}

// LoadMaze returns the first maze in filename, or the built-in maze when
// filename is empty.
func LoadMaze(filename string) (*Maze, error) {
	if filename == "" {
		return DefaultMaze(), nil
	}
	mazes, err := LoadMazesFromFile(filename)
	if err != nil {
		return nil, err
	}
	return mazes[0], nil
}

func LoadMazesFromFile(filename string) ([]*Maze, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open maze file: %w", err)
	}
	defer file.Close()

	var mazes []*Maze
	var currentLines []string
	flush := func() error {
		if len(currentLines) == 0 {
			return nil
		}
		m, err := ParseMaze(currentLines)
		if err != nil {
			return err
		}
		mazes = append(mazes, m)
		currentLines = nil
		return nil
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if strings.TrimSpace(line) != "" {
			currentLines = append(currentLines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read maze file: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(mazes) == 0 {
		return nil, configErrorf(filename, "no mazes found")
	}
	for i, m := range mazes[1:] {
		if m.Width != mazes[0].Width || m.Height != mazes[0].Height {
			return nil, configErrorf(m.Name, "maze %d is %dx%d, first maze is %dx%d",
				i+2, m.Width, m.Height, mazes[0].Width, mazes[0].Height)
		}
	}

	return mazes, nil
}

func parseMetaLine(line string) (key, value string, ok bool) {
	idx := strings.IndexAny(line, ":=")
	if idx == -1 {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(line[:idx])), strings.TrimSpace(line[idx+1:]), true
}

// ParseMaze builds a Maze from metadata lines followed by grid rows.
func ParseMaze(lines []string) (*Maze, error) {
	m := &Maze{PillMax: DefaultPillMax}
	var grid []string

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		// metadata is only recognised ahead of the grid
		if len(grid) == 0 {
			if key, value, ok := parseMetaLine(line); ok {
				switch key {
				case "name":
					m.Name = value
				case "pillmax":
					n, err := strconv.Atoi(value)
					if err != nil || n < 1 {
						return nil, configErrorf(m.Name, "invalid pillMax %q", value)
					}
					m.PillMax = n
				default:
					return nil, configErrorf(m.Name, "unknown metadata key %q", key)
				}
				continue
			}
		}
		grid = append(grid, strings.TrimRight(line, "\r"))
	}

	if len(grid) == 0 {
		return nil, configErrorf(m.Name, "maze has no grid rows")
	}

	m.Height = len(grid)
	m.Width = len([]rune(grid[0]))
	m.Layout = make([][]ItemKind, m.Height)
	pacmanFound := false

	for y, row := range grid {
		runes := []rune(row)
		if len(runes) != m.Width {
			return nil, configErrorf(m.Name, "row %d has width %d, expected %d", y, len(runes), m.Width)
		}
		m.Layout[y] = make([]ItemKind, m.Width)
		for x, ch := range runes {
			switch ch {
			case '#':
				m.Layout[y][x] = KindWall
			case '.':
				m.Layout[y][x] = KindBiscuit
			case '*':
				m.Layout[y][x] = KindPill
			case ' ':
				m.Layout[y][x] = KindEmpty
			case 'P':
				if pacmanFound {
					return nil, configErrorf(m.Name, "second pacman start at (%d,%d)", x, y)
				}
				pacmanFound = true
				m.PacmanStart = Cell{X: x, Y: y}
				m.Layout[y][x] = KindEmpty
			case 'G':
				m.GhostStarts = append(m.GhostStarts, Cell{X: x, Y: y})
				m.Layout[y][x] = KindEmpty
			default:
				return nil, configErrorf(m.Name, "unknown glyph %q at (%d,%d)", ch, x, y)
			}
		}
	}

	if !pacmanFound {
		return nil, configErrorf(m.Name, "maze has no pacman start")
	}

	if err := validateReachability(m); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Maze) IsWall(c Cell) bool {
	if c.X < 0 || c.Y < 0 || c.X >= m.Width || c.Y >= m.Height {
		return true
	}
	return m.Layout[c.Y][c.X] == KindWall
}

func validateReachability(m *Maze) error {
	reachable := floodFill(m.Width, m.Height, m.PacmanStart, func(c Cell) bool { return !m.IsWall(c) })
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			kind := m.Layout[y][x]
			if (kind == KindBiscuit || kind == KindPill) && !reachable[y][x] {
				return configErrorf(m.Name, "unreachable %s at (%d,%d)", kind, x, y)
			}
		}
	}
	return nil
}

// Piece is a walkable cell plus its precomputed neighbors. Pieces are built
// once by NewTopology and never mutated afterwards.
type Piece struct {
	Cell
	moves [5]*Piece
}

// Neighbor returns the piece reached by moving d, or nil if blocked.
func (p *Piece) Neighbor(d Direction) *Piece {
	if p == nil || d <= None || int(d) >= len(p.moves) {
		return nil
	}
	return p.moves[d]
}

type Topology struct {
	Width  int
	Height int
	pieces [][]*Piece
}

func NewTopology(m *Maze) *Topology {
	t := &Topology{Width: m.Width, Height: m.Height}
	t.pieces = make([][]*Piece, m.Height)
	for y := 0; y < m.Height; y++ {
		t.pieces[y] = make([]*Piece, m.Width)
		for x := 0; x < m.Width; x++ {
			if m.Layout[y][x] != KindWall {
				t.pieces[y][x] = &Piece{Cell: Cell{X: x, Y: y}}
			}
		}
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			piece := t.pieces[y][x]
			if piece == nil {
				continue
			}
			for _, d := range moveOrder {
				piece.moves[d] = t.PieceAt(piece.Step(d))
			}
		}
	}
	return t
}

// PieceAt returns nil for walls and out-of-bounds cells.
func (t *Topology) PieceAt(c Cell) *Piece {
	if c.X < 0 || c.Y < 0 || c.X >= t.Width || c.Y >= t.Height {
		return nil
	}
	return t.pieces[c.Y][c.X]
}
