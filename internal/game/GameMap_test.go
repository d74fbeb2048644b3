package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMaze(t *testing.T) {
	m := DefaultMaze()

	assert.Equal(t, "Classic", m.Name)
	assert.Equal(t, 16, m.Width)
	assert.Equal(t, 16, m.Height)
	assert.Equal(t, Cell{X: 7, Y: 8}, m.PacmanStart)
	assert.Equal(t, []Cell{{X: 7, Y: 5}, {X: 8, Y: 5}}, m.GhostStarts)
	assert.Equal(t, KindPill, m.Layout[1][1])
	assert.Equal(t, KindEmpty, m.Layout[8][7], "start cells hold nothing")
}

func TestParseMaze(t *testing.T) {
	t.Run("Metadata", func(t *testing.T) {
		m, err := ParseMaze([]string{
			"name = Tiny",
			"pillMax: 7",
			"#####",
			"#P.*#",
			"#####",
		})
		require.NoError(t, err)
		assert.Equal(t, "Tiny", m.Name)
		assert.Equal(t, 7, m.PillMax)
		assert.Equal(t, 5, m.Width)
		assert.Equal(t, 3, m.Height)
		assert.Empty(t, m.GhostStarts)
	})

	errorCases := []struct {
		name string
		rows []string
	}{
		{"No grid", []string{"name: empty"}},
		{"Unknown metadata", []string{"speed: 3", "###", "#P#", "###"}},
		{"Bad pillMax", []string{"pillMax: soon", "###", "#P#", "###"}},
		{"Zero pillMax", []string{"pillMax: 0", "###", "#P#", "###"}},
		{"Ragged rows", []string{"####", "#P.#", "###"}},
		{"Unknown glyph", []string{"#####", "#P.x#", "#####"}},
		{"Two pacmen", []string{"#####", "#P.P#", "#####"}},
		{"No pacman", []string{"#####", "#..G#", "#####"}},
		{"Unreachable biscuit", []string{"#####", "#P#.#", "#####"}},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ParseMaze(tc.rows)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrInvalidMaze)

			var configErr *ConfigError
			assert.True(t, errors.As(err, &configErr))
		})
	}
}

func TestLoadMazesFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("Several mazes", func(t *testing.T) {
		path := filepath.Join(dir, "mazes.txt")
		content := "name: one\n#####\n#P..#\n#####\n---\nname: two\n#####\n#.P*#\n#####\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		mazes, err := LoadMazesFromFile(path)
		require.NoError(t, err)
		require.Len(t, mazes, 2)
		assert.Equal(t, "one", mazes[0].Name)
		assert.Equal(t, Cell{X: 2, Y: 1}, mazes[1].PacmanStart)

		first, err := LoadMaze(path)
		require.NoError(t, err)
		assert.Equal(t, "one", first.Name)
	})

	t.Run("Mismatched dimensions", func(t *testing.T) {
		path := filepath.Join(dir, "mixed.txt")
		content := "#####\n#P..#\n#####\n---\n######\n#P...#\n######\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := LoadMazesFromFile(path)
		assert.ErrorIs(t, err, ErrInvalidMaze)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadMazesFromFile(filepath.Join(dir, "nope.txt"))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidMaze)
	})

	t.Run("Empty path means the built-in maze", func(t *testing.T) {
		m, err := LoadMaze("")
		require.NoError(t, err)
		assert.Equal(t, "Classic", m.Name)
	})
}

func TestTopology(t *testing.T) {
	m := DefaultMaze()
	topology := NewTopology(m)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := Cell{X: x, Y: y}
			piece := topology.PieceAt(c)
			if m.IsWall(c) {
				assert.Nil(t, piece)
				continue
			}
			require.NotNil(t, piece)
			for _, d := range moveOrder {
				next := piece.Neighbor(d)
				if next == nil {
					assert.True(t, m.IsWall(c.Step(d)))
					continue
				}
				assert.Equal(t, c.Step(d), next.Cell)
				assert.Same(t, piece, next.Neighbor(d.Opposite()), "links are symmetric")
			}
			assert.Nil(t, piece.Neighbor(None))
		}
	}

	assert.Nil(t, topology.PieceAt(Cell{X: -1, Y: 0}))
	assert.Nil(t, topology.PieceAt(Cell{X: m.Width, Y: 0}))
}

func TestFloodFillAndDistances(t *testing.T) {
	m := mustParseMaze(t,
		"#####",
		"#P..#",
		"###.#",
		"#...#",
		"#####",
	)
	topology := NewTopology(m)

	dist := distanceMapFrom(topology, topology.PieceAt(m.PacmanStart))
	assert.Equal(t, 0, dist.At(Cell{X: 1, Y: 1}))
	assert.Equal(t, 2, dist.At(Cell{X: 3, Y: 1}))
	assert.Equal(t, 6, dist.At(Cell{X: 1, Y: 3}))
	assert.Equal(t, -1, dist.At(Cell{X: 0, Y: 0}), "walls are unreachable")
	assert.Equal(t, -1, dist.At(Cell{X: 9, Y: 9}))

	reachable := floodFill(m.Width, m.Height, m.PacmanStart, func(c Cell) bool { return !m.IsWall(c) })
	assert.True(t, reachable[3][1])
	assert.False(t, reachable[2][1])
}
