package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGhostStateTransitions(t *testing.T) {
	b := newTestBoard(t, stayStrategy{},
		"#######",
		"#P.G..#",
		"#######",
	)
	ghost := b.Ghosts()[0]

	t.Run("Pill timer frightens a chasing ghost", func(t *testing.T) {
		b.pillTimer = 3
		ghost.updateState()
		assert.Equal(t, Frightened, ghost.State())
		assert.False(t, ghost.IsLethal())
	})

	t.Run("Expired timer returns it to chasing", func(t *testing.T) {
		b.pillTimer = 0
		ghost.updateState()
		assert.Equal(t, Chasing, ghost.State())
		assert.True(t, ghost.IsLethal())
	})

	t.Run("Returning ignores the timer until home", func(t *testing.T) {
		away := ghost.Piece().Neighbor(Right)
		b.SetOccupant(ghost.Cell(), KindEmpty)
		ghost.displaceTo(away)
		ghost.GotoTimeout()

		b.pillTimer = 3
		ghost.updateState()
		assert.Equal(t, Returning, ghost.State())
		b.pillTimer = 0
		ghost.updateState()
		assert.Equal(t, Returning, ghost.State())
		assert.False(t, ghost.IsLethal())
	})

	t.Run("Reaching home ends the timeout", func(t *testing.T) {
		b.SetOccupant(ghost.Cell(), KindEmpty)
		ghost.displaceTo(ghost.Home())
		require.Equal(t, Returning, ghost.State())

		ghost.updateState()
		assert.Equal(t, Chasing, ghost.State())
		assert.NoError(t, b.Verify())
	})
}

func TestReturningGhostWalksHome(t *testing.T) {
	b := newTestBoard(t, nil,
		"########",
		"#P.G...#",
		"########",
	)
	ghost := b.Ghosts()[0]
	home := ghost.Cell()

	b.SetOccupant(ghost.Cell(), KindEmpty)
	ghost.displaceTo(b.Topology().PieceAt(Cell{X: 6, Y: 1}))
	ghost.GotoTimeout()

	for i := 0; i < 3 && ghost.State() == Returning; i++ {
		b.Advance()
	}

	assert.Equal(t, home, ghost.Cell())
	assert.Equal(t, Returning, ghost.State(), "state flips at the start of the next turn")

	b.Advance()
	assert.NotEqual(t, Returning, ghost.State())
}

func TestLegalOptions(t *testing.T) {
	b := newTestBoard(t, nil,
		"#######",
		"#PGG..#",
		"#######",
	)
	first, second := b.Ghosts()[0], b.Ghosts()[1]

	assert.Equal(t, []Direction{Left}, first.LegalOptions(), "other ghosts block, pacman does not")
	assert.Equal(t, []Direction{Right}, second.LegalOptions())

	first.GotoTimeout()
	assert.Empty(t, first.LegalOptions(), "a returning ghost cannot step onto pacman")
}

func TestDefaultStrategy(t *testing.T) {
	b := newTestBoard(t, nil,
		"#######",
		"#P.G..#",
		"#######",
	)
	ghost := b.Ghosts()[0]
	options := ghost.LegalOptions()
	require.Equal(t, []Direction{Right, Left}, options)

	strategy := DefaultStrategy{}

	ghost.state = Chasing
	assert.Equal(t, Left, strategy.ChooseDirection(ghost, options))

	ghost.state = Frightened
	assert.Equal(t, Right, strategy.ChooseDirection(ghost, options))

	t.Run("Frightened ghost does not reverse when it can avoid it", func(t *testing.T) {
		ghost.direction = Left
		assert.Equal(t, Left, strategy.ChooseDirection(ghost, options))
		ghost.direction = None
	})

	t.Run("Returning ghost heads home", func(t *testing.T) {
		b.SetOccupant(ghost.Cell(), KindEmpty)
		ghost.displaceTo(b.Topology().PieceAt(Cell{X: 5, Y: 1}))
		ghost.state = Returning
		assert.Equal(t, Left, strategy.ChooseDirection(ghost, ghost.LegalOptions()))
	})
}

func TestAmbushStrategy(t *testing.T) {
	b := newTestBoard(t, nil,
		"###########",
		"#P........#",
		"#.#######.#",
		"#.........#",
		"###########",
	)
	pacman := b.Pacman()
	pacman.direction = Right

	assert.Equal(t, Cell{X: 5, Y: 1}, AmbushStrategy{}.ambushTarget(pacman).Cell)
	assert.Equal(t, Cell{X: 9, Y: 1}, AmbushStrategy{Lookahead: 20}.ambushTarget(pacman).Cell, "stops at the wall")

	pacman.direction = None
	assert.Equal(t, pacman.Cell(), AmbushStrategy{}.ambushTarget(pacman).Cell)
}

func TestStrategyRoster(t *testing.T) {
	roster := StrategyRoster(nil)
	assert.IsType(t, DefaultStrategy{}, roster(0))
	assert.IsType(t, AmbushStrategy{}, roster(1))
	assert.IsType(t, DefaultStrategy{}, roster(2))

	script := stayStrategy{}
	assert.Equal(t, script, StrategyRoster(script)(1))
}
