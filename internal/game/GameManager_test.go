package game

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGameManager(t *testing.T, recorder *ResultRecorder, rows ...string) *GameManager {
	t.Helper()
	gm, err := NewGameManager(GameManagerOptions{
		Maze:         mustParseMaze(t, rows...),
		TickDuration: 5 * time.Millisecond,
		PlayerName:   "tester",
		Recorder:     recorder,
		Logger:       log.New(io.Discard),
	})
	require.NoError(t, err)
	return gm
}

var corridorMaze = []string{
	"#####",
	"#P..#",
	"#####",
}

func TestNewGameManager(t *testing.T) {
	gm := newTestGameManager(t, nil, corridorMaze...)

	snapshot := gm.Snapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, gm.GameID(), snapshot.GameID)
	assert.Equal(t, "tester", snapshot.PlayerName)
	assert.Equal(t, 2, snapshot.Remaining)
	assert.Equal(t, KindPacman, snapshot.Cells[1][1].Kind)
	assert.Equal(t, KindWall, snapshot.Cells[0][0].Kind)
	assert.Equal(t, 0, snapshot.Iteration)

	t.Run("Defaults", func(t *testing.T) {
		gm, err := NewGameManager(GameManagerOptions{Logger: log.New(io.Discard)})
		require.NoError(t, err)
		assert.Equal(t, 16, gm.Board().Width())
		assert.Len(t, gm.Board().Ghosts(), 2)
		assert.Equal(t, "anonymous", gm.Snapshot().PlayerName)
	})

	t.Run("Pill timer override", func(t *testing.T) {
		gm, err := NewGameManager(GameManagerOptions{PillMax: 4, Logger: log.New(io.Discard)})
		require.NoError(t, err)
		assert.Equal(t, 4, gm.Board().PillMax())
		assert.Equal(t, DefaultPillMax, DefaultMaze().PillMax, "shared maze is not modified")
	})
}

func TestHandleKey(t *testing.T) {
	gm := newTestGameManager(t, nil, corridorMaze...)

	assert.False(t, gm.HandleKey("x"))
	assert.Equal(t, None, gm.Board().Pacman().DesiredMove())

	for key, want := range map[string]Direction{"w": Up, "down": Down, "a": Left, "d": Right} {
		assert.True(t, gm.HandleKey(key))
		assert.Equal(t, want, gm.Board().Pacman().DesiredMove(), key)
	}
}

func TestRunningScore(t *testing.T) {
	gm := newTestGameManager(t, nil, corridorMaze...)
	firstID := gm.GameID()

	gm.HandleKey("right")
	gm.Tick()
	require.Equal(t, 1, gm.Score())
	assert.Equal(t, 1, gm.RunningScore())

	require.NoError(t, gm.NewGame())
	assert.NotEqual(t, firstID, gm.GameID())
	assert.Equal(t, 0, gm.Score())
	assert.Equal(t, 1, gm.RunningScore(), "previous score is banked")
	assert.Equal(t, 0, gm.Iteration())
	assert.Equal(t, Cell{X: 1, Y: 1}, gm.Board().Pacman().Cell())

	gm.HandleKey("right")
	gm.Tick()
	gm.Tick()
	assert.Equal(t, 2, gm.Score())
	assert.Equal(t, 3, gm.RunningScore())

	gm.ResetScore()
	assert.Equal(t, 0, gm.Score())
	assert.Equal(t, 1, gm.RunningScore())
	assert.Equal(t, Won, gm.Board().Outcome(), "reset leaves the board alone")
}

func TestAutomateMove(t *testing.T) {
	store := &memoryResultStore{}
	recorder := NewResultRecorder(store, 1)
	gm := newTestGameManager(t, recorder, corridorMaze...)

	ran := gm.AutomateMove(AutomateMoveBurst)

	assert.Equal(t, 2, ran, "stops once the maze is cleared")
	assert.Equal(t, 2, gm.Iteration())
	assert.Equal(t, Won, gm.Board().Outcome())
	assert.True(t, gm.Snapshot().Over)

	assert.Equal(t, 0, gm.AutomateMove(5))
	gm.RecordResult()

	recorder.Close()
	saved := store.saved()
	require.Len(t, saved, 1, "one result per game")
	assert.Equal(t, gm.GameID(), saved[0].ID)
	assert.Equal(t, "tester", saved[0].PlayerName)
	assert.Equal(t, 2, saved[0].Score)
	assert.Equal(t, Won, saved[0].Outcome)
}

func TestUnplayedGameIsNotRecorded(t *testing.T) {
	store := &memoryResultStore{}
	recorder := NewResultRecorder(store, 1)
	gm := newTestGameManager(t, recorder, corridorMaze...)

	require.NoError(t, gm.NewGame())
	gm.Tick()
	require.NoError(t, gm.NewGame())

	recorder.Close()
	saved := store.saved()
	require.Len(t, saved, 1)
	assert.Equal(t, InProgress, saved[0].Outcome)
}

func TestAutopilotTick(t *testing.T) {
	gm := newTestGameManager(t, nil, corridorMaze...)

	gm.SetAutopilot(true)
	assert.True(t, gm.Snapshot().Autopilot)
	gm.Tick()

	assert.Equal(t, Cell{X: 2, Y: 1}, gm.Board().Pacman().Cell())
}

func TestUpdatesArePublished(t *testing.T) {
	gm := newTestGameManager(t, nil, corridorMaze...)
	// drain the snapshot published by the constructor
	<-gm.UpdateChannel

	gm.HandleKey("right")
	gm.Tick()

	msg := <-gm.UpdateChannel
	tick, ok := msg.(GameTickMsg)
	require.True(t, ok)
	assert.Equal(t, 1, tick.Snapshot.Score)
	assert.Equal(t, 1, tick.Snapshot.Iteration)
	assert.Equal(t, Right, tick.Snapshot.Cells[1][2].Direction)

	t.Run("Full channel does not block the driver", func(t *testing.T) {
		for i := 0; i < updateChannelDepth+10; i++ {
			gm.ResetScore()
		}
		assert.Len(t, gm.UpdateChannel, updateChannelDepth)
	})
}

func TestStartGameLoop(t *testing.T) {
	store := &memoryResultStore{}
	recorder := NewResultRecorder(store, 1)
	gm := newTestGameManager(t, recorder, corridorMaze...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gm.StartGameLoop(ctx)
		close(done)
	}()

	require.True(t, gm.SendDirection(Right))
	assert.Eventually(t, func() bool {
		snapshot := gm.Snapshot()
		return snapshot.Over && snapshot.Outcome == Won
	}, time.Second, 5*time.Millisecond)

	require.True(t, gm.SendCommand(Command{Kind: CmdNewGame}))
	assert.Eventually(t, func() bool {
		snapshot := gm.Snapshot()
		return !snapshot.Over && snapshot.RunningScore == 2 && snapshot.Iteration > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("game loop did not stop")
	}

	recorder.Close()
	saved := store.saved()
	require.Len(t, saved, 2, "finished game, then the one cut short by shutdown")
	assert.Equal(t, Won, saved[0].Outcome)
	assert.Equal(t, InProgress, saved[1].Outcome)
}

func TestFailedNewGameKeepsCurrentGame(t *testing.T) {
	gm := newTestGameManager(t, nil, corridorMaze...)
	gm.HandleKey("right")
	gm.Tick()
	board, id := gm.Board(), gm.GameID()

	broken := *gm.opts.Maze
	broken.PacmanStart = Cell{X: 0, Y: 0}
	gm.opts.Maze = &broken

	assert.ErrorIs(t, gm.NewGame(), ErrInvalidMaze)
	gm.processCommand(Command{Kind: CmdNewGame})

	assert.Same(t, board, gm.Board())
	assert.Equal(t, id, gm.GameID())
	assert.Equal(t, 1, gm.Score())
	assert.Equal(t, 1, gm.RunningScore(), "nothing banked for a game that never started")
}
