package game

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// GameTickMsg is published on UpdateChannel after every state change.
type GameTickMsg struct {
	Snapshot *Snapshot
}

type CommandKind int

const (
	CmdNewGame CommandKind = iota
	CmdResetScore
	CmdAutomateMove
	CmdAutopilot
)

// Command is a driver request delivered through CommandChannel.
type Command struct {
	Kind    CommandKind
	Moves   int
	Enabled bool
}

type GameManagerOptions struct {
	Maze         *Maze
	PillMax      int
	TickDuration time.Duration
	PlayerName   string
	StrategyFor  func(i int) GhostStrategy
	Recorder     *ResultRecorder
	Logger       *log.Logger
}

// GameManager is the tick driver. The exported methods that touch the board
// (NewGame, Tick, AutomateMove, ...) must run on one goroutine: either the
// caller's, or the loop started by StartGameLoop, which serializes channel
// input with ticks.
type GameManager struct {
	DirectionChannel chan Direction
	CommandChannel   chan Command
	UpdateChannel    chan tea.Msg

	opts       GameManagerOptions
	baseLogger *log.Logger
	logger     *log.Logger

	board        *Board
	gameID       string
	bankedScore  int
	autopilot    bool
	resultLogged bool

	latest    atomic.Pointer[Snapshot]
	isRunning atomic.Bool
}

func NewGameManager(opts GameManagerOptions) (*GameManager, error) {
	if opts.Maze == nil {
		opts.Maze = DefaultMaze()
	}
	if opts.TickDuration <= 0 {
		opts.TickDuration = GameTickDuration
	}
	if opts.PlayerName == "" {
		opts.PlayerName = "anonymous"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	gm := &GameManager{
		DirectionChannel: make(chan Direction, 10),
		CommandChannel:   make(chan Command, 10),
		UpdateChannel:    make(chan tea.Msg, updateChannelDepth),
		opts:             opts,
		baseLogger:       logger,
		logger:           logger,
	}
	if err := gm.NewGame(); err != nil {
		return nil, err
	}
	return gm, nil
}

// NewGame discards the board and all agents and starts over on the same
// maze. The finished game's score is banked into the running total. On error
// the previous game stays in place.
func (gm *GameManager) NewGame() error {
	maze := gm.opts.Maze
	if gm.opts.PillMax > 0 {
		withTimer := *maze
		withTimer.PillMax = gm.opts.PillMax
		maze = &withTimer
	}

	board, err := NewBoard(maze, gm.opts.StrategyFor)
	if err != nil {
		gm.logger.Error("Could not start new game", "maze", maze.Name, "error", err)
		return err
	}

	if gm.board != nil {
		gm.RecordResult()
		gm.bankedScore += gm.board.Pacman().Score()
	}
	gm.board = board
	gm.gameID = uuid.NewString()
	gm.resultLogged = false
	gm.logger = gm.baseLogger.With("game", gm.gameID)
	gm.logger.Info("New game", "maze", maze.Name, "ghosts", len(board.Ghosts()), "pillMax", board.PillMax())
	gm.publish()
	return nil
}

// ResetScore zeroes the current game's score and leaves the board alone.
func (gm *GameManager) ResetScore() {
	gm.board.Pacman().ResetScore()
	gm.publish()
}

// Tick advances one tick. Autopilot swaps in the heuristic chooser.
func (gm *GameManager) Tick() {
	if gm.autopilot {
		gm.board.AutoAdvance()
	} else {
		gm.board.Advance()
	}
	gm.afterAdvance()
}

// AutomateMove runs up to n heuristic ticks back to back and returns how
// many actually ran; it stops early once the game is over.
func (gm *GameManager) AutomateMove(n int) int {
	ran := 0
	for ; ran < n && !gm.board.Over(); ran++ {
		gm.board.AutoAdvance()
	}
	gm.afterAdvance()
	return ran
}

// HandleKey buffers the direction bound to key and reports whether the key
// was a steering key.
func (gm *GameManager) HandleKey(key string) bool {
	d, ok := KeyToDirection[key]
	if !ok {
		return false
	}
	gm.board.Pacman().SetDesiredMove(d)
	return true
}

func (gm *GameManager) SetAutopilot(enabled bool) {
	gm.autopilot = enabled
	gm.publish()
}

func (gm *GameManager) SetPlayerName(name string) {
	if name != "" {
		gm.opts.PlayerName = name
	}
}

func (gm *GameManager) Board() *Board { return gm.board }

func (gm *GameManager) GameID() string { return gm.gameID }

func (gm *GameManager) Score() int { return gm.board.Pacman().Score() }

// RunningScore is the banked total of earlier games plus the current score.
func (gm *GameManager) RunningScore() int {
	return gm.bankedScore + gm.board.Pacman().Score()
}

func (gm *GameManager) Iteration() int { return gm.board.Ticks() }

// Snapshot returns the last published read model. Safe from any goroutine.
func (gm *GameManager) Snapshot() *Snapshot { return gm.latest.Load() }

func (gm *GameManager) afterAdvance() {
	if gm.board.Over() && !gm.resultLogged {
		gm.logger.Info("Game over", "outcome", gm.board.Outcome(), "reason", gm.board.Reason(),
			"score", gm.Score(), "iterations", gm.Iteration())
		gm.RecordResult()
	}
	gm.publish()
}

// RecordResult submits the current game to the recorder once, and only if it
// was played. Game over, NewGame and loop shutdown call it.
func (gm *GameManager) RecordResult() {
	if gm.resultLogged || gm.board.Ticks() == 0 {
		return
	}
	gm.resultLogged = true
	if gm.opts.Recorder == nil {
		return
	}
	gm.opts.Recorder.Submit(GameResult{
		ID:         gm.gameID,
		PlayerName: gm.opts.PlayerName,
		Score:      gm.Score(),
		Iterations: gm.Iteration(),
		Outcome:    gm.board.Outcome(),
		Reason:     gm.board.Reason(),
	})
}

func (gm *GameManager) buildSnapshot() *Snapshot {
	b := gm.board
	return &Snapshot{
		GameID:       gm.gameID,
		PlayerName:   gm.opts.PlayerName,
		MazeName:     gm.opts.Maze.Name,
		Width:        b.Width(),
		Height:       b.Height(),
		Cells:        b.snapshotCells(),
		Score:        b.Pacman().Score(),
		RunningScore: gm.RunningScore(),
		Iteration:    b.Ticks(),
		PillTimer:    b.PillTimer(),
		PillMax:      b.PillMax(),
		Remaining:    b.RemainingConsumables(),
		GhostsOut:    b.ghostsAwayFromHome(),
		Outcome:      b.Outcome(),
		Reason:       b.Reason(),
		Over:         b.Over(),
		Autopilot:    gm.autopilot,
	}
}

// publish stores the snapshot and offers it to the UI without blocking the
// loop; a slow reader simply misses intermediate frames.
func (gm *GameManager) publish() {
	snapshot := gm.buildSnapshot()
	gm.latest.Store(snapshot)
	select {
	case gm.UpdateChannel <- GameTickMsg{Snapshot: snapshot}:
	default:
	}
}

// SendDirection and SendCommand are the thread-safe entry points for input
// producers while the loop runs. Both drop input when the buffer is full.
func (gm *GameManager) SendDirection(d Direction) bool {
	select {
	case gm.DirectionChannel <- d:
		return true
	default:
		return false
	}
}

func (gm *GameManager) SendCommand(cmd Command) bool {
	select {
	case gm.CommandChannel <- cmd:
		return true
	default:
		return false
	}
}

// StartGameLoop ticks the board until ctx is cancelled. Calling it while a
// loop is already running is a no-op.
func (gm *GameManager) StartGameLoop(ctx context.Context) {
	if !gm.isRunning.CompareAndSwap(false, true) {
		return
	}
	defer gm.isRunning.Store(false)
	gm.logger.Debug("Game loop started.", "tick", gm.opts.TickDuration)

	ticker := time.NewTicker(gm.opts.TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			gm.RecordResult()
			gm.logger.Debug("Game loop stopped.")
			return
		case <-ticker.C:
			if !gm.board.Over() {
				gm.Tick()
			}
		case dir := <-gm.DirectionChannel:
			gm.board.Pacman().SetDesiredMove(dir)
		case cmd := <-gm.CommandChannel:
			gm.processCommand(cmd)
		}
	}
}

func (gm *GameManager) processCommand(cmd Command) {
	switch cmd.Kind {
	case CmdNewGame:
		if err := gm.NewGame(); err != nil {
			gm.logger.Warn("New game command failed, current game continues", "error", err)
		}
	case CmdResetScore:
		gm.ResetScore()
	case CmdAutomateMove:
		moves := cmd.Moves
		if moves <= 0 {
			moves = AutomateMoveBurst
		}
		gm.AutomateMove(moves)
	case CmdAutopilot:
		gm.SetAutopilot(cmd.Enabled)
	}
}
