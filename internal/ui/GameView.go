package ui

import (
	"context"

	"github.com/Mshel/pacmaze/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// --- Internal Game States for GameViewModel ---

type GameState int

const (
	StatePlaying GameState = iota
	StateGameOver
	StateLeaderboard
)

// QuitGameMsg is sent to the controller to switch back to the IntroScreen
// when the leaderboard was opened before playing.
type QuitGameMsg struct{}

type GameViewModel struct {
	ScreenWidth  int
	ScreenHeight int
	ctx          context.Context
	gameManager  *game.GameManager
	snapshot     *game.Snapshot
	playing      bool // false when only the leaderboard was requested

	gameState     GameState
	gameOverState GameOverState
}

func NewGameModel(ctx context.Context, gm *game.GameManager, scoreBoard ScoreBoard, playing bool, screenWidth int, screenHeight int) GameViewModel {
	return GameViewModel{
		ctx:          ctx,
		gameManager:  gm,
		snapshot:     gm.Snapshot(),
		playing:      playing,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		gameState:    StatePlaying,
		gameOverState: GameOverState{
			ScoreBoard:   scoreBoard,
			ScreenWidth:  screenWidth,
			ScreenHeight: screenHeight,
		},
	}
}

func (m GameViewModel) Init() tea.Cmd {
	if !m.playing {
		return nil
	}
	return m.listenForGameUpdates()
}

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.gameOverState.ScreenWidth = msg.Width
		m.gameOverState.ScreenHeight = msg.Height
		return m, nil

	case ShowLeaderboardMsg:
		m.gameState = StateLeaderboard
		m.gameOverState.loadLeaderboard()
		return m, nil

	case game.GameTickMsg:
		m.snapshot = msg.Snapshot
		if m.snapshot != nil && m.snapshot.Over && m.gameState == StatePlaying {
			log.Debug("Game finished, showing Game Over screen.", "game", m.snapshot.GameID, "outcome", m.snapshot.Outcome)
			m.gameState = StateGameOver
			m.gameOverState.Final = m.snapshot
			m.gameOverState.SelectedButton = 0
		}
		return m, m.listenForGameUpdates()

	case tea.KeyMsg:
		if m.gameState != StatePlaying {
			return m.updateMenus(msg)
		}
		return m.updatePlaying(msg)
	}

	return m, nil
}

func (m GameViewModel) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if d, ok := game.KeyToDirection[key]; ok {
		m.gameManager.SendDirection(d)
		return m, nil
	}

	switch key {
	case "n":
		m.gameManager.SendCommand(game.Command{Kind: game.CmdNewGame})
	case "r":
		m.gameManager.SendCommand(game.Command{Kind: game.CmdResetScore})
	case "m":
		m.gameManager.SendCommand(game.Command{Kind: game.CmdAutomateMove, Moves: game.AutomateMoveBurst})
	case "p":
		enabled := m.snapshot == nil || !m.snapshot.Autopilot
		m.gameManager.SendCommand(game.Command{Kind: game.CmdAutopilot, Enabled: enabled})
	case "l":
		m.gameState = StateLeaderboard
		m.gameOverState.loadLeaderboard()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// updateMenus handles the Game Over and Leaderboard screens.
func (m GameViewModel) updateMenus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "enter":
		if m.gameState == StateLeaderboard {
			return m.closeLeaderboard()
		}
		return m.chooseGameOverButton()
	case "left", "h":
		if m.gameState == StateGameOver {
			m.gameOverState.SelectedButton = max(0, m.gameOverState.SelectedButton-1)
		}
	case "right", "l":
		if m.gameState == StateGameOver {
			m.gameOverState.SelectedButton = min(len(gameOverButtons)-1, m.gameOverState.SelectedButton+1)
		}
	case "n":
		if m.playing {
			return m.startNewGame()
		}
	}
	return m, nil
}

func (m GameViewModel) closeLeaderboard() (tea.Model, tea.Cmd) {
	if !m.playing {
		return m, func() tea.Msg { return QuitGameMsg{} }
	}
	if m.snapshot != nil && m.snapshot.Over {
		m.gameState = StateGameOver
	} else {
		m.gameState = StatePlaying
	}
	return m, nil
}

func (m GameViewModel) chooseGameOverButton() (tea.Model, tea.Cmd) {
	switch gameOverButtons[m.gameOverState.SelectedButton] {
	case buttonNewGame:
		return m.startNewGame()
	case buttonLeaderboard:
		m.gameState = StateLeaderboard
		m.gameOverState.loadLeaderboard()
		return m, nil
	default:
		return m, tea.Quit
	}
}

func (m GameViewModel) startNewGame() (tea.Model, tea.Cmd) {
	m.gameManager.SendCommand(game.Command{Kind: game.CmdNewGame})
	m.gameState = StatePlaying
	return m, nil
}

func (m GameViewModel) View() string {
	switch m.gameState {
	case StateGameOver:
		return m.gameOverState.RenderGameOverScreen()
	case StateLeaderboard:
		return m.gameOverState.RenderLeaderboardScreen()
	}

	if m.snapshot == nil {
		return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center, "Waiting for game manager...")
	}

	mapBox := mapViewStyle.Render(renderMaze(m.snapshot))
	statusBox := statusPanelStyle.Height(lipgloss.Height(mapBox) - 2).Render(renderStatusPanel(m.snapshot))

	return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, mapBox, statusBox))
}

// listenForGameUpdates blocks on the next published snapshot. It yields nil
// once the session context ends so the command goroutine does not leak.
func (m GameViewModel) listenForGameUpdates() tea.Cmd {
	updates := m.gameManager.UpdateChannel
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case msg := <-updates:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}
