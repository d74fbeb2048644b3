package ui

import (
	"context"

	"github.com/Mshel/pacmaze/internal/game"
	tea "github.com/charmbracelet/bubbletea"
)

type Screen int

const (
	IntroScreen Screen = iota
	SetupScreen
	GameScreen
)

// Messages for state transitions
type IntroSubmitMsg int
type SetupSubmitMsg struct {
	Name string
}

type ShowLeaderboardMsg struct{}

// ScoreBoard is the read side of the high score store.
type ScoreBoard interface {
	GetHighScores(limit, offset int) ([]game.GameResult, error)
	GetTotalScoreCount() (int, error)
}

type ControllerModel struct {
	CurrentScreen Screen
	GameManager   *game.GameManager
	ScoreBoard    ScoreBoard

	IntroModel tea.Model
	SetupModel tea.Model
	GameModel  tea.Model

	// ctx bounds the game loop; the ssh session context on the server.
	ctx context.Context
	// loopDone is closed once the game loop started from setup returns.
	loopDone chan struct{}

	ScreenWidth  int
	ScreenHeight int
}

func NewControllerModel(ctx context.Context, gameManager *game.GameManager, scoreBoard ScoreBoard, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		GameManager:   gameManager,
		ScoreBoard:    scoreBoard,
		CurrentScreen: IntroScreen,

		IntroModel: NewIntroModel(gameManager.Snapshot(), scoreBoard, screenWidth, screenHeight),
		SetupModel: NewInitialSetupModel(screenWidth, screenHeight),

		ctx:          ctx,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WaitForGameLoop blocks until the game loop has stopped and recorded its
// result. Cancel the controller's context first. It returns at once when no
// game was started.
func (m ControllerModel) WaitForGameLoop() {
	if m.loopDone != nil {
		<-m.loopDone
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case SetupScreen:
		return m.SetupModel.View()
	case GameScreen:
		if m.GameModel != nil {
			return m.GameModel.View()
		}
		return "Game Loading..."
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	// q is left to the screens so it can be typed into the name field
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.IntroModel, _ = m.IntroModel.Update(msg)
		m.SetupModel, _ = m.SetupModel.Update(msg)
		if m.GameModel != nil {
			m.GameModel, _ = m.GameModel.Update(msg)
		}
		return m, nil

	case IntroSubmitMsg:
		switch msg {
		case IntroPlay:
			m.CurrentScreen = SetupScreen
			return m, m.SetupModel.Init()
		case IntroLeaderboard:
			m.CurrentScreen = GameScreen
			m.GameModel = NewGameModel(m.ctx, m.GameManager, m.ScoreBoard, false, m.ScreenWidth, m.ScreenHeight)
			return m, tea.Sequence(m.GameModel.Init(), func() tea.Msg { return ShowLeaderboardMsg{} })
		}

	case SetupSubmitMsg:
		m.CurrentScreen = GameScreen
		m.GameManager.SetPlayerName(msg.Name)
		if m.loopDone == nil {
			done := make(chan struct{})
			m.loopDone = done
			gameManager, ctx := m.GameManager, m.ctx
			go func() {
				defer close(done)
				gameManager.StartGameLoop(ctx)
			}()
		}
		m.GameModel = NewGameModel(m.ctx, m.GameManager, m.ScoreBoard, true, m.ScreenWidth, m.ScreenHeight)
		return m, m.GameModel.Init()

	case QuitGameMsg:
		// leaderboard opened from the intro screen
		m.CurrentScreen = IntroScreen
		m.GameModel = nil
		return m, m.IntroModel.Init()

	default:
		switch m.CurrentScreen {
		case IntroScreen:
			m.IntroModel, cmd = m.IntroModel.Update(msg)
			cmds = append(cmds, cmd)
		case SetupScreen:
			m.SetupModel, cmd = m.SetupModel.Update(msg)
			cmds = append(cmds, cmd)
		case GameScreen:
			if m.GameModel != nil {
				m.GameModel, cmd = m.GameModel.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}
