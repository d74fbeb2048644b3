package ui

import (
	"fmt"
	"strings"

	"github.com/Mshel/pacmaze/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Main menu choices. Quit is handled by the menu itself and never reaches
// the controller.
const (
	IntroPlay IntroSubmitMsg = iota
	IntroLeaderboard
	introQuit
)

type introOption struct {
	label  string
	choice IntroSubmitMsg
}

var introOptions = []introOption{
	{"Play", IntroPlay},
	{"Leaderboard", IntroLeaderboard},
	{"Quit", introQuit},
}

// introBestMsg carries the top leaderboard entry; nil when nothing is stored
// yet or the store could not be read.
type introBestMsg struct {
	best *game.GameResult
}

// IntroModel is the main menu. It previews the maze the session will play
// and the best result on record.
type IntroModel struct {
	selected int
	width    int
	height   int

	preview    *game.Snapshot
	scoreBoard ScoreBoard
	best       *game.GameResult
}

func NewIntroModel(preview *game.Snapshot, scoreBoard ScoreBoard, w, h int) IntroModel {
	return IntroModel{preview: preview, scoreBoard: scoreBoard, width: w, height: h}
}

// Init fetches the best result, so coming back to the menu refreshes it.
func (m IntroModel) Init() tea.Cmd {
	if m.scoreBoard == nil {
		return nil
	}
	scoreBoard := m.scoreBoard
	return func() tea.Msg {
		leaders, err := scoreBoard.GetHighScores(1, 0)
		if err != nil || len(leaders) == 0 {
			return introBestMsg{}
		}
		return introBestMsg{best: &leaders[0]}
	}
}

func (m IntroModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case introBestMsg:
		m.best = msg.best
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h", "up", "k", "shift+tab":
			m.selected = (m.selected + len(introOptions) - 1) % len(introOptions)
		case "right", "l", "down", "j", "tab":
			m.selected = (m.selected + 1) % len(introOptions)
		case "enter":
			choice := introOptions[m.selected].choice
			if choice == introQuit {
				return m, tea.Quit
			}
			return m, func() tea.Msg { return choice }
		}
	}
	return m, nil
}

var pacmazeAscii = `
 ██████╗  █████╗  ██████╗███╗   ███╗ █████╗ ███████╗███████╗
 ██╔══██╗██╔══██╗██╔════╝████╗ ████║██╔══██╗╚══███╔╝██╔════╝
 ██████╔╝███████║██║     ██╔████╔██║███████║  ███╔╝ █████╗
 ██╔═══╝ ██╔══██║██║     ██║╚██╔╝██║██╔══██║ ███╔╝  ██╔══╝
 ██║     ██║  ██║╚██████╗██║ ╚═╝ ██║██║  ██║███████╗███████╗
 ╚═╝     ╚═╝  ╚═╝ ╚═════╝╚═╝     ╚═╝╚═╝  ╚═╝╚══════╝╚══════╝
`

var (
	asciiStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	introInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	introButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Padding(0, 3).
				Margin(1, 1).
				Border(lipgloss.RoundedBorder())

	introSelectedButtonStyle = introButtonStyle.
					Background(lipgloss.Color("226")).
					Foreground(lipgloss.Color("0"))
)

// mazeSummary describes the board waiting behind the Play button.
func (m IntroModel) mazeSummary() string {
	if m.preview == nil {
		return ""
	}
	ghosts := 0
	for _, row := range m.preview.Cells {
		for _, cell := range row {
			if cell.Kind == game.KindGhost {
				ghosts++
			}
		}
	}
	name := m.preview.MazeName
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("Maze %q  %dx%d  %d ghosts  %d dots  pill lasts %d ticks",
		name, m.preview.Width, m.preview.Height, ghosts, m.preview.Remaining, m.preview.PillMax)
}

func (m IntroModel) bestSummary() string {
	if m.best == nil {
		return "No games on record yet"
	}
	return fmt.Sprintf("Best: %s with %d (%s in %d ticks)",
		m.best.PlayerName, m.best.Score, m.best.Outcome, m.best.Iterations)
}

func (m IntroModel) View() string {
	var sb strings.Builder
	sb.WriteString(asciiStyle.Render(pacmazeAscii))
	sb.WriteString("\n")
	if m.preview != nil {
		sb.WriteString(renderMaze(m.preview))
		sb.WriteString("\n\n")
		sb.WriteString(introInfoStyle.Render(m.mazeSummary()))
		sb.WriteString("\n")
	}
	sb.WriteString(introInfoStyle.Render(m.bestSummary()))

	buttons := make([]string, 0, len(introOptions))
	for i, option := range introOptions {
		style := introButtonStyle
		if i == m.selected {
			style = introSelectedButtonStyle
		}
		buttons = append(buttons, style.Render(option.label))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		sb.String(),
		lipgloss.JoinHorizontal(lipgloss.Center, buttons...),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
