package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Define styles
var (
	focusedColor = lipgloss.Color("226")
	blurredColor = lipgloss.Color("240")
	focusedStyle = lipgloss.NewStyle().Foreground(focusedColor)
	blurredStyle = lipgloss.NewStyle().Foreground(blurredColor)
	helpStyle    = blurredStyle

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder())

	submitButtonStyle = buttonStyle.
				BorderForeground(focusedColor).
				Padding(0, 1)

	blurredButtonStyle = buttonStyle.
				BorderForeground(blurredColor).
				Padding(0, 1)
)

const defaultPlayerName = "anonymous"

// SetupModel asks for the name the results are saved under.
type SetupModel struct {
	nameInput  textinput.Model
	focusIndex int // 0: Name, 1: Submit
	submitted  bool
	width      int
	height     int
}

func NewInitialSetupModel(w, h int) SetupModel {
	ti := textinput.New()
	ti.Placeholder = "Your player name"
	ti.Focus()
	ti.CharLimit = 20
	ti.PromptStyle = focusedStyle
	ti.TextStyle = focusedStyle

	return SetupModel{
		nameInput: ti,
		width:     w,
		height:    h,
	}
}

// Init sends a command to start the cursor blinking
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) playerName() string {
	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		return defaultPlayerName
	}
	return name
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		s := msg.String()

		switch s {
		case "tab", "shift+tab":
			if m.focusIndex == 0 {
				m.focusIndex = 1
				m.nameInput.Blur()
			} else {
				m.focusIndex = 0
				m.nameInput.Focus()
			}
			return m, nil
		case "enter":
			if m.focusIndex == 0 {
				m.focusIndex = 1
				m.nameInput.Blur()
				return m, nil
			}
			m.submitted = true
			name := m.playerName()
			return m, func() tea.Msg { return SetupSubmitMsg{Name: name} }
		case "esc":
			return m, tea.Quit
		}

		if m.focusIndex == 0 {
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) View() string {
	center := func(s string) string {
		return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(s)
	}

	var b strings.Builder

	prompt := "Who is playing?"
	if m.focusIndex == 0 {
		b.WriteString(center(focusedStyle.Render(prompt)))
	} else {
		b.WriteString(center(blurredStyle.Render(prompt)))
	}
	b.WriteString("\n\n")
	b.WriteString(center(m.nameInput.View()))
	b.WriteString("\n\n")

	submitText := "Start"
	var submitButton string
	if m.focusIndex == 1 {
		submitButton = submitButtonStyle.Render(submitText)
	} else {
		submitButton = blurredButtonStyle.Render(submitText)
	}
	b.WriteString(center(submitButton))
	b.WriteString("\n\n")

	b.WriteString(center(helpStyle.Render("(tab to navigate, enter to confirm, esc or ctrl+c to quit)")))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
