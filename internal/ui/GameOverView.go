package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mshel/pacmaze/internal/game"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const leaderboardSize = 10

const (
	buttonNewGame     = "NEW GAME"
	buttonLeaderboard = "LEADERBOARD"
	buttonExit        = "EXIT"
)

var gameOverButtons = []string{buttonNewGame, buttonLeaderboard, buttonExit}

// GameOverState holds the data and local state for rendering the game over screens.
type GameOverState struct {
	ScoreBoard     ScoreBoard
	Final          *game.Snapshot
	SelectedButton int
	ScreenWidth    int
	ScreenHeight   int

	leaders    []game.GameResult
	totalGames int
	loadErr    error
}

// Styles for Game Over/Leaderboard
var (
	gameOverButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Padding(0, 3).
				Margin(1, 1).
				Bold(true)

	selectedButtonStyle = gameOverButtonStyle.
				Background(lipgloss.Color("4")).
				Foreground(lipgloss.Color("15"))

	leaderboardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				Align(lipgloss.Center)

	leaderboardRowStyle = lipgloss.NewStyle().
				Padding(0, 1)

	leaderboardBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("8"))
)

// loadLeaderboard reads the top results from the store. Errors are kept and
// shown on the screen instead of the table.
func (g *GameOverState) loadLeaderboard() {
	g.leaders, g.loadErr = nil, nil
	if g.ScoreBoard == nil {
		return
	}
	leaders, err := g.ScoreBoard.GetHighScores(leaderboardSize, 0)
	if err != nil {
		log.Error("Could not load leaderboard", "error", err)
		g.loadErr = err
		return
	}
	total, err := g.ScoreBoard.GetTotalScoreCount()
	if err != nil {
		log.Error("Could not count games", "error", err)
	}
	g.leaders = leaders
	g.totalGames = total
}

// RenderGameOverScreen draws the final result and the menu buttons.
func (g *GameOverState) RenderGameOverScreen() string {
	messageStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(1, 5).
		Align(lipgloss.Center)

	var title string
	stats := "\n"
	if g.Final != nil {
		if g.Final.Outcome == game.Won {
			title = messageStyle.Foreground(lipgloss.Color("46")).Render("M A Z E   C L E A R E D")
		} else {
			title = messageStyle.Foreground(lipgloss.Color("9")).Render("G A M E   O V E R")
		}
		stats = fmt.Sprintf("\nPlayer: %s\nScore: %d\nTotal score: %d\nIterations: %d\nReason: %s\n\n",
			g.Final.PlayerName, g.Final.Score, g.Final.RunningScore, g.Final.Iteration, g.Final.Reason)
	} else {
		title = messageStyle.Render("G A M E   O V E R")
	}

	buttons := make([]string, len(gameOverButtons))
	for i, label := range gameOverButtons {
		if i == g.SelectedButton {
			buttons[i] = selectedButtonStyle.Render(label)
		} else {
			buttons[i] = gameOverButtonStyle.Render(label)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center, title, stats, lipgloss.JoinHorizontal(lipgloss.Center, buttons...))

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
	)
}

// RenderLeaderboardScreen draws the best saved games.
func (g *GameOverState) RenderLeaderboardScreen() string {
	var tableContent strings.Builder

	nameWidth := 20
	numberWidth := 10

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		leaderboardHeaderStyle.Width(4).Render("#"),
		leaderboardHeaderStyle.Width(nameWidth).Render("Player"),
		leaderboardHeaderStyle.Width(numberWidth).Render("Score"),
		leaderboardHeaderStyle.Width(numberWidth).Render("Ticks"),
		leaderboardHeaderStyle.Width(numberWidth).Render("Result"),
	)
	tableContent.WriteString(header + "\n")

	switch {
	case g.loadErr != nil:
		tableContent.WriteString(lostStyle.Render("Leaderboard unavailable") + "\n")
	case len(g.leaders) == 0:
		tableContent.WriteString(leaderboardRowStyle.Render("No games recorded yet") + "\n")
	}

	for i, result := range g.leaders {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			leaderboardRowStyle.Width(4).Render(strconv.Itoa(i+1)),
			leaderboardRowStyle.Width(nameWidth).Render(result.PlayerName),
			leaderboardRowStyle.Width(numberWidth).Render(strconv.Itoa(result.Score)),
			leaderboardRowStyle.Width(numberWidth).Render(strconv.Itoa(result.Iterations)),
			leaderboardRowStyle.Width(numberWidth).Render(result.Outcome.String()),
		)
		tableContent.WriteString(leaderboardBorderStyle.Render(row) + "\n")
	}

	title := lipgloss.NewStyle().Bold(true).Padding(1, 0).Render(fmt.Sprintf("HIGH SCORES (%d games played)", g.totalGames))
	instruction := lipgloss.NewStyle().Faint(true).Margin(1, 0).Render("Press ESC or ENTER to go back.")

	finalContent := lipgloss.JoinVertical(lipgloss.Center,
		title,
		tableContent.String(),
		instruction,
	)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(finalContent),
	)
}
