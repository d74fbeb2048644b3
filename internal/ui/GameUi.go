package ui

import (
	"fmt"
	"strings"

	"github.com/Mshel/pacmaze/internal/game"
	"github.com/charmbracelet/lipgloss"
)

var (
	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	wallStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("21"))
	biscuitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("223"))
	pillStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("223")).Bold(true)
	pacmanStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true)
	wonStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	lostStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	// Pacman faces the way it last moved
	pacmanRunes = map[game.Direction]string{
		game.Up:    "ᗢ",
		game.Down:  "ᗜ",
		game.Left:  "ᗤ",
		game.Right: "ᗧ",
		game.None:  "ᗧ",
	}
)

const (
	wallGlyph    = "█"
	biscuitGlyph = "·"
	pillGlyph    = "●"
	ghostGlyph   = "ᗣ"
	emptyGlyph   = " "
)

// renderCell draws one cell two columns wide so the maze keeps its aspect.
func renderCell(cell game.CellView) string {
	switch cell.Kind {
	case game.KindWall:
		return wallStyle.Render(wallGlyph + wallGlyph)
	case game.KindBiscuit:
		return biscuitStyle.Render(biscuitGlyph) + " "
	case game.KindPill:
		return pillStyle.Render(pillGlyph) + " "
	case game.KindPacman:
		return pacmanStyle.Render(pacmanRunes[cell.Direction]) + " "
	case game.KindGhost:
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(game.GhostStateColors[cell.GhostState]))
		return style.Render(ghostGlyph) + " "
	default:
		return emptyGlyph + " "
	}
}

func renderMaze(snapshot *game.Snapshot) string {
	var sb strings.Builder
	for y, row := range snapshot.Cells {
		for _, cell := range row {
			sb.WriteString(renderCell(cell))
		}
		if y < len(snapshot.Cells)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func renderOutcome(snapshot *game.Snapshot) string {
	switch snapshot.Outcome {
	case game.Won:
		return wonStyle.Render("Maze cleared!")
	case game.Lost:
		return lostStyle.Render("Caught by a ghost")
	default:
		return "In progress"
	}
}

// renderStatusPanel draws the stats and controls next to the maze.
func renderStatusPanel(snapshot *game.Snapshot) string {
	var statusContent strings.Builder

	statusContent.WriteString(sectionStyle.Render("--- Player ---") + "\n")
	statusContent.WriteString(pacmanStyle.Render("ᗧ ") + snapshot.PlayerName + "\n")
	statusContent.WriteString(fmt.Sprintf("Score: %d\n", snapshot.Score))
	statusContent.WriteString(fmt.Sprintf("Total score: %d\n", snapshot.RunningScore))
	statusContent.WriteString(fmt.Sprintf("Iteration: %d\n", snapshot.Iteration))

	statusContent.WriteString("\n" + sectionStyle.Render("--- Maze ---") + "\n")
	statusContent.WriteString(fmt.Sprintf("Pill timer: %d/%d\n", snapshot.PillTimer, snapshot.PillMax))
	statusContent.WriteString(fmt.Sprintf("Left to eat: %d\n", snapshot.Remaining))
	statusContent.WriteString(fmt.Sprintf("Ghosts out: %d\n", snapshot.GhostsOut))
	autopilot := "off"
	if snapshot.Autopilot {
		autopilot = "on"
	}
	statusContent.WriteString(fmt.Sprintf("Autopilot: %s\n", autopilot))
	statusContent.WriteString(renderOutcome(snapshot) + "\n")

	statusContent.WriteString("\n" + sectionStyle.Render("--- Controls ---") + "\n")
	statusContent.WriteString("WASD / Arrows: Steer\n")
	statusContent.WriteString("N: New game  R: Reset score\n")
	statusContent.WriteString("M: Move x100  P: Autopilot\n")
	statusContent.WriteString("L: Leaderboard  Q: Quit\n")

	return statusContent.String()
}
