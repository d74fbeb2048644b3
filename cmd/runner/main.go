package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Mshel/pacmaze/internal/config"
	"github.com/Mshel/pacmaze/internal/game"
	"github.com/Mshel/pacmaze/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	log.SetLevel(cfg.LogLevel)

	cmd := &cli.Command{
		Name:  "pacmaze",
		Usage: "play the maze locally or let the autopilot run it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "maze", Usage: "maze file; the built-in maze when empty", Value: cfg.MazeFile},
			&cli.StringFlag{Name: "name", Usage: "player name for saved results", Value: "local"},
			&cli.StringFlag{Name: "db", Usage: "sqlite file for results", Value: cfg.DBPath},
			&cli.StringFlag{Name: "ghost-script", Usage: "Lua ghost strategy", Value: cfg.GhostScript},
			&cli.DurationFlag{Name: "tick", Usage: "time between ticks", Value: cfg.TickDuration},
			&cli.IntFlag{Name: "pill-max", Usage: "pill timer in ticks; 0 keeps the maze's value", Value: cfg.PillMax},
			&cli.BoolFlag{Name: "headless", Usage: "run the autopilot without a terminal UI"},
			&cli.IntFlag{Name: "moves", Usage: "autopilot ticks in headless mode", Value: game.AutomateMoveBurst},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	maze, err := game.LoadMaze(cmd.String("maze"))
	if err != nil {
		return err
	}

	var script game.GhostStrategy
	if path := cmd.String("ghost-script"); path != "" {
		scriptStrategy, err := game.LoadScriptStrategy(path)
		if err != nil {
			return err
		}
		script = scriptStrategy
	}

	scores, err := game.NewHighScoreService(cmd.String("db"))
	if err != nil {
		return fmt.Errorf("open results: %w", err)
	}
	defer scores.Close()

	recorder := game.NewResultRecorder(scores, 1)
	defer recorder.Close()

	gameManager, err := game.NewGameManager(game.GameManagerOptions{
		Maze:         maze,
		PillMax:      cmd.Int("pill-max"),
		TickDuration: cmd.Duration("tick"),
		PlayerName:   cmd.String("name"),
		StrategyFor:  game.StrategyRoster(script),
		Recorder:     recorder,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("headless") {
		return runHeadless(gameManager, cmd.Int("moves"))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	program := tea.NewProgram(ui.NewControllerModel(ctx, gameManager, scores, 0, 0), tea.WithAltScreen())
	finalModel, err := program.Run()

	// the loop records an unfinished game on the way out; let it reach the
	// recorder before the deferred Close
	cancel()
	if controller, ok := finalModel.(ui.ControllerModel); ok {
		controller.WaitForGameLoop()
	}
	return err
}

func runHeadless(gameManager *game.GameManager, moves int) error {
	if moves < 1 {
		return fmt.Errorf("moves must be positive, got %d", moves)
	}
	ran := gameManager.AutomateMove(moves)
	gameManager.RecordResult()

	snapshot := gameManager.Snapshot()
	log.Info("Autopilot finished",
		"game", snapshot.GameID,
		"ticks", ran,
		"score", snapshot.Score,
		"remaining", snapshot.Remaining,
		"outcome", snapshot.Outcome,
		"reason", snapshot.Reason,
	)
	return nil
}
