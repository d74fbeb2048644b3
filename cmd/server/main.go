package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Mshel/pacmaze/internal/config"
	"github.com/Mshel/pacmaze/internal/game"
	"github.com/Mshel/pacmaze/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

// ipLimiter caps the number of concurrent sessions per remote IP.
type ipLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	limit  int
}

func newIPLimiter(limit int) *ipLimiter {
	return &ipLimiter{counts: make(map[string]int), limit: limit}
}

func getIP(s ssh.Session) string {
	if addr, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return s.RemoteAddr().String()
}

// acquire reserves a slot for ip and returns the count before the attempt.
func (l *ipLimiter) acquire(ip string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current := l.counts[ip]
	if current >= l.limit {
		return current, false
	}
	l.counts[ip]++
	return current, true
}

func (l *ipLimiter) release(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[ip]--
	if l.counts[ip] <= 0 {
		delete(l.counts, ip)
		return 0
	}
	return l.counts[ip]
}

func (l *ipLimiter) Middleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := getIP(s)

		currentCount, ok := l.acquire(ip)
		if !ok {
			log.Warn("Connection denied: IP limit exceeded", "ip", ip, "attempted_count", currentCount+1, "current_limit", l.limit)
			errorMessage := fmt.Sprintf("Too many active connections from your IP (%d/%d). Please try again later.\r\n", currentCount+1, l.limit)
			s.Write([]byte(errorMessage))
			s.Close()
			return
		}

		log.Info("Connection accepted", "ip", ip, "current_count", currentCount+1, "limit", l.limit)
		next(s)
		log.Info("Connection closed and counter decremented", "ip", ip, "count_after", l.release(ip))
	}
}

// server carries what every session shares: the maze, the ghost roster and
// the result store.
type server struct {
	cfg      config.Config
	maze     *game.Maze
	roster   func(i int) game.GhostStrategy
	scores   *game.HighScoreService
	recorder *game.ResultRecorder
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	log.SetLevel(cfg.LogLevel)

	maze, err := game.LoadMaze(cfg.MazeFile)
	if err != nil {
		log.Fatal("Could not load maze", "file", cfg.MazeFile, "error", err)
	}

	var script game.GhostStrategy
	if cfg.GhostScript != "" {
		scriptStrategy, err := game.LoadScriptStrategy(cfg.GhostScript)
		if err != nil {
			log.Fatal("Could not load ghost script", "file", cfg.GhostScript, "error", err)
		}
		script = scriptStrategy
	}

	scores, err := game.NewHighScoreService(cfg.DBPath)
	if err != nil {
		log.Fatal("Could not open high score database", "path", cfg.DBPath, "error", err)
	}
	defer scores.Close()

	recorder := game.NewResultRecorder(scores, 0)
	defer recorder.Close()

	srv := &server{
		cfg:      cfg,
		maze:     maze,
		roster:   game.StrategyRoster(script),
		scores:   scores,
		recorder: recorder,
	}
	limiter := newIPLimiter(cfg.MaxConnPerIP)

	sshServer, serverCreateErr := wish.NewServer(
		wish.WithAddress(cfg.Address()),
		wish.WithHostKeyPath(cfg.PrivateKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.viewHandler),
			logging.Middleware(),
			activeterm.Middleware(),
			limiter.Middleware,
		),
	)
	if serverCreateErr != nil {
		log.Fatal("Failed to create ssh server", "error", serverCreateErr)
	}

	serverDoneChannel := make(chan os.Signal, 1)
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Starting SSH server", "address", cfg.Address(), "maze", maze.Name)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	<-serverDoneChannel

	log.Info("Stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sshServer.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop server", "error", err)
	}
}

// viewHandler gives every session its own game; the loop stops with the
// session context.
func (srv *server) viewHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()

	gameManager, err := game.NewGameManager(game.GameManagerOptions{
		Maze:         srv.maze,
		PillMax:      srv.cfg.PillMax,
		TickDuration: srv.cfg.TickDuration,
		PlayerName:   sshSession.User(),
		StrategyFor:  srv.roster,
		Recorder:     srv.recorder,
		Logger:       log.With("session", sshSession.Context().SessionID(), "user", sshSession.User()),
	})
	if err != nil {
		// the maze was validated at startup, so this is not expected
		log.Error("Could not create game", "error", err)
		wish.Fatalln(sshSession, "Could not start a game.")
		return nil, nil
	}

	controllerModel := ui.NewControllerModel(sshSession.Context(), gameManager, srv.scores, pty.Window.Width, pty.Window.Height)
	return controllerModel, []tea.ProgramOption{tea.WithAltScreen()}
}
