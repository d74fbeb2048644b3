package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("Defaults when nothing is set", func(t *testing.T) {
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:6996", cfg.Address())
		assert.Equal(t, 150*time.Millisecond, cfg.TickDuration)
		assert.Equal(t, 0, cfg.PillMax)
		assert.Equal(t, 2, cfg.MaxConnPerIP)
		assert.Equal(t, log.InfoLevel, cfg.LogLevel)
		assert.Empty(t, cfg.MazeFile)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("PACMAZE_PORT", "2222")
		t.Setenv("PACMAZE_TICK_MS", "80")
		t.Setenv("PACMAZE_PILL_MAX", "12")
		t.Setenv("PACMAZE_LOG_LEVEL", "debug")
		t.Setenv("PACMAZE_MAZE_FILE", "mazes.txt")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:2222", cfg.Address())
		assert.Equal(t, 80*time.Millisecond, cfg.TickDuration)
		assert.Equal(t, 12, cfg.PillMax)
		assert.Equal(t, log.DebugLevel, cfg.LogLevel)
		assert.Equal(t, "mazes.txt", cfg.MazeFile)
	})

	t.Run("Malformed values are reported", func(t *testing.T) {
		t.Setenv("PACMAZE_TICK_MS", "fast")
		t.Setenv("PACMAZE_MAX_CONN_PER_IP", "0")
		t.Setenv("PACMAZE_LOG_LEVEL", "loud")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PACMAZE_TICK_MS must be an integer")
		assert.Contains(t, err.Error(), "PACMAZE_MAX_CONN_PER_IP")
		assert.Contains(t, err.Error(), "PACMAZE_LOG_LEVEL")
	})

	t.Run("Negative pill timer is rejected", func(t *testing.T) {
		t.Setenv("PACMAZE_PILL_MAX", "-3")

		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestLoadReadsDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PACMAZE_DB_PATH=/tmp/scores.db\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PACMAZE_DB_PATH") })

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scores.db", cfg.DBPath)
}
