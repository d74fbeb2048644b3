package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const envPrefix = "PACMAZE_"

// Config holds the settings shared by the SSH server and the local runner.
type Config struct {
	Host           string        // Interface the SSH server binds to
	Port           string        // SSH port
	PrivateKeyPath string        // Host key path; wish generates one when missing
	DBPath         string        // sqlite file holding game results
	MazeFile       string        // Optional maze file; empty means the built-in maze
	TickDuration   time.Duration // Time between engine ticks
	PillMax        int           // Pill timer length in ticks; 0 keeps the maze's value
	MaxConnPerIP   int           // Concurrent SSH sessions allowed per remote IP
	GhostScript    string        // Optional Lua ghost strategy
	LogLevel       log.Level     // Minimum level for charmbracelet/log
}

// Load reads an optional .env file, then the PACMAZE_* environment.
// Unset variables take their defaults; malformed ones are reported together.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug(".env file not loaded", "error", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	var errs []error

	cfg := Config{
		Host:           getEnvWithDefault("HOST", "0.0.0.0"),
		Port:           getEnvWithDefault("PORT", "6996"),
		PrivateKeyPath: getEnvWithDefault("PRIVATE_KEY_PATH", ".ssh/id_ed25519"),
		DBPath:         getEnvWithDefault("DB_PATH", "./pacmaze.db"),
		MazeFile:       getEnvWithDefault("MAZE_FILE", ""),
		GhostScript:    getEnvWithDefault("GHOST_SCRIPT", ""),
	}

	tickMs, err := getEnvAsInt("TICK_MS", 150)
	errs = append(errs, err)
	cfg.TickDuration = time.Duration(tickMs) * time.Millisecond

	cfg.PillMax, err = getEnvAsInt("PILL_MAX", 0)
	errs = append(errs, err)

	cfg.MaxConnPerIP, err = getEnvAsInt("MAX_CONN_PER_IP", 2)
	errs = append(errs, err)

	cfg.LogLevel, err = log.ParseLevel(getEnvWithDefault("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, fmt.Errorf("%sLOG_LEVEL: %w", envPrefix, err))
	}

	if tickMs <= 0 {
		errs = append(errs, fmt.Errorf("%sTICK_MS must be positive, got %d", envPrefix, tickMs))
	}
	if cfg.PillMax < 0 {
		errs = append(errs, fmt.Errorf("%sPILL_MAX must not be negative, got %d", envPrefix, cfg.PillMax))
	}
	if cfg.MaxConnPerIP < 1 {
		errs = append(errs, fmt.Errorf("%sMAX_CONN_PER_IP must be at least 1, got %d", envPrefix, cfg.MaxConnPerIP))
	}

	return cfg, errors.Join(errs...)
}

// Address is the host:port pair the SSH server listens on.
func (c Config) Address() string {
	return c.Host + ":" + c.Port
}

func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr, exists := os.LookupEnv(envPrefix + key)
	if !exists || valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue, fmt.Errorf("%s%s must be an integer: %w", envPrefix, key, err)
	}
	return value, nil
}
