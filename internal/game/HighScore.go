package game

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

const tableName = "game_results"

// GameResult is the persisted summary of one finished game.
type GameResult struct {
	ID         string
	PlayerName string
	Score      int
	Iterations int
	Outcome    Outcome
	Reason     string
	CreatedAt  time.Time
}

type HighScoreService struct {
	db *sql.DB
}

func NewHighScoreService(dbPath string) (*HighScoreService, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open high score database: %w", err)
	}

	service := &HighScoreService{db: db}
	if err := service.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return service, nil
}

func (serviceImpl *HighScoreService) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		id TEXT PRIMARY KEY,
		player_name TEXT NOT NULL,
		score INTEGER NOT NULL,
		iterations INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := serviceImpl.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	log.Debug("Game results table ensured.")
	return nil
}

func (serviceImpl *HighScoreService) SaveGameResult(result GameResult) error {
	const insertSQL = `
	INSERT INTO ` + tableName + ` (id, player_name, score, iterations, outcome, reason)
	VALUES (?, ?, ?, ?, ?, ?);`

	_, err := serviceImpl.db.Exec(insertSQL, result.ID, result.PlayerName, result.Score,
		result.Iterations, result.Outcome.String(), result.Reason)
	if err != nil {
		return fmt.Errorf("failed to insert game result for %s: %w", result.PlayerName, err)
	}
	return nil
}

// GetHighScores pages through results, best score first; fewer iterations
// break ties.
func (serviceImpl *HighScoreService) GetHighScores(limit, offset int) ([]GameResult, error) {
	const selectSQL = `
	SELECT id, player_name, score, iterations, outcome, reason, created_at
	FROM ` + tableName + `
	ORDER BY score DESC, iterations ASC
	LIMIT ? OFFSET ?;`

	rows, err := serviceImpl.db.Query(selectSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query high scores: %w", err)
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var result GameResult
		var outcome, createdAt string
		err := rows.Scan(&result.ID, &result.PlayerName, &result.Score, &result.Iterations,
			&outcome, &result.Reason, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result.Outcome = parseOutcome(outcome)
		if parsed, err := parseTimestamp(createdAt); err == nil {
			result.CreatedAt = parsed
		} else {
			log.Warn("Time parsing error for game result", "id", result.ID, "raw", createdAt, "error", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return results, nil
}

func (serviceImpl *HighScoreService) GetTotalScoreCount() (int, error) {
	const countSQL = `SELECT COUNT(*) FROM ` + tableName + `;`
	var count int
	if err := serviceImpl.db.QueryRow(countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get total score count: %w", err)
	}
	return count, nil
}

func (serviceImpl *HighScoreService) Close() error {
	return serviceImpl.db.Close()
}

func parseOutcome(s string) Outcome {
	switch s {
	case Won.String():
		return Won
	case Lost.String():
		return Lost
	default:
		return InProgress
	}
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
