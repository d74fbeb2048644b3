package game

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHighScoreService(t *testing.T) *HighScoreService {
	t.Helper()
	service, err := NewHighScoreService(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })
	return service
}

func TestHighScoreService(t *testing.T) {
	service := newTestHighScoreService(t)

	results := []GameResult{
		{ID: "a", PlayerName: "ana", Score: 10, Iterations: 50, Outcome: Lost, Reason: ReasonCaught},
		{ID: "b", PlayerName: "bo", Score: 30, Iterations: 90, Outcome: Won, Reason: ReasonCleared},
		{ID: "c", PlayerName: "cy", Score: 10, Iterations: 20, Outcome: InProgress},
	}
	for _, r := range results {
		require.NoError(t, service.SaveGameResult(r))
	}

	t.Run("Best score first, fewer iterations break ties", func(t *testing.T) {
		leaders, err := service.GetHighScores(10, 0)
		require.NoError(t, err)
		require.Len(t, leaders, 3)

		var ids []string
		for _, r := range leaders {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []string{"b", "c", "a"}, ids)
		assert.Equal(t, Won, leaders[0].Outcome)
		assert.Equal(t, ReasonCleared, leaders[0].Reason)
		assert.Equal(t, "bo", leaders[0].PlayerName)
		assert.False(t, leaders[0].CreatedAt.IsZero())
	})

	t.Run("Paging", func(t *testing.T) {
		page, err := service.GetHighScores(1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "c", page[0].ID)
	})

	t.Run("Count", func(t *testing.T) {
		count, err := service.GetTotalScoreCount()
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("Duplicate game id is rejected", func(t *testing.T) {
		assert.Error(t, service.SaveGameResult(results[0]))
	})
}

type memoryResultStore struct {
	mu      sync.Mutex
	results []GameResult
}

func (s *memoryResultStore) SaveGameResult(result GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *memoryResultStore) saved() []GameResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]GameResult(nil), s.results...)
}

func TestResultRecorder(t *testing.T) {
	store := &memoryResultStore{}
	recorder := NewResultRecorder(store, 2)

	for _, id := range []string{"1", "2", "3"} {
		assert.True(t, recorder.Submit(GameResult{ID: id}))
	}
	recorder.Close()

	assert.Len(t, store.saved(), 3, "close drains the queue")
	assert.False(t, recorder.Submit(GameResult{ID: "4"}), "closed recorder drops results")
	recorder.Close()
}

func TestResultRecorderWithSqlite(t *testing.T) {
	service := newTestHighScoreService(t)
	recorder := NewResultRecorder(service, 0)

	recorder.Submit(GameResult{ID: "x", PlayerName: "p", Score: 5, Iterations: 7, Outcome: Won, Reason: ReasonCleared})
	recorder.Close()

	count, err := service.GetTotalScoreCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
