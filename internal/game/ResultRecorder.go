package game

import (
	"sync"

	"github.com/charmbracelet/log"
)

// ResultStore persists finished games. HighScoreService implements it.
type ResultStore interface {
	SaveGameResult(GameResult) error
}

// ResultRecorder moves persistence off the game loop: Submit never blocks
// and a small worker pool drains the queue into the store.
type ResultRecorder struct {
	results chan GameResult
	store   ResultStore

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewResultRecorder(store ResultStore, workers int) *ResultRecorder {
	if workers < 1 {
		workers = resultWorkerCount
	}
	recorder := &ResultRecorder{
		results: make(chan GameResult, resultChannelDepth),
		store:   store,
	}
	for w := 0; w < workers; w++ {
		recorder.wg.Add(1)
		go recorder.resultWorker()
	}
	return recorder
}

func (r *ResultRecorder) resultWorker() {
	defer r.wg.Done()
	for result := range r.results {
		if err := r.store.SaveGameResult(result); err != nil {
			log.Error("Game result persist failed", "game", result.ID, "error", err)
			continue
		}
		log.Debug("Game result saved", "game", result.ID, "score", result.Score, "outcome", result.Outcome)
	}
}

// Submit queues a result and reports whether it was accepted. A full queue
// or a closed recorder drops the result.
func (r *ResultRecorder) Submit(result GameResult) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.results <- result:
		return true
	default:
		log.Warn("Result queue full, dropping game result", "game", result.ID)
		return false
	}
}

// Close stops accepting results and waits for queued ones to be stored.
func (r *ResultRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.results)
	r.mu.Unlock()
	r.wg.Wait()
}
