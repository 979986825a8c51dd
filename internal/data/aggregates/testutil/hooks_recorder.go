package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/pantry-backend/internal/data/aggregates"
)

// HooksRecorder keeps every hook call so tests can assert on write outcomes.
type HooksRecorder struct {
	mu       sync.Mutex
	statuses map[string][]string
	slowest  time.Duration

	Conflicts []string
	Retries   []string
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.statuses == nil {
		h.statuses = make(map[string][]string)
	}
	h.statuses[name] = append(h.statuses[name], status)
	h.slowest = max(h.slowest, dur)
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	h.Conflicts = append(h.Conflicts, name)
	h.mu.Unlock()
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	h.Retries = append(h.Retries, name)
	h.mu.Unlock()
}

// Statuses returns the attempt statuses recorded for op, oldest first.
func (h *HooksRecorder) Statuses(op string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.statuses[op]...)
}

// Slowest is the longest attempt seen across all operations.
func (h *HooksRecorder) Slowest() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.slowest
}
