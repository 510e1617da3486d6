package tracking

import (
	"sync"

	"github.com/your-org/campustrack/internal/models"
)

const DefaultHistorySize = 10

// History keeps the most recent completed searches, newest first.
type History struct {
	mu      sync.Mutex
	size    int
	entries []models.HistoryEntry
}

func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size, entries: make([]models.HistoryEntry, 0, size)}
}

// Add records e at the front, dropping the oldest entry beyond the bound.
func (h *History) Add(e models.HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) < h.size {
		h.entries = append(h.entries, models.HistoryEntry{})
	}
	copy(h.entries[1:], h.entries[:len(h.entries)-1])
	h.entries[0] = e
}

// Entries returns a copy, newest first.
func (h *History) Entries() []models.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
