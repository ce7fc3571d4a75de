package pipeline

import (
	"sync"
	"time"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
)

// ErrorEntry records one enrichment failure. A single entry may implicate
// several items when they share a cause (e.g. the same network fault).
type ErrorEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Message     string    `json:"message"`
	Details     string    `json:"details,omitempty"`
	FailedItems []string  `json:"failed_items"`
}

// ErrorLog is the session-scoped ledger of enrichment failures, ordered
// oldest-first (most recent entries last). Appends happen on the controller's
// run loop; reads may come from UI goroutines, so the log carries its own lock.
type ErrorLog struct {
	mu      sync.RWMutex
	entries []ErrorEntry
}

// NewErrorLog creates an empty log.
func NewErrorLog() *ErrorLog {
	return &ErrorLog{}
}

// Append records a failure and returns the stored entry with its assigned ID.
func (l *ErrorLog) Append(message, details string, failedItems []string) ErrorEntry {
	entry := ErrorEntry{
		ID:          shared.GenerateID(),
		Timestamp:   time.Now(),
		Message:     message,
		Details:     details,
		FailedItems: failedItems,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	return entry
}

// Entries returns a copy of the log, oldest-first.
func (l *ErrorLog) Entries() []ErrorEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]ErrorEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Count returns the number of entries.
func (l *ErrorLog) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Remove drops the entries with the given IDs, preserving order of the rest.
func (l *ErrorLog) Remove(ids []string) {
	if len(ids) == 0 {
		return
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.entries[:0]
	for _, e := range l.entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	l.entries = kept
}

// Clear empties the log without touching item statuses.
func (l *ErrorLog) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
