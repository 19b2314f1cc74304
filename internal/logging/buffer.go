package logging

import (
	"strings"
	"sync"
	"time"
)

// Entry is one activity log line.
type Entry struct {
	Timestamp time.Time         `json:"timestamp"`
	Level     string            `json:"level"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Buffer is a fixed-capacity ring of recent entries, oldest dropped first.
type Buffer struct {
	mu      sync.RWMutex
	entries []Entry
	cap     int
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer{
		entries: make([]Entry, 0, capacity),
		cap:     capacity,
	}
}

func (b *Buffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) >= b.cap {
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = e
		return
	}
	b.entries = append(b.entries, e)
}

// Entries returns a copy of the buffer, optionally filtered by level name.
func (b *Buffer) Entries(levels []string) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(levels) == 0 {
		out := make([]Entry, len(b.entries))
		copy(out, b.entries)
		return out
	}

	want := make(map[string]bool, len(levels))
	for _, l := range levels {
		want[strings.ToUpper(strings.TrimSpace(l))] = true
	}
	out := make([]Entry, 0)
	for _, e := range b.entries {
		if want[strings.ToUpper(e.Level)] {
			out = append(out, e)
		}
	}
	return out
}

func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = b.entries[:0]
}
