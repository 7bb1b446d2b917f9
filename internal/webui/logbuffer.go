package webui

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// ConsoleEntry is one line of this process's own log output
type ConsoleEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Component string    `json:"component,omitempty"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	Raw       string    `json:"raw"`
}

// LogBuffer is a thread-safe ring buffer capturing zerolog output. It backs
// the developer console, where device mutation failures end up.
type LogBuffer struct {
	entries []ConsoleEntry
	size    int
	head    int
	count   int
	mu      sync.RWMutex
	now     func() time.Time
}

// NewLogBuffer creates a new log buffer with the specified capacity
func NewLogBuffer(size int) *LogBuffer {
	if size < 1 {
		size = 1
	}
	return &LogBuffer{
		entries: make([]ConsoleEntry, size),
		size:    size,
		now:     time.Now,
	}
}

// Write implements io.Writer. Each call is expected to carry one zerolog line.
func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	entry := parseLine(string(p), lb.now())

	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.entries[lb.head] = entry
	lb.head = (lb.head + 1) % lb.size
	if lb.count < lb.size {
		lb.count++
	}

	return len(p), nil
}

// Entries returns all entries in chronological order
func (lb *LogBuffer) Entries() []ConsoleEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	result := make([]ConsoleEntry, lb.count)
	start := 0
	if lb.count == lb.size {
		start = lb.head
	}
	for i := 0; i < lb.count; i++ {
		result[i] = lb.entries[(start+i)%lb.size]
	}
	return result
}

// Recent returns the most recent n entries
func (lb *LogBuffer) Recent(n int) []ConsoleEntry {
	entries := lb.Entries()
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

// Clear clears all entries
func (lb *LogBuffer) Clear() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.head = 0
	lb.count = 0
}

type zerologLine struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component"`
	Error     string `json:"error"`
	Time      int64  `json:"time"`
}

// parseLine decodes a zerolog JSON line; anything else is kept raw at info.
func parseLine(raw string, now time.Time) ConsoleEntry {
	raw = strings.TrimRight(raw, "\n")
	entry := ConsoleEntry{Timestamp: now, Level: "info", Message: raw, Raw: raw}

	var line zerologLine
	if err := json.Unmarshal([]byte(raw), &line); err != nil {
		return entry
	}
	if line.Level != "" {
		entry.Level = line.Level
	}
	if line.Time > 0 {
		entry.Timestamp = time.Unix(line.Time, 0)
	}
	entry.Message = line.Message
	entry.Component = line.Component
	entry.Error = line.Error
	return entry
}
