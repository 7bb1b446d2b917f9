package types

import (
	"math"
	"time"
)

// LogEntry is one hub log record as returned by GET /logs.
type LogEntry struct {
	Timestamp float64 `json:"timestamp"` // UNIX seconds
	Severity  string  `json:"severity"`
	Message   string  `json:"message"`
}

// Time converts the UNIX seconds timestamp, scaled to milliseconds first.
func (e LogEntry) Time() time.Time {
	return time.UnixMilli(int64(math.Round(e.Timestamp * 1000)))
}
