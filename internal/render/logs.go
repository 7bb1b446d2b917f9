package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/nrfsmart/nrfdash/internal/types"
)

// Filter selects which severities the log panel shows.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterWarnings Filter = "warnings"
)

// ParseFilter validates a filter value coming from the UI.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterAll, "":
		return FilterAll, nil
	case FilterWarnings:
		return FilterWarnings, nil
	default:
		return FilterAll, fmt.Errorf("unknown severity filter %q", s)
	}
}

var warningSeverities = map[string]struct{}{
	"warning":  {},
	"error":    {},
	"critical": {},
}

// Passes reports whether a severity is shown under the filter.
func (f Filter) Passes(severity string) bool {
	if f != FilterWarnings {
		return true
	}
	_, ok := warningSeverities[strings.ToLower(severity)]
	return ok
}

// Apply returns the entries that pass the filter, in order.
// The input slice is never modified.
func (f Filter) Apply(entries []types.LogEntry) []types.LogEntry {
	out := make([]types.LogEntry, 0, len(entries))
	for _, e := range entries {
		if f.Passes(e.Severity) {
			out = append(out, e)
		}
	}
	return out
}

// LogLine is the render model of one log panel element.
type LogLine struct {
	Seq      int    `json:"seq"`
	Age      string `json:"age"`
	Severity string `json:"severity"`
	Class    string `json:"class"`
	Message  string `json:"message"`
}

// Prefix is the sequence/age part, e.g. "3 [12s] ".
func (l LogLine) Prefix() string {
	return fmt.Sprintf("%d [%s] ", l.Seq, l.Age)
}

// LogPanel is the render model of the log panel.
type LogPanel struct {
	Filter Filter    `json:"filter"`
	Lines  []LogLine `json:"lines"`
	Total  int       `json:"total"`
}

// Logs builds the panel from the cached buffer and the current filter.
func Logs(entries []types.LogEntry, filter Filter, now time.Time) LogPanel {
	visible := filter.Apply(entries)
	lines := make([]LogLine, 0, len(visible))
	for i, e := range visible {
		lines = append(lines, LogLine{
			Seq:      i + 1,
			Age:      FormatElapsed(e.Time(), now),
			Severity: e.Severity,
			Class:    "log-severity log-" + strings.ToLower(e.Severity),
			Message:  e.Message,
		})
	}
	return LogPanel{Filter: filter, Lines: lines, Total: len(entries)}
}
