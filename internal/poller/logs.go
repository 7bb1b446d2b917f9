package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nrfsmart/nrfdash/internal/client"
	"github.com/nrfsmart/nrfdash/internal/render"
	"github.com/nrfsmart/nrfdash/internal/session"
	"github.com/nrfsmart/nrfdash/internal/types"
	"github.com/rs/zerolog"
)

// LogAPI is the part of the hub API the log poller needs.
type LogAPI interface {
	Logs(ctx context.Context) ([]types.LogEntry, error)
}

// LogPoller caches the hub's log list and keeps the filtered panel.
type LogPoller struct {
	api    LogAPI
	banner *session.Banner
	logger zerolog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	all    []types.LogEntry
	filter render.Filter
	panel  render.LogPanel
}

// NewLogPoller creates a log poller reporting errors on banner.
func NewLogPoller(api LogAPI, banner *session.Banner, logger zerolog.Logger) *LogPoller {
	return &LogPoller{
		api:    api,
		banner: banner,
		logger: logger.With().Str("component", "log-poller").Logger(),
		now:    time.Now,
		filter: render.FilterAll,
		panel:  render.LogPanel{Filter: render.FilterAll},
	}
}

// FetchLogs replaces the cached buffer with the hub's current logs and
// re-renders. On failure the cache is kept and the banner is set.
func (p *LogPoller) FetchLogs(ctx context.Context) error {
	entries, err := p.api.Logs(ctx)
	if err != nil {
		if ctx.Err() != nil {
			p.logger.Debug().Err(err).Msg("Log fetch abandoned")
			return err
		}
		var se *client.StatusError
		if errors.As(err, &se) {
			p.banner.Set(session.MsgLogsFailed)
		} else {
			p.banner.Set(session.MsgLogsUnfetched)
		}
		p.logger.Error().Err(err).Msg("Could not fetch logs")
		return err
	}

	p.mu.Lock()
	p.all = entries
	p.mu.Unlock()

	p.RenderLogs()
	return nil
}

// RenderLogs rebuilds the panel from the cached buffer. No request is made.
func (p *LogPoller) RenderLogs() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.panel = render.Logs(p.all, p.filter, p.now())
}

// SetFilter changes the severity filter and re-renders from the cache.
func (p *LogPoller) SetFilter(f render.Filter) {
	p.mu.Lock()
	p.filter = f
	p.mu.Unlock()

	p.logger.Debug().Str("filter", string(f)).Msg("Log filter changed")
	p.RenderLogs()
}

// Filter returns the current severity filter.
func (p *LogPoller) Filter() render.Filter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filter
}

// Panel returns the current log panel.
func (p *LogPoller) Panel() render.LogPanel {
	p.mu.RLock()
	defer p.mu.RUnlock()
	lines := make([]render.LogLine, len(p.panel.Lines))
	copy(lines, p.panel.Lines)
	panel := p.panel
	panel.Lines = lines
	return panel
}

// Cached returns a copy of the cached buffer.
func (p *LogPoller) Cached() []types.LogEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]types.LogEntry, len(p.all))
	copy(out, p.all)
	return out
}

// Reset drops the cache and the panel, keeping the filter.
func (p *LogPoller) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.all = nil
	p.panel = render.LogPanel{Filter: p.filter}
}
