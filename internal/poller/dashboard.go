package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Intervals holds the cadence of both periodic tasks.
type Intervals struct {
	Devices time.Duration
	Logs    time.Duration
}

// Dashboard runs the device and log pollers as two independent periodic
// tasks. Start and Stop may be called repeatedly (login, logout, re-login).
type Dashboard struct {
	Devices   *DevicePoller
	Logs      *LogPoller
	intervals Intervals
	logger    zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDashboard creates a dashboard over both pollers.
func NewDashboard(devices *DevicePoller, logs *LogPoller, intervals Intervals, logger zerolog.Logger) *Dashboard {
	return &Dashboard{
		Devices:   devices,
		Logs:      logs,
		intervals: intervals,
		logger:    logger.With().Str("component", "dashboard").Logger(),
	}
}

// Start fetches logs once and begins both periodic tasks under parent.
// A running pair of tasks is stopped first.
func (d *Dashboard) Start(parent context.Context) {
	d.Stop()

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	d.mu.Lock()
	d.cancel = cancel
	d.done = done
	d.mu.Unlock()

	d.Logs.FetchLogs(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		Every(ctx, d.intervals.Devices, "devices", func(ctx context.Context) {
			d.Devices.FetchAndPopulate(ctx)
		}, d.logger)
	}()
	go func() {
		defer wg.Done()
		Every(ctx, d.intervals.Logs, "logs", func(ctx context.Context) {
			d.Logs.FetchLogs(ctx)
		}, d.logger)
	}()
	go func() {
		wg.Wait()
		close(done)
	}()

	d.logger.Info().
		Dur("device_interval", d.intervals.Devices).
		Dur("log_interval", d.intervals.Logs).
		Msg("Polling started")
}

// Stop cancels both tasks and waits for in-flight runs to return.
func (d *Dashboard) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	d.logger.Info().Msg("Polling stopped")
}

// Running reports whether the periodic tasks are active.
func (d *Dashboard) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}
