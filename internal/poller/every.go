package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Task is one unit of periodic work.
type Task func(ctx context.Context)

// Every runs task once per interval until ctx is cancelled. Each tick runs in
// its own goroutine; a tick is skipped while the previous run of the same task
// has not finished. Every blocks until ctx is done and all runs have returned.
func Every(ctx context.Context, interval time.Duration, name string, task Task, logger zerolog.Logger) {
	log := logger.With().Str("task", name).Logger()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		inFlight atomic.Bool
		wg       sync.WaitGroup
	)
	defer wg.Wait()

	log.Debug().Dur("interval", interval).Msg("Periodic task started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Periodic task stopped")
			return
		case <-ticker.C:
			if !inFlight.CompareAndSwap(false, true) {
				log.Debug().Msg("Previous run still in flight, skipping tick")
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer inFlight.Store(false)
				task(ctx)
			}()
		}
	}
}
