package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/five82/flimmer/internal/debuglog"
	"github.com/five82/flimmer/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 30 * time.Second
)

// Target is the syncer the poller refreshes. The TUI points it at the
// mounted view.
type Target struct {
	p atomic.Pointer[state.Syncer]
}

// Set replaces the polled syncer. A nil syncer pauses polling.
func (t *Target) Set(s *state.Syncer) {
	t.p.Store(s)
}

// Get returns the current syncer, or nil.
func (t *Target) Get() *state.Syncer {
	return t.p.Load()
}

// StartPoller launches a background goroutine that refreshes the target
// every interval, backing off while the backend keeps failing. The first
// refresh happens after one interval since views fetch on mount. It returns
// immediately.
func StartPoller(ctx context.Context, target *Target, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		failures := 0
		delay := interval
		for {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			delay = interval
			s := target.Get()
			if s == nil {
				continue
			}
			if err := s.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				delay = calculateBackoff(failures, interval)
				debuglog.Event("POLL_BACKOFF", map[string]any{
					"failures": failures,
					"delay":    delay.String(),
				})
				continue
			}
			failures = 0
		}
	}()
}

// calculateBackoff doubles base once per consecutive failure, capped at
// maxBackoff. Intervals already at or above the cap are returned unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	d := base
	for i := 0; i < failures && d < maxBackoff; i++ {
		d *= 2
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}
