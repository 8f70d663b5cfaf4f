package lease

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Local is an in-process lease: a mutex-guarded running flag plus start
// timestamp with a staleness valve.
type Local struct {
	mu             sync.Mutex
	running        bool
	startedAt      time.Time
	maxRunDuration time.Duration
}

func NewLocal(maxRunDuration time.Duration) *Local {
	return &Local{maxRunDuration: maxRunDuration}
}

func (l *Local) Acquire(_ context.Context, now time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		if now.Sub(l.startedAt) <= l.maxRunDuration {
			return false, nil
		}
		slog.Warn("stale reminder run lease force-reset",
			slog.Time("started_at", l.startedAt),
			slog.Duration("max_run_duration", l.maxRunDuration),
		)
	}

	l.running = true
	l.startedAt = now
	return true, nil
}

func (l *Local) Release(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = false
	return nil
}
