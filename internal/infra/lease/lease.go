package lease

import (
	"context"
	"time"
)

// Lease is the mutual-exclusion marker preventing overlapping reminder
// runs. Acquire returns false when another run holds the lease and it is
// not yet stale; a holder older than the configured maximum run duration
// is treated as abandoned and taken over. Release always succeeds for
// the current holder and is called on every run exit path.
//
// The local implementation only guards a single process against
// overlapping triggers; deployments with more than one replica must use
// the redis-backed implementation.
type Lease interface {
	Acquire(ctx context.Context, now time.Time) (bool, error)
	Release(ctx context.Context) error
}
