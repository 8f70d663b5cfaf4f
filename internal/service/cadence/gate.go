package cadence

import (
	"context"
	"time"

	"github.com/chivanit/medremind/internal/domain"
)

// Verdict is the gate's decision for one slot key.
type Verdict string

const (
	VerdictAllow Verdict = "allow"
	// VerdictAlreadyTaken suppresses the slot for the rest of the day.
	VerdictAlreadyTaken Verdict = "already_taken"
	// VerdictCadenceHold suppresses until the cadence interval elapses.
	VerdictCadenceHold Verdict = "cadence_hold"
)

func (v Verdict) Allowed() bool {
	return v == VerdictAllow
}

// Gate decides whether a reminder may fire for a slot key. The
// already-taken check takes precedence over cadence: once a dose is
// logged for the key, the slot stays quiet for the rest of the day even
// while its window is still open.
type Gate struct {
	store   domain.Store
	cadence time.Duration
}

func NewGate(store domain.Store, cadence time.Duration) *Gate {
	return &Gate{store: store, cadence: cadence}
}

func (g *Gate) Evaluate(ctx context.Context, key domain.SlotKey, now time.Time) (Verdict, error) {
	taken, err := g.store.HasIntake(ctx, key)
	if err != nil {
		return "", err
	}
	if taken {
		return VerdictAlreadyTaken, nil
	}

	lastSent, err := g.store.LatestNotificationSentAt(ctx, key)
	if err != nil {
		return "", err
	}
	if lastSent != nil && now.Sub(*lastSent) < g.cadence {
		return VerdictCadenceHold, nil
	}
	return VerdictAllow, nil
}
