package course

import (
	"context"
	"log/slog"

	"github.com/chivanit/medremind/internal/domain"
)

// Tracker decides whether a prescription's course has been completed and
// closes it out exactly once.
type Tracker struct {
	store domain.Store
}

func NewTracker(store domain.Store) *Tracker {
	return &Tracker{store: store}
}

// Complete reports whether the pills logged so far reach the prescribed
// total. A prescription without a quantity total never completes.
func (t *Tracker) Complete(ctx context.Context, rx *domain.Prescription) (bool, error) {
	if rx.QuantityTotal == nil {
		return false, nil
	}
	sum, err := t.store.SumIntakePills(ctx, rx.ID)
	if err != nil {
		return false, err
	}
	return sum >= *rx.QuantityTotal, nil
}

// CloseOutIfComplete checks completion and, on the first detection,
// deactivates the inventory so no further reminders fire. The returned
// firstDetection is true only for the tick or acknowledgment that
// actually flipped the flag; repeated calls are no-ops, which keeps the
// one-time completion notice from re-firing.
func (t *Tracker) CloseOutIfComplete(ctx context.Context, rx *domain.Prescription) (completed, firstDetection bool, err error) {
	completed, err = t.Complete(ctx, rx)
	if err != nil || !completed {
		return completed, false, err
	}

	deactivated, err := t.store.DeactivateInventory(ctx, rx.PatientID, rx.ID)
	if err != nil {
		return true, false, err
	}
	if deactivated {
		slog.InfoContext(ctx, "course completed, inventory deactivated",
			slog.String("prescription_id", rx.ID.String()),
			slog.String("patient_id", rx.PatientID.String()),
			slog.String("drug_name", rx.DrugName),
		)
	}
	return true, deactivated, nil
}
