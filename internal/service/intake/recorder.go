package intake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chivanit/medremind/internal/domain"
	"github.com/chivanit/medremind/internal/observability/metrics"
	"github.com/chivanit/medremind/internal/service/clockzone"
	"github.com/chivanit/medremind/internal/service/course"
	"github.com/chivanit/medremind/internal/service/message"
	"github.com/chivanit/medremind/internal/service/window"
)

// Result is the outcome of one acknowledgment: the slots just recorded
// and the drug names of any courses that completed as a consequence.
type Result struct {
	Recorded  []message.DueItem
	Completed []string
}

// Nothing reports that the acknowledgment matched no open slot, or that
// everything currently due was already recorded.
func (r *Result) Nothing() bool {
	return len(r.Recorded) == 0 && len(r.Completed) == 0
}

// Recorder handles inbound "dose taken" acknowledgments. It shares the
// window calculator with the tick orchestrator, and its conditional
// insert makes repeated acknowledgments idempotent.
type Recorder struct {
	store           domain.Store
	resolver        *clockzone.Resolver
	windows         *window.Calculator
	courses         *course.Tracker
	reminderMetrics *metrics.ReminderMetrics
}

func NewRecorder(
	store domain.Store,
	resolver *clockzone.Resolver,
	windows *window.Calculator,
	courses *course.Tracker,
	reminderMetrics *metrics.ReminderMetrics,
) *Recorder {
	return &Recorder{
		store:           store,
		resolver:        resolver,
		windows:         windows,
		courses:         courses,
		reminderMetrics: reminderMetrics,
	}
}

// RecordAck records the currently open slot of every inventory-active
// prescription owned by the acknowledging patient. Returns
// domain.ErrPatientNotFound when the sender is not linked.
func (r *Recorder) RecordAck(ctx context.Context, lineUserID string, now time.Time) (*Result, error) {
	patient, err := r.store.GetPatientByLineUserID(ctx, lineUserID)
	if err != nil {
		return nil, err
	}

	prescriptions, err := r.store.ListActivePrescriptions(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active prescriptions: %w", err)
	}

	result := &Result{}
	for i := range prescriptions {
		rx := &prescriptions[i]

		local, err := r.resolver.Resolve(now, rx.Timezone)
		if err != nil {
			slog.WarnContext(ctx, "skipping prescription with unresolvable timezone",
				slog.String("prescription_id", rx.ID.String()),
				slog.String("timezone", rx.Timezone),
			)
			continue
		}
		if !rx.ActiveOn(local.Date) {
			continue
		}

		current, ok := r.windows.Current(rx.Schedules, local.MinuteOfDay)
		if !ok {
			continue
		}

		inserted, err := r.store.CreateIntake(ctx, &domain.DoseIntake{
			PatientID:      patient.ID,
			PrescriptionID: rx.ID,
			IntakeDate:     local.Date,
			TimeOfDay:      current.Slot.TimeOfDay,
			Pills:          current.Slot.Pills,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to record dose intake",
				slog.String("prescription_id", rx.ID.String()),
				slog.String("time_of_day", current.Slot.TimeOfDay),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !inserted {
			// Already recorded for this key; idempotent no-op.
			continue
		}

		result.Recorded = append(result.Recorded, message.DueItem{
			DrugName: rx.DrugName,
			Slot:     current.Slot,
		})
		if r.reminderMetrics != nil {
			r.reminderMetrics.RecordIntakeRecorded(ctx)
		}
		slog.InfoContext(ctx, "dose intake recorded",
			slog.String("patient_id", patient.ID.String()),
			slog.String("prescription_id", rx.ID.String()),
			slog.String("time_of_day", current.Slot.TimeOfDay),
			slog.Int("pills", current.Slot.Pills),
		)

		// Completion is detected within the same acknowledgment rather
		// than waiting for the next tick.
		_, firstDetection, err := r.courses.CloseOutIfComplete(ctx, rx)
		if err != nil {
			slog.WarnContext(ctx, "failed to check course completion",
				slog.String("prescription_id", rx.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if firstDetection {
			result.Completed = append(result.Completed, rx.DrugName)
			if r.reminderMetrics != nil {
				r.reminderMetrics.RecordCourseCompleted(ctx)
			}
		}
	}

	return result, nil
}
