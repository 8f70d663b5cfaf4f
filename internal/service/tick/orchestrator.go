package tick

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chivanit/medremind/internal/domain"
	"github.com/chivanit/medremind/internal/infra/lease"
	"github.com/chivanit/medremind/internal/infra/messaging"
	"github.com/chivanit/medremind/internal/observability/metrics"
	"github.com/chivanit/medremind/internal/observability/tracing"
	"github.com/chivanit/medremind/internal/service/cadence"
	"github.com/chivanit/medremind/internal/service/clockzone"
	"github.com/chivanit/medremind/internal/service/course"
	"github.com/chivanit/medremind/internal/service/message"
	"github.com/chivanit/medremind/internal/service/window"
)

// Orchestrator drives one reminder run: every linked patient is scanned
// sequentially, every inventory-active prescription is evaluated, and all
// of a patient's due slots go out as one message. A lease guards against
// overlapping runs and is always released.
type Orchestrator struct {
	store           domain.Store
	delivery        messaging.Client
	runLease        lease.Lease
	resolver        *clockzone.Resolver
	windows         *window.Calculator
	courses         *course.Tracker
	gate            *cadence.Gate
	builder         *message.Builder
	reminderMetrics *metrics.ReminderMetrics
}

func NewOrchestrator(
	store domain.Store,
	delivery messaging.Client,
	runLease lease.Lease,
	resolver *clockzone.Resolver,
	windows *window.Calculator,
	courses *course.Tracker,
	gate *cadence.Gate,
	builder *message.Builder,
	reminderMetrics *metrics.ReminderMetrics,
) *Orchestrator {
	return &Orchestrator{
		store:           store,
		delivery:        delivery,
		runLease:        runLease,
		resolver:        resolver,
		windows:         windows,
		courses:         courses,
		gate:            gate,
		builder:         builder,
		reminderMetrics: reminderMetrics,
	}
}

// Run executes one tick. Returns domain.ErrRunInProgress when another run
// holds the lease; that is backpressure, not a failure.
func (o *Orchestrator) Run(ctx context.Context, now time.Time) (summary *Summary, err error) {
	acquired, err := o.runLease.Acquire(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lease: %w", err)
	}
	if !acquired {
		return nil, domain.ErrRunInProgress
	}
	defer func() {
		if releaseErr := o.runLease.Release(context.WithoutCancel(ctx)); releaseErr != nil {
			slog.WarnContext(ctx, "failed to release run lease",
				slog.String("error", releaseErr.Error()),
			)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			summary = nil
			err = fmt.Errorf("reminder run panicked: %v", r)
			slog.ErrorContext(ctx, "reminder run panicked",
				slog.Any("panic", r),
			)
		}
	}()

	runCtx, span := tracing.StartTickRunSpan(ctx, now)
	defer span.End()

	started := time.Now()
	summary = &Summary{}

	patients, err := o.store.ListLinkedPatients(runCtx)
	if err != nil {
		tracing.RecordTickRunResult(span, 0, 0, 0, 0, err)
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	// Sequential by design to bound concurrent connections to the store.
	for i := range patients {
		summary.PatientsScanned++
		if perr := o.processPatient(runCtx, &patients[i], now, summary); perr != nil {
			slog.ErrorContext(runCtx, "failed to process patient",
				slog.String("patient_id", patients[i].ID.String()),
				slog.String("error", perr.Error()),
			)
		}
	}

	if o.reminderMetrics != nil {
		o.reminderMetrics.RecordTickRunDuration(runCtx, time.Since(started))
		o.reminderMetrics.RecordPatientsScanned(runCtx, summary.PatientsScanned)
	}
	tracing.RecordTickRunResult(span,
		summary.PatientsScanned, summary.PatientsNotified, summary.DueItems, summary.DeliveryFailures, nil)

	slog.InfoContext(runCtx, "reminder run completed",
		slog.Int("patients_scanned", summary.PatientsScanned),
		slog.Int("patients_notified", summary.PatientsNotified),
		slog.Int("due_items", summary.DueItems),
		slog.Int("courses_completed", summary.CoursesCompleted),
		slog.Int("delivery_failures", summary.DeliveryFailures),
	)
	return summary, nil
}

type dueSlot struct {
	item message.DueItem
	key  domain.SlotKey
}

func (o *Orchestrator) processPatient(ctx context.Context, patient *domain.Patient, now time.Time, summary *Summary) error {
	ctx, span := tracing.StartPatientSpan(ctx, patient.ID.String())
	defer span.End()

	prescriptions, err := o.store.ListActivePrescriptions(ctx, patient.ID)
	if err != nil {
		return fmt.Errorf("failed to list active prescriptions: %w", err)
	}

	var due []dueSlot
	var completed []string

	for i := range prescriptions {
		rx := &prescriptions[i]

		isComplete, firstDetection, err := o.courses.CloseOutIfComplete(ctx, rx)
		if err != nil {
			slog.WarnContext(ctx, "failed to check course completion",
				slog.String("prescription_id", rx.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if isComplete {
			if firstDetection {
				completed = append(completed, rx.DrugName)
				summary.CoursesCompleted++
				if o.reminderMetrics != nil {
					o.reminderMetrics.RecordCourseCompleted(ctx)
				}
			}
			continue
		}

		local, err := o.resolver.Resolve(now, rx.Timezone)
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

		current, ok := o.windows.Current(rx.Schedules, local.MinuteOfDay)
		if !ok {
			continue
		}

		key := domain.NewSlotKey(patient.ID, rx.ID, local.Date, current.Slot.TimeOfDay)
		verdict, err := o.gate.Evaluate(ctx, key, now)
		if err != nil {
			slog.WarnContext(ctx, "failed to evaluate reminder gate",
				slog.String("prescription_id", rx.ID.String()),
				slog.String("time_of_day", key.TimeOfDay),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !verdict.Allowed() {
			slog.DebugContext(ctx, "reminder suppressed",
				slog.String("prescription_id", rx.ID.String()),
				slog.String("time_of_day", key.TimeOfDay),
				slog.String("verdict", string(verdict)),
			)
			if o.reminderMetrics != nil {
				o.reminderMetrics.RecordReminderBlocked(ctx, string(verdict))
			}
			continue
		}

		due = append(due, dueSlot{
			item: message.DueItem{DrugName: rx.DrugName, Slot: current.Slot},
			key:  key,
		})
	}

	if len(due) == 0 && len(completed) == 0 {
		return nil
	}

	items := make([]message.DueItem, 0, len(due))
	for _, d := range due {
		items = append(items, d.item)
	}
	text := o.builder.Reminder(items, completed)

	deliveryCtx, deliverySpan := tracing.StartDeliverySpan(ctx, patient.ID.String(), len(due))
	err = o.delivery.Push(deliveryCtx, *patient.LineUserID, text)
	deliverySpan.End()
	if err != nil {
		// Recovered locally: nothing is persisted for this patient so the
		// next tick retries, and the run moves on to the next patient.
		summary.DeliveryFailures++
		if o.reminderMetrics != nil {
			o.reminderMetrics.RecordDeliveryFailure(ctx)
		}
		slog.ErrorContext(ctx, "failed to deliver reminder",
			slog.String("patient_id", patient.ID.String()),
			slog.Int("due_items", len(due)),
			slog.String("error", err.Error()),
		)
		return nil
	}

	summary.PatientsNotified++
	summary.DueItems += len(due)
	if o.reminderMetrics != nil && len(due) > 0 {
		o.reminderMetrics.RecordRemindersSent(ctx, len(due))
	}

	if len(due) > 0 {
		logs := make([]domain.NotificationLog, 0, len(due))
		for _, d := range due {
			logs = append(logs, domain.NewNotificationLog(d.key, now))
		}
		if err := o.store.CreateNotificationLogs(ctx, logs); err != nil {
			// The message is already out; at worst the next tick repeats
			// it once the cadence window reopens.
			slog.ErrorContext(ctx, "failed to persist notification log batch",
				slog.String("patient_id", patient.ID.String()),
				slog.Int("log_count", len(logs)),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}
