package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const reminderMeterName = "reminder.service"

type ReminderMetrics struct {
	remindersSent      metric.Int64Counter
	remindersBlocked   metric.Int64Counter
	deliveryFailures   metric.Int64Counter
	intakesRecorded    metric.Int64Counter
	coursesCompleted   metric.Int64Counter
	tickRunDuration    metric.Float64Histogram
	patientsPerTickRun metric.Int64Histogram
}

func NewReminderMetrics() (*ReminderMetrics, error) {
	meter := otel.Meter(reminderMeterName)

	remindersSent, err := meter.Int64Counter(
		"reminder_notifications_sent_total",
		metric.WithDescription("Total number of reminder slots delivered"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, err
	}

	remindersBlocked, err := meter.Int64Counter(
		"reminder_notifications_blocked_total",
		metric.WithDescription("Total number of reminder slots suppressed by the dedup and cadence gate"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, err
	}

	deliveryFailures, err := meter.Int64Counter(
		"reminder_delivery_failures_total",
		metric.WithDescription("Total number of per-patient delivery failures"),
		metric.WithUnit("{patient}"),
	)
	if err != nil {
		return nil, err
	}

	intakesRecorded, err := meter.Int64Counter(
		"reminder_intakes_recorded_total",
		metric.WithDescription("Total number of dose intakes recorded from acknowledgments"),
		metric.WithUnit("{intake}"),
	)
	if err != nil {
		return nil, err
	}

	coursesCompleted, err := meter.Int64Counter(
		"reminder_courses_completed_total",
		metric.WithDescription("Total number of courses detected complete"),
		metric.WithUnit("{course}"),
	)
	if err != nil {
		return nil, err
	}

	tickRunDuration, err := meter.Float64Histogram(
		"reminder_tick_run_duration_seconds",
		metric.WithDescription("Tick run duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	patientsPerTickRun, err := meter.Int64Histogram(
		"reminder_tick_patients_scanned",
		metric.WithDescription("Patients scanned per tick run"),
		metric.WithUnit("{patient}"),
		metric.WithExplicitBucketBoundaries(
			1, 5, 10, 25, 50, 100, 250, 500,
		),
	)
	if err != nil {
		return nil, err
	}

	return &ReminderMetrics{
		remindersSent:      remindersSent,
		remindersBlocked:   remindersBlocked,
		deliveryFailures:   deliveryFailures,
		intakesRecorded:    intakesRecorded,
		coursesCompleted:   coursesCompleted,
		tickRunDuration:    tickRunDuration,
		patientsPerTickRun: patientsPerTickRun,
	}, nil
}

func (m *ReminderMetrics) RecordRemindersSent(ctx context.Context, count int) {
	m.remindersSent.Add(ctx, int64(count))
}

func (m *ReminderMetrics) RecordReminderBlocked(ctx context.Context, reason string) {
	m.remindersBlocked.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", reason)),
	)
}

func (m *ReminderMetrics) RecordDeliveryFailure(ctx context.Context) {
	m.deliveryFailures.Add(ctx, 1)
}

func (m *ReminderMetrics) RecordIntakeRecorded(ctx context.Context) {
	m.intakesRecorded.Add(ctx, 1)
}

func (m *ReminderMetrics) RecordCourseCompleted(ctx context.Context) {
	m.coursesCompleted.Add(ctx, 1)
}

func (m *ReminderMetrics) RecordTickRunDuration(ctx context.Context, d time.Duration) {
	m.tickRunDuration.Record(ctx, d.Seconds())
}

func (m *ReminderMetrics) RecordPatientsScanned(ctx context.Context, count int) {
	m.patientsPerTickRun.Record(ctx, int64(count))
}
