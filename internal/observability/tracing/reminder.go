package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const reminderTracerName = "github.com/chivanit/medremind/internal/service/tick"

func ReminderTracer() trace.Tracer {
	return otel.Tracer(reminderTracerName)
}

func StartTickRunSpan(ctx context.Context, now time.Time) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.tick_run",
		trace.WithAttributes(
			attribute.String("run.now", now.Format(time.RFC3339)),
		),
	)
}

func StartPatientSpan(ctx context.Context, patientID string) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.patient_evaluation",
		trace.WithAttributes(
			attribute.String("patient_id", patientID),
		),
	)
}

func StartDeliverySpan(ctx context.Context, patientID string, itemCount int) (context.Context, trace.Span) {
	return ReminderTracer().Start(ctx, "reminder.delivery",
		trace.WithAttributes(
			attribute.String("patient_id", patientID),
			attribute.Int("item_count", itemCount),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordTickRunResult(span trace.Span, patientsScanned, patientsNotified, dueItems, deliveryFailures int, err error) {
	span.SetAttributes(
		attribute.Int("run.patients_scanned", patientsScanned),
		attribute.Int("run.patients_notified", patientsNotified),
		attribute.Int("run.due_items", dueItems),
		attribute.Int("run.delivery_failures", deliveryFailures),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
