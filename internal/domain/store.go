package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence boundary of the reminder engine. The
// CreateIntake conditional insert is the sole concurrency guard against
// double-recording a dose, and CreateNotificationLogs is all-or-nothing
// so a partial batch can never leave per-slot state inconsistent.
type Store interface {
	// ListLinkedPatients returns every patient with a linked messaging
	// identifier, in a stable order.
	ListLinkedPatients(ctx context.Context) ([]Patient, error)

	// GetPatientByLineUserID resolves an inbound acknowledgment sender.
	// Returns ErrPatientNotFound when the identifier is not linked.
	GetPatientByLineUserID(ctx context.Context, lineUserID string) (*Patient, error)

	// ListActivePrescriptions returns the patient's prescriptions whose
	// inventory is active, with schedules preloaded.
	ListActivePrescriptions(ctx context.Context, patientID uuid.UUID) ([]Prescription, error)

	// SumIntakePills returns the total pills logged for a prescription.
	SumIntakePills(ctx context.Context, prescriptionID uuid.UUID) (int, error)

	// HasIntake reports whether a dose was already logged for the key.
	HasIntake(ctx context.Context, key SlotKey) (bool, error)

	// CreateIntake inserts a dose record if and only if no row exists for
	// its key. Returns false without error when the key was taken.
	CreateIntake(ctx context.Context, intake *DoseIntake) (bool, error)

	// LatestNotificationSentAt returns the most recent reminder time for
	// the key, or nil when no reminder was ever sent.
	LatestNotificationSentAt(ctx context.Context, key SlotKey) (*time.Time, error)

	// CreateNotificationLogs writes the batch atomically.
	CreateNotificationLogs(ctx context.Context, logs []NotificationLog) error

	// DeactivateInventory turns reminders off for the pairing. Returns
	// false when the inventory was already inactive.
	DeactivateInventory(ctx context.Context, patientID, prescriptionID uuid.UUID) (bool, error)
}
