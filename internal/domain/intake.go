package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DoseIntake records that a patient took one slot's dose on one calendar
// date. The composite unique index is the idempotency key guarding
// against double-recording; rows are never updated or deleted.
type DoseIntake struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt      time.Time
	PatientID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dose_intake_key"`
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dose_intake_key"`
	IntakeDate     time.Time `gorm:"not null;uniqueIndex:idx_dose_intake_key"`
	TimeOfDay      string    `gorm:"type:varchar(5);not null;uniqueIndex:idx_dose_intake_key"`
	Pills          int       `gorm:"not null"`
}

func (d *DoseIntake) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// SlotKey identifies one (patient, prescription, date, slot) evaluation.
// Date is the local calendar date in UTC-midnight form.
type SlotKey struct {
	PatientID      uuid.UUID
	PrescriptionID uuid.UUID
	Date           time.Time
	TimeOfDay      string
}

func NewSlotKey(patientID, prescriptionID uuid.UUID, date time.Time, timeOfDay string) SlotKey {
	return SlotKey{
		PatientID:      patientID,
		PrescriptionID: prescriptionID,
		Date:           date,
		TimeOfDay:      timeOfDay,
	}
}
