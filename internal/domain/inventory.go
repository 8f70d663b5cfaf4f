package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicationInventory is the per (patient, prescription) reminder switch.
// It is distinct from the prescription's date range: a date-eligible
// course can still have reminders turned off, and the system forces it
// inactive once the course completes. The active flag doubles as the
// completion-acknowledged marker.
type MedicationInventory struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PatientID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_key"`
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_key"`
	Active         bool      `gorm:"not null;default:true"`
}

func (m *MedicationInventory) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
