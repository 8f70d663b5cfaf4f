package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prescription is one course of medication for one patient. All schedule
// times belong to the prescription's own timezone. QuantityTotal caps the
// course; nil means the course never completes on its own.
type Prescription struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PatientID     uuid.UUID `gorm:"type:uuid;index;not null"`
	DrugName      string    `gorm:"type:varchar(255);not null"`
	IssuedAt      time.Time `gorm:"not null"`
	StartDate     *time.Time
	EndDate       *time.Time
	QuantityTotal *int
	Timezone      string         `gorm:"type:varchar(64)"`
	Schedules     []DoseSchedule `gorm:"constraint:OnDelete:CASCADE"`
}

func (p *Prescription) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EffectiveStart resolves the date the course becomes eligible. The
// fallback chain is StartDate, then IssuedAt, then CreatedAt.
func (p *Prescription) EffectiveStart() time.Time {
	if p.StartDate != nil {
		return *p.StartDate
	}
	if !p.IssuedAt.IsZero() {
		return p.IssuedAt
	}
	return p.CreatedAt
}

// ActiveOn reports whether the given local calendar date falls inside the
// course's date range. Both bounds are inclusive.
func (p *Prescription) ActiveOn(date time.Time) bool {
	day := truncateToDay(date)
	if day.Before(truncateToDay(p.EffectiveStart())) {
		return false
	}
	if p.EndDate != nil && day.After(truncateToDay(*p.EndDate)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
