package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is the owner of prescriptions and dose history. LineUserID is
// nil until the patient links their messaging account; it is set at most
// once to a given value.
type Patient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DisplayName string  `gorm:"type:varchar(255);not null"`
	LineUserID  *string `gorm:"type:varchar(64);uniqueIndex"`
}

func (p *Patient) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Linked reports whether the patient can receive chat notifications.
func (p *Patient) Linked() bool {
	return p.LineUserID != nil && *p.LineUserID != ""
}
