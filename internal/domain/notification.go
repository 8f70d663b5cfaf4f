package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationLog is an append-only record of one reminder firing.
// Multiple rows per slot key are expected; the most recent SentAt decides
// cadence.
type NotificationLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt      time.Time
	PatientID      uuid.UUID `gorm:"type:uuid;not null;index:idx_notification_key"`
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;index:idx_notification_key"`
	NotifyDate     time.Time `gorm:"not null;index:idx_notification_key"`
	TimeOfDay      string    `gorm:"type:varchar(5);not null;index:idx_notification_key"`
	SentAt         time.Time `gorm:"not null"`
}

func (n *NotificationLog) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func NewNotificationLog(key SlotKey, sentAt time.Time) NotificationLog {
	return NotificationLog{
		PatientID:      key.PatientID,
		PrescriptionID: key.PrescriptionID,
		NotifyDate:     key.Date,
		TimeOfDay:      key.TimeOfDay,
		SentAt:         sentAt,
	}
}
