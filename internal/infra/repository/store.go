package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chivanit/medremind/internal/domain"
)

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) domain.Store {
	return &store{db: db}
}

// Migrate creates or updates the schema for every reminder entity,
// including the composite unique key that makes dose intakes idempotent.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Patient{},
		&domain.Prescription{},
		&domain.DoseSchedule{},
		&domain.DoseIntake{},
		&domain.NotificationLog{},
		&domain.MedicationInventory{},
	)
}

func (s *store) ListLinkedPatients(ctx context.Context) ([]domain.Patient, error) {
	var patients []domain.Patient
	err := s.db.WithContext(ctx).
		Where("line_user_id IS NOT NULL AND line_user_id <> ''").
		Order("created_at").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *store) GetPatientByLineUserID(ctx context.Context, lineUserID string) (*domain.Patient, error) {
	var patient domain.Patient
	err := s.db.WithContext(ctx).
		Where("line_user_id = ?", lineUserID).
		First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, err
	}
	return &patient, nil
}

func (s *store) ListActivePrescriptions(ctx context.Context, patientID uuid.UUID) ([]domain.Prescription, error) {
	var prescriptions []domain.Prescription
	err := s.db.WithContext(ctx).
		Joins("JOIN medication_inventories mi ON mi.prescription_id = prescriptions.id AND mi.patient_id = prescriptions.patient_id").
		Where("prescriptions.patient_id = ? AND mi.active", patientID).
		Preload("Schedules").
		Order("prescriptions.created_at").
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (s *store) SumIntakePills(ctx context.Context, prescriptionID uuid.UUID) (int, error) {
	var sum int64
	err := s.db.WithContext(ctx).
		Model(&domain.DoseIntake{}).
		Where("prescription_id = ?", prescriptionID).
		Select("COALESCE(SUM(pills), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return int(sum), nil
}

func (s *store) HasIntake(ctx context.Context, key domain.SlotKey) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.DoseIntake{}).
		Where("patient_id = ? AND prescription_id = ? AND intake_date = ? AND time_of_day = ?",
			key.PatientID, key.PrescriptionID, key.Date, key.TimeOfDay).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateIntake relies on the database uniqueness constraint instead of a
// read-then-write check, so concurrent acknowledgments cannot both
// record the same slot.
func (s *store) CreateIntake(ctx context.Context, intake *domain.DoseIntake) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "patient_id"},
				{Name: "prescription_id"},
				{Name: "intake_date"},
				{Name: "time_of_day"},
			},
			DoNothing: true,
		}).
		Create(intake)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *store) LatestNotificationSentAt(ctx context.Context, key domain.SlotKey) (*time.Time, error) {
	var log domain.NotificationLog
	err := s.db.WithContext(ctx).
		Where("patient_id = ? AND prescription_id = ? AND notify_date = ? AND time_of_day = ?",
			key.PatientID, key.PrescriptionID, key.Date, key.TimeOfDay).
		Order("sent_at DESC").
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	sentAt := log.SentAt
	return &sentAt, nil
}

func (s *store) CreateNotificationLogs(ctx context.Context, logs []domain.NotificationLog) error {
	if len(logs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&logs).Error
	})
}

func (s *store) DeactivateInventory(ctx context.Context, patientID, prescriptionID uuid.UUID) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&domain.MedicationInventory{}).
		Where("patient_id = ? AND prescription_id = ? AND active", patientID, prescriptionID).
		Update("active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
