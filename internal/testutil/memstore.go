package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chivanit/medremind/internal/domain"
)

// MemStore is an in-memory domain.Store for service tests. It mirrors
// the database semantics the services rely on: conditional intake
// inserts, most-recent-wins notification lookups, and the one-shot
// inventory deactivation.
type MemStore struct {
	mu            sync.Mutex
	patients      []domain.Patient
	prescriptions map[uuid.UUID][]domain.Prescription
	intakes       map[string]domain.DoseIntake
	notifications []domain.NotificationLog
	inventory     map[string]bool

	// Failure injection for error-path tests.
	CreateLogsErr error
	SumPillsErr   error
}

func NewMemStore() *MemStore {
	return &MemStore{
		prescriptions: make(map[uuid.UUID][]domain.Prescription),
		intakes:       make(map[string]domain.DoseIntake),
		inventory:     make(map[string]bool),
	}
}

func slotKeyString(key domain.SlotKey) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		key.PatientID, key.PrescriptionID, key.Date.Format("2006-01-02"), key.TimeOfDay)
}

func inventoryKey(patientID, prescriptionID uuid.UUID) string {
	return patientID.String() + "|" + prescriptionID.String()
}

// AddPatient registers a patient; ids are assigned when missing.
func (s *MemStore) AddPatient(p domain.Patient) domain.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.patients = append(s.patients, p)
	return p
}

// AddPrescription registers a prescription with an inventory row.
func (s *MemStore) AddPrescription(rx domain.Prescription, inventoryActive bool) domain.Prescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rx.ID == uuid.Nil {
		rx.ID = uuid.New()
	}
	s.prescriptions[rx.PatientID] = append(s.prescriptions[rx.PatientID], rx)
	s.inventory[inventoryKey(rx.PatientID, rx.ID)] = inventoryActive
	return rx
}

// SeedIntake inserts an intake row directly, bypassing the conditional
// insert, for arranging test state.
func (s *MemStore) SeedIntake(key domain.SlotKey, pills int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intakes[slotKeyString(key)] = domain.DoseIntake{
		ID:             uuid.New(),
		PatientID:      key.PatientID,
		PrescriptionID: key.PrescriptionID,
		IntakeDate:     key.Date,
		TimeOfDay:      key.TimeOfDay,
		Pills:          pills,
	}
}

// SeedNotification appends a notification log row directly.
func (s *MemStore) SeedNotification(key domain.SlotKey, sentAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, domain.NewNotificationLog(key, sentAt))
}

// Notifications returns a copy of every log row written so far.
func (s *MemStore) Notifications() []domain.NotificationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.NotificationLog, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// IntakeCount returns the number of recorded intakes.
func (s *MemStore) IntakeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.intakes)
}

// InventoryActive reports the inventory flag for the pairing.
func (s *MemStore) InventoryActive(patientID, prescriptionID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventory[inventoryKey(patientID, prescriptionID)]
}

func (s *MemStore) ListLinkedPatients(_ context.Context) ([]domain.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	linked := make([]domain.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		if p.Linked() {
			linked = append(linked, p)
		}
	}
	return linked, nil
}

func (s *MemStore) GetPatientByLineUserID(_ context.Context, lineUserID string) (*domain.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		p := s.patients[i]
		if p.LineUserID != nil && *p.LineUserID == lineUserID {
			return &p, nil
		}
	}
	return nil, domain.ErrPatientNotFound
}

func (s *MemStore) ListActivePrescriptions(_ context.Context, patientID uuid.UUID) ([]domain.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []domain.Prescription
	for _, rx := range s.prescriptions[patientID] {
		if s.inventory[inventoryKey(patientID, rx.ID)] {
			active = append(active, rx)
		}
	}
	return active, nil
}

func (s *MemStore) SumIntakePills(_ context.Context, prescriptionID uuid.UUID) (int, error) {
	if s.SumPillsErr != nil {
		return 0, s.SumPillsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for _, intake := range s.intakes {
		if intake.PrescriptionID == prescriptionID {
			sum += intake.Pills
		}
	}
	return sum, nil
}

func (s *MemStore) HasIntake(_ context.Context, key domain.SlotKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.intakes[slotKeyString(key)]
	return ok, nil
}

func (s *MemStore) CreateIntake(_ context.Context, intake *domain.DoseIntake) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := slotKeyString(domain.NewSlotKey(intake.PatientID, intake.PrescriptionID, intake.IntakeDate, intake.TimeOfDay))
	if _, exists := s.intakes[key]; exists {
		return false, nil
	}
	if intake.ID == uuid.Nil {
		intake.ID = uuid.New()
	}
	s.intakes[key] = *intake
	return true, nil
}

func (s *MemStore) LatestNotificationSentAt(_ context.Context, key domain.SlotKey) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *time.Time
	for _, log := range s.notifications {
		if log.PatientID != key.PatientID || log.PrescriptionID != key.PrescriptionID {
			continue
		}
		if !log.NotifyDate.Equal(key.Date) || log.TimeOfDay != key.TimeOfDay {
			continue
		}
		sentAt := log.SentAt
		if latest == nil || sentAt.After(*latest) {
			latest = &sentAt
		}
	}
	return latest, nil
}

func (s *MemStore) CreateNotificationLogs(_ context.Context, logs []domain.NotificationLog) error {
	if s.CreateLogsErr != nil {
		return s.CreateLogsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, logs...)
	return nil
}

func (s *MemStore) DeactivateInventory(_ context.Context, patientID, prescriptionID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := inventoryKey(patientID, prescriptionID)
	if !s.inventory[key] {
		return false, nil
	}
	s.inventory[key] = false
	return true, nil
}
