package cadence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chivanit/medremind/internal/domain"
	"github.com/chivanit/medremind/internal/testutil"
)

func testKey() domain.SlotKey {
	return domain.NewSlotKey(
		uuid.New(),
		uuid.New(),
		time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		"07:00",
	)
}

func TestGate_Evaluate_AllowsFirstReminder(t *testing.T) {
	store := testutil.NewMemStore()
	gate := NewGate(store, 30*time.Minute)

	verdict, err := gate.Evaluate(context.Background(), testKey(), time.Now())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if verdict != VerdictAllow {
		t.Errorf("Evaluate() = %s, want %s", verdict, VerdictAllow)
	}
}

func TestGate_Evaluate_Cadence(t *testing.T) {
	sentAt := time.Date(2026, 3, 14, 0, 5, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want Verdict
	}{
		{
			name: "held inside the cadence interval",
			now:  sentAt.Add(15 * time.Minute),
			want: VerdictCadenceHold,
		},
		{
			name: "held one second before the interval elapses",
			now:  sentAt.Add(30*time.Minute - time.Second),
			want: VerdictCadenceHold,
		},
		{
			name: "allowed exactly at the interval boundary",
			now:  sentAt.Add(30 * time.Minute),
			want: VerdictAllow,
		},
		{
			name: "allowed after the interval",
			now:  sentAt.Add(31 * time.Minute),
			want: VerdictAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemStore()
			key := testKey()
			store.SeedNotification(key, sentAt)
			gate := NewGate(store, 30*time.Minute)

			verdict, err := gate.Evaluate(context.Background(), key, tt.now)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if verdict != tt.want {
				t.Errorf("Evaluate() = %s, want %s", verdict, tt.want)
			}
		})
	}
}

func TestGate_Evaluate_MostRecentLogWins(t *testing.T) {
	store := testutil.NewMemStore()
	key := testKey()
	first := time.Date(2026, 3, 14, 0, 5, 0, 0, time.UTC)
	second := first.Add(31 * time.Minute)
	store.SeedNotification(key, first)
	store.SeedNotification(key, second)

	gate := NewGate(store, 30*time.Minute)

	// An hour past the first log but only 29 minutes past the second.
	verdict, err := gate.Evaluate(context.Background(), key, second.Add(29*time.Minute))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if verdict != VerdictCadenceHold {
		t.Errorf("Evaluate() = %s, want %s", verdict, VerdictCadenceHold)
	}
}

func TestGate_Evaluate_AlreadyTakenBeatsCadence(t *testing.T) {
	store := testutil.NewMemStore()
	key := testKey()
	store.SeedIntake(key, 1)
	// Even with no recent notification the taken dose silences the slot.
	gate := NewGate(store, 30*time.Minute)

	verdict, err := gate.Evaluate(context.Background(), key, time.Now())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if verdict != VerdictAlreadyTaken {
		t.Errorf("Evaluate() = %s, want %s", verdict, VerdictAlreadyTaken)
	}
	if verdict.Allowed() {
		t.Error("Allowed() = true for already-taken verdict")
	}
}

func TestGate_Evaluate_KeysAreIndependent(t *testing.T) {
	store := testutil.NewMemStore()
	morning := testKey()
	evening := domain.NewSlotKey(morning.PatientID, morning.PrescriptionID, morning.Date, "19:00")
	store.SeedNotification(morning, time.Date(2026, 3, 14, 0, 5, 0, 0, time.UTC))

	gate := NewGate(store, 30*time.Minute)

	verdict, err := gate.Evaluate(context.Background(), evening, time.Date(2026, 3, 14, 0, 10, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if verdict != VerdictAllow {
		t.Errorf("Evaluate() for untouched key = %s, want %s", verdict, VerdictAllow)
	}
}
