package domain

import (
	"testing"
	"time"
)

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestPrescription_EffectiveStart(t *testing.T) {
	issued := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	start := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rx   Prescription
		want time.Time
	}{
		{
			name: "explicit start date wins",
			rx:   Prescription{StartDate: datePtr(start), IssuedAt: issued, CreatedAt: created},
			want: start,
		},
		{
			name: "falls back to issued at",
			rx:   Prescription{IssuedAt: issued, CreatedAt: created},
			want: issued,
		},
		{
			name: "falls back to created at",
			rx:   Prescription{CreatedAt: created},
			want: created,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rx.EffectiveStart(); !got.Equal(tt.want) {
				t.Errorf("EffectiveStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrescription_ActiveOn(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	rx := Prescription{
		StartDate: datePtr(start),
		EndDate:   datePtr(end),
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{
			name: "before start",
			date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "start date inclusive",
			date: start,
			want: true,
		},
		{
			name: "inside range",
			date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "end date inclusive",
			date: end,
			want: true,
		},
		{
			name: "after end",
			date: time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rx.ActiveOn(tt.date); got != tt.want {
				t.Errorf("ActiveOn(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestPrescription_ActiveOn_NoEndDate(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rx := Prescription{StartDate: datePtr(start)}

	farFuture := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if !rx.ActiveOn(farFuture) {
		t.Error("ActiveOn() = false for open-ended course, want true")
	}
}

func TestPrescription_ActiveOn_TruncatesTimeOfDay(t *testing.T) {
	// A start timestamp late in the day still makes the whole calendar
	// day eligible.
	issued := time.Date(2026, 3, 10, 23, 45, 0, 0, time.UTC)
	rx := Prescription{IssuedAt: issued}

	sameDay := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !rx.ActiveOn(sameDay) {
		t.Error("ActiveOn(issue day) = false, want true")
	}
}

func TestPatient_Linked(t *testing.T) {
	id := "U1234567890"
	empty := ""

	tests := []struct {
		name    string
		patient Patient
		want    bool
	}{
		{
			name:    "nil line user id",
			patient: Patient{},
			want:    false,
		},
		{
			name:    "empty line user id",
			patient: Patient{LineUserID: &empty},
			want:    false,
		},
		{
			name:    "linked",
			patient: Patient{LineUserID: &id},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.patient.Linked(); got != tt.want {
				t.Errorf("Linked() = %v, want %v", got, tt.want)
			}
		})
	}
}
