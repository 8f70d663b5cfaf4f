package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Period is the meal-relative label of a dose slot.
type Period string

const (
	PeriodBeforeBreakfast Period = "before_breakfast"
	PeriodAfterBreakfast  Period = "after_breakfast"
	PeriodBeforeLunch     Period = "before_lunch"
	PeriodAfterLunch      Period = "after_lunch"
	PeriodBeforeDinner    Period = "before_dinner"
	PeriodAfterDinner     Period = "after_dinner"
	PeriodBeforeBed       Period = "before_bed"
	PeriodCustom          Period = "custom"
)

func (p Period) String() string {
	return string(p)
}

func (p Period) Valid() bool {
	switch p {
	case PeriodBeforeBreakfast, PeriodAfterBreakfast,
		PeriodBeforeLunch, PeriodAfterLunch,
		PeriodBeforeDinner, PeriodAfterDinner,
		PeriodBeforeBed, PeriodCustom:
		return true
	}
	return false
}

// BeforeMeal reports whether the period carries the one-hour grace window.
func (p Period) BeforeMeal() bool {
	switch p {
	case PeriodBeforeBreakfast, PeriodBeforeLunch, PeriodBeforeDinner:
		return true
	}
	return false
}

// DoseSchedule is one slot of a prescription's daily schedule. TimeOfDay
// is always zero-padded 24-hour "HH:MM" in the prescription's timezone;
// NormalizeTimeOfDay enforces the format so string ordering stays safe.
type DoseSchedule struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PrescriptionID uuid.UUID `gorm:"type:uuid;index;not null"`
	Period         Period    `gorm:"type:varchar(32);not null"`
	TimeOfDay      string    `gorm:"type:varchar(5);not null"`
	Pills          int       `gorm:"not null;default:1"`
	Active         bool      `gorm:"not null;default:true"`
}

func (s *DoseSchedule) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// MinuteOfDay converts TimeOfDay to minutes since local midnight.
func (s *DoseSchedule) MinuteOfDay() (int, error) {
	return ParseTimeOfDay(s.TimeOfDay)
}

// ParseTimeOfDay parses a zero-padded "HH:MM" string into [0, 1440).
func ParseTimeOfDay(v string) (int, error) {
	hh, mm, ok := strings.Cut(v, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, v)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, v)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, v)
	}
	return h*60 + m, nil
}

// NormalizeTimeOfDay accepts loosely formatted clock strings ("7:5",
// "07:05") and returns the canonical zero-padded form.
func NormalizeTimeOfDay(v string) (string, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, v)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, v)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, v)
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// ValidateSchedules normalizes every slot's time-of-day and rejects
// schedules where two active slots claim the same time.
func ValidateSchedules(slots []DoseSchedule) error {
	seen := make(map[string]struct{}, len(slots))
	for i := range slots {
		if !slots[i].Period.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidPeriod, slots[i].Period)
		}
		normalized, err := NormalizeTimeOfDay(slots[i].TimeOfDay)
		if err != nil {
			return err
		}
		slots[i].TimeOfDay = normalized
		if !slots[i].Active {
			continue
		}
		if _, dup := seen[normalized]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSlotTime, normalized)
		}
		seen[normalized] = struct{}{}
	}
	return nil
}

// SortSchedules orders slots ascending by time-of-day. The sort is stable
// so a duplicated time keeps creation order deterministic.
func SortSchedules(slots []DoseSchedule) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].TimeOfDay < slots[j].TimeOfDay
	})
}
