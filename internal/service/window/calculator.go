package window

import (
	"log/slog"

	"github.com/chivanit/medremind/internal/domain"
)

const endOfDay = 1440

// Window is the half-open minute-of-day range [Start, End) during which
// its slot is current and reminder-eligible.
type Window struct {
	Slot  domain.DoseSchedule
	Start int
	End   int
}

func (w Window) Contains(minuteOfDay int) bool {
	return minuteOfDay >= w.Start && minuteOfDay < w.End
}

// Calculator decides which single slot of a prescription, if any, is
// current at a given minute of the local day.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Current returns the first slot in time order whose window contains
// minuteOfDay. Windows never overlap: each slot's hard stop is the next
// slot's start (or end of day), so at most one slot is current.
// Slots with an unparsable time-of-day are skipped with a warning rather
// than failing the whole prescription.
func (c *Calculator) Current(slots []domain.DoseSchedule, minuteOfDay int) (Window, bool) {
	windows := c.Windows(slots)
	for _, w := range windows {
		if w.Contains(minuteOfDay) {
			return w, true
		}
	}
	return Window{}, false
}

// Windows computes the window of every active slot, sorted by start time.
func (c *Calculator) Windows(slots []domain.DoseSchedule) []Window {
	active := make([]domain.DoseSchedule, 0, len(slots))
	for _, s := range slots {
		if s.Active {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return nil
	}
	domain.SortSchedules(active)

	starts := make([]int, 0, len(active))
	valid := active[:0]
	for _, s := range active {
		start, err := s.MinuteOfDay()
		if err != nil {
			slog.Warn("skipping slot with invalid time of day",
				slog.String("schedule_id", s.ID.String()),
				slog.String("time_of_day", s.TimeOfDay),
			)
			continue
		}
		valid = append(valid, s)
		starts = append(starts, start)
	}

	windows := make([]Window, 0, len(valid))
	for i, s := range valid {
		hardStop := endOfDay
		if i+1 < len(valid) {
			hardStop = starts[i+1]
		}

		end := hardStop
		rule := RuleFor(s.Period)
		switch rule.Kind {
		case RuleGraceWindow:
			if grace := starts[i] + rule.GraceMinutes; grace < end {
				end = grace
			}
		case RuleUntilMidnight:
			end = endOfDay
		case RuleUntilNextSlot:
			// hard stop already applies
		}

		windows = append(windows, Window{Slot: s, Start: starts[i], End: end})
	}
	return windows
}
