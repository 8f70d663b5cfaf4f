package message

import (
	"fmt"
	"strings"

	"github.com/chivanit/medremind/internal/domain"
)

// Thai labels shown to patients for each meal-relative period.
var periodLabels = map[domain.Period]string{
	domain.PeriodBeforeBreakfast: "ก่อนอาหารเช้า",
	domain.PeriodAfterBreakfast:  "หลังอาหารเช้า",
	domain.PeriodBeforeLunch:     "ก่อนอาหารกลางวัน",
	domain.PeriodAfterLunch:      "หลังอาหารกลางวัน",
	domain.PeriodBeforeDinner:    "ก่อนอาหารเย็น",
	domain.PeriodAfterDinner:     "หลังอาหารเย็น",
	domain.PeriodBeforeBed:       "ก่อนนอน",
	domain.PeriodCustom:          "ตามกำหนด",
}

// PeriodLabel returns the patient-facing label for a period.
func PeriodLabel(p domain.Period) string {
	if label, ok := periodLabels[p]; ok {
		return label
	}
	return periodLabels[domain.PeriodCustom]
}

// DueItem is one reminder line: a prescription's slot that is currently
// due for the patient.
type DueItem struct {
	DrugName string
	Slot     domain.DoseSchedule
}

// Builder renders outbound chat messages. One reminder message carries
// every due item for the patient plus any course-completion notices.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Reminder builds the per-tick reminder text. Returns "" when there is
// nothing to say.
func (b *Builder) Reminder(items []DueItem, completed []string) string {
	if len(items) == 0 && len(completed) == 0 {
		return ""
	}

	var sb strings.Builder
	if len(items) > 0 {
		sb.WriteString("ถึงเวลาทานยาแล้วค่ะ")
		for _, item := range items {
			sb.WriteString(fmt.Sprintf("\n- %s %s %s (%d เม็ด)",
				item.DrugName, PeriodLabel(item.Slot.Period), item.Slot.TimeOfDay, item.Slot.Pills))
		}
	}
	b.appendCompleted(&sb, completed)
	return sb.String()
}

// Confirmation builds the reply to a dose-taken acknowledgment, listing
// every slot that was just recorded.
func (b *Builder) Confirmation(items []DueItem, completed []string) string {
	var sb strings.Builder
	sb.WriteString("บันทึกการทานยาเรียบร้อยค่ะ")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("\n- %s %s %s (%d เม็ด)",
			item.DrugName, PeriodLabel(item.Slot.Period), item.Slot.TimeOfDay, item.Slot.Pills))
	}
	b.appendCompleted(&sb, completed)
	return sb.String()
}

// NothingToRecord is the reply when an acknowledgment arrives with no
// open slot, or everything due was already recorded.
func (b *Builder) NothingToRecord() string {
	return "ยังไม่ถึงเวลาทานยา หรือบันทึกครบแล้วค่ะ"
}

// ProcessingError is the generic failure reply; internals never leak to
// the patient.
func (b *Builder) ProcessingError() string {
	return "ขออภัยค่ะ ระบบไม่สามารถบันทึกได้ กรุณาลองใหม่อีกครั้ง"
}

func (b *Builder) appendCompleted(sb *strings.Builder, completed []string) {
	for _, drug := range completed {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("ยา %s ทานครบคอร์สแล้ว ระบบปิดการแจ้งเตือนให้ค่ะ", drug))
	}
}
