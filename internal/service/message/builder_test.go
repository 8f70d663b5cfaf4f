package message

import (
	"strings"
	"testing"

	"github.com/chivanit/medremind/internal/domain"
)

func dueItem(drug string, period domain.Period, timeOfDay string, pills int) DueItem {
	return DueItem{
		DrugName: drug,
		Slot: domain.DoseSchedule{
			Period:    period,
			TimeOfDay: timeOfDay,
			Pills:     pills,
		},
	}
}

func TestPeriodLabel(t *testing.T) {
	if got := PeriodLabel(domain.PeriodBeforeBreakfast); got != "ก่อนอาหารเช้า" {
		t.Errorf("PeriodLabel(before_breakfast) = %q", got)
	}
	if got := PeriodLabel(domain.Period("unknown")); got != PeriodLabel(domain.PeriodCustom) {
		t.Errorf("PeriodLabel(unknown) = %q, want custom label", got)
	}
}

func TestBuilder_Reminder_Empty(t *testing.T) {
	b := NewBuilder()
	if got := b.Reminder(nil, nil); got != "" {
		t.Errorf("Reminder(nil, nil) = %q, want empty", got)
	}
}

func TestBuilder_Reminder_SingleItem(t *testing.T) {
	b := NewBuilder()
	text := b.Reminder([]DueItem{
		dueItem("Amoxicillin", domain.PeriodBeforeBreakfast, "07:00", 2),
	}, nil)

	if !strings.HasPrefix(text, "ถึงเวลาทานยาแล้วค่ะ") {
		t.Errorf("Reminder() missing header: %q", text)
	}
	if !strings.Contains(text, "- Amoxicillin ก่อนอาหารเช้า 07:00 (2 เม็ด)") {
		t.Errorf("Reminder() missing due line: %q", text)
	}
}

func TestBuilder_Reminder_MultipleItemsOneMessage(t *testing.T) {
	b := NewBuilder()
	text := b.Reminder([]DueItem{
		dueItem("Amoxicillin", domain.PeriodBeforeBreakfast, "07:00", 1),
		dueItem("Paracetamol", domain.PeriodBeforeBreakfast, "07:00", 2),
	}, nil)

	if got := strings.Count(text, "\n- "); got != 2 {
		t.Errorf("Reminder() line count = %d, want 2: %q", got, text)
	}
	if strings.Count(text, "ถึงเวลาทานยาแล้วค่ะ") != 1 {
		t.Errorf("Reminder() repeated header: %q", text)
	}
}

func TestBuilder_Reminder_CompletedOnly(t *testing.T) {
	b := NewBuilder()
	text := b.Reminder(nil, []string{"Amoxicillin"})

	if strings.Contains(text, "ถึงเวลาทานยาแล้วค่ะ") {
		t.Errorf("Reminder() has due header with no due items: %q", text)
	}
	if !strings.Contains(text, "ยา Amoxicillin ทานครบคอร์สแล้ว") {
		t.Errorf("Reminder() missing completion notice: %q", text)
	}
}

func TestBuilder_Reminder_DueAndCompleted(t *testing.T) {
	b := NewBuilder()
	text := b.Reminder(
		[]DueItem{dueItem("Paracetamol", domain.PeriodAfterDinner, "19:00", 1)},
		[]string{"Amoxicillin"},
	)

	if !strings.Contains(text, "Paracetamol") || !strings.Contains(text, "ทานครบคอร์สแล้ว") {
		t.Errorf("Reminder() missing section: %q", text)
	}
}

func TestBuilder_Confirmation(t *testing.T) {
	b := NewBuilder()
	text := b.Confirmation([]DueItem{
		dueItem("Amoxicillin", domain.PeriodAfterLunch, "12:30", 1),
	}, nil)

	if !strings.HasPrefix(text, "บันทึกการทานยาเรียบร้อยค่ะ") {
		t.Errorf("Confirmation() missing header: %q", text)
	}
	if !strings.Contains(text, "- Amoxicillin หลังอาหารกลางวัน 12:30 (1 เม็ด)") {
		t.Errorf("Confirmation() missing recorded line: %q", text)
	}
}

func TestBuilder_StaticReplies(t *testing.T) {
	b := NewBuilder()
	if b.NothingToRecord() == "" {
		t.Error("NothingToRecord() is empty")
	}
	if b.ProcessingError() == "" {
		t.Error("ProcessingError() is empty")
	}
}
