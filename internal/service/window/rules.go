package window

import "github.com/chivanit/medremind/internal/domain"

// RuleKind selects how a slot's window closes. Rule changes are data in
// this table, not new code branches.
type RuleKind string

const (
	// RuleGraceWindow closes the window a fixed number of minutes after
	// the slot starts, or at the next slot if that comes first.
	RuleGraceWindow RuleKind = "grace_window"
	// RuleUntilMidnight keeps the window open until local midnight.
	RuleUntilMidnight RuleKind = "until_midnight"
	// RuleUntilNextSlot keeps the window open until the next slot starts.
	RuleUntilNextSlot RuleKind = "until_next_slot"
)

type Rule struct {
	Kind         RuleKind
	GraceMinutes int
}

const defaultGraceMinutes = 60

var periodRules = map[domain.Period]Rule{
	domain.PeriodBeforeBreakfast: {Kind: RuleGraceWindow, GraceMinutes: defaultGraceMinutes},
	domain.PeriodBeforeLunch:     {Kind: RuleGraceWindow, GraceMinutes: defaultGraceMinutes},
	domain.PeriodBeforeDinner:    {Kind: RuleGraceWindow, GraceMinutes: defaultGraceMinutes},
	domain.PeriodBeforeBed:       {Kind: RuleUntilMidnight},
	domain.PeriodAfterBreakfast:  {Kind: RuleUntilNextSlot},
	domain.PeriodAfterLunch:      {Kind: RuleUntilNextSlot},
	domain.PeriodAfterDinner:     {Kind: RuleUntilNextSlot},
	domain.PeriodCustom:          {Kind: RuleUntilNextSlot},
}

// RuleFor returns the window rule for a period. Unknown periods behave
// like custom slots.
func RuleFor(p domain.Period) Rule {
	if rule, ok := periodRules[p]; ok {
		return rule
	}
	return Rule{Kind: RuleUntilNextSlot}
}
