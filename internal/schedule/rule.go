// Package schedule resolves recurrence rules to concrete calendar dates.
//
// Each rule kind has its own strategy that encapsulates the day-of-month
// policy for a projected occurrence. Strategies are looked up from a
// registry, which keeps rule dispatch O(1) and leaves room for new kinds.
package schedule

import (
	"time"

	"bilancio/internal/core"
)

// DayRule is the strategy interface for placing an occurrence within an
// already month-shifted date. Implementations must be pure.
type DayRule interface {
	// Apply returns the occurrence date for the shifted month. The shifted
	// date already carries the anchor's day clamped to the month's length.
	Apply(shifted core.Date, customDay int) core.Date
}

// NoneRule keeps the month-shifted date unchanged.
type NoneRule struct{}

func (NoneRule) Apply(shifted core.Date, _ int) core.Date {
	return shifted
}

// Day15Rule places the occurrence on the 15th of the shifted month.
type Day15Rule struct{}

func (Day15Rule) Apply(shifted core.Date, _ int) core.Date {
	return core.NewDate(shifted.Year(), shifted.Month(), 15)
}

// LastDayRule places the occurrence on the last calendar day of the
// shifted month.
type LastDayRule struct{}

func (LastDayRule) Apply(shifted core.Date, _ int) core.Date {
	return core.NewDate(shifted.Year(), shifted.Month(), shifted.DaysInMonth())
}

// CustomDayRule places the occurrence on a caller-chosen day of month,
// clamped so a day-31 rule lands on the last day of shorter months.
// Out-of-range days also clamp to the last day rather than erroring.
type CustomDayRule struct{}

func (CustomDayRule) Apply(shifted core.Date, customDay int) core.Date {
	max := shifted.DaysInMonth()
	day := customDay
	if day < 1 || day > 31 {
		day = max
	}
	if day > max {
		day = max
	}
	return core.NewDate(shifted.Year(), shifted.Month(), day)
}

// FifthBusinessDayRule walks forward from day 1 of the shifted month
// counting only Monday through Friday until the fifth business day.
// Saturdays and Sundays never count and are never selected.
type FifthBusinessDayRule struct{}

func (FifthBusinessDayRule) Apply(shifted core.Date, _ int) core.Date {
	count := 0
	for day := 1; day <= shifted.DaysInMonth(); day++ {
		d := core.NewDate(shifted.Year(), shifted.Month(), day)
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		count++
		if count == 5 {
			return d
		}
	}
	// A month always has at least 20 business days; unreachable.
	return shifted
}

// dayRules maps rule kinds to their strategies.
var dayRules = map[core.RuleKind]DayRule{
	core.RuleNone:             NoneRule{},
	core.RuleDay15:            Day15Rule{},
	core.RuleLastDay:          LastDayRule{},
	core.RuleCustomDay:        CustomDayRule{},
	core.RuleFifthBusinessDay: FifthBusinessDayRule{},
}

// GetDayRule returns the strategy for a rule kind. Unknown or empty kinds
// fall back to NoneRule: malformed recurrence metadata means plain
// month-shifting, never an error.
func GetDayRule(kind core.RuleKind) DayRule {
	if rule, ok := dayRules[kind]; ok {
		return rule
	}
	return NoneRule{}
}

// RegisterDayRule registers a custom strategy for a rule kind.
func RegisterDayRule(kind core.RuleKind, rule DayRule) {
	dayRules[kind] = rule
}

// Resolve maps an anchor date, a month offset and a rule kind to the
// concrete date of the projected occurrence. The anchor is first shifted
// forward by monthOffset calendar months with the day clamped to the
// target month, then the rule overrides the day of month.
func Resolve(anchor core.Date, monthOffset int, kind core.RuleKind, customDay int) core.Date {
	shifted := anchor.AddMonths(monthOffset)
	return GetDayRule(kind).Apply(shifted, customDay)
}
