package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	StatusPaid    Status = "paid"
	StatusDue     Status = "due"
	StatusOverdue Status = "overdue"
)

const (
	RuleNone             RuleKind = "none"
	RuleDay15            RuleKind = "day_15"
	RuleLastDay          RuleKind = "last_day"
	RuleCustomDay        RuleKind = "custom_day"
	RuleFifthBusinessDay RuleKind = "fifth_business_day"
)

// syntheticMarker is the id infix that identifies projected occurrences.
// Synthetic ids are "{templateID}-generated-{yyyy}-{mm}-{dd}" so that
// repeated projection runs mint identical ids.
const syntheticMarker = "-generated-"

type (
	Kind     string
	Status   string
	RuleKind string

	Date struct {
		time.Time
	}

	// RecurrenceSpec describes how an anchor transaction repeats. It is
	// attached to exactly one anchor; projected occurrences carry a copy
	// but are never expanded again.
	RecurrenceSpec struct {
		IsRecurring bool
		Rule        RuleKind
		CustomDay   int // day of month for RuleCustomDay
		MonthsCap   int // max occurrences to project; <=0 means full horizon
	}

	// CategoryRef is read-only display metadata supplied by the caller.
	CategoryRef struct {
		Name  string
		Color string
		Icon  string
	}

	Transaction struct {
		ID          string
		Kind        Kind
		Description string
		Amount      decimal.Decimal
		Date        Date // transaction date, date-only semantics
		DueDate     Date // optional, meaningful for expenses; zero when unset
		Status      Status
		Recurrence  *RecurrenceSpec
		Category    *CategoryRef
		Subcategory *CategoryRef
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
)

// NewDate creates a Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

func (d Date) normalized() time.Time {
	y, m, day := d.Time.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly before other, comparing dates only.
func (d Date) Before(other Date) bool {
	return d.normalized().Before(other.normalized())
}

// After reports whether d is strictly after other, comparing dates only.
func (d Date) After(other Date) bool {
	return d.normalized().After(other.normalized())
}

// Equal reports whether d and other fall on the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.normalized().Equal(other.normalized())
}

// SameMonth reports whether d and other share (year, month).
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	return DaysIn(d.Year(), d.Month())
}

// DaysIn returns the number of days in the given month. Day zero of the
// following month is the last day of this one.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths shifts d forward by n calendar months with year rollover.
// The day of month is preserved where valid and clamped to the target
// month's last day otherwise (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	total := d.Year()*12 + (d.Month() - 1) + n
	year := total / 12
	month := total%12 + 1
	if month <= 0 {
		month += 12
		year--
	}
	day := d.Day()
	if max := DaysIn(year, month); day > max {
		day = max
	}
	return NewDate(year, month, day)
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusDue, StatusOverdue:
		return true
	}
	return false
}

func (r RuleKind) Valid() bool {
	switch r {
	case RuleNone, RuleDay15, RuleLastDay, RuleCustomDay, RuleFifthBusinessDay:
		return true
	}
	return false
}

// IsRecurring reports whether t is an anchor that should be projected.
// Synthetic occurrences carry a copy of the recurrence spec but are never
// treated as templates themselves.
func (t Transaction) IsRecurring() bool {
	return t.Recurrence != nil && t.Recurrence.IsRecurring && !t.IsSynthetic()
}

// IsSynthetic reports whether t was produced by projection.
func (t Transaction) IsSynthetic() bool {
	return strings.Contains(t.ID, syntheticMarker)
}

// SyntheticID derives the id of a projected occurrence of the template
// with the given id on the given date. Deterministic by construction.
func SyntheticID(templateID string, on Date) string {
	return templateID + syntheticMarker + on.String()
}

// CategoryLabel returns the aggregation label for t: subcategory name,
// then category name, then "uncategorized".
func (t Transaction) CategoryLabel() string {
	if t.Subcategory != nil && strings.TrimSpace(t.Subcategory.Name) != "" {
		return t.Subcategory.Name
	}
	if t.Category != nil && strings.TrimSpace(t.Category.Name) != "" {
		return t.Category.Name
	}
	return "uncategorized"
}

// CategoryColor returns the display color that goes with CategoryLabel.
func (t Transaction) CategoryColor() string {
	if t.Subcategory != nil && strings.TrimSpace(t.Subcategory.Name) != "" && t.Subcategory.Color != "" {
		return t.Subcategory.Color
	}
	if t.Category != nil {
		return t.Category.Color
	}
	return ""
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Status != "" && !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
