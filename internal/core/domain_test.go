package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  Date
		offset int
		want   Date
	}{
		{"plain shift", NewDate(2024, 1, 10), 1, NewDate(2024, 2, 10)},
		{"year rollover", NewDate(2024, 11, 15), 3, NewDate(2025, 2, 15)},
		{"clamp to leap february", NewDate(2024, 1, 31), 1, NewDate(2024, 2, 29)},
		{"clamp to short february", NewDate(2023, 1, 31), 1, NewDate(2023, 2, 28)},
		{"clamp to thirty days", NewDate(2024, 3, 31), 1, NewDate(2024, 4, 30)},
		{"day preserved after clampable month", NewDate(2024, 1, 31), 2, NewDate(2024, 3, 31)},
		{"twelve months", NewDate(2024, 2, 29), 12, NewDate(2025, 2, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.AddMonths(tt.offset)
			if !got.Equal(tt.want) {
				t.Errorf("AddMonths(%d) = %s, want %s", tt.offset, got, tt.want)
			}
		})
	}
}

func TestDateComparisons(t *testing.T) {
	a := NewDate(2024, 3, 15)
	b := NewDate(2024, 3, 16)

	if !a.Before(b) || b.Before(a) {
		t.Errorf("expected %s before %s", a, b)
	}
	if !b.After(a) || a.After(b) {
		t.Errorf("expected %s after %s", b, a)
	}
	if a.Before(a) || a.After(a) {
		t.Errorf("date must not compare before/after itself")
	}
	if !a.SameMonth(b) {
		t.Errorf("expected %s and %s in the same month", a, b)
	}
	if a.SameMonth(NewDate(2025, 3, 15)) {
		t.Errorf("same month must include the year")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 2 || d.Day() != 29 {
		t.Errorf("parsed %s, want 2024-02-29", d)
	}

	for _, bad := range []string{"", "29-02-2024", "2024-13-01", "not-a-date"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestDaysIn(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{2024, 4, 30},
		{2024, 12, 31},
	}
	for _, tc := range cases {
		if got := DaysIn(tc.year, tc.month); got != tc.want {
			t.Errorf("DaysIn(%d, %d) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestSyntheticID(t *testing.T) {
	id := SyntheticID("tx-42", NewDate(2024, 3, 15))
	if id != "tx-42-generated-2024-03-15" {
		t.Errorf("SyntheticID = %q", id)
	}

	synth := Transaction{ID: id}
	if !synth.IsSynthetic() {
		t.Errorf("expected synthetic id to be detected")
	}
	if (Transaction{ID: "tx-42"}).IsSynthetic() {
		t.Errorf("plain id must not be synthetic")
	}
}

func TestIsRecurring(t *testing.T) {
	spec := &RecurrenceSpec{IsRecurring: true, Rule: RuleDay15}

	anchor := Transaction{ID: "a", Recurrence: spec}
	if !anchor.IsRecurring() {
		t.Errorf("anchor with recurrence must be recurring")
	}

	synth := Transaction{ID: SyntheticID("a", NewDate(2024, 2, 15)), Recurrence: spec}
	if synth.IsRecurring() {
		t.Errorf("synthetic occurrences must never act as templates")
	}

	plain := Transaction{ID: "b"}
	if plain.IsRecurring() {
		t.Errorf("transaction without recurrence must not be recurring")
	}
}

func TestCategoryLabel(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{
			name: "subcategory wins",
			tx: Transaction{
				Category:    &CategoryRef{Name: "Housing"},
				Subcategory: &CategoryRef{Name: "Rent"},
			},
			want: "Rent",
		},
		{
			name: "category fallback",
			tx:   Transaction{Category: &CategoryRef{Name: "Housing"}},
			want: "Housing",
		},
		{
			name: "uncategorized fallback",
			tx:   Transaction{},
			want: "uncategorized",
		},
		{
			name: "blank subcategory name falls through",
			tx: Transaction{
				Category:    &CategoryRef{Name: "Housing"},
				Subcategory: &CategoryRef{Name: "  "},
			},
			want: "Housing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tx.CategoryLabel(); got != tt.want {
				t.Errorf("CategoryLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "t1",
		Kind:        Expense,
		Description: "groceries",
		Amount:      decimal.NewFromInt(50),
		Date:        NewDate(2024, 1, 10),
		Status:      StatusDue,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Kind: Expense, Description: "a", Date: Date{}},
		{Kind: "transfer", Description: "a", Date: NewDate(2024, 1, 1)},
		{Kind: Income, Description: "a", Date: NewDate(2024, 1, 1), Status: "pending"},
		{Kind: Income, Description: "a", Date: NewDate(2024, 1, 1), Amount: decimal.NewFromInt(-1)},
		{Kind: Income, Description: "   ", Date: NewDate(2024, 1, 1)},
	}
	for i, bad := range bads {
		if err := bad.Validate(); err == nil {
			t.Errorf("case %d expected error", i)
		}
	}
}
