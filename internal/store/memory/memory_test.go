package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

func TestAppend(t *testing.T) {
	store := New(nil)
	ctx := context.Background()

	id, err := store.Append(ctx, core.Transaction{
		Kind: core.Expense, Description: "Groceries",
		Amount: decimal.NewFromInt(50), Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if id == "" {
		t.Errorf("expected a minted id for an empty one")
	}

	stored, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored = %d, want 1", len(stored))
	}
	if stored[0].Status != core.StatusDue {
		t.Errorf("default status = %s, want due", stored[0].Status)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	store := New(nil)
	ctx := context.Background()

	if _, err := store.Append(ctx, core.Transaction{
		Kind: "transfer", Description: "Bad kind",
		Amount: decimal.NewFromInt(10), Date: core.NewDate(2024, 3, 1),
	}); err == nil {
		t.Errorf("expected invalid kind rejected")
	}

	if _, err := store.Append(ctx, core.Transaction{
		Kind: core.Expense, Description: "",
		Amount: decimal.NewFromInt(10), Date: core.NewDate(2024, 3, 1),
	}); err == nil {
		t.Errorf("expected empty description rejected")
	}
}

func TestAppendRejectsDuplicateID(t *testing.T) {
	store := New(nil)
	ctx := context.Background()

	first := core.Transaction{
		ID: "fixed", Kind: core.Expense, Description: "First",
		Amount: decimal.NewFromInt(10), Date: core.NewDate(2024, 3, 1),
	}
	if _, err := store.Append(ctx, first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := store.Append(ctx, first); err == nil {
		t.Errorf("expected duplicate id rejected")
	}
}

func TestListReturnsCopy(t *testing.T) {
	store := New([]core.Transaction{{
		ID: "a", Kind: core.Expense, Description: "Coffee",
		Amount: decimal.NewFromInt(3), Date: core.NewDate(2024, 3, 1),
		Status: core.StatusDue,
	}})
	ctx := context.Background()

	listed, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	listed[0].Status = core.StatusPaid

	again, _ := store.ListTransactions(ctx)
	if again[0].Status != core.StatusDue {
		t.Errorf("mutating the listed slice leaked into the store")
	}
}

func TestMarkOverdue(t *testing.T) {
	store := New([]core.Transaction{
		{ID: "due", Kind: core.Expense, Description: "Due", Amount: decimal.NewFromInt(1), Date: core.NewDate(2024, 3, 1), Status: core.StatusDue},
		{ID: "paid", Kind: core.Expense, Description: "Paid", Amount: decimal.NewFromInt(1), Date: core.NewDate(2024, 3, 1), Status: core.StatusPaid},
	})
	ctx := context.Background()

	if err := store.MarkOverdue(ctx, []string{"due", "paid", "missing"}); err != nil {
		t.Fatalf("MarkOverdue: %v", err)
	}

	stored, _ := store.ListTransactions(ctx)
	for _, tx := range stored {
		switch tx.ID {
		case "due":
			if tx.Status != core.StatusOverdue {
				t.Errorf("due status = %s, want overdue", tx.Status)
			}
		case "paid":
			if tx.Status != core.StatusPaid {
				t.Errorf("paid status = %s, want untouched paid", tx.Status)
			}
		}
	}

	if err := store.MarkOverdue(ctx, nil); err != nil {
		t.Errorf("MarkOverdue(nil) = %v, want nil", err)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	seed := `# seed data
2024-03-01|expense|1200.00|Rent|paid|Housing
2024-03-05|income|3000|Salary|paid
2024-03-10|expense|49,90|Internet
not a valid line
2024-03-15|expense|abc|Broken amount
`
	if err := os.WriteFile(filepath.Join(dir, "seed_transactions.txt"), []byte(seed), 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	store := NewFromFiles(dir)
	stored, err := store.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("stored = %d, want 3 (comments and malformed lines skipped)", len(stored))
	}

	rent := stored[0]
	if rent.Description != "Rent" || rent.Status != core.StatusPaid {
		t.Errorf("rent parsed as %+v", rent)
	}
	if rent.Category == nil || rent.Category.Name != "Housing" {
		t.Errorf("rent category = %+v, want Housing", rent.Category)
	}
	if !rent.Amount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("rent amount = %s, want 1200", rent.Amount)
	}

	internet := stored[2]
	if want := decimal.NewFromFloat(49.90); !internet.Amount.Equal(want) {
		t.Errorf("comma amount = %s, want %s", internet.Amount, want)
	}
	if internet.Status != core.StatusDue {
		t.Errorf("default seed status = %s, want due", internet.Status)
	}
}

func TestNewFromFilesMissing(t *testing.T) {
	store := NewFromFiles(t.TempDir())
	stored, err := store.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("stored = %d, want 0 for a missing seed file", len(stored))
	}
}
