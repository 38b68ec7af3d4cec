package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
	"bilancio/internal/store/memory"
)

type countingWriter struct {
	store   *memory.Store
	batches [][]string
}

func (w *countingWriter) MarkOverdue(ctx context.Context, ids []string) error {
	w.batches = append(w.batches, ids)
	return w.store.MarkOverdue(ctx, ids)
}

func TestProcessOverdue(t *testing.T) {
	store := memory.New(nil)
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	seed := []core.Transaction{
		{
			ID: "late-1", Kind: core.Expense, Description: "Internet",
			Amount: decimal.NewFromInt(30), Date: core.NewDate(2024, 2, 1),
			DueDate: core.NewDate(2024, 3, 1), Status: core.StatusDue,
		},
		{
			ID: "late-2", Kind: core.Expense, Description: "Water",
			Amount: decimal.NewFromInt(45), Date: core.NewDate(2024, 2, 5),
			DueDate: core.NewDate(2024, 3, 10), Status: core.StatusDue,
		},
		{
			ID: "on-time", Kind: core.Expense, Description: "Rent",
			Amount: decimal.NewFromInt(1200), Date: core.NewDate(2024, 3, 1),
			DueDate: core.NewDate(2024, 3, 15), Status: core.StatusDue,
		},
		{
			ID: "settled", Kind: core.Expense, Description: "Gas",
			Amount: decimal.NewFromInt(60), Date: core.NewDate(2024, 2, 1),
			DueDate: core.NewDate(2024, 3, 1), Status: core.StatusPaid,
		},
	}
	for _, tx := range seed {
		if _, err := store.Append(ctx, tx); err != nil {
			t.Fatalf("seed append: %v", err)
		}
	}

	proc := NewReconcileProcessor(store, store, 100)

	count, err := proc.ProcessOverdue(ctx, now)
	if err != nil {
		t.Fatalf("ProcessOverdue: %v", err)
	}
	if count != 2 {
		t.Fatalf("transitions = %d, want 2", count)
	}

	stored, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	want := map[string]core.Status{
		"late-1":  core.StatusOverdue,
		"late-2":  core.StatusOverdue,
		"on-time": core.StatusDue,
		"settled": core.StatusPaid,
	}
	for _, tx := range stored {
		if tx.Status != want[tx.ID] {
			t.Errorf("%s status = %s, want %s", tx.ID, tx.Status, want[tx.ID])
		}
	}

	// Already persisted transitions must not count again.
	count, err = proc.ProcessOverdue(ctx, now)
	if err != nil {
		t.Fatalf("second ProcessOverdue: %v", err)
	}
	if count != 0 {
		t.Errorf("second run transitions = %d, want 0", count)
	}
}

func TestProcessOverdueBatches(t *testing.T) {
	store := memory.New(nil)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if _, err := store.Append(ctx, core.Transaction{
			Kind: core.Expense, Description: "Late bill",
			Amount: decimal.NewFromInt(int64(10 + i)), Date: core.NewDate(2024, 4, 1),
			DueDate: core.NewDate(2024, 5, 1), Status: core.StatusDue,
		}); err != nil {
			t.Fatalf("seed append: %v", err)
		}
	}

	writer := &countingWriter{store: store}
	proc := NewReconcileProcessor(store, writer, 2)

	count, err := proc.ProcessOverdue(ctx, now)
	if err != nil {
		t.Fatalf("ProcessOverdue: %v", err)
	}
	if count != 5 {
		t.Fatalf("transitions = %d, want 5", count)
	}
	if len(writer.batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(writer.batches))
	}
	for i, sizes := range []int{2, 2, 1} {
		if len(writer.batches[i]) != sizes {
			t.Errorf("batch %d size = %d, want %d", i, len(writer.batches[i]), sizes)
		}
	}
}

func TestProcessOverdueUninitialized(t *testing.T) {
	proc := &ReconcileProcessor{}
	if _, err := proc.ProcessOverdue(context.Background(), time.Now()); err == nil {
		t.Errorf("expected error from uninitialized processor")
	}
}
