package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/backend"
	"bilancio/internal/core"
	"bilancio/internal/log"
)

// ReconcileProcessor is the explicitly triggered batch step that persists
// due-to-overdue transitions. It is the only writer of statuses; the
// classifier itself stays pure.
type ReconcileProcessor struct {
	source    backend.TransactionSource
	writer    backend.StatusWriter
	batchSize int
}

// NewReconcileProcessor creates a processor writing batches of the given
// size.
func NewReconcileProcessor(source backend.TransactionSource, writer backend.StatusWriter, batchSize int) *ReconcileProcessor {
	if batchSize < 1 {
		batchSize = 100
	}
	return &ReconcileProcessor{
		source:    source,
		writer:    writer,
		batchSize: batchSize,
	}
}

// ProcessOverdue scans stored transactions, classifies them against now,
// and marks every stored-due-but-effectively-overdue one. Returns how
// many transitions were persisted.
func (p *ReconcileProcessor) ProcessOverdue(ctx context.Context, now time.Time) (int, error) {
	if p.source == nil || p.writer == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.DateOf(now)

	stored, err := p.source.ListTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	var overdue []string
	for _, t := range stored {
		if t.IsSynthetic() || t.Status != core.StatusDue {
			continue
		}
		if core.EffectiveStatus(t, today) == core.StatusOverdue {
			overdue = append(overdue, t.ID)
		}
	}

	slog.InfoContext(ctx, "Reconciling overdue transactions",
		log.FieldComponent, log.ComponentReconcile,
		log.FieldOperation, log.OpReconcile,
		log.FieldCount, len(stored),
		"transitions", len(overdue),
		log.FieldToday, today.String())

	for start := 0; start < len(overdue); start += p.batchSize {
		end := start + p.batchSize
		if end > len(overdue) {
			end = len(overdue)
		}
		if err := p.writer.MarkOverdue(ctx, overdue[start:end]); err != nil {
			return start, fmt.Errorf("mark overdue batch: %w", err)
		}
	}

	return len(overdue), nil
}
