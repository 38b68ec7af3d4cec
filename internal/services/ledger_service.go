// Package services orchestrates the projection engine over a data backend:
// fetch, project, classify, aggregate, and announce status transitions.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"bilancio/internal/amqp"
	"bilancio/internal/backend"
	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/projection"
	"bilancio/internal/report"
)

// TransitionPublisher announces detected due-to-overdue transitions so a
// worker can persist them. Reads never write storage directly.
type TransitionPublisher interface {
	PublishStatusTransition(ctx context.Context, msg *amqp.StatusTransitionMessage) error
}

// AnnotatedTransaction pairs a transaction with its effective status for
// the request's reference date.
type AnnotatedTransaction struct {
	core.Transaction
	EffectiveStatus core.Status
}

// LedgerService reads transactions from a backend and serves the merged
// projected list plus the balance and category summaries. Projection
// results are memoized per (input fingerprint, today, horizon); the
// memo key covers every input, so a cache hit is byte-identical to a
// recompute.
type LedgerService struct {
	source    backend.TransactionSource
	publisher TransitionPublisher
	memo      cache.Cache[[]AnnotatedTransaction]
	horizon   int
}

func NewLedgerService(source backend.TransactionSource, publisher TransitionPublisher, memo cache.Cache[[]AnnotatedTransaction], horizonMonths int) *LedgerService {
	if horizonMonths <= 0 {
		horizonMonths = projection.DefaultHorizonMonths
	}
	return &LedgerService{
		source:    source,
		publisher: publisher,
		memo:      memo,
		horizon:   horizonMonths,
	}
}

// Transactions returns the merged real and projected set with effective
// statuses, newest first.
func (s *LedgerService) Transactions(ctx context.Context, today core.Date, horizonMonths int) ([]AnnotatedTransaction, error) {
	if s.source == nil {
		return nil, fmt.Errorf("ledger service not properly initialized")
	}
	if horizonMonths <= 0 {
		horizonMonths = s.horizon
	}

	stored, err := s.source.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	key := projection.Fingerprint(stored, horizonMonths, today)
	if s.memo != nil {
		if annotated, ok := s.memo.Get(key); ok {
			return annotated, nil
		}
	}

	merged := projection.Project(stored, horizonMonths, today)
	annotated := make([]AnnotatedTransaction, len(merged))
	for i, t := range merged {
		annotated[i] = AnnotatedTransaction{
			Transaction:     t,
			EffectiveStatus: core.EffectiveStatus(t, today),
		}
		s.announceTransition(ctx, annotated[i])
	}

	if s.memo != nil {
		s.memo.Set(key, annotated)
	}
	return annotated, nil
}

// Summary returns the balance overview of the merged set for today.
func (s *LedgerService) Summary(ctx context.Context, today core.Date, horizonMonths int) (report.Summary, error) {
	merged, err := s.merged(ctx, today, horizonMonths)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(merged, today), nil
}

// Breakdown returns the expense-by-category shares of the merged set.
func (s *LedgerService) Breakdown(ctx context.Context, today core.Date, horizonMonths int) ([]report.CategoryShare, error) {
	merged, err := s.merged(ctx, today, horizonMonths)
	if err != nil {
		return nil, err
	}
	return report.ByCategory(merged), nil
}

func (s *LedgerService) merged(ctx context.Context, today core.Date, horizonMonths int) ([]core.Transaction, error) {
	annotated, err := s.Transactions(ctx, today, horizonMonths)
	if err != nil {
		return nil, err
	}
	merged := make([]core.Transaction, len(annotated))
	for i, a := range annotated {
		merged[i] = a.Transaction
	}
	return merged, nil
}

// announceTransition publishes a transition message when a stored due
// transaction classifies as overdue. Publish failures are logged, never
// surfaced: the read path must not depend on the broker.
func (s *LedgerService) announceTransition(ctx context.Context, a AnnotatedTransaction) {
	if s.publisher == nil {
		return
	}
	if a.IsSynthetic() || a.Status != core.StatusDue || a.EffectiveStatus != core.StatusOverdue {
		return
	}
	msg := amqp.NewStatusTransitionMessage(a.ID, a.Status, a.EffectiveStatus)
	if err := s.publisher.PublishStatusTransition(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish status transition",
			log.FieldComponent, log.ComponentLedger,
			log.FieldOperation, log.OpPublish,
			log.FieldTransaction, a.ID,
			log.FieldError, err)
	}
}
