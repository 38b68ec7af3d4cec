// Package projection expands recurring anchor transactions into synthetic
// future occurrences over a bounded horizon.
//
// Projection is a pure read-path transform: it never mutates its input and
// never touches storage. Synthetic occurrences are transient; callers
// discard them after rendering. Running Project twice with the same input,
// horizon and reference date yields identical output.
package projection

import (
	"sort"

	"bilancio/internal/core"
	"bilancio/internal/schedule"
)

// DefaultHorizonMonths bounds projection when the caller does not choose
// a horizon.
const DefaultHorizonMonths = 12

// Project returns the input transactions merged with synthetic occurrences
// of every recurring template, sorted by transaction date descending.
//
// For each template the month offset runs from 1 up to the smaller of the
// template's occurrence cap and the horizon. Generation stops early at the
// first candidate past the horizon end (today plus horizonMonths). A
// candidate in the template's own (year, month) is skipped: the anchor
// already represents that month. A candidate whose (description, date,
// kind, amount) matches a transaction already accumulated is suppressed,
// so persisted occurrences always win over synthetic ones.
func Project(transactions []core.Transaction, horizonMonths int, today core.Date) []core.Transaction {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	horizonEnd := today.AddMonths(horizonMonths)

	merged := make([]core.Transaction, len(transactions))
	copy(merged, transactions)

	for _, t := range transactions {
		if !t.IsRecurring() {
			continue
		}
		spec := *t.Recurrence

		maxOffset := horizonMonths
		if spec.MonthsCap > 0 && spec.MonthsCap < maxOffset {
			maxOffset = spec.MonthsCap
		}

		for offset := 1; offset <= maxOffset; offset++ {
			candidate := schedule.Resolve(t.Date, offset, spec.Rule, spec.CustomDay)
			if candidate.After(horizonEnd) {
				break
			}
			// Guard against rules that would push the date back into the
			// anchor's own month; the skip does not end generation.
			if candidate.SameMonth(t.Date) {
				continue
			}

			synth := synthesize(t, candidate)
			if hasDuplicate(merged, synth) {
				continue
			}
			merged = append(merged, synth)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})
	return merged
}

// synthesize builds the occurrence of template t on the given date. The
// id is derived deterministically from the template id and the date, the
// status is always reset to due, and category and recurrence metadata are
// carried over unchanged.
func synthesize(t core.Transaction, on core.Date) core.Transaction {
	synth := t
	synth.ID = core.SyntheticID(t.ID, on)
	synth.Date = on
	synth.Status = core.StatusDue
	if !t.DueDate.IsZero() {
		// The anchor's own due date belongs to the anchor's month; the
		// occurrence is due on its projected date.
		synth.DueDate = on
	}
	return synth
}

// hasDuplicate reports whether the accumulated set already contains a
// transaction with the same description, date, kind and amount. The
// four-field key is a heuristic; see DESIGN.md for the trade-off.
func hasDuplicate(accumulated []core.Transaction, candidate core.Transaction) bool {
	for _, existing := range accumulated {
		if existing.Description == candidate.Description &&
			existing.Kind == candidate.Kind &&
			existing.Date.Equal(candidate.Date) &&
			existing.Amount.Equal(candidate.Amount) {
			return true
		}
	}
	return false
}
