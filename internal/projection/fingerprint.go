package projection

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"bilancio/internal/core"
)

// Fingerprint derives a stable cache key for a projection call from the
// input set, the horizon and the reference date. Projection is pure, so
// equal fingerprints mean equal output and results can be memoized.
//
// The key covers every field the projector or the classifier reads;
// input order matters, which is fine because callers fetch in a stable
// order from their backend.
func Fingerprint(transactions []core.Transaction, horizonMonths int, today core.Date) string {
	h := fnv.New64a()
	h.Write([]byte(today.String()))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.Itoa(horizonMonths)))
	for _, t := range transactions {
		h.Write([]byte{'|'})
		h.Write([]byte(t.ID))
		h.Write([]byte{';'})
		h.Write([]byte(t.Kind))
		h.Write([]byte{';'})
		h.Write([]byte(t.Description))
		h.Write([]byte{';'})
		h.Write([]byte(t.Amount.String()))
		h.Write([]byte{';'})
		h.Write([]byte(t.Date.String()))
		h.Write([]byte{';'})
		if !t.DueDate.IsZero() {
			h.Write([]byte(t.DueDate.String()))
		}
		h.Write([]byte{';'})
		h.Write([]byte(t.Status))
		if t.Recurrence != nil {
			fmt.Fprintf(h, ";%t;%s;%d;%d",
				t.Recurrence.IsRecurring, t.Recurrence.Rule,
				t.Recurrence.CustomDay, t.Recurrence.MonthsCap)
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
