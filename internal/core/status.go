package core

// EffectiveStatus derives the display status of a transaction relative to
// a reference date. Pure function; persisting a detected due-to-overdue
// transition is the caller's job, batched outside this package.
//
// Rules, in order:
//   - a paid transaction stays paid
//   - an expense whose due date is strictly before today is overdue;
//     a due date equal to today is still due
//   - otherwise the stored status, defaulting to due when unset
func EffectiveStatus(t Transaction, today Date) Status {
	if t.Status == StatusPaid {
		return StatusPaid
	}
	if t.Kind == Expense && !t.DueDate.IsZero() && t.DueDate.Before(today) {
		return StatusOverdue
	}
	if t.Status.Valid() {
		return t.Status
	}
	return StatusDue
}
