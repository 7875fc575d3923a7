package deliverables

// =============================================================================
// COMPLETION AGGREGATOR - Signed sums over date windows
// =============================================================================

// SumCompletionsBetween sums a client's completion quantities over the
// inclusive calendar-date window [from, to]. The comparison is date-only;
// a completion logged on the boundary date always counts regardless of
// what wall-clock time it was entered.
//
// The sum is signed and never clamped here: negative corrections can pull
// it below zero, and downstream consumers clamp where their semantics
// require it (remaining, required), not before.
func SumCompletionsBetween(events []CompletionEvent, clientID ClientID, from, to BusinessDate) int {
	sum := 0
	for _, e := range events {
		if e.ClientID != clientID {
			continue
		}
		if e.OccurredOn.Before(from) || e.OccurredOn.After(to) {
			continue
		}
		sum += e.Quantity
	}
	return sum
}

// LifetimeTotal sums every completion event for a client, all-time.
func LifetimeTotal(events []CompletionEvent, clientID ClientID) int {
	sum := 0
	for _, e := range events {
		if e.ClientID == clientID {
			sum += e.Quantity
		}
	}
	return sum
}

// LifetimeTotalAll sums every completion event across all clients.
func LifetimeTotalAll(events []CompletionEvent) int {
	sum := 0
	for _, e := range events {
		sum += e.Quantity
	}
	return sum
}
