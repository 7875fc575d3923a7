package deliverables

// =============================================================================
// STATUS CLASSIFIER - Three-level week health signal
// =============================================================================

// Status is the health signal for a (client, week) pair. It is recomputed
// on every read from the current numbers; there are no transitions.
type Status string

const (
	StatusOnTrack Status = "on_track"
	StatusAtRisk  Status = "at_risk"
	StatusBehind  Status = "behind"
)

// Classify derives the status signal. Precedence matters:
//
//  1. Any carry-in means a shortfall already exists from the prior week.
//     That is always the worst signal, even when the current pace looks
//     comfortable.
//  2. Otherwise, remaining work spread over the days left exceeding the
//     per-day threshold flags the week at-risk.
//  3. Otherwise on-track.
//
// daysLeft must be >= 1; DaysLeftInWeek guarantees that.
func Classify(carryIn, remaining, daysLeft, perDayThreshold int) Status {
	if carryIn > 0 {
		return StatusBehind
	}
	if daysLeft < 1 {
		daysLeft = 1
	}
	if remaining > perDayThreshold*daysLeft {
		return StatusAtRisk
	}
	return StatusOnTrack
}
