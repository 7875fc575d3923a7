/*
engine.go - Carry-forward week accounting

PURPOSE:
  Computes the WeekResult for any (client, week) pair by chaining the
  weekly recurrence from the client's first week of history up to the
  requested week:

    required(W)  = target(W) + carryIn(W)
    carryIn(W)   = max(0, required(W-1) - completed(W-1))
    remaining(W) = max(0, required(W) - completed(W))

  The requested week is addressed by an explicit offset from the anchor
  week (the week containing "today"): 0 = current week, negative = past,
  positive = future. The offset is a parameter, never ambient state, so
  evaluations are pure and repeatable.

FUTURE WEEKS:
  Completion data cannot exist for weeks after the anchor. The chain uses
  real sums through the anchor week and assumes zero completions for every
  week strictly after it, so shortfall keeps compounding forward exactly
  as it would if no work happened.

CLAMPING:
  required, carryIn, and remaining are never negative. The only signed
  quantity in the system is the raw completion sum, which may dip below
  zero when corrections outweigh work.
*/
package deliverables

import "sort"

// DefaultAtRiskPerDay is the per-day remaining-work pressure above which a
// week is flagged at-risk.
const DefaultAtRiskPerDay = 100

// Engine evaluates the weekly recurrence over a Snapshot. The zero value
// is not ready to use; call NewEngine.
type Engine struct {
	// AtRiskPerDay is the remaining-per-day threshold for the at-risk
	// status signal.
	AtRiskPerDay int
}

func NewEngine() *Engine {
	return &Engine{AtRiskPerDay: DefaultAtRiskPerDay}
}

// WeekResult computes the accounting row for one client and one week,
// addressed by weekOffset relative to the week containing today.
func (e *Engine) WeekResult(snap *Snapshot, clientID ClientID, today BusinessDate, weekOffset int) WeekResult {
	anchor := MondayOf(today)
	sel := AddWeeks(anchor, weekOffset)

	name := string(clientID)
	if c, ok := snap.Client(clientID); ok {
		name = c.Name
	}

	res := WeekResult{
		ClientID:  clientID,
		Name:      name,
		WeekStart: sel,
		Lifetime:  LifetimeTotal(snap.Completions, clientID),
	}

	start, ok := firstHistoryWeek(snap, clientID)
	if !ok || start.After(sel) {
		// No history at or before the selected week: nothing is owed and
		// nothing carries. Status falls out as on-track.
		res.Status = StatusOnTrack
		return res
	}

	carry := 0
	for wm := start; wm.BeforeOrEqual(sel); wm = AddWeeks(wm, 1) {
		target := EffectiveTarget(snap.Baselines, snap.Overrides, clientID, wm)
		required := target + carry

		completed := 0
		if wm.BeforeOrEqual(anchor) {
			completed = SumCompletionsBetween(snap.Completions, clientID, wm, FridayOf(wm))
		}

		if wm.Equal(sel) {
			res.Target = target
			res.CarryIn = carry
			res.Required = required
			res.Completed = completed
			res.Remaining = max0(required - completed)
			break
		}
		carry = max0(required - completed)
	}

	res.Status = Classify(res.CarryIn, res.Remaining, DaysLeftInWeek(sel, today), e.AtRiskPerDay)
	return res
}

// WeekResults computes rows for every active client, sorted by name.
// When startedOnly is set, clients that have not been onboarded yet (no
// baseline in effect and no completions) are filtered out.
func (e *Engine) WeekResults(snap *Snapshot, today BusinessDate, weekOffset int, startedOnly bool) []WeekResult {
	var rows []WeekResult
	for _, c := range snap.Clients {
		if !c.Active() {
			continue
		}
		if startedOnly && !IsStarted(snap, c.ID, today) {
			continue
		}
		rows = append(rows, e.WeekResult(snap, c.ID, today, weekOffset))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// Totals aggregates rows into the dashboard KPI set. Remaining is the
// clamped difference of the totals, not the sum of per-client remainders:
// one client's overshoot offsets another's shortfall at the aggregate
// level.
func (e *Engine) Totals(snap *Snapshot, rows []WeekResult) Totals {
	t := Totals{Lifetime: LifetimeTotalAll(snap.Completions)}
	for _, r := range rows {
		t.Required += r.Required
		t.Completed += r.Completed
	}
	t.Remaining = max0(t.Required - t.Completed)
	return t
}

// IsStarted reports whether a client has been onboarded: it has a baseline
// already in effect, or it has logged any completion at all.
func IsStarted(snap *Snapshot, clientID ClientID, today BusinessDate) bool {
	for _, b := range snap.Baselines {
		if b.ClientID == clientID && b.EffectiveFrom.BeforeOrEqual(today) {
			return true
		}
	}
	for _, ev := range snap.Completions {
		if ev.ClientID == clientID {
			return true
		}
	}
	return false
}

// firstHistoryWeek finds the Monday of the earliest week in which the
// client has any record: a baseline taking effect, an override, or a
// completion. The recurrence chain starts there with zero carry.
func firstHistoryWeek(snap *Snapshot, clientID ClientID) (BusinessDate, bool) {
	var (
		first BusinessDate
		found bool
	)
	consider := func(d BusinessDate) {
		m := MondayOf(d)
		if !found || m.Before(first) {
			first = m
			found = true
		}
	}
	for _, b := range snap.Baselines {
		if b.ClientID == clientID {
			consider(b.EffectiveFrom)
		}
	}
	for _, o := range snap.Overrides {
		if o.ClientID == clientID {
			consider(o.WeekStart)
		}
	}
	for _, ev := range snap.Completions {
		if ev.ClientID == clientID {
			consider(ev.OccurredOn)
		}
	}
	return first, found
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
