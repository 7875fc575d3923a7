/*
Package staffing tracks team throughput as summaries-per-hour (SPH).

PURPOSE:
  Turns the raw completion log plus a history of staff-count snapshots
  into a daily productivity series, rolling averages, and a capacity
  planner that answers "how many staff do we need for N summaries".

KEY CONCEPTS:
  - Staff snapshot: the headcount in force from an effective date
    onward, until a later snapshot supersedes it. One snapshot per
    effective date.
  - Day bucketing: all days are business dates in the reference zone,
    and every staff member contributes a fixed 8 hours per day.
  - SPH: completed quantity divided by staffed hours for the day. Days
    with zero staffed hours have no SPH, not an SPH of zero; a day the
    team was off must not drag averages down.
*/
package staffing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MedSync-Corp/client-deliverables-tracker/deliverables"
)

// HoursPerDay is the fixed staffed-hours contribution of one person.
const HoursPerDay = 8

// Snapshot records the staff count in force from EffectiveDate onward.
type Snapshot struct {
	EffectiveDate deliverables.BusinessDate `json:"effective_date"`
	StaffCount    int                       `json:"staff_count"`
	Note          string                    `json:"note,omitempty"`
}

// SortSnapshots orders snapshots by effective date ascending, in place.
func SortSnapshots(snaps []Snapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].EffectiveDate.Before(snaps[j].EffectiveDate)
	})
}

// StaffOn resolves the headcount in force on a day: the latest snapshot
// whose effective date is on or before it, or zero when none applies.
// Snapshots must be sorted ascending.
func StaffOn(day deliverables.BusinessDate, snaps []Snapshot) int {
	chosen := 0
	for _, s := range snaps {
		if s.EffectiveDate.After(day) {
			break
		}
		chosen = s.StaffCount
	}
	return chosen
}

// Latest returns the most recent snapshot, if any.
func Latest(snaps []Snapshot) (Snapshot, bool) {
	if len(snaps) == 0 {
		return Snapshot{}, false
	}
	return snaps[len(snaps)-1], true
}

// DailySeries is the per-day throughput view, oldest day first. SPH is
// null on days with zero staffed hours.
type DailySeries struct {
	Days      []deliverables.BusinessDate
	Completed []int
	Staff     []int
	Hours     []int
	SPH       []decimal.NullDecimal
}

// Len is the number of days in the series.
func (s *DailySeries) Len() int { return len(s.Days) }

// BucketCompletionsByDay sums completion quantities per business date,
// across all clients.
func BucketCompletionsByDay(events []deliverables.CompletionEvent) map[deliverables.BusinessDate]int {
	byDay := make(map[deliverables.BusinessDate]int)
	for _, e := range events {
		byDay[e.OccurredOn] += e.Quantity
	}
	return byDay
}

// BuildDailySeries assembles the trailing window of days ending at today
// (inclusive). Snapshots must be sorted ascending.
func BuildDailySeries(byDay map[deliverables.BusinessDate]int, snaps []Snapshot, today deliverables.BusinessDate, days int) *DailySeries {
	series := &DailySeries{
		Days:      make([]deliverables.BusinessDate, 0, days),
		Completed: make([]int, 0, days),
		Staff:     make([]int, 0, days),
		Hours:     make([]int, 0, days),
		SPH:       make([]decimal.NullDecimal, 0, days),
	}
	for i := days - 1; i >= 0; i-- {
		day := today.AddDays(-i)
		completed := byDay[day]
		staff := StaffOn(day, snaps)
		hours := staff * HoursPerDay

		var sph decimal.NullDecimal
		if hours > 0 {
			sph.Valid = true
			sph.Decimal = decimal.NewFromInt(int64(completed)).
				Div(decimal.NewFromInt(int64(hours)))
		}

		series.Days = append(series.Days, day)
		series.Completed = append(series.Completed, completed)
		series.Staff = append(series.Staff, staff)
		series.Hours = append(series.Hours, hours)
		series.SPH = append(series.SPH, sph)
	}
	return series
}
