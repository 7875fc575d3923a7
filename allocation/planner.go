/*
Package allocation distributes remaining weekly work across workdays.

PURPOSE:
  Takes the per-client remaining quantities computed by the deliverables
  engine and spreads them over the unelapsed weekdays of a week, under a
  selectable strategy. The output is a plan: a per-client per-day matrix
  of quantities plus day totals.

STRATEGIES:
  even       Every remaining day gets an equal share.
  frontload  A fixed decreasing day-weight profile pushes work early in
             the week to build buffer for late-week surprises.
  risk       Clients with carry-in and worse status get proportionally
             more of each day's budget.
  capacity   Like even/risk but each day's total is capped by an
             operator-entered limit; overflow stays unallocated.

GUARANTEES:
  - A client is never planned for more than it owes:
    sum over days of slots[c][d] <= remaining[c].
  - Under capacity mode a day is never planned past its cap.
  - No client absorbs an entire day: per-client-per-day grants are capped
    at ceil(remaining * 0.4).
  - Allocations land on multiples of the rounding step (default 10),
    except for final remainder cleanup at the end of the sweep.

  Infeasible inputs (caps too low to cover the work) are not an error:
  the plan under-covers and the residue stays visible in Unallocated.
*/
package allocation

import (
	"fmt"
	"math"

	"github.com/MedSync-Corp/client-deliverables-tracker/deliverables"
)

// =============================================================================
// STRATEGY AND CONFIG
// =============================================================================

type Strategy string

const (
	StrategyEven      Strategy = "even"
	StrategyRisk      Strategy = "risk"
	StrategyFrontload Strategy = "frontload"
	StrategyCapacity  Strategy = "capacity"
)

// ParseStrategy validates a strategy selector from the outside world.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyEven, StrategyRisk, StrategyFrontload, StrategyCapacity:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown allocation strategy %q", s)
}

// frontloadProfile front-loads early days of the week.
var frontloadProfile = []float64{0.28, 0.24, 0.20, 0.16, 0.12}

// Config tunes the planner. DefaultConfig gives the standard knobs.
type Config struct {
	Strategy Strategy

	// DayCapacity caps each day's planned total; only consulted under
	// StrategyCapacity, and only when its length matches the day list.
	DayCapacity []int

	StatusWeights map[deliverables.Status]float64
	CarryInBoost  float64
	VIPBoost      float64

	// Step is the rounding granularity of individual grants.
	Step int

	// PerClientDayCeiling bounds one client's share of a single day as a
	// fraction of its weekly remaining.
	PerClientDayCeiling float64

	// Passes is how many redistribution rounds each day gets, so budget
	// left behind by ceiling-capped clients flows to others.
	Passes int
}

func DefaultConfig(strategy Strategy) Config {
	return Config{
		Strategy: strategy,
		StatusWeights: map[deliverables.Status]float64{
			deliverables.StatusBehind:  1.3,
			deliverables.StatusAtRisk:  1.0,
			deliverables.StatusOnTrack: 0.8,
		},
		CarryInBoost:        0.25,
		VIPBoost:            0.2,
		Step:                10,
		PerClientDayCeiling: 0.4,
		Passes:              3,
	}
}

// =============================================================================
// INPUT AND OUTPUT
// =============================================================================

// Demand is one client's planning input: how much it still owes this week
// plus the risk metadata the weighted strategies consume.
type Demand struct {
	ID        deliverables.ClientID
	Name      string
	Remaining int

	Status     deliverables.Status
	HasCarryIn bool
	VIP        bool
	Complexity float64 // work difficulty divisor; 0 means the default 1.0
}

// Plan is the planner output. Slots is indexed [client][day], aligned
// with Demands and Days.
type Plan struct {
	Days    []deliverables.BusinessDate
	Demands []Demand

	Slots     [][]int
	DayTotals []int

	// Unallocated is each client's residue the plan could not place
	// (ceiling- or capacity-bound). The client's true remaining is
	// untouched; the plan simply under-covers it.
	Unallocated []int
}

// PlannedFor returns the weekly total planned for one client row.
func (p *Plan) PlannedFor(i int) int {
	total := 0
	for _, v := range p.Slots[i] {
		total += v
	}
	return total
}

// TotalPlanned is the grand total across all clients and days.
func (p *Plan) TotalPlanned() int {
	total := 0
	for _, t := range p.DayTotals {
		total += t
	}
	return total
}

// TotalUnallocated is the visible coverage gap of the plan.
func (p *Plan) TotalUnallocated() int {
	total := 0
	for _, u := range p.Unallocated {
		total += u
	}
	return total
}

// =============================================================================
// PLANNER
// =============================================================================

// Build computes an allocation plan. It never mutates its inputs.
func Build(demands []Demand, days []deliverables.BusinessDate, cfg Config) *Plan {
	nDays := len(days)
	plan := &Plan{
		Days:        days,
		Demands:     demands,
		Slots:       make([][]int, len(demands)),
		DayTotals:   make([]int, nDays),
		Unallocated: make([]int, len(demands)),
	}
	for i := range plan.Slots {
		plan.Slots[i] = make([]int, nDays)
	}
	if nDays == 0 || len(demands) == 0 {
		return plan
	}

	if cfg.Step <= 0 {
		cfg.Step = 10
	}
	if cfg.Passes <= 0 {
		cfg.Passes = 3
	}
	if cfg.PerClientDayCeiling <= 0 {
		cfg.PerClientDayCeiling = 0.4
	}

	dayWeights := dayWeightsFor(cfg.Strategy, nDays)
	clientWeights := clientWeightsFor(demands, cfg)

	remaining := make([]int, len(demands))
	totalRemaining := 0
	for i, d := range demands {
		if d.Remaining > 0 {
			remaining[i] = d.Remaining
		}
		totalRemaining += remaining[i]
	}

	// No client absorbs a whole day.
	perClientDayCap := make([]int, len(demands))
	for i := range demands {
		perClientDayCap[i] = int(math.Ceil(float64(remaining[i]) * cfg.PerClientDayCeiling))
	}

	var caps []int
	if cfg.Strategy == StrategyCapacity && len(cfg.DayCapacity) == nDays {
		caps = append([]int(nil), cfg.DayCapacity...)
	}

	desired := make([]int, nDays)
	for d := range days {
		desired[d] = int(math.Round(dayWeights[d] * float64(totalRemaining)))
		if caps != nil && desired[d] > caps[d] {
			desired[d] = caps[d]
		}
	}

	for d := 0; d < nDays; d++ {
		dayLeft := desired[d]
		for pass := 0; pass < cfg.Passes && dayLeft > 0; pass++ {
			sumW := 0.0
			for i := range demands {
				if remaining[i] > 0 {
					sumW += clientWeights[i]
				}
			}
			if sumW == 0 {
				break
			}
			for i := range demands {
				if dayLeft <= 0 {
					break
				}
				if remaining[i] <= 0 {
					continue
				}
				ceilingRoom := perClientDayCap[i] - plan.Slots[i][d]
				want := int(math.Ceil(clientWeights[i] / sumW * float64(dayLeft)))
				want = minInt(want, remaining[i], ceilingRoom)
				if want <= 0 {
					continue
				}
				rounded := roundStep(want, cfg.Step)
				if rounded < cfg.Step {
					rounded = cfg.Step
				}
				give := minInt(rounded, remaining[i], ceilingRoom, dayLeft)
				if give <= 0 {
					continue
				}
				plan.Slots[i][d] += give
				remaining[i] -= give
				dayLeft -= give
			}
		}
	}

	// Sweep residue into whatever room is left, greedily by day. Grants
	// stay on step multiples until the very end, where sub-step remainders
	// are placed exactly.
	for i := range demands {
		for d := 0; d < nDays && remaining[i] > 0; d++ {
			room := remaining[i]
			if caps != nil {
				room = minInt(room, caps[d]-daySum(plan.Slots, d))
			}
			room = minInt(room, perClientDayCap[i]-plan.Slots[i][d])
			if room <= 0 {
				continue
			}
			give := (room / cfg.Step) * cfg.Step
			if give == 0 && room == remaining[i] {
				give = room // final remainder cleanup
			}
			if give <= 0 {
				continue
			}
			plan.Slots[i][d] += give
			remaining[i] -= give
		}
		plan.Unallocated[i] = remaining[i]
	}

	for d := 0; d < nDays; d++ {
		plan.DayTotals[d] = daySum(plan.Slots, d)
	}
	return plan
}

func dayWeightsFor(strategy Strategy, nDays int) []float64 {
	if strategy == StrategyFrontload {
		weights := make([]float64, nDays)
		for d := range weights {
			if d < len(frontloadProfile) {
				weights[d] = frontloadProfile[d]
			} else {
				weights[d] = frontloadProfile[len(frontloadProfile)-1]
			}
		}
		return weights
	}
	weights := make([]float64, nDays)
	for d := range weights {
		weights[d] = 1 / float64(nDays)
	}
	return weights
}

func clientWeightsFor(demands []Demand, cfg Config) []float64 {
	weights := make([]float64, len(demands))
	for i, d := range demands {
		sw, ok := cfg.StatusWeights[d.Status]
		if !ok {
			sw = 1.0
		}
		extra := 0.0
		if d.HasCarryIn {
			extra += cfg.CarryInBoost
		}
		if d.VIP {
			extra += cfg.VIPBoost
		}
		complexity := d.Complexity
		if complexity <= 0 {
			complexity = 1.0
		}
		w := (sw + extra) / complexity
		if w < 0.01 {
			w = 0.01
		}
		weights[i] = w
	}
	return weights
}

func daySum(slots [][]int, d int) int {
	total := 0
	for i := range slots {
		total += slots[i][d]
	}
	return total
}

func roundStep(n, step int) int {
	return int(math.Round(float64(n)/float64(step))) * step
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
