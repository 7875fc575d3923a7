package staffing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BaselineMode selects which SPH statistic the capacity planner uses.
type BaselineMode string

const (
	// BaselineBase uses the trailing-7-day average.
	BaselineBase BaselineMode = "base"
	// BaselineConservative uses the 30-day 25th percentile: plan as if
	// the team has a bad stretch.
	BaselineConservative BaselineMode = "conservative"
	// BaselineOptimistic uses the 7-day 90th percentile.
	BaselineOptimistic BaselineMode = "optimistic"
)

func ParseBaselineMode(s string) (BaselineMode, error) {
	switch BaselineMode(s) {
	case BaselineBase, BaselineConservative, BaselineOptimistic:
		return BaselineMode(s), nil
	case "":
		return BaselineBase, nil
	}
	return "", fmt.Errorf("unknown baseline mode %q", s)
}

// BaselineSPH picks the planning SPH for a mode, falling back through
// the available statistics when the preferred one is null.
func BaselineSPH(m Metrics, mode BaselineMode) decimal.Decimal {
	chain := []decimal.NullDecimal{m.L7Avg, m.L30Avg}
	switch mode {
	case BaselineConservative:
		chain = append([]decimal.NullDecimal{m.L30P25}, chain...)
	case BaselineOptimistic:
		chain = append([]decimal.NullDecimal{m.L7P90}, chain...)
	}
	for _, v := range chain {
		if v.Valid {
			return v.Decimal
		}
	}
	return decimal.Zero
}

// PlanInput are the capacity planner knobs. Zero-valued percentage
// fields take their defaults (85% utilization, 0% automation); a zero
// HoursPerStaff defaults to the standard day.
type PlanInput struct {
	Demand         int          `json:"demand"`
	WorkingDays    int          `json:"working_days"`
	HoursPerStaff  int          `json:"hours_per_staff"`
	UtilizationPct int          `json:"utilization_pct"`
	AutomationPct  int          `json:"automation_pct"`
	Mode           BaselineMode `json:"mode"`
}

// PlanResult is what the planner reports back alongside the headcount:
// the assumptions that produced it.
type PlanResult struct {
	StaffNeeded  int             `json:"staff_needed"`
	BaselineSPH  decimal.Decimal `json:"baseline_sph"`
	EffectiveSPH decimal.Decimal `json:"effective_sph"`
	WorkingDays  int             `json:"working_days"`
}

// PlanStaff answers how many staff cover the demand within the working
// days, at the baseline SPH discounted by utilization and boosted by
// automation. A zero effective rate yields zero staff, not an error;
// callers surface the missing-baseline condition themselves.
func PlanStaff(in PlanInput, m Metrics) PlanResult {
	days := in.WorkingDays
	if days < 1 {
		days = 1
	}
	hours := in.HoursPerStaff
	if hours <= 0 {
		hours = HoursPerDay
	}
	util := clampPct(in.UtilizationPct, 85)
	auto := clampPct(in.AutomationPct, 0)

	base := BaselineSPH(m, in.Mode)
	eff := base.
		Mul(decimal.NewFromInt(int64(util))).Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(int64(100 + auto))).Div(decimal.NewFromInt(100))

	res := PlanResult{BaselineSPH: base, EffectiveSPH: eff, WorkingDays: days}

	denom := eff.Mul(decimal.NewFromInt(int64(hours * days)))
	if denom.IsPositive() && in.Demand > 0 {
		res.StaffNeeded = int(decimal.NewFromInt(int64(in.Demand)).
			Div(denom).Ceil().IntPart())
	}
	return res
}

func clampPct(v, def int) int {
	if v == 0 {
		return def
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
