package staffing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Metrics summarizes the SPH series for display and for the capacity
// planner. Null fields mean no staffed days in the window.
type Metrics struct {
	Yesterday decimal.NullDecimal `json:"yesterday"`
	L7Avg     decimal.NullDecimal `json:"l7_avg"`
	L7P90     decimal.NullDecimal `json:"l7_p90"`
	L30Avg    decimal.NullDecimal `json:"l30_avg"`
	L30P25    decimal.NullDecimal `json:"l30_p25"`
}

// ComputeMetrics derives the rolling SPH statistics from a daily series.
// "Yesterday" is the second-to-last day of the series.
func ComputeMetrics(series *DailySeries) Metrics {
	var m Metrics
	n := series.Len()
	if n >= 2 {
		m.Yesterday = series.SPH[n-2]
	}

	l7 := validSPH(series.SPH, 7)
	l30 := validSPH(series.SPH, n)
	m.L7Avg = meanOf(l7)
	m.L30Avg = meanOf(l30)
	m.L7P90 = quantileOf(l7, 0.90)
	m.L30P25 = quantileOf(l30, 0.25)
	return m
}

// validSPH takes the trailing window and drops null days.
func validSPH(sph []decimal.NullDecimal, window int) []decimal.Decimal {
	start := len(sph) - window
	if start < 0 {
		start = 0
	}
	out := make([]decimal.Decimal, 0, window)
	for _, v := range sph[start:] {
		if v.Valid {
			out = append(out, v.Decimal)
		}
	}
	return out
}

func meanOf(vals []decimal.Decimal) decimal.NullDecimal {
	if len(vals) == 0 {
		return decimal.NullDecimal{}
	}
	sum := decimal.Zero
	for _, v := range vals {
		sum = sum.Add(v)
	}
	return decimal.NullDecimal{
		Valid:   true,
		Decimal: sum.Div(decimal.NewFromInt(int64(len(vals)))),
	}
}

// quantileOf is the linear-interpolation quantile on a sorted copy.
func quantileOf(vals []decimal.Decimal, q float64) decimal.NullDecimal {
	if len(vals) == 0 {
		return decimal.NullDecimal{}
	}
	s := append([]decimal.Decimal(nil), vals...)
	sort.Slice(s, func(i, j int) bool { return s[i].LessThan(s[j]) })

	pos := float64(len(s)-1) * q
	base := int(pos)
	rest := pos - float64(base)
	upper := base + 1
	if upper >= len(s) {
		upper = len(s) - 1
	}
	v := s[base].Add(s[upper].Sub(s[base]).Mul(decimal.NewFromFloat(rest)))
	return decimal.NullDecimal{Valid: true, Decimal: v}
}
