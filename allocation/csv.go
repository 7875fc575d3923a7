package allocation

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/MedSync-Corp/client-deliverables-tracker/deliverables"
)

// DayLabel formats a plan day as it appears in exports, e.g. "Mon 09/01".
func DayLabel(d deliverables.BusinessDate) string {
	return d.Time.Format("Mon 01/02")
}

// WriteCSV renders a plan as CSV: one row per client with its per-day
// quantities and weekly total, plus a trailing day-totals row.
func WriteCSV(w io.Writer, plan *Plan) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(plan.Days)+2)
	header = append(header, "Client")
	for _, d := range plan.Days {
		header = append(header, DayLabel(d))
	}
	header = append(header, "Weekly Total")
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, demand := range plan.Demands {
		row := make([]string, 0, len(header))
		row = append(row, demand.Name)
		for _, v := range plan.Slots[i] {
			row = append(row, strconv.Itoa(v))
		}
		row = append(row, strconv.Itoa(plan.PlannedFor(i)))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	totals := make([]string, 0, len(header))
	totals = append(totals, "Totals")
	for _, t := range plan.DayTotals {
		totals = append(totals, strconv.Itoa(t))
	}
	totals = append(totals, strconv.Itoa(plan.TotalPlanned()))
	if err := cw.Write(totals); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
