/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for demos. Each scenario creates clients, baselines, completions,
	and staffing snapshots that demonstrate specific engine behaviors.

AVAILABLE SCENARIOS:

	steady-book:   Three clients pacing normally, one with an override
	carry-crisis:  A client two weeks behind with compounding carry-in
	ramp-up:       New client starting next week plus a paused client

NOTE:

	Scenarios reset the database. Only use in development/demo
	environments.

SEE ALSO:
  - server.go: Route wiring (/api/scenarios)
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MedSync-Corp/client-deliverables-tracker/deliverables"
	"github.com/MedSync-Corp/client-deliverables-tracker/staffing"
)

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "steady-book",
		Name:        "Steady Book",
		Description: "Three clients pacing normally; one week softened by an override",
	},
	{
		ID:          "carry-crisis",
		Name:        "Carry-Forward Crisis",
		Description: "A client two weeks behind with compounding carry-in",
	},
	{
		ID:          "ramp-up",
		Name:        "Ramp-Up",
		Description: "New client starting next week, plus a paused client",
	},
}

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the database and loads a demo scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "steady-book":
		err = h.loadSteadyBookScenario(ctx)
	case "carry-crisis":
		err = h.loadCarryCrisisScenario(ctx)
	case "ramp-up":
		err = h.loadRampUpScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// loadSteadyBookScenario sets up three clients pacing through the current
// week, with one override softening a holiday week.
func (h *Handler) loadSteadyBookScenario(ctx context.Context) error {
	today := h.Now()
	thisMonday := deliverables.MondayOf(today)
	lastMonday := deliverables.PriorMonday(thisMonday)

	clients := []deliverables.Client{
		{ID: "acme", Name: "Acme Health", TotalQuantity: 5000, GroupTag: "northeast"},
		{ID: "beta", Name: "Beta Medical", TotalQuantity: 3000, GroupTag: "northeast"},
		{ID: "cedar", Name: "Cedar Clinic", TotalQuantity: 1200, GroupTag: "west"},
	}
	for _, c := range clients {
		if err := h.Store.SaveClient(ctx, c); err != nil {
			return err
		}
	}

	baselines := []deliverables.BaselineVersion{
		{ClientID: "acme", WeeklyQuantity: 200, EffectiveFrom: lastMonday},
		{ClientID: "beta", WeeklyQuantity: 120, EffectiveFrom: lastMonday},
		{ClientID: "cedar", WeeklyQuantity: 60, EffectiveFrom: lastMonday},
	}
	for _, b := range baselines {
		if err := h.Store.SaveBaseline(ctx, b); err != nil {
			return err
		}
	}

	// Holiday-shortened week for Cedar.
	if err := h.Store.SaveOverride(ctx, deliverables.Override{
		ClientID: "cedar", WeekStart: thisMonday, WeeklyQuantity: 40, Note: "holiday week",
	}); err != nil {
		return err
	}

	// Last week fully covered; this week partially done.
	completions := []deliverables.CompletionEvent{
		{ClientID: "acme", OccurredOn: lastMonday.AddDays(1), Quantity: 100},
		{ClientID: "acme", OccurredOn: lastMonday.AddDays(3), Quantity: 100},
		{ClientID: "beta", OccurredOn: lastMonday.AddDays(2), Quantity: 120},
		{ClientID: "cedar", OccurredOn: lastMonday.AddDays(4), Quantity: 60},
		{ClientID: "acme", OccurredOn: thisMonday, Quantity: 80},
		{ClientID: "beta", OccurredOn: thisMonday, Quantity: 40},
	}
	for _, e := range completions {
		if err := h.Store.AppendCompletion(ctx, e); err != nil {
			return err
		}
	}

	return h.Store.SaveStaffingSnapshot(ctx, staffing.Snapshot{
		EffectiveDate: lastMonday, StaffCount: 6, Note: "demo team",
	})
}

// loadCarryCrisisScenario sets up a client that has missed two full weeks
// so the compounding carry-in is visible on the dashboard.
func (h *Handler) loadCarryCrisisScenario(ctx context.Context) error {
	today := h.Now()
	thisMonday := deliverables.MondayOf(today)
	start := deliverables.AddWeeks(thisMonday, -2)

	if err := h.Store.SaveClient(ctx, deliverables.Client{
		ID: "delta", Name: "Delta Care Group", TotalQuantity: 8000, GroupTag: "south",
	}); err != nil {
		return err
	}
	if err := h.Store.SaveBaseline(ctx, deliverables.BaselineVersion{
		ClientID: "delta", WeeklyQuantity: 150, EffectiveFrom: start,
	}); err != nil {
		return err
	}
	// 50 of 150 done two weeks ago, nothing since: carry compounds.
	return h.Store.AppendCompletion(ctx, deliverables.CompletionEvent{
		ClientID: "delta", OccurredOn: start.AddDays(2), Quantity: 50,
	})
}

// loadRampUpScenario sets up a client whose baseline only takes effect
// next week, alongside a paused client with history.
func (h *Handler) loadRampUpScenario(ctx context.Context) error {
	today := h.Now()
	thisMonday := deliverables.MondayOf(today)
	nextMonday := deliverables.AddWeeks(thisMonday, 1)
	lastMonday := deliverables.PriorMonday(thisMonday)

	if err := h.Store.SaveClient(ctx, deliverables.Client{
		ID: "echo", Name: "Echo Partners", TotalQuantity: 2000, GroupTag: "midwest",
	}); err != nil {
		return err
	}
	if err := h.Store.SaveBaseline(ctx, deliverables.BaselineVersion{
		ClientID: "echo", WeeklyQuantity: 100, EffectiveFrom: nextMonday,
	}); err != nil {
		return err
	}

	if err := h.Store.SaveClient(ctx, deliverables.Client{
		ID: "fargo", Name: "Fargo Wellness", TotalQuantity: 900, GroupTag: "midwest", Paused: true,
	}); err != nil {
		return err
	}
	if err := h.Store.SaveBaseline(ctx, deliverables.BaselineVersion{
		ClientID: "fargo", WeeklyQuantity: 40, EffectiveFrom: lastMonday,
	}); err != nil {
		return err
	}
	return h.Store.AppendCompletion(ctx, deliverables.CompletionEvent{
		ClientID: "fargo", OccurredOn: lastMonday.AddDays(1), Quantity: 40,
	})
}
