/*
handlers.go - HTTP API handlers for the deliverables tracker

PURPOSE:
  Exposes the weekly commitment engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Dashboard:
    GET    /api/dashboard                     Weekly rows + KPI totals

  Clients:
    GET    /api/clients                       List all clients
    POST   /api/clients                       Create client
    GET    /api/clients/{id}                  Get client
    PUT    /api/clients/{id}                  Update client
    DELETE /api/clients/{id}                  Delete client and history
    POST   /api/clients/{id}/pause            Pause weekly accounting
    POST   /api/clients/{id}/resume           Resume weekly accounting
    POST   /api/clients/{id}/complete         Mark contract finished
    GET    /api/clients/{id}/week             One-week detail view

  Targets:
    GET    /api/clients/{id}/baselines        Target history
    POST   /api/clients/{id}/baselines        Append a baseline version
    PUT    /api/clients/{id}/overrides/{week} Upsert a one-week override
    DELETE /api/clients/{id}/overrides/{week} Remove an override

  Completions:
    GET    /api/clients/{id}/completions      Completion log
    POST   /api/clients/{id}/completions      Log completed (or corrected) work

  Planning:
    POST   /api/plan                          Allocation plan (JSON)
    POST   /api/plan/csv                      Allocation plan (CSV download)

  Staffing:
    GET    /api/staffing/series               Daily SPH series + metrics
    GET    /api/staffing/snapshots            Headcount history
    POST   /api/staffing/snapshots            Upsert headcount for a date
    POST   /api/staffing/plan                 Capacity planner

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Client not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MedSync-Corp/client-deliverables-tracker/allocation"
	"github.com/MedSync-Corp/client-deliverables-tracker/deliverables"
	"github.com/MedSync-Corp/client-deliverables-tracker/staffing"
	"github.com/MedSync-Corp/client-deliverables-tracker/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *deliverables.Engine

	// Now is injectable so tests can pin the anchor week.
	Now func() deliverables.BusinessDate
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:  store,
		Engine: deliverables.NewEngine(),
		Now:    deliverables.Today,
	}
}

// =============================================================================
// DASHBOARD
// =============================================================================

// Dashboard returns the weekly accounting rows and KPI totals.
// GET /api/dashboard?week_offset=N&started_only=true
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "week_offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week_offset", err)
		return
	}
	startedOnly := r.URL.Query().Get("started_only") == "true"

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	today := h.Now()
	rows := h.Engine.WeekResults(snap, today, offset, startedOnly)
	totals := h.Engine.Totals(snap, rows)
	weekStart := deliverables.AddWeeks(deliverables.MondayOf(today), offset)

	resp := DashboardResponse{
		WeekStart:   weekStart.String(),
		WeekEnd:     deliverables.FridayOf(weekStart).String(),
		WeekOffset:  offset,
		DaysLeft:    deliverables.DaysLeftInWeek(weekStart, today),
		StartedOnly: startedOnly,
		Rows:        make([]WeekRowDTO, 0, len(rows)),
		Totals: TotalsDTO{
			Required:  totals.Required,
			Completed: totals.Completed,
			Remaining: totals.Remaining,
			Lifetime:  totals.Lifetime,
		},
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, toWeekRowDTO(row))
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients with lifecycle and lifetime info.
// GET /api/clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	today := h.Now()
	dtos := make([]ClientDTO, 0, len(snap.Clients))
	for _, c := range snap.Clients {
		dtos = append(dtos, toClientDTO(c,
			deliverables.IsStarted(snap, c.ID, today),
			deliverables.LifetimeTotal(snap.Completions, c.ID)))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateClient creates a client. ID is generated when omitted.
// POST /api/clients
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req SaveClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	c := deliverables.Client{
		ID:            deliverables.ClientID(req.ID),
		Name:          req.Name,
		TotalQuantity: req.TotalQuantity,
		GroupTag:      req.GroupTag,
		Paused:        req.Paused,
		Completed:     req.Completed,
	}
	if err := h.Store.SaveClient(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientDTO(c, false, 0))
}

// GetClient returns one client.
// GET /api/clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	c, ok := snap.Client(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(c,
		deliverables.IsStarted(snap, id, h.Now()),
		deliverables.LifetimeTotal(snap.Completions, id)))
}

// UpdateClient replaces a client's editable fields.
// PUT /api/clients/{id}
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))

	existing, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}

	var req SaveClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	c := deliverables.Client{
		ID:            id,
		Name:          req.Name,
		TotalQuantity: req.TotalQuantity,
		GroupTag:      req.GroupTag,
		Paused:        req.Paused,
		Completed:     req.Completed,
	}
	if err := h.Store.SaveClient(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(c, false, 0))
}

// DeleteClient removes a client and its entire history.
// DELETE /api/clients/{id}
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteClient(r.Context(), id); err != nil {
		if deliverables.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete client", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PauseClient, ResumeClient, and CompleteClient flip lifecycle flags.
// History is always preserved.
func (h *Handler) PauseClient(w http.ResponseWriter, r *http.Request) {
	h.setLifecycle(w, r, func(c *deliverables.Client) { c.Paused = true })
}

func (h *Handler) ResumeClient(w http.ResponseWriter, r *http.Request) {
	h.setLifecycle(w, r, func(c *deliverables.Client) { c.Paused = false })
}

func (h *Handler) CompleteClient(w http.ResponseWriter, r *http.Request) {
	h.setLifecycle(w, r, func(c *deliverables.Client) { c.Completed = true })
}

func (h *Handler) setLifecycle(w http.ResponseWriter, r *http.Request, mutate func(*deliverables.Client)) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))

	c, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}

	mutate(c)
	if err := h.Store.SaveClient(r.Context(), *c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(*c, false, 0))
}

// ClientWeek returns the one-client drill-down for a week.
// GET /api/clients/{id}/week?week_offset=N
func (h *Handler) ClientWeek(w http.ResponseWriter, r *http.Request) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))
	offset, err := queryInt(r, "week_offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week_offset", err)
		return
	}

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}
	c, ok := snap.Client(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}

	today := h.Now()
	res := h.Engine.WeekResult(snap, id, today, offset)

	resp := ClientWeekResponse{
		Client: toClientDTO(c,
			deliverables.IsStarted(snap, id, today),
			deliverables.LifetimeTotal(snap.Completions, id)),
		Week:       toWeekRowDTO(res),
		WeekStart:  res.WeekStart.String(),
		WeekOffset: offset,
	}
	for _, b := range snap.Baselines {
		if b.ClientID == id {
			resp.Baselines = append(resp.Baselines, BaselineDTO{
				ClientID:       string(id),
				WeeklyQuantity: b.WeeklyQuantity,
				EffectiveFrom:  b.EffectiveFrom.String(),
			})
		}
	}
	for _, e := range snap.Completions {
		if e.ClientID == id {
			resp.Completions = append(resp.Completions, CompletionDTO{
				ClientID:   string(id),
				OccurredOn: e.OccurredOn.String(),
				Quantity:   e.Quantity,
				Note:       e.Note,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// BASELINE AND OVERRIDE HANDLERS
// =============================================================================

// ListBaselines returns a client's target history.
// GET /api/clients/{id}/baselines
func (h *Handler) ListBaselines(w http.ResponseWriter, r *http.Request) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))
	list, err := h.Store.ListBaselines(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list baselines", err)
		return
	}
	dtos := make([]BaselineDTO, 0, len(list))
	for _, b := range list {
		dtos = append(dtos, BaselineDTO{
			ClientID:       string(b.ClientID),
			WeeklyQuantity: b.WeeklyQuantity,
			EffectiveFrom:  b.EffectiveFrom.String(),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBaseline appends a baseline version. The effective date is
// normalized to the Monday of its week so targets always change on week
// boundaries.
// POST /api/clients/{id}/baselines
func (h *Handler) CreateBaseline(w http.ResponseWriter, r *http.Request) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))

	var req CreateBaselineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.WeeklyQuantity < 0 {
		writeError(w, http.StatusBadRequest, "weekly_quantity must be >= 0", deliverables.ErrInvalidQuantity)
		return
	}
	eff, err := deliverables.ParseDate(req.EffectiveFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_from (use YYYY-MM-DD)", err)
		return
	}

	b := deliverables.BaselineVersion{
		ClientID:       id,
		WeeklyQuantity: req.WeeklyQuantity,
		EffectiveFrom:  deliverables.MondayOf(eff),
	}
	if err := h.Store.SaveBaseline(r.Context(), b); err != nil {
		if deliverables.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save baseline", err)
		return
	}
	writeJSON(w, http.StatusCreated, BaselineDTO{
		ClientID:       string(id),
		WeeklyQuantity: b.WeeklyQuantity,
		EffectiveFrom:  b.EffectiveFrom.String(),
	})
}

// SaveOverride upserts the one-week target replacement.
// PUT /api/clients/{id}/overrides/{week}
func (h *Handler) SaveOverride(w http.ResponseWriter, r *http.Request) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))
	week, err := deliverables.ParseDate(chi.URLParam(r, "week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week (use YYYY-MM-DD)", err)
		return
	}

	var req SaveOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.WeeklyQuantity < 0 {
		writeError(w, http.StatusBadRequest, "weekly_quantity must be >= 0", deliverables.ErrInvalidQuantity)
		return
	}

	o := deliverables.Override{
		ClientID:       id,
		WeekStart:      deliverables.MondayOf(week),
		WeeklyQuantity: req.WeeklyQuantity,
		Note:           req.Note,
	}
	if err := h.Store.SaveOverride(r.Context(), o); err != nil {
		if deliverables.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save override", err)
		return
	}
	writeJSON(w, http.StatusOK, OverrideDTO{
		ClientID:       string(id),
		WeekStart:      o.WeekStart.String(),
		WeeklyQuantity: o.WeeklyQuantity,
		Note:           o.Note,
	})
}

// DeleteOverride removes an override, restoring the baseline target.
// DELETE /api/clients/{id}/overrides/{week}
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))
	week, err := deliverables.ParseDate(chi.URLParam(r, "week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week (use YYYY-MM-DD)", err)
		return
	}
	if err := h.Store.DeleteOverride(r.Context(), id, deliverables.MondayOf(week)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete override", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMPLETION HANDLERS
// =============================================================================

// ListCompletions returns a client's completion log.
// GET /api/clients/{id}/completions
func (h *Handler) ListCompletions(w http.ResponseWriter, r *http.Request) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))
	events, err := h.Store.ListCompletions(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list completions", err)
		return
	}
	dtos := make([]CompletionDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, CompletionDTO{
			ClientID:   string(e.ClientID),
			OccurredOn: e.OccurredOn.String(),
			Quantity:   e.Quantity,
			Note:       e.Note,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LogCompletion appends a signed completion event. Corrections are new
// negative entries; there is no edit or delete.
// POST /api/clients/{id}/completions
func (h *Handler) LogCompletion(w http.ResponseWriter, r *http.Request) {
	id := deliverables.ClientID(chi.URLParam(r, "id"))

	var req LogCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Quantity == 0 {
		writeError(w, http.StatusBadRequest, "quantity must be non-zero", deliverables.ErrInvalidQuantity)
		return
	}
	on, err := deliverables.ParseDate(req.OccurredOn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid occurred_on (use YYYY-MM-DD)", err)
		return
	}
	if on.After(h.Now()) {
		writeError(w, http.StatusBadRequest, "occurred_on cannot be in the future", deliverables.ErrInvalidDate)
		return
	}

	e := deliverables.CompletionEvent{
		ClientID:   id,
		OccurredOn: on,
		Quantity:   req.Quantity,
		Note:       req.Note,
	}
	if err := h.Store.AppendCompletion(r.Context(), e); err != nil {
		if deliverables.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to log completion", err)
		return
	}
	writeJSON(w, http.StatusCreated, CompletionDTO{
		ClientID:   string(id),
		OccurredOn: e.OccurredOn.String(),
		Quantity:   e.Quantity,
		Note:       e.Note,
	})
}

// =============================================================================
// ALLOCATION PLAN HANDLERS
// =============================================================================

// Plan runs the allocation planner over the current week's remaining
// work and the unelapsed weekdays.
// POST /api/plan
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	strategy, plan, err := h.buildPlan(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid plan request", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(strategy, plan))
}

// PlanCSV renders the same plan as a CSV download.
// POST /api/plan/csv
func (h *Handler) PlanCSV(w http.ResponseWriter, r *http.Request) {
	_, plan, err := h.buildPlan(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid plan request", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="allocation-plan.csv"`)
	if err := allocation.WriteCSV(w, plan); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write CSV", err)
	}
}

func (h *Handler) buildPlan(r *http.Request) (allocation.Strategy, *allocation.Plan, error) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", nil, err
	}
	strategy, err := allocation.ParseStrategy(req.Strategy)
	if err != nil {
		return "", nil, err
	}

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		return "", nil, err
	}

	today := h.Now()
	rows := h.Engine.WeekResults(snap, today, 0, true)
	vip := make(map[deliverables.ClientID]bool, len(req.VIPClients))
	for _, id := range req.VIPClients {
		vip[deliverables.ClientID(id)] = true
	}

	demands := make([]allocation.Demand, 0, len(rows))
	for _, row := range rows {
		demands = append(demands, allocation.Demand{
			ID:         row.ClientID,
			Name:       row.Name,
			Remaining:  row.Remaining,
			Status:     row.Status,
			HasCarryIn: row.CarryIn > 0,
			VIP:        vip[row.ClientID],
		})
	}

	cfg := allocation.DefaultConfig(strategy)
	cfg.DayCapacity = req.DayCapacity
	days := deliverables.RemainingWeekdays(deliverables.MondayOf(today), today)
	return strategy, allocation.Build(demands, days, cfg), nil
}

// =============================================================================
// STAFFING HANDLERS
// =============================================================================

// StaffingSeries returns the trailing daily SPH table plus rolling
// metrics.
// GET /api/staffing/series?days=30
func (h *Handler) StaffingSeries(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 30)
	if err != nil || days < 1 || days > 90 {
		writeError(w, http.StatusBadRequest, "days must be between 1 and 90", err)
		return
	}

	series, metrics, err := h.staffingSeries(r, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build series", err)
		return
	}

	resp := StaffingSeriesResponse{Metrics: metrics, Days: make([]StaffingDayDTO, 0, series.Len())}
	for i := range series.Days {
		resp.Days = append(resp.Days, StaffingDayDTO{
			Date:      series.Days[i].String(),
			Completed: series.Completed[i],
			Staff:     series.Staff[i],
			Hours:     series.Hours[i],
			SPH:       series.SPH[i],
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListStaffingSnapshots returns the headcount history up to today.
// GET /api/staffing/snapshots
func (h *Handler) ListStaffingSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.Store.ListStaffingSnapshots(r.Context(), h.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}
	dtos := make([]StaffingSnapshotDTO, 0, len(snaps))
	for _, s := range snaps {
		dtos = append(dtos, StaffingSnapshotDTO{
			EffectiveDate: s.EffectiveDate.String(),
			StaffCount:    s.StaffCount,
			Note:          s.Note,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveStaffingSnapshot upserts the headcount for an effective date.
// POST /api/staffing/snapshots
func (h *Handler) SaveStaffingSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SaveStaffingSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.StaffCount < 0 {
		writeError(w, http.StatusBadRequest, "staff_count must be >= 0", deliverables.ErrInvalidQuantity)
		return
	}
	eff, err := deliverables.ParseDate(req.EffectiveDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_date (use YYYY-MM-DD)", err)
		return
	}

	snap := staffing.Snapshot{EffectiveDate: eff, StaffCount: req.StaffCount, Note: req.Note}
	if err := h.Store.SaveStaffingSnapshot(r.Context(), snap); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save snapshot", err)
		return
	}
	writeJSON(w, http.StatusCreated, StaffingSnapshotDTO{
		EffectiveDate: snap.EffectiveDate.String(),
		StaffCount:    snap.StaffCount,
		Note:          snap.Note,
	})
}

// StaffingPlan answers "how many staff for N summaries".
// POST /api/staffing/plan
func (h *Handler) StaffingPlan(w http.ResponseWriter, r *http.Request) {
	var req StaffingPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	mode, err := staffing.ParseBaselineMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid mode", err)
		return
	}

	_, metrics, err := h.staffingSeries(r, 30)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build series", err)
		return
	}

	res := staffing.PlanStaff(staffing.PlanInput{
		Demand:         req.Demand,
		WorkingDays:    req.WorkingDays,
		HoursPerStaff:  req.HoursPerStaff,
		UtilizationPct: req.UtilizationPct,
		AutomationPct:  req.AutomationPct,
		Mode:           mode,
	}, metrics)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) staffingSeries(r *http.Request, days int) (*staffing.DailySeries, staffing.Metrics, error) {
	today := h.Now()

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		return nil, staffing.Metrics{}, err
	}
	snaps, err := h.Store.ListStaffingSnapshots(r.Context(), today)
	if err != nil {
		return nil, staffing.Metrics{}, err
	}

	byDay := staffing.BucketCompletionsByDay(snap.Completions)
	series := staffing.BuildDailySeries(byDay, snaps, today, days)
	return series, staffing.ComputeMetrics(series), nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset wipes all data. Dev only.
// POST /api/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
