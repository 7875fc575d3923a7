/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation happens in handlers, not in DTOs. DTOs are pure data
  carriers.
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/MedSync-Corp/client-deliverables-tracker/allocation"
	"github.com/MedSync-Corp/client-deliverables-tracker/deliverables"
	"github.com/MedSync-Corp/client-deliverables-tracker/staffing"
)

// =============================================================================
// CLIENTS
// =============================================================================

// ClientDTO represents a client in API responses.
type ClientDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TotalQuantity int    `json:"total_quantity,omitempty"`
	GroupTag      string `json:"group_tag,omitempty"`
	Paused        bool   `json:"paused"`
	Completed     bool   `json:"completed"`
	Started       bool   `json:"started"`
	Lifetime      int    `json:"lifetime_completed"`
}

// SaveClientRequest creates or updates a client. ID is server-generated
// on create when omitted.
type SaveClientRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TotalQuantity int    `json:"total_quantity"`
	GroupTag      string `json:"group_tag"`
	Paused        bool   `json:"paused"`
	Completed     bool   `json:"completed"`
}

// =============================================================================
// BASELINES / OVERRIDES / COMPLETIONS
// =============================================================================

type BaselineDTO struct {
	ClientID       string `json:"client_id"`
	WeeklyQuantity int    `json:"weekly_quantity"`
	EffectiveFrom  string `json:"effective_from"`
}

// CreateBaselineRequest appends a baseline version. EffectiveFrom is
// normalized to the Monday of its week.
type CreateBaselineRequest struct {
	WeeklyQuantity int    `json:"weekly_quantity"`
	EffectiveFrom  string `json:"effective_from"`
}

type OverrideDTO struct {
	ClientID       string `json:"client_id"`
	WeekStart      string `json:"week_start"`
	WeeklyQuantity int    `json:"weekly_quantity"`
	Note           string `json:"note,omitempty"`
}

type SaveOverrideRequest struct {
	WeeklyQuantity int    `json:"weekly_quantity"`
	Note           string `json:"note"`
}

type CompletionDTO struct {
	ClientID   string `json:"client_id"`
	OccurredOn string `json:"occurred_on"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note,omitempty"`
}

// LogCompletionRequest appends a signed completion event.
type LogCompletionRequest struct {
	OccurredOn string `json:"occurred_on"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note"`
}

// =============================================================================
// DASHBOARD
// =============================================================================

// WeekRowDTO is one client's accounting row on the dashboard.
type WeekRowDTO struct {
	ClientID  string `json:"client_id"`
	Name      string `json:"name"`
	Target    int    `json:"target"`
	CarryIn   int    `json:"carry_in"`
	Required  int    `json:"required"`
	Completed int    `json:"completed"`
	Remaining int    `json:"remaining"`
	Status    string `json:"status"`
	Lifetime  int    `json:"lifetime_completed"`
}

type TotalsDTO struct {
	Required  int `json:"required"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
	Lifetime  int `json:"lifetime_completed"`
}

// DashboardResponse is the weekly dashboard: the selected week's window,
// per-client rows, and aggregate KPIs.
type DashboardResponse struct {
	WeekStart   string       `json:"week_start"`
	WeekEnd     string       `json:"week_end"`
	WeekOffset  int          `json:"week_offset"`
	DaysLeft    int          `json:"days_left"`
	StartedOnly bool         `json:"started_only"`
	Rows        []WeekRowDTO `json:"rows"`
	Totals      TotalsDTO    `json:"totals"`
}

// ClientWeekResponse is the client detail view for one week.
type ClientWeekResponse struct {
	Client      ClientDTO       `json:"client"`
	Week        WeekRowDTO      `json:"week"`
	WeekStart   string          `json:"week_start"`
	WeekOffset  int             `json:"week_offset"`
	Baselines   []BaselineDTO   `json:"baselines"`
	Completions []CompletionDTO `json:"completions"`
}

// =============================================================================
// ALLOCATION PLAN
// =============================================================================

// PlanRequest configures the allocation planner. DayCapacity is only
// consulted under the capacity strategy.
type PlanRequest struct {
	Strategy    string   `json:"strategy"`
	DayCapacity []int    `json:"day_capacity,omitempty"`
	VIPClients  []string `json:"vip_clients,omitempty"`
}

// PlanRowDTO is one client's planned quantities across the plan days.
type PlanRowDTO struct {
	ClientID    string `json:"client_id"`
	Name        string `json:"name"`
	Remaining   int    `json:"remaining"`
	Slots       []int  `json:"slots"`
	WeekTotal   int    `json:"week_total"`
	Unallocated int    `json:"unallocated,omitempty"`
}

type PlanResponse struct {
	Strategy    string       `json:"strategy"`
	Days        []string     `json:"days"`
	DayLabels   []string     `json:"day_labels"`
	Rows        []PlanRowDTO `json:"rows"`
	DayTotals   []int        `json:"day_totals"`
	Unallocated int          `json:"total_unallocated"`
}

// =============================================================================
// STAFFING
// =============================================================================

type StaffingSnapshotDTO struct {
	EffectiveDate string `json:"effective_date"`
	StaffCount    int    `json:"staff_count"`
	Note          string `json:"note,omitempty"`
}

type SaveStaffingSnapshotRequest struct {
	EffectiveDate string `json:"effective_date"`
	StaffCount    int    `json:"staff_count"`
	Note          string `json:"note"`
}

// StaffingDayDTO is one row of the daily SPH table.
type StaffingDayDTO struct {
	Date      string              `json:"date"`
	Completed int                 `json:"completed"`
	Staff     int                 `json:"staff"`
	Hours     int                 `json:"hours"`
	SPH       decimal.NullDecimal `json:"sph"`
}

type StaffingSeriesResponse struct {
	Days    []StaffingDayDTO `json:"days"`
	Metrics staffing.Metrics `json:"metrics"`
}

// StaffingPlanRequest drives the capacity planner.
type StaffingPlanRequest struct {
	Demand         int    `json:"demand"`
	WorkingDays    int    `json:"working_days"`
	HoursPerStaff  int    `json:"hours_per_staff"`
	UtilizationPct int    `json:"utilization_pct"`
	AutomationPct  int    `json:"automation_pct"`
	Mode           string `json:"mode"`
}

// =============================================================================
// SHARED
// =============================================================================

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toClientDTO(c deliverables.Client, started bool, lifetime int) ClientDTO {
	return ClientDTO{
		ID:            string(c.ID),
		Name:          c.Name,
		TotalQuantity: c.TotalQuantity,
		GroupTag:      c.GroupTag,
		Paused:        c.Paused,
		Completed:     c.Completed,
		Started:       started,
		Lifetime:      lifetime,
	}
}

func toWeekRowDTO(r deliverables.WeekResult) WeekRowDTO {
	return WeekRowDTO{
		ClientID:  string(r.ClientID),
		Name:      r.Name,
		Target:    r.Target,
		CarryIn:   r.CarryIn,
		Required:  r.Required,
		Completed: r.Completed,
		Remaining: r.Remaining,
		Status:    string(r.Status),
		Lifetime:  r.Lifetime,
	}
}

func toPlanResponse(strategy allocation.Strategy, plan *allocation.Plan) PlanResponse {
	resp := PlanResponse{
		Strategy:    string(strategy),
		DayTotals:   plan.DayTotals,
		Unallocated: plan.TotalUnallocated(),
	}
	for _, d := range plan.Days {
		resp.Days = append(resp.Days, d.String())
		resp.DayLabels = append(resp.DayLabels, allocation.DayLabel(d))
	}
	for i, demand := range plan.Demands {
		resp.Rows = append(resp.Rows, PlanRowDTO{
			ClientID:    string(demand.ID),
			Name:        demand.Name,
			Remaining:   demand.Remaining,
			Slots:       plan.Slots[i],
			WeekTotal:   plan.PlannedFor(i),
			Unallocated: plan.Unallocated[i],
		})
	}
	return resp
}
