package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MedSync-Corp/client-deliverables-tracker/deliverables"
	"github.com/MedSync-Corp/client-deliverables-tracker/store/sqlite"
)

// testToday pins the anchor week: Wednesday 2026-09-16, week starting
// Monday 2026-09-14.
const testToday = "2026-09-16"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store)
	h.Now = func() deliverables.BusinessDate {
		d, err := deliverables.ParseDate(testToday)
		require.NoError(t, err)
		return d
	}
	return NewRouter(h)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func seedClient(t *testing.T, router http.Handler, id, name string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/clients", SaveClientRequest{ID: id, Name: name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestClientLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/clients", SaveClientRequest{Name: "Acme Health", GroupTag: "northeast"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[ClientDTO](t, rec)
	require.NotEmpty(t, created.ID, "server generates IDs when omitted")

	rec = doJSON(t, router, http.MethodGet, "/api/clients/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[ClientDTO](t, rec)
	assert.Equal(t, "Acme Health", got.Name)
	assert.False(t, got.Started)

	rec = doJSON(t, router, http.MethodPost, "/api/clients/"+created.ID+"/pause", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ClientDTO](t, rec).Paused)

	rec = doJSON(t, router, http.MethodPost, "/api/clients/"+created.ID+"/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[ClientDTO](t, rec).Paused)

	rec = doJSON(t, router, http.MethodDelete, "/api/clients/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/clients/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateClientValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/clients", SaveClientRequest{Name: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardCarryForward(t *testing.T) {
	router := newTestRouter(t)
	seedClient(t, router, "acme", "Acme Health")

	// Baseline 100/week since 2026-08-31; only 40 done in that first week.
	rec := doJSON(t, router, http.MethodPost, "/api/clients/acme/baselines",
		CreateBaselineRequest{WeeklyQuantity: 100, EffectiveFrom: "2026-08-31"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/clients/acme/completions",
		LogCompletionRequest{OccurredOn: "2026-09-02", Quantity: 40})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[DashboardResponse](t, rec)

	assert.Equal(t, "2026-09-14", dash.WeekStart)
	assert.Equal(t, "2026-09-18", dash.WeekEnd)
	assert.Equal(t, 3, dash.DaysLeft) // Wed, Thu, Fri

	require.Len(t, dash.Rows, 1)
	row := dash.Rows[0]
	assert.Equal(t, 160, row.CarryIn, "two unmet weeks compound")
	assert.Equal(t, 260, row.Required)
	assert.Equal(t, "behind", row.Status)
	assert.Equal(t, 260, dash.Totals.Required)

	// Past week via offset.
	rec = doJSON(t, router, http.MethodGet, "/api/dashboard?week_offset=-2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash = decode[DashboardResponse](t, rec)
	assert.Equal(t, "2026-08-31", dash.WeekStart)
	require.Len(t, dash.Rows, 1)
	assert.Equal(t, 40, dash.Rows[0].Completed)
	assert.Equal(t, 60, dash.Rows[0].Remaining)

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard?week_offset=two", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBaselineNormalizedToMonday(t *testing.T) {
	router := newTestRouter(t)
	seedClient(t, router, "acme", "Acme Health")

	rec := doJSON(t, router, http.MethodPost, "/api/clients/acme/baselines",
		CreateBaselineRequest{WeeklyQuantity: 100, EffectiveFrom: "2026-09-02"}) // a Wednesday
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "2026-08-31", decode[BaselineDTO](t, rec).EffectiveFrom)

	rec = doJSON(t, router, http.MethodPost, "/api/clients/acme/baselines",
		CreateBaselineRequest{WeeklyQuantity: -5, EffectiveFrom: "2026-08-31"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/clients/ghost/baselines",
		CreateBaselineRequest{WeeklyQuantity: 100, EffectiveFrom: "2026-08-31"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOverrideEndpoints(t *testing.T) {
	router := newTestRouter(t)
	seedClient(t, router, "acme", "Acme Health")

	rec := doJSON(t, router, http.MethodPost, "/api/clients/acme/baselines",
		CreateBaselineRequest{WeeklyQuantity: 100, EffectiveFrom: "2026-09-14"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/clients/acme/overrides/2026-09-14",
		SaveOverrideRequest{WeeklyQuantity: 60, Note: "short week"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard", nil)
	dash := decode[DashboardResponse](t, rec)
	require.Len(t, dash.Rows, 1)
	assert.Equal(t, 60, dash.Rows[0].Target, "override replaces the baseline")

	rec = doJSON(t, router, http.MethodDelete, "/api/clients/acme/overrides/2026-09-14", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard", nil)
	dash = decode[DashboardResponse](t, rec)
	assert.Equal(t, 100, dash.Rows[0].Target)
}

func TestLogCompletionValidation(t *testing.T) {
	router := newTestRouter(t)
	seedClient(t, router, "acme", "Acme Health")

	rec := doJSON(t, router, http.MethodPost, "/api/clients/acme/completions",
		LogCompletionRequest{OccurredOn: "2026-09-15", Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "zero quantity")

	rec = doJSON(t, router, http.MethodPost, "/api/clients/acme/completions",
		LogCompletionRequest{OccurredOn: "2026-09-17", Quantity: 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "future date")

	rec = doJSON(t, router, http.MethodPost, "/api/clients/acme/completions",
		LogCompletionRequest{OccurredOn: "yesterday", Quantity: 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "garbage date")

	// Negative corrections are legal.
	rec = doJSON(t, router, http.MethodPost, "/api/clients/acme/completions",
		LogCompletionRequest{OccurredOn: "2026-09-15", Quantity: -10, Note: "correction"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestClientWeekDetail(t *testing.T) {
	router := newTestRouter(t)
	seedClient(t, router, "acme", "Acme Health")

	rec := doJSON(t, router, http.MethodPost, "/api/clients/acme/baselines",
		CreateBaselineRequest{WeeklyQuantity: 100, EffectiveFrom: "2026-09-14"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/clients/acme/completions",
		LogCompletionRequest{OccurredOn: "2026-09-15", Quantity: 30})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/clients/acme/week", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[ClientWeekResponse](t, rec)

	assert.Equal(t, "2026-09-14", detail.WeekStart)
	assert.Equal(t, 70, detail.Week.Remaining)
	assert.True(t, detail.Client.Started)
	require.Len(t, detail.Baselines, 1)
	require.Len(t, detail.Completions, 1)
	assert.Equal(t, 30, detail.Completions[0].Quantity)
}

func TestPlanEndpoint(t *testing.T) {
	router := newTestRouter(t)
	seedClient(t, router, "acme", "Acme Health")
	seedClient(t, router, "beta", "Beta Medical")

	for _, id := range []string{"acme", "beta"} {
		rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/clients/%s/baselines", id),
			CreateBaselineRequest{WeeklyQuantity: 100, EffectiveFrom: "2026-09-14"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/plan", PlanRequest{Strategy: "even"})
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decode[PlanResponse](t, rec)

	require.Len(t, plan.Days, 3, "Wednesday anchor leaves Wed, Thu, Fri")
	assert.Equal(t, "2026-09-16", plan.Days[0])
	require.Len(t, plan.Rows, 2)
	for _, row := range plan.Rows {
		assert.Equal(t, 100, row.Remaining)
		assert.LessOrEqual(t, row.WeekTotal, row.Remaining)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/plan", PlanRequest{Strategy: "chaotic"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanCSVEndpoint(t *testing.T) {
	router := newTestRouter(t)
	seedClient(t, router, "acme", "Acme Health")
	rec := doJSON(t, router, http.MethodPost, "/api/clients/acme/baselines",
		CreateBaselineRequest{WeeklyQuantity: 100, EffectiveFrom: "2026-09-14"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/plan/csv", PlanRequest{Strategy: "frontload"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "allocation-plan.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "Client,"))
	assert.True(t, strings.HasPrefix(lines[1], "Acme Health,"))
}

func TestStaffingEndpoints(t *testing.T) {
	router := newTestRouter(t)
	seedClient(t, router, "acme", "Acme Health")

	rec := doJSON(t, router, http.MethodPost, "/api/staffing/snapshots",
		SaveStaffingSnapshotRequest{EffectiveDate: "2026-09-01", StaffCount: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/clients/acme/completions",
		LogCompletionRequest{OccurredOn: "2026-09-15", Quantity: 32})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/staffing/series?days=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	series := decode[StaffingSeriesResponse](t, rec)
	require.Len(t, series.Days, 7)
	last := series.Days[6]
	assert.Equal(t, testToday, last.Date)
	assert.Equal(t, 2, last.Staff)
	assert.Equal(t, 16, last.Hours)
	// 2026-09-15: 32 completed over 16 hours = 2.0 SPH
	require.True(t, series.Days[5].SPH.Valid)
	assert.Equal(t, "2", series.Days[5].SPH.Decimal.String())

	rec = doJSON(t, router, http.MethodGet, "/api/staffing/series?days=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/staffing/plan",
		StaffingPlanRequest{Demand: 600, WorkingDays: 5, Mode: "base"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/staffing/plan",
		StaffingPlanRequest{Demand: 600, WorkingDays: 5, Mode: "wishful"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/staffing/snapshots", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snaps := decode[[]StaffingSnapshotDTO](t, rec)
	require.Len(t, snaps, 1)
	assert.Equal(t, 2, snaps[0].StaffCount)
}

func TestScenarioLoading(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]ScenarioDTO](t, rec)
	require.Len(t, list, 3)

	rec = doJSON(t, router, http.MethodPost, "/api/scenarios/load",
		LoadScenarioRequest{ScenarioID: "steady-book"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[DashboardResponse](t, rec)
	assert.Len(t, dash.Rows, 3)

	rec = doJSON(t, router, http.MethodPost, "/api/scenarios/load",
		LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/dashboard", nil)
	dash = decode[DashboardResponse](t, rec)
	assert.Empty(t, dash.Rows)
}
