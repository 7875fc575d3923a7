package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MedSync-Corp/client-deliverables-tracker/deliverables"
	"github.com/MedSync-Corp/client-deliverables-tracker/staffing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func date(t *testing.T, iso string) deliverables.BusinessDate {
	t.Helper()
	d, err := deliverables.ParseDate(iso)
	require.NoError(t, err)
	return d
}

func TestClientRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := deliverables.Client{
		ID: "acme", Name: "Acme Health", TotalQuantity: 5000, GroupTag: "northeast",
	}
	require.NoError(t, s.SaveClient(ctx, c))

	got, err := s.GetClient(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c, *got)

	// Upsert flips paused without touching identity.
	c.Paused = true
	require.NoError(t, s.SaveClient(ctx, c))
	got, err = s.GetClient(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, got.Paused)

	missing, err := s.GetClient(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteClientCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveClient(ctx, deliverables.Client{ID: "acme", Name: "Acme Health"}))
	require.NoError(t, s.SaveBaseline(ctx, deliverables.BaselineVersion{
		ClientID: "acme", WeeklyQuantity: 100, EffectiveFrom: date(t, "2026-08-31"),
	}))
	require.NoError(t, s.SaveOverride(ctx, deliverables.Override{
		ClientID: "acme", WeekStart: date(t, "2026-08-31"), WeeklyQuantity: 50,
	}))
	require.NoError(t, s.AppendCompletion(ctx, deliverables.CompletionEvent{
		ClientID: "acme", OccurredOn: date(t, "2026-09-01"), Quantity: 25,
	}))

	require.NoError(t, s.DeleteClient(ctx, "acme"))

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Clients)
	assert.Empty(t, snap.Baselines)
	assert.Empty(t, snap.Overrides)
	assert.Empty(t, snap.Completions)

	assert.ErrorIs(t, s.DeleteClient(ctx, "acme"), deliverables.ErrClientNotFound)
}

func TestBaselineHistoryAndReplacement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveClient(ctx, deliverables.Client{ID: "acme", Name: "Acme Health"}))
	require.NoError(t, s.SaveBaseline(ctx, deliverables.BaselineVersion{
		ClientID: "acme", WeeklyQuantity: 100, EffectiveFrom: date(t, "2026-08-31"),
	}))
	require.NoError(t, s.SaveBaseline(ctx, deliverables.BaselineVersion{
		ClientID: "acme", WeeklyQuantity: 200, EffectiveFrom: date(t, "2026-09-14"),
	}))
	// Same effective date replaces, no extra version.
	require.NoError(t, s.SaveBaseline(ctx, deliverables.BaselineVersion{
		ClientID: "acme", WeeklyQuantity: 120, EffectiveFrom: date(t, "2026-08-31"),
	}))

	list, err := s.ListBaselines(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 120, list[0].WeeklyQuantity)
	assert.Equal(t, 200, list[1].WeeklyQuantity)

	err = s.SaveBaseline(ctx, deliverables.BaselineVersion{
		ClientID: "ghost", WeeklyQuantity: 10, EffectiveFrom: date(t, "2026-08-31"),
	})
	assert.ErrorIs(t, err, deliverables.ErrClientNotFound)
}

func TestOverrideUpsertAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveClient(ctx, deliverables.Client{ID: "acme", Name: "Acme Health"}))
	week := date(t, "2026-08-31")

	require.NoError(t, s.SaveOverride(ctx, deliverables.Override{
		ClientID: "acme", WeekStart: week, WeeklyQuantity: 50, Note: "holiday",
	}))
	require.NoError(t, s.SaveOverride(ctx, deliverables.Override{
		ClientID: "acme", WeekStart: week, WeeklyQuantity: 75, Note: "revised",
	}))

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Overrides, 1, "one override per (client, week)")
	assert.Equal(t, 75, snap.Overrides[0].WeeklyQuantity)
	assert.Equal(t, "revised", snap.Overrides[0].Note)

	require.NoError(t, s.DeleteOverride(ctx, "acme", week))
	snap, err = s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Overrides)
}

func TestCompletionsAppendOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveClient(ctx, deliverables.Client{ID: "acme", Name: "Acme Health"}))
	require.NoError(t, s.AppendCompletion(ctx, deliverables.CompletionEvent{
		ClientID: "acme", OccurredOn: date(t, "2026-09-01"), Quantity: 30,
	}))
	require.NoError(t, s.AppendCompletion(ctx, deliverables.CompletionEvent{
		ClientID: "acme", OccurredOn: date(t, "2026-09-01"), Quantity: -10, Note: "double count",
	}))

	events, err := s.ListCompletions(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, events, 2, "corrections append, never edit")
	assert.Equal(t, 20, deliverables.LifetimeTotal(events, "acme"))

	err = s.AppendCompletion(ctx, deliverables.CompletionEvent{
		ClientID: "ghost", OccurredOn: date(t, "2026-09-01"), Quantity: 5,
	})
	assert.ErrorIs(t, err, deliverables.ErrClientNotFound)
}

func TestStaffingSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveStaffingSnapshot(ctx, staffing.Snapshot{
		EffectiveDate: date(t, "2026-08-01"), StaffCount: 4,
	}))
	require.NoError(t, s.SaveStaffingSnapshot(ctx, staffing.Snapshot{
		EffectiveDate: date(t, "2026-08-15"), StaffCount: 6, Note: "two hires",
	}))
	// Same effective date upserts.
	require.NoError(t, s.SaveStaffingSnapshot(ctx, staffing.Snapshot{
		EffectiveDate: date(t, "2026-08-15"), StaffCount: 5, Note: "one no-show",
	}))

	snaps, err := s.ListStaffingSnapshots(ctx, date(t, "2026-09-01"))
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 5, snaps[1].StaffCount)

	// Cutoff excludes later snapshots.
	snaps, err = s.ListStaffingSnapshots(ctx, date(t, "2026-08-10"))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 4, snaps[0].StaffCount)
}

func TestLoadSnapshotFeedsEngine(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveClient(ctx, deliverables.Client{ID: "acme", Name: "Acme Health"}))
	require.NoError(t, s.SaveBaseline(ctx, deliverables.BaselineVersion{
		ClientID: "acme", WeeklyQuantity: 100, EffectiveFrom: date(t, "2026-08-31"),
	}))
	require.NoError(t, s.AppendCompletion(ctx, deliverables.CompletionEvent{
		ClientID: "acme", OccurredOn: date(t, "2026-09-02"), Quantity: 40,
	}))

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)

	r := deliverables.NewEngine().WeekResult(snap, "acme", date(t, "2026-09-02"), 0)
	assert.Equal(t, 100, r.Required)
	assert.Equal(t, 40, r.Completed)
	assert.Equal(t, 60, r.Remaining)
}
