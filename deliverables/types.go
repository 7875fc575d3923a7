/*
Package deliverables provides the weekly commitment accounting engine.

PURPOSE:
  This package contains the pure computation core for tracking weekly work
  commitments per client: what each client owes for a week, how much has
  been completed, how unmet shortfall rolls forward, and how healthy each
  client's week looks. Storage, HTTP, and export layers feed it plain
  records and consume plain result rows.

KEY CONCEPTS IN THIS FILE (types.go):
  - Client: identity, grouping, and lifecycle flags
  - BaselineVersion: an append-only weekly target history entry
  - Override: a one-week replacement of the baseline target
  - CompletionEvent: an append-only signed completion log entry
  - Snapshot: a consistent in-memory view of all of the above
  - WeekResult: the computed (client, week) accounting row

DESIGN PRINCIPLES:
  1. Purity: every computation is a function of a Snapshot; inputs are
     never mutated, so callers can recompute freely against cached data.
  2. Append-only history: baselines are superseded by newer versions and
     completions are corrected with negative rows, never edited.
  3. Date-only time: all windows compare calendar dates in one reference
     timezone; no timestamp drift across operators.

SEE ALSO:
  - target.go: baseline/override resolution
  - engine.go: the carry-forward recurrence
  - status.go: the three-level health signal
*/
package deliverables

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ClientID string

// =============================================================================
// CLIENT - Identity and lifecycle
// =============================================================================

// Client is a tracked account. Paused clients keep their history but are
// excluded from active accounting; Completed clients are permanently
// finished. Neither flag deletes anything.
type Client struct {
	ID            ClientID
	Name          string
	TotalQuantity int    // total contracted quantity ("lives"); 0 = not set
	GroupTag      string // sales partner grouping; optional
	Paused        bool
	Completed     bool
}

// Active reports whether the client participates in weekly accounting.
func (c Client) Active() bool { return !c.Paused && !c.Completed }

// =============================================================================
// BASELINE VERSIONS - Append-only weekly target history
// =============================================================================

// BaselineVersion is one entry in a client's weekly target history. A new
// commitment supersedes the previous one by having a later EffectiveFrom;
// nothing is deactivated or edited, so the target in effect for any past
// week is always reconstructible.
type BaselineVersion struct {
	ClientID       ClientID
	WeeklyQuantity int          // integer >= 0
	EffectiveFrom  BusinessDate // a Monday
}

// =============================================================================
// OVERRIDES - One-week target replacements
// =============================================================================

// Override replaces (never adds to) the baseline target for exactly one
// week. At most one override exists per (client, week); writers upsert.
type Override struct {
	ClientID       ClientID
	WeekStart      BusinessDate // a Monday
	WeeklyQuantity int
	Note           string
}

// =============================================================================
// COMPLETION EVENTS - Append-only signed work log
// =============================================================================

// CompletionEvent records work done on a calendar date. Quantity is
// signed: corrections are new negative rows, never edits of prior rows.
type CompletionEvent struct {
	ClientID   ClientID
	OccurredOn BusinessDate
	Quantity   int
	Note       string
}

// =============================================================================
// SNAPSHOT - Consistent in-memory input set
// =============================================================================

// Snapshot is the full record set the engine computes over. The engine
// treats it as read-only; callers may safely reuse one snapshot across
// repeated computations.
type Snapshot struct {
	Clients     []Client
	Baselines   []BaselineVersion
	Overrides   []Override
	Completions []CompletionEvent
}

// Client returns the client with the given ID, if present.
func (s *Snapshot) Client(id ClientID) (Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// =============================================================================
// WEEK RESULT - Computed accounting row (never persisted)
// =============================================================================

// WeekResult is the accounting outcome for one (client, week) pair,
// derived fresh on every query.
type WeekResult struct {
	ClientID  ClientID
	Name      string
	WeekStart BusinessDate

	Target    int // baseline or override target for this week alone
	CarryIn   int // unmet shortfall rolled in from the prior week
	Required  int // Target + CarryIn
	Completed int // signed sum of this week's completion events
	Remaining int // max(0, Required - Completed)

	Status   Status
	Lifetime int // all-time signed completion total for the client
}

// Due reports whether the client actually owes work this week. Zero
// required is not a deliverable: clients with no baseline and no override
// are excluded from due-this-week views.
func (r WeekResult) Due() bool { return r.Required > 0 }

// Totals aggregates WeekResult rows into dashboard KPIs.
type Totals struct {
	Required  int
	Completed int
	Remaining int
	Lifetime  int // signed sum of every completion event, all clients
}
