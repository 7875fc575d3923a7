/*
Package sqlite provides the SQLite persistence layer for the tracker.

PURPOSE:
  Persists clients, baseline target history, weekly overrides, the
  completion log, and staffing snapshots. The engine never touches the
  database: LoadSnapshot materializes a consistent deliverables.Snapshot
  and every computation runs over that.

APPEND-ONLY ENFORCEMENT:
  - completions has no UPDATE path; corrections are new signed rows.
  - baseline_versions are never deleted; a newer effective_from
    supersedes. Re-saving the same (client, effective_from) replaces
    that one version so typos can be fixed without a bogus extra entry.

KEY TABLES:
  clients:            Account identity and lifecycle flags
  baseline_versions:  Weekly target history, UNIQUE(client, effective_from)
  weekly_overrides:   One-week target replacements, UNIQUE(client, week)
  completions:        Signed work log, append-only
  staffing_snapshots: Headcount history, UNIQUE(effective_date)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; SQLite is opened in WAL mode so
  readers do not block each other.

USAGE:
  store, err := sqlite.New("./data/tracker.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  snap, err := store.LoadSnapshot(ctx)

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" for tests.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MedSync-Corp/client-deliverables-tracker/deliverables"
	"github.com/MedSync-Corp/client-deliverables-tracker/staffing"
)

// Store is the SQLite-backed record store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		total_quantity INTEGER NOT NULL DEFAULT 0,
		group_tag TEXT NOT NULL DEFAULT '',
		paused BOOLEAN NOT NULL DEFAULT FALSE,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS baseline_versions (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		weekly_quantity INTEGER NOT NULL,
		effective_from TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(client_id, effective_from)
	);

	CREATE INDEX IF NOT EXISTS idx_baselines_client
		ON baseline_versions(client_id, effective_from);

	CREATE TABLE IF NOT EXISTS weekly_overrides (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		week_start TEXT NOT NULL,
		weekly_quantity INTEGER NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(client_id, week_start)
	);

	-- Append-only: no UPDATE or DELETE statements target this table.
	CREATE TABLE IF NOT EXISTS completions (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		occurred_on TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Hot path: week-window sums per client.
	CREATE INDEX IF NOT EXISTS idx_completions_client_date
		ON completions(client_id, occurred_on);
	CREATE INDEX IF NOT EXISTS idx_completions_date
		ON completions(occurred_on);

	CREATE TABLE IF NOT EXISTS staffing_snapshots (
		id TEXT PRIMARY KEY,
		effective_date TEXT NOT NULL UNIQUE,
		staff_count INTEGER NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CLIENTS
// =============================================================================

// SaveClient inserts or updates a client record.
func (s *Store) SaveClient(ctx context.Context, c deliverables.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO clients (id, name, total_quantity, group_tag, paused, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			total_quantity = excluded.total_quantity,
			group_tag = excluded.group_tag,
			paused = excluded.paused,
			completed = excluded.completed,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		string(c.ID), c.Name, c.TotalQuantity, c.GroupTag, c.Paused, c.Completed, now, now,
	)
	return err
}

// GetClient retrieves a client by ID. Returns nil when not found.
func (s *Store) GetClient(ctx context.Context, id deliverables.ClientID) (*deliverables.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c deliverables.Client
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, total_quantity, group_tag, paused, completed FROM clients WHERE id = ?",
		string(id),
	).Scan(&c.ID, &c.Name, &c.TotalQuantity, &c.GroupTag, &c.Paused, &c.Completed)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClients returns all clients ordered by name.
func (s *Store) ListClients(ctx context.Context) ([]deliverables.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listClients(ctx)
}

func (s *Store) listClients(ctx context.Context) ([]deliverables.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, total_quantity, group_tag, paused, completed FROM clients ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []deliverables.Client
	for rows.Next() {
		var c deliverables.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.TotalQuantity, &c.GroupTag, &c.Paused, &c.Completed); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// DeleteClient removes a client and, via foreign keys, all of its
// baselines, overrides, and completions.
func (s *Store) DeleteClient(ctx context.Context, id deliverables.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return deliverables.ErrClientNotFound
	}
	return nil
}

// =============================================================================
// BASELINE VERSIONS
// =============================================================================

// SaveBaseline records a baseline version. A later effective_from
// supersedes earlier versions; the same effective_from replaces in place.
func (s *Store) SaveBaseline(ctx context.Context, b deliverables.BaselineVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO baseline_versions (id, client_id, weekly_quantity, effective_from, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(client_id, effective_from) DO UPDATE SET
			weekly_quantity = excluded.weekly_quantity
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(), string(b.ClientID), b.WeeklyQuantity,
		b.EffectiveFrom.String(), time.Now().UTC().Format(time.RFC3339),
	)
	if isForeignKeyError(err) {
		return deliverables.ErrClientNotFound
	}
	return err
}

// ListBaselines returns a client's full target history, oldest first.
func (s *Store) ListBaselines(ctx context.Context, clientID deliverables.ClientID) ([]deliverables.BaselineVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT client_id, weekly_quantity, effective_from FROM baseline_versions WHERE client_id = ? ORDER BY effective_from",
		string(clientID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBaselines(rows)
}

// =============================================================================
// WEEKLY OVERRIDES
// =============================================================================

// SaveOverride upserts the single override for a (client, week).
func (s *Store) SaveOverride(ctx context.Context, o deliverables.Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO weekly_overrides (id, client_id, week_start, weekly_quantity, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id, week_start) DO UPDATE SET
			weekly_quantity = excluded.weekly_quantity,
			note = excluded.note,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(), string(o.ClientID), o.WeekStart.String(),
		o.WeeklyQuantity, o.Note, now, now,
	)
	if isForeignKeyError(err) {
		return deliverables.ErrClientNotFound
	}
	return err
}

// DeleteOverride removes the override for a (client, week), restoring the
// baseline target for that week.
func (s *Store) DeleteOverride(ctx context.Context, clientID deliverables.ClientID, weekStart deliverables.BusinessDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM weekly_overrides WHERE client_id = ? AND week_start = ?",
		string(clientID), weekStart.String(),
	)
	return err
}

// =============================================================================
// COMPLETIONS (append-only)
// =============================================================================

// AppendCompletion adds a completion event to the log. There is no update
// or delete: corrections are new rows with negative quantities.
func (s *Store) AppendCompletion(ctx context.Context, e deliverables.CompletionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO completions (id, client_id, occurred_on, quantity, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), string(e.ClientID), e.OccurredOn.String(),
		e.Quantity, e.Note, time.Now().UTC().Format(time.RFC3339),
	)
	if isForeignKeyError(err) {
		return deliverables.ErrClientNotFound
	}
	return err
}

// ListCompletions returns a client's completion log, oldest first.
func (s *Store) ListCompletions(ctx context.Context, clientID deliverables.ClientID) ([]deliverables.CompletionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT client_id, occurred_on, quantity, note FROM completions WHERE client_id = ? ORDER BY occurred_on, created_at",
		string(clientID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCompletions(rows)
}

// =============================================================================
// STAFFING SNAPSHOTS
// =============================================================================

// SaveStaffingSnapshot upserts the snapshot for an effective date.
func (s *Store) SaveStaffingSnapshot(ctx context.Context, snap staffing.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO staffing_snapshots (id, effective_date, staff_count, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(effective_date) DO UPDATE SET
			staff_count = excluded.staff_count,
			note = excluded.note,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(), snap.EffectiveDate.String(), snap.StaffCount, snap.Note, now, now,
	)
	return err
}

// ListStaffingSnapshots returns snapshots effective on or before upTo,
// oldest first.
func (s *Store) ListStaffingSnapshots(ctx context.Context, upTo deliverables.BusinessDate) ([]staffing.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT effective_date, staff_count, note FROM staffing_snapshots WHERE effective_date <= ? ORDER BY effective_date",
		upTo.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []staffing.Snapshot
	for rows.Next() {
		var (
			snap staffing.Snapshot
			eff  string
		)
		if err := rows.Scan(&eff, &snap.StaffCount, &snap.Note); err != nil {
			return nil, err
		}
		if snap.EffectiveDate, err = deliverables.ParseDate(eff); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// =============================================================================
// SNAPSHOT LOADING
// =============================================================================

// LoadSnapshot materializes the full record set the engine computes over.
// All four reads happen under one read lock, so the view is consistent.
func (s *Store) LoadSnapshot(ctx context.Context) (*deliverables.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &deliverables.Snapshot{}

	var err error
	if snap.Clients, err = s.listClients(ctx); err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT client_id, weekly_quantity, effective_from FROM baseline_versions ORDER BY effective_from")
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}
	snap.Baselines, err = scanBaselines(rows)
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT client_id, week_start, weekly_quantity, note FROM weekly_overrides")
	if err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}
	snap.Overrides, err = scanOverrides(rows)
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT client_id, occurred_on, quantity, note FROM completions ORDER BY occurred_on, created_at")
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}
	snap.Completions, err = scanCompletions(rows)
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}

	return snap, nil
}

// Reset clears all data. Intended for tests.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"completions", "weekly_overrides", "baseline_versions", "clients", "staffing_snapshots"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func scanBaselines(rows *sql.Rows) ([]deliverables.BaselineVersion, error) {
	var out []deliverables.BaselineVersion
	for rows.Next() {
		var (
			b   deliverables.BaselineVersion
			eff string
		)
		if err := rows.Scan(&b.ClientID, &b.WeeklyQuantity, &eff); err != nil {
			return nil, err
		}
		var err error
		if b.EffectiveFrom, err = deliverables.ParseDate(eff); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanOverrides(rows *sql.Rows) ([]deliverables.Override, error) {
	var out []deliverables.Override
	for rows.Next() {
		var (
			o    deliverables.Override
			week string
		)
		if err := rows.Scan(&o.ClientID, &week, &o.WeeklyQuantity, &o.Note); err != nil {
			return nil, err
		}
		var err error
		if o.WeekStart, err = deliverables.ParseDate(week); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanCompletions(rows *sql.Rows) ([]deliverables.CompletionEvent, error) {
	var out []deliverables.CompletionEvent
	for rows.Next() {
		var (
			e  deliverables.CompletionEvent
			on string
		)
		if err := rows.Scan(&e.ClientID, &on, &e.Quantity, &e.Note); err != nil {
			return nil, err
		}
		var err error
		if e.OccurredOn, err = deliverables.ParseDate(on); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
