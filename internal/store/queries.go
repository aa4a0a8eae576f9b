package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Wrapper operations

// UpsertWrapper inserts or replaces a wrapper record, preserving the
// original created_at on replace.
func (s *Store) UpsertWrapper(w *Wrapper) error {
	now := time.Now().UTC()
	createdAt := w.CreatedAt
	if existing, err := s.GetWrapper(w.ShortName); err == nil {
		createdAt = existing.CreatedAt
	} else if createdAt.IsZero() {
		createdAt = now
	}

	query := `
		INSERT OR REPLACE INTO wrappers
		(short_name, app_id, kind, origin, scope, has_native_conflict, stale, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		w.ShortName,
		w.AppID,
		string(w.Kind),
		w.Origin,
		w.Scope,
		w.HasNativeConflict,
		w.Stale,
		createdAt.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert wrapper %s: %w", w.ShortName, err)
	}
	return nil
}

// GetWrapper retrieves a wrapper record by short name.
func (s *Store) GetWrapper(shortName string) (*Wrapper, error) {
	query := `
		SELECT short_name, app_id, kind, origin, scope, has_native_conflict, stale, created_at, updated_at
		FROM wrappers
		WHERE short_name = ?
	`
	row := s.db.QueryRow(query, shortName)
	w, err := scanWrapper(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("wrapper %s not found", shortName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wrapper %s: %w", shortName, err)
	}
	return w, nil
}

// ListWrappers returns all wrapper records ordered by short name.
func (s *Store) ListWrappers() ([]*Wrapper, error) {
	query := `
		SELECT short_name, app_id, kind, origin, scope, has_native_conflict, stale, created_at, updated_at
		FROM wrappers
		ORDER BY short_name
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list wrappers: %w", err)
	}
	defer rows.Close()

	var wrappers []*Wrapper
	for rows.Next() {
		w, err := scanWrapper(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wrapper row: %w", err)
		}
		wrappers = append(wrappers, w)
	}
	return wrappers, rows.Err()
}

// DeleteWrapper removes the record for shortName. Deleting an absent record
// is not an error; removed reports whether a row was deleted.
func (s *Store) DeleteWrapper(shortName string) (removed bool, err error) {
	res, err := s.db.Exec(`DELETE FROM wrappers WHERE short_name = ?`, shortName)
	if err != nil {
		return false, fmt.Errorf("failed to delete wrapper %s: %w", shortName, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetStale flips the stale flag on an existing record.
func (s *Store) SetStale(shortName string, stale bool) error {
	_, err := s.db.Exec(
		`UPDATE wrappers SET stale = ?, updated_at = ? WHERE short_name = ?`,
		stale, time.Now().UTC().Format(time.RFC3339), shortName,
	)
	if err != nil {
		return fmt.Errorf("failed to mark wrapper %s stale=%v: %w", shortName, stale, err)
	}
	return nil
}

// Run history

// InsertRun appends one reconciliation run to the history.
func (s *Store) InsertRun(r *Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (started_at, dry_run, created, updated, removed, skipped, stale)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UTC().Format(time.RFC3339),
		r.DryRun, r.Created, r.Updated, r.Removed, r.Skipped, r.Stale,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, dry_run, created, updated, removed, skipped, stale
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var startedAt string
		if err := rows.Scan(&r.ID, &startedAt, &r.DryRun, &r.Created, &r.Updated, &r.Removed, &r.Skipped, &r.Stale); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for scanWrapper.
type scanner interface {
	Scan(dest ...any) error
}

func scanWrapper(row scanner) (*Wrapper, error) {
	var w Wrapper
	var kind, createdAt, updatedAt string
	err := row.Scan(
		&w.ShortName,
		&w.AppID,
		&kind,
		&w.Origin,
		&w.Scope,
		&w.HasNativeConflict,
		&w.Stale,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Kind = Kind(kind)
	if w.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at for %s: %w", w.ShortName, err)
	}
	if w.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at for %s: %w", w.ShortName, err)
	}
	return &w, nil
}
