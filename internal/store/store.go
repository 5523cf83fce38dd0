// Package store persists floor events and reference catalogs in sqlite. The
// engine treats it as a read-only collaborator; the recorder endpoints are
// the only writers.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"prodscan/internal/model"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04:05"
)

// Store wraps the sqlite handle. Safe for concurrent use; sql.DB pools
// connections itself.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS scan_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			workstation TEXT NOT NULL,
			operator TEXT NOT NULL,
			tool TEXT NOT NULL,
			quantity TEXT,
			shift TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scan_events_date ON scan_events(date);`,
		`CREATE TABLE IF NOT EXISTS defect_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			workstation TEXT NOT NULL,
			operator TEXT NOT NULL,
			tool TEXT NOT NULL,
			code TEXT NOT NULL,
			description TEXT,
			shift TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_defect_events_date ON defect_events(date);`,
		`CREATE TABLE IF NOT EXISTS tools (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			area TEXT,
			family TEXT,
			cost REAL
		);`,
		`CREATE TABLE IF NOT EXISTS workstations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			number TEXT NOT NULL UNIQUE,
			label TEXT,
			target INTEGER
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close releases the underlying handle.
func (s *Store) Close() error { return s.db.Close() }

// FetchScanEvents returns scan events whose calendar date falls in the
// inclusive range. Callers that care about labor days widen the range by one
// day on each side and re-filter in memory; the date column alone cannot
// express a labor-day predicate.
func (s *Store) FetchScanEvents(ctx context.Context, from, to time.Time) ([]model.ScanEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, time, workstation, operator, tool, COALESCE(quantity, ''), COALESCE(shift, '')
		 FROM scan_events WHERE date >= ? AND date <= ? ORDER BY date, time, id`,
		from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query scan events: %w", err)
	}
	defer rows.Close()

	var events []model.ScanEvent
	for rows.Next() {
		var e model.ScanEvent
		var date, clock string
		if err := rows.Scan(&e.ID, &date, &clock, &e.Workstation, &e.Operator, &e.Tool, &e.Quantity, &e.Shift); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		if e.Date, e.TimeOfDay, err = parseDateTime(date, clock); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// FetchDefectEvents returns defect events whose calendar date falls in the
// inclusive range. One row is one defective piece.
func (s *Store) FetchDefectEvents(ctx context.Context, from, to time.Time) ([]model.DefectEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, time, workstation, operator, tool, code, COALESCE(description, ''), COALESCE(shift, '')
		 FROM defect_events WHERE date >= ? AND date <= ? ORDER BY date, time, id`,
		from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query defect events: %w", err)
	}
	defer rows.Close()

	var events []model.DefectEvent
	for rows.Next() {
		var e model.DefectEvent
		var date, clock string
		if err := rows.Scan(&e.ID, &date, &clock, &e.Workstation, &e.Operator, &e.Tool, &e.Code, &e.Description, &e.Shift); err != nil {
			return nil, fmt.Errorf("defect event row: %w", err)
		}
		if e.Date, e.TimeOfDay, err = parseDateTime(date, clock); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// FetchTools returns the tool catalog, optionally filtered by operational
// area. Family and cost stay nullable; normalization is the engine's job.
func (s *Store) FetchTools(ctx context.Context, area string) ([]model.ToolCatalogEntry, error) {
	query := `SELECT id, name, COALESCE(area, ''), family, cost FROM tools`
	args := []any{}
	if area != "" {
		query += ` WHERE area = ?`
		args = append(args, area)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tools: %w", err)
	}
	defer rows.Close()

	var tools []model.ToolCatalogEntry
	for rows.Next() {
		var t model.ToolCatalogEntry
		if err := rows.Scan(&t.ID, &t.Name, &t.Area, &t.Family, &t.Cost); err != nil {
			return nil, fmt.Errorf("tool row: %w", err)
		}
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

// FetchWorkstations returns the workstation catalog. Target stays nullable.
func (s *Store) FetchWorkstations(ctx context.Context) ([]model.WorkstationCatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, number, COALESCE(label, ''), target FROM workstations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query workstations: %w", err)
	}
	defer rows.Close()

	var stations []model.WorkstationCatalogEntry
	for rows.Next() {
		var w model.WorkstationCatalogEntry
		if err := rows.Scan(&w.ID, &w.Number, &w.Label, &w.Target); err != nil {
			return nil, fmt.Errorf("workstation row: %w", err)
		}
		stations = append(stations, w)
	}
	return stations, rows.Err()
}

// InsertScanEvent records one good-piece scan and returns its id.
func (s *Store) InsertScanEvent(ctx context.Context, e model.ScanEvent) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scan_events (date, time, workstation, operator, tool, quantity, shift)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Date.Format(dateFormat), formatClock(e.TimeOfDay), e.Workstation, e.Operator, e.Tool, e.Quantity, e.Shift)
	if err != nil {
		return 0, fmt.Errorf("insert scan event: %w", err)
	}
	return res.LastInsertId()
}

// InsertDefectEvent records one defective piece and returns its id.
func (s *Store) InsertDefectEvent(ctx context.Context, e model.DefectEvent) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO defect_events (date, time, workstation, operator, tool, code, description, shift)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Date.Format(dateFormat), formatClock(e.TimeOfDay), e.Workstation, e.Operator, e.Tool, e.Code, e.Description, e.Shift)
	if err != nil {
		return 0, fmt.Errorf("insert defect event: %w", err)
	}
	return res.LastInsertId()
}

// UpsertTool inserts or updates a catalog tool. Used by the seeder.
func (s *Store) UpsertTool(ctx context.Context, t model.ToolCatalogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tools (name, area, family, cost) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET area = excluded.area, family = excluded.family, cost = excluded.cost`,
		t.Name, t.Area, t.Family, t.Cost)
	if err != nil {
		return fmt.Errorf("upsert tool %s: %w", t.Name, err)
	}
	return nil
}

// UpsertWorkstation inserts or updates a catalog workstation. Used by the
// seeder.
func (s *Store) UpsertWorkstation(ctx context.Context, w model.WorkstationCatalogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workstations (number, label, target) VALUES (?, ?, ?)
		 ON CONFLICT(number) DO UPDATE SET label = excluded.label, target = excluded.target`,
		w.Number, w.Label, w.Target)
	if err != nil {
		return fmt.Errorf("upsert workstation %s: %w", w.Number, err)
	}
	return nil
}

func parseDateTime(date, clock string) (time.Time, time.Duration, error) {
	d, err := time.Parse(dateFormat, date)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parse event date %q: %w", date, err)
	}
	t, err := time.Parse(timeFormat, clock)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parse event time %q: %w", clock, err)
	}
	tod := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
	return d, tod, nil
}

func formatClock(tod time.Duration) string {
	tod = tod % (24 * time.Hour)
	h := int(tod / time.Hour)
	m := int(tod % time.Hour / time.Minute)
	sec := int(tod % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}
