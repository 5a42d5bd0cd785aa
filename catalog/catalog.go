// Package catalog records scrape and upload activity in a local SQLite
// database. It is observability only: nothing in the pipeline consults
// it when deciding what to scrape or upload.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Catalog is a run-history and episode-sighting store.
type Catalog struct {
	db *sql.DB
}

// Run is one recorded CLI batch.
type Run struct {
	ID         uuid.UUID
	Kind       string
	StartedAt  time.Time
	FinishedAt *time.Time
	Found      int
	Succeeded  int
}

// Sighting is one episode URL observed during scraping.
type Sighting struct {
	URL         string
	Date        string
	Dir         string
	FirstSeenAt time.Time
	LastSeenAt  time.Time
}

// Open opens (or creates) the catalog database at the given path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	cat := &Catalog{db: db}
	if err := cat.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return cat, nil
}

// initSchema creates the catalog tables if they don't exist.
func (c *Catalog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		found INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS sightings (
		url TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		dir TEXT NOT NULL,
		first_seen_at TIMESTAMP NOT NULL,
		last_seen_at TIMESTAMP NOT NULL
	);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// StartRun records the beginning of a batch and returns its id.
func (c *Catalog) StartRun(kind string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := c.db.Exec(
		"INSERT INTO runs (run_id, kind, started_at) VALUES (?, ?, ?)",
		id.String(), kind, time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// FinishRun records a batch's outcome counts.
func (c *Catalog) FinishRun(id uuid.UUID, found, succeeded int) error {
	_, err := c.db.Exec(
		"UPDATE runs SET finished_at = ?, found = ?, succeeded = ? WHERE run_id = ?",
		time.Now().UTC(), found, succeeded, id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, most recently started first.
func (c *Catalog) RecentRuns(limit int) ([]Run, error) {
	rows, err := c.db.Query(
		"SELECT run_id, kind, started_at, finished_at, found, succeeded FROM runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			idText   string
			finished sql.NullTime
		)
		if err := rows.Scan(&idText, &run.Kind, &run.StartedAt, &finished, &run.Found, &run.Succeeded); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", idText, err)
		}
		run.ID = id
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RecordSighting upserts an episode URL observed during a scrape.
func (c *Catalog) RecordSighting(url string, date time.Time, dir string) error {
	now := time.Now().UTC()
	_, err := c.db.Exec(`
		INSERT INTO sightings (url, date, dir, first_seen_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET dir = excluded.dir, last_seen_at = excluded.last_seen_at`,
		url, date.Format("2006-01-02"), dir, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to record sighting: %w", err)
	}
	return nil
}

// CountSightings returns the number of distinct episode URLs seen.
func (c *Catalog) CountSightings() (int, error) {
	var count int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM sightings").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sightings: %w", err)
	}
	return count, nil
}
