// Package storage provides SQLite-based persistence for level and run times.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for time persistence.
type Store struct {
	db *sql.DB
}

// LevelTime is the best recorded time for one level of a pack.
type LevelTime struct {
	Pack      string
	Level     int
	Elapsed   time.Duration
	RunID     string
	CreatedAt time.Time
}

// Run is a completed play-through of a whole pack.
type Run struct {
	ID        string
	Pack      string
	Total     time.Duration
	Levels    int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS level_times (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pack TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			millis INTEGER NOT NULL,
			run_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_level_times_best ON level_times(pack, ordinal, millis);

		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			pack TEXT NOT NULL,
			total_millis INTEGER NOT NULL,
			levels INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(pack, total_millis);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveLevelTime records how long a level took within a run.
func (s *Store) SaveLevelTime(ctx context.Context, pack string, level int, elapsed time.Duration, runID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO level_times (pack, ordinal, millis, run_id) VALUES (?, ?, ?, ?)",
		pack, level, elapsed.Milliseconds(), runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save level time: %w", err)
	}
	return nil
}

// BestLevelTimes returns the fastest recorded time of every level in the
// pack, ordered by level.
func (s *Store) BestLevelTimes(ctx context.Context, pack string) ([]LevelTime, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.pack, t.ordinal, t.millis, t.run_id, t.created_at
		 FROM level_times t
		 WHERE t.pack = ?
		   AND t.id = (
		     SELECT b.id FROM level_times b
		     WHERE b.pack = t.pack AND b.ordinal = t.ordinal
		     ORDER BY b.millis ASC, b.id ASC
		     LIMIT 1)
		 ORDER BY t.ordinal`,
		pack,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level times: %w", err)
	}
	defer rows.Close()

	var entries []LevelTime
	for rows.Next() {
		var e LevelTime
		var millis int64
		var createdAt any
		if err := rows.Scan(&e.Pack, &e.Level, &millis, &e.RunID, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Elapsed = time.Duration(millis) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// SaveRun records a completed run. Saving the same run twice keeps the
// first record.
func (s *Store) SaveRun(ctx context.Context, runID, pack string, total time.Duration, levels int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, pack, total_millis, levels) VALUES (?, ?, ?, ?)
		 ON CONFLICT(run_id) DO NOTHING`,
		runID, pack, total.Milliseconds(), levels,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}
	return nil
}

// TopRuns returns the fastest runs of a pack.
func (s *Store) TopRuns(ctx context.Context, pack string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, pack, total_millis, levels, created_at
		 FROM runs
		 WHERE pack = ?
		 ORDER BY total_millis ASC
		 LIMIT ?`,
		pack, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var millis int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Pack, &millis, &r.Levels, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Total = time.Duration(millis) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// ClearTimes deletes every level time and run of a pack.
func (s *Store) ClearTimes(ctx context.Context, pack string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM level_times WHERE pack = ?", pack); err != nil {
		return fmt.Errorf("storage: cannot clear level times: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE pack = ?", pack); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
