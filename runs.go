package svtcrawl

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run records one tool invocation: what command ran, when, and what it
// accomplished.
type Run struct {
	ID          uuid.UUID `json:"id"`
	Command     string    `json:"command"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	NewArticles int       `json:"new_articles"`
	FailedURLs  int       `json:"failed_urls"`
}

// RunStore keeps the run history in SQLite.
type RunStore struct {
	db *sql.DB
}

// NewRunStore opens (and if needed initializes) the run history database at
// dbPath, creating parent directories as needed.
func NewRunStore(dbPath string) (*RunStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", dbPath, err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &RunStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (rs *RunStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		new_articles INTEGER DEFAULT 0,
		failed_urls INTEGER DEFAULT 0
	);
	`

	_, err := rs.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (rs *RunStore) Close() error {
	return rs.db.Close()
}

// Record inserts a finished run and returns it with a fresh id.
func (rs *RunStore) Record(command string, startedAt, finishedAt time.Time, newArticles, failedURLs int) (*Run, error) {
	run := &Run{
		ID:          uuid.New(),
		Command:     command,
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
		NewArticles: newArticles,
		FailedURLs:  failedURLs,
	}

	query := `
		INSERT INTO runs (run_id, command, started_at, finished_at, new_articles, failed_urls)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := rs.db.Exec(query,
		run.ID.String(),
		run.Command,
		run.StartedAt.Format(time.RFC3339),
		run.FinishedAt.Format(time.RFC3339),
		run.NewArticles,
		run.FailedURLs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// List returns the most recent runs, newest first.
func (rs *RunStore) List(limit int) ([]Run, error) {
	query := `
		SELECT run_id, command, started_at, finished_at, new_articles, failed_urls
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := rs.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var idStr, startedStr, finishedStr string
		if err := rows.Scan(&idStr, &run.Command, &startedStr, &finishedStr, &run.NewArticles, &run.FailedURLs); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.ID, _ = uuid.Parse(idStr)
		run.StartedAt, _ = time.Parse(time.RFC3339, startedStr)
		run.FinishedAt, _ = time.Parse(time.RFC3339, finishedStr)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
