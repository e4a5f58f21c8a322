package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryDB records run and per-URL attempt history in SQLite.
type HistoryDB struct {
	db *sql.DB
}

// NewHistoryDB opens (or creates) the history database.
func NewHistoryDB(dbPath string) (*HistoryDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		input_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		total_urls INTEGER NOT NULL,
		processed INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS url_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		video_url TEXT NOT NULL,
		attempt INTEGER NOT NULL,
		fresh_browser INTEGER NOT NULL,
		status TEXT NOT NULL,
		message TEXT,
		sections_filled INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_run ON url_attempts(run_id);
	CREATE INDEX IF NOT EXISTS idx_attempts_url ON url_attempts(video_url);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return &HistoryDB{db: db}, nil
}

// StartRun records the beginning of a batch run.
func (h *HistoryDB) StartRun(runID, inputFile, outputFile string, totalURLs int) error {
	query := `
	INSERT INTO runs (id, started_at, input_file, output_file, total_urls)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err := h.db.Exec(query, runID, time.Now(), inputFile, outputFile, totalURLs)
	if err != nil {
		return fmt.Errorf("failed to record run start: %v", err)
	}

	return nil
}

// FinishRun stamps a run as finished with its final counters.
func (h *HistoryDB) FinishRun(runID string, processed, succeeded, failed, skipped int) error {
	query := `
	UPDATE runs SET finished_at = ?, processed = ?, succeeded = ?, failed = ?, skipped = ?
	WHERE id = ?
	`

	_, err := h.db.Exec(query, time.Now(), processed, succeeded, failed, skipped, runID)
	if err != nil {
		return fmt.Errorf("failed to record run finish: %v", err)
	}

	return nil
}

// RecordAttempt stores one extraction attempt for one URL.
func (h *HistoryDB) RecordAttempt(
	runID, videoURL string, attempt int, freshBrowser bool,
	status, message string, sectionsFilled int, duration time.Duration,
) error {
	query := `
	INSERT INTO url_attempts (run_id, video_url, attempt, fresh_browser, status, message, sections_filled, duration_ms, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := h.db.Exec(query, runID, videoURL, attempt, freshBrowser,
		status, message, sectionsFilled, duration.Milliseconds(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to record attempt: %v", err)
	}

	return nil
}

// ListRuns returns the most recent runs, newest first.
func (h *HistoryDB) ListRuns(limit int) ([]map[string]interface{}, error) {
	query := `
	SELECT id, started_at, finished_at, input_file, output_file, total_urls, processed, succeeded, failed, skipped
	FROM runs ORDER BY started_at DESC LIMIT ?
	`

	rows, err := h.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %v", err)
	}
	defer rows.Close()

	var runs []map[string]interface{}

	for rows.Next() {
		var (
			id, inputFile, outputFile                    string
			startedAt                                    time.Time
			finishedAt                                   sql.NullTime
			totalURLs, processed, succeeded, failed, skipped int
		)

		if err := rows.Scan(&id, &startedAt, &finishedAt, &inputFile, &outputFile,
			&totalURLs, &processed, &succeeded, &failed, &skipped); err != nil {
			continue
		}

		run := map[string]interface{}{
			"id":          id,
			"started_at":  startedAt,
			"input_file":  inputFile,
			"output_file": outputFile,
			"total_urls":  totalURLs,
			"processed":   processed,
			"succeeded":   succeeded,
			"failed":      failed,
			"skipped":     skipped,
		}
		if finishedAt.Valid {
			run["finished_at"] = finishedAt.Time
		}

		runs = append(runs, run)
	}

	return runs, nil
}

// ListAttempts returns every attempt recorded for one run, oldest first.
func (h *HistoryDB) ListAttempts(runID string) ([]map[string]interface{}, error) {
	query := `
	SELECT video_url, attempt, fresh_browser, status, message, sections_filled, duration_ms, created_at
	FROM url_attempts WHERE run_id = ? ORDER BY id ASC
	`

	rows, err := h.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %v", err)
	}
	defer rows.Close()

	var attempts []map[string]interface{}

	for rows.Next() {
		var (
			videoURL, status         string
			message                  sql.NullString
			attempt, sectionsFilled  int
			freshBrowser             bool
			durationMS               int64
			createdAt                time.Time
		)

		if err := rows.Scan(&videoURL, &attempt, &freshBrowser, &status,
			&message, &sectionsFilled, &durationMS, &createdAt); err != nil {
			continue
		}

		attempts = append(attempts, map[string]interface{}{
			"video_url":       videoURL,
			"attempt":         attempt,
			"fresh_browser":   freshBrowser,
			"status":          status,
			"message":         message.String,
			"sections_filled": sectionsFilled,
			"duration_ms":     durationMS,
			"created_at":      createdAt,
		})
	}

	return attempts, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}
