package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sablewood/driftplay/internal/discovery"
	"github.com/sablewood/driftplay/internal/shared"
)

// discoveryLogSchema creates the log table. Applied idempotently at open.
const discoveryLogSchema = `
	CREATE TABLE IF NOT EXISTS discovery_log (
		id TEXT PRIMARY KEY,
		seed_url TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_discovery_log_created_at ON discovery_log(created_at);
`

// LoggedCandidate is one persisted discovery result.
type LoggedCandidate struct {
	ID        string    `json:"id"`
	SeedURL   string    `json:"seed_url"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// DiscoveryLogRepository persists winning discovery candidates to SQLite.
//
// Implements autoplay.Recorder. Recording is best-effort from the caller's
// perspective; errors are returned but never disturb playback.
type DiscoveryLogRepository struct {
	db *sql.DB
}

// NewDiscoveryLogRepository creates a repository and ensures the schema exists.
func NewDiscoveryLogRepository(db *sql.DB) (*DiscoveryLogRepository, error) {
	if _, err := db.Exec(discoveryLogSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure discovery_log schema: %w", err)
	}
	return &DiscoveryLogRepository{db: db}, nil
}

// Record inserts one winning candidate with a generated ID and the current time.
func (r *DiscoveryLogRepository) Record(seed string, winner discovery.Candidate) error {
	query := `
		INSERT INTO discovery_log (id, seed_url, url, title, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, shared.GenerateID(), seed, winner.URL, winner.Title, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert discovery log entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (r *DiscoveryLogRepository) Recent(limit int) ([]LoggedCandidate, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, seed_url, url, title, created_at
		FROM discovery_log
		ORDER BY created_at DESC, id
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query discovery log: %w", err)
	}
	defer rows.Close()

	var entries []LoggedCandidate
	for rows.Next() {
		var e LoggedCandidate
		if err := rows.Scan(&e.ID, &e.SeedURL, &e.URL, &e.Title, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan discovery log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read discovery log rows: %w", err)
	}

	return entries, nil
}

// CountForSeed reports how many tracks have been discovered from one seed URL.
func (r *DiscoveryLogRepository) CountForSeed(seed string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM discovery_log WHERE seed_url = ?`, seed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count discovery log entries: %w", err)
	}
	return count, nil
}
