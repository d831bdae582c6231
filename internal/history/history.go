// Package history persists the play history as a JSON array at a per-user
// data path.
//
// The store is plain CRUD over one file: [Store.Get], [Store.Add], and
// [Store.Clear]. A missing or corrupt file is treated as an empty history
// and is never fatal. Add dedups by URL, prepends, stamps the current time,
// and caps the list at the configured maximum.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sablewood/driftplay/internal/shared"
)

// DefaultMaxEntries caps the history when no limit is configured.
const DefaultMaxEntries = 100

// Entry is one played track.
type Entry struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Duration  float64   `json:"duration"` // seconds, 0 when unknown
	Timestamp time.Time `json:"timestamp"`
}

// Store reads and writes the history file. Safe for concurrent use within
// one process; writes go through a temp file and rename.
type Store struct {
	path   string
	max    int
	logger *log.Logger

	mu  sync.Mutex
	now func() time.Time
}

// DefaultPath returns the per-user history file location.
func DefaultPath() (string, error) {
	dir, err := shared.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// NewStore creates a Store for the given path. A max of 0 uses
// [DefaultMaxEntries].
func NewStore(path string, max int, logger *log.Logger) *Store {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{path: path, max: max, logger: logger, now: time.Now}
}

// Get returns the history, most recent first. A missing or unreadable file
// yields an empty slice.
func (s *Store) Get() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add records a played track at the head of the history. Any existing entry
// with the same URL is removed first, the timestamp is stamped with the
// current time, and the result is capped at the store's maximum.
func (s *Store) Add(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Timestamp = s.now()

	entries := s.load()
	kept := make([]Entry, 0, len(entries)+1)
	kept = append(kept, entry)
	for _, e := range entries {
		if e.URL != entry.URL {
			kept = append(kept, e)
		}
	}

	if len(kept) > s.max {
		kept = kept[:s.max]
	}

	return s.save(kept)
}

// Clear removes the history file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *Store) load() []Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warnf("failed to read history file: %v", err)
		}
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warnf("history file is corrupt, treating as empty: %v", err)
		return []Entry{}
	}
	return entries
}

func (s *Store) save(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
