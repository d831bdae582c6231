package player

import "sync"

// Session is the shared title-lookup table for the current player session,
// mapping URL to display title. Safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	titles map[string]string
}

// NewSession creates an empty Session.
func NewSession() *Session {
	return &Session{titles: map[string]string{}}
}

// Set stores or replaces the title for a URL.
func (s *Session) Set(url, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titles[url] = title
}

// Get returns the stored title for a URL.
func (s *Session) Get(url string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	title, ok := s.titles[url]
	return title, ok
}

// Len reports the number of stored titles.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.titles)
}
