// Package store persists extraction results and run history.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

// ResultStore is the resumability ledger: every processed URL maps to its
// four section texts. It is persisted after every completed URL so an
// interrupted run picks up exactly where it stopped, and a URL already
// present is never reprocessed. The monitoring server reads it while the
// run loop writes, so access is guarded.
type ResultStore struct {
	mu      sync.RWMutex
	path    string
	results map[string]types.Sections
}

// OpenResults loads existing results from path. A missing file starts an
// empty store; an unreadable one is logged and treated the same, matching
// the rest of the pipeline's any-data-beats-no-data stance.
func OpenResults(path string) *ResultStore {
	s := &ResultStore{
		path:    path,
		results: make(map[string]types.Sections),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error loading existing results: %v", err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.results); err != nil {
		log.Printf("Error loading existing results: %v", err)
		s.results = make(map[string]types.Sections)
		return s
	}

	log.Printf("Loaded existing results from %s with %d entries", path, len(s.results))
	return s
}

// Has reports whether url was already processed in this or a prior run.
func (s *ResultStore) Has(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.results[url]
	return ok
}

// Put records the sections for url. Failed extractions are recorded too,
// with empty strings: a URL that failed after all retries is done, not
// pending.
func (s *ResultStore) Put(url string, sections types.Sections) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[url] = sections
}

// Get returns the stored sections for url.
func (s *ResultStore) Get(url string) (types.Sections, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sections, ok := s.results[url]
	return sections, ok
}

// Len returns the number of stored URLs.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// All returns a copy of every stored result.
func (s *ResultStore) All() map[string]types.Sections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]types.Sections, len(s.results))
	for url, sections := range s.results {
		out[url] = sections
	}
	return out
}

// Save writes the whole store to disk, pretty-printed with non-ASCII text
// kept literal. The write goes through a temp file and rename so a crash
// mid-write never corrupts results already on disk.
func (s *ResultStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %v", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".results-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp results file: %v", err)
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.results); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode results: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp results file: %v", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace results file: %v", err)
	}

	log.Printf("Updated results saved to %s", s.path)
	return nil
}
