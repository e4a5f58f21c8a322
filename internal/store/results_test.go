package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

func TestOpenResultsMissingFile(t *testing.T) {
	s := OpenResults(filepath.Join(t.TempDir(), "nope.json"))
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
}

func TestOpenResultsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := OpenResults(path)
	if s.Len() != 0 {
		t.Errorf("expected empty store for corrupt file, got %d entries", s.Len())
	}
}

func TestPutSaveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.json")

	s := OpenResults(path)
	s.Put("https://www.youtube.com/watch?v=abc12345678", types.Sections{
		KeyInsights: "insight text",
		Transcript:  "00:01\nHello",
	})
	s.Put("https://www.youtube.com/watch?v=failed000000", types.Sections{})
	if err := s.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	reloaded := OpenResults(path)
	if reloaded.Len() != 2 {
		t.Fatalf("reloaded %d entries, want 2", reloaded.Len())
	}
	if !reloaded.Has("https://www.youtube.com/watch?v=failed000000") {
		t.Error("failed URL was not persisted; it would be retried on resume")
	}
	got, ok := reloaded.Get("https://www.youtube.com/watch?v=abc12345678")
	if !ok || got.KeyInsights != "insight text" {
		t.Errorf("reloaded sections = %+v", got)
	}
}

func TestSaveShapeAndEscaping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	s := OpenResults(path)
	s.Put("https://www.youtube.com/watch?v=abc", types.Sections{
		KeyInsights: "café <tags> & ampersands",
	})
	if err := s.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)

	if !strings.Contains(body, "café") {
		t.Error("non-ASCII text was escaped")
	}
	if !strings.Contains(body, "<tags>") {
		t.Error("HTML characters were escaped")
	}
	if !strings.Contains(body, "\n  ") {
		t.Error("output is not pretty-printed")
	}

	// Each URL value carries exactly the four section keys.
	var doc map[string]map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	entry := doc["https://www.youtube.com/watch?v=abc"]
	if len(entry) != 4 {
		t.Errorf("entry has %d keys, want 4: %v", len(entry), entry)
	}
	for _, key := range []string{"key_insights", "timestamped_summary", "top_comments", "transcript"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("entry missing key %q", key)
		}
	}
}
