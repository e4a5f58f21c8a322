package browser

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root, extID, version, body string) {
	t.Helper()
	dir := filepath.Join(root, "Default", "Extensions", extID, version)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverExtensionIDs(t *testing.T) {
	root := t.TempDir()

	writeManifest(t, root, "aaaabbbbcccc", "1.2.3_0",
		`{"name": "Eightify: AI Summaries", "description": "Summarize videos"}`)
	writeManifest(t, root, "ddddeeeeffff", "4.0.0_0",
		`{"name": "Dark Reader", "description": "Dark mode for every website"}`)
	writeManifest(t, root, "gggghhhhiiii", "2.0.0_0",
		`{"name": "Notes", "description": "YouTube transcript helper"}`)
	writeManifest(t, root, "jjjjkkkkllll", "1.0.0_0", `{not json`)

	ids := DiscoverExtensionIDs(root, "Default")
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2: %v", len(ids), ids)
	}

	want := map[string]bool{"aaaabbbbcccc": true, "gggghhhhiiii": true}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected extension id %q", id)
		}
	}
}

func TestDiscoverExtensionIDsMissingDir(t *testing.T) {
	if ids := DiscoverExtensionIDs(filepath.Join(t.TempDir(), "nope"), "Default"); ids != nil {
		t.Errorf("expected nil for missing extensions dir, got %v", ids)
	}
}

func TestDiscoverExtensionIDsDedupesVersions(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "aaaabbbbcccc", "1.0.0_0", `{"name": "Eightify"}`)
	writeManifest(t, root, "aaaabbbbcccc", "1.1.0_0", `{"name": "Eightify"}`)

	ids := DiscoverExtensionIDs(root, "Default")
	if len(ids) != 1 {
		t.Fatalf("extension with two installed versions reported %d times", len(ids))
	}
}
