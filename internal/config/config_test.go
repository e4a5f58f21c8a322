package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Extraction.MinContentLength != 50 {
		t.Errorf("MinContentLength = %d, want 50", cfg.Extraction.MinContentLength)
	}
	if cfg.Waits.LoadSeconds != 15 {
		t.Errorf("LoadSeconds = %d, want 15", cfg.Waits.LoadSeconds)
	}
	if len(cfg.Selectors.Iframe) == 0 {
		t.Error("expected default iframe selectors")
	}
}

func TestLoadOverridesKeepUntouchedDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
output:
  file: custom_output.json
waits:
  load_seconds: 30
selectors:
  iframe:
    - "#other-iframe"
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Output.File != "custom_output.json" {
		t.Errorf("Output.File = %q", cfg.Output.File)
	}
	if cfg.Waits.LoadSeconds != 30 {
		t.Errorf("LoadSeconds = %d, want 30", cfg.Waits.LoadSeconds)
	}
	if got := cfg.Selectors.Iframe[0]; got != "#other-iframe" {
		t.Errorf("Iframe[0] = %q", got)
	}
	// Lists absent from the file keep their defaults.
	if cfg.Selectors.Tabs == "" {
		t.Error("tab selector default was lost")
	}
	if len(cfg.Selectors.Trigger) == 0 {
		t.Error("trigger selector defaults were lost")
	}
	if cfg.Extraction.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.Extraction.MaxRetries)
	}
}

func TestEnsureInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video_urls.txt")

	if err := EnsureInputFile(path); err != nil {
		t.Fatalf("EnsureInputFile error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# Enter one YouTube URL per line\n" {
		t.Errorf("placeholder content = %q", string(data))
	}

	// A second call must not clobber an existing file.
	if err := os.WriteFile(path, []byte("https://www.youtube.com/watch?v=abc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureInputFile(path); err != nil {
		t.Fatalf("EnsureInputFile error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "https://www.youtube.com/watch?v=abc\n" {
		t.Error("EnsureInputFile overwrote an existing file")
	}
}

func TestLoadURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	body := `# comment line
https://www.youtube.com/watch?v=one

  https://www.youtube.com/watch?v=two
#https://www.youtube.com/watch?v=commented
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	urls, err := LoadURLs(path)
	if err != nil {
		t.Fatalf("LoadURLs error: %v", err)
	}
	want := []string{
		"https://www.youtube.com/watch?v=one",
		"https://www.youtube.com/watch?v=two",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d: %v", len(urls), len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}
