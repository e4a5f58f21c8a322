package runner

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/codebuildervaibhav/eightify-scraper/internal/browser"
	"github.com/codebuildervaibhav/eightify-scraper/internal/config"
	"github.com/codebuildervaibhav/eightify-scraper/internal/store"
	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Extraction.MaxRetries = 2
	cfg.Extraction.RetryBackoffSeconds = 0
	return cfg
}

func testRunner(t *testing.T, cfg *config.Config) (*Runner, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.json")
	results := store.OpenResults(path)
	r := NewRunner(cfg, browser.NewManager(cfg), results, nil, nil, nil)
	return r, path
}

func failedResult(url, message string) *types.ExtractionResult {
	return &types.ExtractionResult{
		VideoURL: url,
		Status:   types.StatusError,
		Message:  message,
	}
}

func successResult(url string) *types.ExtractionResult {
	res := &types.ExtractionResult{VideoURL: url}
	res.Sections.Set(types.KeyInsights, "some extracted insight text long enough to matter")
	res.DeriveStatus()
	return res
}

func TestProcessURLEscalatesToFreshBrowser(t *testing.T) {
	r, _ := testRunner(t, testConfig())

	var freshSequence []bool
	r.scrape = func(ctx context.Context, url string, forceFresh bool) (*types.ExtractionResult, error) {
		freshSequence = append(freshSequence, forceFresh)
		return failedResult(url, "Could not locate Eightify data"), nil
	}

	res, attempts := r.processURL(context.Background(), "https://www.youtube.com/watch?v=aaaaaaaaaaa")

	if res.Succeeded() {
		t.Fatal("expected failure after exhausting retries")
	}
	if attempts != 2 {
		t.Fatalf("expected last attempt index 2, got %d", attempts)
	}
	want := []bool{false, true, true}
	if !reflect.DeepEqual(freshSequence, want) {
		t.Fatalf("forceFresh sequence = %v, want %v", freshSequence, want)
	}
}

func TestProcessURLStopsOnFirstSuccess(t *testing.T) {
	r, _ := testRunner(t, testConfig())

	calls := 0
	r.scrape = func(ctx context.Context, url string, forceFresh bool) (*types.ExtractionResult, error) {
		calls++
		if calls == 1 {
			return failedResult(url, "Error during extraction: tab content missing"), nil
		}
		return successResult(url), nil
	}

	res, attempts := r.processURL(context.Background(), "https://www.youtube.com/watch?v=aaaaaaaaaaa")

	if !res.Succeeded() {
		t.Fatalf("expected success on retry, got %q", res.Message)
	}
	if calls != 2 || attempts != 1 {
		t.Fatalf("expected 2 calls ending at attempt 1, got calls=%d attempts=%d", calls, attempts)
	}
}

func TestProcessURLsSkipsAlreadyProcessed(t *testing.T) {
	cfg := testConfig()
	path := filepath.Join(t.TempDir(), "results.json")

	pre := store.OpenResults(path)
	var done types.Sections
	done.Set(types.KeyInsights, "insights saved by an earlier run")
	pre.Put("https://www.youtube.com/watch?v=aaaaaaaaaaa", done)
	if err := pre.Save(); err != nil {
		t.Fatalf("failed to seed results: %v", err)
	}

	results := store.OpenResults(path)
	r := NewRunner(cfg, browser.NewManager(cfg), results, nil, nil, nil)

	var scraped []string
	r.scrape = func(ctx context.Context, url string, forceFresh bool) (*types.ExtractionResult, error) {
		scraped = append(scraped, url)
		return successResult(url), nil
	}

	urls := []string{
		"https://www.youtube.com/watch?v=aaaaaaaaaaa",
		"https://www.youtube.com/watch?v=bbbbbbbbbbb",
	}
	stats := r.ProcessURLs(context.Background(), urls)

	if stats.Skipped != 1 || stats.Succeeded != 1 || stats.Processed != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(scraped) != 1 || scraped[0] != urls[1] {
		t.Fatalf("expected only the new URL scraped, got %v", scraped)
	}

	reloaded := store.OpenResults(path)
	if !reloaded.Has(urls[1]) {
		t.Fatal("expected new URL persisted to results")
	}
}

func TestFailedURLPersistedForResume(t *testing.T) {
	cfg := testConfig()
	cfg.Extraction.MaxRetries = 1

	r, path := testRunner(t, cfg)
	r.scrape = func(ctx context.Context, url string, forceFresh bool) (*types.ExtractionResult, error) {
		return failedResult(url, "Could not locate Eightify data"), nil
	}

	url := "https://www.youtube.com/watch?v=aaaaaaaaaaa"
	stats := r.ProcessURLs(context.Background(), []string{url})

	if stats.Failed != 1 {
		t.Fatalf("expected 1 failed, got %+v", stats)
	}

	// A failed URL is done, not pending: a rerun must skip it.
	reloaded := store.OpenResults(path)
	sections, ok := reloaded.Get(url)
	if !ok {
		t.Fatal("expected failed URL recorded in results")
	}
	if sections.Filled() != 0 {
		t.Fatalf("expected empty sections for failed URL, got %d filled", sections.Filled())
	}
}

func TestProcessURLsStopsOnCancel(t *testing.T) {
	r, _ := testRunner(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	r.scrape = func(_ context.Context, url string, forceFresh bool) (*types.ExtractionResult, error) {
		cancel() // simulate Ctrl+C mid-run
		return successResult(url), nil
	}

	urls := []string{
		"https://www.youtube.com/watch?v=aaaaaaaaaaa",
		"https://www.youtube.com/watch?v=bbbbbbbbbbb",
		"https://www.youtube.com/watch?v=ccccccccccc",
	}
	stats := r.ProcessURLs(ctx, urls)

	if stats.Processed != 1 {
		t.Fatalf("expected run to stop after the in-flight URL, got %+v", stats)
	}
}

func TestCancelledURLLeftPendingForResume(t *testing.T) {
	cfg := testConfig()
	path := filepath.Join(t.TempDir(), "results.json")

	results := store.OpenResults(path)
	r := NewRunner(cfg, browser.NewManager(cfg), results, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	r.scrape = func(_ context.Context, url string, forceFresh bool) (*types.ExtractionResult, error) {
		cancel() // Ctrl+C lands while the attempt is in flight
		return failedResult(url, "Error during navigation: context canceled"), nil
	}

	url := "https://www.youtube.com/watch?v=aaaaaaaaaaa"
	stats := r.ProcessURLs(ctx, []string{url})

	if stats.Failed != 0 {
		t.Fatalf("interrupted URL counted as a failure: %+v", stats)
	}
	if store.OpenResults(path).Has(url) {
		t.Fatal("interrupted URL persisted, a rerun would skip it")
	}

	// The rerun owes this URL a real attempt, not a skip.
	rescraped := 0
	r2 := NewRunner(cfg, browser.NewManager(cfg), store.OpenResults(path), nil, nil, nil)
	r2.scrape = func(_ context.Context, u string, _ bool) (*types.ExtractionResult, error) {
		rescraped++
		return successResult(u), nil
	}
	stats = r2.ProcessURLs(context.Background(), []string{url})

	if rescraped != 1 || stats.Skipped != 0 || stats.Succeeded != 1 {
		t.Fatalf("expected the interrupted URL rescraped on rerun, got calls=%d stats=%+v", rescraped, stats)
	}
}

func TestScrapeErrorBecomesFailureResult(t *testing.T) {
	r, _ := testRunner(t, testConfig())

	r.scrape = func(ctx context.Context, url string, forceFresh bool) (*types.ExtractionResult, error) {
		panic("tab crashed underneath us")
	}

	res := r.attemptOnce(context.Background(), "https://www.youtube.com/watch?v=aaaaaaaaaaa", false)
	if res.Succeeded() {
		t.Fatal("expected panic to produce a failure result")
	}
	if res.Message == "" {
		t.Fatal("expected panic message carried into the result")
	}
}
