// Package runner drives the batch loop: URLs in, persisted section
// results out, with retry escalation to a fresh browser on failure.
package runner

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/codebuildervaibhav/eightify-scraper/internal/browser"
	"github.com/codebuildervaibhav/eightify-scraper/internal/config"
	"github.com/codebuildervaibhav/eightify-scraper/internal/diag"
	"github.com/codebuildervaibhav/eightify-scraper/internal/extract"
	"github.com/codebuildervaibhav/eightify-scraper/internal/status"
	"github.com/codebuildervaibhav/eightify-scraper/internal/store"
	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

// RunStats summarizes one batch run.
type RunStats struct {
	Total     int
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
}

// Runner owns the per-run pipeline. history and tracker may be nil when
// run history or the monitoring server are disabled.
type Runner struct {
	cfg       *config.Config
	sessions  *browser.Manager
	navigator *browser.Navigator
	locator   *extract.Locator
	engine    *extract.Engine
	results   *store.ResultStore
	history   *store.HistoryDB
	tracker   *status.Tracker
	dumper    *diag.Dumper
	limiter   *rate.Limiter
	runID     string

	// scrape runs one attempt against one URL. Tests swap it out.
	scrape func(ctx context.Context, rawURL string, forceFresh bool) (*types.ExtractionResult, error)
}

// NewRunner wires the scraping pipeline.
func NewRunner(cfg *config.Config, sessions *browser.Manager, results *store.ResultStore,
	history *store.HistoryDB, tracker *status.Tracker, dumper *diag.Dumper) *Runner {

	perMinute := cfg.RateLimit.NavigationsPerMinute
	if perMinute <= 0 {
		perMinute = 6
	}

	r := &Runner{
		cfg:       cfg,
		sessions:  sessions,
		navigator: browser.NewNavigator(cfg.LoadWait()),
		locator:   extract.NewLocator(cfg),
		engine:    extract.NewEngine(cfg),
		results:   results,
		history:   history,
		tracker:   tracker,
		dumper:    dumper,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		runID:     uuid.New().String(),
	}
	r.scrape = r.scrapeOnce
	return r
}

// RunID identifies this batch run in history and backups.
func (r *Runner) RunID() string { return r.runID }

// ProcessURLs runs the batch loop. URLs already present in the result
// store are skipped, everything else is scraped and persisted immediately,
// failures that exhausted their retries included. A URL interrupted by
// cancellation mid-attempt is not persisted, so the next run retries it.
func (r *Runner) ProcessURLs(ctx context.Context, urls []string) RunStats {
	stats := RunStats{Total: len(urls)}

	if r.tracker != nil {
		r.tracker.BeginRun(r.runID, urls)
	}
	if r.history != nil {
		if err := r.history.StartRun(r.runID, r.cfg.Input.File, r.cfg.Output.File, len(urls)); err != nil {
			log.Printf("Failed to record run start: %v", err)
		}
	}

	for i, url := range urls {
		if ctx.Err() != nil {
			log.Println("Run cancelled, stopping URL processing")
			break
		}

		if r.results.Has(url) {
			log.Printf("[%d/%d] Skipping already processed URL: %s", i+1, len(urls), url)
			stats.Processed++
			stats.Skipped++
			if sections, ok := r.results.Get(url); ok {
				r.update(url, types.TaskSkipped, 0, "", sections.Filled())
			}
			continue
		}

		log.Printf("[%d/%d] Processing URL: %s", i+1, len(urls), url)

		res, attempts := r.processURL(ctx, url)

		// An attempt cut short by cancellation is no verdict on the URL.
		// Keep it out of the store so the next run retries it instead of
		// skipping it.
		if ctx.Err() != nil && !res.Succeeded() {
			log.Printf("Interrupted while processing %s, leaving it for the next run", url)
			break
		}

		r.results.Put(url, res.Sections)
		if err := r.results.Save(); err != nil {
			log.Printf("Failed to save results: %v", err)
		}

		stats.Processed++
		if res.Succeeded() {
			stats.Succeeded++
			log.Printf("✅ Successfully processed: %s", url)
			r.update(url, types.TaskCompleted, attempts, res.Message, res.Sections.Filled())
		} else {
			stats.Failed++
			log.Printf("❌ Failed to process: %s - %s", url, res.Message)
			r.update(url, types.TaskFailed, attempts, res.Message, res.Sections.Filled())
		}

		// Tab hygiene between URLs, only after a success and never after
		// the last one.
		if res.Succeeded() && i < len(urls)-1 {
			if sess := r.sessions.Current(); sess != nil {
				if err := sess.PrepareNextTab(); err != nil {
					log.Printf("Failed to prepare browser for next URL: %v", err)
					r.sessions.Release()
				}
			}
		}
	}

	if r.history != nil {
		if err := r.history.FinishRun(r.runID, stats.Processed, stats.Succeeded, stats.Failed, stats.Skipped); err != nil {
			log.Printf("Failed to record run finish: %v", err)
		}
	}

	log.Printf("Run complete: %d processed, %d succeeded, %d failed, %d skipped",
		stats.Processed, stats.Succeeded, stats.Failed, stats.Skipped)
	return stats
}

// processURL scrapes one URL with retry escalation: the first attempt
// reuses the current browser, every retry tears it down and starts fresh.
// Returns the final result and the index of the last attempt.
func (r *Runner) processURL(ctx context.Context, url string) (*types.ExtractionResult, int) {
	maxRetries := r.cfg.Extraction.MaxRetries

	res := &types.ExtractionResult{
		VideoURL: url,
		Status:   types.StatusError,
		Message:  "Cancelled before processing started",
	}
	lastAttempt := 0

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			break
		}

		forceFresh := attempt > 0
		if forceFresh {
			log.Printf("Retrying %s with a fresh browser (attempt %d/%d)", url, attempt, maxRetries)
			sleep(ctx, r.cfg.RetryBackoff())
		}

		r.update(url, types.TaskProcessing, attempt, "", 0)

		start := time.Now()
		res = r.attemptOnce(ctx, url, forceFresh)
		lastAttempt = attempt
		r.recordAttempt(url, attempt, forceFresh, res, time.Since(start))

		if res.Succeeded() {
			break
		}
		log.Printf("Attempt %d for %s failed: %s", attempt, url, res.Message)
	}

	return res, lastAttempt
}

// attemptOnce runs a single scrape attempt. A panic inside the browser
// stack fails the attempt instead of killing the batch.
func (r *Runner) attemptOnce(ctx context.Context, url string, forceFresh bool) (res *types.ExtractionResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("PANIC processing %s: %v\n%s", url, rec, string(debug.Stack()))
			res = &types.ExtractionResult{
				VideoURL: url,
				Status:   types.StatusError,
				Message:  fmt.Sprintf("Error during extraction: %v", rec),
			}
			r.sessions.Release()
		}
	}()

	out, err := r.scrape(ctx, url, forceFresh)
	if err != nil {
		return &types.ExtractionResult{
			VideoURL: url,
			Status:   types.StatusError,
			Message:  err.Error(),
		}
	}
	return out
}

// KeepBrowserOpen blocks until the user closes the browser window or ctx
// is cancelled, so the final page can be inspected after a run.
func (r *Runner) KeepBrowserOpen(ctx context.Context) {
	sess := r.sessions.Current()
	if sess == nil {
		return
	}

	log.Println("All URLs processed. Browser remains open, press Ctrl+C to exit.")

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !sess.Responsive(5 * time.Second) {
				log.Println("Browser was closed")
				return
			}
		}
	}
}

func (r *Runner) update(url, state string, attempt int, message string, sectionsFilled int) {
	if r.tracker == nil {
		return
	}
	r.tracker.Update(url, state, attempt, message, sectionsFilled)
}

func (r *Runner) recordAttempt(url string, attempt int, freshBrowser bool, res *types.ExtractionResult, took time.Duration) {
	if r.history == nil {
		return
	}
	err := r.history.RecordAttempt(r.runID, url, attempt, freshBrowser,
		res.Status, res.Message, res.Sections.Filled(), took)
	if err != nil {
		log.Printf("Failed to record attempt: %v", err)
	}
}

// sleep waits for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
