package runner

import (
	"context"
	"fmt"
	"log"

	"github.com/chromedp/chromedp"

	"github.com/codebuildervaibhav/eightify-scraper/internal/browser"
	"github.com/codebuildervaibhav/eightify-scraper/internal/transcript"
	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

// scrapeOnce drives one attempt end to end: session, navigation, iframe
// discovery, section extraction. Pipeline failures come back as error
// results so the retry loop can escalate; a non-nil error means the
// attempt could not start at all.
func (r *Runner) scrapeOnce(ctx context.Context, rawURL string, forceFresh bool) (*types.ExtractionResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	sess, err := r.sessions.Acquire(ctx, forceFresh)
	if err != nil {
		return nil, err
	}

	res := &types.ExtractionResult{VideoURL: rawURL}
	videoID := browser.ExtractVideoID(rawURL)

	navURL := browser.NormalizeWatchURL(rawURL)
	log.Printf("Using URL with time reset: %s", navURL)

	if _, err := r.navigator.LoadVideo(sess.Ctx(), navURL); err != nil {
		res.Status = types.StatusError
		res.Message = fmt.Sprintf("Error during navigation: %v", err)
		return res, nil
	}

	r.locator.WaitForInjection(sess.Ctx())

	surface, err := r.locator.Enter(sess.Ctx())
	if err != nil {
		res.Status = types.StatusError
		res.Message = "Could not locate Eightify data"
		res.NextSteps = "1. Open the video in your normal browser and verify Eightify is working\n" +
			"2. Check the saved HTML and screenshots for debugging"
		r.dumpDiagnostics(sess.Ctx(), videoID, rawURL, "iframe", err)
		return res, nil
	}
	defer surface.Exit()

	sections, err := r.engine.ExtractSections(surface)
	res.Sections = sections
	if err != nil {
		res.Status = types.StatusError
		res.Message = fmt.Sprintf("Error during extraction: %v", err)
		res.NextSteps = "Check the saved HTML for debugging"
		r.dumpDiagnostics(sess.Ctx(), videoID, rawURL, "extraction", err)
		return res, nil
	}

	if raw := sections.Get(types.Transcript); raw != "" {
		res.StructuredTranscript = transcript.Structure(raw)
	}

	res.DeriveStatus()
	return res, nil
}

// dumpDiagnostics saves the page HTML and a screenshot from the main tab
// so a failed URL can be investigated after the run.
func (r *Runner) dumpDiagnostics(ctx context.Context, videoID, url, stage string, cause error) {
	if r.dumper == nil {
		return
	}

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		log.Printf("Failed to capture page source: %v", err)
	} else {
		meta := map[string]interface{}{
			"url":   url,
			"stage": stage,
			"error": cause.Error(),
		}
		if _, err := r.dumper.SavePageSource(videoID, html, meta); err != nil {
			log.Printf("Failed to save page source: %v", err)
		}
	}

	var shot []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&shot)); err != nil {
		log.Printf("Failed to capture screenshot: %v", err)
		return
	}
	if _, err := r.dumper.SaveScreenshot(videoID, shot); err != nil {
		log.Printf("Failed to save screenshot: %v", err)
	}
}
