package extract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/codebuildervaibhav/eightify-scraper/internal/config"
	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

// ErrExtractionEmpty means the surface was entered but no section yielded
// usable text.
var ErrExtractionEmpty = errors.New("no section content extracted")

const readyStateExpr = `document.readyState === 'complete'`

// Engine walks the extension UI inside an entered surface and pulls out the
// four section texts. Every step is fault-isolated: a failed probe logs and
// moves on, it never aborts the remaining sections.
type Engine struct {
	selectors      *config.Selectors
	minLen         int
	processingWait time.Duration
	tabContentWait time.Duration
	allContentWait time.Duration
}

func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		selectors:      &cfg.Selectors,
		minLen:         cfg.Extraction.MinContentLength,
		processingWait: cfg.ProcessingWait(),
		tabContentWait: cfg.TabContentWait(),
		allContentWait: cfg.AllContentWait(),
	}
}

// kindsToProcess bounds the per-tab loop: never more logical sections than
// tabs physically present.
func kindsToProcess(tabCount int) []types.SectionKind {
	kinds := types.SectionKinds()
	if tabCount < len(kinds) {
		return kinds[:tabCount]
	}
	return kinds
}

// runStep executes one probe against the surface, recovering the frame
// context once when it was lost mid-step. After a failed recovery the
// surface is dead and every remaining step short-circuits.
func (e *Engine) runStep(s *Surface, step string, fn func(ctx context.Context) error) error {
	if s.Dead() {
		return fmt.Errorf("%w: skipping %s", ErrContextLost, step)
	}

	err := fn(s.Ctx())
	if err == nil || !isContextLost(err) {
		return err
	}

	log.Printf("Frame context lost during %s: %v", step, err)
	if !s.Recover() {
		return fmt.Errorf("%w: %s", ErrContextLost, step)
	}
	return fn(s.Ctx())
}

// ExtractSections runs the full preflight / trigger / per-tab / direct
// extraction sequence and returns whatever sections it could fill. The
// returned error is informational (all-empty); partial data is still valid.
func (e *Engine) ExtractSections(s *Surface) (types.Sections, error) {
	var sections types.Sections

	preflighted := e.preflight(s)
	if !preflighted {
		e.clickMainTrigger(s)
	}

	e.extractFromTabs(s, &sections, preflighted)

	if missing := sections.Missing(); len(missing) > 0 {
		e.directExtract(s, &sections, missing)
	}

	if sections.Filled() == 0 {
		return sections, ErrExtractionEmpty
	}
	return sections, nil
}

// preflight checks whether content is already rendered, which happens when
// the extension finished generating during a prior visit. When it is, all
// generate buttons are skipped for this video.
func (e *Engine) preflight(s *Surface) bool {
	var res textResult
	err := e.runStep(s, "content preflight", func(ctx context.Context) error {
		var err error
		res, err = firstVisibleText(ctx, e.selectors.HighConfidenceContent(), e.minLen)
		return err
	})
	if err != nil {
		log.Printf("Error checking for existing content: %v", err)
		return false
	}
	if res.Found {
		log.Println("Content already present, no need to click the summarize button")
	}
	return res.Found
}

// clickMainTrigger clicks the primary summarize control if any variant of
// it is visible. Absence is fine, some UI variants generate on their own.
func (e *Engine) clickMainTrigger(s *Surface) {
	var res clickResult
	err := e.runStep(s, "main trigger click", func(ctx context.Context) error {
		var err error
		res, err = clickFirstVisible(ctx, e.selectors.Trigger)
		return err
	})
	if err != nil {
		log.Printf("Error clicking main summarize button: %v", err)
		return
	}
	if !res.Clicked {
		log.Println("Could not find button for main summarize button")
		return
	}

	log.Printf("Found button main summarize button with selector: %s", res.Selector)
	log.Println("Successfully clicked main summarize button. Now checking for tabs.")

	var ready bool
	err = e.runStep(s, "post-trigger settle", func(ctx context.Context) error {
		return chromedp.Run(ctx, chromedp.Poll(readyStateExpr, &ready, chromedp.WithPollingTimeout(e.processingWait)))
	})
	if err != nil && !errors.Is(err, chromedp.ErrPollingTimeout) {
		log.Printf("Error waiting for processing to settle: %v", err)
	}
}

// extractFromTabs drives the tab strip section by section. Tab elements are
// re-located fresh on every action, stale references are a constant hazard
// while the extension re-renders.
func (e *Engine) extractFromTabs(s *Surface, sections *types.Sections, preflighted bool) {
	log.Printf("Waiting %v for initial page stabilization...", e.tabContentWait)
	time.Sleep(e.tabContentWait)

	var count int
	err := e.runStep(s, "tab discovery", func(ctx context.Context) error {
		var err error
		count, err = countTabs(ctx, e.selectors.Tabs)
		return err
	})
	if err != nil {
		log.Printf("Error finding tabs: %v", err)
		return
	}
	if count == 0 {
		log.Println("No tabs found in the Eightify interface")
		return
	}
	log.Printf("Found %d tabs in the Eightify interface", count)

	kinds := kindsToProcess(count)
	log.Println("Processing tabs sequentially one by one")

	extracted := 0
	for i, kind := range kinds {
		log.Printf("PROCESSING TAB %d/%d: %s", i+1, len(kinds), kind)

		if !e.activateTab(s, i, kind) {
			continue
		}
		if !preflighted {
			e.clickTabGenerate(s, kind)
		}

		log.Printf("Waiting %v for %s content to generate...", e.tabContentWait, kind)
		time.Sleep(e.tabContentWait)

		text := e.extractTabContent(s, kind)
		if sections.SetIfEmpty(kind, text) {
			extracted++
			log.Printf("Completed processing tab: %s - SUCCESS", kind)
		} else {
			log.Printf("Completed processing tab: %s - FAILED", kind)
		}
		log.Println(strings.Repeat("-", 40))
	}

	log.Printf("Extracted content from %d/%d tabs", extracted, len(kinds))
}

// activateTab scrolls tab i into view and clicks it. Reports false when the
// tab disappeared between discovery and now, which skips the section.
func (e *Engine) activateTab(s *Surface, index int, kind types.SectionKind) bool {
	log.Printf("Scrolling to tab: %s", kind)
	var res tabTarget
	err := e.runStep(s, "tab scroll", func(ctx context.Context) error {
		var err error
		res, err = scrollTabIntoView(ctx, e.selectors.Tabs, index)
		return err
	})
	if err != nil {
		log.Printf("Error scrolling to tab %s: %v", kind, err)
		return false
	}
	if !res.OK {
		log.Printf("Tab %d for %s not found, skipping", index, kind)
		return false
	}
	time.Sleep(500 * time.Millisecond)

	log.Printf("Clicking tab: %s", kind)
	err = e.runStep(s, "tab click", func(ctx context.Context) error {
		var err error
		res, err = clickTabAt(ctx, e.selectors.Tabs, index)
		return err
	})
	if err != nil {
		log.Printf("Error clicking tab %s: %v", kind, err)
		return false
	}
	if !res.OK {
		log.Printf("Tab %d for %s not found, skipping", index, kind)
		return false
	}

	// Let the tab switch render before poking at its content.
	time.Sleep(2 * time.Second)
	return true
}

// clickTabGenerate clicks the per-tab summarize button when one is visible.
// Many tabs pre-populate and have none, which is not an error.
func (e *Engine) clickTabGenerate(s *Surface, kind types.SectionKind) {
	var res clickResult
	err := e.runStep(s, "tab generate click", func(ctx context.Context) error {
		var err error
		res, err = clickFirstVisible(ctx, e.selectors.Trigger)
		return err
	})
	if err != nil {
		log.Printf("Error clicking summarize button in %s tab: %v", kind, err)
		return
	}
	if res.Clicked {
		log.Printf("Found 'Summarize Video' button in %s tab", kind)
		log.Printf("Clicked 'Summarize Video' button in %s tab", kind)
	}
}

// extractTabContent tries the fast content tier, then the remainder, then
// the whole body text. Empty string means this tab yielded nothing usable.
func (e *Engine) extractTabContent(s *Surface, kind types.SectionKind) string {
	for _, tier := range [][]string{e.selectors.HighConfidenceContent(), e.selectors.RemainingContent()} {
		if len(tier) == 0 {
			continue
		}
		var res textResult
		err := e.runStep(s, "tab content extraction", func(ctx context.Context) error {
			var err error
			res, err = firstVisibleText(ctx, tier, e.minLen)
			return err
		})
		if err != nil {
			log.Printf("Error extracting %s content: %v", kind, err)
			continue
		}
		if res.Found {
			log.Printf("Extracted content from %s tab with selector %s (%d chars)", kind, res.Selector, len(res.Text))
			return res.Text
		}
	}

	var body string
	err := e.runStep(s, "body text fallback", func(ctx context.Context) error {
		var err error
		body, err = pageText(ctx)
		return err
	})
	if err != nil {
		log.Printf("Error getting body text: %v", err)
		return ""
	}
	body = strings.TrimSpace(body)
	if len(body) > e.minLen {
		log.Printf("Extracted content from %s tab using body text (%d chars)", kind, len(body))
		return body
	}
	return ""
}

// directExtract is the last resort for sections the tab loop missed: grab
// the whole surface text and carve it up by section headers.
func (e *Engine) directExtract(s *Surface, sections *types.Sections, missing []types.SectionKind) {
	log.Printf("Still missing content for tabs: %v", missing)
	log.Println("Trying direct extraction approach...")

	var present bool
	err := e.runStep(s, "direct extraction body wait", func(ctx context.Context) error {
		return chromedp.Run(ctx, chromedp.Poll(`document.body !== null`, &present, chromedp.WithPollingTimeout(e.allContentWait)))
	})
	if err != nil {
		log.Printf("Body element not found in iframe, cannot extract content directly: %v", err)
		return
	}

	var full string
	err = e.runStep(s, "direct extraction body text", func(ctx context.Context) error {
		var err error
		full, err = pageText(ctx)
		return err
	})
	if err != nil {
		log.Printf("Error extracting body text: %v", err)
		return
	}
	if len(strings.TrimSpace(full)) <= e.minLen {
		log.Println("Body element found but contains insufficient content")
		return
	}
	log.Printf("Successfully extracted body text (%d chars)", len(full))

	for kind, text := range SegmentPageText(full, missing, e.selectors, e.minLen) {
		if sections.SetIfEmpty(kind, text) {
			log.Printf("Extracted %s content through direct extraction (%d chars)", kind, len(text))
		}
	}
}
