package extract

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/codebuildervaibhav/eightify-scraper/internal/config"
)

// ErrSurfaceNotFound means the extension iframe never showed up on the page.
var ErrSurfaceNotFound = errors.New("eightify iframe not found")

// ErrContextLost marks a frame context that died mid-extraction and could
// not be recovered. Extraction steps degrade to empty results on it rather
// than aborting the URL.
var ErrContextLost = errors.New("iframe context lost")

// isContextLost classifies errors that mean the frame target went away
// rather than a step genuinely failing. The devtools protocol reports these
// as plain message strings, there is nothing better to match on.
func isContextLost(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrContextLost) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{
		"context canceled",
		"detached",
		"No target with given id",
		"target closed",
		"Cannot find context with specified id",
		"websocket: close",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Locator finds the extension's injected iframe and opens an interaction
// context inside it. Eightify injects a cross-origin iframe, so its document
// is unreachable from the page context; interacting with it means attaching
// to the iframe's own devtools target.
type Locator struct {
	selectors     *config.Selectors
	extensionWait time.Duration
	recoveryWait  time.Duration
}

func NewLocator(cfg *config.Config) *Locator {
	return &Locator{
		selectors:     &cfg.Selectors,
		extensionWait: cfg.ExtensionWait(),
		recoveryWait:  cfg.RecoveryWait(),
	}
}

// WaitForInjection blocks until the extension injects its iframe, bounded
// by the extension wait. When nothing shows up, one page refresh is
// attempted: a reload is how a human gets Eightify to wake up too.
func (l *Locator) WaitForInjection(pageCtx context.Context) {
	log.Println("Waiting for Eightify to load...")

	expr := presenceExpr(l.selectors.HighConfidenceIframe())
	var present bool
	err := chromedp.Run(pageCtx, chromedp.Poll(expr, &present, chromedp.WithPollingTimeout(l.extensionWait)))
	if err == nil {
		return
	}
	if !errors.Is(err, chromedp.ErrPollingTimeout) {
		log.Printf("Error waiting for Eightify iframe: %v", err)
		return
	}

	if err := chromedp.Run(pageCtx, chromedp.Evaluate(expr, &present)); err == nil && present {
		return
	}
	log.Println("Eightify not detected, trying page refresh...")
	if err := chromedp.Run(pageCtx, chromedp.Reload()); err != nil {
		log.Printf("Error refreshing page: %v", err)
		return
	}
	time.Sleep(l.extensionWait)
}

// Enter scans the iframe candidate list in priority order and attaches to
// the first acceptable frame. A frame qualifies when it is visible and
// either carries the expected id or was matched by the catch-all tier.
func (l *Locator) Enter(pageCtx context.Context) (*Surface, error) {
	log.Println("Looking for Eightify iframe...")

	frameCtx, frameCancel, ok := l.attachFirst(pageCtx, l.selectors.Iframe)
	if !ok {
		return nil, ErrSurfaceNotFound
	}

	return &Surface{
		locator:     l,
		pageCtx:     pageCtx,
		frameCtx:    frameCtx,
		frameCancel: frameCancel,
	}, nil
}

// attachFirst runs the scan-accept-attach sequence over the given selector
// list and returns a context attached to the chosen frame's target.
func (l *Locator) attachFirst(pageCtx context.Context, selectors []string) (context.Context, context.CancelFunc, bool) {
	frames, err := frameSnapshots(pageCtx, selectors)
	if err != nil {
		log.Printf("Error scanning for iframes: %v", err)
		return nil, nil, false
	}

	for _, sel := range selectors {
		count := 0
		for _, f := range frames {
			if f.Selector == sel {
				count++
			}
		}
		log.Printf("Found %d iframes with selector: %s", count, sel)
	}

	for _, f := range frames {
		if !f.Visible || (f.ID != l.selectors.IframeID && !l.selectors.CatchAllIframe(f.Selector)) {
			continue
		}
		log.Printf("Found potential Eightify iframe! ID: %s", f.ID)

		tid, ok := resolveFrameTarget(pageCtx, f)
		if !ok {
			log.Printf("No devtools target matched iframe %q (src %q)", f.ID, f.Src)
			continue
		}

		frameCtx, frameCancel := chromedp.NewContext(pageCtx, chromedp.WithTargetID(tid))
		var readyState string
		if err := chromedp.Run(frameCtx, chromedp.Evaluate(`document.readyState`, &readyState)); err != nil {
			log.Printf("Error attaching to iframe target %s: %v", tid, err)
			frameCancel()
			continue
		}
		return frameCtx, frameCancel, true
	}

	return nil, nil, false
}

// resolveFrameTarget maps an iframe element to its devtools target. Exact
// src match first, then any eightify-looking frame target, then any frame
// target at all. Same-origin iframes never appear here, which is fine: the
// extension frame is cross-origin by construction.
func resolveFrameTarget(pageCtx context.Context, f frameInfo) (target.ID, bool) {
	infos, err := chromedp.Targets(pageCtx)
	if err != nil {
		log.Printf("Error listing devtools targets: %v", err)
		return "", false
	}

	var frameTargets []*target.Info
	for _, info := range infos {
		if info.Type == "iframe" {
			frameTargets = append(frameTargets, info)
		}
	}

	if f.Src != "" {
		for _, info := range frameTargets {
			if info.URL == f.Src {
				return info.TargetID, true
			}
		}
	}
	for _, info := range frameTargets {
		if strings.Contains(strings.ToLower(info.URL), "eightify") {
			return info.TargetID, true
		}
	}
	if len(frameTargets) > 0 {
		return frameTargets[0].TargetID, true
	}
	return "", false
}

// Surface is an entered extension iframe. All extraction probes run against
// its frame context until Exit.
type Surface struct {
	locator     *Locator
	pageCtx     context.Context
	frameCtx    context.Context
	frameCancel context.CancelFunc
	dead        bool
}

// Ctx returns the frame context probes run against.
func (s *Surface) Ctx() context.Context { return s.frameCtx }

// Dead reports whether the surface was lost and recovery failed. Further
// probes are pointless once dead.
func (s *Surface) Dead() bool { return s.dead }

// Recover re-enters the iframe after the frame context was invalidated,
// restricted to the single highest-confidence selector. Returns false and
// marks the surface dead when the frame cannot be found again.
func (s *Surface) Recover() bool {
	log.Println("No longer in iframe context, attempting to recover...")
	s.Exit()
	time.Sleep(s.locator.recoveryWait)

	log.Println("Attempting to find the iframe again...")
	frameCtx, frameCancel, ok := s.locator.attachFirst(s.pageCtx, s.locator.selectors.Iframe[:1])
	if !ok {
		log.Println("Failed to recover iframe context")
		s.dead = true
		return false
	}
	s.frameCtx = frameCtx
	s.frameCancel = frameCancel
	return true
}

// Exit detaches from the iframe target. Cancelling the frame context only
// releases the devtools session, the iframe itself stays alive on the page.
// Safe to call more than once; every exit path out of frame-context code
// must go through here.
func (s *Surface) Exit() {
	if s.frameCancel == nil {
		return
	}
	s.frameCancel()
	s.frameCancel = nil
	s.frameCtx = nil
}
