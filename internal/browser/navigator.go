package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrNavigation marks hard navigation failures where the tab never reached
// the video page at all. A slow player is not a navigation failure: the flow
// proceeds anyway and extraction decides what it can still get.
var ErrNavigation = errors.New("navigation failed")

const playerReadyExpr = `document.getElementById('movie_player') !== null`

// YouTube shows this interstitial instead of the player when it is unhappy
// with the session. A refresh usually clears it.
const errorBannerExpr = `(() => {
	const nodes = document.evaluate("//div[contains(text(), 'Something went wrong')]",
		document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
	for (let i = 0; i < nodes.snapshotLength; i++) {
		const rect = nodes.snapshotItem(i).getBoundingClientRect();
		if (rect.width > 0 && rect.height > 0) return true;
	}
	return false;
})()`

// Navigator drives the main tab to a YouTube video and waits for the player.
type Navigator struct {
	loadWait time.Duration
}

func NewNavigator(loadWait time.Duration) *Navigator {
	return &Navigator{loadWait: loadWait}
}

// LoadVideo navigates to url and waits until the player is present. The
// "Something went wrong" interstitial and plain player timeouts each get a
// refresh, three attempts total, then the flow continues regardless. The
// returned bool reports whether the player actually showed up.
func (n *Navigator) LoadVideo(ctx context.Context, url string) (bool, error) {
	log.Printf("Navigating to %s", url)
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrNavigation, err)
	}
	time.Sleep(2 * time.Second)

	log.Println("Waiting for video player to load...")
	const maxAttempts = 3
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var ready bool
		err := chromedp.Run(ctx,
			chromedp.Poll(playerReadyExpr, &ready, chromedp.WithPollingTimeout(n.loadWait)),
		)
		switch {
		case errors.Is(err, chromedp.ErrPollingTimeout):
			if attempt < maxAttempts {
				log.Printf("Timed out waiting for video player (attempt %d/%d), refreshing...", attempt, maxAttempts)
				n.refresh(ctx)
				continue
			}
			log.Println("Final timeout waiting for video player, trying to continue anyway")
			return false, nil
		case err != nil:
			return false, fmt.Errorf("%w: %v", ErrNavigation, err)
		}

		var bannerShown bool
		if err := chromedp.Run(ctx, chromedp.Evaluate(errorBannerExpr, &bannerShown)); err == nil && bannerShown {
			log.Printf("YouTube error detected (attempt %d/%d), refreshing...", attempt, maxAttempts)
			n.refresh(ctx)
			continue
		}

		n.resetPlayback(ctx)
		log.Println("Video loaded successfully")
		return true, nil
	}

	return false, nil
}

func (n *Navigator) refresh(ctx context.Context) {
	if err := chromedp.Run(ctx, chromedp.Reload()); err != nil {
		log.Printf("Error refreshing page: %v", err)
	}
	time.Sleep(5 * time.Second)
}

// resetPlayback rewinds the player so the extension summarizes the whole
// video, not just the part after a resumed position. Best effort.
func (n *Navigator) resetPlayback(ctx context.Context) {
	err := chromedp.Run(ctx, chromedp.Evaluate(
		`(() => { const v = document.querySelector('video'); if (v) v.currentTime = 0; return true; })()`,
		nil,
	))
	if err != nil {
		log.Printf("Could not reset video time: %v", err)
		return
	}
	log.Println("Reset video position to beginning")
}
