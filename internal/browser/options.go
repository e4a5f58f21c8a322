package browser

import (
	"math/rand"

	"github.com/chromedp/chromedp"
)

// AllocatorOptions builds the Chrome launch options for a scraping session.
// The list is assembled from scratch rather than from chromedp's defaults:
// those are tuned for headless scraping and disable exactly what this tool
// depends on. Extensions must load, the window must be headful so the
// extension UI renders, and site isolation must stay on so the extension
// iframe shows up as its own devtools target.
//
// enable-automation is never passed. It triggers Chrome's "controlled by
// automated test software" banner and flips navigator.webdriver, both of
// which Eightify's backend appears to check.
func AllocatorOptions(userDataDir, profileName, userAgent string, extensionIDs []string) []chromedp.ExecAllocatorOption {
	width := 1280 + rand.Intn(641)
	height := 800 + rand.Intn(281)

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.UserDataDir(userDataDir),
		chromedp.Flag("profile-directory", profileName),
		chromedp.WindowSize(width, height),
		chromedp.UserAgent(userAgent),

		chromedp.Flag("disable-blink-features", "AutomationControlled"),

		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("log-level", "3"),
	}

	// Whitelisting makes sure Chrome loads Eightify even when the profile
	// has extensions disabled for automation.
	for _, id := range extensionIDs {
		opts = append(opts, chromedp.Flag("whitelisted-extension-id", id))
	}

	return opts
}
