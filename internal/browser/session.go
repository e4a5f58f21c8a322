package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/codebuildervaibhav/eightify-scraper/internal/config"
)

// ErrProvision marks browser startup failures. The runner treats these as
// fatal for the current attempt and escalates to a fresh browser on retry.
var ErrProvision = errors.New("browser provisioning failed")

// stealthScript runs before any page script on every new document and hides
// the obvious automation tells.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
`

// Session is one live Chrome instance plus the tab all page actions run in.
type Session struct {
	ID        string
	CreatedAt time.Time

	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// Ctx returns the page tab context.
func (s *Session) Ctx() context.Context { return s.ctx }

// Responsive reports whether the tab still answers basic commands.
func (s *Session) Responsive(timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	var url string
	return chromedp.Run(ctx, chromedp.Location(&url)) == nil
}

// PrepareNextTab cycles a scratch tab between videos. Eightify sometimes
// stops re-rendering in a tab that already processed a video; opening and
// closing a tab resets that state without restarting the browser.
func (s *Session) PrepareNextTab() error {
	tabCtx, tabCancel := chromedp.NewContext(s.ctx)
	defer tabCancel()

	if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
		return fmt.Errorf("failed to open scratch tab: %v", err)
	}
	time.Sleep(2 * time.Second)
	if err := chromedp.Cancel(tabCtx); err != nil {
		log.Printf("Error closing scratch tab: %v", err)
	}

	var url string
	if err := chromedp.Run(s.ctx, chromedp.Location(&url)); err != nil {
		return fmt.Errorf("main tab unresponsive after tab cycle: %v", err)
	}
	return nil
}

// Manager hands out browser sessions, reusing the current one while it
// stays responsive.
type Manager struct {
	cfg     *config.Config
	current *Session
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// Current returns the active session, or nil when none is running.
func (m *Manager) Current() *Session { return m.current }

// Acquire returns a usable session. With forceFresh it kills any running
// Chrome and starts over; otherwise a responsive existing session is reused.
func (m *Manager) Acquire(ctx context.Context, forceFresh bool) (*Session, error) {
	if !forceFresh && m.current != nil {
		if m.current.Responsive(5 * time.Second) {
			return m.current, nil
		}
		log.Println("Existing browser session is unresponsive, replacing it")
	}

	m.Release()
	if forceFresh || m.cfg.Browser.CloseExisting {
		CloseExistingChrome()
	}

	sess, err := m.launch(ctx)
	if err != nil {
		return nil, err
	}
	m.current = sess
	return sess, nil
}

// Release tears down the current session. Teardown errors are only logged,
// the browser may already be gone.
func (m *Manager) Release() {
	if m.current == nil {
		return
	}
	sess := m.current
	m.current = nil

	if err := chromedp.Cancel(sess.ctx); err != nil {
		log.Printf("Error closing browser session %s: %v", sess.ID, err)
	}
	sess.cancel()
	sess.allocCancel()
	log.Printf("Closed browser session %s", sess.ID)
}

func (m *Manager) launch(ctx context.Context) (*Session, error) {
	userDataDir := m.cfg.Browser.ProfileDir
	if userDataDir == "" {
		userDataDir = ProfileDir()
	}
	log.Printf("Using Chrome profile directory: %s", userDataDir)

	extensionIDs := DiscoverExtensionIDs(userDataDir, m.cfg.Browser.ProfileName)
	if len(extensionIDs) > 0 {
		log.Printf("Found potential Eightify extensions: %v", extensionIDs)
	} else {
		log.Println("Could not find Eightify extension ID. Will use all extensions in profile.")
	}

	userAgent := m.cfg.Browser.UserAgents[rand.Intn(len(m.cfg.Browser.UserAgents))]

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		AllocatorOptions(userDataDir, m.cfg.Browser.ProfileName, userAgent, extensionIDs)...)
	pageCtx, pageCancel := chromedp.NewContext(allocCtx)

	// The first Run starts the browser. Installing the stealth script is
	// bundled in so a failed start surfaces here, not mid-scrape.
	err := chromedp.Run(pageCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
		return err
	}))
	if err != nil {
		pageCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrProvision, err)
	}

	sess := &Session{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now(),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         pageCtx,
		cancel:      pageCancel,
	}
	log.Printf("Started browser session %s", sess.ID)
	return sess, nil
}
