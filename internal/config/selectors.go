package config

import "github.com/codebuildervaibhav/eightify-scraper/internal/types"

// Selectors holds every lookup strategy list the extraction flow uses.
// The lists are ordered by priority and deliberately kept as data: the
// extension UI changes class names across versions and experiments, so
// operators override them from the config file instead of patching code.
type Selectors struct {
	// Iframe candidates, most specific first. The final entry is the
	// catch-all tier that accepts any visible iframe.
	Iframe []string `yaml:"iframe"`

	// IframeID is the identifying attribute an iframe must carry to be
	// accepted under the non-catch-all tiers.
	IframeID string `yaml:"iframe_id"`

	// Tabs is a single CSS selector union matching the tab elements.
	Tabs string `yaml:"tabs"`

	// Content candidates for per-tab text, highest confidence first.
	// The first three form the fast tier probed before the rest.
	Content []string `yaml:"content"`

	// Trigger candidates for the generate/summarize control. Entries
	// starting with // are XPath, the rest are CSS.
	Trigger []string `yaml:"trigger"`

	// SectionHeaders maps each section kind to the header aliases the
	// heuristic segmenter scans for in full-page text.
	SectionHeaders map[string][]string `yaml:"section_headers"`
}

// DefaultSelectors returns the selector lists known to match current
// Eightify builds.
func DefaultSelectors() Selectors {
	return Selectors{
		Iframe: []string{
			"#eightify-iframe",
			"iframe[title*='Eightify']",
			"iframe[src*='eightify']",
			"iframe.eightify",
			"iframe",
		},
		IframeID: "eightify-iframe",
		Tabs:     ".SummaryTabsView_item__Zjswl, .SummaryTabsView_tabs__69LdY > div, button[role='tab'], .tab, div[role='tab']",
		Content: []string{
			".tab-content",
			".SummaryTabsView_content__6OYs8",
			"[class*='content']",
			".content",
			"[data-testid='content']",
			".tab-panel",
			"[role='tabpanel']",
			"div[id*='panel']",
			"div[class*='panel']",
			"main",
			"body",
		},
		Trigger: []string{
			"//button[contains(text(), 'Summarize Video')]",
			"//button[contains(text(), 'Summarize')]",
			"//button[contains(text(), 'Generate')]",
			"//button[.//span[contains(text(), 'Summarize')]]",
			"//div[@role='button' and contains(text(), 'Summarize')]",
			"button.SummaryButton_button__hMBbW",
			"button.summarize-button",
			"button.primary",
			"button.btn-primary",
			"button.cta",
			"div[role='button']",
		},
		SectionHeaders: map[string][]string{
			string(types.KeyInsights):        {"Key Insights", "Main Points", "Key Points", "Highlights"},
			string(types.TimestampedSummary): {"Timestamped Summary", "Summary", "Video Summary", "Timeline"},
			string(types.TopComments):        {"Top Comments", "Comments", "User Comments", "Best Comments"},
			string(types.Transcript):         {"Transcript", "Full Transcript", "Video Transcript", "CC"},
		},
	}
}

// CatchAllIframe reports whether sel is the last-resort iframe tier.
func (s *Selectors) CatchAllIframe(sel string) bool {
	return sel == "iframe"
}

// highConfidenceTier is how many leading entries of a selector list form
// the fast tier probed before the rest.
const highConfidenceTier = 3

// HighConfidenceIframe returns the iframe selectors worth polling for
// while the extension is still injecting.
func (s *Selectors) HighConfidenceIframe() []string {
	if len(s.Iframe) <= highConfidenceTier {
		return s.Iframe
	}
	return s.Iframe[:highConfidenceTier]
}

// HighConfidenceContent returns the fast content tier.
func (s *Selectors) HighConfidenceContent() []string {
	if len(s.Content) <= highConfidenceTier {
		return s.Content
	}
	return s.Content[:highConfidenceTier]
}

// RemainingContent returns the content selectors past the fast tier.
func (s *Selectors) RemainingContent() []string {
	if len(s.Content) <= highConfidenceTier {
		return nil
	}
	return s.Content[highConfidenceTier:]
}

// HeadersFor returns the header aliases for one section kind.
func (s *Selectors) HeadersFor(kind types.SectionKind) []string {
	return s.SectionHeaders[string(kind)]
}

// AllHeaders returns every known header alias across all section kinds.
func (s *Selectors) AllHeaders() []string {
	var all []string
	for _, kind := range types.SectionKinds() {
		all = append(all, s.SectionHeaders[string(kind)]...)
	}
	return all
}

// fillEmpty replaces zero-value lists with defaults so a config file can
// override one list without having to restate the others.
func (s *Selectors) fillEmpty(def Selectors) {
	if len(s.Iframe) == 0 {
		s.Iframe = def.Iframe
	}
	if s.IframeID == "" {
		s.IframeID = def.IframeID
	}
	if s.Tabs == "" {
		s.Tabs = def.Tabs
	}
	if len(s.Content) == 0 {
		s.Content = def.Content
	}
	if len(s.Trigger) == 0 {
		s.Trigger = def.Trigger
	}
	if len(s.SectionHeaders) == 0 {
		s.SectionHeaders = def.SectionHeaders
	}
}
