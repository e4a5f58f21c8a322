package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/chromedp/chromedp"

	"github.com/codebuildervaibhav/eightify-scraper/internal/config"
	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

func TestKindsToProcessBound(t *testing.T) {
	tests := []struct {
		tabs int
		want []types.SectionKind
	}{
		{0, []types.SectionKind{}},
		{1, []types.SectionKind{types.KeyInsights}},
		{2, []types.SectionKind{types.KeyInsights, types.TimestampedSummary}},
		{4, types.SectionKinds()},
		{9, types.SectionKinds()},
	}

	for _, tt := range tests {
		got := kindsToProcess(tt.tabs)
		if len(got) != len(tt.want) {
			t.Errorf("kindsToProcess(%d) returned %d kinds, want %d", tt.tabs, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("kindsToProcess(%d)[%d] = %s, want %s", tt.tabs, i, got[i], tt.want[i])
			}
		}
	}
}

func TestExtractSectionsSurvivesDeadFrameContext(t *testing.T) {
	cfg := config.Default()
	cfg.Waits.TabContentSeconds = 0
	cfg.Waits.RecoverySeconds = 0

	// A chromedp context cancelled before any browser starts fails every
	// step the same way a frame target dying mid-extraction does.
	ctx, cancel := chromedp.NewContext(context.Background())
	cancel()

	s := &Surface{
		locator:  NewLocator(cfg),
		pageCtx:  ctx,
		frameCtx: ctx,
	}

	sections, err := NewEngine(cfg).ExtractSections(s)

	if !errors.Is(err, ErrExtractionEmpty) {
		t.Fatalf("expected ErrExtractionEmpty from a dead frame, got %v", err)
	}
	if errors.Is(err, ErrContextLost) {
		t.Fatal("frame loss escaped ExtractSections instead of degrading to empty sections")
	}
	if sections.Filled() != 0 {
		t.Fatalf("expected no sections from a dead frame, got %d filled", sections.Filled())
	}
}

func TestSegmenterNeverOverwritesFilledSection(t *testing.T) {
	var sections types.Sections
	sections.Set(types.KeyInsights, "from the per-tab pass")

	full := "Key Insights\nsegmented text long enough to pass any threshold easily here"
	for kind, text := range SegmentPageText(full, sections.Missing(), testSelectors(), 10) {
		sections.SetIfEmpty(kind, text)
	}

	if got := sections.Get(types.KeyInsights); got != "from the per-tab pass" {
		t.Errorf("filled section was overwritten: %q", got)
	}
}
