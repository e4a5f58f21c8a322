package extract

import (
	"strings"
	"testing"

	"github.com/codebuildervaibhav/eightify-scraper/internal/config"
	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

func testSelectors() *config.Selectors {
	sel := config.DefaultSelectors()
	return &sel
}

func TestSegmentPageTextSlicing(t *testing.T) {
	full := "Key Insights\nA B C\nTranscript\nX Y Z"
	missing := []types.SectionKind{types.KeyInsights, types.Transcript}

	got := SegmentPageText(full, missing, testSelectors(), 5)

	if got[types.KeyInsights] != "Key Insights\nA B C" {
		t.Errorf("key_insights = %q, want %q", got[types.KeyInsights], "Key Insights\nA B C")
	}
	if got[types.Transcript] != "Transcript\nX Y Z" {
		t.Errorf("transcript = %q, want %q", got[types.Transcript], "Transcript\nX Y Z")
	}
}

func TestSegmentPageTextOnlyMissingKinds(t *testing.T) {
	full := "Key Insights\nlots of insight text here\nTop Comments\ngreat comments here"

	got := SegmentPageText(full, []types.SectionKind{types.TopComments}, testSelectors(), 5)

	if _, ok := got[types.KeyInsights]; ok {
		t.Error("segmented a section that was not requested")
	}
	if got[types.TopComments] != "Top Comments\ngreat comments here" {
		t.Errorf("top_comments = %q", got[types.TopComments])
	}
}

func TestSegmentPageTextThreshold(t *testing.T) {
	full := "Key Insights\nab\nTranscript\n" + strings.Repeat("word ", 30)
	missing := []types.SectionKind{types.KeyInsights, types.Transcript}

	got := SegmentPageText(full, missing, testSelectors(), 50)

	if _, ok := got[types.KeyInsights]; ok {
		t.Error("accepted a slice at or under the length threshold")
	}
	if _, ok := got[types.Transcript]; !ok {
		t.Error("rejected a slice over the length threshold")
	}
}

func TestSegmentPageTextNoHeaders(t *testing.T) {
	got := SegmentPageText("nothing recognizable in here", []types.SectionKind{types.KeyInsights}, testSelectors(), 5)
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestSegmentPageTextFirstAliasWins(t *testing.T) {
	// Both "Key Insights" and "Highlights" alias key_insights; the earlier
	// alias in the list wins even if the other also appears.
	full := "Highlights\nshort\nKey Insights\nplenty of text in this section to pass"

	got := SegmentPageText(full, []types.SectionKind{types.KeyInsights}, testSelectors(), 10)

	if !strings.HasPrefix(got[types.KeyInsights], "Key Insights") {
		t.Errorf("key_insights = %q, want slice starting at %q", got[types.KeyInsights], "Key Insights")
	}
}
