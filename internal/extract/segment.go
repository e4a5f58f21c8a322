package extract

import (
	"strings"

	"github.com/codebuildervaibhav/eightify-scraper/internal/config"
	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

// SegmentPageText carves section content out of full-page text by scanning
// for known header aliases. For each missing section the first alias that
// occurs literally in the text wins; its slice runs from the alias to the
// nearest following occurrence of any known header, or to end of text.
// Slices at or under minLen after trimming are rejected.
//
// This is a best-effort heuristic and tolerates false positives (a header
// word appearing mid-sentence): any data beats no data at this stage.
func SegmentPageText(fullText string, missing []types.SectionKind, sel *config.Selectors, minLen int) map[types.SectionKind]string {
	out := make(map[types.SectionKind]string)
	allHeaders := sel.AllHeaders()

	for _, kind := range missing {
		for _, header := range sel.HeadersFor(kind) {
			start := strings.Index(fullText, header)
			if start == -1 {
				continue
			}

			end := len(fullText)
			searchFrom := start + len(header)
			for _, next := range allHeaders {
				if idx := strings.Index(fullText[searchFrom:], next); idx != -1 && searchFrom+idx < end {
					end = searchFrom + idx
				}
			}

			section := strings.TrimSpace(fullText[start:end])
			if len(section) > minLen {
				out[kind] = section
				break
			}
		}
	}

	return out
}
