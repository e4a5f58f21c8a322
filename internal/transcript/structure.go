// Package transcript turns Eightify's raw transcript text into ordered
// timestamp/text pairs.
package transcript

import (
	"log"
	"strings"

	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

// isTimestamp reports whether a line looks like a transcript timestamp:
// short, at least one colon, nothing but digits and colons.
func isTimestamp(line string) bool {
	if len(line) > 8 || !strings.Contains(line, ":") {
		return false
	}
	for _, c := range line {
		if c != ':' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Structure splits raw transcript text into {timestamp, text} entries.
// The source alternates timestamp lines and text lines; a timestamp line
// pairs with the line after it. Lines that fit neither role become
// timestamp-less entries, except the bare "Transcript" heading, which is
// dropped. Pure function, safe to re-run on the same input.
func Structure(raw string) []types.TranscriptEntry {
	log.Println("Processing transcript text...")
	if len(raw) > 100 {
		log.Printf("First 100 characters: %s...", raw[:100])
	} else {
		log.Printf("First 100 characters: %s...", raw)
	}

	lines := strings.Split(raw, "\n")
	var entries []types.TranscriptEntry

	for i := 0; i < len(lines); {
		current := strings.TrimSpace(lines[i])

		if isTimestamp(current) && i+1 < len(lines) {
			entries = append(entries, types.TranscriptEntry{
				Timestamp: current,
				Text:      strings.TrimSpace(lines[i+1]),
			})
			i += 2
			continue
		}

		if current != "" && !strings.EqualFold(current, "transcript") {
			entries = append(entries, types.TranscriptEntry{
				Timestamp: "",
				Text:      current,
			})
		}
		i++
	}

	return entries
}
