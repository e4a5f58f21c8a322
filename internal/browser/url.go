package browser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var startTimeRe = regexp.MustCompile(`t=\d+`)

// NormalizeWatchURL pins the start-time parameter to zero so the player
// never resumes mid-video. The extension summarizes from the player's
// current position, so a leftover t= value skews every section.
func NormalizeWatchURL(url string) string {
	if strings.Contains(url, "?") {
		if startTimeRe.MatchString(url) {
			return startTimeRe.ReplaceAllString(url, "t=0")
		}
		return url + "&t=0"
	}
	return url + "?t=0"
}

// ExtractVideoID pulls the video ID out of the usual YouTube URL shapes.
// Unknown shapes get a timestamp-based name so diagnostics files never collide.
func ExtractVideoID(url string) string {
	patterns := []string{
		`[?&]v=([a-zA-Z0-9_-]{11})`,
		`youtu\.be/([a-zA-Z0-9_-]{11})`,
		`/embed/([a-zA-Z0-9_-]{11})`,
		`/shorts/([a-zA-Z0-9_-]{11})`,
	}

	for _, pattern := range patterns {
		re := regexp.MustCompile(pattern)
		matches := re.FindStringSubmatch(url)
		if len(matches) > 1 {
			return matches[1]
		}
	}

	return fmt.Sprintf("video_%d", time.Now().Unix())
}
