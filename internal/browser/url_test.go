package browser

import (
	"strings"
	"testing"
)

func TestNormalizeWatchURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no query string",
			in:   "https://youtu.be/dQw4w9WgXcQ",
			want: "https://youtu.be/dQw4w9WgXcQ?t=0",
		},
		{
			name: "query without start time",
			in:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=0",
		},
		{
			name: "existing start time rewritten",
			in:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=431",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=0",
		},
		{
			name: "start time already zero",
			in:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=0",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWatchURL(tt.in); got != tt.want {
				t.Errorf("NormalizeWatchURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url with extras", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42&list=PL1", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts url", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.in); got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractVideoIDFallback(t *testing.T) {
	got := ExtractVideoID("https://example.com/not-a-video")
	if !strings.HasPrefix(got, "video_") {
		t.Errorf("fallback id = %q, want video_<timestamp>", got)
	}
}
