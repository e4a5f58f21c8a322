package transcript

import (
	"testing"

	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

func entriesEqual(t *testing.T, got, want []types.TranscriptEntry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStructurePairsTimestampsWithText(t *testing.T) {
	got := Structure("00:01\nHello world\n00:02\nSecond line")
	entriesEqual(t, got, []types.TranscriptEntry{
		{Timestamp: "00:01", Text: "Hello world"},
		{Timestamp: "00:02", Text: "Second line"},
	})
}

func TestStructureDropsTranscriptHeading(t *testing.T) {
	got := Structure("Transcript\n00:05\nHi")
	entriesEqual(t, got, []types.TranscriptEntry{
		{Timestamp: "00:05", Text: "Hi"},
	})
}

func TestStructureLooseLinesKeptWithoutTimestamp(t *testing.T) {
	got := Structure("intro line\n00:10\nspoken words\ntrailing note")
	entriesEqual(t, got, []types.TranscriptEntry{
		{Timestamp: "", Text: "intro line"},
		{Timestamp: "00:10", Text: "spoken words"},
		{Timestamp: "", Text: "trailing note"},
	})
}

func TestStructureTrailingTimestampDegrades(t *testing.T) {
	// A timestamp with no line after it cannot be paired; it degrades to a
	// timestamp-less entry instead of being lost.
	got := Structure("00:01\nHello\n00:09")
	entriesEqual(t, got, []types.TranscriptEntry{
		{Timestamp: "00:01", Text: "Hello"},
		{Timestamp: "", Text: "00:09"},
	})
}

func TestStructureTimestampShapes(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"00:01", true},
		{"1:23:45", true},
		{"12345678", false},
		{"00:01 pm", false},
		{"a0:01", false},
		{"00:01:02:03", false}, // 11 chars, too long
		{"", false},
		{"Transcript", false},
	}
	for _, tt := range tests {
		if got := isTimestamp(tt.line); got != tt.want {
			t.Errorf("isTimestamp(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestStructureEmptyInput(t *testing.T) {
	if got := Structure(""); len(got) != 0 {
		t.Errorf("expected no entries for empty input, got %v", got)
	}
}
