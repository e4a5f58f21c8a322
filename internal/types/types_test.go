package types

import "testing"

func TestSetIfEmptyFirstValueWins(t *testing.T) {
	var s Sections

	if !s.SetIfEmpty(KeyInsights, "from preflight") {
		t.Fatal("expected first write to be stored")
	}
	if s.SetIfEmpty(KeyInsights, "from per-tab pass") {
		t.Error("second write should not overwrite existing content")
	}
	if got := s.Get(KeyInsights); got != "from preflight" {
		t.Errorf("got %q, want %q", got, "from preflight")
	}
}

func TestSetIfEmptyRejectsEmpty(t *testing.T) {
	var s Sections
	if s.SetIfEmpty(Transcript, "") {
		t.Error("empty text should never be stored")
	}
}

func TestMissing(t *testing.T) {
	var s Sections
	s.Set(TimestampedSummary, "some summary")

	missing := s.Missing()
	want := []SectionKind{KeyInsights, TopComments, Transcript}
	if len(missing) != len(want) {
		t.Fatalf("got %d missing sections, want %d", len(missing), len(want))
	}
	for i, kind := range want {
		if missing[i] != kind {
			t.Errorf("missing[%d] = %s, want %s", i, missing[i], kind)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		sections Sections
		want     string
	}{
		{"all empty", Sections{}, StatusError},
		{"one filled", Sections{TopComments: "great video"}, StatusSuccess},
		{"all filled", Sections{
			KeyInsights:        "a",
			TimestampedSummary: "b",
			TopComments:        "c",
			Transcript:         "d",
		}, StatusSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ExtractionResult{Sections: tt.sections}
			r.DeriveStatus()
			if r.Status != tt.want {
				t.Errorf("DeriveStatus() = %s, want %s", r.Status, tt.want)
			}
		})
	}
}

func TestSectionKindsOrder(t *testing.T) {
	kinds := SectionKinds()
	want := []SectionKind{KeyInsights, TimestampedSummary, TopComments, Transcript}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}
