package types

// Extraction status constants
const (
	StatusSuccess = "Success"
	StatusError   = "Error"
)

// Task status constants for the batch progress tracker
const (
	TaskQueued     = "QUEUED"
	TaskProcessing = "PROCESSING"
	TaskCompleted  = "COMPLETED"
	TaskFailed     = "FAILED"
	TaskSkipped    = "SKIPPED"
)

// SectionKind names one of the fixed content categories Eightify renders.
type SectionKind string

const (
	KeyInsights        SectionKind = "key_insights"
	TimestampedSummary SectionKind = "timestamped_summary"
	TopComments        SectionKind = "top_comments"
	Transcript         SectionKind = "transcript"
)

// SectionKinds returns the section kinds in tab order. The order matters:
// it is both the left-to-right tab order in the extension UI and the
// iteration order for extraction.
func SectionKinds() []SectionKind {
	return []SectionKind{KeyInsights, TimestampedSummary, TopComments, Transcript}
}

// Sections holds the raw extracted text per section kind. All four keys
// are always serialized, empty string when nothing was extracted.
type Sections struct {
	KeyInsights        string `json:"key_insights"`
	TimestampedSummary string `json:"timestamped_summary"`
	TopComments        string `json:"top_comments"`
	Transcript         string `json:"transcript"`
}

// Get returns the text stored for a section kind.
func (s *Sections) Get(kind SectionKind) string {
	switch kind {
	case KeyInsights:
		return s.KeyInsights
	case TimestampedSummary:
		return s.TimestampedSummary
	case TopComments:
		return s.TopComments
	case Transcript:
		return s.Transcript
	}
	return ""
}

// Set stores text for a section kind unconditionally.
func (s *Sections) Set(kind SectionKind, text string) {
	switch kind {
	case KeyInsights:
		s.KeyInsights = text
	case TimestampedSummary:
		s.TimestampedSummary = text
	case TopComments:
		s.TopComments = text
	case Transcript:
		s.Transcript = text
	}
}

// SetIfEmpty stores text only when the section has no content yet, so
// earlier extraction passes always win over later ones. Reports whether
// the value was stored.
func (s *Sections) SetIfEmpty(kind SectionKind, text string) bool {
	if text == "" || s.Get(kind) != "" {
		return false
	}
	s.Set(kind, text)
	return true
}

// Missing returns the section kinds that still have no content, in tab order.
func (s *Sections) Missing() []SectionKind {
	var missing []SectionKind
	for _, kind := range SectionKinds() {
		if s.Get(kind) == "" {
			missing = append(missing, kind)
		}
	}
	return missing
}

// Filled counts sections with non-empty content.
func (s *Sections) Filled() int {
	n := 0
	for _, kind := range SectionKinds() {
		if s.Get(kind) != "" {
			n++
		}
	}
	return n
}

// TranscriptEntry is one structured transcript line.
type TranscriptEntry struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// ExtractionResult is the full outcome of processing one video URL.
type ExtractionResult struct {
	VideoURL             string            `json:"video_url"`
	Status               string            `json:"status"`
	Sections             Sections          `json:"sections"`
	StructuredTranscript []TranscriptEntry `json:"structured_transcript"`
	Message              string            `json:"message,omitempty"`
	NextSteps            string            `json:"next_steps,omitempty"`
}

// DeriveStatus sets Status from the section contents: Success iff at
// least one section holds text.
func (r *ExtractionResult) DeriveStatus() {
	if r.Sections.Filled() > 0 {
		r.Status = StatusSuccess
	} else {
		r.Status = StatusError
	}
}

// Succeeded reports whether the result carries any usable data.
func (r *ExtractionResult) Succeeded() bool {
	return r.Status == StatusSuccess || r.Sections.Filled() > 0
}
