package domain

import "time"

// Document is the metadata record for one ingested file. A document row is
// only ever visible together with its full chunk set; partially ingested
// uploads never surface.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
	Summary    string    `json:"summary,omitempty"`
	TotalPages int       `json:"total_pages"`
}

// SummaryPending is the summary placeholder written at ingestion time.
// The worker replaces it once the document summary has been generated.
const SummaryPending = "summary pending"

// Chunk is one bounded span of a document's text with its embedding.
// Indices within a document are contiguous starting at zero.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Text       string    `json:"text"`
	Index      int       `json:"index"`
	Embedding  []float32 `json:"-"`
}

// IngestResult is what a successful ingestion reports back.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
}

// ExtractedText is the loader output: ordered text segments plus the native
// page count (zero for formats without a page concept).
type ExtractedText struct {
	Segments []string
	Pages    int
}

// ChunkFilter restricts retrieval to a single document when set.
type ChunkFilter struct {
	DocumentID string
}

type QueryMode string

const (
	ModeSummary  QueryMode = "summary"
	ModeTargeted QueryMode = "targeted"
)

// AnswerNotFound is the fixed response text for empty retrieval. It is a
// normal answer, not an error, and the generator is never invoked for it.
const AnswerNotFound = "no information found"

type Answer struct {
	Text            string    `json:"answer"`
	Sources         []string  `json:"sources"`
	SourceFilenames []string  `json:"source_filenames,omitempty"`
	Mode            QueryMode `json:"mode,omitempty"`
}

// NotFoundAnswer builds the fixed empty-retrieval payload.
func NotFoundAnswer(mode QueryMode) *Answer {
	return &Answer{
		Text:    AnswerNotFound,
		Sources: []string{},
		Mode:    mode,
	}
}
