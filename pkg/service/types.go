package service

import "encoding/json"

// Granularity selects the scope of a summary. The set of accepted values
// belongs to the service; values are forwarded without local validation.
type Granularity string

// Granularity values recognized by the reference service.
const (
	GranularityOverview    Granularity = "overview"
	GranularityMethodology Granularity = "methodology"
	GranularityConclusion  Granularity = "conclusion"
)

// File is a document selected for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadResponse is the service's acknowledgement of a processed document.
type UploadResponse struct {
	Filename   string `json:"filename"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}

// QuestionRequest asks a natural-language question about a document.
type QuestionRequest struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
}

type AnswerResponse struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// SummaryRequest summarizes a document or one of its sections.
// A nil SectionTitle and an empty Granularity are omitted from the payload
// entirely, leaving the service's defaults in effect.
type SummaryRequest struct {
	DocumentID   string      `json:"document_id"`
	SectionTitle *string     `json:"section_title,omitempty"`
	Granularity  Granularity `json:"granularity,omitempty"`
}

type SummaryResponse struct {
	DocumentID   string  `json:"document_id"`
	SectionTitle *string `json:"section_title"`
	Summary      string  `json:"summary"`
}

// ExtractionRequest asks for structured data points from a document.
type ExtractionRequest struct {
	DocumentID string `json:"document_id"`
	Query      string `json:"query"`
}

// ExtractionResponse keeps ExtractedData as raw JSON so the received key
// order survives rendering.
type ExtractionResponse struct {
	DocumentID    string          `json:"document_id"`
	Query         string          `json:"query"`
	ExtractedData json.RawMessage `json:"extracted_data"`
}

// SearchRequest queries the paper corpus. MaxResults is an int, or the
// operator's raw text when it is not one, so the service judges it. A nil
// MaxResults is omitted and the service default applies.
type SearchRequest struct {
	Query      string `json:"query"`
	MaxResults any    `json:"max_results,omitempty"`
}

// Paper is a single literature search hit.
type Paper struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Authors   []string `json:"authors"`
	Published string   `json:"published"`
	Summary   string   `json:"summary"`
}

type SearchResponse struct {
	Query  string  `json:"query"`
	Papers []Paper `json:"papers"`
}

// Document holds the extracted content of a previously uploaded document.
type Document struct {
	ID            string         `json:"id"`
	Filename      string         `json:"filename"`
	ExtractedText string         `json:"extracted_text"`
	Metadata      map[string]any `json:"metadata"`
}
