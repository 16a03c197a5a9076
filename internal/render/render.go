// Package render formats successful operation payloads for display.
// Rendering is pure: nothing here reads or mutates session or status state.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/docqa/pkg/formatting"
	"github.com/JaimeStill/docqa/pkg/service"
)

// Kind identifies the shape of a rendered Output.
type Kind string

const (
	KindText   Kind = "text"
	KindData   Kind = "data"
	KindPapers Kind = "papers"
	KindEmpty  Kind = "empty"
)

const (
	// NoResults is shown in place of an empty paper list.
	NoResults = "No results found."
	// SummaryLimit is the number of characters of a paper summary kept before truncation.
	SummaryLimit = 200
	// Ellipsis marks a truncated summary.
	Ellipsis = "..."
	// DateLayout is the display layout for paper publication dates.
	DateLayout = "January 2, 2006"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// PaperView is a search hit prepared for display.
type PaperView struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Authors   string `json:"authors"`
	Published string `json:"published"`
	Summary   string `json:"summary"`
}

// Detail is a labelled value shown alongside a text payload.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Output is a rendered success payload.
type Output struct {
	Kind    Kind        `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Details []Detail    `json:"details,omitempty"`
	Papers  []PaperView `json:"papers,omitempty"`
}

// Text renders a text payload verbatim.
func Text(s string) Output {
	return Output{Kind: KindText, Text: s}
}

// Upload renders the service's acknowledgement of an upload together with
// what is known locally about the file. A nil pageCount is left out.
func Upload(message, documentID, filename string, sizeBytes int64, pageCount *int) Output {
	out := Text(message)
	out.Details = []Detail{
		{Label: "Document ID", Value: documentID},
		{Label: "Filename", Value: filename},
		{Label: "Size", Value: formatting.FormatBytes(sizeBytes, 1)},
	}
	if pageCount != nil {
		out.Details = append(out.Details, Detail{Label: "Pages", Value: fmt.Sprintf("%d", *pageCount)})
	}
	return out
}

// Data renders structured data as indented JSON, keeping the key order it was received in.
func Data(raw json.RawMessage) (Output, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("null")
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return Output{}, fmt.Errorf("indent structured data: %w", err)
	}

	return Output{Kind: KindData, Text: buf.String()}, nil
}

// Papers renders search hits in received order. An empty list renders the
// NoResults message instead.
func Papers(papers []service.Paper) Output {
	if len(papers) == 0 {
		return Output{Kind: KindEmpty, Text: NoResults}
	}

	views := make([]PaperView, len(papers))
	for i, p := range papers {
		views[i] = Paper(p)
	}

	return Output{Kind: KindPapers, Papers: views}
}

// Paper prepares a single search hit for display.
func Paper(p service.Paper) PaperView {
	return PaperView{
		Title:     p.Title,
		URL:       p.URL,
		Authors:   strings.Join(p.Authors, ", "),
		Published: FormatDate(p.Published),
		Summary:   TruncateSummary(p.Summary),
	}
}

// TruncateSummary keeps at most SummaryLimit characters, appending Ellipsis
// when anything was cut.
func TruncateSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= SummaryLimit {
		return s
	}
	return string(runes[:SummaryLimit]) + Ellipsis
}

// FormatDate renders a service timestamp with DateLayout. Values that do not
// parse are returned unchanged.
func FormatDate(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

// String renders the Output as plain text.
func (o Output) String() string {
	var b strings.Builder

	if o.Kind != KindPapers {
		b.WriteString(o.Text)
		for _, d := range o.Details {
			fmt.Fprintf(&b, "\n%s: %s", d.Label, d.Value)
		}
		return b.String()
	}

	for i, p := range o.Papers {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s <%s>\n", i+1, p.Title, p.URL)
		fmt.Fprintf(&b, "   Authors: %s\n", p.Authors)
		fmt.Fprintf(&b, "   Published: %s\n", p.Published)
		fmt.Fprintf(&b, "   %s", p.Summary)
	}
	return b.String()
}
