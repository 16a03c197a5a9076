// Package operations dispatches the five operator operations (upload, ask,
// summarize, extract, search) against the document analysis service. Each
// dispatch validates its local preconditions, moves the operation's status
// reporter to busy, and resolves the exchange on its own goroutine.
package operations

import (
	"context"
	"fmt"

	"github.com/JaimeStill/docqa/pkg/service"
)

// Kind names an operation. Each kind has its own status reporter.
type Kind string

const (
	KindUpload    Kind = "upload"
	KindAsk       Kind = "ask"
	KindSummarize Kind = "summarize"
	KindExtract   Kind = "extract"
	KindSearch    Kind = "search"
)

// Kinds lists every operation kind in display order.
var Kinds = []Kind{
	KindUpload,
	KindAsk,
	KindSummarize,
	KindExtract,
	KindSearch,
}

// ParseKind validates an operation name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// RequiresDocument reports whether the kind operates on the active document.
func (k Kind) RequiresDocument() bool {
	switch k {
	case KindAsk, KindSummarize, KindExtract:
		return true
	}
	return false
}

// Service is the set of exchanges the dispatcher performs. *service.Client
// satisfies it.
type Service interface {
	Upload(ctx context.Context, file service.File) (*service.UploadResponse, error)
	Ask(ctx context.Context, r service.QuestionRequest) (*service.AnswerResponse, error)
	Summarize(ctx context.Context, r service.SummaryRequest) (*service.SummaryResponse, error)
	Extract(ctx context.Context, r service.ExtractionRequest) (*service.ExtractionResponse, error)
	Search(ctx context.Context, r service.SearchRequest) (*service.SearchResponse, error)
	Document(ctx context.Context, id string) (*service.Document, error)
}
