package operations

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/docqa/pkg/service"
)

// ErrPrecondition matches every local rejection via errors.Is.
var ErrPrecondition = errors.New("precondition failed")

// Precondition failures. Their messages are shown to the operator as-is.
var (
	ErrNoFile        = precondition("select a file")
	ErrNoDocument    = precondition("upload a document first")
	ErrEmptyQuestion = precondition("enter a question")
	ErrEmptyQuery    = precondition("enter a query")
)

var (
	ErrUnknownKind   = errors.New("unknown operation")
	ErrBusy          = errors.New("operation in progress")
	ErrInvalidInput  = errors.New("invalid request body")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrMissingResult = errors.New("response missing document_id")
)

type preconditionError struct {
	msg string
}

func precondition(msg string) error {
	return &preconditionError{msg: msg}
}

func (e *preconditionError) Error() string {
	return e.msg
}

func (e *preconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// MapHTTPStatus maps operation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrPrecondition) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnknownKind) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrBusy) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return service.MapHTTPStatus(err)
}
