package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	// ErrRejected matches any ServiceError via errors.Is.
	ErrRejected = errors.New("the service rejected the request")
	// ErrTransport matches any TransportError via errors.Is.
	ErrTransport = errors.New("the service could not be reached")
	// ErrMissingDocumentID indicates a document-bound exchange without an identifier.
	ErrMissingDocumentID = errors.New("document id required")
)

// ServiceError reports an exchange the collaborator service answered with a
// non-success status. Detail carries the service's own explanation when present.
type ServiceError struct {
	Op     string
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s (status %d)", ErrRejected, e.Status)
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrRejected
}

// TransportError reports an exchange that could not complete: the request
// never reached the service, or the response could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// MapHTTPStatus maps exchange errors to the status a proxying handler should answer with.
func MapHTTPStatus(err error) int {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.Status >= 400 && svcErr.Status < 500 {
			return svcErr.Status
		}
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrTransport) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrMissingDocumentID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// detailMessage extracts the failure detail from an error body. FastAPI
// validation failures carry detail as an array of {loc, msg, type} entries;
// the first msg is used in that case.
func detailMessage(body []byte) string {
	detail := gjson.GetBytes(body, "detail")
	if !detail.Exists() {
		return ""
	}

	switch {
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		if msg := detail.Get("0.msg"); msg.Exists() {
			return msg.String()
		}
	}

	return detail.Raw
}
