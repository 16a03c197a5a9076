package operations

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/docqa/internal/status"
	"github.com/JaimeStill/docqa/pkg/handlers"
	"github.com/JaimeStill/docqa/pkg/routes"
	"github.com/JaimeStill/docqa/pkg/service"
)

// Handler exposes the dispatcher as JSON endpoints.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// SummarizeRequest is the body of POST /summarize.
type SummarizeRequest struct {
	SectionTitle string              `json:"section_title"`
	Granularity  service.Granularity `json:"granularity"`
}

// ExtractRequest is the body of POST /extract.
type ExtractRequest struct {
	Query string `json:"query"`
}

// SearchRequest is the body of POST /search. MaxResults accepts a JSON
// number or string. Integers are sent as numbers, other values as given,
// and an absent or null value is left out.
type SearchRequest struct {
	Query      string          `json:"query"`
	MaxResults json.RawMessage `json:"max_results"`
}

// TaskResponse reports a dispatched task and the status of that task.
type TaskResponse struct {
	TaskID uuid.UUID       `json:"task_id"`
	Status status.Snapshot `json:"status"`
}

// SessionResponse reports the active document.
type SessionResponse struct {
	DocumentID string `json:"document_id"`
	Active     bool   `json:"active"`
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "operations"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for operation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "",
		Tags:    []string{"Operations"},
		Schemas: apiSpec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/upload", Handler: h.Upload, OpenAPI: apiSpec.Upload},
			{Method: "POST", Pattern: "/ask", Handler: h.Ask, OpenAPI: apiSpec.Ask},
			{Method: "POST", Pattern: "/summarize", Handler: h.Summarize, OpenAPI: apiSpec.Summarize},
			{Method: "POST", Pattern: "/extract", Handler: h.Extract, OpenAPI: apiSpec.Extract},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: apiSpec.Search},
		},
		Children: []routes.Group{
			{
				Prefix: "/status",
				Tags:   []string{"Status"},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Statuses, OpenAPI: apiSpec.Statuses},
					{Method: "GET", Pattern: "/{kind}", Handler: h.Status, OpenAPI: apiSpec.Status},
					{Method: "DELETE", Pattern: "/{kind}", Handler: h.Reset, OpenAPI: apiSpec.Reset},
				},
			},
			{
				Prefix: "/session",
				Tags:   []string{"Session"},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Session, OpenAPI: apiSpec.Session},
					{Method: "GET", Pattern: "/document", Handler: h.Document, OpenAPI: apiSpec.Document},
				},
			},
		},
	}
}

// Upload dispatches a multipart upload. A request without a file part is
// dispatched as "no file chosen" so the rejection shows on the upload status.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	file, err := ReadFormFile(r, "file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	h.respondTask(w, r, h.sys.Upload(file))
}

// Ask dispatches a question about the active document.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondTask(w, r, h.sys.Ask(req.Question))
}

// Summarize dispatches a summary of the active document.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondTask(w, r, h.sys.Summarize(req.SectionTitle, req.Granularity))
}

// Extract dispatches a structured extraction from the active document.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondTask(w, r, h.sys.Extract(req.Query))
}

// Search dispatches a literature search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondTask(w, r, h.sys.Search(req.Query, rawMaxResults(req.MaxResults)))
}

// Statuses returns the status of every operation.
func (h *Handler) Statuses(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Statuses())
}

// Status returns the status of the operation named by the kind path parameter.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseKind(r.PathValue("kind"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	snap, err := h.sys.Status(kind)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, snap)
}

// Reset returns a resolved operation to idle.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseKind(r.PathValue("kind"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := h.sys.Reset(kind); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Session returns the active document identifier.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	id := h.sys.DocumentID()
	handlers.RespondJSON(w, http.StatusOK, SessionResponse{
		DocumentID: id,
		Active:     id != "",
	})
}

// Document returns the service's details for the active document.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	doc, err := h.sys.Document(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, doc)
}

// ReadFormFile reads the named multipart file part into a service.File.
// It returns http.ErrMissingFile when the part is absent or has no filename.
func ReadFormFile(r *http.Request, field string) (*service.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, http.ErrMissingFile
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &service.File{
		Name:        header.Filename,
		ContentType: detectContentType(header.Header.Get("Content-Type"), data),
		Data:        data,
	}, nil
}

// respondTask answers 202 while the exchange is pending. With ?wait=true
// it first blocks until the task resolves. Resolved tasks answer 200, or
// 400 for a precondition failure.
func (h *Handler) respondTask(w http.ResponseWriter, r *http.Request, task *Task) {
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		if _, err := task.Wait(r.Context()); err != nil && r.Context().Err() != nil {
			h.logger.Warn("client abandoned wait", "task_id", task.ID, "error", err)
			return
		}
	}

	snap := task.Snapshot()
	code := http.StatusAccepted
	if snap.Resolved() {
		code = http.StatusOK
		if _, err := task.Wait(context.Background()); errors.Is(err, ErrPrecondition) {
			code = http.StatusBadRequest
		}
	}

	handlers.RespondJSON(w, code, TaskResponse{
		TaskID: task.ID,
		Status: snap,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return false
	}
	return true
}

func rawMaxResults(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return trimmed
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
