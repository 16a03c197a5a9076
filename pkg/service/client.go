// Package service implements the request/response exchanges with the
// document analysis service: upload, question answering, summarization,
// structured extraction, literature search, and document lookup.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"
)

// Exchange names, used as the Op of returned errors and in log records.
const (
	OpUpload    = "upload"
	OpAsk       = "ask"
	OpSummarize = "summarize"
	OpExtract   = "extract"
	OpSearch    = "search"
	OpDocument  = "document"
	OpPing      = "ping"
)

const (
	pathUpload    = "upload-document/"
	pathAsk       = "query-document/"
	pathSummarize = "summarize-document/"
	pathExtract   = "extract-data/"
	pathSearch    = "arxiv-search/"
	pathDocuments = "documents"
	pathPing      = "openapi.json"

	// HeaderRequestID carries the dispatching task's identifier.
	HeaderRequestID = "X-Request-ID"
)

type requestIDKey struct{}

// WithRequestID returns a context whose exchanges carry id in the X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Client performs exchanges against a single service base address.
// It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client from a finalized Config.
func New(cfg *Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		logger: logger.With("system", "service"),
	}, nil
}

// BaseURL returns the service base address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Upload sends the file as a multipart form and returns the assigned document identifier.
func (c *Client) Upload(ctx context.Context, file File) (*UploadResponse, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint(pathUpload), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res UploadResponse
	if err := c.do(OpUpload, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Ask answers a question about an uploaded document.
func (c *Client) Ask(ctx context.Context, r QuestionRequest) (*AnswerResponse, error) {
	if r.DocumentID == "" {
		return nil, ErrMissingDocumentID
	}

	var res AnswerResponse
	if err := c.postJSON(ctx, OpAsk, pathAsk, r, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Summarize summarizes an uploaded document, optionally scoped to a section.
func (c *Client) Summarize(ctx context.Context, r SummaryRequest) (*SummaryResponse, error) {
	if r.DocumentID == "" {
		return nil, ErrMissingDocumentID
	}

	var res SummaryResponse
	if err := c.postJSON(ctx, OpSummarize, pathSummarize, r, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Extract pulls structured data points out of an uploaded document.
func (c *Client) Extract(ctx context.Context, r ExtractionRequest) (*ExtractionResponse, error) {
	if r.DocumentID == "" {
		return nil, ErrMissingDocumentID
	}

	var res ExtractionResponse
	if err := c.postJSON(ctx, OpExtract, pathExtract, r, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Search queries the literature corpus. It does not involve any uploaded document.
func (c *Client) Search(ctx context.Context, r SearchRequest) (*SearchResponse, error) {
	var res SearchResponse
	if err := c.postJSON(ctx, OpSearch, pathSearch, r, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Document returns the extracted details of a previously uploaded document.
func (c *Client) Document(ctx context.Context, id string) (*Document, error) {
	if id == "" {
		return nil, ErrMissingDocumentID
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(pathDocuments, url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}

	var res Document
	if err := c.do(OpDocument, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Ping reports whether the service answers at its base address.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(pathPing), nil)
	if err != nil {
		return err
	}
	return c.do(OpPing, req, nil)
}

func (c *Client) endpoint(elem ...string) string {
	return c.baseURL.JoinPath(elem...).String()
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(op, req, out)
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set(HeaderRequestID, id)
	}
	return req, nil
}

func (c *Client) do(op string, req *http.Request, out any) error {
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(req.Context(), "exchange failed", "op", op, "error", err)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.InfoContext(
		req.Context(), "exchange resolved",
		"op", op,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(HeaderRequestID),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServiceError{
			Op:     op,
			Status: resp.StatusCode,
			Detail: detailMessage(body),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
