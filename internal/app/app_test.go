package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/docqa/internal/app"
	"github.com/JaimeStill/docqa/internal/config"
	"github.com/JaimeStill/docqa/internal/operations"
	"github.com/JaimeStill/docqa/internal/session"
	"github.com/JaimeStill/docqa/internal/status"
	"github.com/JaimeStill/docqa/pkg/module"
	"github.com/JaimeStill/docqa/pkg/service"
)

type stubService struct {
	searchGate chan struct{}
}

func (s *stubService) Upload(_ context.Context, f service.File) (*service.UploadResponse, error) {
	return &service.UploadResponse{DocumentID: "doc-42", Message: "Document uploaded successfully", Filename: f.Name}, nil
}

func (s *stubService) Ask(_ context.Context, r service.QuestionRequest) (*service.AnswerResponse, error) {
	return &service.AnswerResponse{Answer: "The model reaches an F1 score of 0.91."}, nil
}

func (s *stubService) Summarize(context.Context, service.SummaryRequest) (*service.SummaryResponse, error) {
	return nil, &service.ServiceError{Status: 404, Detail: "Document not found."}
}

func (s *stubService) Extract(context.Context, service.ExtractionRequest) (*service.ExtractionResponse, error) {
	return &service.ExtractionResponse{ExtractedData: []byte(`{"accuracy":0.93}`)}, nil
}

func (s *stubService) Search(context.Context, service.SearchRequest) (*service.SearchResponse, error) {
	if s.searchGate != nil {
		<-s.searchGate
	}
	return &service.SearchResponse{Papers: []service.Paper{{
		Title:     "Attention Is All You Need",
		URL:       "https://arxiv.org/abs/1706.03762",
		Authors:   []string{"Vaswani et al."},
		Published: "2017-06-12",
		Summary:   "The dominant sequence transduction models...",
	}}}, nil
}

func (s *stubService) Document(context.Context, string) (*service.Document, error) {
	return nil, errors.New("not used")
}

type harness struct {
	router *module.Router
	sys    operations.System
	sess   *session.Session
}

func setup(t *testing.T, svc *stubService) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sess := session.New()
	sys := operations.New(context.Background(), svc, sess, logger)
	t.Cleanup(sys.Wait)

	cfg := &config.AppConfig{BasePath: "/app", RefreshInterval: "3s"}
	m, err := app.NewModule(cfg, sys, 1024, logger)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	if m.Prefix() != "/app" {
		t.Errorf("prefix: got %s, want /app", m.Prefix())
	}

	router := module.NewRouter()
	router.Mount(m)
	return &harness{router: router, sys: sys, sess: sess}
}

func (h *harness) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	return w
}

func (h *harness) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, r)
	return w
}

func (h *harness) settle(t *testing.T, kind operations.Kind) status.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := h.sys.Status(kind)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if snap.State != status.StateBusy {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("%s did not resolve", kind)
	return status.Snapshot{}
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 (%s)", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/app" {
		t.Errorf("location = %q, want /app", loc)
	}
}

func TestConsolePage(t *testing.T) {
	h := setup(t, &stubService{})

	for _, target := range []string{"/app", "/app/"} {
		w := h.get(t, target)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, want 200", target, w.Code)
		}

		body := w.Body.String()
		for _, want := range []string{
			"No document uploaded",
			`action="/app/upload"`,
			`action="/app/ask"`,
			`action="/app/summarize"`,
			`action="/app/extract"`,
			`action="/app/search"`,
			`<option value="methodology">`,
		} {
			if !strings.Contains(body, want) {
				t.Errorf("page missing %q", want)
			}
		}
		if strings.Contains(body, `http-equiv="refresh"`) {
			t.Error("idle page should not refresh")
		}
	}
}

func TestPreconditionShownOnPanel(t *testing.T) {
	h := setup(t, &stubService{})

	w := h.postForm(t, "/app/ask", url.Values{"question": {"What is the F1 score?"}})
	assertRedirect(t, w)

	body := h.get(t, "/app").Body.String()
	if !strings.Contains(body, "upload a document first") {
		t.Error("ask panel should show the precondition message")
	}
}

func TestUploadThenAsk(t *testing.T) {
	h := setup(t, &stubService{})

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, _ := mw.CreateFormFile("file", "notes.txt")
	part.Write([]byte("plain text notes"))
	mw.Close()

	r := httptest.NewRequest("POST", "/app/upload", buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, r)
	assertRedirect(t, w)

	if snap := h.settle(t, operations.KindUpload); snap.State != status.StateSuccess {
		t.Fatalf("upload state = %q (%s)", snap.State, snap.Error)
	}
	if got := h.sess.Get(); got != "doc-42" {
		t.Fatalf("session = %q, want doc-42", got)
	}

	assertRedirect(t, h.postForm(t, "/app/ask", url.Values{"question": {"What is the F1 score?"}}))
	h.settle(t, operations.KindAsk)

	body := h.get(t, "/app").Body.String()
	for _, want := range []string{
		"<code>doc-42</code>",
		"Document uploaded successfully",
		"notes.txt",
		"The model reaches an F1 score of 0.91.",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestErrorAndDataPanels(t *testing.T) {
	h := setup(t, &stubService{})
	h.sess.Set("doc-1")

	assertRedirect(t, h.postForm(t, "/app/summarize", url.Values{"granularity": {"overview"}}))
	assertRedirect(t, h.postForm(t, "/app/extract", url.Values{"query": {"accuracy"}}))
	h.settle(t, operations.KindSummarize)
	h.settle(t, operations.KindExtract)

	body := h.get(t, "/app").Body.String()
	if !strings.Contains(body, "Document not found.") {
		t.Error("summarize panel should show the service detail")
	}
	if !strings.Contains(body, "&#34;accuracy&#34;: 0.93") {
		t.Error("extract panel should show indented data")
	}
}

func TestBusyPageRefreshes(t *testing.T) {
	gate := make(chan struct{})
	h := setup(t, &stubService{searchGate: gate})

	assertRedirect(t, h.postForm(t, "/app/search", url.Values{"query": {"transformers"}, "max_results": {"5"}}))

	body := h.get(t, "/app").Body.String()
	if !strings.Contains(body, `<meta http-equiv="refresh" content="3">`) {
		t.Error("busy page should refresh")
	}
	if !strings.Contains(body, "Working…") {
		t.Error("busy panel should show progress")
	}

	close(gate)
	h.settle(t, operations.KindSearch)

	body = h.get(t, "/app").Body.String()
	if strings.Contains(body, `http-equiv="refresh"`) {
		t.Error("resolved page should not refresh")
	}
	if !strings.Contains(body, `href="https://arxiv.org/abs/1706.03762"`) {
		t.Error("paper link missing")
	}
	if !strings.Contains(body, "June 12, 2017") {
		t.Error("publication date should be formatted")
	}
}

func TestReset(t *testing.T) {
	h := setup(t, &stubService{})

	h.postForm(t, "/app/ask", nil)
	if snap, _ := h.sys.Status(operations.KindAsk); snap.State != status.StateError {
		t.Fatalf("ask state = %q, want error", snap.State)
	}

	assertRedirect(t, h.postForm(t, "/app/reset/ask", nil))
	if snap, _ := h.sys.Status(operations.KindAsk); snap.State != status.StateIdle {
		t.Errorf("ask state = %q, want idle", snap.State)
	}
}

func TestNotFound(t *testing.T) {
	h := setup(t, &stubService{})

	tests := []struct {
		name string
		do   func() *httptest.ResponseRecorder
	}{
		{"unknown operation", func() *httptest.ResponseRecorder { return h.postForm(t, "/app/translate", nil) }},
		{"unknown reset", func() *httptest.ResponseRecorder { return h.postForm(t, "/app/reset/translate", nil) }},
		{"unknown page", func() *httptest.ResponseRecorder { return h.get(t, "/app/missing/page") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.do()
			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("content type = %q, want html", ct)
			}
		})
	}
}

func TestUploadTooLarge(t *testing.T) {
	h := setup(t, &stubService{})

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, _ := mw.CreateFormFile("file", "big.txt")
	part.Write(bytes.Repeat([]byte("x"), 8192))
	mw.Close()

	r := httptest.NewRequest("POST", "/app/upload", buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, r)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	h := setup(t, &stubService{})

	w := h.get(t, "/app/static/console.css")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("content type = %q, want text/css", ct)
	}
}
