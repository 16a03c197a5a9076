package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/JaimeStill/docqa/internal/api"
	"github.com/JaimeStill/docqa/internal/config"
	"github.com/JaimeStill/docqa/internal/infrastructure"
	"github.com/JaimeStill/docqa/internal/operations"
	"github.com/JaimeStill/docqa/internal/status"
	"github.com/JaimeStill/docqa/pkg/module"
)

func loadConfig(t *testing.T, serviceURL string) *config.Config {
	t.Helper()

	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	t.Setenv("DOCQA_SERVICE_BASE_URL", serviceURL)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func fakeService(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /query-document/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["document_id"] == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			io.WriteString(w, `{"detail":[{"msg":"Field required"}]}`)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"document_id": body["document_id"],
			"question":    body["question"],
			"answer":      "answer for " + body["document_id"],
		})
	})

	mux.HandleFunc("POST /arxiv-search/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"query":"q","papers":[]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setup(t *testing.T) (*module.Router, *infrastructure.Infrastructure) {
	t.Helper()
	srv := fakeService(t)
	cfg := loadConfig(t, srv.URL)

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}

	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(runtime)
	t.Cleanup(domain.Operations.Wait)

	m, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}

	router := module.NewRouter()
	router.Mount(m)
	return router, infra
}

func TestNewRuntime(t *testing.T) {
	srv := fakeService(t)
	cfg := loadConfig(t, srv.URL)

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}

	runtime := api.NewRuntime(cfg, infra)

	if runtime.MaxUploadSize != 50*1024*1024 {
		t.Errorf("max upload: got %d, want 50MB", runtime.MaxUploadSize)
	}
	if runtime.Logger == nil || runtime.Lifecycle == nil {
		t.Error("runtime should carry logger and lifecycle")
	}
	if runtime.Session != infra.Session {
		t.Error("runtime must share the infrastructure session")
	}
	if runtime.Service != infra.Service {
		t.Error("runtime must share the infrastructure service client")
	}
}

func TestSearchThroughModule(t *testing.T) {
	router, _ := setup(t)

	r := httptest.NewRequest("POST", "/api/search?wait=true", strings.NewReader(`{"query":"graph neural networks","max_results":3}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var res operations.TaskResponse
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status.State != status.StateSuccess {
		t.Fatalf("state = %q, error %q", res.Status.State, res.Status.Error)
	}
	if res.Status.Output == nil || res.Status.Output.Text != "No results found." {
		t.Errorf("output = %+v", res.Status.Output)
	}
}

func TestAskUsesSharedSession(t *testing.T) {
	router, infra := setup(t)
	infra.Session.Set("doc-42")

	r := httptest.NewRequest("POST", "/api/ask?wait=true", strings.NewReader(`{"question":"What is the F1 score?"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var res operations.TaskResponse
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status.Output == nil || res.Status.Output.Text != "answer for doc-42" {
		t.Errorf("output = %+v, error %q", res.Status.Output, res.Status.Error)
	}
}

func TestStatusThroughModule(t *testing.T) {
	router, _ := setup(t)

	r := httptest.NewRequest("GET", "/api/status/upload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var snap status.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Operation != "upload" || snap.State != status.StateIdle {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	router, _ := setup(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/openapi.json", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths      map[string]map[string]json.RawMessage `json:"paths"`
		Components struct {
			Schemas map[string]json.RawMessage `json:"schemas"`
		} `json:"components"`
	}
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if doc.OpenAPI != "3.1.0" || doc.Info.Title != "docqa console API" || doc.Info.Version != "0.1.0" {
		t.Errorf("header = %s %q %q", doc.OpenAPI, doc.Info.Title, doc.Info.Version)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "/api" {
		t.Errorf("servers = %+v", doc.Servers)
	}

	for path, method := range map[string]string{
		"/upload":           "post",
		"/ask":              "post",
		"/summarize":        "post",
		"/extract":          "post",
		"/search":           "post",
		"/status":           "get",
		"/status/{kind}":    "delete",
		"/session":          "get",
		"/session/document": "get",
	} {
		if _, ok := doc.Paths[path][method]; !ok {
			t.Errorf("missing %s %s", method, path)
		}
	}
	for _, name := range []string{"Error", "TaskResponse", "Snapshot", "SearchRequest"} {
		if _, ok := doc.Components.Schemas[name]; !ok {
			t.Errorf("missing schema %s", name)
		}
	}
}
