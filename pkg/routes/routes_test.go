package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/docqa/pkg/openapi"
	"github.com/JaimeStill/docqa/pkg/routes"
)

func named(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name + ":" + r.PathValue("kind")))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/ask", Handler: named("ask")},
			{Method: "GET", Pattern: "/session", Handler: named("session")},
		},
		Children: []routes.Group{
			{
				Prefix: "/status",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: named("statuses")},
					{Method: "GET", Pattern: "/{kind}", Handler: named("status")},
					{Method: "DELETE", Pattern: "/{kind}", Handler: named("reset")},
				},
			},
		},
	})

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"POST", "/ask", http.StatusOK, "ask:"},
		{"GET", "/session", http.StatusOK, "session:"},
		{"GET", "/status", http.StatusOK, "statuses:"},
		{"GET", "/status/search", http.StatusOK, "status:search"},
		{"DELETE", "/status/upload", http.StatusOK, "reset:upload"},
		{"GET", "/ask", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body: got %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	ask := &openapi.Operation{OperationID: "ask"}
	status := &openapi.Operation{OperationID: "getStatus", Tags: []string{"Custom"}}

	routes.Describe(spec, routes.Group{
		Tags:    []string{"Operations"},
		Schemas: map[string]*openapi.Schema{"AskRequest": {Type: "object"}},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/ask", Handler: named("ask"), OpenAPI: ask},
			{Method: "GET", Pattern: "/{$}", Handler: named("root"), OpenAPI: &openapi.Operation{}},
			{Method: "GET", Pattern: "/hidden", Handler: named("hidden")},
		},
		Children: []routes.Group{
			{
				Prefix: "/status",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{kind}", Handler: named("status"), OpenAPI: status},
					{Method: "GET", Pattern: "/files/{path...}", Handler: named("files"), OpenAPI: &openapi.Operation{}},
				},
			},
		},
	})

	post := spec.Paths["/ask"].Post
	if post == nil || post.Tags[0] != "Operations" {
		t.Errorf("/ask: got %+v", post)
	}
	if post == ask {
		t.Error("described operation should be a copy")
	}
	if len(ask.Tags) != 0 {
		t.Error("route operation should not be mutated")
	}
	if spec.Paths["/"] == nil {
		t.Error("root pattern should map to /")
	}
	if _, ok := spec.Paths["/hidden"]; ok {
		t.Error("undocumented route should be skipped")
	}
	if got := spec.Paths["/status/{kind}"].Get; got == nil || got.Tags[0] != "Custom" {
		t.Errorf("/status/{kind}: got %+v", got)
	}
	if got := spec.Paths["/status/files/{path}"].Get; got == nil || got.Tags[0] != "Operations" {
		t.Errorf("wildcard path: got %+v", got)
	}
	if _, ok := spec.Components.Schemas["AskRequest"]; !ok {
		t.Error("group schemas should be added")
	}
}
