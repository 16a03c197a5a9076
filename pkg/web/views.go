// Package web provides infrastructure for serving server-rendered pages with
// Go templates, embedded static assets, and fallback routing.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef defines a page with its route, template file, and title.
type ViewDef struct {
	Route    string
	Template string
	Title    string
}

// ViewData contains the data passed to page templates during rendering.
// BasePath enables portable URL generation in templates via {{ .BasePath }}.
type ViewData struct {
	Title    string
	BasePath string
	Data     any
}

// TemplateSet holds pre-parsed templates and a base path for URL generation.
// Templates are parsed once at startup.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
}

// NewTemplateSet creates a TemplateSet by parsing layout templates and cloning
// them for each view. Views may redefine blocks declared by the layouts.
func NewTemplateSet(fsys embed.FS, layoutGlob, viewSubdir, basePath string, views []ViewDef) (*TemplateSet, error) {
	layouts, err := template.ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, err
	}

	viewSub, err := fs.Sub(fsys, viewSubdir)
	if err != nil {
		return nil, err
	}

	viewTemplates := make(map[string]*template.Template, len(views))
	for _, p := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", p.Template, err)
		}
		_, err = t.ParseFS(viewSub, p.Template)
		if err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", p.Template, err)
		}
		viewTemplates[p.Template] = t
	}

	return &TemplateSet{
		views:    viewTemplates,
		basePath: basePath,
	}, nil
}

// BasePath returns the path prefix included in every ViewData.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// ErrorHandler returns an HTTP handler that renders an error page with the given status code.
func (ts *TemplateSet) ErrorHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts.RenderError(w, layout, view, status, http.StatusText(status))
	}
}

// RenderError renders view with message as its data. It falls back to a
// plain-text response if the template fails.
func (ts *TemplateSet) RenderError(w http.ResponseWriter, layout string, view ViewDef, status int, message string) {
	data := ViewData{
		Title:    view.Title,
		BasePath: ts.basePath,
		Data:     message,
	}
	if err := ts.Render(w, status, layout, view.Template, data); err != nil {
		http.Error(w, message, status)
	}
}

// PageHandler returns an HTTP handler that renders the given view with the
// data produced by load for each request.
func (ts *TemplateSet) PageHandler(layout string, view ViewDef, load func(*http.Request) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ViewData{
			Title:    view.Title,
			BasePath: ts.basePath,
		}
		if load != nil {
			data.Data = load(r)
		}
		if err := ts.Render(w, http.StatusOK, layout, view.Template, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// Render executes the named layout template with the given view data. The
// page is buffered so a template failure never sends a partial response.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, layoutName, viewPath string, data ViewData) error {
	t, ok := ts.views[viewPath]
	if !ok {
		return fmt.Errorf("template not found: %s", viewPath)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layoutName, data); err != nil {
		return fmt.Errorf("execute %s: %w", viewPath, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
