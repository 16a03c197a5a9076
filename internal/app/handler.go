package app

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/docqa/internal/operations"
	"github.com/JaimeStill/docqa/internal/status"
	"github.com/JaimeStill/docqa/pkg/routes"
	"github.com/JaimeStill/docqa/pkg/service"
	"github.com/JaimeStill/docqa/pkg/web"
)

var titles = map[operations.Kind]string{
	operations.KindUpload:    "Upload a document",
	operations.KindAsk:       "Ask a question",
	operations.KindSummarize: "Summarize",
	operations.KindExtract:   "Extract data",
	operations.KindSearch:    "Search papers",
}

// Panel is one operation's section of the console page.
type Panel struct {
	Title    string
	BasePath string
	Status   status.Snapshot
}

// Page is the data rendered by the console view.
type Page struct {
	DocumentID    string
	Panels        map[string]Panel
	Busy          bool
	Refresh       int
	Granularities []service.Granularity
}

// Handler serves the console page and accepts its form posts.
type Handler struct {
	sys           operations.System
	ts            *web.TemplateSet
	logger        *slog.Logger
	maxUploadSize int64
	refresh       int
}

// NewHandler creates a console Handler.
func NewHandler(sys operations.System, ts *web.TemplateSet, logger *slog.Logger, maxUploadSize int64, refresh int) *Handler {
	return &Handler{
		sys:           sys,
		ts:            ts,
		logger:        logger.With("handler", "app"),
		maxUploadSize: maxUploadSize,
		refresh:       refresh,
	}
}

// Routes returns the route group for the console.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "GET", Pattern: consoleView.Route, Handler: h.ts.PageHandler(layout, consoleView, h.page)},
			{Method: "POST", Pattern: "/{kind}", Handler: h.Dispatch},
			{Method: "POST", Pattern: "/reset/{kind}", Handler: h.Reset},
		},
	}
}

// Dispatch starts the operation named by the kind path parameter from its
// form fields and redirects back to the page. Precondition failures are not
// request errors; they show on the operation's panel.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	kind, err := operations.ParseKind(r.PathValue("kind"))
	if err != nil {
		h.fail(w, http.StatusNotFound, err)
		return
	}

	switch kind {
	case operations.KindUpload:
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.fail(w, http.StatusRequestEntityTooLarge, operations.ErrFileTooLarge)
				return
			}
			h.fail(w, http.StatusBadRequest, operations.ErrInvalidInput)
			return
		}

		file, err := operations.ReadFormFile(r, "file")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			h.fail(w, http.StatusBadRequest, operations.ErrInvalidInput)
			return
		}
		h.sys.Upload(file)

	case operations.KindAsk:
		h.sys.Ask(r.PostFormValue("question"))

	case operations.KindSummarize:
		h.sys.Summarize(
			r.PostFormValue("section_title"),
			service.Granularity(r.PostFormValue("granularity")),
		)

	case operations.KindExtract:
		h.sys.Extract(r.PostFormValue("query"))

	case operations.KindSearch:
		h.sys.Search(r.PostFormValue("query"), r.PostFormValue("max_results"))
	}

	h.home(w, r)
}

// Reset clears a resolved panel. A busy panel is left as it is.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	kind, err := operations.ParseKind(r.PathValue("kind"))
	if err != nil {
		h.fail(w, http.StatusNotFound, err)
		return
	}

	if err := h.sys.Reset(kind); err != nil {
		h.logger.Info("reset refused", "operation", kind, "error", err)
	}

	h.home(w, r)
}

func (h *Handler) page(r *http.Request) any {
	p := Page{
		DocumentID: h.sys.DocumentID(),
		Panels:     make(map[string]Panel, len(operations.Kinds)),
		Refresh:    h.refresh,
		Granularities: []service.Granularity{
			service.GranularityOverview,
			service.GranularityMethodology,
			service.GranularityConclusion,
		},
	}

	for _, snap := range h.sys.Statuses() {
		kind := operations.Kind(snap.Operation)
		p.Panels[snap.Operation] = Panel{
			Title:    titles[kind],
			BasePath: h.ts.BasePath(),
			Status:   snap,
		}
		if snap.Busy() {
			p.Busy = true
		}
	}

	return p
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.ts.BasePath(), http.StatusSeeOther)
}

func (h *Handler) fail(w http.ResponseWriter, code int, err error) {
	if code >= 500 {
		h.logger.Error("console request failed", "status", code, "error", err)
	} else {
		h.logger.Warn("console request rejected", "status", code, "error", err)
	}
	h.ts.RenderError(w, layout, errorView, code, err.Error())
}
