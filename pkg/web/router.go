package web

import (
	"net/http"

	"github.com/JaimeStill/docqa/pkg/routes"
)

// Router wraps http.ServeMux with an optional fallback for requests no
// pattern matches, such as a rendered not-found page.
type Router struct {
	mux      *http.ServeMux
	fallback http.HandlerFunc
}

// NewRouter creates a Router with default ServeMux behavior.
func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// SetFallback configures the handler for unmatched routes.
func (r *Router) SetFallback(handler http.HandlerFunc) {
	r.fallback = handler
}

// Register adds every route in groups to the router.
func (r *Router) Register(groups ...routes.Group) {
	routes.Register(r.mux, groups...)
}

// Handle registers a handler for the given pattern.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// ServeHTTP implements http.Handler with optional fallback for unmatched routes.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.fallback != nil {
		if _, pattern := r.mux.Handler(req); pattern == "" {
			r.fallback.ServeHTTP(w, req)
			return
		}
	}
	r.mux.ServeHTTP(w, req)
}
