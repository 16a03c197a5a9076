package web

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"
)

// Assets serves the files under dir of fsys at URL prefix. Directory paths
// answer 404 rather than a listing, and responses are marked no-cache so a
// redeployed console is picked up on the next page load.
func Assets(fsys fs.FS, dir, prefix string) (http.Handler, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("static assets %s: %w", dir, err)
	}

	files := http.StripPrefix(prefix, http.FileServerFS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	}), nil
}
