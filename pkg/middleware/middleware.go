// Package middleware provides the request wrappers the console's HTTP
// modules install: request logging and CORS.
package middleware

import "net/http"

// Func wraps a handler with additional behavior.
type Func func(http.Handler) http.Handler

// Chain is an ordered list of wrappers. The first entry sees each request
// first.
type Chain []Func

// Append returns c extended with fns. Nil entries are skipped.
func (c Chain) Append(fns ...Func) Chain {
	out := make(Chain, len(c), len(c)+len(fns))
	copy(out, c)
	for _, fn := range fns {
		if fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

// Then wraps h with every entry of c. A nil h answers 404.
func (c Chain) Then(h http.Handler) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	for i := len(c) - 1; i >= 0; i-- {
		h = c[i](h)
	}
	return h
}
