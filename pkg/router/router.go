package router

import (
	"io"
	"sort"

	"github.com/niels/rawhttpd/pkg/wire"
)

// Handler produces exactly one response for a request and writes it to w
type Handler interface {
	Serve(w io.Writer, req *wire.Request) error
}

// HandlerFunc adapts a plain function to the Handler interface
type HandlerFunc func(w io.Writer, req *wire.Request) error

// Serve calls f(w, req)
func (f HandlerFunc) Serve(w io.Writer, req *wire.Request) error {
	return f(w, req)
}

// Router maps the endpoint segment of a request to a handler.
// Matching is exact and case-sensitive; anything unmatched goes to the
// fallback handler, so Dispatch never returns nil.
type Router struct {
	routes   map[string]Handler
	fallback Handler
}

// New creates a router that sends unmatched endpoints to fallback
func New(fallback Handler) *Router {
	return &Router{
		routes:   make(map[string]Handler),
		fallback: fallback,
	}
}

// Handle registers h for endpoint, replacing any earlier registration.
// The empty endpoint is the root path "/".
func (r *Router) Handle(endpoint string, h Handler) {
	r.routes[endpoint] = h
}

// HandleFunc registers a function for endpoint
func (r *Router) HandleFunc(endpoint string, f func(w io.Writer, req *wire.Request) error) {
	r.Handle(endpoint, HandlerFunc(f))
}

// Dispatch returns the handler for the request's endpoint
func (r *Router) Dispatch(req *wire.Request) Handler {
	if h, ok := r.routes[req.Endpoint()]; ok {
		return h
	}
	return r.fallback
}

// Routes returns the registered endpoints in sorted order
func (r *Router) Routes() []string {
	routes := make([]string, 0, len(r.routes))
	for k := range r.routes {
		routes = append(routes, k)
	}
	sort.Strings(routes)
	return routes
}
