// Package endpoint implements the fixed set of routes the server answers:
// the root path, echo, user-agent, files and the not-found fallback.
package endpoint

import (
	"fmt"
	"io"
	"strconv"

	"github.com/niels/rawhttpd/pkg/router"
	"github.com/niels/rawhttpd/pkg/store"
	"github.com/niels/rawhttpd/pkg/wire"
)

const (
	contentTypeText   = "text/plain"
	contentTypeBinary = "application/octet-stream"

	userAgentHeader = "User-Agent"
)

// Route names as they appear in the first path segment
const (
	RouteRoot      = ""
	RouteEcho      = "echo"
	RouteUserAgent = "user-agent"
	RouteFiles     = "files"
)

// NewRouter builds the server's dispatch table. Files are served from s.
func NewRouter(s store.ByteStore) *router.Router {
	r := router.New(router.HandlerFunc(NotFound))
	r.HandleFunc(RouteRoot, Root)
	r.HandleFunc(RouteEcho, Echo)
	r.HandleFunc(RouteUserAgent, UserAgent)
	r.Handle(RouteFiles, NewFiles(s))
	return r
}

// Root answers 200 with an empty body for any method
func Root(w io.Writer, req *wire.Request) error {
	return write(w, wire.NewResponse(wire.StatusOK, nil))
}

// Echo answers with the rest of the path as a text body
func Echo(w io.Writer, req *wire.Request) error {
	return write(w, withBody(wire.StatusOK, []byte(req.Arg()), contentTypeText))
}

// UserAgent answers with the User-Agent request header, or an empty body
func UserAgent(w io.Writer, req *wire.Request) error {
	agent, _ := req.Header(userAgentHeader)
	return write(w, withBody(wire.StatusOK, []byte(agent), contentTypeText))
}

// NotFound answers 404 with an empty body
func NotFound(w io.Writer, req *wire.Request) error {
	return write(w, wire.NewResponse(wire.StatusNotFound, nil))
}

// withBody creates a response carrying Content-Type and Content-Length
func withBody(status wire.Status, body []byte, contentType string) *wire.Response {
	resp := wire.NewResponse(status, body)
	resp.AddHeader("Content-Type", contentType)
	resp.AddHeader(wire.ContentLengthHeader, strconv.Itoa(len(body)))
	return resp
}

func write(w io.Writer, resp *wire.Response) error {
	if _, err := resp.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s response: %w", resp.Status(), err)
	}
	return nil
}
