package wire

import "fmt"

// Request is a parsed HTTP request. It is only built by Parse and is
// read-only afterwards.
type Request struct {
	method   string
	endpoint string
	arg      string
	version  string
	headers  Header
	body     []byte
}

// Method returns the request method, e.g. "GET"
func (r *Request) Method() string {
	return r.method
}

// Endpoint returns the first path segment, "" for the root path
func (r *Request) Endpoint() string {
	return r.endpoint
}

// Arg returns the remainder of the path after the endpoint segment
func (r *Request) Arg() string {
	return r.arg
}

// Version returns the HTTP version following "HTTP/", e.g. "1.1"
func (r *Request) Version() string {
	return r.version
}

// Header returns the value of the named header
func (r *Request) Header(name string) (string, bool) {
	return r.headers.Get(name)
}

// Headers returns a copy of all request headers
func (r *Request) Headers() Header {
	return r.headers.Clone()
}

// Body returns a copy of the request body
func (r *Request) Body() []byte {
	body := make([]byte, len(r.body))
	copy(body, r.body)
	return body
}

// ContentLength returns the number of body bytes that were read
func (r *Request) ContentLength() int {
	return len(r.body)
}

// Path rebuilds the request target from the endpoint and arg
func (r *Request) Path() string {
	if r.arg == "" {
		return "/" + r.endpoint
	}
	return "/" + r.endpoint + "/" + r.arg
}

func (r *Request) String() string {
	return fmt.Sprintf("%s %s HTTP/%s (%d headers, %d body bytes)",
		r.method, r.Path(), r.version, len(r.headers), len(r.body))
}
