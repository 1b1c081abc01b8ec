package wire

import (
	"bytes"
	"io"
)

// DefaultVersion is the HTTP version written on every status line
const DefaultVersion = "1.1"

// Response is built by a handler, serialized once and discarded
type Response struct {
	version string
	status  Status
	headers Header
	body    []byte
}

// NewResponse creates a response with the given status and body
func NewResponse(status Status, body []byte) *Response {
	return &Response{
		version: DefaultVersion,
		status:  status,
		headers: make(Header),
		body:    body,
	}
}

// AddHeader sets a header, overwriting any existing value for name.
// Values are written verbatim; callers must supply wire-safe text.
func (r *Response) AddHeader(name, value string) {
	r.headers.Set(name, value)
}

// Status returns the response status
func (r *Response) Status() Status {
	return r.status
}

// Header returns the value of the named response header
func (r *Response) Header(name string) (string, bool) {
	return r.headers.Get(name)
}

// Body returns the response body
func (r *Response) Body() []byte {
	return r.body
}

// Bytes returns the serialized response:
//
//	HTTP/<version> <status-text>\r\n
//	<name>: <value>\r\n ...
//	\r\n
//	<body>
func (r *Response) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("HTTP/")
	buf.WriteString(r.version)
	buf.WriteByte(' ')
	buf.WriteString(r.status.Text())
	buf.WriteString("\r\n")
	for _, name := range r.headers.names() {
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(r.headers[name])
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	buf.Write(r.body)
	return buf.Bytes()
}

// WriteTo writes the serialized response to w in a single write
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}

func (r *Response) String() string {
	return string(r.Bytes())
}
