package wire

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

var (
	crlf       = []byte("\r\n")
	blankLine  = []byte("\r\n\r\n")
	httpPrefix = []byte("HTTP/")
)

// ErrIncomplete reports that the buffer ended before the declared body did.
// The server reads once, so this is fatal rather than a request for more data.
var ErrIncomplete = errors.New("incomplete request")

// Stage names the part of the request a parse failure occurred in
type Stage string

const (
	StageRequestLine Stage = "request line"
	StageHeaders     Stage = "headers"
	StageBody        Stage = "body"
)

// ParseError is returned by Parse for any malformed or truncated request
type ParseError struct {
	Stage Stage
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %s: %s: %v", e.Stage, e.Msg, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Stage, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ContentLengthHeader is the only header the parser interprets
const ContentLengthHeader = "Content-Length"

// Parse turns a raw buffer into a Request. The grammar is checked left to
// right in three phases with no backtracking: the request line, the headers
// up to the first blank line, then exactly Content-Length bytes of body.
// Bytes after the body are ignored.
//
// A missing or non-numeric Content-Length is treated as 0.
func Parse(buf []byte) (*Request, error) {
	lineEnd := bytes.Index(buf, crlf)
	if lineEnd < 0 {
		return nil, &ParseError{Stage: StageRequestLine, Msg: "no CRLF-terminated request line"}
	}

	req := &Request{}
	if err := parseRequestLine(buf[:lineEnd], req); err != nil {
		return nil, err
	}

	// Search from the request line's own CRLF so that a request without
	// headers ("...HTTP/1.1\r\n\r\n") has an empty header block.
	rest := buf[lineEnd:]
	blank := bytes.Index(rest, blankLine)
	if blank < 0 {
		return nil, &ParseError{Stage: StageHeaders, Msg: "header block is not terminated by a blank line"}
	}

	var block []byte
	if blank > 0 {
		block = rest[len(crlf):blank]
	}
	headers, err := parseHeaders(block)
	if err != nil {
		return nil, err
	}
	req.headers = headers

	body := rest[blank+len(blankLine):]
	n := contentLength(headers)
	if n > uint64(len(body)) {
		return nil, &ParseError{
			Stage: StageBody,
			Msg:   fmt.Sprintf("declared %d bytes, %d available", n, len(body)),
			Err:   ErrIncomplete,
		}
	}
	req.body = append([]byte(nil), body[:n]...)

	return req, nil
}

// parseRequestLine matches <method> /<endpoint>[/<arg>] HTTP/<version>
func parseRequestLine(line []byte, req *Request) error {
	fail := func(format string, args ...interface{}) error {
		return &ParseError{Stage: StageRequestLine, Msg: fmt.Sprintf(format, args...)}
	}

	i := 0
	for i < len(line) && isLetter(line[i]) {
		i++
	}
	if i == 0 {
		return fail("method must be one or more ASCII letters: %q", line)
	}
	method := line[:i]
	line = line[i:]

	if !bytes.HasPrefix(line, []byte(" /")) {
		return fail("expected \" /\" after method %q", method)
	}
	line = line[2:]

	i = 0
	for i < len(line) && line[i] != '/' && line[i] != ' ' {
		i++
	}
	endpoint := line[:i]
	line = line[i:]
	if len(line) > 0 && line[0] == '/' {
		line = line[1:]
	}

	i = bytes.IndexByte(line, ' ')
	if i < 0 {
		return fail("missing HTTP version")
	}
	arg := line[:i]
	line = line[i+1:]

	if !bytes.HasPrefix(line, httpPrefix) {
		return fail("expected %q, got %q", httpPrefix, line)
	}
	version := line[len(httpPrefix):]
	if len(version) == 0 {
		return fail("empty HTTP version")
	}
	for _, c := range version {
		if !isVersionByte(c) {
			return fail("invalid HTTP version %q", version)
		}
	}

	if !utf8.Valid(endpoint) || !utf8.Valid(arg) {
		return fail("path is not valid UTF-8")
	}

	req.method = string(method)
	req.endpoint = string(endpoint)
	req.arg = string(arg)
	req.version = string(version)
	return nil
}

// parseHeaders matches CRLF-separated "<name>: <value>" lines
func parseHeaders(block []byte) (Header, error) {
	headers := make(Header)
	if len(block) == 0 {
		return headers, nil
	}

	for _, line := range bytes.Split(block, crlf) {
		n := 0
		for n < len(line) && (isLetter(line[n]) || line[n] == '-') {
			n++
		}
		if n == 0 {
			return nil, &ParseError{Stage: StageHeaders, Msg: fmt.Sprintf("invalid header name in %q", line)}
		}
		if !bytes.HasPrefix(line[n:], []byte(": ")) {
			return nil, &ParseError{Stage: StageHeaders, Msg: fmt.Sprintf("expected \": \" after header %q", line[:n])}
		}
		value := line[n+2:]
		if bytes.ContainsAny(value, "\r\n") {
			return nil, &ParseError{Stage: StageHeaders, Msg: fmt.Sprintf("stray line break in header %q", line[:n])}
		}
		headers[string(line[:n])] = string(value)
	}
	return headers, nil
}

// contentLength stays unsigned 64-bit until it has been checked against the
// buffer, so a huge declared length is never wrapped or mistaken for 0
func contentLength(h Header) uint64 {
	v, ok := h[ContentLengthHeader]
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isVersionByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}
