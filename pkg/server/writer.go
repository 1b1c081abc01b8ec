package server

import (
	"bytes"
	"io"
	"strconv"
)

// statusLineLen is enough of the response to hold "HTTP/<version> <code> "
const statusLineLen = 32

// responseWriter wraps a connection to see what a handler wrote
type responseWriter struct {
	w       io.Writer
	written int
	head    []byte
	capture *bytes.Buffer
}

func newResponseWriter(w io.Writer, capture bool) *responseWriter {
	rw := &responseWriter{w: w}
	if capture {
		rw.capture = &bytes.Buffer{}
	}
	return rw
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	n, err := rw.w.Write(p)
	if missing := statusLineLen - len(rw.head); missing > 0 {
		if missing > n {
			missing = n
		}
		rw.head = append(rw.head, p[:missing]...)
	}
	if rw.capture != nil {
		rw.capture.Write(p[:n])
	}
	rw.written += n
	return n, err
}

// Written returns the number of bytes that reached the connection
func (rw *responseWriter) Written() int {
	return rw.written
}

// Status returns the code on the status line written so far, 0 if none
func (rw *responseWriter) Status() int {
	fields := bytes.SplitN(rw.head, []byte(" "), 3)
	if len(fields) < 3 {
		return 0
	}
	code, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return 0
	}
	return code
}

// Captured returns the full response when capturing was requested
func (rw *responseWriter) Captured() []byte {
	if rw.capture == nil {
		return nil
	}
	return rw.capture.Bytes()
}
