package server

import (
	"bytes"
	"testing"
)

func TestResponseWriterStatus(t *testing.T) {
	testCases := []struct {
		name   string
		writes []string
		status int
	}{
		{"single write", []string{"HTTP/1.1 200 OK\r\n\r\n"}, 200},
		{"split status line", []string{"HTTP/1.1 4", "04 Not Found\r\n\r\n"}, 404},
		{"nothing written", nil, 0},
		{"garbage", []string{"hello world"}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			rw := newResponseWriter(&buf, false)
			for _, w := range tc.writes {
				rw.Write([]byte(w))
			}
			if rw.Status() != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, rw.Status())
			}
			if rw.Written() != buf.Len() {
				t.Errorf("Expected %d bytes counted, got %d", buf.Len(), rw.Written())
			}
			if rw.Captured() != nil {
				t.Error("Expected nothing captured when capture is off")
			}
		})
	}
}

func TestResponseWriterCapture(t *testing.T) {
	var buf bytes.Buffer
	rw := newResponseWriter(&buf, true)
	body := bytes.Repeat([]byte("x"), 100)
	rw.Write(append([]byte("HTTP/1.1 201 Created\r\n\r\n"), body...))

	if !bytes.Equal(rw.Captured(), buf.Bytes()) {
		t.Errorf("Expected captured bytes to match the connection, got %q", rw.Captured())
	}
	if rw.Status() != 201 {
		t.Errorf("Expected 201, got %d", rw.Status())
	}
}
