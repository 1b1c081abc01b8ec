package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestStatusText(t *testing.T) {
	testCases := []struct {
		status Status
		text   string
	}{
		{StatusOK, "200 OK"},
		{StatusCreated, "201 Created"},
		{StatusNotFound, "404 Not Found"},
	}

	for _, tc := range testCases {
		if tc.status.Text() != tc.text {
			t.Errorf("Expected %q, got %q", tc.text, tc.status.Text())
		}
		if tc.status.String() != tc.text {
			t.Errorf("Expected String() %q, got %q", tc.text, tc.status.String())
		}
	}
}

func TestResponseBytesNoHeaders(t *testing.T) {
	resp := NewResponse(StatusNotFound, nil)
	expected := "HTTP/1.1 404 Not Found\r\n\r\n"
	if string(resp.Bytes()) != expected {
		t.Errorf("Expected %q, got %q", expected, resp.Bytes())
	}
}

func TestResponseBytesWithHeaders(t *testing.T) {
	resp := NewResponse(StatusOK, []byte("abc"))
	resp.AddHeader("Content-Type", "text/plain")
	resp.AddHeader("Content-Length", "3")

	expected := "HTTP/1.1 200 OK\r\n" +
		"Content-Length: 3\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"abc"
	if resp.String() != expected {
		t.Errorf("Expected %q, got %q", expected, resp.String())
	}
}

func TestAddHeaderOverwrites(t *testing.T) {
	resp := NewResponse(StatusOK, nil)
	resp.AddHeader("Content-Length", "1")
	resp.AddHeader("Content-Length", "2")

	if v, _ := resp.Header("Content-Length"); v != "2" {
		t.Errorf("Expected overwritten value '2', got %q", v)
	}
	if bytes.Count(resp.Bytes(), []byte("Content-Length")) != 1 {
		t.Errorf("Expected a single Content-Length line, got %q", resp.Bytes())
	}
}

func TestResponseBinaryBody(t *testing.T) {
	body := []byte{0x00, 0xff, 0xfe, '\r', '\n'}
	resp := NewResponse(StatusOK, body)
	out := resp.Bytes()
	if !bytes.HasSuffix(out, body) {
		t.Errorf("Expected raw body bytes at the end, got %q", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestResponseWriteTo(t *testing.T) {
	resp := NewResponse(StatusCreated, nil)

	var buf bytes.Buffer
	n, err := resp.WriteTo(&buf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("Expected %d bytes written, got %d", buf.Len(), n)
	}
	if buf.String() != "HTTP/1.1 201 Created\r\n\r\n" {
		t.Errorf("Unexpected output %q", buf.String())
	}

	if _, err := resp.WriteTo(failingWriter{}); err == nil {
		t.Error("Expected write error to be returned")
	}
}
