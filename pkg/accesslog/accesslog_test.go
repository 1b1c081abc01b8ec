package accesslog

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestConsoleRecorderServed(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRecorder().WithWriter(&buf).WithColor(false)

	r.Served(Entry{
		Remote:  "127.0.0.1:5000",
		Method:  "GET",
		Path:    "/echo/abc",
		Status:  200,
		Bytes:   68,
		Elapsed: 250 * time.Microsecond,
	})

	output := buf.String()
	for _, expected := range []string{"127.0.0.1:5000", "GET", "/echo/abc", "200", "68B", "250µs"} {
		if !strings.Contains(output, expected) {
			t.Errorf("Expected output to contain %q, got: %s", expected, output)
		}
	}
	if strings.Contains(output, "\033[") {
		t.Errorf("Expected no ANSI codes with colour disabled, got: %q", output)
	}
}

func TestConsoleRecorderColor(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRecorder().WithWriter(&buf).WithColor(true)

	r.Served(Entry{Method: "GET", Path: "/", Status: 200})
	if !strings.Contains(buf.String(), "\033[32m") {
		t.Errorf("Expected green status, got: %q", buf.String())
	}
	buf.Reset()

	r.Served(Entry{Method: "GET", Path: "/nope", Status: 404})
	if !strings.Contains(buf.String(), "\033[33m") {
		t.Errorf("Expected yellow status, got: %q", buf.String())
	}
}

func TestConsoleRecorderSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRecorder().WithWriter(&buf).WithColor(false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				r.Served(Entry{Method: "GET", Path: "/", Status: 200})
			case 1:
				r.Served(Entry{Method: "POST", Path: "/files/x", Err: errors.New("disk full")})
			default:
				r.Rejected("127.0.0.1:1", errors.New("bad request line"))
			}
		}(i)
	}
	wg.Wait()

	summary := r.Summary()
	if summary.Served != 4 || summary.Failed != 3 || summary.Rejected != 3 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 10 {
		t.Errorf("Expected 10 lines, got %d", lines)
	}
	if !strings.Contains(buf.String(), "REJECTED") || !strings.Contains(buf.String(), "disk full") {
		t.Errorf("Expected rejection and error text, got: %s", buf.String())
	}
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.Served(Entry{})
	r.Rejected("", nil)
}
