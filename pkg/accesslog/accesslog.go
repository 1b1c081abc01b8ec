package accesslog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Entry describes one completed request/response exchange
type Entry struct {
	Remote  string
	Method  string
	Path    string
	Status  int // 0 when no response was written
	Bytes   int
	Elapsed time.Duration
	Err     error
}

// Recorder receives one call per connection
type Recorder interface {
	// Served is called after a request was parsed and dispatched
	Served(e Entry)
	// Rejected is called when a connection was closed without a response
	Rejected(remote string, err error)
}

// Summary counts what a recorder has seen
type Summary struct {
	Served   int
	Failed   int
	Rejected int
}

// ConsoleRecorder prints one coloured line per exchange
type ConsoleRecorder struct {
	mu      sync.Mutex
	writer  io.Writer
	summary Summary

	ok      *color.Color
	missing *color.Color
	fail    *color.Color
}

// NewConsoleRecorder creates a recorder writing to stdout
func NewConsoleRecorder() *ConsoleRecorder {
	return &ConsoleRecorder{
		writer:  os.Stdout,
		ok:      color.New(color.FgGreen),
		missing: color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
	}
}

// WithWriter sets the writer for the console recorder
func (r *ConsoleRecorder) WithWriter(writer io.Writer) *ConsoleRecorder {
	r.writer = writer
	return r
}

// WithColor forces colour output on or off
func (r *ConsoleRecorder) WithColor(enabled bool) *ConsoleRecorder {
	for _, c := range []*color.Color{r.ok, r.missing, r.fail} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Served implements Recorder
func (r *ConsoleRecorder) Served(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var status string
	switch {
	case e.Err != nil:
		r.summary.Failed++
		status = r.fail.Sprint("ERR")
	case e.Status >= 200 && e.Status < 300:
		r.summary.Served++
		status = r.ok.Sprint(e.Status)
	default:
		r.summary.Served++
		status = r.missing.Sprint(e.Status)
	}

	line := fmt.Sprintf("%s %s %s %s %dB %s",
		e.Remote, e.Method, e.Path, status, e.Bytes, e.Elapsed.Round(time.Microsecond))
	if e.Err != nil {
		line += " " + r.fail.Sprint(e.Err.Error())
	}
	fmt.Fprintln(r.writer, line)
}

// Rejected implements Recorder
func (r *ConsoleRecorder) Rejected(remote string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.Rejected++
	fmt.Fprintf(r.writer, "%s %s %v\n", remote, r.fail.Sprint("REJECTED"), err)
}

// Summary returns the counts recorded so far
func (r *ConsoleRecorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Nop discards everything
type Nop struct{}

// Served implements Recorder
func (Nop) Served(Entry) {}

// Rejected implements Recorder
func (Nop) Rejected(string, error) {}
