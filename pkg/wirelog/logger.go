package wirelog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/quick"
)

// Logger appends raw request/response exchanges to a file
type Logger struct {
	file    *os.File
	enabled bool
	mu      sync.Mutex
}

// NewLogger creates a wire logger. A disabled logger accepts and drops
// every exchange.
func NewLogger(enabled bool, logFile string) (*Logger, error) {
	if !enabled || logFile == "" {
		return &Logger{enabled: false}, nil
	}

	dir := filepath.Dir(logFile)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create wire log directory: %w", err)
		}
	}

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open wire log: %w", err)
	}

	return &Logger{
		file:    file,
		enabled: true,
	}, nil
}

// Enabled reports whether exchanges are written anywhere
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// LogExchange writes one request and the response sent for it. response
// is empty when the connection was closed without answering.
func (l *Logger) LogExchange(remote string, request, response []byte) error {
	if !l.Enabled() || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format(time.RFC3339)
	entry := fmt.Sprintf("\n===== EXCHANGE [%s] %s =====\n", timestamp, remote)
	entry += "--- request ---\n" + string(request) + "\n"
	entry += "--- response ---\n" + string(response) + "\n"
	entry += "===== END EXCHANGE =====\n"

	if _, err := l.file.WriteString(entry); err != nil {
		return err
	}
	return l.file.Sync()
}

// Highlight renders an HTTP message for a terminal. It falls back to the
// plain bytes when no HTTP lexer is available.
func Highlight(w io.Writer, message []byte) error {
	if lexers.Get("http") == nil {
		_, err := w.Write(message)
		return err
	}
	return quick.Highlight(w, string(message), "http", "terminal16m", "monokai")
}
