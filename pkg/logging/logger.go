package logging

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/niels/rawhttpd/pkg/config"
	"github.com/rs/zerolog"
)

var (
	// Global logger instance
	globalLogger = NewLogger(false, os.Stderr)
)

// InitGlobalLogger initializes the global logger.
// Without file logging, records go to stderr. With file logging they go to
// a rotating file, and in debug mode to stderr as well.
func InitGlobalLogger(debug bool, cfg *config.Config) {
	var output io.Writer = os.Stderr

	if cfg != nil && cfg.Logging.LogToFile {
		fileLogger := &lumberjack.Logger{
			Filename:   cfg.Logging.LogFilePath,
			MaxSize:    cfg.Logging.MaxSize, // megabytes
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAge, // days
			Compress:   cfg.Logging.Compress,
		}

		if debug {
			output = io.MultiWriter(fileLogger, os.Stderr)
		} else {
			output = fileLogger
			// Tell the console once where the records went
			tempLogger := NewLogger(false, os.Stderr)
			tempLogger.Info().Str("path", cfg.Logging.LogFilePath).Msg("Logging to file only")
		}
	}

	globalLogger = NewLogger(debug, output)
}

// NewLogger creates a new zerolog logger with the specified debug level
func NewLogger(debug bool, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetLogger replaces the global logger
func SetLogger(logger zerolog.Logger) {
	globalLogger = logger
}

// Debug logs a message at debug level
func Debug(msg string) {
	globalLogger.Debug().Msg(msg)
}

// Info logs a message at info level
func Info(msg string) {
	globalLogger.Info().Msg(msg)
}

// Warn logs a message at warn level
func Warn(msg string) {
	globalLogger.Warn().Msg(msg)
}

// Error logs a message at error level
func Error(msg string) {
	globalLogger.Error().Msg(msg)
}

// InfoWith logs a message at info level with additional context
func InfoWith(msg string, fields map[string]interface{}) {
	logWith(globalLogger.Info(), msg, fields)
}

// ErrorWith logs a message at error level with additional context
func ErrorWith(msg string, fields map[string]interface{}) {
	logWith(globalLogger.Error(), msg, fields)
}

// WithComponent returns a logger with the component field set
func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}

// WithConnection returns a logger tagged with the remote address of a connection
func WithConnection(remote string) zerolog.Logger {
	return globalLogger.With().
		Str("component", "conn").
		Str("remote", remote).
		Logger()
}

func logWith(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		event = addField(event, k, v)
	}
	event.Msg(msg)
}

// addField adds a field to the log event based on its type
func addField(event *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return event.Str(key, v)
	case int:
		return event.Int(key, v)
	case int64:
		return event.Int64(key, v)
	case bool:
		return event.Bool(key, v)
	case []byte:
		return event.Bytes(key, v)
	case time.Duration:
		return event.Dur(key, v)
	case time.Time:
		return event.Time(key, v)
	case []string:
		return event.Strs(key, v)
	case error:
		return event.AnErr(key, v)
	default:
		return event.Interface(key, v)
	}
}
